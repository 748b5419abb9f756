// Package database - Index bổ sung cho generation/credit (nested fields, compound) không thể định nghĩa qua model tags.
package database

import (
	"context"
	"strings"

	"film_studio/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateGenerationAdditionalIndexes tạo các index bổ sung cho generation và credit.
// Gọi sau CreateIndexes cho từng collection tương ứng.
func CreateGenerationAdditionalIndexes(ctx context.Context, db *mongo.Database) error {
	// story_units: (projectId, sceneId, order) — duyệt unit theo thứ tự phân cảnh
	storyUnits := db.Collection(global.MongoDB_ColNames.StoryUnits)
	if _, err := storyUnits.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "projectId", Value: 1},
			{Key: "sceneId", Value: 1},
			{Key: "order", Value: 1},
		},
		Options: options.Index().SetName("story_unit_project_scene_order"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// story_units: (versions.provider, versions.language) multikey — tìm unit đã có version mục tiêu
	if _, err := storyUnits.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "versions.provider", Value: 1},
			{Key: "versions.language", Value: 1},
		},
		Options: options.Index().SetName("story_unit_version_key").SetSparse(true),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// generation_jobs: (unitId, status) — poller và worker lọc job đang chạy theo unit
	generationJobs := db.Collection(global.MongoDB_ColNames.GenerationJobs)
	if _, err := generationJobs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "unitId", Value: 1},
			{Key: "status", Value: 1},
		},
		Options: options.Index().SetName("generation_job_unit_status"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// generation_jobs: (status, updatedAt) — worker tìm job processing bị bỏ rơi
	if _, err := generationJobs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "updatedAt", Value: 1},
		},
		Options: options.Index().SetName("generation_job_status_updated"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// credit_spends: jobId unique — mỗi job chỉ trừ credit đúng một lần
	creditSpends := db.Collection(global.MongoDB_ColNames.CreditSpends)
	if _, err := creditSpends.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "jobId", Value: 1},
		},
		Options: options.Index().SetName("credit_spend_job_unique").SetUnique(true),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// approval_regenerations: (unitId, status) — chặn hai yêu cầu đang mở trên cùng unit
	approvalRegens := db.Collection(global.MongoDB_ColNames.ApprovalRegenerations)
	if _, err := approvalRegens.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "unitId", Value: 1},
			{Key: "status", Value: 1},
		},
		Options: options.Index().SetName("approval_regen_unit_status"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	return nil
}

func isIndexExistsError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "already exists") || strings.Contains(s, "duplicate")
}
