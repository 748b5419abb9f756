package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trạng thái của một batch sinh hàng loạt.
const (
	BatchStatusRunning   = "running"   // Đang chạy tuần tự qua các unit
	BatchStatusCompleted = "completed" // Đã chạy hết danh sách unit
	BatchStatusAborted   = "aborted"   // Dừng giữa chừng vì hết credit
	BatchStatusCancelled = "cancelled" // Người dùng chủ động hủy
)

// Phạm vi của batch.
const (
	BatchScopeScene   = "scene"   // Sinh cho toàn bộ unit của một phân cảnh
	BatchScopeProject = "project" // Sinh cho toàn bộ unit của dự án
)

// GenerationBatch là bản ghi server-side của một lần sinh hàng loạt
type GenerationBatch struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	ProjectID primitive.ObjectID  `json:"projectId" bson:"projectId" index:"single:1"`
	SceneID   *primitive.ObjectID `json:"sceneId,omitempty" bson:"sceneId,omitempty"` // Chỉ có khi scope=scene
	Scope     string              `json:"scope" bson:"scope"`                         // scene, project

	Provider string `json:"provider" bson:"provider"` // Provider mục tiêu của batch
	Language string `json:"language" bson:"language"` // Ngôn ngữ mục tiêu
	Kind     string `json:"kind" bson:"kind"`         // speech, music, image

	UnitIDs []primitive.ObjectID `json:"unitIds" bson:"unitIds"` // Danh sách unit theo thứ tự xử lý

	Status      string `json:"status" bson:"status" index:"single:1"` // running, completed, aborted, cancelled
	AbortReason string `json:"abortReason,omitempty" bson:"abortReason,omitempty"`

	TotalUnits     int `json:"totalUnits" bson:"totalUnits"`
	CompletedUnits int `json:"completedUnits" bson:"completedUnits"`
	SkippedUnits   int `json:"skippedUnits" bson:"skippedUnits"`
	FailedUnits    int `json:"failedUnits" bson:"failedUnits"`

	OwnerID primitive.ObjectID `json:"ownerId" bson:"ownerId" index:"single:1"`

	StartedAt   int64 `json:"startedAt,omitempty" bson:"startedAt,omitempty"`
	CompletedAt int64 `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
	CreatedAt   int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64 `json:"updatedAt" bson:"updatedAt"`
}
