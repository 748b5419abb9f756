package storysvc

import (
	"context"
	"fmt"
	"time"

	basesvc "film_studio/internal/api/base/service"
	models "film_studio/internal/api/story/models"
	"film_studio/internal/common"
	"film_studio/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StoryUnitService là cấu trúc chứa các phương thức liên quan đến content unit
// và kho phiên bản media của unit (versions + activeVersionKey).
type StoryUnitService struct {
	*basesvc.BaseServiceMongoImpl[models.ContentUnit]
	projectService *StoryProjectService
	sceneService   *StorySceneService
}

// NewStoryUnitService tạo mới StoryUnitService
func NewStoryUnitService() (*StoryUnitService, error) {
	col, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.StoryUnits)
	if !exist {
		return nil, fmt.Errorf("failed to get story_units collection: %v", common.ErrNotFound)
	}

	projectService, err := NewStoryProjectService()
	if err != nil {
		return nil, err
	}
	sceneService, err := NewStorySceneService()
	if err != nil {
		return nil, err
	}

	return &StoryUnitService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.ContentUnit](col),
		projectService:       projectService,
		sceneService:         sceneService,
	}, nil
}

// CreateUnit tạo content unit mới sau khi kiểm tra:
// - Dự án thuộc về owner
// - Phân cảnh tồn tại và thuộc đúng dự án
func (s *StoryUnitService) CreateUnit(ctx context.Context, unit models.ContentUnit) (models.ContentUnit, error) {
	var zero models.ContentUnit

	if _, err := s.projectService.ValidateProjectOwner(ctx, unit.ProjectID, unit.OwnerID); err != nil {
		return zero, err
	}

	scene, err := s.sceneService.FindOneById(ctx, unit.SceneID)
	if err != nil {
		return zero, common.NewError(
			common.ErrCodeValidationInput,
			"Phân cảnh không tồn tại",
			common.StatusNotFound,
			nil,
		)
	}
	if scene.ProjectID != unit.ProjectID {
		return zero, common.NewError(
			common.ErrCodeValidationInput,
			"Phân cảnh không thuộc dự án đã chỉ định",
			common.StatusBadRequest,
			nil,
		)
	}

	if unit.Order == 0 {
		count, err := s.CountDocuments(ctx, bson.M{"sceneId": unit.SceneID})
		if err != nil {
			return zero, err
		}
		unit.Order = int(count) + 1
	}

	return s.InsertOne(ctx, unit)
}

// FindByScene trả về các unit của một phân cảnh theo thứ tự.
func (s *StoryUnitService) FindByScene(ctx context.Context, sceneID primitive.ObjectID) ([]models.ContentUnit, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
	return s.Find(ctx, bson.M{"sceneId": sceneID}, opts)
}

// FindByProject trả về toàn bộ unit của một dự án theo (sceneId, order).
func (s *StoryUnitService) FindByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.ContentUnit, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sceneId", Value: 1}, {Key: "order", Value: 1}})
	return s.Find(ctx, bson.M{"projectId": projectID}, opts)
}

// ===========================================
// KHO PHIÊN BẢN MEDIA (versions của unit)
// ===========================================
//
// Các thao tác dưới đây luôn đọc lại unit mới nhất từ DB ngay trước khi ghi,
// không dùng bản unit đã giữ từ trước đó. Pipeline sinh media chạy nền có thể
// giữ unit đã cũ trong closure; đọc lại tránh ghi đè phiên bản vừa được thêm
// bởi thao tác khác.

// UpsertArtifactVersion ghi một phiên bản media vào unit: thay thế phiên bản
// cùng (provider, language) nếu đã có, thêm mới nếu chưa. Unit chưa có phiên
// bản active thì phiên bản vừa ghi trở thành active.
func (s *StoryUnitService) UpsertArtifactVersion(ctx context.Context, unitID primitive.ObjectID, version models.ArtifactVersion) (models.ContentUnit, error) {
	var zero models.ContentUnit

	unit, err := s.FindOneById(ctx, unitID)
	if err != nil {
		return zero, err
	}

	if version.CreatedAt == 0 {
		version.CreatedAt = time.Now().UnixMilli()
	}

	versions, key := models.UpsertVersion(unit.Versions, version)
	activeKey := unit.ActiveVersionKey
	if activeKey == "" {
		activeKey = key
	}

	return s.UpdateById(ctx, unitID, &basesvc.UpdateData{
		Set: map[string]interface{}{
			"versions":         versions,
			"activeVersionKey": activeKey,
			"updatedAt":        time.Now().UnixMilli(),
		},
	})
}

// SelectArtifactVersion chuyển con trỏ active của unit sang phiên bản
// (provider, language). Phiên bản không tồn tại là lỗi, không tự tạo.
func (s *StoryUnitService) SelectArtifactVersion(ctx context.Context, unitID primitive.ObjectID, provider string, language string) (models.ContentUnit, error) {
	var zero models.ContentUnit

	unit, err := s.FindOneById(ctx, unitID)
	if err != nil {
		return zero, err
	}

	key := models.VersionKey(provider, language)
	if models.FindVersion(unit.Versions, key) == nil {
		return zero, common.NewError(
			common.ErrCodeBusinessState,
			fmt.Sprintf("Unit chưa có phiên bản %s", key),
			common.StatusNotFound,
			nil,
		)
	}

	return s.UpdateById(ctx, unitID, &basesvc.UpdateData{
		Set: map[string]interface{}{
			"activeVersionKey": key,
			"updatedAt":        time.Now().UnixMilli(),
		},
	})
}

// RemoveArtifactVersion xóa phiên bản (provider, language) khỏi unit.
// Xóa phiên bản đang active thì phiên bản đầu tiên còn lại (theo thứ tự chèn)
// được kích hoạt thay thế, hết phiên bản thì con trỏ active bị xóa.
// Key không tồn tại: trả về unit hiện tại, không đổi dữ liệu.
func (s *StoryUnitService) RemoveArtifactVersion(ctx context.Context, unitID primitive.ObjectID, provider string, language string) (models.ContentUnit, error) {
	var zero models.ContentUnit

	unit, err := s.FindOneById(ctx, unitID)
	if err != nil {
		return zero, err
	}

	key := models.VersionKey(provider, language)
	versions, activeKey := models.RemoveVersion(unit.Versions, unit.ActiveVersionKey, key)
	if len(versions) == len(unit.Versions) {
		// Không có phiên bản nào bị xóa
		return unit, nil
	}

	update := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"updatedAt": time.Now().UnixMilli(),
		},
	}
	if len(versions) > 0 {
		update.Set["versions"] = versions
	} else {
		update.Unset = map[string]interface{}{"versions": ""}
	}
	if activeKey != "" {
		update.Set["activeVersionKey"] = activeKey
	} else {
		if update.Unset == nil {
			update.Unset = map[string]interface{}{}
		}
		update.Unset["activeVersionKey"] = ""
	}

	return s.UpdateById(ctx, unitID, update)
}
