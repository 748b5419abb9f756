package storysvc

import (
	"context"
	"fmt"

	basesvc "film_studio/internal/api/base/service"
	models "film_studio/internal/api/story/models"
	"film_studio/internal/common"
	"film_studio/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StorySceneService là cấu trúc chứa các phương thức liên quan đến phân cảnh
type StorySceneService struct {
	*basesvc.BaseServiceMongoImpl[models.StoryScene]
	projectService *StoryProjectService
}

// NewStorySceneService tạo mới StorySceneService
func NewStorySceneService() (*StorySceneService, error) {
	col, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.StoryScenes)
	if !exist {
		return nil, fmt.Errorf("failed to get story_scenes collection: %v", common.ErrNotFound)
	}

	projectService, err := NewStoryProjectService()
	if err != nil {
		return nil, err
	}

	return &StorySceneService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.StoryScene](col),
		projectService:       projectService,
	}, nil
}

// CreateScene tạo phân cảnh mới sau khi kiểm tra dự án thuộc về owner.
// Nếu Order chưa chỉ định (0), phân cảnh được xếp vào cuối dự án.
func (s *StorySceneService) CreateScene(ctx context.Context, scene models.StoryScene) (models.StoryScene, error) {
	var zero models.StoryScene

	if _, err := s.projectService.ValidateProjectOwner(ctx, scene.ProjectID, scene.OwnerID); err != nil {
		return zero, err
	}

	if scene.Order == 0 {
		count, err := s.CountDocuments(ctx, bson.M{"projectId": scene.ProjectID})
		if err != nil {
			return zero, err
		}
		scene.Order = int(count) + 1
	}

	return s.InsertOne(ctx, scene)
}

// FindByProject trả về các phân cảnh của một dự án theo thứ tự.
func (s *StorySceneService) FindByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.StoryScene, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
	return s.Find(ctx, bson.M{"projectId": projectID}, opts)
}
