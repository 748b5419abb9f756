// Package storysvc - service cho dự án phim, phân cảnh và content unit.
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
)

// StoryProjectService là cấu trúc chứa các phương thức liên quan đến dự án phim
type StoryProjectService struct {
	*basesvc.BaseServiceMongoImpl[models.StoryProject]
}

// NewStoryProjectService tạo mới StoryProjectService
func NewStoryProjectService() (*StoryProjectService, error) {
	col, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.StoryProjects)
	if !exist {
		return nil, fmt.Errorf("failed to get story_projects collection: %v", common.ErrNotFound)
	}

	return &StoryProjectService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.StoryProject](col),
	}, nil
}

// ValidateProjectOwner kiểm tra dự án tồn tại và thuộc về owner, trả về dự án.
// Dùng khi tạo phân cảnh / unit để đảm bảo không gắn dữ liệu vào dự án của người khác.
func (s *StoryProjectService) ValidateProjectOwner(ctx context.Context, projectID primitive.ObjectID, ownerID primitive.ObjectID) (*models.StoryProject, error) {
	project, err := s.FindOne(ctx, bson.M{"_id": projectID, "ownerId": ownerID}, nil)
	if err != nil {
		return nil, common.NewError(
			common.ErrCodeAuthOwnership,
			"Dự án không tồn tại hoặc không thuộc quyền sở hữu của bạn",
			common.StatusNotFound,
			nil,
		)
	}
	return &project, nil
}
