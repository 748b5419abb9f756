package approvalsvc

import (
	"context"
	"fmt"
	"sync"
	"time"

	models "film_studio/internal/api/approval/models"
	authsvc "film_studio/internal/api/auth/service"
	basesvc "film_studio/internal/api/base/service"
	storymodels "film_studio/internal/api/story/models"
	storysvc "film_studio/internal/api/story/service"
	"film_studio/internal/common"
	"film_studio/internal/global"
	"film_studio/internal/mailer"
	"film_studio/internal/utility"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DeletionService quản lý yêu cầu xóa phiên bản media:
// pending → approved (xóa thực thi ngay) hoặc rejected.
type DeletionService struct {
	*basesvc.BaseServiceMongoImpl[models.DeletionRequest]

	unitService *storysvc.StoryUnitService
	userService *authsvc.UserService
	mail        *mailer.Mailer
}

var (
	deletionServiceInstance *DeletionService
	deletionServiceOnce     sync.Once
	deletionServiceErr      error
)

// GetDeletionService trả về singleton DeletionService.
func GetDeletionService() (*DeletionService, error) {
	deletionServiceOnce.Do(func() {
		deletionServiceInstance, deletionServiceErr = newDeletionService()
	})
	return deletionServiceInstance, deletionServiceErr
}

func newDeletionService() (*DeletionService, error) {
	col, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.ApprovalDeletions)
	if !exist {
		return nil, fmt.Errorf("failed to get approval_deletions collection: %v", common.ErrNotFound)
	}

	unitService, err := storysvc.NewStoryUnitService()
	if err != nil {
		return nil, err
	}
	userService, err := authsvc.NewUserService()
	if err != nil {
		return nil, err
	}

	return &DeletionService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.DeletionRequest](col),
		unitService:          unitService,
		userService:          userService,
		mail:                 mailer.NewMailer(global.MongoDB_ServerConfig),
	}, nil
}

// CreateRequest tạo yêu cầu xóa một phiên bản media của unit. Chỉ người KHÔNG
// sở hữu dự án mới cần đi qua quy trình duyệt; phiên bản phải đang tồn tại.
func (s *DeletionService) CreateRequest(ctx context.Context, requesterID primitive.ObjectID, unitID primitive.ObjectID, provider string, language string, reason string) (models.DeletionRequest, error) {
	var zero models.DeletionRequest

	unit, err := s.unitService.FindOneById(ctx, unitID)
	if err != nil {
		return zero, err
	}
	if unit.OwnerID == requesterID {
		return zero, common.NewError(
			common.ErrCodeBusinessState,
			"Chủ sở hữu dự án xóa phiên bản trực tiếp, không cần yêu cầu duyệt",
			common.StatusConflict,
			nil,
		)
	}
	if !unit.HasVersion(provider, language) {
		return zero, common.NewError(
			common.ErrCodeBusinessState,
			fmt.Sprintf("Unit không có phiên bản %s", storymodels.VersionKey(provider, language)),
			common.StatusNotFound,
			nil,
		)
	}

	now := time.Now().UnixMilli()
	request := models.DeletionRequest{
		UnitID:      unit.ID,
		ProjectID:   unit.ProjectID,
		RequestedBy: requesterID,
		OwnerID:     unit.OwnerID,
		VersionKey:  storymodels.VersionKey(provider, language),
		Status:      models.DeletionStatusPending,
		Reason:      reason,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	request, err = s.InsertOne(ctx, request)
	if err != nil {
		return zero, err
	}

	s.notifyOwner(request.OwnerID, request.ID.Hex(), reason)
	return request, nil
}

func (s *DeletionService) notifyOwner(ownerID primitive.ObjectID, requestID string, reason string) {
	go utility.GoProtect(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		owner, err := s.userService.FindOneById(ctx, ownerID)
		if err != nil {
			return
		}
		s.mail.NotifyApprovalRequest(owner.Email, "xóa phiên bản media", requestID, reason)
	})
}

// findPending đọc yêu cầu mới nhất và chặn yêu cầu đã được xử lý.
func (s *DeletionService) findPending(ctx context.Context, requestID primitive.ObjectID, callerID primitive.ObjectID) (models.DeletionRequest, error) {
	request, err := s.FindOneById(ctx, requestID)
	if err != nil {
		return request, err
	}
	if request.OwnerID != callerID {
		return request, common.ErrNotOwner
	}
	if request.Status != models.DeletionStatusPending {
		return request, common.NewError(
			common.ErrCodeBusinessState,
			fmt.Sprintf("Yêu cầu đã được xử lý ở trạng thái %s", request.Status),
			common.StatusConflict,
			nil,
		)
	}
	return request, nil
}

// Approve duyệt yêu cầu xóa: thực thi xóa phiên bản trên unit rồi đóng yêu cầu.
// Chỉ chủ sở hữu dự án được duyệt.
func (s *DeletionService) Approve(ctx context.Context, requestID primitive.ObjectID, callerID primitive.ObjectID) (models.DeletionRequest, error) {
	var zero models.DeletionRequest

	request, err := s.findPending(ctx, requestID, callerID)
	if err != nil {
		return zero, err
	}

	provider, language, ok := splitVersionKey(request.VersionKey)
	if !ok {
		return zero, common.ErrInvalidFormat
	}
	if _, err := s.unitService.RemoveArtifactVersion(ctx, request.UnitID, provider, language); err != nil {
		return zero, err
	}

	return s.UpdateById(ctx, request.ID, &basesvc.UpdateData{
		Set: map[string]interface{}{
			"status":    models.DeletionStatusApproved,
			"updatedAt": time.Now().UnixMilli(),
		},
	})
}

// Reject từ chối yêu cầu xóa. Chỉ chủ sở hữu dự án được từ chối.
func (s *DeletionService) Reject(ctx context.Context, requestID primitive.ObjectID, callerID primitive.ObjectID) (models.DeletionRequest, error) {
	var zero models.DeletionRequest

	request, err := s.findPending(ctx, requestID, callerID)
	if err != nil {
		return zero, err
	}

	return s.UpdateById(ctx, request.ID, &basesvc.UpdateData{
		Set: map[string]interface{}{
			"status":    models.DeletionStatusRejected,
			"updatedAt": time.Now().UnixMilli(),
		},
	})
}

// splitVersionKey tách khóa "provider:language" về hai thành phần.
func splitVersionKey(key string) (provider string, language string, ok bool) {
	for i := 0; i < len(key); i++ {
		if key[i] == ':' {
			return key[:i], key[i+1:], true
		}
	}
	return "", "", false
}
