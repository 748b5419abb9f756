// Package approvalsvc - service của quy trình duyệt: yêu cầu sinh lại media và
// yêu cầu xóa phiên bản media do người không sở hữu dự án gửi lên, chủ sở hữu
// duyệt hoặc từ chối.
package approvalsvc

import (
	"context"
	"fmt"
	"sync"
	"time"

	models "film_studio/internal/api/approval/models"
	authsvc "film_studio/internal/api/auth/service"
	basesvc "film_studio/internal/api/base/service"
	generationsvc "film_studio/internal/api/generation/service"
	storymodels "film_studio/internal/api/story/models"
	storysvc "film_studio/internal/api/story/service"
	"film_studio/internal/common"
	"film_studio/internal/global"
	"film_studio/internal/logger"
	"film_studio/internal/mailer"
	"film_studio/internal/utility"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// regenRequestStore là tầng lưu trữ yêu cầu sinh lại (Mongo hoặc fake).
type regenRequestStore interface {
	FindOneById(ctx context.Context, id primitive.ObjectID) (models.RegenerationRequest, error)
	InsertOne(ctx context.Context, data models.RegenerationRequest) (models.RegenerationRequest, error)
	UpdateById(ctx context.Context, id primitive.ObjectID, data interface{}) (models.RegenerationRequest, error)
}

// regenUnitStore là phần của service unit mà quy trình duyệt cần tới.
type regenUnitStore interface {
	FindOneById(ctx context.Context, id primitive.ObjectID) (storymodels.ContentUnit, error)
	UpsertArtifactVersion(ctx context.Context, id primitive.ObjectID, version storymodels.ArtifactVersion) (storymodels.ContentUnit, error)
}

// candidateGenerator sinh bản ứng viên cho một unit.
type candidateGenerator interface {
	Generate(ctx context.Context, req generationsvc.GenerateRequest, wait bool) (*generationsvc.GenerateResult, error)
}

// RegenerationService quản lý vòng đời yêu cầu sinh lại:
// pending → approved → (generating → selecting)* → completed, hoặc rejected.
// Ứng viên sinh ra chỉ nằm trên yêu cầu; version store của unit chỉ bị chạm
// tới khi Select được gọi.
type RegenerationService struct {
	*basesvc.BaseServiceMongoImpl[models.RegenerationRequest]

	requests    regenRequestStore
	units       regenUnitStore
	userService *authsvc.UserService
	generator   candidateGenerator
	mail        *mailer.Mailer
}

var (
	regenServiceInstance *RegenerationService
	regenServiceOnce     sync.Once
	regenServiceErr      error
)

// GetRegenerationService trả về singleton RegenerationService.
func GetRegenerationService() (*RegenerationService, error) {
	regenServiceOnce.Do(func() {
		regenServiceInstance, regenServiceErr = newRegenerationService()
	})
	return regenServiceInstance, regenServiceErr
}

func newRegenerationService() (*RegenerationService, error) {
	col, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.ApprovalRegenerations)
	if !exist {
		return nil, fmt.Errorf("failed to get approval_regenerations collection: %v", common.ErrNotFound)
	}

	unitService, err := storysvc.NewStoryUnitService()
	if err != nil {
		return nil, err
	}
	userService, err := authsvc.NewUserService()
	if err != nil {
		return nil, err
	}
	jobService, err := generationsvc.GetJobService()
	if err != nil {
		return nil, err
	}

	base := basesvc.NewBaseServiceMongo[models.RegenerationRequest](col)
	return &RegenerationService{
		BaseServiceMongoImpl: base,
		requests:             base,
		units:                unitService,
		userService:          userService,
		generator:            jobService,
		mail:                 mailer.NewMailer(global.MongoDB_ServerConfig),
	}, nil
}

// CreateRequest tạo yêu cầu sinh lại cho một unit. Chỉ người KHÔNG sở hữu dự
// án mới cần đi qua quy trình duyệt — chủ sở hữu sinh lại trực tiếp.
func (s *RegenerationService) CreateRequest(ctx context.Context, requesterID primitive.ObjectID, unitID primitive.ObjectID, reason string) (models.RegenerationRequest, error) {
	var zero models.RegenerationRequest

	unit, err := s.units.FindOneById(ctx, unitID)
	if err != nil {
		return zero, err
	}
	if unit.OwnerID == requesterID {
		return zero, common.NewError(
			common.ErrCodeBusinessState,
			"Chủ sở hữu dự án sinh lại trực tiếp, không cần yêu cầu duyệt",
			common.StatusConflict,
			nil,
		)
	}

	now := time.Now().UnixMilli()
	request := models.RegenerationRequest{
		UnitID:      unit.ID,
		ProjectID:   unit.ProjectID,
		RequestedBy: requesterID,
		OwnerID:     unit.OwnerID,
		Status:      models.RegenStatusPending,
		MaxAttempts: global.MongoDB_ServerConfig.RegenMaxAttempts,
		Reason:      reason,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	request, err = s.requests.InsertOne(ctx, request)
	if err != nil {
		return zero, err
	}

	s.notifyOwner(request.OwnerID, "sinh lại media", request.ID.Hex(), reason)
	return request, nil
}

// notifyOwner gửi email thông báo cho chủ dự án, best-effort và chạy nền.
func (s *RegenerationService) notifyOwner(ownerID primitive.ObjectID, requestKind string, requestID string, reason string) {
	go utility.GoProtect(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		owner, err := s.userService.FindOneById(ctx, ownerID)
		if err != nil {
			logger.GetErrorLogger().WithError(err).WithField("ownerId", ownerID.Hex()).
				Error("📧 [MAILER] Không tìm được chủ sở hữu để gửi thông báo duyệt")
			return
		}
		s.mail.NotifyApprovalRequest(owner.Email, requestKind, requestID, reason)
	})
}

// findActionable đọc yêu cầu mới nhất và chặn các yêu cầu đã kết thúc.
func (s *RegenerationService) findActionable(ctx context.Context, requestID primitive.ObjectID) (models.RegenerationRequest, error) {
	request, err := s.requests.FindOneById(ctx, requestID)
	if err != nil {
		return request, err
	}
	if models.IsTerminalRegenStatus(request.Status) {
		return request, common.NewError(
			common.ErrCodeBusinessState,
			fmt.Sprintf("Yêu cầu đã kết thúc ở trạng thái %s", request.Status),
			common.StatusConflict,
			nil,
		)
	}
	return request, nil
}

// Approve duyệt yêu cầu đang pending. Chỉ chủ sở hữu dự án được duyệt.
func (s *RegenerationService) Approve(ctx context.Context, requestID primitive.ObjectID, callerID primitive.ObjectID) (models.RegenerationRequest, error) {
	var zero models.RegenerationRequest

	request, err := s.findActionable(ctx, requestID)
	if err != nil {
		return zero, err
	}
	if request.OwnerID != callerID {
		return zero, common.ErrNotOwner
	}
	if request.Status != models.RegenStatusPending {
		return zero, common.NewError(
			common.ErrCodeBusinessState,
			fmt.Sprintf("Chỉ duyệt được yêu cầu đang chờ, trạng thái hiện tại: %s", request.Status),
			common.StatusConflict,
			nil,
		)
	}

	return s.requests.UpdateById(ctx, request.ID, &basesvc.UpdateData{
		Set: map[string]interface{}{
			"status":    models.RegenStatusApproved,
			"updatedAt": time.Now().UnixMilli(),
		},
	})
}

// Reject từ chối yêu cầu đang pending. Chỉ chủ sở hữu dự án được từ chối.
func (s *RegenerationService) Reject(ctx context.Context, requestID primitive.ObjectID, callerID primitive.ObjectID) (models.RegenerationRequest, error) {
	var zero models.RegenerationRequest

	request, err := s.findActionable(ctx, requestID)
	if err != nil {
		return zero, err
	}
	if request.OwnerID != callerID {
		return zero, common.ErrNotOwner
	}
	if request.Status != models.RegenStatusPending {
		return zero, common.NewError(
			common.ErrCodeBusinessState,
			fmt.Sprintf("Chỉ từ chối được yêu cầu đang chờ, trạng thái hiện tại: %s", request.Status),
			common.StatusConflict,
			nil,
		)
	}

	return s.requests.UpdateById(ctx, request.ID, &basesvc.UpdateData{
		Set: map[string]interface{}{
			"status":    models.RegenStatusRejected,
			"updatedAt": time.Now().UnixMilli(),
		},
	})
}

// Regenerate chạy một chu kỳ sinh ứng viên cho yêu cầu đã duyệt. Người gửi yêu
// cầu hoặc chủ sở hữu đều gọi được. Chi phí credit tính vào tài khoản chủ sở
// hữu; kết quả chỉ được nối vào danh sách ứng viên, không ghi vào unit.
// Lượt sinh chỉ bị tiêu khi có ứng viên được tạo thành công.
func (s *RegenerationService) Regenerate(ctx context.Context, requestID primitive.ObjectID, callerID primitive.ObjectID) (models.RegenerationRequest, error) {
	var zero models.RegenerationRequest

	request, err := s.findActionable(ctx, requestID)
	if err != nil {
		return zero, err
	}
	if request.RequestedBy != callerID && request.OwnerID != callerID {
		return zero, common.ErrNotOwner
	}
	if !request.CanRegenerate() {
		if request.AttemptsUsed >= request.MaxAttempts {
			return zero, common.NewError(
				common.ErrCodeBusinessState,
				fmt.Sprintf("Đã dùng hết %d lượt sinh lại, chỉ còn chọn ứng viên", request.MaxAttempts),
				common.StatusConflict,
				nil,
			)
		}
		return zero, common.NewError(
			common.ErrCodeBusinessState,
			fmt.Sprintf("Yêu cầu ở trạng thái %s không chạy được lần sinh mới", request.Status),
			common.StatusConflict,
			nil,
		)
	}
	previousStatus := request.Status

	request, err = s.requests.UpdateById(ctx, request.ID, &basesvc.UpdateData{
		Set: map[string]interface{}{
			"status":    models.RegenStatusGenerating,
			"updatedAt": time.Now().UnixMilli(),
		},
	})
	if err != nil {
		return zero, err
	}

	result, err := s.generator.Generate(ctx, generationsvc.GenerateRequest{
		UnitID:        request.UnitID,
		OwnerID:       request.OwnerID,
		CandidateOnly: true,
	}, true)
	if err != nil || result.Outcome != generationsvc.OutcomeComplete {
		// Trả yêu cầu về trạng thái trước đó; lượt sinh chưa bị tiêu.
		// Ghi bằng context tách khỏi cancel của caller: client ngắt kết nối
		// giữa lúc poll cũng không được để yêu cầu kẹt ở generating
		if _, revertErr := s.requests.UpdateById(context.WithoutCancel(ctx), request.ID, &basesvc.UpdateData{
			Set: map[string]interface{}{
				"status":    previousStatus,
				"updatedAt": time.Now().UnixMilli(),
			},
		}); revertErr != nil {
			logger.GetErrorLogger().WithError(revertErr).WithField("requestId", request.ID.Hex()).
				Error("✅ [APPROVAL] Không trả được yêu cầu về trạng thái trước lần sinh lỗi")
		}
		if err != nil {
			return zero, err
		}
		if result.Outcome == generationsvc.OutcomeInsufficientCredits {
			return zero, common.NewError(
				common.ErrCodeCreditBalance,
				"Số dư credit của chủ dự án không đủ cho lần sinh ứng viên",
				common.StatusPaymentRequired,
				map[string]interface{}{
					"required":   result.Check.Required,
					"balance":    result.Check.Balance,
					"decisionId": result.DecisionID,
				},
			)
		}
		return zero, common.ErrProviderRequest
	}

	attemptsUsed := request.AttemptsUsed + 1
	nextStatus := models.RegenStatusSelecting
	if attemptsUsed >= request.MaxAttempts {
		nextStatus = models.RegenStatusAwaitingFinal
	}

	return s.requests.UpdateById(ctx, request.ID, &basesvc.UpdateData{
		Set: map[string]interface{}{
			"status":       nextStatus,
			"attemptsUsed": attemptsUsed,
			"provider":     result.Job.Provider,
			"language":     result.Job.Language,
			"voice":        result.Job.Voice,
			"updatedAt":    time.Now().UnixMilli(),
		},
		Push: map[string]interface{}{
			"candidates": result.Job.ResultURL,
		},
	})
}

// Select chốt một bản ứng viên: ghi version vào version store của unit và đóng
// yêu cầu ở trạng thái completed. Gọi được trên mọi ứng viên đã sinh, kể cả
// khi đã hết lượt sinh.
func (s *RegenerationService) Select(ctx context.Context, requestID primitive.ObjectID, callerID primitive.ObjectID, candidateURL string) (models.RegenerationRequest, error) {
	var zero models.RegenerationRequest

	request, err := s.findActionable(ctx, requestID)
	if err != nil {
		return zero, err
	}
	if request.RequestedBy != callerID && request.OwnerID != callerID {
		return zero, common.ErrNotOwner
	}
	if request.Status != models.RegenStatusSelecting && request.Status != models.RegenStatusAwaitingFinal {
		return zero, common.NewError(
			common.ErrCodeBusinessState,
			fmt.Sprintf("Yêu cầu ở trạng thái %s chưa có ứng viên để chọn", request.Status),
			common.StatusConflict,
			nil,
		)
	}

	found := false
	for _, candidate := range request.Candidates {
		if candidate == candidateURL {
			found = true
			break
		}
	}
	if !found {
		return zero, common.NewValidationError(
			"URL không nằm trong danh sách ứng viên của yêu cầu",
			"Chọn một URL từ danh sách candidates của yêu cầu",
		)
	}

	version := storymodels.ArtifactVersion{
		URL:       candidateURL,
		Provider:  request.Provider,
		Language:  request.Language,
		Voice:     request.Voice,
		CreatedAt: time.Now().UnixMilli(),
	}
	if _, err := s.units.UpsertArtifactVersion(ctx, request.UnitID, version); err != nil {
		return zero, err
	}

	return s.requests.UpdateById(ctx, request.ID, &basesvc.UpdateData{
		Set: map[string]interface{}{
			"status":    models.RegenStatusCompleted,
			"updatedAt": time.Now().UnixMilli(),
		},
	})
}
