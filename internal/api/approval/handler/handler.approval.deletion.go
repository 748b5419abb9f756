package approvalhdl

import (
	"fmt"

	approvaldto "film_studio/internal/api/approval/dto"
	models "film_studio/internal/api/approval/models"
	approvalsvc "film_studio/internal/api/approval/service"
	basehdl "film_studio/internal/api/base/handler"
	"film_studio/internal/common"
	"film_studio/internal/logger"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DeletionHandler xử lý request trên yêu cầu xóa phiên bản media
type DeletionHandler struct {
	*basehdl.BaseHandler[models.DeletionRequest, approvaldto.DeletionCreateInput, approvaldto.DeletionUpdateInput]
	deletionService *approvalsvc.DeletionService
}

// NewDeletionHandler tạo instance mới của DeletionHandler
func NewDeletionHandler() (*DeletionHandler, error) {
	deletionService, err := approvalsvc.GetDeletionService()
	if err != nil {
		return nil, fmt.Errorf("failed to create deletion service: %v", err)
	}
	baseHandler := basehdl.NewBaseHandler[models.DeletionRequest, approvaldto.DeletionCreateInput, approvaldto.DeletionUpdateInput](deletionService)
	return &DeletionHandler{
		BaseHandler:     baseHandler,
		deletionService: deletionService,
	}, nil
}

// InsertOne ghi đè handler mặc định: yêu cầu xóa do người KHÔNG sở hữu tạo,
// ownerId lấy từ unit đích.
func (h *DeletionHandler) InsertOne(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		userID := h.GetCurrentUserID(c)
		if userID == nil {
			h.HandleResponse(c, nil, common.ErrTokenMissing)
			return nil
		}

		var input approvaldto.DeletionCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationFormat,
				fmt.Sprintf("Dữ liệu gửi lên không đúng định dạng JSON. Chi tiết: %v", err),
				common.StatusBadRequest,
				err,
			))
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		unitID, err := primitive.ObjectIDFromHex(input.UnitID)
		if err != nil {
			h.HandleResponse(c, nil, common.ErrInvalidFormat)
			return nil
		}

		request, err := h.deletionService.CreateRequest(c.Context(), *userID, unitID, input.Provider, input.Language, input.Reason)
		if err == nil {
			logger.LogApproval("deletion_request", c, map[string]interface{}{
				"requestId":  request.ID.Hex(),
				"unitId":     input.UnitID,
				"versionKey": request.VersionKey,
			})
		}
		h.HandleResponse(c, request, err)
		return nil
	})
}

func (h *DeletionHandler) requestAction(c fiber.Ctx, action string,
	fn func(requestID primitive.ObjectID, callerID primitive.ObjectID) (models.DeletionRequest, error)) error {
	return h.SafeHandler(c, func() error {
		userID := h.GetCurrentUserID(c)
		if userID == nil {
			h.HandleResponse(c, nil, common.ErrTokenMissing)
			return nil
		}

		requestID, err := primitive.ObjectIDFromHex(c.Params("id"))
		if err != nil {
			h.HandleResponse(c, nil, common.ErrInvalidFormat)
			return nil
		}

		request, err := fn(requestID, *userID)
		if err == nil {
			logger.LogApproval(action, c, map[string]interface{}{
				"requestId": requestID.Hex(),
				"status":    request.Status,
			})
		}
		h.HandleResponse(c, request, err)
		return nil
	})
}

// HandleApprove duyệt yêu cầu xóa — việc xóa phiên bản thực thi ngay.
// POST /approval/deletions/:id/approve
func (h *DeletionHandler) HandleApprove(c fiber.Ctx) error {
	return h.requestAction(c, "deletion_approve", func(requestID, callerID primitive.ObjectID) (models.DeletionRequest, error) {
		return h.deletionService.Approve(c.Context(), requestID, callerID)
	})
}

// HandleReject từ chối yêu cầu xóa.
// POST /approval/deletions/:id/reject
func (h *DeletionHandler) HandleReject(c fiber.Ctx) error {
	return h.requestAction(c, "deletion_reject", func(requestID, callerID primitive.ObjectID) (models.DeletionRequest, error) {
		return h.deletionService.Reject(c.Context(), requestID, callerID)
	})
}
