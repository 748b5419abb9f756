// Package approvalhdl - handler cho quy trình duyệt sinh lại / xóa media.
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

// RegenerationHandler xử lý request trên yêu cầu sinh lại media
type RegenerationHandler struct {
	*basehdl.BaseHandler[models.RegenerationRequest, approvaldto.RegenerationCreateInput, approvaldto.RegenerationUpdateInput]
	regenService *approvalsvc.RegenerationService
}

// NewRegenerationHandler tạo instance mới của RegenerationHandler
func NewRegenerationHandler() (*RegenerationHandler, error) {
	regenService, err := approvalsvc.GetRegenerationService()
	if err != nil {
		return nil, fmt.Errorf("failed to create regeneration service: %v", err)
	}
	baseHandler := basehdl.NewBaseHandler[models.RegenerationRequest, approvaldto.RegenerationCreateInput, approvaldto.RegenerationUpdateInput](regenService)
	return &RegenerationHandler{
		BaseHandler:  baseHandler,
		regenService: regenService,
	}, nil
}

// InsertOne ghi đè handler mặc định: yêu cầu sinh lại do người KHÔNG sở hữu
// tạo, nên ownerId lấy từ unit đích chứ không phải từ người gọi.
func (h *RegenerationHandler) InsertOne(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		userID := h.GetCurrentUserID(c)
		if userID == nil {
			h.HandleResponse(c, nil, common.ErrTokenMissing)
			return nil
		}

		var input approvaldto.RegenerationCreateInput
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

		request, err := h.regenService.CreateRequest(c.Context(), *userID, unitID, input.Reason)
		if err == nil {
			logger.LogApproval("regeneration_request", c, map[string]interface{}{
				"requestId": request.ID.Hex(),
				"unitId":    input.UnitID,
			})
		}
		h.HandleResponse(c, request, err)
		return nil
	})
}

// requestAction gom phần chung của các action approve/reject/regenerate:
// parse id, xác định người gọi, gọi service rồi ghi audit log.
func (h *RegenerationHandler) requestAction(c fiber.Ctx, action string,
	fn func(requestID primitive.ObjectID, callerID primitive.ObjectID) (models.RegenerationRequest, error)) error {
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

// HandleApprove duyệt yêu cầu sinh lại (chủ sở hữu).
// POST /approval/regenerations/:id/approve
func (h *RegenerationHandler) HandleApprove(c fiber.Ctx) error {
	return h.requestAction(c, "regeneration_approve", func(requestID, callerID primitive.ObjectID) (models.RegenerationRequest, error) {
		return h.regenService.Approve(c.Context(), requestID, callerID)
	})
}

// HandleReject từ chối yêu cầu sinh lại (chủ sở hữu).
// POST /approval/regenerations/:id/reject
func (h *RegenerationHandler) HandleReject(c fiber.Ctx) error {
	return h.requestAction(c, "regeneration_reject", func(requestID, callerID primitive.ObjectID) (models.RegenerationRequest, error) {
		return h.regenService.Reject(c.Context(), requestID, callerID)
	})
}

// HandleRegenerate chạy một chu kỳ sinh ứng viên cho yêu cầu đã duyệt.
// POST /approval/regenerations/:id/regenerate
func (h *RegenerationHandler) HandleRegenerate(c fiber.Ctx) error {
	return h.requestAction(c, "regeneration_run", func(requestID, callerID primitive.ObjectID) (models.RegenerationRequest, error) {
		return h.regenService.Regenerate(c.Context(), requestID, callerID)
	})
}

// HandleSelect chốt một bản ứng viên làm kết quả cuối.
// POST /approval/regenerations/:id/select
func (h *RegenerationHandler) HandleSelect(c fiber.Ctx) error {
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

		var input approvaldto.RegenerationSelectInput
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

		request, err := h.regenService.Select(c.Context(), requestID, *userID, input.CandidateURL)
		if err == nil {
			logger.LogApproval("regeneration_select", c, map[string]interface{}{
				"requestId": requestID.Hex(),
			})
		}
		h.HandleResponse(c, request, err)
		return nil
	})
}
