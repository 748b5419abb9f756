// Package generationhdl - handler cho các thao tác sinh media.
package generationhdl

import (
	"fmt"

	basehdl "film_studio/internal/api/base/handler"
	generationdto "film_studio/internal/api/generation/dto"
	models "film_studio/internal/api/generation/models"
	generationsvc "film_studio/internal/api/generation/service"
	"film_studio/internal/common"
	"film_studio/internal/logger"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GenerationJobHandler xử lý request sinh media và tra cứu job
type GenerationJobHandler struct {
	*basehdl.BaseHandler[models.GenerationJob, generationdto.GenerationJobCreateInput, generationdto.GenerationJobUpdateInput]
	jobService *generationsvc.GenerationJobService
}

// NewGenerationJobHandler tạo instance mới của GenerationJobHandler
func NewGenerationJobHandler() (*GenerationJobHandler, error) {
	jobService, err := generationsvc.GetJobService()
	if err != nil {
		return nil, fmt.Errorf("failed to create generation job service: %v", err)
	}
	baseHandler := basehdl.NewBaseHandler[models.GenerationJob, generationdto.GenerationJobCreateInput, generationdto.GenerationJobUpdateInput](jobService)
	return &GenerationJobHandler{
		BaseHandler: baseHandler,
		jobService:  jobService,
	}, nil
}

// HandleGenerate sinh media cho một content unit.
// POST /generation/generate
// Thiếu credit trả về lỗi 402 kèm decisionId để client resume.
func (h *GenerationJobHandler) HandleGenerate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		userID := h.GetCurrentUserID(c)
		if userID == nil {
			h.HandleResponse(c, nil, common.ErrTokenMissing)
			return nil
		}

		var input generationdto.GenerateInput
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

		result, err := h.jobService.Generate(c.Context(), generationsvc.GenerateRequest{
			UnitID:   unitID,
			OwnerID:  *userID,
			Provider: input.Provider,
			Model:    input.Model,
			Language: input.Language,
			Voice:    input.Voice,
			Kind:     input.Kind,
		}, false)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		if result.Outcome == generationsvc.OutcomeInsufficientCredits {
			// 402 kèm decisionId để client chọn nguồn thanh toán rồi resume
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeCreditBalance,
				"Số dư credit không đủ",
				common.StatusPaymentRequired,
				map[string]interface{}{
					"required":   result.Check.Required,
					"balance":    result.Check.Balance,
					"decisionId": result.DecisionID,
				},
			))
			return nil
		}

		logger.LogGeneration("generate", c, map[string]interface{}{
			"unitId":  input.UnitID,
			"outcome": result.Outcome,
		})
		h.HandleResponse(c, result, nil)
		return nil
	})
}

// HandleResume tiếp tục một yêu cầu đã bị chặn vì thiếu credit.
// POST /generation/resume
func (h *GenerationJobHandler) HandleResume(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		userID := h.GetCurrentUserID(c)
		if userID == nil {
			h.HandleResponse(c, nil, common.ErrTokenMissing)
			return nil
		}

		var input generationdto.ResumeInput
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

		result, err := h.jobService.ResumeDecision(c.Context(), input.DecisionID, input.Mode, input.APIKey, *userID)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		logger.LogGeneration("resume", c, map[string]interface{}{
			"decisionId": input.DecisionID,
			"mode":       input.Mode,
			"outcome":    result.Outcome,
		})
		h.HandleResponse(c, result, nil)
		return nil
	})
}

// HandleGetJob trả về trạng thái hiện tại của một job.
// GET /generation/jobs/:id
func (h *GenerationJobHandler) HandleGetJob(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id := h.GetIDFromContext(c)
		if err := h.ValidateOwnerAccess(c, id); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		jobID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			h.HandleResponse(c, nil, common.ErrInvalidFormat)
			return nil
		}

		job, err := h.jobService.FindOneById(c.Context(), jobID)
		h.HandleResponse(c, job, err)
		return nil
	})
}
