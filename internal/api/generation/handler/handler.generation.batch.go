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

// GenerationBatchHandler xử lý request sinh media hàng loạt
type GenerationBatchHandler struct {
	*basehdl.BaseHandler[models.GenerationBatch, generationdto.GenerationBatchCreateInput, generationdto.GenerationBatchUpdateInput]
	batchService *generationsvc.BatchService
}

// NewGenerationBatchHandler tạo instance mới của GenerationBatchHandler
func NewGenerationBatchHandler() (*GenerationBatchHandler, error) {
	batchService, err := generationsvc.GetBatchService()
	if err != nil {
		return nil, fmt.Errorf("failed to create generation batch service: %v", err)
	}
	baseHandler := basehdl.NewBaseHandler[models.GenerationBatch, generationdto.GenerationBatchCreateInput, generationdto.GenerationBatchUpdateInput](batchService)
	return &GenerationBatchHandler{
		BaseHandler:  baseHandler,
		batchService: batchService,
	}, nil
}

// HandleRunBatch khởi động một batch sinh media và trả về bản ghi batch ngay.
// POST /generation/batches/run
func (h *GenerationBatchHandler) HandleRunBatch(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		userID := h.GetCurrentUserID(c)
		if userID == nil {
			h.HandleResponse(c, nil, common.ErrTokenMissing)
			return nil
		}

		var input generationdto.BatchRunInput
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

		projectID, err := primitive.ObjectIDFromHex(input.ProjectID)
		if err != nil {
			h.HandleResponse(c, nil, common.ErrInvalidFormat)
			return nil
		}
		var sceneID *primitive.ObjectID
		if input.SceneID != "" {
			id, err := primitive.ObjectIDFromHex(input.SceneID)
			if err != nil {
				h.HandleResponse(c, nil, common.ErrInvalidFormat)
				return nil
			}
			sceneID = &id
		}

		batch, err := h.batchService.RunBatch(c.Context(), generationsvc.BatchRunRequest{
			ProjectID:       projectID,
			SceneID:         sceneID,
			OwnerID:         *userID,
			Kind:            input.Kind,
			Provider:        input.Provider,
			Model:           input.Model,
			Language:        input.Language,
			SkipCreditCheck: input.SkipCreditCheck,
		})
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		logger.LogGeneration("batch_run", c, map[string]interface{}{
			"batchId":    batch.ID.Hex(),
			"projectId":  input.ProjectID,
			"totalUnits": batch.TotalUnits,
		})
		h.HandleResponse(c, batch, nil)
		return nil
	})
}

// HandleCancelBatch hủy một batch đang chạy.
// POST /generation/batches/:id/cancel
func (h *GenerationBatchHandler) HandleCancelBatch(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id := h.GetIDFromContext(c)
		if err := h.ValidateOwnerAccess(c, id); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		batchID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			h.HandleResponse(c, nil, common.ErrInvalidFormat)
			return nil
		}

		if err := h.batchService.Cancel(batchID); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		logger.LogGeneration("batch_cancel", c, map[string]interface{}{"batchId": id})
		h.HandleResponse(c, nil, nil)
		return nil
	})
}
