package storyhdl

import (
	"fmt"

	basehdl "film_studio/internal/api/base/handler"
	storydto "film_studio/internal/api/story/dto"
	models "film_studio/internal/api/story/models"
	storysvc "film_studio/internal/api/story/service"
	"film_studio/internal/common"
	"film_studio/internal/logger"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StoryUnitHandler xử lý các request quản lý content unit và phiên bản media
type StoryUnitHandler struct {
	*basehdl.BaseHandler[models.ContentUnit, storydto.ContentUnitCreateInput, storydto.ContentUnitUpdateInput]
	unitService *storysvc.StoryUnitService
}

// NewStoryUnitHandler tạo instance mới của StoryUnitHandler
func NewStoryUnitHandler() (*StoryUnitHandler, error) {
	unitService, err := storysvc.NewStoryUnitService()
	if err != nil {
		return nil, fmt.Errorf("failed to create story unit service: %v", err)
	}
	baseHandler := basehdl.NewBaseHandler[models.ContentUnit, storydto.ContentUnitCreateInput, storydto.ContentUnitUpdateInput](unitService)
	return &StoryUnitHandler{
		BaseHandler: baseHandler,
		unitService: unitService,
	}, nil
}

// InsertOne ghi đè handler mặc định: tạo unit đi qua service để kiểm tra
// dự án thuộc quyền sở hữu và phân cảnh thuộc đúng dự án.
func (h *StoryUnitHandler) InsertOne(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input storydto.ContentUnitCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationFormat,
				fmt.Sprintf("Dữ liệu gửi lên không đúng định dạng JSON hoặc không khớp với cấu trúc yêu cầu. Chi tiết: %v", err),
				common.StatusBadRequest,
				err,
			))
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		model, err := h.TransformCreateInputToModel(&input)
		if err != nil {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationFormat,
				fmt.Sprintf("Lỗi transform dữ liệu: %v", err),
				common.StatusBadRequest,
				err,
			))
			return nil
		}

		userID := h.GetCurrentUserID(c)
		if userID == nil {
			h.HandleResponse(c, nil, common.ErrTokenMissing)
			return nil
		}
		h.SetOwnerID(model, *userID)

		data, err := h.unitService.CreateUnit(c.Context(), *model)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// parseVersionKeyInput parse và validate body chứa cặp (provider, language).
func (h *StoryUnitHandler) parseVersionKeyInput(c fiber.Ctx, input interface{}) error {
	if err := h.ParseRequestBody(c, input); err != nil {
		return common.NewError(
			common.ErrCodeValidationFormat,
			fmt.Sprintf("Dữ liệu gửi lên không đúng định dạng JSON. Chi tiết: %v", err),
			common.StatusBadRequest,
			err,
		)
	}
	return h.ValidateInput(input)
}

// HandleSelectVersion chuyển phiên bản active của unit sang (provider, language).
// POST /story/units/:id/versions/select
func (h *StoryUnitHandler) HandleSelectVersion(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id := h.GetIDFromContext(c)
		if err := h.ValidateOwnerAccess(c, id); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		unitID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			h.HandleResponse(c, nil, common.ErrInvalidFormat)
			return nil
		}

		var input storydto.VersionSelectInput
		if err := h.parseVersionKeyInput(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		unit, err := h.unitService.SelectArtifactVersion(c.Context(), unitID, input.Provider, input.Language)
		if err == nil {
			logger.LogAction("version_select", c, map[string]interface{}{
				"unitId":   id,
				"provider": input.Provider,
				"language": input.Language,
			})
		}
		h.HandleResponse(c, unit, err)
		return nil
	})
}

// HandleRemoveVersion xóa phiên bản (provider, language) khỏi unit.
// POST /story/units/:id/versions/remove
func (h *StoryUnitHandler) HandleRemoveVersion(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id := h.GetIDFromContext(c)
		if err := h.ValidateOwnerAccess(c, id); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		unitID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			h.HandleResponse(c, nil, common.ErrInvalidFormat)
			return nil
		}

		var input storydto.VersionRemoveInput
		if err := h.parseVersionKeyInput(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		unit, err := h.unitService.RemoveArtifactVersion(c.Context(), unitID, input.Provider, input.Language)
		if err == nil {
			logger.LogAction("version_remove", c, map[string]interface{}{
				"unitId":   id,
				"provider": input.Provider,
				"language": input.Language,
			})
		}
		h.HandleResponse(c, unit, err)
		return nil
	})
}
