package storyhdl

import (
	"fmt"

	basehdl "film_studio/internal/api/base/handler"
	storydto "film_studio/internal/api/story/dto"
	models "film_studio/internal/api/story/models"
	storysvc "film_studio/internal/api/story/service"
	"film_studio/internal/common"

	"github.com/gofiber/fiber/v3"
)

// StorySceneHandler xử lý các request quản lý phân cảnh
type StorySceneHandler struct {
	*basehdl.BaseHandler[models.StoryScene, storydto.StorySceneCreateInput, storydto.StorySceneUpdateInput]
	sceneService *storysvc.StorySceneService
}

// NewStorySceneHandler tạo instance mới của StorySceneHandler
func NewStorySceneHandler() (*StorySceneHandler, error) {
	sceneService, err := storysvc.NewStorySceneService()
	if err != nil {
		return nil, fmt.Errorf("failed to create story scene service: %v", err)
	}
	baseHandler := basehdl.NewBaseHandler[models.StoryScene, storydto.StorySceneCreateInput, storydto.StorySceneUpdateInput](sceneService)
	return &StorySceneHandler{
		BaseHandler:  baseHandler,
		sceneService: sceneService,
	}, nil
}

// InsertOne ghi đè handler mặc định: tạo phân cảnh đi qua service để kiểm tra
// dự án cha tồn tại và thuộc quyền sở hữu của người gọi.
func (h *StorySceneHandler) InsertOne(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input storydto.StorySceneCreateInput
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

		data, err := h.sceneService.CreateScene(c.Context(), *model)
		h.HandleResponse(c, data, err)
		return nil
	})
}
