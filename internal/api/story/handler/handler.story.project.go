// Package storyhdl - handler cho dự án phim, phân cảnh và content unit.
package storyhdl

import (
	"fmt"

	basehdl "film_studio/internal/api/base/handler"
	storydto "film_studio/internal/api/story/dto"
	models "film_studio/internal/api/story/models"
	storysvc "film_studio/internal/api/story/service"
	"film_studio/internal/common"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StoryProjectHandler xử lý các request quản lý dự án phim
type StoryProjectHandler struct {
	*basehdl.BaseHandler[models.StoryProject, storydto.StoryProjectCreateInput, storydto.StoryProjectUpdateInput]
	projectService *storysvc.StoryProjectService
	sceneService   *storysvc.StorySceneService
	unitService    *storysvc.StoryUnitService
}

// NewStoryProjectHandler tạo instance mới của StoryProjectHandler
func NewStoryProjectHandler() (*StoryProjectHandler, error) {
	projectService, err := storysvc.NewStoryProjectService()
	if err != nil {
		return nil, fmt.Errorf("failed to create story project service: %v", err)
	}
	sceneService, err := storysvc.NewStorySceneService()
	if err != nil {
		return nil, fmt.Errorf("failed to create story scene service: %v", err)
	}
	unitService, err := storysvc.NewStoryUnitService()
	if err != nil {
		return nil, fmt.Errorf("failed to create story unit service: %v", err)
	}

	baseHandler := basehdl.NewBaseHandler[models.StoryProject, storydto.StoryProjectCreateInput, storydto.StoryProjectUpdateInput](projectService)
	return &StoryProjectHandler{
		BaseHandler:    baseHandler,
		projectService: projectService,
		sceneService:   sceneService,
		unitService:    unitService,
	}, nil
}

// HandleGetOutline trả về toàn bộ cấu trúc dự án: project + phân cảnh (theo
// thứ tự) + unit của từng phân cảnh. Frontend dùng để dựng màn hình biên tập.
func (h *StoryProjectHandler) HandleGetOutline(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id := h.GetIDFromContext(c)
		if err := h.ValidateOwnerAccess(c, id); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		projectID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			h.HandleResponse(c, nil, common.ErrInvalidFormat)
			return nil
		}

		project, err := h.projectService.FindOneById(c.Context(), projectID)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		scenes, err := h.sceneService.FindByProject(c.Context(), projectID)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		units, err := h.unitService.FindByProject(c.Context(), projectID)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		// Gom unit theo sceneId
		unitsByScene := make(map[primitive.ObjectID][]models.ContentUnit)
		for _, u := range units {
			unitsByScene[u.SceneID] = append(unitsByScene[u.SceneID], u)
		}

		type sceneOutline struct {
			Scene models.StoryScene    `json:"scene"`
			Units []models.ContentUnit `json:"units"`
		}
		outline := make([]sceneOutline, 0, len(scenes))
		for _, sc := range scenes {
			outline = append(outline, sceneOutline{Scene: sc, Units: unitsByScene[sc.ID]})
		}

		h.HandleResponse(c, bson.M{"project": project, "scenes": outline}, nil)
		return nil
	})
}
