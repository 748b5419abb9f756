// Package playbackhdl - handler cho các thao tác phát media tuần tự.
// Trạng thái phát nằm trong bộ nhớ nên handler không embed BaseHandler.
package playbackhdl

import (
	"bytes"
	"encoding/json"
	"fmt"

	basehdl "film_studio/internal/api/base/handler"
	playbackdto "film_studio/internal/api/playback/dto"
	playbacksvc "film_studio/internal/api/playback/service"
	"film_studio/internal/common"
	"film_studio/internal/global"
	"film_studio/internal/logger"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlaybackHandler xử lý request điều khiển phiên phát
type PlaybackHandler struct {
	sequencer *playbacksvc.Sequencer
}

// NewPlaybackHandler tạo instance mới của PlaybackHandler
func NewPlaybackHandler() (*PlaybackHandler, error) {
	sequencer, err := playbacksvc.GetSequencer()
	if err != nil {
		return nil, fmt.Errorf("failed to create playback sequencer: %v", err)
	}
	return &PlaybackHandler{sequencer: sequencer}, nil
}

// currentUser lấy id người gọi từ context (authMiddleware đã gắn).
func currentUser(c fiber.Ctx) (*primitive.ObjectID, error) {
	userIDStr, ok := c.Locals("userID").(string)
	if !ok || userIDStr == "" {
		return nil, common.ErrTokenMissing
	}
	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		return nil, common.ErrInvalidFormat
	}
	return &userID, nil
}

// HandlePlay bắt đầu phát một phân cảnh hoặc cả dự án.
// POST /playback/play
func (h *PlaybackHandler) HandlePlay(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		basehdl.Respond(c, nil, err)
		return nil
	}

	var input playbackdto.PlayInput
	decoder := json.NewDecoder(bytes.NewReader(c.Body()))
	decoder.UseNumber()
	if err := decoder.Decode(&input); err != nil {
		basehdl.Respond(c, nil, common.NewError(
			common.ErrCodeValidationFormat,
			fmt.Sprintf("Dữ liệu gửi lên không đúng định dạng JSON. Chi tiết: %v", err),
			common.StatusBadRequest,
			err,
		))
		return nil
	}
	if err := global.Validate.Struct(&input); err != nil {
		basehdl.Respond(c, nil, common.NewError(
			common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err,
		))
		return nil
	}

	projectID, err := primitive.ObjectIDFromHex(input.ProjectID)
	if err != nil {
		basehdl.Respond(c, nil, common.ErrInvalidFormat)
		return nil
	}
	var sceneID *primitive.ObjectID
	if input.SceneID != "" {
		id, err := primitive.ObjectIDFromHex(input.SceneID)
		if err != nil {
			basehdl.Respond(c, nil, common.ErrInvalidFormat)
			return nil
		}
		sceneID = &id
	}

	session, err := h.sequencer.Play(c.Context(), userID.Hex(), *userID, projectID, sceneID)
	if err == nil {
		logger.LogAction("playback_play", c, map[string]interface{}{
			"projectId": input.ProjectID,
			"sceneId":   input.SceneID,
			"entries":   len(session.Entries),
		})
	}
	basehdl.Respond(c, session, err)
	return nil
}

// HandleAdvance chuyển sang entry kế tiếp trong phiên phát.
// POST /playback/advance
func (h *PlaybackHandler) HandleAdvance(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		basehdl.Respond(c, nil, err)
		return nil
	}
	session, err := h.sequencer.Advance(userID.Hex())
	basehdl.Respond(c, session, err)
	return nil
}

// HandleStop dừng phiên phát hiện tại.
// POST /playback/stop
func (h *PlaybackHandler) HandleStop(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		basehdl.Respond(c, nil, err)
		return nil
	}
	session, err := h.sequencer.Stop(userID.Hex())
	basehdl.Respond(c, session, err)
	return nil
}

// HandleStatus trả về trạng thái phiên phát hiện tại.
// POST /playback/status
func (h *PlaybackHandler) HandleStatus(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		basehdl.Respond(c, nil, err)
		return nil
	}
	session, err := h.sequencer.Status(userID.Hex())
	basehdl.Respond(c, session, err)
	return nil
}
