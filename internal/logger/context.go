package logger

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// WithRequest trả về logger entry gắn thông tin request (request_id, method, path, IP)
// để trace log của cùng một request qua nhiều tầng xử lý.
func WithRequest(c fiber.Ctx) *logrus.Entry {
	logger := GetAppLogger()
	entry := logger.WithContext(context.Background())

	// Request ID - Fiber request ID middleware có thể set vào Locals hoặc header
	var requestID string
	if rid := c.Locals("requestid"); rid != nil {
		if ridStr, ok := rid.(string); ok {
			requestID = ridStr
		}
	}
	if requestID == "" {
		requestID = c.Get("X-Request-ID")
	}
	if requestID == "" {
		requestID = c.GetRespHeader("X-Request-ID")
	}
	if requestID != "" {
		entry = entry.WithField("request_id", requestID)
	}

	entry = entry.WithFields(logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
		"ip":     c.IP(),
	})

	return entry
}

// WithFields trả về logger entry với các fields bổ sung
func WithFields(fields map[string]interface{}) *logrus.Entry {
	return GetAppLogger().WithFields(logrus.Fields(fields))
}

// WithError trả về logger entry với error
func WithError(err error) *logrus.Entry {
	return GetAppLogger().WithError(err)
}

// WithModule trả về logger entry với module name
// Module: tên module (ví dụ: "story", "generation", "credit", "approval", "playback")
func WithModule(module string) *logrus.Entry {
	return GetAppLogger().WithField("module", module)
}

// WithCollection trả về logger entry với collection name
// Collection: tên collection MongoDB (ví dụ: "story_units", "generation_jobs")
func WithCollection(collection string) *logrus.Entry {
	return GetAppLogger().WithField("collection", collection)
}
