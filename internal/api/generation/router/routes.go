// Package router đăng ký các route thuộc domain Generation: sinh media đơn lẻ,
// resume quyết định credit, batch và tra cứu job.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	generationhdl "film_studio/internal/api/generation/handler"
	"film_studio/internal/api/middleware"
	apirouter "film_studio/internal/api/router"
)

// Register đăng ký tất cả route generation lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	jobHandler, err := generationhdl.NewGenerationJobHandler()
	if err != nil {
		return fmt.Errorf("create generation job handler: %w", err)
	}
	batchHandler, err := generationhdl.NewGenerationBatchHandler()
	if err != nil {
		return fmt.Errorf("create generation batch handler: %w", err)
	}

	authMiddleware := middleware.AuthMiddleware()

	// Job và batch do pipeline quản lý vòng đời ghi — CRUD chỉ mở đường đọc
	r.RegisterCRUDRoutes(v1, "/generation/jobs", jobHandler, apirouter.VersionedConfig)
	r.RegisterCRUDRoutes(v1, "/generation/batches", batchHandler, apirouter.VersionedConfig)

	// Sinh media
	apirouter.RegisterRouteWithMiddleware(v1, "/generation", "POST", "/generate", []fiber.Handler{authMiddleware}, jobHandler.HandleGenerate)
	apirouter.RegisterRouteWithMiddleware(v1, "/generation", "POST", "/resume", []fiber.Handler{authMiddleware}, jobHandler.HandleResume)
	apirouter.RegisterRouteWithMiddleware(v1, "/generation", "GET", "/jobs/:id", []fiber.Handler{authMiddleware}, jobHandler.HandleGetJob)

	// Batch
	apirouter.RegisterRouteWithMiddleware(v1, "/generation", "POST", "/batches/run", []fiber.Handler{authMiddleware}, batchHandler.HandleRunBatch)
	apirouter.RegisterRouteWithMiddleware(v1, "/generation", "POST", "/batches/:id/cancel", []fiber.Handler{authMiddleware}, batchHandler.HandleCancelBatch)

	return nil
}
