// Package router đăng ký các route của quy trình duyệt: yêu cầu sinh lại và
// yêu cầu xóa phiên bản media.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	approvalhdl "film_studio/internal/api/approval/handler"
	"film_studio/internal/api/middleware"
	apirouter "film_studio/internal/api/router"
)

// Register đăng ký tất cả route approval lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	regenHandler, err := approvalhdl.NewRegenerationHandler()
	if err != nil {
		return fmt.Errorf("create regeneration handler: %w", err)
	}
	deletionHandler, err := approvalhdl.NewDeletionHandler()
	if err != nil {
		return fmt.Errorf("create deletion handler: %w", err)
	}

	authMiddleware := middleware.AuthMiddleware()

	// CRUD chỉ cho đọc — trạng thái yêu cầu do service quản lý. Tạo yêu cầu đi
	// qua route POST riêng (InsertOne đã ghi đè: ownerId lấy từ unit đích).
	r.RegisterCRUDRoutes(v1, "/approval/regenerations", regenHandler, apirouter.VersionedConfig)
	r.RegisterCRUDRoutes(v1, "/approval/deletions", deletionHandler, apirouter.VersionedConfig)
	apirouter.RegisterRouteWithMiddleware(v1, "/approval/regenerations", "POST", "/", []fiber.Handler{authMiddleware}, regenHandler.InsertOne)
	apirouter.RegisterRouteWithMiddleware(v1, "/approval/deletions", "POST", "/", []fiber.Handler{authMiddleware}, deletionHandler.InsertOne)

	apirouter.RegisterRouteWithMiddleware(v1, "/approval/regenerations", "POST", "/:id/approve", []fiber.Handler{authMiddleware}, regenHandler.HandleApprove)
	apirouter.RegisterRouteWithMiddleware(v1, "/approval/regenerations", "POST", "/:id/reject", []fiber.Handler{authMiddleware}, regenHandler.HandleReject)
	apirouter.RegisterRouteWithMiddleware(v1, "/approval/regenerations", "POST", "/:id/regenerate", []fiber.Handler{authMiddleware}, regenHandler.HandleRegenerate)
	apirouter.RegisterRouteWithMiddleware(v1, "/approval/regenerations", "POST", "/:id/select", []fiber.Handler{authMiddleware}, regenHandler.HandleSelect)

	apirouter.RegisterRouteWithMiddleware(v1, "/approval/deletions", "POST", "/:id/approve", []fiber.Handler{authMiddleware}, deletionHandler.HandleApprove)
	apirouter.RegisterRouteWithMiddleware(v1, "/approval/deletions", "POST", "/:id/reject", []fiber.Handler{authMiddleware}, deletionHandler.HandleReject)

	return nil
}
