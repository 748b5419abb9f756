// Package router đăng ký các route thuộc domain Story: dự án, phân cảnh, content unit
// và quản lý phiên bản media của unit.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"film_studio/internal/api/middleware"
	apirouter "film_studio/internal/api/router"
	storyhdl "film_studio/internal/api/story/handler"
)

// Register đăng ký tất cả route story lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	projectHandler, err := storyhdl.NewStoryProjectHandler()
	if err != nil {
		return fmt.Errorf("create story project handler: %w", err)
	}
	sceneHandler, err := storyhdl.NewStorySceneHandler()
	if err != nil {
		return fmt.Errorf("create story scene handler: %w", err)
	}
	unitHandler, err := storyhdl.NewStoryUnitHandler()
	if err != nil {
		return fmt.Errorf("create story unit handler: %w", err)
	}

	authMiddleware := middleware.AuthMiddleware()

	// CRUD
	r.RegisterCRUDRoutes(v1, "/story/projects", projectHandler, apirouter.ReadWriteConfig)
	r.RegisterCRUDRoutes(v1, "/story/scenes", sceneHandler, apirouter.ReadWriteConfig)
	r.RegisterCRUDRoutes(v1, "/story/units", unitHandler, apirouter.ReadWriteConfig)

	// Cấu trúc đầy đủ của dự án (project + scenes + units)
	apirouter.RegisterRouteWithMiddleware(v1, "/story/projects", "GET", "/:id/outline", []fiber.Handler{authMiddleware}, projectHandler.HandleGetOutline)

	// Quản lý phiên bản media của unit
	apirouter.RegisterRouteWithMiddleware(v1, "/story/units", "POST", "/:id/versions/select", []fiber.Handler{authMiddleware}, unitHandler.HandleSelectVersion)
	apirouter.RegisterRouteWithMiddleware(v1, "/story/units", "POST", "/:id/versions/remove", []fiber.Handler{authMiddleware}, unitHandler.HandleRemoveVersion)

	return nil
}
