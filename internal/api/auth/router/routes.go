// Package router đăng ký các route thuộc domain Auth: đăng ký, đăng nhập, profile, quản lý người dùng.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	authhdl "film_studio/internal/api/auth/handler"
	"film_studio/internal/api/middleware"
	apirouter "film_studio/internal/api/router"
)

// Register đăng ký tất cả route auth lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	userHandler, err := authhdl.NewUserHandler()
	if err != nil {
		return fmt.Errorf("create user handler: %w", err)
	}

	// Route công khai (không cần token)
	apirouter.RegisterRouteWithMiddleware(v1, "/auth", "POST", "/register", nil, userHandler.HandleRegister)
	apirouter.RegisterRouteWithMiddleware(v1, "/auth", "POST", "/login", nil, userHandler.HandleLogin)

	// Route cần đăng nhập
	authMiddleware := middleware.AuthMiddleware()
	apirouter.RegisterRouteWithMiddleware(v1, "/auth", "POST", "/logout", []fiber.Handler{authMiddleware}, userHandler.HandleLogout)
	apirouter.RegisterRouteWithMiddleware(v1, "/auth", "GET", "/profile", []fiber.Handler{authMiddleware}, userHandler.HandleGetProfile)
	apirouter.RegisterRouteWithMiddleware(v1, "/auth", "PUT", "/profile", []fiber.Handler{authMiddleware}, userHandler.HandleUpdateProfile)
	apirouter.RegisterRouteWithMiddleware(v1, "/auth", "PUT", "/change-password", []fiber.Handler{authMiddleware}, userHandler.HandleChangePassword)
	apirouter.RegisterRouteWithMiddleware(v1, "/auth", "POST", "/block", []fiber.Handler{authMiddleware}, userHandler.HandleBlockUser)
	apirouter.RegisterRouteWithMiddleware(v1, "/auth", "POST", "/unblock", []fiber.Handler{authMiddleware}, userHandler.HandleUnBlockUser)

	// CRUD người dùng (quản trị)
	r.RegisterCRUDRoutes(v1, "/users", userHandler, apirouter.ReadOnlyConfig)

	return nil
}
