// Package router đăng ký các route điều khiển phát media tuần tự.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"film_studio/internal/api/middleware"
	playbackhdl "film_studio/internal/api/playback/handler"
	apirouter "film_studio/internal/api/router"
)

// Register đăng ký tất cả route playback lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	handler, err := playbackhdl.NewPlaybackHandler()
	if err != nil {
		return fmt.Errorf("create playback handler: %w", err)
	}

	authMiddleware := middleware.AuthMiddleware()

	apirouter.RegisterRouteWithMiddleware(v1, "/playback", "POST", "/play", []fiber.Handler{authMiddleware}, handler.HandlePlay)
	apirouter.RegisterRouteWithMiddleware(v1, "/playback", "POST", "/advance", []fiber.Handler{authMiddleware}, handler.HandleAdvance)
	apirouter.RegisterRouteWithMiddleware(v1, "/playback", "POST", "/stop", []fiber.Handler{authMiddleware}, handler.HandleStop)
	apirouter.RegisterRouteWithMiddleware(v1, "/playback", "POST", "/status", []fiber.Handler{authMiddleware}, handler.HandleStatus)

	return nil
}
