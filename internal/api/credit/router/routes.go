// Package router đăng ký các route quản lý credit: tra cứu số dư, nạp credit
// và lịch sử trừ credit.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	credithdl "film_studio/internal/api/credit/handler"
	"film_studio/internal/api/middleware"
	apirouter "film_studio/internal/api/router"
)

// Register đăng ký tất cả route credit lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	accountHandler, err := credithdl.NewCreditAccountHandler()
	if err != nil {
		return fmt.Errorf("create credit account handler: %w", err)
	}
	spendHandler, err := credithdl.NewCreditSpendHandler()
	if err != nil {
		return fmt.Errorf("create credit spend handler: %w", err)
	}

	authMiddleware := middleware.AuthMiddleware()

	// Tài khoản và lịch sử trừ credit do service quản lý, API chỉ cho đọc
	r.RegisterCRUDRoutes(v1, "/credit/accounts", accountHandler, apirouter.VersionedConfig)
	r.RegisterCRUDRoutes(v1, "/credit/spends", spendHandler, apirouter.VersionedConfig)

	apirouter.RegisterRouteWithMiddleware(v1, "/credit", "GET", "/balance", []fiber.Handler{authMiddleware}, accountHandler.HandleGetBalance)
	apirouter.RegisterRouteWithMiddleware(v1, "/credit", "POST", "/topup", []fiber.Handler{authMiddleware}, accountHandler.HandleTopup)

	return nil
}
