// Package credithdl - handler cho tài khoản credit và lịch sử trừ credit.
package credithdl

import (
	"fmt"

	basehdl "film_studio/internal/api/base/handler"
	creditdto "film_studio/internal/api/credit/dto"
	models "film_studio/internal/api/credit/models"
	creditsvc "film_studio/internal/api/credit/service"
	"film_studio/internal/common"
	"film_studio/internal/logger"

	"github.com/gofiber/fiber/v3"
)

// CreditAccountHandler xử lý request tra cứu số dư và nạp credit
type CreditAccountHandler struct {
	*basehdl.BaseHandler[models.CreditAccount, creditdto.CreditAccountCreateInput, creditdto.CreditAccountUpdateInput]
	accountService *creditsvc.CreditAccountService
}

// NewCreditAccountHandler tạo instance mới của CreditAccountHandler
func NewCreditAccountHandler() (*CreditAccountHandler, error) {
	accountService, err := creditsvc.NewCreditAccountService()
	if err != nil {
		return nil, fmt.Errorf("failed to create credit account service: %v", err)
	}
	baseHandler := basehdl.NewBaseHandler[models.CreditAccount, creditdto.CreditAccountCreateInput, creditdto.CreditAccountUpdateInput](accountService)
	return &CreditAccountHandler{
		BaseHandler:    baseHandler,
		accountService: accountService,
	}, nil
}

// HandleGetBalance trả về tài khoản credit của người gọi (tạo nếu chưa có).
// GET /credit/balance
func (h *CreditAccountHandler) HandleGetBalance(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		userID := h.GetCurrentUserID(c)
		if userID == nil {
			h.HandleResponse(c, nil, common.ErrTokenMissing)
			return nil
		}

		account, err := h.accountService.EnsureAccount(c.Context(), *userID)
		h.HandleResponse(c, account, err)
		return nil
	})
}

// HandleTopup nạp credit vào tài khoản của người gọi.
// POST /credit/topup
func (h *CreditAccountHandler) HandleTopup(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		userID := h.GetCurrentUserID(c)
		if userID == nil {
			h.HandleResponse(c, nil, common.ErrTokenMissing)
			return nil
		}

		var input creditdto.TopupInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationFormat,
				fmt.Sprintf("Dữ liệu gửi lên không đúng định dạng JSON. Chi tiết: %v", err),
				common.StatusBadRequest,
				err,
			))
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		account, err := h.accountService.AddBalance(c.Context(), *userID, input.Amount)
		if err == nil {
			logger.LogAction("credit_topup", c, map[string]interface{}{"amount": input.Amount})
		}
		h.HandleResponse(c, account, err)
		return nil
	})
}

// CreditSpendHandler xử lý request tra cứu lịch sử trừ credit
type CreditSpendHandler struct {
	*basehdl.BaseHandler[models.CreditSpend, creditdto.CreditSpendCreateInput, creditdto.CreditSpendUpdateInput]
}

// NewCreditSpendHandler tạo instance mới của CreditSpendHandler
func NewCreditSpendHandler() (*CreditSpendHandler, error) {
	spendService, err := creditsvc.NewCreditSpendService()
	if err != nil {
		return nil, fmt.Errorf("failed to create credit spend service: %v", err)
	}
	return &CreditSpendHandler{
		BaseHandler: basehdl.NewBaseHandler[models.CreditSpend, creditdto.CreditSpendCreateInput, creditdto.CreditSpendUpdateInput](spendService),
	}, nil
}
