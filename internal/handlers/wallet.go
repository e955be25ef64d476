package handlers

import (
	apperrors "prequity/internal/errors"
	"prequity/internal/middleware"
	"prequity/internal/services/wallet"
	"prequity/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type WalletHandler struct {
	service wallet.Service
}

func NewWalletHandler(service wallet.Service) *WalletHandler {
	return &WalletHandler{service: service}
}

func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return response.DomainError(c, apperrors.ErrNoToken)
	}

	w, err := h.service.GetWallet(claims.UserID)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	return response.Success(c, fiber.Map{
		"balance":  w.Balance,
		"currency": w.Currency,
		"status":   w.Status,
	})
}

func (h *WalletHandler) Deposit(c *fiber.Ctx) error {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return response.DomainError(c, apperrors.ErrNoToken)
	}

	var input struct {
		Amount    float64 `json:"amount"`
		CardToken string  `json:"card_token"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	if input.CardToken == "" {
		return response.BadRequest(c, "card_token is required")
	}

	w, err := h.service.Deposit(claims.UserID, input.Amount, input.CardToken)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	return response.Success(c, fiber.Map{
		"balance":  w.Balance,
		"currency": w.Currency,
	})
}
