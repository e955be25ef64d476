package handlers

import (
	"strconv"

	apperrors "prequity/internal/errors"
	"prequity/internal/middleware"
	"prequity/internal/services/listing"
	"prequity/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type ShareHandler struct {
	service listing.Service
}

func NewShareHandler(service listing.Service) *ShareHandler {
	return &ShareHandler{service: service}
}

// ListShares is public: the catalogue is browsable before verification.
func (h *ShareHandler) ListShares(c *fiber.Ctx) error {
	shares, err := h.service.ListShares(c.Context())
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, shares)
}

// PlaceOrder requires a verified KYC record.
func (h *ShareHandler) PlaceOrder(c *fiber.Ctx) error {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return response.DomainError(c, apperrors.ErrNoToken)
	}

	var input struct {
		ShareID uint `json:"share_id"`
		Lots    int  `json:"lots"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	order, err := h.service.PlaceOrder(c.Context(), claims.UserID, input.ShareID, input.Lots)
	if err != nil {
		if _, ok := err.(*apperrors.DomainError); ok {
			return response.DomainError(c, err)
		}
		return response.BadRequest(c, err.Error())
	}

	return response.Created(c, fiber.Map{
		"order_id": order.ID,
		"company":  order.Share.CompanyName,
		"lots":     order.Lots,
		"price":    order.Price,
		"status":   order.Status,
	})
}

// GetOrder returns one order to its owner or an admin. Resolving the
// owning user requires the order row; a persistence failure there is an
// ownership-resolution failure, not a denial.
func (h *ShareHandler) GetOrder(c *fiber.Ctx) error {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return response.DomainError(c, apperrors.ErrNoToken)
	}

	orderID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid order id")
	}

	order, err := h.service.GetOrder(c.Context(), uint(orderID))
	if err != nil {
		if _, ok := err.(*apperrors.DomainError); ok {
			return response.DomainError(c, err)
		}
		return response.DomainError(c, apperrors.ErrOwnershipCheck)
	}

	if err := middleware.RequireOwnership(claims, order.UserID); err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, fiber.Map{
		"order_id": order.ID,
		"company":  order.Share.CompanyName,
		"lots":     order.Lots,
		"price":    order.Price,
		"status":   order.Status,
	})
}

func (h *ShareHandler) ListOrders(c *fiber.Ctx) error {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return response.DomainError(c, apperrors.ErrNoToken)
	}

	orders, err := h.service.ListOrders(c.Context(), claims.UserID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, orders)
}
