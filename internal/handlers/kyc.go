package handlers

import (
	apperrors "prequity/internal/errors"
	"prequity/internal/middleware"
	"prequity/internal/services/kyc"
	"prequity/internal/services/upload"
	"prequity/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type KYCHandler struct {
	service   kyc.Service
	validator *upload.Validator
}

func NewKYCHandler(service kyc.Service, validator *upload.Validator) *KYCHandler {
	return &KYCHandler{service: service, validator: validator}
}

// Upload accepts a single multipart `document` plus a `documentType`
// form field. Validation happens before any metadata is written; a
// rejected upload leaves neither a file nor a document row behind.
func (h *KYCHandler) Upload(c *fiber.Ctx) error {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return response.DomainError(c, apperrors.ErrNoToken)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return response.DomainError(c, apperrors.ErrNoFile)
	}

	documentType := c.FormValue("documentType")
	stored, err := h.validator.ValidateAndStore(form, documentType)
	if err != nil {
		return response.DomainError(c, err)
	}

	bank := kyc.BankDetails{
		Account: c.FormValue("bankAccount"),
		IFSC:    c.FormValue("bankIfsc"),
	}

	record, err := h.service.Submit(c.Context(), claims.UserID, stored, bank)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Created(c, fiber.Map{
		"record_id":     record.ID,
		"status":        record.Status,
		"document_type": stored.DocumentType,
		"original_name": stored.OriginalName,
		"size":          stored.Size,
	})
}

// Status returns the caller's verification state and document list.
func (h *KYCHandler) Status(c *fiber.Ctx) error {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return response.DomainError(c, apperrors.ErrNoToken)
	}

	status, err := h.service.GetStatus(c.Context(), claims.UserID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, status)
}
