package handlers

import (
	"log"
	"path/filepath"
	"strconv"

	apperrors "prequity/internal/errors"
	"prequity/internal/middleware"
	"prequity/internal/models"
	"prequity/internal/repositories"
	"prequity/internal/services/kyc"
	"prequity/internal/services/upload"
	"prequity/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler serves the KYC review surface. Every route is gated by
// middleware.RequireAdmin before these methods run.
type AdminHandler struct {
	service   kyc.Service
	kycRepo   repositories.KYCRepository
	validator *upload.Validator
}

func NewAdminHandler(service kyc.Service, kycRepo repositories.KYCRepository, validator *upload.Validator) *AdminHandler {
	return &AdminHandler{service: service, kycRepo: kycRepo, validator: validator}
}

func (h *AdminHandler) ListPending(c *fiber.Ctx) error {
	pending, err := h.service.ListPending(c.Context())
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, fiber.Map{
		"submissions": pending,
		"count":       len(pending),
	})
}

func (h *AdminHandler) GetSubmission(c *fiber.Ctx) error {
	recordID, err := parseRecordID(c)
	if err != nil {
		return response.BadRequest(c, "invalid record id")
	}

	detail, err := h.service.GetSubmission(c.Context(), recordID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, detail)
}

func (h *AdminHandler) Approve(c *fiber.Ctx) error {
	recordID, err := parseRecordID(c)
	if err != nil {
		return response.BadRequest(c, "invalid record id")
	}

	claims, _ := middleware.GetClaims(c)
	var input struct {
		Notes string `json:"notes"`
	}
	if err := c.BodyParser(&input); err != nil && len(c.Body()) > 0 {
		return response.BadRequest(c, "invalid request body")
	}

	record, err := h.service.Approve(c.Context(), recordID, claims.UserID, input.Notes)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, fiber.Map{
		"record_id":   record.ID,
		"status":      record.Status,
		"verified_at": record.VerifiedAt,
	})
}

func (h *AdminHandler) Reject(c *fiber.Ctx) error {
	recordID, err := parseRecordID(c)
	if err != nil {
		return response.BadRequest(c, "invalid record id")
	}

	claims, _ := middleware.GetClaims(c)
	var input struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	record, err := h.service.Reject(c.Context(), recordID, claims.UserID, input.Reason)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, fiber.Map{
		"record_id":        record.ID,
		"status":           record.Status,
		"rejection_reason": record.RejectionReason,
	})
}

// FetchDocument streams a stored document by its server-assigned
// filename. The name is re-validated so a crafted path cannot escape
// the upload directory.
func (h *AdminHandler) FetchDocument(c *fiber.Ctx) error {
	storedName := c.Params("filename")
	if !h.validator.SafeStoredName(storedName) {
		return response.DomainError(c, apperrors.ErrInvalidFilename)
	}

	doc, err := h.kycRepo.GetDocumentByStoredName(storedName)
	if err != nil {
		return response.DomainError(c, apperrors.ErrDocumentNotFound)
	}

	if claims, ok := middleware.GetClaims(c); ok {
		if err := h.kycRepo.AppendAudit(&models.AuditLog{
			Action:      models.AuditActionDocView,
			ActorID:     claims.UserID,
			KYCRecordID: doc.KYCRecordID,
			Detail:      models.JSON{"stored_name": doc.StoredName},
		}); err != nil {
			log.Printf("failed to audit document view %s: %v", doc.StoredName, err)
		}
	}

	c.Set("Content-Type", doc.MimeType)
	c.Set("Content-Disposition", `inline; filename="`+doc.OriginalName+`"`)
	return c.SendFile(filepath.Join(h.validator.Dir(), doc.StoredName))
}

func parseRecordID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	return uint(id), err
}
