// Package kyc orchestrates the verification workflow: submission
// intake, status computation, and admin review transitions.
//
// A record moves through an explicit state machine:
//
//	not_started -> pending    (first valid document upload)
//	pending     -> verified   (admin approve)
//	pending     -> rejected   (admin reject, with reason)
//	verified/rejected -> pending (resubmission)
//
// Review transitions are guarded at the storage layer by a conditional
// update, so two concurrent reviews of the same record cannot both
// succeed against a stale read.
package kyc

import (
	"context"
	"log"
	"time"

	"prequity/internal/crypto"
	apperrors "prequity/internal/errors"
	"prequity/internal/models"
	"prequity/internal/repositories"
	"prequity/internal/repositories/cache"
	"prequity/internal/services/upload"

	"gorm.io/gorm"
)

// Service defines the KYC workflow operations.
type Service interface {
	// Submit persists a validated upload. The stored file is removed if
	// metadata persistence fails, so a document row exists iff its file
	// survived validation and was durably written.
	Submit(ctx context.Context, userID uint, stored *upload.StoredUpload, bank BankDetails) (*models.KYCRecord, error)

	// GetStatus returns the user's current status, trade eligibility,
	// and document summaries.
	GetStatus(ctx context.Context, userID uint) (*models.KYCStatusResponse, error)

	// ListPending returns all records awaiting review (admin only).
	ListPending(ctx context.Context) ([]models.PendingSubmission, error)

	// GetSubmission returns one record with decrypted bank details for
	// admin review.
	GetSubmission(ctx context.Context, recordID uint) (*SubmissionDetail, error)

	// Approve transitions pending -> verified.
	Approve(ctx context.Context, recordID uint, reviewerID uint, notes string) (*models.KYCRecord, error)

	// Reject transitions pending -> rejected; reason must be non-empty
	// and is surfaced verbatim to the user.
	Reject(ctx context.Context, recordID uint, reviewerID uint, reason string) (*models.KYCRecord, error)

	// CanTrade reports whether the user may place orders.
	CanTrade(ctx context.Context, userID uint) (bool, error)
}

// BankDetails are the optional sensitive fields captured at
// submission; they are encrypted before storage.
type BankDetails struct {
	Account string
	IFSC    string
}

// SubmissionDetail is the admin review view of a record.
type SubmissionDetail struct {
	Record      *models.KYCRecord `json:"record"`
	BankAccount string            `json:"bank_account,omitempty"`
	BankIFSC    string            `json:"bank_ifsc,omitempty"`
}

type service struct {
	repo      repositories.KYCRepository
	validator *upload.Validator
	cipher    *crypto.FieldCipher
	cache     *cache.CacheService
}

// NewService wires the workflow over its collaborators. Cache is
// optional.
func NewService(repo repositories.KYCRepository, validator *upload.Validator, cipher *crypto.FieldCipher, cacheSvc *cache.CacheService) Service {
	return &service{repo: repo, validator: validator, cipher: cipher, cache: cacheSvc}
}

func (s *service) Submit(ctx context.Context, userID uint, stored *upload.StoredUpload, bank BankDetails) (*models.KYCRecord, error) {
	fields := map[string]string{
		"bank_account": bank.Account,
		"bank_ifsc":    bank.IFSC,
	}
	if err := s.cipher.EncryptFields(fields); err != nil {
		s.validator.Cleanup(stored)
		return nil, err
	}

	doc := &models.KYCDocument{
		DocumentType:     stored.DocumentType,
		OriginalName:     stored.OriginalName,
		StoredName:       stored.StoredName,
		Size:             stored.Size,
		MimeType:         stored.MimeType,
		ValidationStatus: models.DocumentValidationValid,
	}

	record, err := s.repo.SaveSubmission(userID, doc, fields["bank_account"], fields["bank_ifsc"], complianceScore(stored))
	if err != nil {
		// The metadata write failed: the stored file must not outlive
		// it, and its removal must not mask the original error.
		s.validator.Cleanup(stored)
		return nil, err
	}

	s.audit(&models.AuditLog{
		Action:      models.AuditActionKYCSubmit,
		ActorID:     userID,
		KYCRecordID: record.ID,
		Detail: models.JSON{
			"document_type": stored.DocumentType,
			"stored_name":   stored.StoredName,
		},
	})
	s.invalidateStatus(ctx, userID)
	return record, nil
}

func (s *service) GetStatus(ctx context.Context, userID uint) (*models.KYCStatusResponse, error) {
	if s.cache != nil {
		if status, err := s.cache.GetKYCStatus(ctx, userID); err == nil {
			return status, nil
		}
	}

	record, err := s.repo.GetRecordByUserID(userID)
	if err == gorm.ErrRecordNotFound {
		return &models.KYCStatusResponse{
			Status:    models.KYCStatusNotStarted,
			CanTrade:  false,
			Documents: []models.DocumentSummary{},
			Message:   "Upload your KYC documents to start trading.",
		}, nil
	}
	if err != nil {
		return nil, err
	}

	status := &models.KYCStatusResponse{
		Status:    record.Status,
		CanTrade:  record.Status == models.KYCStatusVerified,
		Documents: summarize(record.Documents),
		Message:   statusMessage(record),
	}

	if s.cache != nil {
		if err := s.cache.CacheKYCStatus(ctx, userID, status); err != nil {
			log.Printf("failed to cache kyc status for user %d: %v", userID, err)
		}
	}
	return status, nil
}

func (s *service) ListPending(ctx context.Context) ([]models.PendingSubmission, error) {
	return s.repo.ListPending()
}

func (s *service) GetSubmission(ctx context.Context, recordID uint) (*SubmissionDetail, error) {
	record, err := s.repo.GetRecordByID(recordID)
	if err == gorm.ErrRecordNotFound {
		return nil, apperrors.ErrKYCRecordNotFound
	}
	if err != nil {
		return nil, err
	}

	fields := map[string]string{
		"bank_account": record.BankAccount,
		"bank_ifsc":    record.BankIFSC,
	}
	// Fields that fail to decrypt keep their stored value.
	s.cipher.DecryptFields(fields)

	return &SubmissionDetail{
		Record:      record,
		BankAccount: fields["bank_account"],
		BankIFSC:    fields["bank_ifsc"],
	}, nil
}

func (s *service) Approve(ctx context.Context, recordID uint, reviewerID uint, notes string) (*models.KYCRecord, error) {
	now := time.Now()
	record, err := s.transition(recordID, map[string]interface{}{
		"status":       models.KYCStatusVerified,
		"review_notes": notes,
		"verified_by":  reviewerID,
		"verified_at":  &now,
	})
	if err != nil {
		return nil, err
	}

	s.audit(&models.AuditLog{
		Action:      models.AuditActionKYCApprove,
		ActorID:     reviewerID,
		KYCRecordID: record.ID,
		Detail:      models.JSON{"notes": notes},
	})
	s.invalidateStatus(ctx, record.UserID)
	return record, nil
}

func (s *service) Reject(ctx context.Context, recordID uint, reviewerID uint, reason string) (*models.KYCRecord, error) {
	if reason == "" {
		return nil, apperrors.ErrRejectionReasonRequired
	}

	record, err := s.transition(recordID, map[string]interface{}{
		"status":           models.KYCStatusRejected,
		"rejection_reason": reason,
		"verified_by":      reviewerID,
	})
	if err != nil {
		return nil, err
	}

	s.audit(&models.AuditLog{
		Action:      models.AuditActionKYCReject,
		ActorID:     reviewerID,
		KYCRecordID: record.ID,
		Detail:      models.JSON{"reason": reason},
	})
	s.invalidateStatus(ctx, record.UserID)
	return record, nil
}

func (s *service) CanTrade(ctx context.Context, userID uint) (bool, error) {
	status, err := s.GetStatus(ctx, userID)
	if err != nil {
		return false, err
	}
	return status.CanTrade, nil
}

// transition performs a guarded pending -> X update. Only records
// currently pending match, so a second approve (or a concurrent reject)
// fails with INVALID_KYC_STATE and fires no side effects.
func (s *service) transition(recordID uint, updates map[string]interface{}) (*models.KYCRecord, error) {
	record, err := s.repo.TransitionStatus(recordID, models.KYCStatusPending, updates)
	switch {
	case err == gorm.ErrRecordNotFound:
		return nil, apperrors.ErrKYCRecordNotFound
	case err == repositories.ErrStaleStatus:
		return nil, apperrors.ErrInvalidKYCState
	case err != nil:
		return nil, err
	}
	return record, nil
}

func (s *service) audit(entry *models.AuditLog) {
	if err := s.repo.AppendAudit(entry); err != nil {
		log.Printf("failed to append audit entry %s for record %d: %v", entry.Action, entry.KYCRecordID, err)
	}
}

func (s *service) invalidateStatus(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateKYCStatus(ctx, userID); err != nil {
		log.Printf("failed to invalidate kyc status cache for user %d: %v", userID, err)
	}
}

func summarize(docs []models.KYCDocument) []models.DocumentSummary {
	summaries := make([]models.DocumentSummary, 0, len(docs))
	for _, d := range docs {
		summaries = append(summaries, models.DocumentSummary{
			DocumentType: d.DocumentType,
			OriginalName: d.OriginalName,
			Size:         d.Size,
			Status:       d.ValidationStatus,
			UploadedAt:   d.UploadedAt,
		})
	}
	return summaries
}

func statusMessage(record *models.KYCRecord) string {
	switch record.Status {
	case models.KYCStatusPending:
		return "Your documents are under review."
	case models.KYCStatusVerified:
		return "Verification complete. You can trade."
	case models.KYCStatusRejected:
		return "Verification rejected: " + record.RejectionReason
	case models.KYCStatusExpired:
		return "Your verification has expired. Please resubmit your documents."
	default:
		return "Upload your KYC documents to start trading."
	}
}

// complianceScore is a placeholder heuristic standing in for the
// document-analysis sidecar: PDFs of reasonable size score higher than
// tiny images. It informs admin review only, never gating.
func complianceScore(stored *upload.StoredUpload) int {
	score := 50
	if stored.MimeType == "application/pdf" {
		score += 20
	}
	if stored.Size > 100<<10 {
		score += 15
	}
	if stored.DocumentType == models.DocumentTypeBankStatement {
		score += 5
	}
	return score
}
