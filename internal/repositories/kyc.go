package repositories

import (
	"errors"
	"time"

	"prequity/internal/models"

	"gorm.io/gorm"
)

// KYCRepository owns KYC records, their documents, and the audit trail.
type KYCRepository interface {
	// GetRecordByUserID returns the user's record, or
	// gorm.ErrRecordNotFound if they never submitted.
	GetRecordByUserID(userID uint) (*models.KYCRecord, error)

	// GetRecordByID returns a record with its documents preloaded.
	GetRecordByID(recordID uint) (*models.KYCRecord, error)

	// SaveSubmission persists a document row and moves the owning
	// record to pending, creating the record if this is the user's
	// first upload. Record creation, status transition, and document
	// insert commit atomically.
	SaveSubmission(userID uint, doc *models.KYCDocument, bankAccount, bankIFSC string, complianceScore int) (*models.KYCRecord, error)

	// ListPending returns all records awaiting review with a document
	// count per record.
	ListPending() ([]models.PendingSubmission, error)

	// TransitionStatus performs a guarded status update: it succeeds
	// only when the record currently holds fromStatus, so concurrent
	// reviews serialize at the storage layer. Returns
	// gorm.ErrRecordNotFound when the record does not exist and
	// ErrStaleStatus when it exists but left fromStatus.
	TransitionStatus(recordID uint, fromStatus string, updates map[string]interface{}) (*models.KYCRecord, error)

	// GetDocumentByStoredName resolves a stored filename to its
	// metadata row.
	GetDocumentByStoredName(storedName string) (*models.KYCDocument, error)

	// AppendAudit records an action against a record.
	AppendAudit(entry *models.AuditLog) error
}

// ErrStaleStatus signals a conditional transition that matched no rows
// because the record already left the expected status.
var ErrStaleStatus = errors.New("kyc record left expected status")

type kycRepository struct {
	db *gorm.DB
}

func NewKYCRepository(db *gorm.DB) KYCRepository {
	return &kycRepository{db: db}
}

func (r *kycRepository) GetRecordByUserID(userID uint) (*models.KYCRecord, error) {
	var record models.KYCRecord
	err := r.db.Preload("Documents").Where("user_id = ?", userID).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *kycRepository) GetRecordByID(recordID uint) (*models.KYCRecord, error) {
	var record models.KYCRecord
	err := r.db.Preload("Documents").Preload("User").First(&record, recordID).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *kycRepository) SaveSubmission(userID uint, doc *models.KYCDocument, bankAccount, bankIFSC string, complianceScore int) (*models.KYCRecord, error) {
	var record models.KYCRecord
	err := r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ?", userID).First(&record).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			record = models.KYCRecord{
				UserID:          userID,
				Status:          models.KYCStatusPending,
				BankAccount:     bankAccount,
				BankIFSC:        bankIFSC,
				ComplianceScore: complianceScore,
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			// Resubmission after rejection or expiry re-enters review.
			updates := map[string]interface{}{
				"status":           models.KYCStatusPending,
				"rejection_reason": "",
				"compliance_score": complianceScore,
			}
			if bankAccount != "" {
				updates["bank_account"] = bankAccount
			}
			if bankIFSC != "" {
				updates["bank_ifsc"] = bankIFSC
			}
			if err := tx.Model(&record).Updates(updates).Error; err != nil {
				return err
			}
			record.Status = models.KYCStatusPending
			record.RejectionReason = ""
		}

		doc.KYCRecordID = record.ID
		doc.UploadedAt = time.Now()
		return tx.Create(doc).Error
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *kycRepository) ListPending() ([]models.PendingSubmission, error) {
	var pending []models.PendingSubmission
	err := r.db.Model(&models.KYCRecord{}).
		Select("kyc_records.id AS record_id, kyc_records.user_id, users.email, kyc_records.updated_at AS submitted_at, COUNT(kyc_documents.id) AS document_count").
		Joins("JOIN users ON users.id = kyc_records.user_id").
		Joins("LEFT JOIN kyc_documents ON kyc_documents.kyc_record_id = kyc_records.id AND kyc_documents.deleted_at IS NULL").
		Where("kyc_records.status = ?", models.KYCStatusPending).
		Group("kyc_records.id, users.email").
		Order("kyc_records.updated_at ASC").
		Scan(&pending).Error
	if err != nil {
		return nil, err
	}
	return pending, nil
}

func (r *kycRepository) TransitionStatus(recordID uint, fromStatus string, updates map[string]interface{}) (*models.KYCRecord, error) {
	result := r.db.Model(&models.KYCRecord{}).
		Where("id = ? AND status = ?", recordID, fromStatus).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		var record models.KYCRecord
		if err := r.db.First(&record, recordID).Error; err != nil {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, ErrStaleStatus
	}
	return r.GetRecordByID(recordID)
}

func (r *kycRepository) GetDocumentByStoredName(storedName string) (*models.KYCDocument, error) {
	var doc models.KYCDocument
	err := r.db.Where("stored_name = ?", storedName).First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *kycRepository) AppendAudit(entry *models.AuditLog) error {
	return r.db.Create(entry).Error
}
