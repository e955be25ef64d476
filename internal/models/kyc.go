package models

import (
	"time"

	"gorm.io/gorm"
)

// KYC record statuses. The record moves through an explicit state
// machine: NotStarted -> Pending on the first valid upload, Pending ->
// Verified/Rejected by admin review, and Verified/Rejected -> Pending
// again on resubmission.
const (
	KYCStatusNotStarted = "not_started"
	KYCStatusPending    = "pending"
	KYCStatusVerified   = "verified"
	KYCStatusRejected   = "rejected"
	KYCStatusExpired    = "expired"
)

// Accepted document types
const (
	DocumentTypeAadhaar       = "aadhaar"
	DocumentTypePAN           = "pan"
	DocumentTypeBankStatement = "bank_statement"
)

// Document validation statuses
const (
	DocumentValidationPending = "pending"
	DocumentValidationValid   = "valid"
	DocumentValidationInvalid = "invalid"
)

// KYCRecord is the per-user verification record. A user owns at most
// one record; documents hang off it.
type KYCRecord struct {
	gorm.Model
	UserID          uint   `gorm:"uniqueIndex;not null"`
	User            User   `gorm:"foreignKey:UserID"`
	Status          string `gorm:"default:'not_started';index"`
	RejectionReason string
	ReviewNotes     string
	ComplianceScore int
	VerifiedBy      *uint
	VerifiedAt      *time.Time
	// Bank details captured at submission, stored encrypted.
	BankAccount string
	BankIFSC    string
	Documents   []KYCDocument `gorm:"foreignKey:KYCRecordID"`
}

// KYCDocument is the metadata row for one stored upload. Created only
// after the file has passed validation and been durably written; never
// mutated afterwards except ValidationStatus.
type KYCDocument struct {
	gorm.Model
	KYCRecordID      uint   `gorm:"index;not null"`
	DocumentType     string `gorm:"not null"`
	OriginalName     string `gorm:"not null"`
	StoredName       string `gorm:"uniqueIndex;not null"`
	Size             int64  `gorm:"not null"`
	MimeType         string `gorm:"not null"`
	ValidationStatus string `gorm:"default:'pending'"`
	UploadedAt       time.Time
}

// DocumentSummary is the client-facing view of an uploaded document.
type DocumentSummary struct {
	DocumentType string    `json:"document_type"`
	OriginalName string    `json:"original_name"`
	Size         int64     `json:"size"`
	Status       string    `json:"status"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// KYCStatusResponse is returned by the status endpoint.
type KYCStatusResponse struct {
	Status    string            `json:"status"`
	CanTrade  bool              `json:"canTrade"`
	Documents []DocumentSummary `json:"documents"`
	Message   string            `json:"message,omitempty"`
}

// PendingSubmission is the admin list view of a record awaiting review.
type PendingSubmission struct {
	RecordID      uint      `json:"record_id"`
	UserID        uint      `json:"user_id"`
	Email         string    `json:"email"`
	DocumentCount int64     `json:"document_count"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// ValidDocumentType reports whether t is one of the accepted tags.
func ValidDocumentType(t string) bool {
	switch t {
	case DocumentTypeAadhaar, DocumentTypePAN, DocumentTypeBankStatement:
		return true
	}
	return false
}
