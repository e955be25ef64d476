package models

import "time"

// Audit actions recorded against KYC records.
const (
	AuditActionKYCSubmit  = "kyc_submit"
	AuditActionKYCApprove = "kyc_approve"
	AuditActionKYCReject  = "kyc_reject"
	AuditActionDocView    = "document_view"
)

// AuditLog records an admin (or system) action against a KYC record.
type AuditLog struct {
	ID          uint   `gorm:"primarykey"`
	Action      string `gorm:"index;not null"`
	ActorID     uint   `gorm:"index;not null"`
	KYCRecordID uint   `gorm:"index"`
	Detail      JSON   `gorm:"type:jsonb"`
	CreatedAt   time.Time
}
