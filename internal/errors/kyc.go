package errors

var (
	ErrKYCRecordNotFound = &DomainError{
		Code:    "KYC_NOT_FOUND",
		Message: "KYC record not found",
		Status:  404,
	}
	ErrInvalidKYCState = &DomainError{
		Code:    "INVALID_KYC_STATE",
		Message: "KYC record is not in a reviewable state",
		Status:  409,
	}
	ErrRejectionReasonRequired = &DomainError{
		Code:    "REJECTION_REASON_REQUIRED",
		Message: "a non-empty rejection reason is required",
		Status:  400,
	}
	ErrKYCRequired = &DomainError{
		Code:    "KYC_REQUIRED",
		Message: "KYC verification is required before trading",
		Status:  403,
	}
	ErrDocumentNotFound = &DomainError{
		Code:    "DOCUMENT_NOT_FOUND",
		Message: "document not found",
		Status:  404,
	}
)
