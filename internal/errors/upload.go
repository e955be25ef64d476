package errors

var (
	ErrNoFile = &DomainError{
		Code:      "NO_FILE",
		Message:   "no document file provided",
		Status:    400,
		Retryable: true,
	}
	ErrTooManyFiles = &DomainError{
		Code:    "TOO_MANY_FILES",
		Message: "only one document may be uploaded per request",
		Status:  400,
	}
	ErrFileTooLarge = &DomainError{
		Code:    "FILE_TOO_LARGE",
		Message: "file exceeds the 5 MiB limit",
		Status:  413,
	}
	ErrInvalidFileType = &DomainError{
		Code:    "INVALID_FILE_TYPE",
		Message: "only PDF, JPEG and PNG files are accepted",
		Status:  400,
	}
	ErrInvalidFileExtension = &DomainError{
		Code:    "INVALID_FILE_EXTENSION",
		Message: "file extension must be .pdf, .jpg, .jpeg or .png",
		Status:  400,
	}
	ErrInvalidFilename = &DomainError{
		Code:    "INVALID_FILENAME",
		Message: "filename contains illegal characters",
		Status:  400,
	}
	ErrInvalidDocumentType = &DomainError{
		Code:    "INVALID_DOCUMENT_TYPE",
		Message: "document type must be aadhaar, pan or bank_statement",
		Status:  400,
	}
)
