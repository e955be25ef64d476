package upload

// StoredUpload is the normalized result of a validated, durably written
// upload, handed to the KYC workflow for metadata persistence.
type StoredUpload struct {
	StoredName   string
	OriginalName string
	Path         string
	Size         int64
	MimeType     string
	DocumentType string
}
