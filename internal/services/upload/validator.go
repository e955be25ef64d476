// Package upload validates and stores KYC document uploads. A file is
// written to disk only after every check passes; any failure after a
// write removes the file before the error is returned, so a rejected
// upload never leaves an orphan on disk.
package upload

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"prequity/internal/errors"
	"prequity/internal/models"

	"github.com/google/uuid"
)

// MaxFileSize is the upload ceiling: 5 MiB.
const MaxFileSize = 5 << 20

// FormFieldName is the multipart field a document must arrive in.
const FormFieldName = "document"

var allowedMimeTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
}

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Validator checks incoming document uploads and writes accepted files
// into the configured directory under a collision-resistant name.
type Validator struct {
	dir string
}

// NewValidator creates the upload directory if needed and returns a
// Validator rooted there.
func NewValidator(dir string) (*Validator, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Validator{dir: dir}, nil
}

// Dir returns the directory accepted uploads are written into.
func (v *Validator) Dir() string { return v.dir }

// ValidateAndStore inspects the multipart form and, when every check
// passes, writes the single document file to disk. Checks run in order:
// exactly one file, document type tag, filename safety, extension, MIME
// type, size. Both extension and MIME type must independently agree.
func (v *Validator) ValidateAndStore(form *multipart.Form, documentType string) (*StoredUpload, error) {
	files := form.File[FormFieldName]
	if len(files) == 0 {
		return nil, errors.ErrNoFile
	}
	if len(files) > 1 {
		return nil, errors.ErrTooManyFiles
	}
	header := files[0]

	if !models.ValidDocumentType(documentType) {
		return nil, errors.ErrInvalidDocumentType
	}
	if err := validateFilename(header.Filename); err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		return nil, errors.ErrInvalidFileExtension
	}
	mimeType := strings.ToLower(strings.TrimSpace(strings.Split(header.Header.Get("Content-Type"), ";")[0]))
	if !allowedMimeTypes[mimeType] {
		return nil, errors.ErrInvalidFileType
	}
	if header.Size > MaxFileSize {
		return nil, errors.ErrFileTooLarge
	}

	storedName := fmt.Sprintf("temp_%d-%s%s", time.Now().UnixMilli(), uuid.New().String(), ext)
	path := filepath.Join(v.dir, storedName)
	if err := saveFile(header, path); err != nil {
		// saveFile removes any partial write before returning.
		return nil, err
	}

	return &StoredUpload{
		StoredName:   storedName,
		OriginalName: header.Filename,
		Path:         path,
		Size:         header.Size,
		MimeType:     mimeType,
		DocumentType: documentType,
	}, nil
}

// Cleanup removes a stored file after a downstream failure (metadata
// write, for example). It must not mask the original error, so problems
// are logged and swallowed; a missing file counts as already clean.
func (v *Validator) Cleanup(stored *StoredUpload) {
	if stored == nil {
		return
	}
	if err := os.Remove(stored.Path); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to remove rejected upload %s: %v", stored.Path, err)
	}
}

// SafeStoredName reports whether name is a plausible server-assigned
// stored filename, free of traversal. Used when serving documents back
// by filename.
func (v *Validator) SafeStoredName(name string) bool {
	if name == "" || name != filepath.Base(name) {
		return false
	}
	return validateFilename(name) == nil && allowedExtensions[strings.ToLower(filepath.Ext(name))]
}

func validateFilename(name string) error {
	if name == "" {
		return errors.ErrInvalidFilename
	}
	if strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return errors.ErrInvalidFilename
	}
	return nil
}

func saveFile(header *multipart.FileHeader, path string) error {
	src, err := header.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return fmt.Errorf("create upload file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		if rmErr := os.Remove(path); rmErr != nil {
			log.Printf("failed to remove partial upload %s: %v", path, rmErr)
		}
		return fmt.Errorf("write upload file: %w", err)
	}
	if err := dst.Close(); err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			log.Printf("failed to remove partial upload %s: %v", path, rmErr)
		}
		return fmt.Errorf("flush upload file: %w", err)
	}
	return nil
}
