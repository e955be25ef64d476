package upload

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "prequity/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testFile struct {
	fieldName string
	filename  string
	mimeType  string
	content   string
}

func buildForm(t *testing.T, files ...testFile) *multipart.Form {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="`+f.fieldName+`"; filename="`+f.filename+`"`)
		header.Set("Content-Type", f.mimeType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(&buf, writer.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form
}

func pdfFile(filename string) testFile {
	return testFile{fieldName: FormFieldName, filename: filename, mimeType: "application/pdf", content: "%PDF-1.4 sample"}
}

func TestValidateAndStoreAccepts(t *testing.T) {
	dir := t.TempDir()
	v, err := NewValidator(dir)
	require.NoError(t, err)

	form := buildForm(t, pdfFile("pan_card.pdf"))
	stored, err := v.ValidateAndStore(form, "pan")
	require.NoError(t, err)

	assert.Equal(t, "pan_card.pdf", stored.OriginalName)
	assert.Equal(t, "pan", stored.DocumentType)
	assert.Equal(t, "application/pdf", stored.MimeType)
	assert.True(t, strings.HasPrefix(stored.StoredName, "temp_"))
	assert.True(t, strings.HasSuffix(stored.StoredName, ".pdf"))

	info, err := os.Stat(stored.Path)
	require.NoError(t, err)
	assert.Equal(t, stored.Size, info.Size())
}

func TestValidateAndStoreRejections(t *testing.T) {
	tests := []struct {
		name         string
		files        []testFile
		documentType string
		wantErr      error
	}{
		{
			name:         "no file",
			files:        nil,
			documentType: "pan",
			wantErr:      apperrors.ErrNoFile,
		},
		{
			name:         "two files",
			files:        []testFile{pdfFile("a.pdf"), pdfFile("b.pdf")},
			documentType: "pan",
			wantErr:      apperrors.ErrTooManyFiles,
		},
		{
			name:         "bad document type",
			files:        []testFile{pdfFile("a.pdf")},
			documentType: "passport",
			wantErr:      apperrors.ErrInvalidDocumentType,
		},
		{
			name: "oversize file",
			files: []testFile{{
				fieldName: FormFieldName, filename: "big.pdf",
				mimeType: "application/pdf",
				content:  strings.Repeat("x", MaxFileSize+1),
			}},
			documentType: "pan",
			wantErr:      apperrors.ErrFileTooLarge,
		},
		{
			name: "bad mime type",
			files: []testFile{{
				fieldName: FormFieldName, filename: "a.pdf",
				mimeType: "application/zip", content: "zipzip",
			}},
			documentType: "pan",
			wantErr:      apperrors.ErrInvalidFileType,
		},
		{
			name: "bad extension",
			files: []testFile{{
				fieldName: FormFieldName, filename: "a.exe",
				mimeType: "application/pdf", content: "binary",
			}},
			documentType: "pan",
			wantErr:      apperrors.ErrInvalidFileExtension,
		},
		{
			name: "mismatched but individually allowed pair passes",
			files: []testFile{{
				fieldName: FormFieldName, filename: "a.png",
				mimeType: "application/pdf", content: "%PDF",
			}},
			documentType: "pan",
			wantErr:      nil, // png extension + pdf mime: both individually allowed
		},
		{
			name: "traversal filename",
			files: []testFile{{
				fieldName: FormFieldName, filename: "..\\..\\evil.pdf",
				mimeType: "application/pdf", content: "%PDF",
			}},
			documentType: "pan",
			wantErr:      apperrors.ErrInvalidFilename,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			v, err := NewValidator(dir)
			require.NoError(t, err)

			form := buildForm(t, tt.files...)
			_, err = v.ValidateAndStore(form, tt.documentType)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)

			// A rejected upload leaves nothing in the upload directory.
			entries, readErr := os.ReadDir(dir)
			require.NoError(t, readErr)
			assert.Empty(t, entries)
		})
	}
}

func TestCleanupRemovesStoredFile(t *testing.T) {
	dir := t.TempDir()
	v, err := NewValidator(dir)
	require.NoError(t, err)

	form := buildForm(t, pdfFile("statement.pdf"))
	stored, err := v.ValidateAndStore(form, "bank_statement")
	require.NoError(t, err)

	v.Cleanup(stored)
	_, statErr := os.Stat(stored.Path)
	assert.True(t, os.IsNotExist(statErr))

	// Cleaning an already-clean upload is a no-op.
	v.Cleanup(stored)
	v.Cleanup(nil)
}

func TestSafeStoredName(t *testing.T) {
	dir := t.TempDir()
	v, err := NewValidator(dir)
	require.NoError(t, err)

	assert.True(t, v.SafeStoredName("temp_1712000000-abc.pdf"))
	assert.False(t, v.SafeStoredName(""))
	assert.False(t, v.SafeStoredName("../temp_1712000000-abc.pdf"))
	assert.False(t, v.SafeStoredName(filepath.Join("sub", "temp.pdf")))
	assert.False(t, v.SafeStoredName("temp_1712000000-abc.exe"))
}
