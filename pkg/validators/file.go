package validators

import (
	"fmt"
	"io"
	"mime/multipart"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxFileSize is the default upload limit, 10 MiB
const MaxFileSize = 10 << 20

const (
	FileCategoryImages    = "images"
	FileCategoryDocuments = "documents"
)

var imageTypes = []string{"image/jpeg", "image/png", "image/jpg", "image/webp"}

var docTypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// AllowedFileTypes maps an upload category to the MIME types it accepts
var AllowedFileTypes = map[string][]string{
	FileCategoryImages:    imageTypes,
	FileCategoryDocuments: slices.Concat(docTypes, imageTypes),
}

// FileInfo is the part of an upload the validator looks at
type FileInfo struct {
	Name     string
	Size     int64
	MimeType string
}

// ValidateFile checks the size and MIME type of f against the allow-list of
// category. Unknown categories fall back to documents and a maxSize of zero
// or less means MaxFileSize.
func ValidateFile(f *FileInfo, category string, maxSize int64) Result {
	if f == nil {
		return newResult([]string{"No file selected"})
	}

	var errs []string

	allowed, ok := AllowedFileTypes[category]
	if !ok {
		allowed = AllowedFileTypes[FileCategoryDocuments]
	}

	mime := normalizeMime(f.MimeType)
	if !slices.Contains(allowed, mime) {
		errs = append(errs, fmt.Sprintf("File type %s is not allowed", mime))
	}

	if maxSize <= 0 {
		maxSize = MaxFileSize
	}

	if f.Size > maxSize {
		errs = append(errs, fmt.Sprintf("File size must be less than %s", sizeLabel(maxSize)))
	}

	return newResult(errs)
}

func sizeLabel(n int64) string {
	if n%(1<<20) == 0 {
		return fmt.Sprintf("%dMB", n>>20)
	}
	return fmt.Sprintf("%dKB", n>>10)
}

// normalizeMime drops parameters such as "; charset=utf-8"
func normalizeMime(m string) string {
	m, _, _ = strings.Cut(m, ";")
	return strings.ToLower(strings.TrimSpace(m))
}

// InspectUpload sniffs the real content type of an uploaded file instead of
// trusting the client header and validates it for category. The returned
// file is rewound and must be closed by the caller when non-nil.
func InspectUpload(fh *multipart.FileHeader, category string, maxSize int64) (multipart.File, *FileInfo, Result, error) {
	if fh == nil {
		return nil, nil, ValidateFile(nil, category, maxSize), nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, nil, Result{}, fmt.Errorf("failed to open upload, %w", err)
	}

	mime, err := mimetype.DetectReader(f)
	if err != nil {
		f.Close()
		return nil, nil, Result{}, fmt.Errorf("failed to detect mime type, %w", err)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, nil, Result{}, fmt.Errorf("failed to rewind upload, %w", err)
	}

	info := &FileInfo{
		Name:     SanitizeFileName(fh.Filename),
		Size:     fh.Size,
		MimeType: normalizeMime(mime.String()),
	}

	res := ValidateFile(info, category, maxSize)
	if !res.IsValid {
		f.Close()
		return nil, info, res, nil
	}

	return f, info, res, nil
}
