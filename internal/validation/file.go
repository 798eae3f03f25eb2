package validation

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

// FileConstraints defines validation rules for file uploads
type FileConstraints struct {
	AllowedMimeTypes  map[string]bool
	AllowedExtensions map[string]bool
	MaxSize           int64
}

var (
	// ImageConstraints covers activity photos
	ImageConstraints = FileConstraints{
		AllowedMimeTypes: map[string]bool{
			"image/jpeg": true,
			"image/png":  true,
			"image/webp": true,
			"image/gif":  true,
		},
		AllowedExtensions: map[string]bool{
			".jpg":  true,
			".jpeg": true,
			".png":  true,
			".webp": true,
			".gif":  true,
		},
		MaxSize: 10 << 20, // 10MB, Telegram's sendPhoto limit
	}

	// DocumentConstraints covers everything sent with sendDocument
	DocumentConstraints = FileConstraints{
		AllowedMimeTypes: map[string]bool{
			"application/pdf":           true,
			"application/zip":           true, // docx, xlsx, pptx
			"text/plain; charset=utf-8": true,
			"video/mp4":                 true,
		},
		AllowedExtensions: map[string]bool{
			".pdf":  true,
			".docx": true,
			".xlsx": true,
			".pptx": true,
			".txt":  true,
			".mp4":  true,
		},
		MaxSize: 50 << 20, // 50MB, Telegram's bot upload limit
	}

	// AttachmentConstraints is what the activity form accepts
	AttachmentConstraints = []FileConstraints{ImageConstraints, DocumentConstraints}
)

// ValidateFile validates a file upload against one or more constraint sets
// and returns the content type detected from its first bytes.
// If multiple constraints are provided, file must match at least one (OR logic)
func ValidateFile(header *multipart.FileHeader, constraints ...FileConstraints) (string, error) {
	if len(constraints) == 0 {
		return "", fmt.Errorf("no file constraints provided")
	}

	detectedType, err := detectContentType(header)
	if err != nil {
		return "", err
	}

	var lastErr error
	for _, constraint := range constraints {
		err := validateAgainstConstraint(header, detectedType, constraint)
		if err == nil {
			return detectedType, nil
		}
		lastErr = err
	}

	return "", lastErr
}

// detectContentType sniffs the first 512 bytes; the header's Content-Type
// is client supplied and ignored.
func detectContentType(header *multipart.FileHeader) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	buffer := make([]byte, 512)
	n, err := io.ReadFull(file, buffer)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	return http.DetectContentType(buffer[:n]), nil
}

func validateAgainstConstraint(header *multipart.FileHeader, detectedType string, constraints FileConstraints) error {
	if header.Size > constraints.MaxSize {
		maxMB := constraints.MaxSize / (1 << 20)
		return fmt.Errorf("file too large: maximum size is %d MB", maxMB)
	}

	if !constraints.AllowedMimeTypes[detectedType] {
		return fmt.Errorf("invalid file type (detected: %s)", detectedType)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !constraints.AllowedExtensions[ext] {
		return fmt.Errorf("invalid file extension: %s", ext)
	}

	return nil
}
