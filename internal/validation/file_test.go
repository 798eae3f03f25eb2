package validation

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")

func fileHeader(t *testing.T, name string, data []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("files[]", name)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, "/", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	return req.MultipartForm.File["files[]"][0]
}

func TestValidateFile_Image(t *testing.T) {
	detected, err := ValidateFile(fileHeader(t, "camp.png", pngHeader), AttachmentConstraints...)
	require.NoError(t, err)
	assert.Equal(t, "image/png", detected)
}

func TestValidateFile_PDF(t *testing.T) {
	detected, err := ValidateFile(fileHeader(t, "budget.pdf", []byte("%PDF-1.7\n")), AttachmentConstraints...)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", detected)
}

func TestValidateFile_ExtensionMismatch(t *testing.T) {
	_, err := ValidateFile(fileHeader(t, "camp.exe", pngHeader), ImageConstraints)
	assert.ErrorContains(t, err, "invalid file extension")
}

func TestValidateFile_TooLarge(t *testing.T) {
	h := fileHeader(t, "camp.png", pngHeader)

	_, err := ValidateFile(h, FileConstraints{
		AllowedMimeTypes:  ImageConstraints.AllowedMimeTypes,
		AllowedExtensions: ImageConstraints.AllowedExtensions,
		MaxSize:           1,
	})
	assert.ErrorContains(t, err, "file too large")
}

func TestValidateFile_NoConstraints(t *testing.T) {
	_, err := ValidateFile(fileHeader(t, "camp.png", pngHeader))
	assert.Error(t, err)
}
