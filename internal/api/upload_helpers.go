package api

import (
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/vitalink/internal/storage"
)

const uploadFieldName = "file"

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEMultipartForm)
}

// optionalUpload returns the uploaded file header, or nil when the request
// carries no file.
func optionalUpload(c *fiber.Ctx) (*multipart.FileHeader, error) {
	if !isMultipart(c) {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}
	files := form.File[uploadFieldName]
	if len(files) == 0 {
		return nil, nil
	}
	return files[0], nil
}

func (handler *Handler) storeUpload(header *multipart.FileHeader, category string) (storage.StoredFile, error) {
	file, err := header.Open()
	if err != nil {
		return storage.StoredFile{}, fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	return handler.files.Save(category, header.Header.Get(fiber.HeaderContentType), file)
}
