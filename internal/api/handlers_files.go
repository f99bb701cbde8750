package api

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/vitalink/internal/storage"
)

// ServeFile streams a stored upload. Keys are random, so possession of the
// key is the only check beyond authentication.
func (handler *Handler) ServeFile(c *fiber.Ctx) error {
	key, err := url.PathUnescape(c.Params("*"))
	if err != nil || key == "" {
		return apiError(c, fiber.StatusNotFound, "file not found")
	}

	reader, file, err := handler.files.Open(key)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			return apiError(c, fiber.StatusNotFound, "file not found")
		}
		return handler.serviceError(c, err, "failed to open file")
	}

	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderCacheControl, "private, max-age=3600")
	c.Set("X-Content-Type-Options", "nosniff")
	size := -1
	if file.Size > 0 {
		size = int(file.Size)
	}
	return c.Status(fiber.StatusOK).SendStream(reader, size)
}
