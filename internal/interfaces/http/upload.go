package http

import (
	"io"

	"github.com/gofiber/fiber/v2"
)

// readUpload lee el archivo multipart field con un máximo de maxBytes.
func readUpload(c *fiber.Ctx, field string, maxBytes int64) ([]byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, ErrFileRequired
	}
	if maxBytes > 0 && fh.Size > maxBytes {
		return nil, ErrFileTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, ErrFileTooLarge
	}
	if len(data) == 0 {
		return nil, ErrFileRequired
	}
	return data, nil
}
