package http

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// uploadTypes Content-Type explícito por extensión; el resto no se sirve.
var uploadTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// Uploads sirve /uploads/* desde root (avatares y firmas) con Content-Type fijado por extensión.
func Uploads(root string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rel := filepath.Clean("/" + c.Params("*"))
		if strings.Contains(rel, "..") {
			return ErrRouteNotFound
		}
		ct, ok := uploadTypes[strings.ToLower(filepath.Ext(rel))]
		if !ok {
			return ErrRouteNotFound
		}
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return ErrRouteNotFound
			}
			return err
		}
		c.Set(fiber.HeaderContentType, ct)
		c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
		c.Set(fiber.HeaderCacheControl, "private, max-age=86400")
		return c.Send(data)
	}
}
