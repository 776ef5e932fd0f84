package http

import (
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bizledger-api/internal/application/dto"
)

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(dto.Response{Success: true, Data: data})
}

func created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(dto.Response{Success: true, Data: data})
}

func message(c *fiber.Ctx, msg string) error {
	return c.JSON(dto.Response{Success: true, Message: msg})
}

func list[T any](c *fiber.Ctx, page *dto.PageResult[T]) error {
	items := page.Items
	if items == nil {
		items = []T{}
	}
	return c.JSON(dto.ListResponse{
		Success:    true,
		Data:       items,
		Total:      page.Meta.Total,
		Page:       page.Meta.Page,
		Limit:      page.Meta.Limit,
		TotalPages: page.Meta.TotalPages,
	})
}

// download envía un archivo como adjunto; el nombre se codifica según RFC 5987 (hangul).
func download(c *fiber.Ctx, f *dto.FileDownload) error {
	c.Set(fiber.HeaderContentType, f.ContentType)
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", asciiName(f.Filename), url.PathEscape(f.Filename)))
	return c.Send(f.Data)
}

func asciiName(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			r = '_'
		}
		out = append(out, r)
	}
	return string(out)
}
