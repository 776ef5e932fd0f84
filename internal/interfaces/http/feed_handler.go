package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bizledger-api/internal/application/dto"
	"github.com/jhoicas/bizledger-api/internal/application/usecase"
)

// NoteHandler 메모 del negocio (fijadas primero).
type NoteHandler struct {
	uc *usecase.NoteUseCase
	v  *Validator
}

// NewNoteHandler construye el handler.
func NewNoteHandler(uc *usecase.NoteUseCase, v *Validator) *NoteHandler {
	return &NoteHandler{uc: uc, v: v}
}

// List GET /api/businesses/:businessId/notes?page=&limit=
func (h *NoteHandler) List(c *fiber.Ctx) error {
	page, err := h.uc.List(c.UserContext(), GetBusinessID(c), c.QueryInt("page", 1), c.QueryInt("limit", 0))
	if err != nil {
		return err
	}
	return list(c, page)
}

// Get GET /api/businesses/:businessId/notes/:id
func (h *NoteHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetBusinessID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Create POST /api/businesses/:businessId/notes
func (h *NoteHandler) Create(c *fiber.Ctx) error {
	var in dto.NoteRequest
	if err := bindBody(c, h.v, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), ActorFrom(c), GetBusinessID(c), in)
	if err != nil {
		return err
	}
	return created(c, out)
}

// Update PUT /api/businesses/:businessId/notes/:id
func (h *NoteHandler) Update(c *fiber.Ctx) error {
	var in dto.NoteRequest
	if err := bindBody(c, h.v, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), ActorFrom(c), GetBusinessID(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Delete DELETE /api/businesses/:businessId/notes/:id
func (h *NoteHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), ActorFrom(c), GetBusinessID(c), c.Params("id")); err != nil {
		return err
	}
	return message(c, "메모가 삭제되었습니다.")
}

// NotificationHandler notificaciones del usuario autenticado.
type NotificationHandler struct {
	uc *usecase.NotificationUseCase
	v  *Validator
}

// NewNotificationHandler construye el handler.
func NewNotificationHandler(uc *usecase.NotificationUseCase, v *Validator) *NotificationHandler {
	return &NotificationHandler{uc: uc, v: v}
}

// List GET /api/notifications?page=&limit=&unreadOnly=
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	var q dto.NotificationQuery
	if err := bindQuery(c, h.v, &q); err != nil {
		return err
	}
	page, err := h.uc.List(c.UserContext(), GetUserID(c), q)
	if err != nil {
		return err
	}
	return list(c, page)
}

// UnreadCount GET /api/notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	n, err := h.uc.UnreadCount(c.UserContext(), GetUserID(c))
	if err != nil {
		return err
	}
	return ok(c, fiber.Map{"count": n})
}

// MarkRead PUT /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.uc.MarkRead(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return err
	}
	return message(c, "알림을 읽음 처리했습니다.")
}

// MarkAllRead PUT /api/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	n, err := h.uc.MarkAllRead(c.UserContext(), GetUserID(c))
	if err != nil {
		return err
	}
	return ok(c, fiber.Map{"updated": n})
}

// Delete DELETE /api/notifications/:id
func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return err
	}
	return message(c, "알림이 삭제되었습니다.")
}

// ActivityLogHandler historial de actividad del negocio.
type ActivityLogHandler struct {
	uc *usecase.ActivityLogUseCase
	v  *Validator
}

// NewActivityLogHandler construye el handler.
func NewActivityLogHandler(uc *usecase.ActivityLogUseCase, v *Validator) *ActivityLogHandler {
	return &ActivityLogHandler{uc: uc, v: v}
}

// List GET /api/businesses/:businessId/activity-logs?page=&limit=&action=&entityType=
func (h *ActivityLogHandler) List(c *fiber.Ctx) error {
	var q dto.ActivityLogQuery
	if err := bindQuery(c, h.v, &q); err != nil {
		return err
	}
	page, err := h.uc.List(c.UserContext(), GetBusinessID(c), q)
	if err != nil {
		return err
	}
	return list(c, page)
}
