package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/uranusgroup/uranus-web/internal/application/dto"
	"github.com/uranusgroup/uranus-web/internal/application/notification"
	"github.com/uranusgroup/uranus-web/internal/domain"
	"github.com/uranusgroup/uranus-web/pkg/logger"
)

// NotificationHandler buzón de notificaciones del usuario autenticado.
type NotificationHandler struct {
	base
	uc *notification.UseCase
}

// NewNotificationHandler construye el handler.
func NewNotificationHandler(uc *notification.UseCase, log *logger.Logger) *NotificationHandler {
	return &NotificationHandler{base: newBase(log), uc: uc}
}

type notificationQuery struct {
	Unread bool `query:"unread"`
	dto.PageRequest
}

// List godoc
// @Summary      Mes notifications avec le compteur de non lues
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        unread  query  bool  false  "uniquement les non lues"
// @Param        limit   query  int   false  "taille de page"
// @Param        offset  query  int   false  "décalage"
// @Success      200  {object}  dto.NotificationListResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	u := CurrentUser(c)
	if u == nil {
		return h.fail(c, domain.ErrUnauthorized)
	}
	var q notificationQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	out, err := h.uc.List(c.UserContext(), u.ID, q.Unread, q.PageRequest)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// MarkRead godoc
// @Summary      Marquer une notification comme lue
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la notification"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	u := CurrentUser(c)
	if u == nil {
		return h.fail(c, domain.ErrUnauthorized)
	}
	if err := h.uc.MarkRead(c.UserContext(), u.ID, c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.MessageResponse{Success: true})
}

// MarkAllRead godoc
// @Summary      Tout marquer comme lu
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.MessageResponse
// @Router       /api/notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	u := CurrentUser(c)
	if u == nil {
		return h.fail(c, domain.ErrUnauthorized)
	}
	if err := h.uc.MarkAllRead(c.UserContext(), u.ID); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.MessageResponse{Success: true})
}
