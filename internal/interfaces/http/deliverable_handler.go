package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/uranusgroup/uranus-web/internal/application/dto"
	"github.com/uranusgroup/uranus-web/internal/application/workflow"
	"github.com/uranusgroup/uranus-web/pkg/logger"
)

// DeliverableHandler listado y descarga de entregables.
type DeliverableHandler struct {
	base
	uc *workflow.DeliverableUseCase
}

// NewDeliverableHandler construye el handler.
func NewDeliverableHandler(uc *workflow.DeliverableUseCase, log *logger.Logger) *DeliverableHandler {
	return &DeliverableHandler{base: newBase(log), uc: uc}
}

// List godoc
// @Summary      Livrables visibles (les siens pour un client, tous pour le staff)
// @Tags         deliverables
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query  int  false  "taille de page"
// @Param        offset  query  int  false  "décalage"
// @Success      200  {object}  dto.DeliverableListResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/deliverables [get]
func (h *DeliverableHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	out, err := h.uc.List(c.UserContext(), CurrentUser(c), page)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Download godoc
// @Summary      Télécharger un livrable
// @Tags         deliverables
// @Produce      octet-stream
// @Security     BearerAuth
// @Param        id   path  string  true  "ID du livrable"
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/deliverables/{id}/download [get]
func (h *DeliverableHandler) Download(c *fiber.Ctx) error {
	return streamDeliverable(c, h.uc, h.fail)
}

// streamDeliverable envía el archivo como adjunto. fasthttp cierra el ReadCloser al terminar.
func streamDeliverable(c *fiber.Ctx, uc *workflow.DeliverableUseCase, fail func(*fiber.Ctx, error) error) error {
	d, body, err := uc.Download(c.UserContext(), CurrentUser(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	c.Attachment(d.FileName)
	if d.ContentType != "" {
		c.Set(fiber.HeaderContentType, d.ContentType)
	}
	return c.SendStream(body, int(d.Size))
}
