package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/uranusgroup/uranus-web/internal/application/dto"
	"github.com/uranusgroup/uranus-web/internal/application/workflow"
	"github.com/uranusgroup/uranus-web/pkg/logger"
)

// TicketHandler tickets de soporte y su hilo de mensajes.
type TicketHandler struct {
	base
	uc *workflow.TicketUseCase
}

// NewTicketHandler construye el handler.
func NewTicketHandler(uc *workflow.TicketUseCase, log *logger.Logger) *TicketHandler {
	return &TicketHandler{base: newBase(log), uc: uc}
}

// List godoc
// @Summary      Tickets : les siens pour un client, assignés (ou tous pour un admin) pour le staff
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        status  query  string  false  "open | in_progress | resolved | closed"
// @Param        search  query  string  false  "sujet ou description"
// @Success      200  {object}  dto.TicketListResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/tickets [get]
func (h *TicketHandler) List(c *fiber.Ctx) error {
	var q dto.TicketListQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	out, err := h.uc.ListScoped(c.UserContext(), CurrentUser(c), q)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Open godoc
// @Summary      Ouvrir un ticket
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.OpenTicketRequest  true  "subject, description, priority"
// @Success      201  {object}  dto.TicketResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/tickets [post]
func (h *TicketHandler) Open(c *fiber.Ctx) error {
	var in dto.OpenTicketRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Open(c.UserContext(), CurrentUser(c), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Ticket avec son fil de messages
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID du ticket"
// @Success      200  {object}  dto.TicketDetailResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tickets/{id} [get]
func (h *TicketHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), CurrentUser(c), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// PostMessage godoc
// @Summary      Répondre sur un ticket
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                  true  "ID du ticket"
// @Param        body  body  dto.PostMessageRequest  true  "message"
// @Success      201  {object}  dto.TicketMessageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tickets/{id}/messages [post]
func (h *TicketHandler) PostMessage(c *fiber.Ctx) error {
	var in dto.PostMessageRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.PostMessage(c.UserContext(), CurrentUser(c), c.Params("id"), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Transition godoc
// @Summary      Changer statut ou responsable d'un ticket (staff)
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                       true  "ID du ticket"
// @Param        body  body  dto.TicketTransitionRequest  true  "status, assigned_to, unassign"
// @Success      200  {object}  dto.TicketResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/tickets/{id}/status [patch]
func (h *TicketHandler) Transition(c *fiber.Ctx) error {
	var in dto.TicketTransitionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Transition(c.UserContext(), CurrentUser(c), c.Params("id"), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}
