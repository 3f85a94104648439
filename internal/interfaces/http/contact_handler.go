package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/uranusgroup/uranus-web/internal/application/contact"
	"github.com/uranusgroup/uranus-web/internal/application/dto"
	"github.com/uranusgroup/uranus-web/pkg/logger"
)

// ContactHandler formulario de contacto de la API.
type ContactHandler struct {
	base
	uc *contact.UseCase
}

// NewContactHandler construye el handler.
func NewContactHandler(uc *contact.UseCase, log *logger.Logger) *ContactHandler {
	return &ContactHandler{base: newBase(log), uc: uc}
}

// Submit godoc
// @Summary      Envoyer un message de contact
// @Description  Le message est enregistré ; la confirmation et l'alerte interne sont envoyées au mieux.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ContactRequest  true  "name, email, subject, message"
// @Success      201  {object}  dto.ContactResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/contact [post]
func (h *ContactHandler) Submit(c *fiber.Ctx) error {
	var in dto.ContactRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Submit(c.UserContext(), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
