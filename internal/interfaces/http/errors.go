package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/uranusgroup/uranus-web/internal/application/dto"
	"github.com/uranusgroup/uranus-web/internal/domain"
	"github.com/uranusgroup/uranus-web/pkg/logger"
)

// apiError código HTTP, código de error y mensaje visible para un error de dominio.
type apiError struct {
	status  int
	code    string
	message string
}

// classify traduce los errores de dominio. Lo no reconocido es un 500 sin detalle.
func classify(err error) apiError {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return apiError{fiber.StatusNotFound, "NOT_FOUND", "ressource introuvable"}
	case errors.Is(err, domain.ErrPasswordMismatch):
		return apiError{fiber.StatusBadRequest, "PASSWORD_MISMATCH", "les mots de passe ne correspondent pas"}
	case errors.Is(err, domain.ErrInvalidInput):
		return apiError{fiber.StatusBadRequest, "VALIDATION", validationMessage(err)}
	case errors.Is(err, domain.ErrInactiveService):
		return apiError{fiber.StatusBadRequest, "INACTIVE_SERVICE", "ce service n'accepte plus de demandes"}
	case errors.Is(err, domain.ErrUsernameTaken):
		return apiError{fiber.StatusConflict, "USERNAME_TAKEN", "ce nom d'utilisateur est déjà pris"}
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return apiError{fiber.StatusConflict, "EMAIL_EXISTS", "cette adresse email est déjà utilisée"}
	case errors.Is(err, domain.ErrDuplicate):
		return apiError{fiber.StatusConflict, "DUPLICATE", "un élément identique existe déjà"}
	case errors.Is(err, domain.ErrConflict):
		return apiError{fiber.StatusConflict, "CONFLICT", "opération impossible dans l'état actuel"}
	case errors.Is(err, domain.ErrUnauthorized):
		return apiError{fiber.StatusUnauthorized, "UNAUTHORIZED", "authentification requise"}
	case errors.Is(err, domain.ErrForbidden):
		return apiError{fiber.StatusForbidden, "FORBIDDEN", "accès refusé"}
	}
	return apiError{fiber.StatusInternalServerError, "INTERNAL", "erreur interne"}
}

// validationMessage detalle de campos tras "entrada inválida: ".
func validationMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, domain.ErrInvalidInput.Error()+": "); i >= 0 {
		return "données invalides : " + msg[i+len(domain.ErrInvalidInput.Error())+2:]
	}
	return "données invalides"
}

// base logger compartido por los handlers.
type base struct {
	log *logger.Logger
}

func newBase(log *logger.Logger) base {
	if log == nil {
		log = logger.Nop()
	}
	return base{log: log.Component("http")}
}

// fail responde JSON con dto.ErrorResponse. Los 500 se registran.
func (b base) fail(c *fiber.Ctx, err error) error {
	e := classify(err)
	if e.status == fiber.StatusInternalServerError {
		b.log.Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Msg("error interno")
	}
	return c.Status(e.status).JSON(dto.ErrorResponse{Code: e.code, Message: e.message})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps de requête invalide"})
}
