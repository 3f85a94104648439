package http

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/uranusgroup/uranus-web/internal/application/auth"
	"github.com/uranusgroup/uranus-web/internal/application/contact"
	"github.com/uranusgroup/uranus-web/internal/application/notification"
	"github.com/uranusgroup/uranus-web/internal/application/site"
	"github.com/uranusgroup/uranus-web/internal/application/usecase"
	"github.com/uranusgroup/uranus-web/internal/application/workflow"
	"github.com/uranusgroup/uranus-web/internal/domain"
	"github.com/uranusgroup/uranus-web/internal/domain/entity"
	"github.com/uranusgroup/uranus-web/pkg/logger"
)

const (
	layoutMain  = "layouts/main"
	layoutAdmin = "layouts/admin"
	loginPath   = "/accounts/login"
)

// WebDeps casos de uso usados por las páginas del sitio.
type WebDeps struct {
	Auth          *auth.AuthUseCase
	Catalog       *usecase.CatalogUseCase
	Blog          *usecase.BlogUseCase
	Site          *site.UseCase
	Requests      *workflow.RequestUseCase
	Deliverables  *workflow.DeliverableUseCase
	Tickets       *workflow.TicketUseCase
	Notifications *notification.UseCase
	Contact       *contact.UseCase
	Info          SiteInfo
	CookieSecure  bool
	SessionTTL    time.Duration
}

// WebHandler páginas renderizadas en servidor. Los formularios hacen POST y redirigen si todo va bien.
type WebHandler struct {
	base
	d WebDeps
}

// NewWebHandler construye el handler del sitio.
func NewWebHandler(d WebDeps, log *logger.Logger) *WebHandler {
	if d.SessionTTL <= 0 {
		d.SessionTTL = 24 * time.Hour
	}
	return &WebHandler{base: newBase(log), d: d}
}

// render añade a data los datos comunes del layout.
func (h *WebHandler) render(c *fiber.Ctx, status int, name, layout string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["Site"] = h.d.Info
	data["Path"] = c.Path()
	data["Year"] = time.Now().Year()
	if u := CurrentUser(c); u != nil {
		data["User"] = u
		if n, err := h.d.Notifications.UnreadCount(c.UserContext(), u.ID); err == nil {
			data["Unread"] = n
		}
	}
	return c.Status(status).Render(name, data, layout)
}

func (h *WebHandler) page(c *fiber.Ctx, name string, data fiber.Map) error {
	return h.render(c, fiber.StatusOK, name, layoutMain, data)
}

// fail traduce un error de dominio en redirección al login o en página de error.
func (h *WebHandler) fail(c *fiber.Ctx, err error) error {
	e := classify(err)
	switch e.status {
	case fiber.StatusUnauthorized:
		return redirectToLogin(c)
	case fiber.StatusInternalServerError:
		h.log.Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Msg("error interno")
		return h.errorPage(c, e.status, "Erreur interne", "Une erreur est survenue. Veuillez réessayer plus tard.")
	case fiber.StatusForbidden:
		return h.errorPage(c, e.status, "Accès refusé", "Vous n'avez pas accès à cette page.")
	case fiber.StatusNotFound:
		return h.errorPage(c, e.status, "Page introuvable", "La page demandée n'existe pas.")
	}
	return h.errorPage(c, e.status, "Requête invalide", e.message)
}

func (h *WebHandler) errorPage(c *fiber.Ctx, status int, title, message string) error {
	return h.render(c, status, "errors/error", layoutMain, fiber.Map{"Title": title, "Status": status, "Message": message})
}

// formError mensaje visible para un formulario rechazado; nil si el error no es de validación.
func formError(err error) (string, bool) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrPasswordMismatch),
		errors.Is(err, domain.ErrUsernameTaken), errors.Is(err, domain.ErrEmailAlreadyExists),
		errors.Is(err, domain.ErrInactiveService), errors.Is(err, domain.ErrDuplicate),
		errors.Is(err, domain.ErrConflict):
		return classify(err).message, true
	}
	return "", false
}

func redirectToLogin(c *fiber.Ctx) error {
	return c.Redirect(loginPath+"?next="+url.QueryEscape(c.OriginalURL()), fiber.StatusSeeOther)
}

// safeNext acepta solo rutas locales.
func safeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return fallback
	}
	return next
}

// RequireLogin redirige al login a los anónimos.
func (h *WebHandler) RequireLogin(c *fiber.Ctx) error {
	if CurrentUser(c) == nil {
		return redirectToLogin(c)
	}
	return c.Next()
}

// RequireAdmin restringe el back-office a administradores.
func (h *WebHandler) RequireAdmin(c *fiber.Ctx) error {
	u := CurrentUser(c)
	if u == nil {
		return redirectToLogin(c)
	}
	if u.Role != entity.RoleAdmin {
		return h.fail(c, domain.ErrForbidden)
	}
	return c.Next()
}

// NotFound página 404 para rutas no registradas.
func (h *WebHandler) NotFound(c *fiber.Ctx) error {
	if strings.HasPrefix(c.Path(), "/api/") {
		return h.base.fail(c, domain.ErrNotFound)
	}
	return h.fail(c, domain.ErrNotFound)
}

func (h *WebHandler) setSession(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.d.SessionTTL),
		HTTPOnly: true,
		Secure:   h.d.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *WebHandler) clearSession(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   h.d.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
