package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/uranusgroup/uranus-web/internal/application/dto"
)

const dashboardPath = "/accounts/dashboard"

// RegisterForm formulario de alta.
func (h *WebHandler) RegisterForm(c *fiber.Ctx) error {
	if CurrentUser(c) != nil {
		return c.Redirect(dashboardPath, fiber.StatusSeeOther)
	}
	return h.page(c, "accounts/register", fiber.Map{"Title": "Inscription", "Form": dto.RegisterRequest{}})
}

// Register crea la cuenta client, abre sesión y lleva al espacio cliente.
func (h *WebHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return h.fail(c, err)
	}
	if _, err := h.d.Auth.RegisterUser(c.UserContext(), in); err != nil {
		msg, ok := formError(err)
		if !ok {
			return h.fail(c, err)
		}
		in.Password, in.PasswordConfirm = "", ""
		return h.render(c, fiber.StatusBadRequest, "accounts/register", layoutMain, fiber.Map{
			"Title": "Inscription", "Error": msg, "Form": in,
		})
	}
	out, err := h.d.Auth.Login(c.UserContext(), dto.LoginRequest{Login: in.Username, Password: in.Password})
	if err != nil {
		return h.fail(c, err)
	}
	h.setSession(c, out.Token)
	return c.Redirect(dashboardPath, fiber.StatusSeeOther)
}

// LoginForm formulario de conexión.
func (h *WebHandler) LoginForm(c *fiber.Ctx) error {
	if CurrentUser(c) != nil {
		return c.Redirect(safeNext(c.Query("next"), dashboardPath), fiber.StatusSeeOther)
	}
	return h.page(c, "accounts/login", fiber.Map{"Title": "Connexion", "Next": c.Query("next")})
}

// Login abre sesión con username o email y redirige a next.
func (h *WebHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return h.fail(c, err)
	}
	next := c.FormValue("next")
	out, err := h.d.Auth.Login(c.UserContext(), in)
	if err != nil {
		status := classify(err).status
		if status != fiber.StatusUnauthorized && status != fiber.StatusForbidden && status != fiber.StatusBadRequest {
			return h.fail(c, err)
		}
		msg := "Identifiants invalides."
		if status == fiber.StatusForbidden {
			msg = "Ce compte est désactivé."
		}
		return h.render(c, fiber.StatusUnauthorized, "accounts/login", layoutMain, fiber.Map{
			"Title": "Connexion", "Error": msg, "Login": in.Login, "Next": next,
		})
	}
	h.setSession(c, out.Token)
	return c.Redirect(safeNext(next, dashboardPath), fiber.StatusSeeOther)
}

// Logout cierra la sesión.
func (h *WebHandler) Logout(c *fiber.Ctx) error {
	h.clearSession(c)
	return c.Redirect("/", fiber.StatusSeeOther)
}

// Dashboard espacio cliente: últimas solicitudes y notificaciones.
func (h *WebHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.d.Site.ClientDashboard(c.UserContext(), CurrentUser(c))
	if err != nil {
		return h.fail(c, err)
	}
	return h.page(c, "accounts/dashboard", fiber.Map{"Title": "Mon espace", "Dashboard": out})
}

func profileForm(c *fiber.Ctx) dto.UpdateProfileRequest {
	u := CurrentUser(c)
	return dto.UpdateProfileRequest{
		FirstName: u.FirstName, LastName: u.LastName, Email: u.Email, Phone: u.Phone,
		Company: u.Company, Position: u.Position, Bio: u.Bio, LinkedIn: u.LinkedIn, Website: u.Website,
	}
}

// ProfileForm datos editables del propio usuario.
func (h *WebHandler) ProfileForm(c *fiber.Ctx) error {
	return h.page(c, "accounts/profile", fiber.Map{
		"Title": "Mon profil", "Form": profileForm(c), "Saved": c.Query("saved") == "1",
	})
}

// Profile guarda el perfil.
func (h *WebHandler) Profile(c *fiber.Ctx) error {
	var in dto.UpdateProfileRequest
	if err := c.BodyParser(&in); err != nil {
		return h.fail(c, err)
	}
	if _, err := h.d.Auth.UpdateProfile(c.UserContext(), CurrentUser(c), in); err != nil {
		msg, ok := formError(err)
		if !ok {
			return h.fail(c, err)
		}
		return h.render(c, fiber.StatusBadRequest, "accounts/profile", layoutMain, fiber.Map{
			"Title": "Mon profil", "Error": msg, "Form": in,
		})
	}
	return c.Redirect("/accounts/profile?saved=1", fiber.StatusSeeOther)
}
