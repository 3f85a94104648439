package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/uranusgroup/uranus-web/internal/application/dto"
	"github.com/uranusgroup/uranus-web/internal/domain/entity"
	"github.com/uranusgroup/uranus-web/pkg/jwt"
)

// Locals keys de la identidad en Fiber.
const (
	LocalUserID   = "user_id"
	LocalUsername = "username"
	LocalRole     = "role"
	LocalUser     = "user"
)

// SessionCookie cookie con el JWT de la sesión web.
const SessionCookie = "uranus_session"

// UserLoader carga el usuario vigente; nil si no existe o está inactivo.
type UserLoader interface {
	CurrentUser(ctx context.Context, userID string) (*entity.User, error)
}

// bearerOrCookie token del header Authorization o, en su defecto, de la cookie de sesión.
// ok=false si el header existe pero no tiene formato Bearer.
func bearerOrCookie(c *fiber.Ctx) (token string, ok bool) {
	if h := c.Get(fiber.HeaderAuthorization); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", false
		}
		return strings.TrimSpace(parts[1]), true
	}
	return c.Cookies(SessionCookie), true
}

func setClaims(c *fiber.Ctx, userID, username, role string) {
	c.Locals(LocalUserID, userID)
	c.Locals(LocalUsername, username)
	c.Locals(LocalRole, role)
}

// AuthMiddleware valida el JWT (Bearer o cookie) y deja user_id, username y role en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := bearerOrCookie(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "format attendu : Bearer <token>"})
		}
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "authentification requise"})
		}
		userID, username, role, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "jeton invalide ou expiré"})
		}
		setClaims(c, userID, username, role)
		return c.Next()
	}
}

// OptionalAuth como AuthMiddleware pero sin rechazar: un token ausente o inválido deja la petición anónima.
func OptionalAuth(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := bearerOrCookie(c)
		if ok && tokenString != "" {
			if userID, username, role, err := jwt.Parse(jwtSecret, tokenString); err == nil {
				setClaims(c, userID, username, role)
			}
		}
		return c.Next()
	}
}

// LoadUser resuelve el usuario del token contra la base. Un usuario borrado o inactivo
// deja la petición anónima: los permisos siempre se evalúan sobre el rol vigente.
func LoadUser(loader UserLoader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := GetUserID(c)
		if id == "" {
			return c.Next()
		}
		u, err := loader.CurrentUser(c.UserContext(), id)
		if err != nil {
			return err
		}
		if u == nil {
			setClaims(c, "", "", "")
			return c.Next()
		}
		c.Locals(LocalUser, u)
		c.Locals(LocalRole, string(u.Role))
		return c.Next()
	}
}

// RequireRole autoriza solo los roles indicados. Debe ir después de AuthMiddleware.
func RequireRole(allowed ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "rôle absent du jeton"})
		}
		for _, r := range allowed {
			if r == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "accès refusé"})
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetUsername devuelve el username del token.
func GetUsername(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUsername).(string)
	return s
}

// GetRole devuelve el rol vigente (el de la base si LoadUser ya corrió).
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}

// CurrentUser usuario cargado por LoadUser; nil = anónimo.
func CurrentUser(c *fiber.Ctx) *entity.User {
	u, _ := c.Locals(LocalUser).(*entity.User)
	return u
}
