package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/leadportal-api/internal/application/dto"
	"github.com/jhoicas/leadportal-api/internal/domain/access"
	"github.com/jhoicas/leadportal-api/pkg/jwt"
)

// Locals keys de la sesión en Fiber.
const (
	LocalSession   = "session"
	LocalUserID    = "user_id"
	LocalCompanyID = "company_id"
)

// bearerToken extrae el token del header Authorization. code vacío = sin header.
func bearerToken(c *fiber.Ctx) (token, code, msg string) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", "MISSING_TOKEN", "Authorization header requerido"
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", "INVALID_TOKEN", "formato: Bearer <token>"
	}
	token = strings.TrimSpace(parts[1])
	if token == "" {
		return "", "MISSING_TOKEN", "token vacío"
	}
	return token, "", ""
}

// sessionFromSubject construye la sesión explícita a partir de los claims del token.
func sessionFromSubject(sub jwt.Subject) access.Session {
	return access.Session{
		UserID:        sub.UserID,
		Email:         sub.Email,
		CompanyID:     sub.CompanyID,
		Role:          access.ParseRole(sub.Role),
		Superadmin:    sub.Superadmin,
		Authenticated: true,
	}
}

func setSession(c *fiber.Ctx, s access.Session) {
	c.Locals(LocalSession, s)
	c.Locals(LocalUserID, s.UserID)
	c.Locals(LocalCompanyID, s.CompanyID)
}

// AuthMiddleware valida el Bearer Token JWT y deja la sesión en c.Locals.
// Los 401 llevan la ruta de login de la política para que el cliente redirija.
func AuthMiddleware(jwtSecret string, policy *access.Policy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, code, msg := bearerToken(c)
		if code != "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: code, Message: msg, Redirect: policy.LoginPath})
		}
		sub, err := jwt.Parse(jwtSecret, token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code: "INVALID_TOKEN", Message: "token inválido o expirado", Redirect: policy.LoginPath,
			})
		}
		setSession(c, sessionFromSubject(sub))
		return c.Next()
	}
}

// OptionalAuth como AuthMiddleware, pero sin token deja una sesión anónima.
// Un token presente e inválido también cuenta como anónimo: el redirector lo manda a login.
func OptionalAuth(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s := access.Anonymous()
		if token, code, _ := bearerToken(c); code == "" {
			if sub, err := jwt.Parse(jwtSecret, token); err == nil {
				s = sessionFromSubject(sub)
			}
		}
		setSession(c, s)
		return c.Next()
	}
}

// RequirePortal guarda de ruta: evalúa access.Authorize con la sesión de la petición.
// allowed vacío acepta cualquier sesión autenticada. Debe usarse DESPUÉS de AuthMiddleware.
func RequirePortal(p *access.Policy, allowed ...access.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		v := access.Authorize(p, GetSession(c), allowed, false)
		switch v.State {
		case access.GuardAuthorized:
			return c.Next()
		case access.GuardChecking:
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Code: "ROLE_PENDING", Message: "el rol del usuario todavía se está resolviendo",
			})
		}
		if !GetSession(c).Authenticated {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code: "UNAUTHORIZED", Message: "sesión requerida", Redirect: v.Redirect,
			})
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Code: "FORBIDDEN", Message: "el rol no tiene acceso a este recurso", Redirect: v.Redirect,
		})
	}
}

// Guardas con nombre.
func ProtectedRoute(p *access.Policy, roles ...access.Role) fiber.Handler {
	return RequirePortal(p, roles...)
}
func AdminRoute(p *access.Policy) fiber.Handler    { return RequirePortal(p, access.AdminRoles...) }
func ManagerRoute(p *access.Policy) fiber.Handler  { return RequirePortal(p, access.ManagerRoles...) }
func CustomerRoute(p *access.Policy) fiber.Handler { return RequirePortal(p, access.CustomerRoles...) }

// GetSession devuelve la sesión de la petición; anónima si no pasó por un middleware de auth.
func GetSession(c *fiber.Ctx) access.Session {
	s, _ := c.Locals(LocalSession).(access.Session)
	return s
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetCompanyID devuelve el CompanyID del contexto (después del middleware de auth).
func GetCompanyID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalCompanyID).(string)
	return s
}

// targetCompany empresa sobre la que opera la petición. Admin y manager pueden
// indicar otra con ?company_id=; el resto siempre opera sobre la suya.
func targetCompany(c *fiber.Ctx) string {
	s := GetSession(c)
	if q := strings.TrimSpace(c.Query("company_id")); q != "" && (s.IsAdmin() || s.IsManager()) {
		return q
	}
	return s.CompanyID
}
