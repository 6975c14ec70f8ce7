package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/leadportal-api/internal/application/dto"
	"github.com/jhoicas/leadportal-api/internal/application/navigation"
)

// NavigationHandler expone la sesión, el redirector y las guardas al cliente.
type NavigationHandler struct {
	uc *navigation.UseCase
}

// NewNavigationHandler construye el handler.
func NewNavigationHandler(uc *navigation.UseCase) *NavigationHandler {
	return &NavigationHandler{uc: uc}
}

// Session godoc
// @Summary      Sesión actual
// @Description  Proyección de los claims del token: rol resuelto, flags de rol y dashboard.
// @Tags         navigation
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SessionResponse
// @Router       /api/session [get]
func (h *NavigationHandler) Session(c *fiber.Ctx) error {
	return c.JSON(h.uc.Session(GetSession(c)))
}

// Resolve godoc
// @Summary      Resolver redirección
// @Description  Evalúa un render del cliente. La sesión es opcional: sin token se trata como anónima. Tras MaxRedirectAttempts navegaciones el montaje se desactiva y se devuelve un único toast.
// @Tags         navigation
// @Accept       json
// @Produce      json
// @Param        body  body  dto.NavigationRequest  true  "mount_id, path, loading"
// @Success      200   {object}  dto.NavigationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/navigation/resolve [post]
func (h *NavigationHandler) Resolve(c *fiber.Ctx) error {
	var in dto.NavigationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Resolve(c.Context(), GetSession(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Reset godoc
// @Summary      Reiniciar el redirector de un montaje
// @Tags         navigation
// @Accept       json
// @Param        body  body  dto.NavigationResetRequest  true  "mount_id"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/navigation/reset [post]
func (h *NavigationHandler) Reset(c *fiber.Ctx) error {
	var in dto.NavigationResetRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.Reset(c.Context(), in.MountID); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Guard godoc
// @Summary      Evaluar una guarda de ruta
// @Description  Devuelve el veredicto único (loading, checking, authorized, unauthorized) y la redirección.
// @Tags         navigation
// @Accept       json
// @Produce      json
// @Param        body  body  dto.GuardRequest  true  "allowed_roles, loading"
// @Success      200   {object}  dto.GuardResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/navigation/guard [post]
func (h *NavigationHandler) Guard(c *fiber.Ctx) error {
	var in dto.GuardRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Guard(GetSession(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
