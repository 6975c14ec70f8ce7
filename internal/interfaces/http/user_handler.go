package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/leadportal-api/internal/application/dto"
	"github.com/jhoicas/leadportal-api/internal/application/usecase"
)

// UserHandler administración de usuarios.
type UserHandler struct {
	uc *usecase.UserUseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// Me godoc
// @Summary      Usuario autenticado
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/me [get]
func (h *UserHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Directory godoc
// @Summary      Listado de usuarios (admin)
// @Description  Usuario, empresa canónica, rol de empresa y rol directo en una sola fila.
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite (default 20, máx. 100)"
// @Param        offset  query  int  false  "Offset"
// @Success      200  {object}  dto.UserDirectoryResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/users [get]
func (h *UserHandler) Directory(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return writeError(c, errQuery)
	}
	out, err := h.uc.Directory(c.Context(), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetRole godoc
// @Summary      Asignar rol directo (admin)
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Param        id    path  string              true  "ID del usuario"
// @Param        body  body  dto.SetRoleRequest  true  "admin | manager | customer"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{id}/role [put]
func (h *UserHandler) SetRole(c *fiber.Ctx) error {
	var in dto.SetRoleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.SetRole(c.Context(), c.Params("id"), in); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AssignCompany godoc
// @Summary      Asociar usuario a su empresa (admin)
// @Description  Upsert: un usuario tiene como mucho una empresa; asignar otra reemplaza la anterior.
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Param        id    path  string                    true  "ID del usuario"
// @Param        body  body  dto.AssignCompanyRequest  true  "company_id, role, is_admin"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{id}/company [put]
func (h *UserHandler) AssignCompany(c *fiber.Ctx) error {
	var in dto.AssignCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.AssignCompany(c.Context(), c.Params("id"), in); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
