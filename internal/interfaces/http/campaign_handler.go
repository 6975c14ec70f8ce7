package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/leadportal-api/internal/application/dto"
	"github.com/jhoicas/leadportal-api/internal/application/usecase"
)

// CampaignHandler campañas de la plataforma y su asignación a empresas.
type CampaignHandler struct {
	uc *usecase.CampaignUseCase
}

// NewCampaignHandler construye el handler.
func NewCampaignHandler(uc *usecase.CampaignUseCase) *CampaignHandler {
	return &CampaignHandler{uc: uc}
}

// Create godoc
// @Summary      Crear campaña (admin)
// @Tags         campaigns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCampaignRequest  true  "Datos de la campaña"
// @Success      201   {object}  dto.CampaignResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/campaigns [post]
func (h *CampaignHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCampaignRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar campañas (admin)
// @Tags         campaigns
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CampaignResponse
// @Router       /api/campaigns [get]
func (h *CampaignHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return writeError(c, errQuery)
	}
	out, err := h.uc.List(c.Context(), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Mine godoc
// @Summary      Campañas asignadas a la empresa de la sesión
// @Tags         campaigns
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CampaignResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/campaigns/mine [get]
func (h *CampaignHandler) Mine(c *fiber.Ctx) error {
	out, err := h.uc.ListForCompany(c.Context(), targetCompany(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Assign godoc
// @Summary      Asignar campaña a empresas (admin)
// @Description  Idempotente: las empresas ya asignadas se ignoran.
// @Tags         campaigns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID de la campaña"
// @Param        body  body  dto.AssignCampaignRequest  true  "company_ids"
// @Success      200   {object}  dto.CampaignResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/campaigns/{id}/assignments [post]
func (h *CampaignHandler) Assign(c *fiber.Ctx) error {
	var in dto.AssignCampaignRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Assign(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Unassign godoc
// @Summary      Quitar una empresa de la campaña (admin)
// @Tags         campaigns
// @Security     Bearer
// @Param        id         path  string  true  "ID de la campaña"
// @Param        companyId  path  string  true  "ID de la empresa"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/campaigns/{id}/assignments/{companyId} [delete]
func (h *CampaignHandler) Unassign(c *fiber.Ctx) error {
	if err := h.uc.Unassign(c.Context(), c.Params("id"), c.Params("companyId")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
