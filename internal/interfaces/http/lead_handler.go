package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/leadportal-api/internal/application/dto"
	"github.com/jhoicas/leadportal-api/internal/application/usecase"
)

// LeadHandler pipeline de leads de una empresa.
type LeadHandler struct {
	uc *usecase.LeadUseCase
}

// NewLeadHandler construye el handler.
func NewLeadHandler(uc *usecase.LeadUseCase) *LeadHandler {
	return &LeadHandler{uc: uc}
}

// List godoc
// @Summary      Listar leads
// @Description  Customer ve los de su empresa; admin y manager pueden indicar company_id.
// @Tags         leads
// @Security     Bearer
// @Produce      json
// @Param        company_id  query  string  false  "Empresa (solo admin o manager)"
// @Param        source      query  string  false  "manual | website | google_jobs"
// @Param        status      query  string  false  "Estado del pipeline"
// @Param        limit       query  int     false  "Límite"
// @Param        offset      query  int     false  "Offset"
// @Success      200  {object}  dto.LeadListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/leads [get]
func (h *LeadHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return writeError(c, errQuery)
	}
	out, err := h.uc.List(c.Context(), targetCompany(c), c.Query("source"), c.Query("status"), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GoogleJobs godoc
// @Summary      Leads de Google Jobs
// @Description  Requiere el flag google_jobs de la empresa.
// @Tags         leads
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.LeadListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/leads/google-jobs [get]
func (h *LeadHandler) GoogleJobs(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return writeError(c, errQuery)
	}
	out, err := h.uc.GoogleJobs(c.Context(), targetCompany(c), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear lead
// @Tags         leads
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLeadRequest  true  "Datos del lead"
// @Success      201   {object}  dto.LeadResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/leads [post]
func (h *LeadHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLeadRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.Context(), targetCompany(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateStatus godoc
// @Summary      Mover lead en el pipeline
// @Tags         leads
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID del lead"
// @Param        body  body  dto.UpdateLeadStatusRequest  true  "status"
// @Success      200   {object}  dto.LeadResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/leads/{id}/status [patch]
func (h *LeadHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateLeadStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateStatus(c.Context(), targetCompany(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
