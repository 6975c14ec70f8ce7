package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/leadportal-api/internal/application/dto"
	"github.com/jhoicas/leadportal-api/internal/application/usecase"
)

// CompanyHandler maneja empresas y sus feature flags.
type CompanyHandler struct {
	uc       *usecase.CompanyUseCase
	features *usecase.FeatureService
}

// NewCompanyHandler construye el handler de empresas.
func NewCompanyHandler(uc *usecase.CompanyUseCase, features *usecase.FeatureService) *CompanyHandler {
	return &CompanyHandler{uc: uc, features: features}
}

// Create godoc
// @Summary      Crear empresa
// @Tags         companies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCompanyRequest  true  "Datos de la empresa"
// @Success      201   {object}  dto.CompanyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/companies [post]
func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener empresa por ID
// @Description  Admin y manager ven cualquier empresa; customer solo la suya.
// @Tags         companies
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la empresa"
// @Success      200  {object}  dto.CompanyResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/companies/{id} [get]
func (h *CompanyHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	s := GetSession(c)
	if !s.IsAdmin() && !s.IsManager() && id != s.CompanyID {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "solo puede consultar su propia empresa"})
	}
	out, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar empresas
// @Tags         companies
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite (default 20, máx. 100)"
// @Param        offset  query  int  false  "Offset"
// @Success      200  {object}  dto.CompanyListResponse
// @Router       /api/companies [get]
func (h *CompanyHandler) List(c *fiber.Ctx) error {
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

// Update godoc
// @Summary      Actualizar empresa
// @Tags         companies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la empresa"
// @Param        body  body  dto.UpdateCompanyRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.CompanyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/companies/{id} [patch]
func (h *CompanyHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateFeatures godoc
// @Summary      Cambiar feature flags de una empresa
// @Description  Actualiza la fila e invalida solo la entrada de caché de esa empresa.
// @Tags         companies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID de la empresa"
// @Param        body  body  dto.UpdateFeaturesRequest  true  "google_jobs_enabled"
// @Success      200   {object}  entity.CompanyFeatures
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/companies/{id}/features [patch]
func (h *CompanyHandler) UpdateFeatures(c *fiber.Ctx) error {
	var in dto.UpdateFeaturesRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.features.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Features godoc
// @Summary      Feature flags de la empresa de la sesión
// @Tags         companies
// @Security     Bearer
// @Produce      json
// @Param        company_id  query  string  false  "Otra empresa (solo admin o manager)"
// @Success      200  {object}  entity.CompanyFeatures
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/features [get]
func (h *CompanyHandler) Features(c *fiber.Ctx) error {
	companyID := targetCompany(c)
	if companyID == "" {
		return writeError(c, errNoCompany)
	}
	out, err := h.features.Get(c.Context(), companyID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
