package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/leadportal-api/internal/application/analytics"
	"github.com/jhoicas/leadportal-api/internal/application/dto"
)

// RevenueHandler ingresos por cliente de una empresa.
type RevenueHandler struct {
	uc *analytics.RevenueUseCase
}

// NewRevenueHandler construye el handler.
func NewRevenueHandler(uc *analytics.RevenueUseCase) *RevenueHandler {
	return &RevenueHandler{uc: uc}
}

// Summary godoc
// @Summary      Resumen de ingresos
// @Description  Total, serie mensual y top de clientes del rango (YYYY-MM). Sin rango: últimos 12 meses.
// @Tags         revenue
// @Security     Bearer
// @Produce      json
// @Param        company_id  query  string  false  "Empresa (solo admin o manager)"
// @Param        from        query  string  false  "Mes inicial YYYY-MM"
// @Param        to          query  string  false  "Mes final YYYY-MM"
// @Success      200  {object}  dto.RevenueSummaryDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/revenue/summary [get]
func (h *RevenueHandler) Summary(c *fiber.Ctx) error {
	var req dto.RevenueRangeRequest
	if err := c.QueryParser(&req); err != nil {
		return writeError(c, errQuery)
	}
	out, err := h.uc.GetSummary(c.Context(), targetCompany(c), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Record godoc
// @Summary      Registrar ingreso mensual de un cliente
// @Tags         revenue
// @Security     Bearer
// @Accept       json
// @Param        body  body  dto.CreateRevenueRequest  true  "customer_name, amount, period"
// @Success      201
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/revenue [post]
func (h *RevenueHandler) Record(c *fiber.Ctx) error {
	var in dto.CreateRevenueRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.Record(c.Context(), targetCompany(c), in); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

// Report godoc
// @Summary      Informe de ingresos en PDF
// @Tags         revenue
// @Security     Bearer
// @Produce      application/pdf
// @Param        from  query  string  false  "Mes inicial YYYY-MM"
// @Param        to    query  string  false  "Mes final YYYY-MM"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/revenue/report.pdf [get]
func (h *RevenueHandler) Report(c *fiber.Ctx) error {
	var req dto.RevenueRangeRequest
	if err := c.QueryParser(&req); err != nil {
		return writeError(c, errQuery)
	}
	data, err := h.uc.GenerateReport(c.Context(), targetCompany(c), req)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="ingresos.pdf"`)
	return c.Send(data)
}
