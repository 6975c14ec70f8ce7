package http

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/leadportal-api/internal/application/dto"
	"github.com/jhoicas/leadportal-api/internal/application/usecase"
	"github.com/jhoicas/leadportal-api/internal/domain"
)

// SearchStringHandler search strings generados con IA.
type SearchStringHandler struct {
	uc *usecase.SearchStringUseCase
}

// NewSearchStringHandler construye el handler.
func NewSearchStringHandler(uc *usecase.SearchStringUseCase) *SearchStringHandler {
	return &SearchStringHandler{uc: uc}
}

// Create godoc
// @Summary      Crear search string
// @Description  text y website se generan en el acto; pdf queda en new hasta llamar a process-pdf. Un fallo del LLM o del scraper deja el registro en status failed (201 igualmente).
// @Tags         search-strings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSearchStringRequest  true  "type, input_source y su entrada"
// @Success      201   {object}  dto.SearchStringResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/search-strings [post]
func (h *SearchStringHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSearchStringRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.Context(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar search strings de la empresa
// @Tags         search-strings
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.SearchStringResponse
// @Router       /api/search-strings [get]
func (h *SearchStringHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return writeError(c, errQuery)
	}
	out, err := h.uc.List(c.Context(), GetCompanyID(c), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Upload godoc
// @Summary      Subir PDF al storage
// @Description  Guarda el archivo bajo la carpeta de la empresa. Máx. 10 MiB.
// @Tags         search-strings
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "PDF"
// @Success      201   {object}  dto.UploadPDFResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/search-strings/upload [post]
func (h *SearchStringHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fmt.Errorf("%w: campo file obligatorio", domain.ErrInvalidInput))
	}
	if fh.Size > usecase.MaxPDFBytes {
		return writeError(c, fmt.Errorf("%w: el PDF supera %d MiB", domain.ErrInvalidInput, usecase.MaxPDFBytes>>20))
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, fmt.Errorf("abrir archivo subido: %w", err))
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, usecase.MaxPDFBytes+1))
	if err != nil {
		return writeError(c, fmt.Errorf("leer archivo subido: %w", err))
	}
	p, err := h.uc.UploadPDF(c.Context(), GetCompanyID(c), data)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.UploadPDFResponse{PDFPath: p})
}
