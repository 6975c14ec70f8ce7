package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/leadportal-api/internal/application/association"
	"github.com/jhoicas/leadportal-api/internal/application/dto"
	"github.com/jhoicas/leadportal-api/internal/application/ports"
	"github.com/jhoicas/leadportal-api/internal/application/usecase"
)

// Nombres de las funciones, usados en la ruta y en las métricas.
const (
	fnAISearch       = "ai-search"
	fnWebsiteScraper = "website-scraper"
	fnProcessPDF     = "process-pdf"
	fnRepair         = "repair-company-associations"
	fnGetAllUsers    = "get-all-users"
	fnHeartbeat      = "website-crawler-heartbeat"
)

// FunctionsHandler funciones JSON invocadas por el cliente (búsqueda IA, scraping, PDF,
// reparación de asociaciones, listado de usuarios y latidos del crawler).
type FunctionsHandler struct {
	ai      *usecase.AIUseCase
	scraper *usecase.ScraperUseCase
	search  *usecase.SearchStringUseCase
	repair  *association.RepairService
	users   *usecase.UserUseCase
	crawler *usecase.CrawlerUseCase
	metrics ports.MetricsRecorder
}

// FunctionsDeps casos de uso detrás de cada función.
type FunctionsDeps struct {
	AI      *usecase.AIUseCase
	Scraper *usecase.ScraperUseCase
	Search  *usecase.SearchStringUseCase
	Repair  *association.RepairService
	Users   *usecase.UserUseCase
	Crawler *usecase.CrawlerUseCase
	Metrics ports.MetricsRecorder
}

// NewFunctionsHandler construye el handler.
func NewFunctionsHandler(d FunctionsDeps) *FunctionsHandler {
	if d.Metrics == nil {
		d.Metrics = ports.NopMetrics{}
	}
	return &FunctionsHandler{
		ai:      d.AI,
		scraper: d.Scraper,
		search:  d.Search,
		repair:  d.Repair,
		users:   d.Users,
		crawler: d.Crawler,
		metrics: d.Metrics,
	}
}

func (h *FunctionsHandler) record(name string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	h.metrics.FunctionCalled(name, outcome)
}

// AISearch godoc
// @Summary      Búsqueda asistida por IA
// @Description  Responde preguntas sobre la plataforma. Timeout interno de 30 s.
// @Tags         functions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AISearchRequest  true  "query"
// @Success      200   {object}  dto.AISearchResponse
// @Failure      400   {object}  dto.AISearchResponse
// @Failure      502   {object}  dto.AISearchResponse
// @Failure      504   {object}  dto.AISearchResponse
// @Router       /api/functions/ai-search [post]
func (h *FunctionsHandler) AISearch(c *fiber.Ctx) error {
	var in dto.AISearchRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.ai.Search(c.Context(), in)
	h.record(fnAISearch, err)
	if err != nil {
		he := classify(err)
		if he.status >= fiber.StatusInternalServerError {
			c.Locals(localError, err)
		}
		return c.Status(he.status).JSON(dto.AISearchResponse{Error: errorMessage(he, err)})
	}
	return c.JSON(out)
}

// WebsiteScraper godoc
// @Summary      Extraer texto de un sitio web
// @Description  Solo http/https; 10 s de timeout, 2 MiB de cuerpo y 50 000 caracteres de salida.
// @Tags         functions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ScrapeRequest  true  "url"
// @Success      200   {object}  dto.ScrapeResponse
// @Failure      400   {object}  dto.ScrapeResponse
// @Failure      502   {object}  dto.ScrapeResponse
// @Router       /api/functions/website-scraper [post]
func (h *FunctionsHandler) WebsiteScraper(c *fiber.Ctx) error {
	var in dto.ScrapeRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.scraper.Scrape(c.Context(), in)
	h.record(fnWebsiteScraper, err)
	if err != nil {
		he := classify(err)
		if he.status >= fiber.StatusInternalServerError {
			c.Locals(localError, err)
		}
		return c.Status(he.status).JSON(dto.ScrapeResponse{Success: false, Error: errorMessage(he, err)})
	}
	return c.JSON(out)
}

// ProcessPDF godoc
// @Summary      Procesar un PDF subido
// @Description  Extrae el texto, lo guarda en el search string y lanza la generación. Los fallos de lectura o extracción dejan el search string en failed y responden 200 con success=false.
// @Tags         functions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProcessPDFRequest  true  "pdf_path, search_string_id"
// @Success      200   {object}  dto.ProcessPDFResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/functions/process-pdf [post]
func (h *FunctionsHandler) ProcessPDF(c *fiber.Ctx) error {
	var in dto.ProcessPDFRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.search.ProcessPDF(c.Context(), GetCompanyID(c), in)
	if err == nil && !out.Success {
		h.metrics.FunctionCalled(fnProcessPDF, "failed")
	} else {
		h.record(fnProcessPDF, err)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RepairAssociations godoc
// @Summary      Reparar asociaciones usuario-empresa (admin)
// @Description  Asocia a cada usuario sin empresa y colapsa duplicados.
// @Tags         functions
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.RepairReport
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/functions/repair-company-associations [post]
func (h *FunctionsHandler) RepairAssociations(c *fiber.Ctx) error {
	out, err := h.repair.RepairAll(c.Context())
	h.record(fnRepair, err)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetAllUsers godoc
// @Summary      Listado desnormalizado de usuarios (admin)
// @Tags         functions
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UserDirectoryResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/functions/get-all-users [post]
func (h *FunctionsHandler) GetAllUsers(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return writeError(c, errQuery)
	}
	out, err := h.users.Directory(c.Context(), page)
	h.record(fnGetAllUsers, err)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Heartbeat godoc
// @Summary      Latido del crawler
// @Tags         functions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.HeartbeatRequest  true  "jobId"
// @Success      200   {object}  dto.HeartbeatResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/functions/website-crawler-heartbeat [post]
func (h *FunctionsHandler) Heartbeat(c *fiber.Ctx) error {
	var in dto.HeartbeatRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.crawler.Heartbeat(c.Context(), in)
	h.record(fnHeartbeat, err)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// HeartbeatStatus godoc
// @Summary      Estado del crawler
// @Description  alive=false si el job no latió dentro del TTL.
// @Tags         functions
// @Security     Bearer
// @Produce      json
// @Param        jobId  path  string  true  "ID del job"
// @Success      200  {object}  dto.HeartbeatResponse
// @Router       /api/functions/website-crawler-heartbeat/{jobId} [get]
func (h *FunctionsHandler) HeartbeatStatus(c *fiber.Ctx) error {
	out, err := h.crawler.Status(c.Context(), c.Params("jobId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
