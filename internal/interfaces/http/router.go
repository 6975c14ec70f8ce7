package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/leadportal-api/internal/application/analytics"
	"github.com/jhoicas/leadportal-api/internal/application/association"
	"github.com/jhoicas/leadportal-api/internal/application/auth"
	"github.com/jhoicas/leadportal-api/internal/application/navigation"
	"github.com/jhoicas/leadportal-api/internal/application/ports"
	"github.com/jhoicas/leadportal-api/internal/application/usecase"
	"github.com/jhoicas/leadportal-api/internal/domain/access"
	"github.com/jhoicas/leadportal-api/internal/domain/entity"
)

// HealthChecker dependencia que /health consulta (el pool de PostgreSQL).
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Policy       *access.Policy
	JWTSecret    string
	ServiceName  string
	Health       HealthChecker
	Metrics      ports.MetricsRecorder
	AuthUC       *auth.AuthUseCase
	NavigationUC *navigation.UseCase
	CompanyUC    *usecase.CompanyUseCase
	Features     *usecase.FeatureService
	UserUC       *usecase.UserUseCase
	LeadUC       *usecase.LeadUseCase
	CampaignUC   *usecase.CampaignUseCase
	RevenueUC    *analytics.RevenueUseCase
	SearchUC     *usecase.SearchStringUseCase
	AIUC         *usecase.AIUseCase
	ScraperUC    *usecase.ScraperUseCase
	CrawlerUC    *usecase.CrawlerUseCase
	Repair       *association.RepairService
}

// AppConfig configuración de fiber para la API. Immutable: los strings de c.Params,
// c.Query y el cuerpo se copian, porque terminan como claves de caché y en goroutines
// que viven más que la petición.
func AppConfig(appName string, bodyLimit int) fiber.Config {
	return fiber.Config{
		AppName:      appName,
		Immutable:    true,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    bodyLimit,
	}
}

// Router registra las rutas de la API.
// Las rutas públicas se registran antes que el grupo protegido: su handler responde sin llamar a Next.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", healthHandler(deps))

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)

	// Navegación: la sesión es opcional
	navHandler := NewNavigationHandler(deps.NavigationUC)
	nav := api.Group("/navigation", OptionalAuth(deps.JWTSecret))
	nav.Post("/resolve", navHandler.Resolve)
	nav.Post("/reset", navHandler.Reset)
	nav.Post("/guard", navHandler.Guard)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.Policy))
	admin := AdminRoute(deps.Policy)
	staff := ProtectedRoute(deps.Policy, access.RoleAdmin, access.RoleManager)

	protected.Get("/session", navHandler.Session)

	// Companies y feature flags
	companyHandler := NewCompanyHandler(deps.CompanyUC, deps.Features)
	protected.Get("/features", companyHandler.Features)
	protected.Get("/companies", staff, companyHandler.List)
	protected.Post("/companies", admin, companyHandler.Create)
	protected.Get("/companies/:id", companyHandler.GetByID)
	protected.Patch("/companies/:id", admin, companyHandler.Update)
	protected.Patch("/companies/:id/features", admin, companyHandler.UpdateFeatures)

	// Users
	userHandler := NewUserHandler(deps.UserUC)
	protected.Get("/users/me", userHandler.Me)
	protected.Get("/users", admin, userHandler.Directory)
	protected.Put("/users/:id/role", admin, userHandler.SetRole)
	protected.Put("/users/:id/company", admin, userHandler.AssignCompany)

	// Leads
	leadHandler := NewLeadHandler(deps.LeadUC)
	protected.Get("/leads", leadHandler.List)
	protected.Post("/leads", leadHandler.Create)
	protected.Get("/leads/google-jobs", RequireFeature(entity.FeatureGoogleJobs, deps.Features), leadHandler.GoogleJobs)
	protected.Patch("/leads/:id/status", leadHandler.UpdateStatus)

	// Campaigns
	campaignHandler := NewCampaignHandler(deps.CampaignUC)
	protected.Get("/campaigns/mine", campaignHandler.Mine)
	protected.Get("/campaigns", admin, campaignHandler.List)
	protected.Post("/campaigns", admin, campaignHandler.Create)
	protected.Post("/campaigns/:id/assignments", admin, campaignHandler.Assign)
	protected.Delete("/campaigns/:id/assignments/:companyId", admin, campaignHandler.Unassign)

	// Revenue
	revenueHandler := NewRevenueHandler(deps.RevenueUC)
	protected.Get("/revenue/summary", revenueHandler.Summary)
	protected.Get("/revenue/report.pdf", revenueHandler.Report)
	protected.Post("/revenue", staff, revenueHandler.Record)

	// Search strings
	searchHandler := NewSearchStringHandler(deps.SearchUC)
	protected.Get("/search-strings", searchHandler.List)
	protected.Post("/search-strings", searchHandler.Create)
	protected.Post("/search-strings/upload", searchHandler.Upload)

	// Funciones
	fnHandler := NewFunctionsHandler(FunctionsDeps{
		AI:      deps.AIUC,
		Scraper: deps.ScraperUC,
		Search:  deps.SearchUC,
		Repair:  deps.Repair,
		Users:   deps.UserUC,
		Crawler: deps.CrawlerUC,
		Metrics: deps.Metrics,
	})
	fn := protected.Group("/functions")
	fn.Post("/"+fnAISearch, fnHandler.AISearch)
	fn.Post("/"+fnWebsiteScraper, fnHandler.WebsiteScraper)
	fn.Post("/"+fnProcessPDF, fnHandler.ProcessPDF)
	fn.Post("/"+fnRepair, admin, fnHandler.RepairAssociations)
	fn.Post("/"+fnGetAllUsers, admin, fnHandler.GetAllUsers)
	fn.Post("/"+fnHeartbeat, fnHandler.Heartbeat)
	fn.Get("/"+fnHeartbeat+"/:jobId", fnHandler.HeartbeatStatus)
}

// healthHandler 200 si la base responde; 503 si no. Sin HealthChecker siempre 200.
func healthHandler(deps RouterDeps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Health != nil {
			ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
			defer cancel()
			if err := deps.Health.Ping(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"status": "degraded", "service": deps.ServiceName, "database": "unreachable",
				})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	}
}
