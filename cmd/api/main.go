package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/jhoicas/leadportal-api/internal/application/analytics"
	"github.com/jhoicas/leadportal-api/internal/application/association"
	"github.com/jhoicas/leadportal-api/internal/application/auth"
	"github.com/jhoicas/leadportal-api/internal/application/navigation"
	"github.com/jhoicas/leadportal-api/internal/application/ports"
	"github.com/jhoicas/leadportal-api/internal/application/usecase"
	infraai "github.com/jhoicas/leadportal-api/internal/infrastructure/ai"
	"github.com/jhoicas/leadportal-api/internal/infrastructure/memory"
	"github.com/jhoicas/leadportal-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/leadportal-api/internal/infrastructure/pdf"
	"github.com/jhoicas/leadportal-api/internal/infrastructure/policy"
	"github.com/jhoicas/leadportal-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/leadportal-api/internal/infrastructure/redis"
	"github.com/jhoicas/leadportal-api/internal/infrastructure/scraper"
	"github.com/jhoicas/leadportal-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/leadportal-api/internal/interfaces/http"
	"github.com/jhoicas/leadportal-api/pkg/config"
	"github.com/jhoicas/leadportal-api/pkg/logger"
)

// maxPDFPages páginas que se extraen de un PDF subido.
const maxPDFPages = 50

// stores almacenes de estado efímero: Redis si está configurado, memoria si no.
type stores struct {
	nav       ports.NavigationStore
	features  ports.FeatureCache
	heartbeat ports.HeartbeatStore
	close     func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	accessPolicy, err := policy.Load(cfg.Access.PolicyFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.Access.PolicyFile).Msg("política de acceso")
	}

	if err := postgres.MigrateUp(postgres.ResolvedDSN(cfg.DB)); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	pool, err := postgres.NewPool(ctx, cfg.DB, postgres.PoolOptions{})
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	st := newStores(ctx, cfg, log)
	defer st.close()

	recorder := metrics.NewRecorder(true)

	llm, err := infraai.NewFromConfig(cfg.AI)
	if err != nil {
		log.Fatal().Err(err).Str("provider", cfg.AI.Provider).Msg("proveedor de IA")
	}
	files, err := storage.NewLocalFileStore(cfg.Storage.Dir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Storage.Dir).Msg("storage de archivos")
	}

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	linkRepo := postgres.NewCompanyUserRepository(pool)
	leadRepo := postgres.NewLeadRepository(pool)
	campaignRepo := postgres.NewCampaignRepository(pool)
	revenueRepo := postgres.NewRevenueRepository(pool)
	searchRepo := postgres.NewSearchStringRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	repairSvc := association.NewRepairService(userRepo, companyRepo, linkRepo, txRunner, log, recorder)
	authUC := auth.NewAuthUseCase(userRepo, linkRepo, repairSvc, accessPolicy, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)
	navigationUC := navigation.NewUseCase(accessPolicy, cfg.Access.MaxRedirectAttempts, st.nav, recorder, log)
	featureSvc := usecase.NewFeatureService(companyRepo, st.features, log)

	aiUC := usecase.NewAIUseCase(llm, cfg.AI.Timeout)
	scraperUC := usecase.NewScraperUseCase(scraper.NewHTMLFetcher(cfg.Scraper))
	searchUC := usecase.NewSearchStringUseCase(searchRepo, aiUC, scraperUC, files, infrapdf.NewTextExtractor(maxPDFPages), log)

	// Cambios de flags hechos fuera de la API (SQL directo, panel de Supabase) invalidan la caché.
	listener := postgres.NewFlagListener(pool, featureSvc, log)
	go listener.Run(ctx)

	app := fiber.New(httpRouter.AppConfig(cfg.App.Name, usecase.MaxPDFBytes+2<<20))
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))
	app.Use(recorder.Middleware())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "LeadPortal API",
		}))
	}

	app.Get("/metrics", adaptor.HTTPHandler(recorder.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Policy:       accessPolicy,
		JWTSecret:    cfg.JWT.Secret,
		ServiceName:  cfg.App.Name,
		Health:       pool,
		Metrics:      recorder,
		AuthUC:       authUC,
		NavigationUC: navigationUC,
		CompanyUC:    usecase.NewCompanyUseCase(companyRepo),
		Features:     featureSvc,
		UserUC:       usecase.NewUserUseCase(userRepo, companyRepo, linkRepo),
		LeadUC:       usecase.NewLeadUseCase(leadRepo),
		CampaignUC:   usecase.NewCampaignUseCase(campaignRepo, companyRepo),
		RevenueUC:    appanalytics.NewRevenueUseCase(revenueRepo, companyRepo, infrapdf.NewMarotoReportGenerator()),
		SearchUC:     searchUC,
		AIUC:         aiUC,
		ScraperUC:    scraperUC,
		CrawlerUC:    usecase.NewCrawlerUseCase(st.heartbeat),
		Repair:       repairSvc,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// newStores conecta Redis si REDIS_ADDR está definido. Si la conexión falla la app
// arranca igual con almacenes en memoria (válidos para una sola instancia).
func newStores(ctx context.Context, cfg *config.Config, log *logger.Logger) stores {
	inMemory := stores{
		nav:       memory.NewNavigationStore(cfg.Access.NavigationTTL),
		features:  memory.NewFeatureCache(cfg.Access.FeatureCacheTTL),
		heartbeat: memory.NewHeartbeatStore(cfg.Scraper.HeartbeatTTL),
		close:     func() {},
	}
	if cfg.Redis.Addr == "" {
		log.Info().Msg("REDIS_ADDR vacío: estado de navegación, flags y latidos en memoria")
		return inMemory
	}
	rdb, err := infraredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis no disponible: se usan almacenes en memoria")
		return inMemory
	}
	return stores{
		nav:       infraredis.NewNavigationStore(rdb, cfg.Access.NavigationTTL),
		features:  infraredis.NewFeatureCache(rdb, cfg.Access.FeatureCacheTTL),
		heartbeat: infraredis.NewHeartbeatStore(rdb, cfg.Scraper.HeartbeatTTL),
		close: func() {
			if err := rdb.Close(); err != nil {
				log.Warn().Err(err).Msg("cerrar Redis")
			}
		},
	}
}
