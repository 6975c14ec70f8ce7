package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/leadportal-api/internal/application/analytics"
	"github.com/jhoicas/leadportal-api/internal/application/association"
	"github.com/jhoicas/leadportal-api/internal/application/auth"
	"github.com/jhoicas/leadportal-api/internal/application/dto"
	"github.com/jhoicas/leadportal-api/internal/application/navigation"
	"github.com/jhoicas/leadportal-api/internal/application/ports"
	"github.com/jhoicas/leadportal-api/internal/application/usecase"
	"github.com/jhoicas/leadportal-api/internal/domain/access"
	"github.com/jhoicas/leadportal-api/internal/domain/entity"
	"github.com/jhoicas/leadportal-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/leadportal-api/internal/interfaces/http"
	"github.com/jhoicas/leadportal-api/internal/testutil/fakes"
)

type fakeReports struct{}

func (fakeReports) GenerateRevenueReport(_ context.Context, company *entity.Company, _ *dto.RevenueSummaryDTO) ([]byte, error) {
	return []byte("%PDF-1.7 " + company.Name), nil
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type testEnv struct {
	app     *fiber.App
	db      *fakes.DB
	llm     *fakes.LLM
	files   *fakes.Files
	metrics *fakes.Metrics
}

// newTestEnv monta el router completo sobre repositorios y servicios fake.
// Siembra la empresa testCompanyID con google_jobs apagado.
func newTestEnv(t *testing.T, health apphttp.HealthChecker) *testEnv {
	t.Helper()
	db := fakes.NewDB()
	db.Companies[testCompanyID] = &entity.Company{ID: testCompanyID, Name: "Acme", Status: "active", CreatedAt: time.Now()}

	policy := access.DefaultPolicy()
	metrics := fakes.NewMetrics()
	users := fakes.UserRepo{DB: db}
	companies := fakes.CompanyRepo{DB: db}
	links := fakes.CompanyUserRepo{DB: db}
	repair := association.NewRepairService(users, companies, links, fakes.TxRunner{DB: db}, nil, metrics)

	llm := &fakes.LLM{Reply: "respuesta"}
	aiUC := usecase.NewAIUseCase(llm, time.Second)
	scraperUC := usecase.NewScraperUseCase(fakes.Fetcher{Pages: map[string]*ports.ScrapedPage{
		"https://acme.test": {URL: "https://acme.test", Domain: "acme.test", Text: "Acme vende cohetes"},
	}})
	files := &fakes.Files{}

	app := fiber.New(apphttp.AppConfig("leadportal-test", usecase.MaxPDFBytes+2<<20))
	apphttp.Router(app, apphttp.RouterDeps{
		Policy:       policy,
		JWTSecret:    testJWTSecret,
		ServiceName:  "leadportal-test",
		Health:       health,
		Metrics:      metrics,
		AuthUC:       auth.NewAuthUseCase(users, links, repair, policy, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 60, Issuer: testIssuer}, nil),
		NavigationUC: navigation.NewUseCase(policy, 5, memory.NewNavigationStore(time.Minute), metrics, nil),
		CompanyUC:    usecase.NewCompanyUseCase(companies),
		Features:     usecase.NewFeatureService(companies, memory.NewFeatureCache(time.Minute), nil),
		UserUC:       usecase.NewUserUseCase(users, companies, links),
		LeadUC:       usecase.NewLeadUseCase(fakes.LeadRepo{DB: db}),
		CampaignUC:   usecase.NewCampaignUseCase(fakes.CampaignRepo{DB: db}, companies),
		RevenueUC:    analytics.NewRevenueUseCase(fakes.RevenueRepo{DB: db}, companies, fakeReports{}),
		SearchUC:     usecase.NewSearchStringUseCase(fakes.SearchStringRepo{DB: db}, aiUC, scraperUC, files, fakes.PDF{}, nil),
		AIUC:         aiUC,
		ScraperUC:    scraperUC,
		CrawlerUC:    usecase.NewCrawlerUseCase(memory.NewHeartbeatStore(time.Minute)),
		Repair:       repair,
	})
	return &testEnv{app: app, db: db, llm: llm, files: files, metrics: metrics}
}

// call lanza una petición JSON y devuelve estado y cuerpo.
func (e *testEnv) call(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decodeInto[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

// ── Health ───────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	status, _ := newTestEnv(t, pinger{}).call(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, body := newTestEnv(t, pinger{err: errors.New("db caída")}).call(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Contains(t, string(body), "degraded")
}

// ── Auth y sesión ────────────────────────────────────────────────────────────

func TestRegistroLoginYSesion(t *testing.T) {
	env := newTestEnv(t, nil)

	status, body := env.call(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Email: "Ana@Acme.test", Password: "s3cret-pass", Name: "Ana",
	})
	require.Equal(t, fiber.StatusCreated, status, string(body))

	status, _ = env.call(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Email: "ana@acme.test", Password: "s3cret-pass",
	})
	assert.Equal(t, fiber.StatusConflict, status)

	status, body = env.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "ana@acme.test", Password: "s3cret-pass"})
	require.Equal(t, fiber.StatusOK, status, string(body))
	login := decodeInto[dto.LoginResponse](t, body)
	require.NotEmpty(t, login.Token)
	assert.Equal(t, "customer", login.Session.Role)
	assert.Equal(t, testCompanyID, login.Session.CompanyID, "se asocia a la empresa más antigua")

	status, body = env.call(t, http.MethodGet, "/api/session", "Bearer "+login.Token, nil)
	require.Equal(t, fiber.StatusOK, status)
	sess := decodeInto[dto.SessionResponse](t, body)
	assert.True(t, sess.IsCustomer)
	assert.False(t, sess.IsAdmin)
	assert.Equal(t, "/customer/dashboard", sess.Dashboard)
}

func TestLogin_CredencialesInvalidasNoDistingueLaCausa(t *testing.T) {
	env := newTestEnv(t, nil)
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	env.db.Users["u1"] = &entity.User{ID: "u1", Email: "ana@acme.test", PasswordHash: string(hash), Status: entity.UserStatusActive}

	for _, in := range []dto.LoginRequest{
		{Email: "ana@acme.test", Password: "otra-cosa"},
		{Email: "nadie@acme.test", Password: "s3cret-pass"},
	} {
		status, body := env.call(t, http.MethodPost, "/api/auth/login", "", in)
		assert.Equal(t, fiber.StatusUnauthorized, status)
		assert.Equal(t, "credenciales inválidas", decodeInto[dto.ErrorResponse](t, body).Message)
	}
}

// ── Navegación ───────────────────────────────────────────────────────────────

func TestNavigation_AnonimoVaALogin(t *testing.T) {
	env := newTestEnv(t, nil)

	status, body := env.call(t, http.MethodPost, "/api/navigation/resolve", "", dto.NavigationRequest{MountID: "m1", Path: "/admin/users"})
	require.Equal(t, fiber.StatusOK, status, string(body))
	out := decodeInto[dto.NavigationResponse](t, body)
	assert.Equal(t, "navigate", out.Action)
	assert.Equal(t, "/login", out.Target)
}

func TestNavigation_BucleSeDesactivaConUnSoloToast(t *testing.T) {
	env := newTestEnv(t, nil)
	tok := tokenFor(t, "customer", false)

	resolve := func(path string) dto.NavigationResponse {
		status, body := env.call(t, http.MethodPost, "/api/navigation/resolve", tok, dto.NavigationRequest{MountID: "m1", Path: path})
		require.Equal(t, fiber.StatusOK, status, string(body))
		return decodeInto[dto.NavigationResponse](t, body)
	}

	for i := 1; i <= 5; i++ {
		out := resolve("/admin/dashboard")
		require.Equal(t, "navigate", out.Action, "intento %d", i)
		assert.Equal(t, "/customer/dashboard", out.Target)
		resolve("/customer/dashboard")
	}

	out := resolve("/admin/dashboard")
	assert.Equal(t, "none", out.Action)
	assert.True(t, out.Disabled)
	assert.Equal(t, navigation.LoopToast, out.Toast)

	out = resolve("/admin/dashboard")
	assert.Empty(t, out.Toast, "el toast se emite una sola vez")
	assert.True(t, out.Disabled)

	status, _ := env.call(t, http.MethodPost, "/api/navigation/reset", tok, dto.NavigationResetRequest{MountID: "m1"})
	require.Equal(t, fiber.StatusNoContent, status)
	assert.Equal(t, "navigate", resolve("/admin/dashboard").Action)
	assert.Equal(t, 1, env.metrics.Redirects["disabled"])
}

func TestNavigation_SinMountID400(t *testing.T) {
	status, body := newTestEnv(t, nil).call(t, http.MethodPost, "/api/navigation/resolve", "", dto.NavigationRequest{Path: "/"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", decodeInto[dto.ErrorResponse](t, body).Code)
}

func TestNavigation_Guard(t *testing.T) {
	env := newTestEnv(t, nil)

	status, body := env.call(t, http.MethodPost, "/api/navigation/guard", tokenFor(t, "manager", false), dto.GuardRequest{AllowedRoles: []string{"admin"}})
	require.Equal(t, fiber.StatusOK, status)
	v := decodeInto[dto.GuardResponse](t, body)
	assert.Equal(t, "unauthorized", v.State)
	assert.False(t, v.Allowed)
	assert.Equal(t, "/manager/dashboard", v.Redirect)

	status, body = env.call(t, http.MethodPost, "/api/navigation/guard", "", dto.GuardRequest{Loading: true})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "loading", decodeInto[dto.GuardResponse](t, body).State)

	status, _ = env.call(t, http.MethodPost, "/api/navigation/guard", "", dto.GuardRequest{AllowedRoles: []string{"root"}})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

// ── Feature flags ────────────────────────────────────────────────────────────

func TestGoogleJobs_GateDelFlag(t *testing.T) {
	env := newTestEnv(t, nil)
	customer := tokenFor(t, "customer", false)

	status, body := env.call(t, http.MethodGet, "/api/leads/google-jobs", customer, nil)
	require.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "FEATURE_DISABLED", decodeInto[dto.ErrorResponse](t, body).Code)

	on := true
	status, _ = env.call(t, http.MethodPatch, "/api/companies/"+testCompanyID+"/features", customer, dto.UpdateFeaturesRequest{GoogleJobsEnabled: &on})
	assert.Equal(t, fiber.StatusForbidden, status, "solo admin cambia flags")

	status, body = env.call(t, http.MethodPatch, "/api/companies/"+testCompanyID+"/features", tokenFor(t, "admin", false), dto.UpdateFeaturesRequest{GoogleJobsEnabled: &on})
	require.Equal(t, fiber.StatusOK, status, string(body))

	status, body = env.call(t, http.MethodGet, "/api/leads/google-jobs", customer, nil)
	assert.Equal(t, fiber.StatusOK, status, string(body))

	status, body = env.call(t, http.MethodGet, "/api/features", customer, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.True(t, decodeInto[entity.CompanyFeatures](t, body).GoogleJobsEnabled)
}

func TestFeatures_CacheNoSeCorrompeEntrePeticiones(t *testing.T) {
	env := newTestEnv(t, nil)
	const otherID = "00000000-0000-0000-0000-000000000003"
	env.db.Companies[otherID] = &entity.Company{ID: otherID, Name: "Globex", Status: "active", CreatedAt: time.Now()}
	env.db.Companies[testCompanyID].GoogleJobsEnabled = true
	admin := tokenFor(t, "admin", false)

	status, body := env.call(t, http.MethodGet, "/api/features?company_id="+testCompanyID, admin, nil)
	require.Equal(t, fiber.StatusOK, status, string(body))
	assert.True(t, decodeInto[entity.CompanyFeatures](t, body).GoogleJobsEnabled)

	// cambio directo en la base: solo la caché conserva el valor anterior
	env.db.Companies[testCompanyID].GoogleJobsEnabled = false

	status, body = env.call(t, http.MethodGet, "/api/features?company_id="+otherID, admin, nil)
	require.Equal(t, fiber.StatusOK, status, string(body))
	assert.Equal(t, otherID, decodeInto[entity.CompanyFeatures](t, body).CompanyID)

	status, body = env.call(t, http.MethodGet, "/api/features?company_id="+testCompanyID, admin, nil)
	require.Equal(t, fiber.StatusOK, status, string(body))
	got := decodeInto[entity.CompanyFeatures](t, body)
	assert.Equal(t, testCompanyID, got.CompanyID)
	assert.True(t, got.GoogleJobsEnabled, "la entrada de la primera empresa sigue en caché")
}

// ── Leads y empresas ─────────────────────────────────────────────────────────

func TestLeads_CustomerNoPuedeOperarSobreOtraEmpresa(t *testing.T) {
	env := newTestEnv(t, nil)
	env.db.Companies["otra"] = &entity.Company{ID: "otra", Name: "Globex"}

	status, body := env.call(t, http.MethodPost, "/api/leads?company_id=otra", tokenFor(t, "customer", false), dto.CreateLeadRequest{Name: "Initech"})
	require.Equal(t, fiber.StatusCreated, status, string(body))
	assert.Equal(t, testCompanyID, decodeInto[dto.LeadResponse](t, body).CompanyID, "company_id se ignora para customer")

	status, body = env.call(t, http.MethodGet, "/api/leads?company_id=otra", tokenFor(t, "manager", false), nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, decodeInto[dto.LeadListResponse](t, body).Items)

	status, _ = env.call(t, http.MethodGet, "/api/companies/otra", tokenFor(t, "customer", false), nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	status, _ = env.call(t, http.MethodGet, "/api/companies/otra", tokenFor(t, "manager", false), nil)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestLeads_EstadoInvalido400(t *testing.T) {
	status, body := newTestEnv(t, nil).call(t, http.MethodGet, "/api/leads?status=perdido", tokenFor(t, "customer", false), nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", decodeInto[dto.ErrorResponse](t, body).Code)
}

// ── Campañas ─────────────────────────────────────────────────────────────────

func TestCampaigns_AsignarYVerLasPropias(t *testing.T) {
	env := newTestEnv(t, nil)
	admin := tokenFor(t, "admin", false)

	status, body := env.call(t, http.MethodPost, "/api/campaigns", admin, dto.CreateCampaignRequest{Name: "Q3"})
	require.Equal(t, fiber.StatusCreated, status, string(body))
	camp := decodeInto[dto.CampaignResponse](t, body)

	status, body = env.call(t, http.MethodPost, "/api/campaigns/"+camp.ID+"/assignments", admin, dto.AssignCampaignRequest{CompanyIDs: []string{testCompanyID}})
	require.Equal(t, fiber.StatusOK, status, string(body))

	status, body = env.call(t, http.MethodGet, "/api/campaigns/mine", tokenFor(t, "customer", false), nil)
	require.Equal(t, fiber.StatusOK, status)
	mine := decodeInto[[]dto.CampaignResponse](t, body)
	require.Len(t, mine, 1)
	assert.Equal(t, "Q3", mine[0].Name)

	status, _ = env.call(t, http.MethodGet, "/api/campaigns", tokenFor(t, "customer", false), nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = env.call(t, http.MethodDelete, "/api/campaigns/"+camp.ID+"/assignments/"+testCompanyID, admin, nil)
	assert.Equal(t, fiber.StatusNoContent, status)
}

// ── Revenue ──────────────────────────────────────────────────────────────────

func TestRevenue_ResumenEInforme(t *testing.T) {
	env := newTestEnv(t, nil)
	manager := tokenFor(t, "manager", false)
	period := time.Now().UTC().Format("2006-01")

	status, body := env.call(t, http.MethodPost, "/api/revenue", manager, map[string]string{
		"customer_name": "Globex", "amount": "1500.50", "period": period,
	})
	require.Equal(t, fiber.StatusCreated, status, string(body))

	status, _ = env.call(t, http.MethodPost, "/api/revenue", tokenFor(t, "customer", false), map[string]string{
		"customer_name": "Globex", "amount": "1", "period": period,
	})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body = env.call(t, http.MethodGet, "/api/revenue/summary", tokenFor(t, "customer", false), nil)
	require.Equal(t, fiber.StatusOK, status, string(body))
	sum := decodeInto[dto.RevenueSummaryDTO](t, body)
	assert.Equal(t, "1500.5", sum.Total.String())

	req := httptest.NewRequest(http.MethodGet, "/api/revenue/report.pdf", nil)
	req.Header.Set("Authorization", manager)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")
}

// ── Search strings y funciones ───────────────────────────────────────────────

func TestSearchStrings_SubirYProcesarPDF(t *testing.T) {
	env := newTestEnv(t, nil)
	customer := tokenFor(t, "customer", false)
	env.llm.Reply = `("ingeniero" OR "engineer") AND Bogotá`

	// Subida multipart.
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "perfil.pdf")
	require.NoError(t, err)
	_, err = fw.Write([]byte("%PDF-1.4 ingeniero de datos en Bogotá"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/search-strings/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", customer)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var up dto.UploadPDFResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&up))
	assert.Regexp(t, "^"+testCompanyID+"/.+\\.pdf$", up.PDFPath)

	status, body := env.call(t, http.MethodPost, "/api/search-strings", customer, dto.CreateSearchStringRequest{
		Type: "recruiting", InputSource: "pdf", PDFPath: up.PDFPath,
	})
	require.Equal(t, fiber.StatusCreated, status, string(body))
	ss := decodeInto[dto.SearchStringResponse](t, body)
	assert.Equal(t, "new", ss.Status)

	status, body = env.call(t, http.MethodPost, "/api/functions/process-pdf", customer, dto.ProcessPDFRequest{
		PDFPath: up.PDFPath, SearchStringID: ss.ID,
	})
	require.Equal(t, fiber.StatusOK, status, string(body))
	out := decodeInto[dto.ProcessPDFResponse](t, body)
	assert.True(t, out.Success)
	assert.Positive(t, out.TextLength)
	assert.Equal(t, 1, env.metrics.Calls["process-pdf:ok"])
}

func TestSearchStrings_UploadNoPDF400(t *testing.T) {
	env := newTestEnv(t, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "virus.exe")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("MZ..."))
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/search-strings/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", tokenFor(t, "customer", false))
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, env.files.Files)
}

func TestFunctions_AISearch(t *testing.T) {
	env := newTestEnv(t, nil)
	tok := tokenFor(t, "customer", false)

	status, body := env.call(t, http.MethodPost, "/api/functions/ai-search", tok, dto.AISearchRequest{Query: "¿Cómo creo una campaña?"})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "respuesta", decodeInto[dto.AISearchResponse](t, body).Answer)

	env.llm.Err = errors.New("HTTP 500")
	status, body = env.call(t, http.MethodPost, "/api/functions/ai-search", tok, dto.AISearchRequest{Query: "hola"})
	assert.Equal(t, fiber.StatusBadGateway, status)
	assert.NotEmpty(t, decodeInto[dto.AISearchResponse](t, body).Error)
	assert.Equal(t, 1, env.metrics.Calls["ai-search:error"])

	status, _ = env.call(t, http.MethodPost, "/api/functions/ai-search", "", dto.AISearchRequest{Query: "hola"})
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestFunctions_WebsiteScraper(t *testing.T) {
	env := newTestEnv(t, nil)
	tok := tokenFor(t, "customer", false)

	status, body := env.call(t, http.MethodPost, "/api/functions/website-scraper", tok, dto.ScrapeRequest{URL: "https://acme.test"})
	require.Equal(t, fiber.StatusOK, status, string(body))
	out := decodeInto[dto.ScrapeResponse](t, body)
	assert.True(t, out.Success)
	assert.Equal(t, "acme.test", out.Domain)

	status, body = env.call(t, http.MethodPost, "/api/functions/website-scraper", tok, dto.ScrapeRequest{URL: "ftp://acme.test"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.False(t, decodeInto[dto.ScrapeResponse](t, body).Success)
}

func TestFunctions_RepairSoloAdmin(t *testing.T) {
	env := newTestEnv(t, nil)
	env.db.Users["u1"] = &entity.User{ID: "u1", Email: "huerfano@acme.test", Status: entity.UserStatusActive}

	status, _ := env.call(t, http.MethodPost, "/api/functions/repair-company-associations", tokenFor(t, "manager", false), nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body := env.call(t, http.MethodPost, "/api/functions/repair-company-associations", tokenFor(t, "", true), nil)
	require.Equal(t, fiber.StatusOK, status, string(body))
	rep := decodeInto[dto.RepairReport](t, body)
	assert.Equal(t, 1, rep.Repairs)
	require.Len(t, env.db.Links, 1)
	assert.Equal(t, testCompanyID, env.db.Links[0].CompanyID)

	status, body = env.call(t, http.MethodPost, "/api/functions/get-all-users", tokenFor(t, "admin", false), nil)
	require.Equal(t, fiber.StatusOK, status, string(body))
	dir := decodeInto[dto.UserDirectoryResponse](t, body)
	require.Len(t, dir.Items, 1)
	assert.Equal(t, "Acme", dir.Items[0].CompanyName)
}

func TestFunctions_HeartbeatDelCrawler(t *testing.T) {
	env := newTestEnv(t, nil)
	tok := tokenFor(t, "customer", false)

	status, body := env.call(t, http.MethodGet, "/api/functions/website-crawler-heartbeat/job-1", tok, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.False(t, decodeInto[dto.HeartbeatResponse](t, body).Alive)

	status, body = env.call(t, http.MethodPost, "/api/functions/website-crawler-heartbeat", tok, dto.HeartbeatRequest{JobID: "job-1"})
	require.Equal(t, fiber.StatusOK, status, string(body))
	assert.True(t, decodeInto[dto.HeartbeatResponse](t, body).Alive)

	status, body = env.call(t, http.MethodGet, "/api/functions/website-crawler-heartbeat/job-1", tok, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.True(t, decodeInto[dto.HeartbeatResponse](t, body).Alive)
}
