package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/leadportal-api/internal/application/dto"
	"github.com/jhoicas/leadportal-api/internal/domain/access"
	apphttp "github.com/jhoicas/leadportal-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/leadportal-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testCompanyID = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "leadportal-test"
	testExpMin    = 60
)

// buildGuardApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para parsear el JWT y cargar la sesión
//   - la guarda indicada
//   - un handler dummy que devuelve 200 y el rol si pasa los middlewares
func buildGuardApp(guard fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret, access.DefaultPolicy()),
		guard,
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"ok": true, "role": apphttp.GetSession(c).Role})
		},
	)
	return app
}

// tokenFor genera un JWT para el rol indicado.
func tokenFor(t *testing.T, role string, superadmin bool) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, pkgjwt.Subject{
		UserID:     testUserID,
		Email:      "ana@acme.test",
		CompanyID:  testCompanyID,
		Role:       role,
		Superadmin: superadmin,
	}, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doRequest lanza una petición GET /protected y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinToken_401ConRedirectALogin(t *testing.T) {
	app := buildGuardApp(apphttp.ProtectedRoute(access.DefaultPolicy()))

	resp := doRequest(t, app, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	body := decodeError(t, resp)
	assert.Equal(t, "MISSING_TOKEN", body.Code)
	assert.Equal(t, "/login", body.Redirect)
}

func TestAuthMiddleware_FormatoInvalido(t *testing.T) {
	app := buildGuardApp(apphttp.ProtectedRoute(access.DefaultPolicy()))

	resp := doRequest(t, app, "Token abc")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", decodeError(t, resp).Code)
}

func TestAuthMiddleware_TokenFirmadoConOtroSecret(t *testing.T) {
	app := buildGuardApp(apphttp.ProtectedRoute(access.DefaultPolicy()))
	tok, err := pkgjwt.Generate("otro-secret", pkgjwt.Subject{UserID: testUserID, Role: "admin"}, testIssuer, testExpMin)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+tok)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "/login", decodeError(t, resp).Redirect)
}

func TestAuthMiddleware_TokenExpirado(t *testing.T) {
	app := buildGuardApp(apphttp.ProtectedRoute(access.DefaultPolicy()))
	tok, err := pkgjwt.Generate(testJWTSecret, pkgjwt.Subject{UserID: testUserID, Role: "admin"}, testIssuer, -1)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+tok)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Guardas de portal
// ──────────────────────────────────────────────────────────────────────────────

func TestAdminRoute_AdminPasa(t *testing.T) {
	app := buildGuardApp(apphttp.AdminRoute(access.DefaultPolicy()))

	resp := doRequest(t, app, tokenFor(t, "admin", false))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAdminRoute_CustomerRecibe403ConSuDashboard(t *testing.T) {
	app := buildGuardApp(apphttp.AdminRoute(access.DefaultPolicy()))

	resp := doRequest(t, app, tokenFor(t, "customer", false))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	body := decodeError(t, resp)
	assert.Equal(t, "FORBIDDEN", body.Code)
	assert.Equal(t, "/customer/dashboard", body.Redirect)
}

func TestManagerRoute_AdminNoEsManager(t *testing.T) {
	app := buildGuardApp(apphttp.ManagerRoute(access.DefaultPolicy()))

	resp := doRequest(t, app, tokenFor(t, "admin", false))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "/admin/dashboard", decodeError(t, resp).Redirect)
}

func TestGuardas_SuperadminPasaCualquierGuarda(t *testing.T) {
	p := access.DefaultPolicy()
	for name, guard := range map[string]fiber.Handler{
		"admin":    apphttp.AdminRoute(p),
		"manager":  apphttp.ManagerRoute(p),
		"customer": apphttp.CustomerRoute(p),
	} {
		t.Run(name, func(t *testing.T) {
			resp := doRequest(t, buildGuardApp(guard), tokenFor(t, "", true))
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		})
	}
}

func TestCustomerRoute_SinRolUsaElRolPorDefecto(t *testing.T) {
	app := buildGuardApp(apphttp.CustomerRoute(access.DefaultPolicy()))

	resp := doRequest(t, app, tokenFor(t, "", false))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode, "sin rol resuelto se trata como customer")
}

func TestProtectedRoute_RolDesconocidoEnTokenNoEsAdmin(t *testing.T) {
	app := buildGuardApp(apphttp.AdminRoute(access.DefaultPolicy()))

	resp := doRequest(t, app, tokenFor(t, "root", false))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// OptionalAuth
// ──────────────────────────────────────────────────────────────────────────────

func TestOptionalAuth_SinTokenSesionAnonima(t *testing.T) {
	app := fiber.New()
	app.Get("/protected", apphttp.OptionalAuth(testJWTSecret), func(c *fiber.Ctx) error {
		s := apphttp.GetSession(c)
		return c.JSON(fiber.Map{"authenticated": s.Authenticated, "user_id": apphttp.GetUserID(c)})
	})

	for _, header := range []string{"", "Bearer basura"} {
		resp := doRequest(t, app, header)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		var out map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, false, out["authenticated"])
		assert.Equal(t, "", out["user_id"])
	}

	resp := doRequest(t, app, tokenFor(t, "manager", false))
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, true, out["authenticated"])
	assert.Equal(t, testUserID, out["user_id"])
}
