package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Caiquefelipe/minimal-api/internal/core/domain"
	"github.com/Caiquefelipe/minimal-api/internal/core/service"
	"github.com/Caiquefelipe/minimal-api/internal/core/token"
	"github.com/Caiquefelipe/minimal-api/internal/core/validation"
	"github.com/Caiquefelipe/minimal-api/internal/infrastructure/db/sqldb"
	"github.com/Caiquefelipe/minimal-api/internal/infrastructure/http/handlers"
)

const (
	adminEmail    = "administrador@teste.com"
	adminPassword = "123456"
)

type testAPI struct {
	e      *echo.Echo
	issuer *token.Issuer
}

func newTestAPI(t *testing.T, loginPerMinute float64, loginBurst int) *testAPI {
	t.Helper()
	ctx := context.Background()

	store, err := sqldb.Open(ctx, sqldb.SQLite, "file:"+filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(ctx))

	issuer := token.NewIssuer("router-test-key")
	admins := service.NewAdministratorService(store.Administrators(), issuer, zerolog.Nop())
	vehicles := service.NewVehicleService(store.Vehicles(), nil, zerolog.Nop())

	created, err := admins.Bootstrap(ctx, adminEmail, adminPassword)
	require.NoError(t, err)
	require.True(t, created)

	reg := prometheus.NewRegistry()
	e := NewRouter(Options{
		Administrators:     admins,
		Vehicles:           vehicles,
		Tokens:             issuer,
		Logger:             zerolog.Nop(),
		ReadinessChecks:    map[string]handlers.Check{"database": store.Ping},
		LoginRatePerMinute: loginPerMinute,
		LoginRateBurst:     loginBurst,
		Registerer:         reg,
		Gatherer:           reg,
	})
	return &testAPI{e: e, issuer: issuer}
}

func (a *testAPI) token(t *testing.T, role domain.Role) string {
	t.Helper()
	signed, err := a.issuer.Issue(domain.Claims{Email: strings.ToLower(role.String()) + "@teste.com", Role: role})
	require.NoError(t, err)
	return signed
}

func (a *testAPI) do(method, path, body, bearer string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHome(t *testing.T) {
	a := newTestAPI(t, 0, 0)

	rec := a.do(http.MethodGet, "/", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "/swagger/index.html", body["doc"])
	assert.NotEmpty(t, body["mensagem"])
}

func TestCreateVehicle_EditorGetsCreated(t *testing.T) {
	a := newTestAPI(t, 0, 0)

	rec := a.do(http.MethodPost, "/veiculos", `{"nome":"Civic","marca":"Honda","ano":2020}`, a.token(t, domain.RoleEditor))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode[map[string]any](t, rec)
	id, ok := body["id"].(float64)
	require.True(t, ok, "body must carry the assigned id")
	assert.Positive(t, id)
	assert.Equal(t, fmt.Sprintf("/veiculos/%d", int64(id)), rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, "Civic", body["nome"])
	assert.Equal(t, "Honda", body["marca"])
	assert.EqualValues(t, 2020, body["ano"])
}

func TestCreateVehicle_EmptyNameIsSingleMessage(t *testing.T) {
	a := newTestAPI(t, 0, 0)

	rec := a.do(http.MethodPost, "/veiculos", `{"nome":"","marca":"Honda","ano":2020}`, a.token(t, domain.RoleEditor))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[validation.Failed](t, rec)
	assert.Equal(t, []string{validation.MsgNameRequired}, body.Messages)
}

func TestCreateVehicle_ValidationRunsBeforeAuthorization(t *testing.T) {
	a := newTestAPI(t, 0, 0)

	invalid := `{"nome":"","marca":"","ano":1900}`
	rec := a.do(http.MethodPost, "/veiculos", invalid, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[validation.Failed](t, rec)
	assert.Equal(t, []string{validation.MsgNameRequired, validation.MsgBrandRequired, validation.MsgYearTooOld}, body.Messages)

	valid := `{"nome":"Civic","marca":"Honda","ano":2020}`
	rec = a.do(http.MethodPost, "/veiculos", valid, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
}

func TestCreateVehicle_MalformedJSON(t *testing.T) {
	a := newTestAPI(t, 0, 0)

	rec := a.do(http.MethodPost, "/veiculos", `{"nome":`, a.token(t, domain.RoleAdmin))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "invalid payload", body["error"])
}

func TestGetVehicle_NotFound(t *testing.T) {
	a := newTestAPI(t, 0, 0)

	rec := a.do(http.MethodGet, "/veiculos/999", "", a.token(t, domain.RoleAdmin))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetVehicle_InvalidID(t *testing.T) {
	a := newTestAPI(t, 0, 0)

	for _, id := range []string{"abc", "0", "-3"} {
		rec := a.do(http.MethodGet, "/veiculos/"+id, "", a.token(t, domain.RoleAdmin))
		assert.Equal(t, http.StatusBadRequest, rec.Code, id)
	}
}

func TestVehicleLifecycle(t *testing.T) {
	a := newTestAPI(t, 0, 0)
	admin := a.token(t, domain.RoleAdmin)
	editor := a.token(t, domain.RoleEditor)

	rec := a.do(http.MethodPost, "/veiculos", `{"nome":"Civic","marca":"Honda","ano":2020}`, admin)
	require.Equal(t, http.StatusCreated, rec.Code)
	location := rec.Header().Get(echo.HeaderLocation)

	// Editors may read a single record.
	rec = a.do(http.MethodGet, location, "", editor)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[map[string]any](t, rec)
	assert.Equal(t, "Civic", got["nome"])

	rec = a.do(http.MethodPut, location, `{"nome":"Civic Si","marca":"Honda","ano":2022}`, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got = decode[map[string]any](t, rec)
	assert.Equal(t, "Civic Si", got["nome"])
	assert.EqualValues(t, 2022, got["ano"])

	rec = a.do(http.MethodPut, location, `{"nome":"","marca":"Honda","ano":2022}`, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodPut, "/veiculos/999", `{"nome":"Civic","marca":"Honda","ano":2022}`, admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(http.MethodDelete, location, "", admin)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = a.do(http.MethodDelete, location, "", admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(http.MethodGet, location, "", admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListVehicles_PagingAndFilters(t *testing.T) {
	a := newTestAPI(t, 0, 0)
	admin := a.token(t, domain.RoleAdmin)

	for i := 1; i <= 12; i++ {
		brand := "Honda"
		if i%2 == 0 {
			brand = "Fiat"
		}
		body := fmt.Sprintf(`{"nome":"Carro %d","marca":"%s","ano":2000}`, i, brand)
		require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/veiculos", body, admin).Code)
	}

	rec := a.do(http.MethodGet, "/veiculos", "", admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 12)

	rec = a.do(http.MethodGet, "/veiculos?pagina=1", "", admin)
	assert.Len(t, decode[[]map[string]any](t, rec), 10)

	rec = a.do(http.MethodGet, "/veiculos?pagina=2", "", admin)
	assert.Len(t, decode[[]map[string]any](t, rec), 2)

	rec = a.do(http.MethodGet, "/veiculos?marca=fiat", "", admin)
	assert.Len(t, decode[[]map[string]any](t, rec), 6)

	rec = a.do(http.MethodGet, "/veiculos?pagina=0", "", admin)
	assert.Len(t, decode[[]map[string]any](t, rec), 12)

	rec = a.do(http.MethodGet, "/veiculos?pagina=-1", "", admin)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	failed := decode[validation.Failed](t, rec)
	assert.Equal(t, []string{"pagina deve ser maior ou igual a 0"}, failed.Messages)

	rec = a.do(http.MethodGet, "/veiculos?pagina=x", "", admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListVehicles_AccentedNameFilter(t *testing.T) {
	a := newTestAPI(t, 0, 0)
	admin := a.token(t, domain.RoleAdmin)

	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/veiculos", `{"nome":"Ônix","marca":"Chevrolet","ano":2019}`, admin).Code)

	for _, q := range []string{"%C3%94nix", "%C3%B4nix"} {
		rec := a.do(http.MethodGet, "/veiculos?nome="+q, "", admin)
		require.Equal(t, http.StatusOK, rec.Code)
		list := decode[[]map[string]any](t, rec)
		require.Len(t, list, 1, q)
		assert.Equal(t, "Ônix", list[0]["nome"])
	}
}

func TestRoleGates(t *testing.T) {
	a := newTestAPI(t, 0, 0)
	editor := a.token(t, domain.RoleEditor)

	cases := []struct {
		method, path, body string
	}{
		{http.MethodGet, "/veiculos", ""},
		{http.MethodPut, "/veiculos/1", `{"nome":"Civic","marca":"Honda","ano":2020}`},
		{http.MethodDelete, "/veiculos/1", ""},
		{http.MethodGet, "/administradores", ""},
		{http.MethodGet, "/administradores/1", ""},
		{http.MethodPost, "/administradores", `{"email":"novo@teste.com","senha":"x","perfil":"Editor"}`},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := a.do(tc.method, tc.path, tc.body, editor)
			assert.Equal(t, http.StatusForbidden, rec.Code)

			rec = a.do(tc.method, tc.path, tc.body, "")
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
		})
	}
}

func TestInvalidTokenIsUnauthenticated(t *testing.T) {
	a := newTestAPI(t, 0, 0)
	forged, err := token.NewIssuer("other-key").Issue(domain.Claims{Email: "x@teste.com", Role: domain.RoleAdmin})
	require.NoError(t, err)

	rec := a.do(http.MethodGet, "/veiculos/1", "", forged)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin(t *testing.T) {
	a := newTestAPI(t, 0, 0)

	rec := a.do(http.MethodPost, "/administradores/login",
		fmt.Sprintf(`{"email":%q,"senha":%q}`, adminEmail, adminPassword), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[map[string]string](t, rec)
	assert.Equal(t, adminEmail, body["email"])
	assert.Equal(t, "Adm", body["perfil"])
	require.NotEmpty(t, body["token"])

	// The issued token opens admin-only routes.
	rec = a.do(http.MethodGet, "/administradores", "", body["token"])
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]map[string]any](t, rec)
	require.Len(t, list, 1)
	assert.NotContains(t, list[0], "senha")

	rec = a.do(http.MethodPost, "/administradores/login",
		fmt.Sprintf(`{"email":%q,"senha":"wrong"}`, adminEmail), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Header().Get(echo.HeaderWWWAuthenticate))
}

func TestLogin_RateLimited(t *testing.T) {
	a := newTestAPI(t, 1, 1)
	body := `{"email":"nobody@teste.com","senha":"x"}`

	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodPost, "/administradores/login", body, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, a.do(http.MethodPost, "/administradores/login", body, "").Code)
}

func TestCreateAdministrator(t *testing.T) {
	a := newTestAPI(t, 0, 0)
	admin := a.token(t, domain.RoleAdmin)

	rec := a.do(http.MethodPost, "/administradores", `{"email":"editor@teste.com","senha":"abc","perfil":"editor"}`, admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "Editor", body["perfil"])
	assert.NotContains(t, body, "senha")
	location := rec.Header().Get(echo.HeaderLocation)
	assert.Equal(t, fmt.Sprintf("/administradores/%d", int64(body["id"].(float64))), location)

	rec = a.do(http.MethodGet, location, "", admin)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(http.MethodPost, "/administradores", `{"email":"editor@teste.com","senha":"abc","perfil":"Editor"}`, admin)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = a.do(http.MethodPost, "/administradores", `{"email":"","senha":"","perfil":null}`, admin)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	failed := decode[validation.Failed](t, rec)
	assert.Equal(t, []string{validation.MsgEmailRequired, validation.MsgPasswordRequired, validation.MsgRoleRequired}, failed.Messages)

	rec = a.do(http.MethodGet, "/administradores/999", "", admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Any non-empty identity is accepted; it need not be an email.
	rec = a.do(http.MethodPost, "/administradores", `{"email":"operador","senha":"123","perfil":"Editor"}`, admin)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestCreateAdministrator_PasswordOverBcryptLimit(t *testing.T) {
	a := newTestAPI(t, 0, 0)

	body := fmt.Sprintf(`{"email":"longo@teste.com","senha":%q,"perfil":"Editor"}`, strings.Repeat("a", 80))
	rec := a.do(http.MethodPost, "/administradores", body, a.token(t, domain.RoleAdmin))

	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	failed := decode[validation.Failed](t, rec)
	assert.Equal(t, []string{validation.MsgPasswordTooLong}, failed.Messages)
}

func TestPathsAreCaseInsensitive(t *testing.T) {
	a := newTestAPI(t, 0, 0)

	rec := a.do(http.MethodPost, "/Veiculos", `{"nome":"Civic","marca":"Honda","ano":2020}`, a.token(t, domain.RoleEditor))
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = a.do(http.MethodGet, "/ADMINISTRADORES/", "", a.token(t, domain.RoleAdmin))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOperationalEndpoints(t *testing.T) {
	a := newTestAPI(t, 0, 0)

	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/health", "", "").Code)
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/health/ready", "", "").Code)

	a.do(http.MethodGet, "/", "", "")
	rec := a.do(http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "minimal_api_http_requests_total")
}

func TestEveryRouteHasAPolicy(t *testing.T) {
	a := newTestAPI(t, 0, 0)

	registered := map[string]bool{}
	for _, r := range a.e.Routes() {
		key := r.Method + " " + r.Path
		registered[key] = true
		_, ok := endpointPolicies[key]
		assert.True(t, ok, "route %s has no policy", key)
	}
	for key := range endpointPolicies {
		assert.True(t, registered[key], "policy %s has no route", key)
	}
}

func TestAddPanicsWithoutPolicy(t *testing.T) {
	r := &routes{e: echo.New()}

	assert.PanicsWithValue(t, "api: no access policy declared for PATCH /veiculos/:id", func() {
		r.add(http.MethodPatch, "/veiculos/:id", func(c echo.Context) error { return nil })
	})
}

func TestSwaggerDocumentCoversRoutes(t *testing.T) {
	a := newTestAPI(t, 0, 0)

	rec := a.do(http.MethodGet, "/swagger/doc.json", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var doc struct {
		Paths               map[string]map[string]json.RawMessage `json:"paths"`
		SecurityDefinitions map[string]json.RawMessage            `json:"securityDefinitions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Contains(t, doc.SecurityDefinitions, "BearerAuth")

	for key := range endpointPolicies {
		method, path, _ := strings.Cut(key, " ")
		if path == "/metrics" || path == "/swagger/*" {
			continue
		}
		path = strings.ReplaceAll(path, ":id", "{id}")
		assert.Contains(t, doc.Paths[path], strings.ToLower(method), "undocumented route %s", key)
	}
}
