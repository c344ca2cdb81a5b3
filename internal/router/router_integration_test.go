//go:build integration

package router

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/xjoule42/quicksale-pos/internal/config"
	"github.com/xjoule42/quicksale-pos/internal/infra"
	"github.com/xjoule42/quicksale-pos/internal/model"
	"github.com/xjoule42/quicksale-pos/internal/repository"
	"github.com/xjoule42/quicksale-pos/internal/service"
	"github.com/xjoule42/quicksale-pos/internal/worker"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	rdr := body
	if rdr == nil {
		rdr = &bytes.Buffer{}
	}
	req, err := http.NewRequest(method, srv.URL+path, rdr)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func login(t *testing.T, srv *httptest.Server, email, password string) string {
	t.Helper()
	resp := do(t, srv, http.MethodPost, "/v1/auth/login",
		jsonBody(t, map[string]string{"email": email, "password": password}), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, resp, &body)
	require.NotEmpty(t, body.AccessToken)
	return body.AccessToken
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	admin  string // admin JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("quicksale_test"),
		tcPostgres.WithUsername("quicksale"),
		tcPostgres.WithPassword("quicksale"),
		testcontainers.WithWaitStrategy(tcPostgres.BasicWaitStrategies()...),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(context.Background()) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx, testcontainers.WithImage("redis:7-alpine"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(context.Background()) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Env:                  "test",
		JWTSecret:            "test-secret-key",
		JWTExpirationHours:   8,
		JWTRefreshHours:      24,
		DatabaseURL:          pgURL,
		RedisURL:             rdURL,
		CarritoTTLHoras:      1,
		StockBajoUmbral:      5,
		ConectividadSegundos: 30,
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL, true)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	hash, err := service.HashPassword("admin1234")
	require.NoError(t, err)
	require.NoError(t, repository.NewPerfilRepository(db).Create(ctx,
		&model.Perfil{Email: "admin@e2e.test", PasswordHash: hash}, model.RolAdministrador))

	monitor := infra.NewConectividad(time.Second, map[string]infra.Sonda{
		"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	})

	r := New(ctx, cfg, db, rdb, monitor, worker.NewDispatcher(rdb))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testEnv{server: srv, admin: login(t, srv, "admin@e2e.test", "admin1234")}
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_CheckoutCycle(t *testing.T) {
	env := setupTestEnv(t)
	srv := env.server

	// 1. Admin creates a cashier
	resp := do(t, srv, http.MethodPost, "/v1/usuarios", jsonBody(t, map[string]any{
		"email": "caja@e2e.test", "password": "vendedor123", "rol": "vendedor",
	}), env.admin)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	vendedor := login(t, srv, "caja@e2e.test", "vendedor123")

	// 2. Admin creates a product
	resp = do(t, srv, http.MethodPost, "/v1/productos", jsonBody(t, map[string]any{
		"nombre": "Café americano", "sku": "CAF-001", "categoria": "Bebidas", "precio": "3.50", "stock": 10,
	}), env.admin)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &prod)

	// 3. Public price check
	resp = do(t, srv, http.MethodGet, "/v1/precio/caf-001", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// 4. Cashier builds a cart with two units
	resp = do(t, srv, http.MethodPost, "/v1/carritos", nil, vendedor)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var carrito struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &carrito)

	for i := 0; i < 2; i++ {
		resp = do(t, srv, http.MethodPost, "/v1/carritos/"+carrito.ID+"/items",
			jsonBody(t, map[string]string{"producto_id": prod.ID}), vendedor)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	// Another user's cart is invisible
	resp = do(t, srv, http.MethodGet, "/v1/carritos/"+carrito.ID, nil, env.admin)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// 5. Checkout
	resp = do(t, srv, http.MethodPost, "/v1/carritos/"+carrito.ID+"/cobrar",
		jsonBody(t, map[string]string{"metodo_pago": "efectivo"}), vendedor)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var venta struct {
		NumeroTicket string          `json:"numero_ticket"`
		Total        decimal.Decimal `json:"total"`
		TicketTexto  string          `json:"ticket_texto"`
	}
	decodeJSON(t, resp, &venta)
	assert.NotEmpty(t, venta.NumeroTicket)
	assert.True(t, venta.Total.Equal(decimal.RequireFromString("8.12")), "total = %s", venta.Total)
	assert.Contains(t, venta.TicketTexto, "Café americano")

	// 6. Stock decremented, cart gone
	resp = do(t, srv, http.MethodGet, "/v1/productos/"+prod.ID, nil, vendedor)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var despues struct {
		Stock int `json:"stock"`
	}
	decodeJSON(t, resp, &despues)
	assert.Equal(t, 8, despues.Stock)

	resp = do(t, srv, http.MethodGet, "/v1/carritos/"+carrito.ID, nil, vendedor)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// 7. The sale is in the audit log
	resp = do(t, srv, http.MethodGet, "/v1/auditoria?busqueda="+venta.NumeroTicket, nil, env.admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var logs []struct {
		Accion string `json:"accion"`
	}
	decodeJSON(t, resp, &logs)
	require.NotEmpty(t, logs)
	assert.Equal(t, "venta_creada", logs[0].Accion)
}

func TestE2E_RoleGates(t *testing.T) {
	env := setupTestEnv(t)
	srv := env.server

	resp := do(t, srv, http.MethodPost, "/v1/usuarios", jsonBody(t, map[string]any{
		"email": "cliente@e2e.test", "password": "cliente123", "rol": "cliente",
	}), env.admin)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	clienteTok := login(t, srv, "cliente@e2e.test", "cliente123")

	resp = do(t, srv, http.MethodGet, "/v1/sesion", nil, clienteTok)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, srv, http.MethodGet, "/v1/productos", nil, clienteTok)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, srv, http.MethodGet, "/v1/configuracion", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// vendedor manages the catalog and stock but not the settings
	resp = do(t, srv, http.MethodPost, "/v1/usuarios", jsonBody(t, map[string]any{
		"email": "caja@e2e.test", "password": "vendedor123", "rol": "vendedor",
	}), env.admin)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	vendedor := login(t, srv, "caja@e2e.test", "vendedor123")

	resp = do(t, srv, http.MethodPost, "/v1/productos", jsonBody(t, map[string]any{
		"nombre": "Té verde", "sku": "TE-001", "precio": "2.00", "stock": 4,
	}), vendedor)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &prod)

	resp = do(t, srv, http.MethodPost, "/v1/inventario/ajustes", jsonBody(t, map[string]any{
		"producto_id": prod.ID, "delta": 6,
	}), vendedor)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, srv, http.MethodPut, "/v1/configuracion", jsonBody(t, map[string]any{
		"nombre_negocio": "Otra",
	}), vendedor)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestE2E_Health(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		OK       bool              `json:"ok"`
		Checks   map[string]string `json:"checks"`
		DLQEmail int64             `json:"dlq_email"`
	}
	decodeJSON(t, resp, &body)
	assert.True(t, body.OK)
	assert.Equal(t, "ok", body.Checks["redis"])
	assert.Zero(t, body.DLQEmail)
}
