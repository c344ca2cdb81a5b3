package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

const secreto = "secreto-de-prueba"

func firmar(t *testing.T, claims JWTClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secreto))
	require.NoError(t, err)
	return tok
}

func claimsValidos(rol, tipo string) JWTClaims {
	return JWTClaims{
		UserID: "5f1f3c5e-0b64-4a53-9a0e-6b3f0cf1d2a1",
		Email:  "caja@tienda.mx",
		Rol:    rol,
		Tipo:   tipo,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func servidor() *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/admin", JWTAuth(secreto), RequireRole("administrador"), func(c *gin.Context) {
		c.String(http.StatusOK, GetClaims(c).Email)
	})
	return r
}

func llamar(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthYRoles(t *testing.T) {
	r := servidor()

	w := llamar(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	w = llamar(r, firmar(t, claimsValidos("administrador", "refresh")))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = llamar(r, firmar(t, claimsValidos("vendedor", "access")))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"detail":"Permisos insuficientes"}`, w.Body.String())

	w = llamar(r, firmar(t, claimsValidos("administrador", "access")))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "caja@tienda.mx", w.Body.String())
}

func TestRequestIDSeRespeta(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestLimitador(t *testing.T) {
	ahora := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	l := NewLimitador(2, time.Minute, "basta")
	l.now = func() time.Time { return ahora }

	r := gin.New()
	r.GET("/", l.Handler(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	pedir := func() int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		return w.Code
	}

	assert.Equal(t, http.StatusNoContent, pedir())
	assert.Equal(t, http.StatusNoContent, pedir())
	assert.Equal(t, http.StatusTooManyRequests, pedir())

	assert.Equal(t, 0, l.Purgar())
	ahora = ahora.Add(2 * time.Minute)
	assert.Equal(t, 1, l.Purgar())
	assert.Equal(t, http.StatusNoContent, pedir())
}

func TestRecoveryNoFiltraDetalles(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Recovery(), ErrorHandler())
	r.GET("/panic", func(*gin.Context) { panic("pq: relation \"products\" does not exist") })
	r.GET("/error", func(c *gin.Context) { _ = c.Error(assert.AnError) })

	for _, ruta := range []string{"/panic", "/error"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, ruta, nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code, ruta)
		assert.JSONEq(t, `{"detail":"Error interno del servidor"}`, w.Body.String(), ruta)
	}
}

func TestCORS(t *testing.T) {
	preflight := func(origenes, origen string) *httptest.ResponseRecorder {
		r := gin.New()
		r.Use(CORS(origenes))
		r.GET("/v1/productos", func(c *gin.Context) { c.Status(http.StatusOK) })
		req := httptest.NewRequest(http.MethodOptions, "/v1/productos", nil)
		req.Header.Set("Origin", origen)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("cualquier origen", func(t *testing.T) {
		w := preflight("*", "https://caja.tienda.mx")
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")
	})

	t.Run("lista permitida", func(t *testing.T) {
		w := preflight("https://caja.tienda.mx/, https://admin.tienda.mx", "https://caja.tienda.mx")
		assert.Equal(t, "https://caja.tienda.mx", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "Origin", w.Header().Get("Vary"))
	})

	t.Run("origen no permitido", func(t *testing.T) {
		w := preflight("https://caja.tienda.mx", "https://otro.com")
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}
