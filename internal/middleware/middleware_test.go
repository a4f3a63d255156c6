package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-secret"

func init() { gin.SetMode(gin.TestMode) }

func signToken(t *testing.T, secret string, accesos []string, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id":  7,
		"username": "jperez",
		"rol":      "Vendedor",
		"accesos":  accesos,
		"exp":      exp.Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func protegido(modulo string) *gin.Engine {
	r := gin.New()
	r.GET("/x", JWTAuth(testSecret), RequireAcceso(modulo), func(c *gin.Context) {
		cl := GetClaims(c)
		c.JSON(http.StatusOK, gin.H{"user_id": cl.UserID, "username": cl.Username})
	})
	return r
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	r := protegido("VENTAS")

	w := get(r, "/x", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Autenticación requerida"}`, w.Body.String())

	w = get(r, "/x", signToken(t, "otro-secreto", []string{"VENTAS"}, time.Now().Add(time.Hour)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(r, "/x", signToken(t, testSecret, []string{"VENTAS"}, time.Now().Add(-time.Minute)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(r, "/x", signToken(t, testSecret, []string{"VENTAS"}, time.Now().Add(time.Hour)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":7,"username":"jperez"}`, w.Body.String())
}

func TestJWTAuth_Esquema(t *testing.T) {
	r := protegido("VENTAS")
	tok := signToken(t, testSecret, []string{"VENTAS"}, time.Now().Add(time.Hour))

	for header, want := range map[string]int{
		"bearer " + tok: http.StatusOK,
		"Token " + tok:  http.StatusUnauthorized,
		"Bearer ":       http.StatusUnauthorized,
	} {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, header)
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"user_id": 1, "accesos": []string{"VENTAS"}, "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/x", none).Code)
}

func TestRequireAcceso_SinModulo(t *testing.T) {
	r := protegido("USUARIOS")
	w := get(r, "/x", signToken(t, testSecret, []string{"VENTAS", "CLIENTES"}, time.Now().Add(time.Hour)))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"Permisos insuficientes"}`, w.Body.String())
}

func TestRateLimiter_VentanaFija(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	rl := NewLoginRateLimiter()
	rl.now = func() time.Time { return now }

	r := gin.New()
	r.POST("/login", rl.Handler(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	post := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = ip + ":5000"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < 20; i++ {
		require.Equal(t, http.StatusNoContent, post("10.0.0.1"), "attempt %d", i+1)
	}
	assert.Equal(t, http.StatusTooManyRequests, post("10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, post("10.0.0.2"), "other IPs are unaffected")

	now = now.Add(time.Minute + time.Second)
	assert.Equal(t, http.StatusNoContent, post("10.0.0.1"))

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 2, rl.purge())
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	w := get(r, "/x", "")
	id := w.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.POST("/x", BodyLimit(16), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(strings.Repeat("a", 32)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.JSONEq(t, `{"error":"Imagen demasiado grande"}`, w.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("ok"))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/x", func(c *gin.Context) { panic("boom") })

	w := get(r, "/x", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Error interno del servidor"}`, w.Body.String())
}
