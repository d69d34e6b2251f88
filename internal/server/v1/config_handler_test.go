package v1_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nulzo/app-config-api/internal/core/domain"
	"github.com/nulzo/app-config-api/internal/core/ports"
	"github.com/nulzo/app-config-api/internal/server/middleware"
	v1 "github.com/nulzo/app-config-api/internal/server/v1"
)

// countingProvider records how often the handler read the settings.
type countingProvider struct {
	settings domain.Settings
	reads    atomic.Int64
}

func (p *countingProvider) Settings() domain.Settings {
	p.reads.Add(1)
	return p.settings
}

func setupEngine(p ports.SettingsProvider) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	engine.Use(middleware.ErrorHandler(zap.NewNop()))
	engine.NoMethod(middleware.NoMethod())

	v1.NewConfigHandler(p).RegisterRoutes(engine)
	return engine
}

func get(engine http.Handler, method string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, "/", strings.NewReader(`{"ignored":true}`))
	engine.ServeHTTP(w, req)
	return w
}

func TestConfigHandler_Empty(t *testing.T) {
	engine := setupEngine(ports.StaticSettings(domain.NewSettings(nil)))

	w := get(engine, http.MethodGet)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "{}", w.Body.String())
}

func TestConfigHandler_Values(t *testing.T) {
	engine := setupEngine(ports.StaticSettings(domain.NewSettings(map[string]any{
		"env":  "production",
		"port": 8080,
	})))

	w := get(engine, http.MethodGet)
	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, map[string]any{"env": "production", "port": float64(8080)}, got)
}

func TestConfigHandler_Idempotent(t *testing.T) {
	engine := setupEngine(ports.StaticSettings(domain.NewSettings(map[string]any{
		"name":    "shop",
		"regions": []any{"eu", "us"},
		"limits":  map[string]any{"cart": 50},
	})))

	first := get(engine, http.MethodGet).Body.String()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, get(engine, http.MethodGet).Body.String())
	}
}

func TestConfigHandler_Concurrent(t *testing.T) {
	engine := setupEngine(ports.StaticSettings(domain.NewSettings(map[string]any{"env": "production"})))

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := get(engine, http.MethodGet)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, `{"env":"production"}`, w.Body.String())
		}()
	}
	wg.Wait()
}

func TestConfigHandler_UnencodableIs500(t *testing.T) {
	cyclic := map[string]any{"env": "production"}
	cyclic["self"] = cyclic

	for name, values := range map[string]map[string]any{
		"cycle":    cyclic,
		"function": {"hook": func() {}},
	} {
		t.Run(name, func(t *testing.T) {
			engine := setupEngine(ports.StaticSettings(domain.NewSettings(values)))

			w := get(engine, http.MethodGet)

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
			assert.NotContains(t, w.Body.String(), "production")

			var problem map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
			assert.Equal(t, float64(500), problem["status"])
		})
	}
}

func TestConfigHandler_OtherMethodsNotHandled(t *testing.T) {
	p := &countingProvider{settings: domain.NewSettings(map[string]any{"env": "production"})}
	engine := setupEngine(p)

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch} {
		w := get(engine, method)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, method)
	}
	assert.Equal(t, int64(0), p.reads.Load())

	get(engine, http.MethodGet)
	assert.Equal(t, int64(1), p.reads.Load())
}

func TestConfigHandler_MountedOnGroup(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	v1.NewConfigHandler(ports.StaticSettings(domain.NewSettings(map[string]any{"a": 1}))).
		RegisterRoutes(engine.Group("/config"))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/config/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"a":1}`, w.Body.String())
}

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/health", v1.NewHealthHandler("1.2.3").Health)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "1.2.3", body["version"])
}
