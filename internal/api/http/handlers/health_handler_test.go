package handlers

import (
	"encoding/json"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jansankalp/grievance-service/internal/config"
	"github.com/jansankalp/grievance-service/internal/persistence"
)

func decodeBody(t *testing.T, resp *stdhttp.Response) map[string]any {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(body, &payload))
	return payload
}

func TestLiveReportsServiceIdentity(t *testing.T) {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler := NewHealthHandler("grievance-service", "1.4.0", &persistence.Postgres{}, &persistence.Redis{}, config.AIConfig{})
	app.Get("/health/live", handler.Live)

	resp, err := app.Test(httptest.NewRequest(stdhttp.MethodGet, "/health/live", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, stdhttp.StatusOK, resp.StatusCode)
	payload := decodeBody(t, resp)
	assert.Equal(t, "alive", payload["status"])
	assert.Equal(t, "grievance-service", payload["service"])
	assert.Equal(t, "1.4.0", payload["version"])
}

func TestReadyUnavailableWhenStoresUnreachable(t *testing.T) {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler := NewHealthHandler("grievance-service", "dev", &persistence.Postgres{}, &persistence.Redis{}, config.AIConfig{
		ClassifierURL: "http://classifier.internal/classify",
		VerifierURL:   "http://verifier.internal/verify",
	})
	app.Get("/health/ready", handler.Ready)

	resp, err := app.Test(httptest.NewRequest(stdhttp.MethodGet, "/health/ready", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, stdhttp.StatusServiceUnavailable, resp.StatusCode)

	payload := decodeBody(t, resp)
	errObj, ok := payload["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "DEPENDENCY_UNAVAILABLE", errObj["code"])

	details, ok := errObj["details"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, details, "postgres")
	assert.Contains(t, details, "redis")

	// AI providers are reported for operators but never gate readiness.
	aiStatus, ok := details["ai"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "configured", aiStatus["classifier"])
	assert.Equal(t, "not configured", aiStatus["fallback"])
	assert.Equal(t, "configured", aiStatus["verifier"])
}
