package http

import (
	"encoding/json"
	"errors"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jansankalp/grievance-service/internal/observability"
	apperrors "github.com/jansankalp/grievance-service/pkg/util"
)

func newMiddlewareApp(t *testing.T) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 5*time.Second)
	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return apperrors.NewNotFound("report", nil)
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		panic("unexpected")
	})
	app.Get("/opaque", func(c *fiber.Ctx) error {
		return errors.New("driver hiccup")
	})
	return app
}

func errorCode(t *testing.T, resp *stdhttp.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope.Error.Code
}

func TestRequestIDAssignedAndEchoed(t *testing.T) {
	app := newMiddlewareApp(t)

	resp, err := app.Test(httptest.NewRequest(stdhttp.MethodGet, "/ok", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, stdhttp.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestRequestIDFromUpstreamPreserved(t *testing.T) {
	app := newMiddlewareApp(t)

	req := httptest.NewRequest(stdhttp.MethodGet, "/ok", nil)
	req.Header.Set("X-Request-Id", "edge-proxy-42")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "edge-proxy-42", resp.Header.Get("X-Request-Id"))
}

func TestDomainErrorRenderedAsEnvelope(t *testing.T) {
	app := newMiddlewareApp(t)

	resp, err := app.Test(httptest.NewRequest(stdhttp.MethodGet, "/missing", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, stdhttp.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, resp))
}

func TestPanicRecoveredAsInternalError(t *testing.T) {
	app := newMiddlewareApp(t)

	resp, err := app.Test(httptest.NewRequest(stdhttp.MethodGet, "/boom", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, stdhttp.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "INTERNAL_ERROR", errorCode(t, resp))
}

func TestOpaqueErrorMappedToInternal(t *testing.T) {
	app := newMiddlewareApp(t)

	resp, err := app.Test(httptest.NewRequest(stdhttp.MethodGet, "/opaque", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, stdhttp.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "INTERNAL_ERROR", errorCode(t, resp))
}
