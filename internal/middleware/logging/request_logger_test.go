package loggingmw

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	ecM "github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/ecommerce_api/internal/logging"
)

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m), sc.Text())
		out = append(out, m)
	}
	return out
}

func newEcho(buf *bytes.Buffer) *echo.Echo {
	e := echo.New()
	e.Use(ecM.RequestID(), RequestLogger(logging.NewWithWriter(buf, "info")))
	e.GET("/items/:id", func(c echo.Context) error {
		logging.FromContext(c.Request().Context()).Info("handler_called")
		return c.NoContent(http.StatusCreated)
	})
	e.GET("/missing", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	})
	return e
}

func TestRequestLogger_LogsRequestIDAndStatus(t *testing.T) {
	var buf bytes.Buffer
	e := newEcho(&buf)

	req := httptest.NewRequest(http.MethodGet, "/items/42", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "req-123", rec.Header().Get(echo.HeaderXRequestID))

	lines := logLines(t, &buf)
	require.Len(t, lines, 2)

	handler, done := lines[0], lines[1]
	assert.Equal(t, "handler_called", handler["msg"])
	assert.Equal(t, "req-123", handler["request_id"])

	assert.Equal(t, "request completed", done["msg"])
	assert.Equal(t, "INFO", done["level"])
	assert.Equal(t, "req-123", done["request_id"])
	assert.Equal(t, float64(http.StatusCreated), done["status"])
	assert.Equal(t, "/items/:id", done["path"])
	assert.Equal(t, "/items/42", done["url"])
}

func TestRequestLogger_GeneratedRequestIDAndErrorStatus(t *testing.T) {
	var buf bytes.Buffer
	e := newEcho(&buf)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	rid := rec.Header().Get(echo.HeaderXRequestID)
	require.NotEmpty(t, rid)

	lines := logLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "WARN", lines[0]["level"])
	assert.Equal(t, rid, lines[0]["request_id"])
	assert.Equal(t, float64(http.StatusNotFound), lines[0]["status"])
}
