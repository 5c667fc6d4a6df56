package logging_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/vat-invoice/internal/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(&buf, "json", "info")

	logger.Debug().Msg("hidden")
	logger.Info().Str("stage", "render").Msg("done")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var event map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &event))
	assert.Equal(t, "info", event["level"])
	assert.Equal(t, "render", event["stage"])
	assert.Equal(t, "done", event["message"])
	assert.Contains(t, event, "time")
}

func TestNewLogger_Console(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(&buf, "console", "debug")

	logger.Debug().Msg("rendered")

	assert.Contains(t, buf.String(), "rendered")
	assert.Contains(t, buf.String(), "DBG")
}

func TestNewLogger_BadLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(&buf, "", "loud")

	logger.Debug().Msg("hidden")
	assert.Empty(t, buf.String())

	logger.Info().Msg("shown")
	assert.NotEmpty(t, buf.String())
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	router := gin.New()
	router.Use(logging.RequestLogger(logging.NewLogger(&buf, "json", "info")))
	router.GET("/health/:check", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	var event map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &event))
	assert.Equal(t, "http_request", event["message"])
	assert.Equal(t, "GET", event["method"])
	assert.Equal(t, "/health/:check", event["route"])
	assert.Equal(t, "/health/live", event["path"])
	assert.Equal(t, float64(200), event["status"])
	assert.Equal(t, float64(2), event["bytes"])
}
