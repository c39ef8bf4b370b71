package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(buf *bytes.Buffer) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestID())
	router.Use(Logging(slog.New(slog.NewJSONHandler(buf, nil))))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	router.GET("/broken", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	return router
}

func TestLogging(t *testing.T) {
	tests := []struct {
		path   string
		status int
		level  string
	}{
		{"/ok", http.StatusOK, "INFO"},
		{"/missing", http.StatusNotFound, "WARN"},
		{"/broken", http.StatusInternalServerError, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var buf bytes.Buffer
			router := newTestRouter(&buf)

			req := httptest.NewRequest(http.MethodGet, tt.path+"?q=1", nil)
			req.Header.Set(RequestIDHeader, "req-123")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, tt.status, w.Code)
			assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))

			var entry map[string]interface{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), buf.String())
			assert.Equal(t, tt.level, entry["level"])
			assert.Equal(t, "HTTP request processed", entry["msg"])
			assert.Equal(t, float64(tt.status), entry["status"])
			assert.Equal(t, http.MethodGet, entry["method"])
			assert.Equal(t, tt.path, entry["path"])
			assert.Equal(t, "q=1", entry["query"])
			assert.Equal(t, "req-123", entry["request_id"])
		})
	}
}

func TestRequestIDGenerated(t *testing.T) {
	var buf bytes.Buffer
	router := newTestRouter(&buf)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	id := w.Header().Get(RequestIDHeader)
	require.NotEmpty(t, id)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), buf.String())
	assert.Equal(t, id, entry["request_id"])
}
