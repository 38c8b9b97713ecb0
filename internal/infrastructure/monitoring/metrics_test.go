package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/Workspace/backend/internal/shared/fserr"
)

func TestNewMetricsIsolatedRegistries(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()

	a.RecordSearch(3)
	assert.Equal(t, 1, testutil.CollectAndCount(a.SearchMatches))
	assert.Equal(t, 1, testutil.CollectAndCount(b.SearchMatches))
}

func TestRecordCommand(t *testing.T) {
	m := NewMetrics()

	m.RecordCommand("filesystem.rename_fs", "", time.Millisecond)
	m.RecordCommand("filesystem.rename_fs", "already_exists", time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CommandCalls.WithLabelValues("filesystem.rename_fs", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CommandCalls.WithLabelValues("filesystem.rename_fs", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CommandErrors.WithLabelValues("filesystem.rename_fs", "already_exists")))
}

func TestTimerStop(t *testing.T) {
	m := NewMetrics()

	NewTimer(m, "filesystem.delete_file").Stop(fserr.New(fserr.NotFound, "delete_file", "/x", nil))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CommandErrors.WithLabelValues("filesystem.delete_file", "not_found")))

	// nil metrics is a no-op
	NewTimer(nil, "x").Stop(nil)
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()

	router := gin.New()
	router.Use(Middleware(m))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/metrics", gin.WrapH(m.Handler()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/health", "200")))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "workspace_http_requests_total")
}
