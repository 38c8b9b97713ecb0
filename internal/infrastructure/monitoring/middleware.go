package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/Workspace/backend/internal/shared/fserr"
)

// Middleware creates a Gin middleware for metrics collection
func Middleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		// Route template keeps label cardinality bounded
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPRequest(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

// Timer measures command duration
type Timer struct {
	start   time.Time
	metrics *Metrics
	tool    string
}

// NewTimer creates a new timer
func NewTimer(metrics *Metrics, tool string) *Timer {
	return &Timer{
		start:   time.Now(),
		metrics: metrics,
		tool:    tool,
	}
}

// Stop records the duration and the error kind of err, if any
func (t *Timer) Stop(err error) {
	t.StopKind(string(fserr.KindOf(err)))
}

// StopKind records the duration with an explicit failure kind; "" is success
func (t *Timer) StopKind(kind string) {
	if t.metrics == nil {
		return
	}
	t.metrics.RecordCommand(t.tool, kind, time.Since(t.start))
}
