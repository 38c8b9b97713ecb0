package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/Workspace/backend/internal/api/middleware"
	"github.com/GriffinCanCode/Workspace/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/Workspace/backend/internal/service"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/types"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/utils"
)

const defaultDiscoverLimit = 5

// Handlers contains all HTTP handlers
type Handlers struct {
	registry *service.Registry
	logger   *logging.Logger
	version  string
}

// NewHandlers creates a new handler set
func NewHandlers(registry *service.Registry, logger *logging.Logger, version string) *Handlers {
	return &Handlers{
		registry: registry,
		logger:   logger.Component("handlers"),
		version:  version,
	}
}

// Root handles the liveness probe
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "workspace-backend",
		"version": h.version,
	})
}

// Health reports registry state
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"version":  h.version,
		"registry": h.registry.Stats(),
	})
}

// ListServices lists registered services, optionally by category
func (h *Handlers) ListServices(c *gin.Context) {
	var category *types.Category
	if raw := c.Query("category"); raw != "" {
		cat := types.Category(raw)
		if !cat.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category: " + raw})
			return
		}
		category = &cat
	}

	c.JSON(http.StatusOK, gin.H{
		"services": h.registry.List(category),
		"stats":    h.registry.Stats(),
	})
}

// DiscoverServices finds services matching a free-text query
func (h *Handlers) DiscoverServices(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q parameter required"})
		return
	}

	limit := defaultDiscoverLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	c.JSON(http.StatusOK, gin.H{
		"query":    query,
		"services": h.registry.Discover(query, limit),
	})
}

// ExecuteService executes a service tool. Typed tool failures are returned
// with status 200 and success false; only requests that cannot be routed
// get an error status.
func (h *Handlers) ExecuteService(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, utils.MaxJSONSize)

	var req types.ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := utils.ValidateToolID(req.ToolID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateParamDepth(req.Params, utils.MaxParamDepth); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	appCtx := &types.Context{RequestID: c.GetString(middleware.RequestIDKey)}
	result, err := h.registry.Execute(c.Request.Context(), req.ToolID, req.Params, appCtx)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("command could not run",
				zap.String("tool", req.ToolID),
				zap.String("request_id", appCtx.RequestID),
				zap.Error(err))
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidToolID):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrServiceNotFound), errors.Is(err, service.ErrToolNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
