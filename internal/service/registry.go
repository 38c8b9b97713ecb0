package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/Workspace/backend/internal/infrastructure/dispatch"
	"github.com/GriffinCanCode/Workspace/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/Workspace/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/types"
)

var (
	ErrInvalidToolID   = errors.New("invalid tool ID format")
	ErrServiceNotFound = errors.New("service not found")
	ErrToolNotFound    = errors.New("tool not found")
)

// untypedFailure labels failed results that carry no error kind
const untypedFailure = "rejected"

// Provider interface for service implementations
type Provider interface {
	Definition() types.Service
	Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error)
}

// Registry manages service discovery and execution
type Registry struct {
	services sync.Map
	pool     *dispatch.Pool
	metrics  *monitoring.Metrics
	logger   *logging.Logger
}

// NewRegistry creates a registry dispatching on pool. metrics may be nil.
func NewRegistry(pool *dispatch.Pool, metrics *monitoring.Metrics, logger *logging.Logger) *Registry {
	return &Registry{
		pool:    pool,
		metrics: metrics,
		logger:  logger.Component("registry"),
	}
}

// Register adds a service provider
func (r *Registry) Register(provider Provider) error {
	def := provider.Definition()
	if def.ID == "" {
		return fmt.Errorf("service ID cannot be empty")
	}
	for _, tool := range def.Tools {
		if !strings.HasPrefix(tool.ID, def.ID+".") {
			return fmt.Errorf("tool %s does not belong to service %s", tool.ID, def.ID)
		}
	}

	r.services.Store(def.ID, provider)
	r.logger.Debug("service registered", zap.String("service", def.ID), zap.Int("tools", len(def.Tools)))
	return nil
}

// Unregister removes a service provider
func (r *Registry) Unregister(serviceID string) {
	r.services.Delete(serviceID)
}

// Get retrieves a service by ID
func (r *Registry) Get(serviceID string) (Provider, bool) {
	val, ok := r.services.Load(serviceID)
	if !ok {
		return nil, false
	}
	return val.(Provider), true
}

// List returns registered services ordered by ID
func (r *Registry) List(category *types.Category) []types.Service {
	services := []types.Service{}
	r.services.Range(func(_, value interface{}) bool {
		def := value.(Provider).Definition()
		if category == nil || def.Category == *category {
			services = append(services, def)
		}
		return true
	})
	sort.Slice(services, func(i, j int) bool { return services[i].ID < services[j].ID })
	return services
}

// Tool looks up a tool definition
func (r *Registry) Tool(toolID string) (types.Tool, error) {
	_, tool, err := r.resolve(toolID)
	return tool, err
}

// Discover finds services relevant to a free-text query
func (r *Registry) Discover(query string, limit int) []types.Service {
	type scoredService struct {
		service types.Service
		score   float64
	}

	queryLower := strings.ToLower(query)
	var results []scoredService

	r.services.Range(func(_, value interface{}) bool {
		def := value.(Provider).Definition()
		if score := relevance(queryLower, def); score > 0 {
			results = append(results, scoredService{service: def, score: score})
		}
		return true
	})

	// Sort by score descending, then ID for stable output
	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].service.ID < results[j].service.ID
	})

	output := make([]types.Service, 0, limit)
	for i := 0; i < len(results) && i < limit; i++ {
		output = append(output, results[i].service)
	}
	return output
}

// Execute runs a tool on the dispatch pool. A typed failure of the tool is
// a Result with Success false; the error return is reserved for commands
// that could not be routed or run.
func (r *Registry) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	provider, tool, err := r.resolve(toolID)
	if err != nil {
		return nil, err
	}

	var callCtx types.Context
	if appCtx != nil {
		callCtx = *appCtx
	}

	timer := monitoring.NewTimer(r.metrics, toolID)
	start := time.Now()

	value, err := r.pool.Do(ctx, tool.Mutating, func(taskCtx context.Context) (interface{}, error) {
		if taskID, ok := dispatch.TaskIDFrom(taskCtx); ok {
			callCtx.TaskID = taskID.String()
		}
		return provider.Execute(taskCtx, toolID, params, &callCtx)
	})
	if err != nil {
		timer.Stop(err)
		r.logger.Warn("command failed",
			zap.String("tool", toolID),
			zap.String("request_id", callCtx.RequestID),
			zap.Error(err))
		return nil, err
	}

	result, ok := value.(*types.Result)
	if !ok || result == nil {
		timer.StopKind("internal")
		return nil, fmt.Errorf("tool %s returned no result", toolID)
	}

	kind := ""
	if !result.Success {
		kind = result.ErrorKind
		if kind == "" {
			kind = untypedFailure
		}
	}
	timer.StopKind(kind)

	r.logger.Debug("command executed",
		zap.String("tool", toolID),
		zap.String("task_id", callCtx.TaskID),
		zap.String("request_id", callCtx.RequestID),
		zap.Bool("success", result.Success),
		zap.Duration("duration", time.Since(start)))
	return result, nil
}

// Stats returns registry statistics
func (r *Registry) Stats() map[string]interface{} {
	var total, totalTools int
	categories := make(map[string]int)

	r.services.Range(func(_, value interface{}) bool {
		def := value.(Provider).Definition()
		total++
		totalTools += len(def.Tools)
		categories[string(def.Category)]++
		return true
	})

	return map[string]interface{}{
		"total_services": total,
		"total_tools":    totalTools,
		"categories":     categories,
		"workers":        r.pool.Size(),
	}
}

func (r *Registry) resolve(toolID string) (Provider, types.Tool, error) {
	serviceID, _, ok := strings.Cut(toolID, ".")
	if !ok || serviceID == "" {
		return nil, types.Tool{}, fmt.Errorf("%w: %s", ErrInvalidToolID, toolID)
	}

	provider, ok := r.Get(serviceID)
	if !ok {
		return nil, types.Tool{}, fmt.Errorf("%w: %s", ErrServiceNotFound, serviceID)
	}

	for _, tool := range provider.Definition().Tools {
		if tool.ID == toolID {
			return provider, tool, nil
		}
	}
	return nil, types.Tool{}, fmt.Errorf("%w: %s", ErrToolNotFound, toolID)
}

func relevance(query string, service types.Service) float64 {
	score := 0.0

	if strings.Contains(query, service.ID) || strings.Contains(query, strings.ToLower(service.Name)) {
		score += 10.0
	}

	for _, word := range strings.Fields(strings.ToLower(service.Description)) {
		if len(word) > 3 && strings.Contains(query, word) {
			score += 5.0
		}
	}

	for _, capability := range service.Capabilities {
		if strings.Contains(query, strings.ReplaceAll(strings.ToLower(capability), "_", " ")) {
			score += 3.0
		}
	}

	for _, tool := range service.Tools {
		if strings.Contains(query, strings.ToLower(tool.Name)) {
			score += 4.0
		}
	}

	if strings.Contains(query, string(service.Category)) {
		score += 2.0
	}

	return score
}
