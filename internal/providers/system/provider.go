package system

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/GriffinCanCode/Workspace/backend/internal/shared/paths"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/types"
)

// Provider implements system information
type Provider struct {
	startTime time.Time
	resolver  *paths.Resolver
	appName   string
	version   string
}

// NewProvider creates a system provider
func NewProvider(resolver *paths.Resolver, appName, version string) *Provider {
	return &Provider{
		startTime: time.Now(),
		resolver:  resolver,
		appName:   appName,
		version:   version,
	}
}

// Definition returns service metadata
func (s *Provider) Definition() types.Service {
	return types.Service{
		ID:          "system",
		Name:        "System Service",
		Description: "Backend information and well-known user directories",
		Category:    types.CategorySystem,
		Capabilities: []string{
			"info",
			"directories",
		},
		Tools: []types.Tool{
			{
				ID:          "system.info",
				Name:        "System Info",
				Description: "Get backend and platform information",
				Parameters:  []types.Parameter{},
				Returns:     "object",
			},
			{
				ID:          "system.home_dirs",
				Name:        "Home Directories",
				Description: "Get the home directory and the well-known folders below it",
				Parameters:  []types.Parameter{},
				Returns:     "object",
			},
			{
				ID:          "system.ping",
				Name:        "Ping",
				Description: "Check backend responsiveness",
				Parameters:  []types.Parameter{},
				Returns:     "object",
			},
		},
	}
}

// Execute runs a system operation
func (s *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "system.info":
		return s.info()
	case "system.home_dirs":
		return s.homeDirs()
	case "system.ping":
		return success(map[string]interface{}{"pong": true, "timestamp": time.Now().Unix()})
	default:
		return failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (s *Provider) info() (*types.Result, error) {
	uptime := time.Since(s.startTime)
	return success(map[string]interface{}{
		"version":        s.version,
		"os":             runtime.GOOS,
		"arch":           runtime.GOARCH,
		"go_version":     runtime.Version(),
		"cpus":           runtime.NumCPU(),
		"uptime":         uptime.String(),
		"uptime_seconds": int64(uptime.Seconds()),
		"case_policy":    s.resolver.Policy().String(),
	})
}

// homeDirs derives the well-known folders from the startup home directory
func (s *Provider) homeDirs() (*types.Result, error) {
	home := s.resolver.Home()
	if home.IsZero() {
		return failure("home directory is not known")
	}

	dirs := map[string]interface{}{
		"home":     home,
		"app_data": s.resolver.AppDataDir(s.appName),
	}
	for key, name := range map[string]string{
		"desktop":   "Desktop",
		"documents": "Documents",
		"downloads": "Downloads",
		"pictures":  "Pictures",
	} {
		p, err := s.resolver.Join(home, name)
		if err != nil {
			return failure(err.Error())
		}
		dirs[key] = p
	}
	return success(dirs)
}

func success(data map[string]interface{}) (*types.Result, error) {
	return &types.Result{Success: true, Data: data}, nil
}

func failure(message string) (*types.Result, error) {
	return &types.Result{Success: false, Error: &message}, nil
}
