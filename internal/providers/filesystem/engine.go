package filesystem

import (
	"path/filepath"
	"strings"

	"github.com/GriffinCanCode/Workspace/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/Workspace/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/fserr"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/paths"
)

// SearchDefaults apply when a query leaves a field unset
type SearchDefaults struct {
	MaxResults      uint32
	MaxContentBytes int64
	Ignore          []string
}

// DefaultSearchDefaults returns the stock limits
func DefaultSearchDefaults() SearchDefaults {
	return SearchDefaults{
		MaxResults:      200,
		MaxContentBytes: 8 << 20,
		Ignore:          []string{".git", "node_modules"},
	}
}

// Engine walks trees and answers search queries
type Engine struct {
	resolver *paths.Resolver
	defaults SearchDefaults
	decoder  *TextDecoder
	metrics  *monitoring.Metrics
	logger   *logging.Logger
}

// NewEngine creates an engine. metrics may be nil.
func NewEngine(resolver *paths.Resolver, defaults SearchDefaults, metrics *monitoring.Metrics, logger *logging.Logger) *Engine {
	if defaults.MaxResults == 0 {
		defaults.MaxResults = DefaultSearchDefaults().MaxResults
	}
	if defaults.MaxContentBytes <= 0 {
		defaults.MaxContentBytes = DefaultSearchDefaults().MaxContentBytes
	}
	return &Engine{
		resolver: resolver,
		defaults: defaults,
		decoder:  NewTextDecoder(defaults.MaxContentBytes),
		metrics:  metrics,
		logger:   logger.Component("search"),
	}
}

// Defaults returns the engine's query defaults
func (e *Engine) Defaults() SearchDefaults { return e.defaults }

// ScopedRoot normalizes a walk or search root. Relative roots resolve against
// the open workspace, and roots spelled with ".." must stay inside it. With no
// workspace open, only absolute and ~ roots are accepted.
func ScopedRoot(resolver *paths.Resolver, scope Scope, raw string) (paths.Path, error) {
	var (
		workspace paths.Path
		open      bool
	)
	if scope != nil {
		workspace, open = scope.Root()
	}

	if raw == "" {
		if open {
			return workspace, nil
		}
		return paths.Path{}, fserr.Newf(fserr.InvalidPath, "scope", "", "root is required when no workspace is open")
	}

	if !open && !isAbsLike(raw) {
		return paths.Path{}, fserr.Newf(fserr.InvalidPath, "scope", raw, "relative root needs an open workspace")
	}

	var (
		root paths.Path
		err  error
	)
	if open && !isAbsLike(raw) {
		root, err = resolver.Join(workspace, raw)
	} else {
		root, err = resolver.Normalize(raw)
	}
	if err != nil {
		return paths.Path{}, err
	}

	if open && climbs(raw) && !resolver.Within(workspace, root) {
		return paths.Path{}, fserr.Newf(fserr.InvalidPath, "scope", raw, "root escapes workspace %s", workspace)
	}
	return root, nil
}

func isAbsLike(raw string) bool {
	return raw == "~" || strings.HasPrefix(raw, "~/") || filepath.IsAbs(filepath.FromSlash(raw))
}

func climbs(raw string) bool {
	for _, seg := range strings.FieldsFunc(raw, func(r rune) bool { return r == '/' || r == '\\' }) {
		if seg == ".." {
			return true
		}
	}
	return false
}
