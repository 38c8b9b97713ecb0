// Package service provides the command registry of the workspace backend.
//
// Providers (filesystem, workspace) register a Definition listing their
// tools. A command addresses one tool as "service.tool"; the registry
// resolves it, runs it on the dispatch pool and records its outcome.
//
// Features:
//   - Thread-safe provider registration
//   - Category filtering and keyword discovery
//   - Mutating tools run detached from caller cancellation
//   - Per-tool call, duration and error-kind metrics
//
// Example Usage:
//
//	registry := service.NewRegistry(pool, metrics, logger)
//	registry.Register(filesystemProvider)
//	result, err := registry.Execute(ctx, "filesystem.get_file_content",
//	    map[string]interface{}{"path": "~/notes/todo.md"}, &types.Context{})
package service
