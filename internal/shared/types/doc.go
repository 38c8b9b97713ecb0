// Package types provides the shared data structures of the command surface.
//
// Core Types:
//   - Service: Provider definition (id, category, tools)
//   - Tool: A single named command and its parameters
//   - Context: Per-call execution context (request and task ids)
//   - Result: Uniform single-response envelope
//
// Request Types:
//   - ExecuteRequest: Tool invocation sent by the UI shell
//
// Example Usage:
//
//	result, err := registry.Execute(ctx, "filesystem.get_file_content",
//	    map[string]interface{}{"path": "~/notes/todo.md"}, &types.Context{})
package types
