// Package main is the entry point for the workspace file engine.
//
// The binary serves the command surface over HTTP for the desktop shell and
// offers the same engine on the command line:
//
//	workspaced serve --port 7430
//	workspaced search ~/notes --content "TODO"
//	workspaced walk . --depth 2
//	workspaced exec workspace.get_bookmarks
//
// Configuration comes from the environment (12-factor); flags override the
// logging and persistence settings.
//
// Signals:
//   - SIGINT, SIGTERM: graceful shutdown of serve
package main
