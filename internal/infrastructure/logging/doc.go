// Package logging provides structured logging using uber/zap.
//
// Two modes:
//   - Production: JSON lines, suitable for the desktop shell's log collector
//   - Development: colored console output
//
// Components receive a *Logger and derive a named child with Component, so
// every line carries the emitting subsystem ("filesystem", "search", ...).
//
// Example Usage:
//
//	logger := logging.NewDefault().Component("filesystem")
//	logger.Debug("write committed", zap.String("path", p.String()))
//	logger.Warn("trash unavailable", zap.Error(err))
package logging
