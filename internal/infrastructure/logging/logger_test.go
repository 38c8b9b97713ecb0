package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestNewBuildsLevel(t *testing.T) {
	logger, err := New(Config{Level: "warn"})
	require.NoError(t, err)

	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestComponentOnNil(t *testing.T) {
	var l *Logger
	child := l.Component("search")
	require.NotNil(t, child)
	child.Info("discarded", zap.String("k", "v"))
}

func TestNopAndWith(t *testing.T) {
	l := NewNop().Component("filesystem").With(zap.String("path", "/ws"))
	assert.NotNil(t, l.Logger)
}
