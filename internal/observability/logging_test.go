package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/jansankalp/grievance-service/internal/config"
)

func TestNewLoggerDefaultsToJSON(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "debug"})
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestNewLoggerConsoleEncoding(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "info", Encoding: "console"})
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestNewLoggerToleratesUnknownLevel(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "shouty", Encoding: "hieroglyphs"})
	require.NoError(t, err)
	assert.NotNil(t, logger)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}
