package observability_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daasheo/immortalworld/internal/config"
	"github.com/daasheo/immortalworld/internal/observability"
)

// TestNewLogger verifies construction across the supported level/format grid.
func TestNewLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		for _, format := range []string{"json", "console"} {
			logger, err := observability.NewLogger(config.LoggingConfig{
				Level:  level,
				Format: format,
			})
			require.NoError(t, err, "level=%s format=%s", level, format)
			require.NotNil(t, logger)
		}
	}
}

// TestNewLogger_InvalidLevel verifies rejection of unknown levels.
func TestNewLogger_InvalidLevel(t *testing.T) {
	_, err := observability.NewLogger(config.LoggingConfig{Level: "trace", Format: "json"})
	assert.Error(t, err)
}

// TestNewLogger_InvalidFormat verifies rejection of unknown formats.
func TestNewLogger_InvalidFormat(t *testing.T) {
	_, err := observability.NewLogger(config.LoggingConfig{Level: "info", Format: "xml"})
	assert.Error(t, err)
}
