package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		development bool
		enabled     zapcore.Level
		disabled    zapcore.Level
	}{
		{name: "production info", level: "info", enabled: zapcore.InfoLevel, disabled: zapcore.DebugLevel},
		{name: "development debug", level: "debug", development: true, enabled: zapcore.DebugLevel, disabled: zapcore.DebugLevel - 1},
		{name: "warn only", level: "warn", enabled: zapcore.ErrorLevel, disabled: zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.level, tt.development)
			require.NoError(t, err)
			defer log.Sync() //nolint:errcheck

			assert.True(t, log.Core().Enabled(tt.enabled))
			assert.False(t, log.Core().Enabled(tt.disabled))
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("loud", false)
	assert.Error(t, err)
}
