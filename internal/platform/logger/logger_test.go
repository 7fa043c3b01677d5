package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/vidgen-api/internal/config"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
	}{
		{"debug level", "debug"},
		{"info level", "info"},
		{"warn level", "warn"},
		{"error level", "error"},
		{"mixed case", "DEBUG"},
		{"invalid level falls back to info", "verbose"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			logger := Setup(config.ServerConfig{Port: 8001, LogLevel: tc.logLevel})
			assert.NotNil(t, logger)
		})
	}
}
