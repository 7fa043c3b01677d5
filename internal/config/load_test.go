package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRequiredEnv sets the minimum environment for a valid configuration.
func setRequiredEnv(t *testing.T) {
	t.Setenv("VIDGEN_GENAI_API_KEY", "test-api-key")
	t.Setenv("VIDGEN_STORAGE_BUCKET", "test-bucket")
}

func TestLoadWithDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8001, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "veo-2.0-generate-001", cfg.Video.Model)
	assert.Equal(t, 5, cfg.Video.PollIntervalSeconds)
	assert.Equal(t, 120, cfg.Video.AssumedGenerationSeconds)
	assert.Equal(t, 1800, cfg.Video.PollTimeoutSeconds)
	assert.Equal(t, "dont_allow", cfg.Video.PersonGeneration)
	assert.Equal(t, "16:9", cfg.Video.AspectRatio)
	assert.Equal(t, "test-bucket", cfg.Storage.Bucket)
	assert.Equal(t, 48*3600, cfg.Storage.SignedURLTTLSeconds)
}

func TestLoadEnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("VIDGEN_SERVER_PORT", "9090")
	t.Setenv("VIDGEN_SERVER_LOG_LEVEL", "debug")
	t.Setenv("VIDGEN_VIDEO_POLL_INTERVAL_SECONDS", "2")
	t.Setenv("VIDGEN_STORAGE_SIGNER_EMAIL", "signer@example.iam.gserviceaccount.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, 2, cfg.Video.PollIntervalSeconds)
	assert.Equal(t, "signer@example.iam.gserviceaccount.com", cfg.Storage.SignerEmail)
}

func TestLoadValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "missing api key",
			env: map[string]string{
				"VIDGEN_STORAGE_BUCKET": "test-bucket",
			},
		},
		{
			name: "missing bucket",
			env: map[string]string{
				"VIDGEN_GENAI_API_KEY": "test-api-key",
			},
		},
		{
			name: "invalid log level",
			env: map[string]string{
				"VIDGEN_GENAI_API_KEY":    "test-api-key",
				"VIDGEN_STORAGE_BUCKET":   "test-bucket",
				"VIDGEN_SERVER_LOG_LEVEL": "verbose",
			},
		},
		{
			name: "invalid port",
			env: map[string]string{
				"VIDGEN_GENAI_API_KEY":  "test-api-key",
				"VIDGEN_STORAGE_BUCKET": "test-bucket",
				"VIDGEN_SERVER_PORT":    "70000",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, val := range tc.env {
				t.Setenv(k, val)
			}

			cfg, err := Load()
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestDurationHelpers(t *testing.T) {
	video := VideoConfig{
		PollIntervalSeconds:      5,
		AssumedGenerationSeconds: 120,
		PollTimeoutSeconds:       0,
	}

	assert.Equal(t, "5s", video.PollInterval().String())
	assert.Equal(t, "2m0s", video.AssumedGenerationTime().String())
	assert.Zero(t, video.PollTimeout())

	storage := StorageConfig{SignedURLTTLSeconds: 48 * 3600}
	assert.Equal(t, "48h0m0s", storage.SignedURLTTL().String())
}
