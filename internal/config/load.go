package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Default values applied before reading config files and environment.
const (
	defaultPort                  = 8001
	defaultLogLevel              = "info"
	defaultModel                 = "veo-2.0-generate-001"
	defaultPollIntervalSeconds   = 5
	defaultAssumedGenerationSecs = 120
	defaultPollTimeoutSeconds    = 1800
	defaultPersonGeneration      = "dont_allow"
	defaultAspectRatio           = "16:9"
	defaultSignedURLTTLSeconds   = 48 * 3600
)

// Load reads configuration from an optional config file and from environment
// variables with the VIDGEN_ prefix. Environment variables take precedence
// over values from config files. Returns a populated Config struct or an
// error if loading or validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; everything can come from the
		// environment. Any other read error is fatal.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("VIDGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers default values for all optional settings.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", defaultPort)
	v.SetDefault("server.log_level", defaultLogLevel)

	v.SetDefault("video.model", defaultModel)
	v.SetDefault("video.poll_interval_seconds", defaultPollIntervalSeconds)
	v.SetDefault("video.assumed_generation_seconds", defaultAssumedGenerationSecs)
	v.SetDefault("video.poll_timeout_seconds", defaultPollTimeoutSeconds)
	v.SetDefault("video.person_generation", defaultPersonGeneration)
	v.SetDefault("video.aspect_ratio", defaultAspectRatio)

	v.SetDefault("storage.signed_url_ttl_seconds", defaultSignedURLTTLSeconds)

	// Settings with no meaningful default still need to be registered so
	// AutomaticEnv picks them up during Unmarshal.
	v.SetDefault("genai.api_key", "")
	v.SetDefault("genai.use_vertex_ai", false)
	v.SetDefault("genai.project_id", "")
	v.SetDefault("genai.location", "")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.signer_email", "")
	v.SetDefault("storage.credentials_file", "")
}
