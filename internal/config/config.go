package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"  validate:"required"`
	GenAI   GenAIConfig   `mapstructure:"genai"   validate:"required"`
	Video   VideoConfig   `mapstructure:"video"   validate:"required"`
	Storage StorageConfig `mapstructure:"storage" validate:"required"`
}

// ServerConfig contains all HTTP server related settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// GenAIConfig contains the settings for the GenAI client used to reach the
// video generation backend. Either an API key or Vertex AI project settings
// must be provided.
type GenAIConfig struct {
	APIKey      string `mapstructure:"api_key"       validate:"required_without=UseVertexAI"`
	UseVertexAI bool   `mapstructure:"use_vertex_ai"`
	ProjectID   string `mapstructure:"project_id"    validate:"required_with=UseVertexAI"`
	Location    string `mapstructure:"location"      validate:"required_with=UseVertexAI"`
}

// VideoConfig contains the video generation settings.
type VideoConfig struct {
	// Model is the generation model name, e.g. "veo-2.0-generate-001".
	Model string `mapstructure:"model" validate:"required"`

	// PollIntervalSeconds is the fixed sleep between operation polls.
	PollIntervalSeconds int `mapstructure:"poll_interval_seconds" validate:"required,gt=0"`

	// AssumedGenerationSeconds is the assumed total generation duration used
	// for the simulated progress estimate.
	AssumedGenerationSeconds int `mapstructure:"assumed_generation_seconds" validate:"required,gt=0"`

	// PollTimeoutSeconds is the wall-clock ceiling on the polling loop.
	// Zero disables the ceiling and polls indefinitely.
	PollTimeoutSeconds int `mapstructure:"poll_timeout_seconds" validate:"gte=0"`

	// PersonGeneration controls whether people may appear in generated video.
	PersonGeneration string `mapstructure:"person_generation" validate:"required"`

	// AspectRatio is the requested output aspect ratio.
	AspectRatio string `mapstructure:"aspect_ratio" validate:"required"`
}

// PollInterval returns the poll interval as a duration.
func (c VideoConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// AssumedGenerationTime returns the assumed total generation duration.
func (c VideoConfig) AssumedGenerationTime() time.Duration {
	return time.Duration(c.AssumedGenerationSeconds) * time.Second
}

// PollTimeout returns the polling wall-clock ceiling, zero meaning unlimited.
func (c VideoConfig) PollTimeout() time.Duration {
	return time.Duration(c.PollTimeoutSeconds) * time.Second
}

// StorageConfig contains all blob storage related settings.
type StorageConfig struct {
	// Bucket is the name of the bucket generated videos are uploaded to.
	Bucket string `mapstructure:"bucket" validate:"required"`

	// SignerEmail is an optional service account used to sign URLs. When
	// empty, ambient credentials are used for signing.
	SignerEmail string `mapstructure:"signer_email"`

	// SignedURLTTLSeconds is the lifetime of generated signed URLs.
	SignedURLTTLSeconds int `mapstructure:"signed_url_ttl_seconds" validate:"required,gt=0"`

	// CredentialsFile optionally points at a service account key file. When
	// empty, application default credentials are used.
	CredentialsFile string `mapstructure:"credentials_file"`
}

// SignedURLTTL returns the signed URL lifetime as a duration.
func (c StorageConfig) SignedURLTTL() time.Duration {
	return time.Duration(c.SignedURLTTLSeconds) * time.Second
}
