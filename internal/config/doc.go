// Package config defines the application configuration structure and loading
// logic. Configuration is read from an optional config file and from
// environment variables with the VIDGEN_ prefix, with environment variables
// taking precedence. Loaded configuration is validated before use.
package config
