package server

import (
	"strings"
	"time"
)

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// ReadTimeoutSeconds bounds reading a full request.
	ReadTimeoutSeconds int `mapstructure:"read_timeout_seconds" default:"30"`
	// Environment labels logs and health output (development, staging, production).
	Environment string `mapstructure:"environment" default:"production"`
}

const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// IsValidEnvironment checks if the configured environment is known.
func (c Config) IsValidEnvironment() bool {
	switch c.Environment {
	case EnvDevelopment, EnvStaging, EnvProduction:
		return true
	default:
		return false
	}
}

// ListenAddr returns the address passed to the listener.
func (c Config) ListenAddr() string {
	port := strings.TrimPrefix(c.Port, ":")
	if port == "" {
		port = "8080"
	}
	return ":" + port
}

// ReadTimeout returns the request read timeout, defaulting to 30 seconds.
func (c Config) ReadTimeout() time.Duration {
	if c.ReadTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}
