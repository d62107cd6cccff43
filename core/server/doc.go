// Package server holds the HTTP server configuration and constants.
//
// While the main application entry point handles the server startup, this package
// defines the configuration structures and valid values for server settings.
//
// # Configuration
//
// The Config struct defines the HTTP port, API key, request read timeout and
// the deployment environment (development, staging, production).
//
// # Usage
//
// This package is primarily used by the core/config package to embed server settings
// and by the start command to configure the Fiber application.
package server
