// Package config provides configuration management for the synchronizer.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file. Defaults come from the `default` struct tags of each
// section.
//
// # Configuration Structure
//
// The Config struct is divided into subsections, each owned by the package
// that consumes it:
//   - Server: HTTP port, API key, environment
//   - Database: MySQL, Postgres or SQLite connection details
//   - Redis: payload cache and distributed run locks
//   - Storage: S3/MinIO archive of raw ERP payloads
//   - Log: Logging level and format
//   - Bling: OAuth credentials and request pacing
//   - Sync: enabled kinds, start dates, timezone, company id
//   - Walker: delays and rate-limit backoff
//   - Scheduler: interval trigger
//   - Metrics: Prometheus endpoint
//
// Environment variables map to nested keys by replacing dots with
// underscores (e.g. BLING_CLIENT_ID -> bling.client_id).
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
