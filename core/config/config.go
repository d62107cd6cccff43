package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"bling-sync/core/database"
	"bling-sync/core/logger"
	"bling-sync/core/metrics"
	"bling-sync/core/redis"
	"bling-sync/core/scheduler"
	"bling-sync/core/server"
	"bling-sync/core/storage"
	"bling-sync/core/walker"
	"bling-sync/feature/bling"
	"bling-sync/feature/importer"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the payload archive (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the database connection.
	Database database.Config `mapstructure:"database"`
	// Redis holds configuration for the payload cache and run locks.
	Redis redis.Config `mapstructure:"redis"`
	// Bling holds the ERP credentials and client pacing.
	Bling bling.Config `mapstructure:"bling"`
	// Sync holds the importer settings (kinds, start dates, timezone).
	Sync importer.Config `mapstructure:"sync"`
	// Walker holds the pagination pacing shared by every kind.
	Walker walker.Config `mapstructure:"walker"`
	// Scheduler holds the periodic trigger settings.
	Scheduler scheduler.Config `mapstructure:"scheduler"`
	// Metrics holds the Prometheus endpoint settings.
	Metrics metrics.Config `mapstructure:"metrics"`
}

// LoadConfig reads path/.env (when present) over the process environment,
// applies the struct tag defaults and validates the result.
func LoadConfig(path string) (*Config, error) {
	// A missing .env is normal in containers.
	_ = godotenv.Overload(filepath.Join(path, ".env"))

	v := viper.New()
	bindValues(v, Config{}, "")

	// SYNC_COMPANY_ID -> sync.company_id
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the services cannot start with.
func (c *Config) Validate() error {
	var errs []error
	switch c.Database.Driver {
	case database.DriverMySQL, database.DriverPostgres, database.DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("database.driver: unsupported %q", c.Database.Driver))
	}
	if _, err := time.LoadLocation(c.Sync.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("sync.timezone: %w", err))
	}
	if c.Bling.RequestsPerSecond <= 0 {
		errs = append(errs, errors.New("bling.requests_per_second must be positive"))
	}
	if c.Walker.RateLimitBackoffSeconds < 0 || c.Walker.ItemDelayMS < 0 || c.Walker.PageDelayMS < 0 {
		errs = append(errs, errors.New("walker delays must not be negative"))
	}
	if c.Storage.Enabled && c.Storage.Bucket == "" {
		errs = append(errs, errors.New("storage.bucket is required when the archive is enabled"))
	}
	return errors.Join(errs...)
}

// bindValues registers every mapstructure key with its `default` tag so
// AutomaticEnv can resolve keys nobody set explicitly.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
