package redis

// Config holds configuration for the Redis connection.
type Config struct {
	// Enabled turns on the read-through payload cache and distributed locks.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Addr is the host:port of the Redis server.
	Addr string `mapstructure:"addr" default:"localhost:6379"`
	// Password is the optional AUTH password.
	Password string `mapstructure:"password" default:""`
	// DB selects the logical database.
	DB int `mapstructure:"db" default:"0"`
	// PoolSize bounds the connection pool.
	PoolSize int `mapstructure:"pool_size" default:"20"`
	// CacheTTLMinutes is how long cached payloads live. Zero keeps them forever.
	CacheTTLMinutes int `mapstructure:"cache_ttl_minutes" default:"1440"`
	// TimeoutSeconds bounds dialing and the initial ping.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"5"`
}
