package config

// Config is the full runtime configuration, read from the environment.
type Config struct {
	Redis     RedisConfig
	Dashboard DashboardConfig
	Limit     int    `env:"SIDEMON_LIMIT" envDefault:"10"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	Trace     bool   `env:"SIDEMON_TRACE" envDefault:"false"`
}

// RedisConfig holds configuration for the Redis connection
type RedisConfig struct {
	URL string `env:"REDIS_URL" envDefault:"redis://127.0.0.1:6379/0"`
}

// DashboardConfig holds configuration for the web dashboard
type DashboardConfig struct {
	Addr string `env:"SIDEMON_ADDR" envDefault:"127.0.0.1:3000"`
}
