package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Load reads the given env files (".env" when none is given) and populates the Config
// struct from the environment. A missing file is not an error; variables already set in
// the environment win over the file.
func Load(filenames ...string) (*Config, error) {
	if err := godotenv.Load(filenames...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read env file: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings that cannot work. Callers run it once command line
// overrides have been applied.
func (c *Config) Validate() error {
	if c.Redis.URL == "" {
		return errors.New("config: redis url is empty")
	}
	if !strings.HasPrefix(c.Redis.URL, "redis://") && !strings.HasPrefix(c.Redis.URL, "rediss://") && !strings.HasPrefix(c.Redis.URL, "unix://") {
		return fmt.Errorf("config: redis url %q must use redis://, rediss:// or unix://", c.Redis.URL)
	}
	if c.Dashboard.Addr == "" {
		return errors.New("config: dashboard address is empty")
	}
	return nil
}
