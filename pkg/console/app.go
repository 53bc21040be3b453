package console

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pixelvide/sidemon/pkg/config"
	"github.com/pixelvide/sidemon/pkg/driver/redis"
	"github.com/pixelvide/sidemon/pkg/monitor"
	"github.com/pixelvide/sidemon/pkg/render"
	"github.com/pixelvide/sidemon/pkg/root"
	"github.com/pixelvide/sidemon/pkg/store"
	"github.com/pixelvide/sidemon/pkg/telemetry"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const serviceName = "sidemon"

// Report formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

var (
	redisURL string
	limit    int
	format   string
	logLevel string
	trace    bool
)

// app holds what every command needs once configuration has been resolved.
type app struct {
	cfg    *config.Config
	driver *redis.RedisDriver
	opts   []monitor.Option
	close  func()
}

// setup loads configuration, applies flag overrides, configures logging and tracing
// and connects to Redis. A failed PING is reported before any read happens.
func setup(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	telemetry.SetGlobalLogger(cfg.LogLevel)

	a := &app{cfg: cfg, close: func() {}}
	if cfg.Trace {
		tp, err := telemetry.InitTracer(serviceName, os.Stderr)
		if err != nil {
			return nil, fmt.Errorf("init tracer: %w", err)
		}
		a.opts = append(a.opts, monitor.WithTracer(tp.Tracer(serviceName)))
		a.close = func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				log.Error().Err(err).Msg("Error shutting down tracer")
			}
		}
	}

	driver, err := redis.NewRedisDriver(cfg.Redis)
	if err != nil {
		a.close()
		return nil, err
	}
	if err := driver.Ping(ctx); err != nil {
		_ = driver.Close()
		a.close()
		return nil, err
	}
	a.driver = driver

	shutdownTracer := a.close
	a.close = func() {
		if err := driver.Close(); err != nil {
			log.Warn().Err(err).Msg("Error closing redis client")
		}
		shutdownTracer()
	}
	return a, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("redis-url") {
		cfg.Redis.URL = redisURL
	}
	if flags.Changed("limit") {
		cfg.Limit = limit
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("trace") {
		cfg.Trace = trace
	}
}

func checkFormat(f string) error {
	switch f {
	case FormatText, FormatJSON:
		return nil
	}
	return fmt.Errorf("unknown format %q, want %s or %s", f, FormatText, FormatJSON)
}

// report reads one overview through s and writes it to w.
func report(ctx context.Context, s store.Store, w io.Writer, f string, limit int64, opts ...monitor.Option) error {
	overview, err := monitor.New(s, opts...).Overview(ctx, limit)
	if err != nil {
		return err
	}

	if f == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(overview)
	}

	text, err := render.Text()
	if err != nil {
		return err
	}
	return text.Render(w, render.Report, overview)
}

func init() {
	flags := root.GetRoot().PersistentFlags()
	flags.StringVar(&redisURL, "redis-url", "", "Redis URL (overrides REDIS_URL)")
	flags.IntVar(&limit, "limit", 10, "Maximum number of jobs listed per collection; negative lists all (overrides SIDEMON_LIMIT)")
	flags.StringVar(&logLevel, "log-level", "info", "Log level (overrides LOG_LEVEL)")
	flags.BoolVar(&trace, "trace", false, "Export trace spans to stderr (overrides SIDEMON_TRACE)")
}
