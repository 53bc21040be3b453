package schedule

import (
	"context"
	"fmt"

	"github.com/pixelvide/sidemon/pkg/telemetry"
	"github.com/robfig/cron/v3"
)

// Task is a unit of scheduled work. ctx is the context the kernel runs under.
type Task func(ctx context.Context)

// Kernel manages scheduled tasks
type Kernel struct {
	cron  *cron.Cron
	tasks []registered
}

type registered struct {
	schedule string
	name     string
	job      func(context.Context) cron.Job
}

// JobOption configures a scheduled job
type JobOption func(*jobConfig)

type jobConfig struct {
	withoutOverlapping bool
	name               string
}

// NewKernel creates a new scheduler kernel. Schedules use the six-field format with
// seconds, and the @every and @hourly style descriptors.
func NewKernel() *Kernel {
	return &Kernel{
		cron: cron.New(cron.WithParser(parser)),
	}
}

// WithoutOverlapping skips a tick while the previous run of the job is still going.
func WithoutOverlapping() JobOption {
	return func(c *jobConfig) {
		c.withoutOverlapping = true
	}
}

// Named sets the name the job is logged under.
func Named(name string) JobOption {
	return func(c *jobConfig) {
		c.name = name
	}
}

// Register adds a task to be run on a given schedule.
// Schedule format: "s m h d m w" (Seconds Minutes Hours Day Month Week) or a descriptor.
func (k *Kernel) Register(schedule string, task Task, opts ...JobOption) error {
	cfg := &jobConfig{name: schedule}
	for _, opt := range opts {
		opt(cfg)
	}

	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("schedule %s: %w", cfg.name, err)
	}

	k.tasks = append(k.tasks, registered{
		schedule: schedule,
		name:     cfg.name,
		job: func(ctx context.Context) cron.Job {
			var job cron.Job = cron.FuncJob(func() { task(ctx) })
			if cfg.withoutOverlapping {
				job = cron.SkipIfStillRunning(cronLogger{ctx: ctx})(job)
			}
			return job
		},
	})
	return nil
}

// parser accepts what cron.WithSeconds accepts.
var parser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Run starts the scheduler and blocks until ctx is done, then waits for running jobs.
func (k *Kernel) Run(ctx context.Context) error {
	logger := telemetry.LoggerFromContext(ctx)
	for _, t := range k.tasks {
		if _, err := k.cron.AddJob(t.schedule, t.job(ctx)); err != nil {
			return fmt.Errorf("schedule %s: %w", t.name, err)
		}
		logger.Debug().Str("job", t.name).Str("schedule", t.schedule).Msg("Registered cron job")
	}

	logger.Info().Int("jobs", len(k.tasks)).Msg("Starting task scheduler")
	k.cron.Start()

	<-ctx.Done()

	logger.Info().Msg("Stopping task scheduler")
	<-k.cron.Stop().Done()
	return nil
}

// cronLogger forwards cron's own messages to the context logger.
type cronLogger struct {
	ctx context.Context
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	telemetry.LoggerFromContext(l.ctx).Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	telemetry.LoggerFromContext(l.ctx).Error().Err(err).Fields(keysAndValues).Msg(msg)
}
