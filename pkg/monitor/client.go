package monitor

import (
	"context"
	"strconv"

	"github.com/pixelvide/sidemon/pkg/collection"
	"github.com/pixelvide/sidemon/pkg/sidekiq"
	"github.com/pixelvide/sidemon/pkg/store"
	"github.com/pixelvide/sidemon/pkg/telemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/pixelvide/sidemon/pkg/monitor"

// Client answers read queries about the Sidekiq state. Every call reads the store
// again; nothing is cached between calls.
type Client struct {
	reader    *collection.Reader
	assembler *Assembler
	tracer    trace.Tracer
}

// Option configures a Client.
type Option func(*Client)

// WithTracer sets the tracer used for per-call spans.
func WithTracer(t trace.Tracer) Option {
	return func(c *Client) { c.tracer = t }
}

// New creates a Client over s. The client uses s sequentially and must not be
// shared between concurrent requests unless s allows it.
func New(s store.Store, opts ...Option) *Client {
	reader := collection.NewReader(s)
	c := &Client{
		reader:    reader,
		assembler: NewAssembler(reader),
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ProcessNames returns the identities of all registered processes.
func (c *Client) ProcessNames(ctx context.Context) (names []string, err error) {
	ctx, span := c.start(ctx, "ProcessNames", collection.ProcessesKey)
	defer func() { finish(span, err) }()

	names, err = c.reader.MembersOf(ctx, collection.Processes)
	if err != nil {
		return nil, err
	}
	telemetry.LoggerFromContext(ctx).Debug().Str("key", collection.ProcessesKey).Int("count", len(names)).Msg("Read registry")
	return names, nil
}

// Process returns the heartbeat of one process.
func (c *Client) Process(ctx context.Context, name string) (p sidekiq.Process, err error) {
	ctx, span := c.start(ctx, "Process", collection.ProcessKey(name))
	defer func() { finish(span, err) }()

	return c.assembler.Process(ctx, name)
}

// Workers returns the busy workers of one process keyed by worker id.
func (c *Client) Workers(ctx context.Context, name string) (workers map[string]sidekiq.Worker, err error) {
	ctx, span := c.start(ctx, "Workers", collection.WorkersKey(name))
	defer func() { finish(span, err) }()

	list, err := c.assembler.Workers(ctx, name)
	if err != nil {
		return nil, err
	}
	workers = make(map[string]sidekiq.Worker, len(list))
	for _, w := range list {
		workers[w.ID] = w
	}
	return workers, nil
}

// QueueNames returns the names of all known queues.
func (c *Client) QueueNames(ctx context.Context) (names []string, err error) {
	ctx, span := c.start(ctx, "QueueNames", collection.QueuesKey)
	defer func() { finish(span, err) }()

	names, err = c.reader.MembersOf(ctx, collection.Queues)
	if err != nil {
		return nil, err
	}
	telemetry.LoggerFromContext(ctx).Debug().Str("key", collection.QueuesKey).Int("count", len(names)).Msg("Read registry")
	return names, nil
}

// Queue returns up to limit jobs from the head of the named queue.
func (c *Client) Queue(ctx context.Context, name string, limit int64) ([]sidekiq.Job, error) {
	return c.Jobs(ctx, collection.Queue(name), limit)
}

// Retry returns up to limit jobs waiting to be retried, earliest first.
func (c *Client) Retry(ctx context.Context, limit int64) ([]sidekiq.Job, error) {
	return c.Jobs(ctx, collection.Retry, limit)
}

// Schedule returns up to limit scheduled jobs, earliest first.
func (c *Client) Schedule(ctx context.Context, limit int64) ([]sidekiq.Job, error) {
	return c.Jobs(ctx, collection.Schedule, limit)
}

// Dead returns up to limit dead jobs, oldest first.
func (c *Client) Dead(ctx context.Context, limit int64) ([]sidekiq.Job, error) {
	return c.Jobs(ctx, collection.Dead, limit)
}

// Jobs returns up to limit decoded jobs from the head of ref. A negative limit reads
// the whole collection.
func (c *Client) Jobs(ctx context.Context, ref collection.Ref, limit int64) (jobs []sidekiq.Job, err error) {
	ctx, span := c.start(ctx, "Jobs", ref.Key)
	defer func() { finish(span, err) }()
	span.SetAttributes(attribute.Int64("sidemon.limit", limit))

	raw, err := c.reader.ReadRange(ctx, ref, 0, limit)
	if err != nil {
		return nil, err
	}
	telemetry.LoggerFromContext(ctx).Debug().Str("key", ref.Key).Stringer("kind", ref.Kind).Int("count", len(raw)).Msg("Read collection")

	jobs = make([]sidekiq.Job, 0, len(raw))
	for i, elem := range raw {
		job, err := sidekiq.DecodeJob([]byte(elem))
		if err != nil {
			return nil, &AssemblyError{Key: ref.Key, Record: strconv.Itoa(i), Err: err}
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// Size returns the total number of elements in ref, independent of any limit.
func (c *Client) Size(ctx context.Context, ref collection.Ref) (n uint64, err error) {
	ctx, span := c.start(ctx, "Size", ref.Key)
	defer func() { finish(span, err) }()

	return c.reader.LengthOf(ctx, ref)
}

func (c *Client) start(ctx context.Context, op, key string) (context.Context, trace.Span) {
	return c.tracer.Start(ctx, "monitor."+op, trace.WithAttributes(attribute.String("sidekiq.key", key)))
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
