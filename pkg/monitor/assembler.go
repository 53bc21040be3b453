package monitor

import (
	"context"
	"sort"

	"github.com/pixelvide/sidemon/pkg/collection"
	"github.com/pixelvide/sidemon/pkg/sidekiq"
	"github.com/pixelvide/sidemon/pkg/telemetry"
)

// Assembler turns the two hashes kept per process into domain values.
type Assembler struct {
	reader *collection.Reader
}

// NewAssembler creates an Assembler reading through r.
func NewAssembler(r *collection.Reader) *Assembler {
	return &Assembler{reader: r}
}

// Process reads the heartbeat hash of identity.
func (a *Assembler) Process(ctx context.Context, identity string) (sidekiq.Process, error) {
	key := collection.ProcessKey(identity)
	fields, err := a.reader.Fields(ctx, key)
	if err != nil {
		return sidekiq.Process{}, err
	}
	telemetry.LoggerFromContext(ctx).Debug().Str("key", key).Int("count", len(fields)).Msg("Read hash")
	if len(fields) == 0 {
		return sidekiq.Process{}, &AssemblyError{Key: key, Err: ErrProcessNotFound}
	}

	p, err := sidekiq.DecodeProcess(fields)
	if err != nil {
		return sidekiq.Process{}, &AssemblyError{Key: key, Err: err}
	}
	return p, nil
}

// Workers reads the workers hash of identity, ordered by worker id.
// One unreadable entry fails the whole call.
func (a *Assembler) Workers(ctx context.Context, identity string) ([]sidekiq.Worker, error) {
	key := collection.WorkersKey(identity)
	fields, err := a.reader.Fields(ctx, key)
	if err != nil {
		return nil, err
	}
	telemetry.LoggerFromContext(ctx).Debug().Str("key", key).Int("count", len(fields)).Msg("Read hash")

	ids := make([]string, 0, len(fields))
	for id := range fields {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	workers := make([]sidekiq.Worker, 0, len(ids))
	for _, id := range ids {
		w, err := sidekiq.DecodeWorker(id, []byte(fields[id]))
		if err != nil {
			return nil, &AssemblyError{Key: key, Record: id, Err: err}
		}
		workers = append(workers, w)
	}
	return workers, nil
}
