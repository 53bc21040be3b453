package monitor

import (
	"context"
	"errors"

	"github.com/pixelvide/sidemon/pkg/collection"
	"github.com/pixelvide/sidemon/pkg/sidekiq"
)

// Overview is a point-in-time snapshot of everything the dashboard shows.
type Overview struct {
	Processes []ProcessEntry    `json:"processes"`
	Queues    []CollectionEntry `json:"queues"`
	Retry     CollectionEntry   `json:"retry"`
	Schedule  CollectionEntry   `json:"schedule"`
	Dead      CollectionEntry   `json:"dead"`
}

// ProcessEntry is a registered process with its workers. Gone is set when the
// process is still registered but its heartbeat hash no longer exists.
type ProcessEntry struct {
	Name    string           `json:"name"`
	Gone    bool             `json:"gone"`
	Process *sidekiq.Process `json:"process"`
	Workers []sidekiq.Worker `json:"workers"`
}

// CollectionEntry is the head of an ordered collection together with its full size.
type CollectionEntry struct {
	Name string        `json:"name"`
	Size uint64        `json:"size"`
	Jobs []sidekiq.Job `json:"jobs"`
}

// Overview reads processes, queues and the retry, schedule and dead sets, keeping
// at most limit jobs per collection. Any error aborts the snapshot.
func (c *Client) Overview(ctx context.Context, limit int64) (*Overview, error) {
	names, err := c.ProcessNames(ctx)
	if err != nil {
		return nil, err
	}

	o := &Overview{
		Processes: make([]ProcessEntry, 0, len(names)),
	}
	for _, name := range names {
		entry, err := c.processEntry(ctx, name)
		if err != nil {
			return nil, err
		}
		o.Processes = append(o.Processes, entry)
	}

	queues, err := c.QueueNames(ctx)
	if err != nil {
		return nil, err
	}
	o.Queues = make([]CollectionEntry, 0, len(queues))
	for _, name := range queues {
		entry, err := c.collectionEntry(ctx, name, collection.Queue(name), limit)
		if err != nil {
			return nil, err
		}
		o.Queues = append(o.Queues, entry)
	}

	if o.Retry, err = c.collectionEntry(ctx, collection.RetryKey, collection.Retry, limit); err != nil {
		return nil, err
	}
	if o.Schedule, err = c.collectionEntry(ctx, collection.ScheduleKey, collection.Schedule, limit); err != nil {
		return nil, err
	}
	if o.Dead, err = c.collectionEntry(ctx, collection.DeadKey, collection.Dead, limit); err != nil {
		return nil, err
	}
	return o, nil
}

func (c *Client) processEntry(ctx context.Context, name string) (ProcessEntry, error) {
	p, err := c.Process(ctx, name)
	if errors.Is(err, ErrProcessNotFound) {
		return ProcessEntry{Name: name, Gone: true, Workers: []sidekiq.Worker{}}, nil
	}
	if err != nil {
		return ProcessEntry{}, err
	}

	workers, err := c.assembler.Workers(ctx, name)
	if err != nil {
		return ProcessEntry{}, err
	}
	return ProcessEntry{Name: name, Process: &p, Workers: workers}, nil
}

func (c *Client) collectionEntry(ctx context.Context, name string, ref collection.Ref, limit int64) (CollectionEntry, error) {
	size, err := c.Size(ctx, ref)
	if err != nil {
		return CollectionEntry{}, err
	}
	jobs, err := c.Jobs(ctx, ref, limit)
	if err != nil {
		return CollectionEntry{}, err
	}
	return CollectionEntry{Name: name, Size: size, Jobs: jobs}, nil
}
