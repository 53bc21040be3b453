package render

import (
	"bytes"
	"testing"

	"github.com/pixelvide/sidemon/pkg/monitor"
	"github.com/pixelvide/sidemon/pkg/sidekiq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOverview() *monitor.Overview {
	job := sidekiq.Job{
		Args:      []any{"podcast", float64(7)},
		Class:     "HardWorker",
		CreatedAt: 1700000000,
		JID:       "abc",
		Queue:     "default",
		Retry:     sidekiq.RetryBudget(3),
	}
	dead := job
	dead.JID = "dead1"
	dead.RetryInfo = &sidekiq.RetryInfo{
		ErrorClass:   "RuntimeError",
		ErrorMessage: "<boom>",
		FailedAt:     1700000100,
		RetryCount:   1,
	}
	return &monitor.Overview{
		Processes: []monitor.ProcessEntry{
			{Name: "gone1", Gone: true, Workers: []sidekiq.Worker{}},
			{
				Name: "p1",
				Process: &sidekiq.Process{
					Busy: 1,
					Beat: 1700000000.5,
					Info: sidekiq.ProcessInfo{
						Hostname:    "h",
						PID:         42,
						Tag:         "app",
						Concurrency: 5,
						Queues:      []string{"default", "low"},
						Identity:    "p1",
					},
				},
				Workers: []sidekiq.Worker{{ID: "w1", RunAt: 1700000000, Queue: "default", Job: job}},
			},
		},
		Queues:   []monitor.CollectionEntry{{Name: "default", Size: 12, Jobs: []sidekiq.Job{job}}},
		Retry:    monitor.CollectionEntry{Name: "retry", Jobs: []sidekiq.Job{}},
		Schedule: monitor.CollectionEntry{Name: "schedule", Jobs: []sidekiq.Job{}},
		Dead:     monitor.CollectionEntry{Name: "dead", Size: 1, Jobs: []sidekiq.Job{dead}},
	}
}

func TestText_Report(t *testing.T) {
	r, err := Text()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, Report, sampleOverview()))
	out := buf.String()

	assert.Contains(t, out, "\nprocess (gone1): gone\n")
	assert.Contains(t, out, "\nprocess (p1): host=h pid=42 tag=app busy=1/5 quiet=false beat=2023-11-14T22:13:20Z queues=default,low\n")
	assert.Contains(t, out, "\nworkers (p1):\n- w1 queue=default run_at=2023-11-14T22:13:20Z HardWorker jid=abc")
	assert.Contains(t, out, "\ndefault (12):\n- HardWorker jid=abc queue=default args=[\"podcast\",7] created_at=2023-11-14T22:13:20Z retry=3\n")
	assert.Contains(t, out, "\nretry (0):\n")
	assert.Contains(t, out, "\nschedule (0):\n")
	assert.Contains(t, out, "\ndead (1):\n- HardWorker jid=dead1")
	assert.Contains(t, out, "retry_count=1 failed_at=2023-11-14T22:15:00Z error=RuntimeError: <boom>")
}

func TestHTML_Index(t *testing.T) {
	r, err := HTML()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, Index, sampleOverview()))
	out := buf.String()

	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, "<h3>gone1</h3>")
	assert.Contains(t, out, `<p class="gone">gone</p>`)
	assert.Contains(t, out, "<code>w1</code>")
	assert.Contains(t, out, "RuntimeError: &lt;boom&gt;")
	assert.NotContains(t, out, "<boom>")
}

func TestRender_UnknownTemplate(t *testing.T) {
	r, err := Text()
	require.NoError(t, err)

	err = r.Render(&bytes.Buffer{}, "missing", nil)
	assert.ErrorContains(t, err, "render missing")
}

func TestEpoch(t *testing.T) {
	assert.Equal(t, "1970-01-01T00:00:00Z", epoch(0))
	assert.Equal(t, "2023-11-14T22:13:20Z", epoch(1700000000.25))
	assert.Equal(t, "2023-11-14T22:13:20Z", unix(1700000000))
}
