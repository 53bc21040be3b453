package sidekiq

// Process is one running Sidekiq process as recorded by its heartbeat hash.
type Process struct {
	Busy  int         `json:"busy"`
	Info  ProcessInfo `json:"info"`
	Quiet bool        `json:"quiet"`
	Beat  float64     `json:"beat"`
}

// ProcessInfo is the static description a process publishes when it starts.
// Identity doubles as the key of the heartbeat hash and the prefix of the workers hash.
type ProcessInfo struct {
	Hostname    string   `json:"hostname"`
	StartedAt   float64  `json:"started_at"`
	PID         int      `json:"pid"`
	Tag         string   `json:"tag"`
	Concurrency int      `json:"concurrency"`
	Queues      []string `json:"queues"`
	Labels      []string `json:"labels"`
	Identity    string   `json:"identity"`
}

// Worker is a busy slot inside a process together with the job it is running.
type Worker struct {
	ID    string `json:"id"`
	RunAt int64  `json:"run_at"`
	Queue string `json:"queue"`
	Job   Job    `json:"job"`
}

// Job is a single unit of work as stored in a queue, a worker slot or one of the
// retry, schedule and dead sets. Numbers inside Args decode as json.Number.
type Job struct {
	Args      []any      `json:"args"`
	Class     string     `json:"class"`
	CreatedAt float64    `json:"created_at"`
	JID       string     `json:"jid"`
	Queue     string     `json:"queue"`
	Retry     Retry      `json:"retry"`
	RetryInfo *RetryInfo `json:"retry_info"`
}

// RetryInfo is the failure bookkeeping added to a job once it has failed.
// On the wire its fields are siblings of the job's own fields.
type RetryInfo struct {
	EnqueuedAt   float64 `json:"enqueued_at"`
	ErrorClass   string  `json:"error_class"`
	ErrorMessage string  `json:"error_message"`
	FailedAt     float64 `json:"failed_at"`
	RetriedAt    float64 `json:"retried_at"`
	RetryCount   int     `json:"retry_count"`
}
