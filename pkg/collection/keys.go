package collection

// Key names fixed by the Sidekiq schema.
const (
	ProcessesKey = "processes"
	QueuesKey    = "queues"
	RetryKey     = "retry"
	ScheduleKey  = "schedule"
	DeadKey      = "dead"

	queuePrefix   = "queue:"
	workersSuffix = ":workers"
)

// Registries of known names.
var (
	Processes = Registry(ProcessesKey)
	Queues    = Registry(QueuesKey)
)

// The three special sorted sets.
var (
	Retry    = Ref{Kind: ScoredSet, Key: RetryKey}
	Schedule = Ref{Kind: ScoredSet, Key: ScheduleKey}
	Dead     = Ref{Kind: ScoredSet, Key: DeadKey}
)

// Queue returns the list backing the named queue.
func Queue(name string) Ref {
	return Ref{Kind: Sequence, Key: queuePrefix + name}
}

// ProcessKey returns the key of a process heartbeat hash.
func ProcessKey(identity string) string { return identity }

// WorkersKey returns the key of a process workers hash.
func WorkersKey(identity string) string { return identity + workersSuffix }
