package sidekiq

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// retryInfoFields lists the wire names of RetryInfo. A job carries all of them or none.
var retryInfoFields = []string{
	"enqueued_at",
	"error_class",
	"error_message",
	"failed_at",
	"retried_at",
	"retry_count",
}

var errPartialRetryInfo = errors.New("retry info is only partially present")

// Retry is the retry setting of a job: either a plain switch or a retry budget.
type Retry struct {
	Enabled bool
	Budget  int
	// Counted is set when the setting was given as a number.
	Counted bool
}

// RetryEnabled returns a boolean retry setting.
func RetryEnabled(enabled bool) Retry {
	return Retry{Enabled: enabled}
}

// RetryBudget returns a numeric retry setting.
func RetryBudget(n int) Retry {
	return Retry{Enabled: n > 0, Budget: n, Counted: true}
}

func (r Retry) String() string {
	if r.Counted {
		return strconv.Itoa(r.Budget)
	}
	return strconv.FormatBool(r.Enabled)
}

func (r Retry) MarshalJSON() ([]byte, error) {
	if r.Counted {
		return json.Marshal(r.Budget)
	}
	return json.Marshal(r.Enabled)
}

func (r *Retry) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if !bytes.Equal(data, []byte("null")) {
		var enabled bool
		if json.Unmarshal(data, &enabled) == nil {
			*r = RetryEnabled(enabled)
			return nil
		}
		var n int
		if json.Unmarshal(data, &n) == nil && n >= 0 {
			*r = RetryBudget(n)
			return nil
		}
	}
	return fmt.Errorf("retry must be a boolean or a non-negative integer, got %s", data)
}

// DecodeJob decodes a job document. Retry metadata is read from the same level
// as the job fields and is kept only when all of its fields are present.
func DecodeJob(raw []byte) (Job, error) {
	doc, err := parseDocument(recordJob, raw)
	if err != nil {
		return Job{}, err
	}

	var job Job
	err = doc.decode(
		member{"args", &job.Args},
		member{"class", &job.Class},
		member{"created_at", &job.CreatedAt},
		member{"jid", &job.JID},
		member{"queue", &job.Queue},
		member{"retry", &job.Retry},
	)
	if err != nil {
		return Job{}, err
	}

	info, err := decodeRetryInfo(doc)
	if err != nil {
		return Job{}, err
	}
	job.RetryInfo = info

	if err := doc.rejectUnknown(); err != nil {
		return Job{}, err
	}
	return job, nil
}

func decodeRetryInfo(doc *document) (*RetryInfo, error) {
	present := 0
	missing := ""
	for _, name := range retryInfoFields {
		if doc.has(name) {
			present++
		} else if missing == "" {
			missing = name
		}
	}
	switch present {
	case 0:
		return nil, nil
	case len(retryInfoFields):
	default:
		return nil, &DecodeError{Record: doc.record, Kind: MissingField, Field: missing, Err: errPartialRetryInfo}
	}

	var info RetryInfo
	err := doc.decode(
		member{"enqueued_at", &info.EnqueuedAt},
		member{"error_class", &info.ErrorClass},
		member{"error_message", &info.ErrorMessage},
		member{"failed_at", &info.FailedAt},
		member{"retried_at", &info.RetriedAt},
		member{"retry_count", &info.RetryCount},
	)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// wireJob is the stored layout of a job: retry info fields sit next to the job fields.
type wireJob struct {
	Args      []any   `json:"args"`
	Class     string  `json:"class"`
	CreatedAt float64 `json:"created_at"`
	JID       string  `json:"jid"`
	Queue     string  `json:"queue"`
	Retry     Retry   `json:"retry"`
	*RetryInfo
}

// EncodeJob renders a job in the layout DecodeJob reads.
func EncodeJob(job Job) ([]byte, error) {
	args := job.Args
	if args == nil {
		args = []any{}
	}
	return json.Marshal(wireJob{
		Args:      args,
		Class:     job.Class,
		CreatedAt: job.CreatedAt,
		JID:       job.JID,
		Queue:     job.Queue,
		Retry:     job.Retry,
		RetryInfo: job.RetryInfo,
	})
}
