package sidekiq

// DecodeWorker decodes one field of a workers hash. The payload member is a JSON
// string that holds the job document, so the job is decoded in a second pass.
func DecodeWorker(id string, raw []byte) (Worker, error) {
	doc, err := parseDocument(recordWorker, raw)
	if err != nil {
		return Worker{}, err
	}

	w := Worker{ID: id}
	var payload string
	err = doc.decode(
		member{"run_at", &w.RunAt},
		member{"queue", &w.Queue},
		member{"payload", &payload},
	)
	if err != nil {
		return Worker{}, err
	}
	if err := doc.rejectUnknown(); err != nil {
		return Worker{}, err
	}

	if w.Job, err = DecodeJob([]byte(payload)); err != nil {
		return Worker{}, &DecodeError{Record: recordWorker, Kind: NestedDecodeFailure, Field: "payload", Err: err}
	}
	return w, nil
}
