package sidekiq

import (
	"slices"
	"sort"
	"strconv"
)

// processFields are the members of a heartbeat hash, in the order they are checked.
var processFields = []string{"busy", "info", "quiet", "beat"}

// DecodeProcess decodes the fields of a heartbeat hash. busy, quiet and beat are
// scalars stored as strings; info holds a complete ProcessInfo JSON document.
func DecodeProcess(fields map[string]string) (Process, error) {
	for _, name := range processFields {
		if _, ok := fields[name]; !ok {
			return Process{}, &DecodeError{Record: recordProcess, Kind: MissingField, Field: name}
		}
	}
	if err := rejectUnknownHashFields(fields); err != nil {
		return Process{}, err
	}

	var (
		p   Process
		err error
	)
	if p.Busy, err = strconv.Atoi(fields["busy"]); err != nil {
		return Process{}, &DecodeError{Record: recordProcess, Kind: TypeMismatch, Field: "busy", Err: err}
	}
	if p.Quiet, err = strconv.ParseBool(fields["quiet"]); err != nil {
		return Process{}, &DecodeError{Record: recordProcess, Kind: TypeMismatch, Field: "quiet", Err: err}
	}
	if p.Beat, err = strconv.ParseFloat(fields["beat"], 64); err != nil {
		return Process{}, &DecodeError{Record: recordProcess, Kind: TypeMismatch, Field: "beat", Err: err}
	}
	if p.Info, err = DecodeProcessInfo([]byte(fields["info"])); err != nil {
		return Process{}, &DecodeError{Record: recordProcess, Kind: NestedDecodeFailure, Field: "info", Err: err}
	}
	return p, nil
}

func rejectUnknownHashFields(fields map[string]string) error {
	var unknown []string
	for name := range fields {
		if !slices.Contains(processFields, name) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return &DecodeError{Record: recordProcess, Kind: UnknownField, Field: unknown[0]}
}

// DecodeProcessInfo decodes the info document of a heartbeat hash.
func DecodeProcessInfo(raw []byte) (ProcessInfo, error) {
	doc, err := parseDocument(recordProcessInfo, raw)
	if err != nil {
		return ProcessInfo{}, err
	}

	var info ProcessInfo
	err = doc.decode(
		member{"hostname", &info.Hostname},
		member{"started_at", &info.StartedAt},
		member{"pid", &info.PID},
		member{"tag", &info.Tag},
		member{"concurrency", &info.Concurrency},
		member{"queues", &info.Queues},
		member{"labels", &info.Labels},
		member{"identity", &info.Identity},
	)
	if err != nil {
		return ProcessInfo{}, err
	}
	if err := doc.rejectUnknown(); err != nil {
		return ProcessInfo{}, err
	}
	return info, nil
}
