package sidekiq

import (
	"bytes"
	"encoding/json"
	"errors"
	"sort"
)

const (
	recordJob         = "job"
	recordProcess     = "process"
	recordProcessInfo = "process info"
	recordWorker      = "worker"
)

var (
	errNullDocument = errors.New("document is null")
	errNullValue    = errors.New("value is null")
)

// document is a JSON object split into its raw members. Members are marked as
// used when decoded so that anything left over can be rejected.
type document struct {
	record string
	fields map[string]json.RawMessage
	used   map[string]bool
}

type member struct {
	name string
	dst  any
}

func parseDocument(record string, raw []byte) (*document, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, &DecodeError{Record: record, Kind: MalformedDocument, Err: err}
	}
	if fields == nil {
		return nil, &DecodeError{Record: record, Kind: MalformedDocument, Err: errNullDocument}
	}
	return &document{record: record, fields: fields, used: make(map[string]bool, len(fields))}, nil
}

func (d *document) has(name string) bool {
	_, ok := d.fields[name]
	return ok
}

func (d *document) field(name string, dst any) error {
	raw, ok := d.fields[name]
	if !ok {
		return &DecodeError{Record: d.record, Kind: MissingField, Field: name}
	}
	d.used[name] = true
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return &DecodeError{Record: d.record, Kind: TypeMismatch, Field: name, Err: errNullValue}
	}
	// Numbers landing in untyped values stay json.Number so large integers keep every digit.
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return &DecodeError{Record: d.record, Kind: TypeMismatch, Field: name, Err: err}
	}
	return nil
}

func (d *document) decode(members ...member) error {
	for _, m := range members {
		if err := d.field(m.name, m.dst); err != nil {
			return err
		}
	}
	return nil
}

// rejectUnknown fails on the first member, in name order, that no decode call consumed.
func (d *document) rejectUnknown() error {
	names := make([]string, 0, len(d.fields))
	for name := range d.fields {
		if !d.used[name] {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil
	}
	sort.Strings(names)
	return &DecodeError{Record: d.record, Kind: UnknownField, Field: names[0]}
}
