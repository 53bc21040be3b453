package sidekiq

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies why a record failed to decode.
type Kind int

const (
	UnknownField Kind = iota + 1
	MissingField
	TypeMismatch
	NestedDecodeFailure
	MalformedDocument
)

var (
	ErrUnknownField = errors.New("unknown field")
	ErrMissingField = errors.New("missing field")
	ErrTypeMismatch = errors.New("type mismatch")
	ErrNestedDecode = errors.New("nested decode failure")
	ErrMalformed    = errors.New("malformed document")
)

func (k Kind) sentinel() error {
	switch k {
	case UnknownField:
		return ErrUnknownField
	case MissingField:
		return ErrMissingField
	case TypeMismatch:
		return ErrTypeMismatch
	case NestedDecodeFailure:
		return ErrNestedDecode
	case MalformedDocument:
		return ErrMalformed
	}
	return nil
}

func (k Kind) String() string {
	if err := k.sentinel(); err != nil {
		return err.Error()
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// DecodeError reports a record that does not match the expected schema.
// Err carries the cause: a JSON error, a strconv error or the DecodeError of a nested document.
type DecodeError struct {
	Record string
	Kind   Kind
	Field  string
	Err    error
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	b.WriteString("sidekiq: decode ")
	b.WriteString(e.Record)
	b.WriteString(": ")
	b.WriteString(e.Kind.String())
	if e.Field != "" {
		fmt.Fprintf(&b, " %q", e.Field)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrMissingField) and friends match on the kind.
func (e *DecodeError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}
