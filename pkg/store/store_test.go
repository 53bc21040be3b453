package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	err := &Error{Op: "hgetall", Key: "p1", Err: context.DeadlineExceeded}

	assert.EqualError(t, err, `store: hgetall "p1": context deadline exceeded`)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	err = &Error{Op: "ping", Err: errors.New("connection refused")}
	assert.EqualError(t, err, "store: ping: connection refused")
}
