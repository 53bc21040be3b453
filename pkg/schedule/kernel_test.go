package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKernel_RegisterInvalidSchedule(t *testing.T) {
	k := NewKernel()

	err := k.Register("every now and then", func(context.Context) {}, Named("report"))

	assert.ErrorContains(t, err, "schedule report")
}

func TestKernel_RunUntilCancelled(t *testing.T) {
	k := NewKernel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var runs atomic.Int32
	require.NoError(t, k.Register("@every 1s", func(ctx context.Context) {
		runs.Add(1)
		cancel()
	}, WithoutOverlapping()))

	done := make(chan error, 1)
	go func() { done <- k.Run(ctx) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("kernel did not stop")
	}
	assert.GreaterOrEqual(t, runs.Load(), int32(1))
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestKernel_SecondsField(t *testing.T) {
	k := NewKernel()

	assert.NoError(t, k.Register("*/5 * * * * *", func(context.Context) {}))
	assert.NoError(t, k.Register("@hourly", func(context.Context) {}))
	assert.Error(t, k.Register("* * * * *", func(context.Context) {}))
}
