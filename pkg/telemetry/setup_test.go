package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracer(t *testing.T) {
	var buf bytes.Buffer
	tp, err := InitTracer("sidemon-test", &buf)
	require.NoError(t, err)

	_, span := tp.Tracer("test").Start(context.Background(), "monitor.Queue")
	span.End()
	require.NoError(t, tp.Shutdown(context.Background()))

	assert.Contains(t, buf.String(), "monitor.Queue")
	assert.Contains(t, buf.String(), "sidemon-test")
}

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	ctx := logger.WithContext(context.Background())

	LoggerFromContext(ctx).Info().Str("queue", "default").Msg("Read collection")

	assert.Contains(t, buf.String(), `"queue":"default"`)
	assert.Contains(t, buf.String(), "Read collection")
}

func TestSetGlobalLogger(t *testing.T) {
	orig := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(orig)

	SetGlobalLogger("debug")
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	SetGlobalLogger("nonsense")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
