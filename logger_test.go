package vecbuf

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerEmitsGrowthEvents(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	v, err := New(4, 2, 16, WithLogger(logger))
	require.NoError(t, err)

	elem := make([]byte, 4)
	for i := 0; i < 3; i++ {
		require.NoError(t, v.Push(elem))
	}

	out := buf.String()
	assert.Contains(t, out, "vector constructed")
	assert.Contains(t, out, "capacity grown")
	assert.Contains(t, out, `"strategy":"contiguous"`)
}

func TestNoopLoggerDiscards(t *testing.T) {
	v, err := New(4, 0, 16, WithLogger(NoopLogger()))
	require.NoError(t, err)
	require.NoError(t, v.Push(make([]byte, 4)))
}
