package rc

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureLogs routes package logging to a JSON buffer for the test.
func captureLogs(t *testing.T, level slog.Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: level})))
	t.Cleanup(func() { SetLogger(nil) })
	return &buf
}

func decodeLogs(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	dec := json.NewDecoder(buf)
	for dec.More() {
		var rec map[string]any
		require.NoError(t, dec.Decode(&rec))
		out = append(out, rec)
	}
	return out
}

type failingCloser struct{}

func (failingCloser) Close() error { return errors.New("already closed") }

func TestLogsCloseFailure(t *testing.T) {
	buf := captureLogs(t, slog.LevelInfo)

	New(&failingCloser{}).Reset()

	logs := decodeLogs(t, buf)
	require.Len(t, logs, 1)
	assert.Equal(t, "ERROR", logs[0]["level"])
	assert.Equal(t, "*rc.failingCloser", logs[0]["type"])
	assert.Equal(t, "already closed", logs[0]["error"])
}

func TestLogsAllocationRollback(t *testing.T) {
	buf := captureLogs(t, slog.LevelInfo)

	_, err := NewWithAllocator(&resource{}, DefaultDelete[resource]{}, exhaustedArena())
	require.Error(t, err)

	logs := decodeLogs(t, buf)
	require.Len(t, logs, 1)
	assert.Equal(t, "WARN", logs[0]["level"])
	assert.Equal(t, "*rc.resource", logs[0]["type"])
}

func TestLogsDestroyAtDebug(t *testing.T) {
	buf := captureLogs(t, slog.LevelDebug)

	s := Make(resource{})
	s.Reset()

	logs := decodeLogs(t, buf)
	require.Len(t, logs, 1)
	assert.Equal(t, "DEBUG", logs[0]["level"])
	assert.Equal(t, "intrusive", logs[0]["block"])
}

func TestSetLoggerNilRestoresDefault(t *testing.T) {
	SetLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	SetLogger(nil)
	assert.Same(t, slog.Default(), logger())
}
