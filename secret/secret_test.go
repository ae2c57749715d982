package secret

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavanmanishd/rc"
)

func TestNew(t *testing.T) {
	s, err := New(32)
	require.NoError(t, err)

	buf := s.Get()
	require.True(t, buf.IsAlive())
	assert.Equal(t, 32, buf.Size())
	assert.Equal(t, make([]byte, 32), buf.Bytes())

	copy(buf.Bytes(), "hunter2")
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("hunter2")))

	s.Reset()
	assert.False(t, buf.IsAlive())
}

func TestNew_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		_, err := New(size)
		assert.ErrorIs(t, err, ErrInvalidSize)

		_, err = Random(size)
		assert.ErrorIs(t, err, ErrInvalidSize)
	}
}

func TestFromBytes_WipesSource(t *testing.T) {
	src := []byte("correct horse battery staple")
	want := string(src)

	s, err := FromBytes(src)
	require.NoError(t, err)
	defer s.Reset()

	assert.Equal(t, want, string(s.Get().Bytes()))
	assert.Equal(t, make([]byte, len(want)), src)

	_, err = FromBytes(nil)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestRandom(t *testing.T) {
	s, err := Random(64)
	require.NoError(t, err)
	defer s.Reset()

	assert.Equal(t, 64, s.Get().Size())
	assert.NotEqual(t, make([]byte, 64), s.Get().Bytes())
}

func TestSharedOwnersWipeOnLastReset(t *testing.T) {
	s, err := New(16)
	require.NoError(t, err)
	buf := s.Get()

	other := s.Clone()
	w := s.Weak()
	defer w.Reset()

	s.Reset()
	assert.True(t, buf.IsAlive(), "buffer wiped while an owner remains")
	assert.Equal(t, int64(1), w.UseCount())

	other.Reset()
	assert.False(t, buf.IsAlive())
	assert.True(t, w.Expired())
}

func TestDeleterIsWiper(t *testing.T) {
	s, err := New(8)
	require.NoError(t, err)
	defer s.Reset()

	_, ok := rc.DeleterOf[Wiper](s)
	assert.True(t, ok)
}

func TestWiper_IgnoresDeadBuffers(t *testing.T) {
	Wiper{}.Delete(nil)

	s, err := New(8)
	require.NoError(t, err)
	s.Get().Destroy()
	s.Reset()
}

func TestLogsThroughPackageLogger(t *testing.T) {
	var logs bytes.Buffer
	rc.SetLogger(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { rc.SetLogger(nil) })

	s, err := New(8)
	require.NoError(t, err)
	s.Reset()
	assert.Contains(t, logs.String(), "secret: buffer wiped")
	assert.Contains(t, logs.String(), "size=8")

	logs.Reset()
	s, err = New(8)
	require.NoError(t, err)
	Purge()
	assert.False(t, s.Get().IsAlive())
	s.Reset()
	assert.Equal(t, 1, strings.Count(logs.String(), "secret: purged all locked memory"))
	assert.NotContains(t, logs.String(), "secret: buffer wiped", "purged buffers are not wiped twice")
}
