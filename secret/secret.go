// Package secret shares mlocked memory between several owners. The buffer
// is wiped and unlocked the moment its last owner resets its handle,
// instead of whenever the garbage collector gets to it.
package secret

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/awnumar/memguard"

	"github.com/pavanmanishd/rc"
)

// ErrInvalidSize is returned when asking for a buffer smaller than one byte.
var ErrInvalidSize = errors.New("secret: size must be positive")

// Buffer is a shared handle to a locked buffer.
type Buffer = rc.Shared[memguard.LockedBuffer]

// Wiper is the destroy policy of every Buffer: it wipes and unlocks the
// memory and unregisters it from memguard.
type Wiper struct{}

// Delete destroys b. A nil or already destroyed buffer is ignored.
func (Wiper) Delete(b *memguard.LockedBuffer) {
	if b == nil || !b.IsAlive() {
		return
	}
	size := b.Size()
	b.Destroy()
	rc.Logger().Debug("secret: buffer wiped", slog.Int("size", size))
}

// New allocates a zeroed, mutable locked buffer of size bytes.
func New(size int) (*Buffer, error) {
	if size < 1 {
		return nil, fmt.Errorf("secret: new buffer of %d bytes: %w", size, ErrInvalidSize)
	}
	b := memguard.NewBuffer(size)
	if b == nil || !b.IsAlive() {
		return nil, fmt.Errorf("secret: new buffer of %d bytes: %w", size, rc.ErrAllocationFailure)
	}
	b.Melt()
	return own(b), nil
}

// FromBytes moves src into a locked buffer. src is wiped.
func FromBytes(src []byte) (*Buffer, error) {
	if len(src) == 0 {
		return nil, fmt.Errorf("secret: buffer from empty slice: %w", ErrInvalidSize)
	}
	b := memguard.NewBufferFromBytes(src)
	if !b.IsAlive() {
		return nil, fmt.Errorf("secret: buffer from %d bytes: %w", len(src), rc.ErrAllocationFailure)
	}
	return own(b), nil
}

// Random allocates a locked buffer filled with size cryptographically
// random bytes.
func Random(size int) (*Buffer, error) {
	if size < 1 {
		return nil, fmt.Errorf("secret: random buffer of %d bytes: %w", size, ErrInvalidSize)
	}
	b := memguard.NewBufferRandom(size)
	if !b.IsAlive() {
		return nil, fmt.Errorf("secret: random buffer of %d bytes: %w", size, rc.ErrAllocationFailure)
	}
	return own(b), nil
}

func own(b *memguard.LockedBuffer) *Buffer {
	return rc.NewWithDeleter[memguard.LockedBuffer](b, Wiper{})
}

// Purge wipes every buffer memguard knows about, owned or not. Handles
// stay valid as handles but their buffers are dead.
func Purge() {
	memguard.Purge()
	rc.Logger().Info("secret: purged all locked memory")
}
