package rc

import (
	"reflect"
	"sync"
	"unsafe"
)

// SafeArena is a mutex-protected wrapper around Arena for concurrent access.
// Use it whenever handles backed by the arena may be reset from more than
// one goroutine.
type SafeArena struct {
	mu sync.Mutex
	a  *Arena
}

// NewSafeArena creates a new thread-safe arena with the specified chunk size.
// If chunkSize <= 0, DefaultChunkSize is used.
func NewSafeArena(chunkSize int, opts ...ArenaOption) *SafeArena {
	return &SafeArena{a: NewArena(chunkSize, opts...)}
}

// Allocate thread-safely returns a zeroed slot of type t.
func (s *SafeArena) Allocate(t reflect.Type) (unsafe.Pointer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Allocate(t)
}

// Deallocate thread-safely zeroes the slot at p.
func (s *SafeArena) Deallocate(p unsafe.Pointer, t reflect.Type) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.a.Deallocate(p, t)
}

// EnsureCapacity thread-safely ensures n slots of type t are available.
func (s *SafeArena) EnsureCapacity(t reflect.Type, n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.EnsureCapacity(t, n)
}

// Reset thread-safely zeroes and rewinds the arena.
func (s *SafeArena) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.a.Reset()
}

// Release thread-safely drops all chunks and makes the arena unusable.
func (s *SafeArena) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.a.Release()
}
