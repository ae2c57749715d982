package rc

import (
	"fmt"
	"reflect"
	"unsafe"
)

// DefaultChunkSize is the default chunk size for new arenas (64 KiB).
const DefaultChunkSize = 1 << 16

// chunk is a typed array of slots. Slots are handed out in order.
type chunk struct {
	typ    reflect.Type
	base   unsafe.Pointer // first slot; keeps the array reachable
	size   uintptr        // slot size in bytes
	slots  int
	offset int // next free slot
}

func (c *chunk) slot(i int) unsafe.Pointer {
	return unsafe.Add(c.base, uintptr(i)*c.size)
}

// Arena is a chunked bump allocator of typed slots. It implements
// Allocator. Not goroutine-safe; use SafeArena for concurrent access.
//
// Individual Deallocate calls only zero their slot. Once every slot handed
// out has been deallocated, the arena rewinds all chunks and reuses them.
type Arena struct {
	chunks    []chunk
	current   map[reflect.Type]int // chunk currently serving each type
	chunkSize int
	limit     int
	live      int
	released  bool
}

// ArenaOption configures an Arena.
type ArenaOption func(*Arena)

// WithLimit caps the arena's total capacity in bytes. Allocations that
// would need a chunk beyond the cap fail with ErrAllocationFailure.
// A limit <= 0 means unbounded.
func WithLimit(bytes int) ArenaOption {
	return func(a *Arena) {
		a.limit = bytes
	}
}

// NewArena creates a new Arena with the specified chunk size in bytes.
// If chunkSize <= 0, DefaultChunkSize is used.
func NewArena(chunkSize int, opts ...ArenaOption) *Arena {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	a := &Arena{
		chunkSize: chunkSize,
		current:   make(map[reflect.Type]int),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Allocate returns a zeroed slot of type t.
func (a *Arena) Allocate(t reflect.Type) (unsafe.Pointer, error) {
	if a.released {
		return nil, fmt.Errorf("%w: arena released", ErrAllocationFailure)
	}

	// Fast path: the chunk currently serving t has room
	if i, ok := a.current[t]; ok {
		c := &a.chunks[i]
		if c.offset < c.slots {
			p := c.slot(c.offset)
			c.offset++
			a.live++
			return p, nil
		}
	}

	return a.allocateSlow(t)
}

// allocateSlow reuses a rewound chunk of the same type or grows a new one.
func (a *Arena) allocateSlow(t reflect.Type) (unsafe.Pointer, error) {
	c := a.findFree(t)
	if c == nil {
		var err error
		if c, err = a.grow(t, 1); err != nil {
			return nil, err
		}
	}
	p := c.slot(c.offset)
	c.offset++
	a.live++
	return p, nil
}

func (a *Arena) findFree(t reflect.Type) *chunk {
	for i := range a.chunks {
		c := &a.chunks[i]
		if c.typ == t && c.offset < c.slots {
			a.current[t] = i
			return c
		}
	}
	return nil
}

// Deallocate zeroes the slot at p. When no allocation is live any more the
// arena rewinds for reuse.
func (a *Arena) Deallocate(p unsafe.Pointer, t reflect.Type) {
	if a.released || p == nil {
		return
	}
	if a.live == 0 {
		panic("arena: Deallocate without a live allocation")
	}
	reflect.NewAt(t, p).Elem().SetZero()
	a.live--
	if a.live == 0 {
		a.rewind()
	}
}

// EnsureCapacity ensures n slots of type t can be allocated without
// growing. If the chunks for t are short, a chunk of at least n slots is
// added.
func (a *Arena) EnsureCapacity(t reflect.Type, n int) error {
	a.panicIfReleased()
	free := 0
	for i := range a.chunks {
		if c := &a.chunks[i]; c.typ == t {
			free += c.slots - c.offset
		}
	}
	if free >= n {
		return nil
	}
	_, err := a.grow(t, n)
	return err
}

// Reset zeroes every chunk and rewinds all offsets, keeping the chunks for
// reuse. Every outstanding allocation becomes invalid.
func (a *Arena) Reset() {
	a.panicIfReleased()
	for i := range a.chunks {
		c := &a.chunks[i]
		reflect.NewAt(reflect.ArrayOf(c.slots, c.typ), c.base).Elem().SetZero()
	}
	a.live = 0
	a.rewind()
}

// Release drops all chunks and makes the arena unusable.
// Later allocations fail; Reset and EnsureCapacity panic.
func (a *Arena) Release() {
	a.chunks = nil
	a.current = nil
	a.live = 0
	a.released = true
}

// rewind moves every offset back to zero. Slots must already be zeroed.
func (a *Arena) rewind() {
	clear(a.current)
	for i := range a.chunks {
		c := &a.chunks[i]
		c.offset = 0
		if _, ok := a.current[c.typ]; !ok {
			a.current[c.typ] = i
		}
	}
}

// grow appends a chunk for t holding at least minSlots slots.
func (a *Arena) grow(t reflect.Type, minSlots int) (*chunk, error) {
	size := t.Size()
	slots := a.chunkSize
	if size > 0 {
		slots = a.chunkSize / int(size)
	}
	if slots < minSlots {
		slots = minSlots
	}
	if slots < 1 {
		slots = 1
	}

	if a.limit > 0 {
		room := a.limit - a.Capacity()
		if size > 0 && slots*int(size) > room {
			slots = room / int(size)
		}
		if slots < minSlots {
			return nil, fmt.Errorf("%w: arena limit of %d bytes reached allocating %s",
				ErrAllocationFailure, a.limit, t)
		}
	}

	arr := reflect.New(reflect.ArrayOf(slots, t))
	a.chunks = append(a.chunks, chunk{
		typ:   t,
		base:  arr.UnsafePointer(),
		size:  size,
		slots: slots,
	})
	i := len(a.chunks) - 1
	a.current[t] = i
	return &a.chunks[i], nil
}

// panicIfReleased panics if the arena has been released.
func (a *Arena) panicIfReleased() {
	if a.released {
		panic("arena: use after Release()")
	}
}
