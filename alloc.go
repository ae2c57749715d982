package rc

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"unsafe"
)

// Allocator is a memory provider for control blocks and combined
// allocations.
//
// Allocate returns zeroed storage for exactly one value of type t. The
// storage must be typed memory the garbage collector can scan, since
// blocks hold Go pointers. Deallocate returns storage obtained from the
// same Allocator with the same type; it is called exactly once per slot.
type Allocator interface {
	Allocate(t reflect.Type) (unsafe.Pointer, error)
	Deallocate(p unsafe.Pointer, t reflect.Type)
}

// HeapAllocator allocates from the Go heap. Deallocate is a no-op; the
// garbage collector reclaims the slot once it is unreachable.
var HeapAllocator Allocator = heapAllocator{}

type heapAllocator struct{}

func (heapAllocator) Allocate(t reflect.Type) (unsafe.Pointer, error) {
	return reflect.New(t).UnsafePointer(), nil
}

func (heapAllocator) Deallocate(unsafe.Pointer, reflect.Type) {}

// PoolAllocator recycles slots through one sync.Pool per type.
// Deallocated slots are zeroed before they are pooled again.
// The zero value is ready to use and it is safe for concurrent use.
type PoolAllocator struct {
	pools sync.Map // reflect.Type -> *sync.Pool
}

// NewPoolAllocator returns an empty PoolAllocator.
func NewPoolAllocator() *PoolAllocator {
	return &PoolAllocator{}
}

func (p *PoolAllocator) pool(t reflect.Type) *sync.Pool {
	if v, ok := p.pools.Load(t); ok {
		return v.(*sync.Pool)
	}
	v, _ := p.pools.LoadOrStore(t, &sync.Pool{
		New: func() any { return reflect.New(t).Interface() },
	})
	return v.(*sync.Pool)
}

// Allocate returns a pooled or freshly allocated zeroed slot of type t.
func (p *PoolAllocator) Allocate(t reflect.Type) (unsafe.Pointer, error) {
	return reflect.ValueOf(p.pool(t).Get()).UnsafePointer(), nil
}

// Deallocate zeroes the slot and hands it back to the pool for t.
func (p *PoolAllocator) Deallocate(ptr unsafe.Pointer, t reflect.Type) {
	if ptr == nil {
		return
	}
	v := reflect.NewAt(t, ptr)
	v.Elem().SetZero()
	p.pool(t).Put(v.Interface())
}

// Alloc returns a zeroed *T obtained from a. A nil Allocator means
// HeapAllocator. Errors wrap ErrAllocationFailure.
func Alloc[T any](a Allocator) (*T, error) {
	if a == nil {
		a = HeapAllocator
	}
	p, err := a.Allocate(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return nil, allocError(err)
	}
	if p == nil {
		return nil, ErrAllocationFailure
	}
	return (*T)(p), nil
}

// Free returns p, obtained from Alloc with the same Allocator, to a.
func Free[T any](a Allocator, p *T) {
	if p == nil {
		return
	}
	if a == nil {
		a = HeapAllocator
	}
	a.Deallocate(unsafe.Pointer(p), reflect.TypeOf((*T)(nil)).Elem())
}

func allocError(err error) error {
	if errors.Is(err, ErrAllocationFailure) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrAllocationFailure, err)
}
