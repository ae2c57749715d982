package rc

import (
	"fmt"
	"log/slog"
)

// noCopy makes go vet's copylocks check report handles copied by value.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// nilReceiver panics for a method that must store ownership into a nil
// handle. Methods that only read or release treat nil as empty.
func nilReceiver(method string) {
	panic("rc: " + method + " on nil handle")
}

// Shared is an owning handle. The object it owns is destroyed when the
// last Shared handle sharing its control block is reset.
//
// A nil *Shared and the zero Shared are empty. Use Clone to add an owner
// and Move to transfer one; never copy the struct itself. Methods that
// read or release accept a nil receiver; Assign, MoveFrom, MoveFromUnique,
// ResetTo and a non-trivial Swap panic on one.
type Shared[T any] struct {
	_   noCopy
	ptr *T
	blk ControlBlock
}

// New takes ownership of p with the DefaultDelete destroy policy.
// A nil p is owned too: UseCount is 1 and nothing is destroyed.
func New[T any](p *T) *Shared[T] {
	s := &Shared[T]{ptr: p, blk: newDefaultBlock(p)}
	enableSelf(s)
	return s
}

// NewWithDeleter takes ownership of p; d runs exactly once, with p, when
// the last owner is reset.
func NewWithDeleter[T any, D Deleter[T]](p *T, d D) *Shared[T] {
	s := &Shared[T]{ptr: p, blk: newDeleterBlock(p, d)}
	enableSelf(s)
	return s
}

// NewWithAllocator is NewWithDeleter with the control block stored in
// memory obtained from a (nil means HeapAllocator). If a cannot supply the
// block, d is run on p before the error is returned, so p is never leaked.
// The error wraps ErrAllocationFailure.
func NewWithAllocator[T any, D Deleter[T]](p *T, d D, a Allocator) (*Shared[T], error) {
	if a == nil {
		a = HeapAllocator
	}
	b, err := Alloc[allocBlock[T, D]](a)
	if err != nil {
		d.Delete(p)
		stats.allocFailures.Add(1)
		logger().Warn("rc: control block allocation failed, object destroyed",
			slog.String("type", fmt.Sprintf("%T", p)),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("rc: control block for %T: %w", p, err)
	}
	b.ptr, b.del, b.alloc = p, d, a
	b.init(b)

	s := &Shared[T]{ptr: p, blk: b}
	enableSelf(s)
	return s, nil
}

// Make stores v and its counts in a single heap allocation.
func Make[T any](v T) *Shared[T] {
	b := &intrusiveBlock[T]{value: v, alloc: HeapAllocator}
	b.init(b)
	s := &Shared[T]{ptr: &b.value, blk: b}
	enableSelf(s)
	return s
}

// Allocate obtains one slot from a holding both the counts and a zeroed T,
// then lets init construct the object in place. If init fails the slot is
// returned to a and init's error is returned unchanged. The object is
// destroyed with DefaultDelete; the slot goes back to a once no weak
// handle observes it any more.
func Allocate[T any](a Allocator, init func(*T) error) (*Shared[T], error) {
	if a == nil {
		a = HeapAllocator
	}
	b, err := Alloc[intrusiveBlock[T]](a)
	if err != nil {
		stats.allocFailures.Add(1)
		return nil, fmt.Errorf("rc: combined allocation for %T: %w", (*T)(nil), err)
	}
	if init != nil {
		if err := init(&b.value); err != nil {
			Free(a, b)
			return nil, err
		}
	}
	b.alloc = a
	b.init(b)

	s := &Shared[T]{ptr: &b.value, blk: b}
	enableSelf(s)
	return s, nil
}

// NewAlias returns a handle that co-owns owner's object but points at p,
// typically a field of that object. owner is unaffected.
//
// If owner is empty the result owns nothing: it carries p with no control
// block and UseCount 0, a non-owning view.
func NewAlias[U, T any](owner *Shared[T], p *U) *Shared[U] {
	if owner == nil || owner.blk == nil {
		return &Shared[U]{ptr: p}
	}
	return &Shared[U]{ptr: p, blk: newAliasBlock(owner.blk)}
}

// Convert returns a new owner of s's object that points at f(s.Get()).
// Unlike NewAlias it shares s's control block directly.
func Convert[U, T any](s *Shared[T], f func(*T) *U) *Shared[U] {
	if s == nil || s.blk == nil {
		return &Shared[U]{}
	}
	p := f(s.ptr)
	b := s.blk.Resolve()
	b.Link()
	return &Shared[U]{ptr: p, blk: b}
}

// FromWeak promotes w to an owning handle. It fails with ErrExpired when
// w is empty or its object has been destroyed.
func FromWeak[T any](w *Weak[T]) (*Shared[T], error) {
	if w == nil || w.blk == nil {
		return nil, ErrExpired
	}
	b := w.blk.Resolve()
	if !b.TryLink() {
		return nil, ErrExpired
	}
	return &Shared[T]{ptr: w.ptr, blk: b}, nil
}

// FromUnique transfers ownership from u, keeping u's destroy policy.
// u is left empty. An empty u yields an empty handle.
func FromUnique[T any](u *Unique[T]) *Shared[T] {
	if u == nil || u.ptr == nil {
		return &Shared[T]{}
	}
	p := u.ptr
	s := &Shared[T]{ptr: p, blk: newDeleterBlock(p, u.deleter())}
	u.ptr = nil
	enableSelf(s)
	return s
}

// DeleterOf returns the destroy policy stored for s's object if it has
// type D.
func DeleterOf[D, T any](s *Shared[T]) (D, bool) {
	var zero D
	if s == nil || s.blk == nil {
		return zero, false
	}
	d, ok := s.blk.Resolve().Deleter().(D)
	if !ok {
		return zero, false
	}
	return d, true
}

// Get returns the raw pointer, or nil.
func (s *Shared[T]) Get() *T {
	if s == nil {
		return nil
	}
	return s.ptr
}

// Deref returns the raw pointer and panics if there is none.
func (s *Shared[T]) Deref() *T {
	if s == nil || s.ptr == nil {
		panic("rc: dereference of empty Shared")
	}
	return s.ptr
}

// UseCount returns the number of owners, 0 if s is empty.
func (s *Shared[T]) UseCount() int64 {
	if s == nil || s.blk == nil {
		return 0
	}
	return s.blk.Count()
}

// IsUnique reports whether s is the only owner.
func (s *Shared[T]) IsUnique() bool {
	return s.UseCount() == 1
}

// Valid reports whether s holds a non-nil pointer.
func (s *Shared[T]) Valid() bool {
	return s.Get() != nil
}

// Owner returns the authoritative control block, or nil. Two handles
// co-own the same object iff their owners are equal.
func (s *Shared[T]) Owner() ControlBlock {
	if s == nil || s.blk == nil {
		return nil
	}
	return s.blk.Resolve()
}

// Clone returns a new owner of the same object.
func (s *Shared[T]) Clone() *Shared[T] {
	if s == nil || s.blk == nil {
		return &Shared[T]{}
	}
	b := s.blk.Resolve()
	b.Link()
	return &Shared[T]{ptr: s.ptr, blk: b}
}

// Move returns a handle holding s's ownership and leaves s empty.
func (s *Shared[T]) Move() *Shared[T] {
	if s == nil {
		return &Shared[T]{}
	}
	m := &Shared[T]{ptr: s.ptr, blk: s.blk}
	s.ptr, s.blk = nil, nil
	return m
}

// Assign makes s another owner of r's object, releasing what s owned.
// Assigning between handles of the same block leaves the count unchanged.
func (s *Shared[T]) Assign(r *Shared[T]) {
	if s == r {
		return
	}
	if s == nil {
		nilReceiver("Assign")
	}
	var (
		np *T
		nb ControlBlock
	)
	if r != nil && r.blk != nil {
		np, nb = r.ptr, r.blk.Resolve()
	}
	if s.blk != nb {
		if s.blk != nil {
			s.blk.Unlink()
		}
		if nb != nil {
			nb.Link()
		}
		s.blk = nb
	}
	s.ptr = np
}

// MoveFrom releases what s owned, then takes over r's ownership, leaving
// r empty.
func (s *Shared[T]) MoveFrom(r *Shared[T]) {
	if s == r {
		return
	}
	if s == nil {
		nilReceiver("MoveFrom")
	}
	if s.blk != nil {
		s.blk.Unlink()
	}
	s.ptr, s.blk = nil, nil
	if r != nil {
		s.ptr, s.blk = r.ptr, r.blk
		r.ptr, r.blk = nil, nil
	}
}

// MoveFromUnique releases what s owned and takes over u's object and
// destroy policy, leaving u empty.
func (s *Shared[T]) MoveFromUnique(u *Unique[T]) {
	if s == nil {
		nilReceiver("MoveFromUnique")
	}
	s.MoveFrom(FromUnique(u))
}

// Swap exchanges the contents of s and r. A nil handle may only be
// swapped with an empty one.
func (s *Shared[T]) Swap(r *Shared[T]) {
	if s == r {
		return
	}
	if s == nil || r == nil {
		if s.Get() != nil || r.Get() != nil || s.Owner() != nil || r.Owner() != nil {
			nilReceiver("Swap")
		}
		return
	}
	s.ptr, r.ptr = r.ptr, s.ptr
	s.blk, r.blk = r.blk, s.blk
}

// Reset drops s's ownership and leaves it empty. It is safe on an empty
// or nil handle.
func (s *Shared[T]) Reset() {
	if s == nil {
		return
	}
	b := s.blk
	s.ptr, s.blk = nil, nil
	if b != nil {
		b.Unlink()
	}
}

// ResetTo releases what s owned and takes ownership of p, as New does.
func (s *Shared[T]) ResetTo(p *T) {
	if s == nil {
		nilReceiver("ResetTo")
	}
	s.MoveFrom(New(p))
}

// Weak returns a weak handle observing s's object.
func (s *Shared[T]) Weak() *Weak[T] {
	if s == nil || s.blk == nil {
		return &Weak[T]{}
	}
	b := s.blk.Resolve()
	b.WeakLink()
	return &Weak[T]{ptr: s.ptr, blk: b}
}

// String formats the raw pointer.
func (s *Shared[T]) String() string {
	return fmt.Sprintf("%p", s.Get())
}
