package rc

import (
	"fmt"
	"unsafe"
)

// SelfObserver lets an object hand out handles to itself. Embed it in the
// object's struct type:
//
//	type Session struct {
//		rc.SelfObserver[Session]
//		// ...
//	}
//
// The first Shared handle that takes ownership of a *Session wires the
// embedded observer; from then on the session can call SharedFromThis.
type SelfObserver[T any] struct {
	self Weak[T]
}

// selfObserving is the capability checked by every constructor that takes
// ownership of a raw pointer.
type selfObserving[T any] interface {
	selfObserver() *SelfObserver[T]
}

func (o *SelfObserver[T]) selfObserver() *SelfObserver[T] { return o }

// SharedFromThis returns a new owner of the enclosing object. It fails
// with ErrExpired if no Shared handle owns the object, either yet or any
// more.
func (o *SelfObserver[T]) SharedFromThis() (*Shared[T], error) {
	if o.foreign() {
		return nil, fmt.Errorf("rc: %T is not owned: %w", (*T)(nil), ErrExpired)
	}
	s, err := FromWeak(&o.self)
	if err != nil {
		return nil, fmt.Errorf("rc: %T is not owned: %w", (*T)(nil), err)
	}
	return s, nil
}

// WeakFromThis returns a weak handle to the enclosing object, empty if no
// Shared handle owns it.
func (o *SelfObserver[T]) WeakFromThis() *Weak[T] {
	if o.foreign() {
		return &Weak[T]{}
	}
	return o.self.Clone()
}

// foreign reports whether the observation was inherited by copying another
// object: o does not lie inside the object it points at. Such an
// observation was never linked by o and must not be released through it.
func (o *SelfObserver[T]) foreign() bool {
	p := o.self.ptr
	if p == nil {
		return false
	}
	base := uintptr(unsafe.Pointer(p))
	at := uintptr(unsafe.Pointer(o))
	return at < base || at >= base+unsafe.Sizeof(*p)
}

// enableSelf wires a self-observing object to the handle that has just
// taken ownership of it. An object already owned elsewhere keeps its
// first owner.
func enableSelf[T any](s *Shared[T]) {
	if s.ptr == nil || s.blk == nil {
		return
	}
	so, ok := any(s.ptr).(selfObserving[T])
	if !ok {
		return
	}
	o := so.selfObserver()
	if o.self.ptr != s.ptr {
		o.self = Weak[T]{}
	}
	if !o.self.Expired() {
		return
	}
	o.self.AssignShared(s)
}

// detachSelf drops the object's observation of b right before b destroys
// it, so the block is not kept alive by the object it owned.
func detachSelf[T any](p *T, b ControlBlock) {
	if p == nil {
		return
	}
	so, ok := any(p).(selfObserving[T])
	if !ok {
		return
	}
	if o := so.selfObserver(); o.self.blk == b {
		o.self.Reset()
	}
}
