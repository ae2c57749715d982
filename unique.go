package rc

// Unique is a sole owner of an object. It has no control block and no
// counts: ownership is possession of the handle. Transfer it with Move or
// hand it to FromUnique to start sharing.
//
// A nil *Unique is empty. Reset with a non-nil pointer and a non-trivial
// Swap panic on a nil receiver.
type Unique[T any] struct {
	_   noCopy
	ptr *T
	del Deleter[T]
}

// NewUnique takes sole ownership of p with the DefaultDelete policy.
func NewUnique[T any](p *T) *Unique[T] {
	return &Unique[T]{ptr: p}
}

// NewUniqueWithDeleter takes sole ownership of p, destroyed by d.
func NewUniqueWithDeleter[T any, D Deleter[T]](p *T, d D) *Unique[T] {
	return &Unique[T]{ptr: p, del: d}
}

func (u *Unique[T]) deleter() Deleter[T] {
	if u == nil || u.del == nil {
		return DefaultDelete[T]{}
	}
	return u.del
}

// Get returns the owned pointer, or nil.
func (u *Unique[T]) Get() *T {
	if u == nil {
		return nil
	}
	return u.ptr
}

// Valid reports whether u owns a non-nil pointer.
func (u *Unique[T]) Valid() bool {
	return u.Get() != nil
}

// Deleter returns the destroy policy.
func (u *Unique[T]) Deleter() Deleter[T] {
	return u.deleter()
}

// Release gives up ownership without destroying and returns the pointer.
func (u *Unique[T]) Release() *T {
	if u == nil {
		return nil
	}
	p := u.ptr
	u.ptr = nil
	return p
}

// Reset destroys the owned object, if any, and takes ownership of p.
// Reset(nil) ends u's ownership.
func (u *Unique[T]) Reset(p *T) {
	if u == nil {
		if p != nil {
			nilReceiver("Reset")
		}
		return
	}
	old := u.ptr
	u.ptr = p
	if old != nil && old != p {
		u.deleter().Delete(old)
	}
}

// Move returns a handle holding u's object and policy; u is left empty.
func (u *Unique[T]) Move() *Unique[T] {
	if u == nil {
		return &Unique[T]{}
	}
	m := &Unique[T]{ptr: u.ptr, del: u.del}
	u.ptr = nil
	return m
}

// Swap exchanges the contents of u and r. A nil handle may only be
// swapped with an empty one.
func (u *Unique[T]) Swap(r *Unique[T]) {
	if u == r {
		return
	}
	if u == nil || r == nil {
		if u.Valid() || r.Valid() {
			nilReceiver("Swap")
		}
		return
	}
	u.ptr, r.ptr = r.ptr, u.ptr
	u.del, r.del = r.del, u.del
}
