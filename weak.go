package rc

// Weak observes an object owned by Shared handles without keeping it
// alive. It keeps the control block alive, so expiry can always be
// detected safely.
//
// A nil *Weak and the zero Weak are empty. Assign, AssignShared and a
// non-trivial Swap panic on a nil receiver.
type Weak[T any] struct {
	_   noCopy
	ptr *T
	blk ControlBlock
}

// Clone returns another observer of the same object. Cloning an expired
// handle yields an empty one.
func (w *Weak[T]) Clone() *Weak[T] {
	if w.Expired() {
		return &Weak[T]{}
	}
	w.blk.WeakLink()
	return &Weak[T]{ptr: w.ptr, blk: w.blk}
}

// Move returns a handle holding w's observation and leaves w empty.
func (w *Weak[T]) Move() *Weak[T] {
	if w == nil {
		return &Weak[T]{}
	}
	m := &Weak[T]{ptr: w.ptr, blk: w.blk}
	w.ptr, w.blk = nil, nil
	return m
}

// Assign makes w observe what r observes.
func (w *Weak[T]) Assign(r *Weak[T]) {
	if w == r {
		return
	}
	if w == nil {
		nilReceiver("Assign")
	}
	if r == nil || r.blk == nil {
		w.observe(nil, nil)
		return
	}
	w.observe(r.ptr, r.blk)
}

// AssignShared makes w observe s's object.
func (w *Weak[T]) AssignShared(s *Shared[T]) {
	if w == nil {
		nilReceiver("AssignShared")
	}
	if s == nil || s.blk == nil {
		w.observe(nil, nil)
		return
	}
	w.observe(s.ptr, s.blk.Resolve())
}

func (w *Weak[T]) observe(p *T, b ControlBlock) {
	if w.blk != b {
		if b != nil {
			b.WeakLink()
		}
		if w.blk != nil {
			w.blk.WeakUnlink()
		}
		w.blk = b
	}
	w.ptr = p
}

// Swap exchanges the contents of w and r. A nil handle may only be
// swapped with an empty one.
func (w *Weak[T]) Swap(r *Weak[T]) {
	if w == r {
		return
	}
	if w == nil || r == nil {
		if w.Owner() != nil || r.Owner() != nil {
			nilReceiver("Swap")
		}
		return
	}
	w.ptr, r.ptr = r.ptr, w.ptr
	w.blk, r.blk = r.blk, w.blk
}

// Reset stops observing and leaves w empty.
func (w *Weak[T]) Reset() {
	if w == nil {
		return
	}
	b := w.blk
	w.ptr, w.blk = nil, nil
	if b != nil {
		b.WeakUnlink()
	}
}

// UseCount returns the number of owners of the observed object.
func (w *Weak[T]) UseCount() int64 {
	if w == nil || w.blk == nil {
		return 0
	}
	return w.blk.Count()
}

// Owner returns the observed control block, or nil.
func (w *Weak[T]) Owner() ControlBlock {
	if w == nil {
		return nil
	}
	return w.blk
}

// Expired reports whether the observed object is gone (or w is empty).
func (w *Weak[T]) Expired() bool {
	return w.UseCount() == 0
}

// Lock returns a new owner of the observed object, or an empty handle if
// it has expired. The expiry check and the count increment are atomic, so
// a destroyed object is never revived.
func (w *Weak[T]) Lock() *Shared[T] {
	s, err := FromWeak(w)
	if err != nil {
		return &Shared[T]{}
	}
	return s
}
