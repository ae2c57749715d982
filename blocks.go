package rc

import (
	"reflect"
	"sync/atomic"
	"unsafe"
)

// defaultBlock owns a pointer destroyed with DefaultDelete.
type defaultBlock[T any] struct {
	counter
	ptr *T
}

func newDefaultBlock[T any](p *T) *defaultBlock[T] {
	b := &defaultBlock[T]{ptr: p}
	b.init(b)
	return b
}

func (b *defaultBlock[T]) dispose() {
	p := b.ptr
	b.ptr = nil
	detachSelf(p, b)
	DefaultDelete[T]{}.Delete(p)
	logDestroyed("default", p)
}

func (b *defaultBlock[T]) reclaim()              {}
func (b *defaultBlock[T]) Resolve() ControlBlock { return b }
func (b *defaultBlock[T]) Deleter() any          { return nil }

// deleterBlock owns a pointer and the destroy policy to run on it.
type deleterBlock[T any, D Deleter[T]] struct {
	counter
	ptr *T
	del D
}

func newDeleterBlock[T any, D Deleter[T]](p *T, d D) *deleterBlock[T, D] {
	b := &deleterBlock[T, D]{ptr: p, del: d}
	b.init(b)
	return b
}

func (b *deleterBlock[T, D]) dispose() {
	p := b.ptr
	b.ptr = nil
	detachSelf(p, b)
	b.del.Delete(p)
	logDestroyed("deleter", p)
}

func (b *deleterBlock[T, D]) reclaim() {
	var zero D
	b.del = zero
}

func (b *deleterBlock[T, D]) Resolve() ControlBlock { return b }
func (b *deleterBlock[T, D]) Deleter() any          { return b.del }

// allocBlock is a deleterBlock whose own storage comes from an Allocator.
type allocBlock[T any, D Deleter[T]] struct {
	counter
	ptr   *T
	del   D
	alloc Allocator
}

func (b *allocBlock[T, D]) dispose() {
	p := b.ptr
	b.ptr = nil
	detachSelf(p, b)
	b.del.Delete(p)
	logDestroyed("allocator", p)
}

func (b *allocBlock[T, D]) reclaim() {
	a := b.alloc
	a.Deallocate(unsafe.Pointer(b), reflect.TypeOf((*allocBlock[T, D])(nil)).Elem())
}

func (b *allocBlock[T, D]) Resolve() ControlBlock { return b }
func (b *allocBlock[T, D]) Deleter() any          { return b.del }

// intrusiveBlock stores the object next to its counts in one allocation.
// Disposing it runs the object's teardown in place; the slot itself goes
// back to the allocator only once the weak references are gone too.
type intrusiveBlock[T any] struct {
	counter
	value T
	alloc Allocator
}

func (b *intrusiveBlock[T]) dispose() {
	p := &b.value
	detachSelf(p, b)
	DefaultDelete[T]{}.Delete(p)
	var zero T
	b.value = zero
	logDestroyed("intrusive", p)
}

func (b *intrusiveBlock[T]) reclaim() {
	a := b.alloc
	a.Deallocate(unsafe.Pointer(b), reflect.TypeOf((*intrusiveBlock[T])(nil)).Elem())
}

func (b *intrusiveBlock[T]) Resolve() ControlBlock { return b }
func (b *intrusiveBlock[T]) Deleter() any          { return nil }

// aliasBlock owns nothing. It forwards every count to the authoritative
// block it was built over and is dropped by its last Unlink.
type aliasBlock struct {
	parent ControlBlock
	refs   atomic.Int64
}

func newAliasBlock(owner ControlBlock) *aliasBlock {
	p := owner.Resolve()
	p.Link()
	a := &aliasBlock{parent: p}
	a.refs.Store(1)
	stats.aliases.Add(1)
	return a
}

func (a *aliasBlock) Link() {
	a.refs.Add(1)
	a.parent.Link()
}

func (a *aliasBlock) Unlink() {
	if a.refs.Add(-1) < 0 {
		panic("rc: unlink of released alias block")
	}
	a.parent.Unlink()
}

func (a *aliasBlock) TryLink() bool {
	if !a.parent.TryLink() {
		return false
	}
	a.refs.Add(1)
	return true
}

func (a *aliasBlock) WeakLink()             { a.parent.WeakLink() }
func (a *aliasBlock) WeakUnlink()           { a.parent.WeakUnlink() }
func (a *aliasBlock) Count() int64          { return a.parent.Count() }
func (a *aliasBlock) WeakCount() int64      { return a.parent.WeakCount() }
func (a *aliasBlock) Resolve() ControlBlock { return a.parent.Resolve() }
func (a *aliasBlock) Deleter() any          { return a.parent.Deleter() }
