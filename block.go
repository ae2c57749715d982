package rc

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
)

// ControlBlock is the bookkeeping shared by every handle that co-owns or
// observes one object. Handles never touch counts directly; they go
// through this protocol.
//
// The object is destroyed exactly once, when the strong count drops from
// one to zero. The block's own storage is reclaimed exactly once, when the
// strong count is zero and the last weak reference is gone. Whichever call
// observes a zero transition performs the matching teardown step.
type ControlBlock interface {
	// Link adds a strong reference.
	Link()
	// Unlink drops a strong reference, destroying the object on the last one.
	Unlink()
	// WeakLink adds a weak reference.
	WeakLink()
	// WeakUnlink drops a weak reference, reclaiming the block if it was the
	// last reference of either kind.
	WeakUnlink()
	// TryLink adds a strong reference unless the strong count is already
	// zero. The check and the increment are one atomic step.
	TryLink() bool
	// Count returns the strong count.
	Count() int64
	// WeakCount returns the number of weak references. It is a snapshot and
	// may be stale under concurrent use.
	WeakCount() int64
	// Resolve returns the authoritative block, following alias chains.
	Resolve() ControlBlock
	// Deleter returns the stored destroy policy, or nil when the block has
	// none of its own.
	Deleter() any
}

// lifecycle is implemented by every concrete block owning a counter.
type lifecycle interface {
	// dispose destroys the managed object.
	dispose()
	// reclaim releases the block's own storage. The block must not be
	// touched afterwards.
	reclaim()
}

// counter is the atomic core embedded in every authoritative block.
//
// weak holds one extra unit owned collectively by the strong references,
// dropped after the object is disposed. Both teardown steps are therefore
// gated by a single decrement-to-zero each.
type counter struct {
	strong atomic.Int64
	weak   atomic.Int64
	life   lifecycle
}

func (c *counter) init(life lifecycle) {
	c.strong.Store(1)
	c.weak.Store(1)
	c.life = life
	stats.created.Add(1)
}

func (c *counter) Link() {
	if n := c.strong.Add(1); n <= 1 {
		panic(fmt.Sprintf("rc: link on expired control block (count %d)", n))
	}
}

func (c *counter) Unlink() {
	switch n := c.strong.Add(-1); {
	case n == 0:
		c.life.dispose()
		stats.destroyed.Add(1)
		c.releaseWeak()
	case n < 0:
		panic("rc: unlink of released control block")
	}
}

func (c *counter) WeakLink() {
	c.weak.Add(1)
}

func (c *counter) WeakUnlink() {
	c.releaseWeak()
}

func (c *counter) releaseWeak() {
	switch n := c.weak.Add(-1); {
	case n == 0:
		stats.reclaimed.Add(1)
		c.life.reclaim()
	case n < 0:
		panic("rc: weak unlink of released control block")
	}
}

func (c *counter) TryLink() bool {
	for {
		n := c.strong.Load()
		if n <= 0 {
			return false
		}
		if c.strong.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

func (c *counter) Count() int64 {
	return c.strong.Load()
}

func (c *counter) WeakCount() int64 {
	w := c.weak.Load()
	if c.strong.Load() > 0 {
		w--
	}
	return w
}

func logDestroyed[T any](variant string, p *T) {
	l := logger()
	if !l.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	l.LogAttrs(context.Background(), slog.LevelDebug, "rc: object destroyed",
		slog.String("block", variant),
		slog.String("type", fmt.Sprintf("%T", p)),
	)
}
