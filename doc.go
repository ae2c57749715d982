// Package rc implements reference-counted shared ownership for Go values.
//
// # Overview
//
// Go's garbage collector reclaims memory, but it does not tell you when the
// last user of a resource is gone. Package rc does: a value wrapped in a
// Shared handle is destroyed deterministically, by a caller-chosen destroy
// policy, the instant the last owning handle is reset. This is useful for:
//
//   - Pooled buffers and slabs that must go back to their pool exactly once
//   - File descriptors, connections and locked memory shared by several owners
//   - Caches that hand out borrowed views of an entry (aliasing handles)
//   - Objects that need to hand out new owning references to themselves
//
// # Basic Usage
//
//	conn := rc.NewWithDeleter(dial(), rc.DeleterFunc[Conn](func(c *Conn) {
//		c.Close()
//	}))
//	defer conn.Reset() // drop this owner
//
//	other := conn.Clone()    // second owner, UseCount() == 2
//	w := conn.Weak()         // observer, does not keep conn alive
//	defer w.Reset()
//
//	other.Reset()            // UseCount() == 1
//	if s := w.Lock(); s.Valid() {
//		defer s.Reset()
//		use(s.Get())
//	}
//
// # Handles
//
// Shared is the owning handle, Weak observes without owning, and Unique is
// a sole owner without any bookkeeping. Handles are used through pointers;
// the zero value and a nil pointer are both empty. Copying a handle struct
// by value duplicates ownership without updating counts, so use Clone and
// Move instead (go vet reports accidental copies).
//
// Every handle must end with Reset (or be moved away). There is no
// finalizer safety net: a handle that is dropped without Reset leaks its
// reference and the object is never destroyed. A cycle of Shared handles
// leaks the same way; break cycles with Weak.
//
// # Control Blocks
//
// Each group of co-owning handles shares one ControlBlock that tracks the
// strong and weak counts. The block variant is chosen by the constructor:
//
//	rc.New(p)                         // default destroy policy
//	rc.NewWithDeleter(p, d)           // custom destroy policy
//	rc.NewWithAllocator(p, d, a)      // block storage from an Allocator
//	rc.Make(v), rc.Allocate(a, init)  // object and block in one allocation
//	rc.NewAlias(owner, &owner.Get().Field)
//
// # Memory Providers
//
// Allocator abstracts where control blocks and combined allocations live.
// HeapAllocator uses the Go heap, PoolAllocator recycles slots through
// sync.Pool, and Arena is a chunked bump allocator of typed slots that
// rewinds itself when its last live slot is returned:
//
//	a := rc.NewSafeArena(0, rc.WithLimit(1<<20))
//	defer a.Release()
//	s, err := rc.Allocate(a, func(v *Frame) error { return v.init() })
//
// # Thread Safety
//
// Counts are updated atomically, so handles sharing a block may be cloned,
// reset and locked from different goroutines. A single handle instance is
// not safe for concurrent mutation. Arena is not goroutine-safe; use
// SafeArena when handles backed by it are reset from several goroutines.
//
// # Metrics and Monitoring
//
// ReadStats returns process-wide lifecycle counters, and NewCollector and
// NewArenaCollector export them to Prometheus:
//
//	prometheus.MustRegister(rc.NewCollector("myapp"))
//
// RegisterMeter publishes the same counters through an OpenTelemetry meter.
package rc
