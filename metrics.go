package rc

import "sync/atomic"

// SizeInUse returns the number of bytes in slots currently handed out or
// not yet rewound.
func (a *Arena) SizeInUse() int {
	sum := 0
	for _, c := range a.chunks {
		sum += c.offset * int(c.size)
	}
	return sum
}

// NumChunks returns the number of chunks currently allocated by the arena.
func (a *Arena) NumChunks() int {
	return len(a.chunks)
}

// Capacity returns the total capacity (in bytes) of all chunks in the arena.
func (a *Arena) Capacity() int {
	sum := 0
	for _, c := range a.chunks {
		sum += c.slots * int(c.size)
	}
	return sum
}

// Utilization returns the ratio of bytes in use to total capacity (0.0 to 1.0).
// Returns 0.0 if the arena has no capacity.
func (a *Arena) Utilization() float64 {
	capacity := a.Capacity()
	if capacity == 0 {
		return 0
	}
	return float64(a.SizeInUse()) / float64(capacity)
}

// ChunkSize returns the default chunk size used by this arena.
func (a *Arena) ChunkSize() int {
	return a.chunkSize
}

// Live returns the number of allocations not yet deallocated.
func (a *Arena) Live() int {
	return a.live
}

// Metrics returns a snapshot of arena statistics.
func (a *Arena) Metrics() ArenaMetrics {
	return ArenaMetrics{
		SizeInUse:   a.SizeInUse(),
		Capacity:    a.Capacity(),
		NumChunks:   a.NumChunks(),
		ChunkSize:   a.ChunkSize(),
		Live:        a.Live(),
		Utilization: a.Utilization(),
	}
}

// ArenaMetrics contains statistical information about an arena.
type ArenaMetrics struct {
	SizeInUse   int     // Bytes currently allocated
	Capacity    int     // Total capacity in bytes
	NumChunks   int     // Number of chunks
	ChunkSize   int     // Default chunk size
	Live        int     // Outstanding allocations
	Utilization float64 // Ratio of used to total capacity (0.0-1.0)
}

// Metrics thread-safely returns a snapshot of arena statistics.
func (s *SafeArena) Metrics() ArenaMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Metrics()
}

// Live thread-safely returns the number of outstanding allocations.
func (s *SafeArena) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Live()
}

// Process-wide control block lifecycle counters.
var stats struct {
	created       atomic.Int64
	reclaimed     atomic.Int64
	destroyed     atomic.Int64
	aliases       atomic.Int64
	allocFailures atomic.Int64
}

// Stats is a snapshot of process-wide control block lifecycle counters.
type Stats struct {
	BlocksCreated      int64 // Authoritative blocks constructed
	BlocksLive         int64 // Constructed but not yet reclaimed
	BlocksReclaimed    int64 // Block storage released
	ObjectsDestroyed   int64 // Destroy policies run by blocks
	AliasBlocks        int64 // Alias blocks constructed
	AllocationFailures int64 // Constructions rolled back
}

// ReadStats returns the current lifecycle counters.
func ReadStats() Stats {
	created := stats.created.Load()
	reclaimed := stats.reclaimed.Load()
	return Stats{
		BlocksCreated:      created,
		BlocksLive:         created - reclaimed,
		BlocksReclaimed:    reclaimed,
		ObjectsDestroyed:   stats.destroyed.Load(),
		AliasBlocks:        stats.aliases.Load(),
		AllocationFailures: stats.allocFailures.Load(),
	}
}
