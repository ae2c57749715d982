package rc

import "github.com/prometheus/client_golang/prometheus"

// lifecycleCollector exports ReadStats to Prometheus.
type lifecycleCollector struct {
	created, live, reclaimed, destroyed, aliases, failures *prometheus.Desc
}

// NewCollector returns a prometheus.Collector for the process-wide control
// block lifecycle counters. Register it once per registry.
func NewCollector(namespace string) prometheus.Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "rc", name), help, nil, nil)
	}
	return &lifecycleCollector{
		created:   desc("blocks_created_total", "Control blocks constructed."),
		live:      desc("blocks_live", "Control blocks constructed and not yet reclaimed."),
		reclaimed: desc("blocks_reclaimed_total", "Control blocks whose storage was released."),
		destroyed: desc("objects_destroyed_total", "Managed objects destroyed by their last owner."),
		aliases:   desc("alias_blocks_total", "Aliasing blocks constructed."),
		failures:  desc("allocation_failures_total", "Constructions rolled back after an allocation failure."),
	}
}

func (c *lifecycleCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.created
	ch <- c.live
	ch <- c.reclaimed
	ch <- c.destroyed
	ch <- c.aliases
	ch <- c.failures
}

func (c *lifecycleCollector) Collect(ch chan<- prometheus.Metric) {
	s := ReadStats()
	ch <- prometheus.MustNewConstMetric(c.created, prometheus.CounterValue, float64(s.BlocksCreated))
	ch <- prometheus.MustNewConstMetric(c.live, prometheus.GaugeValue, float64(s.BlocksLive))
	ch <- prometheus.MustNewConstMetric(c.reclaimed, prometheus.CounterValue, float64(s.BlocksReclaimed))
	ch <- prometheus.MustNewConstMetric(c.destroyed, prometheus.CounterValue, float64(s.ObjectsDestroyed))
	ch <- prometheus.MustNewConstMetric(c.aliases, prometheus.CounterValue, float64(s.AliasBlocks))
	ch <- prometheus.MustNewConstMetric(c.failures, prometheus.CounterValue, float64(s.AllocationFailures))
}

// arenaCollector exports the Metrics snapshot of one SafeArena.
type arenaCollector struct {
	arena                                      *SafeArena
	inUse, capacity, chunks, live, utilization *prometheus.Desc
}

// NewArenaCollector returns a prometheus.Collector for a, labelled with
// arena=name.
func NewArenaCollector(namespace, name string, a *SafeArena) prometheus.Collector {
	labels := prometheus.Labels{"arena": name}
	desc := func(metric, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "arena", metric), help, nil, labels)
	}
	return &arenaCollector{
		arena:       a,
		inUse:       desc("bytes_in_use", "Bytes in slots handed out since the last rewind."),
		capacity:    desc("capacity_bytes", "Total bytes held in chunks."),
		chunks:      desc("chunks", "Number of chunks."),
		live:        desc("live_allocations", "Allocations not yet deallocated."),
		utilization: desc("utilization_ratio", "Bytes in use divided by capacity."),
	}
}

func (c *arenaCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.inUse
	ch <- c.capacity
	ch <- c.chunks
	ch <- c.live
	ch <- c.utilization
}

func (c *arenaCollector) Collect(ch chan<- prometheus.Metric) {
	m := c.arena.Metrics()
	ch <- prometheus.MustNewConstMetric(c.inUse, prometheus.GaugeValue, float64(m.SizeInUse))
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(m.Capacity))
	ch <- prometheus.MustNewConstMetric(c.chunks, prometheus.GaugeValue, float64(m.NumChunks))
	ch <- prometheus.MustNewConstMetric(c.live, prometheus.GaugeValue, float64(m.Live))
	ch <- prometheus.MustNewConstMetric(c.utilization, prometheus.GaugeValue, m.Utilization)
}
