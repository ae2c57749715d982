package rc

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// RegisterMeter publishes the lifecycle counters returned by ReadStats as
// asynchronous OpenTelemetry instruments on meter. Unregister the returned
// registration to stop reporting.
//
//	reg, err := rc.RegisterMeter(otel.Meter("myapp"))
//	if err != nil {
//		return fmt.Errorf("rc metrics: %w", err)
//	}
//	defer reg.Unregister()
func RegisterMeter(meter metric.Meter) (metric.Registration, error) {
	var err error
	observable := func(name, desc, unit string) metric.Int64ObservableCounter {
		if err != nil {
			return nil
		}
		var c metric.Int64ObservableCounter
		c, err = meter.Int64ObservableCounter(name, metric.WithDescription(desc), metric.WithUnit(unit))
		if err != nil {
			err = fmt.Errorf("create %s: %w", name, err)
		}
		return c
	}

	created := observable("rc.blocks.created", "Control blocks constructed", "{block}")
	reclaimed := observable("rc.blocks.reclaimed", "Control blocks whose storage was released", "{block}")
	aliases := observable("rc.blocks.aliases", "Aliasing blocks constructed", "{block}")
	destroyed := observable("rc.objects.destroyed", "Managed objects destroyed by their last owner", "{object}")
	failures := observable("rc.allocation.failures", "Constructions rolled back after an allocation failure", "{failure}")
	if err != nil {
		return nil, err
	}

	live, err := meter.Int64ObservableGauge("rc.blocks.live",
		metric.WithDescription("Control blocks constructed and not yet reclaimed"),
		metric.WithUnit("{block}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create rc.blocks.live: %w", err)
	}

	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		s := ReadStats()
		o.ObserveInt64(created, s.BlocksCreated)
		o.ObserveInt64(reclaimed, s.BlocksReclaimed)
		o.ObserveInt64(aliases, s.AliasBlocks)
		o.ObserveInt64(destroyed, s.ObjectsDestroyed)
		o.ObserveInt64(failures, s.AllocationFailures)
		o.ObserveInt64(live, s.BlocksLive)
		return nil
	}, created, reclaimed, aliases, destroyed, failures, live)
}
