package series

import (
	"github.com/paulmthompson/whiskertoolbox-datacore/entity"
	"github.com/paulmthompson/whiskertoolbox-datacore/internal/coremetrics"
	"github.com/paulmthompson/whiskertoolbox-datacore/observer"
)

// identity is embedded by the event, interval, point, line, mask and
// tensor containers (not by AnalogTimeSeries) to implement the
// weak-reference relationship to an EntityRegistry: a series never
// extends the registry's lifetime, and resolves every element's id to
// entity.Unassigned when no registry has been attached.
type identity struct {
	dataKey  string
	registry *entity.Registry
}

// SetIdentityContext attaches data_key/registry for subsequent element
// allocations. Safe to call after construction; IDs already assigned to
// existing elements are left as they are.
func (id *identity) SetIdentityContext(dataKey string, registry *entity.Registry) {
	id.dataKey = dataKey
	id.registry = registry
}

// ensureID resolves (or allocates) the entity.ID for one element. Returns
// entity.Unassigned when no registry is attached.
func (id *identity) ensureID(kind entity.Kind, timeIndex, localIndex int64) entity.ID {
	if id.registry == nil {
		return entity.Unassigned
	}
	before := id.registry.Len()
	got := id.registry.EnsureID(entity.Descriptor{
		DataKey:    id.dataKey,
		Kind:       kind,
		TimeIndex:  timeIndex,
		LocalIndex: localIndex,
	})
	if id.registry.Len() > before {
		coremetrics.EntitiesAllocated.Inc()
	}
	return got
}

// notifier is embedded by every mutable container to implement its
// observer hook.
type notifier struct {
	hook observer.Hook
}

// AddObserver registers cb, returning a Subscription for later removal.
func (n *notifier) AddObserver(cb observer.Callback) observer.Subscription {
	return n.hook.Add(cb)
}

// RemoveObserver unregisters a previously added callback.
func (n *notifier) RemoveObserver(sub observer.Subscription) {
	n.hook.Remove(sub)
}

// notify fires every registered callback, unless suppressed, and
// increments the observer-notification metric for kind.
func (n *notifier) notify(kind entity.Kind, shouldNotify bool) {
	if !shouldNotify {
		return
	}
	coremetrics.ObserverNotifications.WithLabelValues(kind.String()).Inc()
	n.hook.Notify()
}

// mutationOptions carries the per-call observer-suppression flag, e.g.
// add_event(interval, notify = true).
type mutationOptions struct {
	notify bool
}

// Option configures a single mutating call.
type Option func(*mutationOptions)

// WithNotify overrides whether this call fires the observer hook. The
// default, when no Option is supplied, is true.
func WithNotify(notify bool) Option {
	return func(o *mutationOptions) { o.notify = notify }
}

func resolveOptions(opts []Option) mutationOptions {
	o := mutationOptions{notify: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
