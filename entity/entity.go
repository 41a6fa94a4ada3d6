// Package entity implements the process-scoped registry that assigns
// stable identifiers to elements of typed series containers, so that
// downstream consumers (selection, grouping, cross-referencing) can
// correlate results back to their originating element.
package entity

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/atomic"
)

// ID is an opaque element identifier. The zero value, 0, means
// "unassigned" — a series with no live registry resolves every element's
// ID to 0.
type ID int64

// Unassigned is the reserved sentinel ID.
const Unassigned ID = 0

// Kind enumerates the container families that can own entities.
type Kind int

const (
	KindEvent Kind = iota
	KindInterval
	KindPoint
	KindLine
	KindMask
	KindTensor
)

func (k Kind) String() string {
	switch k {
	case KindEvent:
		return "event"
	case KindInterval:
		return "interval"
	case KindPoint:
		return "point"
	case KindLine:
		return "line"
	case KindMask:
		return "mask"
	case KindTensor:
		return "tensor"
	default:
		return "unknown"
	}
}

// Descriptor names one element's place of origin: the series it came from
// (by user-assigned string key, never by pointer, so the registry never
// couples its lifetime to a series' lifetime), the container kind, and the
// element's position within that series.
type Descriptor struct {
	DataKey    string
	Kind       Kind
	TimeIndex  int64
	LocalIndex int64
}

// Registry maps EntityIds to Descriptors and back. A Registry outlives any
// single series: removing a series from the application does not revoke
// the IDs it minted, they simply resolve to a Descriptor that may no
// longer have live backing data. Registries are safe for concurrent use,
// permitting reads to proceed while an unrelated series mutation calls
// EnsureID on a different series sharing this registry, even though the
// core is otherwise single-threaded per operation.
type Registry struct {
	mu          sync.RWMutex
	nextID      atomic.Int64
	byID        map[ID]Descriptor
	byTuple     map[Descriptor]ID
	sessionByID map[ID]Session
}

// Session is an opaque, purely diagnostic run identifier a loader may
// stamp onto a batch of EnsureID calls to correlate them in logs; it plays
// no part in ID allocation.
type Session string

// NewSession mints a fresh, globally unique Session for one load batch,
// so its EnsureID calls can be correlated across log lines even when two
// batches run concurrently against the same Registry.
func NewSession() Session {
	return Session(uuid.NewString())
}

// NewRegistry constructs an empty Registry. The next allocated ID is 1;
// IDs are never reused.
func NewRegistry() *Registry {
	r := &Registry{
		byID:        make(map[ID]Descriptor),
		byTuple:     make(map[Descriptor]ID),
		sessionByID: make(map[ID]Session),
	}
	return r
}

// EnsureID returns the existing ID for the given descriptor tuple, or
// allocates and returns a fresh one. Allocation is monotone: the newly
// minted ID is one greater than the maximum previously allocated in this
// Registry instance. Idempotent given an identical tuple.
func (r *Registry) EnsureID(desc Descriptor) ID {
	return r.EnsureIDWithSession(desc, "")
}

// EnsureIDWithSession behaves like EnsureID but additionally records a
// diagnostic Session for newly-minted IDs.
func (r *Registry) EnsureIDWithSession(desc Descriptor, session Session) ID {
	r.mu.RLock()
	if id, ok := r.byTuple[desc]; ok {
		r.mu.RUnlock()
		return id
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byTuple[desc]; ok {
		return id
	}

	id := ID(r.nextID.Add(1))
	r.byTuple[desc] = id
	r.byID[id] = desc
	if session != "" {
		r.sessionByID[id] = session
	}
	return id
}

// Get resolves id to its Descriptor. ok is false for an unknown ID.
func (r *Registry) Get(id ID) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byID[id]
	return d, ok
}

// SessionOf returns the diagnostic Session recorded for id, if any.
func (r *Registry) SessionOf(id ID) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessionByID[id]
	return s, ok
}

// Len reports the number of distinct IDs ever allocated by this Registry.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
