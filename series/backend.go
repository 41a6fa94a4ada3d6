// Package series implements the seven typed time-series containers of the
// temporal-data engine: DigitalEventSeries,
// DigitalIntervalSeries, AnalogTimeSeries, PointData, LineData, MaskData,
// and TensorData. DigitalEventSeries, DigitalIntervalSeries and
// AnalogTimeSeries keep their elements in a Store with three backends:
// Owning (exclusive, mutable), View (zero-copy index-filtered reference to
// a source), and Lazy (on-demand computation from a restartable finite
// sequence producer). PointData, LineData, MaskData and TensorData keep a
// plain map from time to elements and have no View or Lazy backend.
package series

import "iter"

// Backend names the storage strategy currently backing a container.
type Backend int

const (
	Owning Backend = iota
	View
	Lazy
)

func (b Backend) String() string {
	switch b {
	case Owning:
		return "owning"
	case View:
		return "view"
	case Lazy:
		return "lazy"
	default:
		return "unknown"
	}
}

// Store is the uniform, polymorphic element container shared by the event,
// interval and analog series. E is the element type (e.g. EventElem,
// IntervalElem).
//
// Dispatch prefers the contiguous-cache fast path (Contiguous) whenever
// the backend is Owning, falling through to the Seq/At path — the
// polymorphic "virtual dispatch" equivalent — for View and Lazy storage.
type Store[E any] struct {
	backend Backend

	owning []E // valid when backend == Owning

	viewAt  func(i int) E // valid when backend == View
	viewLen int

	lazySeq func() iter.Seq[E] // valid when backend == Lazy; restartable factory
	lazyLen int
}

// NewOwning wraps elems (taken by reference, not copied) as Owning
// storage.
func NewOwning[E any](elems []E) *Store[E] {
	return &Store[E]{backend: Owning, owning: elems}
}

// NewView wraps a zero-copy, index-filtered reference to a source: at(i)
// resolves the i'th visible element for i in [0, length).
func NewView[E any](length int, at func(i int) E) *Store[E] {
	return &Store[E]{backend: View, viewAt: at, viewLen: length}
}

// NewLazy wraps a restartable finite sequence producer of known length.
// seq is called once per full iteration — implementers may re-iterate
// freely.
func NewLazy[E any](length int, seq func() iter.Seq[E]) *Store[E] {
	return &Store[E]{backend: Lazy, lazySeq: seq, lazyLen: length}
}

// Kind reports the active backend.
func (s *Store[E]) Kind() Backend {
	return s.backend
}

// Len reports the element count regardless of backend.
func (s *Store[E]) Len() int {
	switch s.backend {
	case Owning:
		return len(s.owning)
	case View:
		return s.viewLen
	default:
		return s.lazyLen
	}
}

// At returns the i'th element. For Lazy storage this re-runs the
// producer and scans to position i — acceptable because lazy sequences
// are intended to be consumed via Seq/Materialize, not indexed
// repeatedly; callers doing positional access on Lazy storage in a loop
// should materialize first.
func (s *Store[E]) At(i int) E {
	switch s.backend {
	case Owning:
		return s.owning[i]
	case View:
		return s.viewAt(i)
	default:
		var out E
		j := 0
		for e := range s.lazySeq() {
			if j == i {
				return e
			}
			j++
		}
		return out
	}
}

// Contiguous returns the backing slice and true only when storage is
// Owning and therefore laid out contiguously in memory; View and Lazy
// storage always report false, forcing callers onto the Seq/At path.
func (s *Store[E]) Contiguous() ([]E, bool) {
	if s.backend == Owning {
		return s.owning, true
	}
	return nil, false
}

// Seq returns a restartable iterator over every element in order,
// regardless of backend. Seq's result type, iter.Seq[E], is Go's standard
// restartable finite-sequence-producer shape — exactly the iterator
// factory a Lazy-backed container needs to expose.
func (s *Store[E]) Seq() iter.Seq[E] {
	switch s.backend {
	case Owning:
		owning := s.owning
		return func(yield func(E) bool) {
			for _, e := range owning {
				if !yield(e) {
					return
				}
			}
		}
	case View:
		at, n := s.viewAt, s.viewLen
		return func(yield func(E) bool) {
			for i := 0; i < n; i++ {
				if !yield(at(i)) {
					return
				}
			}
		}
	default:
		return s.lazySeq()
	}
}

// Materialize returns a freshly allocated slice snapshot of every
// element, regardless of backend. This is the single explicit
// materialization step containers use before mutating View/Lazy storage —
// deliberately one step, not a cascade of implicit copies.
func (s *Store[E]) Materialize() []E {
	if s.backend == Owning {
		out := make([]E, len(s.owning))
		copy(out, s.owning)
		return out
	}
	out := make([]E, 0, s.Len())
	for e := range s.Seq() {
		out = append(out, e)
	}
	return out
}

// SetOwning replaces the backing storage with elems and switches the
// backend to Owning in place, invalidating any View/Lazy state. Used by
// containers implementing transparent materialize-on-mutation.
func (s *Store[E]) SetOwning(elems []E) {
	s.backend = Owning
	s.owning = elems
	s.viewAt = nil
	s.viewLen = 0
	s.lazySeq = nil
	s.lazyLen = 0
}
