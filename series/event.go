package series

import (
	"iter"
	"sort"

	"github.com/paulmthompson/whiskertoolbox-datacore/entity"
	"github.com/paulmthompson/whiskertoolbox-datacore/internal/coremetrics"
	"github.com/paulmthompson/whiskertoolbox-datacore/timeframe"
)

// EventElem is one element of a DigitalEventSeries: a timestamp plus the
// EntityId assigned to it, if any.
type EventElem struct {
	Time int64
	ID   entity.ID
}

// DigitalEventSeries is a sorted (by timestamp, ascending; duplicates
// permitted) collection of discrete time points.
type DigitalEventSeries struct {
	identity
	notifier

	store     *Store[EventElem]
	timeFrame *timeframe.TimeFrame

	// byEntity speeds up ByEntityID lookups; rebuilt lazily after any
	// owning mutation.
	byEntity map[entity.ID]int
}

// NewDigitalEventSeries builds an owning series from already-sorted
// timestamps (callers/loaders are responsible for sorting; use
// NewDigitalEventSeriesFromUnsorted when sortedness is not guaranteed).
func NewDigitalEventSeries(times []int64) *DigitalEventSeries {
	elems := make([]EventElem, len(times))
	for i, t := range times {
		elems[i] = EventElem{Time: t}
	}
	return &DigitalEventSeries{store: NewOwning(elems)}
}

// NewDigitalEventSeriesFromUnsorted sorts times before constructing the
// series: a loaded series is always sorted, with duplicates permitted.
func NewDigitalEventSeriesFromUnsorted(times []int64) *DigitalEventSeries {
	cp := make([]int64, len(times))
	copy(cp, times)
	sort.Slice(cp, func(i, j int) bool { return cp[i] < cp[j] })
	return NewDigitalEventSeries(cp)
}

// SetTimeFrame attaches the TimeFrame this series' timestamps are
// expressed against. May be nil.
func (s *DigitalEventSeries) SetTimeFrame(tf *timeframe.TimeFrame) { s.timeFrame = tf }

// TimeFrame returns the attached TimeFrame, or nil.
func (s *DigitalEventSeries) TimeFrame() *timeframe.TimeFrame { return s.timeFrame }

// Len returns the number of stored events.
func (s *DigitalEventSeries) Len() int { return s.store.Len() }

// StorageKind reports which backend currently holds this series' data.
func (s *DigitalEventSeries) StorageKind() Backend { return s.store.Kind() }

func (s *DigitalEventSeries) materializeIfNeeded() {
	if s.store.Kind() == Owning {
		return
	}
	coremetrics.SeriesMaterializations.WithLabelValues(s.store.Kind().String()).Inc()
	s.store.SetOwning(s.store.Materialize())
	s.byEntity = nil
}

// AddEvent inserts t in sorted position, O(log N) search + O(N) shift;
// duplicates are permitted. View/Lazy storage materializes to Owning
// first.
func (s *DigitalEventSeries) AddEvent(t int64, opts ...Option) {
	o := resolveOptions(opts)
	s.materializeIfNeeded()

	elems, _ := s.store.Contiguous()
	pos := sort.Search(len(elems), func(i int) bool { return elems[i].Time >= t })

	id := s.ensureID(entity.KindEvent, t, int64(pos))
	elems = append(elems, EventElem{})
	copy(elems[pos+1:], elems[pos:])
	elems[pos] = EventElem{Time: t, ID: id}

	s.store.SetOwning(elems)
	s.byEntity = nil
	s.notify(entity.KindEvent, o.notify)
}

// RemoveEvent removes the first stored occurrence of t; a no-op if
// absent.
func (s *DigitalEventSeries) RemoveEvent(t int64, opts ...Option) {
	o := resolveOptions(opts)
	s.materializeIfNeeded()

	elems, _ := s.store.Contiguous()
	for i, e := range elems {
		if e.Time == t {
			out := make([]EventElem, 0, len(elems)-1)
			out = append(out, elems[:i]...)
			out = append(out, elems[i+1:]...)
			s.store.SetOwning(out)
			s.byEntity = nil
			s.notify(entity.KindEvent, o.notify)
			return
		}
	}
}

// View returns a restartable sequence over every stored EventElem.
func (s *DigitalEventSeries) View() iter.Seq[EventElem] {
	return s.store.Seq()
}

// convertedRange maps [tStart, tStop] from sourceFrame into this series'
// own TimeFrame coordinates. The fast path applies when sourceFrame is
// this series' own *TimeFrame instance, or when either frame is nil.
func (s *DigitalEventSeries) convertedRange(tStart, tStop int64, sourceFrame *timeframe.TimeFrame) (int64, int64) {
	if sourceFrame == nil || s.timeFrame == nil || sourceFrame == s.timeFrame {
		return tStart, tStop
	}
	start, stop := timeframe.ConvertRange(timeframe.Index(tStart), timeframe.Index(tStop), sourceFrame, s.timeFrame)
	return int64(start), int64(stop)
}

// ViewInRange returns a restartable sequence of events with
// tStart <= timestamp <= tStop after conversion from sourceFrame.
func (s *DigitalEventSeries) ViewInRange(tStart, tStop int64, sourceFrame *timeframe.TimeFrame) iter.Seq[EventElem] {
	rStart, rStop := s.convertedRange(tStart, tStop, sourceFrame)
	src := s.store.Seq()
	return func(yield func(EventElem) bool) {
		for e := range src {
			if e.Time >= rStart && e.Time <= rStop {
				if !yield(e) {
					return
				}
			}
		}
	}
}

// CountInRange is the integer-count counterpart of ViewInRange.
func (s *DigitalEventSeries) CountInRange(tStart, tStop int64, sourceFrame *timeframe.TimeFrame) int {
	n := 0
	for range s.ViewInRange(tStart, tStop, sourceFrame) {
		n++
	}
	return n
}

// ByEntityID resolves an element by its assigned EntityId, O(1) after the
// side index has been built.
func (s *DigitalEventSeries) ByEntityID(id entity.ID) (EventElem, bool) {
	s.ensureEntityIndex()
	i, ok := s.byEntity[id]
	if !ok {
		return EventElem{}, false
	}
	elems, _ := s.store.Contiguous()
	if s.store.Kind() != Owning {
		elems = s.store.Materialize()
	}
	return elems[i], true
}

func (s *DigitalEventSeries) ensureEntityIndex() {
	if s.byEntity != nil {
		return
	}
	s.byEntity = make(map[entity.ID]int)
	i := 0
	for e := range s.store.Seq() {
		if e.ID != entity.Unassigned {
			s.byEntity[e.ID] = i
		}
		i++
	}
}

// NewEventView creates a zero-copy series referencing source, visible
// only at the given indices into source.
func NewEventView(source *DigitalEventSeries, indices []int) *DigitalEventSeries {
	v := &DigitalEventSeries{timeFrame: source.timeFrame}
	v.store = NewView(len(indices), func(i int) EventElem { return source.store.At(indices[i]) })
	return v
}

// NewEventLazy creates a read-only series backed by a restartable,
// finite sequence producer.
func NewEventLazy(length int, seq func() iter.Seq[EventElem], tf *timeframe.TimeFrame) *DigitalEventSeries {
	v := &DigitalEventSeries{timeFrame: tf}
	v.store = NewLazy(length, seq)
	return v
}

// Materialize returns a fresh owning copy of this series' visible
// elements, regardless of current backend.
func (s *DigitalEventSeries) Materialize() *DigitalEventSeries {
	out := &DigitalEventSeries{timeFrame: s.timeFrame}
	out.store = NewOwning(s.store.Materialize())
	return out
}
