package series

import (
	"iter"
	"sort"

	"github.com/paulmthompson/whiskertoolbox-datacore/entity"
	ivl "github.com/paulmthompson/whiskertoolbox-datacore/interval"
	"github.com/paulmthompson/whiskertoolbox-datacore/internal/coremetrics"
	"github.com/paulmthompson/whiskertoolbox-datacore/timeframe"
)

// IntervalElem is one element of a DigitalIntervalSeries.
type IntervalElem struct {
	Interval ivl.Interval
	ID       entity.ID
}

// RangeMode selects how DigitalIntervalSeries.Query handles intervals
// that straddle a query range's boundaries.
type RangeMode int

const (
	// Contained yields intervals fully inside [start, stop].
	Contained RangeMode = iota
	// Overlapping yields any interval sharing at least one tick with
	// [start, stop].
	Overlapping
	// Clip yields every overlapping interval, clipped to [start, stop].
	Clip
)

// DigitalIntervalSeries is a sorted-by-start collection of non-overlapping,
// non-contiguous intervals (its "coalesced form"), each tagged with an
// EntityId.
type DigitalIntervalSeries struct {
	identity
	notifier

	store     *Store[IntervalElem]
	timeFrame *timeframe.TimeFrame

	byEntity map[entity.ID]int
}

// NewDigitalIntervalSeries builds an owning series from a batch of raw
// intervals, coalescing them via repeated AddInterval application.
// Reversed intervals (start > end) are silently discarded; no diagnostic
// is emitted here.
func NewDigitalIntervalSeries(intervals []ivl.Interval) *DigitalIntervalSeries {
	s := &DigitalIntervalSeries{store: NewOwning[IntervalElem](nil)}
	for _, iv := range intervals {
		if iv.Empty() {
			continue
		}
		s.AddInterval(iv, WithNotify(false))
	}
	return s
}

// SetTimeFrame attaches the TimeFrame this series' indices are expressed
// against. May be nil.
func (s *DigitalIntervalSeries) SetTimeFrame(tf *timeframe.TimeFrame) { s.timeFrame = tf }

// TimeFrame returns the attached TimeFrame, or nil.
func (s *DigitalIntervalSeries) TimeFrame() *timeframe.TimeFrame { return s.timeFrame }

// Len returns the number of stored intervals.
func (s *DigitalIntervalSeries) Len() int { return s.store.Len() }

// StorageKind reports which backend currently holds this series' data.
func (s *DigitalIntervalSeries) StorageKind() Backend { return s.store.Kind() }

func (s *DigitalIntervalSeries) materializeIfNeeded() {
	if s.store.Kind() == Owning {
		return
	}
	coremetrics.SeriesMaterializations.WithLabelValues(s.store.Kind().String()).Inc()
	s.store.SetOwning(s.store.Materialize())
	s.byEntity = nil
}

// AddInterval merges new into the stored set:
// any stored interval new fully contains is dropped; if a stored interval
// fully contains new, the series is unchanged; any stored interval that
// overlaps or is contiguous with new is merged into it. The merged result
// is inserted in sorted position. Notifies observers exactly once.
func (s *DigitalIntervalSeries) AddInterval(next ivl.Interval, opts ...Option) {
	o := resolveOptions(opts)
	s.materializeIfNeeded()

	elems, _ := s.store.Contiguous()
	kept := make([]IntervalElem, 0, len(elems))

	for _, e := range elems {
		existing := e.Interval
		switch {
		case ivl.Contains(next, existing):
			// existing is absorbed; drop it.
		case ivl.Contains(existing, next):
			// next already fully represented; no change to the series.
			s.notify(entity.KindInterval, o.notify)
			return
		case ivl.Overlaps(existing, next) || ivl.Contiguous(existing, next):
			if existing.Start < next.Start {
				next.Start = existing.Start
			}
			if existing.End > next.End {
				next.End = existing.End
			}
		default:
			kept = append(kept, e)
		}
	}

	kept = append(kept, IntervalElem{Interval: next})
	sort.Slice(kept, func(i, j int) bool { return ivl.Less(kept[i].Interval, kept[j].Interval) })

	for i := range kept {
		if kept[i].Interval == next && kept[i].ID == entity.Unassigned {
			kept[i].ID = s.ensureID(entity.KindInterval, next.Start, int64(i))
			break
		}
	}

	s.store.SetOwning(kept)
	s.byEntity = nil
	s.notify(entity.KindInterval, o.notify)
}

// RemovePoint removes exactly tick t: the unique stored interval
// containing t is deleted, shrunk from either end, or split in two, as
// needed, while preserving the coalesced-form invariant. A no-op if no
// stored interval contains t.
func (s *DigitalIntervalSeries) RemovePoint(t int64, opts ...Option) {
	o := resolveOptions(opts)
	s.materializeIfNeeded()

	elems, _ := s.store.Contiguous()
	for i, e := range elems {
		iv := e.Interval
		if !ivl.ContainsTime(iv, t) {
			continue
		}

		out := make([]IntervalElem, 0, len(elems)+1)
		out = append(out, elems[:i]...)

		switch {
		case iv.Start == t && iv.End == t:
			// delete entirely
		case t == iv.Start:
			out = append(out, IntervalElem{Interval: ivl.New(t+1, iv.End), ID: e.ID})
		case t == iv.End:
			out = append(out, IntervalElem{Interval: ivl.New(iv.Start, t-1), ID: e.ID})
		default:
			out = append(out, IntervalElem{Interval: ivl.New(iv.Start, t-1), ID: e.ID})
			out = append(out, IntervalElem{Interval: ivl.New(t+1, iv.End)})
		}

		out = append(out, elems[i+1:]...)
		s.store.SetOwning(out)
		s.byEntity = nil
		s.notify(entity.KindInterval, o.notify)
		return
	}
}

// RemoveInterval deletes the stored interval structurally equal to
// target, reporting whether one was found. Matching is by exact
// structural equality, not by overlap — {100,200} does not remove a
// stored {100,210}, matching remove_intervals' exact-match semantics.
func (s *DigitalIntervalSeries) RemoveInterval(target ivl.Interval, opts ...Option) bool {
	o := resolveOptions(opts)
	s.materializeIfNeeded()

	elems, _ := s.store.Contiguous()
	for i, e := range elems {
		if e.Interval == target {
			out := make([]IntervalElem, 0, len(elems)-1)
			out = append(out, elems[:i]...)
			out = append(out, elems[i+1:]...)
			s.store.SetOwning(out)
			s.byEntity = nil
			s.notify(entity.KindInterval, o.notify)
			return true
		}
	}
	return false
}

// RemoveIntervals removes every interval in batch that structurally
// matches a stored interval, returning the count removed. Fires the
// observer hook at most once, after every removal has been applied.
func (s *DigitalIntervalSeries) RemoveIntervals(batch []ivl.Interval, opts ...Option) int {
	o := resolveOptions(opts)
	removed := 0
	for _, target := range batch {
		if s.RemoveInterval(target, WithNotify(false)) {
			removed++
		}
	}
	if removed > 0 {
		s.notify(entity.KindInterval, o.notify)
	}
	return removed
}

// View returns a restartable sequence over every stored IntervalElem.
func (s *DigitalIntervalSeries) View() iter.Seq[IntervalElem] {
	return s.store.Seq()
}

func (s *DigitalIntervalSeries) convertedRange(tStart, tStop int64, sourceFrame *timeframe.TimeFrame) (int64, int64) {
	if sourceFrame == nil || s.timeFrame == nil || sourceFrame == s.timeFrame {
		return tStart, tStop
	}
	start, stop := timeframe.ConvertRange(timeframe.Index(tStart), timeframe.Index(tStop), sourceFrame, s.timeFrame)
	return int64(start), int64(stop)
}

// ViewInRange returns a restartable sequence of intervals overlapping
// [tStart, tStop] after conversion from sourceFrame.
func (s *DigitalIntervalSeries) ViewInRange(tStart, tStop int64, sourceFrame *timeframe.TimeFrame) iter.Seq[IntervalElem] {
	rStart, rStop := s.convertedRange(tStart, tStop, sourceFrame)
	src := s.store.Seq()
	return func(yield func(IntervalElem) bool) {
		for e := range src {
			if e.Interval.Start <= rStop && e.Interval.End >= rStart {
				if !yield(e) {
					return
				}
			}
		}
	}
}

// HasIntervalAtTime reports whether any stored interval contains t, after
// conversion from sourceFrame.
func (s *DigitalIntervalSeries) HasIntervalAtTime(t int64, sourceFrame *timeframe.TimeFrame) bool {
	rt, _ := s.convertedRange(t, t, sourceFrame)
	for e := range s.store.Seq() {
		if ivl.ContainsTime(e.Interval, rt) {
			return true
		}
	}
	return false
}

// Query runs a range query against sourceFrame-expressed [tStart, tStop]
// under the given RangeMode. Every mode returns a freshly materialized
// slice; Clip's elements are computed (clipped), not simply filtered.
func (s *DigitalIntervalSeries) Query(mode RangeMode, tStart, tStop int64, sourceFrame *timeframe.TimeFrame) []ivl.Interval {
	rStart, rStop := s.convertedRange(tStart, tStop, sourceFrame)

	var out []ivl.Interval
	for e := range s.store.Seq() {
		iv := e.Interval
		switch mode {
		case Contained:
			if iv.Start >= rStart && iv.End <= rStop {
				out = append(out, iv)
			}
		case Overlapping:
			if iv.Start <= rStop && iv.End >= rStart {
				out = append(out, iv)
			}
		case Clip:
			if iv.Start <= rStop && iv.End >= rStart {
				out = append(out, ivl.Clip(iv, rStart, rStop))
			}
		}
	}
	return out
}

// ByEntityID resolves an element by its assigned EntityId, O(1) after the
// side index has been built.
func (s *DigitalIntervalSeries) ByEntityID(id entity.ID) (IntervalElem, bool) {
	s.ensureEntityIndex()
	i, ok := s.byEntity[id]
	if !ok {
		return IntervalElem{}, false
	}
	return s.store.At(i), true
}

func (s *DigitalIntervalSeries) ensureEntityIndex() {
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

// NewIntervalView creates a zero-copy series referencing source, visible
// only at the given indices into source.
func NewIntervalView(source *DigitalIntervalSeries, indices []int) *DigitalIntervalSeries {
	v := &DigitalIntervalSeries{timeFrame: source.timeFrame}
	v.store = NewView(len(indices), func(i int) IntervalElem { return source.store.At(indices[i]) })
	return v
}

// NewIntervalViewByEntities creates a zero-copy series holding only the
// elements of source whose EntityId appears in ids.
func NewIntervalViewByEntities(source *DigitalIntervalSeries, ids []entity.ID) *DigitalIntervalSeries {
	want := make(map[entity.ID]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var indices []int
	i := 0
	for e := range source.store.Seq() {
		if _, ok := want[e.ID]; ok {
			indices = append(indices, i)
		}
		i++
	}
	return NewIntervalView(source, indices)
}

// NewIntervalLazy creates a read-only series backed by a restartable,
// finite sequence producer. Materializing from a producer that yields
// overlapping or contiguous intervals does not re-coalesce them — see
// DESIGN.md's Open Questions for the rationale; call Coalesce explicitly
// if canonical form is required.
func NewIntervalLazy(length int, seq func() iter.Seq[IntervalElem], tf *timeframe.TimeFrame) *DigitalIntervalSeries {
	v := &DigitalIntervalSeries{timeFrame: tf}
	v.store = NewLazy(length, seq)
	return v
}

// Materialize returns a fresh owning copy of this series' visible
// elements, regardless of current backend. This does not re-coalesce; a
// Lazy producer yielding overlapping intervals materializes as given.
func (s *DigitalIntervalSeries) Materialize() *DigitalIntervalSeries {
	out := &DigitalIntervalSeries{timeFrame: s.timeFrame}
	out.store = NewOwning(s.store.Materialize())
	return out
}

// Coalesce returns a fresh owning series in canonical coalesced form,
// built by re-inserting every visible element through AddInterval.
func (s *DigitalIntervalSeries) Coalesce() *DigitalIntervalSeries {
	var raw []ivl.Interval
	for e := range s.store.Seq() {
		raw = append(raw, e.Interval)
	}
	out := NewDigitalIntervalSeries(raw)
	out.timeFrame = s.timeFrame
	return out
}
