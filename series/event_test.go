package series_test

import (
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paulmthompson/whiskertoolbox-datacore/entity"
	"github.com/paulmthompson/whiskertoolbox-datacore/series"
	"github.com/paulmthompson/whiskertoolbox-datacore/timeframe"
)

func collectTimes(s *series.DigitalEventSeries) []int64 {
	var out []int64
	for e := range s.View() {
		out = append(out, e.Time)
	}
	return out
}

func TestAddEventKeepsSortedOrderWithDuplicates(t *testing.T) {
	s := series.NewDigitalEventSeries(nil)
	s.AddEvent(50)
	s.AddEvent(10)
	s.AddEvent(50)
	s.AddEvent(30)

	assert.Equal(t, []int64{10, 30, 50, 50}, collectTimes(s))
}

func TestRemoveEventFirstOccurrenceOnly(t *testing.T) {
	s := series.NewDigitalEventSeries([]int64{10, 20, 20, 30})
	s.RemoveEvent(20)
	assert.Equal(t, []int64{10, 20, 30}, collectTimes(s))
}

func TestRemoveEventAbsentIsNoop(t *testing.T) {
	s := series.NewDigitalEventSeries([]int64{10, 20})
	s.RemoveEvent(999)
	assert.Equal(t, []int64{10, 20}, collectTimes(s))
}

func TestViewInRangeSameFrame(t *testing.T) {
	s := series.NewDigitalEventSeries([]int64{0, 10, 20, 30, 40})
	var out []int64
	for e := range s.ViewInRange(10, 30, nil) {
		out = append(out, e.Time)
	}
	assert.Equal(t, []int64{10, 20, 30}, out)
	assert.Equal(t, 3, s.CountInRange(10, 30, nil))
}

func TestViewInRangeCrossFrame(t *testing.T) {
	source, err := timeframe.New([]int64{0, 10, 20, 30})
	require.NoError(t, err)
	target, err := timeframe.New([]int64{0, 5, 10, 15, 20, 25, 30})
	require.NoError(t, err)

	s := series.NewDigitalEventSeries([]int64{0, 1, 2, 3, 4, 5, 6})
	s.SetTimeFrame(target)

	// query range [1,2] in source coordinates (times 10..20) converts to
	// target indices covering times [10,20] -> indices [2,4]
	var out []int64
	for e := range s.ViewInRange(1, 2, source) {
		out = append(out, e.Time)
	}
	assert.Equal(t, []int64{2, 3, 4}, out)
}

func TestEntityIDAssignmentAndLookup(t *testing.T) {
	reg := entity.NewRegistry()
	s := series.NewDigitalEventSeries(nil)
	s.SetIdentityContext("events_a", reg)

	s.AddEvent(10)
	s.AddEvent(20)

	var elems []entity.ID
	for e := range s.View() {
		elems = append(elems, e.ID)
	}
	require.Len(t, elems, 2)
	assert.NotEqual(t, entity.Unassigned, elems[0])
	assert.NotEqual(t, elems[0], elems[1])

	got, ok := s.ByEntityID(elems[0])
	require.True(t, ok)
	assert.Equal(t, int64(10), got.Time)
}

func TestNoRegistryYieldsUnassignedID(t *testing.T) {
	s := series.NewDigitalEventSeries(nil)
	s.AddEvent(5)
	for e := range s.View() {
		assert.Equal(t, entity.Unassigned, e.ID)
	}
}

func TestObserverFiresOnMutationUnlessSuppressed(t *testing.T) {
	s := series.NewDigitalEventSeries(nil)
	count := 0
	s.AddObserver(func() { count++ })

	s.AddEvent(1)
	assert.Equal(t, 1, count)

	s.AddEvent(2, series.WithNotify(false))
	assert.Equal(t, 1, count)
}

func TestEventViewMaterializesOnMutation(t *testing.T) {
	source := series.NewDigitalEventSeries([]int64{0, 10, 20, 30})
	v := series.NewEventView(source, []int{1, 3})
	assert.Equal(t, series.View, v.StorageKind())
	assert.Equal(t, []int64{10, 30}, collectTimes(v))

	v.AddEvent(15)
	assert.Equal(t, series.Owning, v.StorageKind())
	assert.Equal(t, []int64{10, 15, 30}, collectTimes(v))
	// source is untouched by the view's materialize-then-mutate.
	assert.Equal(t, []int64{0, 10, 20, 30}, collectTimes(source))
}

func TestEventLazyMaterialize(t *testing.T) {
	producer := func() iter.Seq[series.EventElem] {
		return func(yield func(series.EventElem) bool) {
			for _, t := range []int64{1, 2, 3} {
				if !yield(series.EventElem{Time: t}) {
					return
				}
			}
		}
	}
	lazy := series.NewEventLazy(3, producer, nil)
	assert.Equal(t, series.Lazy, lazy.StorageKind())
	assert.Equal(t, []int64{1, 2, 3}, collectTimes(lazy))

	owned := lazy.Materialize()
	assert.Equal(t, series.Owning, owned.StorageKind())
	assert.Equal(t, []int64{1, 2, 3}, collectTimes(owned))
}
