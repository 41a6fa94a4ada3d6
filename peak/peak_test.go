package peak_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ivl "github.com/paulmthompson/whiskertoolbox-datacore/interval"
	"github.com/paulmthompson/whiskertoolbox-datacore/peak"
	"github.com/paulmthompson/whiskertoolbox-datacore/series"
)

// S4 — interval-constrained peak, within_intervals + max.
func TestSeedScenarioS4WithinIntervalsMax(t *testing.T) {
	analog, err := series.NewAnalogTimeSeries(
		[]float32{1, 2, 5, 3, 1, 0.5},
		[]int64{0, 100, 200, 300, 400, 500},
	)
	require.NoError(t, err)
	intervals := series.NewDigitalIntervalSeries([]ivl.Interval{{Start: 0, End: 200}, {Start: 300, End: 500}})

	events := peak.Compute(intervals, analog, peak.Max, peak.WithinIntervals, peak.Context{})
	assert.Equal(t, []int64{200, 300}, events)
}

// S5 — interval-constrained peak, between_starts + max.
func TestSeedScenarioS5BetweenStartsMax(t *testing.T) {
	analog, err := series.NewAnalogTimeSeries(
		[]float32{1, 2, 5, 8, 10, 7, 3},
		[]int64{0, 10, 20, 30, 40, 50, 60},
	)
	require.NoError(t, err)
	intervals := series.NewDigitalIntervalSeries([]ivl.Interval{{Start: 0, End: 10}, {Start: 20, End: 30}, {Start: 40, End: 50}})

	events := peak.Compute(intervals, analog, peak.Max, peak.BetweenStarts, peak.Context{})
	assert.Equal(t, []int64{10, 30, 40}, events)
}

func TestRangeWithNoSamplesProducesNoEvent(t *testing.T) {
	analog, err := series.NewAnalogTimeSeries([]float32{1, 2}, []int64{0, 1})
	require.NoError(t, err)
	intervals := series.NewDigitalIntervalSeries([]ivl.Interval{{Start: 0, End: 1}, {Start: 100, End: 200}})

	events := peak.Compute(intervals, analog, peak.Max, peak.WithinIntervals, peak.Context{})
	assert.Equal(t, []int64{1}, events)
}

func TestMinPeakType(t *testing.T) {
	analog, err := series.NewAnalogTimeSeries([]float32{5, 1, 9}, []int64{0, 1, 2})
	require.NoError(t, err)
	intervals := series.NewDigitalIntervalSeries([]ivl.Interval{{Start: 0, End: 2}})

	events := peak.Compute(intervals, analog, peak.Min, peak.WithinIntervals, peak.Context{})
	assert.Equal(t, []int64{1}, events)
}

func TestEmptyIntervalsProducesNoEvents(t *testing.T) {
	analog, err := series.NewAnalogTimeSeries([]float32{1}, []int64{0})
	require.NoError(t, err)
	intervals := series.NewDigitalIntervalSeries(nil)

	events := peak.Compute(intervals, analog, peak.Max, peak.WithinIntervals, peak.Context{})
	assert.Empty(t, events)
}

func TestCancellationStopsEarly(t *testing.T) {
	analog, err := series.NewAnalogTimeSeries([]float32{1, 2, 3}, []int64{0, 1, 2})
	require.NoError(t, err)
	intervals := series.NewDigitalIntervalSeries([]ivl.Interval{{Start: 0, End: 0}, {Start: 1, End: 1}, {Start: 2, End: 2}})

	calls := 0
	ctx := peak.Context{IsCancelled: func() bool {
		calls++
		return calls > 2
	}}

	events := peak.Compute(intervals, analog, peak.Max, peak.WithinIntervals, ctx)
	assert.Len(t, events, 1)
}

func TestProgressReportsMilestones(t *testing.T) {
	analog, err := series.NewAnalogTimeSeries([]float32{1, 2}, []int64{0, 1})
	require.NoError(t, err)
	intervals := series.NewDigitalIntervalSeries([]ivl.Interval{{Start: 0, End: 1}})

	var reports []int
	ctx := peak.Context{Progress: func(p int) { reports = append(reports, p) }}

	peak.Compute(intervals, analog, peak.Max, peak.WithinIntervals, ctx)
	require.NotEmpty(t, reports)
	assert.Equal(t, 0, reports[0])
	assert.Equal(t, 100, reports[len(reports)-1])
}
