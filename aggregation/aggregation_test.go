package aggregation_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paulmthompson/whiskertoolbox-datacore/aggregation"
	ivl "github.com/paulmthompson/whiskertoolbox-datacore/interval"
	"github.com/paulmthompson/whiskertoolbox-datacore/series"
)

// S6 — Aggregation over interval scalars and reference-interval lookups.
func TestSeedScenarioS6Aggregation(t *testing.T) {
	rows := []ivl.Interval{{Start: 100, End: 200}, {Start: 240, End: 500}, {Start: 700, End: 900}}
	refs := aggregation.NewReferenceSet()
	refs.Intervals["ref"] = []ivl.Interval{{Start: 40, End: 550}, {Start: 650, End: 1000}}

	columns := []aggregation.ColumnConfig{
		{Type: aggregation.Start, ColumnName: "start"},
		{Type: aggregation.End, ColumnName: "end"},
		{Type: aggregation.IntervalId, ColumnName: "ref_id", ReferenceKey: "ref", OverlapStrategy: aggregation.First},
		{Type: aggregation.IntervalCount, ColumnName: "ref_count", ReferenceKey: "ref"},
	}

	out, err := aggregation.Aggregate(rows, columns, refs)
	require.NoError(t, err)

	assert.Equal(t, []float64{100, 200, 0, 1}, out[0])
	assert.Equal(t, []float64{240, 500, 0, 1}, out[1])
	assert.Equal(t, []float64{700, 900, 1, 1}, out[2])
}

// S7 — Sparse-timestamp analog aggregation: samples located by timestamp,
// not by array position.
func TestSeedScenarioS7SparseAnalogAggregation(t *testing.T) {
	analog, err := series.NewAnalogTimeSeries([]float32{10, 20, 30, 40, 50}, []int64{100, 200, 300, 400, 500})
	require.NoError(t, err)

	refs := aggregation.NewReferenceSet()
	refs.Analog["a"] = analog

	rows := []ivl.Interval{{Start: 200, End: 400}}
	columns := []aggregation.ColumnConfig{
		{Type: aggregation.AnalogMean, ColumnName: "mean", ReferenceKey: "a"},
		{Type: aggregation.AnalogMin, ColumnName: "min", ReferenceKey: "a"},
		{Type: aggregation.AnalogMax, ColumnName: "max", ReferenceKey: "a"},
	}

	out, err := aggregation.Aggregate(rows, columns, refs)
	require.NoError(t, err)
	assert.InDelta(t, 30, out[0][0], 1e-9)
	assert.InDelta(t, 20, out[0][1], 1e-9)
	assert.InDelta(t, 40, out[0][2], 1e-9)
}

func TestDurationColumn(t *testing.T) {
	rows := []ivl.Interval{{Start: 10, End: 20}}
	out, err := aggregation.Aggregate(rows, []aggregation.ColumnConfig{{Type: aggregation.Duration, ColumnName: "d"}}, aggregation.NewReferenceSet())
	require.NoError(t, err)
	assert.Equal(t, float64(11), out[0][0])
}

func TestMissingReferenceYieldsNaN(t *testing.T) {
	rows := []ivl.Interval{{Start: 10, End: 20}}
	columns := []aggregation.ColumnConfig{
		{Type: aggregation.IntervalCount, ColumnName: "count", ReferenceKey: "absent"},
		{Type: aggregation.IntervalId, ColumnName: "id", ReferenceKey: "absent"},
		{Type: aggregation.AnalogMean, ColumnName: "mean", ReferenceKey: "absent"},
	}
	out, err := aggregation.Aggregate(rows, columns, aggregation.NewReferenceSet())
	require.NoError(t, err)
	for _, v := range out[0] {
		assert.True(t, math.IsNaN(v))
	}
}

// Preserves the documented distinction: present reference with no overlap
// yields 0 for IntervalCount, not NaN.
func TestIntervalCountZeroForNoOverlapButReferencePresent(t *testing.T) {
	refs := aggregation.NewReferenceSet()
	refs.Intervals["ref"] = []ivl.Interval{{Start: 1000, End: 2000}}

	rows := []ivl.Interval{{Start: 10, End: 20}}
	out, err := aggregation.Aggregate(rows, []aggregation.ColumnConfig{
		{Type: aggregation.IntervalCount, ColumnName: "count", ReferenceKey: "ref"},
	}, refs)
	require.NoError(t, err)
	assert.Equal(t, float64(0), out[0][0])
}

func TestUnknownTransformationTypeIsFatalError(t *testing.T) {
	rows := []ivl.Interval{{Start: 0, End: 1}}
	_, err := aggregation.Aggregate(rows, []aggregation.ColumnConfig{{Type: aggregation.TransformationType(999), ColumnName: "bad"}}, aggregation.NewReferenceSet())
	assert.Error(t, err)
}

func TestUnknownOverlapStrategyIsFatalError(t *testing.T) {
	refs := aggregation.NewReferenceSet()
	refs.Intervals["ref"] = []ivl.Interval{{Start: 0, End: 10}}
	rows := []ivl.Interval{{Start: 0, End: 1}}
	_, err := aggregation.Aggregate(rows, []aggregation.ColumnConfig{
		{Type: aggregation.IntervalId, ColumnName: "id", ReferenceKey: "ref", OverlapStrategy: aggregation.OverlapStrategy(999)},
	}, refs)
	assert.Error(t, err)
}

func TestMaxOverlapStrategyBreaksTiesByFirstOccurrence(t *testing.T) {
	refs := aggregation.NewReferenceSet()
	refs.Intervals["ref"] = []ivl.Interval{{Start: 0, End: 10}, {Start: 5, End: 15}}

	rows := []ivl.Interval{{Start: 5, End: 10}}
	out, err := aggregation.Aggregate(rows, []aggregation.ColumnConfig{
		{Type: aggregation.IntervalId, ColumnName: "id", ReferenceKey: "ref", OverlapStrategy: aggregation.MaxOverlap},
	}, refs)
	require.NoError(t, err)
	assert.Equal(t, float64(0), out[0][0])
}

func TestPointMeanXY(t *testing.T) {
	p := series.NewPointData()
	p.AddAtTime(10, series.Point2D{X: 1, Y: 2})
	p.AddAtTime(10, series.Point2D{X: 3, Y: 4})
	p.AddAtTime(20, series.Point2D{X: 5, Y: 6})

	refs := aggregation.NewReferenceSet()
	refs.Points["p"] = p

	rows := []ivl.Interval{{Start: 10, End: 20}}
	out, err := aggregation.Aggregate(rows, []aggregation.ColumnConfig{
		{Type: aggregation.PointMeanX, ColumnName: "mx", ReferenceKey: "p"},
		{Type: aggregation.PointMeanY, ColumnName: "my", ReferenceKey: "p"},
	}, refs)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, out[0][0], 1e-9)
	assert.InDelta(t, 4.0, out[0][1], 1e-9)
}

func TestPointMeanNoPointsInRangeIsNaN(t *testing.T) {
	p := series.NewPointData()
	p.AddAtTime(100, series.Point2D{X: 1, Y: 1})

	refs := aggregation.NewReferenceSet()
	refs.Points["p"] = p

	rows := []ivl.Interval{{Start: 0, End: 10}}
	out, err := aggregation.Aggregate(rows, []aggregation.ColumnConfig{
		{Type: aggregation.PointMeanX, ColumnName: "mx", ReferenceKey: "p"},
	}, refs)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(out[0][0]))
}
