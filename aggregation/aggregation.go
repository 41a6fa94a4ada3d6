// Package aggregation implements tabular cross-series aggregation: each
// row interval is transformed into a dense row of double-precision cells
// by a list of configured column transformations, each optionally
// consulting a named reference collection (intervals, analog samples, or
// points).
package aggregation

import (
	"math"
	"time"

	"github.com/pkg/errors"

	ivl "github.com/paulmthompson/whiskertoolbox-datacore/interval"
	"github.com/paulmthompson/whiskertoolbox-datacore/internal/coremetrics"
	"github.com/paulmthompson/whiskertoolbox-datacore/series"
	"github.com/paulmthompson/whiskertoolbox-datacore/timeframe"
)

// TransformationType selects what a single column computes.
type TransformationType int

const (
	Start TransformationType = iota
	End
	Duration
	IntervalId
	IntervalCount
	AnalogMean
	AnalogMin
	AnalogMax
	AnalogStdDev
	PointMeanX
	PointMeanY
)

// OverlapStrategy selects which overlapping reference interval IntervalId
// resolves to when more than one overlaps a row.
type OverlapStrategy int

const (
	First OverlapStrategy = iota
	Last
	MaxOverlap
)

// ColumnConfig is one column's transformation configuration.
type ColumnConfig struct {
	Type            TransformationType
	ColumnName      string
	ReferenceKey    string
	OverlapStrategy OverlapStrategy
}

// ReferenceSet holds the named reference collections columns may consult,
// keyed by the string ReferenceKey configured on a column.
type ReferenceSet struct {
	Intervals map[string][]ivl.Interval
	Analog    map[string]*series.AnalogTimeSeries
	Points    map[string]*series.PointData
}

// NewReferenceSet constructs an empty ReferenceSet.
func NewReferenceSet() ReferenceSet {
	return ReferenceSet{
		Intervals: make(map[string][]ivl.Interval),
		Analog:    make(map[string]*series.AnalogTimeSeries),
		Points:    make(map[string]*series.PointData),
	}
}

// Aggregate transforms every row interval into a row of len(columns)
// cells, returning a dense matrix double[|rows|][|columns|]. Missing
// references, missing data in range, or (for IntervalId) no overlapping
// interval yield NaN; IntervalCount yields 0 when its reference exists but
// nothing overlaps. An unknown TransformationType or OverlapStrategy is a
// fatal configuration error.
func Aggregate(rows []ivl.Interval, columns []ColumnConfig, refs ReferenceSet) ([][]float64, error) {
	start := time.Now()
	defer func() {
		coremetrics.OperatorDuration.WithLabelValues("aggregation").Observe(time.Since(start).Seconds())
	}()

	for _, col := range columns {
		if err := validateColumn(col); err != nil {
			return nil, err
		}
	}

	out := make([][]float64, len(rows))
	for r, row := range rows {
		cells := make([]float64, len(columns))
		for c, col := range columns {
			cells[c] = applyTransformation(row, col, refs)
		}
		out[r] = cells
	}
	return out, nil
}

func validateColumn(col ColumnConfig) error {
	switch col.Type {
	case Start, End, Duration, IntervalId, IntervalCount, AnalogMean, AnalogMin, AnalogMax, AnalogStdDev, PointMeanX, PointMeanY:
	default:
		return errors.Errorf("aggregation: unknown transformation type %d for column %q", col.Type, col.ColumnName)
	}
	if col.Type == IntervalId {
		switch col.OverlapStrategy {
		case First, Last, MaxOverlap:
		default:
			return errors.Errorf("aggregation: unknown overlap strategy %d for column %q", col.OverlapStrategy, col.ColumnName)
		}
	}
	return nil
}

func applyTransformation(row ivl.Interval, col ColumnConfig, refs ReferenceSet) float64 {
	switch col.Type {
	case Start:
		return float64(row.Start)
	case End:
		return float64(row.End)
	case Duration:
		return float64(row.End - row.Start + 1)
	case IntervalId:
		refIntervals, ok := refs.Intervals[col.ReferenceKey]
		if !ok {
			return math.NaN()
		}
		idx := findOverlappingIndex(row, refIntervals, col.OverlapStrategy)
		if idx < 0 {
			return math.NaN()
		}
		return float64(idx)
	case IntervalCount:
		refIntervals, ok := refs.Intervals[col.ReferenceKey]
		if !ok {
			return math.NaN()
		}
		count := 0
		for _, ref := range refIntervals {
			if ivl.Overlaps(row, ref) {
				count++
			}
		}
		return float64(count)
	case AnalogMean, AnalogMin, AnalogMax, AnalogStdDev:
		a, ok := refs.Analog[col.ReferenceKey]
		if !ok {
			return math.NaN()
		}
		switch col.Type {
		case AnalogMean:
			return a.Mean(row.Start, row.End)
		case AnalogMin:
			return a.Min(row.Start, row.End)
		case AnalogMax:
			return a.Max(row.Start, row.End)
		default:
			return a.StdDev(row.Start, row.End)
		}
	case PointMeanX, PointMeanY:
		p, ok := refs.Points[col.ReferenceKey]
		if !ok {
			return math.NaN()
		}
		return pointMean(p, row, col.Type == PointMeanX)
	default:
		return math.NaN()
	}
}

func pointMean(p *series.PointData, row ivl.Interval, useX bool) float64 {
	var sum float64
	count := 0
	for t := row.Start; t <= row.End; t++ {
		for _, e := range p.GetAtTime(timeframe.Index(t)) {
			if useX {
				sum += float64(e.Point.X)
			} else {
				sum += float64(e.Point.Y)
			}
			count++
		}
	}
	if count == 0 {
		return math.NaN()
	}
	return sum / float64(count)
}

// findOverlappingIndex mirrors the source's findOverlappingIntervalIndex:
// collect every reference index overlapping target, then resolve per
// strategy. MaxOverlap ties are broken by first occurrence.
func findOverlappingIndex(target ivl.Interval, refs []ivl.Interval, strategy OverlapStrategy) int {
	var overlapping []int
	for i, ref := range refs {
		if ivl.Overlaps(target, ref) {
			overlapping = append(overlapping, i)
		}
	}
	if len(overlapping) == 0 {
		return -1
	}

	switch strategy {
	case First:
		return overlapping[0]
	case Last:
		return overlapping[len(overlapping)-1]
	case MaxOverlap:
		best := overlapping[0]
		bestOverlap := ivl.OverlapDuration(target, refs[best])
		for _, i := range overlapping[1:] {
			d := ivl.OverlapDuration(target, refs[i])
			if d > bestOverlap {
				bestOverlap = d
				best = i
			}
		}
		return best
	default:
		return -1
	}
}
