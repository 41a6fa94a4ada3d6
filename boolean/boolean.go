// Package boolean implements the interval boolean algebra operator: given
// one or two DigitalIntervalSeries, it computes their pointwise and/or/
// xor/not/and_not composition as a fresh, coalesced owning series on the
// first input's TimeFrame.
package boolean

import (
	"time"

	ivl "github.com/paulmthompson/whiskertoolbox-datacore/interval"
	"github.com/paulmthompson/whiskertoolbox-datacore/internal/coremetrics"
	"github.com/paulmthompson/whiskertoolbox-datacore/series"
	"github.com/paulmthompson/whiskertoolbox-datacore/timeframe"
)

// Op names one of the five supported boolean operations.
type Op int

const (
	And Op = iota
	Or
	Xor
	Not
	AndNot
)

func (o Op) String() string {
	switch o {
	case And:
		return "and"
	case Or:
		return "or"
	case Xor:
		return "xor"
	case Not:
		return "not"
	case AndNot:
		return "and_not"
	default:
		return "unknown"
	}
}

// Compute runs op over a (and b, ignored for Not) and returns a fresh
// owning DigitalIntervalSeries on a's TimeFrame, in coalesced form. other
// may be nil only when op is Not.
func Compute(op Op, a *series.DigitalIntervalSeries, other *series.DigitalIntervalSeries) *series.DigitalIntervalSeries {
	start := time.Now()
	defer func() {
		coremetrics.OperatorDuration.WithLabelValues(op.String()).Observe(time.Since(start).Seconds())
	}()

	aIntervals := collect(a)

	if op == Not {
		return buildResult(notOf(aIntervals), a)
	}

	bIntervals := alignToA(a, other)

	if len(aIntervals) == 0 && len(bIntervals) == 0 {
		return buildResult(nil, a)
	}

	lo, hi := boundingRange(aIntervals, bIntervals)
	mA := densify(aIntervals, lo, hi)
	mB := densify(bIntervals, lo, hi)

	out := make([]bool, hi-lo+1)
	for i := range out {
		switch op {
		case And:
			out[i] = mA[i] && mB[i]
		case Or:
			out[i] = mA[i] || mB[i]
		case Xor:
			out[i] = mA[i] != mB[i]
		case AndNot:
			out[i] = mA[i] && !mB[i]
		}
	}

	return buildResult(runsOf(out, lo), a)
}

func collect(s *series.DigitalIntervalSeries) []ivl.Interval {
	var out []ivl.Interval
	for e := range s.View() {
		out = append(out, e.Interval)
	}
	return out
}

// alignToA converts every interval of b into a's TimeFrame coordinates,
// using floor/ceil rounding at the start/end endpoints respectively.
func alignToA(a, b *series.DigitalIntervalSeries) []ivl.Interval {
	bIntervals := collect(b)
	aFrame, bFrame := a.TimeFrame(), b.TimeFrame()
	if aFrame == nil || bFrame == nil || aFrame == bFrame {
		return bIntervals
	}
	out := make([]ivl.Interval, len(bIntervals))
	for i, iv := range bIntervals {
		startTime := bFrame.TimeAt(timeframe.Index(iv.Start))
		endTime := bFrame.TimeAt(timeframe.Index(iv.End))
		out[i] = ivl.New(int64(aFrame.IndexAt(startTime, false)), int64(aFrame.IndexAt(endTime, true)))
	}
	return out
}

// boundingRange returns the union of all interval endpoints across a and b.
// At least one of a, b must be non-empty.
func boundingRange(a, b []ivl.Interval) (int64, int64) {
	var lo, hi int64
	switch {
	case len(a) > 0:
		lo, hi = a[0].Start, a[0].End
	case len(b) > 0:
		lo, hi = b[0].Start, b[0].End
	}
	for _, iv := range a {
		if iv.Start < lo {
			lo = iv.Start
		}
		if iv.End > hi {
			hi = iv.End
		}
	}
	for _, iv := range b {
		if iv.Start < lo {
			lo = iv.Start
		}
		if iv.End > hi {
			hi = iv.End
		}
	}
	return lo, hi
}

func densify(intervals []ivl.Interval, lo, hi int64) []bool {
	out := make([]bool, hi-lo+1)
	for _, iv := range intervals {
		for t := iv.Start; t <= iv.End; t++ {
			out[t-lo] = true
		}
	}
	return out
}

func notOf(a []ivl.Interval) []ivl.Interval {
	if len(a) == 0 {
		return nil
	}
	lo, hi := boundingRange(a, nil)
	mask := densify(a, lo, hi)
	for i := range mask {
		mask[i] = !mask[i]
	}
	return runsOf(mask, lo)
}

// runsOf scans mask left-to-right emitting a closed interval for every
// maximal true run, offset by lo.
func runsOf(mask []bool, lo int64) []ivl.Interval {
	var out []ivl.Interval
	inRun := false
	var start int64
	for i, v := range mask {
		t := lo + int64(i)
		if v && !inRun {
			start = t
			inRun = true
		} else if !v && inRun {
			out = append(out, ivl.New(start, t-1))
			inRun = false
		}
	}
	if inRun {
		out = append(out, ivl.New(start, lo+int64(len(mask))-1))
	}
	return out
}

func buildResult(intervals []ivl.Interval, a *series.DigitalIntervalSeries) *series.DigitalIntervalSeries {
	out := series.NewDigitalIntervalSeries(intervals)
	out.SetTimeFrame(a.TimeFrame())
	return out
}
