// Package peak implements the analog interval-peak operator: for each of
// a set of search ranges derived from an interval series, it locates the
// extreme analog sample and emits its timestamp as an event.
package peak

import (
	"time"

	"github.com/paulmthompson/whiskertoolbox-datacore/internal/coremetrics"
	"github.com/paulmthompson/whiskertoolbox-datacore/series"
	"github.com/paulmthompson/whiskertoolbox-datacore/timeframe"
)

// PeakType selects whether a range's maximum or minimum sample is sought.
type PeakType int

const (
	Max PeakType = iota
	Min
)

// SearchMode selects how search ranges are derived from the interval
// series.
type SearchMode int

const (
	// WithinIntervals uses one range per interval, {i.start, i.end}.
	WithinIntervals SearchMode = iota
	// BetweenStarts uses one range per adjacent pair of interval starts,
	// plus a final range covering the last interval's own span.
	BetweenStarts
)

// Context carries optional progress and cancellation hooks, reported at
// coarse milestones.
type Context struct {
	Progress    func(percent int)
	IsCancelled func() bool
}

func (c Context) report(percent int) {
	if c.Progress != nil {
		c.Progress(percent)
	}
}

func (c Context) cancelled() bool {
	return c.IsCancelled != nil && c.IsCancelled()
}

// Compute finds, for each search range derived from intervals under mode,
// the timestamp of the extreme sample of analog (per peakType), expressed
// in intervals' TimeFrame. Ranges with no samples produce no event. A
// cancelled Context returns whatever has been produced so far.
func Compute(intervals *series.DigitalIntervalSeries, analog *series.AnalogTimeSeries, peakType PeakType, mode SearchMode, ctx Context) []int64 {
	start := time.Now()
	defer func() {
		coremetrics.OperatorDuration.WithLabelValues("peak").Observe(time.Since(start).Seconds())
	}()

	ctx.report(0)
	if ctx.cancelled() {
		return nil
	}

	ranges := searchRanges(intervals, mode)
	ctx.report(10)

	if len(ranges) == 0 || analog.Len() == 0 {
		ctx.report(100)
		return nil
	}
	ctx.report(15)

	intervalFrame := intervals.TimeFrame()
	var events []int64

	for i, r := range ranges {
		if ctx.cancelled() {
			break
		}

		var samples []series.AnalogSample
		for sm := range analog.ValueInRange(r[0], r[1], intervalFrame) {
			samples = append(samples, sm)
		}
		if len(samples) == 0 {
			continue
		}

		peakIdx := 0
		peakVal := samples[0].Value
		for j, sm := range samples[1:] {
			idx := j + 1
			if (peakType == Max && sm.Value > peakVal) || (peakType == Min && sm.Value < peakVal) {
				peakVal = sm.Value
				peakIdx = idx
			}
		}

		peakTime := samples[peakIdx].Time
		if analogFrame := analog.TimeFrame(); intervalFrame != nil && analogFrame != nil && analogFrame != intervalFrame {
			peakTime = int64(timeframe.ConvertIndex(timeframe.Index(peakTime), analogFrame, intervalFrame))
		}
		events = append(events, peakTime)
		ctx.report(15 + int(float64(i+1)*80.0/float64(len(ranges))))
	}

	ctx.report(100)
	return events
}

func searchRanges(intervals *series.DigitalIntervalSeries, mode SearchMode) [][2]int64 {
	var elems []series.IntervalElem
	for e := range intervals.View() {
		elems = append(elems, e)
	}
	if len(elems) == 0 {
		return nil
	}

	if mode == WithinIntervals {
		out := make([][2]int64, len(elems))
		for i, e := range elems {
			out[i] = [2]int64{e.Interval.Start, e.Interval.End}
		}
		return out
	}

	out := make([][2]int64, 0, len(elems))
	for i := 0; i < len(elems)-1; i++ {
		out = append(out, [2]int64{elems[i].Interval.Start, elems[i+1].Interval.Start - 1})
	}
	last := elems[len(elems)-1]
	out = append(out, [2]int64{last.Interval.Start, last.Interval.End})
	return out
}
