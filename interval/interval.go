// Package interval defines the Interval primitive shared by every typed
// series container and operator in the temporal-data engine.
package interval

import "fmt"

// Interval is a closed range of timestamps [Start, End]. An Interval is
// empty when Start > End.
type Interval struct {
	Start int64
	End   int64
}

// New constructs an Interval from start/end timestamps.
func New(start, end int64) Interval {
	return Interval{Start: start, End: end}
}

// Empty reports whether the interval contains no ticks.
func (iv Interval) Empty() bool {
	return iv.Start > iv.End
}

// Len returns the number of ticks covered, 0 for an empty interval.
func (iv Interval) Len() int64 {
	if iv.Empty() {
		return 0
	}
	return iv.End - iv.Start + 1
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%d,%d]", iv.Start, iv.End)
}

// Less orders intervals by Start ascending, ties broken by End ascending.
func Less(a, b Interval) bool {
	if a.Start != b.Start {
		return a.Start < b.Start
	}
	return a.End < b.End
}

// Overlaps reports whether a and b share at least one tick.
func Overlaps(a, b Interval) bool {
	return a.Start <= b.End && b.Start <= a.End
}

// Contiguous reports whether a and b are adjacent with no gap between them
// (but do not overlap).
func Contiguous(a, b Interval) bool {
	return a.End+1 == b.Start || b.End+1 == a.Start
}

// Contains reports whether a fully covers b.
func Contains(a, b Interval) bool {
	return a.Start <= b.Start && a.End >= b.End
}

// ContainsTime reports whether t falls within a, inclusive on both ends.
func ContainsTime(a Interval, t int64) bool {
	return a.Start <= t && t <= a.End
}

// OverlapDuration returns the number of ticks a and b share, 0 if they do
// not overlap.
func OverlapDuration(a, b Interval) int64 {
	lo := a.Start
	if b.Start > lo {
		lo = b.Start
	}
	hi := a.End
	if b.End < hi {
		hi = b.End
	}
	if lo > hi {
		return 0
	}
	return hi - lo + 1
}

// Clip returns a, restricted to [lo, hi]. The result may be Empty if a does
// not overlap [lo, hi].
func Clip(a Interval, lo, hi int64) Interval {
	start := a.Start
	if start < lo {
		start = lo
	}
	end := a.End
	if end > hi {
		end = hi
	}
	return Interval{Start: start, End: end}
}
