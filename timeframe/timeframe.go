// Package timeframe implements the monotone sequence of timestamps that
// every series container resolves its indices against, and the coordinate
// conversion between two such sequences.
package timeframe

import (
	"sort"

	"github.com/pkg/errors"
)

// Index is a strongly-typed position within a specific TimeFrame. An Index
// produced by one TimeFrame is never comparable with one produced by
// another; callers must convert via ConvertRange or ConvertIndex first.
type Index int64

// TimeFrame is an ordered, fixed-size sequence of timestamps
// t[0] <= t[1] <= ... <= t[N-1]. Instances are intended to be shared by
// reference among every series that samples against the same clock; the
// fast path in ConvertRange depends on callers sharing *TimeFrame
// instances rather than merely equal contents.
type TimeFrame struct {
	times []int64
}

// New builds a TimeFrame from an explicit, already non-decreasing sequence
// of timestamps. An empty input is rejected: TimeFrames are bounded,
// non-empty sequences for the lifetime of the core.
func New(times []int64) (*TimeFrame, error) {
	if len(times) == 0 {
		return nil, errors.New("timeframe: cannot construct an empty TimeFrame")
	}
	cp := make([]int64, len(times))
	copy(cp, times)
	return &TimeFrame{times: cp}, nil
}

// Len returns the number of timestamps, N.
func (tf *TimeFrame) Len() int {
	return len(tf.times)
}

// TimeAt returns the timestamp at index, clamped to [0, N-1].
func (tf *TimeFrame) TimeAt(index Index) int64 {
	i := tf.clamp(int64(index))
	return tf.times[i]
}

// IndexAt performs a binary search for timestamp t. When roundUp is true
// it returns the first index with t[i] >= t; otherwise the last index with
// t[i] <= t. Out-of-range timestamps clamp to [0, N-1] rather than erroring.
func (tf *TimeFrame) IndexAt(t int64, roundUp bool) Index {
	n := len(tf.times)
	if roundUp {
		i := sort.Search(n, func(i int) bool { return tf.times[i] >= t })
		if i >= n {
			i = n - 1
		}
		return Index(i)
	}

	i := sort.Search(n, func(i int) bool { return tf.times[i] > t })
	i--
	if i < 0 {
		i = 0
	}
	return Index(i)
}

func (tf *TimeFrame) clamp(i int64) int64 {
	if i < 0 {
		return 0
	}
	if n := int64(len(tf.times)); i >= n {
		return n - 1
	}
	return i
}

// ConvertRange maps [startIdx, stopIdx] expressed against source into the
// equivalent closed index range against target. When source and target are
// the same *TimeFrame instance the inputs are returned unchanged; identity
// is checked by pointer, not by timestamp equality, so callers must share
// instances to benefit from the fast path.
func ConvertRange(startIdx, stopIdx Index, source, target *TimeFrame) (Index, Index) {
	if source == target {
		return startIdx, stopIdx
	}
	tStart := source.TimeAt(startIdx)
	tStop := source.TimeAt(stopIdx)
	return target.IndexAt(tStart, false), target.IndexAt(tStop, true)
}

// ConvertIndex maps a single index expressed against source into target's
// coordinates, using the round-down convention (as a range start would).
func ConvertIndex(idx Index, source, target *TimeFrame) Index {
	if source == target {
		return idx
	}
	return target.IndexAt(source.TimeAt(idx), false)
}
