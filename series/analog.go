package series

import (
	"iter"
	"math"
	"sort"

	"github.com/paulmthompson/whiskertoolbox-datacore/timeframe"
)

// AnalogSample is one (timestamp, value) pair of an AnalogTimeSeries.
// Samples are stored at explicit timestamps, not necessarily at every
// index of any TimeFrame — the representative grid may be sparse.
type AnalogSample struct {
	Time  int64
	Value float32
}

// AnalogTimeSeries stores (timestamp, value) samples sorted by timestamp.
type AnalogTimeSeries struct {
	store     *Store[AnalogSample]
	timeFrame *timeframe.TimeFrame
}

// NewAnalogTimeSeries validates |values| == |times| and sorts by time if
// not already sorted.
func NewAnalogTimeSeries(values []float32, times []int64) (*AnalogTimeSeries, error) {
	if len(values) != len(times) {
		return nil, errMismatchedLengths
	}
	samples := make([]AnalogSample, len(values))
	for i := range values {
		samples[i] = AnalogSample{Time: times[i], Value: values[i]}
	}
	sort.SliceStable(samples, func(i, j int) bool { return samples[i].Time < samples[j].Time })
	return &AnalogTimeSeries{store: NewOwning(samples)}, nil
}

var errMismatchedLengths = lengthMismatchError{}

type lengthMismatchError struct{}

func (lengthMismatchError) Error() string {
	return "analog: values and times must have equal length"
}

// SetTimeFrame attaches the TimeFrame this series' samples are expressed
// against. May be nil.
func (s *AnalogTimeSeries) SetTimeFrame(tf *timeframe.TimeFrame) { s.timeFrame = tf }

// TimeFrame returns the attached TimeFrame, or nil.
func (s *AnalogTimeSeries) TimeFrame() *timeframe.TimeFrame { return s.timeFrame }

// Len returns the number of stored samples.
func (s *AnalogTimeSeries) Len() int { return s.store.Len() }

// StorageKind reports which backend currently holds this series' data.
func (s *AnalogTimeSeries) StorageKind() Backend { return s.store.Kind() }

// Values returns the raw value span in timestamp order.
func (s *AnalogTimeSeries) Values() []float32 {
	samples := s.store.Materialize()
	out := make([]float32, len(samples))
	for i, sm := range samples {
		out[i] = sm.Value
	}
	return out
}

// Times returns the raw timestamp span, in ascending order.
func (s *AnalogTimeSeries) Times() []int64 {
	samples := s.store.Materialize()
	out := make([]int64, len(samples))
	for i, sm := range samples {
		out[i] = sm.Time
	}
	return out
}

func (s *AnalogTimeSeries) convertedRange(tStart, tStop int64, sourceFrame *timeframe.TimeFrame) (int64, int64) {
	if sourceFrame == nil || s.timeFrame == nil || sourceFrame == s.timeFrame {
		return tStart, tStop
	}
	start, stop := timeframe.ConvertRange(timeframe.Index(tStart), timeframe.Index(tStop), sourceFrame, s.timeFrame)
	return int64(start), int64(stop)
}

// ValueInRange returns a restartable sequence of samples with
// tStart <= timestamp <= tStop after conversion from sourceFrame.
func (s *AnalogTimeSeries) ValueInRange(tStart, tStop int64, sourceFrame *timeframe.TimeFrame) iter.Seq[AnalogSample] {
	rStart, rStop := s.convertedRange(tStart, tStop, sourceFrame)
	src := s.store.Seq()
	return func(yield func(AnalogSample) bool) {
		for sm := range src {
			if sm.Time >= rStart && sm.Time <= rStop {
				if !yield(sm) {
					return
				}
			}
		}
	}
}

// samplesInRange is the internal helper every aggregate below uses; rStart
// and rStop are already expressed in this series' own coordinates.
func (s *AnalogTimeSeries) samplesInRange(rStart, rStop int64) []float32 {
	var out []float32
	for sm := range s.store.Seq() {
		if sm.Time >= rStart && sm.Time <= rStop {
			out = append(out, sm.Value)
		}
	}
	return out
}

// Mean returns the arithmetic mean of samples in [tStart, tStop]; NaN if
// empty.
func (s *AnalogTimeSeries) Mean(tStart, tStop int64) float64 {
	vals := s.samplesInRange(tStart, tStop)
	if len(vals) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, v := range vals {
		sum += float64(v)
	}
	return sum / float64(len(vals))
}

// Min returns the minimum sample value in [tStart, tStop]; NaN if empty.
func (s *AnalogTimeSeries) Min(tStart, tStop int64) float64 {
	vals := s.samplesInRange(tStart, tStop)
	if len(vals) == 0 {
		return math.NaN()
	}
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return float64(m)
}

// Max returns the maximum sample value in [tStart, tStop]; NaN if empty.
func (s *AnalogTimeSeries) Max(tStart, tStop int64) float64 {
	vals := s.samplesInRange(tStart, tStop)
	if len(vals) == 0 {
		return math.NaN()
	}
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return float64(m)
}

// StdDev returns the population standard deviation of samples in
// [tStart, tStop]; NaN if empty.
func (s *AnalogTimeSeries) StdDev(tStart, tStop int64) float64 {
	vals := s.samplesInRange(tStart, tStop)
	if len(vals) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, v := range vals {
		sum += float64(v)
	}
	mean := sum / float64(len(vals))

	var variance float64
	for _, v := range vals {
		d := float64(v) - mean
		variance += d * d
	}
	variance /= float64(len(vals))
	return math.Sqrt(variance)
}

// NewAnalogView creates a zero-copy series referencing source, visible
// only at the given indices into source.
func NewAnalogView(source *AnalogTimeSeries, indices []int) *AnalogTimeSeries {
	v := &AnalogTimeSeries{timeFrame: source.timeFrame}
	v.store = NewView(len(indices), func(i int) AnalogSample { return source.store.At(indices[i]) })
	return v
}

// NewAnalogLazy creates a read-only series backed by a restartable,
// finite sequence producer.
func NewAnalogLazy(length int, seq func() iter.Seq[AnalogSample], tf *timeframe.TimeFrame) *AnalogTimeSeries {
	v := &AnalogTimeSeries{timeFrame: tf}
	v.store = NewLazy(length, seq)
	return v
}

// Materialize returns a fresh owning copy of this series' visible
// samples, regardless of current backend.
func (s *AnalogTimeSeries) Materialize() *AnalogTimeSeries {
	out := &AnalogTimeSeries{timeFrame: s.timeFrame}
	out.store = NewOwning(s.store.Materialize())
	return out
}
