// Package loaders implements the core-boundary contract collaborators use
// to hand raw, format-parsed data to the core. It holds no
// parsing logic of its own — CSV/binary/TTL file formats are a
// collaborator concern; this package only validates and wraps already-
// parsed values into the core's typed containers.
package loaders

import (
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"

	"github.com/paulmthompson/whiskertoolbox-datacore/entity"
	ivl "github.com/paulmthompson/whiskertoolbox-datacore/interval"
	"github.com/paulmthompson/whiskertoolbox-datacore/internal/corelog"
	"github.com/paulmthompson/whiskertoolbox-datacore/series"
	"github.com/paulmthompson/whiskertoolbox-datacore/timeframe"
)

// LoadIntervals coalesces raw into an owning DigitalIntervalSeries on tf.
// Reversed intervals (start > end) are discarded with a diagnostic log
// line, tagged with a freshly minted Session so every discard from this
// batch can be correlated in logs, rather than aborting the load.
func LoadIntervals(logger log.Logger, raw []ivl.Interval, tf *timeframe.TimeFrame) *series.DigitalIntervalSeries {
	if logger == nil {
		logger = corelog.NewNop()
	}
	session := entity.NewSession()
	clean := make([]ivl.Interval, 0, len(raw))
	for _, iv := range raw {
		if iv.Empty() {
			level.Warn(logger).Log("msg", "discarding reversed interval", "session", session, "start", iv.Start, "end", iv.End)
			continue
		}
		clean = append(clean, iv)
	}
	s := series.NewDigitalIntervalSeries(clean)
	s.SetTimeFrame(tf)
	return s
}

// LoadEvents constructs an owning DigitalEventSeries from raw timestamps
// on tf; timestamps are sorted, duplicates permitted.
func LoadEvents(times []int64, tf *timeframe.TimeFrame) *series.DigitalEventSeries {
	s := series.NewDigitalEventSeriesFromUnsorted(times)
	s.SetTimeFrame(tf)
	return s
}

// LoadAnalog validates |values| == |times| and constructs an owning
// AnalogTimeSeries, sorted by times if not already sorted.
func LoadAnalog(values []float32, times []int64, tf *timeframe.TimeFrame) (*series.AnalogTimeSeries, error) {
	s, err := series.NewAnalogTimeSeries(values, times)
	if err != nil {
		return nil, errors.Wrap(err, "loaders: analog load")
	}
	s.SetTimeFrame(tf)
	return s, nil
}

// EdgesToIntervals pairs rising and falling edge timestamps into
// intervals, one per pulse, for the TTL-binary loading path: the loader
// extracts per-bit rising/falling edges to intervals, and the core never
// sees the original bit layout. rising and falling must be the same
// length and already sorted ascending; rising[i] pairs with falling[i].
func EdgesToIntervals(rising, falling []int64) ([]ivl.Interval, error) {
	if len(rising) != len(falling) {
		return nil, errors.New("loaders: rising and falling edge counts differ")
	}
	out := make([]ivl.Interval, len(rising))
	for i := range rising {
		out[i] = ivl.New(rising[i], falling[i])
	}
	return out, nil
}
