package series

import (
	"sort"

	"github.com/paulmthompson/whiskertoolbox-datacore/entity"
	"github.com/paulmthompson/whiskertoolbox-datacore/timeframe"
)

// LineElem is one entity-tagged polyline stored at a given time.
type LineElem struct {
	Line Polyline
	ID   entity.ID
}

// LineData stores `time -> [(polyline, entity_id)]`, insertion order
// preserved per time.
type LineData struct {
	identity
	notifier

	byTime    map[timeframe.Index][]LineElem
	timeFrame *timeframe.TimeFrame
	imageSize *ImageSize
}

// NewLineData constructs an empty LineData.
func NewLineData() *LineData {
	return &LineData{byTime: make(map[timeframe.Index][]LineElem)}
}

// SetTimeFrame attaches the TimeFrame this container's times are indices
// into. May be nil.
func (d *LineData) SetTimeFrame(tf *timeframe.TimeFrame) { d.timeFrame = tf }

// TimeFrame returns the attached TimeFrame, or nil.
func (d *LineData) TimeFrame() *timeframe.TimeFrame { return d.timeFrame }

// SetImageSize records the display-time coordinate-scaling hint. In-core
// operations never consult it.
func (d *LineData) SetImageSize(sz ImageSize) { d.imageSize = &sz }

// ImageSize returns the recorded image size, if any.
func (d *LineData) ImageSize() (ImageSize, bool) {
	if d.imageSize == nil {
		return ImageSize{}, false
	}
	return *d.imageSize, true
}

// AddAtTime appends a line, built from parallel x/y coordinate slices, to
// the list stored at t.
func (d *LineData) AddAtTime(t timeframe.Index, xs, ys []float32, opts ...Option) entity.ID {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	line := make(Polyline, n)
	for i := 0; i < n; i++ {
		line[i] = Point2D{X: xs[i], Y: ys[i]}
	}
	return d.AddLineAtTime(t, line, opts...)
}

// AddLineAtTime appends an already-built polyline to the list stored at t.
func (d *LineData) AddLineAtTime(t timeframe.Index, line Polyline, opts ...Option) entity.ID {
	o := resolveOptions(opts)
	local := int64(len(d.byTime[t]))
	id := d.ensureID(entity.KindLine, int64(t), local)
	d.byTime[t] = append(d.byTime[t], LineElem{Line: line, ID: id})
	d.notify(entity.KindLine, o.notify)
	return id
}

// GetAtTime returns the lines stored at t, in insertion order. The
// returned slice must not be mutated by the caller.
func (d *LineData) GetAtTime(t timeframe.Index) []LineElem {
	return d.byTime[t]
}

// ClearAtTime removes every line stored at t.
func (d *LineData) ClearAtTime(t timeframe.Index, opts ...Option) {
	o := resolveOptions(opts)
	if _, ok := d.byTime[t]; !ok {
		return
	}
	delete(d.byTime, t)
	d.notify(entity.KindLine, o.notify)
}

// Times returns every time with at least one stored line, ascending.
func (d *LineData) Times() []timeframe.Index {
	out := make([]timeframe.Index, 0, len(d.byTime))
	for t := range d.byTime {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// CopyTo appends every line in [start, stop] (inclusive, in this
// container's own coordinates) to dst, returning the count copied.
func (d *LineData) CopyTo(dst *LineData, start, stop timeframe.Index) int {
	n := 0
	for _, t := range d.Times() {
		if t < start || t > stop {
			continue
		}
		for _, e := range d.byTime[t] {
			dst.AddLineAtTime(t, e.Line, WithNotify(false))
			n++
		}
	}
	if n > 0 {
		dst.notify(entity.KindLine, true)
	}
	return n
}

// CopyTimesTo appends every line stored at any of times to dst, returning
// the count copied.
func (d *LineData) CopyTimesTo(dst *LineData, times []timeframe.Index) int {
	n := 0
	for _, t := range times {
		for _, e := range d.byTime[t] {
			dst.AddLineAtTime(t, e.Line, WithNotify(false))
			n++
		}
	}
	if n > 0 {
		dst.notify(entity.KindLine, true)
	}
	return n
}
