package series

import (
	"sort"

	"github.com/paulmthompson/whiskertoolbox-datacore/entity"
	"github.com/paulmthompson/whiskertoolbox-datacore/timeframe"
)

// PointElem is one entity-tagged 2D point stored at a given time.
type PointElem struct {
	Point Point2D
	ID    entity.ID
}

// PointData stores `time -> [(Point2D, entity_id)]`, insertion order
// preserved per time.
type PointData struct {
	identity
	notifier

	byTime    map[timeframe.Index][]PointElem
	timeFrame *timeframe.TimeFrame
	imageSize *ImageSize
}

// NewPointData constructs an empty PointData.
func NewPointData() *PointData {
	return &PointData{byTime: make(map[timeframe.Index][]PointElem)}
}

// SetTimeFrame attaches the TimeFrame this container's times are indices
// into. May be nil.
func (d *PointData) SetTimeFrame(tf *timeframe.TimeFrame) { d.timeFrame = tf }

// TimeFrame returns the attached TimeFrame, or nil.
func (d *PointData) TimeFrame() *timeframe.TimeFrame { return d.timeFrame }

// SetImageSize records the display-time coordinate-scaling hint. In-core
// operations never consult it.
func (d *PointData) SetImageSize(sz ImageSize) { d.imageSize = &sz }

// ImageSize returns the recorded image size, if any.
func (d *PointData) ImageSize() (ImageSize, bool) {
	if d.imageSize == nil {
		return ImageSize{}, false
	}
	return *d.imageSize, true
}

// AddAtTime appends pt to the list of points at t, in insertion order.
func (d *PointData) AddAtTime(t timeframe.Index, pt Point2D, opts ...Option) entity.ID {
	o := resolveOptions(opts)
	local := int64(len(d.byTime[t]))
	id := d.ensureID(entity.KindPoint, int64(t), local)
	d.byTime[t] = append(d.byTime[t], PointElem{Point: pt, ID: id})
	d.notify(entity.KindPoint, o.notify)
	return id
}

// GetAtTime returns the points stored at t, in insertion order. The
// returned slice must not be mutated by the caller.
func (d *PointData) GetAtTime(t timeframe.Index) []PointElem {
	return d.byTime[t]
}

// ClearAtTime removes every point stored at t.
func (d *PointData) ClearAtTime(t timeframe.Index, opts ...Option) {
	o := resolveOptions(opts)
	if _, ok := d.byTime[t]; !ok {
		return
	}
	delete(d.byTime, t)
	d.notify(entity.KindPoint, o.notify)
}

// Times returns every time with at least one stored point, ascending.
func (d *PointData) Times() []timeframe.Index {
	out := make([]timeframe.Index, 0, len(d.byTime))
	for t := range d.byTime {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// CopyTo appends every point in [interval.start, interval.stop] (inclusive,
// in this container's own coordinates) to dst, returning the count copied.
// Source data and existing dst data are untouched beyond the append.
func (d *PointData) CopyTo(dst *PointData, start, stop timeframe.Index) int {
	n := 0
	for _, t := range d.Times() {
		if t < start || t > stop {
			continue
		}
		for _, e := range d.byTime[t] {
			dst.AddAtTime(t, e.Point, WithNotify(false))
			n++
		}
	}
	if n > 0 {
		dst.notify(entity.KindPoint, true)
	}
	return n
}

// CopyTimesTo appends every point stored at any of times to dst, returning
// the count copied.
func (d *PointData) CopyTimesTo(dst *PointData, times []timeframe.Index) int {
	n := 0
	for _, t := range times {
		for _, e := range d.byTime[t] {
			dst.AddAtTime(t, e.Point, WithNotify(false))
			n++
		}
	}
	if n > 0 {
		dst.notify(entity.KindPoint, true)
	}
	return n
}
