package series

import (
	"sort"

	"github.com/paulmthompson/whiskertoolbox-datacore/entity"
	"github.com/paulmthompson/whiskertoolbox-datacore/timeframe"
)

// MaskPixel is one integer pixel coordinate of a mask.
type MaskPixel struct {
	X uint32
	Y uint32
}

// MaskElem is one entity-tagged pixel set stored at a given time.
type MaskElem struct {
	Pixels []MaskPixel
	ID     entity.ID
}

// MaskData stores `time -> [mask pixel set]`; mask image size is recorded
// separately.
type MaskData struct {
	identity
	notifier

	byTime    map[timeframe.Index][]MaskElem
	timeFrame *timeframe.TimeFrame
	imageSize *ImageSize
}

// NewMaskData constructs an empty MaskData.
func NewMaskData() *MaskData {
	return &MaskData{byTime: make(map[timeframe.Index][]MaskElem)}
}

// SetTimeFrame attaches the TimeFrame this container's times are indices
// into. May be nil.
func (d *MaskData) SetTimeFrame(tf *timeframe.TimeFrame) { d.timeFrame = tf }

// TimeFrame returns the attached TimeFrame, or nil.
func (d *MaskData) TimeFrame() *timeframe.TimeFrame { return d.timeFrame }

// SetImageSize records the mask's source image size. In-core operations
// never consult it.
func (d *MaskData) SetImageSize(sz ImageSize) { d.imageSize = &sz }

// ImageSize returns the recorded image size, if any.
func (d *MaskData) ImageSize() (ImageSize, bool) {
	if d.imageSize == nil {
		return ImageSize{}, false
	}
	return *d.imageSize, true
}

// AddAtTime appends a mask, built from parallel x/y pixel-coordinate
// slices, to the list stored at t.
func (d *MaskData) AddAtTime(t timeframe.Index, xs, ys []uint32, opts ...Option) entity.ID {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	pixels := make([]MaskPixel, n)
	for i := 0; i < n; i++ {
		pixels[i] = MaskPixel{X: xs[i], Y: ys[i]}
	}
	return d.AddMaskAtTime(t, pixels, opts...)
}

// AddMaskAtTime appends an already-built pixel set to the list stored at t.
func (d *MaskData) AddMaskAtTime(t timeframe.Index, pixels []MaskPixel, opts ...Option) entity.ID {
	o := resolveOptions(opts)
	local := int64(len(d.byTime[t]))
	id := d.ensureID(entity.KindMask, int64(t), local)
	d.byTime[t] = append(d.byTime[t], MaskElem{Pixels: pixels, ID: id})
	d.notify(entity.KindMask, o.notify)
	return id
}

// GetAtTime returns the masks stored at t, in insertion order. The
// returned slice must not be mutated by the caller.
func (d *MaskData) GetAtTime(t timeframe.Index) []MaskElem {
	return d.byTime[t]
}

// ClearAtTime removes every mask stored at t.
func (d *MaskData) ClearAtTime(t timeframe.Index, opts ...Option) {
	o := resolveOptions(opts)
	if _, ok := d.byTime[t]; !ok {
		return
	}
	delete(d.byTime, t)
	d.notify(entity.KindMask, o.notify)
}

// Times returns every time with at least one stored mask, ascending.
func (d *MaskData) Times() []timeframe.Index {
	out := make([]timeframe.Index, 0, len(d.byTime))
	for t := range d.byTime {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// PixelCount returns the total number of pixels across every mask stored
// at t.
func (d *MaskData) PixelCount(t timeframe.Index) int {
	n := 0
	for _, e := range d.byTime[t] {
		n += len(e.Pixels)
	}
	return n
}

// CopyTo appends every mask in [start, stop] (inclusive, in this
// container's own coordinates) to dst, returning the count copied.
func (d *MaskData) CopyTo(dst *MaskData, start, stop timeframe.Index) int {
	n := 0
	for _, t := range d.Times() {
		if t < start || t > stop {
			continue
		}
		for _, e := range d.byTime[t] {
			dst.AddMaskAtTime(t, e.Pixels, WithNotify(false))
			n++
		}
	}
	if n > 0 {
		dst.notify(entity.KindMask, true)
	}
	return n
}
