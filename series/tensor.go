package series

import (
	"sort"

	"github.com/paulmthompson/whiskertoolbox-datacore/entity"
	"github.com/paulmthompson/whiskertoolbox-datacore/timeframe"
)

// TensorElem is the dense N-dim array stored at one time point. Data is a
// flattened row-major buffer; Shape gives its dimensions, constant across
// every time point of a given TensorData.
type TensorElem struct {
	Data []float32
	ID   entity.ID
}

// TensorData stores `time -> N-dim array`, dense, with a feature shape
// constant across times.
type TensorData struct {
	identity
	notifier

	shape     []int
	byTime    map[timeframe.Index]TensorElem
	timeFrame *timeframe.TimeFrame
}

// NewTensorData constructs an empty TensorData with a fixed feature shape;
// every subsequent SetAtTime call must supply data of len == product(shape).
func NewTensorData(shape []int) *TensorData {
	return &TensorData{
		shape:  append([]int(nil), shape...),
		byTime: make(map[timeframe.Index]TensorElem),
	}
}

// Shape returns the fixed feature shape this container was constructed
// with.
func (d *TensorData) Shape() []int {
	return append([]int(nil), d.shape...)
}

func (d *TensorData) expectedLen() int {
	n := 1
	for _, dim := range d.shape {
		n *= dim
	}
	return n
}

// SetTimeFrame attaches the TimeFrame this container's times are indices
// into. May be nil.
func (d *TensorData) SetTimeFrame(tf *timeframe.TimeFrame) { d.timeFrame = tf }

// TimeFrame returns the attached TimeFrame, or nil.
func (d *TensorData) TimeFrame() *timeframe.TimeFrame { return d.timeFrame }

// SetAtTime stores (replacing any existing value) the flattened tensor at
// t. Panics if len(data) does not match the constructed shape's product —
// a programmer error, not a data-driven failure.
func (d *TensorData) SetAtTime(t timeframe.Index, data []float32, opts ...Option) entity.ID {
	if want := d.expectedLen(); len(data) != want {
		panic("tensor: data length does not match configured shape")
	}
	o := resolveOptions(opts)
	id := d.ensureID(entity.KindTensor, int64(t), 0)
	d.byTime[t] = TensorElem{Data: append([]float32(nil), data...), ID: id}
	d.notify(entity.KindTensor, o.notify)
	return id
}

// GetAtTime returns the tensor stored at t and whether one exists.
func (d *TensorData) GetAtTime(t timeframe.Index) (TensorElem, bool) {
	e, ok := d.byTime[t]
	return e, ok
}

// ClearAtTime removes the tensor stored at t, if any.
func (d *TensorData) ClearAtTime(t timeframe.Index, opts ...Option) {
	o := resolveOptions(opts)
	if _, ok := d.byTime[t]; !ok {
		return
	}
	delete(d.byTime, t)
	d.notify(entity.KindTensor, o.notify)
}

// Times returns every time with a stored tensor, ascending.
func (d *TensorData) Times() []timeframe.Index {
	out := make([]timeframe.Index, 0, len(d.byTime))
	for t := range d.byTime {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
