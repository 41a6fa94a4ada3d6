package loaders_test

import (
	"bytes"
	"testing"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ivl "github.com/paulmthompson/whiskertoolbox-datacore/interval"
	"github.com/paulmthompson/whiskertoolbox-datacore/loaders"
)

func TestLoadIntervalsDiscardsReversedWithDiagnostic(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewLogfmtLogger(&buf)

	s := loaders.LoadIntervals(logger, []ivl.Interval{{Start: 10, End: 5}, {Start: 0, End: 20}}, nil)

	assert.Equal(t, 1, s.Len())
	assert.Contains(t, buf.String(), "discarding reversed interval")
}

func TestLoadIntervalsNilLoggerIsSafe(t *testing.T) {
	s := loaders.LoadIntervals(nil, []ivl.Interval{{Start: 0, End: 10}}, nil)
	assert.Equal(t, 1, s.Len())
}

func TestLoadEventsSortsAndPermitsDuplicates(t *testing.T) {
	s := loaders.LoadEvents([]int64{30, 10, 10}, nil)
	var got []int64
	for e := range s.View() {
		got = append(got, e.Time)
	}
	assert.Equal(t, []int64{10, 10, 30}, got)
}

func TestLoadAnalogValidatesLengths(t *testing.T) {
	_, err := loaders.LoadAnalog([]float32{1, 2}, []int64{1}, nil)
	assert.Error(t, err)

	s, err := loaders.LoadAnalog([]float32{1, 2}, []int64{10, 20}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
}

func TestEdgesToIntervalsPairsRisingFalling(t *testing.T) {
	out, err := loaders.EdgesToIntervals([]int64{0, 100}, []int64{10, 150})
	require.NoError(t, err)
	assert.Equal(t, []ivl.Interval{{Start: 0, End: 10}, {Start: 100, End: 150}}, out)
}

func TestEdgesToIntervalsMismatchedLengthsErrors(t *testing.T) {
	_, err := loaders.EdgesToIntervals([]int64{0}, []int64{10, 20})
	assert.Error(t, err)
}
