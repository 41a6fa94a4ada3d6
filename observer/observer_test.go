package observer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/paulmthompson/whiskertoolbox-datacore/observer"
)

func TestNotifyOrdering(t *testing.T) {
	var h observer.Hook
	var order []int
	h.Add(func() { order = append(order, 1) })
	h.Add(func() { order = append(order, 2) })
	h.Add(func() { order = append(order, 3) })

	h.Notify()
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestRemove(t *testing.T) {
	var h observer.Hook
	fired := false
	id := h.Add(func() { fired = true })
	h.Remove(id)
	h.Notify()
	assert.False(t, fired)
}

func TestPanicDoesNotStopOtherCallbacks(t *testing.T) {
	var h observer.Hook
	second := false
	h.Add(func() { panic("boom") })
	h.Add(func() { second = true })

	assert.NotPanics(t, func() { h.Notify() })
	assert.True(t, second)
}
