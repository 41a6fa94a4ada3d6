package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paulmthompson/whiskertoolbox-datacore/registry"
)

func TestRegisterAndDispatch(t *testing.T) {
	r := registry.New()
	r.Register(registry.Metadata{Name: "double", InputArity: 1, Category: registry.CategoryBoolean}, func(inputs []any, params any) (any, error) {
		return inputs[0].(int) * 2, nil
	})

	out, err := r.Dispatch("double", []any{21}, nil)
	require.NoError(t, err)
	assert.Equal(t, 42, out)
}

func TestLookupUnknownNameIsAbsent(t *testing.T) {
	r := registry.New()
	_, ok := r.Lookup("nope")
	assert.False(t, ok)
}

func TestDispatchUnknownNameReturnsError(t *testing.T) {
	r := registry.New()
	_, err := r.Dispatch("nope", nil, nil)
	assert.Error(t, err)
}

func TestNamesListsEveryRegisteredOperator(t *testing.T) {
	r := registry.New()
	r.Register(registry.Metadata{Name: "a"}, func([]any, any) (any, error) { return nil, nil })
	r.Register(registry.Metadata{Name: "b"}, func([]any, any) (any, error) { return nil, nil })

	assert.ElementsMatch(t, []string{"a", "b"}, r.Names())
}

func TestGlobalPanicsBeforeInit(t *testing.T) {
	registry.Shutdown()
	assert.Panics(t, func() { registry.Global() })
}

func TestGlobalReturnsInitializedInstance(t *testing.T) {
	r := registry.Init()
	defer registry.Shutdown()
	assert.Same(t, r, registry.Global())
}
