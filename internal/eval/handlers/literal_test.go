package handlers_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/formengine/internal/ast"
	"github.com/alexisbeaulieu97/formengine/internal/ids"
)

func lowerValue(t *testing.T, v any) ast.Node {
	t.Helper()
	f := ast.NewFactory(ids.NewGenerator())
	n, err := f.LowerValue(v)
	require.NoError(t, err)
	return n
}

func TestLiteralHandlerReturnsScalarValueVerbatim(t *testing.T) {
	node := lowerValue(t, "hello")
	ectx := newTestContext(t, nil)
	rt := buildRuntime(t, ectx, map[string]ast.Node{node.ID(): node})

	r := rt.InvokeSync(node.ID())
	require.False(t, r.IsError())
	require.Equal(t, "hello", r.Value)
}

func TestLiteralHandlerResolvesNestedMapValues(t *testing.T) {
	node := lowerValue(t, map[string]any{"a": 1, "b": "two"})
	ectx := newTestContext(t, nil)
	rt := buildRuntime(t, ectx, map[string]ast.Node{node.ID(): node})

	r := rt.InvokeSync(node.ID())
	require.False(t, r.IsError())
	m, ok := r.Value.(map[string]any)
	require.True(t, ok)
	require.Equal(t, 1, m["a"])
	require.Equal(t, "two", m["b"])
}
