package handlers_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/formengine/internal/ast"
)

func TestCollectionRendersTemplatePerElement(t *testing.T) {
	items := lowerValue(t, []any{"a", "b"})
	template := ast.NewReference("tpl1", nil, []string{"@scope"}, nil)
	coll := ast.NewCollection("coll1", nil, items.(ast.Expression), template, nil)

	ectx := newTestContext(t, nil)
	rt := buildRuntime(t, ectx, map[string]ast.Node{coll.ID(): coll})

	r := rt.InvokeSync(coll.ID())
	require.False(t, r.IsError())
	require.Equal(t, []any{"a", "b"}, r.Value)
}

func TestCollectionFallsBackWhenEmpty(t *testing.T) {
	items := lowerValue(t, []any{})
	template := ast.NewReference("tpl1", nil, []string{"@scope"}, nil)
	fallback := lowerValue(t, "no items")
	coll := ast.NewCollection("coll1", nil, items.(ast.Expression), template, fallback)

	ectx := newTestContext(t, nil)
	rt := buildRuntime(t, ectx, map[string]ast.Node{coll.ID(): coll})

	r := rt.InvokeSync(coll.ID())
	require.False(t, r.IsError())
	require.Equal(t, "no items", r.Value)
}
