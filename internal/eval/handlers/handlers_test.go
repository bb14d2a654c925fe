package handlers_test

import (
	"testing"

	"github.com/alexisbeaulieu97/formengine/internal/ast"
	"github.com/alexisbeaulieu97/formengine/internal/eval"
	"github.com/alexisbeaulieu97/formengine/internal/eval/handlers"
	"github.com/alexisbeaulieu97/formengine/internal/graph"
	"github.com/alexisbeaulieu97/formengine/internal/registry"
)

// newTestContext builds a minimal per-request Context suitable for
// exercising a handful of wired handlers in isolation.
func newTestContext(t *testing.T, functions *registry.FunctionRegistry) *eval.Context {
	t.Helper()
	if functions == nil {
		functions = registry.NewFunctionRegistry()
	}
	return eval.NewContext(
		registry.NewNodeRegistry(),
		registry.NewMetadataRegistry(),
		functions,
		registry.NewComponentRegistry(),
		graph.New(),
		map[ast.PseudoMapKey]string{},
		&eval.RequestState{
			Params: map[string]string{},
			Query:  map[string]string{},
			Post:   map[string]any{},
		},
	)
}

// buildRuntime compiles a handler for every node reachable from roots (via
// Children(), recursively) and returns a Runtime over the resulting table.
// Tests only need to hand it the node(s) they care about invoking; every
// operand those nodes reference gets wired in automatically, mirroring
// what C9's compiler does for a whole AST.
func buildRuntime(t *testing.T, ectx *eval.Context, roots map[string]ast.Node) *eval.Runtime {
	t.Helper()
	table := make(map[string]eval.Handler)
	var walk func(n ast.Node)
	walk = func(n ast.Node) {
		if n == nil {
			return
		}
		if _, ok := table[n.ID()]; ok {
			return
		}
		h, err := handlers.New(n)
		if err != nil {
			t.Fatalf("handlers.New(%s): %v", n.ID(), err)
		}
		table[n.ID()] = h
		for _, child := range n.Children() {
			walk(child)
		}
	}
	for _, n := range roots {
		walk(n)
	}
	return eval.NewRuntime(eval.NewArtifact(table), ectx)
}
