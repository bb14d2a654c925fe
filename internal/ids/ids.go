// Package ids mints monotonically unique node identifiers tagged by
// category, mirroring the teacher's category-namespaced counters.
package ids

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/alexisbeaulieu97/formengine/pkg/ferrors"
)

// Category tags the provenance of an id so two ids from different
// categories are never mistaken for each other even if their counters
// happen to collide numerically.
type Category string

const (
	// CategoryCompileAST tags ids minted for nodes lowered at compile time.
	CategoryCompileAST Category = "compile_ast"
	// CategoryRuntimeAST tags ids minted for nodes synthesized at
	// evaluation time (per-request pseudo-nodes on the overlay graph).
	CategoryRuntimeAST Category = "runtime_ast"
	// CategoryCompilePseudo tags ids minted for pseudo-nodes synthesized
	// during compilation to represent external inputs.
	CategoryCompilePseudo Category = "compile_pseudo"
)

var knownCategories = map[Category]struct{}{
	CategoryCompileAST:    {},
	CategoryRuntimeAST:    {},
	CategoryCompilePseudo: {},
}

// Generator mints ids for one compilation run. It is safe for concurrent
// use; handler-internal parallel evaluation may mint runtime pseudo-node
// ids from multiple goroutines.
type Generator struct {
	mu       sync.Mutex
	counters map[Category]*int64
}

// NewGenerator returns a Generator with a fresh zero counter per category.
func NewGenerator() *Generator {
	g := &Generator{counters: make(map[Category]*int64, len(knownCategories))}
	for category := range knownCategories {
		n := int64(0)
		g.counters[category] = &n
	}
	return g
}

// Next mints the next id in the given category. It fails only when the
// category is not one of the known categories.
func (g *Generator) Next(category Category) (string, error) {
	if _, ok := knownCategories[category]; !ok {
		return "", ferrors.New(ferrors.CodeInvalidNode, fmt.Sprintf("unknown id category %q", category))
	}

	g.mu.Lock()
	counter, ok := g.counters[category]
	if !ok {
		n := int64(0)
		counter = &n
		g.counters[category] = counter
	}
	g.mu.Unlock()

	n := atomic.AddInt64(counter, 1)
	return fmt.Sprintf("%s:%d", category, n), nil
}

// MustNext mints the next id and panics on category misuse; reserved for
// call sites where the category is a compile-time constant and an error
// would indicate a programming mistake, not bad input.
func (g *Generator) MustNext(category Category) string {
	id, err := g.Next(category)
	if err != nil {
		panic(err)
	}
	return id
}
