// Package registry holds the per-compile lookup tables the evaluator
// consults by id rather than by pointer: node storage, per-node metadata,
// and the author-registered function/component callables. The mutex-guarded
// map shape follows the teacher's internal/registry and internal/plugin
// registries, generalized from a single global table to per-artifact
// instances since multiple journeys compile concurrently.
package registry

import (
	"sync"

	"github.com/alexisbeaulieu97/formengine/internal/ast"
)

// NodeRegistry is the sole owner of concrete node values once lowering
// completes. Every other compiler and runtime component references nodes
// by id and looks them up here.
type NodeRegistry struct {
	mu       sync.RWMutex
	byID     map[string]ast.Node
	byType   map[ast.NodeType]map[string]struct{}
	insOrder []string
}

func NewNodeRegistry() *NodeRegistry {
	return &NodeRegistry{
		byID:   make(map[string]ast.Node),
		byType: make(map[ast.NodeType]map[string]struct{}),
	}
}

// Register stores n, indexed by its id and type. Registering the same id
// twice is a no-op on the second call's data (first registration wins) so
// the traverser can register idempotently during re-walks.
func (r *NodeRegistry) Register(n ast.Node) {
	if n == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	id := n.ID()
	if _, exists := r.byID[id]; exists {
		return
	}
	r.byID[id] = n
	r.insOrder = append(r.insOrder, id)

	bucket, ok := r.byType[n.Type()]
	if !ok {
		bucket = make(map[string]struct{})
		r.byType[n.Type()] = bucket
	}
	bucket[id] = struct{}{}
}

// Get returns the node stored under id.
func (r *NodeRegistry) Get(id string) (ast.Node, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.byID[id]
	return n, ok
}

// MustGet returns the node stored under id, panicking if absent. Callers
// use this only where the id is known-registered by construction (e.g. a
// graph edge endpoint), never for ids sourced from author input.
func (r *NodeRegistry) MustGet(id string) ast.Node {
	n, ok := r.Get(id)
	if !ok {
		panic("registry: node not found: " + id)
	}
	return n
}

// FindByType returns every registered node of the given type, in
// registration order. It never allocates for a type with no registered
// nodes.
func (r *NodeRegistry) FindByType(t ast.NodeType) []ast.Node {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bucket, ok := r.byType[t]
	if !ok || len(bucket) == 0 {
		return nil
	}
	out := make([]ast.Node, 0, len(bucket))
	for _, id := range r.insOrder {
		if _, in := bucket[id]; in {
			out = append(out, r.byID[id])
		}
	}
	return out
}

// Len reports the number of registered nodes.
func (r *NodeRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// All returns every registered node in registration order.
func (r *NodeRegistry) All() []ast.Node {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ast.Node, 0, len(r.insOrder))
	for _, id := range r.insOrder {
		out = append(out, r.byID[id])
	}
	return out
}
