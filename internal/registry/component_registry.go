package registry

import (
	"fmt"
	"sync"

	"github.com/alexisbeaulieu97/formengine/internal/ast"
	"github.com/alexisbeaulieu97/formengine/pkg/ferrors"
)

// Component renders one block variant (e.g. "text", "select", "panel").
// Schema returns an opaque description used for documentation/validation
// tooling, not consulted by the evaluator itself.
type Component interface {
	Variant() string
	Schema() any
	Validate(block ast.Block) error
}

// ComponentRegistry maps block variant names to their renderer. Each
// registration is checked immediately: a nil Component or one with an
// empty Variant() never enters the table. Register does not call the
// component's own Validate; ValidateBlock does, per block.
type ComponentRegistry struct {
	mu         sync.RWMutex
	components map[string]Component
}

func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{components: make(map[string]Component)}
}

// Register adds c under its own Variant() name. It returns a
// CodeRegistryValidation error if c is nil or c.Variant() is empty, and a
// CodeRegistryDuplicate error if the variant is already registered.
func (r *ComponentRegistry) Register(c Component) error {
	if c == nil {
		return ferrors.New(ferrors.CodeRegistryValidation, "component: nil implementation")
	}
	variant := c.Variant()
	if variant == "" {
		return ferrors.New(ferrors.CodeRegistryValidation, "component: empty variant name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.components[variant]; exists {
		return ferrors.New(ferrors.CodeRegistryDuplicate, fmt.Sprintf("component variant %q already registered", variant))
	}
	r.components[variant] = c
	return nil
}

// Lookup returns the component registered for variant.
func (r *ComponentRegistry) Lookup(variant string) (Component, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.components[variant]
	return c, ok
}

// ValidateBlock looks up block's variant and, if a component is
// registered, runs its Validate hook. An unregistered variant is not an
// error here; the compile pipeline's structural checks decide whether
// that's fatal.
func (r *ComponentRegistry) ValidateBlock(variant string, block ast.Block) error {
	c, ok := r.Lookup(variant)
	if !ok {
		return nil
	}
	return c.Validate(block)
}

// Variants returns every registered variant name.
func (r *ComponentRegistry) Variants() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.components))
	for v := range r.components {
		out = append(out, v)
	}
	return out
}
