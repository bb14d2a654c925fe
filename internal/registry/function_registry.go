package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/alexisbeaulieu97/formengine/pkg/ferrors"
)

// Function is a user-registered callable invoked from a FUNCTION
// expression. args are already-evaluated operand values, in declared
// order. A transformer returns the transformed value; a condition returns
// a value the evaluator coerces to bool; an effect's return value is
// ignored and it mutates state only through the EffectContext it receives
// as args[0], ahead of its declared arguments.
type Function func(ctx context.Context, args []any) (any, error)

// FunctionRegistry maps function names to their callables. Registration
// happens once, at compile setup, before any evaluation begins; lookups
// afterward are lock-free from the caller's perspective but still
// RWMutex-guarded since a registry may be shared by concurrently evaluated
// journeys.
type FunctionRegistry struct {
	mu    sync.RWMutex
	funcs map[string]Function
}

func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{funcs: make(map[string]Function)}
}

// Register adds fn under name. Registering the same name twice returns a
// CodeRegistryDuplicate error; callers building a registry from several
// sources should collect these into a ferrors.Aggregate rather than abort
// on the first collision.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	if fn == nil {
		return ferrors.New(ferrors.CodeRegistryValidation, fmt.Sprintf("function %q: nil implementation", name))
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.funcs[name]; exists {
		return ferrors.New(ferrors.CodeRegistryDuplicate, fmt.Sprintf("function %q already registered", name))
	}
	r.funcs[name] = fn
	return nil
}

// Lookup returns the function registered under name.
func (r *FunctionRegistry) Lookup(name string) (Function, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.funcs[name]
	return fn, ok
}

// Names returns every registered function name, for diagnostics.
func (r *FunctionRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		out = append(out, name)
	}
	return out
}
