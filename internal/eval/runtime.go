package eval

import (
	"context"

	"github.com/alexisbeaulieu97/formengine/pkg/ferrors"
)

// Handler is a compiled thunk bound to one node id. Handler
// implementations live in internal/eval/handlers; this interface is
// declared here (not there) so Runtime can hold a handler table without
// either package importing the other.
type Handler interface {
	NodeID() string

	// IsAsync reports this handler's compile-time async-ness, populated
	// by ComputeIsAsync over its operand handlers (C9 phase 9). A handler
	// that has not had ComputeIsAsync run yet reports false; the compile
	// pipeline runs ComputeIsAsync on every handler it builds.
	IsAsync() bool

	// ComputeIsAsync sets IsAsync by consulting isAsync(depID) for every
	// operand this handler evaluates, unioning conservatively: any unknown
	// or async dependency makes this handler async too.
	ComputeIsAsync(isAsync func(depID string) bool)

	// Evaluate runs the handler against ectx, using inv to resolve any
	// operand node by id. Go has no promise/await split; both the sync
	// and async invocation paths described by spec.md funnel through this
	// single method — IsAsync remains purely descriptive metadata.
	Evaluate(ctx context.Context, ectx *Context, inv Invoker) Result
}

// Invoker resolves a node id to its evaluated Result, going through the
// cache and recursing into the owning Runtime. Handlers never call one
// another's Go methods directly — only by id through an Invoker.
type Invoker interface {
	Invoke(ctx context.Context, nodeID string) Result
	InvokeSync(nodeID string) Result
}

// Artifact is the immutable, shareable-across-requests output of one
// compile: the registries, dependency graph, and every node's compiled
// handler.
type Artifact struct {
	Handlers map[string]Handler
}

// NewArtifact wraps a compiled handler table.
func NewArtifact(handlers map[string]Handler) *Artifact {
	return &Artifact{Handlers: handlers}
}

// Runtime ties one immutable Artifact to one request's mutable Context
// and implements Invoker against that pairing.
type Runtime struct {
	Artifact *Artifact
	Ctx      *Context
}

// NewRuntime builds a Runtime ready to invoke nodes from artifact against
// ctx.
func NewRuntime(artifact *Artifact, ctx *Context) *Runtime {
	return &Runtime{Artifact: artifact, Ctx: ctx}
}

// InvokeSync resolves nodeID using context.Background(), for call sites
// on the handler sync path that have no cancellation signal to thread.
func (r *Runtime) InvokeSync(nodeID string) Result {
	return r.Invoke(context.Background(), nodeID)
}

// Invoke looks up nodeID's handler, consults the cache, evaluates on a
// miss, and stores the result (success or error alike) before returning.
func (r *Runtime) Invoke(ctx context.Context, nodeID string) Result {
	if cached, ok := r.Ctx.CacheGet(nodeID); ok {
		return cached
	}

	h, ok := r.Artifact.Handlers[nodeID]
	if !ok {
		result := Err(ferrors.CodeHandlerNotFound, nodeID, "no handler compiled for node")
		r.Ctx.CacheSet(nodeID, result)
		return result
	}

	result := h.Evaluate(ctx, r.Ctx, r)
	r.Ctx.CacheSet(nodeID, result)
	return result
}
