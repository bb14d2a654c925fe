package eval

import (
	"fmt"
	"sync"

	"github.com/alexisbeaulieu97/formengine/internal/ast"
	"github.com/alexisbeaulieu97/formengine/internal/graph"
	"github.com/alexisbeaulieu97/formengine/internal/registry"
)

// Context is the per-request mutable state an evaluation run threads
// through every handler invocation: scope/self stacks, the answer and
// data mutation stores, the request/response views, and the evaluation
// cache. Everything else (Nodes, Meta, Functions, Components, Graph,
// PseudoNodeIDs) is the compiled artifact, read-only and safe to share
// across concurrent requests.
type Context struct {
	Nodes      *registry.NodeRegistry
	Meta       *registry.MetadataRegistry
	Functions  *registry.FunctionRegistry
	Components *registry.ComponentRegistry
	Graph      *graph.Graph

	// PseudoNodeIDs maps a synthesized pseudo-node's (kind, key) back to
	// its minted node id, so a write through the effect context can find
	// which pseudo-node's cache entry to invalidate.
	PseudoNodeIDs map[ast.PseudoMapKey]string

	Answers  *AnswerStore
	Request  *RequestState
	Response *ResponseState

	dataMu sync.Mutex
	data   map[string]any

	scopeMu    sync.Mutex
	scopeStack []map[string]any
	selfStack  []any

	cacheMu sync.Mutex
	cache   map[string]map[string]Result

	sourceMu sync.Mutex
	source   MutationSource
}

// NewContext assembles a per-request Context over a compiled artifact's
// read-only tables plus a freshly inbound request view.
func NewContext(
	nodes *registry.NodeRegistry,
	meta *registry.MetadataRegistry,
	functions *registry.FunctionRegistry,
	components *registry.ComponentRegistry,
	g *graph.Graph,
	pseudoIDs map[ast.PseudoMapKey]string,
	request *RequestState,
) *Context {
	return &Context{
		Nodes:         nodes,
		Meta:          meta,
		Functions:     functions,
		Components:    components,
		Graph:         g,
		PseudoNodeIDs: pseudoIDs,
		Answers:       NewAnswerStore(),
		Request:       request,
		Response:      NewResponseState(),
		data:          make(map[string]any),
		cache:         make(map[string]map[string]Result),
	}
}

// PushScope pushes a key→value frame onto the scope stack (e.g. Iterate
// binding {"@scope": element} per loop iteration, or the submit
// transition's {"@transitionType": "submit"} marker frame).
func (c *Context) PushScope(frame map[string]any) {
	c.scopeMu.Lock()
	defer c.scopeMu.Unlock()
	c.scopeStack = append(c.scopeStack, frame)
}

// PopScope removes the most recently pushed scope frame. Callers MUST
// pair every PushScope with exactly one PopScope on every exit path,
// including error paths.
func (c *Context) PopScope() {
	c.scopeMu.Lock()
	defer c.scopeMu.Unlock()
	if len(c.scopeStack) == 0 {
		return
	}
	c.scopeStack = c.scopeStack[:len(c.scopeStack)-1]
}

// ScopeLookup searches the scope stack innermost-first for key.
func (c *Context) ScopeLookup(key string) (any, bool) {
	c.scopeMu.Lock()
	defer c.scopeMu.Unlock()
	for i := len(c.scopeStack) - 1; i >= 0; i-- {
		if v, ok := c.scopeStack[i][key]; ok {
			return v, true
		}
	}
	return nil, false
}

// PushSelf binds @self to value for the duration of evaluating one
// field's sub-expressions (Hidden, Validate, DefaultValue, Value).
func (c *Context) PushSelf(value any) {
	c.scopeMu.Lock()
	defer c.scopeMu.Unlock()
	c.selfStack = append(c.selfStack, value)
}

// PopSelf pops the most recently pushed @self binding.
func (c *Context) PopSelf() {
	c.scopeMu.Lock()
	defer c.scopeMu.Unlock()
	if len(c.selfStack) == 0 {
		return
	}
	c.selfStack = c.selfStack[:len(c.selfStack)-1]
}

// SelfValue returns the current @self binding, if any field evaluation is
// in progress.
func (c *Context) SelfValue() (any, bool) {
	c.scopeMu.Lock()
	defer c.scopeMu.Unlock()
	if len(c.selfStack) == 0 {
		return nil, false
	}
	return c.selfStack[len(c.selfStack)-1], true
}

// GetData returns the value stored under key in the per-request data
// store.
func (c *Context) GetData(key string) (any, bool) {
	c.dataMu.Lock()
	defer c.dataMu.Unlock()
	v, ok := c.data[key]
	return v, ok
}

// SetData stores value under key and cascades cache invalidation for
// every node depending on the DATA pseudo-node keyed by key.
func (c *Context) SetData(key string, value any) {
	c.dataMu.Lock()
	c.data[key] = value
	c.dataMu.Unlock()
	c.InvalidatePseudo(ast.PseudoMapKey{Kind: ast.PseudoData, Key: key})
}

// GetAllData returns every key/value currently in the data store.
func (c *Context) GetAllData() map[string]any {
	c.dataMu.Lock()
	defer c.dataMu.Unlock()
	out := make(map[string]any, len(c.data))
	for k, v := range c.data {
		out[k] = v
	}
	return out
}

// scopeDigest computes a cache-key component reflecting the current
// scope/self nesting, so the same node evaluated under different loop
// bindings caches independently.
func (c *Context) scopeDigest() string {
	c.scopeMu.Lock()
	defer c.scopeMu.Unlock()
	return fmt.Sprintf("scope=%v/self=%v", c.scopeStack, c.selfStack)
}

// CacheGet returns the cached Result for nodeID under the current scope
// digest.
func (c *Context) CacheGet(nodeID string) (Result, bool) {
	digest := c.scopeDigest()
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()
	bucket, ok := c.cache[nodeID]
	if !ok {
		return Result{}, false
	}
	r, ok := bucket[digest]
	return r, ok
}

// CacheSet stores result for nodeID under the current scope digest.
// Errors are cached the same as successes, per spec, to avoid repeated
// failure storms within one request.
func (c *Context) CacheSet(nodeID string, result Result) {
	digest := c.scopeDigest()
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()
	bucket, ok := c.cache[nodeID]
	if !ok {
		bucket = make(map[string]Result)
		c.cache[nodeID] = bucket
	}
	bucket[digest] = result
}

// InvalidateNode clears every cached result for nodeID (all scope
// digests) and cascades to every transitive dependent in the graph.
func (c *Context) InvalidateNode(nodeID string) {
	visited := make(map[string]bool)
	var walk func(string)
	walk = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		c.cacheMu.Lock()
		delete(c.cache, id)
		c.cacheMu.Unlock()
		if c.Graph == nil {
			return
		}
		for _, dep := range c.Graph.GetDependents(id) {
			walk(dep)
		}
	}
	walk(nodeID)
}

// MutationSource returns the lifecycle source that should tag the next
// answer/data mutation an effect performs, as set by the transition
// handler currently driving evaluation.
func (c *Context) MutationSource() MutationSource {
	c.sourceMu.Lock()
	defer c.sourceMu.Unlock()
	return c.source
}

// SetMutationSource updates the current mutation source. Transition
// handlers set this before running their effects and restore the prior
// value afterward, since transitions can nest (a submit branch's effect
// could itself be a pipeline invoking further nodes).
func (c *Context) SetMutationSource(source MutationSource) {
	c.sourceMu.Lock()
	defer c.sourceMu.Unlock()
	c.source = source
}

// InvalidatePseudo invalidates the pseudo-node backing key (if one was
// synthesized for this artifact) and cascades from it.
func (c *Context) InvalidatePseudo(key ast.PseudoMapKey) {
	id, ok := c.PseudoNodeIDs[key]
	if !ok {
		return
	}
	c.InvalidateNode(id)
}
