package graph

// Overlay pairs a stable Main graph (already flushed, already wired) with
// a Pending graph accumulating edges from an in-progress wiring pass (e.g.
// re-wiring a single step's subtree after an author edit). FlushIntoMain
// idempotently unions Pending's edges into Main so repeated flushes of the
// same pending state are no-ops.
type Overlay struct {
	Main    *Graph
	Pending *Graph
}

func NewOverlay() *Overlay {
	return &Overlay{Main: New(), Pending: New()}
}

// FlushIntoMain merges every node and edge currently in Pending into Main,
// then resets Pending to empty. Edge merge is a set union keyed by
// (from, to, property, index): flushing the same pending edges twice adds
// nothing the second time.
func (o *Overlay) FlushIntoMain() {
	for _, id := range o.Pending.NodeIDs() {
		o.Main.AddNode(id)
	}
	for _, from := range o.Pending.NodeIDs() {
		for to, metas := range o.Pending.GetAllEdges(from) {
			for _, meta := range metas {
				if !o.mainHasEdge(from, to, meta) {
					_ = o.Main.AddEdge(from, to, meta)
				}
			}
		}
	}
	o.Pending = New()
}

func (o *Overlay) mainHasEdge(from, to string, meta EdgeMeta) bool {
	metas, ok := o.Main.edges[edgeKey{from, to}]
	if !ok {
		return false
	}
	for _, m := range metas {
		if m == meta {
			return true
		}
	}
	return false
}

// TopologicalSortPending sorts Pending alone, used by the compiler to
// validate a newly wired subtree before it is flushed into Main.
func (o *Overlay) TopologicalSortPending() SortResult {
	return o.Pending.TopologicalSort()
}

// Merged returns a fresh graph holding the union of Main and Pending,
// leaving both untouched. Used by the compiler to materialize one step's
// view (static edges from Main plus that step's own pseudo-node edges in
// Pending) without mutating the shared Main every other step reads from.
func (o *Overlay) Merged() *Graph {
	out := New()
	for _, id := range o.Main.NodeIDs() {
		out.AddNode(id)
	}
	for _, from := range o.Main.NodeIDs() {
		for to, metas := range o.Main.GetAllEdges(from) {
			for _, meta := range metas {
				_ = out.AddEdge(from, to, meta)
			}
		}
	}
	for _, id := range o.Pending.NodeIDs() {
		out.AddNode(id)
	}
	for _, from := range o.Pending.NodeIDs() {
		for to, metas := range o.Pending.GetAllEdges(from) {
			for _, meta := range metas {
				_ = out.AddEdge(from, to, meta)
			}
		}
	}
	return out
}
