// Package compile implements C9, the nine-phase driver that turns an
// author's journey definition into one compiled eval.Artifact per step.
// Phases 1-5 run once per journey and produce a Base shared read-only by
// every step; phases 6-9 run once per step against an Overlay of that
// Base, so synthesizing step A's pseudo-nodes never contaminates step B's
// view of the graph.
package compile

import (
	"fmt"

	"github.com/alexisbeaulieu97/formengine/internal/ast"
	"github.com/alexisbeaulieu97/formengine/internal/compile/traverse"
	"github.com/alexisbeaulieu97/formengine/internal/compile/wiring"
	"github.com/alexisbeaulieu97/formengine/internal/definition"
	"github.com/alexisbeaulieu97/formengine/internal/eval"
	"github.com/alexisbeaulieu97/formengine/internal/eval/handlers"
	"github.com/alexisbeaulieu97/formengine/internal/graph"
	"github.com/alexisbeaulieu97/formengine/internal/ids"
	"github.com/alexisbeaulieu97/formengine/internal/logging"
	"github.com/alexisbeaulieu97/formengine/internal/registry"
	"github.com/alexisbeaulieu97/formengine/pkg/ferrors"
)

// Log is the package's logger, replaced by callers (typically cmd/formengine)
// that want compile-phase visibility; it discards everything by default so
// compiling carries no logging overhead unless a caller opts in.
var Log logging.Logger = logging.NoOp()

// Base is the output of phases 1-5: the journey lowered to AST, every
// node registered, parent metadata assigned, and static dependency edges
// wired. CompileStep leaves its Journey, Meta and Graph untouched, but
// registers each step's synthesized pseudo-nodes into Nodes, minting their
// ids from the same generator.
type Base struct {
	Journey *ast.Journey
	Nodes   *registry.NodeRegistry
	Meta    *registry.MetadataRegistry
	Graph   *graph.Graph

	gen *ids.Generator
}

// CompileJourney runs phases 1-5: Transform (C2 lowering, which also
// performs phase 2's Normalize defaulting inline — see DESIGN.md), Register
// (C4), Parent metadata (C4), and static wiring (C6) over the whole tree.
func CompileJourney(gen *ids.Generator, doc *definition.Document) (*Base, error) {
	factory := ast.NewFactory(gen)
	journey, err := factory.LowerJourney(doc.Journey)
	if err != nil {
		return nil, err
	}
	log := Log.With("journey_path", journey.Path)
	log.Debug("compile phase start", "compile_phase", "transform+register+wire")

	if journey.EntryPath != "" && !entryPathResolves(journey, journey.EntryPath) {
		return nil, ferrors.NewForNode(ferrors.CodeInvalidNode, journey.ID(), fmt.Sprintf("entryPath %q does not resolve to any descendant step", journey.EntryPath))
	}

	nodes := registry.NewNodeRegistry()
	traverse.Register(nodes, journey)

	meta := registry.NewMetadataRegistry()
	traverse.ParentMetadata(meta, journey)

	g := graph.New()
	if err := wiring.WireTree(g, journey); err != nil {
		return nil, err
	}
	for _, step := range allSteps(journey) {
		if err := wiring.WireValidationPushEdges(g, step); err != nil {
			return nil, err
		}
	}

	log.Debug("compile phase done", "compile_phase", "transform+register+wire", "node_count", nodes.Len())
	return &Base{Journey: journey, Nodes: nodes, Meta: meta, Graph: g, gen: gen}, nil
}

// StepArtifact is everything one step needs to build a request-scoped
// eval.Context: the shared node/function/component registries, the
// step-scoped metadata and dependency graph, the pseudo-node slot table,
// and the compiled handler artifact itself.
type StepArtifact struct {
	StepID     string
	Nodes      *registry.NodeRegistry
	Meta       *registry.MetadataRegistry
	Functions  *registry.FunctionRegistry
	Components *registry.ComponentRegistry
	Graph      *graph.Graph
	PseudoIDs  map[ast.PseudoMapKey]string
	Artifact   *eval.Artifact
}

// CompileStep runs phases 6-9 for the step identified by stepID: step-scope
// metadata, pseudo-node synthesis, step-scope wiring, and handler
// compilation with topologically-ordered ComputeIsAsync.
func CompileStep(base *Base, stepID string, functions *registry.FunctionRegistry, components *registry.ComponentRegistry) (*StepArtifact, error) {
	step := findStep(base.Journey, stepID)
	if step == nil {
		return nil, ferrors.NewForNode(ferrors.CodeInvalidNode, stepID, "no such step in journey")
	}
	log := Log.With("journey_path", base.Journey.Path, "step_id", stepID)
	log.Debug("compile phase start", "compile_phase", "step-scope+pseudo+wire+handlers")

	// Phase 6: step-scope metadata, on a fresh registry seeded with the
	// shared parent-metadata facts so per-step isCurrentStep/Ancestor/
	// Descendant flags never leak into another step's view.
	meta := registry.NewMetadataRegistry()
	traverse.ParentMetadata(meta, base.Journey)
	traverse.StepScope(meta, base.Journey, stepID)

	// Phase 7: pseudo-nodes for every external input referenced anywhere in
	// the journey, not only in this step's subtree; this step's own FIELD
	// codes decide ANSWER_LOCAL vs ANSWER_REMOTE. Pseudo-node identity (the pseudoIDs table) is scoped to
	// this one step's compile; a field coded the same way in two different
	// steps still gets distinct ANSWER_LOCAL pseudo-nodes because each
	// step compiles its own table from scratch (see DESIGN.md C9 entry).
	pseudoIDs := make(map[ast.PseudoMapKey]string)
	refs := traverse.FindReferences(base.Journey)
	refToPseudo, err := traverse.PseudoNodes(base.gen, base.Nodes, pseudoIDs, step, refs)
	if err != nil {
		return nil, err
	}

	overlay := &graph.Overlay{Main: base.Graph, Pending: graph.New()}
	for id := range refToPseudo {
		overlay.Pending.AddNode(id)
	}
	for _, pseudoID := range refToPseudo {
		overlay.Pending.AddNode(pseudoID)
	}

	// Phase 8: step-scope wiring. Each reference depends on the pseudo-node
	// standing in for its external input (edge pseudo -> reference). The
	// step's own onLoad transition is also wired as a dependency of every
	// ANSWER_LOCAL pseudo-node in this step: onLoad is what seeds the
	// answer store before any field reference can observe a loaded value,
	// so a local answer read is modeled as depending on load completion
	// (a decision recorded in DESIGN.md's C9 entry, the spec text for this
	// phase being underspecified on exactly what "from final onLoad
	// transitions" wires into).
	for refID, pseudoID := range refToPseudo {
		if err := overlay.Pending.AddEdge(pseudoID, refID, graph.EdgeMeta{Property: "pseudo"}); err != nil {
			return nil, err
		}
	}
	if step.OnLoad != nil {
		onLoadID := (*step.OnLoad).ID()
		overlay.Pending.AddNode(onLoadID)
		for key, pseudoID := range pseudoIDs {
			if key.Kind != ast.PseudoAnswerLocal {
				continue
			}
			if err := overlay.Pending.AddEdge(onLoadID, pseudoID, graph.EdgeMeta{Property: "onLoad"}); err != nil {
				return nil, err
			}
		}
	}

	merged := overlay.Merged()

	// Phase 9: compile one handler per node reachable in this step's merged
	// graph, then run ComputeIsAsync in topological order so every
	// handler's operand lookups are already resolved by the time it runs.
	validations := stepValidations(step)
	handlerTable := make(map[string]eval.Handler, len(merged.NodeIDs()))
	for _, id := range merged.NodeIDs() {
		node, ok := base.Nodes.Get(id)
		if !ok {
			continue
		}
		var h eval.Handler
		var err error
		if sub, isSubmit := node.(*ast.SubmitTransition); isSubmit {
			h = handlers.NewSubmitTransitionHandler(sub, validations)
		} else {
			h, err = handlers.New(node)
		}
		if err != nil {
			return nil, err
		}
		handlerTable[id] = h
	}

	sorted := merged.TopologicalSort()
	if sorted.HasCycles {
		return nil, ferrors.New(ferrors.CodeCycle, fmt.Sprintf("dependency cycle in step %s: %v", stepID, sorted.Cycles))
	}
	computed := make(map[string]bool, len(sorted.Sort))
	isAsync := func(depID string) bool {
		if async, ok := computed[depID]; ok {
			return async
		}
		return true
	}
	for _, id := range sorted.Sort {
		h, ok := handlerTable[id]
		if !ok {
			continue
		}
		h.ComputeIsAsync(isAsync)
		computed[id] = h.IsAsync()
	}

	log.Debug("compile phase done", "compile_phase", "step-scope+pseudo+wire+handlers",
		"handler_count", len(handlerTable), "pseudo_count", len(pseudoIDs))
	return &StepArtifact{
		StepID:     stepID,
		Nodes:      base.Nodes,
		Meta:       meta,
		Functions:  functions,
		Components: components,
		Graph:      merged,
		PseudoIDs:  pseudoIDs,
		Artifact:   eval.NewArtifact(handlerTable),
	}, nil
}

// stepValidations collects every VALIDATION reachable from a step's field
// blocks, the set NewSubmitTransitionHandler checks when Validate is true
// (a SubmitTransition has no back-reference to its owning step, so this is
// the only place that association can be made).
func stepValidations(step *ast.Step) []*ast.Validation {
	var out []*ast.Validation
	for _, b := range step.Blocks {
		if fb, ok := b.(*ast.FieldBlock); ok {
			out = append(out, fb.Validate...)
		}
	}
	return out
}

// entryPathResolves reports whether path names one of journey's descendant
// steps, searching nested child journeys as well.
func entryPathResolves(journey *ast.Journey, path string) bool {
	for _, step := range allSteps(journey) {
		if step.Path == path {
			return true
		}
	}
	return false
}

// allSteps flattens a journey's own steps plus every nested child
// journey's steps, depth-first.
func allSteps(j *ast.Journey) []*ast.Step {
	out := append([]*ast.Step(nil), j.Steps...)
	for _, child := range j.Children_ {
		out = append(out, allSteps(child)...)
	}
	return out
}

// findStep locates the step with the given id anywhere in the journey
// tree, including nested child journeys.
func findStep(j *ast.Journey, stepID string) *ast.Step {
	for _, s := range j.Steps {
		if s.ID() == stepID {
			return s
		}
	}
	for _, child := range j.Children_ {
		if s := findStep(child, stepID); s != nil {
			return s
		}
	}
	return nil
}
