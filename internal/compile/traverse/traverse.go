// Package traverse implements the compiler's AST walks (C4): node
// registration, parent-metadata assignment, step-scope flagging, and
// pseudo-node synthesis for external inputs. Every walk is a plain DFS
// over ast.Node.Children(); none of them mutate the dependency graph
// (that's internal/compile/wiring's job).
package traverse

import (
	"github.com/alexisbeaulieu97/formengine/internal/ast"
	"github.com/alexisbeaulieu97/formengine/internal/ids"
	"github.com/alexisbeaulieu97/formengine/internal/registry"
)

// Register visits root and every structural descendant exactly once,
// adding each to reg. Safe to call repeatedly: NodeRegistry.Register is
// itself idempotent per id.
func Register(reg *registry.NodeRegistry, root ast.Node) {
	if root == nil {
		return
	}
	visited := make(map[string]bool)
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		if n == nil || visited[n.ID()] {
			return
		}
		visited[n.ID()] = true
		reg.Register(n)
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(root)
}

const metaAttachedToParent = "attachedToParentNode"

// ParentMetadata assigns attachedToParentNode = parent.ID() for every
// non-root node reachable from root.
func ParentMetadata(meta *registry.MetadataRegistry, root ast.Node) {
	if root == nil {
		return
	}
	visited := make(map[string]bool)
	var walk func(parent, n ast.Node)
	walk = func(parent, n ast.Node) {
		if n == nil || visited[n.ID()] {
			return
		}
		visited[n.ID()] = true
		if parent != nil {
			meta.Set(n.ID(), metaAttachedToParent, parent.ID())
		}
		for _, c := range n.Children() {
			walk(n, c)
		}
	}
	walk(nil, root)
}

const (
	metaIsCurrentStep     = "isCurrentStep"
	metaIsAncestorOfStep  = "isAncestorOfStep"
	metaIsDescendantOfStep = "isDescendantOfStep"
)

// StepScope marks step-scope flags relative to currentStepID: the step
// itself gets isCurrentStep, every structural ancestor on the path from
// root gets isAncestorOfStep, and every node in the step's subtree gets
// isDescendantOfStep.
func StepScope(meta *registry.MetadataRegistry, root ast.Node, currentStepID string) {
	if root == nil {
		return
	}
	var ancestors []ast.Node

	var markDescendants func(ast.Node)
	markDescendants = func(n ast.Node) {
		meta.Set(n.ID(), metaIsDescendantOfStep, true)
		for _, c := range n.Children() {
			markDescendants(c)
		}
	}

	var walk func(ast.Node)
	walk = func(n ast.Node) {
		if n == nil {
			return
		}
		if n.ID() == currentStepID {
			meta.Set(n.ID(), metaIsCurrentStep, true)
			for _, a := range ancestors {
				meta.Set(a.ID(), metaIsAncestorOfStep, true)
			}
			markDescendants(n)
			return
		}
		ancestors = append(ancestors, n)
		for _, c := range n.Children() {
			walk(c)
		}
		ancestors = ancestors[:len(ancestors)-1]
	}
	walk(root)
}

// IsCurrentStep, IsAncestorOfStep, IsDescendantOfStep read back the flags
// StepScope assigned.
func IsCurrentStep(meta *registry.MetadataRegistry, id string) bool {
	return meta.GetBool(id, metaIsCurrentStep)
}

func IsAncestorOfStep(meta *registry.MetadataRegistry, id string) bool {
	return meta.GetBool(id, metaIsAncestorOfStep)
}

func IsDescendantOfStep(meta *registry.MetadataRegistry, id string) bool {
	return meta.GetBool(id, metaIsDescendantOfStep)
}

// AttachedToParentNode reads back the parent id ParentMetadata assigned,
// or "" if n is a root or was never visited.
func AttachedToParentNode(meta *registry.MetadataRegistry, id string) string {
	v := meta.Get(id, metaAttachedToParent, "")
	s, _ := v.(string)
	return s
}

// localFieldCodes maps each FIELD block's Code to its node id for every
// block directly on step, used to tell ANSWER_LOCAL apart from
// ANSWER_REMOTE: a reference to its own step's field is local.
func localFieldCodes(step *ast.Step) map[string]string {
	out := make(map[string]string)
	if step == nil {
		return out
	}
	for _, b := range step.Blocks {
		if fb, ok := b.(*ast.FieldBlock); ok && fb.Code != "" {
			out[fb.Code] = fb.ID()
		}
	}
	return out
}

// PseudoNodes synthesizes missing pseudo-nodes for every root-rooted
// REFERENCE in refs, using step's FIELD codes to tell ANSWER_LOCAL from
// ANSWER_REMOTE, registering each new node in reg and recording its
// (kind, key) slot in pseudoIDs so repeated calls with the same table never
// mint a duplicate for the same slot. It returns a map from
// each resolved reference's node id to the pseudo-node id backing it, for
// the caller to wire as dependency edges.
//
// A Base-relative reference (Base != nil) and a @scope/@self-rooted
// reference are both purely internal — neither names an external input —
// so both are skipped here.
func PseudoNodes(
	gen *ids.Generator,
	reg *registry.NodeRegistry,
	pseudoIDs map[ast.PseudoMapKey]string,
	step *ast.Step,
	refs []*ast.Reference,
) (map[string]string, error) {
	fieldIDs := localFieldCodes(step)
	refToPseudo := make(map[string]string, len(refs))

	for _, ref := range refs {
		if ref.Base != nil || len(ref.Path) < 2 {
			continue
		}

		var kind ast.PseudoKind
		var fieldID string
		key := ref.Path[1]

		switch ref.Path[0] {
		case "post":
			kind = ast.PseudoPost
		case "query":
			kind = ast.PseudoQuery
		case "params":
			kind = ast.PseudoParams
		case "data":
			kind = ast.PseudoData
		case "answers":
			if id, ok := fieldIDs[key]; ok {
				kind = ast.PseudoAnswerLocal
				fieldID = id
			} else {
				kind = ast.PseudoAnswerRemote
			}
		default:
			continue
		}

		mapKey := ast.PseudoMapKey{Kind: kind, Key: key}
		id, ok := pseudoIDs[mapKey]
		if !ok {
			minted, err := gen.Next(ids.CategoryCompilePseudo)
			if err != nil {
				return nil, err
			}
			reg.Register(ast.NewPseudo(minted, kind, key, fieldID))
			pseudoIDs[mapKey] = minted
			id = minted
		}
		refToPseudo[ref.ID()] = id
	}
	return refToPseudo, nil
}

// FindReferences collects every REFERENCE expression reachable from root.
func FindReferences(root ast.Node) []*ast.Reference {
	var out []*ast.Reference
	visited := make(map[string]bool)
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		if n == nil || visited[n.ID()] {
			return
		}
		visited[n.ID()] = true
		if ref, ok := n.(*ast.Reference); ok {
			out = append(out, ref)
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(root)
	return out
}
