// Package wiring implements C6: per-node-kind rules that add dependency
// edges from a node's AST operands into the node itself. The compile
// pipeline wires each journey once; wiring the same tree again records
// every edge's metadata a second time, though the graph's dependency and
// dependent sets stay free of duplicates.
package wiring

import (
	"github.com/alexisbeaulieu97/formengine/internal/ast"
	"github.com/alexisbeaulieu97/formengine/internal/graph"
)

// WireTree registers every node from root into g and adds one dependency
// edge per AST operand, recursing through the whole structure. Most node
// kinds need nothing beyond "one edge per structural child" — the
// dedicated cases below exist only where the generic rule would mislabel
// the edge's property, not because the dependency itself differs.
func WireTree(g *graph.Graph, root ast.Node) error {
	visited := make(map[string]bool)
	var walk func(ast.Node) error
	walk = func(n ast.Node) error {
		if n == nil || visited[n.ID()] {
			return nil
		}
		visited[n.ID()] = true
		g.AddNode(n.ID())
		if err := WireNode(g, n); err != nil {
			return err
		}
		for _, c := range n.Children() {
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(root)
}

// WireNode adds the dependency edges for a single node, without
// recursing. Children not yet registered as graph nodes are registered
// here so edge endpoints always resolve.
func WireNode(g *graph.Graph, n ast.Node) error {
	switch node := n.(type) {
	case *ast.Conditional:
		return wireEdges(g, node.ID(),
			labeled{"predicate", node.Predicate},
			labeled{"thenValue", node.ThenValue},
			labeled{"elseValue", node.ElseValue},
		)

	case *ast.Pipeline:
		if err := wireEdges(g, node.ID(), labeled{"input", node.Input}); err != nil {
			return err
		}
		return wireIndexed(g, node.ID(), "steps", stepsToNodes(node.Steps))

	case *ast.Test:
		return wireEdges(g, node.ID(),
			labeled{"subject", node.Subject},
			labeled{"condition", node.Condition},
		)

	case *ast.And:
		return wireIndexed(g, node.ID(), "operands", node.Operands)
	case *ast.Or:
		return wireIndexed(g, node.ID(), "operands", node.Operands)
	case *ast.Xor:
		return wireIndexed(g, node.ID(), "operands", node.Operands)
	case *ast.Not:
		return wireEdges(g, node.ID(), labeled{"operand", node.Operand})

	case *ast.Redirect:
		return wireEdges(g, node.ID(),
			labeled{"when", node.When},
			labeled{"goto", node.Goto},
		)

	case *ast.ThrowError:
		return wireEdges(g, node.ID(),
			labeled{"status", node.Status},
			labeled{"message", node.Message},
			labeled{"when", node.When},
		)

	case *ast.Validation:
		return wireEdges(g, node.ID(),
			labeled{"when", node.When},
			labeled{"message", node.Message},
			labeled{"details", node.Details},
		)

	case *ast.SubmitTransition:
		if err := wireEdges(g, node.ID(), labeled{"when", node.When}); err != nil {
			return err
		}
		if err := wireIndexed(g, node.ID(), "guards", node.Guards); err != nil {
			return err
		}
		for _, name := range []string{"onAlways", "onValid", "onInvalid"} {
			branch := branchFor(node, name)
			if branch == nil {
				continue
			}
			if err := wireIndexed(g, node.ID(), name+".effects", exprsToNodes(branch.Effects)); err != nil {
				return err
			}
			if err := wireIndexed(g, node.ID(), name+".next", outcomesToNodes(branch.Next)); err != nil {
				return err
			}
		}
		return nil

	default:
		// Generic fallback: one edge per structural child, in declaration
		// order. Covers Journey, Step, Block, Reference, FunctionCall,
		// Format, Iterate, Collection, Next, SimpleTransition, Literal,
		// and any future node kind that needs nothing smarter.
		return wireIndexed(g, n.ID(), "child", n.Children())
	}
}

type labeled struct {
	property string
	node     ast.Node
}

func wireEdges(g *graph.Graph, to string, items ...labeled) error {
	for _, item := range items {
		if item.node == nil {
			continue
		}
		g.AddNode(item.node.ID())
		if err := g.AddEdge(item.node.ID(), to, graph.EdgeMeta{Property: item.property}); err != nil {
			return err
		}
	}
	return nil
}

func wireIndexed(g *graph.Graph, to, property string, nodes []ast.Node) error {
	idx := 0
	for _, n := range nodes {
		if n == nil {
			continue
		}
		g.AddNode(n.ID())
		meta := graph.EdgeMeta{Property: property, Index: idx, HasIndex: true}
		if err := g.AddEdge(n.ID(), to, meta); err != nil {
			return err
		}
		idx++
	}
	return nil
}

func stepsToNodes(steps []*ast.FunctionCall) []ast.Node {
	out := make([]ast.Node, 0, len(steps))
	for _, s := range steps {
		out = append(out, s)
	}
	return out
}

func exprsToNodes(exprs []ast.Expression) []ast.Node {
	out := make([]ast.Node, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, e)
	}
	return out
}

func outcomesToNodes(outcomes []ast.Outcome) []ast.Node {
	out := make([]ast.Node, 0, len(outcomes))
	for _, o := range outcomes {
		out = append(out, o)
	}
	return out
}

func branchFor(s *ast.SubmitTransition, name string) *ast.Branch {
	switch name {
	case "onAlways":
		return s.OnAlways
	case "onValid":
		return s.OnValid
	case "onInvalid":
		return s.OnInvalid
	default:
		return nil
	}
}

// WireValidationPushEdges implements the one wiring rule that cuts across
// a single node's own operands: every VALIDATION reachable from step's
// field blocks gets an extra edge into every SUBMIT transition in the
// same step whose Validate flag is true, since that transition's
// validity check depends on the validation having run.
func WireValidationPushEdges(g *graph.Graph, step *ast.Step) error {
	var validations []*ast.Validation
	for _, b := range step.Blocks {
		if fb, ok := b.(*ast.FieldBlock); ok {
			validations = append(validations, fb.Validate...)
		}
	}
	if len(validations) == 0 {
		return nil
	}

	var submits []*ast.SubmitTransition
	if sub, ok := submitOf(step.OnSubmission); ok && sub.Validate {
		submits = append(submits, sub)
	}

	for _, v := range validations {
		g.AddNode(v.ID())
		for _, s := range submits {
			g.AddNode(s.ID())
			if err := g.AddEdge(v.ID(), s.ID(), graph.EdgeMeta{Property: "submitValidation"}); err != nil {
				return err
			}
		}
	}
	return nil
}

func submitOf(t *ast.Transition) (*ast.SubmitTransition, bool) {
	if t == nil {
		return nil, false
	}
	sub, ok := (*t).(*ast.SubmitTransition)
	return sub, ok
}

// WireStep runs both the generic structural wiring and the validation
// push-edge rule for a single step.
func WireStep(g *graph.Graph, step *ast.Step) error {
	if err := WireTree(g, step); err != nil {
		return err
	}
	return WireValidationPushEdges(g, step)
}
