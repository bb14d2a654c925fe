package ast

// ExpressionType is the secondary discriminator for the Expression family.
type ExpressionType string

const (
	ExprReference  ExpressionType = "REFERENCE"
	ExprFunction   ExpressionType = "FUNCTION"
	ExprPipeline   ExpressionType = "PIPELINE"
	ExprFormat     ExpressionType = "FORMAT"
	ExprIterate    ExpressionType = "ITERATE"
	ExprCollection ExpressionType = "COLLECTION"
	ExprConditional ExpressionType = "CONDITIONAL"
	ExprValidation ExpressionType = "VALIDATION"
	ExprNext       ExpressionType = "NEXT"
	ExprLiteral    ExpressionType = "LITERAL"
)

// Expression is any node that, once evaluated, produces a value.
type Expression interface {
	Node
	expressionNode()
	ExpressionType() ExpressionType
}

type exprBase struct {
	base
	exprType ExpressionType
}

func newExprBase(id string, raw any, exprType ExpressionType) exprBase {
	return exprBase{base: newBase(id, NodeExpression, raw), exprType: exprType}
}

func (e exprBase) Kind() string                  { return kindOf(NodeExpression, string(e.exprType)) }
func (e exprBase) expressionNode()                {}
func (e exprBase) ExpressionType() ExpressionType { return e.exprType }

// Reference resolves a dotted/indexed path against a scope root (answers,
// data, @self, @scope, post, query, params, ...).
type Reference struct {
	exprBase

	Path []string
	Base Expression // optional base expression the path is relative to
}

func NewReference(id string, raw any, path []string, baseExpr Expression) *Reference {
	return &Reference{exprBase: newExprBase(id, raw, ExprReference), Path: path, Base: baseExpr}
}

func (r *Reference) Children() []Node {
	if r.Base == nil {
		return nil
	}
	return []Node{r.Base}
}

// FunctionRole distinguishes the three ways a FUNCTION expression may be
// used: a pure value transform, a pure boolean condition, or a (possibly
// mutating) effect invoked from a transition branch.
type FunctionRole string

const (
	FunctionTransformer FunctionRole = "transformer"
	FunctionCondition   FunctionRole = "condition"
	FunctionEffect      FunctionRole = "effect"
)

// FunctionCall invokes a user-registered function by name.
type FunctionCall struct {
	exprBase

	Name      string
	Role      FunctionRole
	Arguments []Expression
}

func NewFunctionCall(id string, raw any, name string, role FunctionRole, args []Expression) *FunctionCall {
	return &FunctionCall{exprBase: newExprBase(id, raw, ExprFunction), Name: name, Role: role, Arguments: args}
}

func (f *FunctionCall) Children() []Node {
	out := make([]Node, 0, len(f.Arguments))
	for _, a := range f.Arguments {
		if a != nil {
			out = append(out, a)
		}
	}
	return out
}

// Pipeline left-folds a chain of transformer steps over an initial input.
type Pipeline struct {
	exprBase

	Input Expression
	Steps []*FunctionCall // every step must be a FunctionTransformer
}

func NewPipeline(id string, raw any, input Expression, steps []*FunctionCall) *Pipeline {
	return &Pipeline{exprBase: newExprBase(id, raw, ExprPipeline), Input: input, Steps: steps}
}

func (p *Pipeline) Children() []Node {
	out := filterNil(p.Input)
	for _, s := range p.Steps {
		out = append(out, s)
	}
	return out
}

// Format renders a template string with positional argument substitution.
type Format struct {
	exprBase

	Template  string
	Arguments []Expression
}

func NewFormat(id string, raw any, template string, args []Expression) *Format {
	return &Format{exprBase: newExprBase(id, raw, ExprFormat), Template: template, Arguments: args}
}

func (f *Format) Children() []Node {
	out := make([]Node, 0, len(f.Arguments))
	for _, a := range f.Arguments {
		if a != nil {
			out = append(out, a)
		}
	}
	return out
}

// IteratorKind enumerates the ITERATE sub-operations.
type IteratorKind string

const (
	IteratorMap    IteratorKind = "MAP"
	IteratorFilter IteratorKind = "FILTER"
	IteratorFind   IteratorKind = "FIND"
)

// Iterate applies an iterator operation over a finite input sequence. The
// iterator sub-expression is evaluated once per element with @scope[0]
// bound to that element.
type Iterate struct {
	exprBase

	Input    Expression
	Kind_    IteratorKind
	Iterator Expression
}

func NewIterate(id string, raw any, input Expression, kind IteratorKind, iterator Expression) *Iterate {
	return &Iterate{exprBase: newExprBase(id, raw, ExprIterate), Input: input, Kind_: kind, Iterator: iterator}
}

func (it *Iterate) Children() []Node {
	return filterNil(it.Input, it.Iterator)
}

// Collection renders a block template once per element of a collection.
type Collection struct {
	exprBase

	Collection Expression
	Template   Node // typically a Block
	Fallback   Node
}

func NewCollection(id string, raw any, collection Expression, template, fallback Node) *Collection {
	return &Collection{exprBase: newExprBase(id, raw, ExprCollection), Collection: collection, Template: template, Fallback: fallback}
}

func (c *Collection) Children() []Node {
	return filterNil(c.Collection, c.Template, c.Fallback)
}

// Conditional evaluates predicate and selects thenValue/elseValue. Missing
// branches default to literal true/false (the factory's CONDITIONAL lowering
// in factory.go applies that default before calling NewConditional).
type Conditional struct {
	exprBase

	Predicate Node // a Predicate, or any AST node evaluating to a boolean
	ThenValue Node
	ElseValue Node
}

func NewConditional(id string, raw any, predicate, thenValue, elseValue Node) *Conditional {
	return &Conditional{exprBase: newExprBase(id, raw, ExprConditional), Predicate: predicate, ThenValue: thenValue, ElseValue: elseValue}
}

func (c *Conditional) Children() []Node {
	return filterNil(c.Predicate, c.ThenValue, c.ElseValue)
}

// Validation attaches a pass/fail rule (and author message) to a field
// block. SubmissionOnly defaults to false.
type Validation struct {
	exprBase

	When           Node // a Predicate (or boolean-valued expression)
	Message        Node
	SubmissionOnly bool
	Details        Node
}

func NewValidation(id string, raw any, when, message Node, submissionOnly bool, details Node) *Validation {
	return &Validation{exprBase: newExprBase(id, raw, ExprValidation), When: when, Message: message, SubmissionOnly: submissionOnly, Details: details}
}

func (v *Validation) Children() []Node {
	return filterNil(v.When, v.Message, v.Details)
}

// Next represents a single navigation candidate used outside the SUBMIT
// branch machinery (e.g. composed inside a template expression).
type Next struct {
	exprBase

	Goto Node
	When Node
}

func NewNext(id string, raw any, goTo, when Node) *Next {
	return &Next{exprBase: newExprBase(id, raw, ExprNext), Goto: goTo, When: when}
}

func (n *Next) Children() []Node {
	return filterNil(n.Goto, n.When)
}

// Literal wraps any author-supplied value carrying no node discriminator: a
// bare string/number/bool/nil, or a list/map built from such values
// (themselves lowered, so a literal map's entries may be arbitrary Node
// values). It satisfies Expression so it can appear anywhere an expression
// operand is expected — "evaluating" a Literal just returns Value.
type Literal struct {
	exprBase
	Value any
}

func newLiteral(id string, raw any, value any) *Literal {
	return &Literal{exprBase: newExprBase(id, raw, ExprLiteral), Value: value}
}

func (l *Literal) Children() []Node {
	var out []Node
	switch v := l.Value.(type) {
	case map[string]any:
		for _, e := range v {
			if n, ok := e.(Node); ok {
				out = append(out, n)
			}
		}
	case []any:
		for _, e := range v {
			if n, ok := e.(Node); ok {
				out = append(out, n)
			}
		}
	}
	return out
}
