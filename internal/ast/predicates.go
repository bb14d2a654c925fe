package ast

// PredicateType is the secondary discriminator for the Predicate family.
type PredicateType string

const (
	PredicateTest PredicateType = "TEST"
	PredicateAnd  PredicateType = "AND"
	PredicateOr   PredicateType = "OR"
	PredicateXor  PredicateType = "XOR"
	PredicateNot  PredicateType = "NOT"
)

// Predicate is any node that, once evaluated, produces a boolean.
type Predicate interface {
	Node
	predicateNode()
	PredicateType() PredicateType
}

type predBase struct {
	base
	predType PredicateType
}

func newPredBase(id string, raw any, predType PredicateType) predBase {
	return predBase{base: newBase(id, NodePredicate, raw), predType: predType}
}

func (p predBase) Kind() string                 { return kindOf(NodePredicate, string(p.predType)) }
func (p predBase) predicateNode()                {}
func (p predBase) PredicateType() PredicateType { return p.predType }

// Test evaluates subject, applies condition, and XORs the result with
// negate.
type Test struct {
	predBase

	Subject   Node
	Condition Node
	Negate    bool
}

func NewTest(id string, raw any, subject, condition Node, negate bool) *Test {
	return &Test{predBase: newPredBase(id, raw, PredicateTest), Subject: subject, Condition: condition, Negate: negate}
}

func (t *Test) Children() []Node { return filterNil(t.Subject, t.Condition) }

// And is a short-circuiting conjunction over its operands.
type And struct {
	predBase
	Operands []Node
}

func NewAnd(id string, raw any, operands []Node) *And {
	return &And{predBase: newPredBase(id, raw, PredicateAnd), Operands: operands}
}

func (a *And) Children() []Node { return filterNil(a.Operands...) }

// Or is a short-circuiting disjunction over its operands.
type Or struct {
	predBase
	Operands []Node
}

func NewOr(id string, raw any, operands []Node) *Or {
	return &Or{predBase: newPredBase(id, raw, PredicateOr), Operands: operands}
}

func (o *Or) Children() []Node { return filterNil(o.Operands...) }

// Xor requires exactly one truthy operand.
type Xor struct {
	predBase
	Operands []Node
}

func NewXor(id string, raw any, operands []Node) *Xor {
	return &Xor{predBase: newPredBase(id, raw, PredicateXor), Operands: operands}
}

func (x *Xor) Children() []Node { return filterNil(x.Operands...) }

// Not negates its single operand; a falsy operand or an evaluation error
// both negate to true.
type Not struct {
	predBase
	Operand Node
}

func NewNot(id string, raw any, operand Node) *Not {
	return &Not{predBase: newPredBase(id, raw, PredicateNot), Operand: operand}
}

func (n *Not) Children() []Node { return filterNil(n.Operand) }
