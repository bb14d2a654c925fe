package ast

// TransitionType is the secondary discriminator for the Transition family.
type TransitionType string

const (
	TransitionLoad   TransitionType = "LOAD"
	TransitionAccess TransitionType = "ACCESS"
	TransitionSubmit TransitionType = "SUBMIT"
	TransitionAction TransitionType = "ACTION"
)

// Transition is a lifecycle moment (load/access/submit/action) with its own
// effects and navigation outcomes.
type Transition interface {
	Node
	transitionNode()
	TransitionType() TransitionType
}

type transBase struct {
	base
	transType TransitionType
}

func newTransBase(id string, raw any, transType TransitionType) transBase {
	return transBase{base: newBase(id, NodeTransition, raw), transType: transType}
}

func (t transBase) Kind() string                   { return kindOf(NodeTransition, string(t.transType)) }
func (t transBase) transitionNode()                 {}
func (t transBase) TransitionType() TransitionType { return t.transType }

// SimpleTransition models LOAD, ACCESS, and ACTION: a list of effects run
// in order, plus an optional redirect outcome.
type SimpleTransition struct {
	transBase

	Effects  []Expression
	Redirect *Redirect
}

func NewSimpleTransition(id string, raw any, kind TransitionType, effects []Expression, redirect *Redirect) *SimpleTransition {
	return &SimpleTransition{transBase: newTransBase(id, raw, kind), Effects: effects, Redirect: redirect}
}

func (s *SimpleTransition) Children() []Node {
	out := make([]Node, 0, len(s.Effects)+1)
	for _, e := range s.Effects {
		if e != nil {
			out = append(out, e)
		}
	}
	if s.Redirect != nil {
		out = append(out, s.Redirect)
	}
	return out
}

// Branch is one arm of a SUBMIT transition: effects run first (in
// declared order), then the first matching Next outcome decides the
// result.
type Branch struct {
	Effects []Expression
	Next    []Outcome
}

func (b *Branch) children() []Node {
	out := make([]Node, 0, len(b.Effects)+len(b.Next))
	for _, e := range b.Effects {
		if e != nil {
			out = append(out, e)
		}
	}
	for _, n := range b.Next {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// SubmitTransition implements the submit state machine described in
// spec.md §4.7.8: idle -> guarded -> validating? -> effecting(onAlways) ->
// branching(onValid|onInvalid) -> continue|redirect|error.
type SubmitTransition struct {
	transBase

	When     Node // guard predicate; falsy short-circuits to continue, absent runs the transition
	Guards   []Node
	Validate bool // defaults to false unless authored ===true

	OnAlways  *Branch
	OnValid   *Branch
	OnInvalid *Branch
}

func NewSubmitTransition(id string, raw any, when Node, guards []Node, validate bool, onAlways, onValid, onInvalid *Branch) *SubmitTransition {
	return &SubmitTransition{
		transBase: newTransBase(id, raw, TransitionSubmit),
		When:      when,
		Guards:    guards,
		Validate:  validate,
		OnAlways:  onAlways,
		OnValid:   onValid,
		OnInvalid: onInvalid,
	}
}

func (s *SubmitTransition) Children() []Node {
	out := filterNil(s.When)
	out = append(out, filterNil(s.Guards...)...)
	for _, branch := range []*Branch{s.OnAlways, s.OnValid, s.OnInvalid} {
		if branch != nil {
			out = append(out, branch.children()...)
		}
	}
	return out
}
