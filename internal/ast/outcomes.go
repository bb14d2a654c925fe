package ast

// OutcomeType is the secondary discriminator for the Outcome family.
type OutcomeType string

const (
	OutcomeRedirect   OutcomeType = "REDIRECT"
	OutcomeThrowError OutcomeType = "THROW_ERROR"
)

// Outcome is the terminal action of a transition: continue (implicit,
// represented by the absence of a matching outcome), redirect, or error.
type Outcome interface {
	Node
	outcomeNode()
	OutcomeType() OutcomeType
}

type outcomeBase struct {
	base
	outcomeType OutcomeType
}

func newOutcomeBase(id string, raw any, outcomeType OutcomeType) outcomeBase {
	return outcomeBase{base: newBase(id, NodeOutcome, raw), outcomeType: outcomeType}
}

func (o outcomeBase) Kind() string               { return kindOf(NodeOutcome, string(o.outcomeType)) }
func (o outcomeBase) outcomeNode()                {}
func (o outcomeBase) OutcomeType() OutcomeType   { return o.outcomeType }

// Redirect navigates to goto when when is absent or evaluates truthy.
type Redirect struct {
	outcomeBase

	Goto Node
	When Node
}

func NewRedirect(id string, raw any, goTo, when Node) *Redirect {
	return &Redirect{outcomeBase: newOutcomeBase(id, raw, OutcomeRedirect), Goto: goTo, When: when}
}

func (r *Redirect) Children() []Node { return filterNil(r.Goto, r.When) }

// ThrowError aborts the request with an HTTP-style status and message.
type ThrowError struct {
	outcomeBase

	Status  Node
	Message Node
	When    Node
}

func NewThrowError(id string, raw any, status, message, when Node) *ThrowError {
	return &ThrowError{outcomeBase: newOutcomeBase(id, raw, OutcomeThrowError), Status: status, Message: message, When: when}
}

func (t *ThrowError) Children() []Node { return filterNil(t.Status, t.Message, t.When) }
