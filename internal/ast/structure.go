package ast

// Journey is the root of an author-facing form journey: a path-addressable
// tree of steps, optionally nested under child journeys.
type Journey struct {
	base

	Path        string
	Code        string
	Title       string
	Description string
	Version     string
	EntryPath   string // step path designated as the journey's entry point, if named

	OnLoad   *Transition
	OnAccess *Transition

	Steps    []*Step
	Children_ []*Journey // nested journeys; named with a trailing underscore to avoid shadowing Children()

	Metadata map[string]any
}

func NewJourney(id string, raw any) *Journey {
	return &Journey{base: newBase(id, NodeJourney, raw), Metadata: map[string]any{}}
}

func (j *Journey) Kind() string { return kindOf(NodeJourney, "") }

func (j *Journey) Children() []Node {
	out := make([]Node, 0, len(j.Steps)+len(j.Children_)+2)
	if j.OnLoad != nil {
		out = append(out, *j.OnLoad)
	}
	if j.OnAccess != nil {
		out = append(out, *j.OnAccess)
	}
	for _, s := range j.Steps {
		out = append(out, s)
	}
	for _, c := range j.Children_ {
		out = append(out, c)
	}
	return out
}

// Step is a single page in a journey: a set of blocks plus lifecycle
// transitions (load/access/action/submission).
type Step struct {
	base

	Path         string
	Title        string
	Description  string
	IsEntryPoint bool
	Backlink     any

	OnLoad       *Transition
	OnAccess     *Transition
	OnAction     *Transition
	OnSubmission *Transition

	Blocks []Block

	Metadata map[string]any
}

func NewStep(id string, raw any) *Step {
	return &Step{base: newBase(id, NodeStep, raw), Metadata: map[string]any{}}
}

func (s *Step) Kind() string { return kindOf(NodeStep, "") }

func (s *Step) Children() []Node {
	out := make([]Node, 0, len(s.Blocks)+4)
	for _, t := range []*Transition{s.OnLoad, s.OnAccess, s.OnAction, s.OnSubmission} {
		if t != nil {
			out = append(out, *t)
		}
	}
	for _, b := range s.Blocks {
		out = append(out, b)
	}
	return out
}

// BlockType is the secondary discriminator for the Block tagged union.
type BlockType string

const (
	BlockBasic BlockType = "BASIC"
	BlockField BlockType = "FIELD"
)

// Block is any renderable unit within a step. It is a tagged union over
// BasicBlock (no validation participation) and FieldBlock (a form field).
type Block interface {
	Node
	blockNode()
	BlockType() BlockType
}

// BasicBlock is a non-field block: arbitrary render parameters, no
// participation in validation (e.g. a progress bar, an inset panel).
type BasicBlock struct {
	base

	Variant    string
	Properties map[string]any // values may themselves be AST Node operands
}

func NewBasicBlock(id string, raw any) *BasicBlock {
	return &BasicBlock{base: newBase(id, NodeBlock, raw), Properties: map[string]any{}}
}

func (b *BasicBlock) Kind() string       { return kindOf(NodeBlock, string(BlockBasic)) }
func (b *BasicBlock) blockNode()         {}
func (b *BasicBlock) BlockType() BlockType { return BlockBasic }

func (b *BasicBlock) Children() []Node {
	var out []Node
	for _, v := range b.Properties {
		if n, ok := v.(Node); ok {
			out = append(out, n)
		}
	}
	return out
}

// FieldBlock is a form field: it carries a unique (per-step) Code, may
// define validations, and always exposes a Value reference (synthesized to
// @self during normalization if the author omitted it).
type FieldBlock struct {
	base

	Variant      string
	Code         string
	DefaultValue Node
	Formatters   []Node
	Hidden       Node
	Validate     []*Validation
	Dependent    Node
	Value        Node // REFERENCE(path=[@self]) unless authored otherwise
	Multiple     bool
	Params       map[string]any // variant-specific parameters, values may be Node operands
}

func NewFieldBlock(id string, raw any) *FieldBlock {
	return &FieldBlock{base: newBase(id, NodeBlock, raw), Params: map[string]any{}}
}

func (f *FieldBlock) Kind() string       { return kindOf(NodeBlock, string(BlockField)) }
func (f *FieldBlock) blockNode()         {}
func (f *FieldBlock) BlockType() BlockType { return BlockField }

func (f *FieldBlock) Children() []Node {
	out := filterNil(f.DefaultValue, f.Hidden, f.Dependent, f.Value)
	out = append(out, f.Formatters...)
	for _, v := range f.Validate {
		out = append(out, v)
	}
	for _, v := range f.Params {
		if n, ok := v.(Node); ok {
			out = append(out, n)
		}
	}
	return out
}
