package ast

import (
	"fmt"

	"github.com/alexisbeaulieu97/formengine/internal/definition"
	"github.com/alexisbeaulieu97/formengine/internal/ids"
	"github.com/alexisbeaulieu97/formengine/pkg/ferrors"
)

// Factory lowers author-facing definition.Value trees into the normalized
// AST, minting a fresh compile-time id (category ids.CategoryCompileAST)
// for every node it builds and applying the edge-case defaulting policies:
// Conditional's missing then/else branches default to literal true/false,
// Validation.SubmissionOnly and SubmitTransition.Validate default false,
// Test.Negate defaults false, and a FieldBlock missing an explicit Value
// gets a synthesized Reference to "@self".
type Factory struct {
	gen *ids.Generator
}

func NewFactory(gen *ids.Generator) *Factory {
	return &Factory{gen: gen}
}

func (f *Factory) nextID() (string, error) {
	return f.gen.Next(ids.CategoryCompileAST)
}

func invalid(id string, format string, args ...any) error {
	return ferrors.NewForNode(ferrors.CodeInvalidNode, id, fmt.Sprintf(format, args...))
}

// LowerValue is the dispatcher every nested operand goes through: it
// recognizes the node shapes definition.Discriminator knows about and
// otherwise wraps the value as a Literal, recursively lowering list/map
// structure so a literal map's values may themselves be node shapes.
func (f *Factory) LowerValue(v definition.Value) (Node, error) {
	if v == nil {
		id, err := f.nextID()
		if err != nil {
			return nil, err
		}
		return newLiteral(id, v, nil), nil
	}

	if key, tag, ok := definition.Discriminator(v); ok {
		m, _ := definition.AsMap(v)
		switch key {
		case "expressionType":
			return f.lowerExpression(m, ExpressionType(tag))
		case "predicateType":
			return f.lowerPredicate(m, PredicateType(tag))
		case "transitionType":
			return f.lowerTransition(m, TransitionType(tag))
		case "outcomeType":
			return f.lowerOutcome(m, OutcomeType(tag))
		case "blockType":
			return f.lowerBlock(m, BlockType(tag))
		default:
			return nil, invalid("", "unrecognized discriminator key %q", key)
		}
	}

	switch vv := v.(type) {
	case map[string]any:
		lowered, err := f.lowerValueMap(vv)
		if err != nil {
			return nil, err
		}
		id, err := f.nextID()
		if err != nil {
			return nil, err
		}
		return newLiteral(id, v, lowered), nil
	case []any:
		lowered, err := f.lowerValueSlice(vv)
		if err != nil {
			return nil, err
		}
		id, err := f.nextID()
		if err != nil {
			return nil, err
		}
		return newLiteral(id, v, lowered), nil
	default:
		id, err := f.nextID()
		if err != nil {
			return nil, err
		}
		return newLiteral(id, v, vv), nil
	}
}

func (f *Factory) lowerValueMap(m map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(m))
	for k, raw := range m {
		child, err := f.LowerValue(raw)
		if err != nil {
			return nil, err
		}
		out[k] = child
	}
	return out, nil
}

func (f *Factory) lowerValueSlice(s []any) ([]any, error) {
	out := make([]any, len(s))
	for i, raw := range s {
		child, err := f.LowerValue(raw)
		if err != nil {
			return nil, err
		}
		out[i] = child
	}
	return out, nil
}

// lowerOpt lowers v unless it is absent (nil), in which case it returns nil
// without minting a node.
func (f *Factory) lowerOpt(v definition.Value) (Node, error) {
	if v == nil {
		return nil, nil
	}
	return f.LowerValue(v)
}

func (f *Factory) lowerExprOpt(v definition.Value) (Expression, error) {
	n, err := f.lowerOpt(v)
	if err != nil || n == nil {
		return nil, err
	}
	expr, ok := n.(Expression)
	if !ok {
		return nil, invalid(n.ID(), "expected an expression, got %s", n.Kind())
	}
	return expr, nil
}

func (f *Factory) lowerNodeList(s []any) ([]Node, error) {
	out := make([]Node, 0, len(s))
	for _, raw := range s {
		n, err := f.LowerValue(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (f *Factory) lowerExprList(s []any) ([]Expression, error) {
	nodes, err := f.lowerNodeList(s)
	if err != nil {
		return nil, err
	}
	out := make([]Expression, 0, len(nodes))
	for _, n := range nodes {
		expr, ok := n.(Expression)
		if !ok {
			return nil, invalid(n.ID(), "expected an expression, got %s", n.Kind())
		}
		out = append(out, expr)
	}
	return out, nil
}

func (f *Factory) lowerFunctionCallList(s []any) ([]*FunctionCall, error) {
	nodes, err := f.lowerNodeList(s)
	if err != nil {
		return nil, err
	}
	out := make([]*FunctionCall, 0, len(nodes))
	for _, n := range nodes {
		fc, ok := n.(*FunctionCall)
		if !ok {
			return nil, invalid(n.ID(), "pipeline step must be a FUNCTION expression, got %s", n.Kind())
		}
		out = append(out, fc)
	}
	return out, nil
}

func (f *Factory) lowerOutcomeList(s []any) ([]Outcome, error) {
	nodes, err := f.lowerNodeList(s)
	if err != nil {
		return nil, err
	}
	out := make([]Outcome, 0, len(nodes))
	for _, n := range nodes {
		oc, ok := n.(Outcome)
		if !ok {
			return nil, invalid(n.ID(), "expected an outcome, got %s", n.Kind())
		}
		out = append(out, oc)
	}
	return out, nil
}

// lowerExpression builds the concrete Expression node for m per the
// expressionType tag already extracted by LowerValue.
func (f *Factory) lowerExpression(m map[string]any, tag ExpressionType) (Node, error) {
	id, err := f.nextID()
	if err != nil {
		return nil, err
	}

	switch tag {
	case ExprReference:
		rawPath := definition.SliceField(m, "path")
		path := make([]string, 0, len(rawPath))
		for _, p := range rawPath {
			s, ok := p.(string)
			if !ok {
				return nil, invalid(id, "REFERENCE path elements must be strings")
			}
			path = append(path, s)
		}
		base, err := f.lowerExprOpt(definition.Field(m, "base"))
		if err != nil {
			return nil, err
		}
		return NewReference(id, m, path, base), nil

	case ExprFunction:
		name := definition.StringField(m, "name", "")
		if name == "" {
			return nil, invalid(id, "FUNCTION expression requires a name")
		}
		role := FunctionRole(definition.StringField(m, "role", string(FunctionTransformer)))
		args, err := f.lowerExprList(definition.SliceField(m, "arguments"))
		if err != nil {
			return nil, err
		}
		return NewFunctionCall(id, m, name, role, args), nil

	case ExprPipeline:
		input, err := f.lowerExprOpt(definition.Field(m, "input"))
		if err != nil {
			return nil, err
		}
		steps, err := f.lowerFunctionCallList(definition.SliceField(m, "steps"))
		if err != nil {
			return nil, err
		}
		return NewPipeline(id, m, input, steps), nil

	case ExprFormat:
		template := definition.StringField(m, "template", "")
		args, err := f.lowerExprList(definition.SliceField(m, "arguments"))
		if err != nil {
			return nil, err
		}
		return NewFormat(id, m, template, args), nil

	case ExprIterate:
		input, err := f.lowerExprOpt(definition.Field(m, "input"))
		if err != nil {
			return nil, err
		}
		kind := IteratorKind(definition.StringField(m, "kind", string(IteratorMap)))
		iterator, err := f.lowerExprOpt(definition.Field(m, "iterator"))
		if err != nil {
			return nil, err
		}
		return NewIterate(id, m, input, kind, iterator), nil

	case ExprCollection:
		collection, err := f.lowerExprOpt(definition.Field(m, "collection"))
		if err != nil {
			return nil, err
		}
		template, err := f.lowerOpt(definition.Field(m, "template"))
		if err != nil {
			return nil, err
		}
		fallback, err := f.lowerOpt(definition.Field(m, "fallback"))
		if err != nil {
			return nil, err
		}
		return NewCollection(id, m, collection, template, fallback), nil

	case ExprConditional:
		predicate, err := f.lowerOpt(definition.Field(m, "predicate"))
		if err != nil {
			return nil, err
		}
		if predicate == nil {
			return nil, invalid(id, "CONDITIONAL requires a predicate")
		}
		thenRaw := definition.Field(m, "then")
		elseRaw := definition.Field(m, "else")
		var thenValue, elseValue Node
		if thenRaw == nil {
			thenValue, err = f.literalBool(true)
		} else {
			thenValue, err = f.LowerValue(thenRaw)
		}
		if err != nil {
			return nil, err
		}
		if elseRaw == nil {
			elseValue, err = f.literalBool(false)
		} else {
			elseValue, err = f.LowerValue(elseRaw)
		}
		if err != nil {
			return nil, err
		}
		return NewConditional(id, m, predicate, thenValue, elseValue), nil

	case ExprValidation:
		when, err := f.lowerOpt(definition.Field(m, "when"))
		if err != nil {
			return nil, err
		}
		message, err := f.lowerOpt(definition.Field(m, "message"))
		if err != nil {
			return nil, err
		}
		submissionOnly := definition.BoolField(m, "submissionOnly", false)
		details, err := f.lowerOpt(definition.Field(m, "details"))
		if err != nil {
			return nil, err
		}
		return NewValidation(id, m, when, message, submissionOnly, details), nil

	case ExprNext:
		goTo, err := f.lowerOpt(definition.Field(m, "goto"))
		if err != nil {
			return nil, err
		}
		when, err := f.lowerOpt(definition.Field(m, "when"))
		if err != nil {
			return nil, err
		}
		return NewNext(id, m, goTo, when), nil

	default:
		return nil, invalid(id, "unrecognized expressionType %q", tag)
	}
}

func (f *Factory) literalBool(b bool) (Node, error) {
	id, err := f.nextID()
	if err != nil {
		return nil, err
	}
	return newLiteral(id, nil, b), nil
}

func (f *Factory) lowerPredicate(m map[string]any, tag PredicateType) (Node, error) {
	id, err := f.nextID()
	if err != nil {
		return nil, err
	}

	switch tag {
	case PredicateTest:
		subject, err := f.lowerOpt(definition.Field(m, "subject"))
		if err != nil {
			return nil, err
		}
		condition, err := f.lowerOpt(definition.Field(m, "condition"))
		if err != nil {
			return nil, err
		}
		negate := definition.BoolField(m, "negate", false)
		return NewTest(id, m, subject, condition, negate), nil

	case PredicateAnd, PredicateOr, PredicateXor:
		operands, err := f.lowerNodeList(definition.SliceField(m, "operands"))
		if err != nil {
			return nil, err
		}
		switch tag {
		case PredicateAnd:
			return NewAnd(id, m, operands), nil
		case PredicateOr:
			return NewOr(id, m, operands), nil
		default:
			return NewXor(id, m, operands), nil
		}

	case PredicateNot:
		operand, err := f.lowerOpt(definition.Field(m, "operand"))
		if err != nil {
			return nil, err
		}
		return NewNot(id, m, operand), nil

	default:
		return nil, invalid(id, "unrecognized predicateType %q", tag)
	}
}

func (f *Factory) lowerOutcome(m map[string]any, tag OutcomeType) (Node, error) {
	id, err := f.nextID()
	if err != nil {
		return nil, err
	}

	switch tag {
	case OutcomeRedirect:
		goTo, err := f.lowerOpt(definition.Field(m, "goto"))
		if err != nil {
			return nil, err
		}
		if goTo == nil {
			return nil, invalid(id, "REDIRECT requires a goto target")
		}
		when, err := f.lowerOpt(definition.Field(m, "when"))
		if err != nil {
			return nil, err
		}
		return NewRedirect(id, m, goTo, when), nil

	case OutcomeThrowError:
		status, err := f.lowerOpt(definition.Field(m, "status"))
		if err != nil {
			return nil, err
		}
		message, err := f.lowerOpt(definition.Field(m, "message"))
		if err != nil {
			return nil, err
		}
		when, err := f.lowerOpt(definition.Field(m, "when"))
		if err != nil {
			return nil, err
		}
		return NewThrowError(id, m, status, message, when), nil

	default:
		return nil, invalid(id, "unrecognized outcomeType %q", tag)
	}
}

// lowerBranch lowers a SUBMIT transition's onAlways/onValid/onInvalid arm.
// A branch is a plain (effects, next) pair, not itself a discriminated node.
func (f *Factory) lowerBranch(v definition.Value) (*Branch, error) {
	if v == nil {
		return nil, nil
	}
	m, ok := definition.AsMap(v)
	if !ok {
		return nil, invalid("", "submit transition branch must be an object")
	}
	effects, err := f.lowerExprList(definition.SliceField(m, "effects"))
	if err != nil {
		return nil, err
	}
	next, err := f.lowerOutcomeList(definition.SliceField(m, "next"))
	if err != nil {
		return nil, err
	}
	return &Branch{Effects: effects, Next: next}, nil
}

func (f *Factory) lowerTransition(m map[string]any, tag TransitionType) (Node, error) {
	id, err := f.nextID()
	if err != nil {
		return nil, err
	}

	switch tag {
	case TransitionLoad, TransitionAccess, TransitionAction:
		effects, err := f.lowerExprList(definition.SliceField(m, "effects"))
		if err != nil {
			return nil, err
		}
		var redirect *Redirect
		if raw := definition.Field(m, "redirect"); raw != nil {
			n, err := f.LowerValue(raw)
			if err != nil {
				return nil, err
			}
			r, ok := n.(*Redirect)
			if !ok {
				return nil, invalid(id, "%s.redirect must be a REDIRECT outcome", tag)
			}
			redirect = r
		}
		return NewSimpleTransition(id, m, tag, effects, redirect), nil

	case TransitionSubmit:
		when, err := f.lowerOpt(definition.Field(m, "when"))
		if err != nil {
			return nil, err
		}
		guards, err := f.lowerNodeList(definition.SliceField(m, "guards"))
		if err != nil {
			return nil, err
		}
		validate := definition.BoolFieldStrictTrue(m, "validate")
		onAlways, err := f.lowerBranch(definition.Field(m, "onAlways"))
		if err != nil {
			return nil, err
		}
		onValid, err := f.lowerBranch(definition.Field(m, "onValid"))
		if err != nil {
			return nil, err
		}
		onInvalid, err := f.lowerBranch(definition.Field(m, "onInvalid"))
		if err != nil {
			return nil, err
		}
		return NewSubmitTransition(id, m, when, guards, validate, onAlways, onValid, onInvalid), nil

	default:
		return nil, invalid(id, "unrecognized transitionType %q", tag)
	}
}

func (f *Factory) lowerBlock(m map[string]any, tag BlockType) (Node, error) {
	id, err := f.nextID()
	if err != nil {
		return nil, err
	}

	switch tag {
	case BlockBasic:
		b := NewBasicBlock(id, m)
		b.Variant = definition.StringField(m, "variant", "")
		props, err := f.lowerPropertyMap(definition.Field(m, "properties"))
		if err != nil {
			return nil, err
		}
		b.Properties = props
		return b, nil

	case BlockField:
		b := NewFieldBlock(id, m)
		b.Variant = definition.StringField(m, "variant", "")
		b.Code = definition.StringField(m, "code", "")
		if b.Code == "" {
			return nil, invalid(id, "FIELD block requires a code")
		}
		b.Multiple = definition.BoolField(m, "multiple", false)

		if b.DefaultValue, err = f.lowerOpt(definition.Field(m, "defaultValue")); err != nil {
			return nil, err
		}
		if formatters, err := f.lowerNodeList(definition.SliceField(m, "formatters")); err != nil {
			return nil, err
		} else {
			b.Formatters = formatters
		}
		if b.Hidden, err = f.lowerOpt(definition.Field(m, "hidden")); err != nil {
			return nil, err
		}
		if b.Dependent, err = f.lowerOpt(definition.Field(m, "dependent")); err != nil {
			return nil, err
		}

		validations, err := f.lowerNodeList(definition.SliceField(m, "validate"))
		if err != nil {
			return nil, err
		}
		b.Validate = make([]*Validation, 0, len(validations))
		for _, v := range validations {
			val, ok := v.(*Validation)
			if !ok {
				return nil, invalid(id, "FIELD.validate entries must be VALIDATION expressions")
			}
			b.Validate = append(b.Validate, val)
		}

		if raw := definition.Field(m, "value"); raw != nil {
			if b.Value, err = f.LowerValue(raw); err != nil {
				return nil, err
			}
		} else {
			selfID, err := f.nextID()
			if err != nil {
				return nil, err
			}
			b.Value = NewReference(selfID, nil, []string{"@self"}, nil)
		}

		params, err := f.lowerPropertyMap(definition.Field(m, "params"))
		if err != nil {
			return nil, err
		}
		b.Params = params
		return b, nil

	default:
		return nil, invalid(id, "unrecognized blockType %q", tag)
	}
}

// lowerPropertyMap lowers a properties/params bag: each entry value is
// lowered independently and stored directly (not re-wrapped in a Literal),
// matching BasicBlock.Properties / FieldBlock.Params's map[string]any shape.
func (f *Factory) lowerPropertyMap(v definition.Value) (map[string]any, error) {
	if v == nil {
		return map[string]any{}, nil
	}
	m, ok := definition.AsMap(v)
	if !ok {
		return nil, invalid("", "expected an object")
	}
	out := make(map[string]any, len(m))
	for k, raw := range m {
		n, err := f.LowerValue(raw)
		if err != nil {
			return nil, err
		}
		out[k] = n
	}
	return out, nil
}

// LowerStep builds a Step from its author-facing map, including its blocks
// and lifecycle transitions.
func (f *Factory) LowerStep(v definition.Value) (*Step, error) {
	m, ok := definition.AsMap(v)
	if !ok {
		return nil, invalid("", "step definition must be an object")
	}
	id, err := f.nextID()
	if err != nil {
		return nil, err
	}
	s := NewStep(id, m)
	s.Path = definition.StringField(m, "path", "")
	s.Title = definition.StringField(m, "title", "")
	s.Description = definition.StringField(m, "description", "")
	s.IsEntryPoint = definition.BoolField(m, "isEntryPoint", false)
	s.Backlink = definition.Field(m, "backlink")

	if s.Path == "" || s.Title == "" {
		return nil, invalid(id, "STEP requires a path and title")
	}

	if t, err := f.lowerNamedTransition(definition.Field(m, "onLoad"), TransitionLoad); err != nil {
		return nil, err
	} else {
		s.OnLoad = t
	}
	if t, err := f.lowerNamedTransition(definition.Field(m, "onAccess"), TransitionAccess); err != nil {
		return nil, err
	} else {
		s.OnAccess = t
	}
	if t, err := f.lowerNamedTransition(definition.Field(m, "onAction"), TransitionAction); err != nil {
		return nil, err
	} else {
		s.OnAction = t
	}
	if t, err := f.lowerNamedTransition(definition.Field(m, "onSubmission"), TransitionSubmit); err != nil {
		return nil, err
	} else {
		s.OnSubmission = t
	}

	blocks, err := f.lowerNodeList(definition.SliceField(m, "blocks"))
	if err != nil {
		return nil, err
	}
	s.Blocks = make([]Block, 0, len(blocks))
	seenCodes := make(map[string]bool, len(blocks))
	for _, b := range blocks {
		blk, ok := b.(Block)
		if !ok {
			return nil, invalid(id, "step block must be a BLOCK node, got %s", b.Kind())
		}
		if fb, ok := blk.(*FieldBlock); ok {
			if seenCodes[fb.Code] {
				return nil, invalid(id, "duplicate FIELD code %q within step", fb.Code)
			}
			seenCodes[fb.Code] = true
		}
		s.Blocks = append(s.Blocks, blk)
	}

	if meta, ok := definition.AsMap(definition.Field(m, "metadata")); ok {
		s.Metadata = meta
	}
	return s, nil
}

// lowerNamedTransition lowers a lifecycle transition slot, injecting the
// expected transitionType when the author omitted the discriminator (it is
// already implied by which slot the transition occupies).
func (f *Factory) lowerNamedTransition(v definition.Value, kind TransitionType) (*Transition, error) {
	if v == nil {
		return nil, nil
	}
	m, ok := definition.AsMap(v)
	if !ok {
		return nil, invalid("", "%s transition must be an object", kind)
	}
	if _, _, ok := definition.Discriminator(m); !ok {
		m = withDefaultDiscriminator(m, "transitionType", string(kind))
	}
	n, err := f.LowerValue(m)
	if err != nil {
		return nil, err
	}
	t, ok := n.(Transition)
	if !ok {
		return nil, invalid(n.ID(), "expected a TRANSITION node, got %s", n.Kind())
	}
	wrapped := Transition(t)
	return &wrapped, nil
}

func withDefaultDiscriminator(m map[string]any, key, value string) map[string]any {
	out := make(map[string]any, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	out[key] = value
	return out
}

// LowerJourney builds a Journey from its author-facing map, recursing into
// steps and nested child journeys.
func (f *Factory) LowerJourney(v definition.Value) (*Journey, error) {
	m, ok := definition.AsMap(v)
	if !ok {
		return nil, invalid("", "journey definition must be an object")
	}
	id, err := f.nextID()
	if err != nil {
		return nil, err
	}
	j := NewJourney(id, m)
	j.Path = definition.StringField(m, "path", "")
	j.Code = definition.StringField(m, "code", "")
	j.Title = definition.StringField(m, "title", "")
	j.Description = definition.StringField(m, "description", "")
	j.Version = definition.StringField(m, "version", "")
	j.EntryPath = definition.StringField(m, "entryPath", "")

	if t, err := f.lowerNamedTransition(definition.Field(m, "onLoad"), TransitionLoad); err != nil {
		return nil, err
	} else {
		j.OnLoad = t
	}
	if t, err := f.lowerNamedTransition(definition.Field(m, "onAccess"), TransitionAccess); err != nil {
		return nil, err
	} else {
		j.OnAccess = t
	}

	for _, raw := range definition.SliceField(m, "steps") {
		step, err := f.LowerStep(raw)
		if err != nil {
			return nil, err
		}
		j.Steps = append(j.Steps, step)
	}
	for _, raw := range definition.SliceField(m, "children") {
		child, err := f.LowerJourney(raw)
		if err != nil {
			return nil, err
		}
		j.Children_ = append(j.Children_, child)
	}

	if meta, ok := definition.AsMap(definition.Field(m, "metadata")); ok {
		j.Metadata = meta
	}
	return j, nil
}
