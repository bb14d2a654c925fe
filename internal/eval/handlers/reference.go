package handlers

import (
	"context"
	"strconv"

	"github.com/alexisbeaulieu97/formengine/internal/ast"
	"github.com/alexisbeaulieu97/formengine/internal/eval"
)

var dangerousKeys = map[string]bool{
	"__proto__":   true,
	"prototype":   true,
	"constructor": true,
}

type referenceHandler struct {
	base
	node *ast.Reference
}

func newReferenceHandler(n *ast.Reference) *referenceHandler {
	return &referenceHandler{base: base{id: n.ID()}, node: n}
}

func (h *referenceHandler) ComputeIsAsync(isAsync func(string) bool) {
	h.isAsync = unionAsync(isAsync, idOf(h.node.Base))
}

// Evaluate resolves Path against Base's value when Base is set (a chained
// reference), or otherwise against one of the reserved roots in the order
// @scope, @self, answers, data, post, query, params.
func (h *referenceHandler) Evaluate(_ context.Context, ectx *eval.Context, inv eval.Invoker) eval.Result {
	path := h.node.Path
	if len(path) == 0 {
		return eval.Ok(nil)
	}

	if h.node.Base != nil {
		root := evalNodeOrNil(inv, h.node.Base)
		return eval.Ok(navigate(root, path))
	}

	switch path[0] {
	case "@scope":
		root, _ := ectx.ScopeLookup("@scope")
		return eval.Ok(navigate(root, path[1:]))
	case "@self":
		root, _ := ectx.SelfValue()
		return eval.Ok(navigate(root, path[1:]))
	case "answers":
		root, rest := keyedRoot(path, func(k string) any {
			v, _ := ectx.Answers.Get(k)
			return v
		})
		return eval.Ok(navigate(root, rest))
	case "data":
		root, rest := keyedRoot(path, func(k string) any {
			v, _ := ectx.GetData(k)
			return v
		})
		return eval.Ok(navigate(root, rest))
	case "post":
		root, rest := keyedRoot(path, func(k string) any {
			if ectx.Request == nil {
				return nil
			}
			return ectx.Request.Post[k]
		})
		return eval.Ok(navigate(root, rest))
	case "query":
		root, rest := keyedRoot(path, func(k string) any {
			if ectx.Request == nil {
				return nil
			}
			v, ok := ectx.Request.Query[k]
			if !ok {
				return nil
			}
			return v
		})
		return eval.Ok(navigate(root, rest))
	case "params":
		root, rest := keyedRoot(path, func(k string) any {
			if ectx.Request == nil {
				return nil
			}
			v, ok := ectx.Request.Params[k]
			if !ok {
				return nil
			}
			return v
		})
		return eval.Ok(navigate(root, rest))
	default:
		return eval.Ok(nil)
	}
}

// keyedRoot reads path[1] through get and returns the remaining path
// segments to navigate into it. A path with no key (len<2) resolves to an
// absent root.
func keyedRoot(path []string, get func(key string) any) (any, []string) {
	if len(path) < 2 {
		return nil, nil
	}
	return get(path[1]), path[2:]
}

// navigate walks root through path, rejecting any dangerous segment and
// failing closed (nil) the moment a segment can't be resolved.
func navigate(root any, path []string) any {
	cur := root
	for _, seg := range path {
		if dangerousKeys[seg] {
			return nil
		}
		next, ok := step(cur, seg)
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}

func step(cur any, seg string) (any, bool) {
	switch v := cur.(type) {
	case map[string]any:
		val, ok := v[seg]
		return val, ok
	case []any:
		idx, err := strconv.Atoi(seg)
		if err != nil || idx < 0 || idx >= len(v) {
			return nil, false
		}
		return v[idx], true
	default:
		return nil, false
	}
}
