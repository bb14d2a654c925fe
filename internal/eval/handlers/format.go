package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexisbeaulieu97/formengine/internal/ast"
	"github.com/alexisbeaulieu97/formengine/internal/eval"
)

type formatHandler struct {
	base
	node *ast.Format
}

func newFormatHandler(n *ast.Format) *formatHandler {
	return &formatHandler{base: base{id: n.ID()}, node: n}
}

func (h *formatHandler) ComputeIsAsync(isAsync func(string) bool) {
	h.isAsync = unionAsync(isAsync, exprIDs(h.node.Arguments)...)
}

func (h *formatHandler) Evaluate(_ context.Context, _ *eval.Context, inv eval.Invoker) eval.Result {
	args := make([]any, len(h.node.Arguments))
	for i, a := range h.node.Arguments {
		args[i] = evalNodeOrNil(inv, a)
	}
	return eval.Ok(formatTemplate(h.node.Template, args))
}

// formatTemplate substitutes "{0}", "{1}", ... placeholders with the
// corresponding positional argument's string representation. A malformed
// or out-of-range placeholder is left verbatim.
func formatTemplate(template string, args []any) string {
	var b strings.Builder
	i := 0
	for i < len(template) {
		if template[i] == '{' {
			if end := strings.IndexByte(template[i:], '}'); end > 0 {
				idxStr := template[i+1 : i+end]
				if idx, err := strconv.Atoi(idxStr); err == nil && idx >= 0 && idx < len(args) {
					fmt.Fprint(&b, args[idx])
					i += end + 1
					continue
				}
			}
		}
		b.WriteByte(template[i])
		i++
	}
	return b.String()
}
