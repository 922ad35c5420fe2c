package analyzer

import (
	"github.com/lispcore/c0i/internal/ast"
	"github.com/lispcore/c0i/internal/sidetables"
)

// Dump renders every fact Analyze recorded against program as plain
// nested values a caller can marshal directly (the -only-analyse CLI
// path YAML-encodes it). NodeAnnotations and FunctionAnnotations are
// keyed by node identity and function id respectively and have no
// enumeration method of their own, so Dump walks the same tree Analyze
// did and reads each node's annotations back out as it goes. A Ref
// annotation renders through Ref.Dump, the tagged-sequence shape this
// renders every other analyzer fact around.
func Dump(program []ast.TopLevel, res *Result) []any {
	out := make([]any, 0, len(program))
	for _, tl := range program {
		out = append(out, dumpTopLevel(tl, res))
	}
	return out
}

func dumpTopLevel(tl ast.TopLevel, res *Result) any {
	switch n := tl.(type) {
	case *ast.FunctionDef:
		return dumpFunction(n, res)
	case *ast.Bind:
		return map[string]any{
			"node":  "Bind",
			"name":  n.Name,
			"varID": res.Nodes.GetInt(n, sidetables.AttrVarID),
			"init":  dumpExpr(n.Init, res),
		}
	case *ast.ExprStmt:
		return map[string]any{"node": "ExprStmt", "x": dumpExpr(n.X, res)}
	default:
		return map[string]any{"node": "unknown"}
	}
}

func dumpFunction(fn *ast.FunctionDef, res *Result) map[string]any {
	funcID := res.Nodes.GetInt(fn, sidetables.AttrFunctionID)
	entry := map[string]any{
		"node":      "Function",
		"id":        funcID,
		"name":      res.Nodes.GetStringOr(fn, sidetables.AttrFunctionName, "<lambda>"),
		"params":    res.Functions.GetIntSlice(funcID, sidetables.AttrParamVarIDs),
		"frameSize": res.Functions.MustGet(funcID, sidetables.AttrBaseFrameSize),
		"captures":  dumpCaptures(res.Functions.GetCaptures(funcID, sidetables.AttrCaptures)),
	}
	if rest, ok := res.Nodes.Get(fn, sidetables.AttrRestVarID); ok {
		entry["restVarID"] = rest
	}
	body := make([]any, 0, len(fn.Body))
	for _, st := range fn.Body {
		body = append(body, dumpTopLevel(st, res))
	}
	entry["body"] = body
	return entry
}

func dumpCaptures(entries []sidetables.CaptureEntry) []any {
	out := make([]any, len(entries))
	for i, c := range entries {
		out[i] = []any{c.ReferentIsCapture, c.ReferentSlot}
	}
	return out
}

func dumpExpr(e ast.Expr, res *Result) any {
	switch n := e.(type) {
	case *ast.Literal:
		return dumpLiteral(n, res)

	case *ast.Variable:
		// A builtin operator in call-head position is never looked up, so
		// it carries no Ref.
		ref, ok := res.Nodes.Get(n, sidetables.AttrRef)
		if !ok {
			return map[string]any{"node": "Variable", "name": n.Name, "builtin": true}
		}
		return map[string]any{"node": "Variable", "name": n.Name, "ref": ref.(Ref).Dump()}

	case *ast.Lambda:
		return map[string]any{"node": "Lambda", "fn": dumpFunction(n.Fn, res)}

	case *ast.LetExpr:
		varIDs := res.Nodes.GetIntSlice(n, sidetables.AttrLetVarIDs)
		binds := make([]any, len(n.Binds))
		for i, b := range n.Binds {
			binds[i] = map[string]any{"name": b.Name, "varID": varIDs[i], "init": dumpExpr(b.Init, res)}
		}
		body := make([]any, len(n.Body))
		for i, st := range n.Body {
			body[i] = dumpTopLevel(st, res)
		}
		return map[string]any{"node": "Let", "binds": binds, "body": body}

	case *ast.Assign:
		ref := res.Nodes.MustGet(n, sidetables.AttrRef).(Ref)
		return map[string]any{"node": "Assign", "name": n.Name, "ref": ref.Dump(), "value": dumpExpr(n.Value, res)}

	case *ast.Cond:
		arms := make([]any, len(n.Arms))
		for i, arm := range n.Arms {
			arms[i] = map[string]any{"test": dumpExpr(arm.Test, res), "then": dumpExpr(arm.Consequent, res)}
		}
		entry := map[string]any{"node": "Cond", "arms": arms}
		if n.Else != nil {
			entry["else"] = dumpExpr(n.Else, res)
		}
		return entry

	case *ast.Call:
		args := make([]any, len(n.Args))
		for i, a := range n.Args {
			args[i] = dumpExpr(a, res)
		}
		return map[string]any{"node": "Call", "callee": dumpExpr(n.Callee, res), "args": args}

	default:
		return map[string]any{"node": "unknown"}
	}
}

func dumpLiteral(l *ast.Literal, res *Result) any {
	switch l.Kind {
	case ast.LitStr:
		return map[string]any{"node": "Literal", "kind": "string", "value": l.Str, "constID": res.Nodes.GetInt(l, sidetables.AttrConstID)}
	case ast.LitInt:
		return map[string]any{"node": "Literal", "kind": "int", "value": l.Int}
	case ast.LitUint:
		return map[string]any{"node": "Literal", "kind": "uint", "value": l.Uint}
	case ast.LitFloat:
		return map[string]any{"node": "Literal", "kind": "float", "value": l.Float}
	case ast.LitBool:
		return map[string]any{"node": "Literal", "kind": "bool", "value": l.Bool}
	case ast.LitChar:
		return map[string]any{"node": "Literal", "kind": "char", "value": l.Char}
	case ast.LitNil:
		return map[string]any{"node": "Literal", "kind": "nil"}
	case ast.LitPair:
		return map[string]any{"node": "Literal", "kind": "pair", "car": dumpLiteral(l.Car, res), "cdr": dumpLiteral(l.Cdr, res)}
	default:
		return map[string]any{"node": "Literal", "kind": "unsupported"}
	}
}
