package reader

import (
	"fmt"
	"strconv"

	"github.com/lispcore/c0i/internal/ast"
	"github.com/lispcore/c0i/internal/token"
)

// Parser consumes one lookahead token at a time, the same shape as the
// teacher's internal/parser.Parser (curToken/peekToken, parseX methods
// named after the grammar rule they implement).
type parser struct {
	lex *lexer

	cur  tok
	peek tok
}

func newParser(file, src string) (*parser, error) {
	p := &parser{lex: newLexer(file, src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *parser) advance() error {
	p.cur = p.peek
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.peek = t
	return nil
}

func (p *parser) expect(k tokKind, what string) (tok, error) {
	if p.cur.kind != k {
		return tok{}, fmt.Errorf("%s: expected %s", p.cur.pos, what)
	}
	t := p.cur
	return t, p.advance()
}

// Parse reads every top-level form in src. Per the analyzer's phase A,
// every top-level form must be a `(define (name ...) ...)` function
// definition; Parse itself is permissive (it also accepts a bare
// top-level `(define name expr)` or expression so a fixture file can
// exercise the analyzer's "top-level is not a function" diagnostic) and
// leaves that structural check to analyzer.Analyze.
func Parse(file, src string) ([]ast.TopLevel, error) {
	p, err := newParser(file, src)
	if err != nil {
		return nil, err
	}

	var out []ast.TopLevel
	for p.cur.kind != tokEOF {
		tl, err := p.parseTopLevel()
		if err != nil {
			return nil, err
		}
		out = append(out, tl)
	}
	return out, nil
}

func (p *parser) parseTopLevel() (ast.TopLevel, error) {
	if p.cur.kind != tokLParen {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return ast.NewExprStmt(expr.Pos(), expr), nil
	}

	pos := p.cur.pos
	if p.peek.kind == tokSymbol && p.peek.text == "define" {
		return p.parseDefine(pos)
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ast.NewExprStmt(pos, expr), nil
}

// parseBody parses zero or more top-level forms up to (but not
// consuming) the closing paren of the enclosing form.
func (p *parser) parseBody() ([]ast.TopLevel, error) {
	var body []ast.TopLevel
	for p.cur.kind != tokRParen && p.cur.kind != tokEOF {
		tl, err := p.parseTopLevel()
		if err != nil {
			return nil, err
		}
		body = append(body, tl)
	}
	return body, nil
}

// parseDefine handles both `(define (name params... [. rest]) body...)`
// and `(define name expr)`, distinguishing on whether the form after
// `define` is itself a parenthesized parameter list.
func (p *parser) parseDefine(pos token.Pos) (ast.TopLevel, error) {
	if _, err := p.expect(tokLParen, "("); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokSymbol, "define"); err != nil {
		return nil, err
	}

	if p.cur.kind == tokLParen {
		fd, err := p.parseNamedFunction(pos)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, ")"); err != nil {
			return nil, err
		}
		return fd, nil
	}

	nameTok, err := p.expect(tokSymbol, "a binding name")
	if err != nil {
		return nil, err
	}
	init, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRParen, ")"); err != nil {
		return nil, err
	}
	return ast.NewBind(pos, nameTok.text, init), nil
}

// parseNamedFunction parses `(name params... [. rest]) body...` — the
// part of `define` after the outer "define" symbol has been consumed.
// parseLambda's anonymous form shares only parseParamList and parseBody
// with it.
func (p *parser) parseNamedFunction(pos token.Pos) (*ast.FunctionDef, error) {
	if _, err := p.expect(tokLParen, "("); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(tokSymbol, "a function name")
	if err != nil {
		return nil, err
	}
	params, rest, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	name := nameTok.text
	return ast.NewFunctionDef(pos, &name, params, rest, body), nil
}

// parseParamList parses `p1 p2 ... . rest)`, already past the opening
// paren shared with the name it followed, up to and consuming its own
// closing paren.
func (p *parser) parseParamList() ([]string, *string, error) {
	var params []string
	var rest *string
	for p.cur.kind != tokRParen {
		if p.cur.kind == tokSymbol && p.cur.text == "." {
			if err := p.advance(); err != nil {
				return nil, nil, err
			}
			nameTok, err := p.expect(tokSymbol, "a rest-parameter name")
			if err != nil {
				return nil, nil, err
			}
			name := nameTok.text
			rest = &name
			break
		}
		nameTok, err := p.expect(tokSymbol, "a parameter name")
		if err != nil {
			return nil, nil, err
		}
		params = append(params, nameTok.text)
	}
	if _, err := p.expect(tokRParen, ")"); err != nil {
		return nil, nil, err
	}
	return params, rest, nil
}

func (p *parser) parseExpr() (ast.Expr, error) {
	switch p.cur.kind {
	case tokInt:
		v, err := strconv.ParseInt(p.cur.text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: malformed integer %q", p.cur.pos, p.cur.text)
		}
		lit := ast.NewIntLiteral(p.cur.pos, v)
		return lit, p.advance()

	case tokFloat:
		v, err := strconv.ParseFloat(p.cur.text, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: malformed float %q", p.cur.pos, p.cur.text)
		}
		lit := ast.NewAtomLiteral(p.cur.pos, ast.LitFloat)
		lit.Float = v
		return lit, p.advance()

	case tokString:
		lit := ast.NewStrLiteral(p.cur.pos, p.cur.text)
		return lit, p.advance()

	case tokBool:
		lit := ast.NewBoolLiteral(p.cur.pos, p.cur.text == "#t")
		return lit, p.advance()

	case tokSymbol:
		name := p.cur.text
		pos := p.cur.pos
		return ast.NewVariable(pos, name), p.advance()

	case tokQuote:
		pos := p.cur.pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		return p.parseQuoted(pos)

	case tokLParen:
		return p.parseList()

	default:
		return nil, fmt.Errorf("%s: unexpected token in expression position", p.cur.pos)
	}
}

// parseQuoted reads the datum following a quote mark into a literal,
// recursively for pairs; a bare symbol or any other datum becomes an
// ast.LitUnsupported literal, since this toolchain's value domain has no
// runtime representation for a quoted symbol.
func (p *parser) parseQuoted(pos token.Pos) (ast.Expr, error) {
	switch p.cur.kind {
	case tokSymbol:
		kind := "symbol"
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewUnsupportedLiteral(pos, kind), nil

	case tokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return p.parseQuotedList(pos)

	default:
		return p.parseExpr()
	}
}

// parseQuotedList builds a right-nested chain of LitPair literals
// terminated by a LitNil, or `car . cdr` when a dotted pair is written
// explicitly.
func (p *parser) parseQuotedList(pos token.Pos) (ast.Expr, error) {
	var elems []*ast.Literal
	var tail *ast.Literal
	for p.cur.kind != tokRParen {
		if p.cur.kind == tokSymbol && p.cur.text == "." {
			if err := p.advance(); err != nil {
				return nil, err
			}
			d, err := p.parseQuoted(p.cur.pos)
			if err != nil {
				return nil, err
			}
			lit, ok := d.(*ast.Literal)
			if !ok {
				return nil, fmt.Errorf("%s: dotted tail must be a literal", pos)
			}
			tail = lit
			break
		}
		e, err := p.parseQuoted(p.cur.pos)
		if err != nil {
			return nil, err
		}
		lit, ok := e.(*ast.Literal)
		if !ok {
			return nil, fmt.Errorf("%s: quoted list element must be a literal", pos)
		}
		elems = append(elems, lit)
	}
	if _, err := p.expect(tokRParen, ")"); err != nil {
		return nil, err
	}

	if tail == nil {
		tail = ast.NewAtomLiteral(pos, ast.LitNil)
	}
	result := tail
	for i := len(elems) - 1; i >= 0; i-- {
		result = ast.NewPairLiteral(elems[i].Pos(), elems[i], result)
	}
	return result, nil
}

// parseList dispatches a parenthesized form on its head symbol, falling
// back to an ordinary call when the head isn't one of the syntactic
// keywords below (set!, let, lambda, cond, quote). Builtin operators
// like `+`, `if`, `loop` are NOT syntactic keywords here — they parse as
// ordinary calls and the analyzer classifies them.
func (p *parser) parseList() (ast.Expr, error) {
	pos := p.cur.pos
	if err := p.advance(); err != nil { // consume '('
		return nil, err
	}

	if p.cur.kind == tokSymbol {
		switch p.cur.text {
		case "set!":
			return p.parseSet(pos)
		case "let":
			return p.parseLet(pos)
		case "lambda":
			return p.parseLambda(pos)
		case "cond":
			return p.parseCond(pos)
		case "quote":
			if err := p.advance(); err != nil {
				return nil, err
			}
			d, err := p.parseQuoted(p.cur.pos)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(tokRParen, ")"); err != nil {
				return nil, err
			}
			return d, nil
		}
	}
	return p.parseCall(pos)
}

func (p *parser) parseSet(pos token.Pos) (ast.Expr, error) {
	if err := p.advance(); err != nil { // consume 'set!'
		return nil, err
	}
	nameTok, err := p.expect(tokSymbol, "a variable name")
	if err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRParen, ")"); err != nil {
		return nil, err
	}
	return ast.NewAssign(pos, nameTok.text, value), nil
}

func (p *parser) parseLet(pos token.Pos) (ast.Expr, error) {
	if err := p.advance(); err != nil { // consume 'let'
		return nil, err
	}
	if _, err := p.expect(tokLParen, "("); err != nil {
		return nil, err
	}
	var binds []ast.LetBind
	for p.cur.kind != tokRParen {
		if _, err := p.expect(tokLParen, "("); err != nil {
			return nil, err
		}
		nameTok, err := p.expect(tokSymbol, "a binding name")
		if err != nil {
			return nil, err
		}
		init, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, ")"); err != nil {
			return nil, err
		}
		binds = append(binds, ast.LetBind{Name: nameTok.text, Init: init})
	}
	if _, err := p.expect(tokRParen, ")"); err != nil {
		return nil, err
	}
	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRParen, ")"); err != nil {
		return nil, err
	}
	return ast.NewLetExpr(pos, binds, body), nil
}

func (p *parser) parseLambda(pos token.Pos) (ast.Expr, error) {
	if err := p.advance(); err != nil { // consume 'lambda'
		return nil, err
	}
	if _, err := p.expect(tokLParen, "("); err != nil {
		return nil, err
	}
	params, rest, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRParen, ")"); err != nil {
		return nil, err
	}
	fd := ast.NewFunctionDef(pos, nil, params, rest, body)
	return ast.NewLambda(pos, fd), nil
}

func (p *parser) parseCond(pos token.Pos) (ast.Expr, error) {
	if err := p.advance(); err != nil { // consume 'cond'
		return nil, err
	}
	var arms []ast.CondArm
	var elseExpr ast.Expr
	for p.cur.kind != tokRParen {
		if _, err := p.expect(tokLParen, "("); err != nil {
			return nil, err
		}
		if p.cur.kind == tokSymbol && p.cur.text == "else" {
			if err := p.advance(); err != nil {
				return nil, err
			}
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			elseExpr = e
			if _, err := p.expect(tokRParen, ")"); err != nil {
				return nil, err
			}
			continue
		}
		test, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		conseq, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, ")"); err != nil {
			return nil, err
		}
		arms = append(arms, ast.CondArm{Test: test, Consequent: conseq})
	}
	if _, err := p.expect(tokRParen, ")"); err != nil {
		return nil, err
	}
	return ast.NewCond(pos, arms, elseExpr), nil
}

func (p *parser) parseCall(pos token.Pos) (ast.Expr, error) {
	callee, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	var args []ast.Expr
	for p.cur.kind != tokRParen {
		a, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	if _, err := p.expect(tokRParen, ")"); err != nil {
		return nil, err
	}
	return ast.NewCall(pos, callee, args), nil
}
