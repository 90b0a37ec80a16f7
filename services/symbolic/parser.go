// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package symbolic

import (
	"fmt"
	"math/big"
	"strings"
	"unicode"
)

// =============================================================================
// PARSE ERROR
// =============================================================================

// ParseError describes a malformed input expression. It is surfaced to the
// caller verbatim and never retried.
type ParseError struct {
	// Pos is the zero-based byte offset of the offending token.
	Pos int

	// Msg describes what the parser expected.
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at position %d: %s", e.Pos, e.Msg)
}

// =============================================================================
// LEXER
// =============================================================================

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokIdent
	tokOp    // + - * / ^
	tokLParen
	tokRParen
	tokEOF
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// lex tokenizes the input. Whitespace separates tokens and is otherwise
// ignored.
func lex(input string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(input) {
		ch := input[i]
		switch {
		case ch == ' ' || ch == '\t':
			i++
		case ch == '(':
			toks = append(toks, token{tokLParen, "(", i})
			i++
		case ch == ')':
			toks = append(toks, token{tokRParen, ")", i})
			i++
		case strings.ContainsRune("+-*/^", rune(ch)):
			toks = append(toks, token{tokOp, string(ch), i})
			i++
		case ch >= '0' && ch <= '9' || ch == '.':
			start := i
			seenDot := false
			for i < len(input) && (input[i] >= '0' && input[i] <= '9' || input[i] == '.') {
				if input[i] == '.' {
					if seenDot {
						return nil, &ParseError{Pos: i, Msg: "unexpected second decimal point"}
					}
					seenDot = true
				}
				i++
			}
			text := input[start:i]
			if text == "." {
				return nil, &ParseError{Pos: start, Msg: "malformed number"}
			}
			toks = append(toks, token{tokNumber, text, start})
		case unicode.IsLetter(rune(ch)) || ch == '_':
			start := i
			for i < len(input) && (unicode.IsLetter(rune(input[i])) || unicode.IsDigit(rune(input[i])) || input[i] == '_') {
				i++
			}
			toks = append(toks, token{tokIdent, input[start:i], start})
		default:
			return nil, &ParseError{Pos: i, Msg: fmt.Sprintf("unexpected character %q", ch)}
		}
	}
	toks = append(toks, token{tokEOF, "", len(input)})
	return toks, nil
}

// =============================================================================
// PARSER
// =============================================================================

// Parse converts expression text into an Expr.
//
// Grammar (standard precedence, ^ is right-associative and binds tighter
// than unary minus on its left operand):
//
//	expr   := term (("+" | "-") term)*
//	term   := unary (("*" | "/") unary)*
//	unary  := "-" unary | power
//	power  := atom ("^" unary)?
//	atom   := number | ident | ident "(" expr ")" | "(" expr ")"
//
// Returns a *ParseError for malformed input.
func Parse(input string) (Expr, error) {
	toks, err := lex(input)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, &ParseError{Pos: tok.pos, Msg: fmt.Sprintf("unexpected %q", tok.text)}
	}
	return e.Simplify(), nil
}

type parser struct {
	toks []token
	i    int
}

func (p *parser) peek() token { return p.toks[p.i] }
func (p *parser) next() token { t := p.toks[p.i]; p.i++; return t }

func (p *parser) parseExpr() (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokOp || (tok.text != "+" && tok.text != "-") {
			return left, nil
		}
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		if tok.text == "-" {
			right = Neg(right)
		}
		left = Add(left, right)
	}
}

func (p *parser) parseTerm() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokOp || (tok.text != "*" && tok.text != "/") {
			return left, nil
		}
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if tok.text == "/" {
			right = Pow(right, Int(-1))
		}
		left = Mul(left, right)
	}
}

func (p *parser) parseUnary() (Expr, error) {
	if tok := p.peek(); tok.kind == tokOp && tok.text == "-" {
		p.next()
		e, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Neg(e), nil
	}
	return p.parsePower()
}

func (p *parser) parsePower() (Expr, error) {
	base, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind == tokOp && tok.text == "^" {
		p.next()
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Pow(base, exp), nil
	}
	return base, nil
}

func (p *parser) parseAtom() (Expr, error) {
	tok := p.next()
	switch tok.kind {
	case tokNumber:
		r, ok := new(big.Rat).SetString(tok.text)
		if !ok {
			return nil, &ParseError{Pos: tok.pos, Msg: fmt.Sprintf("malformed number %q", tok.text)}
		}
		return &Number{val: r}, nil

	case tokIdent:
		if p.peek().kind == tokLParen {
			fn, ok := knownFuncs[tok.text]
			if !ok {
				return nil, &ParseError{Pos: tok.pos, Msg: fmt.Sprintf("unknown function %q", tok.text)}
			}
			p.next() // consume "("
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if closing := p.next(); closing.kind != tokRParen {
				return nil, &ParseError{Pos: closing.pos, Msg: "expected closing parenthesis"}
			}
			return Apply(fn, arg), nil
		}
		if named, ok := namedConstants[tok.text]; ok {
			return named, nil
		}
		return Var(tok.text), nil

	case tokLParen:
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, &ParseError{Pos: closing.pos, Msg: "expected closing parenthesis"}
		}
		return e, nil

	case tokEOF:
		return nil, &ParseError{Pos: tok.pos, Msg: "unexpected end of expression"}

	default:
		return nil, &ParseError{Pos: tok.pos, Msg: fmt.Sprintf("unexpected %q", tok.text)}
	}
}

// namedConstants are identifiers the parser resolves to constants rather
// than free variables. Values are rational approximations good far beyond
// the report's printed precision.
var namedConstants = map[string]Expr{
	"pi": Rat(245850922, 78256779),
	"e":  Rat(271801, 99990),
}
