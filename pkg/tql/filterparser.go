/*
 * Copyright 2020 Go YAML Path Authors
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package tql

// This precedence-climbing parser mirrors the structure of
// pkg/yamlpath's filter parser (expression/conjunction/basicFilter/
// filterTerm), generalized to TQL's filter grammar:
//
//	filter     := filterOr
//	filterOr   := filterAnd ( "||" filterAnd )*
//	filterAnd  := filterUnary ( "&&" filterUnary )*
//	filterUnary:= "!" filterUnary | filterCmp
//	filterCmp  := filterAtom ( ("==" | "!=" | "~~" | "!~") string )?
//	filterAtom := "." ident | "$" ident | "(" filter ")"
//
// Grouping parentheses are handled explicitly here: the grammar's filterAtom
// production allows "(" filter ")" and a parenthesized sub-expression is
// returned whole, bypassing the trailing comparison check (a boolean
// sub-expression cannot itself be compared to a string literal).

type filterParser struct {
	lx  []lexeme
	pos int
}

// parseFilterExpr parses the lexemes between a "~(" and its matching ")",
// already separated out by the caller (collectFilterLexemes in parser.go).
func parseFilterExpr(lx []lexeme) (*filterExprNode, error) {
	p := &filterParser{lx: lx}
	n, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.lx) {
		return nil, &ParseError{Span: p.peek().sp, Expected: "end of filter expression", Found: p.peek().String()}
	}
	return n, nil
}

func (p *filterParser) peek() lexeme {
	if p.pos >= len(p.lx) {
		return lexeme{typ: lexemeEOF}
	}
	return p.lx[p.pos]
}

func (p *filterParser) next() lexeme {
	l := p.peek()
	if p.pos < len(p.lx) {
		p.pos++
	}
	return l
}

func (p *filterParser) parseOr() (*filterExprNode, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().typ == lexemeOrOr {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &filterExprNode{kind: filterOr, left: left, right: right}
	}
	return left, nil
}

func (p *filterParser) parseAnd() (*filterExprNode, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek().typ == lexemeAndAnd {
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &filterExprNode{kind: filterAnd, left: left, right: right}
	}
	return left, nil
}

func (p *filterParser) parseUnary() (*filterExprNode, error) {
	if p.peek().typ == lexemeBang {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &filterExprNode{kind: filterNot, left: operand}, nil
	}
	return p.parseCmp()
}

func (p *filterParser) parseCmp() (*filterExprNode, error) {
	atom, grouped, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if grouped {
		return atom, nil
	}
	switch p.peek().typ {
	case lexemeEq, lexemeNeq, lexemeReMatch, lexemeReNotMatch:
		opTok := p.next()
		if p.peek().typ != lexemeString {
			return nil, &ParseError{Span: p.peek().sp, Expected: "string literal", Found: p.peek().String()}
		}
		strTok := p.next()
		cmp := &filterExprNode{
			kind:  filterCompare,
			left:  atom,
			op:    cmpOpFor(opTok.typ),
			right: &filterExprNode{kind: filterStringLit, str: stringLiteralValue(strTok)},
		}
		if opTok.typ == lexemeReMatch || opTok.typ == lexemeReNotMatch {
			re, err := compileRegex(cmp.right.str)
			if err != nil {
				return nil, &ParseError{Span: strTok.sp, Expected: "valid regular expression", Found: cmp.right.str}
			}
			cmp.re = re
		}
		return cmp, nil
	}
	return atom, nil
}

// parseAtom returns the parsed atom and whether it came from an explicit
// "(" filter ")" grouping (in which case no trailing comparison applies).
func (p *filterParser) parseAtom() (*filterExprNode, bool, error) {
	switch p.peek().typ {
	case lexemeDot:
		p.next()
		id, err := p.expect(lexemeIdent, "attribute name")
		if err != nil {
			return nil, false, err
		}
		return &filterExprNode{kind: filterAttrRef, attrName: id.val}, false, nil

	case lexemeDollar:
		p.next()
		id, err := p.expect(lexemeIdent, "filter function name")
		if err != nil {
			return nil, false, err
		}
		return &filterExprNode{kind: filterFnRef, fnName: id.val}, false, nil

	case lexemeLParen:
		p.next()
		inner, err := p.parseOr()
		if err != nil {
			return nil, false, err
		}
		if _, err := p.expect(lexemeRParen, "')'"); err != nil {
			return nil, false, err
		}
		return inner, true, nil

	default:
		return nil, false, &ParseError{Span: p.peek().sp, Expected: "attribute reference, filter function reference, or '('", Found: p.peek().String()}
	}
}

func (p *filterParser) expect(t lexemeType, desc string) (lexeme, error) {
	if p.peek().typ != t {
		return lexeme{}, &ParseError{Span: p.peek().sp, Expected: desc, Found: p.peek().String()}
	}
	return p.next(), nil
}
