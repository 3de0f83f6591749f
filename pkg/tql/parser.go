/*
 * Copyright 2020 Go YAML Path Authors
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package tql

// This is a recursive-descent parser over the flat lexeme stream produced
// by lexer.go, in the same dispatch-on-lexeme-type style as go-yamlpath's
// path.go. It implements the grammar:
//
//	query     := axisSeq
//	axisSeq   := depthSeq | breadthSeq            -- chosen by the axis stack
//	depthSeq  := term ( (">" | ">>") term )*
//	breadthSeq:= term ( (":" | "::")  term )*
//	term      := atom quantifier?
//	quantifier:= "?" | "*" | "+"
//	atom      := ( "(" altSeq ")" | primary ) ( "[" extractors "]" )? ( "~" "(" filter ")" )?
//	            | "{" innerSeq "}"          -- the two suffixes may come in either order
//	altSeq    := axisSeq ( "|" axisSeq )*
//	primary   := "$" | tagExpr
//	tagExpr   := ("@"|ident) ( "." ident | "#" ident | "!" negatedSuffix )*
//	negatedSuffix := "." ident | "#" ident | tagExpr
//	extractors:= extractor ( "," extractor )*
//	extractor := "txt" | "node" | "." ident
//
// Unlike the depth/breadth sequences the grammar names, a sequence node is
// always built even when it has a single term: this keeps the matcher's
// handling of the sequence position uniform instead of special-casing
// a bare top-level term.
//
// "[extractors]" and "~(filter)" may follow a parenthesized Group the same
// way they follow a bare tagExpr, so an alternation's matched element can
// itself be extracted from or filtered on ("(a | b)[txt]"); parseAtomSuffixes
// implements this once and both parseAtom and parsePrimary call it.
//
// "{ … }" toggles the current axis: depth switches to breadth and vice
// versa. The parser tracks this on an explicit stack (axisStack) rather
// than as a parameter, since "(" groups do not themselves change axis but
// may contain a further "{ … }" that does.

type patternParser struct {
	lx        []lexeme
	pos       int
	axisStack []axis
	// closeStack tracks the token type that closes the atom currently being
	// parsed (lexemeRParen inside "(…)", lexemeRBrace inside "{…}",
	// lexemeEOF at the top level), so atAtomEnd can recognize a dangling
	// trailing edge without being fooled by some other enclosing delimiter
	// that happens to come next (a mismatched "{"/")" pairing must still be
	// a parse error, not silently tolerated).
	closeStack []lexemeType
	nextID     int
}

func parsePattern(source string) (*pattern, error) {
	lx, err := tokenize(source)
	if err != nil {
		return nil, err
	}
	p := &patternParser{lx: lx, axisStack: []axis{depthAxis}, closeStack: []lexemeType{lexemeEOF}}
	root, err := p.parseQuery()
	if err != nil {
		return nil, err
	}
	return &pattern{root: root, maxID: p.nextID}, nil
}

// tokenize drains the lexer fully into a slice ending with a lexemeEOF
// token, so the recursive-descent parser below can freely peek ahead (for
// axis toggling and filter-expression extraction) without re-deriving the
// lexer's internal state-function position.
func tokenize(source string) ([]lexeme, error) {
	l := lex("query", source)
	var out []lexeme
	for {
		lx := l.nextLexeme()
		if lx.typ == lexemeError {
			return nil, &LexError{Span: lx.sp, Reason: lx.val}
		}
		out = append(out, lx)
		if lx.typ == lexemeEOF {
			return out, nil
		}
	}
}

func (p *patternParser) peek() lexeme { return p.lx[p.pos] }

func (p *patternParser) next() lexeme {
	l := p.lx[p.pos]
	if p.pos < len(p.lx)-1 {
		p.pos++
	}
	return l
}

func (p *patternParser) expect(t lexemeType, desc string) (lexeme, error) {
	if p.peek().typ != t {
		return lexeme{}, &ParseError{Span: p.peek().sp, Expected: desc, Found: p.peek().String()}
	}
	return p.next(), nil
}

func (p *patternParser) startPos() int { return p.peek().sp.start }

func (p *patternParser) endPos() int {
	if p.pos == 0 {
		return 0
	}
	return p.lx[p.pos-1].sp.end
}

func (p *patternParser) mkBase(start int) base {
	p.nextID++
	return base{sp: span{start, p.endPos()}, nid: p.nextID}
}

func (p *patternParser) currentAxis() axis { return p.axisStack[len(p.axisStack)-1] }
func (p *patternParser) pushAxis(a axis)   { p.axisStack = append(p.axisStack, a) }
func (p *patternParser) popAxis()          { p.axisStack = p.axisStack[:len(p.axisStack)-1] }

func toggleAxis(a axis) axis {
	if a == depthAxis {
		return breadthAxis
	}
	return depthAxis
}

func (p *patternParser) parseQuery() (node, error) {
	n, err := p.parseAxisSeq()
	if err != nil {
		return nil, err
	}
	if p.peek().typ != lexemeEOF {
		return nil, &ParseError{Span: p.peek().sp, Expected: "end of query", Found: p.peek().String()}
	}
	return n, nil
}

func (p *patternParser) parseAxisSeq() (node, error) {
	if p.currentAxis() == breadthAxis {
		return p.parseBreadthSeq()
	}
	return p.parseDepthSeq()
}

// atAtomEnd reports whether the parser has reached the specific token that
// closes the atom currently being parsed — not merely some closing
// delimiter, which would let a mismatched "{"/")" pairing silently parse
// instead of failing as a mismatched-brace error should.
func (p *patternParser) atAtomEnd() bool {
	return p.peek().typ == p.closeStack[len(p.closeStack)-1]
}

func (p *patternParser) parseDepthSeq() (node, error) {
	start := p.startPos()
	first, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	children := []seqChild{{n: first}}
	for {
		switch p.peek().typ {
		case lexemeGT:
			p.next()
			// A trailing edge with nothing after it, right before the
			// atom's closing delimiter, is tolerated rather than treated
			// as a parse error: "(span >)*" repeats "span" hopping by
			// the edge that precedes the whole group in the enclosing
			// sequence, making this edge redundant rather than load
			// bearing.
			if p.atAtomEnd() {
				return &depthSeqNode{base: p.mkBase(start), children: children}, nil
			}
			t, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			children = append(children, seqChild{e: edgeDirect, n: t})
		case lexemeGTGT:
			p.next()
			if p.atAtomEnd() {
				return &depthSeqNode{base: p.mkBase(start), children: children}, nil
			}
			t, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			children = append(children, seqChild{e: edgeDescendant, n: t})
		default:
			return &depthSeqNode{base: p.mkBase(start), children: children}, nil
		}
	}
}

func (p *patternParser) parseBreadthSeq() (node, error) {
	start := p.startPos()
	first, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	children := []seqChild{{n: first}}
	for {
		switch p.peek().typ {
		case lexemeColon:
			p.next()
			if p.atAtomEnd() {
				return &breadthSeqNode{base: p.mkBase(start), children: children}, nil
			}
			t, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			children = append(children, seqChild{e: edgeAdjacent, n: t})
		case lexemeColonColon:
			p.next()
			if p.atAtomEnd() {
				return &breadthSeqNode{base: p.mkBase(start), children: children}, nil
			}
			t, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			children = append(children, seqChild{e: edgeFollowing, n: t})
		default:
			return &breadthSeqNode{base: p.mkBase(start), children: children}, nil
		}
	}
}

func (p *patternParser) parseTerm() (node, error) {
	start := p.startPos()
	a, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	switch p.peek().typ {
	case lexemeQuestion:
		p.next()
		return &optionalNode{base: p.mkBase(start), child: a}, nil
	case lexemeStar:
		p.next()
		return &starNode{base: p.mkBase(start), child: a}, nil
	case lexemePlus:
		p.next()
		return &plusNode{base: p.mkBase(start), child: a}, nil
	}
	return a, nil
}

func (p *patternParser) parseAtom() (node, error) {
	start := p.startPos()
	switch p.peek().typ {
	case lexemeLParen:
		p.next()
		p.closeStack = append(p.closeStack, lexemeRParen)
		n, err := p.parseAltSeq()
		p.closeStack = p.closeStack[:len(p.closeStack)-1]
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexemeRParen, "')'"); err != nil {
			return nil, err
		}
		group := node(&groupNode{base: p.mkBase(start), child: n})
		// "[extractors]" and "~(filter)" may follow a parenthesized group
		// directly, the same as they follow a bare tagExpr, so that an
		// alternation's matched element can itself be extracted from or
		// filtered on: "(a | b)[txt]".
		return p.parseAtomSuffixes(group, start)

	case lexemeLBrace:
		p.next()
		p.pushAxis(toggleAxis(p.currentAxis()))
		p.closeStack = append(p.closeStack, lexemeRBrace)
		n, err := p.parseAxisSeq()
		p.closeStack = p.closeStack[:len(p.closeStack)-1]
		if err != nil {
			p.popAxis()
			return nil, err
		}
		p.popAxis()
		if _, err := p.expect(lexemeRBrace, "'}'"); err != nil {
			return nil, err
		}
		return n, nil

	default:
		return p.parsePrimary()
	}
}

func (p *patternParser) parseAltSeq() (node, error) {
	start := p.startPos()
	first, err := p.parseAxisSeq()
	if err != nil {
		return nil, err
	}
	arms := []node{first}
	for p.peek().typ == lexemePipe {
		p.next()
		n, err := p.parseAxisSeq()
		if err != nil {
			return nil, err
		}
		arms = append(arms, n)
	}
	if len(arms) == 1 {
		return arms[0], nil
	}
	return &altNode{base: p.mkBase(start), arms: arms}, nil
}

func (p *patternParser) parsePrimary() (node, error) {
	start := p.startPos()
	if p.peek().typ == lexemeDollar {
		p.next()
		return &boundaryNode{base: p.mkBase(start)}, nil
	}

	tag, err := p.parseTagExpr()
	if err != nil {
		return nil, err
	}
	return p.parseAtomSuffixes(tag, start)
}

// parseAtomSuffixes parses the optional "[extractors]" and "~(filter)"
// suffixes, in either order, that may follow any matched element — a
// tagExpr, or a parenthesized Group/Alt — and wraps n in a decoratedNode if
// either is present. n is returned unwrapped when neither suffix appears.
func (p *patternParser) parseAtomSuffixes(n node, start int) (node, error) {
	var extractors []node
	var filter *filterExprNode

	if p.peek().typ == lexemeLBracket {
		p.next()
		var err error
		extractors, err = p.parseExtractors()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexemeRBracket, "']'"); err != nil {
			return nil, err
		}
	}

	if p.peek().typ == lexemeTilde {
		p.next()
		if _, err := p.expect(lexemeLParen, "'('"); err != nil {
			return nil, err
		}
		filterLexemes, err := p.collectFilterLexemes()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexemeRParen, "')'"); err != nil {
			return nil, err
		}
		filter, err = parseFilterExpr(filterLexemes)
		if err != nil {
			return nil, err
		}
	}

	// "[extractors]" may also follow the filter: "div~(.k == 'v')[txt]".
	if extractors == nil && p.peek().typ == lexemeLBracket {
		p.next()
		var err error
		extractors, err = p.parseExtractors()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexemeRBracket, "']'"); err != nil {
			return nil, err
		}
	}

	if len(extractors) == 0 && filter == nil {
		return n, nil
	}
	return &decoratedNode{base: p.mkBase(start), target: n, extractors: extractors, filter: filter}, nil
}

// collectFilterLexemes gathers the tokens of a filter expression up to (but
// not including) its closing ")", tracking nested parens so that a
// parenthesized sub-expression inside the filter is not mistaken for the
// filter's own closing paren.
func (p *patternParser) collectFilterLexemes() ([]lexeme, error) {
	depth := 0
	var out []lexeme
	for {
		t := p.peek()
		if t.typ == lexemeEOF {
			return nil, &ParseError{Span: t.sp, Expected: "')'", Found: "EOF"}
		}
		if t.typ == lexemeRParen && depth == 0 {
			return out, nil
		}
		if t.typ == lexemeLParen {
			depth++
		}
		if t.typ == lexemeRParen {
			depth--
		}
		out = append(out, p.next())
	}
}

// parseTagExpr parses ("@"|ident) followed by zero or more of ".ident",
// "#ident", or "!" negatedSuffix, conjoining them into a predicateNode when more
// than one condition applies to the element.
func (p *patternParser) parseTagExpr() (node, error) {
	start := p.startPos()
	var base0 node
	switch p.peek().typ {
	case lexemeAt:
		p.next()
		base0 = &anyTagNode{base: p.mkBase(start)}
	case lexemeIdent:
		t := p.next()
		base0 = &tagNameNode{base: p.mkBase(start), name: t.val}
	default:
		return nil, &ParseError{Span: p.peek().sp, Expected: "tag name or '@'", Found: p.peek().String()}
	}

	children := []node{base0}
loop:
	for {
		switch p.peek().typ {
		case lexemeDot:
			p.next()
			id, err := p.expect(lexemeIdent, "class name")
			if err != nil {
				return nil, err
			}
			children = append(children, &classNode{base: p.mkBase(start), class: id.val})
		case lexemeHash:
			p.next()
			id, err := p.expect(lexemeIdent, "id")
			if err != nil {
				return nil, err
			}
			children = append(children, &idNode{base: p.mkBase(start), elemID: id.val})
		case lexemeBang:
			p.next()
			negated, err := p.parseNegatedSuffix()
			if err != nil {
				return nil, err
			}
			children = append(children, &notNode{base: p.mkBase(start), child: negated})
		default:
			break loop
		}
	}

	if len(children) == 1 {
		return children[0], nil
	}
	return &predicateNode{base: p.mkBase(start), children: children}, nil
}

// parseNegatedSuffix parses what follows a "!": a class ref ("." ident), an
// id ref ("#" ident), or a nested tagExpr (e.g. "!span"). This is the same
// set of conditions a bare tagExpr can be conjoined with, and "!" negates
// whichever one comes next — "div!.hidden" excludes the class, it does not
// require a second tag name after the "!".
func (p *patternParser) parseNegatedSuffix() (node, error) {
	start := p.startPos()
	switch p.peek().typ {
	case lexemeDot:
		p.next()
		id, err := p.expect(lexemeIdent, "class name")
		if err != nil {
			return nil, err
		}
		return &classNode{base: p.mkBase(start), class: id.val}, nil
	case lexemeHash:
		p.next()
		id, err := p.expect(lexemeIdent, "id")
		if err != nil {
			return nil, err
		}
		return &idNode{base: p.mkBase(start), elemID: id.val}, nil
	default:
		return p.parseTagExpr()
	}
}

func (p *patternParser) parseExtractors() ([]node, error) {
	var out []node
	for {
		e, err := p.parseExtractor()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
		if p.peek().typ == lexemeComma {
			p.next()
			continue
		}
		return out, nil
	}
}

func (p *patternParser) parseExtractor() (node, error) {
	start := p.startPos()
	if p.peek().typ == lexemeIdent && p.peek().val == "txt" {
		p.next()
		return &extractorNode{base: p.mkBase(start), kind: extractText}, nil
	}
	if p.peek().typ == lexemeIdent && p.peek().val == "node" {
		p.next()
		return &extractorNode{base: p.mkBase(start), kind: extractNode}, nil
	}
	if p.peek().typ == lexemeDot {
		p.next()
		id, err := p.expect(lexemeIdent, "attribute name")
		if err != nil {
			return nil, err
		}
		return &extractorNode{base: p.mkBase(start), kind: extractAttr, attrName: id.val}, nil
	}
	return nil, &ParseError{Span: p.peek().sp, Expected: "'txt', 'node', or '.' attribute name", Found: p.peek().String()}
}
