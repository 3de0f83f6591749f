/*
 * Copyright 2020 Go YAML Path Authors
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package tql

import "regexp"

// filterExprKind names the variety of a filterExprNode, mirroring the
// comparator-as-small-enum idiom used throughout this package.
type filterExprKind int

const (
	filterAttrRef filterExprKind = iota
	filterFnRef
	filterStringLit
	filterCompare
	filterNot
	filterAnd
	filterOr
)

// cmpOp names a filter comparison operator.
type cmpOp int

const (
	cmpEqual cmpOp = iota
	cmpNotEqual
	cmpReMatch
	cmpReNotMatch
)

func cmpOpFor(t lexemeType) cmpOp {
	switch t {
	case lexemeEq:
		return cmpEqual
	case lexemeNeq:
		return cmpNotEqual
	case lexemeReMatch:
		return cmpReMatch
	case lexemeReNotMatch:
		return cmpReNotMatch
	}
	panic("tql: cmpOpFor called with a non-comparison lexeme type")
}

// filterExprNode is a node of a compiled "~( … )" filter expression tree.
type filterExprNode struct {
	kind filterExprKind

	attrName string // filterAttrRef
	fnName   string // filterFnRef
	str      string // filterStringLit, unquoted

	op    cmpOp           // filterCompare
	re    *regexp.Regexp  // filterCompare, cmpReMatch/cmpReNotMatch only, compiled once at parse time
	left  *filterExprNode // filterCompare (the atom), filterNot (operand), filterAnd/filterOr (lhs)
	right *filterExprNode // filterCompare (the string literal), filterAnd/filterOr (rhs)
}

// evalFilter evaluates a compiled filter expression against elem, resolving
// any FilterFnRef against filters. It returns MatchError if a referenced
// filter function is not present in filters — this should not happen in
// practice since Pattern.Match validates every reference before enumeration
// begins, but evalFilter re-checks defensively since it is also reachable
// directly from tests.
func evalFilter(e *filterExprNode, elem TreeNode, filters map[string]func(TreeNode) bool) (bool, error) {
	switch e.kind {
	case filterNot:
		v, err := evalFilter(e.left, elem, filters)
		if err != nil {
			return false, err
		}
		return !v, nil

	case filterAnd:
		l, err := evalFilter(e.left, elem, filters)
		if err != nil {
			return false, err
		}
		if !l {
			return false, nil
		}
		return evalFilter(e.right, elem, filters)

	case filterOr:
		l, err := evalFilter(e.left, elem, filters)
		if err != nil {
			return false, err
		}
		if l {
			return true, nil
		}
		return evalFilter(e.right, elem, filters)

	case filterCompare:
		lhs, ok := attrValue(e.left, elem)
		if !ok {
			return false, nil
		}
		rhs := e.right.str
		switch e.op {
		case cmpEqual:
			return lhs == rhs, nil
		case cmpNotEqual:
			return lhs != rhs, nil
		case cmpReMatch:
			return e.re.MatchString(lhs), nil
		case cmpReNotMatch:
			return !e.re.MatchString(lhs), nil
		}
		return false, nil

	case filterAttrRef:
		v, ok := attrValue(e, elem)
		return ok && v != "", nil

	case filterFnRef:
		fn, ok := filters[e.fnName]
		if !ok {
			return false, &MatchError{UnknownFilter: e.fnName}
		}
		return fn(elem), nil

	case filterStringLit:
		return e.str != "", nil
	}
	return false, nil
}

// attrValue resolves an attrRef atom against elem. Only filterAttrRef nodes
// resolve to a value; anything else is not an attribute reference.
func attrValue(e *filterExprNode, elem TreeNode) (string, bool) {
	if e.kind != filterAttrRef {
		return "", false
	}
	return elem.Attr(e.attrName)
}

// collectFilterFnNames appends every FilterFnRef name reachable from e to
// names, used by compile() to validate filter function references before
// enumeration begins.
func collectFilterFnNames(e *filterExprNode, names map[string]bool) {
	if e == nil {
		return
	}
	switch e.kind {
	case filterFnRef:
		names[e.fnName] = true
	case filterNot:
		collectFilterFnNames(e.left, names)
	case filterAnd, filterOr, filterCompare:
		collectFilterFnNames(e.left, names)
		collectFilterFnNames(e.right, names)
	}
}
