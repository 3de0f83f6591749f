/*
 * Copyright 2020 Go YAML Path Authors
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package tql

// Pattern is a compiled TQL query, ready to be matched against a TreeNode.
// A Pattern is safe for concurrent use by multiple goroutines.
type Pattern struct {
	root      node
	shape     *shapeNode
	filterFns map[string]bool
}

// Compile parses and validates source, returning a Pattern ready for
// repeated matching. Compile fails with a *CompileError wrapping a
// *LexError, *ParseError or *ShapeError on any malformed input.
func Compile(source string) (*Pattern, error) {
	p, err := parsePattern(source)
	if err != nil {
		return nil, &CompileError{Err: err}
	}
	shape, err := topLevelShape(p.root)
	if err != nil {
		return nil, &CompileError{Err: err}
	}
	names := map[string]bool{}
	collectAllFilterFnNames(p.root, names)
	return &Pattern{root: p.root, shape: shape, filterFns: names}, nil
}

// MustCompile is like Compile but panics on error, for use in package-level
// variable initialization.
func MustCompile(source string) *Pattern {
	p, err := Compile(source)
	if err != nil {
		panic(err)
	}
	return p
}

// Shape describes the structure of the Results Match will produce,
// independent of any particular document.
func (p *Pattern) Shape() ShapeDescription {
	return describeShape(p.shape)
}

// Match finds every match of p within root's subtree (root included),
// trying every descendant in pre-order as a candidate starting position;
// when p's top-level sequence begins with "$", root alone is tried.
// filters supplies the implementations for every "$name" filter
// function referenced by p; a reference to a name missing from filters
// fails the whole call with a *MatchError, before any candidate is tried.
func (p *Pattern) Match(root TreeNode, filters map[string]func(TreeNode) bool) ([]Result, error) {
	for name := range p.filterFns {
		if _, ok := filters[name]; !ok {
			return nil, &MatchError{UnknownFilter: name}
		}
	}

	m := newMatcher(filters, p.root)
	var out []Result
	candidates := rootCandidates(p.root, root)
	for _, c := range candidates {
		results, err := m.matchFrom(p.root, c)
		if err != nil {
			return nil, err
		}
		out = append(out, results...)
	}
	return out, nil
}

// collectAllFilterFnNames walks the whole pattern tree, recording every
// filter function name referenced anywhere within a "~( … )" decoration.
func collectAllFilterFnNames(n node, names map[string]bool) {
	if n == nil {
		return
	}
	switch t := n.(type) {
	case *predicateNode:
		for _, c := range t.children {
			collectAllFilterFnNames(c, names)
		}
	case *notNode:
		collectAllFilterFnNames(t.child, names)
	case *altNode:
		for _, a := range t.arms {
			collectAllFilterFnNames(a, names)
		}
	case *depthSeqNode:
		for _, c := range t.children {
			collectAllFilterFnNames(c.n, names)
		}
	case *breadthSeqNode:
		for _, c := range t.children {
			collectAllFilterFnNames(c.n, names)
		}
	case *optionalNode:
		collectAllFilterFnNames(t.child, names)
	case *starNode:
		collectAllFilterFnNames(t.child, names)
	case *plusNode:
		collectAllFilterFnNames(t.child, names)
	case *groupNode:
		collectAllFilterFnNames(t.child, names)
	case *decoratedNode:
		collectAllFilterFnNames(t.target, names)
		collectFilterFnNames(t.filter, names)
	}
}
