/*
 * Copyright 2020 Go YAML Path Authors
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package tql

// shapeKind names the variety of a ShapeTree node.
type shapeKind int

const (
	shapeScalarKind shapeKind = iota
	shapeTupleKind
	shapeListKind
	shapeOptionalKind
)

// shapeNode is a node of the ShapeTree. A nil shapeNode means "this
// sub-pattern contributes nothing to the enclosing tuple" (predicates,
// Boundary, and groups/repetitions whose body has no extractors at all).
type shapeNode struct {
	kind     shapeKind
	id       int // the AST node id this shape was derived from, for introspection
	extract  extractKind  // Scalar only
	children []*shapeNode // Tuple only
	inner    *shapeNode   // List, Optional only
}

// shapeEqual reports whether two ShapeTree fragments have identical
// structure, ignoring the AST node ids they were derived from. Two nil
// shapes are equal (both contribute nothing).
func shapeEqual(a, b *shapeNode) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case shapeScalarKind:
		return true
	case shapeListKind, shapeOptionalKind:
		return shapeEqual(a.inner, b.inner)
	case shapeTupleKind:
		if len(a.children) != len(b.children) {
			return false
		}
		for i := range a.children {
			if !shapeEqual(a.children[i], b.children[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// topLevelShape computes the ShapeTree for the whole compiled pattern. The
// top-level result is always a Tuple, even when it has zero or one
// contributing children: unlike a Group, it is never simplified.
func topLevelShape(root node) (*shapeNode, error) {
	children, err := collectTupleChildren(root)
	if err != nil {
		return nil, err
	}
	return &shapeNode{kind: shapeTupleKind, children: children}, nil
}

// shapeOf computes the shape contributed by a sub-pattern n at a point
// where a single value is expected (a Group's child, a Star/Plus/Optional's
// child, or an Alt arm). Unlike topLevelShape, a Tuple of arity 1 is
// simplified down to its sole child's shape, per the "extractors are
// zero-width" design note: (a[txt])* yields a list of scalars, not tuples.
func shapeOf(n node) (*shapeNode, error) {
	switch t := n.(type) {
	case *extractorNode:
		return &shapeNode{kind: shapeScalarKind, id: t.id(), extract: t.kind}, nil

	case *groupNode:
		children, err := collectTupleChildren(t.child)
		if err != nil {
			return nil, err
		}
		return simplifyTuple(t.id(), children), nil

	case *starNode:
		inner, err := shapeOf(t.child)
		if err != nil {
			return nil, err
		}
		if inner == nil {
			return nil, nil
		}
		return &shapeNode{kind: shapeListKind, id: t.id(), inner: inner}, nil

	case *plusNode:
		inner, err := shapeOf(t.child)
		if err != nil {
			return nil, err
		}
		if inner == nil {
			return nil, nil
		}
		return &shapeNode{kind: shapeListKind, id: t.id(), inner: inner}, nil

	case *optionalNode:
		inner, err := shapeOf(t.child)
		if err != nil {
			return nil, err
		}
		if inner == nil {
			return nil, nil
		}
		return &shapeNode{kind: shapeOptionalKind, id: t.id(), inner: inner}, nil

	case *altNode:
		var first *shapeNode
		for i, arm := range t.arms {
			s, err := shapeOf(arm)
			if err != nil {
				return nil, err
			}
			if i == 0 {
				first = s
				continue
			}
			if !shapeEqual(first, s) {
				return nil, &ShapeError{Span: t.nodeSpan(), Reason: "alternation arms do not all have the same shape"}
			}
		}
		return first, nil

	default:
		children, err := collectTupleChildren(n)
		if err != nil {
			return nil, err
		}
		return simplifyTuple(0, children), nil
	}
}

// ShapeDescription is the public, document-independent view of a compiled
// Pattern's ShapeTree, useful for a caller that wants to know how to
// interpret a Result before ever calling Match.
type ShapeDescription struct {
	Kind ResultKind

	// Children describes a Tuple's fixed-arity members, in order.
	Children []ShapeDescription

	// Inner describes a List or Optional's repeated/wrapped element.
	Inner *ShapeDescription
}

// describeShape converts an internal ShapeTree into its public form. A nil
// shapeNode (a pattern contributing nothing, such as a bare predicate used
// at the top level) describes as an empty Tuple.
func describeShape(s *shapeNode) ShapeDescription {
	if s == nil {
		return ShapeDescription{Kind: KindTuple}
	}
	switch s.kind {
	case shapeScalarKind:
		if s.extract == extractNode {
			return ShapeDescription{Kind: KindNode}
		}
		return ShapeDescription{Kind: KindText}
	case shapeListKind:
		inner := describeShape(s.inner)
		return ShapeDescription{Kind: KindList, Inner: &inner}
	case shapeOptionalKind:
		inner := describeShape(s.inner)
		return ShapeDescription{Kind: KindOptional, Inner: &inner}
	default:
		if len(s.children) == 0 {
			return ShapeDescription{Kind: KindTuple}
		}
		children := make([]ShapeDescription, len(s.children))
		for i, c := range s.children {
			children[i] = describeShape(c)
		}
		return ShapeDescription{Kind: KindTuple, Children: children}
	}
}

// simplifyTuple builds the Tuple shape for a collected child list, applying
// the zero/one-child simplification described at shapeOf.
func simplifyTuple(id int, children []*shapeNode) *shapeNode {
	switch len(children) {
	case 0:
		return nil
	case 1:
		return children[0]
	default:
		return &shapeNode{kind: shapeTupleKind, id: id, children: children}
	}
}

// collectTupleChildren walks n, which is shape-transparent (a sequence,
// predicate conjunction, or filter decoration), gathering the shapes
// contributed by its descendants in left-to-right source order, without
// crossing another Group/Star/Plus/Optional/Alt boundary — those are
// themselves collected as one already-computed shape child via shapeOf.
func collectTupleChildren(n node) ([]*shapeNode, error) {
	switch t := n.(type) {
	case *depthSeqNode:
		var out []*shapeNode
		for _, c := range t.children {
			cs, err := collectTupleChildren(c.n)
			if err != nil {
				return nil, err
			}
			out = append(out, cs...)
		}
		return out, nil

	case *breadthSeqNode:
		var out []*shapeNode
		for _, c := range t.children {
			cs, err := collectTupleChildren(c.n)
			if err != nil {
				return nil, err
			}
			out = append(out, cs...)
		}
		return out, nil

	case *predicateNode:
		var out []*shapeNode
		for _, c := range t.children {
			cs, err := collectTupleChildren(c)
			if err != nil {
				return nil, err
			}
			out = append(out, cs...)
		}
		return out, nil

	case *decoratedNode:
		out, err := collectTupleChildren(t.target)
		if err != nil {
			return nil, err
		}
		for _, ex := range t.extractors {
			s, err := shapeOf(ex)
			if err != nil {
				return nil, err
			}
			if s != nil {
				out = append(out, s)
			}
		}
		return out, nil

	case *extractorNode, *groupNode, *starNode, *plusNode, *optionalNode, *altNode:
		s, err := shapeOf(t)
		if err != nil {
			return nil, err
		}
		if s == nil {
			return nil, nil
		}
		return []*shapeNode{s}, nil

	default:
		// anyTagNode, tagNameNode, classNode, idNode, notNode, boundaryNode:
		// pure predicates/assertions, contribute nothing.
		return nil, nil
	}
}
