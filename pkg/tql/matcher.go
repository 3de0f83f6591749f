/*
 * Copyright 2020 Go YAML Path Authors
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package tql

// The matcher is a continuation-passing backtracker: every matchXxx
// function, on success, invokes a continuation zero or more times (once per
// distinct way the rest of the pattern can still succeed) instead of
// returning a single answer. A function that cannot satisfy n at the given
// position simply never calls its continuation — "no match" is silence, not
// an error. A non-nil error aborts the whole enumeration and is propagated
// to the caller of Pattern.Match (only MatchError from an unresolved filter
// function can do this; caller-supplied filters return a bool, not an error).
//
// This mirrors go-yamlpath's path.go, generalized from one axis (child/
// descendant via AllAt) to two (depth and breadth) and from a single
// accumulated node list to a shaped Result tree.

type matcher struct {
	filters     map[string]func(TreeNode) bool
	patternRoot node
}

func newMatcher(filters map[string]func(TreeNode) bool, patternRoot node) *matcher {
	return &matcher{filters: filters, patternRoot: patternRoot}
}

// rootCandidates lists the TreeNode positions Pattern.Match should try root
// against: every descendant of docRoot, in pre-order, including docRoot
// itself — unless root's depth axis begins with "$", which anchors the
// whole pattern to docRoot alone.
func rootCandidates(root node, docRoot TreeNode) []TreeNode {
	if seq, ok := root.(*depthSeqNode); ok && len(seq.children) > 0 {
		if _, ok := seq.children[0].n.(*boundaryNode); ok {
			return []TreeNode{docRoot}
		}
	}
	return append([]TreeNode{docRoot}, descendants(docRoot)...)
}

// matchFrom attempts root against start, collecting every full match as a
// top-level Tuple Result, in the order the backtracker discovers them.
func (m *matcher) matchFrom(root node, start TreeNode) ([]Result, error) {
	var out []Result
	err := m.matchPositional(root, start, func(values []Result) error {
		items := make([]Result, len(values))
		copy(items, values)
		out = append(out, Result{Kind: KindTuple, Items: items})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// matchPositional tests whether n holds at elem (no movement between tree
// positions happens here — that is the job of the sequence steppers below)
// and, on success, invokes cont once per way n can hold, with the values n
// contributes to its enclosing shape context.
func (m *matcher) matchPositional(n node, elem TreeNode, cont func([]Result) error) error {
	switch t := n.(type) {
	case *depthSeqNode:
		topLevel := node(t) == m.patternRoot
		return m.matchDepthSeq(t.children, 0, elem, nil, topLevel, cont)

	case *breadthSeqNode:
		siblings := elem.Children()
		return m.matchBreadthSeq(t.children, 0, siblings, -1, nil, cont)

	case *groupNode:
		return m.matchPositional(t.child, elem, func(values []Result) error {
			return cont(wrapAsValue(values))
		})

	case *altNode:
		for _, arm := range t.arms {
			if err := m.matchPositional(arm, elem, cont); err != nil {
				return err
			}
		}
		return nil

	case *decoratedNode:
		return m.matchPositional(t.target, elem, func(values []Result) error {
			for _, ex := range t.extractors {
				v, err := m.extractValue(ex.(*extractorNode), elem)
				if err != nil {
					return err
				}
				values = appendCopy(values, v)
			}
			if t.filter != nil {
				ok, err := evalFilter(t.filter, elem, m.filters)
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
			}
			return cont(values)
		})

	default:
		values, ok, err := m.checkAndCollect(n, elem)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		return cont(values)
	}
}

// checkAndCollect evaluates a same-element conjunction node (everything
// that neither moves position nor enumerates alternatives): tag/class/id
// predicates, Not, a Predicate conjunction, or an Extract. A decoratedNode
// is handled by matchPositional instead, since its target may itself need
// backtracking (a Group or Alt).  It reports whether the condition holds at
// elem and, if so, the values it contributes.
func (m *matcher) checkAndCollect(n node, elem TreeNode) ([]Result, bool, error) {
	switch t := n.(type) {
	case *anyTagNode:
		return nil, true, nil

	case *tagNameNode:
		return nil, elem.TagName() == t.name, nil

	case *classNode:
		return nil, hasClass(elem.Classes(), t.class), nil

	case *idNode:
		return nil, elem.ID() == t.elemID, nil

	case *notNode:
		_, ok, err := m.checkAndCollect(t.child, elem)
		if err != nil {
			return nil, false, err
		}
		return nil, !ok, nil

	case *predicateNode:
		var values []Result
		for _, c := range t.children {
			vs, ok, err := m.checkAndCollect(c, elem)
			if err != nil {
				return nil, false, err
			}
			if !ok {
				return nil, false, nil
			}
			values = append(values, vs...)
		}
		return values, true, nil

	case *extractorNode:
		v, err := m.extractValue(t, elem)
		if err != nil {
			return nil, false, err
		}
		return []Result{v}, true, nil

	default:
		// boundaryNode is always intercepted by the sequence steppers
		// below before reaching here; anything else is a parser bug.
		panic("tql: internal error: unexpected node in predicate position")
	}
}

func (m *matcher) extractValue(n *extractorNode, elem TreeNode) (Result, error) {
	switch n.kind {
	case extractText:
		return Result{Kind: KindText, Text: elem.Text()}, nil
	case extractNode:
		return Result{Kind: KindNode, Node: elem}, nil
	case extractAttr:
		v, _ := elem.Attr(n.attrName)
		return Result{Kind: KindText, Text: v}, nil
	}
	panic("tql: internal error: unknown extractor kind")
}

func hasClass(classes []string, want string) bool {
	for _, c := range classes {
		if c == want {
			return true
		}
	}
	return false
}

// --- depth axis ---

func candidatesForDepthEdge(e edge, elem TreeNode) []TreeNode {
	if e == edgeDirect {
		return elem.Children()
	}
	return descendants(elem)
}

// descendants returns every proper descendant of elem, in pre-order.
func descendants(elem TreeNode) []TreeNode {
	var out []TreeNode
	var walk func(TreeNode)
	walk = func(n TreeNode) {
		for _, c := range n.Children() {
			out = append(out, c)
			walk(c)
		}
	}
	walk(elem)
	return out
}

// matchDepthSeq steps through a depth-axis sequence. idx 0 is the anchor:
// it is tested directly at curElem, with no edge consumed. Every later
// child is reached from the previously matched element via its own edge.
//
// "$" is context-dependent: at position 0 of the whole compiled
// pattern (topLevel), it is the rooting anchor already enforced by
// rootCandidates restricting the candidate set to the document root, so it
// is a pure pass-through here. Anywhere else — position 0 of a nested
// sequence, or any later position — it asserts a leaf: the element at that
// position has no element children.
func (m *matcher) matchDepthSeq(children []seqChild, idx int, curElem TreeNode, acc []Result, topLevel bool, cont func([]Result) error) error {
	if idx >= len(children) {
		return cont(acc)
	}
	child := children[idx]

	if _, ok := child.n.(*boundaryNode); ok {
		if idx == 0 {
			if !topLevel && len(curElem.Children()) != 0 {
				return nil
			}
			return m.matchDepthSeq(children, idx+1, curElem, acc, topLevel, cont)
		}
		for _, c := range candidatesForDepthEdge(child.e, curElem) {
			if len(c.Children()) != 0 {
				continue
			}
			if err := m.matchDepthSeq(children, idx+1, c, acc, topLevel, cont); err != nil {
				return err
			}
		}
		return nil
	}

	if idx == 0 {
		return m.matchDepthTermSelf(child.n, curElem, func(values []Result) error {
			return m.matchDepthSeq(children, idx+1, curElem, appendCopy(acc, values...), topLevel, cont)
		})
	}

	return m.matchDepthTermEdge(child.n, child.e, curElem, func(nextElem TreeNode, values []Result) error {
		return m.matchDepthSeq(children, idx+1, nextElem, appendCopy(acc, values...), topLevel, cont)
	})
}

// matchDepthTermSelf matches n directly at curElem (the sequence anchor, no
// edge consumed). Star/Plus/Optional anchored this way repeat via edgeDirect
// for their second and later occurrences, since the anchor itself supplies
// none.
func (m *matcher) matchDepthTermSelf(n node, curElem TreeNode, cont func([]Result) error) error {
	switch t := n.(type) {
	case *starNode:
		return m.matchRepeatDepthSelf(curElem, t.child, 0, -1, cont)
	case *plusNode:
		return m.matchRepeatDepthSelf(curElem, t.child, 1, -1, cont)
	case *optionalNode:
		return m.matchRepeatDepthSelf(curElem, t.child, 0, 1, cont)
	default:
		return m.matchPositional(n, curElem, cont)
	}
}

// matchDepthTermEdge matches n at a candidate reached from curElem via e,
// invoking cont with the candidate that ended up matching and the values
// contributed.
func (m *matcher) matchDepthTermEdge(n node, e edge, curElem TreeNode, cont func(TreeNode, []Result) error) error {
	switch t := n.(type) {
	case *starNode:
		return m.matchRepeatDepthEdge(curElem, e, t.child, 0, -1, cont)
	case *plusNode:
		return m.matchRepeatDepthEdge(curElem, e, t.child, 1, -1, cont)
	case *optionalNode:
		return m.matchRepeatDepthEdge(curElem, e, t.child, 0, 1, cont)
	default:
		for _, c := range candidatesForDepthEdge(e, curElem) {
			if err := m.matchPositional(n, c, func(values []Result) error {
				return cont(c, values)
			}); err != nil {
				return err
			}
		}
		return nil
	}
}

// matchRepeatDepthSelf repeats body zero-or-more/one-or-more/zero-or-one
// times (min/max) where the first occurrence is tested at curElem itself
// (no edge) and every subsequent occurrence moves via edgeDirect, since
// body itself defines no edge of its own when quantified directly (as
// opposed to being spelled out via an explicit "( … >)" group).
func (m *matcher) matchRepeatDepthSelf(curElem TreeNode, body node, min, max int, cont func([]Result) error) error {
	bodyHasShape, err := bodyContributesShape(body)
	if err != nil {
		return err
	}
	return m.repeatDepth(curElem, edgeDirect, true, body, bodyHasShape, min, max, 0, nil, func(_ TreeNode, values []Result) error {
		return cont(values)
	})
}

func (m *matcher) matchRepeatDepthEdge(curElem TreeNode, e edge, body node, min, max int, cont func(TreeNode, []Result) error) error {
	bodyHasShape, err := bodyContributesShape(body)
	if err != nil {
		return err
	}
	return m.repeatDepth(curElem, e, false, body, bodyHasShape, min, max, 0, nil, cont)
}

// repeatDepth implements Star/Plus/Optional's greedy, backtracking
// repetition: it first tries one more occurrence (deeper first), then,
// once the minimum has been met, tries stopping at the current position.
// Both are always attempted, so every valid repetition count is enumerated,
// not just the greediest one.
func (m *matcher) repeatDepth(curElem TreeNode, e edge, selfFirst bool, body node, bodyHasShape bool, min, max, reps int, listVals []Result, cont func(TreeNode, []Result) error) error {
	if max < 0 || reps < max {
		if selfFirst && reps == 0 {
			if err := m.matchPositional(body, curElem, func(values []Result) error {
				occurrence := wrapAsValue(values)
				nextList := listVals
				if bodyHasShape && len(occurrence) == 1 {
					nextList = appendCopy(listVals, occurrence[0])
				}
				return m.repeatDepth(curElem, e, false, body, bodyHasShape, decr(min), decrMax(max), reps+1, nextList, cont)
			}); err != nil {
				return err
			}
		} else {
			for _, c := range candidatesForDepthEdge(e, curElem) {
				if err := m.matchPositional(body, c, func(values []Result) error {
					occurrence := wrapAsValue(values)
					nextList := listVals
					if bodyHasShape && len(occurrence) == 1 {
						nextList = appendCopy(listVals, occurrence[0])
					}
					return m.repeatDepth(c, e, false, body, bodyHasShape, decr(min), decrMax(max), reps+1, nextList, cont)
				}); err != nil {
					return err
				}
			}
		}
	}

	if reps >= min {
		values := finalizeRepeat(bodyHasShape, max, listVals, reps)
		if err := cont(curElem, values); err != nil {
			return err
		}
	}
	return nil
}

// finalizeRepeat wraps the accumulated occurrences for the enclosing shape
// context: Optional yields KindOptional; Star/Plus yield KindList. max is
// the remaining maximum as threaded through the repeaters (decremented per
// occurrence), so it is non-negative only for Optional (1 before an
// occurrence, 0 after); Star/Plus carry -1. A body with no shape at all
// contributes nothing, regardless of how many times it matched.
func finalizeRepeat(bodyHasShape bool, max int, listVals []Result, reps int) []Result {
	if !bodyHasShape {
		return nil
	}
	if max >= 0 {
		if reps == 0 {
			return []Result{{Kind: KindOptional, Present: false}}
		}
		inner := listVals[0]
		return []Result{{Kind: KindOptional, Present: true, Inner: &inner}}
	}
	items := make([]Result, len(listVals))
	copy(items, listVals)
	return []Result{{Kind: KindList, Items: items}}
}

func decr(n int) int {
	if n <= 0 {
		return 0
	}
	return n - 1
}

func decrMax(n int) int {
	if n < 0 {
		return -1
	}
	return n - 1
}

// bodyContributesShape reports whether a Star/Plus/Optional's body yields a
// value at all: a body made only of predicates and Boundary
// contributes nothing, and the whole repetition is then transparent.
func bodyContributesShape(body node) (bool, error) {
	s, err := shapeOf(body)
	if err != nil {
		return false, err
	}
	return s != nil, nil
}

// --- breadth axis ---

func candidatesForBreadthEdge(e edge, siblings []TreeNode, curIdx int) []int {
	if e == edgeAdjacent {
		if curIdx+1 < len(siblings) {
			return []int{curIdx + 1}
		}
		return nil
	}
	var out []int
	for i := curIdx + 1; i < len(siblings); i++ {
		out = append(out, i)
	}
	return out
}

// matchBreadthSeq steps through a breadth-axis sequence over siblings.
// curIdx is the index most recently matched, or -1 before anything has
// matched. Unlike the depth axis, the first term is not anchored to a
// fixed position: every starting index is tried, unless the first term is
// "$", which anchors the rest of the sequence to start at index 0.
func (m *matcher) matchBreadthSeq(children []seqChild, idx int, siblings []TreeNode, curIdx int, acc []Result, cont func([]Result) error) error {
	if idx >= len(children) {
		return cont(acc)
	}
	child := children[idx]

	if idx == 0 {
		if _, ok := child.n.(*boundaryNode); ok {
			return m.matchBreadthSeqAnchored(children, 1, siblings, acc, cont)
		}
		for i := range siblings {
			if err := m.matchBreadthTerm(child.n, siblings, i, func(newIdx int, values []Result) error {
				return m.matchBreadthSeq(children, idx+1, siblings, newIdx, appendCopy(acc, values...), cont)
			}); err != nil {
				return err
			}
		}
		return nil
	}

	if _, ok := child.n.(*boundaryNode); ok {
		if idx == len(children)-1 {
			if curIdx == len(siblings)-1 {
				return cont(acc)
			}
			return nil
		}
		return m.matchBreadthSeq(children, idx+1, siblings, curIdx, acc, cont)
	}

	for _, ci := range candidatesForBreadthEdge(child.e, siblings, curIdx) {
		if err := m.matchBreadthTerm(child.n, siblings, ci, func(newIdx int, values []Result) error {
			return m.matchBreadthSeq(children, idx+1, siblings, newIdx, appendCopy(acc, values...), cont)
		}); err != nil {
			return err
		}
	}
	return nil
}

// matchBreadthSeqAnchored matches the sequence from idx onward (idx is
// always 1 at the call site) requiring its first real term to land at
// sibling index 0, per a leading "$".
func (m *matcher) matchBreadthSeqAnchored(children []seqChild, idx int, siblings []TreeNode, acc []Result, cont func([]Result) error) error {
	if idx >= len(children) {
		return cont(acc)
	}
	child := children[idx]
	if _, ok := child.n.(*boundaryNode); ok {
		if len(siblings) != 0 {
			return nil
		}
		return m.matchBreadthSeq(children, idx+1, siblings, -1, acc, cont)
	}
	if len(siblings) == 0 {
		return nil
	}
	return m.matchBreadthTerm(child.n, siblings, 0, func(newIdx int, values []Result) error {
		return m.matchBreadthSeq(children, idx+1, siblings, newIdx, appendCopy(acc, values...), cont)
	})
}

func (m *matcher) matchBreadthTerm(n node, siblings []TreeNode, idx int, cont func(int, []Result) error) error {
	if idx < 0 || idx >= len(siblings) {
		return nil
	}
	switch t := n.(type) {
	case *starNode:
		return m.matchRepeatBreadth(siblings, idx, t.child, 0, -1, cont)
	case *plusNode:
		return m.matchRepeatBreadth(siblings, idx, t.child, 1, -1, cont)
	case *optionalNode:
		return m.matchRepeatBreadth(siblings, idx, t.child, 0, 1, cont)
	default:
		return m.matchPositional(n, siblings[idx], func(values []Result) error {
			return cont(idx, values)
		})
	}
}

// matchRepeatBreadth repeats body starting at sibling index idx, advancing
// one sibling (edgeAdjacent) per occurrence.
func (m *matcher) matchRepeatBreadth(siblings []TreeNode, idx int, body node, min, max int, cont func(int, []Result) error) error {
	bodyHasShape, err := bodyContributesShape(body)
	if err != nil {
		return err
	}
	return m.repeatBreadth(siblings, idx, body, bodyHasShape, min, max, 0, nil, cont)
}

func (m *matcher) repeatBreadth(siblings []TreeNode, idx int, body node, bodyHasShape bool, min, max, reps int, listVals []Result, cont func(int, []Result) error) error {
	if (max < 0 || reps < max) && idx >= 0 && idx < len(siblings) {
		if err := m.matchPositional(body, siblings[idx], func(values []Result) error {
			occurrence := wrapAsValue(values)
			nextList := listVals
			if bodyHasShape && len(occurrence) == 1 {
				nextList = appendCopy(listVals, occurrence[0])
			}
			return m.repeatBreadth(siblings, idx+1, body, bodyHasShape, decr(min), decrMax(max), reps+1, nextList, cont)
		}); err != nil {
			return err
		}
	}

	if reps >= min {
		lastIdx := idx - 1
		values := finalizeRepeat(bodyHasShape, max, listVals, reps)
		if err := cont(lastIdx, values); err != nil {
			return err
		}
	}
	return nil
}
