/*
 * Copyright 2020 Go YAML Path Authors
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package tql

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTopLevelShape(t *testing.T) {
	cases := []struct {
		name     string
		query    string
		expected ShapeDescription
		focus    bool // if true, run only tests with focus set to true
	}{
		{
			name:     "no extractors at all is an empty tuple",
			query:    `div > a`,
			expected: ShapeDescription{Kind: KindTuple},
		},
		{
			name:  "a single extractor is still a top-level tuple of arity 1",
			query: `div[txt]`,
			expected: ShapeDescription{Kind: KindTuple, Children: []ShapeDescription{
				{Kind: KindText},
			}},
		},
		{
			name:  "multiple extractors across a sequence",
			query: `div[txt] > a[node]`,
			expected: ShapeDescription{Kind: KindTuple, Children: []ShapeDescription{
				{Kind: KindText}, {Kind: KindNode},
			}},
		},
		{
			name:  "a group with exactly one extractor simplifies to a bare scalar inside a list",
			query: `(a[txt])*`,
			expected: ShapeDescription{Kind: KindTuple, Children: []ShapeDescription{
				{Kind: KindList, Inner: &ShapeDescription{Kind: KindText}},
			}},
		},
		{
			name:  "a group with two extractors is a tuple inside a list",
			query: `(a[txt] > b[txt])*`,
			expected: ShapeDescription{Kind: KindTuple, Children: []ShapeDescription{
				{Kind: KindList, Inner: &ShapeDescription{
					Kind: KindTuple,
					Children: []ShapeDescription{{Kind: KindText}, {Kind: KindText}},
				}},
			}},
		},
		{
			name:  "optional wraps in KindOptional",
			query: `a[txt]?`,
			expected: ShapeDescription{Kind: KindTuple, Children: []ShapeDescription{
				{Kind: KindOptional, Inner: &ShapeDescription{Kind: KindText}},
			}},
		},
		{
			name:  "a predicate-only body contributes nothing even when repeated",
			query: `a*`,
			expected: ShapeDescription{Kind: KindTuple},
		},
		{
			name:  "extractor suffix on a parenthesized alternation",
			query: `(a | b)[txt]`,
			expected: ShapeDescription{Kind: KindTuple, Children: []ShapeDescription{
				{Kind: KindText},
			}},
		},
	}

	focussed := false
	for _, tc := range cases {
		if tc.focus {
			focussed = true
			break
		}
	}

	for _, tc := range cases {
		if focussed && !tc.focus {
			continue
		}
		t.Run(tc.name, func(t *testing.T) {
			p, err := parsePattern(tc.query)
			require.NoError(t, err)
			s, err := topLevelShape(p.root)
			require.NoError(t, err)
			require.Equal(t, tc.expected, describeShape(s))
		})
	}

	if focussed {
		t.Fatalf("testcase(s) still focussed")
	}
}

func TestAltShapeMismatchIsAShapeError(t *testing.T) {
	p, err := parsePattern(`(a[txt] | b)`)
	require.NoError(t, err)
	_, err = topLevelShape(p.root)
	require.Error(t, err)
	var shapeErr *ShapeError
	require.ErrorAs(t, err, &shapeErr)
}

func TestShapeEqual(t *testing.T) {
	scalar := &shapeNode{kind: shapeScalarKind, extract: extractText}
	scalar2 := &shapeNode{kind: shapeScalarKind, extract: extractNode}
	list := &shapeNode{kind: shapeListKind, inner: scalar}

	require.True(t, shapeEqual(nil, nil))
	require.False(t, shapeEqual(nil, scalar))
	require.True(t, shapeEqual(scalar, scalar2)) // scalar-ness, not extract kind, is what shapeEqual compares
	require.False(t, shapeEqual(scalar, list))
	require.True(t, shapeEqual(list, &shapeNode{kind: shapeListKind, inner: scalar2}))
}
