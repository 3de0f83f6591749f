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

func TestParseFilterExpr(t *testing.T) {
	cases := []struct {
		name  string
		src   string
		check func(t *testing.T, e *filterExprNode)
		focus bool // if true, run only tests with focus set to true
	}{
		{
			name: "bare attribute reference",
			src:  `.k`,
			check: func(t *testing.T, e *filterExprNode) {
				require.Equal(t, filterAttrRef, e.kind)
				require.Equal(t, "k", e.attrName)
			},
		},
		{
			name: "bare filter function reference",
			src:  `$named`,
			check: func(t *testing.T, e *filterExprNode) {
				require.Equal(t, filterFnRef, e.kind)
				require.Equal(t, "named", e.fnName)
			},
		},
		{
			name: "equality comparison",
			src:  `.k == 'v'`,
			check: func(t *testing.T, e *filterExprNode) {
				require.Equal(t, filterCompare, e.kind)
				require.Equal(t, cmpEqual, e.op)
				require.Equal(t, "v", e.right.str)
			},
		},
		{
			name: "regex match compiles its operand",
			src:  `.k ~~ '^v.*'`,
			check: func(t *testing.T, e *filterExprNode) {
				require.Equal(t, cmpReMatch, e.op)
				require.NotNil(t, e.re)
				require.True(t, e.re.MatchString("value"))
			},
		},
		{
			name: "not binds tighter than and/or",
			src:  `!.k && .j`,
			check: func(t *testing.T, e *filterExprNode) {
				require.Equal(t, filterAnd, e.kind)
				require.Equal(t, filterNot, e.left.kind)
			},
		},
		{
			name: "or is left-associative",
			src:  `.a == 'x' || .b == 'y' || .c == 'z'`,
			check: func(t *testing.T, e *filterExprNode) {
				require.Equal(t, filterOr, e.kind)
				require.Equal(t, filterOr, e.left.kind)
			},
		},
		{
			name: "parens group a boolean sub-expression",
			src:  `(.a == 'x' || .b == 'y') && .c`,
			check: func(t *testing.T, e *filterExprNode) {
				require.Equal(t, filterAnd, e.kind)
				require.Equal(t, filterOr, e.left.kind)
			},
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
			lx, err := tokenize(tc.src)
			require.NoError(t, err)
			lx = lx[:len(lx)-1] // drop the trailing EOF lexeme parseFilterExpr does not expect
			e, err := parseFilterExpr(lx)
			require.NoError(t, err)
			tc.check(t, e)
		})
	}

	if focussed {
		t.Fatalf("testcase(s) still focussed")
	}
}

func TestParseFilterExprErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{name: "comparison missing its string operand", src: `.k ==`},
		{name: "trailing garbage", src: `.k .j`},
		{name: "invalid regex", src: `.k ~~ '('`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lx, err := tokenize(tc.src)
			require.NoError(t, err)
			lx = lx[:len(lx)-1]
			_, err = parseFilterExpr(lx)
			require.Error(t, err)
		})
	}
}
