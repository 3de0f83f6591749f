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

func TestLex(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected []lexemeType
		focus    bool // if true, run only tests with focus set to true
	}{
		{
			name:     "tag name",
			input:    "div",
			expected: []lexemeType{lexemeIdent, lexemeEOF},
		},
		{
			name:     "sigils",
			input:    "@.#$~?*+|(){}[]",
			expected: []lexemeType{
				lexemeAt, lexemeDot, lexemeHash, lexemeDollar, lexemeTilde,
				lexemeQuestion, lexemeStar, lexemePlus, lexemePipe,
				lexemeLParen, lexemeRParen, lexemeLBrace, lexemeRBrace,
				lexemeLBracket, lexemeRBracket, lexemeEOF,
			},
		},
		{
			name:     "two-character operators are greedy",
			input:    ">> :: == != ~~ !~ && ||",
			expected: []lexemeType{
				lexemeGTGT, lexemeColonColon, lexemeEq, lexemeNeq,
				lexemeReMatch, lexemeReNotMatch, lexemeAndAnd, lexemeOrOr,
				lexemeEOF,
			},
		},
		{
			name:     "single-character fallbacks of the same prefix",
			input:    "> : !",
			expected: []lexemeType{lexemeGT, lexemeColon, lexemeBang, lexemeEOF},
		},
		{
			name:     "single- and double-quoted string literals",
			input:    `'a' "b"`,
			expected: []lexemeType{lexemeString, lexemeString, lexemeEOF},
		},
		{
			name:     "identifier allows internal hyphen and digits",
			input:    "data-attr2",
			expected: []lexemeType{lexemeIdent, lexemeEOF},
		},
		{
			name:     "comma",
			input:    "txt,node",
			expected: []lexemeType{lexemeIdent, lexemeComma, lexemeIdent, lexemeEOF},
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
			lx, err := tokenize(tc.input)
			require.NoError(t, err)
			var got []lexemeType
			for _, l := range lx {
				got = append(got, l.typ)
			}
			require.Equal(t, tc.expected, got)
		})
	}

	if focussed {
		t.Fatalf("testcase(s) still focussed")
	}
}

func TestLexErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
		focus bool
	}{
		{name: "unterminated string", input: `'abc`},
		{name: "unknown character", input: `div % a`},
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
			_, err := tokenize(tc.input)
			require.Error(t, err)
			var lexErr *LexError
			require.ErrorAs(t, err, &lexErr)
		})
	}

	if focussed {
		t.Fatalf("testcase(s) still focussed")
	}
}

func TestStringLiteralValue(t *testing.T) {
	lx, err := tokenize(`'hello'`)
	require.NoError(t, err)
	require.Equal(t, "hello", stringLiteralValue(lx[0]))
}
