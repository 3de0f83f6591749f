/*
 * Copyright 2020 Go YAML Path Authors
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package htmltree_test

import (
	"testing"

	"github.com/glyn/tql/internal/htmltree"
	"github.com/stretchr/testify/require"
)

func TestParseAndAttributes(t *testing.T) {
	doc, err := htmltree.Parse(`<div id="a" class="x y" data-k="v">hello <b>world</b></div>`)
	require.NoError(t, err)

	var div htmltree.Node
	var found bool
	var walk func(n htmltree.Node)
	walk = func(n htmltree.Node) {
		if n.TagName() == "div" {
			div = n
			found = true
			return
		}
		for _, c := range n.Children() {
			if found {
				return
			}
			walk(c.(htmltree.Node))
		}
	}
	walk(doc)
	require.True(t, found)

	require.Equal(t, "a", div.ID())
	require.Equal(t, []string{"x", "y"}, div.Classes())
	v, ok := div.Attr("data-k")
	require.True(t, ok)
	require.Equal(t, "v", v)
	_, ok = div.Attr("missing")
	require.False(t, ok)
	require.Equal(t, "hello world", div.Text())
}

func TestChildrenExcludesTextNodes(t *testing.T) {
	doc, err := htmltree.Parse(`<p>some text<span>x</span>more text</p>`)
	require.NoError(t, err)

	var p htmltree.Node
	var walk func(n htmltree.Node)
	walk = func(n htmltree.Node) {
		if n.TagName() == "p" {
			p = n
			return
		}
		for _, c := range n.Children() {
			walk(c.(htmltree.Node))
		}
	}
	walk(doc)

	children := p.Children()
	require.Len(t, children, 1)
	require.Equal(t, "span", children[0].TagName())
}

func TestParentSkipsNonElementAncestors(t *testing.T) {
	doc, err := htmltree.Parse(`<div><span>x</span></div>`)
	require.NoError(t, err)

	var span htmltree.Node
	var walk func(n htmltree.Node)
	walk = func(n htmltree.Node) {
		if n.TagName() == "span" {
			span = n
			return
		}
		for _, c := range n.Children() {
			walk(c.(htmltree.Node))
		}
	}
	walk(doc)

	parent := span.Parent()
	require.NotNil(t, parent)
	require.Equal(t, "div", parent.TagName())
}
