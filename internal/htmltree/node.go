/*
 * Copyright 2020 Go YAML Path Authors
 *
 * SPDX-License-Identifier: Apache-2.0
 */

// Package htmltree adapts golang.org/x/net/html's parse tree to the
// tql.TreeNode contract, so an HTML document can be queried directly with
// a compiled tql.Pattern.
package htmltree

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/glyn/tql/pkg/tql"
)

// Node wraps an *html.Node as a tql.TreeNode. The zero value is not usable;
// construct one with Parse or New.
type Node struct {
	n *html.Node
}

var _ tql.TreeNode = Node{}

// Parse parses an HTML document from src and returns its root as a Node.
// Parse mirrors html.Parse's own lenient, browser-compatible error
// recovery: it only fails on a read error from src, never on malformed
// markup.
func Parse(src string) (Node, error) {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return Node{}, err
	}
	return New(doc), nil
}

// New wraps an already-parsed *html.Node.
func New(n *html.Node) Node {
	return Node{n: n}
}

// Raw returns the underlying *html.Node, for callers that need it.
func (d Node) Raw() *html.Node {
	return d.n
}

func (d Node) TagName() string {
	if d.n.Type != html.ElementNode {
		return ""
	}
	return d.n.Data
}

func (d Node) ID() string {
	v, _ := d.Attr("id")
	return v
}

func (d Node) Classes() []string {
	v, ok := d.Attr("class")
	if !ok || v == "" {
		return nil
	}
	return strings.Fields(v)
}

func (d Node) Attr(name string) (string, bool) {
	for _, a := range d.n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (d Node) Text() string {
	var b strings.Builder
	nodeText(d.n, &b)
	return b.String()
}

// nodeText appends the concatenated text of n's subtree to b, visiting
// text nodes depth-first in document order.
func nodeText(n *html.Node, b *strings.Builder) {
	if n == nil {
		return
	}
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
	case html.ElementNode, html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			nodeText(c, b)
		}
	}
}

func (d Node) Children() []tql.TreeNode {
	var out []tql.TreeNode
	for c := d.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		out = append(out, Node{n: c})
	}
	return out
}

func (d Node) Parent() tql.TreeNode {
	p := d.n.Parent
	for p != nil && p.Type != html.ElementNode && p.Type != html.DocumentNode {
		p = p.Parent
	}
	if p == nil {
		return nil
	}
	return Node{n: p}
}
