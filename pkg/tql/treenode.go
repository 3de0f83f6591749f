/*
 * Copyright 2020 Go YAML Path Authors
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package tql

// TreeNode is the external interface a host application implements over
// its own tree representation (HTML, a DOM, a parsed template, …) so that
// Pattern.Match can walk and query it without depending on any concrete
// tree type. internal/htmltree provides a concrete implementation
// over golang.org/x/net/html.
type TreeNode interface {
	// TagName returns the element's tag name, or "" if the node is not an
	// element (e.g. a text node).
	TagName() string

	// ID returns the element's "id" attribute value, or "" if absent.
	ID() string

	// Classes returns the element's space-separated "class" attribute,
	// already split into individual class names.
	Classes() []string

	// Attr returns the named attribute's value and whether it is present
	// at all (an attribute present with an empty value reports ("", true)).
	Attr(name string) (string, bool)

	// Text returns the node's own text content, concatenating descendant
	// text nodes in document order.
	Text() string

	// Children returns the node's direct element children, in document
	// order. Non-element children (text, comments, …) are not included.
	Children() []TreeNode

	// Parent returns the node's parent, or nil at the document root.
	Parent() TreeNode
}
