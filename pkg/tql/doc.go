/*
 * Copyright 2020 Go YAML Path Authors
 *
 * SPDX-License-Identifier: Apache-2.0
 */

// Package tql implements TQL, a small language for querying HTML-like trees.
// A TQL query combines CSS-selector-style predicates on a node's tag,
// class, id and attributes with regex-style sequencing, alternation and
// repetition over two axes of traversal: depth (child/descendant edges) and
// breadth (adjacent/later-sibling edges), switched with "{ … }".
//
// Compile turns query source into a *Pattern once; Pattern.Match runs it
// against any value implementing TreeNode, enumerating every way the
// pattern can hold and returning the data named by its "txt"/"node"/".attr"
// extractors, shaped into Results according to the pattern's static Shape.
package tql
