/*
 * Copyright 2020 Go YAML Path Authors
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package tql

// FilterFuncs is a fluent builder for the filters map accepted by
// Pattern.Match, letting a caller assemble its "$name" bindings without
// hand-writing a map literal.
type FilterFuncs map[string]func(TreeNode) bool

// NewFilterFuncs returns an empty FilterFuncs builder.
func NewFilterFuncs() FilterFuncs {
	return FilterFuncs{}
}

// Add binds name to fn and returns the receiver, so calls can be chained.
func (f FilterFuncs) Add(name string, fn func(TreeNode) bool) FilterFuncs {
	f[name] = fn
	return f
}
