/*
 * Copyright 2020 Go YAML Path Authors
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package tql_test

import (
	"fmt"
	"testing"

	"github.com/glyn/tql/pkg/tql"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// flattenText reduces a slice of top-level Tuple Results, each holding only
// KindText scalars, to the plain [][]string shape the end-to-end scenario
// table compares against. It panics on any other Result shape, which is
// exactly what a test author wants to see rather than a silently wrong
// comparison.
func flattenText(results []tql.Result) [][]string {
	out := make([][]string, len(results))
	for i, r := range results {
		if r.Kind != tql.KindTuple {
			panic(fmt.Sprintf("flattenText: top-level result %d is not a Tuple: %+v", i, r))
		}
		row := make([]string, len(r.Items))
		for j, item := range r.Items {
			if item.Kind != tql.KindText {
				panic(fmt.Sprintf("flattenText: item %d of result %d is not KindText: %+v", j, i, item))
			}
			row[j] = item.Text
		}
		out[i] = row
	}
	return out
}

// requireFlattenedEqual compares two flattened result tables and, on
// mismatch, prints a readable diff via diffmatchpatch before failing,
// rather than a bare equality failure.
func requireFlattenedEqual(t *testing.T, expected, actual [][]string) {
	t.Helper()
	want := fmt.Sprintf("%v", expected)
	got := fmt.Sprintf("%v", actual)
	if want == got {
		return
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(want, got, false)
	t.Fatalf("result mismatch:\nwant: %s\ngot:  %s\ndiff: %s", want, got, dmp.DiffPrettyText(diffs))
}
