/*
 * Copyright 2020 Go YAML Path Authors
 *
 * SPDX-License-Identifier: Apache-2.0
 */

// Command tql compiles a TQL query and runs it against an HTML document,
// printing each match's extracted values one per line, tab-separated.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/glyn/tql/internal/htmltree"
	"github.com/glyn/tql/pkg/tql"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s <query> <file.html>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}

	query, file := flag.Arg(0), flag.Arg(1)

	p, err := tql.Compile(query)
	if err != nil {
		log.Fatalf("cannot compile query: %v", err)
	}

	src, err := os.ReadFile(file)
	if err != nil {
		log.Fatalf("cannot read %s: %v", file, err)
	}

	doc, err := htmltree.Parse(string(src))
	if err != nil {
		log.Fatalf("cannot parse %s: %v", file, err)
	}

	results, err := p.Match(doc, nil)
	if err != nil {
		log.Fatalf("match failed: %v", err)
	}

	for _, r := range results {
		fmt.Println(formatResult(r))
	}
}

// formatResult renders one top-level match as a tab-separated line, one
// field per extracted value. Nested lists/tuples/optionals are flattened
// with a compact textual form, since a terminal has no room for a tree.
func formatResult(r tql.Result) string {
	fields := make([]string, len(r.Items))
	for i, item := range r.Items {
		fields[i] = formatValue(item)
	}
	return strings.Join(fields, "\t")
}

func formatValue(r tql.Result) string {
	switch r.Kind {
	case tql.KindText:
		return r.Text
	case tql.KindNode:
		return fmt.Sprintf("<%s>", r.Node.TagName())
	case tql.KindOptional:
		if !r.Present {
			return ""
		}
		return formatValue(*r.Inner)
	case tql.KindList:
		parts := make([]string, len(r.Items))
		for i, item := range r.Items {
			parts[i] = formatValue(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case tql.KindTuple:
		parts := make([]string, len(r.Items))
		for i, item := range r.Items {
			parts[i] = formatValue(item)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}
	return ""
}
