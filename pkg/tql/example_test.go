/*
 * Copyright 2020 Go YAML Path Authors
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package tql_test

import (
	"fmt"
	"log"

	"github.com/glyn/tql/internal/htmltree"
	"github.com/glyn/tql/pkg/tql"
)

func Example() {
	doc, err := htmltree.Parse(`
<ul class="links">
  <li><a href="/a">first</a></li>
  <li><a href="/b">second</a></li>
  <li class="hidden"><a href="/c">third</a></li>
</ul>
`)
	if err != nil {
		log.Fatalf("cannot parse document: %v", err)
	}

	p, err := tql.Compile(`li!.hidden > a[.href, txt]`)
	if err != nil {
		log.Fatalf("cannot compile query: %v", err)
	}

	results, err := p.Match(doc, nil)
	if err != nil {
		log.Fatalf("match failed: %v", err)
	}

	for _, r := range results {
		fmt.Printf("%s -> %s\n", r.Items[0].Text, r.Items[1].Text)
	}

	// Output:
	// /a -> first
	// /b -> second
}
