/*
 * Copyright 2020 Go YAML Path Authors
 *
 * SPDX-License-Identifier: Apache-2.0
 */

// Command tqlweb serves a small form for trying a TQL query against a pasted
// HTML document.
package main

import (
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strings"

	"github.com/glyn/tql/internal/htmltree"
	"github.com/glyn/tql/pkg/tql"
)

func main() {
	tmpl := template.New("template")
	tmpl, err := tmpl.Parse(`<style type="text/css">
.tg  {border-collapse:collapse;border-spacing:0;}
.tg td{border-color:black;border-style:solid;border-width:1px;font-family:Arial, sans-serif;font-size:14px;
  overflow:hidden;padding:10px 5px;word-break:normal;}
.tg th{border-color:black;border-style:solid;border-width:1px;font-family:Arial, sans-serif;font-size:14px;
  font-weight:normal;overflow:hidden;padding:10px 5px;word-break:normal;}
.tg .tg-zv4m{border-color:#ffffff;text-align:left;vertical-align:top}
textarea, pre, input {font-family:Consolas,monospace; font-size:14px}
h1, body, label {font-family: Lato,proxima-nova,Helvetica Neue,Arial,sans-serif}
textarea, input {
	box-sizing: border-box;
	border: 1px solid;
	background-color: #f8f8f8;
	resize: none;
  }
</style>
<h1>tql evaluator</h1>
<table class="tg">
<thead>
  <tr valign="top">
	<th class="tg-zv4m">
<form method="POST">
<label>HTML document</label>:<br />
<pre>
<textarea name="HTML document" cols="80" rows="30" placeholder="HTML...">{{ .HTML }}</textarea>
</pre><br /><br />
<label>TQL query</label>:<br />
<pre>
<input type="text" size="80" name="TQL query" placeholder="TQL query..." value="{{ .Query }}"><br />
<input type="submit" value="Evaluate">
</pre>
</form>

	</th>
	<th class="tg-zv4m">
	   &nbsp;&nbsp;&nbsp;&nbsp;&nbsp;
	   &nbsp;&nbsp;&nbsp;&nbsp;&nbsp;
	</th>
	<th class="tg-zv4m">
	<label>Output:</label><br /><br />
{{if .QueryError}}
    <br />Invalid TQL query: {{ .QueryError }}<br />
{{end}}
{{if .MatchError}}
	<br />{{ .MatchError }}<br />
{{end}}
<pre>
{{ .Output }}<br />
</pre>
	</th>
  </tr>
</thead>
</table>
`)
	if err != nil {
		log.Fatal(err)
	}

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		type output struct {
			HTML       string
			Query      string
			QueryError error
			MatchError error
			Output     string
		}

		if r.Method != http.MethodPost {
			if e := tmpl.Execute(w, nil); e != nil {
				respondWithError(w, e)
			}
			return
		}

		h := r.FormValue("HTML document")
		q := r.FormValue("TQL query")
		op := output{HTML: h, Query: q}

		p, err := tql.Compile(q)
		if err != nil {
			op.QueryError = err
			if e := tmpl.Execute(w, op); e != nil {
				respondWithError(w, e)
			}
			return
		}

		doc, err := htmltree.Parse(h)
		if err != nil {
			op.MatchError = err
			if e := tmpl.Execute(w, op); e != nil {
				respondWithError(w, e)
			}
			return
		}

		results, err := p.Match(doc, nil)
		if err != nil {
			op.MatchError = err
			if e := tmpl.Execute(w, op); e != nil {
				respondWithError(w, e)
			}
			return
		}

		lines := make([]string, len(results))
		for i, res := range results {
			lines[i] = formatResult(res)
		}
		op.Output = strings.Join(lines, "\n")
		if e := tmpl.Execute(w, op); e != nil {
			respondWithError(w, e)
		}
	})

	if e := http.ListenAndServe(":8080", nil); e != nil {
		log.Fatal(e)
	}
}

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

func respondWithError(w http.ResponseWriter, err error) {
	log.Println(err)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
