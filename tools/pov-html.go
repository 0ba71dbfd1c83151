/* Copyright 2018 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package tools

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/Comcast/povgen/core"
	"github.com/Comcast/povgen/node"
	. "github.com/Comcast/povgen/util/testutil"

	md "github.com/russross/blackfriday/v2"
)

// summary writes the markdown that heads a PoV's HTML rendering.
func summary(pov *core.PoV, a *PoVAnalysis) string {
	var b strings.Builder
	f := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	f("A type %d PoV with %d actions.", pov.Type, len(pov.Actions))
	f("")
	for _, kind := range []string{"negotiate", "write", "read", "decl", "delay", "submit"} {
		if n := a.Counts[kind]; 0 < n {
			f("* %s: %d", kind, n)
		}
	}
	f("")
	if 0 < len(a.Defined) {
		f("Variables: `%s`", strings.Join(a.Defined, "`, `"))
		f("")
	}
	if 0 < len(a.Warnings) {
		f("### Warnings")
		f("")
		for _, w := range a.Warnings {
			f("1. %s", w)
		}
	}
	return b.String()
}

// RenderPoVHTML writes an HTML fragment describing the PoV.
func RenderPoVHTML(pov *core.PoV, out io.Writer) error {
	a, err := Analyze(pov)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	f := func(format string, args ...interface{}) {
		fmt.Fprintf(&buf, format+"\n", args...)
	}

	f(`<div class="povDoc doc">%s</div>`, md.Run([]byte(summary(pov, a))))

	f(`<div class="actions"><table>`)
	for i, x := range pov.Actions {
		f(`<tr class="action %s"><td><span id="a%d" class="actionNum">%d</span></td>`, x.Kind(), i, i)
		f(`<td class="kind">%s</td>`, x.Kind())
		f(`<td class="line">%d</td>`, x.Line())
		f(`<td><code>%s</code></td></tr>`, html.EscapeString(Describe(x)))
	}
	f(`</table></div>`)

	_, err = buf.WriteTo(out)
	return err
}

// RenderPoVPage writes a complete HTML page for the PoV.
//
// With includeGraph, the page also carries a Mermaid rendering of
// the actions and the analysis as JSON in a script variable.
func RenderPoVPage(pov *core.PoV, title string, out io.Writer, cssFiles []string, includeGraph bool) error {

	if cssFiles == nil {
		cssFiles = []string{"/static/pov-html.css"}
	}
	if title == "" {
		title = pov.Service
	}
	if title == "" {
		title = "PoV"
	}
	title = html.EscapeString(title)

	var buf bytes.Buffer

	fmt.Fprintf(&buf, `<!DOCTYPE html>
<meta charset="utf-8">
<html>
  <head>
  <title>%s</title>
`, title)

	if includeGraph {
		a, err := Analyze(pov)
		if err != nil {
			return err
		}
		fmt.Fprintf(&buf, `
  <script src="https://cdn.jsdelivr.net/npm/mermaid/dist/mermaid.min.js"></script>
  <script>
  mermaid.initialize({startOnLoad:true});
  var thisAnalysis = %s;
  </script>
`, JS(a))
	}

	for _, cssFile := range cssFiles {
		fmt.Fprintf(&buf, "  <link href=\"%s\" rel=\"stylesheet\">\n", cssFile)
	}

	fmt.Fprintf(&buf, `
  </head>
  <body>
    <h1>%s</h1>
`, title)

	if includeGraph {
		var g bytes.Buffer
		if err := Mermaid(pov, &g, nil); err != nil {
			return err
		}
		fmt.Fprintf(&buf, "<div class=\"mermaid\">\n%s</div>\n", html.EscapeString(g.String()))
	}

	if err := RenderPoVHTML(pov, &buf); err != nil {
		return err
	}

	fmt.Fprintf(&buf, `
  </body>
</html>
`)

	_, err := buf.WriteTo(out)
	return err
}

// ReadAndRenderPoVPage loads, builds and renders the given file.
func ReadAndRenderPoVPage(ctx context.Context, filename string, cssFiles []string, out io.Writer, includeGraph bool) error {
	root, err := node.Load(ctx, filename)
	if err != nil {
		return err
	}
	pov, err := (&core.Builder{}).Build(ctx, root)
	if err != nil {
		return err
	}
	return RenderPoVPage(pov, "", out, cssFiles, includeGraph)
}
