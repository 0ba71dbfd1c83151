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

// dot -Tpng g.dot > g.png

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/Comcast/povgen/core"
)

var fills = map[string]string{
	"write":     "#99ddc8",
	"read":      "#2d93ad",
	"decl":      "#52aa5e",
	"delay":     "#dddddd",
	"negotiate": "#f9d78b",
	"submit":    "#f98b8b",
}

// Dot makes a Graphviz dot file for the given PoV.
//
// Actions are chained in order.  Dashed edges go from the action
// that sets a variable to each later action that uses it.
func Dot(pov *core.PoV, w io.Writer) error {
	if pov == nil {
		return fmt.Errorf("no pov to draw")
	}

	bw := bufio.NewWriter(w)
	f := func(format string, args ...interface{}) {
		fmt.Fprintf(bw, format, args...)
	}

	f("digraph G {\n")
	f(`  graph [ordering=out,rankdir=TB,nodesep=0.3,ranksep=0.4]
  node [shape="record" style="rounded,filled"]
  edge [fontsize = "10"]
`)

	setBy := make(map[string]int)
	for i, a := range pov.Actions {
		shape := "record"
		style := "rounded,filled"
		switch a := a.(type) {
		case *core.Negotiate:
			shape = "note"
			style = "filled"
		case *core.Submit:
			if a.Synthesized {
				style += ",dashed"
			}
		}
		label := escape(Describe(a))
		if shape == "record" {
			label = escbraces(label)
		}
		f("  a%d [shape=\"%s\", style=\"%s\", fillcolor=\"%s\", label=\"%s\" ]\n",
			i, shape, style, fills[a.Kind()], label)
		if 0 < i {
			f("  a%d -> a%d\n", i-1, i)
		}

		for _, v := range uses(a) {
			from, have := setBy[v]
			if !have {
				continue
			}
			f("  a%d -> a%d [ style=\"dashed\" color=\"gray\" constraint=false label=\"%s\" ]\n",
				from, i, escape(v))
		}
		if v, have := defines(a); have {
			setBy[v] = i
		}
	}

	f("}\n")
	return bw.Flush()
}

// PNG generates a PNG image based on output from Dot.
//
// This function with write two files: basename.dot and basename.png,
// where the basename is the given string.  The Graphviz dot program
// has to be on the PATH.
func PNG(pov *core.PoV, basename string) (string, error) {
	dotname := basename + ".dot"
	pngname := basename + ".png"

	dotfile, err := os.Create(dotname)
	if err != nil {
		return pngname, err
	}
	err = Dot(pov, dotfile)
	if cerr := dotfile.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return pngname, err
	}
	cmd := exec.Command("dot", "-Tpng", "-o", pngname, dotname)
	if out, err := cmd.CombinedOutput(); err != nil {
		return pngname, fmt.Errorf("dot: %v: %s", err, strings.TrimSpace(string(out)))
	}
	return pngname, nil
}

func escape(s string) string {
	s = strings.Replace(s, `\`, `\\`, -1)
	return strings.Replace(s, `"`, `\"`, -1)
}

func escbraces(s string) string {
	for _, c := range []string{"{", "}", "|", "<", ">"} {
		s = strings.Replace(s, c, `\`+c, -1)
	}
	return s
}
