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
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/Comcast/povgen/core"
)

type MermaidOpts struct {
	// ShowDetails labels each action with its summary rather
	// than just its kind.
	ShowDetails bool `json:"showDetails"`

	// ShowFlow adds dotted edges from the action that sets a
	// variable to the actions that use it.
	ShowFlow bool `json:"showFlow"`

	// ActionFill is the fill color for read and write actions.
	// Does not apply if ActionClass is set.
	ActionFill string `json:"actionFill,omitempty"`

	// ActionClass will be the CSS class for read and write
	// actions.
	ActionClass string `json:"actionClass,omitempty"`
}

// Mermaid makes a Mermaid (https://mermaidjs.github.io/) input file
// for the given PoV.
func Mermaid(pov *core.PoV, w io.Writer, opts *MermaidOpts) error {
	if pov == nil {
		return fmt.Errorf("no pov to draw")
	}

	if opts == nil {
		opts = &MermaidOpts{
			ShowDetails: true,
			ShowFlow:    true,
			ActionFill:  "#bcf2db",
		}
	}

	bw := bufio.NewWriter(w)
	f := func(format string, args ...interface{}) {
		fmt.Fprintf(bw, format, args...)
	}

	f("graph TB\n")

	setBy := make(map[string]string)
	for i, a := range pov.Actions {
		nid := fmt.Sprintf("n%d", i)

		label := a.Kind()
		if opts.ShowDetails {
			label = Describe(a)
		}
		label = strings.Replace(label, `"`, `#quot;`, -1)

		switch a.(type) {
		case *core.Negotiate, *core.Submit:
			f("  %s([\"%s\"])\n", nid, label)
		case *core.Delay:
			f("  %s{{\"%s\"}}\n", nid, label)
		default:
			f("  %s[\"%s\"]\n", nid, label)
			if opts.ActionClass != "" {
				f("  class %s %s\n", nid, opts.ActionClass)
			} else if opts.ActionFill != "" {
				f("  style %s fill:%s\n", nid, opts.ActionFill)
			}
		}

		if 0 < i {
			f("  n%d --> %s\n", i-1, nid)
		}

		if opts.ShowFlow {
			for _, v := range uses(a) {
				if from, have := setBy[v]; have {
					f("  %s -. %s .-> %s\n", from, v, nid)
				}
			}
		}
		if v, have := defines(a); have {
			setBy[v] = nid
		}
	}

	f("\n")
	return bw.Flush()
}
