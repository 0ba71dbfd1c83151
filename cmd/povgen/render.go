/* Copyright 2019 Comcast Cable Communications Management, LLC
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

package main

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/Comcast/povgen/core"
	"github.com/Comcast/povgen/tools"

	"github.com/spf13/cobra"
)

// renderer writes some rendering of a PoV.
type renderer func(pov *core.PoV, w io.Writer) error

// render builds the PoV and writes what r makes of it.
func (app *App) render(ctx context.Context, r renderer) error {
	pov, err := app.load(ctx)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := r(pov, &buf); err != nil {
		return exitf(ReasonFailure, err, "failed to render")
	}
	return app.emit(buf.Bytes())
}

func (app *App) renderCommand(use, short string, r func() renderer) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.render(cmd.Context(), r())
		},
	}
}

func (app *App) renderCommands() []*cobra.Command {
	var png string
	dot := app.renderCommand("dot", "Write a Graphviz rendering of the actions",
		func() renderer {
			if png == "" {
				return tools.Dot
			}
			return func(pov *core.PoV, w io.Writer) error {
				name, err := tools.PNG(pov, png)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(w, name)
				return err
			}
		})
	dot.Flags().StringVar(&png, "png", "", "write basename.dot and basename.png (needs Graphviz) and report the image's name")

	var mopts tools.MermaidOpts
	var terse bool
	mermaid := app.renderCommand("mermaid", "Write a Mermaid rendering of the actions",
		func() renderer {
			mopts.ShowDetails = !terse
			return func(pov *core.PoV, w io.Writer) error {
				return tools.Mermaid(pov, w, &mopts)
			}
		})
	mermaid.Flags().BoolVar(&terse, "terse", false, "label actions with their kind only")
	mermaid.Flags().BoolVar(&mopts.ShowFlow, "flow", true, "show where variables flow")
	mermaid.Flags().StringVar(&mopts.ActionFill, "fill", "#bcf2db", "fill color for reads and writes")
	mermaid.Flags().StringVar(&mopts.ActionClass, "class", "", "CSS class for reads and writes")

	var (
		css   []string
		graph bool
		title string
	)
	html := app.renderCommand("html", "Write an HTML report",
		func() renderer {
			return func(pov *core.PoV, w io.Writer) error {
				return tools.RenderPoVPage(pov, title, w, css, graph)
			}
		})
	html.Flags().StringSliceVar(&css, "css", nil, "stylesheets to link")
	html.Flags().BoolVar(&graph, "graph", false, "include a Mermaid graph")
	html.Flags().StringVar(&title, "title", "", "page title (default the service name)")

	analyze := app.renderCommand("analyze", "Write an analysis of the specification as YAML",
		func() renderer {
			return func(pov *core.PoV, w io.Writer) error {
				a, err := tools.Analyze(pov)
				if err != nil {
					return err
				}
				bs, err := a.YAML()
				if err != nil {
					return err
				}
				_, err = w.Write(bs)
				return err
			}
		})

	return []*cobra.Command{dot, mermaid, html, analyze}
}
