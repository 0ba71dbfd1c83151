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

package node

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMalformed occurs when an input document can't be read as a tree.
var ErrMalformed = errors.New("malformed document")

// checkEvery is how many tokens a loader reads between context
// checks.
const checkEvery = 64

// LoadXML reads one XML document and returns its root element.
//
// The decoder is strict and knows no entities beyond the five
// predefined ones.  The context is consulted while reading so that a
// deadline can interrupt a large document.
func LoadXML(ctx context.Context, r io.Reader) (*Node, error) {
	d := xml.NewDecoder(r)
	d.Strict = true

	var (
		root  *Node
		stack []*Node
		texts []*strings.Builder
		n     int
	)

	for {
		if n++; n%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		line, _ := d.InputPos()
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if root != nil && len(stack) == 0 {
				return nil, fmt.Errorf("%w: second root element <%s> at line %d",
					ErrMalformed, t.Name.Local, line)
			}
			e := &Node{
				Name: t.Name.Local,
				Line: line,
			}
			for _, a := range t.Attr {
				e.Attrs = append(e.Attrs, Attr{
					Name:  a.Name.Local,
					Value: a.Value,
				})
			}
			if 0 < len(stack) {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, e)
			} else {
				root = e
			}
			stack = append(stack, e)
			texts = append(texts, &strings.Builder{})

		case xml.EndElement:
			top := len(stack) - 1
			stack[top].Text = texts[top].String()
			if 0 < top {
				// Text of a child is also text of its parent.
				texts[top-1].WriteString(stack[top].Text)
			}
			stack = stack[:top]
			texts = texts[:top]

		case xml.CharData:
			if 0 < len(texts) {
				texts[len(texts)-1].Write(t)
			} else if strings.TrimSpace(string(t)) != "" {
				return nil, fmt.Errorf("%w: text outside the root element", ErrMalformed)
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("%w: no root element", ErrMalformed)
	}
	return root, nil
}
