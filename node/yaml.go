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
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadYAML reads a specification written in YAML.
//
// Each element is a mapping with exactly one key, the element's tag.
// The value of that key is the element's body, which is one of
//
//   - a scalar, which is the element's text;
//   - a sequence of elements, which are the element's children;
//   - a mapping, where keys starting with "@" are attributes, the key
//     "#text" is text, and every other key is a child whose body is
//     the key's value.
//
// Example:
//
//	cfepov:
//	  - replay:
//	      - write:
//	          data: "hello\\n"
//	      - read:
//	          length: 5
//	          match: {data: {"@format": hex, "#text": "68656c6c6f"}}
func LoadYAML(ctx context.Context, r io.Reader) (*Node, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: empty document", ErrMalformed)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	y := &yamlLoader{ctx: ctx}
	top := &doc
	if top.Kind == yaml.DocumentNode {
		if len(top.Content) != 1 {
			return nil, fmt.Errorf("%w: empty document", ErrMalformed)
		}
		top = top.Content[0]
	}
	return y.element(top)
}

type yamlLoader struct {
	ctx context.Context
	n   int
}

func deref(y *yaml.Node) *yaml.Node {
	for y != nil && y.Kind == yaml.AliasNode {
		y = y.Alias
	}
	return y
}

func (l *yamlLoader) check() error {
	if l.n++; l.n%checkEvery == 0 {
		return l.ctx.Err()
	}
	return nil
}

// element reads a single-key mapping.
func (l *yamlLoader) element(y *yaml.Node) (*Node, error) {
	y = deref(y)
	if y.Kind != yaml.MappingNode || len(y.Content) != 2 {
		return nil, fmt.Errorf("%w: line %d: expected a mapping with exactly one key",
			ErrMalformed, y.Line)
	}
	key := deref(y.Content[0])
	if key.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("%w: line %d: element name isn't a scalar", ErrMalformed, key.Line)
	}
	e := &Node{
		Name: key.Value,
		Line: key.Line,
	}
	if err := l.body(e, y.Content[1]); err != nil {
		return nil, err
	}
	return e, nil
}

// body fills in e from the value of its key.
func (l *yamlLoader) body(e *Node, y *yaml.Node) error {
	if err := l.check(); err != nil {
		return err
	}

	y = deref(y)
	var text strings.Builder

	switch y.Kind {
	case yaml.ScalarNode:
		if y.Tag != "!!null" {
			text.WriteString(y.Value)
		}

	case yaml.SequenceNode:
		for _, item := range y.Content {
			c, err := l.element(item)
			if err != nil {
				return err
			}
			e.Children = append(e.Children, c)
			text.WriteString(c.Text)
		}

	case yaml.MappingNode:
		for i := 0; i+1 < len(y.Content); i += 2 {
			k, v := deref(y.Content[i]), deref(y.Content[i+1])
			if k.Kind != yaml.ScalarNode {
				return fmt.Errorf("%w: line %d: key isn't a scalar", ErrMalformed, k.Line)
			}
			switch {
			case strings.HasPrefix(k.Value, "@"):
				if v.Kind != yaml.ScalarNode {
					return fmt.Errorf("%w: line %d: attribute %s isn't a scalar",
						ErrMalformed, k.Line, k.Value)
				}
				e.Attrs = append(e.Attrs, Attr{
					Name:  k.Value[1:],
					Value: v.Value,
				})
			case k.Value == "#text":
				if v.Kind != yaml.ScalarNode {
					return fmt.Errorf("%w: line %d: #text isn't a scalar", ErrMalformed, k.Line)
				}
				text.WriteString(v.Value)
			default:
				c := &Node{
					Name: k.Value,
					Line: k.Line,
				}
				if err := l.body(c, v); err != nil {
					return err
				}
				e.Children = append(e.Children, c)
				text.WriteString(c.Text)
			}
		}

	default:
		return fmt.Errorf("%w: line %d: unexpected YAML node", ErrMalformed, y.Line)
	}

	e.Text = text.String()
	return nil
}
