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
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// ErrStructure occurs when a tree doesn't follow the PoV element
// grammar.
var ErrStructure = errors.New("invalid structure")

// RootTag is the tag of the root element of every specification.
const RootTag = "cfepov"

// Rule is the grammar for one element.
type Rule struct {
	// Children are the tags that may appear as children.
	Children []string

	// Required are the children that must appear.
	Required []string

	// Attrs are the attributes that may appear.
	Attrs []string
}

// Grammar maps a tag to its rule.
type Grammar map[string]Rule

// PoVGrammar is the element grammar of a PoV specification.
var PoVGrammar = Grammar{
	"cfepov": {
		Children: []string{"cbid", "seed", "replay"},
		Required: []string{"replay"},
	},
	"cbid":   {},
	"seed":   {},
	"replay": {Children: []string{"write", "read", "delay", "decl", "negotiate", "submit"}},
	"write": {
		Children: []string{"data", "var"},
		Attrs:    []string{"echo"},
	},
	"read": {
		Children: []string{"delim", "length", "match", "assign", "timeout"},
		Attrs:    []string{"echo"},
	},
	"data":   {Attrs: []string{"format"}},
	"var":    {},
	"delim":  {Attrs: []string{"format"}},
	"length": {Attrs: []string{"isvar"}},
	"match": {
		Children: []string{"data", "var", "pcre"},
		Attrs:    []string{"invert"},
	},
	"pcre": {Attrs: []string{"group"}},
	"assign": {
		Children: []string{"var", "slice", "pcre"},
		Required: []string{"var"},
	},
	"slice":   {Attrs: []string{"begin", "end"}},
	"timeout": {},
	"delay":   {},
	"decl": {
		Children: []string{"var", "value"},
		Required: []string{"var", "value"},
	},
	"value": {Children: []string{"data", "var", "substr"}},
	"substr": {
		Children: []string{"var", "begin", "end"},
		Required: []string{"var"},
	},
	"begin":     {},
	"end":       {},
	"negotiate": {Children: []string{"type1", "type2"}},
	"type1": {
		Children: []string{"ipmask", "regmask", "regnum"},
		Required: []string{"ipmask", "regmask", "regnum"},
	},
	"type2":   {},
	"ipmask":  {},
	"regmask": {},
	"regnum":  {},
	"submit":  {Children: []string{"var"}},
}

func contains(xs []string, x string) bool {
	for _, y := range xs {
		if x == y {
			return true
		}
	}
	return false
}

// Validate checks the tree rooted at n against the grammar g.  The
// root must have the given tag.  Every problem is reported.
func (g Grammar) Validate(n *Node, root string) error {
	if n == nil {
		return fmt.Errorf("%w: no root element", ErrStructure)
	}
	if n.Name != root {
		return fmt.Errorf("%w: root is <%s> rather than <%s>", ErrStructure, n.Name, root)
	}
	return g.validate(n)
}

func (g Grammar) validate(n *Node) error {
	rule, have := g[n.Name]
	if !have {
		return fmt.Errorf("%w: unknown element %s", ErrStructure, n)
	}

	var err error
	for _, a := range n.Attrs {
		if !contains(rule.Attrs, a.Name) {
			err = multierr.Append(err, fmt.Errorf("%w: unexpected attribute %q on %s",
				ErrStructure, a.Name, n))
		}
	}
	for _, tag := range rule.Required {
		if n.Child(tag) == nil {
			err = multierr.Append(err, fmt.Errorf("%w: %s lacks <%s>", ErrStructure, n, tag))
		}
	}
	for _, c := range n.Children {
		if !contains(rule.Children, c.Name) {
			err = multierr.Append(err, fmt.Errorf("%w: %s not allowed in <%s>",
				ErrStructure, c, n.Name))
			continue
		}
		err = multierr.Append(err, g.validate(c))
	}
	return err
}

// Validate checks a PoV specification tree.
func Validate(n *Node) error {
	return PoVGrammar.Validate(n, RootTag)
}
