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

package core

import (
	"fmt"

	"github.com/Comcast/povgen/node"
)

// MaxRegNum is the largest register number a type 1 PoV can name.
const MaxRegNum = 7

// Negotiate declares the type of the PoV.
type Negotiate struct {
	origin

	Type PovType

	// IPMask, RegMask and RegNum are for type 1 only.
	IPMask  uint32
	RegMask uint32
	RegNum  uint32
}

func (*Negotiate) Kind() string { return "negotiate" }

// typeOneField reads one of the numbers of a type1 element.
func typeOneField(ps *problems, t1 *node.Node, tag string, base int) uint32 {
	c := t1.Child(tag)
	switch {
	case c == nil:
		ps.add(t1, fmt.Sprintf("missing <%s>", tag), ErrMissing)
		return 0
	case c.Text == "":
		ps.add(c, "element contains no data", node.ErrInvalidUnsignedInt)
		return 0
	}
	v, err := node.ParseUint(c.Text, base)
	if err != nil {
		ps.add(c, "expected one unsigned integer", err)
	}
	return v
}

func (p *parser) parseNegotiate(n *node.Node) (*Negotiate, error) {
	neg := &Negotiate{origin: origin{n.Line}}
	ps := &problems{p: p}

	if t1 := n.Child("type1"); t1 != nil {
		neg.Type = PovType1
		// Masks are C integer constants; 0x... is typical.
		neg.IPMask = typeOneField(ps, t1, "ipmask", 0)
		neg.RegMask = typeOneField(ps, t1, "regmask", 0)
		neg.RegNum = typeOneField(ps, t1, "regnum", 10)
		if MaxRegNum < neg.RegNum {
			ps.add(t1.Child("regnum"),
				fmt.Sprintf("expected integer in the range 0..%d (found %d)", MaxRegNum, neg.RegNum),
				ErrOutOfRange)
		}
	} else if n.Child("type2") != nil {
		neg.Type = PovType2
	} else {
		ps.add(n, "missing type1 or type2", ErrMissing)
	}

	if err := ps.result(n); err != nil {
		return nil, err
	}
	return neg, nil
}

func (neg *Negotiate) render(e *emitter) error {
	switch neg.Type {
	case PovType1:
		e.printf("   negotiate_type1(0x%x, 0x%x, %d);\n", neg.IPMask, neg.RegMask, neg.RegNum)
	case PovType2:
		e.printf("   negotiate_type2();\n")
	default:
		return fmt.Errorf("%w %d at line %d", ErrUnknownPovType, neg.Type, neg.line)
	}
	return e.err
}

// Submit hands the PoV's result over.  Only type 2 PoVs submit
// anything.
type Submit struct {
	origin

	// HasVar says whether a variable was given.
	HasVar bool
	Var    string

	// Type is PovUnresolved until the build finishes.
	Type PovType

	// Synthesized is true for the Submit that a build adds to a
	// type 2 PoV without one.
	Synthesized bool
}

func (*Submit) Kind() string { return "submit" }

func (p *parser) parseSubmit(n *node.Node) (*Submit, error) {
	s := &Submit{
		origin: origin{n.Line},
		Type:   PovUnresolved,
	}
	if v := n.Child("var"); v != nil {
		s.HasVar, s.Var = true, v.Text
	}
	return s, nil
}

func (s *Submit) render(e *emitter) error {
	switch s.Type {
	case PovUnresolved:
		return fmt.Errorf("%w at line %d", ErrUnresolvedSubmit, s.line)
	case PovType2:
		e.printf("   //*** submitting type 2 POV results\n")
		if s.HasVar {
			e.printf("   submit_type2(%s);\n", cString(s.Var))
		} else {
			e.printf("   submit_type2(NULL);\n")
		}
	}
	return e.err
}
