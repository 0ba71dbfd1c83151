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
	"math"

	"github.com/Comcast/povgen/node"
)

// SubstrToEnd is the End of a ValueSubstr that runs to the end of
// its variable.
const SubstrToEnd = math.MaxInt32

// Value is one part of a Declare: a ValueData, ValueVar or
// ValueSubstr.
type Value interface {
	value()
}

// Every part draws a value serial, in document order, but only a
// ValueData's ID shows up in generated code, where it names the C
// array.

// ValueData is literal bytes.
type ValueData struct {
	ID   int
	Data []byte
}

// ValueVar is the value of another variable.
type ValueVar struct {
	ID  int
	Var string
}

// ValueSubstr is the bytes [Begin,End) of another variable.
type ValueSubstr struct {
	ID    int
	Var   string
	Begin int32
	End   int32
}

func (ValueData) value()   {}
func (ValueVar) value()    {}
func (ValueSubstr) value() {}

// Declare sets a variable from the concatenation of its values.
type Declare struct {
	origin

	// ID is the Declare's serial number.
	ID int

	Var    string
	Values []Value
}

func (*Declare) Kind() string { return "decl" }

func (p *parser) parseDecl(n *node.Node) (*Declare, error) {
	d := &Declare{
		origin: origin{n.Line},
		ID:     p.serials.Decl(),
	}
	ps := &problems{p: p}

	if v := n.Child("var"); v != nil {
		d.Var = v.Text
	} else {
		ps.add(n, "decl needs a <var>", ErrMissing)
	}

	var parts []*node.Node
	if value := n.Child("value"); value != nil {
		parts = value.Children
	} else {
		ps.add(n, "decl needs a <value>", ErrMissing)
	}

	for _, c := range parts {
		switch c.Name {
		case "data":
			if c.Text == "" {
				continue
			}
			bs, err := bytesOf(c)
			if err != nil {
				ps.add(c, "invalid hex data", err)
				continue
			}
			if len(bs) == 0 && c.AttrIs("format", "hex") {
				continue
			}
			d.Values = append(d.Values, ValueData{
				ID:   p.serials.Value(),
				Data: bs,
			})
		case "var":
			d.Values = append(d.Values, ValueVar{
				ID:  p.serials.Value(),
				Var: c.Text,
			})
		case "substr":
			s := ValueSubstr{ID: p.serials.Value()}
			v, have := node.StringChild(c, "var", "")
			if !have {
				ps.add(c, "substr needs a <var>", ErrMissing)
			}
			s.Var = v
			begin, err := node.IntChild(c, "begin", 0)
			if err != nil {
				ps.add(c.Child("begin"), "expected one integer", err)
			}
			end, err := node.IntChild(c, "end", SubstrToEnd)
			if err != nil {
				ps.add(c.Child("end"), "expected one integer", err)
			}
			s.Begin, s.End = begin, end
			d.Values = append(d.Values, s)
		}
	}

	if err := ps.result(n); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Declare) render(e *emitter) error {
	id := d.ID
	e.printf("   do {\n")
	e.printf("      //*** variable declaration for %s\n", lineComment(d.Var))
	for _, v := range d.Values {
		if v, is := v.(ValueData); is {
			e.printf("      static unsigned char dvar_%08d[] = \n", v.ID)
			e.hexLiteral(v.Data)
			e.printf("      static unsigned int dvar_%08d_len = %d;\n", v.ID, len(v.Data))
		}
	}

	e.printf("      unsigned char *var_%05d = NULL;\n", id)
	e.printf("      unsigned int var_%05d_len = 0;\n", id)

	for _, v := range d.Values {
		switch v := v.(type) {
		case ValueData:
			e.printf("      var_%05d = append_buf(var_%05d, &var_%05d_len, dvar_%08d, dvar_%08d_len);\n",
				id, id, id, v.ID, v.ID)
		case ValueVar:
			e.printf("      var_%05d = append_var(%s, var_%05d, &var_%05d_len);\n",
				id, cString(v.Var), id, id)
		case ValueSubstr:
			e.printf("      var_%05d = append_slice(%s, %d, %d, var_%05d, &var_%05d_len);\n",
				id, cString(v.Var), v.Begin, v.End, id, id)
		default:
			return fmt.Errorf("decl %d: unknown value %T", id, v)
		}
	}

	e.printf("      putenv(%s, var_%05d, var_%05d_len);\n", cString(d.Var), id, id)
	e.printf("      free(var_%05d);\n", id)
	e.printf("   } while (0);\n")
	return e.err
}
