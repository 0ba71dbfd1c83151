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
	"github.com/Comcast/povgen/pattern"
)

// Termination is how a Read knows it has read enough.
type Termination int

const (
	// ByLength reads a fixed number of bytes.
	ByLength Termination = iota

	// ByLengthVar reads the number of bytes found in a variable.
	ByLengthVar

	// ByDelim reads through a delimiter.
	ByDelim
)

func (t Termination) String() string {
	switch t {
	case ByLengthVar:
		return "length-var"
	case ByDelim:
		return "delim"
	}
	return "length"
}

// MatchPart is one clause of a Read's match: a DataMatch, VarMatch or
// PcreMatch.
type MatchPart interface {
	matchPart()
}

// DataMatch expects literal bytes.
type DataMatch struct {
	Data []byte
}

// VarMatch expects the value of a variable.
type VarMatch struct {
	Var string
}

// PcreMatch expects text matching a regular expression.  The whole
// match is always used.
type PcreMatch struct {
	Pattern *pattern.Pattern
}

func (DataMatch) matchPart() {}
func (VarMatch) matchPart()  {}
func (PcreMatch) matchPart() {}

// Slice selects bytes [Begin,End) of what was read.
type Slice struct {
	Begin int32
	End   int32

	// ToEnd means the slice runs to the end and End is ignored.
	ToEnd bool
}

// Assign stores part of what was read in a variable.  Exactly one of
// Slice and Pcre is set.
type Assign struct {
	Var   string
	Slice *Slice
	Pcre  *pattern.Pattern
}

// Read receives data from the service.
type Read struct {
	origin

	// ID is the Read's serial number.
	ID int

	Term Termination

	// Length is the byte count for ByLength.
	Length uint32

	// LengthVar names the variable holding the count for
	// ByLengthVar.
	LengthVar string

	// Delim is the delimiter for ByDelim.
	Delim []byte

	// Matches are applied in order.
	Matches []MatchPart

	// Invert is parsed but has no effect on generated code.
	Invert bool

	Assign *Assign

	// Timeout is in milliseconds.  It's informational.
	Timeout uint32

	Echo EchoMode
}

func (*Read) Kind() string { return "read" }

func compileAt(ps *problems, n *node.Node) *pattern.Pattern {
	group, _, err := node.UintAttr(n, "group", 0)
	if err != nil {
		ps.add(n, "invalid group attribute", err)
		return nil
	}
	pat, err := pattern.Compile(n.Text, int(group))
	if err != nil {
		ps.add(n, "invalid regex", err)
		return nil
	}
	return pat
}

// parseRead builds a Read.  A delim element wins over a length
// element.
func (p *parser) parseRead(n *node.Node) (*Read, error) {
	r := &Read{
		origin: origin{n.Line},
		ID:     p.serials.Read(),
		Echo:   p.echoMode(n),
	}
	ps := &problems{p: p}

	if d := n.Child("delim"); d != nil {
		r.Term = ByDelim
		bs, err := bytesOf(d)
		if err != nil {
			ps.add(d, "invalid hex data", err)
		}
		r.Delim = bs
	} else if l := n.Child("length"); l == nil {
		ps.add(n, "read needs a <delim> or a <length>", ErrMissing)
	} else if l.AttrIs("isvar", "true") {
		r.Term = ByLengthVar
		r.LengthVar = l.Text
	} else {
		r.Term = ByLength
		v, err := node.UintChild(n, "length", 0)
		if err != nil {
			ps.add(l, "expected one unsigned integer", err)
		}
		r.Length = v
	}

	if a := n.Child("assign"); a != nil {
		r.Assign = p.parseAssign(ps, a)
	}

	if m := n.Child("match"); m != nil {
		r.Invert = m.AttrIs("invert", "true")
		for _, c := range m.Children {
			switch c.Name {
			case "data":
				bs, err := bytesOf(c)
				if err != nil {
					ps.add(c, "invalid hex data", err)
					continue
				}
				r.Matches = append(r.Matches, DataMatch{Data: bs})
			case "var":
				r.Matches = append(r.Matches, VarMatch{Var: c.Text})
			case "pcre":
				pat := compileAt(ps, c)
				if pat == nil {
					continue
				}
				// The declared group only has to be valid.
				pat.Group = 0
				r.Matches = append(r.Matches, PcreMatch{Pattern: pat})
			}
		}
	}

	timeout, err := node.UintChild(n, "timeout", 0)
	if err != nil {
		ps.add(n.Child("timeout"), "expected one unsigned integer", err)
	}
	r.Timeout = timeout

	if err := ps.result(n); err != nil {
		return nil, err
	}
	return r, nil
}

func (p *parser) parseAssign(ps *problems, a *node.Node) *Assign {
	v := a.Child("var")
	if v == nil {
		ps.add(a, "assign needs a <var>", ErrMissing)
		return nil
	}
	as := &Assign{Var: v.Text}

	s, x := a.Child("slice"), a.Child("pcre")
	switch {
	case s != nil && x != nil:
		ps.add(a, "assign takes a <slice> or a <pcre> but not both", ErrConflict)
		return nil
	case s != nil:
		begin, _, err := node.IntAttr(s, "begin", 0)
		if err != nil {
			ps.add(s, "expected one integer", err)
		}
		end, have, err := node.IntAttr(s, "end", 0)
		if err != nil {
			ps.add(s, "expected one integer", err)
		}
		as.Slice = &Slice{
			Begin: begin,
			End:   end,
			ToEnd: !have,
		}
	case x != nil:
		if as.Pcre = compileAt(ps, x); as.Pcre == nil {
			return nil
		}
	default:
		ps.add(a, "assign needs a <slice> or a <pcre>", ErrMissing)
		return nil
	}
	return as
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (r *Read) render(e *emitter) error {
	id := r.ID
	e.printf("   do {\n")
	e.printf("      unsigned char *read_%05d;\n", id)
	e.printf("      unsigned int read_%05d_len;\n", id)
	e.printf("      unsigned int read_%05d_ptr = 0;\n", id)

	switch r.Term {
	case ByDelim:
		e.printf("      //**** delimited read\n")
		e.printf("      static unsigned char read_%05d_delim[] = \n", id)
		e.hexLiteral(r.Delim)
		e.printf("      read_%05d = NULL;\n", id)
		e.printf("      read_%05d_len = 0;\n", id)
		e.printf("      int read_%05d_res = delimited_read(0, &read_%05d, &read_%05d_len, read_%05d_delim, %d);\n",
			id, id, id, id, len(r.Delim))
		e.printf("      if (read_%05d_res) {} //silence unused variable warning\n", id)
	case ByLength, ByLengthVar:
		e.printf("      //**** length read\n")
		if r.Term == ByLengthVar {
			e.printf("      size_t read_%05d_len_len;\n", id)
			e.printf("      char *read_%05d_len_var = (char*)getenv(%s, &read_%05d_len_len);\n",
				id, cString(r.LengthVar), id)
			e.printf("      read_%05d_len = *(unsigned int*)read_%05d_len_var;\n", id, id)
			e.printf("      free(read_%05d_len_var);\n", id)
		} else {
			e.printf("      read_%05d_len = %d;\n", id, r.Length)
		}
		e.printf("      read_%05d = (unsigned char*)malloc(read_%05d_len);\n", id, id)
		e.printf("      int read_%05d_res = length_read(0, read_%05d, read_%05d_len);\n", id, id, id)
		e.printf("      if (read_%05d_res) {} //silence unused variable warning\n", id)
	default:
		return fmt.Errorf("read %d: unknown termination %d", id, r.Term)
	}

	for i, m := range r.Matches {
		switch m := m.(type) {
		case DataMatch:
			e.printf("      //**** read match data\n")
			e.printf("      static unsigned char match_%05d_%05d[] = \n", id, i)
			e.hexLiteral(m.Data)
			e.printf("      read_%05d_ptr += data_match(read_%05d + read_%05d_ptr, read_%05d_len - read_%05d_ptr, match_%05d_%05d, %d);\n",
				id, id, id, id, id, id, i, len(m.Data))
		case VarMatch:
			e.printf("      //**** read match var %s\n", lineComment(m.Var))
			e.printf("      read_%05d_ptr += var_match(read_%05d + read_%05d_ptr, read_%05d_len - read_%05d_ptr, %s);\n",
				id, id, id, id, id, cString(m.Var))
		case PcreMatch:
			renderPcreMatch(e, id, i, m.Pattern)
		default:
			return fmt.Errorf("read %d: unknown match part %T", id, m)
		}
	}

	if a := r.Assign; a != nil {
		switch {
		case a.Slice != nil:
			e.printf("      //**** read assign to var \"%s\" from slice\n", lineComment(a.Var))
			e.printf("      assign_from_slice(%s, read_%05d, read_%05d_len - read_%05d_ptr, %d, %d, %d);\n",
				cString(a.Var), id, id, id, a.Slice.Begin, a.Slice.End, b2i(a.Slice.ToEnd))
		case a.Pcre != nil:
			e.printf("      //**** read assign to var \"%s\" from pcre: %s\n",
				lineComment(a.Var), lineComment(a.Pcre.Source))
			e.printf("      static char read_%05d_regex[] = \n", id)
			e.hexLiteral([]byte(a.Pcre.Source))
			e.printf("      assign_from_pcre(%s, read_%05d, read_%05d_len - read_%05d_ptr, read_%05d_regex, %d);\n",
				cString(a.Var), id, id, id, id, a.Pcre.Group)
		}
	}

	e.printf("      free(read_%05d);\n", id)
	e.printf("      if (read_%05d_ptr) {}  //silence unused variable warning if any\n", id)
	e.printf("   } while (0);\n")
	return e.err
}

func renderPcreMatch(e *emitter, id, i int, p *pattern.Pattern) {
	e.printf("      /* read match pcre:\n%s\n*/\n", blockComment(p.Source))
	e.printf("      static char read_%05d_%05d_regex[] = \n", id, i)
	e.hexLiteral([]byte(p.Source))
	e.printf("      static match_result read_%05d_%05d_match;\n", id, i)
	e.printf("      pcre *read_%05d_%05d_pcre = init_regex(read_%05d_%05d_regex);\n", id, i, id, i)
	e.printf("      if (read_%05d_%05d_pcre != NULL) {\n", id, i)
	e.printf("         int rc = regex_match(read_%05d_%05d_pcre, %d, read_%05d + read_%05d_ptr, read_%05d_len - read_%05d_ptr, &read_%05d_%05d_match);\n",
		id, i, p.Group, id, id, id, id, id, i)
	e.printf("         if (rc > 0) {\n")
	e.printf("            read_%05d_ptr += read_%05d_%05d_match.match_end - read_%05d_%05d_match.match_start;\n",
		id, id, i, id, i)
	e.printf("         }\n")
	e.printf("         else {\n")
	e.printf("            //a failed match is not fatal, keep going\n")
	e.printf("         }\n")
	e.printf("         pcre_free(read_%05d_%05d_pcre);\n", id, i)
	e.printf("      }\n")
	e.printf("      else {\n")
	e.printf("         //a regex that fails to compile is not fatal either\n")
	e.printf("      }\n")
}
