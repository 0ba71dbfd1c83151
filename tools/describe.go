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

package tools

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Comcast/povgen/core"
)

// maxQuoted is the most bytes of literal data shown in a summary.
const maxQuoted = 24

func quote(bs []byte) string {
	if maxQuoted < len(bs) {
		return strconv.Quote(string(bs[:maxQuoted])) + "..."
	}
	return strconv.Quote(string(bs))
}

// Describe gives a one-line summary of an action.
func Describe(a core.Action) string {
	switch a := a.(type) {
	case *core.Write:
		parts := make([]string, 0, len(a.Segments))
		for _, s := range a.Segments {
			if s.IsVar {
				parts = append(parts, "$"+s.Var)
			} else {
				parts = append(parts, quote(s.Data))
			}
		}
		return fmt.Sprintf("write %d: %s", a.ID, strings.Join(parts, " + "))

	case *core.Read:
		var term string
		switch a.Term {
		case core.ByDelim:
			term = "until " + quote(a.Delim)
		case core.ByLengthVar:
			term = "$" + a.LengthVar + " bytes"
		default:
			term = strconv.FormatUint(uint64(a.Length), 10) + " bytes"
		}
		s := fmt.Sprintf("read %d: %s", a.ID, term)
		for _, m := range a.Matches {
			switch m := m.(type) {
			case core.DataMatch:
				s += ", match " + quote(m.Data)
			case core.VarMatch:
				s += ", match $" + m.Var
			case core.PcreMatch:
				s += ", match /" + m.Pattern.Source + "/"
			}
		}
		if as := a.Assign; as != nil {
			switch {
			case as.Slice != nil && as.Slice.ToEnd:
				s += fmt.Sprintf(", $%s = [%d:]", as.Var, as.Slice.Begin)
			case as.Slice != nil:
				s += fmt.Sprintf(", $%s = [%d:%d]", as.Var, as.Slice.Begin, as.Slice.End)
			case as.Pcre != nil:
				s += fmt.Sprintf(", $%s = /%s/ group %d", as.Var, as.Pcre.Source, as.Pcre.Group)
			}
		}
		return s

	case *core.Delay:
		return fmt.Sprintf("delay %d ms", a.Millis)

	case *core.Declare:
		parts := make([]string, 0, len(a.Values))
		for _, v := range a.Values {
			switch v := v.(type) {
			case core.ValueData:
				parts = append(parts, quote(v.Data))
			case core.ValueVar:
				parts = append(parts, "$"+v.Var)
			case core.ValueSubstr:
				if v.End == core.SubstrToEnd {
					parts = append(parts, fmt.Sprintf("$%s[%d:]", v.Var, v.Begin))
				} else {
					parts = append(parts, fmt.Sprintf("$%s[%d:%d]", v.Var, v.Begin, v.End))
				}
			}
		}
		return fmt.Sprintf("decl %d: $%s = %s", a.ID, a.Var, strings.Join(parts, " + "))

	case *core.Negotiate:
		if a.Type == core.PovType1 {
			return fmt.Sprintf("negotiate type 1: ipmask 0x%x, regmask 0x%x, regnum %d",
				a.IPMask, a.RegMask, a.RegNum)
		}
		return fmt.Sprintf("negotiate type %d", a.Type)

	case *core.Submit:
		s := "submit"
		if a.HasVar {
			s += " $" + a.Var
		}
		if a.Synthesized {
			s += " (implicit)"
		}
		return s
	}
	return fmt.Sprintf("%T", a)
}

// uses gives the variables an action reads.
func uses(a core.Action) []string {
	var vs []string
	switch a := a.(type) {
	case *core.Write:
		for _, s := range a.Segments {
			if s.IsVar {
				vs = append(vs, s.Var)
			}
		}
	case *core.Read:
		if a.Term == core.ByLengthVar {
			vs = append(vs, a.LengthVar)
		}
		for _, m := range a.Matches {
			if m, is := m.(core.VarMatch); is {
				vs = append(vs, m.Var)
			}
		}
	case *core.Declare:
		for _, v := range a.Values {
			switch v := v.(type) {
			case core.ValueVar:
				vs = append(vs, v.Var)
			case core.ValueSubstr:
				vs = append(vs, v.Var)
			}
		}
	case *core.Submit:
		if a.HasVar {
			vs = append(vs, a.Var)
		}
	}
	return vs
}

// defines gives the variable an action sets, if any.
func defines(a core.Action) (string, bool) {
	switch a := a.(type) {
	case *core.Declare:
		return a.Var, true
	case *core.Read:
		if a.Assign != nil {
			return a.Assign.Var, true
		}
	}
	return "", false
}
