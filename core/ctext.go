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
	"io"
	"strings"
)

// emitter writes C text and remembers the first write error.
type emitter struct {
	w   io.Writer
	err error
}

func (e *emitter) printf(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

// hexLiteral emits bs as the initializer of a C array: one string
// literal per line, sixteen bytes per line, ending with ";".
func (e *emitter) hexLiteral(bs []byte) {
	if len(bs) == 0 {
		e.printf("         \"\";\n")
		return
	}
	var b strings.Builder
	for i, c := range bs {
		if i%16 == 0 {
			if 0 < i {
				b.WriteString("\"\n")
			}
			b.WriteString("         \"")
		}
		fmt.Fprintf(&b, "\\x%02x", c)
	}
	b.WriteString("\";\n")
	e.printf("%s", b.String())
}

// cString quotes s as a C string literal.
//
// Octal escapes are used for unprintable bytes because a hex escape
// would swallow any hex digits that follow it.
func cString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '"' || c == '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c == '?':
			// Trigraphs.
			b.WriteString(`\?`)
		case c < 0x20 || 0x7e < c:
			fmt.Fprintf(&b, "\\%03o", c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// lineComment makes s safe to put in a // comment.
func lineComment(s string) string {
	s = strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
	// A trailing backslash would splice the next line into the comment.
	return strings.TrimRight(s, "\\ \t")
}

// blockComment makes s safe to put in a /* */ comment.
func blockComment(s string) string {
	return strings.ReplaceAll(s, "*/", "* /")
}
