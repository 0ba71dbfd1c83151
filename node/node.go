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

// Package node provides the structural tree of a PoV specification
// and typed accessors over it.
//
// A tree is produced by a loader (see LoadXML and LoadYAML) and is
// read-only afterwards.  The accessors follow a few strict rules:
// numbers may be surrounded by whitespace but nothing else, empty
// text is not a number, and a missing optional element yields the
// caller's default.
package node

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Comcast/povgen/decode"
)

var (
	// ErrInvalidInt occurs when text that should be a signed
	// integer isn't.
	ErrInvalidInt = errors.New("invalid integer")

	// ErrInvalidUnsignedInt occurs when text that should be an
	// unsigned integer isn't.
	ErrInvalidUnsignedInt = errors.New("invalid unsigned integer")
)

// Attr is an attribute of a Node.
type Attr struct {
	Name  string
	Value string
}

// Node is one element of a specification tree.
type Node struct {
	// Name is the element's tag.
	Name string

	// Attrs are the element's attributes in document order.
	Attrs []Attr

	// Text is the concatenation of all character data within the
	// element, including that of descendants.
	Text string

	// Children are the child elements in document order.
	Children []*Node

	// Line is the source line where the element starts.
	Line int
}

// Child finds the first child with the given tag.  Returns nil if
// there isn't one or if n is nil.
func (n *Node) Child(tag string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == tag {
			return c
		}
	}
	return nil
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// AttrIs reports whether the named attribute is present with the
// given value.
func (n *Node) AttrIs(name, value string) bool {
	v, have := n.Attr(name)
	return have && v == value
}

// Content returns the text content of n.  A nil Node has empty
// content.
func (n *Node) Content() string {
	if n == nil {
		return ""
	}
	return n.Text
}

// String gives something like "<read> at line 12".
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	return fmt.Sprintf("<%s> at line %d", n.Name, n.Line)
}

func trimSpace(s string) string {
	i, j := 0, len(s)
	for i < j && decode.IsSpace(s[i]) {
		i++
	}
	for i < j && decode.IsSpace(s[j-1]) {
		j--
	}
	return s[i:j]
}

// cBase resolves base 0 the way strtoul does: "0x" means hex and a
// leading "0" means octal.
func cBase(s string, base int) (string, int) {
	if base != 0 {
		return s, base
	}
	switch {
	case len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X'):
		return s[2:], 16
	case len(s) > 1 && s[0] == '0':
		return s[1:], 8
	}
	return s, 10
}

func digitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z') {
			return false
		}
	}
	return true
}

// ParseUint parses one unsigned 32-bit integer.  Whitespace may
// surround the number.  Base 0 follows C conventions.
func ParseUint(text string, base int) (uint32, error) {
	s := trimSpace(text)
	s = strings.TrimPrefix(s, "+")
	s, base = cBase(s, base)
	if !digitsOnly(s) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidUnsignedInt, text)
	}
	v, err := strconv.ParseUint(s, base, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidUnsignedInt, text)
	}
	return uint32(v), nil
}

// ParseInt parses one signed 32-bit integer.  Whitespace may surround
// the number.  Base 0 follows C conventions.
func ParseInt(text string, base int) (int32, error) {
	s := trimSpace(text)
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	s, base = cBase(s, base)
	if !digitsOnly(s) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidInt, text)
	}
	v, err := strconv.ParseUint(s, base, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidInt, text)
	}
	if neg {
		if math.MaxInt32+1 < v {
			return 0, fmt.Errorf("%w: %q", ErrInvalidInt, text)
		}
		return int32(-int64(v)), nil
	}
	if math.MaxInt32 < v {
		return 0, fmt.Errorf("%w: %q", ErrInvalidInt, text)
	}
	return int32(v), nil
}

// IntAttr reads a signed attribute.  If the attribute is absent, def
// is returned and present is false.
func IntAttr(n *Node, name string, def int32) (v int32, present bool, err error) {
	s, have := n.Attr(name)
	if !have {
		return def, false, nil
	}
	if v, err = ParseInt(s, 10); err != nil {
		return def, true, fmt.Errorf("%w in %s attribute of %s", err, name, n)
	}
	return v, true, nil
}

// UintAttr reads an unsigned attribute.  If the attribute is absent,
// def is returned and present is false.
func UintAttr(n *Node, name string, def uint32) (v uint32, present bool, err error) {
	s, have := n.Attr(name)
	if !have {
		return def, false, nil
	}
	if v, err = ParseUint(s, 10); err != nil {
		return def, true, fmt.Errorf("%w in %s attribute of %s", err, name, n)
	}
	return v, true, nil
}

// IntChild reads the text of the child with the given tag as a
// signed integer.  A missing child gives def.
func IntChild(n *Node, tag string, def int32) (int32, error) {
	c := n.Child(tag)
	if c == nil {
		return def, nil
	}
	if c.Text == "" {
		return def, fmt.Errorf("%w: %s contains no data", ErrInvalidInt, c)
	}
	v, err := ParseInt(c.Text, 10)
	if err != nil {
		return def, fmt.Errorf("%w: expected one integer in %s", err, c)
	}
	return v, nil
}

// UintChild reads the text of the child with the given tag as an
// unsigned integer.  A missing child gives def.
func UintChild(n *Node, tag string, def uint32) (uint32, error) {
	c := n.Child(tag)
	if c == nil {
		return def, nil
	}
	if c.Text == "" {
		return def, fmt.Errorf("%w: %s contains no data", ErrInvalidUnsignedInt, c)
	}
	v, err := ParseUint(c.Text, 10)
	if err != nil {
		return def, fmt.Errorf("%w: expected one unsigned integer in %s", err, c)
	}
	return v, nil
}

// StringChild returns the text of the child with the given tag, or
// def if there is no such child.
func StringChild(n *Node, tag string, def string) (string, bool) {
	c := n.Child(tag)
	if c == nil {
		return def, false
	}
	return c.Text, true
}
