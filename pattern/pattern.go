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

// Package pattern implements the regular expressions used by PoV
// reads.
//
// A Pattern remembers which capture group the specification asked
// for.  Matching is always anchored at the start of the buffer, and a
// failed match is just a nil result: in a PoV a pattern that doesn't
// match is advice, not a verdict.
//
// Buffers are binary.  Each byte is presented to the regex engine as
// one character, so offsets in results are byte offsets.
package pattern

import (
	"errors"
	"fmt"
	"time"

	"github.com/dlclark/regexp2"
)

var (
	// ErrInvalidRegex occurs when a pattern doesn't compile or
	// when the requested group is larger than the number of
	// groups in the pattern.
	ErrInvalidRegex = errors.New("invalid regex")

	// ErrMatchBudget occurs when a match runs longer than the
	// budget given to Match.
	ErrMatchBudget = errors.New("match budget exhausted")
)

// Pattern is a compiled regular expression plus the capture group
// that a match should report.
//
// A Pattern is not safe for concurrent use.
type Pattern struct {
	// Source is the expression as written in the specification.
	Source string

	// Group is the capture group reported by Match.  Zero is the
	// whole match.
	Group int

	// Groups is the total number of groups including the implicit
	// whole-match group zero.
	Groups int

	re *regexp2.Regexp
}

// Match is the result of a successful Match.
type Match struct {
	// Data is the text spanned by the Pattern's Group.
	Data []byte

	// End is the offset just past the overall match.  Callers
	// use this value to advance a read cursor.
	End int
}

// latin1 maps each byte to the rune with the same value.
func latin1(bs []byte) []rune {
	rs := make([]rune, len(bs))
	for i, b := range bs {
		rs[i] = rune(b)
	}
	return rs
}

func bytesOf(rs []rune) []byte {
	bs := make([]byte, len(rs))
	for i, r := range rs {
		bs[i] = byte(r)
	}
	return bs
}

// Compile compiles the source expression.  Dot matches newlines.
func Compile(source string, group int) (*Pattern, error) {
	if group < 0 {
		return nil, fmt.Errorf("%w: negative group %d", ErrInvalidRegex, group)
	}

	src := string(latin1([]byte(source)))
	re, err := regexp2.Compile(src, regexp2.Singleline)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidRegex, source, err)
	}

	groups := len(re.GetGroupNumbers())
	if groups-1 < group {
		return nil, fmt.Errorf("%w: %q: group %d requested but only %d capture group(s)",
			ErrInvalidRegex, source, group, groups-1)
	}

	// Prefer an anchored form for matching.  The wrapper can't be
	// used when the source ends inside an extended-mode comment,
	// and then Match falls back to rejecting unanchored matches.
	if anchored, err := regexp2.Compile(`\A(?:`+src+`)`, regexp2.Singleline); err == nil &&
		len(anchored.GetGroupNumbers()) == groups {
		re = anchored
	}

	return &Pattern{
		Source: source,
		Group:  group,
		Groups: groups,
		re:     re,
	}, nil
}

// MustCompile is Compile that panics on error.  Intended for tests
// and constant patterns.
func MustCompile(source string, group int) *Pattern {
	p, err := Compile(source, group)
	if err != nil {
		panic(err)
	}
	return p
}

// Match attempts an anchored match against buf.
//
// The budget bounds the time spent matching.  A budget that isn't
// positive means no bound.  Running out of budget is the only error;
// a pattern that doesn't match returns a nil Match.
func (p *Pattern) Match(buf []byte, budget time.Duration) (*Match, error) {
	if 0 < budget {
		p.re.MatchTimeout = budget
	} else {
		p.re.MatchTimeout = regexp2.DefaultMatchTimeout
	}

	m, err := p.re.FindRunesMatch(latin1(buf))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrMatchBudget, p.Source, err)
	}
	if m == nil || m.Index != 0 {
		return nil, nil
	}

	data := []byte{}
	if g := m.GroupByNumber(p.Group); g != nil && 0 < len(g.Captures) {
		data = bytesOf(g.Runes())
	}

	return &Match{
		Data: data,
		End:  m.Index + m.Length,
	}, nil
}

// String returns the source expression.
func (p *Pattern) String() string {
	return p.Source
}
