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

// Package decode turns the text literals found in PoV specifications
// into bytes.
//
// Two notations are supported: hex strings ("41 42 0a") and C-style
// escaped text ("AB\n", "\x41").  Both decoders work on a byte slice
// rather than a string so that a caller can hand over any fragment
// (say the first n bytes of a fixed-size field) without copying.
package decode

import (
	"errors"
	"fmt"
)

// ErrInvalidHex occurs when a hex digit is expected but something
// else (or nothing) is found.
var ErrInvalidHex = errors.New("invalid hex")

// IsSpace reports whether c is whitespace in the C locale sense.
func IsSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func hexValue(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// Hex decodes pairs of hex digits.  Whitespace between pairs is
// skipped, but the two digits of a pair must be adjacent.
func Hex(src []byte) ([]byte, error) {
	acc := make([]byte, 0, len(src)/2)
	for i := 0; i < len(src); {
		if IsSpace(src[i]) {
			i++
			continue
		}
		if len(src) <= i+1 {
			return nil, fmt.Errorf("%w: odd number of digits at offset %d", ErrInvalidHex, i)
		}
		hi, ok := hexValue(src[i])
		if !ok {
			return nil, fmt.Errorf("%w: '%c' at offset %d", ErrInvalidHex, src[i], i)
		}
		lo, ok := hexValue(src[i+1])
		if !ok {
			return nil, fmt.Errorf("%w: '%c' at offset %d", ErrInvalidHex, src[i+1], i+1)
		}
		acc = append(acc, hi<<4|lo)
		i += 2
	}
	return acc, nil
}

// HexString is Hex for a string.
func HexString(s string) ([]byte, error) {
	return Hex([]byte(s))
}

type state int

const (
	normal state = iota
	escape
	hex1
	hex2
)

// Escapes decodes C-style escaped text.
//
// Recognized escapes are \n, \r, \t and \xHH (or \XHH).  Any other
// character following a backslash is passed through literally, so
// "\q" gives "q" and "\\" gives "\".  A \x sequence cut short by the
// end of the input is an error.  A lone backslash at the very end is
// dropped.
func Escapes(src []byte) ([]byte, error) {
	var (
		acc = make([]byte, 0, len(src))
		st  = normal
		val byte
	)
	for i, c := range src {
		switch st {
		case normal:
			if c == '\\' {
				st = escape
			} else {
				acc = append(acc, c)
			}
		case escape:
			switch c {
			case 'n':
				acc = append(acc, '\n')
			case 'r':
				acc = append(acc, '\r')
			case 't':
				acc = append(acc, '\t')
			case 'x', 'X':
				st = hex1
				continue
			default:
				acc = append(acc, c)
			}
			st = normal
		case hex1:
			d, ok := hexValue(c)
			if !ok {
				return nil, fmt.Errorf("%w: '%c' at offset %d", ErrInvalidHex, c, i)
			}
			val = d << 4
			st = hex2
		case hex2:
			d, ok := hexValue(c)
			if !ok {
				return nil, fmt.Errorf("%w: '%c' at offset %d", ErrInvalidHex, c, i)
			}
			acc = append(acc, val|d)
			st = normal
		}
	}
	if st == hex1 || st == hex2 {
		return nil, fmt.Errorf("%w: truncated \\x escape", ErrInvalidHex)
	}
	return acc, nil
}

// EscapesString is Escapes for a string.
func EscapesString(s string) ([]byte, error) {
	return Escapes([]byte(s))
}
