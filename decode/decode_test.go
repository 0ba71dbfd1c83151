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

package decode

import (
	"encoding/hex"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHexRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	spaces := []string{"", " ", "\n", "\t ", "\r\n"}

	for i := 0; i < 200; i++ {
		bs := make([]byte, r.Intn(64))
		r.Read(bs)

		enc := hex.EncodeToString(bs)
		if r.Intn(2) == 0 {
			enc = strings.ToUpper(enc)
		}

		// Sprinkle whitespace between pairs.
		var b strings.Builder
		for j := 0; j < len(enc); j += 2 {
			b.WriteString(spaces[r.Intn(len(spaces))])
			b.WriteString(enc[j : j+2])
		}
		b.WriteString(spaces[r.Intn(len(spaces))])

		got, err := HexString(b.String())
		require.NoError(t, err, "input %q", b.String())
		assert.Equal(t, bs, got)
	}
}

func TestHexErrors(t *testing.T) {
	for _, s := range []string{"a", "abc", "0g", "zz", "4 1", "41 4", "41\x00"} {
		t.Run(s, func(t *testing.T) {
			_, err := HexString(s)
			assert.ErrorIs(t, err, ErrInvalidHex)
		})
	}
}

func TestHexEmpty(t *testing.T) {
	got, err := HexString("  \n ")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEscapes(t *testing.T) {
	tests := []struct {
		in   string
		want []byte
	}{
		{`\n\r\t`, []byte{0x0a, 0x0d, 0x09}},
		{`\x41`, []byte{0x41}},
		{`\X4a\x4B`, []byte{0x4a, 0x4b}},
		{`\q`, []byte{'q'}},
		{`\\`, []byte{'\\'}},
		{`AB`, []byte("AB")},
		{`a\x00b`, []byte{'a', 0, 'b'}},
		{`tail\`, []byte("tail")},
		{``, []byte{}},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := EscapesString(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEscapesErrors(t *testing.T) {
	for _, s := range []string{`\x4`, `\x`, `\xg1`, `\x4z`, `ok\X`} {
		t.Run(s, func(t *testing.T) {
			_, err := EscapesString(s)
			assert.ErrorIs(t, err, ErrInvalidHex)
		})
	}
}

func TestFragment(t *testing.T) {
	// Only the first escape of the field is decoded.
	field := []byte(`\x41\x42`)
	got, err := Escapes(field[:4])
	require.NoError(t, err)
	assert.Equal(t, []byte{0x41}, got)

	_, err = Hex([]byte("414")[:3])
	assert.ErrorIs(t, err, ErrInvalidHex)
}
