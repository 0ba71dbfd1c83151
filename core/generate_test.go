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
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Comcast/povgen/pattern"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generate(t *testing.T, g *Generator, pov *PoV) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, g.Generate(&buf, pov))
	return buf.String()
}

func lines(ss ...string) string {
	return strings.Join(ss, "\n") + "\n"
}

func TestGenerateEndToEnd(t *testing.T) {
	pov := mustBuild(t, &Builder{}, replay(
		`<write><data>AB</data><var>X</var></write>`,
		`<delay>50</delay>`,
	))
	got := generate(t, &Generator{}, pov)

	want := lines(
		`#include <libpov.h>`,
		`int main(void) {`,
		`   do {`,
		`      //*** writing data`,
		`      static unsigned char write_00000_00000[] = `,
		`         "\x41\x42";`,
		`      static unsigned int write_00000_00000_len = 2;`,
		`      unsigned char *write_00000 = NULL;`,
		`      unsigned int write_00000_len = 0;`,
		`      write_00000 = append_buf(write_00000, &write_00000_len, write_00000_00000, write_00000_00000_len);`,
		`      write_00000 = append_var("X", write_00000, &write_00000_len);`,
		`      if (write_00000_len > 0) {`,
		`         transmit_all(1, write_00000, write_00000_len);`,
		`      }`,
		`      free(write_00000);`,
		`   } while (0);`,
		`   //*** delay`,
		`   delay(50);`,
		`}`,
	)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestGenerateWriteIndexes(t *testing.T) {
	pov := mustBuild(t, &Builder{}, replay(
		`<write><var>A</var><data>x</data></write>`,
		`<write><data>y</data></write>`,
	))
	got := generate(t, &Generator{}, pov)

	// The segment index counts variables too.
	assert.Contains(t, got, "      static unsigned char write_00000_00001[] = \n")
	assert.Contains(t, got, "      write_00000 = append_var(\"A\", write_00000, &write_00000_len);\n")
	assert.Contains(t, got, "      write_00001 = append_buf(write_00001, &write_00001_len, write_00001_00000, write_00001_00000_len);\n")
	assert.NotContains(t, got, "write_00000_00000")
}

func TestGenerateHexLines(t *testing.T) {
	var buf bytes.Buffer
	e := &emitter{w: &buf}
	bs := make([]byte, 17)
	for i := range bs {
		bs[i] = byte(i)
	}
	e.hexLiteral(bs)
	e.hexLiteral(nil)
	require.NoError(t, e.err)

	want := lines(
		`         "\x00\x01\x02\x03\x04\x05\x06\x07\x08\x09\x0a\x0b\x0c\x0d\x0e\x0f"`,
		`         "\x10";`,
		`         "";`,
	)
	assert.Equal(t, want, buf.String())
}

func TestGenerateRead(t *testing.T) {
	pov := mustBuild(t, &Builder{}, replay(
		`<read><length>4</length><match><data>A</data><var>V</var><pcre>B*/</pcre></match>`+
			`<assign><var>OUT</var><slice begin="1"/></assign></read>`,
		`<read><delim format="hex">0a</delim><assign><var>T</var><pcre group="1">t=(.)</pcre></assign></read>`,
		`<read><length isvar="true">N</length></read>`,
	))
	got := generate(t, &Generator{}, pov)

	for _, want := range []string{
		"      read_00000_len = 4;\n",
		"      int read_00000_res = length_read(0, read_00000, read_00000_len);\n",
		"      static unsigned char match_00000_00000[] = \n         \"\\x41\";\n",
		"      read_00000_ptr += data_match(read_00000 + read_00000_ptr, read_00000_len - read_00000_ptr, match_00000_00000, 1);\n",
		"      //**** read match var V\n",
		"      read_00000_ptr += var_match(read_00000 + read_00000_ptr, read_00000_len - read_00000_ptr, \"V\");\n",
		"      /* read match pcre:\nB* /\n*/\n",
		"      static char read_00000_00002_regex[] = \n",
		"         int rc = regex_match(read_00000_00002_pcre, 0, read_00000 + read_00000_ptr, read_00000_len - read_00000_ptr, &read_00000_00002_match);\n",
		"      assign_from_slice(\"OUT\", read_00000, read_00000_len - read_00000_ptr, 1, 0, 1);\n",

		"      static unsigned char read_00001_delim[] = \n         \"\\x0a\";\n",
		"      int read_00001_res = delimited_read(0, &read_00001, &read_00001_len, read_00001_delim, 1);\n",
		"      //**** read assign to var \"T\" from pcre: t=(.)\n",
		"      assign_from_pcre(\"T\", read_00001, read_00001_len - read_00001_ptr, read_00001_regex, 1);\n",

		"      char *read_00002_len_var = (char*)getenv(\"N\", &read_00002_len_len);\n",
		"      read_00002_len = *(unsigned int*)read_00002_len_var;\n",
	} {
		assert.Contains(t, got, want)
	}
	assert.Equal(t, 3, strings.Count(got, "   } while (0);\n"))
}

// Invert is accepted but has no effect on the generated code.
func TestGenerateMatchInvertIgnored(t *testing.T) {
	read := func(attr string) string {
		return replay(`<read><delim>\n</delim><match` + attr + `><data>OK</data></match></read>`)
	}
	plain := mustBuild(t, &Builder{}, read(""))
	inverted := mustBuild(t, &Builder{}, read(` invert="true"`))
	require.True(t, inverted.Actions[0].(*Read).Invert)

	want := generate(t, &Generator{}, plain)
	got := generate(t, &Generator{}, inverted)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-plain +inverted):\n%s", diff)
	}
}

// A pcre match that fails, or a regex that doesn't compile at run
// time, is not fatal: the read carries on.
func TestGeneratePcreMatchNotFatal(t *testing.T) {
	pov := mustBuild(t, &Builder{}, replay(
		`<read><length>2</length><match><pcre>x+</pcre></match></read>`,
	))
	got := generate(t, &Generator{}, pov)

	assert.Contains(t, got, lines(
		`         if (rc > 0) {`,
		`            read_00000_ptr += read_00000_00000_match.match_end - read_00000_00000_match.match_start;`,
		`         }`,
		`         else {`,
		`            //a failed match is not fatal, keep going`,
		`         }`,
		`         pcre_free(read_00000_00000_pcre);`,
		`      }`,
		`      else {`,
		`         //a regex that fails to compile is not fatal either`,
		`      }`,
	))
	assert.NotContains(t, got, "rc <= 0")
	assert.NotContains(t, got, "_exit")
	assert.NotContains(t, got, "return ")
}

func TestGenerateDecl(t *testing.T) {
	pov := mustBuild(t, &Builder{}, replay(
		`<decl><var>A</var><value><data>x</data><var>B</var><substr><var>C</var><begin>2</begin></substr></value></decl>`,
	))
	got := generate(t, &Generator{}, pov)

	want := lines(
		`   do {`,
		`      //*** variable declaration for A`,
		`      static unsigned char dvar_00000000[] = `,
		`         "\x78";`,
		`      static unsigned int dvar_00000000_len = 1;`,
		`      unsigned char *var_00000 = NULL;`,
		`      unsigned int var_00000_len = 0;`,
		`      var_00000 = append_buf(var_00000, &var_00000_len, dvar_00000000, dvar_00000000_len);`,
		`      var_00000 = append_var("B", var_00000, &var_00000_len);`,
		`      var_00000 = append_slice("C", 2, 2147483647, var_00000, &var_00000_len);`,
		`      putenv("A", var_00000, var_00000_len);`,
		`      free(var_00000);`,
		`   } while (0);`,
	)
	assert.Contains(t, got, want)
}

func TestGenerateDeclValueSerials(t *testing.T) {
	pov := mustBuild(t, &Builder{}, replay(
		`<decl><var>A</var><value><var>B</var><substr><var>C</var></substr><data>x</data></value></decl>`,
		`<decl><var>D</var><value><data>y</data></value></decl>`,
	))
	got := generate(t, &Generator{}, pov)

	// Variable and substring parts use up serials too.
	assert.Contains(t, got, "      static unsigned char dvar_00000002[] = \n         \"\\x78\";\n")
	assert.Contains(t, got, "      static unsigned char dvar_00000003[] = \n         \"\\x79\";\n")
	assert.NotContains(t, got, "dvar_00000000")
}

func TestGenerateNegotiateSubmit(t *testing.T) {
	pov := mustBuild(t, &Builder{}, replay(
		`<negotiate><type1><ipmask>0xff</ipmask><regmask>0x10</regmask><regnum>7</regnum></type1></negotiate>`,
		`<submit/>`,
	))
	got := generate(t, &Generator{Header: "pov.h"}, pov)
	assert.Equal(t, lines(
		`#include <pov.h>`,
		`int main(void) {`,
		`   negotiate_type1(0xff, 0x10, 7);`,
		`}`,
	), got, "a type 1 submit renders nothing")

	pov = mustBuild(t, &Builder{}, replay(
		`<negotiate><type2/></negotiate>`,
		`<submit><var>FLAG</var></submit>`,
	))
	got = generate(t, &Generator{}, pov)
	assert.Contains(t, got, lines(
		`   negotiate_type2();`,
		`   //*** submitting type 2 POV results`,
		`   submit_type2("FLAG");`,
	))

	pov = mustBuild(t, &Builder{}, replay(`<negotiate><type2/></negotiate>`))
	got = generate(t, &Generator{}, pov)
	assert.Contains(t, got, "   submit_type2(NULL);\n")
}

func TestGenerateInternalErrors(t *testing.T) {
	var buf bytes.Buffer
	err := (&Generator{}).Generate(&buf, &PoV{
		Actions: []Action{&Submit{Type: PovUnresolved}},
	})
	assert.ErrorIs(t, err, ErrUnresolvedSubmit)

	err = (&Generator{}).Generate(&buf, &PoV{
		Actions: []Action{&Negotiate{Type: 3}},
	})
	assert.ErrorIs(t, err, ErrUnknownPovType)
}

type failingWriter struct{}

var errWrite = errors.New("disk full")

func (failingWriter) Write([]byte) (int, error) { return 0, errWrite }

func TestGenerateWriteError(t *testing.T) {
	pov := mustBuild(t, &Builder{}, replay(`<delay>1</delay>`))
	err := (&Generator{}).Generate(failingWriter{}, pov)
	assert.ErrorIs(t, err, errWrite)
}

func TestGenerateDeterministic(t *testing.T) {
	a, err := ExamplePoV(context.Background())
	require.NoError(t, err)
	b, err := ExamplePoV(context.Background())
	require.NoError(t, err)
	assert.Equal(t, generate(t, &Generator{}, a), generate(t, &Generator{}, b))
}

func TestGenerateQuoting(t *testing.T) {
	pov := &PoV{
		Actions: []Action{
			&Write{Segments: []Segment{{IsVar: true, Var: "a\"b\\c\n?"}}},
			&Read{
				Term:   ByLength,
				Assign: &Assign{Var: "x\ny", Pcre: pattern.MustCompile("a\nb\\\\", 0)},
			},
		},
	}
	got := generate(t, &Generator{}, pov)
	assert.Contains(t, got, `append_var("a\"b\\c\012\?", write_00000, &write_00000_len);`)
	assert.Contains(t, got, "      //**** read assign to var \"x y\" from pcre: a b\n")
}

func TestCString(t *testing.T) {
	tests := map[string]string{
		"":       `""`,
		"plain":  `"plain"`,
		`q"`:     `"q\""`,
		"\x00A1": `"\000A1"`,
		"\xff":   `"\377"`,
	}
	for in, want := range tests {
		assert.Equal(t, want, cString(in), in)
	}
}
