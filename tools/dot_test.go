/* Copyright 2018-2019 Comcast Cable Communications Management, LLC
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
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Comcast/povgen/core"
	. "github.com/Comcast/povgen/util/testutil/povtest"
	"github.com/stretchr/testify/assert"
)

func TestDot(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "g.dot")

	out, err := os.Create(filename)
	if err != nil {
		t.Fatal(err)
	}
	defer out.Close()

	pov, err := core.ExamplePoV(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if err := Dot(pov, out); err != nil {
		t.Fatal(err)
	}

	bs, err := os.ReadFile(filename)
	if err != nil {
		t.Fatal(err)
	}
	got := string(bs)

	assert.True(t, strings.HasPrefix(got, "digraph G {\n"))
	assert.True(t, strings.HasSuffix(got, "}\n"))
	for _, want := range []string{
		`  a0 [shape="note", style="filled", fillcolor="#f9d78b", label="negotiate type 2" ]`,
		`  a1 [shape="record", style="rounded,filled", fillcolor="#99ddc8", label="write 0: \"HELLO\\n\"" ]`,
		`  a0 -> a1`,
		`  a6 -> a7`,
		`  a2 -> a3 [ style="dashed" color="gray" constraint=false label="TOKEN" ]`,
		`  a3 -> a4 [ style="dashed" color="gray" constraint=false label="REPLY" ]`,
		`  a6 -> a7 [ style="dashed" color="gray" constraint=false label="SECRET" ]`,
	} {
		assert.Contains(t, got, want+"\n")
	}
	assert.Equal(t, 3, strings.Count(got, "dashed"))
}

func TestDotEscapes(t *testing.T) {
	pov := PoV(t, Replay(
		`<negotiate><type2/></negotiate>`,
		`<write><data>{x}</data></write>`,
		`<read><length>1</length><assign><var>X</var><pcre>a|b</pcre></assign></read>`,
	))
	var buf bytes.Buffer
	if err := Dot(pov, &buf); err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	assert.Contains(t, got, `label="write 0: \"\{x\}\"" ]`)
	assert.Contains(t, got, `label="read 0: 1 bytes, $X = /a\|b/ group 0" ]`)
	assert.Contains(t, got, `style="rounded,filled,dashed", fillcolor="#f98b8b", label="submit (implicit)"`)
}

func TestDotNil(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Dot(nil, &buf))
}

func TestPNG(t *testing.T) {
	if _, err := exec.LookPath("dot"); err != nil {
		t.Skip("dot isn't installed")
	}
	// Shell metacharacters in the name are just part of the name.
	pov, err := core.ExamplePoV(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	base := filepath.Join(t.TempDir(), "g; touch pwned")
	name, err := PNG(pov, base)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, base+".png", name)
	assert.FileExists(t, base+".dot")
	info, err := os.Stat(name)
	if err != nil {
		t.Fatal(err)
	}
	assert.True(t, 0 < info.Size())
	assert.NoFileExists(t, "pwned")
}

func TestPNGBadDir(t *testing.T) {
	pov, err := core.ExamplePoV(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	_, err = PNG(pov, filepath.Join(t.TempDir(), "missing", "g"))
	assert.Error(t, err)
}
