/* Copyright 2018 Comcast Cable Communications Management, LLC
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
	"context"
	"testing"

	"github.com/Comcast/povgen/core"
	. "github.com/Comcast/povgen/util/testutil/povtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func TestAnalysis(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pov, err := core.ExamplePoV(ctx)
	if err != nil {
		t.Fatal(err)
	}

	a, err := Analyze(pov)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, 2, a.Type)
	assert.Equal(t, 8, a.Actions)
	assert.Equal(t, map[string]int{
		"negotiate": 1,
		"write":     2,
		"read":      2,
		"decl":      1,
		"delay":     1,
		"submit":    1,
	}, a.Counts)
	assert.Equal(t, []string{"REPLY", "SECRET", "TOKEN"}, a.Defined)
	assert.Equal(t, []string{"REPLY", "SECRET", "TOKEN"}, a.Used)
	assert.Empty(t, a.UsedBeforeDefined)
	assert.Empty(t, a.Unused)
	assert.Empty(t, a.Warnings)
}

func TestAnalysisProblems(t *testing.T) {
	pov := PoV(t, Replay(
		`<write><var>EARLY</var></write>`,
		`<negotiate><type2/></negotiate>`,
		`<read><delim></delim></read>`,
		`<read><length>1</length><match invert="true"><data>x</data></match>`+
			`<assign><var>EARLY</var><slice begin="0"/></assign></read>`,
		`<decl><var>LONELY</var><value><data>z</data></value></decl>`,
		`<negotiate><type1><ipmask>1</ipmask><regmask>1</regmask><regnum>0</regnum></type1></negotiate>`,
		`<submit/>`,
	))

	a, err := Analyze(pov)
	require.NoError(t, err)

	assert.Equal(t, 1, a.Type)
	assert.Equal(t, []string{"EARLY"}, a.UsedBeforeDefined)
	assert.Equal(t, []string{"LONELY"}, a.Unused)
	assert.Equal(t, []string{
		"read 0 at line 5 has an empty delimiter",
		"read 1 at line 6: invert has no effect",
		"2 negotiations; only the last one counts",
		"submit in a type 1 pov does nothing",
	}, a.Warnings)
}

func TestAnalysisSynthesizedSubmit(t *testing.T) {
	pov := PoV(t, Replay(`<negotiate><type2/></negotiate>`))
	a, err := Analyze(pov)
	require.NoError(t, err)
	assert.Equal(t, 1, a.Counts["submit"])
	assert.Empty(t, a.Warnings)
}

func TestAnalysisYAML(t *testing.T) {
	pov, err := core.ExamplePoV(context.Background())
	require.NoError(t, err)
	a, err := Analyze(pov)
	require.NoError(t, err)

	bs, err := a.YAML()
	require.NoError(t, err)

	var back map[string]interface{}
	require.NoError(t, yaml.Unmarshal(bs, &back))
	assert.Equal(t, 2, back["type"])
	assert.Equal(t, 8, back["actions"])
	assert.NotContains(t, back, "warnings")
}

func TestAnalysisNil(t *testing.T) {
	_, err := Analyze(nil)
	assert.Error(t, err)
}
