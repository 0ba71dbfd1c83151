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
	"bytes"
	"context"
	"testing"

	"github.com/Comcast/povgen/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMermaid(t *testing.T) {
	pov, err := core.ExamplePoV(context.Background())
	require.NoError(t, err)

	t.Run("defaults", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Mermaid(pov, &buf, nil))
		got := buf.String()

		for _, want := range []string{
			"graph TB\n",
			"  n0([\"negotiate type 2\"])\n",
			"  n1[\"write 0: #quot;HELLO\\n#quot;\"]\n",
			"  style n1 fill:#bcf2db\n",
			"  n5{{\"delay 100 ms\"}}\n",
			"  n0 --> n1\n",
			"  n2 -. TOKEN .-> n3\n",
			"  n6 -. SECRET .-> n7\n",
		} {
			assert.Contains(t, got, want)
		}
	})

	t.Run("terse", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Mermaid(pov, &buf, &MermaidOpts{ActionClass: "io"}))
		got := buf.String()

		assert.Contains(t, got, "  n1[\"write\"]\n")
		assert.Contains(t, got, "  class n1 io\n")
		assert.NotContains(t, got, "style")
		assert.NotContains(t, got, "-.")
	})
}
