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

// Package povtest has helpers for tests that need built PoVs.  Only
// _test.go files should import it.
package povtest

import (
	"context"
	"strings"
	"testing"

	"github.com/Comcast/povgen/core"
	"github.com/Comcast/povgen/node"
)

// Replay wraps the given action elements in a minimal cfepov
// document.
func Replay(actions ...string) string {
	return "<cfepov>\n<replay>\n" + strings.Join(actions, "\n") + "\n</replay>\n</cfepov>\n"
}

// PoV loads and builds the given XML document, failing the test if
// anything goes wrong.
func PoV(t testing.TB, doc string) *core.PoV {
	t.Helper()
	ctx := context.Background()
	root, err := node.LoadXML(ctx, strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	pov, err := (&core.Builder{}).Build(ctx, root)
	if err != nil {
		t.Fatal(err)
	}
	return pov
}
