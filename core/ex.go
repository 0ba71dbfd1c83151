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
	"context"
	"strings"

	"github.com/Comcast/povgen/node"
)

// ExampleXML is a small type 2 PoV specification that's useful to
// have around.
//
// It sends a greeting, reads a banner, pulls a token out of the
// banner, echoes the token back and submits what the service
// answers.
const ExampleXML = `<?xml version="1.0" standalone="no" ?>
<!DOCTYPE cfepov SYSTEM "/usr/share/cgc-docs/cfe-pov.dtd">
<cfepov>
<cbid>service</cbid>
<replay>
  <negotiate><type2/></negotiate>
  <write><data>HELLO\n</data></write>
  <read>
    <delim>\n</delim>
    <match><data>TOKEN=</data></match>
    <assign><var>TOKEN</var><pcre group="1">TOKEN=([0-9a-f]+)</pcre></assign>
  </read>
  <decl>
    <var>REPLY</var>
    <value><data>ECHO </data><var>TOKEN</var><data>\n</data></value>
  </decl>
  <write><var>REPLY</var></write>
  <delay>100</delay>
  <read>
    <length>4</length>
    <assign><var>SECRET</var><slice begin="0"/></assign>
  </read>
  <submit><var>SECRET</var></submit>
</replay>
</cfepov>
`

// ExamplePoV builds ExampleXML.
func ExamplePoV(ctx context.Context) (*PoV, error) {
	root, err := node.LoadXML(ctx, strings.NewReader(ExampleXML))
	if err != nil {
		return nil, err
	}
	return (&Builder{}).Build(ctx, root)
}
