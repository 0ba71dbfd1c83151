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
	"github.com/Comcast/povgen/node"
)

// Delay pauses for some milliseconds.
type Delay struct {
	origin

	Millis uint32
}

func (*Delay) Kind() string { return "delay" }

func (p *parser) parseDelay(n *node.Node) (*Delay, error) {
	ps := &problems{p: p}
	if n.Text == "" {
		ps.add(n, "element contains no data", node.ErrInvalidUnsignedInt)
		return nil, ps.result(n)
	}
	ms, err := node.ParseUint(n.Text, 10)
	if err != nil {
		ps.add(n, "expected one unsigned integer", err)
		return nil, ps.result(n)
	}
	return &Delay{
		origin: origin{n.Line},
		Millis: ms,
	}, nil
}

func (d *Delay) render(e *emitter) error {
	e.printf("   //*** delay\n")
	e.printf("   delay(%d);\n", d.Millis)
	return e.err
}
