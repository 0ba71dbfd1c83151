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
	"fmt"
	"io"

	"go.uber.org/zap"
)

// DefaultHeader is the runtime library header included by generated
// code.
const DefaultHeader = "libpov.h"

// Generator writes the C program for a PoV.
type Generator struct {
	// Header is the header to #include.  Empty means
	// DefaultHeader.
	Header string

	Logger *zap.Logger
}

// Generate writes the program: the preamble, each action in order,
// and the postamble.
//
// An action that can't be rendered (a Submit with an unresolved type,
// say) is an internal error.  Output written before the error is not
// retracted, so callers that care should buffer.
func (g *Generator) Generate(w io.Writer, pov *PoV) error {
	header := DefaultHeader
	log := zap.NewNop()
	if g != nil {
		if g.Header != "" {
			header = g.Header
		}
		if g.Logger != nil {
			log = g.Logger
		}
	}

	e := &emitter{w: w}
	e.printf("#include <%s>\n", header)
	e.printf("int main(void) {\n")

	for _, a := range pov.Actions {
		var err error
		switch a := a.(type) {
		case *Write, *Read, *Delay, *Declare, *Negotiate, *Submit:
			err = a.render(e)
		default:
			err = fmt.Errorf("unknown action %T", a)
		}
		if err != nil {
			log.Error("generation failed",
				zap.String("kind", a.Kind()),
				zap.Int("line", a.Line()),
				zap.Error(err))
			return err
		}
	}

	e.printf("}\n")
	if e.err != nil {
		return e.err
	}

	log.Debug("generated", zap.Int("actions", len(pov.Actions)), zap.String("header", header))
	return nil
}
