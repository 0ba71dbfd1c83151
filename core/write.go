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

// Segment is one piece of a Write: literal bytes or the value of a
// variable.
type Segment struct {
	// IsVar says whether the segment is a variable reference.
	IsVar bool

	// Var is the variable's name when IsVar.
	Var string

	// Data is the literal when not IsVar.
	Data []byte
}

// Write sends data to the service.
type Write struct {
	origin

	// ID is the Write's serial number.
	ID int

	Segments []Segment

	Echo EchoMode
}

func (*Write) Kind() string { return "write" }

// parseWrite builds a Write.
//
// Adjacent data elements accumulate into one literal segment.  A var
// element ends the current literal, so data after it starts a new
// segment.  Data elements without text are skipped.
func (p *parser) parseWrite(n *node.Node) (*Write, error) {
	w := &Write{
		origin: origin{n.Line},
		ID:     p.serials.Write(),
		Echo:   p.echoMode(n),
	}
	ps := &problems{p: p}

	cur := -1
	for _, c := range n.Children {
		switch c.Name {
		case "data":
			if c.Text == "" {
				continue
			}
			if cur < 0 {
				w.Segments = append(w.Segments, Segment{Data: []byte{}})
				cur = len(w.Segments) - 1
			}
			bs, err := bytesOf(c)
			if err != nil {
				ps.add(c, "invalid hex data", err)
				continue
			}
			w.Segments[cur].Data = append(w.Segments[cur].Data, bs...)
		case "var":
			w.Segments = append(w.Segments, Segment{
				IsVar: true,
				Var:   c.Text,
			})
			cur = -1
		}
	}

	if err := ps.result(n); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Write) render(e *emitter) error {
	id := w.ID
	e.printf("   do {\n")
	e.printf("      //*** writing data\n")
	for i, s := range w.Segments {
		if s.IsVar {
			continue
		}
		e.printf("      static unsigned char write_%05d_%05d[] = \n", id, i)
		e.hexLiteral(s.Data)
		e.printf("      static unsigned int write_%05d_%05d_len = %d;\n", id, i, len(s.Data))
	}

	e.printf("      unsigned char *write_%05d = NULL;\n", id)
	e.printf("      unsigned int write_%05d_len = 0;\n", id)

	for i, s := range w.Segments {
		if s.IsVar {
			e.printf("      write_%05d = append_var(%s, write_%05d, &write_%05d_len);\n",
				id, cString(s.Var), id, id)
			continue
		}
		e.printf("      write_%05d = append_buf(write_%05d, &write_%05d_len, write_%05d_%05d, write_%05d_%05d_len);\n",
			id, id, id, id, i, id, i)
	}

	e.printf("      if (write_%05d_len > 0) {\n", id)
	e.printf("         transmit_all(1, write_%05d, write_%05d_len);\n", id, id)
	e.printf("      }\n")
	e.printf("      free(write_%05d);\n", id)
	e.printf("   } while (0);\n")
	return e.err
}
