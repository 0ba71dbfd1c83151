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

// Serials hands out the serial numbers that name the symbols of the
// generated code.
//
// Each variant has its own counter, so the first Write and the first
// Read are both number 0.  A Serials belongs to one compilation; two
// compilations never share one.
type Serials struct {
	write, read, decl, value int
}

func next(p *int) int {
	n := *p
	*p++
	return n
}

// Write gives the next Write serial.
func (s *Serials) Write() int { return next(&s.write) }

// Read gives the next Read serial.
func (s *Serials) Read() int { return next(&s.read) }

// Decl gives the next Declare serial.
func (s *Serials) Decl() int { return next(&s.decl) }

// Value gives the next serial for a part of a Declare value.
func (s *Serials) Value() int { return next(&s.value) }
