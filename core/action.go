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
	"github.com/Comcast/povgen/decode"
	"github.com/Comcast/povgen/node"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Action is one step of a PoV.
//
// The set of actions is closed: Write, Read, Delay, Declare,
// Negotiate and Submit.  Code that handles actions should use a type
// switch over exactly those types.
type Action interface {
	// Kind is the name of the element the action came from.
	Kind() string

	// Line is the source line of that element.
	Line() int

	// render emits the action's C code.
	render(e *emitter) error
}

// origin records where an action came from.
type origin struct {
	line int
}

func (o origin) Line() int { return o.line }

// EchoMode says how a Write or Read would like its data echoed.
type EchoMode int

const (
	EchoNone EchoMode = iota
	EchoRaw
	EchoASCII
)

func (m EchoMode) String() string {
	switch m {
	case EchoRaw:
		return "yes"
	case EchoASCII:
		return "ascii"
	}
	return "no"
}

// PovType is the kind of proof negotiated by a PoV.
type PovType int

const (
	// PovUnresolved is the type of a Submit before the build
	// finishes.
	PovUnresolved PovType = -1

	// PovNone is the type of a PoV without a Negotiate.
	PovNone PovType = 0

	PovType1 PovType = 1
	PovType2 PovType = 2
)

// PoV is a built specification: the ordered actions plus the
// resolved PoV type.
type PoV struct {
	// Service is the text of the cbid element, which is otherwise
	// ignored.
	Service string

	// Type is the type from the last Negotiate, or PovNone.
	Type PovType

	Actions []Action
}

// parser holds what the action constructors share.
type parser struct {
	serials *Serials
	logger  *zap.Logger
	echo    bool
}

// problems accumulates the defects found while constructing one
// action.
type problems struct {
	p   *parser
	err error
}

// add records a defect at element n.
func (ps *problems) add(n *node.Node, msg string, err error) {
	pe := &ParseError{
		Msg: msg,
		Err: err,
	}
	if n != nil {
		pe.Tag, pe.Line = n.Name, n.Line
	}
	fields := []zap.Field{
		zap.String("tag", pe.Tag),
		zap.Int("line", pe.Line),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	ps.p.logger.Error(msg, fields...)
	ps.err = multierr.Append(ps.err, pe)
}

// result gives nil if there were no defects or else one ParseError
// for the whole action.
func (ps *problems) result(n *node.Node) error {
	if ps.err == nil {
		return nil
	}
	return &ParseError{
		Tag:  n.Name,
		Line: n.Line,
		Msg:  "error parsing",
		Err:  ps.err,
	}
}

// echoMode reads the echo attribute, which is only honored when echo
// parsing is enabled.
func (p *parser) echoMode(n *node.Node) EchoMode {
	if !p.echo {
		return EchoNone
	}
	v, have := n.Attr("echo")
	switch {
	case !have, v == "no":
		return EchoNone
	case v == "yes":
		return EchoRaw
	}
	return EchoASCII
}

// bytesOf decodes the text of a data-like element according to its
// format attribute.
func bytesOf(n *node.Node) ([]byte, error) {
	if n.AttrIs("format", "hex") {
		return decode.HexString(n.Text)
	}
	return decode.EscapesString(n.Text)
}
