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
	"errors"
	"time"

	"github.com/Comcast/povgen/node"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// DefaultDeadline is the default bound on loading plus building.
var DefaultDeadline = 10 * time.Second

// Builder turns a specification tree into a PoV.
type Builder struct {
	// Logger receives a diagnostic for every defect found.  Nil
	// means no logging.
	Logger *zap.Logger

	// EchoEnabled turns on parsing of echo attributes.
	EchoEnabled bool
}

func (b *Builder) logger() *zap.Logger {
	if b == nil || b.Logger == nil {
		return zap.NewNop()
	}
	return b.Logger
}

// Build walks the replay element of root and builds an action for
// each of its children.
//
// A child that fails to build is counted and the walk continues.  An
// expired context stops the walk at once with ErrParseTimeout (or the
// context's error if it was canceled).  Children with unknown tags are
// skipped.
//
// When any child failed, Build returns a *BuildError along with a PoV
// holding the actions that did build.
func (b *Builder) Build(ctx context.Context, root *node.Node) (*PoV, error) {
	if root == nil || root.Name != node.RootTag {
		return nil, ErrNoRoot
	}
	replay := root.Child("replay")
	if replay == nil {
		return nil, ErrNoReplay
	}

	log := b.logger()
	p := &parser{
		serials: &Serials{},
		logger:  log,
		echo:    b != nil && b.EchoEnabled,
	}
	pov := &PoV{
		Service: root.Child("cbid").Content(),
	}

	var (
		errs      error
		count     int
		isType2   bool
		hasSubmit bool
	)

	for _, c := range replay.Children {
		if err := ctx.Err(); err != nil {
			return nil, TimeoutErr(err)
		}

		var (
			a   Action
			err error
		)
		switch c.Name {
		case "write":
			a, err = p.parseWrite(c)
		case "read":
			a, err = p.parseRead(c)
		case "delay":
			a, err = p.parseDelay(c)
		case "decl":
			a, err = p.parseDecl(c)
		case "negotiate":
			var neg *Negotiate
			if neg, err = p.parseNegotiate(c); err == nil {
				isType2 = neg.Type == PovType2
				a = neg
			}
		case "submit":
			if a, err = p.parseSubmit(c); err == nil {
				hasSubmit = true
			}
		default:
			log.Debug("skipping element", zap.String("tag", c.Name), zap.Int("line", c.Line))
			continue
		}

		if err != nil {
			if errors.Is(err, ErrParseTimeout) {
				return nil, err
			}
			count++
			errs = multierr.Append(errs, err)
			continue
		}
		pov.Actions = append(pov.Actions, a)
	}

	if isType2 && !hasSubmit {
		pov.Actions = append(pov.Actions, &Submit{
			origin:      origin{replay.Line},
			Type:        PovUnresolved,
			Synthesized: true,
		})
	}

	finalize(pov)

	log.Debug("built pov",
		zap.Int("actions", len(pov.Actions)),
		zap.Int("errors", count),
		zap.Int("type", int(pov.Type)))

	if 0 < count {
		return pov, &BuildError{
			Count: count,
			Err:   errs,
		}
	}
	return pov, nil
}

// finalize resolves the PoV type.  The last Negotiate decides, no
// matter where the Submits are.
func finalize(pov *PoV) {
	t := PovNone
	for _, a := range pov.Actions {
		if neg, is := a.(*Negotiate); is {
			t = neg.Type
		}
	}
	pov.Type = t
	for _, a := range pov.Actions {
		if s, is := a.(*Submit); is {
			s.Type = t
		}
	}
}
