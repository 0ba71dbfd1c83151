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

// Most of these errors are user errors: something is wrong with the
// specification.  ErrUnresolvedSubmit and ErrUnknownPovType are
// internal errors.

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Comcast/povgen/pattern"
	"go.uber.org/multierr"
)

var (
	// ErrParseTimeout occurs when loading and building a PoV runs
	// past its deadline.  A timeout aborts the build at once.
	ErrParseTimeout = errors.New("parse timeout")

	// ErrNoRoot occurs when the tree handed to Build isn't rooted
	// at a cfepov element.
	ErrNoRoot = errors.New("missing cfepov root element")

	// ErrNoReplay occurs when the root has no replay element.
	ErrNoReplay = errors.New("missing replay element")

	// ErrMissing occurs when a required element is absent.
	ErrMissing = errors.New("missing element")

	// ErrConflict occurs when elements that exclude each other are
	// both present.
	ErrConflict = errors.New("conflicting elements")

	// ErrOutOfRange occurs when a number is well-formed but
	// outside of its allowed range.
	ErrOutOfRange = errors.New("out of range")

	// ErrUnresolvedSubmit occurs when a Submit reaches the
	// generator without its PoV type having been resolved.
	ErrUnresolvedSubmit = errors.New("submit with unresolved pov type")

	// ErrUnknownPovType occurs when a Negotiate reaches the
	// generator with a type other than 1 or 2.
	ErrUnknownPovType = errors.New("unknown pov type")
)

// ParseError reports a problem with one element of a specification.
type ParseError struct {
	// Tag is the element's name.
	Tag string

	// Line is where the element starts.
	Line int

	// Msg is a human-readable diagnostic.
	Msg string

	// Err is the underlying cause, if any.
	Err error
}

func (e *ParseError) Error() string {
	s := e.Msg + " in <" + e.Tag + "> element at line " + strconv.Itoa(e.Line)
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// BuildError reports that one or more actions of a PoV could not be
// built.
type BuildError struct {
	// Count is the number of actions that failed.
	Count int

	// Err combines the ParseErrors of the failed actions.
	Err error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("%d pov specification error(s): %v", e.Count, e.Err)
}

// Unwrap gives each action's error.
func (e *BuildError) Unwrap() []error {
	return multierr.Errors(e.Err)
}

// TimeoutErr maps the errors that mean "ran out of time" to
// ErrParseTimeout.  Other errors are returned unchanged.
func TimeoutErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrParseTimeout):
		return err
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, pattern.ErrMatchBudget):
		return fmt.Errorf("%w: %v", ErrParseTimeout, err)
	}
	return err
}
