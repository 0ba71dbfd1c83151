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

package main

import (
	"errors"
	"strconv"
	"time"

	"github.com/Comcast/povgen/core"
	"github.com/Comcast/povgen/node"

	"github.com/spf13/pflag"
)

var errOnce = errors.New("may be specified only once")

// onceString is a string flag that can't be repeated.
type onceString struct {
	value string
	set   bool
}

var _ pflag.Value = (*onceString)(nil)

func (s *onceString) String() string { return s.value }

func (s *onceString) Type() string { return "string" }

func (s *onceString) Set(v string) error {
	if s.set {
		return errOnce
	}
	s.value, s.set = v, true
	return nil
}

// onceBool is a bool flag that can't be repeated.
type onceBool struct {
	value bool
	set   bool
}

var _ pflag.Value = (*onceBool)(nil)

func (b *onceBool) String() string { return strconv.FormatBool(b.value) }

func (b *onceBool) Type() string { return "bool" }

func (b *onceBool) Set(v string) error {
	if b.set {
		return errOnce
	}
	x, err := strconv.ParseBool(v)
	if err != nil {
		return err
	}
	b.value, b.set = x, true
	return nil
}

// boolFlag registers a onceBool that doesn't need an argument.
func boolFlag(fs *pflag.FlagSet, b *onceBool, name, shorthand, usage string) {
	fs.VarPF(b, name, shorthand, usage).NoOptDefVal = "true"
}

// parseDeadline interprets the -t value: whole seconds, where zero
// means no deadline.  An empty value gives core.DefaultDeadline.
func parseDeadline(s string) (time.Duration, error) {
	if s == "" {
		return core.DefaultDeadline, nil
	}
	secs, err := node.ParseUint(s, 10)
	if err != nil {
		return 0, err
	}
	return time.Duration(secs) * time.Second, nil
}
