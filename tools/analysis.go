/* Copyright 2018 Comcast Cable Communications Management, LLC
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

package tools

import (
	"fmt"
	"sort"

	"github.com/Comcast/povgen/core"
	"gopkg.in/yaml.v2"
)

// PoVAnalysis is what Analyze found.
type PoVAnalysis struct {
	pov *core.PoV

	// Type is the resolved PoV type.
	Type int `yaml:"type"`

	// Actions is the total number of actions.
	Actions int `yaml:"actions"`

	// Counts is the number of actions of each kind.
	Counts map[string]int `yaml:"counts"`

	// Defined are the variables set by decls or read assignments.
	Defined []string `yaml:"defined,omitempty"`

	// Used are the variables that actions read.
	Used []string `yaml:"used,omitempty"`

	// UsedBeforeDefined are variables read by some action before
	// any action sets them.  These have to come from the
	// environment, which is probably a mistake.
	UsedBeforeDefined []string `yaml:"usedBeforeDefined,omitempty"`

	// Unused are variables that are set but never read.
	Unused []string `yaml:"unused,omitempty"`

	Warnings []string `yaml:"warnings,omitempty"`
}

// Analyze looks over a PoV for things that are probably wrong but
// aren't errors.
func Analyze(pov *core.PoV) (*PoVAnalysis, error) {
	if pov == nil {
		return nil, fmt.Errorf("no pov to analyze")
	}

	a := PoVAnalysis{
		pov:     pov,
		Type:    int(pov.Type),
		Actions: len(pov.Actions),
		Counts:  make(map[string]int),
	}

	var (
		defined     = make(map[string]bool)
		used        = make(map[string]bool)
		early       = make(map[string]bool)
		negotiates  int
		userSubmits int
	)

	for _, x := range pov.Actions {
		a.Counts[x.Kind()]++
		for _, v := range uses(x) {
			used[v] = true
			if !defined[v] {
				early[v] = true
			}
		}
		if v, have := defines(x); have {
			defined[v] = true
		}
		switch x := x.(type) {
		case *core.Negotiate:
			negotiates++
		case *core.Submit:
			if !x.Synthesized {
				userSubmits++
			}
		case *core.Read:
			if x.Term == core.ByDelim && len(x.Delim) == 0 {
				a.Warnings = append(a.Warnings,
					fmt.Sprintf("read %d at line %d has an empty delimiter", x.ID, x.Line()))
			}
			if x.Invert {
				a.Warnings = append(a.Warnings,
					fmt.Sprintf("read %d at line %d: invert has no effect", x.ID, x.Line()))
			}
		}
	}

	if 1 < negotiates {
		a.Warnings = append(a.Warnings,
			fmt.Sprintf("%d negotiations; only the last one counts", negotiates))
	}
	if 0 < userSubmits && pov.Type != core.PovType2 {
		a.Warnings = append(a.Warnings,
			fmt.Sprintf("submit in a type %d pov does nothing", pov.Type))
	}

	unused := make(map[string]bool)
	for v := range defined {
		if !used[v] {
			unused[v] = true
		}
	}

	a.Defined = keysToStringSlice(defined)
	a.Used = keysToStringSlice(used)
	a.UsedBeforeDefined = keysToStringSlice(early)
	a.Unused = keysToStringSlice(unused)

	return &a, nil
}

// YAML renders the analysis.
func (a *PoVAnalysis) YAML() ([]byte, error) {
	return yaml.Marshal(a)
}

// keysToStringSlice gives the sorted keys of a map.  If the map is
// empty and a default is given, the result is just that default.
func keysToStringSlice(m map[string]bool, defaultValue ...string) []string {
	var list []string
	for key := range m {
		list = append(list, key)
	}
	sort.Strings(list)

	if len(list) == 0 && len(defaultValue) > 0 {
		return []string{defaultValue[0]}
	}

	return list
}
