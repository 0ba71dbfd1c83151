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
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
)

// fileConfig is the povgen.toml key mapping.
type fileConfig struct {
	Header   string `toml:"header"`
	Echo     bool   `toml:"echo"`
	Timeout  int64  `toml:"timeout"`
	Cache    string `toml:"cache"`
	LogLevel string `toml:"log_level"`
}

// Options are the settings for a run.
type Options struct {
	Input    onceString
	Output   onceString
	Timeout  onceString
	Verify   onceBool
	Echo     bool
	Cache    string
	Header   string
	Config   string
	LogLevel string
}

// loadConfig overlays settings from a TOML file.  Only keys that the
// file defines are used, and flags given on the command line win.
func loadConfig(path string, opts *Options, flags *pflag.FlagSet) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load povgen config: %w", err)
	}
	if undecoded := meta.Undecoded(); 0 < len(undecoded) {
		return fmt.Errorf("load povgen config: unknown key %q", undecoded[0].String())
	}

	given := func(flag string) bool {
		f := flags.Lookup(flag)
		return f != nil && f.Changed
	}

	if meta.IsDefined("header") && !given("header") {
		opts.Header = strings.TrimSpace(raw.Header)
	}
	if meta.IsDefined("echo") && !given("echo") {
		opts.Echo = raw.Echo
	}
	if meta.IsDefined("timeout") && !given("timeout") {
		opts.Timeout.value = strconv.FormatInt(raw.Timeout, 10)
	}
	if meta.IsDefined("cache") && !given("cache") {
		opts.Cache = strings.TrimSpace(raw.Cache)
	}
	if meta.IsDefined("log_level") && !given("log-level") {
		opts.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	return nil
}
