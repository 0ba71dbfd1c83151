/* Copyright 2018-2019 Comcast Cable Communications Management, LLC
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

// Package main is a little command-line utility to try a read
// pattern against some data.
//
//	povmatch -p 'TOKEN=([0-9a-f]+)' -g 1 -m 'TOKEN=beef\n'
//	povmatch -p 'ab*' --hex -m 616262630a -w 616262
//
// The output is the match as JSON, or null when there isn't one.
// Match data is given as hex when --hex is set or when the data
// isn't valid UTF-8.
// With -w, the output is instead true or false depending on whether
// the match's data is what's wanted.
package main

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"
	"unicode/utf8"

	"github.com/Comcast/povgen/core"
	"github.com/Comcast/povgen/decode"
	"github.com/Comcast/povgen/pattern"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
)

// Result is what's printed for a match.
type Result struct {
	Data   string `json:"data"`
	Hex    bool   `json:"hex,omitempty"`
	End    int    `json:"end"`
	Groups int    `json:"groups"`
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, core.ErrParseTimeout) {
			os.Exit(30)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	var (
		fs = flag.NewFlagSet("povmatch", flag.ContinueOnError)

		patternSrc = fs.StringP("pattern", "p", "", "regular expression")
		messageSrc = fs.StringP("message", "m", "", "data to match, with C escapes")
		wantSrc    = fs.StringP("want", "w", "", "wanted match data")
		group      = fs.IntP("group", "g", 0, "capture group to report")
		isHex      = fs.Bool("hex", false, "data is given as hex")
		budget     = fs.Duration("budget", core.DefaultDeadline, "time budget for a match")

		bench = fs.Int("bench", 0, "number of times to run (and report time)")

		verbose = fs.BoolP("verbose", "v", false, "verbosity")
	)
	fs.SetOutput(stderr)

	if err := fs.Parse(args); err != nil {
		return err
	}

	logger := zap.NewNop()
	if *verbose {
		var err error
		if logger, err = zap.NewDevelopment(); err != nil {
			return err
		}
		defer logger.Sync()
	}

	p, err := pattern.Compile(*patternSrc, *group)
	if err != nil {
		return err
	}
	logger.Debug("compiled", zap.String("pattern", p.Source), zap.Int("groups", p.Groups))

	data := func(s string) ([]byte, error) {
		if *isHex {
			return decode.HexString(s)
		}
		return decode.EscapesString(s)
	}

	message, err := data(*messageSrc)
	if err != nil {
		return err
	}

	if 0 < *bench {
		var stats runtime.MemStats
		runtime.ReadMemStats(&stats)
		allocs := stats.TotalAlloc
		then := time.Now()
		for i := 0; i < *bench; i++ {
			if _, err := p.Match(message, *budget); err != nil {
				return core.TimeoutErr(err)
			}
		}
		elapsed := time.Since(then)
		meanNanos := elapsed.Nanoseconds() / int64(*bench)

		runtime.ReadMemStats(&stats)
		allocated := (stats.TotalAlloc - allocs) / uint64(*bench)

		fmt.Fprintf(stderr, "%d iterations, %d mean ns/Match, %d mean bytes allocated per Match\n",
			*bench, meanNanos, allocated)
	}

	m, err := p.Match(message, *budget)
	if err != nil {
		return core.TimeoutErr(err)
	}
	logger.Debug("matched", zap.Bool("found", m != nil))

	if fs.Changed("want") {
		want, err := data(*wantSrc)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%t\n", m != nil && string(m.Data) == string(want))
		return nil
	}

	var r *Result
	if m != nil {
		r = &Result{
			End:    m.End,
			Groups: p.Groups,
		}
		if *isHex || !utf8.Valid(m.Data) {
			r.Data = hex.EncodeToString(m.Data)
			r.Hex = true
		} else {
			r.Data = string(m.Data)
		}
	}

	js, err := json.Marshal(r)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s\n", js)
	return nil
}
