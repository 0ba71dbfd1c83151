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

// Package main is povgen, which compiles a PoV specification into a
// C program.
//
//	povgen -x pov.xml -o pov.c
//	povgen -v -x pov.yaml
//	povgen dot -x pov.xml | dot -Tpng > pov.png
//
// The exit code says what went wrong:
//
//	 0 success
//	10 the specification doesn't follow the PoV grammar
//	11 the specification isn't well-formed
//	12 the specification has bad content
//	13 the specification file doesn't exist
//	14 invalid option
//	19 the specification file couldn't be read
//	30 parsing took too long
//	31 invalid -t value
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Comcast/povgen/util"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, nil); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "povgen: "+exitErr.Error())
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, "povgen: "+err.Error())
		os.Exit(ReasonFailure)
	}
}

// App is one invocation of povgen.
type App struct {
	Opts   Options
	Stdout io.Writer
	Stderr io.Writer

	// Logger, if not nil, is used instead of a logger built from
	// the --log-level setting.
	Logger *zap.Logger
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, logger *zap.Logger) error {
	app := &App{
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger,
	}
	cmd := app.Command()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	// Everything cobra complains about is a usage problem.
	return &ExitError{Code: ReasonInvalidOpt, Err: err}
}

// Command builds the povgen command tree.
func (app *App) Command() *cobra.Command {
	opts := &app.Opts

	root := &cobra.Command{
		Use:   "povgen [options] -x spec-file",
		Short: "Compile a PoV specification to C",
		Long: `povgen reads a PoV specification (XML, or YAML when the file name ends
in .yaml or .yml) and writes a C program that performs the interaction.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Logger != nil {
				_ = app.Logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Compile(cmd.Context())
		},
	}

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &ExitError{Code: ReasonInvalidOpt, Err: err}
	})

	fs := root.PersistentFlags()
	fs.VarP(&opts.Input, "xml", "x", "PoV specification file")
	fs.VarP(&opts.Output, "output", "o", "output file name (default stdout)")
	fs.VarP(&opts.Timeout, "timeout", "t", "parse timeout in seconds, 0 for none (default 10)")
	fs.StringVar(&opts.Config, "config", "", "TOML file with default settings")
	fs.StringVar(&opts.LogLevel, "log-level", "warn", "debug, info, warn or error")

	cf := root.Flags()
	boolFlag(cf, &opts.Verify, "verify", "v", "only check the specification")
	cf.BoolVar(&opts.Echo, "echo", false, "echo traffic in the generated program")
	cf.StringVar(&opts.Cache, "cache", "", "cache generated source in this bbolt file")
	cf.StringVar(&opts.Header, "header", "", "header the generated program includes (default libpov.h)")

	root.AddCommand(app.renderCommands()...)

	return root
}

func (app *App) setup(cmd *cobra.Command) error {
	if app.Opts.Config != "" {
		if err := loadConfig(app.Opts.Config, &app.Opts, cmd.Flags()); err != nil {
			return exitf(ReasonInvalidOpt, err, "bad --config")
		}
	}
	logger, err := util.NewLogger(app.Opts.LogLevel, true)
	if err != nil {
		return exitf(ReasonInvalidOpt, err, "bad --log-level")
	}
	if app.Logger == nil {
		app.Logger = logger
	}
	return nil
}
