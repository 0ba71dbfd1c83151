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
	"bytes"
	"context"
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/Comcast/povgen/core"
	"github.com/Comcast/povgen/node"
	"github.com/Comcast/povgen/storage"
	"github.com/Comcast/povgen/storage/bolt"

	"go.uber.org/zap"
)

// readInput gets the specification's bytes.
func (app *App) readInput() ([]byte, error) {
	filename := app.Opts.Input.value
	if !app.Opts.Input.set || filename == "" {
		return nil, exitf(ReasonInvalidOpt, nil, "the -x spec-file argument is missing")
	}
	src, err := os.ReadFile(filename)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil, exitf(ReasonMissing, err, "no specification")
	case err != nil:
		return nil, exitf(ReasonLoaderFail, err, "can't read specification")
	}
	return src, nil
}

// deadline gives a context bounded by the -t setting.
func (app *App) deadline(ctx context.Context) (context.Context, context.CancelFunc, error) {
	d, err := parseDeadline(app.Opts.Timeout.value)
	if err != nil {
		return nil, nil, exitf(ReasonInvalidTimeout, err, "bad -t value")
	}
	if d == 0 {
		ctx, cancel := context.WithCancel(ctx)
		return ctx, cancel, nil
	}
	ctx, cancel := context.WithTimeout(ctx, d)
	return ctx, cancel, nil
}

// parse loads, checks and builds the specification.  The context's
// deadline covers all three.
func (app *App) parse(ctx context.Context, src []byte) (*core.PoV, error) {
	log := app.Logger.With(zap.String("spec", app.Opts.Input.value))

	then := time.Now()
	root, err := node.LoaderFor(app.Opts.Input.value)(ctx, bytes.NewReader(src))
	if err != nil {
		if err = core.TimeoutErr(err); errors.Is(err, core.ErrParseTimeout) {
			return nil, exitf(ReasonParseTimeout, err, "")
		}
		if errors.Is(err, node.ErrMalformed) {
			return nil, exitf(ReasonXMLBad, err, "failed to parse specification")
		}
		return nil, exitf(ReasonLoaderFail, err, "failed to load specification")
	}

	if err := node.Validate(root); err != nil {
		return nil, exitf(ReasonDTDFail, err, "failed to validate specification")
	}

	b := &core.Builder{
		Logger:      app.Logger,
		EchoEnabled: app.Opts.Echo,
	}
	pov, err := b.Build(ctx, root)
	if err != nil {
		if err = core.TimeoutErr(err); errors.Is(err, core.ErrParseTimeout) {
			return nil, exitf(ReasonParseTimeout, err, "")
		}
		return nil, exitf(ReasonContent, err,
			"terminating as a result of PoV specification data error(s)")
	}

	log.Debug("built",
		zap.Int("actions", len(pov.Actions)),
		zap.Int("type", int(pov.Type)),
		zap.Duration("elapsed", time.Since(then)))

	return pov, nil
}

// load does readInput and parse under the deadline.
func (app *App) load(ctx context.Context) (*core.PoV, error) {
	ctx, cancel, err := app.deadline(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	src, err := app.readInput()
	if err != nil {
		return nil, err
	}
	return app.parse(ctx, src)
}

// emit writes the finished output to the -o file or stdout.
func (app *App) emit(out []byte) error {
	if !app.Opts.Output.set {
		if _, err := app.Stdout.Write(out); err != nil {
			return exitf(ReasonFailure, err, "failed to write output")
		}
		return nil
	}
	if err := os.WriteFile(app.Opts.Output.value, out, 0644); err != nil {
		return exitf(ReasonFailure, err, "failed to open output file")
	}
	return nil
}

func (app *App) openCache(ctx context.Context) storage.Cache {
	if app.Opts.Cache == "" {
		return &storage.NoopCache{}
	}
	s, err := bolt.NewStorage(app.Opts.Cache)
	if err == nil {
		s.Logger = app.Logger
		err = s.Open(ctx)
	}
	if err != nil {
		app.Logger.Warn("cache unavailable", zap.String("cache", app.Opts.Cache), zap.Error(err))
		return &storage.NoopCache{}
	}
	return s
}

// Compile is the default command.
func (app *App) Compile(ctx context.Context) error {
	// Check options before touching anything.
	if _, err := parseDeadline(app.Opts.Timeout.value); err != nil {
		return exitf(ReasonInvalidTimeout, err, "bad -t value")
	}

	src, err := app.readInput()
	if err != nil {
		return err
	}

	header := app.Opts.Header
	if header == "" {
		header = core.DefaultHeader
	}

	var (
		cache storage.Cache = &storage.NoopCache{}
		key   string
	)
	if !app.Opts.Verify.value {
		cache = app.openCache(ctx)
		defer cache.Close(ctx)

		key = storage.Key(src, header, strconv.FormatBool(app.Opts.Echo))
		e, err := cache.Get(ctx, key)
		if err != nil {
			app.Logger.Warn("cache get failed", zap.Error(err))
		} else if e != nil {
			app.Logger.Debug("cache hit", zap.String("key", key))
			return app.emit(e.Source)
		}
	}

	pctx, cancel, err := app.deadline(ctx)
	if err != nil {
		return err
	}
	pov, err := app.parse(pctx, src)
	cancel()
	if err != nil {
		return err
	}

	if app.Opts.Verify.value {
		return nil
	}

	var buf bytes.Buffer
	g := &core.Generator{
		Header: header,
		Logger: app.Logger,
	}
	if err := g.Generate(&buf, pov); err != nil {
		return exitf(ReasonFailure, err, "failed to generate")
	}

	if err := app.emit(buf.Bytes()); err != nil {
		return err
	}

	err = cache.Put(ctx, key, &storage.Entry{
		Source:  buf.Bytes(),
		Created: time.Now().UTC(),
	})
	if err != nil {
		app.Logger.Warn("cache put failed", zap.Error(err))
	}
	return nil
}
