// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package opts

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/copyctx/pkg/config"
	"github.com/walteh/copyctx/pkg/log"
	"github.com/walteh/copyctx/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	ConfigFile string
	Verbose    bool
	Debug      bool

	// filled by Load
	Config *config.Config
	Logger zerolog.Logger
	Fs     afero.Fs
	Stdout io.Writer
	Stderr io.Writer
}

// Level picks the zerolog level from the flags
func (o *RootOpts) Level() zerolog.Level {
	switch {
	case o.Debug:
		return zerolog.DebugLevel
	case o.Verbose:
		return zerolog.InfoLevel
	default:
		return zerolog.WarnLevel
	}
}

// Context attaches the structured logger and a console logger writing to console
func (o *RootOpts) Context(ctx context.Context, console io.Writer) context.Context {
	ctx = o.Logger.WithContext(ctx)
	return log.NewContext(ctx, log.NewWithZerolog(console, o.Logger))
}

// Load reads and validates the config file
func (o *RootOpts) Load(ctx context.Context) error {
	if o.Fs == nil {
		o.Fs = afero.NewOsFs()
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}

	cfg, err := config.Load(ctx, o.ConfigFile)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}
	o.Config = cfg
	return nil
}

// Operation builds operation options from the shared flags
func (o *RootOpts) Operation() operation.Options {
	return operation.Options{
		Config:  o.Config,
		Fs:      o.Fs,
		Out:     o.Stdout,
		Verbose: o.Verbose,
	}
}
