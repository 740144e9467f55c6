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

package operation

import (
	"context"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/walteh/copyctx/pkg/config"
	"github.com/walteh/copyctx/pkg/fetch"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Operation is one copyctx action against a loaded configuration
type Operation interface {
	// Name identifies the operation in logs
	Name() string
	// Execute runs the operation
	Execute(ctx context.Context) error
}

// 🔧 Options contains everything an operation needs
type Options struct {
	Config   *config.Config // required
	Fs       afero.Fs       // defaults to the OS filesystem
	Registry fetch.Registry // defaults to fetch.DefaultRegistry over Fs
	Out      io.Writer      // rendered reports, defaults to stdout
	Jobs     int            // concurrent fetches
	Verbose  bool
	DryRun   bool // clean only: report without removing
	Clean    bool // sync only: clean after materializing
	Strict   bool // fail when a clean leaves entries it could not remove
}

// 🏗️ BaseOperation provides common functionality for operations
type BaseOperation struct {
	Options
}

// 🏭 NewBaseOperation fills defaults into opts
func NewBaseOperation(opts Options) BaseOperation {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Registry == nil && opts.Config != nil {
		opts.Registry = fetch.DefaultRegistry(opts.Fs, opts.Config.ResolvePath)
	}
	return BaseOperation{Options: opts}
}

// root resolves the context root of the configuration
func (b *BaseOperation) root() (string, error) {
	if b.Config == nil {
		return "", errors.New("config is required")
	}
	root, err := b.Config.Root()
	if err != nil {
		return "", errors.Errorf("resolving context root: %w", err)
	}
	return root, nil
}
