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

package fetch

import (
	"context"
	"net/http"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/walteh/copyctx/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// ErrUnsupportedKind is returned when no fetcher is registered for a source kind
var ErrUnsupportedKind = errors.Base("unsupported source kind")

// 🔌 Fetcher materializes one source into dest, an absolute path inside the context root
type Fetcher interface {
	Fetch(ctx context.Context, dest string, src config.Source) error
}

// FetcherFunc adapts a function to Fetcher
type FetcherFunc func(ctx context.Context, dest string, src config.Source) error

func (f FetcherFunc) Fetch(ctx context.Context, dest string, src config.Source) error {
	return f(ctx, dest, src)
}

// Resolver turns a path from the config into an absolute one
type Resolver func(p string) (string, error)

// 🗺️ Registry maps source kinds to fetchers
type Registry map[config.Kind]Fetcher

// 🏭 DefaultRegistry wires the built-in fetchers. resolve may be nil, in which case
// path sources are resolved against the working directory.
func DefaultRegistry(fsys afero.Fs, resolve Resolver) Registry {
	if resolve == nil {
		resolve = filepath.Abs
	}
	return Registry{
		config.KindRepo:   &RepoFetcher{},
		config.KindURL:    &URLFetcher{Fs: fsys, Client: http.DefaultClient},
		config.KindPath:   &PathFetcher{Fs: fsys, Resolve: resolve},
		config.KindScript: &ScriptFetcher{},
	}
}

// 📝 Register sets the fetcher for a kind
func (r Registry) Register(kind config.Kind, f Fetcher) {
	r[kind] = f
}

// Fetch dispatches to the fetcher registered for the source kind
func (r Registry) Fetch(ctx context.Context, dest string, src config.Source) error {
	f, ok := r[src.Kind()]
	if !ok || f == nil {
		return errors.Errorf("%q: %w", src.Kind(), ErrUnsupportedKind)
	}
	return f.Fetch(ctx, dest, src)
}

// specOf extracts the expected spec type from a source
func specOf[T config.Spec](src config.Source) (T, error) {
	spec, ok := src.Spec.(T)
	if !ok {
		var zero T
		return zero, errors.Errorf("source %q: expected %T spec, got %T", src.Name, zero, src.Spec)
	}
	return spec, nil
}
