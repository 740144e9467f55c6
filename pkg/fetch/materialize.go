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
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/copyctx/pkg/config"
	"github.com/walteh/copyctx/pkg/log"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🔧 Options controls a materialization run
type Options struct {
	Jobs     int      // sources fetched concurrently, values below 1 mean 1
	Verbose  bool     // report every source on the console
	Registry Registry // defaults to DefaultRegistry on the OS filesystem
}

// 🚚 Materialize fetches every source into root. All sources are attempted; failures are
// logged and returned joined.
func Materialize(ctx context.Context, root string, sources []config.Source, opts Options) error {
	logger := zerolog.Ctx(ctx)
	console := log.FromContext(ctx)

	reg := opts.Registry
	if reg == nil {
		reg = DefaultRegistry(afero.NewOsFs(), nil)
	}

	jobs := opts.Jobs
	if jobs < 1 {
		jobs = 1
	}

	var (
		mu   sync.Mutex
		errs []error
	)

	// errgroup only bounds concurrency, failures never cancel siblings
	var g errgroup.Group
	g.SetLimit(jobs)

	for _, src := range sources {
		src := src
		g.Go(func() error {
			dest := filepath.Join(root, src.Destination)

			if opts.Verbose {
				console.StartSourceOperation(ctx, log.SourceOperation{
					Name:        src.Name,
					Kind:        string(src.Kind()),
					Destination: src.Destination,
				})
				defer console.EndSourceOperation(ctx, src.Name)
			}

			start := time.Now()
			err := reg.Fetch(ctx, dest, src)
			logger.Debug().
				Str("source", src.Name).
				Dur("took", time.Since(start)).
				AnErr("error", err).
				Msg("source fetched")

			if err != nil {
				console.Errorf("error fetching %s %s: %v", src.Kind(), src.Name, err)
				mu.Lock()
				errs = append(errs, errors.Errorf("source %q: %w", src.Name, err))
				mu.Unlock()
				return nil
			}

			if opts.Verbose {
				console.LogFileOperation(ctx, log.FileOperation{
					Path:   src.Destination,
					Type:   string(src.Kind()),
					Status: "FETCHED",
					IsNew:  true,
					Source: src.Name,
				})
			}
			return nil
		})
	}

	_ = g.Wait()

	if len(errs) > 0 {
		logger.Warn().Int("failed", len(errs)).Int("total", len(sources)).Msg("materialization finished with failures")
		return errors.Join(errs...)
	}

	logger.Info().Int("total", len(sources)).Msg("materialization complete")
	return nil
}
