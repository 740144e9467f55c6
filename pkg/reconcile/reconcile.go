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

package reconcile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/copyctx/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Options controls a reconciliation pass
type Options struct {
	Verbose bool // log every removal to the console
	DryRun  bool // compute the report without touching the filesystem
}

// ❌ Failure records a single entry that could not be processed
type Failure struct {
	Path string
	Err  error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Path, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// 📊 Report summarizes a reconciliation pass
type Report struct {
	Removed  []string  // removed (or, in a dry run, removable) entries, children before parents
	NonEmpty []string  // unkept directories left in place because they still have entries
	Failures []Failure // per-entry errors; the pass continued past each of them
}

// Err joins every failure into one error, or returns nil.
func (r *Report) Err() error {
	if r == nil || len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, f)
	}
	return errors.Join(errs...)
}

type entry struct {
	path string
	info os.FileInfo
}

func (e entry) kind() string {
	switch {
	case e.info.Mode()&os.ModeSymlink != 0:
		return "link"
	case e.info.IsDir():
		return "dir"
	default:
		return "file"
	}
}

// 🧹 Reconcile prunes root so that only paths in keep survive.
//
// Entries are evaluated children-first so a directory whose whole subtree is unkept is
// removed in the same pass. Unkept directories are only removed once empty. Per-entry
// failures are collected in the report; only failing to create root is returned as an error.
func Reconcile(ctx context.Context, fsys afero.Fs, root string, keep KeepSet, opts Options) (*Report, error) {
	logger := zerolog.Ctx(ctx)
	console := log.FromContext(ctx)
	root = filepath.Clean(root)

	if err := fsys.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Errorf("creating context root %s: %w", root, err)
	}

	console.Infof("Cleaning context folder: %s", root)

	entries := enumerate(fsys, root)
	report := &Report{}
	pruned := make(map[string]struct{})

	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if e.path == root || keep.Has(e.path) {
			continue
		}

		rel, _ := filepath.Rel(root, e.path)

		if e.info.IsDir() {
			empty, err := isEmpty(fsys, e.path, pruned)
			if err != nil {
				report.fail(ctx, console, rel, e, errors.Errorf("reading directory: %w", err))
				continue
			}
			if !empty {
				logger.Debug().Str("path", e.path).Msg("unkept directory is not empty, leaving it")
				report.NonEmpty = append(report.NonEmpty, e.path)
				continue
			}
		}

		if !opts.DryRun {
			if err := fsys.Remove(e.path); err != nil {
				report.fail(ctx, console, rel, e, err)
				continue
			}
		}

		pruned[e.path] = struct{}{}
		report.Removed = append(report.Removed, e.path)

		logger.Debug().Str("path", e.path).Str("type", e.kind()).Bool("dry_run", opts.DryRun).Msg("removed entry")
		if opts.Verbose {
			status := "REMOVED"
			if opts.DryRun {
				status = "WOULD REMOVE"
			}
			console.LogFileOperation(ctx, log.FileOperation{
				Path:      rel,
				Type:      e.kind(),
				Status:    status,
				IsRemoved: true,
			})
		}
	}

	logger.Info().
		Str("root", root).
		Int("kept", keep.Len()).
		Int("removed", len(report.Removed)).
		Int("failures", len(report.Failures)).
		Bool("dry_run", opts.DryRun).
		Msg("reconciliation complete")

	console.Success("Context folder cleaned successfully.")

	return report, nil
}

func (r *Report) fail(ctx context.Context, console *log.Logger, rel string, e entry, err error) {
	r.Failures = append(r.Failures, Failure{Path: e.path, Err: err})

	zerolog.Ctx(ctx).Warn().Err(err).Str("path", e.path).Msg("failed to remove entry")
	console.LogFileOperation(ctx, log.FileOperation{
		Path:     rel,
		Type:     e.kind(),
		Status:   "FAILED",
		IsFailed: true,
		Err:      err,
	})
}

// enumerate lists root and everything below it in pre-order. Unreadable entries are skipped.
func enumerate(fsys afero.Fs, root string) []entry {
	var out []entry
	_ = afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info == nil {
			return nil
		}
		out = append(out, entry{path: path, info: info})
		return nil
	})
	return out
}

// isEmpty reports whether dir has no entries left once pruned ones are discounted.
// After a real removal pruned entries are already gone; in a dry run they are still on disk.
func isEmpty(fsys afero.Fs, dir string, pruned map[string]struct{}) (bool, error) {
	infos, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return false, err
	}
	for _, fi := range infos {
		if _, ok := pruned[filepath.Join(dir, fi.Name())]; !ok {
			return false, nil
		}
	}
	return true, nil
}
