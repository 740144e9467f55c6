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

package status

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/copyctx/pkg/log"
	"github.com/walteh/copyctx/pkg/reconcile"
	"github.com/walteh/copyctx/pkg/rules"
	"gitlab.com/tozd/go/errors"
)

// 📊 SourceStatus describes one source's destination inside the context folder
type SourceStatus struct {
	Name        string
	Destination string
	Exists      bool  // destination is present on disk
	WholeTree   bool  // no file rules, everything below the destination is kept
	Rules       int   // number of file rules
	Kept        int   // entries below the destination that are kept
	Discarded   int   // entries below the destination a clean would remove
	Size        int64 // bytes in kept files
}

// 📄 Entry is a path a clean would remove
type Entry struct {
	Path string // relative to the context root
	Type string // file/dir/link
}

// 📋 Report is the state of the context folder against the configuration
type Report struct {
	Root       string
	RootExists bool
	Sources    []SourceStatus
	Pending    []Entry // removals a clean would perform, children before parents
	Blocked    []Entry // unkept directories a clean leaves because they still hold kept entries
}

// Clean reports whether a clean would change nothing
func (r *Report) Clean() bool {
	return len(r.Pending) == 0
}

// Missing returns the names of sources whose destination does not exist
func (r *Report) Missing() []string {
	var out []string
	for _, s := range r.Sources {
		if !s.Exists {
			out = append(out, s.Name)
		}
	}
	return out
}

// 🔍 Inspect computes the status of root without modifying it
func Inspect(ctx context.Context, fsys afero.Fs, root string, targets []reconcile.Target) (*Report, error) {
	root = filepath.Clean(root)
	logger := zerolog.Ctx(ctx)

	report := &Report{Root: root}

	exists, err := afero.DirExists(fsys, root)
	if err != nil {
		return nil, errors.Errorf("checking context root: %w", err)
	}
	report.RootExists = exists

	for _, t := range targets {
		report.Sources = append(report.Sources, inspectTarget(fsys, root, t))
	}

	if !exists {
		logger.Debug().Str("root", root).Msg("context root does not exist")
		return report, nil
	}

	keep := reconcile.BuildKeepSet(ctx, fsys, root, targets)

	// the dry run must stay quiet, only the report is rendered
	quiet := log.NewContext(ctx, log.Discard())
	plan, err := reconcile.Reconcile(quiet, fsys, root, keep, reconcile.Options{DryRun: true})
	if err != nil {
		return nil, errors.Errorf("planning clean: %w", err)
	}

	report.Pending = entries(fsys, root, plan.Removed)
	report.Blocked = entries(fsys, root, plan.NonEmpty)

	logger.Debug().
		Int("sources", len(report.Sources)).
		Int("pending", len(report.Pending)).
		Int("blocked", len(report.Blocked)).
		Msg("status inspected")

	return report, nil
}

func inspectTarget(fsys afero.Fs, root string, t reconcile.Target) SourceStatus {
	dest := filepath.Join(root, t.Destination)
	st := SourceStatus{
		Name:        t.Name,
		Destination: t.Destination,
		WholeTree:   t.Rules == nil,
		Rules:       len(t.Rules),
	}

	info, err := fsys.Stat(dest)
	if err != nil {
		return st
	}
	st.Exists = true

	if !info.IsDir() {
		// single file destinations (url sources) are always kept
		st.Size = info.Size()
		return st
	}

	if t.Rules == nil {
		_ = afero.Walk(fsys, dest, func(path string, fi os.FileInfo, err error) error {
			if err != nil || path == dest {
				return nil
			}
			st.Kept++
			if fi.Mode().IsRegular() {
				st.Size += fi.Size()
			}
			return nil
		})
		return st
	}

	for _, c := range rules.ClassifyWithPolicy(fsys, dest, t.Rules, t.Policy) {
		if !c.Keep {
			st.Discarded++
			continue
		}
		st.Kept++
		if fi, err := fsys.Stat(c.Path); err == nil && fi.Mode().IsRegular() {
			st.Size += fi.Size()
		}
	}

	return st
}

func entries(fsys afero.Fs, root string, paths []string) []Entry {
	out := make([]Entry, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		if err != nil {
			rel = p
		}
		out = append(out, Entry{Path: filepath.ToSlash(rel), Type: entryType(fsys, p)})
	}
	return out
}

func entryType(fsys afero.Fs, p string) string {
	var info os.FileInfo
	var err error
	if l, ok := fsys.(afero.Lstater); ok {
		info, _, err = l.LstatIfPossible(p)
	} else {
		info, err = fsys.Stat(p)
	}
	switch {
	case err != nil:
		return "unknown"
	case info.Mode()&os.ModeSymlink != 0:
		return "link"
	case info.IsDir():
		return "dir"
	default:
		return "file"
	}
}

// SortedSources returns the sources ordered by destination
func (r *Report) SortedSources() []SourceStatus {
	out := append([]SourceStatus(nil), r.Sources...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Destination < out[j].Destination
	})
	return out
}
