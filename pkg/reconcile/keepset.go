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
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/copyctx/pkg/rules"
)

// 🎯 Target is the part of a configured source the keep-set builder cares about
type Target struct {
	Name        string
	Destination string // relative to the context root
	// Rules nil means the source has no file rules and its whole subtree is kept.
	// A non-nil empty slice means rules are present but classify nothing.
	Rules  []rules.Rule
	Policy rules.Policy
}

// 📦 KeepSet holds the paths a reconciliation pass must not delete
type KeepSet map[string]struct{}

// Add inserts a cleaned path.
func (k KeepSet) Add(path string) {
	k[filepath.Clean(path)] = struct{}{}
}

// Has reports whether path is kept.
func (k KeepSet) Has(path string) bool {
	_, ok := k[filepath.Clean(path)]
	return ok
}

// Len returns the number of kept paths.
func (k KeepSet) Len() int {
	return len(k)
}

// Paths returns the kept paths sorted.
func (k KeepSet) Paths() []string {
	out := make([]string, 0, len(k))
	for p := range k {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// 🏗️ BuildKeepSet computes the global keep set for all targets under root.
// The set only grows: a later target never un-keeps what an earlier one kept.
func BuildKeepSet(ctx context.Context, fsys afero.Fs, root string, targets []Target) KeepSet {
	logger := zerolog.Ctx(ctx)
	root = filepath.Clean(root)

	keep := KeepSet{}
	keep.Add(root)

	for _, t := range targets {
		before := keep.Len()
		addTarget(fsys, root, t, keep)

		logger.Debug().
			Str("source", t.Name).
			Str("destination", t.Destination).
			Bool("has_rules", t.Rules != nil).
			Int("added", keep.Len()-before).
			Msg("processed source for keep set")
	}

	return keep
}

func addTarget(fsys afero.Fs, root string, t Target, keep KeepSet) {
	dest := filepath.Join(root, t.Destination)
	keep.Add(dest)

	if t.Rules == nil {
		if exists, _ := afero.Exists(fsys, dest); !exists {
			return
		}
		_ = afero.Walk(fsys, dest, func(path string, _ os.FileInfo, err error) error {
			if err != nil {
				return nil
			}
			keep.Add(path)
			return nil
		})
		return
	}

	for _, c := range rules.ClassifyWithPolicy(fsys, dest, t.Rules, t.Policy) {
		if c.Keep {
			keep.Add(c.Path)
		}
	}
}
