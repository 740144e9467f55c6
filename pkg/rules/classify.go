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

package rules

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// ⚖️ Policy selects how overlapping keep and delete rules are resolved
type Policy int

const (
	// PolicyDeleteWins keeps a path when any keep rule matches (or none exist)
	// and no delete rule matches.
	PolicyDeleteWins Policy = iota
	// PolicyFirstMatch lets the first matching rule in authored order decide.
	PolicyFirstMatch
)

// String returns a string representation of Policy
func (p Policy) String() string {
	switch p {
	case PolicyFirstMatch:
		return "first-match"
	default:
		return "delete-wins"
	}
}

// ParsePolicy converts a configuration value into a Policy. Empty selects the default.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "delete-wins":
		return PolicyDeleteWins, nil
	case "first-match":
		return PolicyFirstMatch, nil
	default:
		return PolicyDeleteWins, errors.Errorf("unknown policy %q", s)
	}
}

// 📄 Classification is the verdict for one walked entry
type Classification struct {
	Path string // root joined with the relative path
	Keep bool
}

// 🔍 Classify labels every entry below root with the default policy
func Classify(fsys afero.Fs, root string, rs []Rule) []Classification {
	return ClassifyWithPolicy(fsys, root, rs, PolicyDeleteWins)
}

// 🔍 ClassifyWithPolicy labels every entry below root (excluding root itself).
// Entries that cannot be walked are omitted; it never fails.
func ClassifyWithPolicy(fsys afero.Fs, root string, rs []Rule, policy Policy) []Classification {
	if len(rs) == 0 {
		return []Classification{}
	}

	decide := deleteWins(rs)
	if policy == PolicyFirstMatch {
		decide = firstMatch(rs)
	}

	root = filepath.Clean(root)
	results := []Classification{}

	_ = afero.Walk(fsys, root, func(path string, _ os.FileInfo, err error) error {
		if err != nil || path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}

		results = append(results, Classification{
			Path: path,
			Keep: decide(filepath.ToSlash(rel)),
		})
		return nil
	})

	return results
}

func deleteWins(rs []Rule) func(string) bool {
	keep, del := partition(rs)
	return func(rel string) bool {
		ok := len(keep) == 0 || anyMatches(keep, rel)
		if ok && len(del) > 0 && anyMatches(del, rel) {
			ok = false
		}
		return ok
	}
}

func firstMatch(rs []Rule) func(string) bool {
	return func(rel string) bool {
		for _, r := range rs {
			if r.Matches(rel) {
				return r.Action == ActionKeep
			}
		}
		return true
	}
}
