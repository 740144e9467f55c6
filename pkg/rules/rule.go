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
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// ErrBadPattern is returned when a rule carries a malformed glob.
var ErrBadPattern = errors.Base("bad rule pattern")

const deletePrefix = "!"

// 🏷️ Action tells whether a matching rule keeps or deletes a path
type Action int

const (
	ActionKeep Action = iota
	ActionDelete
)

// String returns a string representation of Action
func (a Action) String() string {
	switch a {
	case ActionKeep:
		return "keep"
	case ActionDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// 📏 Rule is a single glob pattern tagged Keep or Delete
type Rule struct {
	Action  Action
	Pattern string
}

// Keep returns a keep rule for pattern.
func Keep(pattern string) Rule {
	return Rule{Action: ActionKeep, Pattern: pattern}
}

// Delete returns a delete rule for pattern.
func Delete(pattern string) Rule {
	return Rule{Action: ActionDelete, Pattern: pattern}
}

// 📝 ParseRule converts one raw rule string
func ParseRule(raw string) (Rule, error) {
	r := Keep(raw)
	if rest, ok := strings.CutPrefix(raw, deletePrefix); ok {
		r = Delete(rest)
	}

	if !doublestar.ValidatePattern(r.Pattern) {
		return Rule{}, errors.Errorf("%q: %w", raw, ErrBadPattern)
	}

	return r, nil
}

// 📝 ParseRules converts every raw string independently and fails on the first malformed one.
// A nil input yields nil so callers can tell "no rules" apart from "empty rules".
func ParseRules(raw []string) ([]Rule, error) {
	if raw == nil {
		return nil, nil
	}

	out := make([]Rule, 0, len(raw))
	for i, s := range raw {
		r, err := ParseRule(s)
		if err != nil {
			return nil, errors.Errorf("parsing rule %d: %w", i, err)
		}
		out = append(out, r)
	}

	return out, nil
}

// 🔍 Matches reports whether the rule's pattern matches a slash-separated relative path
func (r Rule) Matches(rel string) bool {
	// patterns are validated at parse time, so the only error is ErrBadPattern on
	// hand-built rules; treat those as non-matching.
	ok, err := doublestar.Match(r.Pattern, rel)
	return err == nil && ok
}

// String returns the raw form the rule was parsed from
func (r Rule) String() string {
	if r.Action == ActionDelete {
		return deletePrefix + r.Pattern
	}
	return r.Pattern
}

// partition splits rules into keep and delete groups, dropping authored order.
func partition(rs []Rule) (keep, del []Rule) {
	for _, r := range rs {
		switch r.Action {
		case ActionDelete:
			del = append(del, r)
		default:
			keep = append(keep, r)
		}
	}
	return keep, del
}

func anyMatches(rs []Rule, rel string) bool {
	for _, r := range rs {
		if r.Matches(rel) {
			return true
		}
	}
	return false
}
