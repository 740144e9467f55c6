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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestParseRules(t *testing.T) {
	tests := []struct {
		name    string
		raw     []string
		want    []Rule
		wantErr bool
	}{
		{
			name: "keep_and_delete",
			raw:  []string{"*", "!foo.log", "bar.txt"},
			want: []Rule{Keep("*"), Delete("foo.log"), Keep("bar.txt")},
		},
		{
			name: "doublestar_patterns",
			raw:  []string{"**/*.rs", "!**/*.txt", "src/{a,b}/?.go", "[abc].md"},
			want: []Rule{Keep("**/*.rs"), Delete("**/*.txt"), Keep("src/{a,b}/?.go"), Keep("[abc].md")},
		},
		{
			name: "nil_stays_nil",
			raw:  nil,
			want: nil,
		},
		{
			name: "empty_stays_non_nil",
			raw:  []string{},
			want: []Rule{},
		},
		{
			name:    "unclosed_class",
			raw:     []string{"*.go", "[abc"},
			wantErr: true,
		},
		{
			name:    "bad_delete_pattern",
			raw:     []string{"!{a,b"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRules(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrBadPattern), "error should wrap ErrBadPattern")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if tt.raw != nil {
				assert.NotNil(t, got, "non-nil input should give non-nil rules")
			}
		})
	}
}

func TestRuleString(t *testing.T) {
	for _, raw := range []string{"*.go", "!vendor/**", "docs/**/*.md"} {
		r, err := ParseRule(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, r.String())
	}
}

func TestRuleMatches(t *testing.T) {
	tests := []struct {
		name string
		rule Rule
		path string
		want bool
	}{
		{"star_same_segment", Keep("*.rs"), "a.rs", true},
		{"star_does_not_cross_slash", Keep("*.rs"), "src/a.rs", false},
		{"doublestar_crosses_slash", Keep("**/*.rs"), "src/deep/a.rs", true},
		{"doublestar_matches_top_level", Keep("**/*.rs"), "a.rs", true},
		{"question_mark", Keep("?.md"), "a.md", true},
		{"char_class", Keep("[ab].md"), "c.md", false},
		{"directory_entry", Keep("src"), "src", true},
		{"invalid_hand_built_rule", Keep("[oops"), "[oops", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rule.Matches(tt.path))
		})
	}
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyDeleteWins, p)

	p, err = ParsePolicy("First-Match")
	require.NoError(t, err)
	assert.Equal(t, PolicyFirstMatch, p)
	assert.Equal(t, "first-match", p.String())

	_, err = ParsePolicy("last-match")
	require.Error(t, err)
}
