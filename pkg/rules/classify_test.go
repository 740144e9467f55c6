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
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRoot = "/ctx/src"

func setupTree(t *testing.T, files ...string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(testRoot, 0o755))
	for _, f := range files {
		p := filepath.Join(testRoot, f)
		require.NoError(t, fs.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, afero.WriteFile(fs, p, []byte("test content"), 0o644))
	}
	return fs
}

// verdicts maps root-relative paths to their classification for easy assertions.
func verdicts(t *testing.T, cs []Classification) map[string]bool {
	t.Helper()
	out := make(map[string]bool, len(cs))
	for _, c := range cs {
		rel, err := filepath.Rel(testRoot, c.Path)
		require.NoError(t, err)
		out[filepath.ToSlash(rel)] = c.Keep
	}
	return out
}

func mustParse(t *testing.T, raw ...string) []Rule {
	t.Helper()
	if raw == nil {
		raw = []string{}
	}
	rs, err := ParseRules(raw)
	require.NoError(t, err)
	return rs
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		rules []string
		want  map[string]bool
	}{
		{
			name:  "default_exclude_with_keep_patterns",
			files: []string{"a.rs", "b.txt"},
			rules: []string{"*.rs"},
			want:  map[string]bool{"a.rs": true, "b.txt": false},
		},
		{
			name:  "delete_overrides_keep",
			files: []string{"foo.log", "bar.txt"},
			rules: []string{"*", "!foo.log"},
			want:  map[string]bool{"foo.log": false, "bar.txt": true},
		},
		{
			name:  "delete_overrides_keep_regardless_of_order",
			files: []string{"foo.log", "bar.txt"},
			rules: []string{"!foo.log", "*"},
			want:  map[string]bool{"foo.log": false, "bar.txt": true},
		},
		{
			name:  "delete_only_defaults_to_keep",
			files: []string{"a.txt", "b.md"},
			rules: []string{"!*.txt"},
			want:  map[string]bool{"a.txt": false, "b.md": true},
		},
		{
			name:  "nested_paths_and_directories",
			files: []string{"file1.rs", "file3.txt", "subdir/file4.rs", "subdir/file5.txt"},
			rules: []string{"**/*.rs", "!**/*.txt"},
			want: map[string]bool{
				"file1.rs":         true,
				"file3.txt":        false,
				"subdir":           false,
				"subdir/file4.rs":  true,
				"subdir/file5.txt": false,
			},
		},
		{
			name:  "no_match_is_discarded_when_keep_patterns_exist",
			files: []string{"README.md"},
			rules: []string{"*.go", "!*_test.go"},
			want:  map[string]bool{"README.md": false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := setupTree(t, tt.files...)
			got := Classify(fs, testRoot, mustParse(t, tt.rules...))
			assert.Equal(t, tt.want, verdicts(t, got))
		})
	}
}

func TestClassifyEmptyRules(t *testing.T) {
	fs := setupTree(t, "a.rs", "b.txt", "sub/c.md")

	got := Classify(fs, testRoot, mustParse(t))
	assert.Empty(t, got, "empty rule list should classify nothing")

	got = Classify(fs, testRoot, nil)
	assert.Empty(t, got, "nil rule list should classify nothing")
}

func TestClassifyExcludesRootAndIsOrdered(t *testing.T) {
	fs := setupTree(t, "b/2.txt", "a/1.txt", "c.txt")

	got := Classify(fs, testRoot, mustParse(t, "**"))

	paths := make([]string, 0, len(got))
	for _, c := range got {
		assert.NotEqual(t, testRoot, c.Path, "root should never be classified")
		paths = append(paths, c.Path)
	}
	assert.Equal(t, []string{
		filepath.Join(testRoot, "a"),
		filepath.Join(testRoot, "a/1.txt"),
		filepath.Join(testRoot, "b"),
		filepath.Join(testRoot, "b/2.txt"),
		filepath.Join(testRoot, "c.txt"),
	}, paths)
}

func TestClassifyMissingRoot(t *testing.T) {
	fs := afero.NewMemMapFs()
	got := Classify(fs, "/does/not/exist", mustParse(t, "*"))
	assert.Empty(t, got)
}

func TestClassifyIsReadOnly(t *testing.T) {
	fs := setupTree(t, "a.rs", "b.txt")
	_ = Classify(fs, testRoot, mustParse(t, "*.rs"))

	ok, err := afero.Exists(fs, filepath.Join(testRoot, "b.txt"))
	require.NoError(t, err)
	assert.True(t, ok, "classification must not touch the filesystem")
}

func TestClassifyFirstMatch(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		rules []string
		want  map[string]bool
	}{
		{
			name:  "keep_before_delete_keeps",
			files: []string{"foo.log", "bar.txt"},
			rules: []string{"*", "!foo.log"},
			want:  map[string]bool{"foo.log": true, "bar.txt": true},
		},
		{
			name:  "delete_before_keep_deletes",
			files: []string{"foo.log", "bar.txt", "baz.md"},
			rules: []string{"!foo.log", "*", "bar.txt"},
			want:  map[string]bool{"foo.log": false, "bar.txt": true, "baz.md": true},
		},
		{
			name:  "unmatched_defaults_to_keep",
			files: []string{"a.rs", "b.txt"},
			rules: []string{"*.rs"},
			want:  map[string]bool{"a.rs": true, "b.txt": true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := setupTree(t, tt.files...)
			got := ClassifyWithPolicy(fs, testRoot, mustParse(t, tt.rules...), PolicyFirstMatch)
			assert.Equal(t, tt.want, verdicts(t, got))
		})
	}
}
