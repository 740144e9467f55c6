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
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/copyctx/pkg/reconcile"
	"github.com/walteh/copyctx/pkg/rules"
)

const contextRoot = "/work/.context"

func setupTestContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t)).With().Timestamp().Logger()
	return logger.WithContext(context.Background())
}

func createTestFiles(t *testing.T, fs afero.Fs, files map[string]string) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(contextRoot, 0o755))
	for name, content := range files {
		p := filepath.Join(contextRoot, name)
		require.NoError(t, fs.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, afero.WriteFile(fs, p, []byte(content), 0o644))
	}
}

func targets(t *testing.T) []reconcile.Target {
	rs, err := rules.ParseRules([]string{"**/*.go", "!**/*_test.go"})
	require.NoError(t, err)
	return []reconcile.Target{
		{Name: "kit", Destination: "kit", Rules: rs},
		{Name: "notes", Destination: "notes"},
		{Name: "missing", Destination: "missing"},
	}
}

func TestInspect(t *testing.T) {
	ctx := setupTestContext(t)
	fs := afero.NewMemMapFs()
	createTestFiles(t, fs, map[string]string{
		"kit/a.go":       "12345",
		"kit/a_test.go":  "x",
		"kit/README.md":  "x",
		"notes/n.md":     "123",
		"notes/sub/m.md": "1",
		"stray/x.txt":    "x",
	})

	report, err := Inspect(ctx, fs, contextRoot, targets(t))
	require.NoError(t, err)

	assert.True(t, report.RootExists)
	require.Len(t, report.Sources, 3)

	kit := report.Sources[0]
	assert.True(t, kit.Exists)
	assert.False(t, kit.WholeTree)
	assert.Equal(t, 2, kit.Rules)
	assert.Equal(t, 1, kit.Kept)
	assert.Equal(t, 2, kit.Discarded)
	assert.EqualValues(t, 5, kit.Size)

	notes := report.Sources[1]
	assert.True(t, notes.WholeTree)
	assert.Equal(t, 3, notes.Kept, "two files and one directory")
	assert.EqualValues(t, 4, notes.Size)

	assert.False(t, report.Sources[2].Exists)
	assert.Equal(t, []string{"missing"}, report.Missing())

	assert.False(t, report.Clean())
	assert.ElementsMatch(t, []Entry{
		{Path: "kit/a_test.go", Type: "file"},
		{Path: "kit/README.md", Type: "file"},
		{Path: "stray/x.txt", Type: "file"},
		{Path: "stray", Type: "dir"},
	}, report.Pending)

	ok, err := afero.Exists(fs, filepath.Join(contextRoot, "stray/x.txt"))
	require.NoError(t, err)
	assert.True(t, ok, "inspect must not remove anything")
}

func TestInspectMissingRoot(t *testing.T) {
	ctx := setupTestContext(t)
	fs := afero.NewMemMapFs()

	report, err := Inspect(ctx, fs, contextRoot, targets(t))
	require.NoError(t, err)
	assert.False(t, report.RootExists)
	assert.Empty(t, report.Pending)
	assert.Len(t, report.Missing(), 3)

	ok, err := afero.DirExists(fs, contextRoot)
	require.NoError(t, err)
	assert.False(t, ok, "inspect must not create the root")
}

func TestRender(t *testing.T) {
	color.NoColor = true
	pterm.DisableStyling()
	defer func() {
		color.NoColor = false
		pterm.EnableStyling()
	}()

	ctx := setupTestContext(t)

	t.Run("pending", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		createTestFiles(t, fs, map[string]string{"kit/a.go": "x", "stray/x.txt": "x"})

		report, err := Inspect(ctx, fs, contextRoot, targets(t))
		require.NoError(t, err)

		buf := &bytes.Buffer{}
		require.NoError(t, Render(buf, report))
		out := buf.String()

		assert.Contains(t, out, "context: "+contextRoot)
		assert.Contains(t, out, "SOURCE")
		assert.Contains(t, out, "kit")
		assert.Contains(t, out, "all", "whole tree sources show all rules")
		assert.Contains(t, out, "[pending clean: 2]")
		assert.Contains(t, out, FormatEntry("stray/x.txt", "file", "WOULD REMOVE", true, false))
	})

	t.Run("clean", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		createTestFiles(t, fs, map[string]string{"notes/a.md": "x"})

		report, err := Inspect(ctx, fs, contextRoot, []reconcile.Target{{Name: "notes", Destination: "notes"}})
		require.NoError(t, err)

		buf := &bytes.Buffer{}
		require.NoError(t, Render(buf, report))
		assert.Contains(t, buf.String(), "✓ context folder is clean")
	})

	t.Run("clean_with_retained_directory", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		createTestFiles(t, fs, map[string]string{"kit/a.go": "x", "kit/sub/b.go": "x"})

		report, err := Inspect(ctx, fs, contextRoot, targets(t))
		require.NoError(t, err)
		require.True(t, report.Clean())
		assert.Equal(t, []Entry{{Path: "kit/sub", Type: "dir"}}, report.Blocked)

		buf := &bytes.Buffer{}
		require.NoError(t, Render(buf, report))
		out := buf.String()

		assert.Contains(t, out, "✓ context folder is clean")
		assert.NotContains(t, out, "pending clean")
		assert.Contains(t, out, "[retained: 1]")
		assert.Contains(t, out, FormatEntry("kit/sub", "dir", "HOLDS KEPT FILES", false, true))
	})

	t.Run("missing_root", func(t *testing.T) {
		report, err := Inspect(ctx, afero.NewMemMapFs(), contextRoot, nil)
		require.NoError(t, err)

		buf := &bytes.Buffer{}
		require.NoError(t, Render(buf, report))
		assert.Contains(t, buf.String(), "does not exist yet")
		assert.NotContains(t, buf.String(), "pending clean")
	})
}

func TestFormatEntry(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name      string
		removed   bool
		blocked   bool
		wantStart string
	}{
		{name: "removed", removed: true, wantStart: "    ✗ a.txt"},
		{name: "blocked", blocked: true, wantStart: "    ⟳ a.txt"},
		{name: "neither", wantStart: "    - a.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatEntry("a.txt", "file", "STATUS", tt.removed, tt.blocked)
			assert.Equal(t, tt.wantStart, got[:len(tt.wantStart)])
			assert.True(t, len(got) > len(tt.wantStart))
			assert.Contains(t, got, "STATUS")
		})
	}
}
