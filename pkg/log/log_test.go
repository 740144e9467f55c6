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

package log

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

// fileLine builds the expected trimmed console line for a file operation.
func fileLine(symbol, path, typ, status string) string {
	return symbol + " " + path + strings.Repeat(" ", nameWidth-len(path)) + " " +
		typ + strings.Repeat(" ", typeWidth-len(typ)) + " " + status
}

func TestLogger(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_file_operation",
			op: func(t *testing.T, logger *Logger) {
				logger.LogFileOperation(context.Background(), FileOperation{
					Path:      "test.txt",
					Type:      "file",
					Status:    "REMOVED",
					IsRemoved: true,
				})
			},
			wantLogs: []string{
				fileLine("✗", "test.txt", "file", "REMOVED"),
			},
		},
		{
			name: "log_source_operation",
			op: func(t *testing.T, logger *Logger) {
				logger.StartSourceOperation(context.Background(), SourceOperation{
					Name:        "go-docs",
					Kind:        "repo",
					Destination: "/tmp/test",
				})
				logger.EndSourceOperation(context.Background(), "go-docs")
			},
			wantLogs: []string{
				"[syncing /tmp/test]",
				"◆ go-docs • repo",
			},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Error("error message")
				logger.Success("success message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"❌ error message",
				"✅ success message",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Infof("info %s", "test")
				logger.Warningf("warning %s", "test")
				logger.Errorf("error %s", "test")
				logger.Successf("success %s", "test")
			},
			wantLogs: []string{
				"ℹ️  info test",
				"⚠️  warning test",
				"❌ error test",
				"✅ success test",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("cleaning context folder")
			},
			wantLogs: []string{
				"copyctx • cleaning context folder",
			},
		},
		{
			name: "log_newline",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("first")
				logger.LogNewline()
				logger.Info("second")
			},
			wantLogs: []string{
				"ℹ️  first",
				"",
				"ℹ️  second",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := NewWithZerolog(buf, zerolog.New(zerolog.NewTestWriter(t)))

			tt.op(t, logger)

			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}

func TestSourceOperationsDoNotInterleave(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	ctx := context.Background()
	buf := &bytes.Buffer{}
	logger := NewWithZerolog(buf, zerolog.New(zerolog.NewTestWriter(t)))

	// two sources in flight at once, ending in the opposite order they started
	logger.StartSourceOperation(ctx, SourceOperation{Name: "a", Kind: "repo", Destination: "a"})
	logger.StartSourceOperation(ctx, SourceOperation{Name: "b", Kind: "url", Destination: "b"})
	logger.LogFileOperation(ctx, FileOperation{Path: "a", Type: "repo", Status: "FETCHED", IsNew: true, Source: "a"})
	logger.LogFileOperation(ctx, FileOperation{Path: "b", Type: "url", Status: "FETCHED", IsNew: true, Source: "b"})

	assert.Empty(t, buf.String(), "blocks are held until their source ends")

	logger.EndSourceOperation(ctx, "b")
	logger.EndSourceOperation(ctx, "a")
	logger.EndSourceOperation(ctx, "a")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	assert.Equal(t, []string{
		"[syncing b]",
		"◆ b • url",
		fileLine("✓", "b", "url", "FETCHED"),
		"[syncing a]",
		"◆ a • repo",
		fileLine("✓", "a", "repo", "FETCHED"),
	}, lines)
}

func TestLoggerContext(t *testing.T) {
	logger := New(io.Discard, zerolog.InfoLevel)

	ctx := NewContext(context.Background(), logger)

	got := FromContext(ctx)
	assert.Same(t, logger, got, "logger from context should be the same instance")

	fallback := FromContext(context.Background())
	require.NotNil(t, fallback, "missing logger should fall back to a discarding logger")
	assert.NotPanics(t, func() { fallback.Info("dropped") })
}

func TestFileOperationFormatting(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name string
		op   FileOperation
		want string
	}{
		{
			name: "new_file",
			op:   FileOperation{Path: "test.txt", Type: "file", Status: "NEW", IsNew: true},
			want: fileLine("✓", "test.txt", "file", "NEW"),
		},
		{
			name: "removed_dir",
			op:   FileOperation{Path: "remove", Type: "dir", Status: "REMOVED", IsRemoved: true},
			want: fileLine("✗", "remove", "dir", "REMOVED"),
		},
		{
			name: "failed_wins_over_removed",
			op:   FileOperation{Path: "locked.txt", Type: "file", Status: "FAILED", IsRemoved: true, IsFailed: true},
			want: fileLine("!", "locked.txt", "file", "FAILED"),
		},
		{
			name: "failed_with_cause",
			op:   FileOperation{Path: "locked.txt", Type: "file", Status: "FAILED", IsFailed: true, Err: errors.New("permission denied")},
			want: fileLine("!", "locked.txt", "file", "FAILED") + strings.Repeat(" ", statusWidth-len("FAILED")) + "permission denied",
		},
		{
			name: "orphan_file",
			op:   FileOperation{Path: "stray.txt", Type: "link", Status: "orphan"},
			want: fileLine("-", "stray.txt", "link", "orphan"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := NewWithZerolog(buf, zerolog.Nop())

			logger.LogFileOperation(context.Background(), tt.op)

			assert.Equal(t, tt.want, strings.TrimSpace(buf.String()), "formatted output should match")
		})
	}
}
