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

package combine

import (
	"context"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

const (
	// DefaultHeaderFormat is written above each file when headers are enabled
	DefaultHeaderFormat = "// File: {path}"
	// DefaultSeparator goes between consecutive files
	DefaultSeparator = "\n"

	pathPlaceholder = "{path}"
)

// 🔧 Options controls how files are combined
type Options struct {
	Patterns     []string // globs or literal paths relative to the context root
	WithHeaders  bool
	HeaderFormat string // {path} is replaced by the root-relative path
	Separator    string // inserted between files; empty means none
	Sort         bool   // sort matched files by path
}

// 📄 Result is the combined output
type Result struct {
	Files   []string // root-relative, slash separated, in output order
	Content string
}

// 🔍 Collect expands patterns below root into unique root-relative file paths.
// Matches keep the order of the patterns that produced them.
func Collect(ctx context.Context, fsys afero.Fs, root string, patterns []string) ([]string, error) {
	iofs := afero.NewIOFS(afero.NewBasePathFs(fsys, root))
	logger := zerolog.Ctx(ctx)

	seen := make(map[string]struct{})
	var files []string

	for _, pattern := range patterns {
		clean := path.Clean(strings.TrimPrefix(strings.ReplaceAll(pattern, "\\", "/"), "/"))
		if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
			return nil, errors.Errorf("pattern %q must stay inside the context folder", pattern)
		}

		matches, err := doublestar.Glob(iofs, clean, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Errorf("matching %q: %w", pattern, err)
		}

		logger.Debug().Str("pattern", clean).Int("matches", len(matches)).Msg("glob expanded")

		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}

	return files, nil
}

// 🧩 Combine concatenates the files matched by opts.Patterns below root
func Combine(ctx context.Context, fsys afero.Fs, root string, opts Options) (*Result, error) {
	files, err := Collect(ctx, fsys, root, opts.Patterns)
	if err != nil {
		return nil, err
	}

	if opts.Sort {
		sort.Strings(files)
	}

	headerFormat := opts.HeaderFormat
	if headerFormat == "" {
		headerFormat = DefaultHeaderFormat
	}

	base := afero.NewBasePathFs(fsys, root)

	var sb strings.Builder
	for i, rel := range files {
		data, err := afero.ReadFile(base, rel)
		if err != nil {
			return nil, errors.Errorf("reading %s: %w", rel, err)
		}
		content := string(data)

		if opts.WithHeaders {
			sb.WriteString(strings.ReplaceAll(headerFormat, pathPlaceholder, rel))
			sb.WriteByte('\n')
		}

		sb.WriteString(content)

		if i < len(files)-1 {
			if !strings.HasSuffix(content, "\n") && !strings.HasPrefix(opts.Separator, "\n") {
				sb.WriteByte('\n')
			}
			sb.WriteString(opts.Separator)
		}
	}

	return &Result{Files: files, Content: sb.String()}, nil
}
