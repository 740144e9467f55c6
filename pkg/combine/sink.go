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
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"github.com/walteh/copyctx/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// 📤 Sink receives combined content
type Sink interface {
	Write(ctx context.Context, content string) error
	fmt.Stringer
}

// WriterSink writes to an io.Writer such as stdout
type WriterSink struct {
	W               io.Writer
	TrailingNewline bool // end the output with a newline so a shell prompt starts on its own line
}

// StdoutSink writes to stdout, adding a trailing newline when stdout is a terminal
func StdoutSink() *WriterSink {
	return &WriterSink{
		W:               os.Stdout,
		TrailingNewline: isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
	}
}

func (s *WriterSink) Write(ctx context.Context, content string) error {
	if _, err := io.WriteString(s.W, content); err != nil {
		return errors.Errorf("writing output: %w", err)
	}
	if s.TrailingNewline {
		if _, err := io.WriteString(s.W, "\n"); err != nil {
			return errors.Errorf("writing output: %w", err)
		}
	}
	return nil
}

func (s *WriterSink) String() string { return "stdout" }

// FileSink writes to a file, creating parent directories
type FileSink struct {
	Fs   afero.Fs
	Path string
}

func (s *FileSink) Write(ctx context.Context, content string) error {
	if err := s.Fs.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return errors.Errorf("creating output directory: %w", err)
	}
	if err := afero.WriteFile(s.Fs, s.Path, []byte(content), 0o644); err != nil {
		return errors.Errorf("writing output file %s: %w", s.Path, err)
	}
	return nil
}

func (s *FileSink) String() string { return s.Path }

// writeClipboard is swapped in tests, CI machines rarely have a clipboard
var writeClipboard = func(text string) error {
	if clipboard.Unsupported {
		return errors.New("clipboard is not supported on this system")
	}
	return clipboard.WriteAll(text)
}

// ClipboardSink copies to the system clipboard
type ClipboardSink struct{}

func (ClipboardSink) Write(ctx context.Context, content string) error {
	if err := writeClipboard(content); err != nil {
		return errors.Errorf("copying to clipboard: %w", err)
	}
	return nil
}

func (ClipboardSink) String() string { return "clipboard" }

// 🚀 Run combines the matched files and hands the result to sink. No match is not an error.
func Run(ctx context.Context, fsys afero.Fs, root string, opts Options, sink Sink) (*Result, error) {
	console := log.FromContext(ctx)

	res, err := Combine(ctx, fsys, root, opts)
	if err != nil {
		return nil, err
	}

	if len(res.Files) == 0 {
		console.Info("No files found matching the patterns.")
		return res, nil
	}

	if err := sink.Write(ctx, res.Content); err != nil {
		return nil, err
	}

	console.Successf("Combined %d files (%s) into %s", len(res.Files), humanize.Bytes(uint64(len(res.Content))), sink)
	return res, nil
}
