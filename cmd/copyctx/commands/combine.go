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

package commands

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/walteh/copyctx/cmd/copyctx/opts"
	"github.com/walteh/copyctx/pkg/combine"
	"github.com/walteh/copyctx/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// NewCombineCmd creates the combine command
func NewCombineCmd(o *opts.RootOpts) *cobra.Command {
	var (
		combineOpts = combine.Options{}
		clipboard   bool
		output      string
	)

	cmd := &cobra.Command{
		Use:   "combine <pattern>...",
		Short: "Concatenate context files into one document",
		Long: `Combine expands glob patterns relative to the context folder and joins the
matching files, optionally with a header above each one. The result goes to
stdout, a file (--output) or the clipboard (--clipboard).`,
		Example: `  copyctx combine '**/*.md' --with-headers
  copyctx combine 'docs/**' --header-format '=== {path} ===' --clipboard`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if clipboard && output != "" {
				return errors.New("--clipboard and --output are mutually exclusive")
			}

			// combined content owns stdout, progress goes to stderr
			ctx := o.Context(cmd.Context(), o.Stderr)
			combineOpts.Patterns = args

			var sink combine.Sink
			switch {
			case clipboard:
				sink = combine.ClipboardSink{}
			case output != "":
				sink = &combine.FileSink{Fs: o.Fs, Path: output}
			case o.Stdout == os.Stdout:
				sink = combine.StdoutSink()
			default:
				sink = &combine.WriterSink{W: o.Stdout}
			}

			if err := operation.NewCombineOperation(o.Operation(), combineOpts, sink).Execute(ctx); err != nil {
				return errors.Errorf("combining files: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&combineOpts.WithHeaders, "with-headers", false, "write a header above each file")
	cmd.Flags().StringVar(&combineOpts.HeaderFormat, "header-format", combine.DefaultHeaderFormat, "header template, {path} is replaced by the file path")
	cmd.Flags().StringVar(&combineOpts.Separator, "separator", combine.DefaultSeparator, "text inserted between files")
	cmd.Flags().BoolVar(&combineOpts.Sort, "sort", false, "sort files by path instead of pattern order")
	cmd.Flags().BoolVar(&clipboard, "clipboard", false, "copy the result to the clipboard")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the result to a file")

	return cmd
}
