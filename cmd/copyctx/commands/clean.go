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
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/copyctx/cmd/copyctx/opts"
	"github.com/walteh/copyctx/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// NewCleanCmd creates the clean command
func NewCleanCmd(o *opts.RootOpts) *cobra.Command {
	var dryRun, strict bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove entries the config does not sanction",
		Long: `Clean reconciles the context folder against the config without fetching.
Files outside every source destination, and files discarded by a source's
file rules, are removed. Directories emptied by the pass are removed too.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := o.Context(cmd.Context(), o.Stdout)
			ctx = zerolog.Ctx(ctx).With().Str("command", "clean").Logger().WithContext(ctx)

			opOpts := o.Operation()
			opOpts.DryRun = dryRun
			opOpts.Strict = strict

			if err := operation.NewRunner(zerolog.Ctx(ctx)).Run(ctx, operation.NewCleanOperation(opOpts)); err != nil {
				return errors.Errorf("cleaning context folder: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "report what would be removed without removing it")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit with an error when an entry could not be removed")

	return cmd
}
