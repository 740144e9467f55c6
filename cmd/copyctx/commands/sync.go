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
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/copyctx/cmd/copyctx/opts"
	"github.com/walteh/copyctx/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// SyncFlags are the flags shared by sync, the root command and watch
type SyncFlags struct {
	Jobs   int
	Clean  bool
	Strict bool
}

// AddSyncFlags registers the sync flags on cmd
func AddSyncFlags(cmd *cobra.Command, f *SyncFlags) {
	cmd.Flags().IntVarP(&f.Jobs, "jobs", "j", 1, "number of sources fetched concurrently")
	cmd.Flags().BoolVar(&f.Clean, "clean", true, "remove entries not sanctioned by the config after fetching")
	cmd.Flags().BoolVar(&f.Strict, "strict", false, "exit with an error when the clean could not remove every entry")
}

// RunSync fetches every source and optionally cleans the context folder
func RunSync(ctx context.Context, o *opts.RootOpts, f *SyncFlags) error {
	ctx = o.Context(ctx, o.Stdout)
	ctx = zerolog.Ctx(ctx).With().Str("command", "sync").Logger().WithContext(ctx)

	opOpts := o.Operation()
	opOpts.Jobs = f.Jobs
	opOpts.Clean = f.Clean
	opOpts.Strict = f.Strict

	if err := operation.NewRunner(zerolog.Ctx(ctx)).Run(ctx, operation.NewSyncOperation(opOpts)); err != nil {
		return errors.Errorf("syncing context folder: %w", err)
	}
	return nil
}

// NewSyncCmd creates the sync command
func NewSyncCmd(o *opts.RootOpts) *cobra.Command {
	flags := &SyncFlags{}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch every source into the context folder",
		Long: `Sync materializes every configured source into the context folder.
It will:
1. Create the context folder if it is missing
2. Fetch repo, url, path and sh sources, skipping repos already present
3. Remove everything the config does not sanction (disable with --clean=false)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunSync(cmd.Context(), o, flags)
		},
	}

	AddSyncFlags(cmd, flags)

	return cmd
}
