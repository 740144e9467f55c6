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
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/copyctx/cmd/copyctx/opts"
	"github.com/walteh/copyctx/pkg/watch"
)

// NewWatchCmd creates the watch command
func NewWatchCmd(o *opts.RootOpts) *cobra.Command {
	var (
		flags    = &SyncFlags{}
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Sync, then sync again whenever the config file changes",
		Long: `Watch runs a sync immediately and again every time the config file is
written. The config is reloaded before each run; a run that fails is logged
and the watcher keeps going until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := o.Context(cmd.Context(), o.Stdout)
			logger := zerolog.Ctx(ctx).With().Str("command", "watch").Logger()
			ctx = logger.WithContext(ctx)

			first := true
			return watch.Watch(ctx, o.ConfigFile, debounce, func(ctx context.Context) error {
				// the config was already loaded for the first run
				if !first {
					if err := o.Load(ctx); err != nil {
						return err
					}
				}
				first = false
				return RunSync(ctx, o, flags)
			})
		},
	}

	AddSyncFlags(cmd, flags)
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before a change triggers a sync")

	return cmd
}
