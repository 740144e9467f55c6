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

package main

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/copyctx/cmd/copyctx/commands"
	"github.com/walteh/copyctx/cmd/copyctx/opts"
)

// skipConfig marks commands that run without a config file
const skipConfig = "copyctx/skip-config"

// newRootCmd builds the command tree. A bare invocation syncs.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	rootOpts := &opts.RootOpts{Stdout: stdout, Stderr: stderr}
	syncFlags := &commands.SyncFlags{}

	cmd := &cobra.Command{
		Use:   "copyctx",
		Short: "Keep a folder of reference context in sync with a declarative config",
		Long: `copyctx gathers git repositories, downloads, local paths and script output
into one context folder, then deletes everything the config does not sanction.
Running it without a subcommand is the same as running sync.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogging(rootOpts, stderr)
			cmd.SetContext(logger.WithContext(cmd.Context()))

			if cmd.Annotations[skipConfig] == "true" {
				return nil
			}
			return rootOpts.Load(cmd.Context())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunSync(cmd.Context(), rootOpts, syncFlags)
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	addRootFlags(cmd, rootOpts)
	commands.AddSyncFlags(cmd, syncFlags)

	cmd.AddCommand(
		commands.NewSyncCmd(rootOpts),
		commands.NewCleanCmd(rootOpts),
		commands.NewStatusCmd(rootOpts),
		commands.NewCombineCmd(rootOpts),
		commands.NewWatchCmd(rootOpts),
		newVersionCmd(stdout),
	)

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", "context.yaml", "config file path")
	cmd.PersistentFlags().BoolVarP(&o.Verbose, "verbose", "v", false, "log every file operation")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog based on flags
func setupLogging(o *opts.RootOpts, w io.Writer) zerolog.Logger {
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	if f, ok := w.(*os.File); !ok || f != os.Stderr {
		out.NoColor = true
	}

	o.Logger = zerolog.New(out).Level(o.Level()).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &o.Logger
	return o.Logger
}
