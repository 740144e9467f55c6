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

package fetch

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/rs/zerolog"
	"github.com/walteh/copyctx/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// ErrEmptyScript is returned for a script source without a script
var ErrEmptyScript = errors.Base("empty script provided")

// 🐚 ScriptFetcher runs a script with dest as its working directory
type ScriptFetcher struct {
	Env []string // extra environment, appended to the process environment
}

func (f *ScriptFetcher) Fetch(ctx context.Context, dest string, src config.Source) error {
	spec, err := specOf[config.ScriptSpec](src)
	if err != nil {
		return err
	}

	if strings.TrimSpace(spec.Script) == "" {
		return ErrEmptyScript
	}

	shell := spec.Shell
	if strings.TrimSpace(shell) == "" {
		shell = config.DefaultShell
	}

	argv, err := shellwords.Parse(shell)
	if err != nil {
		return errors.Errorf("parsing shell %q: %w", shell, err)
	}
	if len(argv) == 0 {
		return errors.Errorf("shell %q has no command", shell)
	}
	argv = append(argv, spec.Script)

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return errors.Errorf("creating directory %s: %w", dest, err)
	}

	logger := zerolog.Ctx(ctx).With().Str("source", src.Name).Str("dir", dest).Logger()
	logger.Debug().Strs("argv", argv[:len(argv)-1]).Str("script", spec.Script).Msg("running script")

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dest
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if len(f.Env) > 0 {
		cmd.Env = append(os.Environ(), f.Env...)
	}

	err = cmd.Run()

	logger.Debug().Str("stdout", stdout.String()).Str("stderr", stderr.String()).Msg("script finished")

	if err != nil {
		return errors.Errorf("script execution failed: %w\nStdout:\n%s\nStderr:\n%s", err, stdout.String(), stderr.String())
	}

	return nil
}
