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
	"context"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/rs/zerolog"
	"github.com/walteh/copyctx/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// 📦 RepoFetcher shallow-clones a git repository and strips its .git directory.
// A destination that already exists is left untouched.
type RepoFetcher struct{}

func (f *RepoFetcher) Fetch(ctx context.Context, dest string, src config.Source) error {
	spec, err := specOf[config.RepoSpec](src)
	if err != nil {
		return err
	}

	logger := zerolog.Ctx(ctx).With().Str("source", src.Name).Str("repo", spec.Repo).Logger()

	if _, err := os.Lstat(dest); err == nil {
		logger.Info().Str("dest", dest).Msg("destination already exists, skipping clone")
		return nil
	} else if !os.IsNotExist(err) {
		return errors.Errorf("checking destination: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return errors.Errorf("creating parent directory: %w", err)
	}

	refs := []plumbing.ReferenceName{""}
	if spec.Branch != "" {
		// a branch name wins over a tag of the same name, like git clone --branch
		refs = []plumbing.ReferenceName{
			plumbing.NewBranchReferenceName(spec.Branch),
			plumbing.NewTagReferenceName(spec.Branch),
		}
	}

	for i, ref := range refs {
		logger.Debug().Str("ref", ref.String()).Msg("cloning repository")

		_, err = git.PlainCloneContext(ctx, dest, false, &git.CloneOptions{
			URL:           spec.Repo,
			ReferenceName: ref,
			SingleBranch:  true,
			Depth:         1,
			Tags:          git.NoTags,
		})
		if err == nil {
			break
		}
		if i < len(refs)-1 && isMissingRef(err) {
			_ = os.RemoveAll(dest)
			continue
		}
		_ = os.RemoveAll(dest)
		return errors.Errorf("cloning %s: %w", spec.Repo, err)
	}

	if err := os.RemoveAll(filepath.Join(dest, git.GitDirName)); err != nil {
		return errors.Errorf("removing .git directory: %w", err)
	}

	logger.Debug().Str("dest", dest).Msg("repository cloned")
	return nil
}

func isMissingRef(err error) bool {
	return errors.Is(err, git.NoMatchingRefSpecError{}) || errors.Is(err, plumbing.ErrReferenceNotFound)
}
