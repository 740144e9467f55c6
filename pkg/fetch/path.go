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
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/copyctx/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// 📁 PathFetcher copies a local file or directory tree to dest
type PathFetcher struct {
	Fs      afero.Fs
	Resolve Resolver
}

func (f *PathFetcher) Fetch(ctx context.Context, dest string, src config.Source) error {
	spec, err := specOf[config.PathSpec](src)
	if err != nil {
		return err
	}

	resolve := f.Resolve
	if resolve == nil {
		resolve = filepath.Abs
	}
	from, err := resolve(spec.Path)
	if err != nil {
		return errors.Errorf("resolving %q: %w", spec.Path, err)
	}

	info, err := f.Fs.Stat(from)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Errorf("source path %q does not exist: %w", from, os.ErrNotExist)
		}
		return errors.Errorf("checking source path: %w", err)
	}

	logger := zerolog.Ctx(ctx).With().Str("source", src.Name).Str("from", from).Str("dest", dest).Logger()

	if !info.IsDir() {
		if err := f.Fs.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return errors.Errorf("creating parent directory: %w", err)
		}
		logger.Debug().Msg("copying file")
		return copyFile(f.Fs, from, dest, info.Mode())
	}

	logger.Debug().Msg("copying directory")
	return copyTree(ctx, f.Fs, from, dest)
}

// copyTree mirrors the directory src into dst. Links are followed only when they point at
// regular files.
func copyTree(ctx context.Context, fsys afero.Fs, src, dst string) error {
	return afero.Walk(fsys, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch {
		case info.IsDir():
			if err := fsys.MkdirAll(target, 0o755); err != nil {
				return errors.Errorf("creating %s: %w", target, err)
			}
			return nil
		case info.Mode()&os.ModeSymlink != 0:
			resolved, err := fsys.Stat(path)
			if err != nil || !resolved.Mode().IsRegular() {
				zerolog.Ctx(ctx).Debug().Str("path", path).Msg("skipping link that is not a regular file")
				return nil
			}
			return copyFile(fsys, path, target, resolved.Mode())
		case !info.Mode().IsRegular():
			zerolog.Ctx(ctx).Debug().Str("path", path).Msg("skipping special file")
			return nil
		default:
			return copyFile(fsys, path, target, info.Mode())
		}
	})
}

func copyFile(fsys afero.Fs, src, dst string, mode os.FileMode) error {
	in, err := fsys.Open(src)
	if err != nil {
		return errors.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := fsys.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm())
	if err != nil {
		return errors.Errorf("creating %s: %w", dst, err)
	}

	_, err = io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return errors.Errorf("copying %s: %w", src, err)
	}
	return nil
}
