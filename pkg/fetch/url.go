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
	"net/http"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/copyctx/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// 🌐 URLFetcher downloads a single file to dest
type URLFetcher struct {
	Fs     afero.Fs
	Client *http.Client
}

func (f *URLFetcher) Fetch(ctx context.Context, dest string, src config.Source) error {
	spec, err := specOf[config.URLSpec](src)
	if err != nil {
		return err
	}

	body, err := download(ctx, f.client(), spec.URL)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := f.Fs.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return errors.Errorf("creating parent directory: %w", err)
	}

	out, err := f.Fs.Create(dest)
	if err != nil {
		return errors.Errorf("creating %s: %w", dest, err)
	}

	n, err := io.Copy(out, body)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = f.Fs.Remove(dest)
		return errors.Errorf("writing %s: %w", dest, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("source", src.Name).
		Str("url", spec.URL).
		Str("size", humanize.Bytes(uint64(n))).
		Msg("download complete")

	return nil
}

func (f *URLFetcher) client() *http.Client {
	if f.Client == nil {
		return http.DefaultClient
	}
	return f.Client
}

// 📥 download opens the body of a successful GET
func download(ctx context.Context, client *http.Client, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Errorf("creating request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Errorf("making request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, errors.Errorf("request failed with status: %s", resp.Status)
	}

	return resp.Body, nil
}
