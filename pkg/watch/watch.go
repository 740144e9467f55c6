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

// Package watch reruns a function whenever a config file changes.
package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/walteh/copyctx/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// DefaultDebounce collapses the burst of events editors emit on save
const DefaultDebounce = 250 * time.Millisecond

// 👀 Watch runs fn once, then again after every change to the file at path, until ctx is
// done. Errors from fn are logged and watching continues.
func Watch(ctx context.Context, path string, debounce time.Duration, fn func(context.Context) error) error {
	logger := zerolog.Ctx(ctx)
	console := log.FromContext(ctx)

	target, err := filepath.Abs(path)
	if err != nil {
		return errors.Errorf("resolving %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// the directory is watched so atomic saves that replace the file are seen
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return errors.Errorf("watching %s: %w", filepath.Dir(target), err)
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	run := func(reason string) {
		logger.Debug().Str("file", target).Str("reason", reason).Msg("running")
		if err := fn(ctx); err != nil {
			logger.Error().Err(err).Str("file", target).Msg("run failed")
			console.Errorf("run failed: %v", err)
		}
	}

	run("start")
	console.Infof("Watching %s for changes", target)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Debug().Str("file", target).Msg("watch stopped")
			return nil

		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(evt.Name) != target {
				continue
			}
			if !evt.Has(fsnotify.Create | fsnotify.Write | fsnotify.Rename) {
				continue
			}

			logger.Debug().Str("event", evt.String()).Msg("config changed")

			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("watcher error")

		case <-fire:
			fire = nil
			run("change")
		}
	}
}
