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

package config

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/copyctx/pkg/rules"
	"gitlab.com/tozd/go/errors"
)

// ErrInvalid is wrapped by every validation error
var ErrInvalid = errors.Base("invalid config")

// ✅ Validate checks cfg, fills defaults and parses each source's file rules.
// It is called by Load; call it directly for configs built in memory.
func Validate(ctx context.Context, cfg *Config) error {
	if cfg == nil {
		return errors.Errorf("nil config: %w", ErrInvalid)
	}

	switch cfg.Version {
	case 0:
		cfg.Version = CurrentVersion
	case CurrentVersion:
	default:
		return errors.Errorf("unsupported version %d: %w", cfg.Version, ErrInvalid)
	}

	if cfg.Dest == "" {
		cfg.Dest = DefaultDest
	}

	seen := make(map[string]struct{}, len(cfg.Sources))
	for i := range cfg.Sources {
		src := &cfg.Sources[i]

		if strings.TrimSpace(src.Name) == "" {
			return errors.Errorf("source %d: name is required: %w", i, ErrInvalid)
		}
		if _, dup := seen[src.Name]; dup {
			return errors.Errorf("source %q: duplicate name: %w", src.Name, ErrInvalid)
		}
		seen[src.Name] = struct{}{}

		dest, err := validateDestination(src.Destination)
		if err != nil {
			return errors.Errorf("source %q: %w", src.Name, err)
		}
		src.Destination = dest

		if err := validateSpec(src.Spec); err != nil {
			return errors.Errorf("source %q: %w", src.Name, err)
		}

		parsed, err := rules.ParseRules(src.Files)
		if err != nil {
			return errors.Errorf("source %q: %w", src.Name, err)
		}
		src.rules = parsed
	}

	zerolog.Ctx(ctx).Debug().
		Int("sources", len(cfg.Sources)).
		Str("dest", cfg.Dest).
		Str("policy", cfg.Policy.String()).
		Msg("configuration validated")

	return nil
}

// validateDestination requires a relative path that stays inside the context root
func validateDestination(dest string) (string, error) {
	if strings.TrimSpace(dest) == "" {
		return "", errors.Errorf("dest is required: %w", ErrInvalid)
	}
	if filepath.IsAbs(dest) {
		return "", errors.Errorf("dest %q must be relative: %w", dest, ErrInvalid)
	}
	clean := filepath.Clean(filepath.FromSlash(dest))
	if clean == "." {
		return "", errors.Errorf("dest %q resolves to the context root: %w", dest, ErrInvalid)
	}
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", errors.Errorf("dest %q escapes the context root: %w", dest, ErrInvalid)
	}
	return clean, nil
}

func validateSpec(spec Spec) error {
	switch s := spec.(type) {
	case RepoSpec:
		if s.Repo == "" {
			return errors.Errorf("repo is required: %w", ErrInvalid)
		}
	case URLSpec:
		if s.URL == "" {
			return errors.Errorf("url is required: %w", ErrInvalid)
		}
	case PathSpec:
		if s.Path == "" {
			return errors.Errorf("path is required: %w", ErrInvalid)
		}
	case ScriptSpec:
		if strings.TrimSpace(s.Script) == "" {
			return errors.Errorf("script is required: %w", ErrInvalid)
		}
	case nil:
		return errors.Errorf("source type is required: %w", ErrInvalid)
	default:
		return errors.Errorf("unknown source type %T: %w", spec, ErrInvalid)
	}
	return nil
}
