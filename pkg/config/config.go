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
	"fmt"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/walteh/copyctx/pkg/reconcile"
	"github.com/walteh/copyctx/pkg/rules"
	"gitlab.com/tozd/go/errors"
)

const (
	// DefaultDest is the context folder used when the config does not name one
	DefaultDest = ".context"
	// DefaultShell runs script sources when no shell is configured
	DefaultShell = "sh -c"
	// CurrentVersion is the only supported config version
	CurrentVersion = 1
)

// 🏷️ Kind identifies where a source's content comes from
type Kind string

const (
	KindRepo   Kind = "repo"
	KindURL    Kind = "url"
	KindPath   Kind = "path"
	KindScript Kind = "sh"
)

// 🧩 Spec holds the kind-specific part of a source. It is implemented only by the
// spec types of this package.
type Spec interface {
	Kind() Kind
	isSpec()
}

// 📦 RepoSpec clones a git repository
type RepoSpec struct {
	Repo   string // clone URL
	Branch string // optional branch or tag
}

// 🌐 URLSpec downloads a single file
type URLSpec struct {
	URL string
}

// 📁 PathSpec copies a local file or directory
type PathSpec struct {
	Path string // relative to the config file directory, ~ expanded
}

// 🐚 ScriptSpec runs a script inside the destination directory
type ScriptSpec struct {
	Script string
	Shell  string // command prefix split into argv, e.g. "bash -c"
}

func (RepoSpec) Kind() Kind   { return KindRepo }
func (URLSpec) Kind() Kind    { return KindURL }
func (PathSpec) Kind() Kind   { return KindPath }
func (ScriptSpec) Kind() Kind { return KindScript }

func (RepoSpec) isSpec()   {}
func (URLSpec) isSpec()    {}
func (PathSpec) isSpec()   {}
func (ScriptSpec) isSpec() {}

// 📥 Source is one configured origin contributing content to the context folder
type Source struct {
	Name        string
	Destination string   // relative to the context root
	Files       []string // raw rules; nil means keep the whole destination
	Spec        Spec

	rules []rules.Rule
}

// Kind returns the source kind
func (s Source) Kind() Kind {
	if s.Spec == nil {
		return ""
	}
	return s.Spec.Kind()
}

// Rules returns the parsed file rules, nil when the source has none
func (s Source) Rules() []rules.Rule {
	return s.rules
}

// Target projects the source for keep-set computation
func (s Source) Target(policy rules.Policy) reconcile.Target {
	return reconcile.Target{
		Name:        s.Name,
		Destination: s.Destination,
		Rules:       s.rules,
		Policy:      policy,
	}
}

// String returns a string representation of the source
func (s Source) String() string {
	var origin string
	switch spec := s.Spec.(type) {
	case RepoSpec:
		origin = spec.Repo
		if spec.Branch != "" {
			origin += "@" + spec.Branch
		}
	case URLSpec:
		origin = spec.URL
	case PathSpec:
		origin = spec.Path
	case ScriptSpec:
		origin = "script"
	}
	return fmt.Sprintf("%s[%s] %s -> %s", s.Name, s.Kind(), origin, s.Destination)
}

// 📚 Config represents the complete configuration
type Config struct {
	Version int
	Dest    string
	Policy  rules.Policy
	Sources []Source

	location string
}

// Location returns the path the config was loaded from, empty for in-memory configs
func (c *Config) Location() string {
	return c.location
}

// BaseDir is the directory relative paths in the config are resolved against
func (c *Config) BaseDir() string {
	if c.location == "" {
		return "."
	}
	return filepath.Dir(c.location)
}

// ResolvePath expands ~ and makes p absolute relative to BaseDir
func (c *Config) ResolvePath(p string) (string, error) {
	expanded, err := homedir.Expand(p)
	if err != nil {
		return "", errors.Errorf("expanding %q: %w", p, err)
	}
	if !filepath.IsAbs(expanded) {
		expanded = filepath.Join(c.BaseDir(), expanded)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", errors.Errorf("resolving %q: %w", p, err)
	}
	return abs, nil
}

// Root returns the absolute context folder path
func (c *Config) Root() (string, error) {
	dest := c.Dest
	if dest == "" {
		dest = DefaultDest
	}
	return c.ResolvePath(dest)
}

// Targets projects every source for keep-set computation
func (c *Config) Targets() []reconcile.Target {
	out := make([]reconcile.Target, 0, len(c.Sources))
	for _, s := range c.Sources {
		out = append(out, s.Target(c.Policy))
	}
	return out
}

// Source looks a source up by name
func (c *Config) Source(name string) (Source, bool) {
	for _, s := range c.Sources {
		if s.Name == name {
			return s, true
		}
	}
	return Source{}, false
}
