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
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"
	"github.com/walteh/copyctx/pkg/rules"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 📝 fileConfig is the on-disk schema shared by every format
type fileConfig struct {
	Version int            `json:"version" yaml:"version" hcl:"version,optional"`
	Dest    string         `json:"dest,omitempty" yaml:"dest,omitempty" hcl:"dest,optional"`
	Policy  string         `json:"policy,omitempty" yaml:"policy,omitempty" hcl:"policy,optional"`
	Sources []*sourceBlock `json:"sources" yaml:"sources" hcl:"source,block"`
}

type sourceBlock struct {
	Type   string   `json:"type" yaml:"type" hcl:"type,label"`
	Name   string   `json:"name" yaml:"name" hcl:"name,label"`
	Dest   string   `json:"dest" yaml:"dest" hcl:"dest"`
	Files  []string `json:"files,omitempty" yaml:"files,omitempty" hcl:"files,optional"`
	Repo   string   `json:"repo,omitempty" yaml:"repo,omitempty" hcl:"repo,optional"`
	Branch string   `json:"branch,omitempty" yaml:"branch,omitempty" hcl:"branch,optional"`
	URL    string   `json:"url,omitempty" yaml:"url,omitempty" hcl:"url,optional"`
	Path   string   `json:"path,omitempty" yaml:"path,omitempty" hcl:"path,optional"`
	Script string   `json:"script,omitempty" yaml:"script,omitempty" hcl:"script,optional"`
	Shell  string   `json:"shell,omitempty" yaml:"shell,omitempty" hcl:"shell,optional"`
}

// Load loads a configuration file from the given path.
// The format is determined by the file extension:
// - .json for JSON
// - .yaml or .yml for YAML
// - .hcl for HCL
// - anything else will try YAML, then HCL
func Load(ctx context.Context, path string) (*Config, error) {
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(ctx, data, path)
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Errorf("resolving config path: %w", err)
	}
	cfg.location = abs

	return cfg, nil
}

// Parse decodes and validates config data, picking the format from filename
func Parse(ctx context.Context, data []byte, filename string) (*Config, error) {
	var fc *fileConfig
	var err error

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		fc, err = loadJSON(data)
	case ".yaml", ".yml":
		fc, err = loadYAML(data)
	case ".hcl":
		fc, err = loadHCL(data, filename)
	default:
		fc, err = loadYAML(data)
		if err != nil {
			var hclErr error
			fc, hclErr = loadHCL(data, filename)
			if hclErr != nil {
				return nil, errors.Errorf("failed to parse %s as YAML or HCL: %w", filename, errors.Join(err, hclErr))
			}
			err = nil
		}
	}
	if err != nil {
		return nil, err
	}

	cfg, err := fc.toConfig()
	if err != nil {
		return nil, err
	}

	if err := Validate(ctx, cfg); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// loadJSON loads a configuration from JSON data
func loadJSON(data []byte) (*fileConfig, error) {
	var fc fileConfig
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&fc); err != nil {
		return nil, errors.Errorf("parsing JSON: %w", err)
	}
	return &fc, nil
}

// loadYAML loads a configuration from YAML data
func loadYAML(data []byte) (*fileConfig, error) {
	var fc fileConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&fc); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return &fc, nil
}

// loadHCL loads a configuration from HCL data
func loadHCL(data []byte, filename string) (*fileConfig, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var fc fileConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &fc)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	return &fc, nil
}

// toConfig converts the file schema into the closed source variants
func (fc *fileConfig) toConfig() (*Config, error) {
	policy, err := rules.ParsePolicy(fc.Policy)
	if err != nil {
		return nil, errors.Errorf("parsing policy: %s: %w", err, ErrInvalid)
	}

	cfg := &Config{
		Version: fc.Version,
		Dest:    fc.Dest,
		Policy:  policy,
		Sources: make([]Source, 0, len(fc.Sources)),
	}

	for i, sb := range fc.Sources {
		if sb == nil {
			return nil, errors.Errorf("source %d is empty: %w", i, ErrInvalid)
		}

		src := Source{
			Name:        sb.Name,
			Destination: sb.Dest,
			Files:       sb.Files,
		}

		switch Kind(strings.ToLower(sb.Type)) {
		case KindRepo:
			src.Spec = RepoSpec{Repo: sb.Repo, Branch: sb.Branch}
		case KindURL:
			src.Spec = URLSpec{URL: sb.URL}
		case KindPath:
			src.Spec = PathSpec{Path: sb.Path}
		case KindScript:
			src.Spec = ScriptSpec{Script: sb.Script, Shell: sb.Shell}
		default:
			return nil, errors.Errorf("source %q: unknown type %q: %w", sb.Name, sb.Type, ErrInvalid)
		}

		cfg.Sources = append(cfg.Sources, src)
	}

	return cfg, nil
}
