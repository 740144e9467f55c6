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

package operation

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/copyctx/pkg/log"
	"github.com/walteh/copyctx/pkg/reconcile"
	"gitlab.com/tozd/go/errors"
)

// 🧹 NewCleanOperation creates a new clean operation
func NewCleanOperation(opts Options) Operation {
	return &cleanOperation{
		BaseOperation: NewBaseOperation(opts),
	}
}

// 🧹 cleanOperation prunes everything the configuration does not sanction
type cleanOperation struct {
	BaseOperation
}

func (op *cleanOperation) Name() string { return "clean" }

// 🏃 Execute runs the clean operation
func (op *cleanOperation) Execute(ctx context.Context) error {
	root, err := op.root()
	if err != nil {
		return err
	}
	return clean(ctx, op.BaseOperation, root)
}

// clean builds the keep set and reconciles root. Per-entry failures do not stop the pass;
// they are reported as a warning, or returned once it finishes when Strict is set.
func clean(ctx context.Context, op BaseOperation, root string) error {
	keep := reconcile.BuildKeepSet(ctx, op.Fs, root, op.Config.Targets())

	report, err := reconcile.Reconcile(ctx, op.Fs, root, keep, reconcile.Options{
		Verbose: op.Verbose || op.DryRun,
		DryRun:  op.DryRun,
	})
	if err != nil {
		return errors.Errorf("cleaning: %w", err)
	}

	console := log.FromContext(ctx)
	switch {
	case op.DryRun:
		console.Infof("Dry run: %d entries would be removed", len(report.Removed))
	case op.Verbose:
		console.Infof("Removed %d entries", len(report.Removed))
	}

	if len(report.Failures) == 0 {
		return nil
	}

	if op.Strict {
		return errors.Errorf("cleaning finished with %d failures: %w", len(report.Failures), report.Err())
	}

	zerolog.Ctx(ctx).Warn().Err(report.Err()).Int("failures", len(report.Failures)).Msg("some entries could not be removed")
	console.Warningf("%d entries could not be removed, rerun with --strict to fail on this", len(report.Failures))
	return nil
}
