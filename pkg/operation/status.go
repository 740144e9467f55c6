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

	"github.com/walteh/copyctx/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🔍 NewStatusOperation creates an operation that renders the context folder status
func NewStatusOperation(opts Options) Operation {
	return &statusOperation{
		BaseOperation: NewBaseOperation(opts),
	}
}

type statusOperation struct {
	BaseOperation
}

func (op *statusOperation) Name() string { return "status" }

// 🏃 Execute inspects the context folder and renders the report
func (op *statusOperation) Execute(ctx context.Context) error {
	root, err := op.root()
	if err != nil {
		return err
	}

	report, err := status.Inspect(ctx, op.Fs, root, op.Config.Targets())
	if err != nil {
		return errors.Errorf("inspecting: %w", err)
	}

	if err := status.Render(op.Out, report); err != nil {
		return errors.Errorf("rendering status: %w", err)
	}
	return nil
}
