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
	"fmt"

	"github.com/walteh/copyctx/pkg/fetch"
	"github.com/walteh/copyctx/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// 🔄 NewSyncOperation creates a new sync operation
func NewSyncOperation(opts Options) Operation {
	return &syncOperation{
		BaseOperation: NewBaseOperation(opts),
	}
}

// 🔄 syncOperation materializes every source and optionally cleans afterwards
type syncOperation struct {
	BaseOperation
}

func (op *syncOperation) Name() string { return "sync" }

// 🏃 Execute runs the sync operation
func (op *syncOperation) Execute(ctx context.Context) error {
	root, err := op.root()
	if err != nil {
		return err
	}

	console := log.FromContext(ctx)

	if err := op.Fs.MkdirAll(root, 0o755); err != nil {
		return errors.Errorf("creating context root %s: %w", root, err)
	}

	console.Header(fmt.Sprintf("syncing %d sources into %s", len(op.Config.Sources), root))

	fetchErr := fetch.Materialize(ctx, root, op.Config.Sources, fetch.Options{
		Jobs:     op.Jobs,
		Verbose:  op.Verbose,
		Registry: op.Registry,
	})

	// a clean after a partial failure is safe, a failed source keeps whatever it had before
	var cleanErr error
	if op.Clean {
		cleanErr = clean(ctx, op.BaseOperation, root)
	}

	if err := errors.Join(fetchErr, cleanErr); err != nil {
		return errors.Errorf("sync: %w", err)
	}

	console.Success("Context folder synced.")
	return nil
}
