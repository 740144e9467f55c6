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

	"github.com/walteh/copyctx/pkg/combine"
)

// 🧩 NewCombineOperation creates an operation that concatenates context files into sink
func NewCombineOperation(opts Options, combineOpts combine.Options, sink combine.Sink) Operation {
	return &combineOperation{
		BaseOperation: NewBaseOperation(opts),
		combine:       combineOpts,
		sink:          sink,
	}
}

type combineOperation struct {
	BaseOperation
	combine combine.Options
	sink    combine.Sink
}

func (op *combineOperation) Name() string { return "combine" }

// 🏃 Execute combines the matched files
func (op *combineOperation) Execute(ctx context.Context) error {
	root, err := op.root()
	if err != nil {
		return err
	}

	sink := op.sink
	if sink == nil {
		sink = &combine.WriterSink{W: op.Out}
	}

	_, err = combine.Run(ctx, op.Fs, root, op.combine, sink)
	return err
}
