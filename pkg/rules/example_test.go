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

package rules_test

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/walteh/copyctx/pkg/rules"
)

func ExampleClassify() {
	fs := afero.NewMemMapFs()
	for _, f := range []string{"docs/a.md", "docs/drafts/b.md", "main.go"} {
		_ = afero.WriteFile(fs, filepath.Join("/tmp/ctx/kit", f), []byte("x"), 0o644)
	}

	rs, err := rules.ParseRules([]string{"docs/**", "!docs/drafts/**"})
	if err != nil {
		panic(err)
	}

	for _, c := range rules.Classify(fs, "/tmp/ctx/kit", rs) {
		if filepath.Ext(c.Path) != "" {
			fmt.Println(c.Path, c.Keep)
		}
	}
	// Output:
	// /tmp/ctx/kit/docs/a.md true
	// /tmp/ctx/kit/docs/drafts/b.md false
	// /tmp/ctx/kit/main.go false
}
