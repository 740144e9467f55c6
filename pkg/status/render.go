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

package status

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"gitlab.com/tozd/go/errors"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for filename
	typeWidth   = 10 // Width for entry type
	statusWidth = 15 // Width for status text
)

// 🎯 FormatEntry formats a pending clean entry for display
func FormatEntry(path, entryType, status string, isRemoved, isBlocked bool) string {
	var prefix string
	switch {
	case isRemoved:
		prefix = color.RedString("✗")
	case isBlocked:
		prefix = color.YellowString("⟳")
	default:
		prefix = color.HiBlackString("-")
	}

	namePart := fmt.Sprintf("%-*s", nameWidth, path)
	typePart := fmt.Sprintf("%-*s", typeWidth, entryType)
	statusPart := fmt.Sprintf("%-*s", statusWidth, status)

	return strings.TrimRight(fmt.Sprintf("%s%s %s %s %s",
		strings.Repeat(" ", fileIndent),
		prefix,
		namePart,
		typePart,
		statusPart,
	), " ")
}

// 🖨️ Render writes a table of sources followed by the entries a clean would touch
func Render(w io.Writer, r *Report) error {
	fmt.Fprintf(w, "%s %s\n", color.New(color.Bold).Sprint("context:"), r.Root)

	if !r.RootExists {
		fmt.Fprintln(w, color.YellowString("context folder does not exist yet, run sync"))
	}

	data := pterm.TableData{{"SOURCE", "DEST", "PRESENT", "RULES", "KEPT", "DISCARDED", "SIZE"}}
	for _, s := range r.SortedSources() {
		rulesCol := strconv.Itoa(s.Rules)
		if s.WholeTree {
			rulesCol = "all"
		}
		present := color.GreenString("yes")
		if !s.Exists {
			present = color.RedString("no")
		}
		data = append(data, []string{
			s.Name,
			s.Destination,
			present,
			rulesCol,
			strconv.Itoa(s.Kept),
			strconv.Itoa(s.Discarded),
			humanize.Bytes(uint64(s.Size)),
		})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Errorf("rendering table: %w", err)
	}
	fmt.Fprintln(w, table)

	if !r.RootExists {
		return nil
	}

	if r.Clean() {
		fmt.Fprintln(w, color.GreenString("✓ context folder is clean"))
	} else {
		fmt.Fprintf(w, "\n[pending clean: %d]\n", len(r.Pending))
		for _, e := range r.Pending {
			fmt.Fprintln(w, FormatEntry(e.Path, e.Type, "WOULD REMOVE", true, false))
		}
	}

	// unkept directories holding kept entries survive every clean
	if len(r.Blocked) > 0 {
		fmt.Fprintf(w, "\n[retained: %d]\n", len(r.Blocked))
		for _, e := range r.Blocked {
			fmt.Fprintln(w, FormatEntry(e.Path, e.Type, "HOLDS KEPT FILES", false, true))
		}
	}

	return nil
}
