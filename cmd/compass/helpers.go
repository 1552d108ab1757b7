// Shared helpers for compass CLI commands.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/compass/pkg/compass"
	"github.com/mesh-intelligence/compass/pkg/types"
)

// Output colors. fatih/color disables them when stdout is not a terminal
// or NO_COLOR is set.
var (
	heading = color.New(color.Bold)
	yellow  = color.New(color.FgYellow)
	red     = color.New(color.FgRed, color.Bold)
)

// loadCatalog loads the catalog in the given format. An unknown format is
// a user error.
func loadCatalog(format, dir string) (*compass.Catalog, error) {
	c, err := compass.LoadCatalog(format, dir)
	if errors.Is(err, compass.ErrUnknownFormat) {
		return nil, asUserError(err)
	}
	return c, err
}

// readContext decodes a company context from a YAML or JSON file. "-"
// reads standard input.
func readContext(path string, stdin io.Reader) (types.CompanyContext, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return types.CompanyContext{}, asUserError(fmt.Errorf("read context: %w", err))
	}

	var cc types.CompanyContext
	if err := yaml.Unmarshal(data, &cc); err != nil {
		return types.CompanyContext{}, asUserError(fmt.Errorf("parse context %s: %w", path, err))
	}
	return cc, nil
}

// writeJSON writes v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// table renders rows with a tabwriter and trims trailing padding.
type table struct {
	sb strings.Builder
	tw *tabwriter.Writer
}

func newTable(headers ...string) *table {
	t := &table{}
	t.tw = tabwriter.NewWriter(&t.sb, 0, 0, 2, ' ', 0)
	t.row(headers...)
	dashes := make([]string, len(headers))
	for i, h := range headers {
		dashes[i] = strings.Repeat("-", len(h))
	}
	t.row(dashes...)
	return t
}

func (t *table) row(cells ...string) {
	fmt.Fprintln(t.tw, strings.Join(cells, "\t"))
}

func (t *table) flush(w io.Writer) {
	t.tw.Flush()
	for _, line := range strings.Split(strings.TrimRight(t.sb.String(), "\n"), "\n") {
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}

// truncate shortens s to at most n runes, ending in "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func printWarnings(w io.Writer, warnings []types.Warning) {
	if len(warnings) == 0 {
		return
	}
	heading.Fprintln(w, "\nWarnings:")
	for _, wn := range warnings {
		kind := yellow.Sprintf("[%s]", wn.Kind)
		if wn.FrameworkID != "" {
			fmt.Fprintf(w, "  %s %s: %s\n", kind, wn.FrameworkID, wn.Message)
		} else {
			fmt.Fprintf(w, "  %s %s\n", kind, wn.Message)
		}
	}
}
