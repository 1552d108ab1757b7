// Catalog commands for the compass CLI.
package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/compass/internal/antipattern"
	"github.com/mesh-intelligence/compass/pkg/compass"
	"github.com/mesh-intelligence/compass/pkg/types"
)

var errLintFindings = errors.New("catalog has malformed anti-patterns")

func newCatalogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and validate the framework catalog",
	}
	cmd.AddCommand(newCatalogValidateCmd(a))
	cmd.AddCommand(newCatalogLintCmd(a))
	cmd.AddCommand(newCatalogListCmd(a))
	cmd.AddCommand(newCatalogExportCmd(a))
	return cmd
}

// catalogSummary is the JSON output of catalog validate.
type catalogSummary struct {
	Snapshot   string `json:"snapshot"`
	Frameworks int    `json:"frameworks"`
	Format     string `json:"format"`
	Dir        string `json:"dir,omitempty"`
}

func newCatalogValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the catalog and report integrity errors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadCatalog(a.cfg.CatalogFormat, a.cfg.CatalogDir)
			if err != nil {
				var ierr *types.CatalogIntegrityError
				if errors.As(err, &ierr) && !a.flagJSON {
					printIntegrity(cmd.ErrOrStderr(), ierr)
				}
				return err
			}

			format := a.cfg.CatalogFormat
			if format == "" || format == compass.FormatAuto {
				format = compass.DetectFormat(a.cfg.CatalogDir)
			}
			sum := catalogSummary{Snapshot: c.SnapshotID(), Frameworks: c.Len(), Format: format, Dir: a.cfg.CatalogDir}
			if a.flagJSON {
				return writeJSON(cmd.OutOrStdout(), sum)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "catalog ok: %d frameworks (%s, snapshot %s)\n", sum.Frameworks, sum.Format, sum.Snapshot)
			return nil
		},
	}
}

func printIntegrity(w io.Writer, ierr *types.CatalogIntegrityError) {
	for _, id := range ierr.DuplicateIDs {
		red.Fprintf(w, "duplicate id: %s\n", id)
	}
	for _, d := range ierr.Dangling {
		red.Fprintf(w, "dangling %s relationship: %s -> %s\n", d.Kind, d.From, d.Target)
	}
	for _, msg := range ierr.Invalid {
		red.Fprintf(w, "invalid: %s\n", msg)
	}
}

func newCatalogLintCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lint",
		Short: "Report anti-pattern predicates that do not compile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadCatalog(a.cfg.CatalogFormat, a.cfg.CatalogDir)
			if err != nil {
				return err
			}
			warnings := antipattern.Lint(c.All())

			out := cmd.OutOrStdout()
			if a.flagJSON {
				if warnings == nil {
					warnings = []types.Warning{}
				}
				if err := writeJSON(out, warnings); err != nil {
					return err
				}
			} else if len(warnings) == 0 {
				fmt.Fprintln(out, "no malformed anti-patterns")
			} else {
				for _, w := range warnings {
					fmt.Fprintf(out, "%s: %s\n", w.FrameworkID, w.Message)
				}
			}
			if len(warnings) > 0 {
				return asUserError(fmt.Errorf("%w: %d", errLintFindings, len(warnings)))
			}
			return nil
		},
	}
}

func newCatalogListCmd(a *app) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog frameworks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadCatalog(a.cfg.CatalogFormat, a.cfg.CatalogDir)
			if err != nil {
				return err
			}
			var fws []*types.Framework
			for _, fw := range c.All() {
				if category == "" || string(fw.Category) == category {
					fws = append(fws, fw)
				}
			}

			out := cmd.OutOrStdout()
			if a.flagJSON {
				list := make([]types.Framework, len(fws))
				for i, fw := range fws {
					list[i] = *fw
				}
				return writeJSON(out, list)
			}
			printFrameworks(out, fws)
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only list frameworks in this category")
	return cmd
}

func printFrameworks(w io.Writer, fws []*types.Framework) {
	if len(fws) == 0 {
		fmt.Fprintln(w, "No frameworks found.")
		return
	}
	t := newTable("ID", "NAME", "CATEGORY", "COMPLEXITY", "TTV_DAYS", "MIN_TEAM")
	for _, fw := range fws {
		t.row(
			fw.ID,
			truncate(fw.Name, 40),
			string(fw.Category),
			string(fw.Tags.Complexity),
			strconv.Itoa(fw.TimeToValueDays),
			strconv.Itoa(fw.MinTeamSize),
		)
	}
	t.flush(w)
	fmt.Fprintf(w, "Total: %d framework(s)\n", len(fws))
}

func newCatalogExportCmd(a *app) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "export --out <dir>",
		Short: "Write the catalog as frameworks.jsonl",
		Long: `Export writes the loaded catalog to <dir>/frameworks.jsonl, one framework
per line, so it can be served with catalog_format: jsonl.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadCatalog(a.cfg.CatalogFormat, a.cfg.CatalogDir)
			if err != nil {
				return err
			}
			if err := compass.ExportCatalog(c, outDir); err != nil {
				return fmt.Errorf("export catalog: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d frameworks to %s\n", c.Len(), outDir)
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "", "output directory")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
