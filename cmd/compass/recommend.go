// Recommend command for the compass CLI.
package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/compass/pkg/types"
)

func newRecommendCmd(a *app) *cobra.Command {
	var (
		contextPath string
		maxN        int
	)
	cmd := &cobra.Command{
		Use:   "recommend --context <file>",
		Short: "Recommend frameworks for a company context",
		Long: `Recommend scores every catalog framework against the company context,
drops the ones whose anti-patterns match, and returns a diversified,
ranked short list with industry variants applied.

The context file is YAML or JSON; "-" reads standard input.

Example:
  compass recommend --context acme.yaml
  compass recommend --context acme.yaml --max 3 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := readContext(contextPath, cmd.InOrStdin())
			if err != nil {
				return err
			}
			e, err := a.newEngine()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("max") {
				maxN = a.cfg.MaxFrameworks
			}

			rec, err := e.Recommend(cmd.Context(), cc, maxN)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if a.flagJSON {
				return writeJSON(out, rec)
			}
			printRecommendation(out, rec)
			return nil
		},
	}
	cmd.Flags().StringVarP(&contextPath, "context", "c", "", "company context file (YAML or JSON)")
	cmd.Flags().IntVarP(&maxN, "max", "n", 0, "maximum number of frameworks (default from config)")
	_ = cmd.MarkFlagRequired("context")
	return cmd
}

func printRecommendation(w io.Writer, rec *types.Recommendation) {
	if len(rec.Frameworks) == 0 {
		fmt.Fprintln(w, "No frameworks recommended.")
	} else {
		t := newTable("#", "ID", "NAME", "CATEGORY", "SCORE", "VARIANT")
		for i, v := range rec.Frameworks {
			t.row(
				strconv.Itoa(i+1),
				v.ID,
				truncate(v.Name, 40),
				string(v.Category),
				strconv.FormatFloat(v.Score, 'f', 3, 64),
				v.Variant,
			)
		}
		t.flush(w)
	}

	switch {
	case rec.Fallback:
		fmt.Fprintln(w, "\nEvery framework was excluded; showing the universal starter set.")
	case rec.Relaxed:
		fmt.Fprintln(w, "\nCategory diversity was relaxed to fill the list.")
	}

	if len(rec.Excluded) > 0 {
		heading.Fprintln(w, "\nExcluded:")
		for _, x := range rec.Excluded {
			fmt.Fprintf(w, "  %s: %s\n", x.FrameworkID, x.Reason)
		}
	}
	printWarnings(w, rec.Warnings)
}
