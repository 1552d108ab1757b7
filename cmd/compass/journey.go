// Journey command for the compass CLI.
package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/compass/pkg/types"
)

func newJourneyCmd(a *app) *cobra.Command {
	var (
		contextPath string
		horizon     int
	)
	cmd := &cobra.Command{
		Use:   "journey --context <file>",
		Short: "Plan a phased framework adoption journey",
		Long: `Journey takes the best-scoring frameworks for the company context and
arranges them into immediate, short-term, mid-term and long-term phases so
that every framework comes no earlier than its prerequisites.

Example:
  compass journey --context acme.yaml --horizon 6`,
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
			if !cmd.Flags().Changed("horizon") {
				horizon = a.cfg.HorizonMonths
			}

			j, err := e.PlanJourney(cmd.Context(), cc, horizon)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if a.flagJSON {
				return writeJSON(out, j)
			}
			printJourney(out, j)
			return nil
		},
	}
	cmd.Flags().StringVarP(&contextPath, "context", "c", "", "company context file (YAML or JSON)")
	cmd.Flags().IntVar(&horizon, "horizon", 0, "planning horizon in months (default from config)")
	_ = cmd.MarkFlagRequired("context")
	return cmd
}

func printJourney(w io.Writer, j *types.Journey) {
	t := newTable("PHASE", "MONTHS", "ID", "NAME", "SCORE")
	for _, p := range j.Phases {
		months := fmt.Sprintf("%d-%d", p.StartMonth, p.EndMonth)
		if len(p.Frameworks) == 0 {
			t.row(p.Name, months, "-", "", "")
			continue
		}
		for i, item := range p.Frameworks {
			name, span := p.Name, months
			if i > 0 {
				name, span = "", ""
			}
			t.row(name, span, item.ID, truncate(item.Name, 40), strconv.FormatFloat(item.Score, 'f', 3, 64))
		}
	}
	t.flush(w)

	if len(j.CriticalPath) > 0 {
		heading.Fprintf(w, "\nCritical path: %s\n", strings.Join(j.CriticalPath, " -> "))
	}
	if len(j.Unscheduled) > 0 {
		fmt.Fprintf(w, "Unscheduled: %s\n", strings.Join(j.Unscheduled, ", "))
	}
	printWarnings(w, j.Warnings)
}
