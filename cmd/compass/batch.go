// Batch command for the compass CLI.
package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/compass/pkg/types"
)

const (
	modeRecommend = "recommend"
	modeJourney   = "journey"
)

// batchResult is the outcome for one context file. Error holds a per-file
// input problem; system failures abort the whole batch instead.
type batchResult struct {
	Context        string                `json:"context"`
	Recommendation *types.Recommendation `json:"recommendation,omitempty"`
	Journey        *types.Journey        `json:"journey,omitempty"`
	Error          string                `json:"error,omitempty"`
}

var errBatchFailures = errors.New("some contexts failed")

func newBatchCmd(a *app) *cobra.Command {
	var (
		mode        string
		concurrency int
	)
	cmd := &cobra.Command{
		Use:   "batch <context-file>...",
		Short: "Evaluate many company contexts concurrently",
		Long: `Batch runs recommend or journey for every context file against one catalog
load. Files are evaluated concurrently; results are printed in argument
order. A file with an invalid context is reported and the rest continue.

Example:
  compass batch --mode journey portfolio/*.yaml --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if mode != modeRecommend && mode != modeJourney {
				return asUserError(fmt.Errorf("unknown mode %q (valid: recommend, journey)", mode))
			}
			for _, path := range args {
				if path == "-" {
					return asUserError(errors.New("batch reads context files only; standard input is not supported"))
				}
			}
			if !cmd.Flags().Changed("concurrency") {
				concurrency = a.cfg.BatchConcurrency
			}
			if concurrency <= 0 {
				concurrency = defaultBatchConcurrency
			}

			e, err := a.newEngine()
			if err != nil {
				return err
			}

			results := make([]batchResult, len(args))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(concurrency)
			for i, path := range args {
				i, path := i, path // per-iteration copies (go directive < 1.22)
				g.Go(func() error {
					res := batchResult{Context: path}
					defer func() { results[i] = res }()

					cc, err := readContext(path, cmd.InOrStdin())
					if err == nil {
						switch mode {
						case modeRecommend:
							res.Recommendation, err = e.Recommend(ctx, cc, a.cfg.MaxFrameworks)
						case modeJourney:
							res.Journey, err = e.PlanJourney(ctx, cc, a.cfg.HorizonMonths)
						}
					}
					if err == nil {
						return nil
					}
					if exitCode(err) == exitUserError {
						res.Error = err.Error()
						return nil
					}
					return fmt.Errorf("%s: %w", path, err)
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			failed := 0
			for _, r := range results {
				if r.Error != "" {
					failed++
					a.log.Warn("context failed", zap.String("context", r.Context), zap.String("error", r.Error))
				}
			}

			out := cmd.OutOrStdout()
			if a.flagJSON {
				if err := writeJSON(out, results); err != nil {
					return err
				}
			} else {
				printBatch(out, results)
			}
			if failed > 0 {
				return asUserError(fmt.Errorf("%w: %d of %d", errBatchFailures, failed, len(results)))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", modeRecommend, "what to compute per context: recommend or journey")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "maximum contexts evaluated at once (default from config)")
	return cmd
}

func printBatch(w io.Writer, results []batchResult) {
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		heading.Fprintf(w, "== %s\n", r.Context)
		switch {
		case r.Error != "":
			red.Fprintf(w, "error: %s\n", r.Error)
		case r.Recommendation != nil:
			printRecommendation(w, r.Recommendation)
		case r.Journey != nil:
			printJourney(w, r.Journey)
		}
	}
}
