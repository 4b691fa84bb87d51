package main

import (
	"fmt"

	"gocpd/app"
	"gocpd/domain/search"

	"github.com/spf13/cobra"
)

func newSweepCmd() *cobra.Command {
	var penalties []float64
	var algoName string
	var parallel int64
	var store bool

	cmd := &cobra.Command{
		Use:   "sweep [model-expr...]",
		Short: "Plan detection runs for several candidate models over one series",
		Long: `Plan a detection run for each candidate model expression against the
same data file. Candidates that fail grammar or invocation validation
are reported per item without aborting the sweep.

Example: gocpd sweep "Normal(?, 1)" "Normal(1, ?)" "Poisson(?)" --data series.csv --pen 25`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			data, err := loadSeries(cmd, cfg)
			if err != nil {
				return err
			}

			planner, cleanup, err := newPlanner(cfg, store)
			if err != nil {
				return err
			}
			defer cleanup()

			if parallel <= 0 {
				parallel = cfg.Sweep.MaxConcurrent
			}
			sweeper := app.NewSweepService(planner, parallel)

			req := app.SweepRequest{ModelExprs: args, Series: data, Penalties: penalties}
			if algoName != "" {
				if req.Algorithm, err = search.ParseAlgorithm(algoName); err != nil {
					return err
				}
			}

			result, err := sweeper.Run(cmd.Context(), req)
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(result)
			}

			fmt.Printf("=== MODEL SWEEP %s ===\n", result.SweepID)
			planned := 0
			for i, item := range result.Items {
				if item.Err != nil {
					fmt.Printf("%d. ❌ %s\n", i+1, item.ModelExpr)
					fmt.Printf("   %s\n", item.Error)
					continue
				}
				planned++
				fmt.Printf("%d. ✅ %s\n", i+1, item.ModelExpr)
				fmt.Printf("   %s | %s | penalty %s\n",
					item.Result.Descriptor.Describe(), item.Result.Run.Algorithm, item.Result.Run.Penalty)
			}
			fmt.Printf("\n%d/%d candidate(s) planned in %dms\n", planned, len(result.Items), result.RuntimeMs)
			return nil
		},
	}

	cmd.Flags().Float64SliceVar(&penalties, "pen", nil, "Penalty argument; repeat once for a range")
	cmd.Flags().StringVar(&algoName, "algo", "", "Search algorithm: pelt|crops|binseg (default pelt)")
	cmd.Flags().Int64Var(&parallel, "parallel", 0, "Concurrent search bound (default SWEEP_MAX_CONCURRENT)")
	cmd.Flags().BoolVar(&store, "store", false, "Persist planned runs (requires DATABASE_URL)")

	return cmd
}
