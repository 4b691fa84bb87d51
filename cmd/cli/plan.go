package main

import (
	"fmt"

	"gocpd/app"
	"gocpd/domain/search"

	"github.com/spf13/cobra"
)

func newPlanCmd() *cobra.Command {
	var penalties []float64
	var algoName string
	var store bool

	cmd := &cobra.Command{
		Use:   "plan [model-expr]",
		Short: "Plan a detection run against a data file",
		Long: `Resolve a model expression over the series in a data file and build the
validated invocation a search backend would receive. The run manifest
is printed and, with --store, persisted for replay.

Penalty arguments follow the invocation rules: none defers to the
backend default, one fixes a scalar penalty, two span a range and
promote pelt to crops.

Example: gocpd plan "Normal(?, ?)" --data series.csv --pen 10 --pen 50`,
		Args: cobra.ExactArgs(1),
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

			req := app.PlanRequest{ModelExpr: args[0], Series: data, Penalties: penalties}
			if algoName != "" {
				if req.Algorithm, err = search.ParseAlgorithm(algoName); err != nil {
					return err
				}
			}

			result, err := planner.Plan(cmd.Context(), req)
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(result)
			}

			detection := result.Run
			fmt.Printf("=== DETECTION RUN PLAN ===\n")
			fmt.Printf("Run ID: %s\n", detection.RunID)
			fmt.Printf("Model: %s\n", detection.ModelExpr)
			fmt.Printf("Selected: %s\n", result.Descriptor.Describe())
			fmt.Printf("Algorithm: %s\n", detection.Algorithm)
			fmt.Printf("Penalty: %s\n", detection.Penalty)
			fmt.Printf("Observations: %d\n", detection.SeriesLength)
			fmt.Printf("Series Hash: %s\n", detection.SeriesHash)
			fmt.Printf("Fingerprint: %s\n", detection.Fingerprint.Fingerprint)
			if store {
				fmt.Printf("\n✅ Run stored for replay\n")
			}
			return nil
		},
	}

	cmd.Flags().Float64SliceVar(&penalties, "pen", nil, "Penalty argument; repeat once for a range")
	cmd.Flags().StringVar(&algoName, "algo", "", "Search algorithm: pelt|crops|binseg (default pelt)")
	cmd.Flags().BoolVar(&store, "store", false, "Persist the run manifest (requires DATABASE_URL)")

	return cmd
}
