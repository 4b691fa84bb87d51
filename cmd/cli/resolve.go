package main

import (
	"fmt"

	"gocpd/domain/cost"

	"github.com/spf13/cobra"
)

type resolveOutput struct {
	ModelExpr  string          `json:"model_expr"`
	Descriptor cost.Descriptor `json:"descriptor"`
	Selected   string          `json:"selected"`
}

func newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve [model-expr]",
		Short: "Validate a model expression and show the cost function it selects",
		Long: `Validate a changepoint model expression against the distribution grammar
and report which segment cost function its markers select.

Resolution needs no data. Pass --data to also bind the descriptor to a
concrete series.

Example: gocpd resolve "Normal(?, 2.5)"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expr := args[0]

			var data []float64
			if dataFile != "" {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				if data, err = loadSeries(cmd, cfg); err != nil {
					return err
				}
			}

			desc, err := cost.ResolveExpression(expr, data)
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(resolveOutput{ModelExpr: expr, Descriptor: desc, Selected: desc.Describe()})
			}

			fmt.Printf("Model: %s\n", expr)
			fmt.Printf("Cost Kind: %s\n", desc.Kind)
			fmt.Printf("Selected: %s\n", desc.Describe())
			if desc.Length() > 0 {
				fmt.Printf("Observations: %d\n", desc.Length())
			}
			return nil
		},
	}

	return cmd
}
