package main

import (
	"fmt"

	"gocpd/adapters/series"

	"github.com/spf13/cobra"
)

func newDescribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Profile the observation series in a data file",
		Long: `Load a series and print descriptive statistics, a quick sanity check
before planning detection runs against it.

Example: gocpd describe --data series.csv --column value`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			data, err := loadSeries(cmd, cfg)
			if err != nil {
				return err
			}

			profile, err := series.Summarize(data)
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(profile)
			}

			fmt.Printf("Observations: %d\n", profile.Length)
			fmt.Printf("Mean: %.4f\n", profile.Mean)
			fmt.Printf("Std Dev: %.4f\n", profile.StdDev)
			fmt.Printf("Min: %.4f\n", profile.Min)
			fmt.Printf("Q25: %.4f\n", profile.Q25)
			fmt.Printf("Median: %.4f\n", profile.Median)
			fmt.Printf("Q75: %.4f\n", profile.Q75)
			fmt.Printf("Max: %.4f\n", profile.Max)
			return nil
		},
	}

	return cmd
}
