package main

import (
	"encoding/json"
	"fmt"
	"os"

	"gocpd/adapters/postgres"
	"gocpd/adapters/series"
	"gocpd/app"
	"gocpd/internal/config"
	"gocpd/internal/errors"
	"gocpd/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

var (
	dataFile   string
	dataColumn string
	dataSheet  string
	jsonOutput bool

	rootCmd = &cobra.Command{
		Use:   "gocpd",
		Short: "Changepoint model grammar validator and run planner",
		Long: `gocpd resolves changepoint model expressions like "Normal(?, 2.5)" into
cost model descriptors, validates penalty arguments and plans replayable
search invocations.

Examples:
  gocpd resolve "Normal(?, 2.5)"
  gocpd plan "gamma(?, 3)" --data series.csv --pen 12
  gocpd sweep "normal(?, 1)" "normal(1, ?)" --data series.csv --pen 10
  gocpd families
  gocpd sample --family normal --segments "100:0,1;100:5,1" -o series.csv
  gocpd describe --data series.csv`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&dataFile, "data", "", "series file (.csv, .xlsx or .json; default from SERIES_FILE)")
	rootCmd.PersistentFlags().StringVar(&dataColumn, "column", "", "value column name (default from SERIES_COLUMN)")
	rootCmd.PersistentFlags().StringVar(&dataSheet, "sheet", "", "worksheet name for .xlsx input (default from SERIES_SHEET)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "emit JSON instead of text")

	rootCmd.AddCommand(newResolveCmd())
	rootCmd.AddCommand(newPlanCmd())
	rootCmd.AddCommand(newSweepCmd())
	rootCmd.AddCommand(newFamiliesCmd())
	rootCmd.AddCommand(newSampleCmd())
	rootCmd.AddCommand(newDescribeCmd())
}

// Execute runs the CLI. Taxonomy violations exit 1 with the error code on
// stderr so scripts can dispatch on the class of failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		appErr := errors.FromDomain(err)
		fmt.Fprintf(os.Stderr, "%s: %s\n", appErr.Code, appErr.Message)
		os.Exit(1)
	}
}

// loadConfig reads env configuration; flag values override its defaults
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if dataFile != "" {
		cfg.Data.SeriesFile = dataFile
	}
	if dataColumn != "" {
		cfg.Data.SeriesColumn = dataColumn
	}
	if dataSheet != "" {
		cfg.Data.SeriesSheet = dataSheet
	}
	return cfg, nil
}

// loadSeries reads the series named by --data or SERIES_FILE
func loadSeries(cmd *cobra.Command, cfg *config.Config) ([]float64, error) {
	if cfg.Data.SeriesFile == "" {
		return nil, fmt.Errorf("no series file: pass --data or set SERIES_FILE")
	}
	reader := series.NewReader(cfg.Data.SeriesColumn, cfg.Data.SeriesSheet)
	return reader.Load(cmd.Context(), cfg.Data.SeriesFile)
}

// newPlanner builds a plan-only service; store wires the postgres
// repository and requires DATABASE_URL
func newPlanner(cfg *config.Config, store bool) (*app.PlannerService, func(), error) {
	var repository ports.RunRepository
	cleanup := func() {}

	if store {
		if cfg.Database.URL == "" {
			return nil, nil, errors.ConfigInvalid("--store requires DATABASE_URL")
		}
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		repository = postgres.NewRunRepository(db)
		cleanup = func() { db.Close() }
	}

	return app.NewPlannerService(nil, nil, repository, cfg.Version), cleanup, nil
}

func printJSON(payload interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}
