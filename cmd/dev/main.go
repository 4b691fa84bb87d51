package main

import (
	"context"
	"fmt"
	"os"

	"gocpd/adapters/db/postgres/migrations"
	"gocpd/adapters/postgres"
	"gocpd/app"
	"gocpd/domain/cost"
	"gocpd/domain/model"
	"gocpd/domain/run"
	"gocpd/domain/search"
	"gocpd/internal/testkit"
	"gocpd/ports"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "gocpd-dev",
		Short: "gocpd development tools",
	}

	rootCmd.AddCommand(
		newSeedCmd(),
		newSmokeTestCmd(),
		newDeterminismTestCmd(),
		newMigrateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Plan seed runs for development",
		RunE: func(cmd *cobra.Command, args []string) error {
			return generateSeedRuns(cmd.Context())
		},
	}
	return cmd
}

func newSmokeTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Run smoke tests",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSmokeTests(cmd.Context())
		},
	}
	return cmd
}

func newDeterminismTestCmd() *cobra.Command {
	var seed uint64

	cmd := &cobra.Command{
		Use:   "determinism [model-expr]",
		Short: "Check that planning the same inputs twice pins one fingerprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return testDeterminism(cmd.Context(), args[0], seed)
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 42, "Sampler seed")
	return cmd
}

func generateSeedRuns(ctx context.Context) error {
	fmt.Println("Generating seed runs...")

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for seeding")
	}

	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := migrations.NewMigrator(db.DB).Up(ctx); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	planner := app.NewPlannerService(nil, nil, postgres.NewRunRepository(db), "dev")

	seeds := []struct {
		family    model.Family
		segments  []testkit.SegmentSpec
		modelExpr string
		penalties []float64
		algorithm search.Algorithm
	}{
		{
			family:    model.FamilyNormal,
			segments:  []testkit.SegmentSpec{{Length: 150, Params: []float64{0, 1}}, {Length: 150, Params: []float64{4, 1}}},
			modelExpr: "Normal(?, 1)",
			penalties: []float64{25},
			algorithm: search.AlgorithmPELT,
		},
		{
			family:    model.FamilyNormal,
			segments:  []testkit.SegmentSpec{{Length: 100, Params: []float64{0, 1}}, {Length: 100, Params: []float64{0, 3}}},
			modelExpr: "Normal(0, ?)",
			penalties: []float64{5, 200},
			algorithm: search.AlgorithmPELT,
		},
		{
			family:    model.FamilyPoisson,
			segments:  []testkit.SegmentSpec{{Length: 120, Params: []float64{3}}, {Length: 120, Params: []float64{9}}},
			modelExpr: "Poisson(?)",
			algorithm: search.AlgorithmBinSeg,
		},
		{
			family:    model.FamilyGamma,
			segments:  []testkit.SegmentSpec{{Length: 100, Params: []float64{2, 1}}, {Length: 100, Params: []float64{2, 4}}},
			modelExpr: "Gamma(2, ?)",
			penalties: []float64{15},
			algorithm: search.AlgorithmPELT,
		},
	}

	for _, seed := range seeds {
		sampler := testkit.NewSampler(testkit.SamplerConfig{Family: seed.family, Segments: seed.segments, Seed: 42})
		series, err := sampler.Series()
		if err != nil {
			return fmt.Errorf("failed to sample %s series: %w", seed.family, err)
		}

		result, err := planner.Plan(ctx, app.PlanRequest{
			ModelExpr: seed.modelExpr,
			Series:    series,
			Penalties: seed.penalties,
			Algorithm: seed.algorithm,
		})
		if err != nil {
			return fmt.Errorf("failed to plan %q: %w", seed.modelExpr, err)
		}
		fmt.Printf("Planned run %s: %s -> %s\n", result.Run.RunID, seed.modelExpr, result.Run.CostKind)
	}

	fmt.Println("Seed runs planned successfully")
	return nil
}

func runSmokeTests(ctx context.Context) error {
	fmt.Println("Running smoke tests...")

	sampler := testkit.NewSampler(testkit.SamplerConfig{
		Family:   model.FamilyNormal,
		Segments: []testkit.SegmentSpec{{Length: 30, Params: []float64{0, 1}}, {Length: 30, Params: []float64{5, 1}}},
		Seed:     7,
	})
	series, err := sampler.Series()
	if err != nil {
		return fmt.Errorf("failed to sample smoke series: %w", err)
	}

	engine := testkit.NewScriptedEngine()
	repository := testkit.NewMemoryRunRepository()
	planner := app.NewPlannerService(engine, engine, repository, "dev")

	tests := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"model_resolution", func(ctx context.Context) error {
			desc, err := cost.ResolveExpression("Normal(?, 1)", series)
			if err != nil {
				return err
			}
			if desc.Kind != cost.KindNormalMean {
				return fmt.Errorf("resolved to %s", desc.Kind)
			}
			return nil
		}},
		{"range_promotion", func(ctx context.Context) error {
			desc, err := cost.ResolveExpression("Normal(?, ?)", series)
			if err != nil {
				return err
			}
			inv, err := search.Build(desc, len(series), []float64{5, 50}, search.AlgorithmPELT)
			if err != nil {
				return err
			}
			if inv.Algorithm != search.AlgorithmCROPS {
				return fmt.Errorf("expected crops, got %s", inv.Algorithm)
			}
			return nil
		}},
		{"scripted_execution", func(ctx context.Context) error {
			result, err := planner.PlanAndExecute(ctx, app.PlanRequest{
				ModelExpr: "Poisson(?)",
				Series:    series,
				Penalties: []float64{15},
			})
			if err != nil {
				return err
			}
			if !result.Run.Completed() {
				return fmt.Errorf("no outcome recorded")
			}
			return nil
		}},
		{"run_persistence", func(ctx context.Context) error {
			stored, err := repository.ListRuns(ctx, ports.RunFilters{})
			if err != nil {
				return err
			}
			if len(stored) == 0 {
				return fmt.Errorf("no runs persisted")
			}
			fetched, err := repository.GetRun(ctx, stored[0].RunID)
			if err != nil {
				return err
			}
			if fetched.Fingerprint.Fingerprint != stored[0].Fingerprint.Fingerprint {
				return fmt.Errorf("fingerprint changed on round trip")
			}
			return nil
		}},
	}

	passed := 0
	for _, test := range tests {
		fmt.Printf("  Running %s...", test.name)
		if err := test.fn(ctx); err != nil {
			fmt.Printf(" FAILED: %v\n", err)
		} else {
			fmt.Println(" PASSED")
			passed++
		}
	}

	fmt.Printf("\nSmoke tests: %d/%d passed\n", passed, len(tests))
	if passed < len(tests) {
		return fmt.Errorf("some smoke tests failed")
	}

	return nil
}

func testDeterminism(ctx context.Context, modelExpr string, seed uint64) error {
	fmt.Printf("Testing determinism for %q...\n", modelExpr)

	config := testkit.DefaultSamplerConfig()
	config.Seed = seed

	first, err := testkit.NewSampler(config).Series()
	if err != nil {
		return fmt.Errorf("failed to sample series: %w", err)
	}
	second, err := testkit.NewSampler(config).Series()
	if err != nil {
		return fmt.Errorf("failed to re-sample series: %w", err)
	}

	planner := app.NewPlannerService(nil, nil, nil, "dev")

	fmt.Println("Planning the same request twice...")
	planA, err := planner.Plan(ctx, app.PlanRequest{ModelExpr: modelExpr, Series: first, Penalties: []float64{25}})
	if err != nil {
		return fmt.Errorf("first plan failed: %w", err)
	}
	planB, err := planner.Plan(ctx, app.PlanRequest{ModelExpr: modelExpr, Series: second, Penalties: []float64{25}})
	if err != nil {
		return fmt.Errorf("second plan failed: %w", err)
	}

	if err := compareRuns(planA.Run, planB.Run); err != nil {
		return fmt.Errorf("determinism test failed: %w", err)
	}

	fmt.Println("✓ Determinism test passed - fingerprints identical")
	return nil
}

func compareRuns(first, second *run.DetectionRun) error {
	if first.SeriesHash != second.SeriesHash {
		return fmt.Errorf("series hashes differ: %s vs %s", first.SeriesHash, second.SeriesHash)
	}
	if first.CostKind != second.CostKind {
		return fmt.Errorf("cost kinds differ: %s vs %s", first.CostKind, second.CostKind)
	}
	if first.Penalty != second.Penalty {
		return fmt.Errorf("penalties differ: %s vs %s", first.Penalty, second.Penalty)
	}
	if first.Fingerprint.Fingerprint != second.Fingerprint.Fingerprint {
		return fmt.Errorf("fingerprints differ: %s vs %s",
			first.Fingerprint.Fingerprint, second.Fingerprint.Fingerprint)
	}
	return nil
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate [up|down|status]",
		Short: "Run database migrations",
		Long: `Run database schema migrations.

Commands:
  up      Apply all pending migrations
  down    Rollback the last migration
  status  Show migration status`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations(cmd.Context(), args[0])
		},
	}
	return cmd
}

func runMigrations(ctx context.Context, action string) error {
	fmt.Printf("Running migrations: %s\n", action)

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	migrator := migrations.NewMigrator(db.DB)

	switch action {
	case "up":
		return migrator.Up(ctx)
	case "down":
		return migrator.Down(ctx)
	case "status":
		return migrator.Status(ctx)
	default:
		return fmt.Errorf("unknown migration action: %s", action)
	}
}
