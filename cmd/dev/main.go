package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"macrolens/adapters/excel"
	"macrolens/adapters/kmeans"
	"macrolens/app"
	"macrolens/internal"
	"macrolens/internal/config"
	"macrolens/internal/testkit"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "macrolens-dev",
		Short: "MacroLens development tools",
	}

	rootCmd.AddCommand(
		newSeedCmd(),
		newSmokeTestCmd(),
		newDeterminismTestCmd(),
	)
	return rootCmd
}

func newSeedCmd() *cobra.Command {
	cfg := testkit.DefaultMacroConfig()
	var out string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write a synthetic long-format dataset as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			return generateSeedData(cmd.OutOrStdout(), cfg, out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "macro_seed.csv", "Output CSV path")
	cmd.Flags().IntVar(&cfg.StartYear, "start", cfg.StartYear, "First generated year")
	cmd.Flags().IntVar(&cfg.EndYear, "end", cfg.EndYear, "Last generated year")
	cmd.Flags().Float64Var(&cfg.MissingRate, "missing", cfg.MissingRate, "Share of values left missing")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", cfg.Seed, "Generator seed")
	return cmd
}

func newSmokeTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Run the dashboard flow against generated data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSmokeTests(cmd.Context(), cmd.OutOrStdout())
		},
	}
	return cmd
}

func newDeterminismTestCmd() *cobra.Command {
	var runs int
	var seed int64

	cmd := &cobra.Command{
		Use:   "determinism",
		Short: "Check that repeated clustering yields the same partition",
		RunE: func(cmd *cobra.Command, args []string) error {
			return testDeterminism(cmd.Context(), cmd.OutOrStdout(), runs, seed)
		},
	}
	cmd.Flags().IntVar(&runs, "runs", 5, "Number of independent runs")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Clustering seed")
	return cmd
}

func generateSeedData(out io.Writer, cfg testkit.MacroGeneratorConfig, path string) error {
	fmt.Fprintln(out, "Generating seed data...")

	obs, err := testkit.NewMacroDataGenerator(cfg).GenerateObservations()
	if err != nil {
		return fmt.Errorf("failed to generate observations: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := testkit.WriteCSV(f, obs); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Fprintf(out, "Wrote %d observations to %s\n", len(obs), path)
	return nil
}

// newService builds a dashboard over generated data with the default engine
func newService(ctx context.Context, seed int64) (*app.DashboardService, error) {
	source, err := testkit.NewGeneratedSource(seed)
	if err != nil {
		return nil, err
	}
	logger := internal.NewNopLogger()
	base, err := app.LoadBase(ctx, source, logger)
	if err != nil {
		return nil, err
	}
	svc := app.NewDashboardService(base, kmeans.NewEngine(kmeans.DefaultConfig()), excel.NewWorkbookExporter(), config.DefaultDefaults(), seed, logger)
	svc.SetSource(source.Describe())
	return svc, nil
}

func runSmokeTests(ctx context.Context, out io.Writer) error {
	fmt.Fprintln(out, "Running smoke tests...")

	svc, err := newService(ctx, 42)
	if err != nil {
		return fmt.Errorf("failed to initialize service: %w", err)
	}
	st, err := svc.CreateSession(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	id := st.ID

	tests := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"race_chart", func(ctx context.Context) error {
			table, err := svc.RaceChart(id, "", nil)
			if err != nil {
				return err
			}
			if table.Len() == 0 {
				return fmt.Errorf("no race rows")
			}
			return nil
		}},
		{"clustering", func(ctx context.Context) error {
			st, err := svc.RunClustering(ctx, id, app.ClusterRequest{})
			if err != nil {
				return err
			}
			if len(st.Run.Assignments) == 0 {
				return fmt.Errorf("no assignments")
			}
			return nil
		}},
		{"cluster_map", func(ctx context.Context) error {
			_, err := svc.ClusterMap(id)
			return err
		}},
		{"peers", func(ctx context.Context) error {
			lists, err := svc.Options(id)
			if err != nil {
				return err
			}
			if len(lists.Countries) == 0 {
				return fmt.Errorf("no countries to focus")
			}
			_, err = svc.Peers(id, app.PeerRequest{Focus: lists.Countries[0], Mode: "cluster"})
			return err
		}},
		{"export", func(ctx context.Context) error {
			return svc.Export(id, io.Discard)
		}},
	}

	passed := 0
	for _, test := range tests {
		fmt.Fprintf(out, "  Running %s...", test.name)
		if err := test.fn(ctx); err != nil {
			fmt.Fprintf(out, " FAILED: %v\n", err)
		} else {
			fmt.Fprintln(out, " PASSED")
			passed++
		}
	}

	fmt.Fprintf(out, "\nSmoke tests: %d/%d passed\n", passed, len(tests))
	if passed < len(tests) {
		return fmt.Errorf("some smoke tests failed")
	}
	return nil
}

func testDeterminism(ctx context.Context, out io.Writer, runs int, seed int64) error {
	if runs < 2 {
		return fmt.Errorf("need at least 2 runs, got %d", runs)
	}
	fmt.Fprintf(out, "Testing determinism over %d runs (seed %d)...\n", runs, seed)

	var first string
	for i := 0; i < runs; i++ {
		// a fresh service per run so nothing is reused from a cache
		svc, err := newService(ctx, seed)
		if err != nil {
			return err
		}
		st, err := svc.CreateSession(ctx, nil)
		if err != nil {
			return err
		}
		st, err = svc.RunClustering(ctx, st.ID, app.ClusterRequest{})
		if err != nil {
			return fmt.Errorf("run %d failed: %w", i+1, err)
		}

		partition := st.Run.Partition.String()
		fmt.Fprintf(out, "  Run %d: partition %s inertia %.4f\n", i+1, partition, st.Run.Inertia)
		if i == 0 {
			first = partition
			continue
		}
		if partition != first {
			return fmt.Errorf("determinism check failed: run %d partition %s differs from %s", i+1, partition, first)
		}
	}

	fmt.Fprintln(out, "Determinism check passed")
	return nil
}
