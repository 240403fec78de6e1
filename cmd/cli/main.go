package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"macrolens/app"
	"macrolens/domain/macro"
	"macrolens/internal/config"
	"macrolens/internal/container"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// dataFlags select the dataset and the session filter
type dataFlags struct {
	file        string
	sheet       string
	databaseURL string
	start       int
	end         int
	continents  []string
	logLevel    string
}

func main() {
	_ = godotenv.Load()

	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "macrolens-cli",
		Short:         "Cluster countries on macro indicators and export the result",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newClusterCmd(),
		newExportCmd(),
		newOptionsCmd(),
	)
	return rootCmd
}

func (f *dataFlags) register(cmd *cobra.Command) {
	defaults := config.DefaultDefaults()
	cmd.Flags().StringVar(&f.file, "data", os.Getenv("DATA_FILE"), "Dataset file (xlsx or csv)")
	cmd.Flags().StringVar(&f.sheet, "sheet", os.Getenv("DATA_SHEET"), "Sheet to read from an xlsx file")
	cmd.Flags().StringVar(&f.databaseURL, "database-url", os.Getenv("DATABASE_URL"), "Postgres URL when no file is given")
	cmd.Flags().IntVar(&f.start, "start", defaults.StartYear, "First year of the filter")
	cmd.Flags().IntVar(&f.end, "end", defaults.EndYear, "Last year of the filter")
	cmd.Flags().StringSliceVar(&f.continents, "continent", nil, "Continent to keep (repeatable, default all)")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "WARN", "Log level")
}

func (f *dataFlags) scope() macro.Scope {
	scope := macro.Scope{StartYear: f.start, EndYear: f.end}
	for _, c := range f.continents {
		scope.Continents = append(scope.Continents, macro.Continent(c))
	}
	return scope
}

// open loads the dataset and starts one session with the flag filter
func (f *dataFlags) open(ctx context.Context, seed int64) (*container.Container, *app.DashboardService, macro.Scope, error) {
	if f.file == "" && f.databaseURL == "" {
		return nil, nil, macro.Scope{}, fmt.Errorf("one of --data or --database-url is required")
	}
	cfg := &config.Config{
		Data:     config.DataConfig{File: f.file, Sheet: f.sheet},
		Database: config.DatabaseConfig{URL: f.databaseURL},
		Cluster:  config.ClusterConfig{Seed: seed},
		Defaults: config.DefaultDefaults(),
		LogLevel: f.logLevel,
	}
	c, err := container.New(cfg)
	if err != nil {
		return nil, nil, macro.Scope{}, err
	}
	if err := c.Init(ctx); err != nil {
		c.Shutdown(ctx)
		return nil, nil, macro.Scope{}, err
	}
	return c, c.Dashboard, f.scope(), nil
}

func newClusterCmd() *cobra.Command {
	var data dataFlags
	var req app.ClusterRequest
	var seed int64
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Run k-means for one year and print the groups",
		Long: `Cluster the filtered countries for one year.

Example: macrolens-cli cluster --data macro.xlsx --continent Africa --continent Europe \
  --indicator "GDP growth (annual %)" --year 2010 --k 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Seed = &seed
			return runCluster(cmd.Context(), cmd.OutOrStdout(), &data, req, asJSON)
		},
	}

	data.register(cmd)
	registerClusterFlags(cmd, &req, &seed)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the session summary as JSON")
	return cmd
}

func registerClusterFlags(cmd *cobra.Command, req *app.ClusterRequest, seed *int64) {
	defaults := config.DefaultDefaults()
	cmd.Flags().StringArrayVar(&req.Indicators, "indicator", defaults.ClusterIndicators, "Clustering indicator (repeatable, 1 to 5)")
	cmd.Flags().IntVar(&req.Year, "year", defaults.StartYear, "Cluster year")
	cmd.Flags().IntVar(&req.K, "k", defaults.K, "Number of clusters (1 to 10)")
	cmd.Flags().Int64Var(seed, "seed", 42, "Random seed for deterministic clustering")
}

func runCluster(ctx context.Context, out io.Writer, data *dataFlags, req app.ClusterRequest, asJSON bool) error {
	c, svc, scope, err := data.open(ctx, *req.Seed)
	if err != nil {
		return err
	}
	defer c.Shutdown(ctx)

	st, err := svc.CreateSession(ctx, &scope)
	if err != nil {
		return err
	}
	st, err = svc.RunClustering(ctx, st.ID, req)
	if err != nil {
		return err
	}

	summary := app.Summarize(st)
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	run := summary.Run
	fmt.Fprintf(out, "Clusters for %d (k=%d, inertia %.2f, %d imputed values)\n", run.Params.Year, run.Params.K, run.Inertia, run.ImputedValues)
	fmt.Fprintf(out, "Indicators: %s\n\n", strings.Join(run.Params.Indicators, "; "))
	for _, label := range run.Labels {
		members := run.Groups[label]
		fmt.Fprintf(out, "%s (%d): %s\n", label, len(members), strings.Join(members, ", "))
	}
	return nil
}

func newExportCmd() *cobra.Command {
	var data dataFlags
	var req app.ClusterRequest
	var seed int64
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Cluster and write the Indicators/ClusterData workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Seed = &seed
			return runExport(cmd.Context(), cmd.OutOrStdout(), &data, req, outPath)
		},
	}

	data.register(cmd)
	registerClusterFlags(cmd, &req, &seed)
	cmd.Flags().StringVarP(&outPath, "out", "o", "cluster_analysis_export.xlsx", "Output workbook path")
	return cmd
}

func runExport(ctx context.Context, out io.Writer, data *dataFlags, req app.ClusterRequest, outPath string) error {
	c, svc, scope, err := data.open(ctx, *req.Seed)
	if err != nil {
		return err
	}
	defer c.Shutdown(ctx)

	st, err := svc.CreateSession(ctx, &scope)
	if err != nil {
		return err
	}
	if _, err := svc.RunClustering(ctx, st.ID, req); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outPath, err)
	}
	if err := svc.Export(st.ID, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %s\n", outPath)
	return nil
}

func newOptionsCmd() *cobra.Command {
	var data dataFlags

	cmd := &cobra.Command{
		Use:   "options",
		Short: "Print the option lists for a filter as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, svc, scope, err := data.open(ctx, 42)
			if err != nil {
				return err
			}
			defer c.Shutdown(ctx)

			st, err := svc.CreateSession(ctx, &scope)
			if err != nil {
				return err
			}
			lists, err := svc.Options(st.ID)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(lists)
		},
	}

	data.register(cmd)
	return cmd
}
