package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/saei2021/ADTKD/internal/cohort"
	"github.com/saei2021/ADTKD/internal/duckdb"
	"github.com/saei2021/ADTKD/internal/output"
)

func newCohortCmd(a *app) *cobra.Command {
	var (
		dbPath  string
		workers int
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "cohort <dir>...",
		Short: "Aggregate per-sample Kestrel results into a cohort store",
		Long: `Find kestrel_result.tsv files under each directory, store them in DuckDB and
print per-sample counts by confidence label.

Without --db (or cohort.database in config) an in-memory store is used and
only the summary is printed.`,
		Example: `  vntyper cohort results/ --db cohort.duckdb`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usagef("at least one input directory is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			if dbPath == "" {
				dbPath = cfg.Cohort.Database
			}

			store, err := duckdb.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			sources, err := cohort.FindResultFiles(args)
			if err != nil {
				return err
			}
			results := cohort.LoadAll(sources, workers)

			im := cohort.NewImporter(store)
			im.SetLogger(a.logger)
			im.SetForce(force)
			stats, err := im.Import(results)
			if err != nil {
				return err
			}
			a.logger.Info("cohort import done",
				zap.Int("imported", stats.Imported),
				zap.Int("unchanged", stats.Skipped),
				zap.Int("missing", stats.Missing))

			summary, err := store.Summary()
			if err != nil {
				return err
			}
			return output.WriteSummary(cmd.OutOrStdout(), summary)
		},
	}

	f := cmd.Flags()
	f.StringVar(&dbPath, "db", "", "DuckDB cohort database (default: cohort.database)")
	f.IntVarP(&workers, "workers", "j", 0, "Parallel loaders (0 = number of CPUs)")
	f.BoolVar(&force, "force", false, "Re-import tables even when unchanged")

	return cmd
}
