package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nvandessel/spikesim/internal/export"
	"github.com/nvandessel/spikesim/internal/store"
)

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect archived simulation runs",
	}

	cmd.AddCommand(
		newRunsListCmd(),
		newRunsExportCmd(),
		newRunsDeleteCmd(),
	)
	return cmd
}

// openRunStore opens the SQLite run archive for a runs subcommand.
func openRunStore(cmd *cobra.Command) (*store.SQLiteRunStore, error) {
	dir, err := storeDir(cmd)
	if err != nil {
		return nil, err
	}
	rs, err := store.NewSQLiteRunStore(dir)
	if err != nil {
		return nil, fmt.Errorf("open run store: %w", err)
	}
	return rs, nil
}

func newRunsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List archived runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			rs, err := openRunStore(cmd)
			if err != nil {
				return err
			}
			defer rs.Close()

			summaries, err := rs.ListRuns(context.Background())
			if err != nil {
				return err
			}

			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(summaries)
			}

			if len(summaries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No archived runs.")
				return nil
			}
			for _, s := range summaries {
				label := s.Label
				if label == "" {
					label = "-"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  label=%s  spikes=%d  weights=%d\n",
					s.ID, s.CreatedAt.Format("2006-01-02 15:04:05"), label, s.SpikeCount, s.WeightCount)
			}
			return nil
		},
	}
}

func newRunsExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <run-id>",
		Short: "Re-export an archived run's logs as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outDir, _ := cmd.Flags().GetString("out")

			rs, err := openRunStore(cmd)
			if err != nil {
				return err
			}
			defer rs.Close()

			run, err := rs.GetRun(context.Background(), args[0])
			if err != nil {
				return err
			}

			if err := os.MkdirAll(outDir, 0755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			spikesPath := filepath.Join(outDir, "spikes.csv")
			weightsPath := filepath.Join(outDir, "weights.csv")
			if err := export.WriteSpikesFile(spikesPath, run.Spikes); err != nil {
				return err
			}
			if err := export.WriteWeightsFile(weightsPath, run.Weights); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported run %s to %s and %s\n", run.ID, spikesPath, weightsPath)
			return nil
		},
	}

	cmd.Flags().String("out", "data", "Output directory for CSV logs")
	return cmd
}

func newRunsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <run-id>",
		Short: "Delete an archived run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := openRunStore(cmd)
			if err != nil {
				return err
			}
			defer rs.Close()

			if err := rs.DeleteRun(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s\n", args[0])
			return nil
		},
	}
}
