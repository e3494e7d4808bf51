package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "spikesim",
		Short: "Spiking neural network simulator with STDP learning",
		Long: `spikesim simulates small networks of leaky integrate-and-fire neurons
whose synapses adapt via spike-timing-dependent plasticity (STDP).

Runs are configured in YAML, produce CSV spike and weight logs for
downstream analysis, and can be archived to a local SQLite database
for comparison across experiments.`,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("store", "", "Run archive directory (default ~/.spikesim)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newConfigCmd(),
		newRunsCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]string{"version": version})
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "spikesim version %s\n", version)
			}
		},
	}
}

// storeDir resolves the run archive directory from the --store flag,
// defaulting to ~/.spikesim.
func storeDir(cmd *cobra.Command) (string, error) {
	dir, _ := cmd.Flags().GetString("store")
	if dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".spikesim"), nil
}
