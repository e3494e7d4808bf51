package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nvandessel/spikesim/internal/config"
	"github.com/nvandessel/spikesim/internal/engine"
	"github.com/nvandessel/spikesim/internal/export"
	"github.com/nvandessel/spikesim/internal/logging"
	"github.com/nvandessel/spikesim/internal/store"
)

// runSummary is the machine-readable result of a run command.
type runSummary struct {
	RunID       string  `json:"run_id,omitempty"`
	Neurons     int     `json:"neurons"`
	Synapses    int     `json:"synapses"`
	DT          float64 `json:"dt"`
	TMax        float64 `json:"t_max"`
	SpikeCount  int     `json:"spike_count"`
	WeightCount int     `json:"weight_count"`
	SpikesCSV   string  `json:"spikes_csv"`
	WeightsCSV  string  `json:"weights_csv"`
	ElapsedMS   int64   `json:"elapsed_ms"`
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation and export spike/weight logs",
		Long: `Run a simulation from the effective configuration and write
spikes.csv and weights.csv to the output directory. With --save, the run
is also archived to the local run store for later listing and re-export.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			outDir, _ := cmd.Flags().GetString("out")
			save, _ := cmd.Flags().GetBool("save")
			label, _ := cmd.Flags().GetString("label")
			jsonOut, _ := cmd.Flags().GetBool("json")

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			logger := logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())

			if err := os.MkdirAll(outDir, 0755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			events := logging.NewEventLogger(outDir, cfg.Logging.Level)
			defer events.Close()

			currentFn, err := cfg.Input.Build()
			if err != nil {
				return err
			}

			sim, err := engine.New(cfg.Neurons, cfg.Neuron, cfg.Sim, cfg.STDP, cfg.InitialWeight)
			if err != nil {
				return err
			}
			nSynapses := 0
			if cfg.Neurons > 1 {
				nSynapses = cfg.Neurons * (cfg.Neurons - 1)
			}

			logger.Info("starting run",
				"neurons", cfg.Neurons,
				"synapses", nSynapses,
				"dt", cfg.Sim.DT,
				"t_max", cfg.Sim.TMax)
			events.Log(map[string]any{
				"event":   "run_start",
				"neurons": cfg.Neurons,
				"dt":      cfg.Sim.DT,
				"t_max":   cfg.Sim.TMax,
			})

			start := time.Now()
			result := sim.Run(currentFn)
			elapsed := time.Since(start)

			logger.Info("run complete",
				"spikes", len(result.Spikes),
				"weight_records", len(result.Weights),
				"elapsed", elapsed)
			events.Log(map[string]any{
				"event":          "run_complete",
				"spikes":         len(result.Spikes),
				"weight_records": len(result.Weights),
				"elapsed_ms":     elapsed.Milliseconds(),
			})

			spikesPath := filepath.Join(outDir, "spikes.csv")
			weightsPath := filepath.Join(outDir, "weights.csv")
			if err := export.WriteSpikesFile(spikesPath, result.Spikes); err != nil {
				return err
			}
			if err := export.WriteWeightsFile(weightsPath, result.Weights); err != nil {
				return err
			}

			summary := runSummary{
				Neurons:     cfg.Neurons,
				Synapses:    nSynapses,
				DT:          cfg.Sim.DT,
				TMax:        cfg.Sim.TMax,
				SpikeCount:  len(result.Spikes),
				WeightCount: len(result.Weights),
				SpikesCSV:   spikesPath,
				WeightsCSV:  weightsPath,
				ElapsedMS:   elapsed.Milliseconds(),
			}

			if save {
				id, err := saveRun(cmd, cfg, result, label)
				if err != nil {
					return err
				}
				summary.RunID = id
				logger.Info("run archived", "id", id)
			}

			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Simulation complete. Emitted %d spikes.\n", summary.SpikeCount)
			for i, s := range result.Spikes {
				if i >= 10 {
					break
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Spike from neuron %d at time %.2f ms\n", s.Neuron, s.Time)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %d synaptic weight records.\n", summary.WeightCount)
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s and %s\n", spikesPath, weightsPath)
			if summary.RunID != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Archived as run %s\n", summary.RunID)
			}
			return nil
		},
	}

	cmd.Flags().String("config", "", "Path to a YAML config file (default: ~/.spikesim/config.yaml or built-in defaults)")
	cmd.Flags().String("out", "data", "Output directory for CSV logs")
	cmd.Flags().Bool("save", false, "Archive the run to the local run store")
	cmd.Flags().String("label", "", "Label for the archived run")
	return cmd
}

// loadConfig loads the effective configuration: an explicit file if given,
// otherwise the default chain (defaults -> ~/.spikesim/config.yaml -> env).
func loadConfig(path string) (*config.RunConfig, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

// saveRun archives the result to the SQLite run store and returns the
// generated run ID.
func saveRun(cmd *cobra.Command, cfg *config.RunConfig, result engine.Result, label string) (string, error) {
	dir, err := storeDir(cmd)
	if err != nil {
		return "", err
	}
	rs, err := store.NewSQLiteRunStore(dir)
	if err != nil {
		return "", fmt.Errorf("open run store: %w", err)
	}
	defer rs.Close()

	cfgYAML, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("snapshot config: %w", err)
	}

	run := store.Run{
		ID:         uuid.NewString(),
		Label:      label,
		CreatedAt:  time.Now().UTC(),
		ConfigYAML: string(cfgYAML),
		Spikes:     result.Spikes,
		Weights:    result.Weights,
	}
	if err := rs.SaveRun(context.Background(), run); err != nil {
		return "", fmt.Errorf("archive run: %w", err)
	}
	return run.ID, nil
}
