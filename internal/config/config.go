// Package config provides unified configuration loading for spikesim.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/nvandessel/spikesim/internal/engine"
	"github.com/nvandessel/spikesim/internal/input"
	"github.com/nvandessel/spikesim/internal/neuron"
	"github.com/nvandessel/spikesim/internal/stdp"
)

// RunConfig contains everything needed to construct and drive one
// simulation run.
type RunConfig struct {
	// Neurons is the population size. Must be >= 0; 0 or 1 neurons yield a
	// network with no synapses.
	Neurons int `json:"neurons" yaml:"neurons"`

	// Neuron holds the LIF dynamics parameters shared by every neuron.
	Neuron neuron.Params `json:"neuron" yaml:"neuron"`

	// STDP holds the plasticity rule parameters shared by every synapse.
	STDP stdp.Params `json:"stdp" yaml:"stdp"`

	// Sim holds the time-stepping parameters.
	Sim engine.Config `json:"sim" yaml:"sim"`

	// InitialWeight is the starting weight for every synapse.
	InitialWeight float64 `json:"initial_weight" yaml:"initial_weight"`

	// Input describes the external current source driving the run.
	Input input.Config `json:"input" yaml:"input"`

	// Logging configures operational logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// LoggingConfig configures spikesim's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" additionally writes run event traces to events.jsonl in the
	// output directory.
	Level string `json:"level" yaml:"level"`
}

// Default returns the reference run configuration: three neurons with the
// standard LIF and STDP parameters, 0.1ms steps over 100ms, and a ramp
// input of 1.2 + 0.05 per neuron index.
func Default() *RunConfig {
	return &RunConfig{
		Neurons:       3,
		Neuron:        neuron.DefaultParams(),
		STDP:          stdp.DefaultParams(),
		Sim:           engine.DefaultConfig(),
		InitialWeight: 0.5,
		Input:         input.DefaultConfig(),
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the default locations and environment
// variables. Order: defaults -> ~/.spikesim/config.yaml -> environment.
func Load() (*RunConfig, error) {
	cfg := Default()

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".spikesim", "config.yaml")
		if _, statErr := os.Stat(configPath); statErr == nil {
			fileCfg, loadErr := LoadFromFile(configPath)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			cfg = fileCfg
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadFromFile loads configuration from a specific YAML file. Fields not
// present in the file keep their defaults.
func LoadFromFile(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration can construct a valid simulation.
// It delegates to the component validators so the CLI reports the same
// errors the engine would.
func (c *RunConfig) Validate() error {
	if c.Neurons < 0 {
		return fmt.Errorf("%w: neurons must be >= 0, got %d", engine.ErrInvalidParameter, c.Neurons)
	}
	if err := c.Neuron.Validate(); err != nil {
		return fmt.Errorf("%w: neuron: %v", engine.ErrInvalidParameter, err)
	}
	if err := c.STDP.Validate(); err != nil {
		return fmt.Errorf("%w: stdp: %v", engine.ErrInvalidParameter, err)
	}
	if err := c.Sim.Validate(); err != nil {
		return err
	}
	if err := c.Input.Validate(); err != nil {
		return err
	}

	validLevels := map[string]bool{"": true, "info": true, "debug": true, "trace": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("%w: invalid log level: %s (valid: info, debug, trace, or empty for default)", engine.ErrInvalidParameter, c.Logging.Level)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *RunConfig) {
	if v := os.Getenv("SPIKESIM_NEURONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Neurons = n
		}
	}

	if v := os.Getenv("SPIKESIM_DT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Sim.DT = f
		}
	}

	if v := os.Getenv("SPIKESIM_T_MAX"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Sim.TMax = f
		}
	}

	if v := os.Getenv("SPIKESIM_WEIGHT_LOG"); v != "" {
		cfg.Sim.WeightLog = engine.WeightLogMode(v)
	}

	if v := os.Getenv("SPIKESIM_INITIAL_WEIGHT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.InitialWeight = f
		}
	}

	if v := os.Getenv("SPIKESIM_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
