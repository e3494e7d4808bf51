// Package export writes simulation results as CSV for downstream analysis.
// Row order always matches the sequence order returned by the engine:
// chronological, and within a timestep, the emission order the loop
// produced. The exporter formats; it never computes.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/nvandessel/spikesim/internal/engine"
)

// WriteSpikes writes the spike log as CSV with header "neuron_id,time_ms",
// one row per spike.
func WriteSpikes(w io.Writer, spikes []engine.Spike) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"neuron_id", "time_ms"}); err != nil {
		return fmt.Errorf("write spike header: %w", err)
	}
	for _, s := range spikes {
		row := []string{
			strconv.Itoa(s.Neuron),
			formatFloat(s.Time),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write spike row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush spike csv: %w", err)
	}
	return nil
}

// WriteWeights writes the weight log as CSV with header
// "time_ms,pre_neuron,post_neuron,weight", one row per record.
func WriteWeights(w io.Writer, records []engine.WeightRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"time_ms", "pre_neuron", "post_neuron", "weight"}); err != nil {
		return fmt.Errorf("write weight header: %w", err)
	}
	for _, r := range records {
		row := []string{
			formatFloat(r.Time),
			strconv.Itoa(r.Pre),
			strconv.Itoa(r.Post),
			formatFloat(r.Weight),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write weight row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush weight csv: %w", err)
	}
	return nil
}

// WriteSpikesFile creates path and writes the spike log to it.
func WriteSpikesFile(path string, spikes []engine.Spike) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create spike csv: %w", err)
	}
	if err := WriteSpikes(f, spikes); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close spike csv: %w", err)
	}
	return nil
}

// WriteWeightsFile creates path and writes the weight log to it.
func WriteWeightsFile(path string, records []engine.WeightRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create weight csv: %w", err)
	}
	if err := WriteWeights(f, records); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close weight csv: %w", err)
	}
	return nil
}

// formatFloat renders a float with the shortest representation that
// round-trips, so times and weights survive export/reimport exactly.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
