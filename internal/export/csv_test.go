package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nvandessel/spikesim/internal/engine"
)

func TestWriteSpikes(t *testing.T) {
	spikes := []engine.Spike{
		{Neuron: 0, Time: 17.8},
		{Neuron: 2, Time: 18.1},
		{Neuron: 0, Time: 35.6},
	}

	var sb strings.Builder
	if err := WriteSpikes(&sb, spikes); err != nil {
		t.Fatal(err)
	}

	want := "neuron_id,time_ms\n" +
		"0,17.8\n" +
		"2,18.1\n" +
		"0,35.6\n"
	if sb.String() != want {
		t.Errorf("spike csv:\ngot:\n%s\nwant:\n%s", sb.String(), want)
	}
}

func TestWriteSpikes_EmptyLogStillHasHeader(t *testing.T) {
	var sb strings.Builder
	if err := WriteSpikes(&sb, nil); err != nil {
		t.Fatal(err)
	}
	if sb.String() != "neuron_id,time_ms\n" {
		t.Errorf("empty spike csv: %q", sb.String())
	}
}

func TestWriteWeights(t *testing.T) {
	records := []engine.WeightRecord{
		{Time: 17.8, Pre: 0, Post: 1, Weight: 0.5},
		{Time: 17.8, Pre: 1, Post: 0, Weight: 0.488},
	}

	var sb strings.Builder
	if err := WriteWeights(&sb, records); err != nil {
		t.Fatal(err)
	}

	want := "time_ms,pre_neuron,post_neuron,weight\n" +
		"17.8,0,1,0.5\n" +
		"17.8,1,0,0.488\n"
	if sb.String() != want {
		t.Errorf("weight csv:\ngot:\n%s\nwant:\n%s", sb.String(), want)
	}
}

func TestFormatFloat_RoundTrips(t *testing.T) {
	// Shortest round-trip formatting keeps full precision for values that
	// don't print cleanly, like accumulated timestamps.
	got := formatFloat(0.30000000000000004)
	if got != "0.30000000000000004" {
		t.Errorf("formatFloat should round-trip: got %q", got)
	}
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()
	spikesPath := filepath.Join(dir, "spikes.csv")
	weightsPath := filepath.Join(dir, "weights.csv")

	spikes := []engine.Spike{{Neuron: 1, Time: 2.5}}
	records := []engine.WeightRecord{{Time: 2.5, Pre: 1, Post: 0, Weight: 0.75}}

	if err := WriteSpikesFile(spikesPath, spikes); err != nil {
		t.Fatal(err)
	}
	if err := WriteWeightsFile(weightsPath, records); err != nil {
		t.Fatal(err)
	}

	spikeData, err := os.ReadFile(spikesPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(spikeData) != "neuron_id,time_ms\n1,2.5\n" {
		t.Errorf("spike file: %q", spikeData)
	}

	weightData, err := os.ReadFile(weightsPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(weightData) != "time_ms,pre_neuron,post_neuron,weight\n2.5,1,0,0.75\n" {
		t.Errorf("weight file: %q", weightData)
	}
}

func TestWriteSpikesFile_BadPath(t *testing.T) {
	err := WriteSpikesFile(filepath.Join(t.TempDir(), "missing", "spikes.csv"), nil)
	if err == nil {
		t.Fatal("expected error for unwritable path")
	}
	if !strings.Contains(err.Error(), "create spike csv") {
		t.Errorf("error should identify the failing operation: %v", err)
	}
}
