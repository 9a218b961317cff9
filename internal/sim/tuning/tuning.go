package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version"`

	TickRateHz         int `yaml:"tick_rate_hz"`
	GridWidth          int `yaml:"grid_width"`
	GridHeight         int `yaml:"grid_height"`
	SnapshotEveryTicks int `yaml:"snapshot_every_ticks"`

	// Work-assignment core.
	WorkRateMilli   int `yaml:"work_rate_milli"` // work units per tick per worker, x1000
	DefaultQueueCap int `yaml:"default_queue_cap"`
	OwnershipTicks  int `yaml:"ownership_ticks"` // drop personal-claim window
	DropTTLTicks    int `yaml:"drop_ttl_ticks"`

	StarterStock map[string]int `yaml:"starter_stock"`
}

// Defaults returns a Tuning with every field at its default value.
func Defaults() Tuning {
	return Tuning{}.withDefaults()
}

func Load(path string) (Tuning, error) {
	var t Tuning
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t.withDefaults(), nil
}

func (t Tuning) withDefaults() Tuning {
	if t.TickRateHz <= 0 {
		t.TickRateHz = 5
	}
	if t.GridWidth <= 0 {
		t.GridWidth = 64
	}
	if t.GridHeight <= 0 {
		t.GridHeight = 64
	}
	if t.WorkRateMilli <= 0 {
		t.WorkRateMilli = 1000
	}
	if t.DefaultQueueCap <= 0 {
		t.DefaultQueueCap = 8
	}
	if t.OwnershipTicks <= 0 {
		t.OwnershipTicks = 150
	}
	if t.DropTTLTicks <= 0 {
		t.DropTTLTicks = 6000
	}
	return t
}
