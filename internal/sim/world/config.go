package world

import "colonyforge.ai/internal/sim/tuning"

type WorldConfig struct {
	ID         string
	TickRateHz int
	GridWidth  int
	GridHeight int
	Seed       int64

	OwnershipTicks int
	DropTTLTicks   int
	QueueCap       int

	// WorkRate is the work amount a worker applies per tick.
	WorkRate float64

	SnapshotEveryTicks int
	StarterStock       map[string]int
}

// ConfigFromTuning builds a world config from the loaded tuning file.
func ConfigFromTuning(id string, seed int64, t tuning.Tuning) WorldConfig {
	return WorldConfig{
		ID:                 id,
		TickRateHz:         t.TickRateHz,
		GridWidth:          t.GridWidth,
		GridHeight:         t.GridHeight,
		Seed:               seed,
		OwnershipTicks:     t.OwnershipTicks,
		DropTTLTicks:       t.DropTTLTicks,
		QueueCap:           t.DefaultQueueCap,
		WorkRate:           float64(t.WorkRateMilli) / 1000.0,
		SnapshotEveryTicks: t.SnapshotEveryTicks,
		StarterStock:       t.StarterStock,
	}
}

func (c WorldConfig) withDefaults() WorldConfig {
	if c.TickRateHz <= 0 {
		c.TickRateHz = 5
	}
	if c.GridWidth <= 0 {
		c.GridWidth = 64
	}
	if c.GridHeight <= 0 {
		c.GridHeight = 64
	}
	if c.OwnershipTicks <= 0 {
		c.OwnershipTicks = 150
	}
	if c.DropTTLTicks <= 0 {
		c.DropTTLTicks = 6000
	}
	if c.QueueCap <= 0 {
		c.QueueCap = 8
	}
	if c.WorkRate <= 0 {
		c.WorkRate = 1
	}
	return c
}
