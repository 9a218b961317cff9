package farming

import (
	"colonyforge.ai/internal/protocol"
	"colonyforge.ai/internal/sim/catalogs"
)

type State int

const (
	StateEmpty State = iota
	StateWaitingPlant
	StateGrowing
	StateReady
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "EMPTY"
	case StateWaitingPlant:
		return "WAITING_PLANT"
	case StateGrowing:
		return "GROWING"
	case StateReady:
		return "READY"
	}
	return "UNKNOWN"
}

// Ledger is the seed-consuming surface. Planting pays up front, the same
// policy production queues use.
type Ledger interface {
	Consume(item string, n int) bool
}

// HarvestFunc receives one yield unit; each unit is an independent drop.
type HarvestFunc func(item string, count int)

// RollFunc returns a uniform int in [min,max].
type RollFunc func(min, max int) int

// Farmland is the crop growth cycle. The plant and harvest labor steps run
// through the owning workstation; growth itself advances every tick whether
// or not a worker is present.
type Farmland struct {
	crops   map[string]catalogs.CropDef
	ledger  Ledger
	harvest HarvestFunc
	roll    RollFunc
	ready   func() // "crop ready to harvest" notification

	state       State
	cropID      string // growing or ready crop
	pendingCrop string // awaiting plant labor
	growthTicks float64
}

func New(crops map[string]catalogs.CropDef, l Ledger, harvest HarvestFunc, roll RollFunc, ready func()) *Farmland {
	return &Farmland{crops: crops, ledger: l, harvest: harvest, roll: roll, ready: ready}
}

func (f *Farmland) State() State        { return f.state }
func (f *Farmland) CropID() string      { return f.cropID }
func (f *Farmland) PendingCrop() string { return f.pendingCrop }

func (f *Farmland) GrowthProgress() float64 {
	def, ok := f.crops[f.cropID]
	if f.state != StateGrowing && f.state != StateReady {
		return 0
	}
	if f.state == StateReady {
		return 1
	}
	if !ok || def.GrowthTicks <= 0 {
		return 0
	}
	p := f.growthTicks / float64(def.GrowthTicks)
	if p > 1 {
		return 1
	}
	return p
}

// Plant requests a crop. The seed is consumed now, not when the planting
// labor completes. Returns a protocol error code, or "" on success.
func (f *Farmland) Plant(cropID string) string {
	if f.state != StateEmpty {
		return protocol.ErrInvalidState
	}
	def, ok := f.crops[cropID]
	if !ok {
		return protocol.ErrInvalidTarget
	}
	if !f.ledger.Consume(def.Seed, 1) {
		return protocol.ErrNoResource
	}
	f.pendingCrop = cropID
	f.state = StateWaitingPlant
	return ""
}

// GrowthTick advances growth. Only the Growing state accumulates; an
// arbitrarily large dt clamps at ready rather than overshooting.
func (f *Farmland) GrowthTick(dt float64) {
	if f.state != StateGrowing || dt <= 0 {
		return
	}
	def, ok := f.crops[f.cropID]
	if !ok {
		return
	}
	f.growthTicks += dt
	if f.growthTicks >= float64(def.GrowthTicks) {
		f.growthTicks = float64(def.GrowthTicks)
		f.state = StateReady
		if f.ready != nil {
			f.ready()
		}
	}
}

// HasPendingWork: labor is needed to plant a waiting seed or bring in a
// ready crop.
func (f *Farmland) HasPendingWork() bool {
	return f.state == StateWaitingPlant || f.state == StateReady
}

func (f *Farmland) WorkDuration() float64 {
	switch f.state {
	case StateWaitingPlant:
		if def, ok := f.crops[f.pendingCrop]; ok {
			return float64(def.PlantWorkTicks)
		}
	case StateReady:
		if def, ok := f.crops[f.cropID]; ok {
			return float64(def.HarvestWorkTicks)
		}
	}
	return 0
}

func (f *Farmland) OnWorkStarted() {}

func (f *Farmland) OnWorkFinished() {
	switch f.state {
	case StateWaitingPlant:
		f.cropID = f.pendingCrop
		f.pendingCrop = ""
		f.growthTicks = 0
		f.state = StateGrowing
	case StateReady:
		def, ok := f.crops[f.cropID]
		if ok {
			n := def.MinYield
			if f.roll != nil && def.MaxYield > def.MinYield {
				n = f.roll(def.MinYield, def.MaxYield)
			}
			if f.harvest != nil {
				for i := 0; i < n; i++ {
					f.harvest(def.Yield, 1)
				}
			}
		}
		f.cropID = ""
		f.growthTicks = 0
		f.state = StateEmpty
	}
}

// OnWorkCancelled: labor stops; the cycle state is unchanged (the seed stays
// paid, the crop stays ready).
func (f *Farmland) OnWorkCancelled() {}

// Restore rehydrates from a snapshot.
func (f *Farmland) Restore(state State, cropID, pendingCrop string, growthTicks float64) {
	f.state = state
	f.cropID = cropID
	f.pendingCrop = pendingCrop
	f.growthTicks = growthTicks
}

// GrowthTicks exposes the raw accumulator for snapshots.
func (f *Farmland) GrowthTicks() float64 { return f.growthTicks }
