package model

// Drop is a produced item stack lying in the world. It is part of the
// authoritative sim state and must be snapshot'd.
type Drop struct {
	DropID string
	Cell   Cell
	Item   string
	Count  int

	// Ownership window: while not public only OwnerID may pick the drop up.
	// OwnershipTicks advances each tick until the window elapses; the
	// transition to public is one-way.
	OwnerID        string
	Public         bool
	OwnershipTicks int

	CreatedTick uint64
	ExpiresTick uint64
}

func (d *Drop) ID() string { return d.DropID }
