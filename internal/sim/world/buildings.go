package world

import (
	"colonyforge.ai/internal/protocol"
	"colonyforge.ai/internal/sim/catalogs"
	"colonyforge.ai/internal/sim/world/feature/farming"
	"colonyforge.ai/internal/sim/world/feature/registry"
	"colonyforge.ai/internal/sim/world/feature/work/autoproduce"
	"colonyforge.ai/internal/sim/world/feature/work/queue"
	"colonyforge.ai/internal/sim/world/feature/work/station"
	"colonyforge.ai/internal/sim/world/kernel/model"
)

func (w *World) rollRange(min, max int) int {
	if max <= min {
		return min
	}
	return min + w.rng.Intn(max-min+1)
}

func (w *World) recipesForStation(taskKind string) map[string]catalogs.RecipeDef {
	out := map[string]catalogs.RecipeDef{}
	for id, r := range w.catalogs.Recipes.ByID {
		if r.Station == taskKind {
			out[id] = r
		}
	}
	return out
}

// constructBuilding builds the capability bundle for a def. Produced items
// materialize as drops at the building's cell, pre-owned by the occupant
// that finished the work.
func (w *World) constructBuilding(def catalogs.BuildingDef, cell model.Cell) *registry.Building {
	return w.constructBuildingWithID(w.newBuildingID(), def, cell)
}

func (w *World) constructBuildingWithID(id string, def catalogs.BuildingDef, cell model.Cell) *registry.Building {
	b := &registry.Building{ID: id, Def: def, Cell: cell}

	notify := func(kind station.EventKind, workerID string) {
		w.addWorldEvent(protocol.Event{
			"t":           w.tick.Load(),
			"type":        string(kind),
			"building_id": b.ID,
			"worker_id":   workerID,
		})
	}
	produce := func(item string, count int) {
		owner := ""
		if b.Station != nil {
			owner = b.Station.Occupant()
		}
		w.spawnDrop(b.Cell, item, count, owner)
	}

	switch {
	case def.Queue:
		cap := def.QueueCap
		if cap <= 0 {
			cap = w.cfg.QueueCap
		}
		q := queue.New(cap, w.recipesForStation(def.TaskKind), w.stock, produce, w.rollRange, func() {
			w.addWorldEvent(protocol.Event{
				"t":           w.tick.Load(),
				"type":        "QUEUE_CHANGED",
				"building_id": b.ID,
			})
		})
		b.Queue = q
		b.Station = station.New(def.TaskKind, q, notify)
	case def.AutoProducer():
		p := autoproduce.New(def.AutoItem, def.AutoCount, def.AutoIntervalTicks, produce)
		b.Auto = p
		b.Station = station.New(def.TaskKind, p, notify)
	case def.Farmland:
		f := farming.New(w.catalogs.Crops.ByID, w.stock, produce, w.rollRange, func() {
			w.addWorldEvent(protocol.Event{
				"t":           w.tick.Load(),
				"type":        "CROP_READY",
				"building_id": b.ID,
			})
		})
		b.Farm = f
		b.Station = station.New(def.TaskKind, f, notify)
	}
	return b
}

// placeBuilding pays the build cost and registers the new building. Returns
// the building and "" on success, or nil and an error code.
func (w *World) placeBuilding(actor string, defID string, cell model.Cell, nowTick uint64) (*registry.Building, string) {
	def, ok := w.catalogs.Buildings.ByID[defID]
	if !ok {
		return nil, protocol.ErrInvalidTarget
	}
	if !w.inBounds(cell) {
		return nil, protocol.ErrBadRequest
	}
	if w.reg.At(cell) != nil {
		return nil, protocol.ErrOccupied
	}
	if !w.stock.ConsumeAll(def.Cost) {
		return nil, protocol.ErrNoResource
	}

	b := w.constructBuilding(def, cell)
	if !w.reg.Register(b) {
		w.stock.Refund(def.Cost)
		return nil, protocol.ErrConflict
	}

	w.audit(AuditEntry{Tick: nowTick, Actor: actor, Action: "PLACE", Target: b.ID, Item: defID})
	w.addWorldEvent(protocol.Event{
		"t":           nowTick,
		"type":        "BUILDING_PLACED",
		"building_id": b.ID,
		"def_id":      defID,
		"cell":        cell.ToArray(),
	})
	return b, ""
}

// demolishBuilding tears a building down: the occupant is released (which
// rolls back any in-flight work), remaining paid queue entries are refunded,
// and the building leaves the registry. The build cost is not returned.
func (w *World) demolishBuilding(actor string, buildingID string, nowTick uint64) string {
	b := w.reg.Get(buildingID)
	if b == nil {
		return protocol.ErrInvalidTarget
	}

	if b.Station != nil && b.Station.IsOccupied() {
		if wk := w.workers[b.Station.Occupant()]; wk != nil {
			w.releaseWorkerFromStation(wk, nowTick)
		} else {
			b.Station.ReleaseWorker()
		}
	}
	if b.Queue != nil {
		for i := b.Queue.Len() - 1; i >= 0; i-- {
			_ = b.Queue.Remove(i)
		}
	}

	w.reg.Unregister(buildingID)
	w.stations.ClearCommand(buildingID)

	w.audit(AuditEntry{Tick: nowTick, Actor: actor, Action: "DEMOLISH", Target: buildingID})
	w.addWorldEvent(protocol.Event{
		"t":           nowTick,
		"type":        "BUILDING_DEMOLISHED",
		"building_id": buildingID,
	})
	return ""
}

// assignWorkerToStation seats a worker, auto-releasing whatever it held
// before. Returns "" on success.
func (w *World) assignWorkerToStation(wk *model.Worker, b *registry.Building, nowTick uint64) string {
	if b == nil || b.Station == nil {
		return protocol.ErrInvalidTarget
	}
	if b.Station.IsOccupied() {
		return protocol.ErrOccupied
	}
	if wk.StationID != "" && wk.StationID != b.ID {
		w.releaseWorkerFromStation(wk, nowTick)
	}
	if !b.Station.AssignWorker(wk.ID) {
		return protocol.ErrOccupied
	}
	wk.StationID = b.ID
	wk.Cell = b.Cell
	return ""
}

// releaseWorkerFromStation frees the worker's current station. Mid-work
// release cancels first, so the backing hooks refund.
func (w *World) releaseWorkerFromStation(wk *model.Worker, nowTick uint64) {
	if wk == nil || wk.StationID == "" {
		return
	}
	id := wk.StationID
	if b := w.reg.Get(id); b != nil && b.Station != nil && b.Station.Occupant() == wk.ID {
		b.Station.ReleaseWorker()
	}
	wk.StationID = ""
	w.stations.ClearCommand(id)
	w.audit(AuditEntry{Tick: nowTick, Actor: wk.ID, Action: "RELEASE", Target: id})
}
