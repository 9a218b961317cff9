package registry

import (
	"colonyforge.ai/internal/sim/catalogs"
	"colonyforge.ai/internal/sim/world/feature/farming"
	"colonyforge.ai/internal/sim/world/feature/work/autoproduce"
	"colonyforge.ai/internal/sim/world/feature/work/queue"
	"colonyforge.ai/internal/sim/world/feature/work/station"
	modelpkg "colonyforge.ai/internal/sim/world/kernel/model"
)

// Building bundles a placed building with its capability components. The
// bundle is explicit: whichever capabilities the def grants are constructed
// at placement time, the rest stay nil.
type Building struct {
	ID   string
	Def  catalogs.BuildingDef
	Cell modelpkg.Cell

	Station *station.Workstation
	Queue   *queue.Queue
	Auto    *autoproduce.Producer
	Farm    *farming.Farmland
}

func (b *Building) IsWorkstation() bool { return b.Station != nil }
func (b *Building) IsStorage() bool     { return b.Def.Storage }

// Registry holds every placed building, indexed by id, by grid cell, and by
// capability.
type Registry struct {
	all    []*Building
	byID   map[string]*Building
	byCell map[modelpkg.Cell]*Building

	workstations []*Building
	producers    []*Building
	storages     []*Building
	farmlands    []*Building
}

func New() *Registry {
	return &Registry{
		byID:   map[string]*Building{},
		byCell: map[modelpkg.Cell]*Building{},
	}
}

// Register adds a building. Registering the same building twice is a no-op;
// a cell conflict with a different building is rejected.
func (r *Registry) Register(b *Building) bool {
	if b == nil || b.ID == "" {
		return false
	}
	if existing, ok := r.byID[b.ID]; ok {
		return existing == b
	}
	if _, taken := r.byCell[b.Cell]; taken {
		return false
	}
	r.byID[b.ID] = b
	r.byCell[b.Cell] = b
	r.all = append(r.all, b)
	if b.Station != nil {
		r.workstations = append(r.workstations, b)
	}
	if b.Auto != nil {
		r.producers = append(r.producers, b)
	}
	if b.Def.Storage {
		r.storages = append(r.storages, b)
	}
	if b.Farm != nil {
		r.farmlands = append(r.farmlands, b)
	}
	return true
}

// Unregister removes a building; unknown ids are a no-op.
func (r *Registry) Unregister(id string) {
	b, ok := r.byID[id]
	if !ok {
		return
	}
	delete(r.byID, id)
	delete(r.byCell, b.Cell)
	r.all = removeBuilding(r.all, b)
	r.workstations = removeBuilding(r.workstations, b)
	r.producers = removeBuilding(r.producers, b)
	r.storages = removeBuilding(r.storages, b)
	r.farmlands = removeBuilding(r.farmlands, b)
}

func removeBuilding(list []*Building, b *Building) []*Building {
	for i, x := range list {
		if x == b {
			copy(list[i:], list[i+1:])
			return list[:len(list)-1]
		}
	}
	return list
}

func (r *Registry) Get(id string) *Building          { return r.byID[id] }
func (r *Registry) At(cell modelpkg.Cell) *Building  { return r.byCell[cell] }
func (r *Registry) All() []*Building                 { return r.all }
func (r *Registry) Workstations() []*Building        { return r.workstations }
func (r *Registry) Farmlands() []*Building           { return r.farmlands }

// GetNearestAvailableWorkstation scans the workstation list for unoccupied
// stations with pending work, optionally filtered by task kind, and returns
// the minimum-distance match. Distance ties resolve to the earliest
// registered station; that first-found tie-break is deliberate, not
// incidental.
func (r *Registry) GetNearestAvailableWorkstation(from modelpkg.Cell, taskKind string) *Building {
	var best *Building
	bestD := 0
	for _, b := range r.workstations {
		ws := b.Station
		if ws.IsOccupied() || !ws.CanStartWork() {
			continue
		}
		if taskKind != "" && b.Def.TaskKind != taskKind {
			continue
		}
		d := modelpkg.DistSq(from, b.Cell)
		if best == nil || d < bestD {
			best = b
			bestD = d
		}
	}
	return best
}

// GetMainStorage returns the storage flagged main, falling back to the first
// registered storage. Callers rely on a non-nil result whenever any storage
// exists.
func (r *Registry) GetMainStorage() *Building {
	for _, b := range r.storages {
		if b.Def.MainStorage {
			return b
		}
	}
	if len(r.storages) > 0 {
		return r.storages[0]
	}
	return nil
}
