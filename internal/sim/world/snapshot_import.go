package world

import (
	"fmt"

	"colonyforge.ai/internal/persistence/snapshot"
	"colonyforge.ai/internal/sim/catalogs"
	"colonyforge.ai/internal/sim/world/feature/economy/ledger"
	"colonyforge.ai/internal/sim/world/feature/farming"
	"colonyforge.ai/internal/sim/world/feature/work/queue"
	"colonyforge.ai/internal/sim/world/feature/work/station"
	"colonyforge.ai/internal/sim/world/kernel/model"
)

// NewFromSnapshot rebuilds a world from a snapshot. Catalogs are not part
// of the snapshot; defs referenced by saved buildings must still exist.
func NewFromSnapshot(snap snapshot.SnapshotV1, cats *catalogs.Catalogs) (*World, error) {
	if snap.Header.Version != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", snap.Header.Version)
	}

	cfg := WorldConfig{
		ID:                 snap.Header.WorldID,
		TickRateHz:         snap.TickRate,
		GridWidth:          snap.GridWidth,
		GridHeight:         snap.GridHeight,
		Seed:               snap.Seed,
		OwnershipTicks:     snap.OwnershipTicks,
		DropTTLTicks:       snap.DropTTLTicks,
		QueueCap:           snap.QueueCap,
		WorkRate:           float64(snap.WorkRateMilli) / 1000.0,
		SnapshotEveryTicks: snap.SnapshotEveryTicks,
		StarterStock:       snap.StarterStock,
	}
	w, err := New(cfg, cats)
	if err != nil {
		return nil, err
	}

	w.tick.Store(snap.Header.Tick)
	w.nextWorkerNum.Store(snap.Counters.NextWorker)
	w.nextBuildingNum.Store(snap.Counters.NextBuilding)
	w.nextDropNum.Store(snap.Counters.NextDrop)

	// Starter stock was already credited by New; replace it with the saved
	// balances outright.
	w.stock = ledger.New(snap.Stocks)

	for _, bv := range snap.Buildings {
		def, ok := cats.Buildings.ByID[bv.DefID]
		if !ok {
			return nil, fmt.Errorf("snapshot building %s references unknown def %s", bv.ID, bv.DefID)
		}
		b := w.constructBuildingWithID(bv.ID, def, model.Cell{X: bv.Cell[0], Y: bv.Cell[1]})
		if b.Queue != nil {
			entries := make([]queue.Entry, 0, len(bv.Queue))
			for _, e := range bv.Queue {
				entries = append(entries, queue.Entry{
					RecipeID:   e.RecipeID,
					Processing: e.Processing,
					Paid:       e.Paid,
				})
			}
			b.Queue.Restore(entries)
		}
		if b.Farm != nil {
			b.Farm.Restore(farming.State(bv.FarmState), bv.CropID, bv.PendingCrop, bv.GrowthTicks)
		}
		if b.Station != nil {
			b.Station.Restore(station.State(bv.StationState), bv.Occupant, bv.WorkRequired, bv.WorkDone)
		}
		if !w.reg.Register(b) {
			return nil, fmt.Errorf("snapshot building %s could not be registered", bv.ID)
		}
		if bv.HasCommand {
			w.stations.RecordCommand(bv.ID, bv.CommandTick)
		}
	}

	for _, wv := range snap.Workers {
		w.workers[wv.ID] = &model.Worker{
			ID:        wv.ID,
			Name:      wv.Name,
			Cell:      model.Cell{X: wv.Cell[0], Y: wv.Cell[1]},
			Auto:      wv.Auto,
			StationID: wv.StationID,
			WorkRate:  w.cfg.WorkRate,
		}
	}

	for _, dv := range snap.Drops {
		d := &model.Drop{
			DropID:         dv.DropID,
			Cell:           model.Cell{X: dv.Cell[0], Y: dv.Cell[1]},
			Item:           dv.Item,
			Count:          dv.Count,
			OwnerID:        dv.OwnerID,
			Public:         dv.Public,
			OwnershipTicks: dv.OwnershipTicks,
			CreatedTick:    dv.CreatedTick,
			ExpiresTick:    dv.ExpiresTick,
		}
		w.drops[d.DropID] = d
		w.dropsAt[d.Cell] = append(w.dropsAt[d.Cell], d.DropID)
	}

	return w, nil
}
