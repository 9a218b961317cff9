package world

import (
	"sort"

	"colonyforge.ai/internal/persistence/snapshot"
)

const snapshotVersion = 1

func (w *World) ExportSnapshot(nowTick uint64) snapshot.SnapshotV1 {
	snap := snapshot.SnapshotV1{
		Header: snapshot.Header{
			Version: snapshotVersion,
			WorldID: w.cfg.ID,
			Tick:    nowTick,
		},
		Seed:               w.cfg.Seed,
		TickRate:           w.cfg.TickRateHz,
		GridWidth:          w.cfg.GridWidth,
		GridHeight:         w.cfg.GridHeight,
		OwnershipTicks:     w.cfg.OwnershipTicks,
		DropTTLTicks:       w.cfg.DropTTLTicks,
		QueueCap:           w.cfg.QueueCap,
		WorkRateMilli:      int(w.cfg.WorkRate * 1000),
		SnapshotEveryTicks: w.cfg.SnapshotEveryTicks,
		StarterStock:       w.cfg.StarterStock,
		Stocks:             map[string]int{},
		Buildings:          []snapshot.BuildingV1{},
		Workers:            []snapshot.WorkerV1{},
		Drops:              []snapshot.DropV1{},
		Counters: snapshot.CountersV1{
			NextWorker:   w.nextWorkerNum.Load(),
			NextBuilding: w.nextBuildingNum.Load(),
			NextDrop:     w.nextDropNum.Load(),
		},
	}

	for _, s := range w.stock.Stocks() {
		snap.Stocks[s.Item] = s.Count
	}

	for _, b := range w.reg.All() {
		bv := snapshot.BuildingV1{
			ID:    b.ID,
			DefID: b.Def.ID,
			Cell:  b.Cell.ToArray(),
		}
		if b.Station != nil {
			bv.StationState = int(b.Station.State())
			bv.Occupant = b.Station.Occupant()
			bv.WorkRequired = b.Station.WorkRequired()
			bv.WorkDone = b.Station.WorkDone()
			if t, ok := w.stations.CommandTick(b.ID); ok {
				bv.HasCommand = true
				bv.CommandTick = t
			}
		}
		if b.Queue != nil {
			for _, e := range b.Queue.Entries() {
				bv.Queue = append(bv.Queue, snapshot.QueueEntryV1{
					RecipeID:   e.RecipeID,
					Processing: e.Processing,
					Paid:       e.Paid,
				})
			}
		}
		if b.Farm != nil {
			bv.FarmState = int(b.Farm.State())
			bv.CropID = b.Farm.CropID()
			bv.PendingCrop = b.Farm.PendingCrop()
			bv.GrowthTicks = b.Farm.GrowthTicks()
		}
		snap.Buildings = append(snap.Buildings, bv)
	}

	workerIDs := make([]string, 0, len(w.workers))
	for id := range w.workers {
		workerIDs = append(workerIDs, id)
	}
	sort.Strings(workerIDs)
	for _, id := range workerIDs {
		wk := w.workers[id]
		snap.Workers = append(snap.Workers, snapshot.WorkerV1{
			ID:        wk.ID,
			Name:      wk.Name,
			Cell:      wk.Cell.ToArray(),
			Auto:      wk.Auto,
			StationID: wk.StationID,
		})
	}

	dropIDs := make([]string, 0, len(w.drops))
	for id := range w.drops {
		dropIDs = append(dropIDs, id)
	}
	sort.Strings(dropIDs)
	for _, id := range dropIDs {
		d := w.drops[id]
		snap.Drops = append(snap.Drops, snapshot.DropV1{
			DropID:         d.DropID,
			Cell:           d.Cell.ToArray(),
			Item:           d.Item,
			Count:          d.Count,
			OwnerID:        d.OwnerID,
			Public:         d.Public,
			OwnershipTicks: d.OwnershipTicks,
			CreatedTick:    d.CreatedTick,
			ExpiresTick:    d.ExpiresTick,
		})
	}

	return snap
}
