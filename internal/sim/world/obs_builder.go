package world

import (
	"sort"

	"colonyforge.ai/internal/protocol"
)

func (w *World) buildObs(clientID string, nowTick uint64) protocol.ObsMsg {
	obs := protocol.ObsMsg{
		Type:            protocol.TypeObs,
		ProtocolVersion: protocol.Version,
		Tick:            nowTick,
		WorkerID:        clientID,
		Ledger:          []protocol.ItemStack{},
		Stations:        []protocol.StationObs{},
		Crops:           []protocol.CropObs{},
		Drops:           []protocol.DropObs{},
		Events:          []protocol.Event{},
	}

	for _, s := range w.stock.Stocks() {
		obs.Ledger = append(obs.Ledger, protocol.ItemStack{Item: s.Item, Count: s.Count})
	}

	for _, b := range w.reg.All() {
		switch {
		case b.Station != nil && b.Farm == nil:
			st := b.Station
			so := protocol.StationObs{
				BuildingID: b.ID,
				DefID:      b.Def.ID,
				TaskKind:   b.Def.TaskKind,
				Cell:       b.Cell.ToArray(),
				Occupied:   st.IsOccupied(),
				OccupantID: st.Occupant(),
				Working:    st.IsWorking(),
				Progress:   st.Progress(),
				CanStart:   st.CanStartWork(),
			}
			if b.Queue != nil {
				for _, e := range b.Queue.Entries() {
					qe := protocol.QueueEntryObs{
						RecipeID:   e.RecipeID,
						Processing: e.Processing,
						Paid:       e.Paid,
					}
					if e.Processing {
						qe.Progress = st.Progress()
					}
					so.Queue = append(so.Queue, qe)
				}
			}
			if b.Auto != nil {
				so.AutoItem = b.Auto.Item()
				so.AutoInterval = b.Auto.IntervalTicks()
			}
			obs.Stations = append(obs.Stations, so)
		case b.Farm != nil:
			f := b.Farm
			crop := f.CropID()
			if crop == "" {
				crop = f.PendingCrop()
			}
			obs.Crops = append(obs.Crops, protocol.CropObs{
				BuildingID: b.ID,
				Cell:       b.Cell.ToArray(),
				State:      f.State().String(),
				Crop:       crop,
				Growth:     f.GrowthProgress(),
			})
		}
	}

	dropIDs := make([]string, 0, len(w.drops))
	for id := range w.drops {
		dropIDs = append(dropIDs, id)
	}
	sort.Strings(dropIDs)
	for _, id := range dropIDs {
		d := w.drops[id]
		obs.Drops = append(obs.Drops, protocol.DropObs{
			DropID:  d.DropID,
			Cell:    d.Cell.ToArray(),
			Item:    d.Item,
			Count:   d.Count,
			Public:  d.Public,
			OwnerID: d.OwnerID,
		})
	}

	workerIDs := make([]string, 0, len(w.workers))
	for id := range w.workers {
		workerIDs = append(workerIDs, id)
	}
	sort.Strings(workerIDs)
	for _, id := range workerIDs {
		wk := w.workers[id]
		obs.Workers = append(obs.Workers, protocol.WorkerObs{
			ID:        wk.ID,
			Name:      wk.Name,
			Cell:      wk.Cell.ToArray(),
			StationID: wk.StationID,
		})
	}

	if wk := w.workers[clientID]; wk != nil {
		obs.Self = &protocol.SelfObs{
			Cell:      wk.Cell.ToArray(),
			Auto:      wk.Auto,
			StationID: wk.StationID,
			WorkRate:  wk.WorkRate,
		}
		obs.Events = append(obs.Events, wk.TakeEvents()...)
	} else if evs := w.clientEvents[clientID]; len(evs) > 0 {
		obs.Events = append(obs.Events, evs...)
		delete(w.clientEvents, clientID)
	}
	obs.Events = append(obs.Events, w.worldEvents...)

	return obs
}
