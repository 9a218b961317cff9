package world

import (
	"colonyforge.ai/internal/protocol"
	"colonyforge.ai/internal/sim/world/feature/entities/drops"
	"colonyforge.ai/internal/sim/world/kernel/model"
)

func handleCmdPlace(w *World, actorID string, cmd protocol.CommandReq, nowTick uint64) (string, string) {
	cell := model.Cell{X: cmd.Cell[0], Y: cmd.Cell[1]}
	b, code := w.placeBuilding(actorID, cmd.DefID, cell, nowTick)
	if code != "" {
		return code, ""
	}
	return "", b.ID
}

func handleCmdDemolish(w *World, actorID string, cmd protocol.CommandReq, nowTick uint64) (string, string) {
	return w.demolishBuilding(actorID, cmd.BuildingID, nowTick), ""
}

func handleCmdQueueAdd(w *World, actorID string, cmd protocol.CommandReq, nowTick uint64) (string, string) {
	b := w.reg.Get(cmd.BuildingID)
	if b == nil || b.Queue == nil {
		return protocol.ErrInvalidTarget, "no queue at building"
	}
	if code := b.Queue.Add(cmd.RecipeID); code != "" {
		return code, ""
	}
	w.audit(AuditEntry{Tick: nowTick, Actor: actorID, Action: "QUEUE_ADD", Target: cmd.BuildingID, Item: cmd.RecipeID})
	return "", ""
}

func handleCmdQueueRemove(w *World, actorID string, cmd protocol.CommandReq, nowTick uint64) (string, string) {
	b := w.reg.Get(cmd.BuildingID)
	if b == nil || b.Queue == nil {
		return protocol.ErrInvalidTarget, "no queue at building"
	}
	if code := b.Queue.Remove(cmd.Index); code != "" {
		return code, ""
	}
	w.audit(AuditEntry{Tick: nowTick, Actor: actorID, Action: "QUEUE_REMOVE", Target: cmd.BuildingID})
	return "", ""
}

func handleCmdPlant(w *World, actorID string, cmd protocol.CommandReq, nowTick uint64) (string, string) {
	b := w.reg.Get(cmd.BuildingID)
	if b == nil || b.Farm == nil {
		return protocol.ErrInvalidTarget, "no farmland at building"
	}
	if code := b.Farm.Plant(cmd.CropID); code != "" {
		return code, ""
	}
	w.audit(AuditEntry{Tick: nowTick, Actor: actorID, Action: "PLANT", Target: cmd.BuildingID, Item: cmd.CropID})
	return "", ""
}

func handleCmdAssign(w *World, actorID string, cmd protocol.CommandReq, nowTick uint64) (string, string) {
	wk := w.workerFor(actorID)
	if wk == nil {
		return protocol.ErrBadRequest, "not a worker connection"
	}
	b := w.reg.Get(cmd.BuildingID)
	return w.assignWorkerToStation(wk, b, nowTick), ""
}

func handleCmdRelease(w *World, actorID string, cmd protocol.CommandReq, nowTick uint64) (string, string) {
	wk := w.workerFor(actorID)
	if wk == nil {
		return protocol.ErrBadRequest, "not a worker connection"
	}
	if wk.StationID == "" {
		return protocol.ErrInvalidState, "not assigned"
	}
	w.releaseWorkerFromStation(wk, nowTick)
	return "", ""
}

func handleCmdCancelWork(w *World, actorID string, cmd protocol.CommandReq, nowTick uint64) (string, string) {
	wk := w.workerFor(actorID)
	if wk == nil {
		return protocol.ErrBadRequest, "not a worker connection"
	}
	b := w.reg.Get(cmd.BuildingID)
	if b == nil || b.Station == nil {
		return protocol.ErrInvalidTarget, ""
	}
	if b.Station.Occupant() != wk.ID {
		return protocol.ErrNotYours, ""
	}
	if !b.Station.CancelWork() {
		return protocol.ErrInvalidState, "no work in progress"
	}
	w.audit(AuditEntry{Tick: nowTick, Actor: actorID, Action: "CANCEL_WORK", Target: b.ID})
	return "", ""
}

func handleCmdPickup(w *World, actorID string, cmd protocol.CommandReq, nowTick uint64) (string, string) {
	wk := w.workerFor(actorID)
	if wk == nil {
		return protocol.ErrBadRequest, "not a worker connection"
	}
	d := w.drops[cmd.DropID]
	if d == nil {
		return protocol.ErrInvalidTarget, ""
	}
	if !drops.CanBePickedUpBy(d, wk.ID) {
		return protocol.ErrNotYours, "owned by another worker"
	}

	// Collected items land in colony stock; the main storage is where the
	// delivery is booked.
	storageID := ""
	if s := w.reg.GetMainStorage(); s != nil {
		storageID = s.ID
	}
	w.stock.Add(d.Item, d.Count)
	item, count := d.Item, d.Count
	w.removeDrop(wk.ID, d.DropID, "PICKED_UP", nowTick)
	w.audit(AuditEntry{
		Tick: nowTick, Actor: actorID, Action: "PICKUP",
		Target: storageID, Item: item, Count: count,
	})
	w.addWorldEvent(protocol.Event{
		"t":         nowTick,
		"type":      "ITEM_COLLECTED",
		"worker_id": wk.ID,
		"item":      item,
		"count":     count,
	})
	return "", ""
}

func handleCmdGiveUpDrop(w *World, actorID string, cmd protocol.CommandReq, nowTick uint64) (string, string) {
	wk := w.workerFor(actorID)
	if wk == nil {
		return protocol.ErrBadRequest, "not a worker connection"
	}
	d := w.drops[cmd.DropID]
	if d == nil {
		return protocol.ErrInvalidTarget, ""
	}
	if d.Public {
		return protocol.ErrInvalidState, "already public"
	}
	if d.OwnerID != wk.ID {
		return protocol.ErrNotYours, ""
	}
	drops.MakePublic(d)
	w.addWorldEvent(protocol.Event{
		"t":       nowTick,
		"type":    "ITEM_PUBLIC",
		"drop_id": d.DropID,
		"item":    d.Item,
		"cell":    d.Cell.ToArray(),
	})
	return "", ""
}

func handleCmdSetAuto(w *World, actorID string, cmd protocol.CommandReq, nowTick uint64) (string, string) {
	wk := w.workerFor(actorID)
	if wk == nil {
		return protocol.ErrBadRequest, "not a worker connection"
	}
	if cmd.Enabled == nil {
		return protocol.ErrBadRequest, "missing enabled"
	}
	wk.Auto = *cmd.Enabled
	return "", ""
}

// handleCmdPlayerAssign forces a worker onto a station of the requested
// kind. A free station is preferred; otherwise the station whose player
// command is oldest loses its worker.
func handleCmdPlayerAssign(w *World, actorID string, cmd protocol.CommandReq, nowTick uint64) (string, string) {
	target := w.workers[cmd.WorkerID]
	if target == nil {
		return protocol.ErrInvalidTarget, "no such worker"
	}
	asg := w.stations.PickForCommand(cmd.TaskKind)
	if asg == nil {
		return protocol.ErrConflict, "no claimable station"
	}
	if asg.EvictedWorker != "" {
		if evicted := w.workers[asg.EvictedWorker]; evicted != nil {
			w.releaseWorkerFromStation(evicted, nowTick)
			evicted.AddEvent(protocol.Event{
				"t":           nowTick,
				"type":        "REASSIGNED",
				"building_id": asg.Target.ID,
			})
		} else {
			asg.Target.Station.ReleaseWorker()
		}
	}
	if code := w.assignWorkerToStation(target, asg.Target, nowTick); code != "" {
		return code, ""
	}
	w.stations.RecordCommand(asg.Target.ID, nowTick)
	w.audit(AuditEntry{Tick: nowTick, Actor: actorID, Action: "PLAYER_ASSIGN", Target: asg.Target.ID, Item: cmd.WorkerID})
	return "", asg.Target.ID
}
