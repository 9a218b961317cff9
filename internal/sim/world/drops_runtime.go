package world

import (
	"sort"

	"colonyforge.ai/internal/protocol"
	"colonyforge.ai/internal/sim/world/feature/entities/drops"
	"colonyforge.ai/internal/sim/world/kernel/model"
)

func (w *World) dropAudit(nowTick uint64, actor, action string, cell model.Cell, details map[string]any) {
	e := AuditEntry{Tick: nowTick, Actor: actor, Action: action}
	if id, ok := details["drop_id"].(string); ok {
		e.Target = id
	}
	if item, ok := details["item"].(string); ok {
		e.Item = item
	}
	if n, ok := details["count"].(int); ok {
		e.Count = n
	}
	if r, ok := details["reason"].(string); ok {
		e.Reason = r
	}
	w.audit(e)
}

func (w *World) spawnDrop(cell model.Cell, item string, count int, ownerID string) string {
	nowTick := w.tick.Load()
	id := drops.Spawn(nowTick, ownerID, cell, item, count, ownerID,
		w.cfg.DropTTLTicks, w.drops, w.dropsAt, w.newDropID, w.dropAudit)
	if id == "" {
		return ""
	}
	w.addWorldEvent(protocol.Event{
		"t":       nowTick,
		"type":    "ITEM_DROPPED",
		"drop_id": id,
		"item":    item,
		"count":   count,
		"cell":    cell.ToArray(),
		"owner":   ownerID,
	})
	return id
}

func (w *World) removeDrop(actor, id, reason string, nowTick uint64) {
	drops.Remove(nowTick, actor, id, reason, w.drops, w.dropsAt, w.dropAudit)
}

// systemDrops ages ownership windows and expires stale drops.
func (w *World) systemDrops(nowTick uint64) {
	for _, d := range drops.TickOwnership(w.cfg.OwnershipTicks, w.drops) {
		w.addWorldEvent(protocol.Event{
			"t":       nowTick,
			"type":    "ITEM_PUBLIC",
			"drop_id": d.DropID,
			"item":    d.Item,
			"cell":    d.Cell.ToArray(),
		})
	}

	var expired []string
	for id, d := range w.drops {
		if nowTick >= d.ExpiresTick {
			expired = append(expired, id)
		}
	}
	sort.Strings(expired)
	for _, id := range expired {
		w.removeDrop("world", id, "EXPIRED", nowTick)
	}
}
