package drops

import (
	"sort"

	modelpkg "colonyforge.ai/internal/sim/world/kernel/model"
)

const TTLTicksDefault = 6000

type AuditFunc func(nowTick uint64, actor, action string, cell modelpkg.Cell, details map[string]any)

// Spawn creates a drop at cell, optionally pre-owned by the producing
// worker. Public spawns merge into an existing public stack of the same item
// at the same cell; owned spawns always create a fresh drop.
func Spawn(
	nowTick uint64,
	actor string,
	cell modelpkg.Cell,
	item string,
	count int,
	ownerID string,
	ttlTicks int,
	drops map[string]*modelpkg.Drop,
	dropsAt map[modelpkg.Cell][]string,
	newID func() string,
	audit AuditFunc,
) string {
	if item == "" || count <= 0 {
		return ""
	}
	if ttlTicks <= 0 {
		ttlTicks = TTLTicksDefault
	}

	if ownerID == "" {
		if ids := dropsAt[cell]; len(ids) > 0 {
			mergeID, ok := FindMergeTarget(ids, item, func(id string) (Entry, bool) {
				d := drops[id]
				if d == nil {
					return Entry{}, false
				}
				return Entry{ID: d.DropID, Item: d.Item, Public: d.Public, ExpiresTick: d.ExpiresTick}, true
			})
			if ok {
				d := drops[mergeID]
				d.Count += count
				exp := nowTick + uint64(ttlTicks)
				if exp > d.ExpiresTick {
					d.ExpiresTick = exp
				}
				if audit != nil {
					audit(nowTick, actor, "DROP_SPAWN", cell, map[string]any{
						"drop_id": d.DropID,
						"item":    item,
						"count":   count,
						"merged":  true,
					})
				}
				return d.DropID
			}
		}
	}

	if newID == nil {
		return ""
	}
	id := newID()
	d := &modelpkg.Drop{
		DropID:      id,
		Cell:        cell,
		Item:        item,
		Count:       count,
		OwnerID:     ownerID,
		Public:      ownerID == "",
		CreatedTick: nowTick,
		ExpiresTick: nowTick + uint64(ttlTicks),
	}
	drops[id] = d
	dropsAt[cell] = append(dropsAt[cell], id)
	if audit != nil {
		audit(nowTick, actor, "DROP_SPAWN", cell, map[string]any{
			"drop_id": id,
			"item":    item,
			"count":   count,
			"owner":   ownerID,
		})
	}
	return id
}

func Remove(
	nowTick uint64,
	actor string,
	id string,
	reason string,
	drops map[string]*modelpkg.Drop,
	dropsAt map[modelpkg.Cell][]string,
	audit AuditFunc,
) {
	d := drops[id]
	if d == nil {
		return
	}
	delete(drops, id)
	ids := RemoveID(dropsAt[d.Cell], id)
	if len(ids) == 0 {
		delete(dropsAt, d.Cell)
	} else {
		dropsAt[d.Cell] = ids
	}
	if audit != nil {
		audit(nowTick, actor, "DROP_DESPAWN", d.Cell, map[string]any{
			"drop_id": id,
			"item":    d.Item,
			"count":   d.Count,
			"reason":  reason,
		})
	}
}

// TickOwnership advances every non-public drop's window by one tick and
// returns the drops that became public this tick, in deterministic id order.
// The transition is irreversible; owners are cleared as the window closes.
func TickOwnership(windowTicks int, drops map[string]*modelpkg.Drop) []*modelpkg.Drop {
	var became []*modelpkg.Drop
	for _, d := range drops {
		if d.Public {
			continue
		}
		d.OwnershipTicks++
		if d.OwnershipTicks >= windowTicks {
			MakePublic(d)
			became = append(became, d)
		}
	}
	sort.Slice(became, func(i, j int) bool { return became[i].DropID < became[j].DropID })
	return became
}
