package drops

import (
	"sort"

	modelpkg "colonyforge.ai/internal/sim/world/kernel/model"
)

// CanBePickedUpBy: anyone once public, only the owner during the ownership
// window.
func CanBePickedUpBy(d *modelpkg.Drop, workerID string) bool {
	if d == nil {
		return false
	}
	if d.Public {
		return true
	}
	return d.OwnerID != "" && d.OwnerID == workerID
}

// MakePublic is the one-way transition out of the ownership window. Used by
// both the timeout and a voluntary owner give-up.
func MakePublic(d *modelpkg.Drop) {
	d.Public = true
	d.OwnerID = ""
}

type Entry struct {
	ID          string
	Item        string
	Public      bool
	ExpiresTick uint64
}

// FindMergeTarget picks a same-item, already-public drop to merge into.
// Owned drops never merge: every yield unit inside an ownership window is an
// independent claim.
func FindMergeTarget(ids []string, item string, load func(string) (Entry, bool)) (string, bool) {
	if load == nil || item == "" {
		return "", false
	}
	for _, id := range ids {
		e, ok := load(id)
		if !ok {
			continue
		}
		if e.Item == item && e.Public {
			return e.ID, true
		}
	}
	return "", false
}

func RemoveID(ids []string, id string) []string {
	for i := 0; i < len(ids); i++ {
		if ids[i] != id {
			continue
		}
		copy(ids[i:], ids[i+1:])
		return ids[:len(ids)-1]
	}
	return ids
}

// SortedExpired returns the ids whose TTL elapsed, in deterministic order.
func SortedExpired(ids []string, load func(string) (Entry, bool), nowTick uint64) []string {
	out := make([]string, 0)
	if load == nil {
		return out
	}
	for _, id := range ids {
		e, ok := load(id)
		if !ok {
			continue
		}
		if e.ExpiresTick != 0 && nowTick >= e.ExpiresTick {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
