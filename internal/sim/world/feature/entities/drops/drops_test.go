package drops

import (
	"fmt"
	"testing"

	modelpkg "colonyforge.ai/internal/sim/world/kernel/model"
)

func newStore() (map[string]*modelpkg.Drop, map[modelpkg.Cell][]string, func() string) {
	ds := map[string]*modelpkg.Drop{}
	at := map[modelpkg.Cell][]string{}
	n := 0
	newID := func() string {
		n++
		return fmt.Sprintf("D%d", n)
	}
	return ds, at, newID
}

func TestOwnershipWindow_TimesOutIrreversibly(t *testing.T) {
	ds, at, newID := newStore()
	id := Spawn(1, "W1", modelpkg.Cell{X: 2, Y: 3}, "WHEAT", 1, "W1", 100, ds, at, newID, nil)
	d := ds[id]

	if !CanBePickedUpBy(d, "W1") {
		t.Fatalf("owner must be able to pick up during the window")
	}
	if CanBePickedUpBy(d, "W2") {
		t.Fatalf("non-owner must be blocked during the window")
	}

	for i := 0; i < 9; i++ {
		if got := TickOwnership(10, ds); len(got) != 0 {
			t.Fatalf("became public early at tick %d", i)
		}
	}
	became := TickOwnership(10, ds)
	if len(became) != 1 || became[0].DropID != id {
		t.Fatalf("became: %+v", became)
	}
	if !d.Public || d.OwnerID != "" {
		t.Fatalf("timeout must clear the owner: %+v", d)
	}
	if !CanBePickedUpBy(d, "W2") {
		t.Fatalf("anyone may pick up a public drop")
	}

	// Irreversible: further ticks never produce the drop again.
	if got := TickOwnership(10, ds); len(got) != 0 {
		t.Fatalf("public drop re-announced: %+v", got)
	}
}

func TestOwnerGiveUp_EquivalentToTimeout(t *testing.T) {
	ds, at, newID := newStore()
	id := Spawn(1, "W1", modelpkg.Cell{}, "WHEAT", 1, "W1", 100, ds, at, newID, nil)
	d := ds[id]

	MakePublic(d)
	if !d.Public || d.OwnerID != "" {
		t.Fatalf("give-up must force public now: %+v", d)
	}
	if !CanBePickedUpBy(d, "W2") {
		t.Fatalf("public after give-up")
	}
}

func TestSpawn_OwnedDropsNeverMerge(t *testing.T) {
	ds, at, newID := newStore()
	cell := modelpkg.Cell{X: 1, Y: 1}

	a := Spawn(1, "W1", cell, "WHEAT", 1, "W1", 100, ds, at, newID, nil)
	b := Spawn(1, "W1", cell, "WHEAT", 1, "W1", 100, ds, at, newID, nil)
	if a == b {
		t.Fatalf("owned spawns must be independent drops")
	}
	if len(ds) != 2 || len(at[cell]) != 2 {
		t.Fatalf("store: %d drops, %d at cell", len(ds), len(at[cell]))
	}
}

func TestSpawn_PublicDropsMerge(t *testing.T) {
	ds, at, newID := newStore()
	cell := modelpkg.Cell{X: 1, Y: 1}

	a := Spawn(1, "", cell, "IRON_ORE", 2, "", 100, ds, at, newID, nil)
	b := Spawn(5, "", cell, "IRON_ORE", 3, "", 100, ds, at, newID, nil)
	if a != b {
		t.Fatalf("public same-item spawns at one cell must merge")
	}
	if ds[a].Count != 5 {
		t.Fatalf("merged count=%d", ds[a].Count)
	}
	// Merge extends TTL to the later spawn.
	if ds[a].ExpiresTick != 105 {
		t.Fatalf("expires=%d", ds[a].ExpiresTick)
	}

	// Different item shares the cell without merging.
	c := Spawn(5, "", cell, "WHEAT", 1, "", 100, ds, at, newID, nil)
	if c == a || len(at[cell]) != 2 {
		t.Fatalf("distinct items must not merge")
	}
}

func TestRemoveAndExpiry(t *testing.T) {
	ds, at, newID := newStore()
	cell := modelpkg.Cell{X: 0, Y: 0}
	id := Spawn(1, "", cell, "WHEAT", 1, "", 10, ds, at, newID, nil)

	expired := SortedExpired(at[cell], func(id string) (Entry, bool) {
		d := ds[id]
		if d == nil {
			return Entry{}, false
		}
		return Entry{ID: d.DropID, Item: d.Item, Public: d.Public, ExpiresTick: d.ExpiresTick}, true
	}, 11)
	if len(expired) != 1 || expired[0] != id {
		t.Fatalf("expired: %v", expired)
	}

	Remove(11, "system", id, "expired", ds, at, nil)
	if len(ds) != 0 {
		t.Fatalf("drop not removed")
	}
	if _, ok := at[cell]; ok {
		t.Fatalf("empty cell index must be deleted")
	}
}
