package registry

import (
	"fmt"
	"testing"

	"colonyforge.ai/internal/sim/catalogs"
	"colonyforge.ai/internal/sim/world/feature/work/station"
	modelpkg "colonyforge.ai/internal/sim/world/kernel/model"
)

type alwaysWork struct{ pending bool }

func (h *alwaysWork) HasPendingWork() bool  { return h.pending }
func (h *alwaysWork) WorkDuration() float64 { return 5 }
func (h *alwaysWork) OnWorkStarted()        {}
func (h *alwaysWork) OnWorkFinished()       {}
func (h *alwaysWork) OnWorkCancelled()      {}

func benchAt(id string, cell modelpkg.Cell, kind string, pending bool) *Building {
	return &Building{
		ID:      id,
		Def:     catalogs.BuildingDef{ID: "CARPENTER_BENCH", TaskKind: kind, Workstation: true},
		Cell:    cell,
		Station: station.New(kind, &alwaysWork{pending: pending}, nil),
	}
}

func storageAt(id string, cell modelpkg.Cell, main bool) *Building {
	return &Building{
		ID:   id,
		Def:  catalogs.BuildingDef{ID: "STOCKPILE", Storage: true, MainStorage: main},
		Cell: cell,
	}
}

func TestRegister_IdempotentAndCellExclusive(t *testing.T) {
	r := New()
	b := benchAt("B1", modelpkg.Cell{X: 1, Y: 1}, "CRAFT", true)

	if !r.Register(b) {
		t.Fatalf("register failed")
	}
	if !r.Register(b) {
		t.Fatalf("re-register of the same building must be a no-op success")
	}
	if len(r.All()) != 1 || len(r.Workstations()) != 1 {
		t.Fatalf("duplicate registration leaked: all=%d ws=%d", len(r.All()), len(r.Workstations()))
	}

	if r.Register(benchAt("B2", modelpkg.Cell{X: 1, Y: 1}, "CRAFT", true)) {
		t.Fatalf("cell conflict must be rejected")
	}

	r.Unregister("B1")
	r.Unregister("B1") // idempotent
	if len(r.All()) != 0 || r.At(modelpkg.Cell{X: 1, Y: 1}) != nil {
		t.Fatalf("unregister incomplete")
	}
}

func TestNearestAvailableWorkstation(t *testing.T) {
	r := New()
	far := benchAt("FAR", modelpkg.Cell{X: 10, Y: 0}, "CRAFT", true)
	near := benchAt("NEAR", modelpkg.Cell{X: 2, Y: 0}, "CRAFT", true)
	occupied := benchAt("OCC", modelpkg.Cell{X: 1, Y: 0}, "CRAFT", true)
	idleNoWork := benchAt("IDLE", modelpkg.Cell{X: 0, Y: 1}, "CRAFT", false)
	cook := benchAt("COOK", modelpkg.Cell{X: 0, Y: 2}, "COOK", true)
	for _, b := range []*Building{far, near, occupied, idleNoWork, cook} {
		r.Register(b)
	}
	occupied.Station.AssignWorker("W9")

	got := r.GetNearestAvailableWorkstation(modelpkg.Cell{}, "CRAFT")
	if got != near {
		t.Fatalf("nearest = %v", got.ID)
	}
	// Unspecified kind falls back to any available station.
	got = r.GetNearestAvailableWorkstation(modelpkg.Cell{}, "")
	if got != cook {
		t.Fatalf("nearest any-kind = %v", got.ID)
	}
	if r.GetNearestAvailableWorkstation(modelpkg.Cell{}, "SMELT") != nil {
		t.Fatalf("no SMELT station exists")
	}
}

func TestNearest_TieBreakIsFirstRegistered(t *testing.T) {
	r := New()
	a := benchAt("A", modelpkg.Cell{X: 3, Y: 0}, "CRAFT", true)
	b := benchAt("B", modelpkg.Cell{X: 0, Y: 3}, "CRAFT", true)
	r.Register(a)
	r.Register(b)

	if got := r.GetNearestAvailableWorkstation(modelpkg.Cell{}, "CRAFT"); got != a {
		t.Fatalf("equal distances must resolve to the first registered, got %s", got.ID)
	}
}

func TestMainStorageFallback(t *testing.T) {
	r := New()
	if r.GetMainStorage() != nil {
		t.Fatalf("no storage yet")
	}
	s1 := storageAt("S1", modelpkg.Cell{X: 0, Y: 0}, false)
	s2 := storageAt("S2", modelpkg.Cell{X: 1, Y: 0}, false)
	r.Register(s1)
	r.Register(s2)
	if r.GetMainStorage() != s1 {
		t.Fatalf("fallback must be the first registered storage")
	}

	main := storageAt("MAIN", modelpkg.Cell{X: 2, Y: 0}, true)
	r.Register(main)
	if r.GetMainStorage() != main {
		t.Fatalf("flagged main storage must win")
	}
}

func TestPickForCommand_PrefersFreeStation(t *testing.T) {
	r := New()
	m := NewStationManager(r)

	busy := benchAt("BUSY", modelpkg.Cell{X: 0, Y: 0}, "CRAFT", true)
	free := benchAt("FREE", modelpkg.Cell{X: 5, Y: 5}, "CRAFT", true)
	r.Register(busy)
	r.Register(free)
	busy.Station.AssignWorker("W1")
	m.RecordCommand("BUSY", 10)

	got := m.PickForCommand("CRAFT")
	if got == nil || got.Target != free || got.EvictedWorker != "" {
		t.Fatalf("expected the free station without eviction, got %+v", got)
	}
}

func TestPickForCommand_EvictsOldestCommand(t *testing.T) {
	r := New()
	m := NewStationManager(r)

	var benches []*Building
	for i := 0; i < 3; i++ {
		b := benchAt(fmt.Sprintf("B%d", i), modelpkg.Cell{X: i, Y: 0}, "CRAFT", true)
		r.Register(b)
		b.Station.AssignWorker(fmt.Sprintf("W%d", i))
		benches = append(benches, b)
	}
	// Commands issued at T=30, 10, 20: the oldest (T=10 at B1) loses.
	m.RecordCommand("B0", 30)
	m.RecordCommand("B1", 10)
	m.RecordCommand("B2", 20)

	got := m.PickForCommand("CRAFT")
	if got == nil || got.Target != benches[1] || got.EvictedWorker != "W1" {
		t.Fatalf("expected eviction at the oldest-command station, got %+v", got)
	}
}

func TestPickForCommand_NoCandidate(t *testing.T) {
	r := New()
	m := NewStationManager(r)

	// Occupied but never player-commanded: not evictable.
	b := benchAt("B", modelpkg.Cell{}, "CRAFT", true)
	r.Register(b)
	b.Station.AssignWorker("W1")

	if got := m.PickForCommand("CRAFT"); got != nil {
		t.Fatalf("expected no candidate, got %+v", got)
	}
}
