package worldtest

import (
	"testing"

	"colonyforge.ai/internal/protocol"
)

func queuePlank(t *testing.T, h *Harness, bench string) {
	t.Helper()
	cmd := h.Cmd(protocol.CmdQueueAdd)
	cmd.BuildingID = bench
	cmd.RecipeID = "plank"
	obs := h.Step(cmd)
	if code := actionResultCode(obs, cmd.ID); code != "" {
		t.Fatalf("enqueue at %s failed: %s", bench, code)
	}
}

func playerAssign(t *testing.T, h *Harness, workerID, taskKind string) (string, string) {
	t.Helper()
	cmd := h.Cmd(protocol.CmdPlayerAssign)
	cmd.WorkerID = workerID
	cmd.TaskKind = taskKind
	obs := h.Step(cmd)
	return actionResultCode(obs, cmd.ID), actionResultMessage(obs, cmd.ID)
}

// Player commands prefer free stations, and once none are free, the station
// whose command is oldest loses its worker.
func TestPlayerAssignPrefersFreeThenEvictsOldest(t *testing.T) {
	h := NewHarness(t, testConfig(map[string]int{"WOOD": 40}), loadCats(t), "alice")
	disableAuto(t, h, h.DefaultWorkerID)
	bob := h.Join("bob", protocol.RoleWorker)
	disableAuto(t, h, bob)
	carol := h.Join("carol", protocol.RoleWorker)
	disableAuto(t, h, carol)

	b1 := place(t, h, "CARPENTER_BENCH", 1, 1)
	b2 := place(t, h, "CARPENTER_BENCH", 2, 1)
	queuePlank(t, h, b1)
	queuePlank(t, h, b2)
	queuePlank(t, h, b1)
	queuePlank(t, h, b2)

	code, got := playerAssign(t, h, h.DefaultWorkerID, "CRAFT")
	if code != "" {
		t.Fatalf("first command failed: %s", code)
	}
	if got != b1 {
		t.Fatalf("first command claimed %s, want the first free bench %s", got, b1)
	}

	code, got = playerAssign(t, h, bob, "CRAFT")
	if code != "" {
		t.Fatalf("second command failed: %s", code)
	}
	if got != b2 {
		t.Fatalf("second command claimed %s, want %s", got, b2)
	}

	// No free bench remains; the oldest command (alice's, on b1) loses.
	code, got = playerAssign(t, h, carol, "CRAFT")
	if code != "" {
		t.Fatalf("third command failed: %s", code)
	}
	if got != b1 {
		t.Fatalf("eviction picked %s, want the oldest-commanded %s", got, b1)
	}

	obs := h.StepNoop()
	if self := h.LastObsFor(h.DefaultWorkerID).Self; self == nil || self.StationID != "" {
		t.Fatalf("evicted worker should be unseated, got %+v", self)
	}
	st, _ := findStation(obs, b1)
	if st.OccupantID != carol {
		t.Fatalf("b1 occupant = %q, want %q", st.OccupantID, carol)
	}
}

func TestPlayerAssignNoCandidate(t *testing.T) {
	h := NewHarness(t, testConfig(map[string]int{"WOOD": 10}), loadCats(t), "alice")
	disableAuto(t, h, h.DefaultWorkerID)

	// No COOK station exists at all.
	code, _ := playerAssign(t, h, h.DefaultWorkerID, "COOK")
	if code != protocol.ErrConflict {
		t.Fatalf("no-candidate code = %q, want %q", code, protocol.ErrConflict)
	}
}

// Auto workers claim the nearest open station on their own each tick.
func TestAutoDispatchClaimsNearest(t *testing.T) {
	h := NewHarness(t, testConfig(map[string]int{"WOOD": 40}), loadCats(t), "alice")

	near := place(t, h, "CARPENTER_BENCH", 16, 16)
	place(t, h, "CARPENTER_BENCH", 30, 30)
	queuePlank(t, h, near)

	// The worker spawned near grid center; the next tick's dispatch should
	// seat it at the nearer bench.
	obs := h.StepNoop()
	if obs.Self == nil || obs.Self.StationID != near {
		t.Fatalf("auto dispatch seated worker at %+v, want %s", obs.Self, near)
	}
}
