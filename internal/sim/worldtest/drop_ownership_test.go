package worldtest

import (
	"testing"

	"colonyforge.ai/internal/protocol"
	"colonyforge.ai/internal/sim/world/kernel/model"
)

// Owned drops are exclusive until the ownership window lapses; the
// transition to public is one-way.
func TestOwnershipWindowExpires(t *testing.T) {
	h := NewHarness(t, testConfig(nil), loadCats(t), "alice")
	disableAuto(t, h, h.DefaultWorkerID)
	bob := h.Join("bob", protocol.RoleWorker)
	disableAuto(t, h, bob)

	id := h.W.DebugSpawnDrop(model.Cell{X: 5, Y: 5}, "WOOD", 2, h.DefaultWorkerID)
	if id == "" {
		t.Fatalf("spawn returned empty id")
	}

	cmd := h.Cmd(protocol.CmdPickup)
	cmd.DropID = id
	obs := h.StepFor(bob, cmd)
	if code := actionResultCode(obs, cmd.ID); code != protocol.ErrNotYours {
		t.Fatalf("foreign pickup code = %q, want %q", code, protocol.ErrNotYours)
	}

	// Window is 10 ticks; one has already elapsed.
	obs = h.StepN(9)
	found := false
	for _, d := range obs.Drops {
		if d.DropID == id {
			found = true
			if !d.Public || d.OwnerID != "" {
				t.Fatalf("drop should be public after window: %+v", d)
			}
		}
	}
	if !found {
		t.Fatalf("drop disappeared before TTL")
	}

	cmd = h.Cmd(protocol.CmdPickup)
	cmd.DropID = id
	obs = h.StepFor(bob, cmd)
	if code := actionResultCode(obs, cmd.ID); code != "" {
		t.Fatalf("public pickup failed: %s", code)
	}
	if got := stockCount(obs, "WOOD"); got != 2 {
		t.Fatalf("wood after pickup = %d, want 2", got)
	}
}

// The owner may surrender a drop early, and cannot take ownership back.
func TestGiveUpDropIsImmediateAndFinal(t *testing.T) {
	h := NewHarness(t, testConfig(nil), loadCats(t), "alice")
	disableAuto(t, h, h.DefaultWorkerID)
	bob := h.Join("bob", protocol.RoleWorker)
	disableAuto(t, h, bob)

	id := h.W.DebugSpawnDrop(model.Cell{X: 5, Y: 5}, "STONE", 1, h.DefaultWorkerID)

	// Only the owner can surrender it.
	cmd := h.Cmd(protocol.CmdGiveUpDrop)
	cmd.DropID = id
	obs := h.StepFor(bob, cmd)
	if code := actionResultCode(obs, cmd.ID); code != protocol.ErrNotYours {
		t.Fatalf("foreign give-up code = %q, want %q", code, protocol.ErrNotYours)
	}

	cmd = h.Cmd(protocol.CmdGiveUpDrop)
	cmd.DropID = id
	obs = h.Step(cmd)
	if code := actionResultCode(obs, cmd.ID); code != "" {
		t.Fatalf("give-up failed: %s", code)
	}
	if !hasEvent(obs, "ITEM_PUBLIC") {
		t.Fatalf("missing ITEM_PUBLIC event")
	}

	// Surrendering twice is an error; the drop stays public.
	cmd = h.Cmd(protocol.CmdGiveUpDrop)
	cmd.DropID = id
	obs = h.Step(cmd)
	if code := actionResultCode(obs, cmd.ID); code != protocol.ErrInvalidState {
		t.Fatalf("second give-up code = %q, want %q", code, protocol.ErrInvalidState)
	}

	cmd = h.Cmd(protocol.CmdPickup)
	cmd.DropID = id
	obs = h.StepFor(bob, cmd)
	if code := actionResultCode(obs, cmd.ID); code != "" {
		t.Fatalf("pickup of surrendered drop failed: %s", code)
	}
}

// Public same-item drops at the same cell merge; owned drops never do.
func TestDropMergeRules(t *testing.T) {
	h := NewHarness(t, testConfig(nil), loadCats(t), "alice")
	disableAuto(t, h, h.DefaultWorkerID)

	cell := model.Cell{X: 6, Y: 6}
	h.W.DebugSpawnDrop(cell, "WOOD", 1, "")
	h.W.DebugSpawnDrop(cell, "WOOD", 2, "")
	obs := h.StepNoop()
	wood := dropsOfItem(obs, "WOOD")
	if len(wood) != 1 || wood[0].Count != 3 {
		t.Fatalf("public spawns should merge: %+v", wood)
	}

	h.W.DebugSpawnDrop(cell, "WOOD", 1, h.DefaultWorkerID)
	h.W.DebugSpawnDrop(cell, "WOOD", 1, h.DefaultWorkerID)
	obs = h.StepNoop()
	if got := len(dropsOfItem(obs, "WOOD")); got != 3 {
		t.Fatalf("owned spawns must stay separate, have %d drops", got)
	}
}

func TestDropExpiresAfterTTL(t *testing.T) {
	cfg := testConfig(nil)
	cfg.DropTTLTicks = 20
	h := NewHarness(t, cfg, loadCats(t), "alice")
	disableAuto(t, h, h.DefaultWorkerID)

	id := h.W.DebugSpawnDrop(model.Cell{X: 7, Y: 7}, "WOOD", 1, "")
	obs := h.StepN(25)
	for _, d := range obs.Drops {
		if d.DropID == id {
			t.Fatalf("drop outlived its TTL")
		}
	}
}
