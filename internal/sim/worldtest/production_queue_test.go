package worldtest

import (
	"testing"

	"colonyforge.ai/internal/protocol"
)

// Ingredients are consumed when an order is enqueued, not when work starts,
// and removal refunds exactly what was paid.
func TestQueuePaysUpFrontAndRefunds(t *testing.T) {
	h := NewHarness(t, testConfig(map[string]int{"WOOD": 15}), loadCats(t), "alice")
	disableAuto(t, h, h.DefaultWorkerID)

	bench := place(t, h, "CARPENTER_BENCH", 1, 1)
	if got := stockCount(h.LastObs(), "WOOD"); got != 10 {
		t.Fatalf("wood after bench placement = %d, want 10", got)
	}

	add := func() (string, protocol.ObsMsg) {
		cmd := h.Cmd(protocol.CmdQueueAdd)
		cmd.BuildingID = bench
		cmd.RecipeID = "plank"
		return cmd.ID, h.Step(cmd)
	}

	ref, obs := add()
	if code := actionResultCode(obs, ref); code != "" {
		t.Fatalf("first enqueue failed: %s", code)
	}
	if got := stockCount(obs, "WOOD"); got != 7 {
		t.Fatalf("wood after first enqueue = %d, want 7", got)
	}

	ref, obs = add()
	if code := actionResultCode(obs, ref); code != "" {
		t.Fatalf("second enqueue failed: %s", code)
	}
	if got := stockCount(obs, "WOOD"); got != 4 {
		t.Fatalf("wood after second enqueue = %d, want 4", got)
	}

	// cart needs 5 WOOD + 1 IRON_BAR; only 4 WOOD remain.
	cmd := h.Cmd(protocol.CmdQueueAdd)
	cmd.BuildingID = bench
	cmd.RecipeID = "cart"
	obs = h.Step(cmd)
	if code := actionResultCode(obs, cmd.ID); code != protocol.ErrNoResource {
		t.Fatalf("unaffordable enqueue code = %q, want %q", code, protocol.ErrNoResource)
	}
	if got := stockCount(obs, "WOOD"); got != 4 {
		t.Fatalf("failed enqueue must not touch stock, wood = %d", got)
	}

	// Removing a pending order refunds its ingredients in full.
	cmd = h.Cmd(protocol.CmdQueueRemove)
	cmd.BuildingID = bench
	cmd.Index = 1
	obs = h.Step(cmd)
	if code := actionResultCode(obs, cmd.ID); code != "" {
		t.Fatalf("queue remove failed: %s", code)
	}
	if got := stockCount(obs, "WOOD"); got != 7 {
		t.Fatalf("wood after refund = %d, want 7", got)
	}

	st, ok := findStation(obs, bench)
	if !ok {
		t.Fatalf("bench missing from obs")
	}
	if len(st.Queue) != 1 {
		t.Fatalf("queue length = %d, want 1", len(st.Queue))
	}
	if !st.Queue[0].Paid {
		t.Fatalf("remaining entry should still be paid")
	}
}

func TestQueueFullRejectsWithoutCharge(t *testing.T) {
	h := NewHarness(t, testConfig(map[string]int{"STONE": 6, "IRON_ORE": 40}), loadCats(t), "alice")
	disableAuto(t, h, h.DefaultWorkerID)

	// FURNACE queue cap is 4.
	furnace := place(t, h, "FURNACE", 2, 2)
	for i := 0; i < 4; i++ {
		cmd := h.Cmd(protocol.CmdQueueAdd)
		cmd.BuildingID = furnace
		cmd.RecipeID = "iron_bar"
		obs := h.Step(cmd)
		if code := actionResultCode(obs, cmd.ID); code != "" {
			t.Fatalf("enqueue %d failed: %s", i, code)
		}
	}

	before := stockCount(h.LastObs(), "IRON_ORE")
	cmd := h.Cmd(protocol.CmdQueueAdd)
	cmd.BuildingID = furnace
	cmd.RecipeID = "iron_bar"
	obs := h.Step(cmd)
	if code := actionResultCode(obs, cmd.ID); code != protocol.ErrQueueFull {
		t.Fatalf("over-cap enqueue code = %q, want %q", code, protocol.ErrQueueFull)
	}
	if got := stockCount(obs, "IRON_ORE"); got != before {
		t.Fatalf("over-cap enqueue changed stock: %d -> %d", before, got)
	}
}

// A recipe that does not belong to the station's task kind is rejected.
func TestQueueRejectsForeignRecipe(t *testing.T) {
	h := NewHarness(t, testConfig(map[string]int{"WOOD": 20, "WHEAT": 10}), loadCats(t), "alice")
	disableAuto(t, h, h.DefaultWorkerID)

	bench := place(t, h, "CARPENTER_BENCH", 1, 1)
	cmd := h.Cmd(protocol.CmdQueueAdd)
	cmd.BuildingID = bench
	cmd.RecipeID = "flour" // COOK recipe
	obs := h.Step(cmd)
	if code := actionResultCode(obs, cmd.ID); code != protocol.ErrInvalidTarget {
		t.Fatalf("foreign recipe code = %q, want %q", code, protocol.ErrInvalidTarget)
	}
}
