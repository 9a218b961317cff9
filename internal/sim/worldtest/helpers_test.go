package worldtest

import (
	"testing"

	"colonyforge.ai/internal/protocol"
	"colonyforge.ai/internal/sim/catalogs"
	world "colonyforge.ai/internal/sim/world"
)

func loadCats(t *testing.T) *catalogs.Catalogs {
	t.Helper()
	cats, err := catalogs.Load("../../../configs")
	if err != nil {
		t.Fatalf("catalogs.Load: %v", err)
	}
	return cats
}

func testConfig(stock map[string]int) world.WorldConfig {
	return world.WorldConfig{
		ID:             "testworld",
		TickRateHz:     5,
		GridWidth:      32,
		GridHeight:     32,
		Seed:           42,
		OwnershipTicks: 10,
		DropTTLTicks:   500,
		QueueCap:       8,
		WorkRate:       1,
		StarterStock:   stock,
	}
}

func actionResultCode(obs protocol.ObsMsg, ref string) string {
	for _, e := range obs.Events {
		if typ, _ := e["type"].(string); typ != "ACTION_RESULT" {
			continue
		}
		if got, _ := e["ref"].(string); got != ref {
			continue
		}
		if ok, _ := e["ok"].(bool); ok {
			return ""
		}
		if code, _ := e["code"].(string); code != "" {
			return code
		}
		return "E_INTERNAL"
	}
	return "E_INTERNAL"
}

func actionResultMessage(obs protocol.ObsMsg, ref string) string {
	for _, e := range obs.Events {
		if typ, _ := e["type"].(string); typ != "ACTION_RESULT" {
			continue
		}
		if got, _ := e["ref"].(string); got != ref {
			continue
		}
		if s, _ := e["message"].(string); s != "" {
			return s
		}
	}
	return ""
}

func hasEvent(obs protocol.ObsMsg, typ string) bool {
	for _, e := range obs.Events {
		if got, _ := e["type"].(string); got == typ {
			return true
		}
	}
	return false
}

func stockCount(obs protocol.ObsMsg, item string) int {
	for _, s := range obs.Ledger {
		if s.Item == item {
			return s.Count
		}
	}
	return 0
}

func findStation(obs protocol.ObsMsg, buildingID string) (protocol.StationObs, bool) {
	for _, s := range obs.Stations {
		if s.BuildingID == buildingID {
			return s, true
		}
	}
	return protocol.StationObs{}, false
}

func findCrop(obs protocol.ObsMsg, buildingID string) (protocol.CropObs, bool) {
	for _, c := range obs.Crops {
		if c.BuildingID == buildingID {
			return c, true
		}
	}
	return protocol.CropObs{}, false
}

func dropsOfItem(obs protocol.ObsMsg, item string) []protocol.DropObs {
	var out []protocol.DropObs
	for _, d := range obs.Drops {
		if d.Item == item {
			out = append(out, d)
		}
	}
	return out
}

// place runs a PLACE command and returns the new building id.
func place(t *testing.T, h *Harness, defID string, x, y int) string {
	t.Helper()
	cmd := h.Cmd(protocol.CmdPlace)
	cmd.DefID = defID
	cmd.Cell = [2]int{x, y}
	obs := h.Step(cmd)
	if code := actionResultCode(obs, cmd.ID); code != "" {
		t.Fatalf("PLACE %s failed: %s", defID, code)
	}
	id := actionResultMessage(obs, cmd.ID)
	if id == "" {
		t.Fatalf("PLACE %s returned no building id", defID)
	}
	return id
}

func disableAuto(t *testing.T, h *Harness, workerID string) {
	t.Helper()
	cmd := h.Cmd(protocol.CmdSetAuto)
	off := false
	cmd.Enabled = &off
	obs := h.StepFor(workerID, cmd)
	if code := actionResultCode(obs, cmd.ID); code != "" {
		t.Fatalf("SET_AUTO failed: %s", code)
	}
}
