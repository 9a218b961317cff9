package worldtest

import (
	"encoding/json"
	"fmt"
	"testing"

	"colonyforge.ai/internal/persistence/snapshot"
	"colonyforge.ai/internal/protocol"
	"colonyforge.ai/internal/sim/catalogs"
	world "colonyforge.ai/internal/sim/world"
)

// Harness is a small black-box test helper for driving a world via exported
// APIs:
// - Join() issues JoinRequest via StepOnce()
// - Step()/StepFor() issues ACT via StepOnce()
// - Per-worker Out channels carry OBS JSON
//
// It intentionally avoids touching world internals so tests can live outside
// the world package.
type Harness struct {
	T    *testing.T
	Cats *catalogs.Catalogs
	W    *world.World

	DefaultWorkerID string

	nextCmd  int
	sessions map[string]*session
}

type session struct {
	WorkerID string
	Out      chan []byte
	lastObs  protocol.ObsMsg
}

func NewHarness(t *testing.T, cfg world.WorldConfig, cats *catalogs.Catalogs, workerName string) *Harness {
	t.Helper()

	w, err := world.New(cfg, cats)
	if err != nil {
		t.Fatalf("world.New: %v", err)
	}

	h := &Harness{
		T:        t,
		Cats:     cats,
		W:        w,
		sessions: map[string]*session{},
	}
	h.DefaultWorkerID = h.Join(workerName, protocol.RoleWorker)
	return h
}

// NewHarnessWithWorld is like NewHarness, but uses an already-constructed
// world instance. Useful for snapshot round-trip tests where the snapshot is
// imported before join.
func NewHarnessWithWorld(t *testing.T, w *world.World, cats *catalogs.Catalogs, workerName string) *Harness {
	t.Helper()
	if w == nil {
		t.Fatalf("NewHarnessWithWorld: nil world")
	}
	h := &Harness{
		T:        t,
		Cats:     cats,
		W:        w,
		sessions: map[string]*session{},
	}
	h.DefaultWorkerID = h.Join(workerName, protocol.RoleWorker)
	return h
}

func (h *Harness) Join(name, role string) string {
	h.T.Helper()

	out := make(chan []byte, 16)
	resp := make(chan world.JoinResponse, 1)
	_, _ = h.W.StepOnce([]world.JoinRequest{{
		Name: name,
		Role: role,
		Out:  out,
		Resp: resp,
	}}, nil, nil)
	jr := <-resp
	if jr.Welcome.WorkerID == "" {
		h.T.Fatalf("join returned empty worker id")
	}
	s := &session{WorkerID: jr.Welcome.WorkerID, Out: out}
	h.sessions[s.WorkerID] = s
	h.drainAllObs()
	return s.WorkerID
}

func (h *Harness) LastObs() protocol.ObsMsg {
	return h.LastObsFor(h.DefaultWorkerID)
}

func (h *Harness) LastObsFor(workerID string) protocol.ObsMsg {
	h.T.Helper()
	s := h.sessions[workerID]
	if s == nil {
		h.T.Fatalf("unknown worker id: %q", workerID)
	}
	return s.lastObs
}

// Cmd builds a command with a fresh ref id.
func (h *Harness) Cmd(typ string) protocol.CommandReq {
	h.nextCmd++
	return protocol.CommandReq{ID: fmt.Sprintf("c%d", h.nextCmd), Type: typ}
}

func (h *Harness) Step(cmds ...protocol.CommandReq) protocol.ObsMsg {
	return h.StepFor(h.DefaultWorkerID, cmds...)
}

func (h *Harness) StepFor(workerID string, cmds ...protocol.CommandReq) protocol.ObsMsg {
	h.T.Helper()
	act := protocol.ActMsg{
		Type:            protocol.TypeAct,
		ProtocolVersion: protocol.Version,
		Tick:            h.W.CurrentTick(),
		WorkerID:        workerID,
		Commands:        cmds,
	}
	_, _ = h.W.StepOnce(nil, nil, []world.ActionEnvelope{{
		WorkerID: workerID,
		Act:      act,
	}})
	h.drainAllObs()
	return h.LastObsFor(workerID)
}

func (h *Harness) StepNoop() protocol.ObsMsg {
	h.T.Helper()
	_, _ = h.W.StepOnce(nil, nil, nil)
	h.drainAllObs()
	return h.LastObs()
}

func (h *Harness) StepN(n int) protocol.ObsMsg {
	h.T.Helper()
	var obs protocol.ObsMsg
	for i := 0; i < n; i++ {
		obs = h.StepNoop()
	}
	return obs
}

func (h *Harness) Leave(workerID string) {
	h.T.Helper()
	_, _ = h.W.StepOnce(nil, []string{workerID}, nil)
	delete(h.sessions, workerID)
	h.drainAllObs()
}

func (h *Harness) Snapshot() (tick uint64, snap snapshot.SnapshotV1) {
	h.T.Helper()
	cur := h.W.CurrentTick()
	if cur == 0 {
		return 0, h.W.ExportSnapshot(0)
	}
	tick = cur - 1
	return tick, h.W.ExportSnapshot(tick)
}

func (h *Harness) drainAllObs() {
	h.T.Helper()
	for _, s := range h.sessions {
		h.drainOneObs(s)
	}
}

func (h *Harness) drainOneObs(s *session) {
	h.T.Helper()
	var last []byte
	for {
		select {
		case b := <-s.Out:
			last = b
			continue
		default:
		}
		break
	}
	if len(last) == 0 {
		return
	}
	var obs protocol.ObsMsg
	if err := json.Unmarshal(last, &obs); err != nil {
		h.T.Fatalf("unmarshal OBS: %v", err)
	}
	s.lastObs = obs
}
