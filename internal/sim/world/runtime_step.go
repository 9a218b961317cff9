package world

import (
	"encoding/json"
	"sort"
	"time"
)

func (w *World) stepInternal(joins []JoinRequest, leaves []string, actions []ActionEnvelope) {
	started := time.Now()
	nowTick := w.tick.Load()

	w.worldEvents = w.worldEvents[:0]

	// Apply leaves and joins deterministically at tick boundary.
	recordedLeaves := make([]string, 0, len(leaves))
	for _, id := range leaves {
		if _, ok := w.clients[id]; ok || w.workers[id] != nil {
			w.handleLeave(id, nowTick)
			recordedLeaves = append(recordedLeaves, id)
		}
	}
	recordedJoins := make([]RecordedJoin, 0, len(joins))
	for _, req := range joins {
		resp := w.joinWorker(req.Name, req.Role, req.Out)
		if req.Resp != nil {
			req.Resp <- resp
		}
		recordedJoins = append(recordedJoins, RecordedJoin{
			WorkerID: resp.Welcome.WorkerID,
			Name:     req.Name,
			Role:     req.Role,
		})
	}

	// Apply actions in server receive order (the inbox order).
	recorded := make([]RecordedAction, 0, len(actions))
	for _, env := range actions {
		if env.WorkerID == "" {
			continue
		}
		env.Act.WorkerID = env.WorkerID // trust session identity
		recorded = append(recorded, RecordedAction{WorkerID: env.WorkerID, Act: env.Act})
		w.applyAct(env.WorkerID, env.Act, nowTick)
	}

	// Systems: dispatch -> work -> growth -> drops.
	w.systemDispatch(nowTick)
	w.systemWork(nowTick)
	w.systemFarming(nowTick)
	w.systemDrops(nowTick)

	// Build + send OBS for each connected client.
	for id, cl := range w.clients {
		obs := w.buildObs(id, nowTick)
		b, err := json.Marshal(obs)
		if err != nil {
			continue
		}
		sendLatest(cl.Out, b)
	}

	digest := w.stateDigest(nowTick)
	if w.tickLogger != nil {
		_ = w.tickLogger.WriteTick(TickLogEntry{
			Tick:    nowTick,
			Joins:   recordedJoins,
			Leaves:  recordedLeaves,
			Actions: recorded,
			Digest:  digest,
		})
	}

	// Snapshot every N ticks, starting after tick 0.
	if w.snapshotSink != nil && nowTick != 0 && w.cfg.SnapshotEveryTicks > 0 {
		every := uint64(w.cfg.SnapshotEveryTicks)
		if nowTick%every == 0 {
			snap := w.ExportSnapshot(nowTick)
			select {
			case w.snapshotSink <- snap:
			default:
				// Drop snapshot if the sink is backed up.
			}
		}
	}

	w.metrics.Store(WorldMetrics{
		Tick:      nowTick,
		Workers:   len(w.workers),
		Clients:   len(w.clients),
		Buildings: len(w.reg.All()),
		Drops:     len(w.drops),
		QueueDepths: QueueDepths{
			Inbox: len(w.inbox),
			Join:  len(w.join),
			Leave: len(w.leave),
		},
		StepMS: float64(time.Since(started).Microseconds()) / 1000.0,
	})

	w.tick.Add(1)
}

// systemDispatch seats idle auto workers at the nearest claimable station.
// Workers are scanned in id order so replays stay deterministic.
func (w *World) systemDispatch(nowTick uint64) {
	ids := make([]string, 0, len(w.workers))
	for id := range w.workers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		wk := w.workers[id]
		if !wk.Auto || wk.StationID != "" {
			continue
		}
		b := w.reg.GetNearestAvailableWorkstation(wk.Cell, "")
		if b == nil {
			continue
		}
		if code := w.assignWorkerToStation(wk, b, nowTick); code == "" {
			w.audit(AuditEntry{Tick: nowTick, Actor: id, Action: "AUTO_ASSIGN", Target: b.ID})
		}
	}
}

// systemWork starts pending work on occupied stations and applies each
// occupant's work for the tick. Registration order keeps this deterministic.
func (w *World) systemWork(nowTick uint64) {
	for _, b := range w.reg.Workstations() {
		st := b.Station
		if st.IsOccupied() && !st.IsWorking() && st.CanStartWork() {
			st.StartWork()
		}
		if !st.IsWorking() {
			continue
		}
		rate := w.cfg.WorkRate
		if wk := w.workers[st.Occupant()]; wk != nil && wk.WorkRate > 0 {
			rate = wk.WorkRate
		}
		st.DoWork(rate)
	}
}

// systemFarming advances crop growth by one tick. Growth does not depend on
// an assigned worker.
func (w *World) systemFarming(nowTick uint64) {
	for _, b := range w.reg.Farmlands() {
		b.Farm.GrowthTick(1)
	}
}
