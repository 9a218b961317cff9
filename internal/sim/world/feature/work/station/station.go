package station

// Workstation is the occupancy/progress state machine shared by every
// work-capable building. Capability behavior (what counts as pending work,
// how long it takes, what completing it means) comes in through Hooks, so
// crafting queues, auto-producers and farm plots all share identical
// occupancy semantics.
type State int

const (
	StateIdle State = iota
	StateOccupied
	StateWorking
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateOccupied:
		return "OCCUPIED"
	case StateWorking:
		return "WORKING"
	}
	return "UNKNOWN"
}

// Hooks supplies capability-specific behavior.
//
// OnWorkStarted must not fail: HasPendingWork is the single gate and must
// already account for anything (affordability included) that could make
// starting impossible.
type Hooks interface {
	HasPendingWork() bool
	WorkDuration() float64
	OnWorkStarted()
	OnWorkFinished()
	OnWorkCancelled()
}

type EventKind string

const (
	EvWorkerAssigned EventKind = "WORKER_ASSIGNED"
	EvWorkerReleased EventKind = "WORKER_RELEASED"
	EvWorkStarted    EventKind = "WORK_STARTED"
	EvWorkCompleted  EventKind = "WORK_COMPLETED"
	EvWorkCancelled  EventKind = "WORK_CANCELLED"
	EvWorkAvailable  EventKind = "WORK_AVAILABLE"
)

// NotifyFunc receives fire-and-forget station notifications. workerID is the
// occupant at the time of the event ("" for EvWorkAvailable after a release).
type NotifyFunc func(kind EventKind, workerID string)

type Workstation struct {
	taskKind string
	hooks    Hooks
	notify   NotifyFunc

	state        State
	occupant     string
	workRequired float64
	workDone     float64
}

func New(taskKind string, hooks Hooks, notify NotifyFunc) *Workstation {
	return &Workstation{taskKind: taskKind, hooks: hooks, notify: notify}
}

func (ws *Workstation) TaskKind() string { return ws.taskKind }
func (ws *Workstation) State() State     { return ws.state }
func (ws *Workstation) Occupant() string { return ws.occupant }
func (ws *Workstation) IsOccupied() bool { return ws.state != StateIdle }
func (ws *Workstation) IsWorking() bool  { return ws.state == StateWorking }

// WorkDone exposes accumulated work for observation (the auto-producer's
// visible timer is exactly this counter).
func (ws *Workstation) WorkDone() float64 { return ws.workDone }

func (ws *Workstation) Progress() float64 {
	if ws.state != StateWorking || ws.workRequired <= 0 {
		return 0
	}
	p := ws.workDone / ws.workRequired
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// CanStartWork reports whether the capability has pending work, independent
// of occupancy. Registry queries combine it with !IsOccupied.
func (ws *Workstation) CanStartWork() bool {
	return ws.hooks != nil && ws.hooks.HasPendingWork()
}

// AssignWorker succeeds only on an idle station.
func (ws *Workstation) AssignWorker(workerID string) bool {
	if workerID == "" || ws.state != StateIdle {
		return false
	}
	ws.occupant = workerID
	ws.state = StateOccupied
	ws.emit(EvWorkerAssigned, workerID)
	return true
}

// StartWork moves Occupied -> Working when the capability has pending work.
func (ws *Workstation) StartWork() bool {
	if ws.state != StateOccupied || !ws.CanStartWork() {
		return false
	}
	d := ws.hooks.WorkDuration()
	if d <= 0 {
		return false
	}
	ws.workRequired = d
	ws.workDone = 0
	ws.state = StateWorking
	ws.hooks.OnWorkStarted()
	ws.emit(EvWorkStarted, ws.occupant)
	return true
}

// DoWork accumulates progress and returns the amount applied (the full input
// amount; there is no partial consumption). Reaching the required work
// clamps progress to exactly 1.0 and completes synchronously.
func (ws *Workstation) DoWork(amount float64) float64 {
	if ws.state != StateWorking || amount <= 0 {
		return 0
	}
	ws.workDone += amount
	if ws.workDone >= ws.workRequired {
		ws.workDone = ws.workRequired
		ws.completeWork()
	}
	return amount
}

// completeWork runs the completion hook before any re-dispatch notification
// so a caller reacting to EvWorkAvailable observes post-completion state.
func (ws *Workstation) completeWork() {
	worker := ws.occupant
	ws.hooks.OnWorkFinished()
	ws.workDone = 0
	ws.workRequired = 0
	ws.state = StateOccupied
	ws.emit(EvWorkCompleted, worker)
	if ws.CanStartWork() {
		ws.emit(EvWorkAvailable, worker)
	}
}

// CancelWork rolls back the in-flight work. No-op unless Working.
func (ws *Workstation) CancelWork() bool {
	if ws.state != StateWorking {
		return false
	}
	ws.hooks.OnWorkCancelled()
	ws.workDone = 0
	ws.workRequired = 0
	ws.state = StateOccupied
	ws.emit(EvWorkCancelled, ws.occupant)
	return true
}

// ReleaseWorker clears the occupant from any occupied state. Releasing
// mid-work cancels first (rollback hook included) so an orphaned working
// station is unreachable.
func (ws *Workstation) ReleaseWorker() {
	if ws.state == StateIdle {
		return
	}
	ws.CancelWork()
	worker := ws.occupant
	ws.occupant = ""
	ws.state = StateIdle
	ws.emit(EvWorkerReleased, worker)
	if ws.CanStartWork() {
		ws.emit(EvWorkAvailable, "")
	}
}

func (ws *Workstation) emit(kind EventKind, workerID string) {
	if ws.notify != nil {
		ws.notify(kind, workerID)
	}
}

// WorkRequired exposes the current work target for snapshots.
func (ws *Workstation) WorkRequired() float64 { return ws.workRequired }

// Restore rehydrates the machine from a snapshot without firing
// notifications or hooks.
func (ws *Workstation) Restore(state State, occupant string, workRequired, workDone float64) {
	ws.state = state
	ws.occupant = occupant
	ws.workRequired = workRequired
	ws.workDone = workDone
}
