package registry

// StationManager implements the worker-to-station matching policy for
// work-capable buildings, including the player-command override.
//
// A player command pins a station with a timestamp. When a new command
// arrives and no free same-kind station has pending work, the occupant of
// the station with the OLDEST outstanding command loses its worker: oldest
// command loses, not longest queue, not shortest distance.
type StationManager struct {
	reg *Registry

	// commandTick is the outstanding player-command timestamp per station.
	commandTick map[string]uint64
}

func NewStationManager(reg *Registry) *StationManager {
	return &StationManager{reg: reg, commandTick: map[string]uint64{}}
}

// CommandTick reports the outstanding command timestamp for a station.
func (m *StationManager) CommandTick(buildingID string) (uint64, bool) {
	t, ok := m.commandTick[buildingID]
	return t, ok
}

// RecordCommand pins a station under a player command issued at tick.
func (m *StationManager) RecordCommand(buildingID string, tick uint64) {
	m.commandTick[buildingID] = tick
}

// ClearCommand forgets a station's outstanding command (release, demolish).
func (m *StationManager) ClearCommand(buildingID string) {
	delete(m.commandTick, buildingID)
}

// Assignment is the outcome of a player-command match.
type Assignment struct {
	Target *Building
	// EvictedWorker is the worker displaced from Target, if preemption was
	// required.
	EvictedWorker string
}

// PickForCommand selects the station a player command of the given kind
// should claim. Preference order: a free same-kind station with pending
// work; otherwise preempt the same-kind station whose outstanding command is
// oldest. Returns nil when neither exists.
func (m *StationManager) PickForCommand(taskKind string) *Assignment {
	for _, b := range m.reg.Workstations() {
		if taskKind != "" && b.Def.TaskKind != taskKind {
			continue
		}
		if !b.Station.IsOccupied() && b.Station.CanStartWork() {
			return &Assignment{Target: b}
		}
	}

	var oldest *Building
	var oldestTick uint64
	for _, b := range m.reg.Workstations() {
		if taskKind != "" && b.Def.TaskKind != taskKind {
			continue
		}
		if !b.Station.IsOccupied() {
			continue
		}
		t, ok := m.commandTick[b.ID]
		if !ok {
			continue
		}
		if oldest == nil || t < oldestTick {
			oldest = b
			oldestTick = t
		}
	}
	if oldest == nil {
		return nil
	}
	return &Assignment{Target: oldest, EvictedWorker: oldest.Station.Occupant()}
}
