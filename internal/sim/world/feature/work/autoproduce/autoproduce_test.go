package autoproduce

import (
	"testing"

	"colonyforge.ai/internal/sim/world/feature/work/station"
)

func newStation(interval int, produced *int) (*station.Workstation, *Producer) {
	p := New("IRON_ORE", 1, interval, func(item string, count int) { *produced += count })
	return station.New("MINE", p, nil), p
}

func TestInterval_FiresExactlyOnceAtBoundary(t *testing.T) {
	var produced int
	ws, _ := newStation(10, &produced)
	ws.AssignWorker("W1")
	ws.StartWork()

	// 9.9 ticks of accumulated time: nothing fires.
	for i := 0; i < 9; i++ {
		ws.DoWork(1)
	}
	ws.DoWork(0.9)
	if produced != 0 {
		t.Fatalf("produced=%d before interval elapsed", produced)
	}

	// Crossing the boundary fires once and resets to zero, discarding the
	// 0.9 overshoot.
	ws.DoWork(1)
	if produced != 1 {
		t.Fatalf("produced=%d at boundary", produced)
	}
	if ws.WorkDone() != 0 {
		t.Fatalf("timer must reset to 0, not carry overshoot: %v", ws.WorkDone())
	}
}

func TestRelease_ResetsTimer(t *testing.T) {
	var produced int
	ws, _ := newStation(10, &produced)
	ws.AssignWorker("W1")
	ws.StartWork()
	for i := 0; i < 7; i++ {
		ws.DoWork(1)
	}

	ws.ReleaseWorker()
	if ws.WorkDone() != 0 {
		t.Fatalf("release must zero the timer")
	}

	// A fresh worker needs the full interval again.
	ws.AssignWorker("W2")
	ws.StartWork()
	for i := 0; i < 9; i++ {
		ws.DoWork(1)
	}
	if produced != 0 {
		t.Fatalf("no banked production across workers: produced=%d", produced)
	}
	ws.DoWork(1)
	if produced != 1 {
		t.Fatalf("produced=%d", produced)
	}
}

func TestTimerOnlyAdvancesWhileWorking(t *testing.T) {
	var produced int
	ws, _ := newStation(5, &produced)

	// Unoccupied: DoWork is ineffective.
	if ws.DoWork(100) != 0 {
		t.Fatalf("work applied to idle station")
	}
	ws.AssignWorker("W1")
	// Occupied but not yet working: still ineffective.
	if ws.DoWork(100) != 0 {
		t.Fatalf("work applied before StartWork")
	}
	if produced != 0 {
		t.Fatalf("produced=%d", produced)
	}
}

func TestProducerIsPure(t *testing.T) {
	// A producer with a zero interval is inoperable rather than divide-by-zero.
	p := New("IRON_ORE", 1, 0, nil)
	if p.HasPendingWork() {
		t.Fatalf("zero-interval producer must have no pending work")
	}
}
