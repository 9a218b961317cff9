package model

import "colonyforge.ai/internal/protocol"

// Worker is a schedulable colony unit. Stations hold its ID as a non-owning
// handle; removal from the worker table must release any station holding it.
type Worker struct {
	ID   string
	Name string
	Cell Cell

	// Auto opts the worker into autonomous dispatch each tick.
	Auto bool

	// StationID is the building this worker currently occupies, if any.
	StationID string

	// WorkRate is the work amount applied per tick while assigned.
	WorkRate float64

	Events []protocol.Event
}

func (w *Worker) AddEvent(e protocol.Event) {
	w.Events = append(w.Events, e)
}

func (w *Worker) TakeEvents() []protocol.Event {
	ev := w.Events
	w.Events = nil
	return ev
}
