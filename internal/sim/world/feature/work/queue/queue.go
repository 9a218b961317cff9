package queue

import (
	"colonyforge.ai/internal/protocol"
	"colonyforge.ai/internal/sim/catalogs"
)

// Ledger is the stockpile surface the queue consumes from and refunds to.
type Ledger interface {
	CanAfford(costs []catalogs.ItemCount) bool
	ConsumeAll(costs []catalogs.ItemCount) bool
	Refund(costs []catalogs.ItemCount)
}

// ProduceFunc receives one rolled output bundle at completion time.
type ProduceFunc func(item string, count int)

// RollFunc returns a uniform int in [min,max].
type RollFunc func(min, max int) int

type Entry struct {
	RecipeID   string
	Processing bool
	// Paid tracks whether the entry's ingredients are currently debited.
	// Enqueue pays up front; cancel refunds and clears it; restarting an
	// unpaid entry pays again.
	Paid bool
}

// Queue is an ordered recipe backlog attached to one workstation. Ingredients
// are consumed when an entry is appended and refunded in full if it is
// removed or cancelled before completion.
type Queue struct {
	entries []Entry
	cap     int

	recipes map[string]catalogs.RecipeDef
	ledger  Ledger
	produce ProduceFunc
	roll    RollFunc
	changed func()
}

func New(cap int, recipes map[string]catalogs.RecipeDef, l Ledger, produce ProduceFunc, roll RollFunc, changed func()) *Queue {
	return &Queue{
		cap:     cap,
		recipes: recipes,
		ledger:  l,
		produce: produce,
		roll:    roll,
		changed: changed,
	}
}

func (q *Queue) Len() int { return len(q.entries) }
func (q *Queue) Cap() int { return q.cap }

// Entries returns a read-only copy of the backlog in order.
func (q *Queue) Entries() []Entry {
	out := make([]Entry, len(q.entries))
	copy(out, q.entries)
	return out
}

func (q *Queue) Recipe(id string) (catalogs.RecipeDef, bool) {
	r, ok := q.recipes[id]
	return r, ok
}

// Add appends a recipe, paying its ingredients immediately. Returns a
// protocol error code, or "" on success.
func (q *Queue) Add(recipeID string) string {
	rec, ok := q.recipes[recipeID]
	if !ok {
		return protocol.ErrInvalidTarget
	}
	if len(q.entries) >= q.cap {
		return protocol.ErrQueueFull
	}
	if !q.ledger.ConsumeAll(rec.Inputs) {
		return protocol.ErrNoResource
	}
	q.entries = append(q.entries, Entry{RecipeID: recipeID, Paid: true})
	q.notifyChanged()
	return ""
}

// Remove deletes the entry at index and refunds its ingredients. The entry
// currently being worked is never removable.
func (q *Queue) Remove(index int) string {
	if index < 0 || index >= len(q.entries) {
		return protocol.ErrInvalidTarget
	}
	e := q.entries[index]
	if e.Processing {
		return protocol.ErrInvalidState
	}
	if e.Paid {
		if rec, ok := q.recipes[e.RecipeID]; ok {
			q.ledger.Refund(rec.Inputs)
		}
	}
	q.entries = append(q.entries[:index], q.entries[index+1:]...)
	q.notifyChanged()
	return ""
}

// HasPendingWork gates StartWork: a non-empty backlog whose head is either
// still paid or affordable again.
func (q *Queue) HasPendingWork() bool {
	if len(q.entries) == 0 {
		return false
	}
	head := q.entries[0]
	if head.Paid {
		return true
	}
	rec, ok := q.recipes[head.RecipeID]
	return ok && q.ledger.CanAfford(rec.Inputs)
}

func (q *Queue) WorkDuration() float64 {
	if len(q.entries) == 0 {
		return 0
	}
	rec, ok := q.recipes[q.entries[0].RecipeID]
	if !ok {
		return 0
	}
	return float64(rec.WorkTicks)
}

func (q *Queue) OnWorkStarted() {
	if len(q.entries) == 0 {
		return
	}
	head := &q.entries[0]
	if !head.Paid {
		// HasPendingWork already verified affordability.
		if rec, ok := q.recipes[head.RecipeID]; ok && q.ledger.ConsumeAll(rec.Inputs) {
			head.Paid = true
		}
	}
	head.Processing = true
	q.notifyChanged()
}

// OnWorkFinished spawns the head recipe's outputs (each yield rolled
// independently at completion time, not enqueue time) and advances the queue.
func (q *Queue) OnWorkFinished() {
	if len(q.entries) == 0 {
		return
	}
	head := q.entries[0]
	if rec, ok := q.recipes[head.RecipeID]; ok {
		for _, out := range rec.Outputs {
			n := out.Min
			if q.roll != nil && out.Max > out.Min {
				n = q.roll(out.Min, out.Max)
			}
			if n > 0 && q.produce != nil {
				q.produce(out.Item, n)
			}
		}
	}
	q.entries = q.entries[1:]
	q.notifyChanged()
}

// OnWorkCancelled refunds the in-flight entry without removing it; it stays
// queued unpaid and pays again when work restarts.
func (q *Queue) OnWorkCancelled() {
	if len(q.entries) == 0 {
		return
	}
	head := &q.entries[0]
	if head.Paid {
		if rec, ok := q.recipes[head.RecipeID]; ok {
			q.ledger.Refund(rec.Inputs)
		}
		head.Paid = false
	}
	head.Processing = false
	q.notifyChanged()
}

// Restore rehydrates the backlog from a snapshot.
func (q *Queue) Restore(entries []Entry) {
	q.entries = append([]Entry(nil), entries...)
}

func (q *Queue) notifyChanged() {
	if q.changed != nil {
		q.changed()
	}
}
