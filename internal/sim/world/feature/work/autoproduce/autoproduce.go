package autoproduce

// ProduceFunc receives one interval's output bundle.
type ProduceFunc func(item string, count int)

// Producer is the pure-timer workstation capability: while a worker occupies
// the station and works, each elapsed interval emits a fixed bundle with no
// ingredient cost. The timer is the station's accumulated work, so it resets
// to zero on interval completion (overshoot within a tick is discarded, not
// carried) and on worker release. A fresh worker always waits a full
// interval.
type Producer struct {
	item          string
	count         int
	intervalTicks int
	produce       ProduceFunc
}

func New(item string, count, intervalTicks int, produce ProduceFunc) *Producer {
	return &Producer{item: item, count: count, intervalTicks: intervalTicks, produce: produce}
}

func (p *Producer) Item() string       { return p.item }
func (p *Producer) Count() int         { return p.count }
func (p *Producer) IntervalTicks() int { return p.intervalTicks }

// HasPendingWork: a producer always has work while operational.
func (p *Producer) HasPendingWork() bool { return p.intervalTicks > 0 }

func (p *Producer) WorkDuration() float64 { return float64(p.intervalTicks) }

func (p *Producer) OnWorkStarted() {}

func (p *Producer) OnWorkFinished() {
	if p.produce != nil && p.count > 0 {
		p.produce(p.item, p.count)
	}
}

// OnWorkCancelled: nothing to roll back, the elapsed interval is simply lost.
func (p *Producer) OnWorkCancelled() {}
