package ledger

import (
	"sort"

	"colonyforge.ai/internal/sim/catalogs"
)

// Ledger is the authoritative colony stockpile. Every mutation is
// all-or-nothing; a failed consume leaves the balance untouched.
type Ledger struct {
	stocks map[string]int
}

func New(initial map[string]int) *Ledger {
	l := &Ledger{stocks: map[string]int{}}
	for item, n := range initial {
		if n > 0 {
			l.stocks[item] = n
		}
	}
	return l
}

func (l *Ledger) Amount(item string) int { return l.stocks[item] }

// totals folds a cost list into one amount per item; a list may name the
// same item on several lines.
func totals(costs []catalogs.ItemCount) map[string]int {
	m := make(map[string]int, len(costs))
	for _, c := range costs {
		m[c.Item] += c.Count
	}
	return m
}

func (l *Ledger) CanAfford(costs []catalogs.ItemCount) bool {
	for item, n := range totals(costs) {
		if l.stocks[item] < n {
			return false
		}
	}
	return true
}

func (l *Ledger) Consume(item string, n int) bool {
	if n < 0 || l.stocks[item] < n {
		return false
	}
	l.stocks[item] -= n
	if l.stocks[item] == 0 {
		delete(l.stocks, item)
	}
	return true
}

// ConsumeAll debits every cost or none of them.
func (l *Ledger) ConsumeAll(costs []catalogs.ItemCount) bool {
	need := totals(costs)
	for item, n := range need {
		if l.stocks[item] < n {
			return false
		}
	}
	for item, n := range need {
		l.stocks[item] -= n
		if l.stocks[item] == 0 {
			delete(l.stocks, item)
		}
	}
	return true
}

func (l *Ledger) Add(item string, n int) {
	if n <= 0 {
		return
	}
	l.stocks[item] += n
}

// Refund re-credits a previously consumed cost list in full.
func (l *Ledger) Refund(costs []catalogs.ItemCount) {
	for _, c := range costs {
		l.Add(c.Item, c.Count)
	}
}

// Stocks returns the non-zero balances sorted by item id.
func (l *Ledger) Stocks() []catalogs.ItemCount {
	out := make([]catalogs.ItemCount, 0, len(l.stocks))
	for item, n := range l.stocks {
		out = append(out, catalogs.ItemCount{Item: item, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Item < out[j].Item })
	return out
}
