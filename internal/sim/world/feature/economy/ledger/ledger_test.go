package ledger

import (
	"testing"

	"colonyforge.ai/internal/sim/catalogs"
)

func TestConsumeAll_AllOrNothing(t *testing.T) {
	l := New(map[string]int{"WOOD": 5, "STONE": 1})

	costs := []catalogs.ItemCount{
		{Item: "WOOD", Count: 3},
		{Item: "STONE", Count: 2},
	}
	if l.ConsumeAll(costs) {
		t.Fatalf("expected consume to fail on short STONE")
	}
	if l.Amount("WOOD") != 5 || l.Amount("STONE") != 1 {
		t.Fatalf("failed consume must not debit anything: WOOD=%d STONE=%d", l.Amount("WOOD"), l.Amount("STONE"))
	}

	l.Add("STONE", 1)
	if !l.ConsumeAll(costs) {
		t.Fatalf("expected consume to succeed")
	}
	if l.Amount("WOOD") != 2 || l.Amount("STONE") != 0 {
		t.Fatalf("after consume: WOOD=%d STONE=%d", l.Amount("WOOD"), l.Amount("STONE"))
	}
}

func TestConsumeAll_DuplicateItemLines(t *testing.T) {
	l := New(map[string]int{"WOOD": 3})

	costs := []catalogs.ItemCount{
		{Item: "WOOD", Count: 2},
		{Item: "WOOD", Count: 2},
	}
	if l.CanAfford(costs) {
		t.Fatalf("4 WOOD across two lines must not be affordable with 3")
	}
	if l.ConsumeAll(costs) {
		t.Fatalf("expected consume to fail on the combined total")
	}
	if l.Amount("WOOD") != 3 {
		t.Fatalf("balance changed on rejected consume: WOOD=%d", l.Amount("WOOD"))
	}

	costs = []catalogs.ItemCount{
		{Item: "WOOD", Count: 2},
		{Item: "WOOD", Count: 1},
	}
	if !l.ConsumeAll(costs) {
		t.Fatalf("expected consume of the combined total to succeed")
	}
	if l.Amount("WOOD") != 0 {
		t.Fatalf("after consume: WOOD=%d", l.Amount("WOOD"))
	}
}

func TestRefund_RestoresBalance(t *testing.T) {
	l := New(map[string]int{"WOOD": 10})
	costs := []catalogs.ItemCount{{Item: "WOOD", Count: 4}}

	if !l.ConsumeAll(costs) {
		t.Fatalf("consume failed")
	}
	l.Refund(costs)
	if l.Amount("WOOD") != 10 {
		t.Fatalf("refund must restore exactly: WOOD=%d", l.Amount("WOOD"))
	}
}

func TestConsume_RejectsNegative(t *testing.T) {
	l := New(map[string]int{"WOOD": 3})
	if l.Consume("WOOD", -1) {
		t.Fatalf("negative consume must fail")
	}
	if l.Consume("WOOD", 4) {
		t.Fatalf("overdraft must fail")
	}
	if l.Amount("WOOD") != 3 {
		t.Fatalf("balance changed on rejected consume")
	}
}
