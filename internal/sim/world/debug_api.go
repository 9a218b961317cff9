package world

import "colonyforge.ai/internal/sim/world/kernel/model"

// Debug helpers for black-box tests. They mutate state directly and must
// only be called between steps.

func (w *World) DebugAddStock(item string, delta int) bool {
	if delta >= 0 {
		w.stock.Add(item, delta)
		return true
	}
	return w.stock.Consume(item, -delta)
}

func (w *World) DebugStock(item string) int { return w.stock.Amount(item) }

func (w *World) DebugSetWorkerCell(workerID string, cell model.Cell) bool {
	wk := w.workers[workerID]
	if wk == nil {
		return false
	}
	wk.Cell = cell
	return true
}

func (w *World) DebugSetWorkerAuto(workerID string, auto bool) bool {
	wk := w.workers[workerID]
	if wk == nil {
		return false
	}
	wk.Auto = auto
	return true
}

func (w *World) DebugSpawnDrop(cell model.Cell, item string, count int, ownerID string) string {
	return w.spawnDrop(cell, item, count, ownerID)
}

func (w *World) DebugStateDigest(nowTick uint64) string {
	return w.stateDigest(nowTick)
}
