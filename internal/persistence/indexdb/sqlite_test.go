package indexdb

import (
	"database/sql"
	"path/filepath"
	"testing"

	"colonyforge.ai/internal/protocol"
	"colonyforge.ai/internal/sim/world"
)

func TestIndexPersistsTicksAndAudits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	idx, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}

	for tick := uint64(0); tick < 5; tick++ {
		err := idx.WriteTick(world.TickLogEntry{
			Tick:   tick,
			Digest: "d",
			Joins:  []world.RecordedJoin{{WorkerID: "W1", Name: "alice"}},
			Actions: []world.RecordedAction{{
				WorkerID: "W1",
				Act:      protocol.ActMsg{Type: protocol.TypeAct, Tick: tick},
			}},
		})
		if err != nil {
			t.Fatalf("WriteTick: %v", err)
		}
	}
	if err := idx.WriteAudit(world.AuditEntry{Tick: 3, Actor: "W1", Action: "PICKUP", Item: "WOOD", Count: 2}); err != nil {
		t.Fatalf("WriteAudit: %v", err)
	}
	if err := idx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()

	var ticks int
	if err := db.QueryRow(`SELECT COUNT(*) FROM ticks`).Scan(&ticks); err != nil {
		t.Fatalf("count ticks: %v", err)
	}
	if ticks != 5 {
		t.Fatalf("ticks = %d, want 5", ticks)
	}

	var actor, item string
	var count int
	err = db.QueryRow(`SELECT actor, item, count FROM audits WHERE tick = 3`).Scan(&actor, &item, &count)
	if err != nil {
		t.Fatalf("query audit: %v", err)
	}
	if actor != "W1" || item != "WOOD" || count != 2 {
		t.Fatalf("audit row = %s/%s/%d", actor, item, count)
	}
}

func TestIndexWriteAfterCloseIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	idx, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := idx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := idx.WriteTick(world.TickLogEntry{Tick: 1, Digest: "d"}); err != nil {
		t.Fatalf("post-close WriteTick should be a noop, got %v", err)
	}
}
