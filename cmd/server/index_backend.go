package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"colonyforge.ai/internal/persistence/indexdb"
	"colonyforge.ai/internal/persistence/snapshot"
	"colonyforge.ai/internal/sim/catalogs"
	"colonyforge.ai/internal/sim/tuning"
	"colonyforge.ai/internal/sim/world"
)

type runtimeIndex interface {
	world.TickLogger
	world.AuditLogger
	Close() error
	UpsertCatalogs(configDir string, cats *catalogs.Catalogs, tune tuning.Tuning) error
	RecordSnapshot(path string, snap snapshot.SnapshotV1)
}

func openRuntimeIndex(worldDir string, disableDB bool) (runtimeIndex, error) {
	if disableDB {
		return nil, nil
	}

	backend := strings.ToLower(strings.TrimSpace(os.Getenv("CF_INDEX_BACKEND")))
	if backend == "" {
		backend = "sqlite"
	}

	switch backend {
	case "none", "off", "disabled":
		return nil, nil
	case "sqlite":
		dbPath := filepath.Join(worldDir, "index", "world.sqlite")
		return indexdb.OpenSQLite(dbPath)
	default:
		return nil, fmt.Errorf("unsupported CF_INDEX_BACKEND: %s", backend)
	}
}
