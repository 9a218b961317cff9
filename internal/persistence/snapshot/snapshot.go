package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

type Header struct {
	Version int    `json:"version"`
	WorldID string `json:"world_id"`
	Tick    uint64 `json:"tick"`
}

type SnapshotV1 struct {
	Header Header `json:"header"`

	Seed       int64 `json:"seed"`
	TickRate   int   `json:"tick_rate_hz"`
	GridWidth  int   `json:"grid_width"`
	GridHeight int   `json:"grid_height"`

	// Operational parameters (captured for deterministic resume).
	OwnershipTicks     int            `json:"ownership_ticks,omitempty"`
	DropTTLTicks       int            `json:"drop_ttl_ticks,omitempty"`
	QueueCap           int            `json:"queue_cap,omitempty"`
	WorkRateMilli      int            `json:"work_rate_milli,omitempty"`
	SnapshotEveryTicks int            `json:"snapshot_every_ticks,omitempty"`
	StarterStock       map[string]int `json:"starter_stock,omitempty"`

	Stocks    map[string]int `json:"stocks"`
	Buildings []BuildingV1   `json:"buildings"`
	Workers   []WorkerV1     `json:"workers"`
	Drops     []DropV1       `json:"drops"`

	Counters CountersV1 `json:"counters"`
}

type CountersV1 struct {
	NextWorker   uint64 `json:"next_worker"`
	NextBuilding uint64 `json:"next_building"`
	NextDrop     uint64 `json:"next_drop"`
}

type BuildingV1 struct {
	ID    string `json:"id"`
	DefID string `json:"def_id"`
	Cell  [2]int `json:"cell"`

	StationState int     `json:"station_state,omitempty"`
	Occupant     string  `json:"occupant,omitempty"`
	WorkRequired float64 `json:"work_required,omitempty"`
	WorkDone     float64 `json:"work_done,omitempty"`

	// Outstanding player-command pin, if any. Eviction picks the oldest
	// commanded station, so the tick must survive a resume.
	HasCommand  bool   `json:"has_command,omitempty"`
	CommandTick uint64 `json:"command_tick,omitempty"`

	Queue []QueueEntryV1 `json:"queue,omitempty"`

	FarmState   int    `json:"farm_state,omitempty"`
	CropID      string `json:"crop_id,omitempty"`
	PendingCrop string `json:"pending_crop,omitempty"`
	GrowthTicks float64 `json:"growth_ticks,omitempty"`
}

type QueueEntryV1 struct {
	RecipeID   string `json:"recipe_id"`
	Processing bool   `json:"processing,omitempty"`
	Paid       bool   `json:"paid,omitempty"`
}

type WorkerV1 struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Cell      [2]int `json:"cell"`
	Auto      bool   `json:"auto,omitempty"`
	StationID string `json:"station_id,omitempty"`
}

type DropV1 struct {
	DropID         string `json:"drop_id"`
	Cell           [2]int `json:"cell"`
	Item           string `json:"item"`
	Count          int    `json:"count"`
	OwnerID        string `json:"owner_id,omitempty"`
	Public         bool   `json:"public,omitempty"`
	OwnershipTicks int    `json:"ownership_ticks,omitempty"`
	CreatedTick    uint64 `json:"created_tick"`
	ExpiresTick    uint64 `json:"expires_tick"`
}

func WriteSnapshot(path string, snap SnapshotV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	defer enc.Close()

	bw := bufio.NewWriterSize(enc, 256*1024)
	defer bw.Flush()

	// Plaintext JSON header line first so tooling can identify snapshots
	// without decoding the gob body.
	hb, _ := json.Marshal(snap.Header)
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}

	if err := gob.NewEncoder(bw).Encode(&snap); err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}
	return nil
}

func ReadSnapshot(path string) (SnapshotV1, error) {
	var snap SnapshotV1
	f, err := os.Open(path)
	if err != nil {
		return snap, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)

	// Skip the header line; the gob body carries the header too.
	_, _ = br.ReadBytes('\n')

	if err := gob.NewDecoder(br).Decode(&snap); err != nil {
		return snap, fmt.Errorf("gob decode: %w", err)
	}
	return snap, nil
}
