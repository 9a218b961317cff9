package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"

	"colonyforge.ai/internal/persistence/snapshot"
	"colonyforge.ai/internal/sim/world"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "db":
			dbCmd(os.Args[2:])
			return
		case "state":
			stateCmd(os.Args[2:])
			return
		case "audit":
			auditCmd(os.Args[2:])
			return
		case "snapshot":
			snapshotCmd(os.Args[2:])
			return
		}
	}
	listCmd(os.Args[1:])
}

func listCmd(args []string) {
	fs := flag.NewFlagSet("admin", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	worldID := fs.String("world", "", "world id (optional)")
	_ = fs.Parse(args)

	base := filepath.Join(*dataDir, "worlds")
	if *worldID != "" {
		base = filepath.Join(base, *worldID)
	}

	entries, err := os.ReadDir(base)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read:", err)
		os.Exit(1)
	}
	for _, e := range entries {
		fmt.Println(e.Name())
	}
}

// auditCmd scans the zstd audit logs and prints matching entries as JSONL.
func auditCmd(args []string) {
	fs := flag.NewFlagSet("audit", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	worldID := fs.String("world", "", "world id (required)")
	actor := fs.String("actor", "", "actor filter (optional)")
	action := fs.String("action", "", "action filter, e.g. PICKUP (optional)")
	item := fs.String("item", "", "item filter (optional)")
	sinceTick := fs.Uint64("since_tick", 0, "entries at or after this tick")
	toTick := fs.Uint64("to_tick", 0, "entries at or before this tick (0 = no bound)")
	_ = fs.Parse(args)

	if strings.TrimSpace(*worldID) == "" {
		fmt.Fprintln(os.Stderr, "missing -world")
		os.Exit(2)
	}

	worldDir := filepath.Join(*dataDir, "worlds", *worldID)
	match := func(e world.AuditEntry) bool {
		if e.Tick < *sinceTick {
			return false
		}
		if *toTick != 0 && e.Tick > *toTick {
			return false
		}
		if *actor != "" && e.Actor != *actor {
			return false
		}
		if *action != "" && e.Action != *action {
			return false
		}
		if *item != "" && e.Item != *item {
			return false
		}
		return true
	}

	var printed int
	if err := scanAudit(worldDir, func(e world.AuditEntry) {
		if match(e) {
			printJSON(e)
			printed++
		}
	}); err != nil {
		fmt.Fprintln(os.Stderr, "read audit:", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "matched %d entries\n", printed)
}

func scanAudit(worldDir string, fn func(world.AuditEntry)) error {
	dir := filepath.Join(worldDir, "audit")
	ents, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, "audit-") && strings.HasSuffix(name, ".jsonl.zst") {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(dir, name)
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		dec, err := zstd.NewReader(f)
		if err != nil {
			_ = f.Close()
			return err
		}
		sc := bufio.NewScanner(dec)
		sc.Buffer(make([]byte, 64*1024), 8*1024*1024)
		for sc.Scan() {
			var e world.AuditEntry
			if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
				dec.Close()
				_ = f.Close()
				return fmt.Errorf("%s: unmarshal: %w", filepath.Base(path), err)
			}
			fn(e)
		}
		if err := sc.Err(); err != nil {
			dec.Close()
			_ = f.Close()
			return err
		}
		dec.Close()
		_ = f.Close()
	}
	return nil
}

// snapshotCmd prints a summary of a snapshot file (defaults to latest).
func snapshotCmd(args []string) {
	fs := flag.NewFlagSet("snapshot", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	worldID := fs.String("world", "", "world id (required unless -file)")
	file := fs.String("file", "", "snapshot path (optional; defaults to latest)")
	stocks := fs.Bool("stocks", false, "print the shared stockpile")
	buildings := fs.Bool("buildings", false, "print per-building state")
	_ = fs.Parse(args)

	path := strings.TrimSpace(*file)
	if path == "" {
		if strings.TrimSpace(*worldID) == "" {
			fmt.Fprintln(os.Stderr, "missing -world or -file")
			os.Exit(2)
		}
		path = latestSnapshot(filepath.Join(*dataDir, "worlds", *worldID))
		if path == "" {
			fmt.Fprintln(os.Stderr, "no snapshot found")
			os.Exit(2)
		}
	}

	snap, err := snapshot.ReadSnapshot(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read snapshot:", err)
		os.Exit(1)
	}

	fmt.Printf("snapshot v%d world=%s tick=%d seed=%d grid=%dx%d buildings=%d workers=%d drops=%d\n",
		snap.Header.Version, snap.Header.WorldID, snap.Header.Tick, snap.Seed,
		snap.GridWidth, snap.GridHeight,
		len(snap.Buildings), len(snap.Workers), len(snap.Drops))

	if *stocks {
		items := make([]string, 0, len(snap.Stocks))
		for item := range snap.Stocks {
			items = append(items, item)
		}
		sort.Strings(items)
		for _, item := range items {
			fmt.Printf("stock %s=%d\n", item, snap.Stocks[item])
		}
	}
	if *buildings {
		for _, b := range snap.Buildings {
			fmt.Printf("building %s def=%s cell=%v station=%d occupant=%s queue=%d farm=%d crop=%s\n",
				b.ID, b.DefID, b.Cell, b.StationState, b.Occupant, len(b.Queue), b.FarmState, b.CropID)
		}
	}
}

func latestSnapshot(worldDir string) string {
	dir := filepath.Join(worldDir, "snapshots")
	ents, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	var best string
	var bestTick uint64
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".snap.zst") {
			continue
		}
		base := strings.TrimSuffix(name, ".snap.zst")
		tick, err := strconv.ParseUint(base, 10, 64)
		if err != nil {
			continue
		}
		if best == "" || tick > bestTick {
			bestTick = tick
			best = filepath.Join(dir, name)
		}
	}
	return best
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
