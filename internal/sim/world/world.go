package world

import (
	"fmt"
	"math/rand"
	"sync/atomic"

	"colonyforge.ai/internal/persistence/snapshot"
	"colonyforge.ai/internal/protocol"
	"colonyforge.ai/internal/sim/catalogs"
	"colonyforge.ai/internal/sim/world/feature/economy/ledger"
	"colonyforge.ai/internal/sim/world/feature/registry"
	"colonyforge.ai/internal/sim/world/kernel/model"
)

type JoinRequest struct {
	Name string
	Role string
	Out  chan []byte
	Resp chan JoinResponse
}

type JoinResponse struct {
	Welcome  protocol.WelcomeMsg
	Catalogs []protocol.CatalogMsg
}

type ActionEnvelope struct {
	WorkerID string
	Act      protocol.ActMsg
}

type RecordedJoin struct {
	WorkerID string `json:"worker_id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type RecordedAction struct {
	WorkerID string          `json:"worker_id"`
	Act      protocol.ActMsg `json:"act"`
}

type TickLogEntry struct {
	Tick    uint64           `json:"tick"`
	Joins   []RecordedJoin   `json:"joins,omitempty"`
	Leaves  []string         `json:"leaves,omitempty"`
	Actions []RecordedAction `json:"actions,omitempty"`
	Digest  string           `json:"digest"`
}

type AuditEntry struct {
	Tick   uint64 `json:"tick"`
	Actor  string `json:"actor"`
	Action string `json:"action"` // e.g. "PLACE", "PICKUP"
	Target string `json:"target,omitempty"`
	Item   string `json:"item,omitempty"`
	Count  int    `json:"count,omitempty"`
	Reason string `json:"reason,omitempty"`
}

type TickLogger interface {
	WriteTick(entry TickLogEntry) error
}

type AuditLogger interface {
	WriteAudit(entry AuditEntry) error
}

type clientState struct {
	Out      chan []byte
	Observer bool
}

// World is a single-threaded authoritative colony simulation.
// All state must be accessed only from the world loop goroutine.
type World struct {
	cfg      WorldConfig
	catalogs *catalogs.Catalogs

	tick atomic.Uint64
	rng  *rand.Rand

	stock    *ledger.Ledger
	reg      *registry.Registry
	stations *registry.StationManager

	workers map[string]*model.Worker
	clients map[string]*clientState

	drops   map[string]*model.Drop
	dropsAt map[model.Cell][]string

	// Events visible to every connected client this tick.
	worldEvents []protocol.Event

	// Per-client command results for connections without a worker
	// (observers). Worker results ride on the worker's own event list.
	clientEvents map[string][]protocol.Event

	inbox chan ActionEnvelope
	join  chan JoinRequest
	leave chan string
	stop  chan struct{}

	nextWorkerNum   atomic.Uint64
	nextBuildingNum atomic.Uint64
	nextDropNum     atomic.Uint64

	tickLogger  TickLogger
	auditLogger AuditLogger

	// Optional snapshot sink (may be nil). Snapshot writing is off-thread.
	snapshotSink chan<- snapshot.SnapshotV1

	metrics atomic.Value // WorldMetrics
}

func New(cfg WorldConfig, cats *catalogs.Catalogs) (*World, error) {
	cfg = cfg.withDefaults()
	if cats == nil {
		return nil, fmt.Errorf("nil catalogs")
	}
	w := &World{
		cfg:      cfg,
		catalogs: cats,
		rng:      rand.New(rand.NewSource(cfg.Seed)),
		stock:    ledger.New(cfg.StarterStock),
		reg:      registry.New(),
		workers:      map[string]*model.Worker{},
		clients:      map[string]*clientState{},
		clientEvents: map[string][]protocol.Event{},
		drops:    map[string]*model.Drop{},
		dropsAt:  map[model.Cell][]string{},
		inbox:    make(chan ActionEnvelope, 1024),
		join:     make(chan JoinRequest, 64),
		leave:    make(chan string, 64),
		stop:     make(chan struct{}),
	}
	w.stations = registry.NewStationManager(w.reg)
	return w, nil
}

func (w *World) SetTickLogger(l TickLogger)                    { w.tickLogger = l }
func (w *World) SetAuditLogger(l AuditLogger)                  { w.auditLogger = l }
func (w *World) SetSnapshotSink(ch chan<- snapshot.SnapshotV1) { w.snapshotSink = ch }

func (w *World) Inbox() chan<- ActionEnvelope { return w.inbox }
func (w *World) Join() chan<- JoinRequest     { return w.join }
func (w *World) Leave() chan<- string         { return w.leave }

func (w *World) CurrentTick() uint64 { return w.tick.Load() }

func (w *World) ID() string {
	if w == nil {
		return ""
	}
	return w.cfg.ID
}

func (w *World) TickRateHz() int {
	if w == nil {
		return 0
	}
	return w.cfg.TickRateHz
}

func (w *World) newBuildingID() string {
	return fmt.Sprintf("B%04d", w.nextBuildingNum.Add(1))
}

func (w *World) newDropID() string {
	return fmt.Sprintf("D%06d", w.nextDropNum.Add(1))
}

func (w *World) inBounds(c model.Cell) bool {
	return c.X >= 0 && c.X < w.cfg.GridWidth && c.Y >= 0 && c.Y < w.cfg.GridHeight
}

// spawnCell places joining workers on a deterministic diagonal near the
// grid center so replays are stable.
func (w *World) spawnCell(n uint64) model.Cell {
	cx := w.cfg.GridWidth / 2
	cy := w.cfg.GridHeight / 2
	off := int(n) % 8
	c := model.Cell{X: cx + off, Y: cy - off}
	if !w.inBounds(c) {
		c = model.Cell{X: cx, Y: cy}
	}
	return c
}

func (w *World) joinWorker(name, role string, out chan []byte) JoinResponse {
	if name == "" {
		name = "worker"
	}
	observer := role == protocol.RoleObserver

	var workerID string
	if observer {
		n := w.nextWorkerNum.Add(1)
		workerID = fmt.Sprintf("O%d", n)
		if out != nil {
			w.clients[workerID] = &clientState{Out: out, Observer: true}
		}
	} else {
		n := w.nextWorkerNum.Add(1)
		workerID = fmt.Sprintf("W%d", n)
		wk := &model.Worker{
			ID:       workerID,
			Name:     name,
			Cell:     w.spawnCell(n),
			Auto:     true,
			WorkRate: w.cfg.WorkRate,
		}
		w.workers[workerID] = wk
		if out != nil {
			w.clients[workerID] = &clientState{Out: out}
		}
	}

	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		WorkerID:        workerID,
		WorldParams: protocol.WorldParams{
			TickRateHz:     w.cfg.TickRateHz,
			GridWidth:      w.cfg.GridWidth,
			GridHeight:     w.cfg.GridHeight,
			Seed:           w.cfg.Seed,
			OwnershipTicks: w.cfg.OwnershipTicks,
			DropTTLTicks:   w.cfg.DropTTLTicks,
		},
		Catalogs: protocol.CatalogDigests{
			ResourcesDigest: w.catalogs.Resources.Digest,
			RecipesDigest:   w.catalogs.Recipes.Digest,
			CropsDigest:     w.catalogs.Crops.Digest,
			BuildingsDigest: w.catalogs.Buildings.Digest,
		},
	}

	catalogMsgs := []protocol.CatalogMsg{
		{
			Type:            protocol.TypeCatalog,
			ProtocolVersion: protocol.Version,
			Name:            "resources",
			Digest:          w.catalogs.Resources.Digest,
			Data:            w.catalogs.Resources.Defs,
		},
		{
			Type:            protocol.TypeCatalog,
			ProtocolVersion: protocol.Version,
			Name:            "recipes",
			Digest:          w.catalogs.Recipes.Digest,
			Data:            w.catalogs.Recipes.ByID,
		},
		{
			Type:            protocol.TypeCatalog,
			ProtocolVersion: protocol.Version,
			Name:            "crops",
			Digest:          w.catalogs.Crops.Digest,
			Data:            w.catalogs.Crops.ByID,
		},
		{
			Type:            protocol.TypeCatalog,
			ProtocolVersion: protocol.Version,
			Name:            "buildings",
			Digest:          w.catalogs.Buildings.Digest,
			Data:            w.catalogs.Buildings.ByID,
		},
	}

	return JoinResponse{Welcome: welcome, Catalogs: catalogMsgs}
}

// handleLeave removes a worker from the world. Any held station is
// released first so a working station never ends up occupant-less.
func (w *World) handleLeave(id string, nowTick uint64) {
	delete(w.clients, id)
	delete(w.clientEvents, id)
	wk := w.workers[id]
	if wk == nil {
		return
	}
	if wk.StationID != "" {
		w.releaseWorkerFromStation(wk, nowTick)
	}
	delete(w.workers, id)
}

func (w *World) addWorldEvent(ev protocol.Event) {
	w.worldEvents = append(w.worldEvents, ev)
}

func (w *World) audit(e AuditEntry) {
	if w.auditLogger != nil {
		_ = w.auditLogger.WriteAudit(e)
	}
}

func sendLatest(ch chan []byte, b []byte) {
	select {
	case ch <- b:
		return
	default:
	}
	// Drop one.
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- b:
	default:
	}
}
