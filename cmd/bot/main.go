package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"

	"github.com/gorilla/websocket"

	"colonyforge.ai/internal/protocol"
)

// A small scripted worker: keeps station queues topped up and collects
// whatever drops it is allowed to take.
type bot struct {
	conn     *websocket.Conn
	logger   *log.Logger
	workerID string

	// recipe id -> station task kind, learned from the CATALOG stream.
	recipes map[string]string
}

func main() {
	var (
		url  = flag.String("url", "ws://localhost:8080/v1/ws", "ws url")
		name = flag.String("name", "bot", "worker name")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[bot] ", log.LstdFlags|log.Lmicroseconds)
	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		logger.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	hello := protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		Name:            *name,
		Role:            protocol.RoleWorker,
	}
	if err := conn.WriteJSON(hello); err != nil {
		logger.Fatalf("send HELLO: %v", err)
	}

	b := &bot{conn: conn, logger: logger, recipes: map[string]string{}}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	for {
		select {
		case <-stop:
			return
		default:
		}

		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil {
			continue
		}
		switch base.Type {
		case protocol.TypeWelcome:
			var w protocol.WelcomeMsg
			if err := json.Unmarshal(msg, &w); err != nil {
				continue
			}
			b.workerID = w.WorkerID
			logger.Printf("WELCOME worker_id=%s tick_rate=%d seed=%d", w.WorkerID, w.WorldParams.TickRateHz, w.WorldParams.Seed)

		case protocol.TypeCatalog:
			var c struct {
				Name string          `json:"name"`
				Data json.RawMessage `json:"data"`
			}
			if err := json.Unmarshal(msg, &c); err != nil || c.Name != "recipes" {
				continue
			}
			var defs map[string]struct {
				Station string `json:"station"`
			}
			if err := json.Unmarshal(c.Data, &defs); err != nil {
				continue
			}
			for id, d := range defs {
				b.recipes[id] = d.Station
			}

		case protocol.TypeObs:
			var obs protocol.ObsMsg
			if err := json.Unmarshal(msg, &obs); err != nil {
				continue
			}
			b.handleObs(&obs)
		}
	}
}

func (b *bot) handleObs(obs *protocol.ObsMsg) {
	var cmds []protocol.CommandReq

	// Top up short queues every ~20 seconds.
	if obs.Tick%100 == 0 {
		for _, st := range obs.Stations {
			if len(st.Queue) >= 2 || st.AutoItem != "" {
				continue
			}
			if rid := b.recipeFor(st.TaskKind); rid != "" {
				cmds = append(cmds, protocol.CommandReq{
					ID:         fmt.Sprintf("c_q_%d_%s", obs.Tick, st.BuildingID),
					Type:       protocol.CmdQueueAdd,
					BuildingID: st.BuildingID,
					RecipeID:   rid,
				})
			}
		}
	}

	// Collect whatever we are allowed to take.
	if obs.Tick%50 == 25 {
		for _, d := range obs.Drops {
			if !d.Public && d.OwnerID != b.workerID {
				continue
			}
			cmds = append(cmds, protocol.CommandReq{
				ID:     fmt.Sprintf("c_p_%d_%s", obs.Tick, d.DropID),
				Type:   protocol.CmdPickup,
				DropID: d.DropID,
			})
		}
	}

	if len(cmds) == 0 {
		return
	}
	act := protocol.ActMsg{
		Type:            protocol.TypeAct,
		ProtocolVersion: protocol.Version,
		Tick:            obs.Tick,
		WorkerID:        b.workerID,
		Commands:        cmds,
	}
	_ = b.conn.WriteJSON(act)
}

func (b *bot) recipeFor(taskKind string) string {
	ids := make([]string, 0, len(b.recipes))
	for id, station := range b.recipes {
		if station == taskKind {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return ""
	}
	sort.Strings(ids)
	return ids[0]
}
