package protocol_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"colonyforge.ai/internal/protocol"
)

func TestSchemas_ValidateSamples(t *testing.T) {
	compile := func(name string) *jsonschema.Schema {
		t.Helper()
		p := filepath.Join("..", "..", "schemas", name)
		s, err := jsonschema.Compile(p)
		if err != nil {
			t.Fatalf("compile %s: %v", name, err)
		}
		return s
	}

	validate := func(s *jsonschema.Schema, v any) {
		t.Helper()
		if err := s.Validate(v); err != nil {
			t.Fatalf("validate: %v", err)
		}
	}

	helloSchema := compile("hello.schema.json")
	welcomeSchema := compile("welcome.schema.json")
	actSchema := compile("act.schema.json")
	obsSchema := compile("obs.schema.json")

	var hello any
	_ = json.Unmarshal([]byte(`{
	  "type":"HELLO",
	  "protocol_version":"0.4",
	  "name":"hauler-1",
	  "role":"WORKER"
	}`), &hello)
	validate(helloSchema, hello)

	var welcome any
	_ = json.Unmarshal([]byte(`{
	  "type":"WELCOME",
	  "protocol_version":"0.4",
	  "worker_id":"W1",
	  "world_params":{
	    "tick_rate_hz":5,
	    "grid_width":64,
	    "grid_height":64,
	    "seed":1337,
	    "ownership_ticks":150,
	    "drop_ttl_ticks":6000
	  },
	  "catalogs":{
	    "resources_digest":"deadbeef",
	    "recipes_digest":"deadbeef",
	    "crops_digest":"deadbeef",
	    "buildings_digest":"deadbeef"
	  }
	}`), &welcome)
	validate(welcomeSchema, welcome)

	var act any
	_ = json.Unmarshal([]byte(`{
	  "type":"ACT",
	  "protocol_version":"0.4",
	  "tick":12,
	  "worker_id":"W1",
	  "commands":[
	    {"id":"c1","type":"QUEUE_ADD","building_id":"B3","recipe_id":"plank"},
	    {"id":"c2","type":"ASSIGN","building_id":"B3"},
	    {"id":"c3","type":"PLAYER_ASSIGN","worker_id":"W2","task_kind":"CRAFT"}
	  ]
	}`), &act)
	validate(actSchema, act)

	// An OBS built from the typed structs must satisfy its own schema.
	obs := protocol.ObsMsg{
		Type:            protocol.TypeObs,
		ProtocolVersion: protocol.Version,
		Tick:            12,
		WorkerID:        "W1",
		Self:            &protocol.SelfObs{Cell: [2]int{3, 4}, WorkRate: 1},
		Ledger:          []protocol.ItemStack{{Item: "WOOD", Count: 7}},
		Stations:        []protocol.StationObs{},
		Crops:           []protocol.CropObs{},
		Drops:           []protocol.DropObs{},
		Events:          []protocol.Event{{"t": 12, "type": "WORK_COMPLETED"}},
	}
	raw, err := json.Marshal(obs)
	if err != nil {
		t.Fatalf("marshal obs: %v", err)
	}
	var v any
	_ = json.Unmarshal(raw, &v)
	validate(obsSchema, v)
}
