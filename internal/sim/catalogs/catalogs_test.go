package catalogs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

func TestLoad_Configs(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "..", "configs"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(c.Resources.Defs) == 0 || len(c.Recipes.ByID) == 0 || len(c.Crops.ByID) == 0 || len(c.Buildings.ByID) == 0 {
		t.Fatalf("expected all catalogs populated: %+v", c)
	}

	plank := c.Recipes.ByID["plank"]
	if plank.RecipeID != "plank" || plank.WorkTicks != 5 {
		t.Fatalf("plank recipe: %+v", plank)
	}
	if len(plank.Inputs) != 1 || plank.Inputs[0].Item != "WOOD" || plank.Inputs[0].Count != 3 {
		t.Fatalf("plank inputs: %+v", plank.Inputs)
	}

	mine := c.Buildings.ByID["MINE_SHAFT"]
	if !mine.AutoProducer() || mine.AutoIntervalTicks != 10 {
		t.Fatalf("mine def: %+v", mine)
	}
	farm := c.Buildings.ByID["FARM_PLOT"]
	if !farm.Farmland || !farm.Workstation {
		t.Fatalf("farm def: %+v", farm)
	}

	for _, d := range []string{c.Resources.Digest, c.Recipes.Digest, c.Crops.Digest, c.Buildings.Digest} {
		if len(d) != 64 {
			t.Fatalf("expected sha256 hex digest, got %q", d)
		}
	}
}

func TestLoad_SchemasValidate(t *testing.T) {
	dir := filepath.Join("..", "..", "..", "configs")
	for _, name := range []string{"resources", "recipes", "crops", "buildings"} {
		s, err := jsonschema.Compile(filepath.Join(dir, "schemas", name+".schema.json"))
		if err != nil {
			t.Fatalf("compile %s schema: %v", name, err)
		}
		raw, err := os.ReadFile(filepath.Join(dir, name+".json"))
		if err != nil {
			t.Fatalf("read %s.json: %v", name, err)
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			t.Fatalf("unmarshal %s.json: %v", name, err)
		}
		if err := s.Validate(v); err != nil {
			t.Fatalf("%s.json does not satisfy its schema: %v", name, err)
		}
	}
}
