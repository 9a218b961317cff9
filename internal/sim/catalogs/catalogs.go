package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type Catalogs struct {
	Resources ResourceCatalog
	Recipes   RecipeCatalog
	Crops     CropCatalog
	Buildings BuildingCatalog
}

type ResourceCatalog struct {
	Defs   map[string]ResourceDef
	Digest string
}

type ResourceDef struct {
	ID   string `json:"id"`
	Kind string `json:"kind"` // "RAW","FOOD","CRAFTED","SEED"
}

type RecipeCatalog struct {
	ByID   map[string]RecipeDef
	Digest string
}

type RecipeDef struct {
	RecipeID  string       `json:"recipe_id"`
	Station   string       `json:"station"` // task kind of the station that crafts it
	Inputs    []ItemCount  `json:"inputs"`
	Outputs   []YieldRange `json:"outputs"`
	WorkTicks int          `json:"work_ticks"`
}

type ItemCount struct {
	Item  string `json:"item"`
	Count int    `json:"count"`
}

// YieldRange is an output whose count is rolled in [Min,Max] at completion.
type YieldRange struct {
	Item string `json:"item"`
	Min  int    `json:"min"`
	Max  int    `json:"max"`
}

type CropCatalog struct {
	ByID   map[string]CropDef
	Digest string
}

type CropDef struct {
	CropID           string `json:"crop_id"`
	Seed             string `json:"seed"`
	Yield            string `json:"yield"`
	GrowthTicks      int    `json:"growth_ticks"`
	PlantWorkTicks   int    `json:"plant_work_ticks"`
	HarvestWorkTicks int    `json:"harvest_work_ticks"`
	MinYield         int    `json:"min_yield"`
	MaxYield         int    `json:"max_yield"`
}

type BuildingCatalog struct {
	ByID   map[string]BuildingDef
	Digest string
}

type BuildingDef struct {
	ID       string      `json:"id"`
	TaskKind string      `json:"task_kind,omitempty"` // "CRAFT","COOK","MINE","FARM"
	Cost     []ItemCount `json:"cost,omitempty"`

	// Capability flags; at most one of Queue/Auto/Farmland per def.
	Workstation bool `json:"workstation,omitempty"`
	Queue       bool `json:"queue,omitempty"`
	Storage     bool `json:"storage,omitempty"`
	MainStorage bool `json:"main_storage,omitempty"`
	Farmland    bool `json:"farmland,omitempty"`

	QueueCap int `json:"queue_cap,omitempty"`

	AutoItem          string `json:"auto_item,omitempty"`
	AutoCount         int    `json:"auto_count,omitempty"`
	AutoIntervalTicks int    `json:"auto_interval_ticks,omitempty"`
}

func (d BuildingDef) AutoProducer() bool { return d.AutoItem != "" }

func Load(dir string) (*Catalogs, error) {
	var c Catalogs
	if err := loadResources(filepath.Join(dir, "resources.json"), &c.Resources); err != nil {
		return nil, err
	}
	if err := loadRecipes(filepath.Join(dir, "recipes.json"), &c.Recipes); err != nil {
		return nil, err
	}
	if err := loadCrops(filepath.Join(dir, "crops.json"), &c.Crops); err != nil {
		return nil, err
	}
	if err := loadBuildings(filepath.Join(dir, "buildings.json"), &c.Buildings); err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalogs) validate() error {
	for id, r := range c.Recipes.ByID {
		for _, in := range r.Inputs {
			if _, ok := c.Resources.Defs[in.Item]; !ok {
				return fmt.Errorf("recipe %s: unknown input %q", id, in.Item)
			}
		}
		for _, out := range r.Outputs {
			if _, ok := c.Resources.Defs[out.Item]; !ok {
				return fmt.Errorf("recipe %s: unknown output %q", id, out.Item)
			}
			if out.Min < 0 || out.Max < out.Min {
				return fmt.Errorf("recipe %s: bad yield range [%d,%d]", id, out.Min, out.Max)
			}
		}
		if r.WorkTicks <= 0 {
			return fmt.Errorf("recipe %s: work_ticks must be positive", id)
		}
	}
	for id, cr := range c.Crops.ByID {
		if _, ok := c.Resources.Defs[cr.Seed]; !ok {
			return fmt.Errorf("crop %s: unknown seed %q", id, cr.Seed)
		}
		if _, ok := c.Resources.Defs[cr.Yield]; !ok {
			return fmt.Errorf("crop %s: unknown yield %q", id, cr.Yield)
		}
		if cr.GrowthTicks <= 0 || cr.PlantWorkTicks <= 0 || cr.HarvestWorkTicks <= 0 {
			return fmt.Errorf("crop %s: tick durations must be positive", id)
		}
		if cr.MinYield < 0 || cr.MaxYield < cr.MinYield {
			return fmt.Errorf("crop %s: bad yield range [%d,%d]", id, cr.MinYield, cr.MaxYield)
		}
	}
	for id, b := range c.Buildings.ByID {
		if b.Queue && b.AutoProducer() {
			return fmt.Errorf("building %s: queue and auto-produce are exclusive", id)
		}
		if (b.Queue || b.AutoProducer() || b.Farmland) && !b.Workstation {
			return fmt.Errorf("building %s: work capability requires workstation", id)
		}
		if b.AutoItem != "" {
			if _, ok := c.Resources.Defs[b.AutoItem]; !ok {
				return fmt.Errorf("building %s: unknown auto item %q", id, b.AutoItem)
			}
			if b.AutoCount <= 0 || b.AutoIntervalTicks <= 0 {
				return fmt.Errorf("building %s: auto count/interval must be positive", id)
			}
		}
		for _, in := range b.Cost {
			if _, ok := c.Resources.Defs[in.Item]; !ok {
				return fmt.Errorf("building %s: unknown cost item %q", id, in.Item)
			}
		}
	}
	return nil
}

func loadResources(path string, out *ResourceCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)

	var defs []ResourceDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("resources.json: %w", err)
	}
	out.Defs = map[string]ResourceDef{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("resources.json: empty id")
		}
		out.Defs[d.ID] = d
	}
	return nil
}

func loadRecipes(path string, out *RecipeCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)

	var defs []RecipeDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("recipes.json: %w", err)
	}
	out.ByID = map[string]RecipeDef{}
	for _, r := range defs {
		if r.RecipeID == "" {
			return fmt.Errorf("recipes.json: empty recipe_id")
		}
		out.ByID[r.RecipeID] = r
	}
	return nil
}

func loadCrops(path string, out *CropCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)

	var defs []CropDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("crops.json: %w", err)
	}
	out.ByID = map[string]CropDef{}
	for _, d := range defs {
		if d.CropID == "" {
			return fmt.Errorf("crops.json: empty crop_id")
		}
		out.ByID[d.CropID] = d
	}
	return nil
}

func loadBuildings(path string, out *BuildingCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)

	var defs []BuildingDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("buildings.json: %w", err)
	}
	out.ByID = map[string]BuildingDef{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("buildings.json: empty id")
		}
		out.ByID[d.ID] = d
	}
	return nil
}

func sha256Hex(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}
