package protocol

type ObsMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Tick            uint64 `json:"tick"`
	WorkerID        string `json:"worker_id,omitempty"`

	Self     *SelfObs     `json:"self,omitempty"`
	Ledger   []ItemStack  `json:"ledger"`
	Stations []StationObs `json:"stations"`
	Crops    []CropObs    `json:"crops"`
	Drops    []DropObs    `json:"drops"`
	Workers  []WorkerObs  `json:"workers,omitempty"`
	Events   []Event      `json:"events"`
}

type SelfObs struct {
	Cell       [2]int  `json:"cell"`
	Auto       bool    `json:"auto"`
	StationID  string  `json:"station_id,omitempty"`
	WorkRate   float64 `json:"work_rate"`
	CarryItem  string  `json:"carry_item,omitempty"`
	CarryCount int     `json:"carry_count,omitempty"`
}

type WorkerObs struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Cell      [2]int `json:"cell"`
	StationID string `json:"station_id,omitempty"`
}

type ItemStack struct {
	Item  string `json:"item"`
	Count int    `json:"count"`
}

type StationObs struct {
	BuildingID string  `json:"building_id"`
	DefID      string  `json:"def_id"`
	TaskKind   string  `json:"task_kind"`
	Cell       [2]int  `json:"cell"`
	Occupied   bool    `json:"occupied"`
	OccupantID string  `json:"occupant_id,omitempty"`
	Working    bool    `json:"working"`
	Progress   float64 `json:"progress"`
	CanStart   bool    `json:"can_start"`

	Queue []QueueEntryObs `json:"queue,omitempty"`

	AutoItem     string `json:"auto_item,omitempty"`
	AutoInterval int    `json:"auto_interval_ticks,omitempty"`
}

type QueueEntryObs struct {
	RecipeID   string  `json:"recipe_id"`
	Progress   float64 `json:"progress"`
	Processing bool    `json:"processing"`
	Paid       bool    `json:"paid"`
}

type CropObs struct {
	BuildingID string  `json:"building_id"`
	Cell       [2]int  `json:"cell"`
	State      string  `json:"state"` // "EMPTY","WAITING_PLANT","GROWING","READY"
	Crop       string  `json:"crop,omitempty"`
	Growth     float64 `json:"growth"`
}

type DropObs struct {
	DropID  string `json:"drop_id"`
	Cell    [2]int `json:"cell"`
	Item    string `json:"item"`
	Count   int    `json:"count"`
	Public  bool   `json:"public"`
	OwnerID string `json:"owner_id,omitempty"`
}

type Event map[string]interface{}

// ACT (client -> server): a batch of commands applied at the next tick
// boundary, in order.
type ActMsg struct {
	Type            string       `json:"type"`
	ProtocolVersion string       `json:"protocol_version"`
	Tick            uint64       `json:"tick"`
	WorkerID        string       `json:"worker_id,omitempty"`
	Commands        []CommandReq `json:"commands,omitempty"`
}

// Command types.
const (
	CmdPlace        = "PLACE"
	CmdDemolish     = "DEMOLISH"
	CmdQueueAdd     = "QUEUE_ADD"
	CmdQueueRemove  = "QUEUE_REMOVE"
	CmdPlant        = "PLANT"
	CmdAssign       = "ASSIGN"
	CmdRelease      = "RELEASE"
	CmdCancelWork   = "CANCEL_WORK"
	CmdPickup       = "PICKUP"
	CmdGiveUpDrop   = "GIVE_UP_DROP"
	CmdSetAuto      = "SET_AUTO"
	CmdPlayerAssign = "PLAYER_ASSIGN"
)

type CommandReq struct {
	ID   string `json:"id"`
	Type string `json:"type"`

	BuildingID string `json:"building_id,omitempty"`
	DefID      string `json:"def_id,omitempty"`
	Cell       [2]int `json:"cell,omitempty"`

	RecipeID string `json:"recipe_id,omitempty"`
	Index    int    `json:"index,omitempty"`
	CropID   string `json:"crop_id,omitempty"`
	TaskKind string `json:"task_kind,omitempty"`

	WorkerID string `json:"worker_id,omitempty"` // PLAYER_ASSIGN target
	DropID   string `json:"drop_id,omitempty"`
	Enabled  *bool  `json:"enabled,omitempty"` // SET_AUTO
}
