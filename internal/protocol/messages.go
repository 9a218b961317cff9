package protocol

// Roles a connection can take after HELLO.
const (
	RoleWorker   = "WORKER"
	RoleObserver = "OBSERVER"
)

// HELLO (client -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Name            string `json:"name"`
	Role            string `json:"role,omitempty"` // defaults to WORKER
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string         `json:"type"`
	ProtocolVersion string         `json:"protocol_version"`
	WorkerID        string         `json:"worker_id,omitempty"`
	WorldParams     WorldParams    `json:"world_params"`
	Catalogs        CatalogDigests `json:"catalogs"`
}

type WorldParams struct {
	TickRateHz     int   `json:"tick_rate_hz"`
	GridWidth      int   `json:"grid_width"`
	GridHeight     int   `json:"grid_height"`
	Seed           int64 `json:"seed"`
	OwnershipTicks int   `json:"ownership_ticks"`
	DropTTLTicks   int   `json:"drop_ttl_ticks"`
}

type CatalogDigests struct {
	ResourcesDigest string `json:"resources_digest"`
	RecipesDigest   string `json:"recipes_digest"`
	CropsDigest     string `json:"crops_digest"`
	BuildingsDigest string `json:"buildings_digest"`
}

// CATALOG (server -> client): one catalog sent whole after WELCOME.
type CatalogMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	Name            string      `json:"name"`   // "resources","recipes","crops","buildings"
	Digest          string      `json:"digest"` // sha256 hex
	Data            interface{} `json:"data"`
}
