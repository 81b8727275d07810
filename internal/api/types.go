package api

// SystemActor marks history entries written by the game itself rather
// than by a player (turn changes, game-over announcements).
const SystemActor = "SYSTEM"

// PlayerStatus describes the local player as reported by the server.
type PlayerStatus struct {
	Location  string   `json:"location"`
	AP        int      `json:"ap"`
	MaxAP     int      `json:"max_ap"`
	State     string   `json:"state"` // "awake", "light_sleep", "deep_sleep"
	Inventory []string `json:"inventory"`
}

// HistoryEntry is a single line of the server's action log.
type HistoryEntry struct {
	Turn   int    `json:"turn"`
	Player string `json:"player"`
	Action string `json:"action"`
	Result string `json:"result"`
}

// IsSystem reports whether the entry is narration rather than a player action.
func (e HistoryEntry) IsSystem() bool {
	return e.Player == SystemActor
}

// Snapshot is a full description of the game as the server sees it.
// Each snapshot replaces the previous one wholesale; nothing in it is
// merged incrementally.
type Snapshot struct {
	Role         string         `json:"role"`
	TurnCount    int            `json:"turn_count"`
	CurrentTurn  string         `json:"current_turn"`
	IsYourTurn   bool           `json:"is_your_turn"`
	PlayerStatus PlayerStatus   `json:"player_status"`
	RoomView     string         `json:"room_view"`
	History      []HistoryEntry `json:"history"`
	GameOver     bool           `json:"game_over"`
	Winner       string         `json:"winner"`
}

// Action is a server-declared legal operation, with everything needed
// to display it and to submit it back unchanged.
type Action struct {
	Name   string `json:"name"`
	Label  string `json:"label"`
	APCost int    `json:"ap_cost"`
	Target string `json:"target,omitempty"`
	Extra  string `json:"extra,omitempty"`
}

// Catalog is the set of actions currently legal for the local player,
// partitioned by the server into actions that take no target and
// actions that carry a declared target.
type Catalog struct {
	NoTarget   []Action `json:"no_target"`
	WithTarget []Action `json:"with_target"`
}

// JoinResult is the server's answer to a successful join.
type JoinResult struct {
	Role       string
	AIOpponent bool
}
