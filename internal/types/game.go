package types

// MoveOutcome reports the result of one turn's movement to the transport layer
type MoveOutcome struct {
	ActorID   string `json:"actor_id"`
	Roll      int    `json:"roll"`
	Stunned   bool   `json:"stunned"`
	FinalTile int    `json:"final_tile"`

	// Set when movement suspended at a fork awaiting a choice
	DecisionPending bool  `json:"decision_pending"`
	DecisionOptions []int `json:"decision_options,omitempty"`
	StepsRemaining  int   `json:"steps_remaining,omitempty"`

	// Set when the move triggered a battle
	BattleID string `json:"battle_id,omitempty"`

	// Set when a winner has been declared
	Winner string `json:"winner,omitempty"`
}

// EffectSnapshot is a serializable view of one status effect
type EffectSnapshot struct {
	Name     string `json:"name"`
	Duration int    `json:"duration"`
}

// PlayerSnapshot is a serializable view of one player
type PlayerSnapshot struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Character int              `json:"character"`
	Tile      int              `json:"tile"`
	Health    int              `json:"health"`
	MaxHealth int              `json:"max_health"`
	Gold      int              `json:"gold"`
	Alive     bool             `json:"alive"`
	Stunned   bool             `json:"stunned"`
	Effects   []EffectSnapshot `json:"effects"`
	Items     []int            `json:"items"`
}

// TileSnapshot is a serializable view of one board tile
type TileSnapshot struct {
	Index     int      `json:"index"`
	Event     string   `json:"event"`
	Front     []int    `json:"front"`
	Occupants []string `json:"occupants"`
}

// FighterView is one side of a battle as seen by clients
type FighterView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	NPC       bool   `json:"npc"`
	Health    int    `json:"health"`
	Shield    int    `json:"shield"`
	Defending bool   `json:"defending"`
}

// BattleView is a serializable view of an in-progress battle
type BattleView struct {
	ID       string         `json:"id"`
	State    string         `json:"state"`
	Awaiting string         `json:"awaiting,omitempty"`
	Fighters [2]FighterView `json:"fighters"`
	Winner   string         `json:"winner,omitempty"`
	Loser    string         `json:"loser,omitempty"`
}

// ShopOfferView is the current shop stock presented to a player
type ShopOfferView struct {
	ActorID string          `json:"actor_id"`
	Items   []ShopItemView  `json:"items"`
}

// ShopItemView is a single purchasable item
type ShopItemView struct {
	ItemID int    `json:"item_id"`
	Name   string `json:"name"`
	Price  int    `json:"price"`
}

// Snapshot is the full serializable view of one session for presentation
type Snapshot struct {
	SessionID string           `json:"session_id"`
	Turn      string           `json:"turn"`
	Winner    string           `json:"winner,omitempty"`
	Players   []PlayerSnapshot `json:"players"`
	Tiles     []TileSnapshot   `json:"tiles"`
	Battle    *BattleView      `json:"battle,omitempty"`
}

// EffectSave is one persisted status effect
type EffectSave struct {
	Name     string `json:"name"`
	Duration int    `json:"duration"`
}

// PlayerSave is the persisted state of one player
type PlayerSave struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Character int          `json:"character"`
	Position  int          `json:"position"`
	Gold      int          `json:"gold"`
	Health    int          `json:"health"`
	MaxHealth int          `json:"max_health"`
	Items     []int        `json:"items"`
	Effects   []EffectSave `json:"effects"`
}

// TileSave captures runtime-mutated tile state (occupants, sprung traps)
type TileSave struct {
	Index     int      `json:"index"`
	Event     string   `json:"event"`
	Occupants []string `json:"occupants"`
}

// SessionSave is the persisted layout of one session
type SessionSave struct {
	SessionID string       `json:"session_id"`
	TurnOrder []string     `json:"turn_order"`
	TurnIndex int          `json:"turn_index"`
	Winner    string       `json:"winner,omitempty"`
	Players   []PlayerSave `json:"players"`
	Tiles     []TileSave   `json:"tiles"`
}
