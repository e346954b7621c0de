package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Server ServerConfig `json:"server"`

	// Game configuration
	Game GameConfig `json:"game"`

	// Battle configuration
	Battle BattleConfig `json:"battle"`

	// Board configuration
	Board BoardConfig `json:"board"`
}

// ServerConfig holds server specific configuration
type ServerConfig struct {
	// Server port
	Port string `json:"port"`

	// Log level (debug, info, warn, error)
	LogLevel string `json:"log_level"`
}

// GameConfig holds game specific configuration
type GameConfig struct {
	// Maximum players per session
	MaxPlayers int `json:"max_players"`

	// Starting health for players
	StartingHealth int `json:"starting_health"`

	// Starting gold for players
	StartingGold int `json:"starting_gold"`

	// Inventory capacity per player
	InventoryCapacity int `json:"inventory_capacity"`

	// Number of sides on the movement die
	DieSides int `json:"die_sides"`

	// Gold granted by a safe tile
	SafeTileGold int `json:"safe_tile_gold"`

	// Number of items offered per shop visit
	ShopOfferSize int `json:"shop_offer_size"`

	// Stun duration applied by a sprung coffin trap
	CoffinStunTurns int `json:"coffin_stun_turns"`
}

// BattleConfig holds battle specific configuration
type BattleConfig struct {
	// Gold a PvP winner may steal from the loser
	PvPStealGold int `json:"pvp_steal_gold"`

	// Tiles a PvP loser is knocked back
	PvPKnockback int `json:"pvp_knockback"`

	// Consequence bundle for losing to a regular NPC
	NPCLossKnockback int `json:"npc_loss_knockback"`
	NPCLossGold      int `json:"npc_loss_gold"`
	NPCLossItems     int `json:"npc_loss_items"`

	// Tiles a player is knocked back after losing to the boss
	BossLossKnockback int `json:"boss_loss_knockback"`

	// NPC ids used for ambush and boss encounters
	AmbushNPC string `json:"ambush_npc"`
	BossNPC   string `json:"boss_npc"`
}

// BoardConfig holds board specific configuration
type BoardConfig struct {
	// Directory holding board and NPC data files
	DataDir string `json:"data_dir"`

	// Path for persisted session state
	SavePath string `json:"save_path"`

	// Seconds between automatic saves (0 disables autosave)
	AutosaveSeconds int `json:"autosave_seconds"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:     "8080",
			LogLevel: "info",
		},
		Game: GameConfig{
			MaxPlayers:        5,
			StartingHealth:    10,
			StartingGold:      10,
			InventoryCapacity: 3,
			DieSides:          6,
			SafeTileGold:      3,
			ShopOfferSize:     3,
			CoffinStunTurns:   2,
		},
		Battle: BattleConfig{
			PvPStealGold:      3,
			PvPKnockback:      2,
			NPCLossKnockback:  2,
			NPCLossGold:       3,
			NPCLossItems:      1,
			BossLossKnockback: 3,
			AmbushNPC:         "wim",
			BossNPC:           "spindle",
		},
		Board: BoardConfig{
			DataDir:         "./assets/data",
			SavePath:        "./data/sessions.json",
			AutosaveSeconds: 60,
		},
	}
}

// LoadConfig loads configuration from a file
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return config, err
	}

	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// Create default config file
		file, err := os.Create(path)
		if err != nil {
			return config, err
		}
		defer file.Close()

		encoder := json.NewEncoder(file)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(config); err != nil {
			return config, err
		}

		return config, nil
	}

	// Read config file
	file, err := os.Open(path)
	if err != nil {
		return config, err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return config, err
	}

	return config, nil
}

// SaveConfig saves configuration to a file
func SaveConfig(config Config, path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Create or truncate file
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	// Write config to file
	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(config); err != nil {
		return err
	}

	return nil
}
