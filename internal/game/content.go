package game

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// TileSpec describes one tile in a board data file. Back is optional: a
// merge tile may order its backward edges explicitly; when omitted they
// are derived from the forward edges.
type TileSpec struct {
	Index int    `yaml:"index"`
	Event string `yaml:"event"`
	Next  []int  `yaml:"next"`
	Back  []int  `yaml:"back,omitempty"`
}

// BoardLayout is the board graph as loaded from data
type BoardLayout struct {
	Tiles []TileSpec `yaml:"tiles"`
}

// NPCSpec describes one scripted opponent in a data file
type NPCSpec struct {
	ID             string  `yaml:"id"`
	Name           string  `yaml:"name"`
	Health         int     `yaml:"health"`
	GoldDrop       int     `yaml:"gold_drop"`
	ItemDropChance float64 `yaml:"item_drop_chance"`
	Boss           bool    `yaml:"boss"`
}

// NPCData is the npcs data file layout
type NPCData struct {
	NPCs []NPCSpec `yaml:"npcs"`
}

// ContentLoader loads board and NPC definitions from data files, falling
// back to the compiled-in defaults when a file is absent.
type ContentLoader struct {
	basePath string
}

// NewContentLoader creates a content loader rooted at basePath
func NewContentLoader(basePath string) *ContentLoader {
	return &ContentLoader{basePath: basePath}
}

// LoadBoardLayout loads board.yaml, or the default layout if missing
func (cl *ContentLoader) LoadBoardLayout() (*BoardLayout, error) {
	path := filepath.Join(cl.basePath, "board.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultBoardLayout(), nil
		}
		return nil, fmt.Errorf("failed to read board file: %w", err)
	}

	var layout BoardLayout
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return nil, fmt.Errorf("failed to parse board data: %w", err)
	}
	return &layout, nil
}

// LoadNPCs loads npcs.yaml, or the default roster if missing
func (cl *ContentLoader) LoadNPCs() ([]NPCSpec, error) {
	path := filepath.Join(cl.basePath, "npcs.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultNPCs(), nil
		}
		return nil, fmt.Errorf("failed to read npcs file: %w", err)
	}

	var npcData NPCData
	if err := yaml.Unmarshal(data, &npcData); err != nil {
		return nil, fmt.Errorf("failed to parse npcs data: %w", err)
	}
	return npcData.NPCs, nil
}

// defaultTiles encodes the trail: a branching road from the starting tile
// to the boss. Forks carry decision events; everything else is the usual
// frontier fare.
var defaultTiles = []struct {
	event string
	next  []int
	back  []int
}{
	{"nothing", []int{1}, nil},
	{"safe", []int{2}, nil},
	{"chest", []int{3}, nil},
	{"mine", []int{4}, nil},
	{"battle_buff", []int{5}, nil},
	{"decision", []int{6, 9}, nil},
	{"slots", []int{7}, nil},
	{"ambush", []int{8}, nil},
	{"safe", []int{12}, nil},
	{"mine", []int{10}, nil},
	{"shop", []int{11}, nil},
	{"safe", []int{12}, nil},
	// Merge tiles order their back edges mainline-first, so knockback
	// retreats along the longer road rather than into a branch interior.
	{"nothing", []int{13}, []int{11, 8}},
	{"chest", []int{14}, nil},
	{"slots", []int{15}, nil},
	{"ambush", []int{16}, nil},
	{"mine", []int{17}, nil},
	{"battle_buff", []int{18}, nil},
	{"safe", []int{19}, nil},
	{"shop", []int{20}, nil},
	{"decision", []int{21, 25}, nil},
	{"mine", []int{22}, nil},
	{"ambush", []int{23}, nil},
	{"chest", []int{24}, nil},
	{"safe", []int{29}, nil},
	{"slots", []int{26}, nil},
	{"battle_buff", []int{27}, nil},
	{"mine", []int{28}, nil},
	{"chest", []int{29}, nil},
	{"nothing", []int{30}, []int{28, 24}},
	{"safe", []int{31}, nil},
	{"coffin_trap", []int{32}, nil},
	{"mine", []int{33}, nil},
	{"slots", []int{34}, nil},
	{"shop", []int{35}, nil},
	{"ambush", []int{36}, nil},
	{"chest", []int{37}, nil},
	{"battle_buff", []int{38}, nil},
	{"safe", []int{39}, nil},
	{"mine", []int{40}, nil},
	{"decision", []int{41, 44}, nil},
	{"ambush", []int{42}, nil},
	{"slots", []int{43}, nil},
	{"chest", []int{46}, nil},
	{"safe", []int{45}, nil},
	{"mine", []int{46}, nil},
	{"battle_buff", []int{47}, []int{45, 43}},
	{"boss", nil, nil},
}

// DefaultBoardLayout returns the compiled-in board
func DefaultBoardLayout() *BoardLayout {
	layout := &BoardLayout{Tiles: make([]TileSpec, len(defaultTiles))}
	for i, t := range defaultTiles {
		layout.Tiles[i] = TileSpec{Index: i, Event: t.event, Next: t.next, Back: t.back}
	}
	return layout
}

// DefaultNPCs returns the compiled-in opponent roster
func DefaultNPCs() []NPCSpec {
	return []NPCSpec{
		{
			ID:             "wim",
			Name:           "Wim (Ambusher)",
			Health:         10,
			GoldDrop:       3,
			ItemDropChance: 0.005,
		},
		{
			ID:     "spindle",
			Name:   "Spindle, the Bandit King",
			Health: 12,
			Boss:   true,
		},
	}
}
