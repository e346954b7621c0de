package game

import (
	"go.uber.org/zap"

	"github.com/user/frontier-trail/config"
)

// scriptRoller replays a fixed sequence of roll values so tests can steer
// movement, battles and random picks exactly. An exhausted script rolls 1.
type scriptRoller struct {
	rolls []int
	next  int
}

func newScriptRoller(rolls ...int) *scriptRoller {
	return &scriptRoller{rolls: rolls}
}

func (r *scriptRoller) Roll(sides int) int {
	if r.next >= len(r.rolls) {
		return 1
	}
	v := r.rolls[r.next]
	r.next++
	return v
}

// newTestSession builds a session on the default board with the given
// players already placed on the starting tile, bypassing turn-order rolls
// so the script only drives gameplay.
func newTestSession(r Roller, players ...*Player) *Session {
	board, err := NewBoard(DefaultBoardLayout())
	if err != nil {
		panic(err)
	}

	cfg := config.DefaultConfig()
	s := &Session{
		ID:         "test-session",
		Board:      board,
		shopOffers: make(map[string][]int),
		npcSpecs:   make(map[string]NPCSpec),
		roller:     r,
		logger:     zap.NewNop(),
		cfg:        cfg,
	}
	for _, spec := range DefaultNPCs() {
		s.npcSpecs[spec.ID] = spec
	}
	for _, p := range players {
		s.Players = append(s.Players, p)
		s.TurnOrder = append(s.TurnOrder, p.ID)
		if err := board.PlaceActor(0, p.ID); err != nil {
			panic(err)
		}
	}
	return s
}

func newTestPlayer(id string) *Player {
	cfg := config.DefaultConfig()
	return NewPlayer(id, "Player "+id, cfg.Game.StartingHealth, cfg.Game.StartingGold, cfg.Game.InventoryCapacity)
}

// placeAt moves a player to a tile directly, skipping movement rules
func placeAt(s *Session, p *Player, tile int) {
	if cur := s.Board.FindActor(p.ID); cur >= 0 {
		s.Board.RemoveActor(cur, p.ID)
	}
	if err := s.Board.PlaceActor(tile, p.ID); err != nil {
		panic(err)
	}
}
