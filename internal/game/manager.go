package game

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/user/frontier-trail/config"
	"github.com/user/frontier-trail/internal/interfaces"
	"github.com/user/frontier-trail/internal/types"
)

// ErrSessionNotFound is returned for operations on unknown session ids
var ErrSessionNotFound = errors.New("session not found")

// GameManager owns every live session and is the single entry point for
// game operations. It guards the session registry with its own lock; each
// session serializes its own mutations.
type GameManager struct {
	sessions map[string]*Session
	mu       sync.RWMutex

	storage  *SessionStorage
	config   config.Config
	logger   *zap.Logger
	roller   Roller
	notifier interfaces.Notifier

	layout *BoardLayout
	npcs   []NPCSpec
}

// NewGameManager loads content and persisted sessions and returns a ready
// manager. It starts with a no-op logger; call SetLogger to attach one.
func NewGameManager(cfg config.Config) (*GameManager, error) {
	loader := NewContentLoader(cfg.Board.DataDir)
	layout, err := loader.LoadBoardLayout()
	if err != nil {
		return nil, fmt.Errorf("failed to load board layout: %w", err)
	}
	npcs, err := loader.LoadNPCs()
	if err != nil {
		return nil, fmt.Errorf("failed to load npcs: %w", err)
	}

	gm := &GameManager{
		sessions: make(map[string]*Session),
		storage:  NewSessionStorage(cfg.Board.SavePath),
		config:   cfg,
		logger:   zap.NewNop(),
		roller:   NewDiceRoller(),
		layout:   layout,
		npcs:     npcs,
	}

	saves, err := gm.storage.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load saved sessions: %w", err)
	}
	for id, save := range saves {
		s, err := gm.restoreSession(save)
		if err != nil {
			gm.logger.Warn("skipping unrestorable session", zap.String("session_id", id), zap.Error(err))
			continue
		}
		gm.sessions[id] = s
	}

	return gm, nil
}

// SetLogger sets the logger for the manager and all live sessions
func (gm *GameManager) SetLogger(logger *zap.Logger) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	gm.logger = logger
	for _, s := range gm.sessions {
		s.Lock()
		s.logger = logger
		s.Unlock()
	}
}

// SetNotifier sets the push notifier for the manager and all live sessions
func (gm *GameManager) SetNotifier(n interfaces.Notifier) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	gm.notifier = n
	for _, s := range gm.sessions {
		s.Lock()
		s.notifier = n
		s.Unlock()
	}
}

// SetRoller replaces the dice source, used by tests to script rolls
func (gm *GameManager) SetRoller(r Roller) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	gm.roller = r
	for _, s := range gm.sessions {
		s.Lock()
		s.roller = r
		s.Unlock()
	}
}

// StartSession creates a session with the given number of players
func (gm *GameManager) StartSession(playerCount int) (*types.Snapshot, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	s, err := NewSession(gm.config, gm.layout, gm.npcs, playerCount, gm.roller, gm.logger, gm.notifier)
	if err != nil {
		return nil, err
	}
	gm.sessions[s.ID] = s

	gm.logger.Info("session started",
		zap.String("session_id", s.ID),
		zap.Int("players", playerCount))

	s.Lock()
	defer s.Unlock()
	return s.Snapshot(), nil
}

func (gm *GameManager) session(sessionID string) (*Session, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	s, ok := gm.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// AdvanceTurnByRoll rolls for the current player and resolves their move
func (gm *GameManager) AdvanceTurnByRoll(sessionID, actorID string) (*types.MoveOutcome, error) {
	s, err := gm.session(sessionID)
	if err != nil {
		return nil, err
	}
	s.Lock()
	defer s.Unlock()
	return s.AdvanceTurnByRoll(actorID)
}

// SubmitDecision resolves a path choice for a suspended move
func (gm *GameManager) SubmitDecision(sessionID, actorID string, chosenTile, stepsRemaining int) (*types.MoveOutcome, error) {
	s, err := gm.session(sessionID)
	if err != nil {
		return nil, err
	}
	s.Lock()
	defer s.Unlock()
	return s.SubmitDecision(actorID, chosenTile, stepsRemaining)
}

// SubmitBattleAction applies a fighter's pending battle action
func (gm *GameManager) SubmitBattleAction(sessionID, actorID, action string) (*types.BattleView, error) {
	s, err := gm.session(sessionID)
	if err != nil {
		return nil, err
	}
	s.Lock()
	defer s.Unlock()
	return s.SubmitBattleAction(actorID, action)
}

// UseItem consumes and applies an inventory item
func (gm *GameManager) UseItem(sessionID, actorID string, itemID int, targetID string, value int) error {
	s, err := gm.session(sessionID)
	if err != nil {
		return err
	}
	s.Lock()
	defer s.Unlock()
	return s.UseItem(actorID, itemID, targetID, value)
}

// ObtainItem grants an item directly, subject to inventory capacity
func (gm *GameManager) ObtainItem(sessionID, actorID string, itemID int) error {
	s, err := gm.session(sessionID)
	if err != nil {
		return err
	}
	s.Lock()
	defer s.Unlock()
	return s.ObtainItem(actorID, itemID)
}

// BuyShopItem purchases from the player's open shop offer
func (gm *GameManager) BuyShopItem(sessionID, actorID string, itemID int) error {
	s, err := gm.session(sessionID)
	if err != nil {
		return err
	}
	s.Lock()
	defer s.Unlock()
	return s.BuyShopItem(actorID, itemID)
}

// Snapshot returns the full serializable view of a session
func (gm *GameManager) Snapshot(sessionID string) (*types.Snapshot, error) {
	s, err := gm.session(sessionID)
	if err != nil {
		return nil, err
	}
	s.Lock()
	defer s.Unlock()
	return s.Snapshot(), nil
}

// SaveAll persists every live session to storage
func (gm *GameManager) SaveAll() error {
	gm.mu.RLock()
	saves := make(map[string]*types.SessionSave, len(gm.sessions))
	for id, s := range gm.sessions {
		s.Lock()
		saves[id] = s.Save()
		s.Unlock()
	}
	gm.mu.RUnlock()

	return gm.storage.Save(saves)
}

// restoreSession rebuilds a session from its persisted save. Runtime tile
// state (sprung traps, placed traps) comes from the save; everything else
// comes from the loaded layout.
func (gm *GameManager) restoreSession(save *types.SessionSave) (*Session, error) {
	board, err := NewBoard(gm.layout)
	if err != nil {
		return nil, err
	}
	for _, ts := range save.Tiles {
		if t := board.Tile(ts.Index); t != nil {
			t.Event = EventKindFromName(ts.Event)
		}
	}

	s := &Session{
		ID:         save.SessionID,
		Board:      board,
		TurnOrder:  append([]string(nil), save.TurnOrder...),
		Winner:     save.Winner,
		turnIdx:    save.TurnIndex,
		shopOffers: make(map[string][]int),
		npcSpecs:   make(map[string]NPCSpec),
		roller:     gm.roller,
		logger:     gm.logger,
		notifier:   gm.notifier,
		cfg:        gm.config,
	}
	for _, spec := range gm.npcs {
		s.npcSpecs[spec.ID] = spec
	}

	for _, ps := range save.Players {
		p := NewPlayer(ps.ID, ps.Name, ps.MaxHealth, ps.Gold, gm.config.Game.InventoryCapacity)
		p.Character = ps.Character
		p.Status.SetHealth(ps.Health)
		for _, e := range ps.Effects {
			p.Status.AddEffect(e.Name, e.Duration)
		}
		for _, itemID := range ps.Items {
			if _, err := p.Inventory.Obtain(itemID); err != nil {
				return nil, fmt.Errorf("player %s holds invalid item %d: %w", ps.ID, itemID, err)
			}
		}
		pos := ps.Position
		if pos < 0 {
			pos = 0
		}
		if err := board.PlaceActor(pos, p.ID); err != nil {
			return nil, err
		}
		s.Players = append(s.Players, p)
	}

	if len(s.TurnOrder) > 0 && s.turnIdx >= len(s.TurnOrder) {
		s.turnIdx = 0
	}
	return s, nil
}

var _ interfaces.SessionManager = (*GameManager)(nil)
