package game

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/user/frontier-trail/config"
	"github.com/user/frontier-trail/internal/interfaces"
	"github.com/user/frontier-trail/internal/types"
)

// Session errors with stable messages
var (
	ErrPlayerNotFound    = errors.New("player not found")
	ErrNotYourTurn       = errors.New("not this player's turn")
	ErrPlayerNotAlive    = errors.New("player is not alive")
	ErrBattleInProgress  = errors.New("battle in progress")
	ErrNoBattle          = errors.New("no battle in progress")
	ErrNoDecisionPending = errors.New("no decision pending")
	ErrGameOver          = errors.New("game already has a winner")
)

// Session is one authoritative game instance. All mutation runs under mu;
// sessions are independent of each other.
type Session struct {
	ID        string
	Players   []*Player
	Board     *Board
	TurnOrder []string
	Winner    string

	turnIdx  int
	turnOpen bool

	// The single battle a session can host at a time
	Battle *Battle

	// Per-player shop stock, valid until the player's next roll
	shopOffers map[string][]int

	npcSpecs map[string]NPCSpec
	roller   Roller
	logger   *zap.Logger
	notifier interfaces.Notifier
	cfg      config.Config

	mu sync.Mutex
}

// NewSession creates a session with the given roster size, placing every
// player on the starting tile and rolling for turn order.
func NewSession(cfg config.Config, layout *BoardLayout, npcs []NPCSpec, playerCount int, roller Roller, logger *zap.Logger, notifier interfaces.Notifier) (*Session, error) {
	if playerCount < 1 {
		return nil, errors.New("session needs at least one player")
	}
	if playerCount > cfg.Game.MaxPlayers {
		return nil, fmt.Errorf("session supports at most %d players", cfg.Game.MaxPlayers)
	}

	board, err := NewBoard(layout)
	if err != nil {
		return nil, fmt.Errorf("failed to build board: %w", err)
	}

	s := &Session{
		ID:         uuid.New().String(),
		Board:      board,
		shopOffers: make(map[string][]int),
		npcSpecs:   make(map[string]NPCSpec),
		roller:     roller,
		logger:     logger,
		notifier:   notifier,
		cfg:        cfg,
	}
	for _, spec := range npcs {
		s.npcSpecs[spec.ID] = spec
	}

	for i := 1; i <= playerCount; i++ {
		p := NewPlayer(fmt.Sprintf("p%d", i), fmt.Sprintf("Player %d", i), cfg.Game.StartingHealth, cfg.Game.StartingGold, cfg.Game.InventoryCapacity)
		s.Players = append(s.Players, p)
		if err := board.PlaceActor(0, p.ID); err != nil {
			return nil, err
		}
	}

	s.TurnOrder = s.rollTurnOrder()
	return s, nil
}

// rollTurnOrder rolls one die per player and orders them highest first,
// shuffling ties.
func (s *Session) rollTurnOrder() []string {
	type entry struct {
		id   string
		roll int
	}
	rolls := make([]entry, 0, len(s.Players))
	for _, p := range s.Players {
		r := s.roller.Roll(s.cfg.Game.DieSides)
		s.logger.Info("turn order roll", zap.String("player_id", p.ID), zap.Int("roll", r))
		rolls = append(rolls, entry{id: p.ID, roll: r})
	}
	sort.SliceStable(rolls, func(i, j int) bool { return rolls[i].roll > rolls[j].roll })

	// Shuffle within each tied group
	order := make([]string, 0, len(rolls))
	for i := 0; i < len(rolls); {
		j := i
		for j < len(rolls) && rolls[j].roll == rolls[i].roll {
			j++
		}
		group := make([]string, 0, j-i)
		for _, e := range rolls[i:j] {
			group = append(group, e.id)
		}
		for k := len(group) - 1; k > 0; k-- {
			m := pick(s.roller, k+1)
			group[k], group[m] = group[m], group[k]
		}
		order = append(order, group...)
		i = j
	}
	return order
}

// Lock acquires the session mutex
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session mutex
func (s *Session) Unlock() { s.mu.Unlock() }

// FindPlayer returns the player with the id, or nil
func (s *Session) FindPlayer(actorID string) *Player {
	for _, p := range s.Players {
		if p.ID == actorID {
			return p
		}
	}
	return nil
}

// CurrentActor returns the id of the player whose turn it is
func (s *Session) CurrentActor() string {
	if len(s.TurnOrder) == 0 {
		return ""
	}
	return s.TurnOrder[s.turnIdx]
}

func (s *Session) notify(event string, payload interface{}) {
	if s.notifier != nil {
		s.notifier.Notify(s.ID, event, payload)
	}
}

// AdvanceTurnByRoll rolls for the current player and resolves their move.
// The caller must hold the session lock.
func (s *Session) AdvanceTurnByRoll(actorID string) (*types.MoveOutcome, error) {
	if s.Winner != "" {
		return nil, ErrGameOver
	}
	if s.Battle != nil {
		return nil, ErrBattleInProgress
	}
	p := s.FindPlayer(actorID)
	if p == nil {
		return nil, ErrPlayerNotFound
	}
	if s.CurrentActor() != actorID {
		return nil, ErrNotYourTurn
	}
	if !p.Status.Alive {
		return nil, ErrPlayerNotAlive
	}
	if p.Status.Decision != nil {
		return nil, errors.New("decision pending, submit a path choice first")
	}

	// A shop offer lasts until its player's next roll
	delete(s.shopOffers, actorID)

	out := &types.MoveOutcome{ActorID: actorID}
	s.turnOpen = true

	if p.Status.IsStunned() {
		s.logger.Info("player is stunned and cannot move",
			zap.String("session_id", s.ID),
			zap.String("player_id", actorID))
		out.Stunned = true
		out.FinalTile = s.Board.FindActor(p.ID)
		s.endTurn(p)
		return out, nil
	}

	roll := p.Status.TakeRiggedRoll()
	if roll > 0 {
		s.logger.Info("using rigged dice roll",
			zap.String("player_id", actorID),
			zap.Int("roll", roll))
	} else {
		roll = s.roller.Roll(s.cfg.Game.DieSides)
	}
	out.Roll = roll

	p.Status.MidMove = true
	if err := s.moveForward(p, roll, out); err != nil {
		p.Status.MidMove = false
		return nil, err
	}
	s.settleTurn(p, out)
	return out, nil
}

// SubmitDecision resumes a movement sequence suspended at a fork. Total
// steps are conserved: the chosen tile consumes one step and the remainder
// continues from there. The caller must hold the session lock.
func (s *Session) SubmitDecision(actorID string, chosenTile, stepsRemaining int) (*types.MoveOutcome, error) {
	p := s.FindPlayer(actorID)
	if p == nil {
		return nil, ErrPlayerNotFound
	}
	d := p.Status.Decision
	if d == nil {
		return nil, ErrNoDecisionPending
	}
	if stepsRemaining != d.StepsRemaining {
		return nil, fmt.Errorf("stale decision: %d steps remaining, got %d", d.StepsRemaining, stepsRemaining)
	}
	valid := false
	for _, opt := range d.Options {
		if opt == chosenTile {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("tile %d is not a valid path choice", chosenTile)
	}

	p.Status.Decision = nil
	out := &types.MoveOutcome{ActorID: actorID}

	remaining := d.StepsRemaining - 1
	if err := s.moveTo(p, chosenTile, remaining, out); err != nil {
		return nil, err
	}
	if s.Battle == nil && out.BattleID == "" && remaining > 0 {
		if landed := s.Board.Tile(out.FinalTile); landed != nil && landed.Event == EventDecision {
			s.suspendAtFork(p, landed, remaining, out)
		} else if err := s.moveForward(p, remaining, out); err != nil {
			return nil, err
		}
	}
	s.settleTurn(p, out)
	return out, nil
}

// suspendAtFork records the pending decision and reports it in the outcome
func (s *Session) suspendAtFork(p *Player, tile *Tile, stepsRemaining int, out *types.MoveOutcome) {
	p.Status.Decision = &PendingDecision{
		TileIndex:      tile.Index,
		Options:        append([]int(nil), tile.Front...),
		StepsRemaining: stepsRemaining,
	}
	out.DecisionPending = true
	out.DecisionOptions = append([]int(nil), tile.Front...)
	out.StepsRemaining = stepsRemaining
	s.notify("decision_required", map[string]interface{}{
		"actor_id":        p.ID,
		"tile":            tile.Index,
		"options":         tile.Front,
		"steps_remaining": stepsRemaining,
	})
}

// settleTurn ends the turn unless the move left something unresolved
func (s *Session) settleTurn(p *Player, out *types.MoveOutcome) {
	if s.Winner != "" {
		out.Winner = s.Winner
		s.turnOpen = false
		return
	}
	if out.DecisionPending || s.Battle != nil {
		return
	}
	if s.turnOpen {
		s.endTurn(s.FindPlayer(s.CurrentActor()))
	}
}

// AfterBattle closes out the acting player's turn once a battle has fully
// resolved, unless the battle's consequences opened something new.
func (s *Session) AfterBattle() {
	if !s.turnOpen || s.Battle != nil || s.Winner != "" {
		return
	}
	cur := s.FindPlayer(s.CurrentActor())
	if cur != nil && cur.Status.Decision != nil {
		return
	}
	s.endTurn(cur)
}

// endTurn ticks the acting player's effects and advances the cursor
func (s *Session) endTurn(p *Player) {
	if p != nil {
		p.Status.Tick()
		p.Status.MidMove = false
	}
	s.turnOpen = false
	if len(s.TurnOrder) > 0 {
		s.turnIdx = (s.turnIdx + 1) % len(s.TurnOrder)
	}
	s.notify("turn_advanced", map[string]interface{}{"turn": s.CurrentActor()})
}

// declareWinner ends the game; all further movement halts
func (s *Session) declareWinner(p *Player) {
	s.Winner = p.ID
	s.logger.Info("winner declared",
		zap.String("session_id", s.ID),
		zap.String("player_id", p.ID))
	s.notify("game_over", map[string]interface{}{"winner": p.ID})
}

// fireEvent dispatches the arrival event for a tile. finalStep marks the
// last tile of the move invocation; reward-type events only fire then.
func (s *Session) fireEvent(tile *Tile, p *Player, finalStep bool, out *types.MoveOutcome) {
	if !finalStep && !tile.Event.firesOnPassThrough() {
		return
	}

	switch tile.Event {
	case EventNothing:

	case EventSafe:
		p.Status.AdjustGold(s.cfg.Game.SafeTileGold)
		s.logger.Info("safe tile gold",
			zap.String("player_id", p.ID),
			zap.Int("amount", s.cfg.Game.SafeTileGold))

	case EventChest:
		item, err := p.Inventory.ObtainRandom(s.roller)
		if err != nil {
			s.logger.Info("chest found but inventory full", zap.String("player_id", p.ID))
			return
		}
		s.notify("item_found", map[string]interface{}{"actor_id": p.ID, "item_id": item.ID, "name": item.Name})

	case EventSlots:
		// -10 to +50, never dropping gold below zero
		amount := s.roller.Roll(61) - 11
		if p.Status.Gold+amount < 0 {
			amount = -p.Status.Gold
		}
		p.Status.AdjustGold(amount)
		s.logger.Info("slots result",
			zap.String("player_id", p.ID),
			zap.Int("amount", amount))

	case EventMine:
		amount := s.roller.Roll(21) + 9
		p.Status.AdjustGold(amount)
		s.logger.Info("mining haul",
			zap.String("player_id", p.ID),
			zap.Int("amount", amount))

	case EventShop:
		s.openShop(p)

	case EventBattleBuff:
		buff := BattleBuffs[pick(s.roller, len(BattleBuffs))]
		p.Status.AddBattleBuff(buff)
		s.notify("battle_buff_gained", map[string]interface{}{"actor_id": p.ID, "buff": buff})

	case EventCoffinTrap:
		// Single-fire: the trap disarms itself after springing
		p.Status.AddEffect(EffectCoffinStun, s.cfg.Game.CoffinStunTurns)
		tile.Event = EventNothing
		s.logger.Info("coffin trap sprung",
			zap.String("player_id", p.ID),
			zap.Int("tile", tile.Index))
		s.notify("trap_sprung", map[string]interface{}{"actor_id": p.ID, "tile": tile.Index})

	case EventDecision:
		// Suspension is handled by the movement loop after the event fires

	case EventAmbush:
		s.startNPCBattle(p, s.cfg.Battle.AmbushNPC, out)

	case EventBoss:
		s.startNPCBattle(p, s.cfg.Battle.BossNPC, out)
	}
}

// openShop deals a fresh offer of random catalog items to the player
func (s *Session) openShop(p *Player) {
	ids := make([]int, 0, ItemCount)
	for id := range itemCatalog {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for i := len(ids) - 1; i > 0; i-- {
		j := pick(s.roller, i+1)
		ids[i], ids[j] = ids[j], ids[i]
	}
	n := s.cfg.Game.ShopOfferSize
	if n > len(ids) {
		n = len(ids)
	}
	offer := ids[:n]
	s.shopOffers[p.ID] = offer

	view := types.ShopOfferView{ActorID: p.ID}
	for _, id := range offer {
		view.Items = append(view.Items, types.ShopItemView{ItemID: id, Name: ItemName(id), Price: ItemPrice(id)})
	}
	s.notify("shop_open", view)
}

// BuyShopItem purchases from the player's current shop offer. The caller
// must hold the session lock.
func (s *Session) BuyShopItem(actorID string, itemID int) error {
	p := s.FindPlayer(actorID)
	if p == nil {
		return ErrPlayerNotFound
	}
	offer, ok := s.shopOffers[actorID]
	if !ok {
		return errors.New("no shop open for player")
	}
	offered := false
	for _, id := range offer {
		if id == itemID {
			offered = true
			break
		}
	}
	if !offered {
		return errors.New("item not in shop offer")
	}
	price := ItemPrice(itemID)
	if p.Status.Gold < price {
		return errors.New("not enough gold")
	}
	if !p.Inventory.CanAdd() {
		return ErrInventoryFull
	}
	if _, err := p.Inventory.Obtain(itemID); err != nil {
		return err
	}
	p.Status.AdjustGold(-price)
	s.logger.Info("shop purchase",
		zap.String("player_id", actorID),
		zap.Int("item_id", itemID),
		zap.Int("price", price))
	return nil
}

// Snapshot builds the serializable view of the session for presentation.
// The caller must hold the session lock.
func (s *Session) Snapshot() *types.Snapshot {
	snap := &types.Snapshot{
		SessionID: s.ID,
		Turn:      s.CurrentActor(),
		Winner:    s.Winner,
	}
	for _, p := range s.Players {
		ps := types.PlayerSnapshot{
			ID:        p.ID,
			Name:      p.Name,
			Character: p.Character,
			Tile:      s.Board.FindActor(p.ID),
			Health:    p.Status.Health,
			MaxHealth: p.Status.MaxHealth,
			Gold:      p.Status.Gold,
			Alive:     p.Status.Alive,
			Stunned:   p.Status.IsStunned(),
			Effects:   make([]types.EffectSnapshot, 0, len(p.Status.Effects)),
			Items:     p.Inventory.ItemIDs(),
		}
		for _, e := range p.Status.Effects {
			ps.Effects = append(ps.Effects, types.EffectSnapshot{Name: e.Name, Duration: e.Duration})
		}
		snap.Players = append(snap.Players, ps)
	}
	for _, t := range s.Board.Tiles {
		snap.Tiles = append(snap.Tiles, types.TileSnapshot{
			Index:     t.Index,
			Event:     t.Event.String(),
			Front:     append([]int(nil), t.Front...),
			Occupants: append([]string(nil), t.Occupants...),
		})
	}
	if s.Battle != nil {
		view := s.Battle.View()
		snap.Battle = &view
	}
	return snap
}

// Save captures the persisted layout of the session. The caller must hold
// the session lock.
func (s *Session) Save() *types.SessionSave {
	save := &types.SessionSave{
		SessionID: s.ID,
		TurnOrder: append([]string(nil), s.TurnOrder...),
		TurnIndex: s.turnIdx,
		Winner:    s.Winner,
	}
	for _, p := range s.Players {
		ps := types.PlayerSave{
			ID:        p.ID,
			Name:      p.Name,
			Character: p.Character,
			Position:  s.Board.FindActor(p.ID),
			Gold:      p.Status.Gold,
			Health:    p.Status.Health,
			MaxHealth: p.Status.MaxHealth,
			Items:     p.Inventory.ItemIDs(),
		}
		for _, e := range p.Status.Effects {
			ps.Effects = append(ps.Effects, types.EffectSave{Name: e.Name, Duration: e.Duration})
		}
		save.Players = append(save.Players, ps)
	}
	for _, t := range s.Board.Tiles {
		save.Tiles = append(save.Tiles, types.TileSave{
			Index:     t.Index,
			Event:     t.Event.String(),
			Occupants: append([]string(nil), t.Occupants...),
		})
	}
	return save
}
