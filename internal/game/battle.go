package game

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/user/frontier-trail/internal/types"
)

// Battle action names accepted by Submit
const (
	ActionAttack    = "attack"
	ActionDefend    = "defend"
	ActionStealGold = "steal_gold"
	ActionStealItem = "steal_item"
)

// BattleState is the battle's lifecycle phase
type BattleState int

const (
	// BattleAwaitingAction means a human fighter's combat action is due
	BattleAwaitingAction BattleState = iota
	// BattleAwaitingSteal means the duel winner must pick their spoils
	BattleAwaitingSteal
	// BattleFinished means the battle has fully resolved
	BattleFinished
)

// String returns the wire name of the state
func (st BattleState) String() string {
	switch st {
	case BattleAwaitingAction:
		return "awaiting_action"
	case BattleAwaitingSteal:
		return "awaiting_steal"
	case BattleFinished:
		return "finished"
	}
	return "unknown"
}

// Combatant wraps either a player or an NPC behind one fighting surface
type Combatant struct {
	player *Player
	npc    *NPC

	// Shield and posture storage for NPCs; players keep theirs on Status
	npcShield    int
	npcDefending bool
}

// ID returns the combatant's identity
func (c *Combatant) ID() string {
	if c.npc != nil {
		return c.npc.ID
	}
	return c.player.ID
}

// Name returns the combatant's display name
func (c *Combatant) Name() string {
	if c.npc != nil {
		return c.npc.Name
	}
	return c.player.Name
}

// IsNPC reports whether this side is scripted
func (c *Combatant) IsNPC() bool {
	return c.npc != nil
}

// Health returns current health
func (c *Combatant) Health() int {
	if c.npc != nil {
		return c.npc.Health
	}
	return c.player.Status.Health
}

// MaxHealth returns the health ceiling
func (c *Combatant) MaxHealth() int {
	if c.npc != nil {
		return c.npc.MaxHealth
	}
	return c.player.Status.MaxHealth
}

// AdjustHealth applies a delta, clamping at zero
func (c *Combatant) AdjustHealth(delta int) {
	if c.npc != nil {
		c.npc.Health += delta
		if c.npc.Health < 0 {
			c.npc.Health = 0
		}
		return
	}
	c.player.Status.AdjustHealth(delta)
}

// Shield returns the current damage-absorbing shield
func (c *Combatant) Shield() int {
	if c.npc != nil {
		return c.npcShield
	}
	return c.player.Status.Shield
}

// SetShield sets the shield value
func (c *Combatant) SetShield(v int) {
	if c.npc != nil {
		c.npcShield = v
		return
	}
	c.player.Status.Shield = v
}

// Defending reports whether the combatant's last action was a defend
func (c *Combatant) Defending() bool {
	if c.npc != nil {
		return c.npcDefending
	}
	return c.player.Status.Defending
}

// SetDefending records the defending posture
func (c *Combatant) SetDefending(v bool) {
	if c.npc != nil {
		c.npcDefending = v
		return
	}
	c.player.Status.Defending = v
}

// HasBuff reports whether the combatant holds the named battle buff.
// NPCs never hold buffs.
func (c *Combatant) HasBuff(name string) bool {
	if c.npc != nil {
		return false
	}
	return c.player.Status.HasBattleBuff(name)
}

// Battle is a fight between two combatants on one session. It runs
// synchronously, auto-playing NPC turns, and suspends whenever a human
// fighter's input is due.
type Battle struct {
	ID      string
	session *Session

	fighters [2]*Combatant
	turn     int
	state    BattleState

	// Actor whose submission the battle is waiting on
	awaiting string

	winner *Combatant
	loser  *Combatant
}

func newBattle(s *Session, a, b *Combatant) *Battle {
	return &Battle{
		ID:       uuid.New().String(),
		session:  s,
		fighters: [2]*Combatant{a, b},
		state:    BattleAwaitingAction,
	}
}

// startPvPBattle begins a duel between two players who share a tile
func (s *Session) startPvPBattle(a, b *Player, out *types.MoveOutcome) {
	battle := newBattle(s, &Combatant{player: a}, &Combatant{player: b})
	s.Battle = battle
	battle.open()
	if out != nil {
		out.BattleID = battle.ID
	}
}

// startNPCBattle begins a fight against a scripted opponent. A missing
// NPC id is a content error; the tile degrades to a no-op with a warning.
func (s *Session) startNPCBattle(p *Player, npcID string, out *types.MoveOutcome) {
	spec, ok := s.npcSpecs[npcID]
	if !ok {
		s.logger.Warn("tile references unknown npc",
			zap.String("session_id", s.ID),
			zap.String("npc_id", npcID))
		return
	}
	battle := newBattle(s, &Combatant{player: p}, &Combatant{npc: NewNPC(spec)})
	s.Battle = battle
	battle.open()
	if out != nil {
		out.BattleID = battle.ID
	}
}

// open applies battle-start buffs, settles who moves first, announces the
// fight and runs it until input is due or it resolves.
func (b *Battle) open() {
	for _, c := range b.fighters {
		if c.IsNPC() {
			continue
		}
		st := c.player.Status
		if st.HasBattleBuff(BuffFood) {
			heal := 2
			if st.Health+heal > st.MaxHealth {
				heal = st.MaxHealth - st.Health
			}
			st.AdjustHealth(heal)
		}
		if st.HasBattleBuff(BuffCactus) {
			if st.Health > 2 {
				st.AdjustHealth(-2)
			} else {
				st.SetHealth(1)
			}
		}
	}

	b.turn = b.firstMover()

	b.session.logger.Info("battle started",
		zap.String("session_id", b.session.ID),
		zap.String("battle_id", b.ID),
		zap.String("a", b.fighters[0].ID()),
		zap.String("b", b.fighters[1].ID()))
	b.session.notify("battle_started", b.View())
	b.run()
}

// firstMover gives priority to a lone boots holder, otherwise rolls for it
func (b *Battle) firstMover() int {
	aBoots := b.fighters[0].HasBuff(BuffCowboyBoots)
	bBoots := b.fighters[1].HasBuff(BuffCowboyBoots)
	if aBoots != bBoots {
		if aBoots {
			return 0
		}
		return 1
	}
	return pick(b.session.roller, 2)
}

// run advances the battle: shields fade at their owner's turn start, NPC
// turns auto-play, and the loop suspends when a human action is due.
func (b *Battle) run() {
	for b.state == BattleAwaitingAction {
		actor := b.fighters[b.turn]
		target := b.fighters[1-b.turn]

		// A defend lasts until the defender's next turn comes around
		actor.SetShield(0)
		actor.SetDefending(false)

		if !actor.IsNPC() {
			b.awaiting = actor.ID()
			b.session.notify("battle_action_required", b.View())
			return
		}

		actor.npc.Behavior(b, actor, target)
		if b.checkDefeat() {
			return
		}
		b.turn = 1 - b.turn
	}
}

// Submit applies one fighter's pending action. Only the awaited actor may
// submit, and only the action kind the current state expects.
func (b *Battle) Submit(actorID, action string) error {
	switch b.state {
	case BattleFinished:
		return errors.New("battle already finished")
	case BattleAwaitingSteal:
		if actorID != b.awaiting {
			return fmt.Errorf("waiting for %s to choose spoils", b.awaiting)
		}
		return b.applySteal(action)
	}

	if actorID != b.awaiting {
		return fmt.Errorf("waiting for action from %s", b.awaiting)
	}
	actor := b.fighters[b.turn]
	target := b.fighters[1-b.turn]

	switch action {
	case ActionAttack:
		roll := b.session.roller.Roll(b.session.cfg.Game.DieSides)
		b.resolveAttack(actor, target, roll)
	case ActionDefend:
		shield := b.session.roller.Roll(b.session.cfg.Game.DieSides)
		actor.SetShield(shield)
		actor.SetDefending(true)
		b.session.logger.Info("fighter defends",
			zap.String("battle_id", b.ID),
			zap.String("fighter", actor.ID()),
			zap.Int("shield", shield))
		b.session.notify("battle_defend", map[string]interface{}{"battle_id": b.ID, "fighter": actor.ID(), "shield": shield})
	default:
		return fmt.Errorf("unknown battle action %q", action)
	}

	b.awaiting = ""
	if b.checkDefeat() {
		return nil
	}
	b.turn = 1 - b.turn
	b.run()
	return nil
}

// resolveAttack applies an attack roll: revolver adds one, sunscreen on
// the target subtracts one with a floor of zero, and the target's shield
// absorbs damage before health does.
func (b *Battle) resolveAttack(attacker, target *Combatant, roll int) {
	damage := roll
	if attacker.HasBuff(BuffRevolver) {
		damage++
	}
	if target.HasBuff(BuffSunscreen) {
		damage--
	}
	if damage < 0 {
		damage = 0
	}

	absorbed := 0
	if shield := target.Shield(); shield > 0 {
		absorbed = shield
		if absorbed > damage {
			absorbed = damage
		}
		target.SetShield(shield - absorbed)
		damage -= absorbed
	}
	target.AdjustHealth(-damage)

	b.session.logger.Info("attack resolved",
		zap.String("battle_id", b.ID),
		zap.String("attacker", attacker.ID()),
		zap.String("target", target.ID()),
		zap.Int("roll", roll),
		zap.Int("absorbed", absorbed),
		zap.Int("damage", damage))
	b.session.notify("battle_attack", map[string]interface{}{
		"battle_id": b.ID,
		"attacker":  attacker.ID(),
		"target":    target.ID(),
		"roll":      roll,
		"absorbed":  absorbed,
		"damage":    damage,
		"health":    target.Health(),
	})
}

// checkDefeat finishes the battle when either side has fallen
func (b *Battle) checkDefeat() bool {
	for i, c := range b.fighters {
		if c.Health() <= 0 {
			b.finish(b.fighters[1-i], c)
			return true
		}
	}
	return false
}

// finish hands out consequences. A duel with spoils available suspends in
// the steal phase; every other path resolves immediately.
func (b *Battle) finish(winner, loser *Combatant) {
	b.winner = winner
	b.loser = loser

	for _, c := range b.fighters {
		if !c.IsNPC() {
			c.player.Status.ConsumeBattleBuffs()
			c.player.Status.ClearBattleState()
		}
	}

	s := b.session
	s.logger.Info("battle decided",
		zap.String("session_id", s.ID),
		zap.String("battle_id", b.ID),
		zap.String("winner", winner.ID()),
		zap.String("loser", loser.ID()))

	switch {
	case !winner.IsNPC() && !loser.IsNPC():
		if loser.player.Status.Gold > 0 || loser.player.Inventory.Len() > 0 {
			b.state = BattleAwaitingSteal
			b.awaiting = winner.ID()
			s.notify("battle_steal_choice", b.View())
			return
		}
		b.detach()
		b.settleDuelLoser()

	case loser.IsNPC():
		b.detach()
		npc := loser.npc
		winner.player.Status.AdjustGold(npc.GoldDrop)
		if chance(s.roller, npc.ItemDropChance) {
			drop := lowTierItems[pick(s.roller, len(lowTierItems))]
			if _, err := winner.player.Inventory.Obtain(drop); err == nil {
				s.notify("item_found", map[string]interface{}{"actor_id": winner.ID(), "item_id": drop})
			}
		}
		if npc.Boss {
			s.declareWinner(winner.player)
		}

	default: // winner is the NPC
		b.detach()
		p := loser.player
		p.Status.SetHealth(p.Status.MaxHealth)
		if winner.npc.Boss {
			if err := s.moveBackward(p, s.cfg.Battle.BossLossKnockback); err != nil {
				s.logger.Error("boss knockback failed", zap.Error(err))
			}
		} else {
			p.Status.AdjustGold(-s.cfg.Battle.NPCLossGold)
			for i := 0; i < s.cfg.Battle.NPCLossItems; i++ {
				p.Inventory.RemoveRandom(s.roller)
			}
			if err := s.moveBackward(p, s.cfg.Battle.NPCLossKnockback); err != nil {
				s.logger.Error("knockback failed", zap.Error(err))
			}
		}
	}

	s.notify("battle_ended", b.View())
}

// applySteal resolves the duel winner's spoils choice, then settles the loser
func (b *Battle) applySteal(action string) error {
	s := b.session
	wp := b.winner.player
	lp := b.loser.player

	switch action {
	case ActionStealGold:
		amount := s.cfg.Battle.PvPStealGold
		if lp.Status.Gold < amount {
			amount = lp.Status.Gold
		}
		lp.Status.AdjustGold(-amount)
		wp.Status.AdjustGold(amount)
		s.notify("gold_stolen", map[string]interface{}{"from": lp.ID, "to": wp.ID, "amount": amount})
	case ActionStealItem:
		item := lp.Inventory.RemoveRandom(s.roller)
		if item == nil {
			// Nothing to take, fall back to gold
			return b.applySteal(ActionStealGold)
		}
		// A full winner inventory forfeits the spoils
		if err := wp.Inventory.Add(item); err != nil {
			s.logger.Info("stolen item forfeited, inventory full",
				zap.String("winner", wp.ID),
				zap.Int("item_id", item.ID))
		} else {
			s.notify("item_stolen", map[string]interface{}{"from": lp.ID, "to": wp.ID, "item_id": item.ID})
		}
	default:
		return fmt.Errorf("unknown steal action %q", action)
	}

	b.detach()
	b.settleDuelLoser()
	s.notify("battle_ended", b.View())
	return nil
}

// settleDuelLoser restores the fallen duelist and knocks them back
func (b *Battle) settleDuelLoser() {
	s := b.session
	lp := b.loser.player
	lp.Status.SetHealth(lp.Status.MaxHealth)
	if err := s.moveBackward(lp, s.cfg.Battle.PvPKnockback); err != nil {
		s.logger.Error("duel knockback failed", zap.Error(err))
	}
}

// detach releases the session before consequences play out, so a knockback
// that lands on a hazard or an occupied tile can open a fresh battle
func (b *Battle) detach() {
	b.state = BattleFinished
	b.awaiting = ""
	if b.session.Battle == b {
		b.session.Battle = nil
	}
}

// View builds the serializable battle state
func (b *Battle) View() types.BattleView {
	view := types.BattleView{
		ID:       b.ID,
		State:    b.state.String(),
		Awaiting: b.awaiting,
	}
	for i, c := range b.fighters {
		view.Fighters[i] = types.FighterView{
			ID:        c.ID(),
			Name:      c.Name(),
			NPC:       c.IsNPC(),
			Health:    c.Health(),
			Shield:    c.Shield(),
			Defending: c.Defending(),
		}
	}
	if b.winner != nil {
		view.Winner = b.winner.ID()
	}
	if b.loser != nil {
		view.Loser = b.loser.ID()
	}
	return view
}

// SubmitBattleAction routes a fighter's action into the session's battle.
// The caller must hold the session lock.
func (s *Session) SubmitBattleAction(actorID, action string) (*types.BattleView, error) {
	battle := s.Battle
	if battle == nil {
		return nil, ErrNoBattle
	}
	if s.FindPlayer(actorID) == nil {
		return nil, ErrPlayerNotFound
	}
	if err := battle.Submit(actorID, action); err != nil {
		return nil, err
	}
	view := battle.View()
	if battle.state == BattleFinished {
		s.AfterBattle()
	}
	return &view, nil
}
