package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttackDealsRollDamage(t *testing.T) {
	// Setup: p1 wins priority, attacks with a 4
	p1 := newTestPlayer("p1")
	p2 := newTestPlayer("p2")
	s := newTestSession(newScriptRoller(1, 4), p1, p2)

	s.startPvPBattle(p1, p2, nil)
	assert.Equal(t, "p1", s.Battle.awaiting)

	view, err := s.SubmitBattleAction("p1", ActionAttack)
	assert.NoError(t, err)
	assert.Equal(t, 6, p2.Status.Health)
	assert.Equal(t, "p2", view.Awaiting)
}

func TestShieldAbsorbsBeforeHealth(t *testing.T) {
	// Setup
	p1 := newTestPlayer("p1")
	p2 := newTestPlayer("p2")
	s := newTestSession(newScriptRoller(), p1, p2)
	b := newBattle(s, &Combatant{player: p1}, &Combatant{player: p2})

	// Test case 1: shield 5 swallows a 4 entirely
	b.fighters[1].SetShield(5)
	b.resolveAttack(b.fighters[0], b.fighters[1], 4)
	assert.Equal(t, 1, b.fighters[1].Shield())
	assert.Equal(t, 10, p2.Status.Health)

	// Test case 2: shield 3 against a 5 lets 2 through
	b.fighters[1].SetShield(3)
	b.resolveAttack(b.fighters[0], b.fighters[1], 5)
	assert.Equal(t, 0, b.fighters[1].Shield())
	assert.Equal(t, 8, p2.Status.Health)
}

func TestShieldFadesAtOwnersTurnStart(t *testing.T) {
	// Setup: p1 defends for 5, p2 attacks with 4
	p1 := newTestPlayer("p1")
	p2 := newTestPlayer("p2")
	s := newTestSession(newScriptRoller(1, 5, 4), p1, p2)

	s.startPvPBattle(p1, p2, nil)
	view, err := s.SubmitBattleAction("p1", ActionDefend)
	assert.NoError(t, err)
	assert.True(t, p1.Status.Defending)
	assert.True(t, view.Fighters[0].Defending)

	_, err = s.SubmitBattleAction("p2", ActionAttack)
	assert.NoError(t, err)

	// The shield absorbed the hit, then both it and the defending posture
	// faded as p1's turn began
	assert.Equal(t, 10, p1.Status.Health)
	assert.Equal(t, 0, p1.Status.Shield)
	assert.False(t, p1.Status.Defending)
	assert.Equal(t, "p1", s.Battle.awaiting)
}

func TestBuffsShapeDamageAndAreConsumed(t *testing.T) {
	// Setup: p1 carries revolver and food, p2 sunscreen and cactus
	p1 := newTestPlayer("p1")
	p2 := newTestPlayer("p2")
	p1.Status.SetHealth(6)
	p2.Status.SetHealth(4)
	p1.Status.AddBattleBuff(BuffRevolver)
	p1.Status.AddBattleBuff(BuffFood)
	p2.Status.AddBattleBuff(BuffSunscreen)
	p2.Status.AddBattleBuff(BuffCactus)
	s := newTestSession(newScriptRoller(1, 4), p1, p2)

	s.startPvPBattle(p1, p2, nil)

	// Food healed p1, cactus hurt p2 before the first blow
	assert.Equal(t, 8, p1.Status.Health)
	assert.Equal(t, 2, p2.Status.Health)

	// Roll 4 becomes 4 damage: revolver +1, sunscreen -1
	_, err := s.SubmitBattleAction("p1", ActionAttack)
	assert.NoError(t, err)
	assert.Equal(t, 0, p2.Status.Health)

	// The duel is decided; both sides lose their buffs
	assert.Empty(t, p1.Status.BattleBuffList())
	assert.Empty(t, p2.Status.BattleBuffList())
	assert.Equal(t, BattleAwaitingSteal, s.Battle.state)
}

func TestCowboyBootsTakePriority(t *testing.T) {
	p1 := newTestPlayer("p1")
	p2 := newTestPlayer("p2")
	p2.Status.AddBattleBuff(BuffCowboyBoots)
	s := newTestSession(newScriptRoller(), p1, p2)

	s.startPvPBattle(p1, p2, nil)
	assert.Equal(t, "p2", s.Battle.awaiting)
}

func TestDuelWinnerStealsGoldAndLoserRecovers(t *testing.T) {
	// Setup: p2 is one hit from defeat on tile 4
	p1 := newTestPlayer("p1")
	p2 := newTestPlayer("p2")
	p2.Status.SetHealth(2)
	s := newTestSession(newScriptRoller(1, 6), p1, p2)
	placeAt(s, p2, 4)

	s.startPvPBattle(p1, p2, nil)
	view, err := s.SubmitBattleAction("p1", ActionAttack)
	assert.NoError(t, err)
	assert.Equal(t, "awaiting_steal", view.State)
	assert.Equal(t, "p1", view.Awaiting)

	// The loser cannot pick the spoils
	_, err = s.SubmitBattleAction("p2", ActionStealGold)
	assert.Error(t, err)

	view, err = s.SubmitBattleAction("p1", ActionStealGold)
	assert.NoError(t, err)
	assert.Equal(t, "finished", view.State)
	assert.Equal(t, "p1", view.Winner)

	// Three gold changed hands; the loser stands again two tiles back
	assert.Equal(t, 13, p1.Status.Gold)
	assert.Equal(t, 7, p2.Status.Gold)
	assert.Equal(t, 10, p2.Status.Health)
	assert.Equal(t, 2, s.Board.FindActor("p2"))
	assert.Nil(t, s.Battle)
}

func TestDuelWinnerStealsItem(t *testing.T) {
	p1 := newTestPlayer("p1")
	p2 := newTestPlayer("p2")
	p2.Status.SetHealth(2)
	_, err := p2.Inventory.Obtain(ItemLasso)
	assert.NoError(t, err)
	s := newTestSession(newScriptRoller(1, 6), p1, p2)

	s.startPvPBattle(p1, p2, nil)
	_, err = s.SubmitBattleAction("p1", ActionAttack)
	assert.NoError(t, err)

	_, err = s.SubmitBattleAction("p1", ActionStealItem)
	assert.NoError(t, err)
	assert.True(t, p1.Inventory.Has(ItemLasso))
	assert.Equal(t, 0, p2.Inventory.Len())
}

func TestOutOfTurnBattleActionRejected(t *testing.T) {
	p1 := newTestPlayer("p1")
	p2 := newTestPlayer("p2")
	s := newTestSession(newScriptRoller(1), p1, p2)

	s.startPvPBattle(p1, p2, nil)
	assert.Equal(t, "p1", s.Battle.awaiting)

	_, err := s.SubmitBattleAction("p2", ActionAttack)
	assert.Error(t, err)

	_, err = s.SubmitBattleAction("p1", "dance")
	assert.Error(t, err)
	assert.Equal(t, "p1", s.Battle.awaiting)
}

func TestAmbushBattlePlaysOutAgainstNPC(t *testing.T) {
	// Setup: solo player walks into the ambush; the thug wins priority
	p1 := newTestPlayer("p1")
	s := newTestSession(newScriptRoller(1, 2, 3, 6, 1, 6, 9999), p1)
	placeAt(s, p1, 6)

	out, err := s.AdvanceTurnByRoll("p1")
	assert.NoError(t, err)
	assert.NotEmpty(t, out.BattleID)

	// The thug already landed its opening blow
	assert.Equal(t, 7, p1.Status.Health)
	assert.Equal(t, "p1", s.Battle.awaiting)

	// Two sixes put the thug down, eating one counterattack in between
	_, err = s.SubmitBattleAction("p1", ActionAttack)
	assert.NoError(t, err)
	view, err := s.SubmitBattleAction("p1", ActionAttack)
	assert.NoError(t, err)
	assert.Equal(t, "finished", view.State)

	// Bounty collected, battle gone, turn closed out
	assert.Equal(t, 13, p1.Status.Gold)
	assert.Equal(t, 6, p1.Status.Health)
	assert.Nil(t, s.Battle)
	assert.Equal(t, "p1", s.CurrentActor())
}

func TestLosingToNPCCostsGoldAndGround(t *testing.T) {
	// Setup: a frail player with one item walks into the ambush
	p1 := newTestPlayer("p1")
	p1.Status.SetHealth(1)
	_, err := p1.Inventory.Obtain(ItemVest)
	assert.NoError(t, err)
	s := newTestSession(newScriptRoller(1, 2, 6), p1)
	placeAt(s, p1, 6)

	_, err = s.AdvanceTurnByRoll("p1")
	assert.NoError(t, err)

	// Knocked out, revived at full health two tiles back, lighter in
	// gold and goods
	assert.Equal(t, 10, p1.Status.Health)
	assert.Equal(t, 7, p1.Status.Gold)
	assert.Equal(t, 0, p1.Inventory.Len())
	assert.Equal(t, 5, s.Board.FindActor("p1"))
	assert.Nil(t, s.Battle)
}

func TestDefeatingBossWinsGame(t *testing.T) {
	// Setup: player steps onto the boss tile and wins priority
	p1 := newTestPlayer("p1")
	s := newTestSession(newScriptRoller(1, 1, 6, 2, 6), p1)
	placeAt(s, p1, 46)

	out, err := s.AdvanceTurnByRoll("p1")
	assert.NoError(t, err)
	assert.NotEmpty(t, out.BattleID)

	_, err = s.SubmitBattleAction("p1", ActionAttack)
	assert.NoError(t, err)
	view, err := s.SubmitBattleAction("p1", ActionAttack)
	assert.NoError(t, err)
	assert.Equal(t, "finished", view.State)
	assert.Equal(t, "p1", s.Winner)
	assert.Equal(t, 8, p1.Status.Health)
}

func TestLosingToBossKnocksBackThree(t *testing.T) {
	// Setup: a frail player falls to the boss's opening blow
	p1 := newTestPlayer("p1")
	p1.Status.SetHealth(2)
	s := newTestSession(newScriptRoller(1, 2, 6), p1)
	placeAt(s, p1, 46)

	_, err := s.AdvanceTurnByRoll("p1")
	assert.NoError(t, err)

	assert.Empty(t, s.Winner)
	assert.Equal(t, 10, p1.Status.Health)
	assert.Nil(t, s.Battle)

	// The retreat runs through the merge at 46 mainline-first and ends
	// on the safe tile at 44, which pays out
	assert.Equal(t, 44, s.Board.FindActor("p1"))
	assert.Equal(t, 13, p1.Status.Gold)
}
