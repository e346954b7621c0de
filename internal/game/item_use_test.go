package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLassoStunsTarget(t *testing.T) {
	// Setup
	p1 := newTestPlayer("p1")
	p2 := newTestPlayer("p2")
	s := newTestSession(newScriptRoller(), p1, p2)
	_, err := p1.Inventory.Obtain(ItemLasso)
	assert.NoError(t, err)

	// Test case 1: the lasso lands and is spent
	err = s.UseItem("p1", ItemLasso, "p2", 0)
	assert.NoError(t, err)
	assert.True(t, p2.Status.IsStunned())
	assert.False(t, p1.Inventory.Has(ItemLasso))

	// Test case 2: using an item you don't hold fails
	err = s.UseItem("p1", ItemLasso, "p2", 0)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestVestBlocksTargetedItem(t *testing.T) {
	p1 := newTestPlayer("p1")
	p2 := newTestPlayer("p2")
	s := newTestSession(newScriptRoller(), p1, p2)
	p2.Status.AddEffect(EffectVestImmunity, PermanentDuration)
	_, err := p1.Inventory.Obtain(ItemLasso)
	assert.NoError(t, err)

	err = s.UseItem("p1", ItemLasso, "p2", 0)
	assert.NoError(t, err)

	// Both the lasso and the vest are spent, and the target walks free
	assert.False(t, p2.Status.IsStunned())
	assert.False(t, p2.Status.HasEffect(EffectVestImmunity))
	assert.False(t, p1.Inventory.Has(ItemLasso))
}

func TestCannotTargetYourself(t *testing.T) {
	p1 := newTestPlayer("p1")
	s := newTestSession(newScriptRoller(), p1)
	_, err := p1.Inventory.Obtain(ItemLasso)
	assert.NoError(t, err)

	err = s.UseItem("p1", ItemLasso, "p1", 0)
	assert.Error(t, err)
	assert.True(t, p1.Inventory.Has(ItemLasso))
}

func TestStunnedPlayerCannotUseItems(t *testing.T) {
	p1 := newTestPlayer("p1")
	s := newTestSession(newScriptRoller(), p1)
	p1.Status.AddEffect(EffectLassoStun, 1)
	_, err := p1.Inventory.Obtain(ItemVest)
	assert.NoError(t, err)

	err = s.UseItem("p1", ItemVest, "", 0)
	assert.Error(t, err)
	assert.True(t, p1.Inventory.Has(ItemVest))
}

func TestRiggedDiceForcesNextRoll(t *testing.T) {
	// Setup: only the mine payout consumes the scripted roll
	p1 := newTestPlayer("p1")
	s := newTestSession(newScriptRoller(11), p1)
	_, err := p1.Inventory.Obtain(ItemRiggedDice)
	assert.NoError(t, err)

	// A value outside the die is rejected and the dice are handed back
	err = s.UseItem("p1", ItemRiggedDice, "", 9)
	assert.Error(t, err)
	assert.True(t, p1.Inventory.Has(ItemRiggedDice))

	err = s.UseItem("p1", ItemRiggedDice, "", 3)
	assert.NoError(t, err)

	out, err := s.AdvanceTurnByRoll("p1")
	assert.NoError(t, err)
	assert.Equal(t, 3, out.Roll)
	assert.Equal(t, 3, out.FinalTile)
	// Mine at tile 3 paid 11+9 gold; the forced value is spent
	assert.Equal(t, 30, p1.Status.Gold)
	assert.False(t, p1.Status.HasEffect(EffectRiggedDice))
}

func TestMagicCarpetFliesAnywhere(t *testing.T) {
	p1 := newTestPlayer("p1")
	s := newTestSession(newScriptRoller(), p1)
	_, err := p1.Inventory.Obtain(ItemMagicCarpet)
	assert.NoError(t, err)

	err = s.UseItem("p1", ItemMagicCarpet, "", 99)
	assert.Error(t, err)

	err = s.UseItem("p1", ItemMagicCarpet, "", 12)
	assert.NoError(t, err)
	assert.Equal(t, 12, s.Board.FindActor("p1"))
}

func TestTumbleweedRollsForwardThree(t *testing.T) {
	p1 := newTestPlayer("p1")
	s := newTestSession(newScriptRoller(11), p1)
	_, err := p1.Inventory.Obtain(ItemTumbleweed)
	assert.NoError(t, err)

	err = s.UseItem("p1", ItemTumbleweed, "", 0)
	assert.NoError(t, err)
	assert.Equal(t, 3, s.Board.FindActor("p1"))
	// The mine at tile 3 still pays
	assert.Equal(t, 30, p1.Status.Gold)
}

func TestWindStaffBlowsTargetBack(t *testing.T) {
	p1 := newTestPlayer("p1")
	p2 := newTestPlayer("p2")
	s := newTestSession(newScriptRoller(), p1, p2)
	placeAt(s, p2, 5)
	_, err := p1.Inventory.Obtain(ItemWindStaff)
	assert.NoError(t, err)

	err = s.UseItem("p1", ItemWindStaff, "p2", 0)
	assert.NoError(t, err)
	assert.Equal(t, 2, s.Board.FindActor("p2"))

	// The gust dragged p2 across the buff tile and onto the chest
	assert.True(t, p2.Status.HasBattleBuff(BuffRevolver))
	assert.Equal(t, 1, p2.Inventory.Len())
}

func TestMirageTeleporterSwapsPlaces(t *testing.T) {
	p1 := newTestPlayer("p1")
	p2 := newTestPlayer("p2")
	s := newTestSession(newScriptRoller(), p1, p2)
	placeAt(s, p2, 9)
	_, err := p1.Inventory.Obtain(ItemMirageTeleporter)
	assert.NoError(t, err)

	err = s.UseItem("p1", ItemMirageTeleporter, "p2", 0)
	assert.NoError(t, err)
	assert.Equal(t, 9, s.Board.FindActor("p1"))
	assert.Equal(t, 0, s.Board.FindActor("p2"))
}

func TestCursedCoffinTrapsNextVisitor(t *testing.T) {
	// Setup: p1 arms a quiet tile, p2 walks into it
	p1 := newTestPlayer("p1")
	p2 := newTestPlayer("p2")
	s := newTestSession(newScriptRoller(1), p1, p2)
	placeAt(s, p1, 12)
	placeAt(s, p2, 11)
	_, err := p1.Inventory.Obtain(ItemCursedCoffin)
	assert.NoError(t, err)

	err = s.UseItem("p1", ItemCursedCoffin, "", 0)
	assert.NoError(t, err)
	assert.Equal(t, EventCoffinTrap, s.Board.Tile(12).Event)

	// The trapper moves on before the victim arrives
	placeAt(s, p1, 13)
	s.turnIdx = 1
	_, err = s.AdvanceTurnByRoll("p2")
	assert.NoError(t, err)

	// The trap sprang on arrival and disarmed itself
	assert.True(t, p2.Status.IsStunned())
	assert.Equal(t, EventNothing, s.Board.Tile(12).Event)
}

func TestVSForcesDuel(t *testing.T) {
	p1 := newTestPlayer("p1")
	p2 := newTestPlayer("p2")
	s := newTestSession(newScriptRoller(1), p1, p2)
	_, err := p1.Inventory.Obtain(ItemVS)
	assert.NoError(t, err)

	err = s.UseItem("p1", ItemVS, "p2", 0)
	assert.NoError(t, err)
	assert.NotNil(t, s.Battle)
	assert.Equal(t, "p1", s.Battle.awaiting)

	// No second battle can start while one is running
	err = s.UseItem("p1", ItemVS, "p2", 0)
	assert.ErrorIs(t, err, ErrBattleInProgress)
}
