package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShopOfferAndPurchase(t *testing.T) {
	// Setup: landing on the shop at tile 10 deals an offer
	p1 := newTestPlayer("p1")
	p1.Status.SetGold(100)
	s := newTestSession(newScriptRoller(1), p1)
	placeAt(s, p1, 9)

	_, err := s.AdvanceTurnByRoll("p1")
	assert.NoError(t, err)

	offer, ok := s.shopOffers["p1"]
	assert.True(t, ok)
	assert.Len(t, offer, s.cfg.Game.ShopOfferSize)

	// Test case 1: buying an offered item deducts its price
	wanted := offer[0]
	err = s.BuyShopItem("p1", wanted)
	assert.NoError(t, err)
	assert.True(t, p1.Inventory.Has(wanted))
	assert.Equal(t, 100-ItemPrice(wanted), p1.Status.Gold)

	// Test case 2: an item outside the offer is refused
	outside := -1
	for id := range itemCatalog {
		inOffer := false
		for _, o := range offer {
			if o == id {
				inOffer = true
				break
			}
		}
		if !inOffer {
			outside = id
			break
		}
	}
	err = s.BuyShopItem("p1", outside)
	assert.Error(t, err)

	// Test case 3: the offer expires at the player's next roll
	_, err = s.AdvanceTurnByRoll("p1")
	assert.NoError(t, err)
	err = s.BuyShopItem("p1", wanted)
	assert.Error(t, err)
}

func TestShopRefusesPoorAndOverloaded(t *testing.T) {
	p1 := newTestPlayer("p1")
	s := newTestSession(newScriptRoller(1), p1)
	placeAt(s, p1, 9)

	_, err := s.AdvanceTurnByRoll("p1")
	assert.NoError(t, err)
	offer := s.shopOffers["p1"]

	// Test case 1: not enough gold
	p1.Status.SetGold(0)
	err = s.BuyShopItem("p1", offer[0])
	assert.Error(t, err)

	// Test case 2: full inventory
	p1.Status.SetGold(1000)
	for _, id := range []int{ItemLasso, ItemVest, ItemShovel} {
		_, err := p1.Inventory.Obtain(id)
		assert.NoError(t, err)
	}
	err = s.BuyShopItem("p1", offer[0])
	assert.ErrorIs(t, err, ErrInventoryFull)
}

func TestSafeTilePaysGold(t *testing.T) {
	p1 := newTestPlayer("p1")
	s := newTestSession(newScriptRoller(1), p1)

	out, err := s.AdvanceTurnByRoll("p1")
	assert.NoError(t, err)
	assert.Equal(t, 1, out.FinalTile)
	assert.Equal(t, 13, p1.Status.Gold)
}

func TestSlotsCannotBankruptPlayer(t *testing.T) {
	// Setup: the worst slots roll (1 maps to -10) against 4 gold
	p1 := newTestPlayer("p1")
	p1.Status.SetGold(4)
	s := newTestSession(newScriptRoller(1, 1), p1)
	placeAt(s, p1, 5)

	out, err := s.AdvanceTurnByRoll("p1")
	assert.NoError(t, err)
	assert.Equal(t, 6, out.FinalTile)
	assert.Equal(t, 0, p1.Status.Gold)
}

func TestTurnRotatesThroughPlayers(t *testing.T) {
	p1 := newTestPlayer("p1")
	p2 := newTestPlayer("p2")
	s := newTestSession(newScriptRoller(1, 2, 5), p1, p2)

	assert.Equal(t, "p1", s.CurrentActor())
	_, err := s.AdvanceTurnByRoll("p1")
	assert.NoError(t, err)
	assert.Equal(t, "p2", s.CurrentActor())

	_, err = s.AdvanceTurnByRoll("p2")
	assert.NoError(t, err)
	assert.Equal(t, "p1", s.CurrentActor())
}

func TestNoMovesAfterWinner(t *testing.T) {
	p1 := newTestPlayer("p1")
	p2 := newTestPlayer("p2")
	s := newTestSession(newScriptRoller(), p1, p2)
	s.declareWinner(p2)

	_, err := s.AdvanceTurnByRoll("p1")
	assert.ErrorIs(t, err, ErrGameOver)
}

func TestSnapshotReflectsState(t *testing.T) {
	p1 := newTestPlayer("p1")
	p2 := newTestPlayer("p2")
	s := newTestSession(newScriptRoller(), p1, p2)
	placeAt(s, p2, 9)
	p1.Status.AddEffect(EffectLassoStun, 1)

	snap := s.Snapshot()
	assert.Equal(t, "test-session", snap.SessionID)
	assert.Equal(t, "p1", snap.Turn)
	assert.Len(t, snap.Players, 2)
	assert.Len(t, snap.Tiles, 48)

	assert.Equal(t, 0, snap.Players[0].Tile)
	assert.True(t, snap.Players[0].Stunned)
	assert.Equal(t, 9, snap.Players[1].Tile)
	assert.Nil(t, snap.Battle)
}
