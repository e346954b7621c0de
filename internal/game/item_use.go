package game

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/user/frontier-trail/internal/types"
)

// UseItem consumes an item from the player's inventory and applies its
// effect. Targeted items need targetID; RiggedDice and MagicCarpet read
// value for the chosen roll and destination tile. The caller must hold
// the session lock.
func (s *Session) UseItem(actorID string, itemID int, targetID string, value int) error {
	if s.Winner != "" {
		return ErrGameOver
	}
	if s.Battle != nil {
		return ErrBattleInProgress
	}
	p := s.FindPlayer(actorID)
	if p == nil {
		return ErrPlayerNotFound
	}
	if !p.Status.Alive {
		return ErrPlayerNotAlive
	}
	if p.Status.IsStunned() {
		return errors.New("stunned players cannot use items")
	}
	if s.CurrentActor() != actorID {
		return ErrNotYourTurn
	}

	item := p.Inventory.Find(itemID)
	if item == nil {
		return ErrItemNotFound
	}
	if !item.Usable {
		return fmt.Errorf("item %q cannot be used", item.Name)
	}

	var target *Player
	if item.Targeted {
		if targetID == actorID {
			return errors.New("cannot target yourself")
		}
		target = s.FindPlayer(targetID)
		if target == nil {
			return errors.New("target player not found")
		}
		if !target.Status.Alive {
			return errors.New("target player is not alive")
		}
	}

	// Single use: the item leaves the inventory whether or not a vest
	// absorbs its effect.
	if err := p.Inventory.Remove(itemID); err != nil {
		return err
	}

	if target != nil && target.Status.HasEffect(EffectVestImmunity) {
		target.Status.RemoveEffect(EffectVestImmunity)
		s.logger.Info("vest absorbed targeted item",
			zap.String("user", actorID),
			zap.String("target", targetID),
			zap.Int("item_id", itemID))
		s.notify("item_blocked", map[string]interface{}{"user": actorID, "target": targetID, "item_id": itemID})
		return nil
	}

	if err := s.applyItem(p, target, item, value); err != nil {
		// Validation failed after removal; hand the item back
		_, _ = p.Inventory.Obtain(itemID)
		return err
	}

	s.logger.Info("item used",
		zap.String("session_id", s.ID),
		zap.String("user", actorID),
		zap.Int("item_id", itemID))
	s.notify("item_used", map[string]interface{}{"user": actorID, "target": targetID, "item_id": itemID})
	return nil
}

func (s *Session) applyItem(p, target *Player, item *Item, value int) error {
	switch item.ID {
	case ItemLasso:
		target.Status.AddEffect(EffectLassoStun, 1)

	case ItemPoisonCrossbow:
		target.Status.AddEffect(EffectPoisonStun, 1)

	case ItemVest:
		p.Status.AddEffect(EffectVestImmunity, PermanentDuration)

	case ItemShovel:
		dest := s.Board.FindActor(target.ID)
		if dest < 0 {
			return errors.New("target is not on the board")
		}
		cur := s.Board.FindActor(p.ID)
		if cur >= 0 {
			s.Board.RemoveActor(cur, p.ID)
		}
		if err := s.Board.PlaceActor(dest, p.ID); err != nil {
			return err
		}

	case ItemMirageTeleporter:
		return s.swapActors(p, target)

	case ItemCursedCoffin:
		cur := s.Board.Tile(s.Board.FindActor(p.ID))
		if cur == nil {
			return errors.New("player is not on the board")
		}
		if cur.Event != EventNothing {
			return errors.New("this tile cannot hold a trap")
		}
		cur.Event = EventCoffinTrap
		s.notify("trap_placed", map[string]interface{}{"tile": cur.Index})

	case ItemRiggedDice:
		if value < 1 || value > s.cfg.Game.DieSides {
			return fmt.Errorf("rigged roll must be between 1 and %d", s.cfg.Game.DieSides)
		}
		p.Status.SetRiggedRoll(value)

	case ItemVS:
		out := &types.MoveOutcome{ActorID: p.ID}
		s.startPvPBattle(p, target, out)

	case ItemTumbleweed:
		out := &types.MoveOutcome{ActorID: p.ID}
		if err := s.moveForward(p, 3, out); err != nil {
			return err
		}

	case ItemMagicCarpet:
		if s.Board.Tile(value) == nil {
			return fmt.Errorf("destination tile %d does not exist", value)
		}
		out := &types.MoveOutcome{ActorID: p.ID}
		if err := s.moveTo(p, value, 0, out); err != nil {
			return err
		}

	case ItemWindStaff:
		return s.moveBackward(target, 3)

	default:
		return fmt.Errorf("item %q has no applied effect", item.Name)
	}
	return nil
}

// ObtainItem grants an item directly, subject to inventory capacity. The
// caller must hold the session lock.
func (s *Session) ObtainItem(actorID string, itemID int) error {
	p := s.FindPlayer(actorID)
	if p == nil {
		return ErrPlayerNotFound
	}
	if _, err := p.Inventory.Obtain(itemID); err != nil {
		return err
	}
	s.notify("item_obtained", map[string]interface{}{"actor_id": actorID, "item_id": itemID})
	return nil
}
