package game

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/user/frontier-trail/internal/types"
)

// moveForward walks the player ahead one tile at a time. Each step fires
// the destination tile's event, so a battle or a fork can cut the walk
// short; the outcome reports whatever is left unresolved.
func (s *Session) moveForward(p *Player, steps int, out *types.MoveOutcome) error {
	cur := s.Board.FindActor(p.ID)
	if cur < 0 {
		return fmt.Errorf("actor %s is not on the board", p.ID)
	}
	out.FinalTile = cur

	for steps > 0 {
		if s.Winner != "" || !p.Status.Alive {
			return nil
		}
		tile := s.Board.Tile(cur)
		if tile == nil {
			return fmt.Errorf("actor %s is on unknown tile %d", p.ID, cur)
		}
		if len(tile.Front) == 0 {
			// Dead end, remaining steps are forfeit
			return nil
		}

		next := tile.Front[0]
		if len(tile.Front) > 1 {
			// Only reachable when a move starts on a fork tile whose
			// choice was already made last turn. Take the first path
			// rather than stranding the player.
			s.logger.Warn("move started on fork tile, taking first path",
				zap.String("player_id", p.ID),
				zap.Int("tile", tile.Index))
		}

		steps--
		if err := s.moveTo(p, next, steps, out); err != nil {
			return err
		}
		cur = out.FinalTile

		if s.Battle != nil || out.BattleID != "" {
			// A fight truncates the move even when it resolved on the
			// spot, remaining steps are lost. Its consequences may have
			// relocated the actor.
			out.FinalTile = s.Board.FindActor(p.ID)
			return nil
		}
		if s.Winner != "" || !p.Status.Alive || p.Status.IsStunned() {
			return nil
		}
		if steps > 0 {
			if landed := s.Board.Tile(cur); landed != nil && landed.Event == EventDecision && len(landed.Front) > 1 {
				s.suspendAtFork(p, landed, steps, out)
				return nil
			}
		}
	}
	return nil
}

// moveTo relocates the player onto the destination tile and fires its
// arrival event. stepsRemaining tells the event gate whether this is the
// final step of the move.
func (s *Session) moveTo(p *Player, dest, stepsRemaining int, out *types.MoveOutcome) error {
	target := s.Board.Tile(dest)
	if target == nil {
		return fmt.Errorf("destination tile %d does not exist", dest)
	}
	cur := s.Board.FindActor(p.ID)
	if cur >= 0 {
		s.Board.RemoveActor(cur, p.ID)
	}
	if err := s.Board.PlaceActor(dest, p.ID); err != nil {
		// Restore so the board never loses the actor
		if cur >= 0 {
			_ = s.Board.PlaceActor(cur, p.ID)
		}
		return err
	}
	out.FinalTile = dest

	finalStep := stepsRemaining == 0
	s.fireEvent(target, p, finalStep, out)

	// Reaching the last tile only wins outright when no battle claimed
	// the arrival; a boss fight there decides the game itself.
	if dest == s.Board.FinalTile && s.Battle == nil && out.BattleID == "" && s.Winner == "" && p.Status.Alive {
		s.declareWinner(p)
		out.Winner = p.ID
		return nil
	}

	// Landing on an occupied tile at rest starts a fight
	if finalStep && s.Battle == nil && s.Winner == "" && p.Status.Alive {
		s.checkCollision(target, p, out)
	}
	return nil
}

// moveBackward pushes the player toward the start over the back edges.
// It never offers path choices, but every step keeps the usual event
// discipline: hazards spring in passing, the landing tile pays out, and
// an occupied landing still means a fight. The push is forced, so a stun
// picked up along the way does not stop it; it stops early only at the
// starting tile or when a battle claims a step.
func (s *Session) moveBackward(p *Player, steps int) error {
	cur := s.Board.FindActor(p.ID)
	if cur < 0 {
		return fmt.Errorf("actor %s is not on the board", p.ID)
	}
	out := &types.MoveOutcome{ActorID: p.ID, FinalTile: cur}

	for steps > 0 {
		if s.Winner != "" || !p.Status.Alive {
			break
		}
		tile := s.Board.Tile(cur)
		if tile == nil || len(tile.Back) == 0 {
			break
		}

		steps--
		if err := s.moveTo(p, tile.Back[0], steps, out); err != nil {
			return err
		}
		cur = out.FinalTile

		if s.Battle != nil || out.BattleID != "" {
			break
		}
	}

	s.logger.Info("actor knocked back",
		zap.String("player_id", p.ID),
		zap.Int("landed", cur))
	s.notify("knockback", map[string]interface{}{"actor_id": p.ID, "tile": cur})
	return nil
}

// checkCollision starts a player-versus-player battle when the tile holds
// more than one living occupant. With three or more, two are drawn at random.
func (s *Session) checkCollision(tile *Tile, arriving *Player, out *types.MoveOutcome) {
	candidates := make([]*Player, 0, len(tile.Occupants))
	for _, id := range tile.Occupants {
		if id == arriving.ID {
			continue
		}
		if other := s.FindPlayer(id); other != nil && other.Status.Alive {
			candidates = append(candidates, other)
		}
	}
	if len(candidates) == 0 {
		return
	}
	opponent := candidates[pick(s.roller, len(candidates))]
	s.logger.Info("collision battle",
		zap.String("session_id", s.ID),
		zap.String("a", arriving.ID),
		zap.String("b", opponent.ID))
	s.startPvPBattle(arriving, opponent, out)
}

// swapActors exchanges the board positions of two actors
func (s *Session) swapActors(a, b *Player) error {
	ta := s.Board.FindActor(a.ID)
	tb := s.Board.FindActor(b.ID)
	if ta < 0 || tb < 0 {
		return errors.New("both actors must be on the board to swap")
	}
	s.Board.RemoveActor(ta, a.ID)
	s.Board.RemoveActor(tb, b.ID)
	if err := s.Board.PlaceActor(tb, a.ID); err != nil {
		return err
	}
	return s.Board.PlaceActor(ta, b.ID)
}
