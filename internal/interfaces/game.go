package interfaces

import "github.com/user/frontier-trail/internal/types"

// Notifier defines the interface for pushing server-initiated events to clients
type Notifier interface {
	Notify(sessionID, event string, payload interface{})
}

// SessionManager defines the interface for game operations
type SessionManager interface {
	StartSession(playerCount int) (*types.Snapshot, error)
	AdvanceTurnByRoll(sessionID, actorID string) (*types.MoveOutcome, error)
	SubmitDecision(sessionID, actorID string, chosenTile, stepsRemaining int) (*types.MoveOutcome, error)
	SubmitBattleAction(sessionID, actorID, action string) (*types.BattleView, error)
	UseItem(sessionID, actorID string, itemID int, targetID string, value int) error
	ObtainItem(sessionID, actorID string, itemID int) error
	BuyShopItem(sessionID, actorID string, itemID int) error
	Snapshot(sessionID string) (*types.Snapshot, error)
}
