package game

// EventKind tags the behavior attached to a tile. Tiles hold a kind rather
// than a live event object so a trap can disarm itself with a single write.
type EventKind int

const (
	EventNothing EventKind = iota
	EventSafe
	EventAmbush
	EventBattleBuff
	EventChest
	EventShop
	EventSlots
	EventMine
	EventDecision
	EventCoffinTrap
	EventBoss
)

// EventInfo is the immutable descriptor for one event kind
type EventInfo struct {
	Name        string
	Description string
	Effect      string
}

var eventTable = map[EventKind]EventInfo{
	EventNothing:    {Name: "nothing", Description: "Default", Effect: "Nothing happens here."},
	EventSafe:       {Name: "safe", Description: "This is a safe area", Effect: "You feel protected here. Gain gold."},
	EventAmbush:     {Name: "ambush", Description: "Ambushed by a random thug!", Effect: "Start a battle!"},
	EventBattleBuff: {Name: "battle_buff", Description: "You get a fancy drink and chug it.", Effect: "Gain a battle buff for your next battle."},
	EventChest:      {Name: "chest", Description: "You find a chest!", Effect: "Receive a random item."},
	EventShop:       {Name: "shop", Description: "Wim's Wares! A chance to buy useful items.", Effect: "Purchase items with your gold."},
	EventSlots:      {Name: "slots", Description: "Try your luck at the slots!", Effect: "Gain or lose a random amount of gold."},
	EventMine:       {Name: "mine", Description: "Enter the mines and dig for gold.", Effect: "Gain a random amount of gold."},
	EventDecision:   {Name: "decision", Description: "You come across a fork in the road.", Effect: "Make a choice that affects your path."},
	EventCoffinTrap: {Name: "coffin_trap", Description: "You dig up a cursed coffin.", Effect: "You are stuck in the cursed tomb for 2 rounds!"},
	EventBoss:       {Name: "boss", Description: "Spindle, the Bandit King, blocks the road.", Effect: "Defeat him to win the game!"},
}

// Info returns the descriptor for the event kind
func (k EventKind) Info() EventInfo {
	if info, ok := eventTable[k]; ok {
		return info
	}
	return eventTable[EventNothing]
}

// String returns the event's stable name
func (k EventKind) String() string {
	return k.Info().Name
}

// EventKindFromName resolves a name to a kind, degrading to Nothing for
// unknown names so a stale data file cannot crash board construction.
func EventKindFromName(name string) EventKind {
	for kind, info := range eventTable {
		if info.Name == name {
			return kind
		}
	}
	return EventNothing
}

// firesOnPassThrough reports whether the event triggers on intermediate
// steps of a move sequence. Reward-type events only fire on the final
// landing step so passing through a reward tile yields nothing.
func (k EventKind) firesOnPassThrough() bool {
	switch k {
	case EventAmbush, EventBattleBuff, EventDecision, EventCoffinTrap, EventBoss:
		return true
	}
	return false
}
