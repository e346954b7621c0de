package game

// NPCBehavior is the scripted action an NPC takes on its battle turn
type NPCBehavior func(b *Battle, self, target *Combatant)

// NPC is a scripted opponent. Instances are created fresh per encounter so
// one battle never sees another battle's leftover health.
type NPC struct {
	ID             string
	Name           string
	Health         int
	MaxHealth      int
	GoldDrop       int
	ItemDropChance float64
	Boss           bool
	Behavior       NPCBehavior
}

// NewNPC builds a battle-ready NPC from its spec
func NewNPC(spec NPCSpec) *NPC {
	return &NPC{
		ID:             spec.ID,
		Name:           spec.Name,
		Health:         spec.Health,
		MaxHealth:      spec.Health,
		GoldDrop:       spec.GoldDrop,
		ItemDropChance: spec.ItemDropChance,
		Boss:           spec.Boss,
		Behavior:       aggressiveBehavior,
	}
}

// aggressiveBehavior always attacks with a plain die roll
func aggressiveBehavior(b *Battle, self, target *Combatant) {
	roll := b.session.roller.Roll(b.session.cfg.Game.DieSides)
	b.resolveAttack(self, target, roll)
}
