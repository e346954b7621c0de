package game

// Player is a human participant: identity plus owned status and inventory.
// The selected character is cosmetic only.
type Player struct {
	ID        string
	Name      string
	Character int
	Status    *Status
	Inventory *Inventory
}

// NewPlayer creates a player with full health and starting gold
func NewPlayer(id, name string, health, gold, inventoryCap int) *Player {
	return &Player{
		ID:        id,
		Name:      name,
		Status:    NewStatus(health, gold),
		Inventory: NewInventory(inventoryCap),
	}
}

// PickCharacter records the player's chosen character identity
func (p *Player) PickCharacter(characterID int) {
	p.Character = characterID
}
