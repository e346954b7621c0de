package game

import "fmt"

// Item ids. The catalog is fixed; items are constructed through the factory
// so an unknown id fails loudly instead of corrupting inventory accounting.
const (
	ItemLasso = iota
	ItemShovel
	ItemVest
	ItemPoisonCrossbow
	ItemMirageTeleporter
	ItemCursedCoffin
	ItemRiggedDice
	ItemVS
	ItemTumbleweed
	ItemMagicCarpet
	ItemWindStaff
)

// Item is an immutable definition bound to its owner at creation time
type Item struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Effect   string `json:"effect"`
	Targeted bool   `json:"targeted"`
	Usable   bool   `json:"usable"`
}

type itemDef struct {
	name     string
	effect   string
	targeted bool
	usable   bool
	price    int
}

var itemCatalog = map[int]itemDef{
	ItemLasso:            {name: "Lasso", effect: "Pick a player and catch them with the lasso, making them unable to move for 1 round.", targeted: true, usable: true, price: 10},
	ItemShovel:           {name: "Shovel", effect: "Pick a player and dig an underground tunnel to their tile.", targeted: true, usable: true, price: 25},
	ItemVest:             {name: "Vest", effect: "Grants immunity to the next targeted item. Removed once used.", targeted: false, usable: true, price: 15},
	ItemPoisonCrossbow:   {name: "Poison Crossbow", effect: "Pick a player and shoot them with a poison dart. This stuns them for 1 round.", targeted: true, usable: true, price: 10},
	ItemMirageTeleporter: {name: "Mirage Teleporter", effect: "Pick a player and instantly swap places with them.", targeted: true, usable: true, price: 30},
	ItemCursedCoffin:     {name: "Cursed Coffin", effect: "Place a trap on your current tile. The next player to land here gets stuck for 2 rounds.", targeted: false, usable: true, price: 15},
	ItemRiggedDice:       {name: "Rigged Dice", effect: "Choose your dice roll value for this turn.", targeted: false, usable: true, price: 10},
	ItemVS:               {name: "V.S.", effect: "Pick a player to battle with!", targeted: true, usable: true, price: 10},
	ItemTumbleweed:       {name: "Tumbleweed", effect: "Ride a tumbleweed and move forward 3 spaces.", targeted: false, usable: true, price: 15},
	ItemMagicCarpet:      {name: "Magic Carpet", effect: "Carries you to any tile on the map.", targeted: false, usable: true, price: 50},
	ItemWindStaff:        {name: "Wind Staff", effect: "Pick a player to target and blow them back 3 spaces.", targeted: true, usable: true, price: 25},
}

// lowTierItems is the restricted drop pool for rare NPC loot
var lowTierItems = []int{ItemLasso, ItemPoisonCrossbow, ItemRiggedDice, ItemVS, ItemTumbleweed}

// ItemCount is the size of the item catalog
var ItemCount = len(itemCatalog)

// NewItem constructs a catalog item. Unknown ids are an error: a
// silently-wrong item is a correctness hazard for gold and inventory
// accounting.
func NewItem(id int) (*Item, error) {
	def, ok := itemCatalog[id]
	if !ok {
		return nil, fmt.Errorf("unknown item type %d", id)
	}
	return &Item{
		ID:       id,
		Name:     def.name,
		Effect:   def.effect,
		Targeted: def.targeted,
		Usable:   def.usable,
	}, nil
}

// ItemPrice returns the shop price for an item id, or -1 if unknown
func ItemPrice(id int) int {
	def, ok := itemCatalog[id]
	if !ok {
		return -1
	}
	return def.price
}

// ItemName returns the catalog name for an item id
func ItemName(id int) string {
	def, ok := itemCatalog[id]
	if !ok {
		return "unknown"
	}
	return def.name
}
