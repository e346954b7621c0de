package game

import "errors"

// Inventory errors with stable messages the transport layer can relay
var (
	ErrInventoryFull = errors.New("inventory full")
	ErrItemNotFound  = errors.New("item not found in inventory")
)

// Inventory is a bounded, ordered item collection owned by one actor
type Inventory struct {
	items    []*Item
	capacity int
}

// NewInventory creates an empty inventory with the given capacity
func NewInventory(capacity int) *Inventory {
	return &Inventory{
		items:    make([]*Item, 0, capacity),
		capacity: capacity,
	}
}

// Items returns the held items in order
func (inv *Inventory) Items() []*Item {
	return inv.items
}

// ItemIDs returns the held item ids in order
func (inv *Inventory) ItemIDs() []int {
	ids := make([]int, len(inv.items))
	for i, item := range inv.items {
		ids[i] = item.ID
	}
	return ids
}

// Len returns the number of held items
func (inv *Inventory) Len() int {
	return len(inv.items)
}

// CanAdd reports whether there is room for another item
func (inv *Inventory) CanAdd() bool {
	return len(inv.items) < inv.capacity
}

// Add appends an already-constructed item, used for theft transfers
func (inv *Inventory) Add(item *Item) error {
	if !inv.CanAdd() {
		return ErrInventoryFull
	}
	inv.items = append(inv.items, item)
	return nil
}

// Obtain constructs the item via the factory and appends it. Rejects with
// no mutation when at capacity.
func (inv *Inventory) Obtain(itemID int) (*Item, error) {
	if !inv.CanAdd() {
		return nil, ErrInventoryFull
	}
	item, err := NewItem(itemID)
	if err != nil {
		return nil, err
	}
	inv.items = append(inv.items, item)
	return item, nil
}

// ObtainRandom obtains a uniformly random catalog item
func (inv *Inventory) ObtainRandom(r Roller) (*Item, error) {
	return inv.Obtain(pick(r, ItemCount))
}

// Find returns the first held item with the id, or nil
func (inv *Inventory) Find(itemID int) *Item {
	for _, item := range inv.items {
		if item.ID == itemID {
			return item
		}
	}
	return nil
}

// Has reports whether an item with the id is held
func (inv *Inventory) Has(itemID int) bool {
	return inv.Find(itemID) != nil
}

// Remove strips the first held item with the id
func (inv *Inventory) Remove(itemID int) error {
	for i, item := range inv.items {
		if item.ID == itemID {
			inv.items = append(inv.items[:i], inv.items[i+1:]...)
			return nil
		}
	}
	return ErrItemNotFound
}

// RemoveRandom removes and returns a uniformly random item, or nil when
// the inventory is empty. Used for theft and loss.
func (inv *Inventory) RemoveRandom(r Roller) *Item {
	if len(inv.items) == 0 {
		return nil
	}
	i := pick(r, len(inv.items))
	item := inv.items[i]
	inv.items = append(inv.items[:i], inv.items[i+1:]...)
	return item
}
