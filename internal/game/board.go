package game

import (
	"errors"
	"fmt"
)

// Tile is a single node of the board graph
type Tile struct {
	Index     int
	Front     []int
	Back      []int
	Event     EventKind
	Occupants []string
}

// AddOccupant records an actor on this tile
func (t *Tile) AddOccupant(actorID string) {
	t.Occupants = append(t.Occupants, actorID)
}

// RemoveOccupant removes an actor from this tile; unknown ids are ignored
func (t *Tile) RemoveOccupant(actorID string) {
	for i, id := range t.Occupants {
		if id == actorID {
			t.Occupants = append(t.Occupants[:i], t.Occupants[i+1:]...)
			return
		}
	}
}

// HasOccupant reports whether the actor is on this tile
func (t *Tile) HasOccupant(actorID string) bool {
	for _, id := range t.Occupants {
		if id == actorID {
			return true
		}
	}
	return false
}

// Board is the tile graph. Adjacency is precomputed at build time; back
// edges are the reverse of forward edges, ordered so backward movement
// always follows the first entry. Merge tiles may reorder their back
// edges explicitly in the layout.
type Board struct {
	Tiles     []*Tile
	FinalTile int
}

// NewBoard builds the tile graph from a layout and validates it
func NewBoard(layout *BoardLayout) (*Board, error) {
	if layout == nil || len(layout.Tiles) == 0 {
		return nil, errors.New("board layout is empty")
	}

	tiles := make([]*Tile, len(layout.Tiles))
	explicitBack := make(map[int][]int)
	for _, spec := range layout.Tiles {
		if spec.Index < 0 || spec.Index >= len(layout.Tiles) {
			return nil, fmt.Errorf("tile index %d out of range", spec.Index)
		}
		if tiles[spec.Index] != nil {
			return nil, fmt.Errorf("duplicate tile index %d", spec.Index)
		}
		tiles[spec.Index] = &Tile{
			Index:     spec.Index,
			Front:     append([]int(nil), spec.Next...),
			Event:     EventKindFromName(spec.Event),
			Occupants: make([]string, 0),
		}
		if len(spec.Back) > 0 {
			explicitBack[spec.Index] = spec.Back
		}
	}
	for i, t := range tiles {
		if t == nil {
			return nil, fmt.Errorf("missing tile index %d", i)
		}
	}

	// Derive back adjacency as the reverse of forward edges, in ascending
	// predecessor order.
	for _, t := range tiles {
		for _, next := range t.Front {
			if next < 0 || next >= len(tiles) {
				return nil, fmt.Errorf("tile %d links to invalid tile %d", t.Index, next)
			}
			tiles[next].Back = append(tiles[next].Back, t.Index)
		}
	}

	// An explicit back list overrides the derived order. It must name
	// exactly the tile's predecessors, it only picks which one backward
	// movement follows first.
	for index, back := range explicitBack {
		if !samePredecessors(back, tiles[index].Back) {
			return nil, fmt.Errorf("tile %d back edges %v do not match its predecessors %v", index, back, tiles[index].Back)
		}
		tiles[index].Back = append([]int(nil), back...)
	}

	// Board construction and decision placement must stay consistent:
	// every branching tile carries a Decision event and vice versa.
	for _, t := range tiles {
		if len(t.Front) > 1 && t.Event != EventDecision {
			return nil, fmt.Errorf("tile %d branches but has event %q, want decision", t.Index, t.Event)
		}
		if t.Event == EventDecision && len(t.Front) < 2 {
			return nil, fmt.Errorf("tile %d has a decision event but does not branch", t.Index)
		}
	}

	return &Board{Tiles: tiles, FinalTile: len(tiles) - 1}, nil
}

// samePredecessors reports whether a and b hold the same tile indices,
// order aside
func samePredecessors(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[int]int, len(a))
	for _, v := range a {
		counts[v]++
	}
	for _, v := range b {
		counts[v]--
		if counts[v] < 0 {
			return false
		}
	}
	return true
}

// Tile returns the tile at the index, or nil if out of range
func (b *Board) Tile(index int) *Tile {
	if index < 0 || index >= len(b.Tiles) {
		return nil
	}
	return b.Tiles[index]
}

// FindActor returns the tile index holding the actor, or -1 if absent.
// Linear scan; fine at board scale.
func (b *Board) FindActor(actorID string) int {
	for _, t := range b.Tiles {
		if t.HasOccupant(actorID) {
			return t.Index
		}
	}
	return -1
}

// PlaceActor adds the actor to a tile's occupant set
func (b *Board) PlaceActor(index int, actorID string) error {
	t := b.Tile(index)
	if t == nil {
		return fmt.Errorf("invalid tile index %d", index)
	}
	t.AddOccupant(actorID)
	return nil
}

// RemoveActor removes the actor from a tile's occupant set
func (b *Board) RemoveActor(index int, actorID string) {
	if t := b.Tile(index); t != nil {
		t.RemoveOccupant(actorID)
	}
}
