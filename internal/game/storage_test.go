package game

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/user/frontier-trail/internal/types"
)

func TestStorageRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.json")
	storage := NewSessionStorage(path)

	saves := map[string]*types.SessionSave{
		"abc": {
			SessionID: "abc",
			TurnOrder: []string{"p2", "p1"},
			TurnIndex: 1,
			Players: []types.PlayerSave{
				{ID: "p1", Name: "Player p1", Position: 7, Gold: 12, Health: 4, MaxHealth: 10, Items: []int{ItemVest}},
				{ID: "p2", Name: "Player p2", Position: 0, Gold: 10, Health: 10, MaxHealth: 10,
					Effects: []types.EffectSave{{Name: EffectLassoStun, Duration: 1}}},
			},
		},
	}
	assert.NoError(t, storage.Save(saves))

	loaded, err := storage.Load()
	assert.NoError(t, err)
	assert.Len(t, loaded, 1)
	assert.Equal(t, saves["abc"].TurnOrder, loaded["abc"].TurnOrder)
	assert.Equal(t, 7, loaded["abc"].Players[0].Position)
	assert.Equal(t, EffectLassoStun, loaded["abc"].Players[1].Effects[0].Name)
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	storage := NewSessionStorage(filepath.Join(t.TempDir(), "nope.json"))
	loaded, err := storage.Load()
	assert.NoError(t, err)
	assert.Empty(t, loaded)
}
