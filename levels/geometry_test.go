package levels

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/dungeon/ecs/component"
	"github.com/milk9111/dungeon/loot"
)

func TestLoadEmbeddedCave(t *testing.T) {
	g, err := LoadLevelFromFS("cave")
	require.NoError(t, err)
	assert.Equal(t, "CAVE", g.Name)
	// the start room has no enemy layer
	require.Len(t, g.Warnings, 1)
	assert.ErrorIs(t, g.Warnings[0], ErrLayerNotFound)

	require.Len(t, g.Rooms, 3)
	assert.Equal(t, []int{1, 40, 50}, []int{g.Rooms[0].ID, g.Rooms[1].ID, g.Rooms[2].ID})

	start, ok := g.Room(1)
	require.True(t, ok)
	assert.Equal(t, Rect{X: 0, Y: 0, W: 256, H: 176}, start.Bounds)
	require.Len(t, start.Doors, 2)
	assert.Equal(t, component.DirDown, start.Doors[0].Direction)
	assert.Equal(t, 40, start.Doors[0].TargetRoomID)
	assert.Equal(t, component.DoorLock, start.Doors[1].Type)

	require.Len(t, start.Switches, 1)
	assert.Equal(t, component.ActionRevealChest, start.Switches[0].Action)
	assert.Equal(t, []int{5}, start.Switches[0].TargetIDs)
	// tile objects are re-anchored to their top-left corner
	assert.Equal(t, Rect{X: 48, Y: 48, W: 16, H: 16}, start.Switches[0].Rect)

	require.Len(t, start.Chests, 1)
	assert.Equal(t, loot.SmallKey, start.Chests[0].Contents)
	assert.Equal(t, component.TrapSwitch, start.Chests[0].RevealTrigger)
	assert.False(t, start.HasEnemyLayer)

	boss, _ := g.Room(50)
	require.Len(t, boss.Enemies, 1)
	assert.Equal(t, component.SpeciesBoss, boss.Enemies[0].Species)

	assert.True(t, g.Terrain.Solid(0, 0))
	assert.False(t, g.Terrain.Solid(7, 10), "door gap")
	assert.True(t, g.EnemyTerrain.Solid(7, 10), "enemies cannot leave through doors")
}

func TestFromMapWarnings(t *testing.T) {
	m := &Map{
		Width: 4, Height: 4, TileWidth: 16, TileHeight: 16,
		Layers: []Layer{
			{Name: "rooms", Type: "objectgroup", Objects: []Object{{ID: 1, Width: 64, Height: 64}}},
		},
	}
	g, err := FromMap("EMPTY", m)
	require.NoError(t, err)
	require.Len(t, g.Rooms, 1)

	var layers, tilesets int
	for _, w := range g.Warnings {
		switch {
		case errors.Is(w, ErrLayerNotFound):
			layers++
		case errors.Is(w, ErrTilesetNotFound):
			tilesets++
		}
	}
	// collision, enemy_collision and five per-room object layers
	assert.Equal(t, 7, layers)
	assert.Equal(t, 1, tilesets)
	assert.False(t, g.Rooms[0].HasEnemyLayer)
}

func TestFromMapInvalidEnum(t *testing.T) {
	cases := []struct {
		name  string
		layer string
		props []Property
	}{
		{"bad direction", "doors", []Property{{Name: "direction", Value: []byte(`"SIDEWAYS"`)}}},
		{"bad action", "switches", []Property{{Name: "action", Value: []byte(`"EXPLODE"`)}}},
		{"bad contents", "chests", []Property{{Name: "contents", Value: []byte(`"SWORD"`)}}},
		{"bad trap", "chests", []Property{{Name: "revealChestTrigger", Value: []byte(`"ALWAYS"`)}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m := &Map{
				TileWidth: 16, TileHeight: 16,
				Layers: []Layer{
					{Name: "rooms", Type: "objectgroup", Objects: []Object{{ID: 1, Width: 64, Height: 64}}},
					{Name: "rooms", Type: "group", Layers: []Layer{
						{Name: "1", Type: "group", Layers: []Layer{
							{Name: c.layer, Type: "objectgroup", Objects: []Object{{ID: 2, Width: 16, Height: 16, Properties: c.props}}},
						}},
					}},
				},
			}
			_, err := FromMap("BROKEN", m)
			require.ErrorIs(t, err, ErrInvalidLevel)
		})
	}
}

func TestUnknownEnemyCodesAreSkipped(t *testing.T) {
	m := &Map{
		Layers: []Layer{
			{Name: "rooms", Type: "objectgroup", Objects: []Object{{ID: 1, Width: 64, Height: 64}}},
			{Name: "rooms/1/enemies", Type: "objectgroup", Objects: []Object{
				{ID: 2, Properties: []Property{{Name: "type", Value: []byte(`9`)}}},
				{ID: 3, Properties: []Property{{Name: "type", Value: []byte(`1`)}}},
			}},
		},
	}
	g, err := FromMap("X", m)
	require.NoError(t, err)
	require.Len(t, g.Rooms[0].Enemies, 1)
	assert.Equal(t, 3, g.Rooms[0].Enemies[0].ID)
}

func TestParseMalformedJSON(t *testing.T) {
	_, err := Parse("BAD", []byte("{"))
	require.ErrorIs(t, err, ErrInvalidLevel)
}

func TestExists(t *testing.T) {
	assert.True(t, Exists("cave"))
	assert.False(t, Exists("FOREST"))
	assert.Contains(t, Names(), "CAVE")
}
