package entity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/milk9111/dungeon/ecs"
	"github.com/milk9111/dungeon/ecs/component"
	"github.com/milk9111/dungeon/levels"
	"github.com/milk9111/dungeon/prefabs"
	"github.com/milk9111/dungeon/room"
	"github.com/milk9111/dungeon/store"
)

func buildCave(t *testing.T, st store.Persistence) (*ecs.World, *room.Registry) {
	t.Helper()
	g, err := levels.LoadLevelFromFS("cave")
	require.NoError(t, err)
	catalog, err := prefabs.LoadCatalog()
	require.NoError(t, err)

	w := ecs.NewWorld()
	reg, err := BuildLevel(w, LevelOptions{
		Context:  context.Background(),
		Geometry: g,
		Catalog:  catalog,
		Store:    st,
	})
	require.NoError(t, err)
	return w, reg
}

func TestBuildLevelCave(t *testing.T) {
	w, reg := buildCave(t, store.NewMemory())

	assert.True(t, reg.Sealed())
	assert.Equal(t, []int{1, 40, 50}, reg.IDs())

	r1, ok := reg.Room(1)
	require.True(t, ok)
	assert.Len(t, r1.Doors, 2)
	assert.Len(t, r1.Switches, 1)
	assert.Len(t, r1.Pots, 2)
	assert.Len(t, r1.Chests, 1)
	assert.Empty(t, r1.Enemies)
	assert.False(t, r1.HasEnemyGroup)

	r50, ok := reg.Room(50)
	require.True(t, ok)
	assert.Len(t, r50.Enemies, 1, "boss spawns while undefeated")

	reg.ForEachRoom(func(rm *room.Room) {
		reg.ForEachEntity(rm.ID, func(e ecs.Entity) {
			assert.True(t, ecs.Has(w, e, component.DisabledComponent), "entity %v starts disabled", e)
			member, ok := ecs.Get(w, e, component.RoomMemberComponent)
			assert.True(t, ok)
			assert.Equal(t, rm.ID, member.RoomID)
		})
	})

	e, ok := reg.Door(1, 10)
	require.True(t, ok)
	door, _ := ecs.Get(w, e, component.DoorComponent)
	assert.True(t, door.Open, "plain doors start open")

	e, ok = reg.Door(1, 11)
	require.True(t, ok)
	door, _ = ecs.Get(w, e, component.DoorComponent)
	assert.True(t, door.Locked())

	e, ok = reg.Chest(1, 5)
	require.True(t, ok)
	chest, _ := ecs.Get(w, e, component.ChestComponent)
	assert.False(t, chest.Revealed)
	assert.Equal(t, component.AABB{X: 192, Y: 32, W: 16, H: 16}, bodyOf(w, e))

	assert.Positive(t, w.PhysicsWorld().ShapeCount(ecs.TerrainPlayer))
	assert.Positive(t, w.PhysicsWorld().ShapeCount(ecs.TerrainEnemy))
}

func TestBuildLevelSkipsEnemyWithoutPrefab(t *testing.T) {
	g, err := levels.LoadLevelFromFS("cave")
	require.NoError(t, err)
	catalog, err := prefabs.LoadCatalog()
	require.NoError(t, err)
	delete(catalog.Enemies, component.SpeciesFlyingRanged.String())

	core, logs := observer.New(zapcore.WarnLevel)
	w := ecs.NewWorld()
	reg, err := BuildLevel(w, LevelOptions{
		Context:  context.Background(),
		Geometry: g,
		Catalog:  catalog,
		Logger:   zap.New(core),
	})
	require.NoError(t, err)

	r40, ok := reg.Room(40)
	require.True(t, ok)
	require.NotEmpty(t, r40.Enemies)
	for _, e := range r40.Enemies {
		en, _ := ecs.Get(w, e, component.EnemyComponent)
		assert.NotEqual(t, component.SpeciesFlyingRanged, en.Species)
	}
	r50, _ := reg.Room(50)
	assert.Len(t, r50.Enemies, 1)
	assert.Equal(t, 1, logs.FilterMessage("no prefab for enemy, skipping").Len())
}

func TestBuildLevelAppliesStoredState(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	require.NoError(t, st.UpdateDoorData(ctx, "CAVE", 1, 11, true))
	require.NoError(t, st.UpdateChestData(ctx, "CAVE", 1, 5, true, true))
	require.NoError(t, st.DefeatedAreaBoss(ctx, "CAVE"))

	w, reg := buildCave(t, st)

	e, _ := reg.Door(1, 11)
	door, _ := ecs.Get(w, e, component.DoorComponent)
	assert.True(t, door.Open)

	e, _ = reg.Chest(1, 5)
	chest, _ := ecs.Get(w, e, component.ChestComponent)
	assert.True(t, chest.Revealed)
	assert.True(t, chest.Opened)

	r50, _ := reg.Room(50)
	assert.Empty(t, r50.Enemies, "a defeated boss does not respawn")
}

func TestStartPosition(t *testing.T) {
	g, err := levels.LoadLevelFromFS("CAVE")
	require.NoError(t, err)

	tests := []struct {
		name   string
		roomID int
		doorID int
		wantX  float64
		wantY  float64
		ok     bool
	}{
		// door 10 faces down; center (128,168), start 40 above it
		{name: "through down door", roomID: 1, doorID: 10, wantX: 120, wantY: 120, ok: true},
		// door 20 faces up; center (128,216), start 40 below it
		{name: "through up door", roomID: 40, doorID: 20, wantX: 120, wantY: 248, ok: true},
		{name: "unknown door centers", roomID: 1, doorID: 99, wantX: 120, wantY: 80, ok: true},
		{name: "unknown room", roomID: 7, doorID: 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			x, y, ok := StartPosition(g, tc.roomID, tc.doorID, 40, 16, 16)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.InDelta(t, tc.wantX, x, 1e-9)
				assert.InDelta(t, tc.wantY, y, 1e-9)
			}
		})
	}
}

func TestFitZoom(t *testing.T) {
	spec := prefabs.CameraSpec{Canvas: prefabs.SizeSpec{Width: 256, Height: 224}, Margin: 0.05}
	assert.InDelta(t, 0.95, FitZoom(spec, component.AABB{W: 256, H: 176}), 1e-9)
	assert.InDelta(t, 224*0.95/448, FitZoom(spec, component.AABB{W: 256, H: 448}), 1e-9)
	assert.Equal(t, 1.0, FitZoom(spec, component.AABB{}))
}

func bodyOf(w *ecs.World, e ecs.Entity) component.AABB {
	tr, _ := ecs.Get(w, e, component.TransformComponent)
	col, _ := ecs.Get(w, e, component.ColliderComponent)
	return component.AABB{X: tr.X, Y: tr.Y, W: col.Width, H: col.Height}
}
