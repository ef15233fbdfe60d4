package room

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/dungeon/ecs"
	"github.com/milk9111/dungeon/ecs/component"
)

func newTestRegistry(t *testing.T) (*Registry, *ecs.World) {
	t.Helper()
	w := ecs.NewWorld()
	r := NewRegistry()
	require.NoError(t, r.AddRoom(1, component.AABB{W: 256, H: 176}, false))
	require.NoError(t, r.AddRoom(40, component.AABB{Y: 208, W: 256, H: 176}, true))
	return r, w
}

func TestRegistryLookups(t *testing.T) {
	r, w := newTestRegistry(t)
	door := w.CreateEntity()
	chest := w.CreateEntity()
	pot := w.CreateEntity()
	enemy := w.CreateEntity()

	require.NoError(t, r.AddDoor(1, 10, door))
	require.NoError(t, r.AddChest(1, 5, chest))
	require.NoError(t, r.AddPot(1, pot))
	require.NoError(t, r.AddEnemy(40, enemy))
	r.Seal()

	got, ok := r.Door(1, 10)
	assert.True(t, ok)
	assert.Equal(t, door, got)

	_, ok = r.Door(40, 10)
	assert.False(t, ok, "door ids are scoped to their room")

	got, ok = r.Chest(1, 5)
	assert.True(t, ok)
	assert.Equal(t, chest, got)

	roomID, ok := r.RoomOf(enemy)
	assert.True(t, ok)
	assert.Equal(t, 40, roomID)

	var visited []ecs.Entity
	r.ForEachEntity(1, func(e ecs.Entity) { visited = append(visited, e) })
	assert.ElementsMatch(t, []ecs.Entity{door, chest, pot}, visited)

	r.ForEachEntity(99, func(ecs.Entity) { t.Fatalf("unknown room should visit nothing") })

	assert.Equal(t, []int{1, 40}, r.IDs())
	var order []int
	r.ForEachRoom(func(rm *Room) { order = append(order, rm.ID) })
	assert.Equal(t, []int{1, 40}, order)

	rm, ok := r.Room(40)
	require.True(t, ok)
	assert.True(t, rm.HasEnemyGroup)
}

func TestRegistryErrors(t *testing.T) {
	tests := []struct {
		name string
		run  func(r *Registry, w *ecs.World) error
		want error
	}{
		{
			name: "duplicate room",
			run:  func(r *Registry, _ *ecs.World) error { return r.AddRoom(1, component.AABB{}, false) },
			want: ErrDuplicate,
		},
		{
			name: "unknown room",
			run:  func(r *Registry, w *ecs.World) error { return r.AddPot(7, w.CreateEntity()) },
			want: ErrUnknownRoom,
		},
		{
			name: "entity in two rooms",
			run: func(r *Registry, w *ecs.World) error {
				e := w.CreateEntity()
				if err := r.AddPot(1, e); err != nil {
					return err
				}
				return r.AddPot(40, e)
			},
			want: ErrEntityOwned,
		},
		{
			name: "duplicate door id",
			run: func(r *Registry, w *ecs.World) error {
				if err := r.AddDoor(1, 10, w.CreateEntity()); err != nil {
					return err
				}
				return r.AddDoor(1, 10, w.CreateEntity())
			},
			want: ErrDuplicate,
		},
		{
			name: "invalid entity",
			run:  func(r *Registry, _ *ecs.World) error { return r.AddSwitch(1, 0) },
			want: ErrInvalidRoute,
		},
		{
			name: "sealed",
			run: func(r *Registry, w *ecs.World) error {
				r.Seal()
				return r.AddEnemy(40, w.CreateEntity())
			},
			want: ErrSealed,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, w := newTestRegistry(t)
			assert.ErrorIs(t, tc.run(r, w), tc.want)
		})
	}
}
