package system

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/milk9111/dungeon/ecs"
	"github.com/milk9111/dungeon/ecs/component"
	"github.com/milk9111/dungeon/ecs/entity"
	"github.com/milk9111/dungeon/event"
	"github.com/milk9111/dungeon/loot"
	"github.com/milk9111/dungeon/store"
)

func TestTryUnlock(t *testing.T) {
	mem := store.NewMemory()
	h := newHarness(t, harnessOptions{store: mem, inventory: mem})
	ctx := context.Background()
	e, _ := h.door(1, 11)

	assert.False(t, h.items.TryUnlock(h.w, e), "no key")
	_, d := h.door(1, 11)
	assert.True(t, d.Locked())

	require.NoError(t, mem.AddDungeonItem(ctx, "CAVE", loot.SmallKey))
	assert.True(t, h.items.TryUnlock(h.w, e))
	_, d = h.door(1, 11)
	assert.True(t, d.Open)

	inv, err := mem.AreaInventory(ctx, "CAVE")
	require.NoError(t, err)
	assert.Equal(t, 0, inv.Keys)
	rec, ok, err := mem.Door(ctx, "CAVE", 1, 11)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, rec.Unlocked)

	assert.False(t, h.items.TryUnlock(h.w, e), "already open")
}

func TestOpenChest(t *testing.T) {
	mem := store.NewMemory()
	h := newHarness(t, harnessOptions{store: mem, inventory: mem})
	ctx := context.Background()
	h.enter(40)
	e, _ := h.chest(40, 25)

	assert.False(t, h.items.OpenChest(h.w, e), "hidden chests stay shut")
	require.True(t, h.items.RevealChest(h.w, e))
	assert.True(t, h.items.OpenChest(h.w, e))
	assert.False(t, h.items.OpenChest(h.w, e))

	inv, err := mem.AreaInventory(ctx, "CAVE")
	require.NoError(t, err)
	assert.True(t, inv.Map)
	assert.Equal(t, []loot.Kind{loot.Sword}, h.minted)

	rec, ok, err := mem.Chest(ctx, "CAVE", 40, 25)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, store.ChestRecord{Revealed: true, Opened: true}, rec)
}

func TestOpenChestSmallKeyIsNotMinted(t *testing.T) {
	mem := store.NewMemory()
	h := newHarness(t, harnessOptions{store: mem, inventory: mem})
	e, _ := h.chest(1, 5)

	require.True(t, h.items.RevealChest(h.w, e))
	require.True(t, h.items.OpenChest(h.w, e))

	inv, err := mem.AreaInventory(context.Background(), "CAVE")
	require.NoError(t, err)
	assert.Equal(t, 1, inv.Keys)
	assert.Empty(t, h.minted)
}

func TestChestWriteFailuresKeepLiveState(t *testing.T) {
	st := mockStore(t, false)
	gomock.InOrder(
		st.EXPECT().UpdateChestData(gomock.Any(), "CAVE", 40, 25, true, false).Return(errors.New("redis: connection refused")),
		st.EXPECT().UpdateChestData(gomock.Any(), "CAVE", 40, 25, true, true).Return(errors.New("redis: connection refused")),
	)
	h := newHarness(t, harnessOptions{store: st})
	h.enter(40)
	e, _ := h.chest(40, 25)

	require.True(t, h.items.RevealChest(h.w, e))
	_, c := h.chest(40, 25)
	assert.True(t, c.Revealed)

	require.True(t, h.items.OpenChest(h.w, e))
	_, c = h.chest(40, 25)
	assert.True(t, c.Revealed)
	assert.True(t, c.Opened)
	assert.Equal(t, []loot.Kind{loot.Sword}, h.minted)

	assert.False(t, h.items.OpenChest(h.w, e), "already open")
	assert.False(t, h.items.RevealChest(h.w, e), "already revealed")
}

func TestDamageEnemy(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	h.enter(50)
	rm, _ := h.deps.Registry.Room(50)
	boss := rm.Enemies[0]

	require.True(t, h.items.DamageEnemy(h.w, boss, 1))
	assert.True(t, ecs.Has(h.w, boss, component.InvulnerableComponent))
	assert.False(t, h.items.DamageEnemy(h.w, boss, 1), "invulnerable")

	ecs.Remove(h.w, boss, component.InvulnerableComponent)
	require.True(t, h.items.DamageEnemy(h.w, boss, 100))
	en, _ := ecs.Get(h.w, boss, component.EnemyComponent)
	assert.False(t, en.Alive)
	assert.True(t, ecs.Has(h.w, boss, component.DisabledComponent))
	assert.Equal(t, []event.Topic{event.EnemyDestroyed, event.BossDefeated}, h.topics())

	h.items.EnableRoom(h.w, 50)
	assert.True(t, ecs.Has(h.w, boss, component.DisabledComponent), "defeated enemies stay disabled")
}

func TestDamagePlayer(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	full := h.catalog.Player.Health

	require.True(t, h.items.DamagePlayer(h.w, 1))
	assert.False(t, h.items.DamagePlayer(h.w, 1), "invulnerable")

	ecs.Remove(h.w, h.player, component.InvulnerableComponent)
	require.True(t, h.items.DamagePlayer(h.w, full))
	p, _ := ecs.Get(h.w, h.player, component.PlayerComponent)
	assert.True(t, p.Defeated)
	assert.Equal(t, []event.Topic{event.PlayerDefeated}, h.topics())
	assert.False(t, h.items.DamagePlayer(h.w, 1))
}

func TestDisableRoomResets(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	h.enter(40)
	rm, _ := h.deps.Registry.Room(40)

	pot := rm.Pots[0]
	home, _ := ecs.Get(h.w, pot, component.PotComponent)
	h.moveTo(pot, 10, 10)
	ecs.Update(h.w, pot, component.PotComponent, func(p *component.Pot) { p.Thrown = true })

	enemy := rm.Enemies[0]
	h.moveTo(enemy, 99, 99)

	proj, err := entity.NewProjectile(h.w, h.catalog.Enemies["drow"].Projectile, enemy, 40, 50, 50, 1, 0)
	require.NoError(t, err)

	h.items.DisableRoom(h.w, 40)

	tr, _ := ecs.Get(h.w, pot, component.TransformComponent)
	assert.Equal(t, component.Transform{X: home.HomeX, Y: home.HomeY}, tr)
	p, _ := ecs.Get(h.w, pot, component.PotComponent)
	assert.False(t, p.Thrown)

	en, _ := ecs.Get(h.w, enemy, component.EnemyComponent)
	tr, _ = ecs.Get(h.w, enemy, component.TransformComponent)
	assert.Equal(t, component.Transform{X: en.HomeX, Y: en.HomeY}, tr)
	assert.True(t, ecs.Has(h.w, enemy, component.DisabledComponent))

	assert.False(t, h.w.IsAlive(proj))
}

func TestBreakPot(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	r1, _ := h.deps.Registry.Room(1)
	pot := r1.Pots[0]

	assert.True(t, h.items.BreakPot(h.w, pot))
	assert.False(t, h.items.BreakPot(h.w, pot))
	require.Len(t, h.events, 1)
	assert.Equal(t, event.PotBroken, h.events[0].Topic)
	payload, ok := h.events[0].Payload.(event.Pot)
	require.True(t, ok)
	assert.Equal(t, uint64(pot), payload.Entity)
}
