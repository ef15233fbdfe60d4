package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/dungeon/ecs"
	"github.com/milk9111/dungeon/ecs/component"
	"github.com/milk9111/dungeon/ecs/entity"
	"github.com/milk9111/dungeon/event"
)

func TestTravelDirection(t *testing.T) {
	zone := func(x, y float64) component.AABB { return component.AABB{X: x, Y: y, W: 16, H: 16} }
	cases := []struct {
		name     string
		src, dst component.AABB
		want     component.Direction
	}{
		{"down", zone(0, 0), zone(100, 50), component.DirDown},
		{"up", zone(0, 50), zone(-100, 0), component.DirUp},
		{"right", zone(0, 0), zone(50, 0), component.DirRight},
		{"left", zone(50, 0), zone(0, 0), component.DirLeft},
		{"same_center_uses_fallback", zone(0, 0), zone(0, 0), component.DirLeft},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, TravelDirection(c.src, c.dst, component.DirLeft))
		})
	}
}

func TestTransitionPath(t *testing.T) {
	cases := []struct {
		name               string
		src, dst           component.AABB
		dir                component.Direction
		hallX, hallY       float64
		entryX, entryY     float64
	}{
		{
			name:  "down_through_gap",
			src:   component.AABB{X: 112, Y: 160, W: 32, H: 16},
			dst:   component.AABB{X: 112, Y: 208, W: 32, H: 16},
			dir:   component.DirDown,
			hallX: 128, hallY: 192, entryX: 128, entryY: 240,
		},
		{
			name:  "adjacent_zones_use_min_step",
			src:   component.AABB{X: 0, Y: 0, W: 16, H: 16},
			dst:   component.AABB{X: 10, Y: 0, W: 16, H: 16},
			dir:   component.DirRight,
			hallX: 13, hallY: 8, entryX: 45, entryY: 8,
		},
		{
			name:  "up_aligns_with_target",
			src:   component.AABB{X: 112, Y: 208, W: 32, H: 16},
			dst:   component.AABB{X: 100, Y: 160, W: 32, H: 16},
			dir:   component.DirUp,
			hallX: 122, hallY: 192, entryX: 116, entryY: 144,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			hx, hy, ex, ey := TransitionPath(c.src, c.dst, c.dir, 32)
			assert.Equal(t, []float64{c.hallX, c.hallY, c.entryX, c.entryY}, []float64{hx, hy, ex, ey})
		})
	}
}

// runTransition steps until the transition settles and returns the ticks
// it took.
func runTransition(t *testing.T, h *harness) int {
	t.Helper()
	for i := 1; i <= 200; i++ {
		h.step(1, component.Input{})
		if !ecs.Has(h.w, h.scene, component.TransitionRuntimeComponent) {
			return i
		}
		require.True(t, h.state().InputLocked, "input stays locked while animating")
	}
	t.Fatalf("transition did not settle")
	return 0
}

func TestTransitionSettles(t *testing.T) {
	cases := []struct {
		name           string
		room, door     int
		targetRoom     int
		targetDoor     int
		entryX, entryY float64
	}{
		{"down_into_40", 1, 10, 40, 20, 128, 240},
		{"up_into_1", 40, 20, 1, 10, 128, 144},
		{"right_into_50", 1, 11, 50, 30, 320, 80},
		{"left_into_1", 50, 30, 1, 11, 224, 80},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h := newHarness(t, harnessOptions{})
			if c.room != 1 {
				h.enter(c.room)
			}
			_ = ecs.Add(h.w, h.player, component.TransitionIntentComponent, component.TransitionIntent{
				SourceRoomID: c.room,
				SourceDoorID: c.door,
			})

			ticks := runTransition(t, h)
			spec := h.catalog.Scene.Transition
			assert.GreaterOrEqual(t, float64(ticks)*h.catalog.Scene.TickMS, spec.EntryDelayMS+spec.EntryDurationMS)

			state := h.state()
			assert.Equal(t, c.targetRoom, state.CurrentRoomID)
			assert.False(t, state.InputLocked)

			body, _ := bodyAABB(h.w, h.player)
			cx, cy := body.Center()
			assert.InDelta(t, c.entryX, cx, 1e-6)
			assert.InDelta(t, c.entryY, cy, 1e-6)

			cd, _ := ecs.Get(h.w, h.player, component.TransitionCooldownComponent)
			assert.Equal(t, component.TransitionCooldown{Active: true, RoomID: c.targetRoom, DoorID: c.targetDoor}, cd)

			h.deps.Registry.ForEachEntity(c.room, func(e ecs.Entity) {
				assert.True(t, ecs.Has(h.w, e, component.DisabledComponent), "source room entity %v disabled", e)
			})
			h.deps.Registry.ForEachEntity(c.targetRoom, func(e ecs.Entity) {
				if en, ok := ecs.Get(h.w, e, component.EnemyComponent); ok && !en.Alive {
					return
				}
				assert.False(t, ecs.Has(h.w, e, component.DisabledComponent), "target room entity %v enabled", e)
			})

			camEnt, _ := h.w.First(component.CameraTagComponent.Kind())
			cam, _ := ecs.Get(h.w, camEnt, component.CameraComponent)
			rm, _ := h.deps.Registry.Room(c.targetRoom)
			assert.True(t, cam.Following)
			assert.InDelta(t, rm.Bounds.X, cam.Bounds.X, 1e-6)
			assert.InDelta(t, rm.Bounds.Y, cam.Bounds.Y, 1e-6)
			assert.InDelta(t, rm.Bounds.W, cam.Bounds.W, 1e-6)
			assert.InDelta(t, rm.Bounds.H, cam.Bounds.H, 1e-6)
			assert.InDelta(t, entity.FitZoom(h.catalog.Scene.Camera, rm.Bounds), cam.Zoom, 1e-6)
			assert.Zero(t, h.deps.Tweens.Len())
		})
	}
}

func TestTransitionSwitchesRoomOnlyOnSettle(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	srcDoor, _ := h.door(1, 10)
	dstDoor, _ := h.door(40, 20)
	_ = ecs.Add(h.w, h.player, component.TransitionIntentComponent, component.TransitionIntent{SourceRoomID: 1, SourceDoorID: 10})

	midway := func(phase component.TransitionPhase) {
		t.Helper()
		rt, ok := ecs.Get(h.w, h.scene, component.TransitionRuntimeComponent)
		require.True(t, ok, "still animating")
		assert.Equal(t, phase, rt.Phase)

		state := h.state()
		assert.Equal(t, 1, state.CurrentRoomID)
		assert.True(t, state.InputLocked)
		h.deps.Registry.ForEachEntity(1, func(e ecs.Entity) {
			if e == srcDoor {
				return
			}
			assert.False(t, ecs.Has(h.w, e, component.DisabledComponent), "source room entity %v enabled", e)
		})
		assert.True(t, ecs.Has(h.w, srcDoor, component.DisabledComponent))
		assert.True(t, ecs.Has(h.w, dstDoor, component.DisabledComponent))
	}

	h.step(1, component.Input{})
	midway(component.TransitionExiting)

	spec := h.catalog.Scene.Transition
	h.step(int(spec.HallDurationMS/h.catalog.Scene.TickMS)-1, component.Input{})
	require.Less(t, spec.HallDurationMS, spec.EntryDelayMS+spec.EntryDurationMS)
	rt, _ := ecs.Get(h.w, h.scene, component.TransitionRuntimeComponent)
	if rt.Phase == component.TransitionExiting {
		h.step(2, component.Input{})
	}
	midway(component.TransitionEntering)

	runTransition(t, h)
	assert.Equal(t, 40, h.state().CurrentRoomID)
	assert.False(t, h.state().InputLocked)
	h.deps.Registry.ForEachEntity(1, func(e ecs.Entity) {
		assert.True(t, ecs.Has(h.w, e, component.DisabledComponent), "source room entity %v disabled", e)
	})
}

func TestTransitionIgnoresSecondIntent(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	_ = ecs.Add(h.w, h.player, component.TransitionIntentComponent, component.TransitionIntent{SourceRoomID: 1, SourceDoorID: 10})
	h.step(1, component.Input{})
	require.True(t, ecs.Has(h.w, h.scene, component.TransitionRuntimeComponent))
	tweens := h.deps.Tweens.Len()

	_ = ecs.Add(h.w, h.player, component.TransitionIntentComponent, component.TransitionIntent{SourceRoomID: 1, SourceDoorID: 11})
	h.step(1, component.Input{})
	assert.False(t, ecs.Has(h.w, h.player, component.TransitionIntentComponent))
	rt, _ := ecs.Get(h.w, h.scene, component.TransitionRuntimeComponent)
	assert.Equal(t, 40, rt.TargetRoomID)
	assert.LessOrEqual(t, h.deps.Tweens.Len(), tweens)
}

func TestTransitionToOtherLevel(t *testing.T) {
	retarget := func(h *harness, level string) {
		e, _ := h.deps.Registry.Door(1, 10)
		ecs.Update(h.w, e, component.DoorComponent, func(d *component.Door) { d.TargetLevel = level })
	}

	t.Run("known_level_requests_change", func(t *testing.T) {
		h := newHarness(t, harnessOptions{})
		h.trans.LevelExists = func(name string) bool { return name == "FOREST" }
		retarget(h, "FOREST")
		_ = ecs.Add(h.w, h.player, component.TransitionIntentComponent, component.TransitionIntent{SourceRoomID: 1, SourceDoorID: 10})
		h.step(1, component.Input{})

		req, ok := ecs.Get(h.w, h.scene, component.LevelChangeRequestComponent)
		require.True(t, ok)
		assert.Equal(t, component.LevelChangeRequest{Level: "FOREST", RoomID: 40, DoorID: 20}, req)
		assert.Equal(t, []event.Topic{event.LevelChange}, h.topics())
		assert.True(t, h.state().InputLocked)
		assert.Zero(t, h.deps.Tweens.Len())
	})

	t.Run("unknown_level_aborts", func(t *testing.T) {
		h := newHarness(t, harnessOptions{})
		retarget(h, "NOWHERE")
		_ = ecs.Add(h.w, h.player, component.TransitionIntentComponent, component.TransitionIntent{SourceRoomID: 1, SourceDoorID: 10})
		h.step(1, component.Input{})

		assert.False(t, ecs.Has(h.w, h.scene, component.LevelChangeRequestComponent))
		assert.False(t, h.state().InputLocked)
		assert.Equal(t, 1, h.state().CurrentRoomID)
		assert.Empty(t, h.events)
	})
}

func TestTransitionMissingTargetDoor(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	e, _ := h.deps.Registry.Door(1, 10)
	ecs.Update(h.w, e, component.DoorComponent, func(d *component.Door) { d.TargetDoorID = 999 })
	_ = ecs.Add(h.w, h.player, component.TransitionIntentComponent, component.TransitionIntent{SourceRoomID: 1, SourceDoorID: 10})
	h.step(1, component.Input{})

	assert.False(t, h.state().InputLocked)
	assert.False(t, ecs.Has(h.w, h.scene, component.TransitionRuntimeComponent))
	assert.Equal(t, 1, h.state().CurrentRoomID)
}
