package system

import (
	"math"

	"go.uber.org/zap"

	"github.com/milk9111/dungeon/ecs"
	"github.com/milk9111/dungeon/ecs/component"
	"github.com/milk9111/dungeon/ecs/entity"
	"github.com/milk9111/dungeon/event"
	"github.com/milk9111/dungeon/prefabs"
	"github.com/milk9111/dungeon/tween"
)

// TransitionSystem consumes a transition intent and walks the player through
// the hallway into the target room. The exit, camera and entry tweens run
// independently; the settle step runs once the last of them completes.
type TransitionSystem struct {
	deps     *Deps
	items    *Interactables
	triggers *Triggers
	log      *zap.Logger

	Spec   prefabs.TransitionSpec
	Camera prefabs.CameraSpec
	// LevelExists reports whether a door's target level can be loaded.
	LevelExists func(name string) bool
}

func NewTransitionSystem(deps *Deps, items *Interactables, triggers *Triggers, spec prefabs.TransitionSpec, camera prefabs.CameraSpec) *TransitionSystem {
	return &TransitionSystem{
		deps:     deps,
		items:    items,
		triggers: triggers,
		log:      deps.log().Named("transition"),
		Spec:     spec,
		Camera:   camera,
	}
}

func (ts *TransitionSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	player, ok := playerEntity(w)
	if !ok {
		return
	}
	intent, ok := ecs.Get(w, player, component.TransitionIntentComponent)
	if !ok {
		return
	}
	ecs.Remove(w, player, component.TransitionIntentComponent)

	sceneEnt, state, ok := sceneState(w)
	if !ok || ecs.Has(w, sceneEnt, component.TransitionRuntimeComponent) {
		return
	}

	// lock
	state.InputLocked = true
	_ = ecs.Add(w, sceneEnt, component.SceneStateComponent, state)
	_ = ecs.Add(w, player, component.VelocityComponent, component.Velocity{})

	ts.start(w, sceneEnt, state, player, intent)
}

func (ts *TransitionSystem) start(w *ecs.World, sceneEnt ecs.Entity, state component.SceneState, player ecs.Entity, intent component.TransitionIntent) {
	srcEnt, ok := ts.deps.Registry.Door(intent.SourceRoomID, intent.SourceDoorID)
	if !ok {
		ts.fail(w, "source door not found", intent.SourceRoomID, intent.SourceDoorID)
		return
	}
	src, _ := ecs.Get(w, srcEnt, component.DoorComponent)

	if src.TargetLevel != "" && src.TargetLevel != state.Level {
		if ts.LevelExists == nil || !ts.LevelExists(src.TargetLevel) {
			ts.log.Warn("unknown target level", zap.String("target", src.TargetLevel))
			ts.fail(w, "target level not found", src.TargetRoomID, src.TargetDoorID)
			return
		}
		req := component.LevelChangeRequest{Level: src.TargetLevel, RoomID: src.TargetRoomID, DoorID: src.TargetDoorID}
		_ = ecs.Add(w, sceneEnt, component.LevelChangeRequestComponent, req)
		ts.deps.publish(event.LevelChange, event.Level{Level: req.Level, RoomID: req.RoomID, DoorID: req.DoorID})
		return
	}

	dstEnt, ok := ts.deps.Registry.Door(src.TargetRoomID, src.TargetDoorID)
	if !ok {
		ts.fail(w, "target door not found", src.TargetRoomID, src.TargetDoorID)
		return
	}
	dstRoom, ok := ts.deps.Registry.Room(src.TargetRoomID)
	if !ok {
		ts.fail(w, "target room not found", src.TargetRoomID, src.TargetDoorID)
		return
	}
	dst, _ := ecs.Get(w, dstEnt, component.DoorComponent)
	body, ok := bodyAABB(w, player)
	if !ok {
		ts.fail(w, "player has no body", src.TargetRoomID, src.TargetDoorID)
		return
	}

	dir := TravelDirection(src.Zone, dst.Zone, src.Direction)
	hallX, hallY, entryX, entryY := TransitionPath(src.Zone, dst.Zone, dir, ts.Spec.MinEntryStep)

	rt := component.TransitionRuntime{
		Phase:        component.TransitionExiting,
		SourceRoomID: src.RoomID,
		SourceDoorID: src.ID,
		TargetRoomID: dst.RoomID,
		TargetDoorID: dst.ID,
		Direction:    dir,
		Pending:      3,
	}
	_ = ecs.Add(w, sceneEnt, component.TransitionRuntimeComponent, rt)
	ts.log.Debug("transition started",
		zap.Int("from_room", src.RoomID), zap.Int("from_door", src.ID),
		zap.Int("to_room", dst.RoomID), zap.Int("to_door", dst.ID),
		zap.String("direction", string(dir)))

	barrier := tween.NewBarrier(3, func() { ts.settle(w, player, srcEnt, dstEnt, rt) })
	arrive := func() {
		barrier.Arrive()
		ecs.Update(w, sceneEnt, component.TransitionRuntimeComponent, func(r *component.TransitionRuntime) {
			r.Pending = barrier.Pending()
		})
	}

	setPlayer := func(v []float64) {
		ecs.Update(w, player, component.TransformComponent, func(t *component.Transform) {
			t.X, t.Y = v[0], v[1]
		})
	}
	playerPos := func() []float64 {
		t, _ := ecs.Get(w, player, component.TransformComponent)
		return []float64{t.X, t.Y}
	}

	// exit into the hallway
	ts.deps.Tweens.Add(tween.Config{
		Delay:    ts.Spec.HallDelayMS,
		Duration: ts.Spec.HallDurationMS,
		From:     playerPos,
		To:       []float64{hallX - body.W/2, hallY - body.H/2},
		OnStart: func() {
			ts.items.SetEnabled(w, srcEnt, false)
			ts.items.EnableRoom(w, dstRoom.ID)
			ts.items.SetEnabled(w, dstEnt, false)
		},
		OnUpdate: setPlayer,
		OnComplete: func() {
			ecs.Update(w, sceneEnt, component.TransitionRuntimeComponent, func(r *component.TransitionRuntime) {
				r.Phase = component.TransitionEntering
			})
			arrive()
		},
	})

	// camera reframe
	targetZoom := entity.FitZoom(ts.Camera, dstRoom.Bounds)
	ts.deps.Tweens.Add(tween.Config{
		Delay:    ts.Spec.CameraDelayMS,
		Duration: ts.Spec.CameraDurationMS,
		From: func() []float64 {
			return freezeCamera(w, ts.Camera)
		},
		To: []float64{dstRoom.Bounds.X, dstRoom.Bounds.Y, dstRoom.Bounds.W, dstRoom.Bounds.H, targetZoom},
		OnUpdate: func(v []float64) {
			updateCamera(w, func(c *component.Camera) {
				c.Bounds = component.AABB{X: v[0], Y: v[1], W: v[2], H: v[3]}
				c.Zoom = v[4]
			})
		},
		OnComplete: arrive,
	})

	// entry into the target room
	ts.deps.Tweens.Add(tween.Config{
		Delay:      ts.Spec.EntryDelayMS,
		Duration:   ts.Spec.EntryDurationMS,
		From:       playerPos,
		To:         []float64{entryX - body.W/2, entryY - body.H/2},
		OnUpdate:   setPlayer,
		OnComplete: arrive,
	})
}

func (ts *TransitionSystem) settle(w *ecs.World, player, srcEnt, dstEnt ecs.Entity, rt component.TransitionRuntime) {
	ts.items.SetEnabled(w, dstEnt, true)
	if rt.SourceRoomID != rt.TargetRoomID {
		ts.items.DisableRoom(w, rt.SourceRoomID)
	} else {
		ts.items.SetEnabled(w, srcEnt, true)
	}
	updateScene(w, func(s *component.SceneState) {
		s.CurrentRoomID = rt.TargetRoomID
	})
	ts.triggers.CheckRoomCleared(w)
	updateCamera(w, func(c *component.Camera) { c.Following = true })
	updateScene(w, func(s *component.SceneState) { s.InputLocked = false })
	_ = ecs.Add(w, player, component.TransitionCooldownComponent, component.TransitionCooldown{
		Active: true,
		RoomID: rt.TargetRoomID,
		DoorID: rt.TargetDoorID,
	})
	if sceneEnt, _, ok := sceneState(w); ok {
		ecs.Remove(w, sceneEnt, component.TransitionRuntimeComponent)
	}
	ts.log.Debug("transition settled", zap.Int("room", rt.TargetRoomID))
}

// fail leaves the player where it is and hands control back.
func (ts *TransitionSystem) fail(w *ecs.World, reason string, roomID, doorID int) {
	ts.log.Warn("transition aborted", zap.String("reason", reason), zap.Int("room", roomID), zap.Int("door", doorID))
	updateScene(w, func(s *component.SceneState) { s.InputLocked = false })
}

// TravelDirection is the direction of the target zone seen from the source
// zone, checking the vertical axis first. Coinciding centers fall back to the
// source door's own direction.
func TravelDirection(src, dst component.AABB, fallback component.Direction) component.Direction {
	sx, sy := src.Center()
	tx, ty := dst.Center()
	switch {
	case ty > sy:
		return component.DirDown
	case ty < sy:
		return component.DirUp
	case tx > sx:
		return component.DirRight
	case tx < sx:
		return component.DirLeft
	default:
		return fallback
	}
}

// TransitionPath returns the hallway point, halfway between the two zone
// centers, and the entry point the player walks to from there. The entry
// step covers the full door-to-door offset along dir, at least minStep, and
// lines up with the target zone on the other axis.
func TransitionPath(src, dst component.AABB, dir component.Direction, minStep float64) (hallX, hallY, entryX, entryY float64) {
	sx, sy := src.Center()
	tx, ty := dst.Center()
	hallX, hallY = (sx+tx)/2, (sy+ty)/2
	if dir.Vertical() {
		step := math.Max(math.Abs(ty-sy), minStep)
		return hallX, hallY, tx, hallY + dir.Sign()*step
	}
	step := math.Max(math.Abs(tx-sx), minStep)
	return hallX, hallY, hallX + dir.Sign()*step, ty
}
