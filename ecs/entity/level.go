package entity

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/milk9111/dungeon/ecs"
	"github.com/milk9111/dungeon/ecs/component"
	"github.com/milk9111/dungeon/levels"
	"github.com/milk9111/dungeon/prefabs"
	"github.com/milk9111/dungeon/room"
	"github.com/milk9111/dungeon/store"
)

// LevelOptions are the inputs of BuildLevel.
type LevelOptions struct {
	Context  context.Context
	Geometry *levels.Geometry
	Catalog  *prefabs.Catalog
	Store    store.Persistence
	Logger   *zap.Logger
}

// BuildLevel creates the terrain and every room entity of a level and
// returns the sealed registry. Stored door and chest records are applied to
// the new entities without writing them back. Every entity starts disabled;
// the caller enables the start room.
func BuildLevel(w *ecs.World, opts LevelOptions) (*room.Registry, error) {
	g := opts.Geometry
	if g == nil {
		return nil, fmt.Errorf("level: nil geometry")
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("level", g.Name))

	for _, warning := range g.Warnings {
		log.Warn("level data incomplete", zap.Error(warning))
	}

	pw := w.PhysicsWorld()
	if pw == nil {
		pw = ecs.NewPhysicsWorld()
		w.SetPhysicsWorld(pw)
	}
	pw.AddTiles(ecs.TerrainPlayer, g.Terrain)
	pw.AddTiles(ecs.TerrainEnemy, g.EnemyTerrain)

	bossDefeated := false
	if opts.Store != nil {
		defeated, err := opts.Store.BossDefeated(ctx, g.Name)
		if err != nil {
			log.Error("read boss flag", zap.Error(err))
		}
		bossDefeated = defeated
	}

	b := &levelBuilder{w: w, ctx: ctx, opts: opts, log: log, reg: room.NewRegistry(), bossDefeated: bossDefeated}
	for i := range g.Rooms {
		if err := b.room(&g.Rooms[i]); err != nil {
			return nil, err
		}
	}
	b.reg.Seal()
	return b.reg, nil
}

type levelBuilder struct {
	w            *ecs.World
	ctx          context.Context
	opts         LevelOptions
	log          *zap.Logger
	reg          *room.Registry
	bossDefeated bool
}

func (b *levelBuilder) room(spec *levels.RoomSpec) error {
	if err := b.reg.AddRoom(spec.ID, spec.Bounds.AABB(), spec.HasEnemyLayer); err != nil {
		return fmt.Errorf("level: %w", err)
	}
	for _, d := range spec.Doors {
		e, err := b.door(spec.ID, d)
		if err != nil {
			return err
		}
		if err := b.reg.AddDoor(spec.ID, d.ID, e); err != nil {
			return fmt.Errorf("level: %w", err)
		}
	}
	for _, s := range spec.Switches {
		e, err := b.newSwitch(spec.ID, s)
		if err != nil {
			return err
		}
		if err := b.reg.AddSwitch(spec.ID, e); err != nil {
			return fmt.Errorf("level: %w", err)
		}
	}
	for _, p := range spec.Pots {
		e, err := b.pot(spec.ID, p)
		if err != nil {
			return err
		}
		if err := b.reg.AddPot(spec.ID, e); err != nil {
			return fmt.Errorf("level: %w", err)
		}
	}
	for _, c := range spec.Chests {
		e, err := b.chest(spec.ID, c)
		if err != nil {
			return err
		}
		if err := b.reg.AddChest(spec.ID, c.ID, e); err != nil {
			return fmt.Errorf("level: %w", err)
		}
	}
	for _, en := range spec.Enemies {
		if en.Species == component.SpeciesBoss && b.bossDefeated {
			continue
		}
		var enemySpec *prefabs.EnemySpec
		if b.opts.Catalog != nil {
			enemySpec = b.opts.Catalog.Enemies[en.Species.String()]
		}
		if enemySpec == nil {
			b.log.Warn("no prefab for enemy, skipping", zap.Stringer("species", en.Species), zap.Int("room", spec.ID), zap.Int("enemy", en.ID))
			continue
		}
		e, err := NewEnemy(b.w, enemySpec, en.Species, spec.ID, en.Rect.X, en.Rect.Y)
		if err != nil {
			return err
		}
		if err := b.finish(e, spec.ID); err != nil {
			return err
		}
		if err := b.reg.AddEnemy(spec.ID, e); err != nil {
			return fmt.Errorf("level: %w", err)
		}
	}
	return nil
}

// body gives e a top-left transform and a collider matching r.
func (b *levelBuilder) body(e ecs.Entity, r levels.Rect) error {
	if err := ecs.Add(b.w, e, component.TransformComponent, component.Transform{X: r.X, Y: r.Y}); err != nil {
		return fmt.Errorf("level: add transform: %w", err)
	}
	if err := ecs.Add(b.w, e, component.ColliderComponent, component.Collider{Width: r.W, Height: r.H}); err != nil {
		return fmt.Errorf("level: add collider: %w", err)
	}
	return nil
}

// finish marks e as a disabled member of roomID.
func (b *levelBuilder) finish(e ecs.Entity, roomID int) error {
	if err := ecs.Add(b.w, e, component.RoomMemberComponent, component.RoomMember{RoomID: roomID}); err != nil {
		return fmt.Errorf("level: add room member: %w", err)
	}
	if err := ecs.Add(b.w, e, component.DisabledComponent, component.Disabled{}); err != nil {
		return fmt.Errorf("level: add disabled: %w", err)
	}
	return nil
}

func (b *levelBuilder) door(roomID int, spec levels.DoorSpec) (ecs.Entity, error) {
	door := component.Door{
		ID:           spec.ID,
		RoomID:       roomID,
		Direction:    spec.Direction,
		Type:         spec.Type,
		Trap:         spec.Trap,
		TargetLevel:  strings.ToUpper(strings.TrimSpace(spec.TargetLevel)),
		TargetRoomID: spec.TargetRoomID,
		TargetDoorID: spec.TargetDoorID,
		Zone:         spec.Rect.AABB(),
		// plain doors without a trap have no blocking body at all
		Open: spec.Type == component.DoorOpen && spec.Trap == component.TrapNone,
	}
	if b.opts.Store != nil && !door.Open {
		rec, ok, err := b.opts.Store.Door(b.ctx, b.opts.Geometry.Name, roomID, spec.ID)
		if err != nil {
			b.log.Error("read door record", zap.Int("room", roomID), zap.Int("door", spec.ID), zap.Error(err))
		}
		if ok && rec.Unlocked {
			door.Open = true
		}
	}

	e := b.w.CreateEntity()
	if err := ecs.Add(b.w, e, component.DoorComponent, door); err != nil {
		return 0, fmt.Errorf("level: add door: %w", err)
	}
	if err := b.body(e, spec.Rect); err != nil {
		return 0, err
	}
	return e, b.finish(e, roomID)
}

func (b *levelBuilder) newSwitch(roomID int, spec levels.SwitchSpec) (ecs.Entity, error) {
	e := b.w.CreateEntity()
	if err := ecs.Add(b.w, e, component.SwitchComponent, component.Switch{
		ID:        spec.ID,
		RoomID:    roomID,
		Action:    spec.Action,
		TargetIDs: append([]int(nil), spec.TargetIDs...),
	}); err != nil {
		return 0, fmt.Errorf("level: add switch: %w", err)
	}
	if err := b.body(e, spec.Rect); err != nil {
		return 0, err
	}
	return e, b.finish(e, roomID)
}

func (b *levelBuilder) pot(roomID int, spec levels.PotSpec) (ecs.Entity, error) {
	e := b.w.CreateEntity()
	if err := ecs.Add(b.w, e, component.PotComponent, component.Pot{HomeX: spec.Rect.X, HomeY: spec.Rect.Y}); err != nil {
		return 0, fmt.Errorf("level: add pot: %w", err)
	}
	if err := ecs.Add(b.w, e, component.VelocityComponent, component.Velocity{}); err != nil {
		return 0, fmt.Errorf("level: add pot velocity: %w", err)
	}
	if err := b.body(e, spec.Rect); err != nil {
		return 0, err
	}
	return e, b.finish(e, roomID)
}

func (b *levelBuilder) chest(roomID int, spec levels.ChestSpec) (ecs.Entity, error) {
	chest := component.Chest{
		ID:            spec.ID,
		RoomID:        roomID,
		Contents:      spec.Contents,
		RevealTrigger: spec.RevealTrigger,
		// chests without a trigger are placed in plain sight
		Revealed: spec.RevealTrigger == component.TrapNone,
	}
	if b.opts.Store != nil {
		rec, ok, err := b.opts.Store.Chest(b.ctx, b.opts.Geometry.Name, roomID, spec.ID)
		if err != nil {
			b.log.Error("read chest record", zap.Int("room", roomID), zap.Int("chest", spec.ID), zap.Error(err))
		}
		if ok {
			chest.Revealed = chest.Revealed || rec.Revealed || rec.Opened
			chest.Opened = rec.Opened
		}
	}

	e := b.w.CreateEntity()
	if err := ecs.Add(b.w, e, component.ChestComponent, chest); err != nil {
		return 0, fmt.Errorf("level: add chest: %w", err)
	}
	if err := b.body(e, spec.Rect); err != nil {
		return 0, err
	}
	return e, b.finish(e, roomID)
}
