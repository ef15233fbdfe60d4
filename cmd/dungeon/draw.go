package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/milk9111/dungeon/ecs"
	"github.com/milk9111/dungeon/ecs/component"
	"github.com/milk9111/dungeon/ecs/system"
	"github.com/milk9111/dungeon/loot"
)

// view maps world rectangles onto the canvas.
type view struct {
	rect  component.AABB
	scale float64
}

func (v view) fill(dst *ebiten.Image, r component.AABB, c color.Color) {
	vector.FillRect(dst,
		float32((r.X-v.rect.X)*v.scale), float32((r.Y-v.rect.Y)*v.scale),
		float32(r.W*v.scale), float32(r.H*v.scale), c, false)
}

func (v view) stroke(dst *ebiten.Image, r component.AABB, c color.Color) {
	vector.StrokeRect(dst,
		float32((r.X-v.rect.X)*v.scale), float32((r.Y-v.rect.Y)*v.scale),
		float32(r.W*v.scale), float32(r.H*v.scale), 1.0, c, false)
}

func (r *runner) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Black)

	s := r.scene
	w := s.World()
	spec := s.Catalog().Scene.Camera
	cam := s.Camera()
	rect := system.ViewRect(cam, spec)
	v := view{rect: rect, scale: spec.Canvas.Width / rect.W}

	st := s.State()
	if rm, ok := s.Registry().Room(st.CurrentRoomID); ok {
		v.fill(screen, rm.Bounds, colornames.Darkslategray)
	}
	for _, b := range w.PhysicsWorld().Blockers(ecs.TerrainPlayer, rect) {
		v.fill(screen, b, colornames.Dimgray)
	}

	for _, e := range w.Query(component.DoorComponent.Kind()) {
		d, _ := ecs.Get(w, e, component.DoorComponent)
		switch {
		case d.Open:
			v.stroke(screen, d.Zone, colornames.Lightgreen)
		case d.Type == component.DoorBoss:
			v.fill(screen, d.Zone, colornames.Purple)
		case d.Type == component.DoorLock:
			v.fill(screen, d.Zone, colornames.Goldenrod)
		default:
			v.fill(screen, d.Zone, colornames.Saddlebrown)
		}
	}

	drawBodies(w, component.SwitchComponent.Kind(), func(e ecs.Entity, box component.AABB) {
		sw, _ := ecs.Get(w, e, component.SwitchComponent)
		c := colornames.Steelblue
		if sw.Pressed {
			c = colornames.Lightskyblue
		}
		v.fill(screen, box, c)
	})
	drawBodies(w, component.ChestComponent.Kind(), func(e ecs.Entity, box component.AABB) {
		ch, _ := ecs.Get(w, e, component.ChestComponent)
		switch {
		case !ch.Revealed:
		case ch.Opened:
			v.stroke(screen, box, colornames.Peru)
		default:
			v.fill(screen, box, colornames.Peru)
		}
	})
	drawBodies(w, component.PotComponent.Kind(), func(e ecs.Entity, box component.AABB) {
		if p, _ := ecs.Get(w, e, component.PotComponent); !p.Broken {
			v.fill(screen, box, colornames.Sandybrown)
		}
	})
	drawBodies(w, component.EnemyComponent.Kind(), func(e ecs.Entity, box component.AABB) {
		en, _ := ecs.Get(w, e, component.EnemyComponent)
		if !en.Alive {
			return
		}
		c := colornames.Olivedrab
		switch en.Species {
		case component.SpeciesFlyingRanged:
			c = colornames.Lightcyan
		case component.SpeciesBoss:
			c = colornames.Darkviolet
		}
		v.fill(screen, box, c)
	})
	drawBodies(w, component.WeaponComponent.Kind(), func(e ecs.Entity, box component.AABB) {
		wp, _ := ecs.Get(w, e, component.WeaponComponent)
		switch {
		case wp.Hostile:
			v.fill(screen, box, colornames.Orangered)
		case wp.Active:
			v.fill(screen, box, colornames.Silver)
		}
	})
	if box, ok := bodyOf(w, s.Player()); ok {
		c := colornames.Crimson
		if ecs.Has(w, s.Player(), component.InvulnerableComponent) {
			c = colornames.Pink
		}
		v.fill(screen, box, c)
	}

	if rw := s.Reward(); rw.Visible {
		v.fill(screen, component.AABB{X: rw.X - 4, Y: rw.Y - 4, W: 8, H: 8}, colornames.Gold)
	}
	if st.FadeAlpha > 0 {
		a := uint8(min(st.FadeAlpha, 1) * 255)
		vector.FillRect(screen, 0, 0, float32(spec.Canvas.Width), float32(spec.Canvas.Height), color.RGBA{A: a}, false)
	}

	r.drawOverlay(screen, st)
}

func (r *runner) drawOverlay(screen *ebiten.Image, st component.SceneState) {
	hp, _ := ecs.Get(r.scene.World(), r.scene.Player(), component.HealthComponent)
	inv, err := r.store.AreaInventory(r.ctx, st.Level)
	if err != nil {
		inv.Keys = -1
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf("%s room %d  hp %d/%d  keys %d", st.Level, st.CurrentRoomID, hp.Life, hp.Max, inv.Keys))

	y := 180
	switch {
	case r.gameOver:
		ebitenutil.DebugPrintAt(screen, "GAME OVER  (esc)", 8, y)
	case r.quiz:
		ebitenutil.DebugPrintAt(screen, "Answer the riddle? [Y]es / [N]o", 8, y)
	case r.dialog != "":
		ebitenutil.DebugPrintAt(screen, r.dialog+"  [enter]", 8, y)
	}
	if r.debug {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("tps %.0f  paused %t  locked %t  reward %s",
			ebiten.ActualTPS(), st.Paused, st.InputLocked, itemName(r.scene.Reward())), 0, 16)
	}
}

func itemName(rw component.Reward) loot.Item {
	if !rw.Visible {
		return loot.Nothing
	}
	return rw.Item
}

func drawBodies(w *ecs.World, key component.Key, fn func(ecs.Entity, component.AABB)) {
	for _, e := range w.Query(key, component.TransformComponent.Kind(), component.ColliderComponent.Kind()) {
		if ecs.Has(w, e, component.DisabledComponent) {
			continue
		}
		if box, ok := bodyOf(w, e); ok {
			fn(e, box)
		}
	}
}

func bodyOf(w *ecs.World, e ecs.Entity) (component.AABB, bool) {
	t, ok := ecs.Get(w, e, component.TransformComponent)
	if !ok {
		return component.AABB{}, false
	}
	c, ok := ecs.Get(w, e, component.ColliderComponent)
	if !ok {
		return component.AABB{}, false
	}
	return component.AABB{X: t.X, Y: t.Y, W: c.Width, H: c.Height}, true
}
