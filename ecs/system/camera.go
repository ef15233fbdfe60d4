package system

import (
	"github.com/milk9111/dungeon/ecs"
	"github.com/milk9111/dungeon/ecs/component"
	"github.com/milk9111/dungeon/prefabs"
)

// CameraSystem positions the view. A following camera tracks the player
// inside its bounds; otherwise the view is centered on the bounds, which is
// what the transition tweens animate.
type CameraSystem struct {
	spec prefabs.CameraSpec
}

func NewCameraSystem(spec prefabs.CameraSpec) *CameraSystem {
	return &CameraSystem{spec: spec}
}

func (s *CameraSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	camEnt, ok := w.First(component.CameraTagComponent.Kind())
	if !ok {
		return
	}
	cam, ok := ecs.Get(w, camEnt, component.CameraComponent)
	if !ok || cam.Zoom <= 0 {
		return
	}
	viewW, viewH := s.spec.Canvas.Width/cam.Zoom, s.spec.Canvas.Height/cam.Zoom
	bx, by := cam.Bounds.Center()
	cx, cy := bx, by
	if cam.Following {
		if player, ok := playerEntity(w); ok {
			if body, ok := bodyAABB(w, player); ok {
				cx, cy = body.Center()
			}
		}
		cx = clampAxis(cx, viewW, cam.Bounds.X, cam.Bounds.W)
		cy = clampAxis(cy, viewH, cam.Bounds.Y, cam.Bounds.H)
	}
	cam.ViewX, cam.ViewY = cx-viewW/2, cy-viewH/2
	_ = ecs.Add(w, camEnt, component.CameraComponent, cam)
}

// clampAxis keeps a view of size view centered at c inside [lo, lo+size].
// A view larger than the range is centered on it.
func clampAxis(c, view, lo, size float64) float64 {
	if view >= size {
		return lo + size/2
	}
	if c-view/2 < lo {
		return lo + view/2
	}
	if c+view/2 > lo+size {
		return lo + size - view/2
	}
	return c
}

// ViewRect returns the world rectangle a camera shows on a canvas.
func ViewRect(cam component.Camera, spec prefabs.CameraSpec) component.AABB {
	if cam.Zoom <= 0 {
		return cam.Bounds
	}
	return component.AABB{X: cam.ViewX, Y: cam.ViewY, W: spec.Canvas.Width / cam.Zoom, H: spec.Canvas.Height / cam.Zoom}
}

// freezeCamera stops following and pins the bounds to what is on screen, so
// a reframe starts from the current picture. It returns the pinned bounds
// and zoom as tween values.
func freezeCamera(w *ecs.World, spec prefabs.CameraSpec) []float64 {
	camEnt, ok := w.First(component.CameraTagComponent.Kind())
	if !ok {
		return nil
	}
	cam, _ := ecs.Get(w, camEnt, component.CameraComponent)
	view := ViewRect(cam, spec)
	cam.Following = false
	cam.Bounds = view
	_ = ecs.Add(w, camEnt, component.CameraComponent, cam)
	return []float64{view.X, view.Y, view.W, view.H, cam.Zoom}
}

func updateCamera(w *ecs.World, fn func(*component.Camera)) {
	if e, ok := w.First(component.CameraTagComponent.Kind()); ok {
		ecs.Update(w, e, component.CameraComponent, fn)
	}
}
