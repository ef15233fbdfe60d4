package entity

import (
	"fmt"

	"github.com/milk9111/dungeon/ecs"
	"github.com/milk9111/dungeon/ecs/component"
	"github.com/milk9111/dungeon/prefabs"
)

// FitZoom returns the zoom that fits bounds inside the canvas, leaving the
// configured margin and keeping the aspect ratio.
func FitZoom(spec prefabs.CameraSpec, bounds component.AABB) float64 {
	if bounds.W <= 0 || bounds.H <= 0 {
		return 1
	}
	fill := 1 - spec.Margin
	zx := spec.Canvas.Width * fill / bounds.W
	zy := spec.Canvas.Height * fill / bounds.H
	if zx < zy {
		return zx
	}
	return zy
}

func NewCamera(w *ecs.World, spec prefabs.CameraSpec, bounds component.AABB) (ecs.Entity, error) {
	camera := w.CreateEntity()
	if err := ecs.Add(w, camera, component.CameraTagComponent, component.CameraTag{}); err != nil {
		return 0, fmt.Errorf("camera: add camera tag: %w", err)
	}
	if err := ecs.Add(w, camera, component.CameraComponent, component.Camera{
		Bounds:    bounds,
		Zoom:      FitZoom(spec, bounds),
		Following: true,
		ViewX:     bounds.X,
		ViewY:     bounds.Y,
	}); err != nil {
		return 0, fmt.Errorf("camera: add camera component: %w", err)
	}
	return camera, nil
}
