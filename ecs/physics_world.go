package ecs

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/dungeon/ecs/component"
	"github.com/milk9111/dungeon/levels"
)

// TerrainLayer is a chipmunk shape category. The player and enemies collide
// with different tile layers.
type TerrainLayer uint

const (
	TerrainPlayer TerrainLayer = 1 << iota
	TerrainEnemy
)

const collisionTypeSolid cp.CollisionType = 1

// PhysicsWorld owns the Chipmunk space holding static terrain. Bodies are not
// simulated; movement systems query it for blocking rectangles.
type PhysicsWorld struct {
	space  *cp.Space
	counts map[TerrainLayer]int
}

// NewPhysicsWorld creates an empty terrain space.
func NewPhysicsWorld() *PhysicsWorld {
	return &PhysicsWorld{
		space:  cp.NewSpace(),
		counts: make(map[TerrainLayer]int),
	}
}

// Space returns the underlying Chipmunk space.
func (pw *PhysicsWorld) Space() *cp.Space {
	if pw == nil {
		return nil
	}
	return pw.space
}

// ShapeCount returns the number of merged static boxes built for layer.
func (pw *PhysicsWorld) ShapeCount(layer TerrainLayer) int {
	if pw == nil {
		return 0
	}
	return pw.counts[layer]
}

// AddTiles merges the solid tiles of grid into rectangles and adds them as
// static boxes in the given layer.
func (pw *PhysicsWorld) AddTiles(layer TerrainLayer, grid levels.TileLayer) {
	if pw == nil || pw.space == nil || grid.Cols == 0 || grid.Rows == 0 {
		return
	}
	processed := make([]bool, grid.Cols*grid.Rows)
	for y := 0; y < grid.Rows; y++ {
		for x := 0; x < grid.Cols; x++ {
			idx := y*grid.Cols + x
			if processed[idx] {
				continue
			}
			if !grid.Solid(x, y) {
				processed[idx] = true
				continue
			}

			w := 1
			for x+w < grid.Cols {
				idx2 := y*grid.Cols + (x + w)
				if processed[idx2] || !grid.Solid(x+w, y) {
					break
				}
				w++
			}

			h := 1
		heightLoop:
			for y+h < grid.Rows {
				for xi := x; xi < x+w; xi++ {
					idx2 := (y+h)*grid.Cols + xi
					if processed[idx2] || !grid.Solid(xi, y+h) {
						break heightLoop
					}
				}
				h++
			}

			x0 := float64(x) * grid.TileW
			y0 := float64(y) * grid.TileH
			bb := cp.BB{L: x0, B: y0, R: x0 + float64(w)*grid.TileW, T: y0 + float64(h)*grid.TileH}
			shape := cp.NewBox2(pw.space.StaticBody, bb, 0)
			shape.SetCollisionType(collisionTypeSolid)
			shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, uint(layer), cp.ALL_CATEGORIES))
			pw.space.AddShape(shape)
			pw.counts[layer]++

			for yy := y; yy < y+h; yy++ {
				for xx := x; xx < x+w; xx++ {
					processed[yy*grid.Cols+xx] = true
				}
			}
		}
	}
}

// Blockers returns the terrain rectangles of layer that strictly overlap box.
func (pw *PhysicsWorld) Blockers(layer TerrainLayer, box component.AABB) []component.AABB {
	if pw == nil || pw.space == nil {
		return nil
	}
	query := cp.BB{L: box.X, B: box.Y, R: box.X + box.W, T: box.Y + box.H}
	filter := cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, uint(layer))
	var out []component.AABB
	pw.space.BBQuery(query, filter, func(shape *cp.Shape, _ interface{}) {
		bb := shape.BB()
		rect := component.AABB{X: bb.L, Y: bb.B, W: bb.R - bb.L, H: bb.T - bb.B}
		// chipmunk bounding boxes touch inclusively
		if rect.Overlaps(box) {
			out = append(out, rect)
		}
	}, nil)
	return out
}

// Blocked reports whether box strictly overlaps any terrain of layer.
func (pw *PhysicsWorld) Blocked(layer TerrainLayer, box component.AABB) bool {
	return len(pw.Blockers(layer, box)) > 0
}
