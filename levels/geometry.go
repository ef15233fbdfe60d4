package levels

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/milk9111/dungeon/ecs/component"
	"github.com/milk9111/dungeon/loot"
)

const (
	LayerRooms          = "rooms"
	LayerCollision      = "collision"
	LayerEnemyCollision = "enemy_collision"
	TilesetCollision    = "collision"
)

var (
	ErrLayerNotFound   = errors.New("levels: layer not found")
	ErrTilesetNotFound = errors.New("levels: tileset not found")
	ErrInvalidLevel    = errors.New("levels: invalid level data")
)

type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

func (r Rect) AABB() component.AABB {
	return component.AABB{X: r.X, Y: r.Y, W: r.W, H: r.H}
}

// TileLayer is a solid/empty grid. Any non-zero tile is solid.
type TileLayer struct {
	Name  string
	Cols  int
	Rows  int
	TileW float64
	TileH float64
	Data  []int
}

// Solid reports whether the tile at col,row blocks movement. Tiles outside
// the grid are empty.
func (l TileLayer) Solid(col, row int) bool {
	if col < 0 || row < 0 || col >= l.Cols || row >= l.Rows {
		return false
	}
	idx := row*l.Cols + col
	if idx >= len(l.Data) {
		return false
	}
	return l.Data[idx] != 0
}

type DoorSpec struct {
	ID           int
	Rect         Rect
	Direction    component.Direction
	Type         component.DoorType
	Trap         component.Trap
	TargetLevel  string
	TargetRoomID int
	TargetDoorID int
}

type SwitchSpec struct {
	ID        int
	Rect      Rect
	Action    component.SwitchAction
	TargetIDs []int
}

type PotSpec struct {
	ID   int
	Rect Rect
}

type ChestSpec struct {
	ID            int
	Rect          Rect
	Contents      loot.Item
	RevealTrigger component.Trap
}

type EnemySpec struct {
	ID      int
	Rect    Rect
	Species component.Species
}

type RoomSpec struct {
	ID       int
	Bounds   Rect
	Doors    []DoorSpec
	Switches []SwitchSpec
	Pots     []PotSpec
	Chests   []ChestSpec
	Enemies  []EnemySpec
	// HasEnemyLayer is false when the room has no enemy group at all; such a
	// room can never be cleared.
	HasEnemyLayer bool
}

// Geometry is a parsed level, ready for the entity builder.
type Geometry struct {
	Name         string
	TileWidth    float64
	TileHeight   float64
	Rooms        []RoomSpec
	Terrain      TileLayer
	EnemyTerrain TileLayer
	// Warnings holds recoverable problems such as missing optional layers.
	Warnings []error
}

// Room returns the room spec with the given id.
func (g *Geometry) Room(id int) (*RoomSpec, bool) {
	for i := range g.Rooms {
		if g.Rooms[i].ID == id {
			return &g.Rooms[i], true
		}
	}
	return nil, false
}

// Parse decodes a Tiled JSON map into level geometry.
func Parse(name string, data []byte) (*Geometry, error) {
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidLevel, name, err)
	}
	return FromMap(name, &m)
}

// FromMap converts a decoded Tiled map. Missing layers and tilesets are
// recorded as warnings; unknown enum values fail the load.
func FromMap(name string, m *Map) (*Geometry, error) {
	g := &Geometry{
		Name:       name,
		TileWidth:  float64(m.TileWidth),
		TileHeight: float64(m.TileHeight),
	}
	layers := make(map[string]Layer)
	flatten(m.Layers, "", layers)

	if !hasTileset(m, TilesetCollision) {
		g.warn(fmt.Errorf("%w: %s", ErrTilesetNotFound, TilesetCollision))
	}
	g.Terrain = g.tileLayer(m, layers, LayerCollision)
	g.EnemyTerrain = g.tileLayer(m, layers, LayerEnemyCollision)

	roomLayer, ok := layers[LayerRooms]
	if !ok {
		g.warn(fmt.Errorf("%w: %s", ErrLayerNotFound, LayerRooms))
		return g, nil
	}
	for _, obj := range roomLayer.Objects {
		room := RoomSpec{ID: obj.ID, Bounds: obj.Rect()}
		if err := g.fillRoom(&room, layers); err != nil {
			return nil, fmt.Errorf("%w: %s: room %d: %v", ErrInvalidLevel, name, obj.ID, err)
		}
		g.Rooms = append(g.Rooms, room)
	}
	sort.Slice(g.Rooms, func(i, j int) bool { return g.Rooms[i].ID < g.Rooms[j].ID })
	return g, nil
}

func (g *Geometry) warn(err error) {
	g.Warnings = append(g.Warnings, err)
}

func hasTileset(m *Map, name string) bool {
	for _, ts := range m.Tilesets {
		if ts.Name == name {
			return true
		}
	}
	return false
}

func (g *Geometry) tileLayer(m *Map, layers map[string]Layer, name string) TileLayer {
	out := TileLayer{Name: name, TileW: float64(m.TileWidth), TileH: float64(m.TileHeight)}
	l, ok := layers[name]
	if !ok || l.Type != "tilelayer" {
		g.warn(fmt.Errorf("%w: %s", ErrLayerNotFound, name))
		return out
	}
	out.Cols, out.Rows = l.Width, l.Height
	out.Data = l.Data
	return out
}

func (g *Geometry) objectLayer(layers map[string]Layer, roomID int, kind string) ([]Object, bool) {
	name := fmt.Sprintf("%s/%d/%s", LayerRooms, roomID, kind)
	l, ok := layers[name]
	if !ok {
		g.warn(fmt.Errorf("%w: %s", ErrLayerNotFound, name))
		return nil, false
	}
	return l.Objects, true
}

func (g *Geometry) fillRoom(room *RoomSpec, layers map[string]Layer) error {
	doors, _ := g.objectLayer(layers, room.ID, "doors")
	for _, obj := range doors {
		d, err := parseDoor(obj)
		if err != nil {
			return fmt.Errorf("door %d: %w", obj.ID, err)
		}
		room.Doors = append(room.Doors, d)
	}

	switches, _ := g.objectLayer(layers, room.ID, "switches")
	for _, obj := range switches {
		s, err := parseSwitch(obj)
		if err != nil {
			return fmt.Errorf("switch %d: %w", obj.ID, err)
		}
		room.Switches = append(room.Switches, s)
	}

	pots, _ := g.objectLayer(layers, room.ID, "pots")
	for _, obj := range pots {
		room.Pots = append(room.Pots, PotSpec{ID: obj.ID, Rect: obj.Rect()})
	}

	chests, _ := g.objectLayer(layers, room.ID, "chests")
	for _, obj := range chests {
		c, err := parseChest(obj)
		if err != nil {
			return fmt.Errorf("chest %d: %w", obj.ID, err)
		}
		room.Chests = append(room.Chests, c)
	}

	enemies, ok := g.objectLayer(layers, room.ID, "enemies")
	room.HasEnemyLayer = ok
	for _, obj := range enemies {
		code, err := obj.Int("type")
		if err != nil {
			return fmt.Errorf("enemy %d: %w", obj.ID, err)
		}
		species, known := component.SpeciesFromCode(code)
		if !known {
			continue
		}
		room.Enemies = append(room.Enemies, EnemySpec{ID: obj.ID, Rect: obj.Rect(), Species: species})
	}
	return nil
}

func parseDoor(obj Object) (DoorSpec, error) {
	d := DoorSpec{ID: obj.ID, Rect: obj.Rect()}
	raw, _ := obj.String("direction")
	var err error
	if d.Direction, err = component.ParseDirection(raw); err != nil {
		return d, err
	}
	raw, _ = obj.String("doorType")
	if d.Type, err = component.ParseDoorType(raw); err != nil {
		return d, err
	}
	raw, _ = obj.String("trapDoorTrigger")
	if d.Trap, err = component.ParseTrap(raw); err != nil {
		return d, err
	}
	if d.TargetLevel, err = obj.String("targetLevel"); err != nil {
		return d, err
	}
	if d.TargetRoomID, err = obj.Int("targetRoomId"); err != nil {
		return d, err
	}
	if d.TargetDoorID, err = obj.Int("targetDoorId"); err != nil {
		return d, err
	}
	return d, nil
}

func parseSwitch(obj Object) (SwitchSpec, error) {
	s := SwitchSpec{ID: obj.ID, Rect: obj.Rect()}
	raw, _ := obj.String("action")
	var err error
	if s.Action, err = component.ParseSwitchAction(raw); err != nil {
		return s, err
	}
	if s.TargetIDs, err = obj.Ints("targetIds"); err != nil {
		return s, err
	}
	return s, nil
}

func parseChest(obj Object) (ChestSpec, error) {
	c := ChestSpec{ID: obj.ID, Rect: obj.Rect()}
	raw, _ := obj.String("contents")
	var err error
	if c.Contents, err = loot.ParseItem(raw); err != nil {
		return c, err
	}
	raw, _ = obj.String("revealChestTrigger")
	if c.RevealTrigger, err = component.ParseTrap(raw); err != nil {
		return c, err
	}
	return c, nil
}
