// Package room indexes the entities of a level by the room that owns them.
package room

import (
	"errors"
	"fmt"
	"sort"

	"github.com/milk9111/dungeon/ecs"
	"github.com/milk9111/dungeon/ecs/component"
)

var (
	ErrSealed       = errors.New("room: registry is sealed")
	ErrUnknownRoom  = errors.New("room: unknown room")
	ErrDuplicate    = errors.New("room: duplicate id")
	ErrEntityOwned  = errors.New("room: entity already belongs to a room")
	ErrInvalidRoute = errors.New("room: invalid entity")
)

// Room is the fixed set of entities inside one rectangle of the level.
type Room struct {
	ID     int
	Bounds component.AABB

	Doors    []ecs.Entity
	Switches []ecs.Entity
	Pots     []ecs.Entity
	Chests   []ecs.Entity
	Enemies  []ecs.Entity

	// HasEnemyGroup is false for rooms whose level data has no enemies layer.
	// Such rooms never count as cleared.
	HasEnemyGroup bool

	doors  map[int]ecs.Entity
	chests map[int]ecs.Entity
}

// Registry maps room ids to rooms. It is filled once per level and sealed;
// entity state keeps changing but membership does not.
type Registry struct {
	rooms  map[int]*Room
	owner  map[ecs.Entity]int
	sealed bool
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[int]*Room),
		owner: make(map[ecs.Entity]int),
	}
}

func (r *Registry) AddRoom(id int, bounds component.AABB, hasEnemyGroup bool) error {
	if r.sealed {
		return ErrSealed
	}
	if _, ok := r.rooms[id]; ok {
		return fmt.Errorf("%w: room %d", ErrDuplicate, id)
	}
	r.rooms[id] = &Room{
		ID:            id,
		Bounds:        bounds,
		HasEnemyGroup: hasEnemyGroup,
		doors:         make(map[int]ecs.Entity),
		chests:        make(map[int]ecs.Entity),
	}
	return nil
}

func (r *Registry) claim(roomID int, e ecs.Entity) (*Room, error) {
	if r.sealed {
		return nil, ErrSealed
	}
	if !e.Valid() {
		return nil, ErrInvalidRoute
	}
	rm, ok := r.rooms[roomID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRoom, roomID)
	}
	if other, ok := r.owner[e]; ok {
		return nil, fmt.Errorf("%w: %v in room %d", ErrEntityOwned, e, other)
	}
	r.owner[e] = roomID
	return rm, nil
}

func (r *Registry) AddDoor(roomID, doorID int, e ecs.Entity) error {
	if rm, ok := r.rooms[roomID]; ok {
		if _, dup := rm.doors[doorID]; dup {
			return fmt.Errorf("%w: door %d in room %d", ErrDuplicate, doorID, roomID)
		}
	}
	rm, err := r.claim(roomID, e)
	if err != nil {
		return err
	}
	rm.Doors = append(rm.Doors, e)
	rm.doors[doorID] = e
	return nil
}

func (r *Registry) AddChest(roomID, chestID int, e ecs.Entity) error {
	if rm, ok := r.rooms[roomID]; ok {
		if _, dup := rm.chests[chestID]; dup {
			return fmt.Errorf("%w: chest %d in room %d", ErrDuplicate, chestID, roomID)
		}
	}
	rm, err := r.claim(roomID, e)
	if err != nil {
		return err
	}
	rm.Chests = append(rm.Chests, e)
	rm.chests[chestID] = e
	return nil
}

func (r *Registry) AddSwitch(roomID int, e ecs.Entity) error {
	rm, err := r.claim(roomID, e)
	if err != nil {
		return err
	}
	rm.Switches = append(rm.Switches, e)
	return nil
}

func (r *Registry) AddPot(roomID int, e ecs.Entity) error {
	rm, err := r.claim(roomID, e)
	if err != nil {
		return err
	}
	rm.Pots = append(rm.Pots, e)
	return nil
}

func (r *Registry) AddEnemy(roomID int, e ecs.Entity) error {
	rm, err := r.claim(roomID, e)
	if err != nil {
		return err
	}
	rm.Enemies = append(rm.Enemies, e)
	return nil
}

// Seal ends construction.
func (r *Registry) Seal() { r.sealed = true }

func (r *Registry) Sealed() bool { return r.sealed }

func (r *Registry) Room(id int) (*Room, bool) {
	rm, ok := r.rooms[id]
	return rm, ok
}

// IDs returns the room ids in ascending order.
func (r *Registry) IDs() []int {
	ids := make([]int, 0, len(r.rooms))
	for id := range r.rooms {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// ForEachRoom visits rooms in ascending id order.
func (r *Registry) ForEachRoom(fn func(*Room)) {
	for _, id := range r.IDs() {
		fn(r.rooms[id])
	}
}

// ForEachEntity visits every entity of a room. Unknown rooms visit nothing.
func (r *Registry) ForEachEntity(roomID int, fn func(ecs.Entity)) {
	rm, ok := r.rooms[roomID]
	if !ok {
		return
	}
	for _, group := range [][]ecs.Entity{rm.Doors, rm.Switches, rm.Pots, rm.Chests, rm.Enemies} {
		for _, e := range group {
			fn(e)
		}
	}
}

// Door resolves a (room, door) id pair.
func (r *Registry) Door(roomID, doorID int) (ecs.Entity, bool) {
	rm, ok := r.rooms[roomID]
	if !ok {
		return 0, false
	}
	e, ok := rm.doors[doorID]
	return e, ok
}

// Chest resolves a (room, chest) id pair.
func (r *Registry) Chest(roomID, chestID int) (ecs.Entity, bool) {
	rm, ok := r.rooms[roomID]
	if !ok {
		return 0, false
	}
	e, ok := rm.chests[chestID]
	return e, ok
}

// RoomOf returns the id of the room owning e.
func (r *Registry) RoomOf(e ecs.Entity) (int, bool) {
	id, ok := r.owner[e]
	return id, ok
}
