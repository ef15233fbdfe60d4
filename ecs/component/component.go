// Package component holds the plain data attached to dungeon entities and the
// typed handles systems use to reach it.
package component

import (
	"errors"
	"fmt"
	"sync/atomic"
)

var (
	ErrEntityNotAlive       = errors.New("ecs: entity not alive")
	ErrNilComponent         = errors.New("ecs: component is nil")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
)

// ComponentID selects one component store in a world. Zero is never issued.
type ComponentID uint32

var nextComponentID atomic.Uint32

// Key identifies a component store without carrying its value type, so a
// query can mix kinds.
type Key interface {
	ID() ComponentID
}

// ComponentKind is the typed id of a store.
type ComponentKind[T any] struct {
	id ComponentID
}

func NewComponentKind[T any]() ComponentKind[T] {
	return ComponentKind[T]{id: ComponentID(nextComponentID.Add(1))}
}

func (k ComponentKind[T]) ID() ComponentID { return k.id }

func (k ComponentKind[T]) Valid() bool { return k.id != 0 }

func (k ComponentKind[T]) String() string {
	var zero T
	return fmt.Sprintf("%T#%d", zero, k.id)
}

// ComponentHandle is exported once per component type, e.g. DoorComponent.
// It is the typed accessor for ecs.Get and friends and also a query Key.
type ComponentHandle[T any] struct {
	kind ComponentKind[T]
}

func NewComponent[T any]() ComponentHandle[T] {
	return ComponentHandle[T]{kind: NewComponentKind[T]()}
}

func (h ComponentHandle[T]) Kind() ComponentKind[T] { return h.kind }

func (h ComponentHandle[T]) ID() ComponentID { return h.kind.id }

func (h ComponentHandle[T]) String() string { return h.kind.String() }
