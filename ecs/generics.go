package ecs

import (
	"fmt"

	"github.com/milk9111/dungeon/ecs/component"
)

// Add sets e's component, replacing any previous value.
func Add[T any](w *World, e Entity, handle component.ComponentHandle[T], value T) error {
	if err := w.AddComponent(e, handle.ID(), value); err != nil {
		return fmt.Errorf("add %v to %v: %w", handle, e, err)
	}
	return nil
}

func Remove[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	return w.RemoveComponent(e, handle.ID())
}

func Has[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	return w.HasComponent(e, handle.ID())
}

func Get[T any](w *World, e Entity, handle component.ComponentHandle[T]) (T, bool) {
	var zero T
	value, ok := w.GetComponent(e, handle.ID())
	if !ok {
		return zero, false
	}
	cast, ok := value.(T)
	if !ok {
		return zero, false
	}
	return cast, true
}

// Update applies fn to e's component in place. It reports false when e has no
// such component.
func Update[T any](w *World, e Entity, handle component.ComponentHandle[T], fn func(*T)) bool {
	value, ok := Get(w, e, handle)
	if !ok {
		return false
	}
	fn(&value)
	return Add(w, e, handle, value) == nil
}
