package ecs

import "github.com/milk9111/dungeon/ecs/component"

// Query returns the entities that have every listed component.
func (w *World) Query(keys ...component.Key) []Entity {
	if w == nil || len(keys) == 0 {
		return nil
	}
	sets := make([]*SparseSet, 0, len(keys))
	for _, k := range keys {
		s := w.storeFor(k.ID(), false)
		if s == nil {
			return nil
		}
		sets = append(sets, s)
	}
	// iterate smallest set
	smallest := 0
	for i, s := range sets {
		if s.Len() < sets[smallest].Len() {
			smallest = i
		}
	}
	out := make([]Entity, 0, sets[smallest].Len())
	for _, e := range sets[smallest].denseEntities {
		match := true
		for i, s := range sets {
			if i != smallest && !s.Has(e) {
				match = false
				break
			}
		}
		if match {
			out = append(out, e)
		}
	}
	return out
}

// First returns the first entity that has the component, if any.
func (w *World) First(key component.Key) (Entity, bool) {
	if w == nil {
		return 0, false
	}
	s := w.storeFor(key.ID(), false)
	if s.Len() == 0 {
		return 0, false
	}
	return s.denseEntities[0], true
}
