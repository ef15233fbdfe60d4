package system

import (
	"github.com/milk9111/dungeon/ecs"
)

// TweenSystem advances the scene's tweens by the tick's delta. It runs while
// paused so dialogs and fades keep animating.
type TweenSystem struct {
	deps *Deps
}

func NewTweenSystem(deps *Deps) *TweenSystem {
	return &TweenSystem{deps: deps}
}

func (s *TweenSystem) Update(w *ecs.World) {
	if w == nil || s.deps.Tweens == nil {
		return
	}
	s.deps.Tweens.Update(deltaMS(w))
}
