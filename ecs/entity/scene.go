package entity

import (
	"fmt"

	"github.com/milk9111/dungeon/ecs"
	"github.com/milk9111/dungeon/ecs/component"
)

// NewSceneState creates the singleton holding the clock, the current room
// and the reward display.
func NewSceneState(w *ecs.World, level string, roomID int) (ecs.Entity, error) {
	e := w.CreateEntity()
	if err := ecs.Add(w, e, component.SceneStateComponent, component.SceneState{
		Level:         level,
		CurrentRoomID: roomID,
	}); err != nil {
		return 0, fmt.Errorf("scene: add state: %w", err)
	}
	if err := ecs.Add(w, e, component.ClockComponent, component.Clock{}); err != nil {
		return 0, fmt.Errorf("scene: add clock: %w", err)
	}
	if err := ecs.Add(w, e, component.RewardComponent, component.Reward{}); err != nil {
		return 0, fmt.Errorf("scene: add reward: %w", err)
	}
	return e, nil
}
