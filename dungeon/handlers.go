package dungeon

import (
	"go.uber.org/zap"

	"github.com/milk9111/dungeon/ecs"
	"github.com/milk9111/dungeon/ecs/component"
	"github.com/milk9111/dungeon/event"
	"github.com/milk9111/dungeon/loot"
	"github.com/milk9111/dungeon/tween"
)

func (s *Scene) subscribe(bus *event.Bus) {
	s.subs = append(s.subs,
		bus.Subscribe(event.ChestOpened, s.onChestOpened),
		bus.Subscribe(event.QuizAnswered, s.onQuizAnswered),
		bus.Subscribe(event.EnemyDestroyed, s.onEnemyDestroyed),
		bus.Subscribe(event.PlayerDefeated, s.onPlayerDefeated),
		bus.Subscribe(event.DialogClosed, s.onDialogClosed),
		bus.Subscribe(event.BossDefeated, s.onBossDefeated),
	)
}

// onChestOpened starts the chest flow. Small keys are earned through the
// quiz; everything else is granted immediately.
func (s *Scene) onChestOpened(e event.Event) {
	p, ok := e.Payload.(event.Chest)
	if !ok || s.quizChest.Valid() || s.dialogOpen {
		return
	}
	chestEnt, ok := s.deps.Registry.Chest(p.RoomID, p.ChestID)
	if !ok {
		s.log.Warn("chest not found", zap.Int("room", p.RoomID), zap.Int("chest", p.ChestID))
		return
	}
	chest, _ := ecs.Get(s.w, chestEnt, component.ChestComponent)
	if !chest.Revealed || chest.Opened {
		return
	}
	if chest.Contents == loot.SmallKey {
		s.quizChest = chestEnt
		s.updateState(func(st *component.SceneState) { st.InputLocked = true })
		s.deps.Bus.Publish(event.ShowQuiz, p)
		return
	}
	s.grant(chestEnt)
}

func (s *Scene) onQuizAnswered(e event.Event) {
	if !s.quizChest.Valid() {
		return
	}
	answer, _ := e.Payload.(event.QuizAnswer)
	chestEnt := s.quizChest
	chest, _ := ecs.Get(s.w, chestEnt, component.ChestComponent)
	if !answer.Correct {
		s.deps.Bus.Publish(event.ShowQuiz, event.Chest{RoomID: chest.RoomID, ChestID: chest.ID})
		return
	}
	s.quizChest = 0
	s.updateState(func(st *component.SceneState) { st.InputLocked = s.gameOver })
	s.grant(chestEnt)
}

// grant opens the chest and raises its reward over the player. The dialog
// shows, and the scene pauses, once the reward has risen.
func (s *Scene) grant(chestEnt ecs.Entity) {
	chest, _ := ecs.Get(s.w, chestEnt, component.ChestComponent)
	if !s.items.OpenChest(s.w, chestEnt) {
		return
	}
	body, _ := ecs.Get(s.w, s.player, component.TransformComponent)
	spec := s.catalog.Scene.Reward

	_ = ecs.Add(s.w, s.state, component.RewardComponent, component.Reward{
		Item:    chest.Contents,
		X:       body.X,
		Y:       body.Y,
		Visible: chest.Contents != loot.Nothing,
	})
	s.dialogOpen = true
	s.updateState(func(st *component.SceneState) { st.InputLocked = true })
	s.deps.Tweens.Add(tween.Config{
		Duration: spec.DurationMS,
		From:     func() []float64 { return []float64{body.Y} },
		To:       []float64{body.Y - spec.Rise},
		OnUpdate: func(v []float64) {
			ecs.Update(s.w, s.state, component.RewardComponent, func(r *component.Reward) { r.Y = v[0] })
		},
		OnComplete: func() {
			s.updateState(func(st *component.SceneState) {
				st.Paused = true
				st.InputLocked = s.gameOver
			})
			s.deps.Bus.Publish(event.ShowDialog, event.Dialog{Text: loot.Dialog(chest.Contents)})
		},
	})
}

func (s *Scene) onDialogClosed(event.Event) {
	if !s.dialogOpen {
		return
	}
	s.dialogOpen = false
	ecs.Update(s.w, s.state, component.RewardComponent, func(r *component.Reward) { r.Visible = false })
	s.updateState(func(st *component.SceneState) { st.Paused = false })
}

func (s *Scene) onEnemyDestroyed(event.Event) {
	s.triggers.CheckRoomCleared(s.w)
}

func (s *Scene) onBossDefeated(event.Event) {
	s.triggers.BossDefeated(s.w)
}

// onPlayerDefeated locks input and fades out before announcing game over.
func (s *Scene) onPlayerDefeated(event.Event) {
	if s.gameOver {
		return
	}
	s.gameOver = true
	s.updateState(func(st *component.SceneState) { st.InputLocked = true })
	s.deps.Tweens.Add(tween.Config{
		Duration: s.catalog.Scene.GameOverMS,
		From:     func() []float64 { return []float64{0} },
		To:       []float64{1},
		OnUpdate: func(v []float64) {
			s.updateState(func(st *component.SceneState) { st.FadeAlpha = v[0] })
		},
		OnComplete: func() {
			s.log.Info("game over", zap.String("level", s.deps.Level))
			s.deps.Bus.Publish(event.GameOver, nil)
		},
	})
}
