package dungeon

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"

	"github.com/milk9111/dungeon/ecs"
	"github.com/milk9111/dungeon/ecs/component"
	"github.com/milk9111/dungeon/event"
	"github.com/milk9111/dungeon/loot"
	"github.com/milk9111/dungeon/store"
	storemock "github.com/milk9111/dungeon/store/mock"
)

type recorder struct {
	events []event.Event
}

func (r *recorder) listen(bus *event.Bus, topics ...event.Topic) {
	for _, topic := range topics {
		bus.Subscribe(topic, func(e event.Event) { r.events = append(r.events, e) })
	}
}

func (r *recorder) count(topic event.Topic) int {
	n := 0
	for _, e := range r.events {
		if e.Topic == topic {
			n++
		}
	}
	return n
}

func (r *recorder) last(topic event.Topic) (event.Event, bool) {
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Topic == topic {
			return r.events[i], true
		}
	}
	return event.Event{}, false
}

func place(s *Scene, x, y float64) {
	_ = ecs.Add(s.World(), s.Player(), component.TransformComponent, component.Transform{X: x, Y: y})
}

func chestState(s *Scene, roomID, chestID int) component.Chest {
	e, _ := s.Registry().Chest(roomID, chestID)
	c, _ := ecs.Get(s.World(), e, component.ChestComponent)
	return c
}

// openChestFive presses switch 2 and faces chest 5 from below.
func openChestFive(t *testing.T, s *Scene) {
	t.Helper()
	place(s, 48, 48)
	s.Tick(component.Input{})
	require.True(t, chestState(s, 1, 5).Revealed)

	place(s, 192, 48)
	s.Tick(component.Input{MoveY: -1})
	s.Tick(component.Input{Interact: true})
}

func TestCaveChestQuizScenario(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := storemock.NewMockPersistence(ctrl)
	inv := storemock.NewMockInventory(ctrl)
	st.EXPECT().Door(gomock.Any(), "CAVE", gomock.Any(), gomock.Any()).Return(store.DoorRecord{}, false, nil).AnyTimes()
	st.EXPECT().Chest(gomock.Any(), "CAVE", gomock.Any(), gomock.Any()).Return(store.ChestRecord{}, false, nil).AnyTimes()
	st.EXPECT().BossDefeated(gomock.Any(), "CAVE").Return(false, nil).AnyTimes()

	reveal := st.EXPECT().UpdateChestData(gomock.Any(), "CAVE", 1, 5, true, false).Return(nil).Times(1)
	st.EXPECT().UpdateChestData(gomock.Any(), "CAVE", 1, 5, true, true).Return(nil).Times(1).After(reveal)
	inv.EXPECT().AddDungeonItem(gomock.Any(), "CAVE", loot.SmallKey).Return(nil).Times(1)

	var minted []loot.Kind
	bus := event.NewBus()
	rec := &recorder{}
	rec.listen(bus, event.ShowQuiz, event.ShowDialog)

	s, err := New(Options{
		Level:     "CAVE",
		RoomID:    1,
		DoorID:    10,
		Store:     st,
		Inventory: inv,
		Bus:       bus,
		Logger:    zaptest.NewLogger(t),
		Mint: func(_ context.Context, kind loot.Kind, _ loot.Preset) error {
			minted = append(minted, kind)
			return nil
		},
	})
	require.NoError(t, err)
	defer s.Teardown()

	openChestFive(t, s)
	assert.Equal(t, 1, rec.count(event.ShowQuiz))
	assert.False(t, chestState(s, 1, 5).Opened, "small keys wait for the quiz")
	assert.True(t, s.State().InputLocked)

	bus.Publish(event.QuizAnswered, event.QuizAnswer{Correct: false})
	assert.Equal(t, 2, rec.count(event.ShowQuiz))
	assert.False(t, chestState(s, 1, 5).Opened)

	bus.Publish(event.QuizAnswered, event.QuizAnswer{Correct: true})
	c := chestState(s, 1, 5)
	assert.True(t, c.Opened)
	assert.True(t, c.Revealed)
	assert.Empty(t, minted, "quiz rewards are not minted")
	assert.True(t, s.Reward().Visible)

	for i := 0; i < 40 && !s.State().Paused; i++ {
		s.Tick(component.Input{})
	}
	require.True(t, s.State().Paused)
	dlg, ok := rec.last(event.ShowDialog)
	require.True(t, ok)
	assert.Equal(t, event.Dialog{Text: loot.Dialog(loot.SmallKey)}, dlg.Payload)

	bus.Publish(event.DialogClosed, nil)
	assert.False(t, s.State().Paused)
	assert.False(t, s.Reward().Visible)

	// opening again does nothing
	s.Tick(component.Input{Interact: true})
	assert.Equal(t, 2, rec.count(event.ShowQuiz))
	assert.Equal(t, 1, rec.count(event.ShowDialog))
}

func TestCaveKeyOpensLockedDoor(t *testing.T) {
	mem := store.NewMemory()
	bus := event.NewBus()
	s, err := New(Options{Level: "cave", RoomID: 1, DoorID: 10, Store: mem, Inventory: mem, Bus: bus})
	require.NoError(t, err)
	defer s.Teardown()

	openChestFive(t, s)
	bus.Publish(event.QuizAnswered, event.QuizAnswer{Correct: true})
	for i := 0; i < 40 && !s.State().Paused; i++ {
		s.Tick(component.Input{})
	}
	bus.Publish(event.DialogClosed, nil)

	inv, err := mem.AreaInventory(context.Background(), "CAVE")
	require.NoError(t, err)
	require.Equal(t, 1, inv.Keys)

	place(s, 220, 72)
	for i := 0; i < 200 && s.State().CurrentRoomID == 1; i++ {
		s.Tick(component.Input{MoveX: 1})
	}
	assert.Equal(t, 50, s.State().CurrentRoomID)

	inv, err = mem.AreaInventory(context.Background(), "CAVE")
	require.NoError(t, err)
	assert.Zero(t, inv.Keys)
	rec, ok, err := mem.Door(context.Background(), "CAVE", 1, 11)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, rec.Unlocked)
}

func TestPlayerDefeatedFadesToGameOver(t *testing.T) {
	bus := event.NewBus()
	rec := &recorder{}
	rec.listen(bus, event.GameOver)
	s, err := New(Options{Level: "CAVE", RoomID: 1, DoorID: 10, Bus: bus})
	require.NoError(t, err)
	defer s.Teardown()

	bus.Publish(event.PlayerDefeated, nil)
	bus.Publish(event.PlayerDefeated, nil)
	assert.True(t, s.State().InputLocked)

	for i := 0; i < 100; i++ {
		s.Tick(component.Input{MoveX: 1})
	}
	assert.Equal(t, 1, rec.count(event.GameOver))
	assert.InDelta(t, 1, s.State().FadeAlpha, 1e-9)
}

func TestTeardownUnsubscribes(t *testing.T) {
	bus := event.NewBus()
	s, err := New(Options{Level: "CAVE", RoomID: 1, DoorID: 10, Bus: bus})
	require.NoError(t, err)

	inbound := []event.Topic{
		event.ChestOpened, event.QuizAnswered, event.EnemyDestroyed,
		event.PlayerDefeated, event.DialogClosed, event.BossDefeated,
	}
	for _, topic := range inbound {
		assert.Equal(t, 1, bus.HandlerCount(topic), "topic %s", topic)
	}
	s.Teardown()
	for _, topic := range inbound {
		assert.Zero(t, bus.HandlerCount(topic), "topic %s", topic)
	}
}

func TestNewErrors(t *testing.T) {
	_, err := New(Options{Level: "CAVE", RoomID: 404})
	assert.ErrorIs(t, err, ErrNoStartRoom)

	_, err = New(Options{Level: "NOWHERE", RoomID: 1})
	assert.Error(t, err)
}

func TestStartRoomIsLive(t *testing.T) {
	s, err := New(Options{Level: "CAVE", RoomID: 40, DoorID: 20})
	require.NoError(t, err)
	defer s.Teardown()

	assert.Equal(t, 40, s.State().CurrentRoomID)
	s.Registry().ForEachEntity(40, func(e ecs.Entity) {
		assert.False(t, ecs.Has(s.World(), e, component.DisabledComponent))
	})
	s.Registry().ForEachEntity(1, func(e ecs.Entity) {
		assert.True(t, ecs.Has(s.World(), e, component.DisabledComponent))
	})
	assert.Equal(t, component.AABB{X: 0, Y: 208, W: 256, H: 176}, s.Camera().Bounds)
}
