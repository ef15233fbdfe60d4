package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/milk9111/dungeon/dungeon"
	"github.com/milk9111/dungeon/ecs/component"
	"github.com/milk9111/dungeon/event"
	"github.com/milk9111/dungeon/logger"
	"github.com/milk9111/dungeon/prefabs"
	"github.com/milk9111/dungeon/store"
)

var (
	runLevel   string
	runRoom    int
	runDoor    int
	runRedis   string
	runSlot    string
	runPrefabs string
	runDebug   bool
	runScale   int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open a window and play a level",
	RunE:  runGame,
}

func init() {
	runCmd.Flags().StringVar(&runLevel, "level", "CAVE", "level to load")
	runCmd.Flags().IntVar(&runRoom, "room", 1, "start room id")
	runCmd.Flags().IntVar(&runDoor, "door", 10, "door the player enters by")
	runCmd.Flags().StringVar(&runRedis, "redis", "", "redis address for save data; empty keeps it in memory")
	runCmd.Flags().StringVar(&runSlot, "slot", "", "save slot id (default: a fresh one)")
	runCmd.Flags().StringVar(&runPrefabs, "prefabs", "prefabs", "directory of prefab overrides, watched for edits")
	runCmd.Flags().BoolVar(&runDebug, "debug", false, "debug logging and overlay")
	runCmd.Flags().IntVar(&runScale, "scale", 3, "window scale")

	rootCmd.AddCommand(runCmd)
}

func runGame(cmd *cobra.Command, _ []string) error {
	log := logger.New(runDebug)
	defer func() { _ = log.Sync() }()

	prefabs.Dir = runPrefabs
	st, closeStore, err := openStore(cmd.Context(), log)
	if err != nil {
		return err
	}
	defer closeStore()

	r := &runner{
		ctx:   cmd.Context(),
		log:   log,
		bus:   event.NewBus(),
		store: st,
		debug: runDebug,
	}
	r.listen()
	if err := r.load(runLevel, runRoom, runDoor, nil); err != nil {
		return err
	}
	r.watch(runPrefabs)
	defer r.close()

	cam := r.scene.Catalog().Scene.Camera
	ebiten.SetWindowTitle("dungeon - " + r.level)
	ebiten.SetWindowSize(int(cam.Canvas.Width)*runScale, int(cam.Canvas.Height)*runScale)
	if err := ebiten.RunGame(r); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

func openStore(ctx context.Context, log *zap.Logger) (store.Store, func(), error) {
	if runRedis == "" {
		return store.NewMemory(), func() {}, nil
	}
	client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{runRedis}})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("connect redis %s: %w", runRedis, err)
	}
	slot := runSlot
	if slot == "" {
		slot = store.NewSlotID()
	}
	st, err := store.NewRedis(&store.RedisConfig{Client: client, Slot: slot})
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	log.Info("save slot", zap.String("addr", runRedis), zap.String("slot", slot))
	return st, func() { _ = client.Close() }, nil
}

// runner is the ebiten.Game driving one scene at a time. The bus outlives
// scenes so the overlay subscriptions survive level changes and reloads.
type runner struct {
	ctx   context.Context
	log   *zap.Logger
	bus   *event.Bus
	store store.Store
	debug bool

	level   string
	scene   *dungeon.Scene
	watcher *prefabs.Watcher

	quiz     bool
	dialog   string
	gameOver bool
}

func (r *runner) listen() {
	r.bus.Subscribe(event.ShowQuiz, func(event.Event) { r.quiz = true })
	r.bus.Subscribe(event.ShowDialog, func(e event.Event) {
		if d, ok := e.Payload.(event.Dialog); ok {
			r.dialog = d.Text
		}
	})
	r.bus.Subscribe(event.GameOver, func(event.Event) { r.gameOver = true })
	r.bus.Subscribe(event.PotBroken, func(e event.Event) {
		r.log.Debug("pot broken", zap.Any("pot", e.Payload))
	})
}

// load replaces the current scene. A nil catalog is reloaded from disk.
func (r *runner) load(level string, roomID, doorID int, catalog *prefabs.Catalog) error {
	if catalog == nil {
		var err error
		if catalog, err = prefabs.LoadCatalog(); err != nil {
			return err
		}
	}
	s, err := dungeon.New(dungeon.Options{
		Context:   r.ctx,
		Level:     level,
		RoomID:    roomID,
		DoorID:    doorID,
		Catalog:   catalog,
		Store:     r.store,
		Inventory: r.store,
		Bus:       r.bus,
		Logger:    r.log,
	})
	if err != nil {
		return err
	}
	if r.scene != nil {
		r.scene.Teardown()
	}
	r.scene = s
	r.level = s.State().Level
	r.quiz, r.dialog, r.gameOver = false, "", false
	return nil
}

func (r *runner) watch(dir string) {
	if o := prefabs.Overrides(); len(o) > 0 {
		r.log.Info("prefab overrides", zap.Strings("files", o))
	}
	w, err := prefabs.Watch(dir)
	if err != nil {
		r.log.Warn("prefab watcher disabled", zap.Error(err))
		return
	}
	r.watcher = w
}

func (r *runner) close() {
	if r.watcher != nil {
		_ = r.watcher.Close()
	}
	if r.scene != nil {
		r.scene.Teardown()
	}
}

// reloads reports whether any prefab changed since the last frame.
func (r *runner) reloads() bool {
	if r.watcher == nil {
		return false
	}
	select {
	case err := <-r.watcher.Errors:
		if err != nil {
			r.log.Warn("prefab watcher", zap.Error(err))
		}
	default:
	}
	changes, ok := r.watcher.Drain()
	if !ok {
		r.watcher = nil
	}
	for _, c := range changes {
		r.log.Info("prefab changed", zap.String("file", c.Path), zap.Stringer("kind", c.Kind))
	}
	return len(changes) > 0
}

func (r *runner) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if r.reloads() {
		st := r.scene.State()
		if err := r.load(st.Level, st.CurrentRoomID, 0, nil); err != nil {
			r.log.Warn("prefab reload failed, keeping current scene", zap.Error(err))
		}
	}
	if req, ok := r.scene.LevelChange(); ok {
		if err := r.load(req.Level, req.RoomID, req.DoorID, r.scene.Catalog()); err != nil {
			return fmt.Errorf("load level %s: %w", req.Level, err)
		}
		ebiten.SetWindowTitle("dungeon - " + r.level)
	}

	switch {
	case r.quiz:
		if inpututil.IsKeyJustPressed(ebiten.KeyY) {
			r.answer(true)
		} else if inpututil.IsKeyJustPressed(ebiten.KeyN) {
			r.answer(false)
		}
	case r.dialog != "":
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			r.dialog = ""
			r.bus.Publish(event.DialogClosed, nil)
		}
	}

	r.scene.Tick(readInput())
	return nil
}

func (r *runner) answer(correct bool) {
	r.quiz = false
	r.bus.Publish(event.QuizAnswered, event.QuizAnswer{Correct: correct})
}

func (r *runner) Layout(int, int) (int, int) {
	cam := r.scene.Catalog().Scene.Camera
	return int(cam.Canvas.Width), int(cam.Canvas.Height)
}

func readInput() component.Input {
	var in component.Input
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA) {
		in.MoveX--
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD) {
		in.MoveX++
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) || ebiten.IsKeyPressed(ebiten.KeyW) {
		in.MoveY--
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) || ebiten.IsKeyPressed(ebiten.KeyS) {
		in.MoveY++
	}
	in.Attack = inpututil.IsKeyJustPressed(ebiten.KeySpace)
	in.Interact = inpututil.IsKeyJustPressed(ebiten.KeyE)
	in.Throw = inpututil.IsKeyJustPressed(ebiten.KeyT)
	return in
}
