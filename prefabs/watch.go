package prefabs

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeKind says which part of the catalog an edit touches.
type ChangeKind int

const (
	SpecChanged ChangeKind = iota + 1
	ScriptChanged
)

func (k ChangeKind) String() string {
	switch k {
	case SpecChanged:
		return "spec"
	case ScriptChanged:
		return "script"
	default:
		return "unknown"
	}
}

// Change is one edit to a prefab file on disk.
type Change struct {
	Path string
	Kind ChangeKind
}

// debounce drops repeat events for one file; editors often write twice.
const debounce = 100 * time.Millisecond

// Watcher reports prefab YAML and enemy script edits so the runner can
// rebuild the scene from a fresh catalog. Close it to stop the goroutine.
type Watcher struct {
	fsw     *fsnotify.Watcher
	Changes chan Change
	Errors  chan error

	closeCh chan struct{}
	once    sync.Once
	done    sync.WaitGroup
}

// Watch watches root and its scripts directory, skipping whichever does not
// exist. It returns nil without error when neither does.
func Watch(root string) (*Watcher, error) {
	var dirs []string
	for _, d := range []string{root, filepath.Join(root, scriptsDir)} {
		if info, err := os.Stat(d); err == nil && info.IsDir() {
			dirs = append(dirs, d)
		}
	}
	if len(dirs) == 0 {
		return nil, nil
	}
	return NewWatcher(dirs...)
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}

	w := &Watcher{
		fsw:     fsw,
		Changes: make(chan Change, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	w.done.Add(1)
	go w.run()
	return w, nil
}

// Close stops the watcher and closes both channels. It is safe to call more
// than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.fsw.Close()
		w.done.Wait()
		close(w.Changes)
		close(w.Errors)
	})
	return err
}

// Drain returns the changes queued so far without blocking. ok is false once
// the watcher has been closed.
func (w *Watcher) Drain() (changes []Change, ok bool) {
	for {
		select {
		case c, open := <-w.Changes:
			if !open {
				return changes, false
			}
			changes = append(changes, c)
		default:
			return changes, true
		}
	}
}

func (w *Watcher) run() {
	defer w.done.Done()
	last := make(map[string]time.Time)
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			kind := classify(ev.Name)
			if kind == 0 {
				continue
			}
			now := time.Now()
			if t, seen := last[ev.Name]; seen && now.Sub(t) < debounce {
				continue
			}
			last[ev.Name] = now
			select {
			case w.Changes <- Change{Path: ev.Name, Kind: kind}:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func classify(p string) ChangeKind {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".yaml", ".yml":
		return SpecChanged
	case ".tengo":
		return ScriptChanged
	default:
		return 0
	}
}
