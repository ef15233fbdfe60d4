package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReportsPrefabEdits(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, scriptsDir), 0o755); err != nil {
		t.Fatal(err)
	}
	w, err := Watch(dir)
	if err != nil || w == nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	spec := filepath.Join(dir, "spider.yaml")
	if err := os.WriteFile(spec, []byte("name: spider\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	expect(t, w, Change{Path: spec, Kind: SpecChanged})

	script := filepath.Join(dir, scriptsDir, "spider.tengo")
	if err := os.WriteFile(script, []byte("x := 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	expect(t, w, Change{Path: script, Kind: ScriptChanged})
}

func expect(t *testing.T, w *Watcher, want Change) {
	t.Helper()
	select {
	case got := <-w.Changes:
		if got != want {
			t.Fatalf("expected %+v, got %+v", want, got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s change", want.Kind)
	}
}

func TestWatchMissingDir(t *testing.T) {
	w, err := Watch(filepath.Join(t.TempDir(), "nope"))
	if err != nil || w != nil {
		t.Fatalf("expected no watcher and no error, got %v, %v", w, err)
	}
}

func TestDrainAfterClose(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := w.Drain(); !ok {
		t.Fatalf("open watcher should drain ok")
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	_ = w.Close()
	if _, ok := w.Drain(); ok {
		t.Fatalf("closed watcher should report !ok")
	}
}
