package prefabs

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Dir is the on-disk directory whose files shadow the embedded prefabs. The
// runner watches it so edits apply on the next scene rebuild.
var Dir = "prefabs"

//go:embed *.yaml scripts/*.tengo
var embedded embed.FS

const scriptsDir = "scripts"

// Load reads a YAML prefab such as "spider.yaml".
func Load(name string) ([]byte, error) {
	return read(cleanPath(name, ""))
}

// LoadScript reads an enemy script. Names may be bare ("spider.tengo") or
// carry the scripts/ prefix.
func LoadScript(name string) ([]byte, error) {
	return read(cleanPath(name, scriptsDir))
}

// Overrides lists the embedded prefabs currently shadowed by a file in Dir.
func Overrides() []string {
	var out []string
	disk := os.DirFS(Dir)
	_ = fs.WalkDir(embedded, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if _, serr := fs.Stat(disk, p); serr == nil {
			out = append(out, p)
		}
		return nil
	})
	return out
}

func read(clean string) ([]byte, error) {
	data, err := fs.ReadFile(os.DirFS(Dir), clean)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return embedded.ReadFile(clean)
}

// cleanPath turns a user or YAML supplied name into a slash path relative to
// the prefab root, optionally forced under sub.
func cleanPath(name, sub string) string {
	s := path.Clean(filepath.ToSlash(name))
	s = strings.TrimPrefix(s, "prefabs/")
	if sub == "" {
		return s
	}
	return sub + "/" + strings.TrimPrefix(s, sub+"/")
}
