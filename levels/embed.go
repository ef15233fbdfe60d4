package levels

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed *.json
var LevelsFS embed.FS

// Names lists the embedded levels, e.g. "CAVE".
func Names() []string {
	entries, err := fs.ReadDir(LevelsFS, ".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".json" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names
}

// Exists reports whether name, case-insensitively, is an embedded level.
func Exists(name string) bool {
	name = strings.ToUpper(name)
	for _, n := range Names() {
		if n == name {
			return true
		}
	}
	return false
}

// LoadLevelFromFS parses the embedded level with the given name.
func LoadLevelFromFS(name string) (*Geometry, error) {
	name = strings.ToUpper(name)
	data, err := fs.ReadFile(LevelsFS, name+".json")
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	return Parse(name, data)
}
