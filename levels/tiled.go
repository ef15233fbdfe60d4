package levels

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Map is the subset of the Tiled JSON map format the loader reads.
type Map struct {
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	TileWidth  int       `json:"tilewidth"`
	TileHeight int       `json:"tileheight"`
	Layers     []Layer   `json:"layers"`
	Tilesets   []Tileset `json:"tilesets"`
}

type Layer struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Width   int      `json:"width"`
	Height  int      `json:"height"`
	Data    []int    `json:"data,omitempty"`
	Objects []Object `json:"objects,omitempty"`
	Layers  []Layer  `json:"layers,omitempty"`
}

type Object struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	GID        uint32     `json:"gid,omitempty"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	Properties []Property `json:"properties,omitempty"`
}

type Property struct {
	Name  string          `json:"name"`
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

type Tileset struct {
	FirstGID  int    `json:"firstgid"`
	Name      string `json:"name"`
	TileCount int    `json:"tilecount"`
}

// Rect is the object rectangle normalized to a top-left anchor. Tiled anchors
// tile objects (gid != 0) at their bottom-left corner.
func (o Object) Rect() Rect {
	y := o.Y
	if o.GID != 0 {
		y -= o.Height
	}
	return Rect{X: o.X, Y: y, W: o.Width, H: o.Height}
}

func (o Object) property(name string) (Property, bool) {
	for _, p := range o.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// String returns a property as text. Missing properties are "".
func (o Object) String(name string) (string, error) {
	p, ok := o.property(name)
	if !ok {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(p.Value, &s); err == nil {
		return s, nil
	}
	// numbers and bools are accepted as their literal text
	return strings.Trim(string(p.Value), `"`), nil
}

// Int returns a property as an int. Missing properties are 0.
func (o Object) Int(name string) (int, error) {
	p, ok := o.property(name)
	if !ok {
		return 0, nil
	}
	var f float64
	if err := json.Unmarshal(p.Value, &f); err == nil {
		return int(f), nil
	}
	var s string
	if err := json.Unmarshal(p.Value, &s); err != nil {
		return 0, fmt.Errorf("property %s: %w", name, err)
	}
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("property %s: %w", name, err)
	}
	return n, nil
}

// Ints returns a comma separated id list, or a single int property, as a slice.
func (o Object) Ints(name string) ([]int, error) {
	p, ok := o.property(name)
	if !ok {
		return nil, nil
	}
	var f float64
	if err := json.Unmarshal(p.Value, &f); err == nil {
		return []int{int(f)}, nil
	}
	var s string
	if err := json.Unmarshal(p.Value, &s); err != nil {
		return nil, fmt.Errorf("property %s: %w", name, err)
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", name, err)
		}
		out = append(out, n)
	}
	return out, nil
}

// flatten walks group layers and keys every leaf layer by its slash-joined
// path, e.g. "rooms/4/doors".
func flatten(layers []Layer, prefix string, out map[string]Layer) {
	for _, l := range layers {
		name := l.Name
		if prefix != "" {
			name = prefix + "/" + l.Name
		}
		if l.Type == "group" {
			flatten(l.Layers, name, out)
			continue
		}
		out[name] = l
	}
}
