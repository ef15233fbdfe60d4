package loot

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownItem = errors.New("loot: unknown item")

// Item is a dungeon item a chest can hold.
type Item string

const (
	Nothing  Item = "NOTHING"
	SmallKey Item = "SMALL_KEY"
	BossKey  Item = "BOSS_KEY"
	Map      Item = "MAP"
	Compass  Item = "COMPASS"
)

// ParseItem accepts the upper-case names used in level data. The empty string
// is Nothing.
func ParseItem(s string) (Item, error) {
	switch item := Item(strings.ToUpper(strings.TrimSpace(s))); item {
	case "":
		return Nothing, nil
	case Nothing, SmallKey, BossKey, Map, Compass:
		return item, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownItem, s)
	}
}

// Kind is the loot category handed to the mint hook.
type Kind string

const (
	Sword  Kind = "sword"
	Shield Kind = "shield"
	Key    Kind = "key"
)

// KindFor maps chest contents to a loot kind. Nothing has no loot.
func KindFor(item Item) (Kind, bool) {
	switch item {
	case Nothing:
		return "", false
	case Map, Compass:
		return Sword, true
	case SmallKey, BossKey:
		return Key, true
	default:
		return Sword, true
	}
}

// Preset describes the metadata minted for a loot kind.
type Preset struct {
	Name        string
	Description string
	URI         string
	Attack      int
	Defense     int
	Rarity      string
	ItemType    string
}

var presets = map[Kind]Preset{
	Sword: {
		Name:        "Flaming Sword",
		Description: "A legendary sword that burns enemies",
		URI:         "https://example.com/flaming-sword.png",
		Attack:      50,
		Defense:     10,
		Rarity:      "Epic",
		ItemType:    "Sword",
	},
	Shield: {
		Name:        "Old Shield",
		Description: "A sturdy shield for protection",
		URI:         "https://example.com/old-shield.png",
		Attack:      5,
		Defense:     30,
		Rarity:      "Common",
		ItemType:    "Shield",
	},
	Key: {
		Name:        "Golden Key",
		Description: "A key that unlocks mysterious doors",
		URI:         "https://example.com/golden-key.png",
		Attack:      0,
		Defense:     5,
		Rarity:      "Rare",
		ItemType:    "Key",
	},
}

// PresetFor returns the metadata for kind.
func PresetFor(kind Kind) (Preset, bool) {
	p, ok := presets[kind]
	return p, ok
}
