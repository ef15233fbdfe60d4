// Package store persists dungeon progress and the player's per-area inventory.
package store

import (
	"context"
	"errors"

	"github.com/milk9111/dungeon/loot"
)

//go:generate mockgen -destination=mock/mock_store.go -package=storemock github.com/milk9111/dungeon/store Persistence,Inventory

var (
	ErrNoKeys        = errors.New("store: no small keys")
	ErrInvalidConfig = errors.New("store: invalid config")
)

type DoorRecord struct {
	Unlocked bool `json:"unlocked"`
}

type ChestRecord struct {
	Revealed bool `json:"revealed"`
	Opened   bool `json:"opened"`
}

// Persistence records world state that must survive leaving a room or level.
// Lookups report ok=false when nothing was ever written.
type Persistence interface {
	Door(ctx context.Context, level string, roomID, doorID int) (DoorRecord, bool, error)
	Chest(ctx context.Context, level string, roomID, chestID int) (ChestRecord, bool, error)
	BossDefeated(ctx context.Context, level string) (bool, error)

	UpdateDoorData(ctx context.Context, level string, roomID, doorID int, unlocked bool) error
	UpdateChestData(ctx context.Context, level string, roomID, chestID int, revealed, opened bool) error
	DefeatedAreaBoss(ctx context.Context, level string) error
}

// AreaInventory is what the player carries for one level.
type AreaInventory struct {
	Keys    int
	BossKey bool
	Map     bool
	Compass bool
}

// Inventory tracks items per level.
type Inventory interface {
	AreaInventory(ctx context.Context, level string) (AreaInventory, error)
	// UseAreaSmallKey consumes one small key or returns ErrNoKeys.
	UseAreaSmallKey(ctx context.Context, level string) error
	AddDungeonItem(ctx context.Context, level string, item loot.Item) error
}

// Store is a backend that provides both.
type Store interface {
	Persistence
	Inventory
}

func applyItem(inv *AreaInventory, item loot.Item) {
	switch item {
	case loot.SmallKey:
		inv.Keys++
	case loot.BossKey:
		inv.BossKey = true
	case loot.Map:
		inv.Map = true
	case loot.Compass:
		inv.Compass = true
	}
}
