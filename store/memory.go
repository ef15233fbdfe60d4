package store

import (
	"context"
	"sync"

	"github.com/milk9111/dungeon/loot"
)

type roomKey struct {
	level  string
	roomID int
	id     int
}

// Memory is an in-process Store.
type Memory struct {
	mu          sync.Mutex
	doors       map[roomKey]DoorRecord
	chests      map[roomKey]ChestRecord
	bosses      map[string]bool
	inventories map[string]AreaInventory
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		doors:       make(map[roomKey]DoorRecord),
		chests:      make(map[roomKey]ChestRecord),
		bosses:      make(map[string]bool),
		inventories: make(map[string]AreaInventory),
	}
}

func (m *Memory) Door(_ context.Context, level string, roomID, doorID int) (DoorRecord, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.doors[roomKey{level, roomID, doorID}]
	return rec, ok, nil
}

func (m *Memory) Chest(_ context.Context, level string, roomID, chestID int) (ChestRecord, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.chests[roomKey{level, roomID, chestID}]
	return rec, ok, nil
}

func (m *Memory) BossDefeated(_ context.Context, level string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bosses[level], nil
}

func (m *Memory) UpdateDoorData(_ context.Context, level string, roomID, doorID int, unlocked bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doors[roomKey{level, roomID, doorID}] = DoorRecord{Unlocked: unlocked}
	return nil
}

func (m *Memory) UpdateChestData(_ context.Context, level string, roomID, chestID int, revealed, opened bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chests[roomKey{level, roomID, chestID}] = ChestRecord{Revealed: revealed, Opened: opened}
	return nil
}

func (m *Memory) DefeatedAreaBoss(_ context.Context, level string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bosses[level] = true
	return nil
}

func (m *Memory) AreaInventory(_ context.Context, level string) (AreaInventory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inventories[level], nil
}

func (m *Memory) UseAreaSmallKey(_ context.Context, level string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv := m.inventories[level]
	if inv.Keys <= 0 {
		return ErrNoKeys
	}
	inv.Keys--
	m.inventories[level] = inv
	return nil
}

func (m *Memory) AddDungeonItem(_ context.Context, level string, item loot.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv := m.inventories[level]
	applyItem(&inv, item)
	m.inventories[level] = inv
	return nil
}
