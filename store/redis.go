package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/milk9111/dungeon/loot"
)

const (
	// Key pattern: dungeon:{slot}:{level}:{doors|chests|area}
	keyPrefix = "dungeon:"

	fieldBossDefeated = "boss_defeated"
	fieldKeys         = "keys"
	fieldBossKey      = "boss_key"
	fieldMap          = "map"
	fieldCompass      = "compass"
)

// useKeyScript decrements the key count only when it is positive.
var useKeyScript = redis.NewScript(`
local n = tonumber(redis.call('HGET', KEYS[1], ARGV[1]) or '0')
if n <= 0 then
	return -1
end
return redis.call('HINCRBY', KEYS[1], ARGV[1], -1)
`)

// RedisConfig holds the configuration for the Redis store.
type RedisConfig struct {
	Client redis.UniversalClient
	// Slot separates save games sharing one server.
	Slot string
}

// Validate ensures all required dependencies are provided.
func (c *RedisConfig) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: config cannot be nil", ErrInvalidConfig)
	}
	if c.Client == nil {
		return fmt.Errorf("%w: client cannot be nil", ErrInvalidConfig)
	}
	if c.Slot == "" {
		return fmt.Errorf("%w: slot cannot be empty", ErrInvalidConfig)
	}
	return nil
}

// NewSlotID returns a fresh save slot id.
func NewSlotID() string {
	return uuid.NewString()
}

// Redis is a Store backed by redis hashes.
type Redis struct {
	client redis.UniversalClient
	slot   string
}

var _ Store = (*Redis)(nil)

func NewRedis(cfg *RedisConfig) (*Redis, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Redis{client: cfg.Client, slot: cfg.Slot}, nil
}

func (r *Redis) key(level, kind string) string {
	return keyPrefix + r.slot + ":" + level + ":" + kind
}

func field(roomID, id int) string {
	return strconv.Itoa(roomID) + ":" + strconv.Itoa(id)
}

func (r *Redis) Door(ctx context.Context, level string, roomID, doorID int) (DoorRecord, bool, error) {
	var rec DoorRecord
	ok, err := r.getJSON(ctx, r.key(level, "doors"), field(roomID, doorID), &rec)
	return rec, ok, err
}

func (r *Redis) Chest(ctx context.Context, level string, roomID, chestID int) (ChestRecord, bool, error) {
	var rec ChestRecord
	ok, err := r.getJSON(ctx, r.key(level, "chests"), field(roomID, chestID), &rec)
	return rec, ok, err
}

func (r *Redis) getJSON(ctx context.Context, key, field string, out any) (bool, error) {
	raw, err := r.client.HGet(ctx, key, field).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("store: get %s %s: %w", key, field, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("store: decode %s %s: %w", key, field, err)
	}
	return true, nil
}

func (r *Redis) setJSON(ctx context.Context, key, field string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: encode %s %s: %w", key, field, err)
	}
	if err := r.client.HSet(ctx, key, field, raw).Err(); err != nil {
		return fmt.Errorf("store: set %s %s: %w", key, field, err)
	}
	return nil
}

func (r *Redis) BossDefeated(ctx context.Context, level string) (bool, error) {
	v, err := r.client.HGet(ctx, r.key(level, "area"), fieldBossDefeated).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("store: get boss flag: %w", err)
	}
	return v == "1", nil
}

func (r *Redis) UpdateDoorData(ctx context.Context, level string, roomID, doorID int, unlocked bool) error {
	return r.setJSON(ctx, r.key(level, "doors"), field(roomID, doorID), DoorRecord{Unlocked: unlocked})
}

func (r *Redis) UpdateChestData(ctx context.Context, level string, roomID, chestID int, revealed, opened bool) error {
	return r.setJSON(ctx, r.key(level, "chests"), field(roomID, chestID), ChestRecord{Revealed: revealed, Opened: opened})
}

func (r *Redis) DefeatedAreaBoss(ctx context.Context, level string) error {
	if err := r.client.HSet(ctx, r.key(level, "area"), fieldBossDefeated, "1").Err(); err != nil {
		return fmt.Errorf("store: set boss flag: %w", err)
	}
	return nil
}

func (r *Redis) AreaInventory(ctx context.Context, level string) (AreaInventory, error) {
	vals, err := r.client.HGetAll(ctx, r.key(level, "area")).Result()
	if err != nil {
		return AreaInventory{}, fmt.Errorf("store: get inventory: %w", err)
	}
	var inv AreaInventory
	if s, ok := vals[fieldKeys]; ok {
		n, err := strconv.Atoi(s)
		if err != nil {
			return AreaInventory{}, fmt.Errorf("store: decode key count: %w", err)
		}
		inv.Keys = n
	}
	inv.BossKey = vals[fieldBossKey] == "1"
	inv.Map = vals[fieldMap] == "1"
	inv.Compass = vals[fieldCompass] == "1"
	return inv, nil
}

func (r *Redis) UseAreaSmallKey(ctx context.Context, level string) error {
	n, err := useKeyScript.Run(ctx, r.client, []string{r.key(level, "area")}, fieldKeys).Int()
	if err != nil {
		return fmt.Errorf("store: use key: %w", err)
	}
	if n < 0 {
		return ErrNoKeys
	}
	return nil
}

func (r *Redis) AddDungeonItem(ctx context.Context, level string, item loot.Item) error {
	key := r.key(level, "area")
	var err error
	switch item {
	case loot.SmallKey:
		err = r.client.HIncrBy(ctx, key, fieldKeys, 1).Err()
	case loot.BossKey:
		err = r.client.HSet(ctx, key, fieldBossKey, "1").Err()
	case loot.Map:
		err = r.client.HSet(ctx, key, fieldMap, "1").Err()
	case loot.Compass:
		err = r.client.HSet(ctx, key, fieldCompass, "1").Err()
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("store: add %s: %w", item, err)
	}
	return nil
}
