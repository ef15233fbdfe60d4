package ecs

import (
	"strconv"

	"go.uber.org/zap"
)

// Entity is an index plus a generation. Destroying an entity bumps the
// generation of its index, so a handle held by a projectile owner or an
// event payload stops matching once the slot is reused.
type Entity uint64

type entityID uint32
type generation uint32

const entityIDBits = 32

func makeEntity(id entityID, gen generation) Entity {
	return Entity(uint64(gen)<<entityIDBits | uint64(id))
}

// EntityOf recovers a handle stored in a component or event payload.
func EntityOf(raw uint64) Entity { return Entity(raw) }

// Raw is the form kept in components and event payloads, which cannot import
// this package.
func (e Entity) Raw() uint64 { return uint64(e) }

func (e Entity) id() entityID { return entityID(uint32(e)) }

func (e Entity) generation() generation { return generation(uint32(uint64(e) >> entityIDBits)) }

// Valid reports whether e was ever issued. The zero Entity means "none".
func (e Entity) Valid() bool { return e.id() != 0 }

func (e Entity) String() string {
	if !e.Valid() {
		return "none"
	}
	return strconv.FormatUint(uint64(e.id()), 10) + "v" + strconv.FormatUint(uint64(e.generation()), 10)
}

// Field logs e under key.
func (e Entity) Field(key string) zap.Field { return zap.Stringer(key, e) }
