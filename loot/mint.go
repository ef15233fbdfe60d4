package loot

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// MintFunc publishes a loot item to an external ledger. It is optional and
// its failures never affect game state.
type MintFunc func(ctx context.Context, kind Kind, preset Preset) error

// Minter calls a MintFunc fire-and-forget.
type Minter struct {
	fn  MintFunc
	log *zap.Logger
}

func NewMinter(fn MintFunc, log *zap.Logger) *Minter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Minter{fn: fn, log: log.Named("mint")}
}

// Mint hands the loot kind for item to the hook. It reports whether the hook
// was invoked. Errors and panics are logged and swallowed.
func (m *Minter) Mint(ctx context.Context, item Item) (called bool) {
	if m == nil || m.fn == nil {
		return false
	}
	kind, ok := KindFor(item)
	if !ok {
		return false
	}
	preset, ok := PresetFor(kind)
	if !ok {
		m.log.Warn("unknown loot kind", zap.String("kind", string(kind)))
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("mint hook panicked", zap.String("kind", string(kind)), zap.Error(fmt.Errorf("%v", r)))
		}
	}()
	if err := m.fn(ctx, kind, preset); err != nil {
		m.log.Error("mint loot failed", zap.String("kind", string(kind)), zap.Error(err))
	} else {
		m.log.Info("minted loot", zap.String("kind", string(kind)), zap.String("name", preset.Name))
	}
	return true
}
