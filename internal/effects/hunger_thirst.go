// Package effects holds the concrete tick-scheduler effects (spec.md
// §4.11): one file per effect, each owning its own per-user or per-world
// state rather than sharing a class-level timestamp, grounded on
// original_source/src/effects/*.py.
package effects

import (
	"context"
	"time"

	"github.com/pyao-go/server/internal/sender"
	"github.com/pyao-go/server/internal/store"
)

// ConfigSource is the narrow slice of store.ConfigRepo an effect needs to
// read its own runtime-tunable knobs.
type ConfigSource interface {
	GetEffectConfigInt(ctx context.Context, key string, def int64) (int64, error)
	GetEffectConfigFloat(ctx context.Context, key string, def float64) (float64, error)
}

// HungerThirstEffect drains water/food counters on their own configured
// cadence, ticking once per scheduler firing (spec.md §4.11,
// original_source/src/effects/effect_hunger_thirst.py). The effect runs
// every tick but only mutates state once its own per-user counter reaches
// the configured interval, matching the Python source's counter-not-clock
// gating (spec.md §9 Design Note).
type HungerThirstEffect struct {
	players store.PlayerRepo
	config  ConfigSource
}

func NewHungerThirstEffect(players store.PlayerRepo, config ConfigSource) *HungerThirstEffect {
	return &HungerThirstEffect{players: players, config: config}
}

func (e *HungerThirstEffect) Name() string { return "HungerThirst" }

// Interval is the scheduler heartbeat; the real gating happens against the
// configured intervalSed/intervalHambre tick counts below.
func (e *HungerThirstEffect) Interval() time.Duration { return time.Second }

func (e *HungerThirstEffect) ApplyToPlayer(ctx context.Context, userID int64, sndr sender.MessageSender) error {
	intervalSed, err := e.config.GetEffectConfigInt(ctx, "hunger_thirst.interval_sed", 180)
	if err != nil {
		return err
	}
	intervalHambre, err := e.config.GetEffectConfigInt(ctx, "hunger_thirst.interval_hambre", 180)
	if err != nil {
		return err
	}
	reduccionAgua, err := e.config.GetEffectConfigInt(ctx, "hunger_thirst.reduccion_agua", 10)
	if err != nil {
		return err
	}
	reduccionHambre, err := e.config.GetEffectConfigInt(ctx, "hunger_thirst.reduccion_hambre", 10)
	if err != nil {
		return err
	}

	ht, err := e.players.GetHungerThirst(ctx, userID)
	if err != nil {
		return err
	}

	changed := false

	ht.WaterCounter++
	if int64(ht.WaterCounter) >= intervalSed {
		ht.WaterCounter = 0
		ht.MinWater = subClampInt16(ht.MinWater, int16(reduccionAgua))
		changed = true
		ht.ThirstFlag = ht.MinWater <= 0
	}

	ht.HungerCounter++
	if int64(ht.HungerCounter) >= intervalHambre {
		ht.HungerCounter = 0
		ht.MinHunger = subClampInt16(ht.MinHunger, int16(reduccionHambre))
		changed = true
		ht.HungerFlag = ht.MinHunger <= 0
	}

	if err := e.players.SetHungerThirst(ctx, userID, ht); err != nil {
		return err
	}
	if changed {
		sndr.UpdateHungerAndThirst(byte(ht.MaxWater), byte(ht.MinWater), byte(ht.MaxHunger), byte(ht.MinHunger))
	}
	return nil
}

func subClampInt16(v, delta int16) int16 {
	v -= delta
	if v < 0 {
		return 0
	}
	return v
}
