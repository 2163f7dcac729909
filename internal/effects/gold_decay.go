package effects

import (
	"context"
	"math"
	"time"

	"github.com/pyao-go/server/internal/sender"
	"github.com/pyao-go/server/internal/store"
)

// GoldDecayEffect removes a configured percentage of a player's gold every
// intervalSeconds, grounded on
// original_source/src/effects/effect_gold_decay.py. The scheduler fires it
// every second; it only decays once its own counter reaches intervalSeconds.
type GoldDecayEffect struct {
	players  store.PlayerRepo
	config   ConfigSource
	counters map[int64]int64
}

func NewGoldDecayEffect(players store.PlayerRepo, config ConfigSource) *GoldDecayEffect {
	return &GoldDecayEffect{players: players, config: config, counters: make(map[int64]int64)}
}

func (e *GoldDecayEffect) Name() string            { return "GoldDecay" }
func (e *GoldDecayEffect) Interval() time.Duration { return time.Second }

func (e *GoldDecayEffect) ApplyToPlayer(ctx context.Context, userID int64, sndr sender.MessageSender) error {
	percentage, err := e.config.GetEffectConfigFloat(ctx, "gold_decay.percentage", 1.0)
	if err != nil {
		return err
	}
	intervalSeconds, err := e.config.GetEffectConfigFloat(ctx, "gold_decay.interval_seconds", 60.0)
	if err != nil {
		return err
	}

	e.counters[userID]++
	if float64(e.counters[userID]) < intervalSeconds {
		return nil
	}
	e.counters[userID] = 0

	current, err := e.players.UpdateGold(ctx, userID, 0)
	if err != nil {
		return err
	}
	if current <= 0 {
		return nil
	}

	reduction := int64(math.Floor(float64(current) * (percentage / 100.0)))
	if reduction < 1 {
		reduction = 1
	}
	if reduction > current {
		reduction = current
	}

	if _, err := e.players.UpdateGold(ctx, userID, -reduction); err != nil {
		return err
	}
	sndr.ConsoleMsg("Has perdido monedas de oro", 0)
	return nil
}
