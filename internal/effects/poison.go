package effects

import (
	"context"
	"time"

	"github.com/pyao-go/server/internal/sender"
	"github.com/pyao-go/server/internal/store"
)

// poisonDamagePerTick mirrors POISON_DAMAGE_PER_TICK from
// original_source/src/effects/effect_poison.py.
const poisonDamagePerTick = 5

// PoisonEffect damages a poisoned player every 2 seconds until the poison
// expires or the player dies, grounded on
// original_source/src/effects/effect_poison.py.
type PoisonEffect struct {
	players store.PlayerRepo
}

func NewPoisonEffect(players store.PlayerRepo) *PoisonEffect {
	return &PoisonEffect{players: players}
}

func (e *PoisonEffect) Name() string            { return "Poison" }
func (e *PoisonEffect) Interval() time.Duration { return 2 * time.Second }

func (e *PoisonEffect) ApplyToPlayer(ctx context.Context, userID int64, sndr sender.MessageSender) error {
	until, err := e.players.GetPoisonedUntil(ctx, userID)
	if err != nil {
		return err
	}
	if until.IsZero() {
		return nil
	}
	now := time.Now()
	if !until.After(now) {
		return e.players.UpdatePoisonedUntil(ctx, userID, time.Time{})
	}

	alive, err := e.players.IsAlive(ctx, userID)
	if err != nil {
		return err
	}
	if !alive {
		return e.players.UpdatePoisonedUntil(ctx, userID, time.Time{})
	}

	vitals, err := e.players.GetStats(ctx, userID)
	if err != nil {
		return err
	}
	newHP := vitals.MinHP - poisonDamagePerTick
	if newHP < 0 {
		newHP = 0
	}
	if err := e.players.UpdateHP(ctx, userID, int32(newHP)); err != nil {
		return err
	}
	sndr.UpdateHP(newHP)

	if newHP <= 0 {
		return e.players.UpdatePoisonedUntil(ctx, userID, time.Time{})
	}
	return nil
}
