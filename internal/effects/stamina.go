package effects

import (
	"context"
	"time"

	"github.com/pyao-go/server/internal/sender"
	"github.com/pyao-go/server/internal/store"
)

// StaminaRegenEffect restores stamina for every connected player at a fixed
// cadence, grounded on game_config.py's StaminaConfig (regen_tick, default
// 2 points every 2s) since no standalone effect module exists in
// original_source for stamina regeneration.
type StaminaRegenEffect struct {
	players   store.PlayerRepo
	regenTick int16
}

func NewStaminaRegenEffect(players store.PlayerRepo, regenTick int16) *StaminaRegenEffect {
	if regenTick <= 0 {
		regenTick = 2
	}
	return &StaminaRegenEffect{players: players, regenTick: regenTick}
}

func (e *StaminaRegenEffect) Name() string            { return "StaminaRegen" }
func (e *StaminaRegenEffect) Interval() time.Duration { return 2 * time.Second }

func (e *StaminaRegenEffect) ApplyToPlayer(ctx context.Context, userID int64, sndr sender.MessageSender) error {
	vitals, err := e.players.GetStats(ctx, userID)
	if err != nil {
		return err
	}
	if vitals.MinSta >= vitals.MaxSta {
		return nil
	}

	newSta := vitals.MinSta + e.regenTick
	if newSta > vitals.MaxSta {
		newSta = vitals.MaxSta
	}
	vitals.MinSta = newSta
	if err := e.players.SetStats(ctx, userID, vitals); err != nil {
		return err
	}
	sndr.UpdateSta(newSta)
	return nil
}
