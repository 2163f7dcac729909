package effects

import (
	"context"
	"time"

	"github.com/pyao-go/server/internal/sender"
	"github.com/pyao-go/server/internal/store"
)

// manaRecoveryPerTick mirrors MANA_RECOVERY_PER_TICK from
// original_source/src/effects/meditation_effect.py.
const manaRecoveryPerTick = 10

// MeditationEffect restores mana for meditating players at its own
// 3-second cadence, grounded on
// original_source/src/effects/meditation_effect.py.
type MeditationEffect struct {
	players store.PlayerRepo
}

func NewMeditationEffect(players store.PlayerRepo) *MeditationEffect {
	return &MeditationEffect{players: players}
}

func (e *MeditationEffect) Name() string            { return "Meditation" }
func (e *MeditationEffect) Interval() time.Duration { return 3 * time.Second }

func (e *MeditationEffect) ApplyToPlayer(ctx context.Context, userID int64, sndr sender.MessageSender) error {
	meditating, err := e.players.IsMeditating(ctx, userID)
	if err != nil || !meditating {
		return err
	}

	vitals, err := e.players.GetStats(ctx, userID)
	if err != nil {
		return err
	}

	if vitals.MinMana >= vitals.MaxMana {
		if err := e.players.SetMeditating(ctx, userID, false); err != nil {
			return err
		}
		sndr.MeditateToggle(false)
		sndr.ConsoleMsg("Tu mana esta completo. Dejas de meditar.", 0)
		return nil
	}

	newMana := vitals.MinMana + manaRecoveryPerTick
	if newMana > vitals.MaxMana {
		newMana = vitals.MaxMana
	}
	if err := e.players.UpdateMana(ctx, userID, int32(newMana)); err != nil {
		return err
	}
	sndr.UpdateMana(newMana)
	return nil
}
