package effects

import (
	"context"
	"time"

	"github.com/pyao-go/server/internal/broadcast"
	"github.com/pyao-go/server/internal/sender"
	"github.com/pyao-go/server/internal/spatial"
	"github.com/pyao-go/server/internal/store"
)

// MorphExpiryEffect restores a player's real body/head once their morph
// expires, broadcasting CHARACTER_CHANGE to the player and to every other
// session sharing the map, grounded on
// original_source/src/effects/effect_morph_expiry.py.
type MorphExpiryEffect struct {
	players     store.PlayerRepo
	index       *spatial.Index
	broadcaster *broadcast.Broadcaster
}

func NewMorphExpiryEffect(players store.PlayerRepo, index *spatial.Index, broadcaster *broadcast.Broadcaster) *MorphExpiryEffect {
	return &MorphExpiryEffect{players: players, index: index, broadcaster: broadcaster}
}

func (e *MorphExpiryEffect) Name() string            { return "MorphExpiry" }
func (e *MorphExpiryEffect) Interval() time.Duration { return 5 * time.Second }

func (e *MorphExpiryEffect) ApplyGlobal(ctx context.Context) error {
	now := time.Now()
	var firstErr error
	for _, userID := range e.index.AllConnectedUserIDs() {
		if err := e.restoreOne(ctx, userID, now); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (e *MorphExpiryEffect) restoreOne(ctx context.Context, userID int64, now time.Time) error {
	morph, err := e.players.GetMorphedAppearance(ctx, userID)
	if err != nil {
		return err
	}
	if morph.Until.IsZero() || morph.Active(now) {
		return nil
	}

	if err := e.players.ClearMorphedAppearance(ctx, userID); err != nil {
		return err
	}

	body, head, err := e.players.GetAppearance(ctx, userID)
	if err != nil {
		return err
	}
	pos, err := e.players.GetPosition(ctx, userID)
	if err != nil {
		return err
	}
	heading, err := e.players.GetHeading(ctx, userID)
	if err != nil {
		return err
	}

	sndr, ok := e.index.SenderFor(userID)
	if !ok {
		return nil
	}
	sndr.CharacterChange(int32(userID), body, head, heading, 0, 0, 0, 0, 0)
	e.broadcaster.BroadcastToMap(pos.Map, userID, func(other sender.MessageSender) {
		other.CharacterChange(int32(userID), body, head, heading, 0, 0, 0, 0, 0)
	})
	return nil
}
