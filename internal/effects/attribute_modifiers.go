package effects

import (
	"context"
	"sync"
	"time"

	"github.com/pyao-go/server/internal/sender"
	"github.com/pyao-go/server/internal/store"
)

// AttributeModifiersEffect reaps expired strength/agility modifiers and
// pushes a fresh UPDATE_STR_AND_DEX once a previously active modifier
// reads back as expired, grounded on
// original_source/src/effects/effect_attribute_modifiers.py.
//
// store.PlayerRepo's Get{Strength,Agility}Modifier already filter expiry at
// the SQL layer (spec.md §6), so an expired modifier simply reads back as
// 0 — there is no "until" timestamp available here to detect the
// active-to-expired transition the way the original does. Instead this
// effect remembers, per user, the last nonzero value it observed for each
// modifier; a now-zero reading where the remembered value was nonzero is
// the transition, at which point the persisted row is explicitly cleared
// and the client is notified.
type AttributeModifiersEffect struct {
	players store.PlayerRepo

	mu       sync.Mutex
	lastStr  map[int64]int32
	lastAgi  map[int64]int32
}

func NewAttributeModifiersEffect(players store.PlayerRepo) *AttributeModifiersEffect {
	return &AttributeModifiersEffect{
		players: players,
		lastStr: make(map[int64]int32),
		lastAgi: make(map[int64]int32),
	}
}

func (e *AttributeModifiersEffect) Name() string            { return "AttributeModifiers" }
func (e *AttributeModifiersEffect) Interval() time.Duration { return 10 * time.Second }

func (e *AttributeModifiersEffect) ApplyToPlayer(ctx context.Context, userID int64, sndr sender.MessageSender) error {
	str, err := e.players.GetStrengthModifier(ctx, userID)
	if err != nil {
		return err
	}
	agi, err := e.players.GetAgilityModifier(ctx, userID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	strExpired := str == 0 && e.lastStr[userID] != 0
	agiExpired := agi == 0 && e.lastAgi[userID] != 0
	e.lastStr[userID] = str
	e.lastAgi[userID] = agi
	e.mu.Unlock()

	if !strExpired && !agiExpired {
		return nil
	}

	if strExpired {
		if err := e.players.SetStrengthModifier(ctx, userID, 0, time.Time{}); err != nil {
			return err
		}
	}
	if agiExpired {
		if err := e.players.SetAgilityModifier(ctx, userID, 0, time.Time{}); err != nil {
			return err
		}
	}

	attrs, err := e.players.GetAttributes(ctx, userID)
	if err != nil {
		return err
	}
	sndr.UpdateStrAndDex(byte(attrs.STR), byte(attrs.AGI))
	return nil
}
