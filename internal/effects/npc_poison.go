package effects

import (
	"context"
	"time"

	"github.com/pyao-go/server/internal/model"
	"github.com/pyao-go/server/internal/spatial"
	"github.com/pyao-go/server/internal/store"
)

// npcPoisonDamagePerTick mirrors NPC_POISON_DAMAGE_PER_TICK from
// original_source/src/effects/effect_npc_poison.py.
const npcPoisonDamagePerTick = 5

// NPCDeathHandler is the narrow slice of npcengine.Engine that death
// routing needs.
type NPCDeathHandler interface {
	HandleNPCDeath(ctx context.Context, npc *model.NPC, killerUserID int64) (experience int64, gold int64, err error)
}

// NPCPoisonEffect damages every poisoned, living NPC across every map once
// per firing, grounded on
// original_source/src/effects/effect_npc_poison.py. Global-once-per-tick:
// unlike player poison, it is not fanned out per connected user.
type NPCPoisonEffect struct {
	index  *spatial.Index
	npcs   store.NPCRepo
	deaths NPCDeathHandler
}

func NewNPCPoisonEffect(index *spatial.Index, npcs store.NPCRepo, deaths NPCDeathHandler) *NPCPoisonEffect {
	return &NPCPoisonEffect{index: index, npcs: npcs, deaths: deaths}
}

func (e *NPCPoisonEffect) Name() string            { return "NPCPoison" }
func (e *NPCPoisonEffect) Interval() time.Duration { return 2 * time.Second }

func (e *NPCPoisonEffect) ApplyGlobal(ctx context.Context) error {
	now := time.Now()
	var firstErr error
	for _, mapID := range e.index.MapIDs() {
		for _, npc := range e.index.NPCsInMap(mapID) {
			if err := e.applyOne(ctx, npc, now); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (e *NPCPoisonEffect) applyOne(ctx context.Context, npc *model.NPC, now time.Time) error {
	if npc.PoisonedUntil.IsZero() || npc.IsDead() {
		return nil
	}
	if !npc.PoisonedUntil.After(now) {
		npc.PoisonedUntil = time.Time{}
		npc.PoisonedByUserID = 0
		return e.npcs.UpdateNPCPoisonedUntil(ctx, npc.InstanceID, time.Time{})
	}

	newHP := npc.HP - npcPoisonDamagePerTick
	if newHP < 0 {
		newHP = 0
	}
	npc.HP = newHP
	if err := e.npcs.UpdateNPCHp(ctx, npc.InstanceID, newHP); err != nil {
		return err
	}

	if newHP <= 0 {
		poisoner := npc.PoisonedByUserID
		npc.PoisonedUntil = time.Time{}
		npc.PoisonedByUserID = 0
		_, _, err := e.deaths.HandleNPCDeath(ctx, npc, poisoner)
		return err
	}
	return nil
}
