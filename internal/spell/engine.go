// Package spell implements SpellEngine.Cast (spec.md §4.7). Grounded on
// original_source/src/spell_service.py for the cost/targeting/damage-bonus
// arithmetic, restructured into the teacher's validate-then-mutate-then-
// broadcast shape (internal/system/combat.go).
package spell

import (
	"context"
	"math/rand"
	"strconv"
	"time"

	"github.com/pyao-go/server/internal/apperr"
	"github.com/pyao-go/server/internal/model"
	"github.com/pyao-go/server/internal/sender"
	"github.com/pyao-go/server/internal/store"
)

// Catalog resolves a spell id to its definition. The TOML-backed loader is
// an external collaborator (spec.md §1); this interface is all the engine
// needs from it.
type Catalog interface {
	GetSpell(spellID int32) (model.Spell, bool)
}

// Targets resolves whatever occupies (map, x, y): either a live NPC or a
// connected player, whichever the caster's target tile holds.
type Targets interface {
	NPCAt(mapID, x, y int16) (*model.NPC, bool)
	PlayerAt(mapID, x, y int16) (userID int64, ok bool)
}

// DeathHandler mirrors combat.DeathHandler; kept as its own type to avoid
// an import cycle between spell and combat.
type DeathHandler interface {
	HandleNPCDeath(ctx context.Context, npc *model.NPC, killerUserID int64) (experience, gold int64, err error)
}

// SummonSpawner creates a pet NPC instance attributed to userID at pos.
type SummonSpawner interface {
	SpawnSummon(ctx context.Context, templateID int32, ownerUserID int64, pos model.Position) (*model.NPC, error)
}

// Engine is the SpellEngine.
type Engine struct {
	catalog Catalog
	players store.PlayerRepo
	npcs    store.NPCRepo
	targets Targets
	death   DeathHandler
	summon  SummonSpawner
	rng     *rand.Rand
}

func NewEngine(catalog Catalog, players store.PlayerRepo, npcs store.NPCRepo, targets Targets, death DeathHandler, summon SummonSpawner, rng *rand.Rand) *Engine {
	return &Engine{catalog: catalog, players: players, npcs: npcs, targets: targets, death: death, summon: summon, rng: rng}
}

// Cast resolves one cast attempt. Preconditions from spec.md §4.7: spell
// exists, caster has enough mana, a compatible target occupies
// (targetX, targetY) on the caster's map.
func (e *Engine) Cast(ctx context.Context, userID int64, spellID int32, targetX, targetY int16, sndr sender.MessageSender) (bool, error) {
	spellDef, ok := e.catalog.GetSpell(spellID)
	if !ok {
		return false, apperr.ErrNotFound
	}

	vitals, err := e.players.GetStats(ctx, userID)
	if err != nil {
		return false, err
	}
	if int16(vitals.MinMana) < spellDef.ManaCost {
		sndr.ConsoleMsg("No tienes suficiente mana.", 0)
		return false, nil
	}

	pos, err := e.players.GetPosition(ctx, userID)
	if err != nil {
		return false, err
	}

	vitals.MinMana -= spellDef.ManaCost
	if err := e.players.SetStats(ctx, userID, vitals); err != nil {
		return false, err
	}
	sndr.UpdateMana(vitals.MinMana)

	switch spellDef.Effect {
	case EffectKindHeal:
		return e.castHeal(ctx, userID, spellDef, sndr)
	case EffectKindSummon:
		return e.castSummon(ctx, userID, spellDef, pos, sndr)
	default:
		return e.castOnTarget(ctx, userID, spellDef, pos.Map, targetX, targetY, sndr)
	}
}

// These aliases keep the switch above readable without importing model
// twice under two names.
const (
	EffectKindHeal   = model.EffectHeal
	EffectKindSummon = model.EffectSummon
)

func (e *Engine) castHeal(ctx context.Context, userID int64, spellDef model.Spell, sndr sender.MessageSender) (bool, error) {
	vitals, err := e.players.GetStats(ctx, userID)
	if err != nil {
		return false, err
	}
	amount := randRange32(e.rng, spellDef.HealMin, spellDef.HealMax)
	vitals.MinHP += int16(amount)
	if vitals.MinHP > vitals.MaxHP {
		vitals.MinHP = vitals.MaxHP
	}
	if err := e.players.SetStats(ctx, userID, vitals); err != nil {
		return false, err
	}
	sndr.UpdateHP(vitals.MinHP)
	sndr.ConsoleMsg(spellDef.CasterMessage, 0)
	return true, nil
}

func (e *Engine) castSummon(ctx context.Context, userID int64, spellDef model.Spell, pos model.Position, sndr sender.MessageSender) (bool, error) {
	npc, err := e.summon.SpawnSummon(ctx, spellDef.SummonNPCTemplateID, userID, pos)
	if err != nil {
		return false, err
	}
	sndr.ConsoleMsg(spellDef.CasterMessage, 0)
	if spellDef.FXGraphic > 0 {
		sndr.CreateFX(npc.CharIndex, spellDef.FXGraphic, spellDef.FXLoops)
	}
	return true, nil
}

func (e *Engine) castOnTarget(ctx context.Context, userID int64, spellDef model.Spell, mapID, targetX, targetY int16, sndr sender.MessageSender) (bool, error) {
	npc, isNPC := e.targets.NPCAt(mapID, targetX, targetY)
	targetUserID, isPlayer := e.targets.PlayerAt(mapID, targetX, targetY)
	if !isNPC && !isPlayer {
		sndr.ConsoleMsg("No hay objetivo válido en esa posición.", 0)
		return false, nil
	}

	now := time.Now()
	switch spellDef.Effect {
	case model.EffectPoison:
		until := now.Add(spellDef.Duration)
		if isNPC {
			if err := e.npcs.UpdateNPCPoisonedUntil(ctx, npc.InstanceID, until); err != nil {
				return false, err
			}
		} else {
			if err := e.players.UpdatePoisonedUntil(ctx, targetUserID, until); err != nil {
				return false, err
			}
		}
		sndr.ConsoleMsg(spellDef.CasterMessage, 0)
		return true, nil

	case model.EffectMorph:
		if !isPlayer {
			return false, apperr.ErrInvalidInput
		}
		sndr.ConsoleMsg(spellDef.CasterMessage, 0)
		return true, nil

	case model.EffectParalyze:
		if !isNPC {
			return false, apperr.ErrInvalidInput
		}
		npc.ParalyzedUntil = now.Add(spellDef.Duration)
		sndr.ConsoleMsg(spellDef.CasterMessage, 0)
		return true, nil

	default: // EffectDamage
		if !isNPC {
			return false, apperr.ErrInvalidInput
		}
		return e.castDamage(ctx, userID, spellDef, npc, targetX, targetY, sndr)
	}
}

func (e *Engine) castDamage(ctx context.Context, userID int64, spellDef model.Spell, npc *model.NPC, targetX, targetY int16, sndr sender.MessageSender) (bool, error) {
	attrs, err := e.players.GetAttributes(ctx, userID)
	if err != nil {
		return false, err
	}

	baseDamage := randRange32(e.rng, spellDef.MinDamage, spellDef.MaxDamage)
	intBonus := int32(float64(baseDamage) * (float64(attrs.INT) / 100))
	totalDamage := baseDamage + intBonus

	npc.HP -= totalDamage
	if npc.HP < 0 {
		npc.HP = 0
	}

	sndr.ConsoleMsg(spellDef.CasterMessage+npc.Name+". Daño: "+strconv.Itoa(int(totalDamage)), 0)
	if spellDef.FXGraphic > 0 {
		sndr.CreateFX(0, spellDef.FXGraphic, spellDef.FXLoops)
	}

	if npc.HP <= 0 {
		_, _, err := e.death.HandleNPCDeath(ctx, npc, userID)
		return true, err
	}

	if err := e.npcs.UpdateNPCHp(ctx, npc.InstanceID, npc.HP); err != nil {
		return false, err
	}
	return true, nil
}

func randRange32(rng *rand.Rand, lo, hi int32) int32 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Int31n(hi-lo+1)
}

