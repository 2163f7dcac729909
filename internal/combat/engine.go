// Package combat implements CombatEngine: damage, critical, dodge, defense
// and the player/NPC attack operations (spec.md §4.6). Grounded on the
// teacher's internal/system/combat.go for control flow (validate, compute
// damage via a pluggable formula, mutate hp through the repo, delegate
// death to a death handler, let the caller broadcast side effects) and on
// original_source/src/combat_service.py for the concrete damage formula
// where spec.md only describes it at design level.
package combat

import (
	"context"
	"math/rand"

	"github.com/pyao-go/server/internal/apperr"
	"github.com/pyao-go/server/internal/model"
	"github.com/pyao-go/server/internal/store"
)

// Config holds the tunables spec.md §6 groups under game.combat. All
// chances are fractions in [0,1].
type Config struct {
	MeleeRange               int
	BaseCriticalChance        float64
	BaseDodgeChance           float64
	DefensePerLevel           float64
	ArmorReduction            float64
	CriticalDamageMultiplier  float64
	CriticalAgiModifier       float64
	DodgeAgiModifier          float64
	MaxCriticalChance         float64
	MaxDodgeChance            float64
	BaseAgility               int16
}

// DefaultConfig mirrors original_source/src/combat_service.py's constants
// where spec.md leaves the exact default unspecified.
func DefaultConfig() Config {
	return Config{
		MeleeRange:               1,
		BaseCriticalChance:       0.05,
		BaseDodgeChance:          0.05,
		DefensePerLevel:          0.10,
		ArmorReduction:           0.10,
		CriticalDamageMultiplier: 1.5,
		CriticalAgiModifier:      0.002,
		DodgeAgiModifier:         0.002,
		MaxCriticalChance:        0.50,
		MaxDodgeChance:           0.50,
		BaseAgility:              10,
	}
}

// AttackResult is the outcome of one attack, shaped per spec.md §4.6.
type AttackResult struct {
	Damage     int32
	Critical   bool
	Dodged     bool
	NPCDied    bool
	PlayerDied bool
	Experience int64
	Gold       int64
}

// WeaponDamage is the min/max hit range of an equipped weapon; a bare-hand
// default is used when the caller has nothing better to supply.
type WeaponDamage struct {
	MinHit, MaxHit int16
}

var UnarmedDamage = WeaponDamage{MinHit: 1, MaxHit: 3}

// DeathHandler is delegated to when an NPC's hp reaches zero (spec.md
// calls this NPCDeathService: drop gold/loot, broadcast removal, schedule
// respawn, award XP). Implemented by internal/npcengine; combat only needs
// the narrow slice it delegates to.
type DeathHandler interface {
	HandleNPCDeath(ctx context.Context, npc *model.NPC, killerUserID int64) (experience, gold int64, err error)
}

// Engine is the CombatEngine.
type Engine struct {
	players store.PlayerRepo
	npcs    store.NPCRepo
	death   DeathHandler
	cfg     Config
	rng     *rand.Rand
}

func NewEngine(players store.PlayerRepo, npcs store.NPCRepo, death DeathHandler, cfg Config, rng *rand.Rand) *Engine {
	return &Engine{players: players, npcs: npcs, death: death, cfg: cfg, rng: rng}
}

// CanAttack reports melee adjacency: Manhattan distance == 1.
func (e *Engine) CanAttack(attacker, target model.Position) bool {
	return attacker.Map == target.Map && attacker.ManhattanTo(target) == 1
}

// PlayerAttacksNPC resolves a player's melee attack against npc. Caller has
// already verified adjacency. No attack cooldown is applied: neither this
// method nor the ATTACK handler limits how often a player may attack.
func (e *Engine) PlayerAttacksNPC(ctx context.Context, userID int64, npc *model.NPC, weapon WeaponDamage) (*AttackResult, error) {
	if !npc.Attackable {
		return nil, apperr.ErrInvalidInput
	}

	attrs, err := e.players.GetAttributes(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := &AttackResult{}

	dodgeChance := clamp(e.cfg.BaseDodgeChance-e.cfg.DodgeAgiModifier*float64(attrs.AGI-e.cfg.BaseAgility), 0, e.cfg.MaxDodgeChance)
	if e.rng.Float64() < dodgeChance {
		res.Dodged = true
		return res, nil
	}

	base := int32(attrs.STR/2) + int32(randRange(e.rng, weapon.MinHit, weapon.MaxHit))
	defenseReduction := float64(npc.Level) * e.cfg.DefensePerLevel
	if defenseReduction > 0.9 {
		defenseReduction = 0.9
	}
	damage := int32(float64(base) * (1 - defenseReduction))

	critChance := clamp(e.cfg.BaseCriticalChance+e.cfg.CriticalAgiModifier*float64(attrs.AGI-e.cfg.BaseAgility), 0, e.cfg.MaxCriticalChance)
	if e.rng.Float64() < critChance {
		res.Critical = true
		damage = int32(float64(damage) * e.cfg.CriticalDamageMultiplier)
	}
	if damage < 1 {
		damage = 1
	}
	res.Damage = damage

	npc.HP -= damage
	if npc.HP <= 0 {
		npc.HP = 0
		res.NPCDied = true
		xp, gold, err := e.death.HandleNPCDeath(ctx, npc, userID)
		if err != nil {
			return nil, err
		}
		res.Experience = xp
		res.Gold = gold
		return res, nil
	}

	if err := e.npcs.UpdateNPCHp(ctx, npc.InstanceID, npc.HP); err != nil {
		return nil, err
	}
	return res, nil
}

// NPCAttacksPlayer resolves an NPC's melee attack against a player.
func (e *Engine) NPCAttacksPlayer(ctx context.Context, npc *model.NPC, userID int64) (*AttackResult, error) {
	vitals, err := e.players.GetStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := &AttackResult{}
	base := float64(npc.AttackDamage)
	variation := 0.8 + e.rng.Float64()*0.4
	damage := int32(base * variation)

	armorReduction := e.cfg.ArmorReduction
	if armorReduction > 0.5 {
		armorReduction = 0.5
	}
	damage = int32(float64(damage) * (1 - armorReduction))
	if damage < 1 {
		damage = 1
	}
	res.Damage = damage

	newHP := int32(vitals.MinHP) - damage
	if newHP < 0 {
		newHP = 0
	}
	res.PlayerDied = newHP <= 0

	if err := e.players.UpdateHP(ctx, userID, newHP); err != nil {
		return nil, err
	}
	return res, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func randRange(rng *rand.Rand, lo, hi int16) int16 {
	if hi <= lo {
		return lo
	}
	return lo + int16(rng.Intn(int(hi-lo+1)))
}
