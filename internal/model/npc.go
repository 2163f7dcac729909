package model

import "time"

// MovementType controls how NPCMovementEffect drives an idle NPC.
type MovementType int

const (
	MovementStatic MovementType = iota
	MovementRandom
	MovementPatrol
)

// NPC is the persisted/in-memory record for a world-controlled character
// (spec.md §3). InstanceID is stable for the NPC's lifetime; CharIndex is
// the opaque 16-bit network id assigned on spawn and freed on removal.
type NPC struct {
	InstanceID int64
	TemplateID int32
	CharIndex  int32

	Pos     Position
	Heading Heading

	Name        string
	Description string
	Body, Head  int16

	HP, MaxHP int32
	Level     int32

	Hostile     bool
	Attackable  bool
	Merchant    bool
	Banker      bool
	Movement    MovementType

	RespawnMin, RespawnMax time.Duration
	GoldMin, GoldMax       int64

	AttackDamage   int32
	AttackCooldown time.Duration
	AggroRange     int

	LastAttackTime time.Time

	PoisonedUntil    time.Time
	PoisonedByUserID int64
	ParalyzedUntil   time.Time

	SummonedByUserID int64 // 0 = not a summon
	SummonedUntil    time.Time
}

// IsSummon reports whether the NPC is a player-summoned pet.
func (n *NPC) IsSummon() bool {
	return n.SummonedByUserID != 0
}

// IsDead reports whether the NPC has been reduced to zero HP.
func (n *NPC) IsDead() bool {
	return n.HP <= 0
}

// CanMove reports whether a paralyzed NPC is allowed to step.
func (n *NPC) CanMove(now time.Time) bool {
	return !(n.ParalyzedUntil.After(now))
}
