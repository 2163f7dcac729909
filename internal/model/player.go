package model

import "time"

// InventorySlot is one bounded slot of a player's backpack.
type InventorySlot struct {
	ItemID   int32
	Quantity int16
}

// Empty reports whether the slot holds nothing.
func (s InventorySlot) Empty() bool {
	return s.ItemID == 0 || s.Quantity <= 0
}

// Equipment points into inventory slots; zero means unequipped.
type Equipment struct {
	WeaponSlot int8
	ShieldSlot int8
	HelmetSlot int8
	ArmorSlot  int8
}

// SpellSlot is one of a player's known-spell bar entries.
type SpellSlot struct {
	SpellID int16
}

// Vitals bundles the min/max pairs the wire protocol groups together.
type Vitals struct {
	MinHP, MaxHP     int16
	MinMana, MaxMana int16
	MinSta, MaxSta   int16
}

// Attributes are the five base stats.
type Attributes struct {
	STR, AGI, INT, CHA, CON int16
}

// HungerThirst tracks the satiety/hydration counters from spec.md §3.
type HungerThirst struct {
	MinWater, MaxWater     int16
	MinHunger, MaxHunger   int16
	WaterCounter           int
	HungerCounter          int
	ThirstFlag, HungerFlag bool
}

// MorphedAppearance temporarily overrides body/head until an expiry.
type MorphedAppearance struct {
	Body, Head int16
	Until      time.Time
}

// Active reports whether the morph has not yet expired.
func (m MorphedAppearance) Active(now time.Time) bool {
	return !m.Until.IsZero() && now.Before(m.Until)
}

// AttributeModifierKind names a buffable base attribute.
type AttributeModifierKind int

const (
	ModifierSTR AttributeModifierKind = iota
	ModifierAGI
)

// AttributeModifier is a temporary delta to a base attribute.
type AttributeModifier struct {
	Delta int16
	Until time.Time
}

// Expired reports whether the modifier should be reaped.
func (m AttributeModifier) Expired(now time.Time) bool {
	return m.Until.IsZero() || !now.Before(m.Until)
}

// Player is the persisted per-account character record (spec.md §3).
type Player struct {
	UserID   int64
	Username string

	Body, Head int16
	Heading    Heading
	Pos        Position

	Vitals     Vitals
	Attrs      Attributes
	Level      int32
	Experience int64
	ELU        int64
	Gold       int64

	HungerThirst HungerThirst

	Inventory [MaxInventorySlots]InventorySlot
	Equip     Equipment
	Spells    [MaxSpellSlots]SpellSlot
	Vault     [MaxBankSlots]InventorySlot

	PoisonedUntil time.Time
	ParalyzedUntil time.Time
	Meditating    bool

	Morph       MorphedAppearance
	OriginalBody, OriginalHead int16

	Modifiers map[AttributeModifierKind]AttributeModifier

	SummonedPetInstanceID int64 // 0 = no active pet
}

const (
	MaxInventorySlots = 40
	MaxSpellSlots      = 35
	MaxBankSlots        = 40
)

// NewPlayer builds a fresh in-memory Player with empty modifier map.
func NewPlayer(userID int64, username string) *Player {
	return &Player{
		UserID:       userID,
		Username:     username,
		Heading:      South,
		Modifiers:    make(map[AttributeModifierKind]AttributeModifier),
	}
}

// IsDead reports whether the player's HP has reached zero.
func (p *Player) IsDead() bool {
	return p.Vitals.MinHP <= 0
}

// IsAlive is the complement of IsDead, matching repository naming in §6.
func (p *Player) IsAlive() bool {
	return !p.IsDead()
}

// ReapExpiredModifiers drops attribute modifiers whose expiry has passed.
// Returns the kinds that were cleared so the caller can decide whether to
// broadcast an UPDATE_STR_AND_DEX.
func (p *Player) ReapExpiredModifiers(now time.Time) []AttributeModifierKind {
	var cleared []AttributeModifierKind
	for k, m := range p.Modifiers {
		if m.Expired(now) {
			delete(p.Modifiers, k)
			cleared = append(cleared, k)
		}
	}
	return cleared
}
