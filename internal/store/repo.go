// Package store declares the repository interfaces through which the core
// reaches persisted state (spec.md §6). Storage itself is an external
// collaborator — only the interface is in scope. Grounded on the teacher's
// repository pattern (internal/repository: interface + pgx-backed struct
// behind a constructor), generalized from Lineage's character/item/skill
// repos to Argentum's player/NPC state.
package store

import (
	"context"
	"time"

	"github.com/pyao-go/server/internal/model"
)

// PlayerRepo is the persisted-state surface for player characters.
type PlayerRepo interface {
	GetStats(ctx context.Context, userID int64) (model.Vitals, error)
	SetStats(ctx context.Context, userID int64, v model.Vitals) error
	UpdateHP(ctx context.Context, userID int64, hp int32) error
	UpdateMana(ctx context.Context, userID int64, mana int32) error
	UpdateGold(ctx context.Context, userID int64, delta int64) (int64, error)
	UpdateExperience(ctx context.Context, userID int64, delta int64) (int64, error)

	GetPosition(ctx context.Context, userID int64) (model.Position, error)
	SetPosition(ctx context.Context, userID int64, pos model.Position) error
	GetHeading(ctx context.Context, userID int64) (model.Heading, error)
	SetHeading(ctx context.Context, userID int64, heading model.Heading) error

	GetAppearance(ctx context.Context, userID int64) (body, head int16, err error)

	GetAttributes(ctx context.Context, userID int64) (model.Attributes, error)

	GetHungerThirst(ctx context.Context, userID int64) (model.HungerThirst, error)
	SetHungerThirst(ctx context.Context, userID int64, ht model.HungerThirst) error

	GetPoisonedUntil(ctx context.Context, userID int64) (time.Time, error)
	UpdatePoisonedUntil(ctx context.Context, userID int64, until time.Time) error

	GetStrengthModifier(ctx context.Context, userID int64) (int32, error)
	SetStrengthModifier(ctx context.Context, userID int64, value int32, expires time.Time) error
	GetAgilityModifier(ctx context.Context, userID int64) (int32, error)
	SetAgilityModifier(ctx context.Context, userID int64, value int32, expires time.Time) error

	GetMorphedAppearance(ctx context.Context, userID int64) (model.MorphedAppearance, error)
	ClearMorphedAppearance(ctx context.Context, userID int64) error

	IsAlive(ctx context.Context, userID int64) (bool, error)
	IsMeditating(ctx context.Context, userID int64) (bool, error)
	SetMeditating(ctx context.Context, userID int64, meditating bool) error

	GetInventory(ctx context.Context, userID int64) ([model.MaxInventorySlots]model.InventorySlot, error)
	SetInventorySlot(ctx context.Context, userID int64, slot byte, item model.InventorySlot) error

	GetEquipment(ctx context.Context, userID int64) (model.Equipment, error)
	SetEquipment(ctx context.Context, userID int64, eq model.Equipment) error

	GetVault(ctx context.Context, userID int64) ([model.MaxBankSlots]model.InventorySlot, error)
	SetVaultSlot(ctx context.Context, userID int64, slot byte, item model.InventorySlot) error

	GetSpells(ctx context.Context, userID int64) ([model.MaxSpellSlots]model.SpellSlot, error)
	SetSpellSlot(ctx context.Context, userID int64, slot byte, s model.SpellSlot) error
}

// NPCRepo is the persisted-state surface for server-controlled characters.
type NPCRepo interface {
	CreateNPCInstance(ctx context.Context, npc *model.NPC) (int64, error)
	GetNPC(ctx context.Context, instanceID int64) (*model.NPC, error)
	UpdateNPCHp(ctx context.Context, instanceID int64, hp int32) error
	UpdateNPCPosition(ctx context.Context, instanceID int64, pos model.Position, heading model.Heading) error
	UpdateNPCPoisonedUntil(ctx context.Context, instanceID int64, until time.Time) error
	RemoveNPC(ctx context.Context, instanceID int64) error
	GetAllNPCs(ctx context.Context) ([]*model.NPC, error)
	ClearAllNPCs(ctx context.Context) error
}

// AccountRepo is the persisted-state surface for login and account
// creation. Account-creation validators proper (race/class/email
// business rules) are an external collaborator per spec.md §1; this
// interface only covers the credential check and row insert a LOGIN or
// CREATE_ACCOUNT packet needs the core to perform.
type AccountRepo interface {
	// Authenticate reports the account's userID when username/password
	// match an existing row. ok is false on any mismatch or missing
	// account; callers must not distinguish the two in client-facing
	// errors, to avoid leaking which usernames exist.
	Authenticate(ctx context.Context, username, password string) (userID int64, ok bool, err error)

	// CreateAccount inserts a new account row plus its paired player row,
	// seeded with the starting appearance/position the caller supplies.
	// Returns apperr.ErrInvalidInput if username is already taken.
	CreateAccount(ctx context.Context, username, password string, p *model.Player) (userID int64, err error)
}

// ConfigRepo exposes operator-tunable effect knobs stored alongside game
// state, per spec.md §6's getEffectConfig{Bool,Int,Float} contract.
type ConfigRepo interface {
	GetEffectConfigBool(ctx context.Context, key string, def bool) (bool, error)
	GetEffectConfigInt(ctx context.Context, key string, def int64) (int64, error)
	GetEffectConfigFloat(ctx context.Context, key string, def float64) (float64, error)
}
