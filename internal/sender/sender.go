// Package sender implements MessageSender: typed outbound packet builders
// grouped by concern (spec.md §4.3). Grounded on a Lineage handler
// package's per-packet S_* send helpers, generalized to Argentum's wire
// shapes from spec.md §6.
package sender

import "github.com/pyao-go/server/internal/model"

// CommerceItem is one entry of a merchant's stock offered in COMMERCE_INIT.
type CommerceItem struct {
	ItemID   int16
	Name     string
	Price    float32
	Quantity int16
	GRH      int16
}

// InventorySlotView is the wire-shape of one inventory/bank/NPC-shop slot.
type InventorySlotView struct {
	Slot     byte
	ItemID   int16
	Name     string
	Amount   int16
	Equipped bool
	GRH      int16
	Type     byte
	MaxHit   int16
	MinHit   int16
	MaxDef   int16
	MinDef   int16
	SalePrice float32
}

// MessageSender is the full set of outbound packet builders a session's
// sends are grouped into (spec.md §4.3). Sends are asynchronous from the
// caller's perspective: they queue onto the session's bounded outbox.
type MessageSender interface {
	// Character lifecycle
	CharacterCreate(charIndex int32, body, head int16, heading model.Heading, x, y int16, weapon, shield, helmet, fx, loops int16, name string, nickColor, privileges byte)
	CharacterChange(charIndex int32, body, head int16, heading model.Heading, weapon, shield, helmet, fx, loops int16)
	CharacterMove(charIndex int32, x, y int16)
	CharacterRemove(charIndex int32)

	// Combat feedback
	CreateFX(charIndex int32, fx, loops int16)
	PlayWave(waveID byte, x, y int16)
	UpdateUserStats(maxHP, minHP, maxMana, minMana, maxSta, minSta int16, gold int64, level byte, elu, exp int64)
	UpdateHP(hp int16)
	UpdateMana(mana int16)
	UpdateSta(sta int16)
	UpdateExp(exp int64)

	// Console
	ConsoleMsg(message string, color byte)
	ErrorMsg(message string)
	MultilineConsoleMsg(lines []string, color byte)

	// Map/world
	ChangeMap(mapNumber int16, version int16)
	PosUpdate(x, y int16)
	BlockPosition(x, y int16, blocked bool)
	ObjectCreate(x, y int16, grh int16)
	ObjectDelete(x, y int16)

	// Inventory/commerce/bank
	ChangeInventorySlot(s InventorySlotView)
	ChangeBankSlot(s InventorySlotView)
	ChangeNpcInventorySlot(s InventorySlotView)
	ChangeSpellSlot(slot byte, spellID int16, name string)
	CommerceInit(npcID int16, items []CommerceItem)
	CommerceEnd()
	BankInit()
	BankEnd()
	MeditateToggle(meditating bool)

	// Session
	Logged(userClass byte)
	UserCharIndexInServer(charIndex int32)
	Attributes(str, agi, intl, cha, con byte)
	DiceRoll(str, agi, intl, cha, con byte)
	Pong()
	UpdateHungerAndThirst(maxWater, minWater, maxHunger, minHunger byte)
	UpdateStrAndDex(str, agi byte)
}
