// Package protocol holds the wire opcode table and the packet router:
// opcode -> (minimum frame length, handler), with per-opcode authentication
// gating. Grounded on a Lineage packet registry's opcode->handler map and
// state check, simplified from a six-state session machine down to the
// single authenticated/not-authenticated gate spec.md §4.2 calls for.
package protocol

// Client -> server opcodes (spec.md §6, non-exhaustive contract).
const (
	CThrowDices     byte = 1
	CLogin          byte = 2
	CDoubleClick    byte = 3
	CCreateAccount  byte = 4
	CTalk           byte = 5
	CWalk           byte = 6
	CDrop           byte = 15
	CEquipItem      byte = 19
	CCommerceEnd    byte = 17
	CBankEnd        byte = 21
	COnline         byte = 28
	CUptime         byte = 27
	CAyuda          byte = 23
	CMeditate       byte = 30
	CPickUp         byte = 32
	CAttack         byte = 34
	CChangeHeading  byte = 37
	CCastSpell      byte = 39
	CLeftClick      byte = 26
	CPing           byte = 22
	CQuit           byte = 29
)

// Server -> client opcodes (spec.md §6, non-exhaustive contract).
const (
	SLogged                  byte = 0
	SCharacterCreate         byte = 1
	SCharacterChange         byte = 2
	SCharacterMove           byte = 3
	SCharacterRemove         byte = 4
	SChangeMap               byte = 5
	SPosUpdate               byte = 6
	SObjectCreate            byte = 7
	SObjectDelete            byte = 8
	SBlockPosition           byte = 9
	SConsoleMsg              byte = 10
	SErrorMsg                byte = 11
	SDiceRoll                byte = 12
	SAttributes              byte = 13
	SUpdateUserStats         byte = 14
	SUpdateHP                byte = 15
	SUpdateMana              byte = 16
	SUpdateSta               byte = 17
	SUpdateExp               byte = 18
	SUpdateHungerAndThirst   byte = 19
	SCreateFX                byte = 20
	SPlayWave                byte = 21
	SPlayMidi                byte = 22
	SChangeInventorySlot     byte = 23
	SChangeBankSlot          byte = 24
	SChangeNpcInventorySlot  byte = 25
	SChangeSpellSlot         byte = 26
	SCommerceInit            byte = 27
	SUserCharIndexInServer   byte = 28
	SCommerceEnd             byte = 29
	SBankInit                byte = 30
	SBankEnd                 byte = 31
	SMeditateToggle          byte = 32
	SMultiMessage            byte = 33
	SPong                    byte = 34
	SUpdateStrAndDex         byte = 35
)
