// Package handler implements one HandlerFunc per opcode spec.md §6 names,
// wired into internal/protocol.Registry. Grounded on the teacher's
// internal/handler package shape: a shared Deps struct carrying every
// collaborator, a RegisterAll that wires the opcode table, and one file
// per packet-family grouping rather than one file per packet.
package handler

import (
	"math/rand"
	"time"

	"github.com/pyao-go/server/internal/broadcast"
	"github.com/pyao-go/server/internal/combat"
	"github.com/pyao-go/server/internal/ground"
	"github.com/pyao-go/server/internal/model"
	"github.com/pyao-go/server/internal/npcai"
	"github.com/pyao-go/server/internal/npcengine"
	"github.com/pyao-go/server/internal/protocol"
	"github.com/pyao-go/server/internal/spatial"
	"github.com/pyao-go/server/internal/spell"
	"github.com/pyao-go/server/internal/store"
	"github.com/pyao-go/server/internal/worldmap"
	"go.uber.org/zap"
)

// ItemCatalog resolves an item id to its catalogue definition, the item-side
// counterpart of spell.Catalog.
type ItemCatalog interface {
	GetItem(itemID int32) (model.ItemDef, bool)
}

// Deps holds every dependency packet handlers need. Built once in the
// composition root (cmd/server) and shared by every session.
type Deps struct {
	Log *zap.Logger

	Accounts store.AccountRepo
	Players  store.PlayerRepo
	NPCs     store.NPCRepo

	Index     *spatial.Index
	Maps      *worldmap.Registry
	Ground    *ground.Ledger
	Broadcast *broadcast.Broadcaster

	Combat    *combat.Engine
	Spells    *spell.Engine
	NPCEngine *npcengine.Engine
	AI        *npcai.AI

	Items ItemCatalog
	Rng   *rand.Rand

	StartTime time.Time
}

// RegisterAll wires every opcode spec.md §6 names into reg. Login-phase
// opcodes (LOGIN, CREATE_ACCOUNT, THROW_DICES) do not require auth; every
// other opcode does.
func RegisterAll(reg *protocol.Registry, deps *Deps) {
	reg.Register(protocol.CThrowDices, false, deps.handleThrowDices)
	reg.Register(protocol.CLogin, false, deps.handleLogin)
	reg.Register(protocol.CCreateAccount, false, deps.handleCreateAccount)

	reg.Register(protocol.CWalk, true, deps.handleWalk)
	reg.Register(protocol.CChangeHeading, true, deps.handleChangeHeading)

	reg.Register(protocol.CTalk, true, deps.handleTalk)

	reg.Register(protocol.CAttack, true, deps.handleAttack)
	reg.Register(protocol.CCastSpell, true, deps.handleCastSpell)

	reg.Register(protocol.CPickUp, true, deps.handlePickUp)
	reg.Register(protocol.CDrop, true, deps.handleDrop)
	reg.Register(protocol.CEquipItem, true, deps.handleEquipItem)

	reg.Register(protocol.CLeftClick, true, deps.handleLeftClick)
	reg.Register(protocol.CDoubleClick, true, deps.handleDoubleClick)

	reg.Register(protocol.CCommerceEnd, true, deps.handleCommerceEnd)
	reg.Register(protocol.CBankEnd, true, deps.handleBankEnd)

	reg.Register(protocol.CMeditate, true, deps.handleMeditate)

	reg.Register(protocol.CPing, true, deps.handlePing)
	reg.Register(protocol.CQuit, true, deps.handleQuit)
	reg.Register(protocol.COnline, true, deps.handleOnline)
	reg.Register(protocol.CUptime, true, deps.handleUptime)
	reg.Register(protocol.CAyuda, true, deps.handleAyuda)
}
