// Package npcengine implements NPCEngine: spawn, move, remove and death
// handling for world-controlled characters (spec.md §4.8). Grounded on the
// teacher's internal/system/npc_respawn.go for the tick-driven (not
// goroutine-per-timer) respawn pattern and on original_source/src/
// npc_service.py and npc_death_service.py for the spawn/death/loot
// semantics spec.md only describes at design level.
package npcengine

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/pyao-go/server/internal/apperr"
	"github.com/pyao-go/server/internal/model"
	"github.com/pyao-go/server/internal/sender"
	"github.com/pyao-go/server/internal/spatial"
	"github.com/pyao-go/server/internal/store"
	"github.com/pyao-go/server/internal/worldmap"
)

// LootEntry is one possible drop from a template's loot table.
type LootEntry struct {
	ItemID       int32
	MinQty       int16
	MaxQty       int16
	DropChance   float64 // fraction in [0,1]
}

// Template is the catalogue definition an NPC instance is spawned from. The
// TOML-backed loader that produces these is an external collaborator.
type Template struct {
	TemplateID     int32
	Name           string
	Description    string
	Body, Head     int16
	MaxHP          int32
	Level          int32
	Hostile        bool
	Attackable     bool
	Merchant       bool
	Banker         bool
	Movement       model.MovementType
	RespawnMin     time.Duration
	RespawnMax     time.Duration
	GoldMin        int64
	GoldMax        int64
	AttackDamage   int32
	AttackCooldown time.Duration
	AggroRange     int
	Experience     int64
	Loot           []LootEntry
}

// Catalog resolves a template id to its definition.
type Catalog interface {
	GetTemplate(templateID int32) (Template, bool)
}

// SpawnEntry is one line of the world's spawn table (spec.md §4.8).
type SpawnEntry struct {
	TemplateID int32
	Map        int16
	X, Y       int16
	Heading    model.Heading
}

// Broadcaster is the narrow slice of internal/broadcast.Broadcaster the
// engine needs; visibility filtering is entirely the broadcaster's concern.
type Broadcaster interface {
	CharacterCreate(mapID int16, npc *model.NPC)
	CharacterMove(mapID int16, npc *model.NPC, oldPos model.Position, headingChanged bool)
	CharacterRemove(mapID int16, charIndex int32, pos model.Position)
	ObjectCreate(mapID int16, pos model.Position, itemID int32, quantity int16)
}

type respawnEntry struct {
	at       time.Time
	template Template
	pos      model.Position
	heading  model.Heading
}

// Engine is the NPCEngine.
type Engine struct {
	npcs        store.NPCRepo
	players     store.PlayerRepo
	index       *spatial.Index
	terrain     *worldmap.Registry
	catalog     Catalog
	broadcaster Broadcaster
	rng         *rand.Rand

	mu            sync.Mutex
	nextCharIndex int32
	respawns      []respawnEntry
}

func NewEngine(npcs store.NPCRepo, players store.PlayerRepo, index *spatial.Index, terrain *worldmap.Registry, catalog Catalog, broadcaster Broadcaster, rng *rand.Rand) *Engine {
	return &Engine{
		npcs:          npcs,
		players:       players,
		index:         index,
		terrain:       terrain,
		catalog:       catalog,
		broadcaster:   broadcaster,
		rng:           rng,
		nextCharIndex: 10001,
	}
}

// SpawnFromConfig wipes stale NPC state and instantiates every entry of the
// spawn table, per spec.md §4.8.
func (e *Engine) SpawnFromConfig(ctx context.Context, spawns []SpawnEntry) error {
	if err := e.npcs.ClearAllNPCs(ctx); err != nil {
		return err
	}
	for _, s := range spawns {
		tmpl, ok := e.catalog.GetTemplate(s.TemplateID)
		if !ok {
			continue
		}
		pos := model.Position{Map: s.Map, X: s.X, Y: s.Y}
		if _, err := e.spawn(ctx, tmpl, pos, s.Heading); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) nextInstanceCharIndex() int32 {
	e.mu.Lock()
	idx := e.nextCharIndex
	e.nextCharIndex++
	e.mu.Unlock()
	return idx
}

func (e *Engine) spawn(ctx context.Context, tmpl Template, pos model.Position, heading model.Heading) (*model.NPC, error) {
	npc := &model.NPC{
		TemplateID:     tmpl.TemplateID,
		CharIndex:      e.nextInstanceCharIndex(),
		Pos:            pos,
		Heading:        heading,
		Name:           tmpl.Name,
		Description:    tmpl.Description,
		Body:           tmpl.Body,
		Head:           tmpl.Head,
		HP:             tmpl.MaxHP,
		MaxHP:          tmpl.MaxHP,
		Level:          tmpl.Level,
		Hostile:        tmpl.Hostile,
		Attackable:     tmpl.Attackable,
		Merchant:       tmpl.Merchant,
		Banker:         tmpl.Banker,
		Movement:       tmpl.Movement,
		RespawnMin:     tmpl.RespawnMin,
		RespawnMax:     tmpl.RespawnMax,
		GoldMin:        tmpl.GoldMin,
		GoldMax:        tmpl.GoldMax,
		AttackDamage:   tmpl.AttackDamage,
		AttackCooldown: tmpl.AttackCooldown,
		AggroRange:     tmpl.AggroRange,
	}
	instanceID, err := e.npcs.CreateNPCInstance(ctx, npc)
	if err != nil {
		return nil, err
	}
	npc.InstanceID = instanceID
	e.index.AddNPC(pos.Map, npc)
	e.broadcaster.CharacterCreate(pos.Map, npc)
	return npc, nil
}

// SpawnSummon implements spell.SummonSpawner: a pet NPC attributed to
// ownerUserID, used by the Summon spell effect.
func (e *Engine) SpawnSummon(ctx context.Context, templateID int32, ownerUserID int64, pos model.Position) (*model.NPC, error) {
	tmpl, ok := e.catalog.GetTemplate(templateID)
	if !ok {
		return nil, apperr.ErrNotFound
	}
	npc, err := e.spawn(ctx, tmpl, pos, model.South)
	if err != nil {
		return nil, err
	}
	npc.SummonedByUserID = ownerUserID
	npc.SummonedUntil = time.Now().Add(tmpl.RespawnMax)
	return npc, nil
}

// MoveNPC validates walkability, occupancy and paralysis, then relocates
// npc and broadcasts CHARACTER_MOVE (spec.md §4.8).
func (e *Engine) MoveNPC(ctx context.Context, npc *model.NPC, newX, newY int16, heading model.Heading) (bool, error) {
	now := time.Now()
	if !npc.CanMove(now) {
		return false, nil
	}
	if !e.terrain.CanMoveTo(npc.Pos.Map, newX, newY) {
		return false, nil
	}
	if e.index.IsTileOccupied(npc.Pos.Map, newX, newY) {
		return false, nil
	}

	oldPos := npc.Pos
	newPos := model.Position{Map: oldPos.Map, X: newX, Y: newY}
	headingChanged := npc.Heading != heading

	e.index.MoveNPC(oldPos.Map, oldPos.X, oldPos.Y, newX, newY, npc.InstanceID)
	npc.Pos = newPos
	npc.Heading = heading

	if err := e.npcs.UpdateNPCPosition(ctx, npc.InstanceID, newPos, heading); err != nil {
		return false, err
	}
	e.broadcaster.CharacterMove(newPos.Map, npc, oldPos, headingChanged)
	return true, nil
}

// RemoveNPC releases occupancy, deletes the repo record and broadcasts
// CHARACTER_REMOVE (spec.md §4.8).
func (e *Engine) RemoveNPC(ctx context.Context, npc *model.NPC) error {
	e.index.RemoveNPC(npc.Pos.Map, npc.InstanceID)
	if err := e.npcs.RemoveNPC(ctx, npc.InstanceID); err != nil {
		return err
	}
	e.broadcaster.CharacterRemove(npc.Pos.Map, npc.CharIndex, npc.Pos)
	return nil
}

// SendNPCsToPlayer emits CHARACTER_CREATE for every NPC on mapID to a
// newly-entered session, spacing sends to accommodate constrained clients.
func (e *Engine) SendNPCsToPlayer(sndr sender.MessageSender, mapID int16) {
	for _, npc := range e.index.NPCsInMap(mapID) {
		sndr.CharacterCreate(npc.CharIndex, npc.Body, npc.Head, npc.Heading, npc.Pos.X, npc.Pos.Y, 0, 0, 0, 0, 0, npc.Name, 0, 0)
		time.Sleep(5 * time.Millisecond)
	}
}

// HandleNPCDeath implements both combat.DeathHandler and spell.DeathHandler:
// drop gold and loot, broadcast the removal, schedule a respawn and report
// the experience/gold award to the caller (original_source/src/
// npc_death_service.py, npc_respawn_service.py).
func (e *Engine) HandleNPCDeath(ctx context.Context, npc *model.NPC, killerUserID int64) (int64, int64, error) {
	tmpl, hasTemplate := e.catalog.GetTemplate(npc.TemplateID)

	var gold int64
	if npc.GoldMax > 0 {
		gold = npc.GoldMin
		if npc.GoldMax > npc.GoldMin {
			gold += int64(e.rng.Intn(int(npc.GoldMax-npc.GoldMin) + 1))
		}
		if gold > 0 {
			e.broadcaster.ObjectCreate(npc.Pos.Map, npc.Pos, goldItemID, int16(min64(gold, 30000)))
		}
	}

	if hasTemplate {
		for _, drop := range tmpl.Loot {
			if e.rng.Float64() > drop.DropChance {
				continue
			}
			qty := drop.MinQty
			if drop.MaxQty > drop.MinQty {
				qty += int16(e.rng.Intn(int(drop.MaxQty-drop.MinQty) + 1))
			}
			e.broadcaster.ObjectCreate(npc.Pos.Map, npc.Pos, drop.ItemID, qty)
		}
	}

	if err := e.RemoveNPC(ctx, npc); err != nil {
		return 0, 0, err
	}

	if !npc.IsSummon() {
		e.scheduleRespawn(npc, tmpl)
	}

	experience := int64(0)
	if hasTemplate {
		experience = tmpl.Experience
	}
	return experience, gold, nil
}

// goldItemID is the catalogue item id Argentum uses for dropped gold piles.
const goldItemID = 12

func (e *Engine) scheduleRespawn(npc *model.NPC, tmpl Template) {
	if npc.RespawnMax <= 0 {
		return
	}
	delay := npc.RespawnMin
	if npc.RespawnMax > npc.RespawnMin {
		delay += time.Duration(e.rng.Int63n(int64(npc.RespawnMax - npc.RespawnMin)))
	}

	e.mu.Lock()
	e.respawns = append(e.respawns, respawnEntry{
		at:       time.Now().Add(delay),
		template: tmpl,
		pos:      npc.Pos,
		heading:  npc.Heading,
	})
	e.mu.Unlock()
}

// ProcessRespawns is invoked by effects.RespawnEffect (every 5 seconds) to
// spawn anything whose timer has elapsed.
func (e *Engine) ProcessRespawns(ctx context.Context, now time.Time) error {
	e.mu.Lock()
	var due []respawnEntry
	remaining := e.respawns[:0]
	for _, r := range e.respawns {
		if now.Before(r.at) {
			remaining = append(remaining, r)
			continue
		}
		due = append(due, r)
	}
	e.respawns = remaining
	e.mu.Unlock()

	for _, r := range due {
		if _, err := e.spawn(ctx, r.template, r.pos, r.heading); err != nil {
			return err
		}
	}
	return nil
}

// ExpireSummons removes every summoned NPC whose SummonedUntil has elapsed
// (SummonExpiryEffect, spec.md §4.11).
func (e *Engine) ExpireSummons(ctx context.Context, mapID int16, now time.Time) error {
	for _, npc := range e.index.NPCsInMap(mapID) {
		if npc.IsSummon() && !npc.SummonedUntil.After(now) {
			if err := e.RemoveNPC(ctx, npc); err != nil {
				return err
			}
		}
	}
	return nil
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
