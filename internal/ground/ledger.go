// Package ground owns the live ground-item ledger: item stacks dropped or
// spawned on map tiles (spec.md §3's GroundItem, §4.4's "shared by all
// tasks" resource list). Grounded on internal/spatial's per-map-lock
// shape, simplified to a single map lock since ground-item churn (PICK_UP,
// DROP, loot drops) is far lower volume than player/NPC movement.
package ground

import (
	"sync"
	"time"

	"github.com/pyao-go/server/internal/model"
)

// Item is one stack sitting on a tile.
type Item struct {
	Pos        model.Position
	TemplateID int32
	Quantity   int16
	GRH        int16
	OwnerUserID int64 // 0 = unowned
	SpawnedAt  time.Time
}

type tileKey struct {
	mapID  int16
	x, y   int16
}

// Ledger is the GroundItemLedger: at most one stack per (tile, templateID).
type Ledger struct {
	mu    sync.RWMutex
	stacks map[tileKey]map[int32]*Item
}

func NewLedger() *Ledger {
	return &Ledger{stacks: make(map[tileKey]map[int32]*Item)}
}

// Drop adds quantity of templateID onto pos, merging into an existing
// stack of the same template if one is already there. Returns the
// resulting stack.
func (l *Ledger) Drop(pos model.Position, templateID int32, quantity int16, grh int16, ownerUserID int64, now time.Time) *Item {
	key := tileKey{pos.Map, pos.X, pos.Y}
	l.mu.Lock()
	defer l.mu.Unlock()

	tile, ok := l.stacks[key]
	if !ok {
		tile = make(map[int32]*Item)
		l.stacks[key] = tile
	}
	if existing, ok := tile[templateID]; ok {
		existing.Quantity += quantity
		return existing
	}
	item := &Item{Pos: pos, TemplateID: templateID, Quantity: quantity, GRH: grh, OwnerUserID: ownerUserID, SpawnedAt: now}
	tile[templateID] = item
	return item
}

// PickUp removes up to quantity of templateID from pos. It returns the
// amount actually removed and whether the tile's last stack was cleared
// (callers broadcast OBJECT_DELETE only in that case, per spec.md §3).
func (l *Ledger) PickUp(pos model.Position, templateID int32, quantity int16) (taken int16, tileCleared bool) {
	key := tileKey{pos.Map, pos.X, pos.Y}
	l.mu.Lock()
	defer l.mu.Unlock()

	tile, ok := l.stacks[key]
	if !ok {
		return 0, false
	}
	item, ok := tile[templateID]
	if !ok {
		return 0, false
	}

	if quantity <= 0 || quantity > item.Quantity {
		quantity = item.Quantity
	}
	item.Quantity -= quantity
	if item.Quantity <= 0 {
		delete(tile, templateID)
		if len(tile) == 0 {
			delete(l.stacks, key)
			return quantity, true
		}
	}
	return quantity, false
}

// At returns every stack currently sitting on pos.
func (l *Ledger) At(pos model.Position) []*Item {
	key := tileKey{pos.Map, pos.X, pos.Y}
	l.mu.RLock()
	defer l.mu.RUnlock()
	tile := l.stacks[key]
	out := make([]*Item, 0, len(tile))
	for _, it := range tile {
		out = append(out, it)
	}
	return out
}

// First returns an arbitrary stack on pos, for a PICK_UP that doesn't
// name a specific template — the common case for Argentum's PICK_UP
// packet, which carries no item id (spec.md §6).
func (l *Ledger) First(pos model.Position) (*Item, bool) {
	key := tileKey{pos.Map, pos.X, pos.Y}
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, it := range l.stacks[key] {
		return it, true
	}
	return nil, false
}
