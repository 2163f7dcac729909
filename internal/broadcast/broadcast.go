// Package broadcast implements Broadcaster: visibility-filtered fan-out of
// world events to connected sessions (spec.md §4.10). Grounded on the
// teacher's internal/handler/broadcast.go for the anchor-based recipient
// selection shape, adapted from L1J's cell-grid AOI to spec.md's flat
// Chebyshev-distance rule over internal/spatial's rosters.
package broadcast

import (
	"github.com/pyao-go/server/internal/model"
	"github.com/pyao-go/server/internal/sender"
	"github.com/pyao-go/server/internal/spatial"
)

// VisibleRange is the Chebyshev radius within which a spatially-anchored
// event is delivered (spec.md §4.10).
const VisibleRange = 15

// Index is the narrow slice of *spatial.Index the broadcaster needs.
type Index interface {
	PlayersInMap(mapID int16, exclude int64) []int64
	PlayerPosition(mapID int16, userID int64) (model.Position, bool)
	SenderFor(userID int64) (sender.MessageSender, bool)
}

// Broadcaster is the Broadcaster.
type Broadcaster struct {
	index Index
}

func NewBroadcaster(index *spatial.Index) *Broadcaster {
	return &Broadcaster{index: index}
}

// within reports whether userID's last-known position on mapID is within
// VisibleRange Chebyshev distance of anchor.
func (b *Broadcaster) within(mapID int16, userID int64, anchor model.Position) bool {
	pos, ok := b.index.PlayerPosition(mapID, userID)
	return ok && pos.ChebyshevTo(anchor) <= VisibleRange
}

// nearby returns every connected player on mapID within VisibleRange of
// anchor, excluding exclude (0 excludes nobody).
func (b *Broadcaster) nearby(mapID int16, anchor model.Position, exclude int64) []int64 {
	var out []int64
	for _, uid := range b.index.PlayersInMap(mapID, exclude) {
		if b.within(mapID, uid, anchor) {
			out = append(out, uid)
		}
	}
	return out
}

// unionNearby is like nearby but over two anchors, deduplicated — used for
// moves, where the old and new tile may each have different viewers.
func (b *Broadcaster) unionNearby(mapID int16, a, c model.Position, exclude int64) []int64 {
	seen := make(map[int64]bool)
	var out []int64
	for _, uid := range b.index.PlayersInMap(mapID, exclude) {
		if seen[uid] {
			continue
		}
		if b.within(mapID, uid, a) || b.within(mapID, uid, c) {
			seen[uid] = true
			out = append(out, uid)
		}
	}
	return out
}

func (b *Broadcaster) each(uids []int64, fn func(sender.MessageSender)) {
	for _, uid := range uids {
		if sndr, ok := b.index.SenderFor(uid); ok {
			fn(sndr)
		}
	}
}

// CharacterCreate announces a newly-spawned NPC to every nearby session.
func (b *Broadcaster) CharacterCreate(mapID int16, npc *model.NPC) {
	b.each(b.nearby(mapID, npc.Pos, 0), func(s sender.MessageSender) {
		s.CharacterCreate(npc.CharIndex, npc.Body, npc.Head, npc.Heading, npc.Pos.X, npc.Pos.Y, 0, 0, 0, 0, 0, npc.Name, 0, 0)
	})
}

// CharacterMove announces npc's relocation to every session within
// visibility of either the old or new tile. A heading change additionally
// emits CHARACTER_CHANGE, since the move packet carries no heading field
// (spec.md §4.10).
func (b *Broadcaster) CharacterMove(mapID int16, npc *model.NPC, oldPos model.Position, headingChanged bool) {
	recipients := b.unionNearby(mapID, oldPos, npc.Pos, 0)
	b.each(recipients, func(s sender.MessageSender) {
		s.CharacterMove(npc.CharIndex, npc.Pos.X, npc.Pos.Y)
		if headingChanged {
			s.CharacterChange(npc.CharIndex, npc.Body, npc.Head, npc.Heading, 0, 0, 0, 0, 0)
		}
	})
}

// CharacterRemove announces a character's departure from pos.
func (b *Broadcaster) CharacterRemove(mapID int16, charIndex int32, pos model.Position) {
	b.each(b.nearby(mapID, pos, 0), func(s sender.MessageSender) {
		s.CharacterRemove(charIndex)
	})
}

// BlockPosition announces a tile's occupancy flag to every nearby session.
func (b *Broadcaster) BlockPosition(mapID int16, pos model.Position, blocked bool) {
	b.each(b.nearby(mapID, pos, 0), func(s sender.MessageSender) {
		s.BlockPosition(pos.X, pos.Y, blocked)
	})
}

// ObjectCreate announces an item drop at pos.
func (b *Broadcaster) ObjectCreate(mapID int16, pos model.Position, itemID int32, quantity int16) {
	b.each(b.nearby(mapID, pos, 0), func(s sender.MessageSender) {
		s.ObjectCreate(pos.X, pos.Y, int16(itemID))
	})
}

// ObjectDelete announces an item's removal from pos.
func (b *Broadcaster) ObjectDelete(mapID int16, pos model.Position) {
	b.each(b.nearby(mapID, pos, 0), func(s sender.MessageSender) {
		s.ObjectDelete(pos.X, pos.Y)
	})
}

// CreateFX announces a visual/sound effect anchored at pos.
func (b *Broadcaster) CreateFX(mapID int16, pos model.Position, charIndex int32, fx, loops int16) {
	b.each(b.nearby(mapID, pos, 0), func(s sender.MessageSender) {
		s.CreateFX(charIndex, fx, loops)
	})
}

// CharacterCreatePlayer announces a newly-entered or newly-visible player
// to every nearby session, the player-facing counterpart of
// CharacterCreate (spec.md §4.10, S1's CHARACTER_CREATE broadcast).
func (b *Broadcaster) CharacterCreatePlayer(mapID int16, charIndex int32, body, head int16, heading model.Heading, pos model.Position, name string) {
	b.each(b.nearby(mapID, pos, charIndex64(charIndex)), func(s sender.MessageSender) {
		s.CharacterCreate(charIndex, body, head, heading, pos.X, pos.Y, 0, 0, 0, 0, 0, name, 0, 0)
	})
}

// CharacterMovePlayer announces a player's relocation, the player-facing
// counterpart of CharacterMove.
func (b *Broadcaster) CharacterMovePlayer(mapID int16, charIndex int32, body, head int16, heading model.Heading, oldPos, newPos model.Position, headingChanged bool) {
	recipients := b.unionNearby(mapID, oldPos, newPos, charIndex64(charIndex))
	b.each(recipients, func(s sender.MessageSender) {
		s.CharacterMove(charIndex, newPos.X, newPos.Y)
		if headingChanged {
			s.CharacterChange(charIndex, body, head, heading, 0, 0, 0, 0, 0)
		}
	})
}

// CharacterChangePlayer announces a player's appearance or facing change
// with no accompanying move (CHANGE_HEADING, morph, equip).
func (b *Broadcaster) CharacterChangePlayer(mapID int16, charIndex int32, body, head int16, heading model.Heading, pos model.Position) {
	b.each(b.nearby(mapID, pos, charIndex64(charIndex)), func(s sender.MessageSender) {
		s.CharacterChange(charIndex, body, head, heading, 0, 0, 0, 0, 0)
	})
}

// CharacterRemovePlayer announces a player's departure from pos.
func (b *Broadcaster) CharacterRemovePlayer(mapID int16, charIndex int32, pos model.Position) {
	b.each(b.nearby(mapID, pos, charIndex64(charIndex)), func(s sender.MessageSender) {
		s.CharacterRemove(charIndex)
	})
}

// charIndex64 widens a player charIndex (== userID, see internal/handler)
// back to the int64 the rosters key playerIDs by.
func charIndex64(charIndex int32) int64 { return int64(charIndex) }

// ConsoleNearby delivers a console line to every session within
// VisibleRange of pos, excluding exclude (0 excludes nobody) — the
// broadcast shape behind TALK (spec.md §6).
func (b *Broadcaster) ConsoleNearby(mapID int16, pos model.Position, exclude int64, message string, color byte) {
	b.each(b.nearby(mapID, pos, exclude), func(s sender.MessageSender) {
		s.ConsoleMsg(message, color)
	})
}

// BroadcastToMap sends to every session on mapID regardless of distance,
// for map-scoped events with no single spatial anchor (spec.md §4.10).
func (b *Broadcaster) BroadcastToMap(mapID int16, exclude int64, fn func(sender.MessageSender)) {
	b.each(b.index.PlayersInMap(mapID, exclude), fn)
}
