package handler

import (
	"github.com/pyao-go/server/internal/model"
	"github.com/pyao-go/server/internal/wire"
)

// handleWalk validates and applies one step, then announces the move to
// nearby sessions (spec.md §4.4's movement validation, §4.10's broadcast).
// A blocked step leaves the position unchanged and is answered with a
// POS_UPDATE of the current tile so the client resyncs.
func (d *Deps) handleWalk(sess any, r *wire.Reader) error {
	s := sessionOf(sess)
	sndr := senderFor(s)
	userID := s.UserID()

	b, err := r.ReadByte()
	if err != nil {
		return err
	}
	heading := model.Heading(b)
	if !heading.Valid() {
		return nil
	}

	ctx := backgroundCtx()
	pos, err := d.Players.GetPosition(ctx, userID)
	if err != nil {
		return reportErr(sndr, err)
	}

	dx, dy := heading.Step()
	newPos := model.Position{Map: pos.Map, X: pos.X + int16(dx), Y: pos.Y + int16(dy)}

	if !d.Maps.CanMoveTo(newPos.Map, newPos.X, newPos.Y) || d.Index.IsTileOccupied(newPos.Map, newPos.X, newPos.Y) {
		sndr.PosUpdate(pos.X, pos.Y)
		return nil
	}

	if err := d.Players.SetPosition(ctx, userID, newPos); err != nil {
		return reportErr(sndr, err)
	}
	if err := d.Players.SetHeading(ctx, userID, heading); err != nil {
		return reportErr(sndr, err)
	}
	d.Index.MovePlayer(pos.Map, newPos.Map, pos.X, pos.Y, newPos.X, newPos.Y, userID)

	sndr.PosUpdate(newPos.X, newPos.Y)

	body, head := d.appearanceOf(ctx, userID)
	d.Broadcast.CharacterMovePlayer(newPos.Map, int32(userID), body, head, heading, pos, newPos, true)
	return nil
}

// handleChangeHeading turns the character in place without moving it.
func (d *Deps) handleChangeHeading(sess any, r *wire.Reader) error {
	s := sessionOf(sess)
	sndr := senderFor(s)
	userID := s.UserID()

	b, err := r.ReadByte()
	if err != nil {
		return err
	}
	heading := model.Heading(b)
	if !heading.Valid() {
		return nil
	}

	ctx := backgroundCtx()
	if err := d.Players.SetHeading(ctx, userID, heading); err != nil {
		return reportErr(sndr, err)
	}
	pos, err := d.Players.GetPosition(ctx, userID)
	if err != nil {
		return reportErr(sndr, err)
	}
	body, head := d.appearanceOf(ctx, userID)
	d.Broadcast.CharacterChangePlayer(pos.Map, int32(userID), body, head, heading, pos)
	return nil
}
