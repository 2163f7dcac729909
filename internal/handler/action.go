package handler

import "github.com/pyao-go/server/internal/wire"

// handleMeditate toggles the meditation flag that MeditationEffect reads;
// mana is restored only while it is set (spec.md §4.11).
func (d *Deps) handleMeditate(sess any, r *wire.Reader) error {
	s := sessionOf(sess)
	sndr := senderFor(s)
	userID := s.UserID()

	ctx := backgroundCtx()
	meditating, err := d.Players.IsMeditating(ctx, userID)
	if err != nil {
		return reportErr(sndr, err)
	}
	meditating = !meditating
	if err := d.Players.SetMeditating(ctx, userID, meditating); err != nil {
		return reportErr(sndr, err)
	}
	sndr.MeditateToggle(meditating)
	return nil
}

// handleLeftClick reports what occupies the clicked tile — an NPC's name
// and description, or nothing.
func (d *Deps) handleLeftClick(sess any, r *wire.Reader) error {
	s := sessionOf(sess)
	sndr := senderFor(s)
	userID := s.UserID()

	x, err := r.ReadInt16()
	if err != nil {
		return err
	}
	y, err := r.ReadInt16()
	if err != nil {
		return err
	}

	ctx := backgroundCtx()
	pos, err := d.Players.GetPosition(ctx, userID)
	if err != nil {
		return reportErr(sndr, err)
	}

	if npc, ok := d.Index.NPCAt(pos.Map, x, y); ok {
		sndr.ConsoleMsg(npc.Name+" - "+npc.Description, 0)
	}
	return nil
}

// handleDoubleClick opens the appropriate window for the clicked NPC: a
// commerce window for a merchant, a vault window for a banker.
func (d *Deps) handleDoubleClick(sess any, r *wire.Reader) error {
	s := sessionOf(sess)
	sndr := senderFor(s)
	userID := s.UserID()

	x, err := r.ReadInt16()
	if err != nil {
		return err
	}
	y, err := r.ReadInt16()
	if err != nil {
		return err
	}

	ctx := backgroundCtx()
	pos, err := d.Players.GetPosition(ctx, userID)
	if err != nil {
		return reportErr(sndr, err)
	}

	npc, ok := d.Index.NPCAt(pos.Map, x, y)
	if !ok || pos.ManhattanTo(npc.Pos) > 1 {
		return nil
	}

	switch {
	case npc.Merchant:
		sndr.CommerceInit(int16(npc.CharIndex), nil)
	case npc.Banker:
		sndr.BankInit()
	}
	return nil
}
