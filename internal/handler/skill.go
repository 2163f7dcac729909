package handler

import "github.com/pyao-go/server/internal/wire"

// handleCastSpell delegates to spell.Engine, which owns mana cost,
// targeting and every per-effect branch (spec.md §4.7).
func (d *Deps) handleCastSpell(sess any, r *wire.Reader) error {
	s := sessionOf(sess)
	sndr := senderFor(s)
	userID := s.UserID()

	spellID, err := r.ReadInt32()
	if err != nil {
		return err
	}
	targetX, err := r.ReadInt16()
	if err != nil {
		return err
	}
	targetY, err := r.ReadInt16()
	if err != nil {
		return err
	}

	ctx := backgroundCtx()
	_, err = d.Spells.Cast(ctx, userID, spellID, targetX, targetY, sndr)
	return reportErr(sndr, err)
}
