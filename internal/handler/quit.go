package handler

import "github.com/pyao-go/server/internal/wire"

// handleQuit removes the character from the world and closes the
// connection (spec.md §4.3's session lifecycle).
func (d *Deps) handleQuit(sess any, r *wire.Reader) error {
	s := sessionOf(sess)
	userID := s.UserID()

	ctx := backgroundCtx()
	pos, err := d.Players.GetPosition(ctx, userID)
	if err == nil {
		d.Index.RemovePlayerFromAllMaps(userID)
		d.Broadcast.CharacterRemovePlayer(pos.Map, int32(userID), pos)
	}
	s.Close()
	return nil
}
