package handler

import "github.com/pyao-go/server/internal/wire"

// TalkColor is the console color Argentum clients render local chat in.
const TalkColor = 0

// handleTalk broadcasts a chat line to every session within visibility of
// the speaker (spec.md §4.10). The speaker itself also gets the echo, since
// Argentum clients don't print their own outgoing line locally.
func (d *Deps) handleTalk(sess any, r *wire.Reader) error {
	s := sessionOf(sess)
	sndr := senderFor(s)
	userID := s.UserID()

	message, err := r.ReadString()
	if err != nil {
		return err
	}
	if message == "" {
		return nil
	}

	ctx := backgroundCtx()
	pos, err := d.Players.GetPosition(ctx, userID)
	if err != nil {
		return reportErr(sndr, err)
	}

	line := s.Username() + "> " + message
	sndr.ConsoleMsg(line, TalkColor)
	d.Broadcast.ConsoleNearby(pos.Map, pos, userID, line, TalkColor)
	return nil
}
