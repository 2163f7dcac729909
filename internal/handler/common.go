package handler

import (
	"context"

	"github.com/pyao-go/server/internal/sender"
	"github.com/pyao-go/server/internal/session"
)

// sessionOf recovers the concrete session type Registry.Dispatch passes in
// as an opaque interface, same pattern as protocol.authChecker.
func sessionOf(sess any) *session.Session {
	return sess.(*session.Session)
}

// senderFor builds a MessageSender bound to s, the shape every handler
// below uses to talk back to its own connection.
func senderFor(s *session.Session) sender.MessageSender {
	return sender.New(s)
}

func backgroundCtx() context.Context {
	return context.Background()
}

// appearanceOf fetches a player's body/head, falling back to the zero
// appearance on a repo error so a broadcast never blocks on it.
func (d *Deps) appearanceOf(ctx context.Context, userID int64) (body, head int16) {
	b, h, err := d.Players.GetAppearance(ctx, userID)
	if err != nil {
		return 0, 0
	}
	return b, h
}

// reportErr renders err as a console message on sndr rather than closing
// the connection; the registry's caller only logs and keeps reading
// (spec.md §4.2), so handlers never return game-logic errors upward.
func reportErr(sndr sender.MessageSender, err error) error {
	if err == nil {
		return nil
	}
	sndr.ErrorMsg(err.Error())
	return nil
}
