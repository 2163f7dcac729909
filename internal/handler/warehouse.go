package handler

import "github.com/pyao-go/server/internal/wire"

// handleBankEnd closes a banker vault window (spec.md §3's Vault slots).
func (d *Deps) handleBankEnd(sess any, r *wire.Reader) error {
	senderFor(sessionOf(sess)).BankEnd()
	return nil
}
