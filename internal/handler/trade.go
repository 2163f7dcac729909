package handler

import "github.com/pyao-go/server/internal/wire"

// handleCommerceEnd closes a merchant trade window. Buy/sell line items
// themselves travel over CHANGE_INVENTORY_SLOT / CHANGE_NPC_INVENTORY_SLOT,
// packets this core does not yet route a dedicated opcode for; the window
// lifecycle is what COMMERCE_END owns.
func (d *Deps) handleCommerceEnd(sess any, r *wire.Reader) error {
	senderFor(sessionOf(sess)).CommerceEnd()
	return nil
}
