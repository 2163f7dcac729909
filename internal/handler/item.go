package handler

import (
	"time"

	"github.com/pyao-go/server/internal/model"
	"github.com/pyao-go/server/internal/sender"
	"github.com/pyao-go/server/internal/wire"
)

// findInventorySlot returns the index of the first slot holding itemID, or
// -1 if none does.
func findInventorySlot(inv [model.MaxInventorySlots]model.InventorySlot, itemID int32) int {
	for i, s := range inv {
		if s.ItemID == itemID && !s.Empty() {
			return i
		}
	}
	return -1
}

// findFreeSlot returns the index of the first empty slot, or -1 if the
// backpack is full.
func findFreeSlot(inv [model.MaxInventorySlots]model.InventorySlot) int {
	for i, s := range inv {
		if s.Empty() {
			return i
		}
	}
	return -1
}

// handlePickUp lifts the ground stack under the player into its backpack,
// merging into a matching slot when one already holds the same item
// (spec.md §3's GroundItem, §4.4). Argentum's PICK_UP packet names no item,
// so the tile's arbitrary stack (ground.Ledger.First) is the target.
func (d *Deps) handlePickUp(sess any, r *wire.Reader) error {
	s := sessionOf(sess)
	sndr := senderFor(s)
	userID := s.UserID()
	ctx := backgroundCtx()

	pos, err := d.Players.GetPosition(ctx, userID)
	if err != nil {
		return reportErr(sndr, err)
	}

	item, ok := d.Ground.First(pos)
	if !ok {
		sndr.ConsoleMsg("No hay nada para recoger.", 0)
		return nil
	}

	inv, err := d.Players.GetInventory(ctx, userID)
	if err != nil {
		return reportErr(sndr, err)
	}
	slot := findInventorySlot(inv, item.TemplateID)
	if slot < 0 {
		slot = findFreeSlot(inv)
	}
	if slot < 0 {
		sndr.ConsoleMsg("No tienes espacio en el inventario.", 0)
		return nil
	}

	taken, tileCleared := d.Ground.PickUp(pos, item.TemplateID, item.Quantity)
	if taken == 0 {
		return nil
	}

	newSlot := inv[slot]
	newSlot.ItemID = item.TemplateID
	newSlot.Quantity += taken
	if err := d.Players.SetInventorySlot(ctx, userID, byte(slot), newSlot); err != nil {
		return reportErr(sndr, err)
	}

	sndr.ChangeInventorySlot(d.inventorySlotView(byte(slot), newSlot))
	if tileCleared {
		d.Broadcast.ObjectDelete(pos.Map, pos)
	}
	return nil
}

// handleDrop places quantity of itemID from the player's backpack onto its
// current tile.
func (d *Deps) handleDrop(sess any, r *wire.Reader) error {
	s := sessionOf(sess)
	sndr := senderFor(s)
	userID := s.UserID()

	itemID, err := r.ReadInt16()
	if err != nil {
		return err
	}
	quantity, err := r.ReadInt16()
	if err != nil {
		return err
	}
	if quantity <= 0 {
		return nil
	}

	ctx := backgroundCtx()
	pos, err := d.Players.GetPosition(ctx, userID)
	if err != nil {
		return reportErr(sndr, err)
	}

	inv, err := d.Players.GetInventory(ctx, userID)
	if err != nil {
		return reportErr(sndr, err)
	}
	slot := findInventorySlot(inv, int32(itemID))
	if slot < 0 || inv[slot].Quantity < quantity {
		sndr.ConsoleMsg("No tienes esa cantidad.", 0)
		return nil
	}

	newSlot := inv[slot]
	newSlot.Quantity -= quantity
	if newSlot.Quantity <= 0 {
		newSlot = model.InventorySlot{}
	}
	if err := d.Players.SetInventorySlot(ctx, userID, byte(slot), newSlot); err != nil {
		return reportErr(sndr, err)
	}
	sndr.ChangeInventorySlot(d.inventorySlotView(byte(slot), newSlot))

	var grh int16
	if def, ok := d.Items.GetItem(int32(itemID)); ok {
		grh = def.GRH
	}
	d.Ground.Drop(pos, int32(itemID), quantity, grh, userID, time.Now())
	d.Broadcast.ObjectCreate(pos.Map, pos, int32(itemID), quantity)
	return nil
}

// handleEquipItem toggles equip state for the item in slot, wiring it into
// the weapon/shield/helmet/armor slot its catalogue kind belongs to.
func (d *Deps) handleEquipItem(sess any, r *wire.Reader) error {
	s := sessionOf(sess)
	sndr := senderFor(s)
	userID := s.UserID()

	slotIdx, err := r.ReadByte()
	if err != nil {
		return err
	}

	ctx := backgroundCtx()
	inv, err := d.Players.GetInventory(ctx, userID)
	if err != nil {
		return reportErr(sndr, err)
	}
	if int(slotIdx) >= len(inv) || inv[slotIdx].Empty() {
		return nil
	}
	def, ok := d.Items.GetItem(inv[slotIdx].ItemID)
	if !ok {
		return nil
	}

	eq, err := d.Players.GetEquipment(ctx, userID)
	if err != nil {
		return reportErr(sndr, err)
	}

	switch def.Kind {
	case model.ItemKindWeapon:
		eq.WeaponSlot = toggleSlot(eq.WeaponSlot, slotIdx)
	case model.ItemKindShield:
		eq.ShieldSlot = toggleSlot(eq.ShieldSlot, slotIdx)
	case model.ItemKindHelmet:
		eq.HelmetSlot = toggleSlot(eq.HelmetSlot, slotIdx)
	case model.ItemKindArmor:
		eq.ArmorSlot = toggleSlot(eq.ArmorSlot, slotIdx)
	default:
		sndr.ConsoleMsg("Ese objeto no se puede equipar.", 0)
		return nil
	}

	if err := d.Players.SetEquipment(ctx, userID, eq); err != nil {
		return reportErr(sndr, err)
	}
	sndr.ChangeInventorySlot(d.inventorySlotView(slotIdx, inv[slotIdx]))
	return nil
}

// toggleSlot un-equips current if it already points at slot, otherwise
// equips slot.
func toggleSlot(current int8, slot byte) int8 {
	if current == int8(slot) {
		return 0
	}
	return int8(slot)
}

func (d *Deps) inventorySlotView(slot byte, s model.InventorySlot) sender.InventorySlotView {
	view := sender.InventorySlotView{Slot: slot, ItemID: int16(s.ItemID), Amount: s.Quantity}
	if def, ok := d.Items.GetItem(s.ItemID); ok {
		view.Name = def.Name
		view.GRH = def.GRH
		view.Type = byte(def.Kind)
		view.MinHit = def.MinHit
		view.MaxHit = def.MaxHit
		view.MinDef = def.MinDef
		view.MaxDef = def.MaxDef
		view.SalePrice = def.SalePrice
	}
	return view
}
