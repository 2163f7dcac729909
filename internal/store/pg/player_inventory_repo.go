package pg

import (
	"context"
	"encoding/json"

	"github.com/pyao-go/server/internal/model"
)

// Inventory, vault and spells are stored as JSONB arrays on the players
// row (see migrations/00001_init.sql). Slot mutation reads the whole
// array, mutates one entry, and writes it back — fine at this scale
// (at most 40 slots) and it keeps every array the same shape the teacher's
// JSON columns use elsewhere, without a join table per slot.

func (r *PlayerRepo) GetInventory(ctx context.Context, userID int64) ([model.MaxInventorySlots]model.InventorySlot, error) {
	var out [model.MaxInventorySlots]model.InventorySlot
	var raw []byte
	err := r.db.Pool.QueryRow(ctx, `SELECT inventory FROM players WHERE user_id=$1`, userID).Scan(&raw)
	if err != nil {
		return out, wrapNoRows(err)
	}
	return out, decodeSlots(raw, out[:])
}

func (r *PlayerRepo) SetInventorySlot(ctx context.Context, userID int64, slot byte, item model.InventorySlot) error {
	inv, err := r.GetInventory(ctx, userID)
	if err != nil {
		return err
	}
	if int(slot) >= len(inv) {
		return nil
	}
	inv[slot] = item
	raw, err := json.Marshal(inv)
	if err != nil {
		return err
	}
	_, err = r.db.Pool.Exec(ctx, `UPDATE players SET inventory=$1 WHERE user_id=$2`, raw, userID)
	return err
}

func (r *PlayerRepo) GetEquipment(ctx context.Context, userID int64) (model.Equipment, error) {
	var eq model.Equipment
	err := r.db.Pool.QueryRow(ctx,
		`SELECT equip_weapon, equip_shield, equip_helmet, equip_armor FROM players WHERE user_id=$1`, userID,
	).Scan(&eq.WeaponSlot, &eq.ShieldSlot, &eq.HelmetSlot, &eq.ArmorSlot)
	return eq, wrapNoRows(err)
}

func (r *PlayerRepo) SetEquipment(ctx context.Context, userID int64, eq model.Equipment) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE players SET equip_weapon=$1, equip_shield=$2, equip_helmet=$3, equip_armor=$4 WHERE user_id=$5`,
		eq.WeaponSlot, eq.ShieldSlot, eq.HelmetSlot, eq.ArmorSlot, userID,
	)
	return err
}

func (r *PlayerRepo) GetVault(ctx context.Context, userID int64) ([model.MaxBankSlots]model.InventorySlot, error) {
	var out [model.MaxBankSlots]model.InventorySlot
	var raw []byte
	err := r.db.Pool.QueryRow(ctx, `SELECT vault FROM players WHERE user_id=$1`, userID).Scan(&raw)
	if err != nil {
		return out, wrapNoRows(err)
	}
	return out, decodeSlots(raw, out[:])
}

func (r *PlayerRepo) SetVaultSlot(ctx context.Context, userID int64, slot byte, item model.InventorySlot) error {
	vault, err := r.GetVault(ctx, userID)
	if err != nil {
		return err
	}
	if int(slot) >= len(vault) {
		return nil
	}
	vault[slot] = item
	raw, err := json.Marshal(vault)
	if err != nil {
		return err
	}
	_, err = r.db.Pool.Exec(ctx, `UPDATE players SET vault=$1 WHERE user_id=$2`, raw, userID)
	return err
}

func (r *PlayerRepo) GetSpells(ctx context.Context, userID int64) ([model.MaxSpellSlots]model.SpellSlot, error) {
	var out [model.MaxSpellSlots]model.SpellSlot
	var raw []byte
	err := r.db.Pool.QueryRow(ctx, `SELECT spells FROM players WHERE user_id=$1`, userID).Scan(&raw)
	if err != nil {
		return out, wrapNoRows(err)
	}
	if len(raw) == 0 {
		return out, nil
	}
	var spells []model.SpellSlot
	if err := json.Unmarshal(raw, &spells); err != nil {
		return out, err
	}
	copy(out[:], spells)
	return out, nil
}

func (r *PlayerRepo) SetSpellSlot(ctx context.Context, userID int64, slot byte, s model.SpellSlot) error {
	spells, err := r.GetSpells(ctx, userID)
	if err != nil {
		return err
	}
	if int(slot) >= len(spells) {
		return nil
	}
	spells[slot] = s
	raw, err := json.Marshal(spells)
	if err != nil {
		return err
	}
	_, err = r.db.Pool.Exec(ctx, `UPDATE players SET spells=$1 WHERE user_id=$2`, raw, userID)
	return err
}

func decodeSlots(raw []byte, out []model.InventorySlot) error {
	if len(raw) == 0 {
		return nil
	}
	var slots []model.InventorySlot
	if err := json.Unmarshal(raw, &slots); err != nil {
		return err
	}
	copy(out, slots)
	return nil
}
