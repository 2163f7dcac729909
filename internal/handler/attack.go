package handler

import (
	"context"
	"strconv"

	"github.com/pyao-go/server/internal/combat"
	"github.com/pyao-go/server/internal/model"
	"github.com/pyao-go/server/internal/sender"
	"github.com/pyao-go/server/internal/wire"
	"go.uber.org/zap"
)

func itoa(v int32) string { return strconv.Itoa(int(v)) }

// resolveWeaponDamage looks up the attacker's equipped weapon in the item
// catalogue, falling back to bare-hand damage when nothing is equipped or
// the catalogue has no entry for it.
func (d *Deps) resolveWeaponDamage(ctx context.Context, userID int64) combat.WeaponDamage {
	eq, err := d.Players.GetEquipment(ctx, userID)
	if err != nil || eq.WeaponSlot == 0 {
		return combat.UnarmedDamage
	}
	inv, err := d.Players.GetInventory(ctx, userID)
	if err != nil || int(eq.WeaponSlot) >= len(inv) {
		return combat.UnarmedDamage
	}
	slot := inv[eq.WeaponSlot]
	if slot.Empty() {
		return combat.UnarmedDamage
	}
	item, ok := d.Items.GetItem(slot.ItemID)
	if !ok || item.Kind != model.ItemKindWeapon {
		return combat.UnarmedDamage
	}
	return combat.WeaponDamage{MinHit: item.MinHit, MaxHit: item.MaxHit}
}

// handleAttack resolves a melee attack against whatever occupies the tile
// the attacker is facing (spec.md §4.6; Argentum's ATTACK packet carries no
// target — the server derives it from position and heading).
func (d *Deps) handleAttack(sess any, r *wire.Reader) error {
	s := sessionOf(sess)
	sndr := senderFor(s)
	userID := s.UserID()
	ctx := backgroundCtx()

	pos, err := d.Players.GetPosition(ctx, userID)
	if err != nil {
		return reportErr(sndr, err)
	}
	heading, err := d.Players.GetHeading(ctx, userID)
	if err != nil {
		return reportErr(sndr, err)
	}
	dx, dy := heading.Step()
	targetPos := pos
	targetPos.X += int16(dx)
	targetPos.Y += int16(dy)

	if npc, ok := d.Index.NPCAt(pos.Map, targetPos.X, targetPos.Y); ok {
		weapon := d.resolveWeaponDamage(ctx, userID)
		res, err := d.Combat.PlayerAttacksNPC(ctx, userID, npc, weapon)
		if err != nil {
			return reportErr(sndr, err)
		}
		d.reportAttack(sndr, res, npc.Name)
		if res.NPCDied {
			if res.Experience > 0 {
				newExp, err := d.Players.UpdateExperience(ctx, userID, res.Experience)
				if err == nil {
					sndr.UpdateExp(newExp)
				}
			}
			if res.Gold > 0 {
				if _, err := d.Players.UpdateGold(ctx, userID, res.Gold); err != nil {
					d.Log.Warn("update gold after kill", zap.Error(err))
				}
			}
		}
		return nil
	}

	if _, ok := d.Index.PlayerAt(pos.Map, targetPos.X, targetPos.Y); ok {
		sndr.ConsoleMsg("No puedes atacar a otros jugadores aquí.", 0)
		return nil
	}

	sndr.ConsoleMsg("No hay nada que atacar.", 0)
	return nil
}

func (d *Deps) reportAttack(sndr sender.MessageSender, res *combat.AttackResult, targetName string) {
	switch {
	case res.Dodged:
		sndr.ConsoleMsg(targetName+" esquivó el golpe.", 0)
	case res.Critical:
		sndr.ConsoleMsg("¡Golpe crítico! Hiciste "+itoa(res.Damage)+" de daño a "+targetName+".", 0)
	default:
		sndr.ConsoleMsg("Hiciste "+itoa(res.Damage)+" de daño a "+targetName+".", 0)
	}
	if res.NPCDied {
		sndr.ConsoleMsg("Has matado a "+targetName+".", 0)
	}
}
