package sender

import (
	"github.com/pyao-go/server/internal/model"
	"github.com/pyao-go/server/internal/protocol"
	"github.com/pyao-go/server/internal/session"
	"github.com/pyao-go/server/internal/wire"
)

// PacketSender is the concrete MessageSender writing through a Session's
// outbound queue. Critical packets (map change, character removal) use the
// session's priority queue per spec.md's Design Notes back-pressure policy;
// everything else is best-effort.
type PacketSender struct {
	sess *session.Session
}

func New(sess *session.Session) *PacketSender {
	return &PacketSender{sess: sess}
}

func (p *PacketSender) send(opcode byte, w *wire.Writer, critical bool) {
	body := append([]byte{opcode}, w.Bytes()...)
	p.sess.Send(body, critical)
}

func (p *PacketSender) CharacterCreate(charIndex int32, body, head int16, heading model.Heading, x, y int16, weapon, shield, helmet, fx, loops int16, name string, nickColor, privileges byte) {
	w := wire.NewWriter()
	w.WriteInt32(charIndex)
	w.WriteInt32(int32(body))
	w.WriteInt32(int32(head))
	w.WriteByte(byte(heading))
	w.WriteInt32(int32(x))
	w.WriteInt32(int32(y))
	w.WriteInt32(int32(weapon))
	w.WriteInt32(int32(shield))
	w.WriteInt32(int32(helmet))
	w.WriteInt32(int32(fx))
	w.WriteInt32(int32(loops))
	w.WriteString(name)
	w.WriteByte(nickColor)
	w.WriteByte(privileges)
	p.send(protocol.SCharacterCreate, w, false)
}

func (p *PacketSender) CharacterChange(charIndex int32, body, head int16, heading model.Heading, weapon, shield, helmet, fx, loops int16) {
	w := wire.NewWriter()
	w.WriteInt32(charIndex)
	w.WriteInt32(int32(body))
	w.WriteInt32(int32(head))
	w.WriteByte(byte(heading))
	w.WriteInt32(int32(weapon))
	w.WriteInt32(int32(shield))
	w.WriteInt32(int32(helmet))
	w.WriteInt32(int32(fx))
	w.WriteInt32(int32(loops))
	p.send(protocol.SCharacterChange, w, false)
}

func (p *PacketSender) CharacterMove(charIndex int32, x, y int16) {
	w := wire.NewWriter()
	w.WriteInt32(charIndex)
	w.WriteInt32(int32(x))
	w.WriteInt32(int32(y))
	p.send(protocol.SCharacterMove, w, false)
}

func (p *PacketSender) CharacterRemove(charIndex int32) {
	w := wire.NewWriter()
	w.WriteInt32(charIndex)
	p.send(protocol.SCharacterRemove, w, true)
}

func (p *PacketSender) CreateFX(charIndex int32, fx, loops int16) {
	w := wire.NewWriter()
	w.WriteInt32(charIndex)
	w.WriteInt32(int32(fx))
	w.WriteInt32(int32(loops))
	p.send(protocol.SCreateFX, w, false)
}

func (p *PacketSender) PlayWave(waveID byte, x, y int16) {
	w := wire.NewWriter()
	w.WriteByte(waveID)
	w.WriteInt32(int32(x))
	w.WriteInt32(int32(y))
	p.send(protocol.SPlayWave, w, false)
}

func (p *PacketSender) UpdateUserStats(maxHP, minHP, maxMana, minMana, maxSta, minSta int16, gold int64, level byte, elu, exp int64) {
	w := wire.NewWriter()
	w.WriteInt16(maxHP)
	w.WriteInt16(minHP)
	w.WriteInt16(maxMana)
	w.WriteInt16(minMana)
	w.WriteInt16(maxSta)
	w.WriteInt16(minSta)
	w.WriteInt32(int32(gold))
	w.WriteByte(level)
	w.WriteInt32(int32(elu))
	w.WriteInt32(int32(exp))
	p.send(protocol.SUpdateUserStats, w, false)
}

func (p *PacketSender) UpdateHP(hp int16) {
	w := wire.NewWriter()
	w.WriteInt16(hp)
	p.send(protocol.SUpdateHP, w, false)
}

func (p *PacketSender) UpdateMana(mana int16) {
	w := wire.NewWriter()
	w.WriteInt16(mana)
	p.send(protocol.SUpdateMana, w, false)
}

func (p *PacketSender) UpdateSta(sta int16) {
	w := wire.NewWriter()
	w.WriteInt16(sta)
	p.send(protocol.SUpdateSta, w, false)
}

func (p *PacketSender) UpdateExp(exp int64) {
	w := wire.NewWriter()
	w.WriteInt32(int32(exp))
	p.send(protocol.SUpdateExp, w, false)
}

func (p *PacketSender) ConsoleMsg(message string, color byte) {
	w := wire.NewWriter()
	w.WriteString(message)
	w.WriteByte(color)
	p.send(protocol.SConsoleMsg, w, false)
}

func (p *PacketSender) ErrorMsg(message string) {
	w := wire.NewWriter()
	w.WriteString(message)
	p.send(protocol.SErrorMsg, w, false)
}

func (p *PacketSender) MultilineConsoleMsg(lines []string, color byte) {
	w := wire.NewWriter()
	w.WriteByte(byte(len(lines)))
	for _, l := range lines {
		w.WriteString(l)
	}
	w.WriteByte(color)
	p.send(protocol.SMultiMessage, w, false)
}

func (p *PacketSender) ChangeMap(mapNumber int16, version int16) {
	w := wire.NewWriter()
	w.WriteInt16(mapNumber)
	w.WriteInt16(version)
	p.send(protocol.SChangeMap, w, true)
}

func (p *PacketSender) PosUpdate(x, y int16) {
	w := wire.NewWriter()
	w.WriteInt16(x)
	w.WriteInt16(y)
	p.send(protocol.SPosUpdate, w, false)
}

func (p *PacketSender) BlockPosition(x, y int16, blocked bool) {
	w := wire.NewWriter()
	w.WriteInt16(x)
	w.WriteInt16(y)
	w.WriteByte(boolByte(blocked))
	p.send(protocol.SBlockPosition, w, false)
}

func (p *PacketSender) ObjectCreate(x, y int16, grh int16) {
	w := wire.NewWriter()
	w.WriteInt16(x)
	w.WriteInt16(y)
	w.WriteInt16(grh)
	p.send(protocol.SObjectCreate, w, false)
}

func (p *PacketSender) ObjectDelete(x, y int16) {
	w := wire.NewWriter()
	w.WriteInt16(x)
	w.WriteInt16(y)
	p.send(protocol.SObjectDelete, w, false)
}

func writeSlot(w *wire.Writer, s InventorySlotView) {
	w.WriteByte(s.Slot)
	w.WriteInt16(s.ItemID)
	w.WriteString(s.Name)
	w.WriteInt16(s.Amount)
	w.WriteByte(boolByte(s.Equipped))
	w.WriteInt16(s.GRH)
	w.WriteByte(s.Type)
	w.WriteInt16(s.MaxHit)
	w.WriteInt16(s.MinHit)
	w.WriteInt16(s.MaxDef)
	w.WriteInt16(s.MinDef)
	w.WriteFloat32(s.SalePrice)
}

func (p *PacketSender) ChangeInventorySlot(s InventorySlotView) {
	w := wire.NewWriter()
	writeSlot(w, s)
	p.send(protocol.SChangeInventorySlot, w, false)
}

func (p *PacketSender) ChangeBankSlot(s InventorySlotView) {
	w := wire.NewWriter()
	writeSlot(w, s)
	p.send(protocol.SChangeBankSlot, w, false)
}

func (p *PacketSender) ChangeNpcInventorySlot(s InventorySlotView) {
	w := wire.NewWriter()
	writeSlot(w, s)
	p.send(protocol.SChangeNpcInventorySlot, w, false)
}

func (p *PacketSender) ChangeSpellSlot(slot byte, spellID int16, name string) {
	w := wire.NewWriter()
	w.WriteByte(slot)
	w.WriteInt16(spellID)
	w.WriteString(name)
	p.send(protocol.SChangeSpellSlot, w, false)
}

func (p *PacketSender) CommerceInit(npcID int16, items []CommerceItem) {
	w := wire.NewWriter()
	w.WriteInt16(npcID)
	w.WriteByte(byte(len(items)))
	for _, it := range items {
		w.WriteInt16(it.ItemID)
		w.WriteString(it.Name)
		w.WriteFloat32(it.Price)
		w.WriteInt16(it.Quantity)
		w.WriteInt16(it.GRH)
	}
	p.send(protocol.SCommerceInit, w, false)
}

func (p *PacketSender) CommerceEnd() {
	p.send(protocol.SCommerceEnd, wire.NewWriter(), false)
}

func (p *PacketSender) BankInit() {
	p.send(protocol.SBankInit, wire.NewWriter(), false)
}

func (p *PacketSender) BankEnd() {
	p.send(protocol.SBankEnd, wire.NewWriter(), false)
}

func (p *PacketSender) MeditateToggle(meditating bool) {
	w := wire.NewWriter()
	w.WriteByte(boolByte(meditating))
	p.send(protocol.SMeditateToggle, w, false)
}

func (p *PacketSender) Logged(userClass byte) {
	w := wire.NewWriter()
	w.WriteByte(userClass)
	p.send(protocol.SLogged, w, true)
}

func (p *PacketSender) UserCharIndexInServer(charIndex int32) {
	w := wire.NewWriter()
	w.WriteInt32(charIndex)
	p.send(protocol.SUserCharIndexInServer, w, true)
}

func (p *PacketSender) Attributes(str, agi, intl, cha, con byte) {
	w := wire.NewWriter()
	w.WriteByte(str)
	w.WriteByte(agi)
	w.WriteByte(intl)
	w.WriteByte(cha)
	w.WriteByte(con)
	p.send(protocol.SAttributes, w, false)
}

func (p *PacketSender) DiceRoll(str, agi, intl, cha, con byte) {
	w := wire.NewWriter()
	w.WriteByte(str)
	w.WriteByte(agi)
	w.WriteByte(intl)
	w.WriteByte(cha)
	w.WriteByte(con)
	p.send(protocol.SDiceRoll, w, false)
}

func (p *PacketSender) Pong() {
	p.send(protocol.SPong, wire.NewWriter(), false)
}

func (p *PacketSender) UpdateHungerAndThirst(maxWater, minWater, maxHunger, minHunger byte) {
	w := wire.NewWriter()
	w.WriteByte(maxWater)
	w.WriteByte(minWater)
	w.WriteByte(maxHunger)
	w.WriteByte(minHunger)
	p.send(protocol.SUpdateHungerAndThirst, w, false)
}

func (p *PacketSender) UpdateStrAndDex(str, agi byte) {
	w := wire.NewWriter()
	w.WriteByte(str)
	w.WriteByte(agi)
	p.send(protocol.SUpdateStrAndDex, w, false)
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
