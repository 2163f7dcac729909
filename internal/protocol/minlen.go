package protocol

// MinPacketLengths holds the authoritative minimum frame length (including
// the opcode byte) for every routed client opcode, per spec.md §6. Carried
// over from the original implementation's packet-length validator (see
// SPEC_FULL.md §6) since spec.md's table is only a non-exhaustive example.
var MinPacketLengths = map[byte]int{
	CThrowDices:    1,
	CLogin:         5,
	CDoubleClick:   5,
	CCreateAccount: 16,
	CTalk:          3,
	CWalk:          2,
	CDrop:          5,
	CEquipItem:     2,
	CCommerceEnd:   1,
	CBankEnd:       1,
	COnline:        1,
	CUptime:        1,
	CAyuda:         1,
	CMeditate:      1,
	CPickUp:        1,
	CAttack:        1,
	CChangeHeading: 2,
	CCastSpell:     9,
	CLeftClick:     5,
	CPing:          1,
	CQuit:          1,
}

// MinLengthFor returns the minimum frame length for opcode, defaulting to 1
// (just the opcode byte) for any opcode not named in the table — matching
// the original validator's default.
func MinLengthFor(opcode byte) int {
	if n, ok := MinPacketLengths[opcode]; ok {
		return n
	}
	return 1
}
