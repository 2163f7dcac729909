package handler

import (
	"math/rand"
	"net"
	"testing"
	"time"

	"github.com/pyao-go/server/internal/broadcast"
	"github.com/pyao-go/server/internal/ground"
	"github.com/pyao-go/server/internal/model"
	"github.com/pyao-go/server/internal/npcengine"
	"github.com/pyao-go/server/internal/protocol"
	"github.com/pyao-go/server/internal/sender"
	"github.com/pyao-go/server/internal/session"
	"github.com/pyao-go/server/internal/spatial"
	"github.com/pyao-go/server/internal/wire"
	"github.com/pyao-go/server/internal/worldmap"
	"go.uber.org/zap"
)

// newTestHarness wires a *Deps against fakes plus the concrete,
// dependency-free building blocks (spatial.Index, worldmap.Registry,
// ground.Ledger, broadcast.Broadcaster) so handler tests exercise real
// occupancy/visibility/terrain logic, not just repo plumbing.
func newTestHarness(t *testing.T) (*Deps, *fakePlayerRepo) {
	t.Helper()

	idx := spatial.NewIndex()
	maps := worldmap.NewRegistry()
	open := model.Tile{Walkable: true, Class: model.ClassOpen}
	blocked := model.Tile{Walkable: false, Class: model.ClassBlocked}
	const mapSize = 60
	tiles := make([][]model.Tile, mapSize)
	for y := range tiles {
		tiles[y] = make([]model.Tile, mapSize)
		for x := range tiles[y] {
			tiles[y][x] = open
		}
	}
	tiles[51][51] = blocked // (51,51) is walled off for handleWalk's blocked case
	maps.LoadMap(1, mapSize, mapSize, tiles, nil)

	players := &fakePlayerRepo{
		pos:     model.Position{Map: 1, X: 50, Y: 50},
		heading: model.South,
		vitals:  model.Vitals{MaxHP: 30, MinHP: 30, MaxMana: 20, MinMana: 20, MaxSta: 20, MinSta: 20},
		ht:      model.HungerThirst{MaxWater: 100, MinWater: 100, MaxHunger: 100, MinHunger: 100},
	}

	rng := rand.New(rand.NewSource(1))
	d := &Deps{
		Log:       zap.NewNop(),
		Accounts:  newFakeAccountRepo(),
		Players:   players,
		Index:     idx,
		Maps:      maps,
		Ground:    ground.NewLedger(),
		Broadcast: broadcast.NewBroadcaster(idx),
		NPCEngine: npcengine.NewEngine(nil, nil, idx, maps, nil, nil, rng),
		Items:     &fakeItemCatalog{items: map[int32]model.ItemDef{}},
		Rng:       rng,
		StartTime: time.Now(),
	}
	return d, players
}

// testSession pairs a *session.Session (the production write path handlers
// use via sender.New) with the peer net.Conn a test reads frames back from.
type testSession struct {
	sess *session.Session
	peer net.Conn
}

func newTestSession(t *testing.T) *testSession {
	t.Helper()
	serverConn, peer := net.Pipe()
	s := session.New(serverConn, 1, 32, zap.NewNop())
	s.Start(func(frame []byte) {})
	t.Cleanup(func() { s.Close() })
	return &testSession{sess: s, peer: peer}
}

// readFrame reads the next frame off the session's wire and splits it into
// its opcode byte plus a reader over the remaining body. Server -> client
// frames carry no outer length either (spec.md §6), and several of them
// (CommerceInit, MultilineConsoleMsg) have a body whose length depends on a
// leading count byte rather than a fixed shape, so this reads live off the
// connection field by field instead of pre-slicing a fixed-size frame —
// exactly how a real client, stepping through the same fields the sender
// wrote, would have to decode it too.
func (ts *testSession) readFrame(t *testing.T) (byte, *wire.StreamReader) {
	t.Helper()
	ts.peer.SetReadDeadline(time.Now().Add(2 * time.Second))
	sr := wire.NewStreamReader(ts.peer)
	opcode, err := sr.ReadByte()
	if err != nil {
		t.Fatalf("readFrame: %v", err)
	}
	return opcode, sr
}

func TestHandleLogin_Success(t *testing.T) {
	d, players := newTestHarness(t)
	accounts := d.Accounts.(*fakeAccountRepo)
	accounts.users["hero"] = struct {
		userID   int64
		password string
	}{userID: 7, password: "secret"}
	players.pos = model.Position{Map: 1, X: 50, Y: 50}

	ts := newTestSession(t)

	w := wire.NewWriter()
	w.WriteString("hero")
	w.WriteString("secret")

	if err := d.handleLogin(ts.sess, wire.NewReader(w.Bytes())); err != nil {
		t.Fatalf("handleLogin: %v", err)
	}
	if !ts.sess.Authenticated() || ts.sess.UserID() != 7 {
		t.Fatalf("session not authenticated as user 7: authed=%v id=%d", ts.sess.Authenticated(), ts.sess.UserID())
	}

	op, r := ts.readFrame(t)
	if op != protocol.SLogged {
		t.Fatalf("first frame opcode = %d, want SLogged", op)
	}
	r.ReadByte() // userClass
	op, r = ts.readFrame(t)
	if op != protocol.SUserCharIndexInServer {
		t.Fatalf("second frame opcode = %d, want SUserCharIndexInServer", op)
	}
	charIndex, _ := r.ReadInt32()
	if charIndex != 7 {
		t.Fatalf("charIndex = %d, want 7", charIndex)
	}
	op, r = ts.readFrame(t)
	if op != protocol.SChangeMap {
		t.Fatalf("third frame opcode = %d, want SChangeMap", op)
	}
	r.ReadInt16() // map number
	r.ReadInt16() // map version
	op, r = ts.readFrame(t)
	if op != protocol.SPosUpdate {
		t.Fatalf("fourth frame opcode = %d, want SPosUpdate", op)
	}
	x, _ := r.ReadInt16()
	y, _ := r.ReadInt16()
	if x != 50 || y != 50 {
		t.Fatalf("pos update = (%d,%d), want (50,50)", x, y)
	}

	if _, ok := d.Index.PlayerPosition(1, 7); !ok {
		t.Fatal("player 7 not added to spatial index for map 1")
	}
}

func TestHandleLogin_BadPassword(t *testing.T) {
	d, _ := newTestHarness(t)
	accounts := d.Accounts.(*fakeAccountRepo)
	accounts.users["hero"] = struct {
		userID   int64
		password string
	}{userID: 7, password: "secret"}

	ts := newTestSession(t)
	w := wire.NewWriter()
	w.WriteString("hero")
	w.WriteString("wrong")

	if err := d.handleLogin(ts.sess, wire.NewReader(w.Bytes())); err != nil {
		t.Fatalf("handleLogin: %v", err)
	}
	if ts.sess.Authenticated() {
		t.Fatal("session should not be authenticated on bad password")
	}
	op, _ := ts.readFrame(t)
	if op != protocol.SErrorMsg {
		t.Fatalf("opcode = %d, want SErrorMsg", op)
	}
}

func TestHandleWalk_Blocked(t *testing.T) {
	d, players := newTestHarness(t)
	players.pos = model.Position{Map: 1, X: 51, Y: 52}
	d.Index.AddPlayer(1, 1, nil, "hero", 51, 52)

	ts := newTestSession(t)
	w := wire.NewWriter()
	w.WriteByte(byte(model.North)) // steps onto the blocked tile at (51,51)

	if err := d.handleWalk(ts.sess, wire.NewReader(w.Bytes())); err != nil {
		t.Fatalf("handleWalk: %v", err)
	}
	if players.pos.X != 51 || players.pos.Y != 52 {
		t.Fatalf("position changed on a blocked step: %+v", players.pos)
	}
	op, r := ts.readFrame(t)
	if op != protocol.SPosUpdate {
		t.Fatalf("opcode = %d, want SPosUpdate (resync)", op)
	}
	x, y, _ := readXY(r)
	if x != 51 || y != 52 {
		t.Fatalf("resync pos = (%d,%d), want (51,52)", x, y)
	}
}

func TestHandleWalk_Success(t *testing.T) {
	d, players := newTestHarness(t)
	players.pos = model.Position{Map: 1, X: 50, Y: 50}
	d.Index.AddPlayer(1, 1, nil, "hero", 50, 50)

	ts := newTestSession(t)
	ts.sess.SetAuthenticated(1, "hero")
	w := wire.NewWriter()
	w.WriteByte(byte(model.East))

	if err := d.handleWalk(ts.sess, wire.NewReader(w.Bytes())); err != nil {
		t.Fatalf("handleWalk: %v", err)
	}
	if players.pos.X != 51 || players.pos.Y != 50 {
		t.Fatalf("position = %+v, want (51,50)", players.pos)
	}
	if players.heading != model.East {
		t.Fatalf("heading = %v, want East", players.heading)
	}
	op, r := ts.readFrame(t)
	if op != protocol.SPosUpdate {
		t.Fatalf("opcode = %d, want SPosUpdate", op)
	}
	x, y, _ := readXY(r)
	if x != 51 || y != 50 {
		t.Fatalf("pos update = (%d,%d), want (51,50)", x, y)
	}
	if pos, ok := d.Index.PlayerPosition(1, 1); !ok || pos.X != 51 {
		t.Fatalf("index not updated: %+v ok=%v", pos, ok)
	}
}

func TestHandlePickUpAndDrop_RoundTrip(t *testing.T) {
	d, players := newTestHarness(t)
	players.pos = model.Position{Map: 1, X: 50, Y: 50}
	d.Items.(*fakeItemCatalog).items[100] = model.ItemDef{ID: 100, Name: "Espada", GRH: 5, Kind: model.ItemKindWeapon}

	d.Ground.Drop(players.pos, 100, 3, 5, 0, time.Now())

	ts := newTestSession(t)
	ts.sess.SetAuthenticated(1, "hero")
	d.Index.AddPlayer(1, 1, sender.New(ts.sess), "hero", 50, 50)
	if err := d.handlePickUp(ts.sess, wire.NewReader(nil)); err != nil {
		t.Fatalf("handlePickUp: %v", err)
	}
	if players.inv[0].ItemID != 100 || players.inv[0].Quantity != 3 {
		t.Fatalf("inventory slot 0 = %+v, want {100 3}", players.inv[0])
	}
	op, r := ts.readFrame(t)
	if op != protocol.SChangeInventorySlot {
		t.Fatalf("opcode = %d, want SChangeInventorySlot", op)
	}
	skipInventorySlot(r)
	op, r = ts.readFrame(t)
	if op != protocol.SObjectDelete {
		t.Fatalf("opcode = %d, want SObjectDelete (tile cleared)", op)
	}
	readXY(r)

	w := wire.NewWriter()
	w.WriteInt16(100)
	w.WriteInt16(2)
	if err := d.handleDrop(ts.sess, wire.NewReader(w.Bytes())); err != nil {
		t.Fatalf("handleDrop: %v", err)
	}
	if players.inv[0].Quantity != 1 {
		t.Fatalf("inventory slot 0 quantity = %d, want 1", players.inv[0].Quantity)
	}
	op, _ = ts.readFrame(t)
	if op != protocol.SChangeInventorySlot {
		t.Fatalf("opcode = %d, want SChangeInventorySlot", op)
	}
	item, ok := d.Ground.First(players.pos)
	if !ok || item.Quantity != 2 {
		t.Fatalf("ground stack = %+v ok=%v, want quantity 2", item, ok)
	}
}

func TestHandlePing(t *testing.T) {
	d, _ := newTestHarness(t)
	ts := newTestSession(t)
	if err := d.handlePing(ts.sess, wire.NewReader(nil)); err != nil {
		t.Fatalf("handlePing: %v", err)
	}
	op, _ := ts.readFrame(t)
	if op != protocol.SPong {
		t.Fatalf("opcode = %d, want SPong", op)
	}
}

func TestHandleMeditate_Toggles(t *testing.T) {
	d, players := newTestHarness(t)
	ts := newTestSession(t)

	if err := d.handleMeditate(ts.sess, wire.NewReader(nil)); err != nil {
		t.Fatalf("handleMeditate: %v", err)
	}
	if !players.meditating {
		t.Fatal("meditating should be true after first toggle")
	}
	op, r := ts.readFrame(t)
	if op != protocol.SMeditateToggle {
		t.Fatalf("opcode = %d, want SMeditateToggle", op)
	}
	on, _ := r.ReadByte()
	if on != 1 {
		t.Fatalf("meditate flag = %d, want 1", on)
	}

	if err := d.handleMeditate(ts.sess, wire.NewReader(nil)); err != nil {
		t.Fatalf("handleMeditate: %v", err)
	}
	if players.meditating {
		t.Fatal("meditating should be false after second toggle")
	}
}

func readXY(r *wire.StreamReader) (int16, int16, error) {
	x, err := r.ReadInt16()
	if err != nil {
		return 0, 0, err
	}
	y, err := r.ReadInt16()
	return x, y, err
}

// skipInventorySlot consumes a CHANGE_INVENTORY_SLOT body in the field
// order the sender writes it.
func skipInventorySlot(r *wire.StreamReader) {
	r.ReadByte()   // slot
	r.ReadInt16()  // item id
	r.ReadString() // name
	r.ReadInt16()  // amount
	r.ReadByte()   // equipped
	r.ReadInt16()  // grh
	r.ReadByte()   // type
	for i := 0; i < 4; i++ {
		r.ReadInt16() // max/min hit, max/min def
	}
	r.ReadFloat32() // sale price
}
