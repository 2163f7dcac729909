package handler

import (
	"context"

	"github.com/pyao-go/server/internal/model"
	"github.com/pyao-go/server/internal/store"
)

// fakePlayerRepo embeds store.PlayerRepo so only the methods a given test
// actually exercises need a real implementation, same pattern as
// internal/effects' test doubles.
type fakePlayerRepo struct {
	store.PlayerRepo

	pos        model.Position
	heading    model.Heading
	body, head int16
	vitals     model.Vitals
	attrs      model.Attributes
	ht         model.HungerThirst
	meditating bool
	gold       int64
	exp        int64
	inv        [model.MaxInventorySlots]model.InventorySlot
	equip      model.Equipment
}

func (f *fakePlayerRepo) GetPosition(ctx context.Context, userID int64) (model.Position, error) {
	return f.pos, nil
}
func (f *fakePlayerRepo) SetPosition(ctx context.Context, userID int64, pos model.Position) error {
	f.pos = pos
	return nil
}
func (f *fakePlayerRepo) GetHeading(ctx context.Context, userID int64) (model.Heading, error) {
	return f.heading, nil
}
func (f *fakePlayerRepo) SetHeading(ctx context.Context, userID int64, heading model.Heading) error {
	f.heading = heading
	return nil
}
func (f *fakePlayerRepo) GetAppearance(ctx context.Context, userID int64) (int16, int16, error) {
	return f.body, f.head, nil
}
func (f *fakePlayerRepo) GetStats(ctx context.Context, userID int64) (model.Vitals, error) {
	return f.vitals, nil
}
func (f *fakePlayerRepo) SetStats(ctx context.Context, userID int64, v model.Vitals) error {
	f.vitals = v
	return nil
}
func (f *fakePlayerRepo) UpdateHP(ctx context.Context, userID int64, hp int32) error {
	f.vitals.MinHP = int16(hp)
	return nil
}
func (f *fakePlayerRepo) UpdateGold(ctx context.Context, userID int64, delta int64) (int64, error) {
	f.gold += delta
	return f.gold, nil
}
func (f *fakePlayerRepo) UpdateExperience(ctx context.Context, userID int64, delta int64) (int64, error) {
	f.exp += delta
	return f.exp, nil
}
func (f *fakePlayerRepo) GetAttributes(ctx context.Context, userID int64) (model.Attributes, error) {
	return f.attrs, nil
}
func (f *fakePlayerRepo) GetHungerThirst(ctx context.Context, userID int64) (model.HungerThirst, error) {
	return f.ht, nil
}
func (f *fakePlayerRepo) IsMeditating(ctx context.Context, userID int64) (bool, error) {
	return f.meditating, nil
}
func (f *fakePlayerRepo) SetMeditating(ctx context.Context, userID int64, meditating bool) error {
	f.meditating = meditating
	return nil
}
func (f *fakePlayerRepo) GetInventory(ctx context.Context, userID int64) ([model.MaxInventorySlots]model.InventorySlot, error) {
	return f.inv, nil
}
func (f *fakePlayerRepo) SetInventorySlot(ctx context.Context, userID int64, slot byte, item model.InventorySlot) error {
	f.inv[slot] = item
	return nil
}
func (f *fakePlayerRepo) GetEquipment(ctx context.Context, userID int64) (model.Equipment, error) {
	return f.equip, nil
}
func (f *fakePlayerRepo) SetEquipment(ctx context.Context, userID int64, eq model.Equipment) error {
	f.equip = eq
	return nil
}

type fakeAccountRepo struct {
	users map[string]struct {
		userID   int64
		password string
	}
	nextID int64
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{users: map[string]struct {
		userID   int64
		password string
	}{}, nextID: 1}
}

func (f *fakeAccountRepo) Authenticate(ctx context.Context, username, password string) (int64, bool, error) {
	u, ok := f.users[username]
	if !ok || u.password != password {
		return 0, false, nil
	}
	return u.userID, true, nil
}

func (f *fakeAccountRepo) CreateAccount(ctx context.Context, username, password string, p *model.Player) (int64, error) {
	if _, exists := f.users[username]; exists {
		return 0, context.DeadlineExceeded
	}
	id := f.nextID
	f.nextID++
	f.users[username] = struct {
		userID   int64
		password string
	}{userID: id, password: password}
	return id, nil
}

type fakeItemCatalog struct {
	items map[int32]model.ItemDef
}

func (c *fakeItemCatalog) GetItem(itemID int32) (model.ItemDef, bool) {
	d, ok := c.items[itemID]
	return d, ok
}
