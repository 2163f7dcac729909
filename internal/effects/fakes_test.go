package effects

import (
	"context"
	"time"

	"github.com/pyao-go/server/internal/model"
	"github.com/pyao-go/server/internal/sender"
	"github.com/pyao-go/server/internal/store"
)

type fakePlayerRepo struct {
	store.PlayerRepo

	vitals      model.Vitals
	attrs       model.Attributes
	pos         model.Position
	ht          model.HungerThirst
	poisonedUntil time.Time
	alive       bool
	meditating  bool
	strMod      int32
	agiMod      int32
	morph       model.MorphedAppearance
	body, head  int16
	heading     model.Heading
	gold        int64
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
func (f *fakePlayerRepo) UpdateMana(ctx context.Context, userID int64, mana int32) error {
	f.vitals.MinMana = int16(mana)
	return nil
}
func (f *fakePlayerRepo) UpdateGold(ctx context.Context, userID int64, delta int64) (int64, error) {
	f.gold += delta
	if f.gold < 0 {
		f.gold = 0
	}
	return f.gold, nil
}
func (f *fakePlayerRepo) GetPosition(ctx context.Context, userID int64) (model.Position, error) {
	return f.pos, nil
}
func (f *fakePlayerRepo) GetAppearance(ctx context.Context, userID int64) (int16, int16, error) {
	return f.body, f.head, nil
}
func (f *fakePlayerRepo) GetHeading(ctx context.Context, userID int64) (model.Heading, error) {
	return f.heading, nil
}
func (f *fakePlayerRepo) GetAttributes(ctx context.Context, userID int64) (model.Attributes, error) {
	return f.attrs, nil
}
func (f *fakePlayerRepo) GetHungerThirst(ctx context.Context, userID int64) (model.HungerThirst, error) {
	return f.ht, nil
}
func (f *fakePlayerRepo) SetHungerThirst(ctx context.Context, userID int64, ht model.HungerThirst) error {
	f.ht = ht
	return nil
}
func (f *fakePlayerRepo) GetPoisonedUntil(ctx context.Context, userID int64) (time.Time, error) {
	return f.poisonedUntil, nil
}
func (f *fakePlayerRepo) UpdatePoisonedUntil(ctx context.Context, userID int64, until time.Time) error {
	f.poisonedUntil = until
	return nil
}
func (f *fakePlayerRepo) IsAlive(ctx context.Context, userID int64) (bool, error) {
	return f.alive, nil
}
func (f *fakePlayerRepo) IsMeditating(ctx context.Context, userID int64) (bool, error) {
	return f.meditating, nil
}
func (f *fakePlayerRepo) SetMeditating(ctx context.Context, userID int64, meditating bool) error {
	f.meditating = meditating
	return nil
}
func (f *fakePlayerRepo) GetStrengthModifier(ctx context.Context, userID int64) (int32, error) {
	return f.strMod, nil
}
func (f *fakePlayerRepo) SetStrengthModifier(ctx context.Context, userID int64, value int32, expires time.Time) error {
	f.strMod = value
	return nil
}
func (f *fakePlayerRepo) GetAgilityModifier(ctx context.Context, userID int64) (int32, error) {
	return f.agiMod, nil
}
func (f *fakePlayerRepo) SetAgilityModifier(ctx context.Context, userID int64, value int32, expires time.Time) error {
	f.agiMod = value
	return nil
}
func (f *fakePlayerRepo) GetMorphedAppearance(ctx context.Context, userID int64) (model.MorphedAppearance, error) {
	return f.morph, nil
}
func (f *fakePlayerRepo) ClearMorphedAppearance(ctx context.Context, userID int64) error {
	f.morph = model.MorphedAppearance{}
	return nil
}

type fakeNPCRepo struct {
	store.NPCRepo
	lastHP          int32
	lastPoisonUntil time.Time
}

func (f *fakeNPCRepo) UpdateNPCHp(ctx context.Context, instanceID int64, hp int32) error {
	f.lastHP = hp
	return nil
}
func (f *fakeNPCRepo) UpdateNPCPoisonedUntil(ctx context.Context, instanceID int64, until time.Time) error {
	f.lastPoisonUntil = until
	return nil
}

type fakeConfigSource struct {
	ints   map[string]int64
	floats map[string]float64
}

func (f *fakeConfigSource) GetEffectConfigInt(ctx context.Context, key string, def int64) (int64, error) {
	if v, ok := f.ints[key]; ok {
		return v, nil
	}
	return def, nil
}
func (f *fakeConfigSource) GetEffectConfigFloat(ctx context.Context, key string, def float64) (float64, error) {
	if v, ok := f.floats[key]; ok {
		return v, nil
	}
	return def, nil
}

type fakeDeathHandler struct {
	called       bool
	killerUserID int64
}

func (f *fakeDeathHandler) HandleNPCDeath(ctx context.Context, npc *model.NPC, killerUserID int64) (int64, int64, error) {
	f.called = true
	f.killerUserID = killerUserID
	return 0, 0, nil
}

type fakeMover struct {
	calls int
	npc   *model.NPC
	x, y  int16
}

func (f *fakeMover) MoveNPC(ctx context.Context, npc *model.NPC, newX, newY int16, heading model.Heading) (bool, error) {
	f.calls++
	f.npc = npc
	f.x, f.y = newX, newY
	npc.Pos.X, npc.Pos.Y, npc.Heading = newX, newY, heading
	return true, nil
}

type fakeAITicker struct {
	ticked []int16
}

func (f *fakeAITicker) Tick(ctx context.Context, mapID int16) error {
	f.ticked = append(f.ticked, mapID)
	return nil
}

type fakeSummonExpirer struct {
	expired []int16
}

func (f *fakeSummonExpirer) ExpireSummons(ctx context.Context, mapID int16, now time.Time) error {
	f.expired = append(f.expired, mapID)
	return nil
}

type fakeRespawner struct {
	calls int
}

func (f *fakeRespawner) ProcessRespawns(ctx context.Context, now time.Time) error {
	f.calls++
	return nil
}

type recordingSender struct {
	sender.MessageSender
	messages   []string
	hp         int16
	mana       int16
	sta        int16
	meditating *bool
	htCalls    int
	sdCalls    int
	charChange int
}

func (s *recordingSender) ConsoleMsg(message string, color byte) { s.messages = append(s.messages, message) }
func (s *recordingSender) UpdateHP(hp int16)                     { s.hp = hp }
func (s *recordingSender) UpdateMana(mana int16)                 { s.mana = mana }
func (s *recordingSender) UpdateSta(sta int16)                   { s.sta = sta }
func (s *recordingSender) MeditateToggle(meditating bool)        { s.meditating = &meditating }
func (s *recordingSender) UpdateHungerAndThirst(maxWater, minWater, maxHunger, minHunger byte) {
	s.htCalls++
}
func (s *recordingSender) UpdateStrAndDex(str, agi byte) { s.sdCalls++ }
func (s *recordingSender) CharacterChange(charIndex int32, body, head int16, heading model.Heading, weapon, shield, helmet, fx, loops int16) {
	s.charChange++
}

func flatTiles(w, h int16) [][]model.Tile {
	tiles := make([][]model.Tile, h)
	for y := range tiles {
		tiles[y] = make([]model.Tile, w)
		for x := range tiles[y] {
			tiles[y][x] = model.Tile{Walkable: true}
		}
	}
	return tiles
}
