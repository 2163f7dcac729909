package npcengine

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/pyao-go/server/internal/model"
	"github.com/pyao-go/server/internal/spatial"
	"github.com/pyao-go/server/internal/store"
	"github.com/pyao-go/server/internal/worldmap"
	"github.com/stretchr/testify/require"
)

type fakeNPCRepo struct {
	store.NPCRepo
	nextID  int64
	removed []int64
}

func (f *fakeNPCRepo) CreateNPCInstance(ctx context.Context, npc *model.NPC) (int64, error) {
	f.nextID++
	return f.nextID, nil
}
func (f *fakeNPCRepo) UpdateNPCPosition(ctx context.Context, instanceID int64, pos model.Position, heading model.Heading) error {
	return nil
}
func (f *fakeNPCRepo) RemoveNPC(ctx context.Context, instanceID int64) error {
	f.removed = append(f.removed, instanceID)
	return nil
}
func (f *fakeNPCRepo) ClearAllNPCs(ctx context.Context) error { return nil }

type fakeCatalog struct {
	templates map[int32]Template
}

func (f *fakeCatalog) GetTemplate(id int32) (Template, bool) {
	t, ok := f.templates[id]
	return t, ok
}

type recordingBroadcaster struct {
	created  int
	moved    int
	removed  int
	objects  int
}

func (b *recordingBroadcaster) CharacterCreate(mapID int16, npc *model.NPC) { b.created++ }
func (b *recordingBroadcaster) CharacterMove(mapID int16, npc *model.NPC, oldPos model.Position, headingChanged bool) {
	b.moved++
}
func (b *recordingBroadcaster) CharacterRemove(mapID int16, charIndex int32, pos model.Position) {
	b.removed++
}
func (b *recordingBroadcaster) ObjectCreate(mapID int16, pos model.Position, itemID int32, quantity int16) {
	b.objects++
}

func newTestEngine() (*Engine, *fakeNPCRepo, *fakeCatalog, *recordingBroadcaster) {
	repo := &fakeNPCRepo{}
	catalog := &fakeCatalog{templates: map[int32]Template{
		1: {TemplateID: 1, Name: "Lobo", MaxHP: 20, Level: 1, Hostile: true, Attackable: true, RespawnMin: time.Second, RespawnMax: 2 * time.Second, GoldMin: 1, GoldMax: 5, Experience: 10},
	}}
	broadcaster := &recordingBroadcaster{}
	registry := worldmap.NewRegistry()
	registry.LoadMap(1, 10, 10, flatTiles(10, 10), nil)
	e := NewEngine(repo, nil, spatial.NewIndex(), registry, catalog, broadcaster, rand.New(rand.NewSource(1)))
	return e, repo, catalog, broadcaster
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

func TestSpawnFromConfigAssignsMonotonicCharIndex(t *testing.T) {
	e, _, _, broadcaster := newTestEngine()
	spawns := []SpawnEntry{
		{TemplateID: 1, Map: 1, X: 1, Y: 1, Heading: model.South},
		{TemplateID: 1, Map: 1, X: 2, Y: 2, Heading: model.South},
	}
	require.NoError(t, e.SpawnFromConfig(context.Background(), spawns))
	require.Equal(t, 2, broadcaster.created)

	npcs := e.index.NPCsInMap(1)
	require.Len(t, npcs, 2)
	indexes := map[int32]bool{npcs[0].CharIndex: true, npcs[1].CharIndex: true}
	require.True(t, indexes[10001])
	require.True(t, indexes[10002])
}

func TestMoveNPCUpdatesPositionAndBroadcasts(t *testing.T) {
	e, _, _, broadcaster := newTestEngine()
	require.NoError(t, e.SpawnFromConfig(context.Background(), []SpawnEntry{{TemplateID: 1, Map: 1, X: 1, Y: 1}}))
	npc := e.index.NPCsInMap(1)[0]

	ok, err := e.MoveNPC(context.Background(), npc, 1, 2, model.South)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int16(2), npc.Pos.Y)
	require.Equal(t, 1, broadcaster.moved)
}

func TestMoveNPCBlockedByOccupiedTile(t *testing.T) {
	e, _, _, _ := newTestEngine()
	require.NoError(t, e.SpawnFromConfig(context.Background(), []SpawnEntry{
		{TemplateID: 1, Map: 1, X: 1, Y: 1},
		{TemplateID: 1, Map: 1, X: 1, Y: 2},
	}))
	npcs := e.index.NPCsInMap(1)
	var mover *model.NPC
	for _, n := range npcs {
		if n.Pos.Y == 1 {
			mover = n
		}
	}
	require.NotNil(t, mover)

	ok, err := e.MoveNPC(context.Background(), mover, 1, 2, model.South)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMoveNPCParalyzedCannotMove(t *testing.T) {
	e, _, _, _ := newTestEngine()
	require.NoError(t, e.SpawnFromConfig(context.Background(), []SpawnEntry{{TemplateID: 1, Map: 1, X: 1, Y: 1}}))
	npc := e.index.NPCsInMap(1)[0]
	npc.ParalyzedUntil = time.Now().Add(time.Minute)

	ok, err := e.MoveNPC(context.Background(), npc, 1, 2, model.South)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestHandleNPCDeathSchedulesRespawnAndAwardsExperience(t *testing.T) {
	e, repo, _, broadcaster := newTestEngine()
	require.NoError(t, e.SpawnFromConfig(context.Background(), []SpawnEntry{{TemplateID: 1, Map: 1, X: 1, Y: 1}}))
	npc := e.index.NPCsInMap(1)[0]

	xp, gold, err := e.HandleNPCDeath(context.Background(), npc, 99)
	require.NoError(t, err)
	require.Equal(t, int64(10), xp)
	require.GreaterOrEqual(t, gold, int64(1))
	require.Contains(t, repo.removed, npc.InstanceID)
	require.Equal(t, 1, broadcaster.removed)
	require.Empty(t, e.index.NPCsInMap(1))

	require.NoError(t, e.ProcessRespawns(context.Background(), time.Now().Add(5*time.Second)))
	require.Len(t, e.index.NPCsInMap(1), 1)
}

func TestExpireSummonsRemovesOnlyExpiredPets(t *testing.T) {
	e, _, _, broadcaster := newTestEngine()
	npc, err := e.SpawnSummon(context.Background(), 1, 7, model.Position{Map: 1, X: 3, Y: 3})
	require.NoError(t, err)
	npc.SummonedUntil = time.Now().Add(-time.Second)

	require.NoError(t, e.ExpireSummons(context.Background(), 1, time.Now()))
	require.Empty(t, e.index.NPCsInMap(1))
	require.Equal(t, 1, broadcaster.removed)
}
