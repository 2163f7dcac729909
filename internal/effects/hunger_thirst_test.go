package effects

import (
	"context"
	"testing"

	"github.com/pyao-go/server/internal/model"
	"github.com/stretchr/testify/require"
)

func TestHungerThirstDrainsOnConfiguredInterval(t *testing.T) {
	players := &fakePlayerRepo{ht: model.HungerThirst{MaxWater: 100, MinWater: 100, MaxHunger: 100, MinHunger: 100, WaterCounter: 2, HungerCounter: 2}}
	config := &fakeConfigSource{ints: map[string]int64{
		"hunger_thirst.interval_sed":    3,
		"hunger_thirst.interval_hambre": 3,
	}}
	e := NewHungerThirstEffect(players, config)
	snd := &recordingSender{}

	require.NoError(t, e.ApplyToPlayer(context.Background(), 1, snd))

	require.Equal(t, int16(90), players.ht.MinWater)
	require.Equal(t, int16(90), players.ht.MinHunger)
	require.Equal(t, 1, snd.htCalls)
}

func TestHungerThirstSkipsUntilIntervalReached(t *testing.T) {
	players := &fakePlayerRepo{ht: model.HungerThirst{MaxWater: 100, MinWater: 100, MaxHunger: 100, MinHunger: 100}}
	config := &fakeConfigSource{ints: map[string]int64{
		"hunger_thirst.interval_sed":    180,
		"hunger_thirst.interval_hambre": 180,
	}}
	e := NewHungerThirstEffect(players, config)
	snd := &recordingSender{}

	require.NoError(t, e.ApplyToPlayer(context.Background(), 1, snd))

	require.Equal(t, int16(100), players.ht.MinWater)
	require.Equal(t, 0, snd.htCalls)
}

func TestHungerThirstSetsFlagsAtZero(t *testing.T) {
	players := &fakePlayerRepo{ht: model.HungerThirst{MaxWater: 100, MinWater: 5, MaxHunger: 100, MinHunger: 100, WaterCounter: 1}}
	config := &fakeConfigSource{ints: map[string]int64{"hunger_thirst.interval_sed": 2, "hunger_thirst.reduccion_agua": 10}}
	e := NewHungerThirstEffect(players, config)

	require.NoError(t, e.ApplyToPlayer(context.Background(), 1, &recordingSender{}))

	require.Equal(t, int16(0), players.ht.MinWater)
	require.True(t, players.ht.ThirstFlag)
}
