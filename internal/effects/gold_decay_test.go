package effects

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGoldDecayReducesGoldOnInterval(t *testing.T) {
	players := &fakePlayerRepo{gold: 1000}
	config := &fakeConfigSource{floats: map[string]float64{
		"gold_decay.percentage":       10.0,
		"gold_decay.interval_seconds": 1.0,
	}}
	e := NewGoldDecayEffect(players, config)
	snd := &recordingSender{}

	require.NoError(t, e.ApplyToPlayer(context.Background(), 1, snd))

	require.Equal(t, int64(900), players.gold)
	require.Len(t, snd.messages, 1)
}

func TestGoldDecaySkipsBeforeIntervalElapses(t *testing.T) {
	players := &fakePlayerRepo{gold: 1000}
	config := &fakeConfigSource{floats: map[string]float64{
		"gold_decay.percentage":       10.0,
		"gold_decay.interval_seconds": 5.0,
	}}
	e := NewGoldDecayEffect(players, config)

	require.NoError(t, e.ApplyToPlayer(context.Background(), 1, &recordingSender{}))

	require.Equal(t, int64(1000), players.gold)
}

func TestGoldDecayNeverGoesBelowZero(t *testing.T) {
	players := &fakePlayerRepo{gold: 0}
	config := &fakeConfigSource{floats: map[string]float64{"gold_decay.interval_seconds": 1.0}}
	e := NewGoldDecayEffect(players, config)

	require.NoError(t, e.ApplyToPlayer(context.Background(), 1, &recordingSender{}))

	require.Equal(t, int64(0), players.gold)
}

func TestGoldDecayTracksCountersPerUser(t *testing.T) {
	players := &fakePlayerRepo{gold: 1000}
	config := &fakeConfigSource{floats: map[string]float64{"gold_decay.interval_seconds": 2.0}}
	e := NewGoldDecayEffect(players, config)

	require.NoError(t, e.ApplyToPlayer(context.Background(), 7, &recordingSender{}))
	require.Equal(t, int64(1000), players.gold)
	// User 8's first call only advances its own counter.
	require.NoError(t, e.ApplyToPlayer(context.Background(), 8, &recordingSender{}))
	require.Equal(t, int64(1000), players.gold)
	require.NoError(t, e.ApplyToPlayer(context.Background(), 7, &recordingSender{}))
	require.Less(t, players.gold, int64(1000))
}
