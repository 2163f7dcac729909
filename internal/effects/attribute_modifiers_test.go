package effects

import (
	"context"
	"testing"

	"github.com/pyao-go/server/internal/model"
	"github.com/stretchr/testify/require"
)

func TestAttributeModifiersNoopWhileModifierActive(t *testing.T) {
	players := &fakePlayerRepo{strMod: 5, agiMod: 0}
	e := NewAttributeModifiersEffect(players)
	snd := &recordingSender{}

	require.NoError(t, e.ApplyToPlayer(context.Background(), 1, snd))
	require.Equal(t, 0, snd.sdCalls)

	require.NoError(t, e.ApplyToPlayer(context.Background(), 1, snd))
	require.Equal(t, 0, snd.sdCalls)
}

func TestAttributeModifiersNotifiesOnExpiryTransition(t *testing.T) {
	players := &fakePlayerRepo{strMod: 5, attrs: model.Attributes{STR: 18, AGI: 18}}
	e := NewAttributeModifiersEffect(players)
	snd := &recordingSender{}

	require.NoError(t, e.ApplyToPlayer(context.Background(), 1, snd))
	require.Equal(t, 0, snd.sdCalls)

	players.strMod = 0
	require.NoError(t, e.ApplyToPlayer(context.Background(), 1, snd))
	require.Equal(t, 1, snd.sdCalls)
}

func TestAttributeModifiersTracksUsersIndependently(t *testing.T) {
	players := &fakePlayerRepo{strMod: 5}
	e := NewAttributeModifiersEffect(players)
	snd := &recordingSender{}

	require.NoError(t, e.ApplyToPlayer(context.Background(), 1, snd))
	players.strMod = 0
	// User 2 never had a nonzero modifier, so user 1's history must not
	// make its zero reading look like an expiry.
	require.NoError(t, e.ApplyToPlayer(context.Background(), 2, snd))
	require.Equal(t, 0, snd.sdCalls)

	require.NoError(t, e.ApplyToPlayer(context.Background(), 1, snd))
	require.Equal(t, 1, snd.sdCalls)
}
