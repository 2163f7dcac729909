package effects

import (
	"context"
	"testing"
	"time"

	"github.com/pyao-go/server/internal/broadcast"
	"github.com/pyao-go/server/internal/model"
	"github.com/pyao-go/server/internal/spatial"
	"github.com/stretchr/testify/require"
)

func TestMorphExpiryRestoresAppearanceAfterExpiry(t *testing.T) {
	index := spatial.NewIndex()
	snd := &recordingSender{}
	other := &recordingSender{}
	index.AddPlayer(1, 42, snd, "hero", 5, 5)
	index.AddPlayer(1, 43, other, "bystander", 6, 5)
	players := &fakePlayerRepo{
		morph: model.MorphedAppearance{Body: 99, Head: 99, Until: time.Now().Add(-time.Minute)},
		body:  10,
		head:  20,
		pos:   model.Position{Map: 1, X: 5, Y: 5},
	}
	e := NewMorphExpiryEffect(players, index, broadcast.NewBroadcaster(index))

	require.NoError(t, e.ApplyGlobal(context.Background()))

	require.Equal(t, model.MorphedAppearance{}, players.morph)
	require.Equal(t, 1, snd.charChange)
	require.Equal(t, 1, other.charChange)
}

func TestMorphExpirySkipsActiveMorph(t *testing.T) {
	index := spatial.NewIndex()
	snd := &recordingSender{}
	index.AddPlayer(1, 42, snd, "hero", 5, 5)
	players := &fakePlayerRepo{morph: model.MorphedAppearance{Body: 99, Head: 99, Until: time.Now().Add(time.Minute)}}
	e := NewMorphExpiryEffect(players, index, broadcast.NewBroadcaster(index))

	require.NoError(t, e.ApplyGlobal(context.Background()))

	require.Equal(t, int16(99), players.morph.Body)
	require.Equal(t, 0, snd.charChange)
}

func TestMorphExpirySkipsUnmorphedPlayer(t *testing.T) {
	index := spatial.NewIndex()
	snd := &recordingSender{}
	index.AddPlayer(1, 42, snd, "hero", 5, 5)
	players := &fakePlayerRepo{}
	e := NewMorphExpiryEffect(players, index, broadcast.NewBroadcaster(index))

	require.NoError(t, e.ApplyGlobal(context.Background()))

	require.Equal(t, 0, snd.charChange)
}
