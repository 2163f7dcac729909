package pathfind

import (
	"testing"

	"github.com/pyao-go/server/internal/model"
	"github.com/stretchr/testify/require"
)

type openTerrain struct {
	blocked map[[2]int16]bool
}

func (t *openTerrain) CanMoveTo(mapID, x, y int16) bool {
	if x < 0 || y < 0 || x > 50 || y > 50 {
		return false
	}
	return !t.blocked[[2]int16{x, y}]
}

type noOccupancy struct{}

func (noOccupancy) IsTileOccupied(mapID, x, y int16) bool { return false }

func TestNextStepStraightLine(t *testing.T) {
	f := NewFinder(&openTerrain{blocked: map[[2]int16]bool{}}, noOccupancy{})

	x, y, h, ok := f.NextStep(1, 5, 5, 8, 5, DefaultMaxDepth)
	require.True(t, ok)
	require.Equal(t, int16(6), x)
	require.Equal(t, int16(5), y)
	require.Equal(t, model.East, h)
}

func TestNextStepSameTile(t *testing.T) {
	f := NewFinder(&openTerrain{}, noOccupancy{})
	_, _, _, ok := f.NextStep(1, 5, 5, 5, 5, DefaultMaxDepth)
	require.False(t, ok)
}

func TestNextStepBlockedTarget(t *testing.T) {
	terrain := &openTerrain{blocked: map[[2]int16]bool{{8, 5}: true}}
	f := NewFinder(terrain, noOccupancy{})
	_, _, _, ok := f.NextStep(1, 5, 5, 8, 5, DefaultMaxDepth)
	require.False(t, ok)
}

func TestNextStepAroundWall(t *testing.T) {
	terrain := &openTerrain{blocked: map[[2]int16]bool{
		{6, 4}: true, {6, 5}: true, {6, 6}: true,
	}}
	f := NewFinder(terrain, noOccupancy{})
	x, y, _, ok := f.NextStep(1, 5, 5, 8, 5, DefaultMaxDepth)
	require.True(t, ok)
	require.False(t, x == 6 && y == 5)
}

func TestNextStepDepthCap(t *testing.T) {
	terrain := &openTerrain{blocked: map[[2]int16]bool{}}
	f := NewFinder(terrain, noOccupancy{})
	_, _, _, ok := f.NextStep(1, 0, 0, 49, 49, 3)
	require.False(t, ok)
}
