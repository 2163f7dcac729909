// Package pathfind implements 4-connected A* over map terrain (spec.md
// §4.5). Ported idiomatically from the original pathfinding service
// (original_source/src/pathfinding_service.py): a binary min-heap open set,
// Manhattan heuristic, depth cap, first-step-only result since NPCAI
// re-plans every tick.
package pathfind

import (
	"container/heap"

	"github.com/pyao-go/server/internal/model"
)

// DefaultMaxDepth is the node-exploration cap used during AI pursuit.
const DefaultMaxDepth = 20

// TerrainChecker reports static walkability, independent of occupancy.
type TerrainChecker interface {
	CanMoveTo(mapID, x, y int16) bool
}

// OccupancyChecker reports whether a tile is currently occupied.
type OccupancyChecker interface {
	IsTileOccupied(mapID, x, y int16) bool
}

type point struct{ x, y int16 }

var directions = [4]struct {
	dx, dy  int16
	heading model.Heading
}{
	{0, -1, model.North},
	{1, 0, model.East},
	{0, 1, model.South},
	{-1, 0, model.West},
}

// Finder computes the next step of a path toward a target, respecting both
// static terrain and live occupancy. The target tile itself may be occupied
// (it is usually the chased player's tile); only its terrain is checked.
type Finder struct {
	terrain   TerrainChecker
	occupancy OccupancyChecker
}

func NewFinder(terrain TerrainChecker, occupancy OccupancyChecker) *Finder {
	return &Finder{terrain: terrain, occupancy: occupancy}
}

func (f *Finder) traversable(mapID, x, y int16) bool {
	return f.terrain.CanMoveTo(mapID, x, y) && !f.occupancy.IsTileOccupied(mapID, x, y)
}

// NextStep returns the next (x, y, heading) toward (targetX, targetY), or
// ok=false if the start equals the target, the target is unreachable, or
// maxDepth nodes were explored with no path found. maxDepth <= 0 uses
// DefaultMaxDepth.
func (f *Finder) NextStep(mapID, startX, startY, targetX, targetY int16, maxDepth int) (nextX, nextY int16, heading model.Heading, ok bool) {
	if startX == targetX && startY == targetY {
		return 0, 0, 0, false
	}
	if !f.terrain.CanMoveTo(mapID, targetX, targetY) {
		return 0, 0, 0, false
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	path := f.astar(mapID, startX, startY, targetX, targetY, maxDepth)
	if len(path) < 2 {
		return 0, 0, 0, false
	}

	next := path[1]
	dx := next.x - startX
	dy := next.y - startY
	switch {
	case dy == -1:
		heading = model.North
	case dx == 1:
		heading = model.East
	case dy == 1:
		heading = model.South
	default:
		heading = model.West
	}
	return next.x, next.y, heading, true
}

func manhattan(x1, y1, x2, y2 int16) int {
	return absInt(int(x1)-int(x2)) + absInt(int(y1)-int(y2))
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// openItem is one entry of the A* open set priority queue.
type openItem struct {
	f, seq int
	p      point
}

type openHeap []openItem

func (h openHeap) Len() int { return len(h) }
func (h openHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].seq < h[j].seq
}
func (h openHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *openHeap) Push(x any)        { *h = append(*h, x.(openItem)) }
func (h *openHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// astar returns the full path from start to target (inclusive), or nil if
// none was found within maxDepth explored nodes.
func (f *Finder) astar(mapID, startX, startY, targetX, targetY int16, maxDepth int) []point {
	start := point{startX, startY}
	target := point{targetX, targetY}

	open := &openHeap{{f: manhattan(startX, startY, targetX, targetY), seq: 0, p: start}}
	heap.Init(open)
	seq := 1

	cameFrom := make(map[point]point)
	gScore := map[point]int{start: 0}
	closed := make(map[point]bool)

	explored := 0
	for open.Len() > 0 {
		cur := heap.Pop(open).(openItem).p
		if cur == target {
			return reconstruct(cameFrom, cur)
		}
		closed[cur] = true
		explored++
		if explored > maxDepth {
			return nil
		}

		for _, d := range directions {
			neighbor := point{cur.x + d.dx, cur.y + d.dy}
			if closed[neighbor] {
				continue
			}
			if neighbor != target && !f.traversable(mapID, neighbor.x, neighbor.y) {
				continue
			}
			tentativeG := gScore[cur] + 1
			if g, seen := gScore[neighbor]; seen && tentativeG >= g {
				continue
			}
			cameFrom[neighbor] = cur
			gScore[neighbor] = tentativeG
			fScore := tentativeG + manhattan(neighbor.x, neighbor.y, targetX, targetY)
			heap.Push(open, openItem{f: fScore, seq: seq, p: neighbor})
			seq++
		}
	}
	return nil
}

func reconstruct(cameFrom map[point]point, current point) []point {
	path := []point{current}
	for {
		prev, ok := cameFrom[current]
		if !ok {
			break
		}
		current = prev
		path = append(path, current)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
