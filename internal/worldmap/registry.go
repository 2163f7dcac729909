// Package worldmap owns the static, read-only side of the world: per-map
// terrain grids, resource tiles and border transitions (spec.md §4.4).
// Grounded on the teacher's world map loader shape (load-once at startup,
// serve from an in-memory map keyed by id) but reading a pre-baked JSON
// produced by the out-of-scope map importer instead of the teacher's binary
// map file format.
package worldmap

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pyao-go/server/internal/model"
)

// mapData is one loaded map's static terrain.
type mapData struct {
	Width       int16
	Height      int16
	Tiles       [][]model.Tile // [y][x]
	Transitions map[model.Edge]model.Transition
}

// Registry serves MapRegistry queries over the set of loaded maps. Maps are
// loaded once at startup and never mutated afterward, so lookups take no
// lock — only the mutable occupancy layer (internal/spatial) needs one.
type Registry struct {
	maps map[int16]*mapData
}

// NewRegistry builds an empty Registry. Call LoadDir to populate it.
func NewRegistry() *Registry {
	return &Registry{maps: make(map[int16]*mapData)}
}

// mapFile is the on-disk shape produced by the (out-of-scope) map importer.
type mapFile struct {
	ID     int16 `json:"id"`
	Width  int16 `json:"width"`
	Height int16 `json:"height"`
	Tiles  []struct {
		X             int16           `json:"x"`
		Y             int16           `json:"y"`
		GroundGraphic int16           `json:"ground_graphic"`
		ObjectGraphic int16           `json:"object_graphic"`
		Walkable      bool            `json:"walkable"`
		Class         model.TileClass `json:"class"`
	} `json:"tiles"`
	Transitions []struct {
		Edge  model.Edge `json:"edge"`
		ToMap int16      `json:"to_map"`
		ToX   int16      `json:"to_x"`
		ToY   int16      `json:"to_y"`
	} `json:"transitions"`
}

// LoadDir reads every *.json file in dir as a mapFile and registers it.
func (r *Registry) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("worldmap: read dir %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return fmt.Errorf("worldmap: read %s: %w", e.Name(), err)
		}
		var mf mapFile
		if err := json.Unmarshal(raw, &mf); err != nil {
			return fmt.Errorf("worldmap: parse %s: %w", e.Name(), err)
		}
		r.loadOne(mf)
	}
	return nil
}

func (r *Registry) loadOne(mf mapFile) {
	md := &mapData{
		Width:       mf.Width,
		Height:      mf.Height,
		Tiles:       make([][]model.Tile, mf.Height),
		Transitions: make(map[model.Edge]model.Transition, len(mf.Transitions)),
	}
	for y := range md.Tiles {
		md.Tiles[y] = make([]model.Tile, mf.Width)
	}
	for _, t := range mf.Tiles {
		if t.Y < 0 || int(t.Y) >= len(md.Tiles) || t.X < 0 || int(t.X) >= int(mf.Width) {
			continue
		}
		md.Tiles[t.Y][t.X] = model.Tile{
			GroundGraphic: t.GroundGraphic,
			ObjectGraphic: t.ObjectGraphic,
			Walkable:      t.Walkable,
			Class:         t.Class,
		}
	}
	for _, tr := range mf.Transitions {
		md.Transitions[tr.Edge] = model.Transition{ToMap: tr.ToMap, ToX: tr.ToX, ToY: tr.ToY}
	}
	r.maps[mf.ID] = md
}

// LoadMap registers an already-built map, for tests and programmatic setup.
func (r *Registry) LoadMap(id int16, width, height int16, tiles [][]model.Tile, transitions map[model.Edge]model.Transition) {
	r.maps[id] = &mapData{Width: width, Height: height, Tiles: tiles, Transitions: transitions}
}

func (r *Registry) tile(mapID, x, y int16) (model.Tile, bool) {
	md, ok := r.maps[mapID]
	if !ok {
		return model.Tile{}, false
	}
	if x < 0 || y < 0 || int(x) >= int(md.Width) || int(y) >= int(md.Height) {
		return model.Tile{}, false
	}
	return md.Tiles[y][x], true
}

// CanMoveTo reports whether (x,y) on mapID is walkable terrain. Unknown
// maps or out-of-bounds coordinates are never walkable.
func (r *Registry) CanMoveTo(mapID, x, y int16) bool {
	t, ok := r.tile(mapID, x, y)
	return ok && t.Walkable
}

// Classify returns the tile class tag at (x,y), or ClassBlocked if the
// coordinate does not exist.
func (r *Registry) Classify(mapID, x, y int16) model.TileClass {
	t, ok := r.tile(mapID, x, y)
	if !ok {
		return model.ClassBlocked
	}
	return t.Class
}

// Transition returns the destination for crossing edge on mapID, if one is
// configured.
func (r *Registry) Transition(mapID int16, edge model.Edge) (model.Transition, bool) {
	md, ok := r.maps[mapID]
	if !ok {
		return model.Transition{}, false
	}
	tr, ok := md.Transitions[edge]
	return tr, ok
}

// IsBorder reports whether (x,y) sits on mapID's edge side.
func (r *Registry) IsBorder(mapID, x, y int16, edge model.Edge) bool {
	md, ok := r.maps[mapID]
	if !ok {
		return false
	}
	switch edge {
	case model.EdgeNorth:
		return y == 0
	case model.EdgeSouth:
		return y == md.Height-1
	case model.EdgeWest:
		return x == 0
	case model.EdgeEast:
		return x == md.Width-1
	default:
		return false
	}
}

// Dimensions returns the width/height of mapID, or (0,0,false) if unknown.
func (r *Registry) Dimensions(mapID int16) (width, height int16, ok bool) {
	md, found := r.maps[mapID]
	if !found {
		return 0, 0, false
	}
	return md.Width, md.Height, true
}
