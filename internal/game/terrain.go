package game

import "math/rand"

// Obstacle is one piece of generated terrain.
type Obstacle struct {
	Kind StructureKind
	Cell Cell
}

// GenerateTerrain scatters boulders over the corners away from the bases and a
// jittered middle patch, optionally with a fourth "bridge" patch that links the
// middle to one corner, then drops scraps on cells with a clear neighbourhood.
// Cells for which skip returns true are left alone. The grid is updated and the
// placed obstacles are returned.
func GenerateTerrain(g *MapGrid, rng *rand.Rand, cfg TerrainConfig, skip func(Cell) bool) []Obstacle {
	if skip == nil {
		skip = func(Cell) bool { return false }
	}
	cols, rows := g.Cols(), g.Rows()

	groups := [][]Cell{
		g.Group(Cell{cols - 10, 0}, 10, 10),
		g.Group(Cell{0, rows - 10}, 10, 10),
		g.Group(Cell{cols/2 - 5 + rng.Intn(11) - 5, rows/2 - 5 - (rng.Intn(11) - 5)}, 5, 5),
	}
	switch rng.Intn(3) {
	case 1:
		groups = append(groups, g.Group(Cell{10, rows - 20}, 15, 15))
	case 2:
		groups = append(groups, g.Group(Cell{cols - 20, 10}, 15, 15))
	}

	blocking := cfg.BlockingMin
	if cfg.BlockingMax > cfg.BlockingMin {
		blocking += rng.Intn(cfg.BlockingMax - cfg.BlockingMin + 1)
	}
	per := blocking / len(groups)

	var out []Obstacle
	for i := range groups {
		groups[i] = filterCells(groups[i], func(c Cell) bool { return !skip(c) && g.IsOpen(c) })
	}
	for n := 0; n < per; n++ {
		for i := range groups {
			// Groups can overlap, so a cell may already be taken.
			for len(groups[i]) > 0 {
				k := rng.Intn(len(groups[i]))
				c := groups[i][k]
				groups[i] = append(groups[i][:k], groups[i][k+1:]...)
				if !g.IsOpen(c) {
					continue
				}
				g.Set(c, StructureBoulder.State())
				out = append(out, Obstacle{StructureBoulder, c})
				break
			}
		}
	}

	placed := 0
	for tries := 0; placed < cfg.Scraps && tries < cfg.MaxAttempts; tries++ {
		var c Cell
		if rng.Intn(3) != 0 {
			c = Cell{rng.Intn(max(cols, 1)), rng.Intn(max(rows, 1))}
		} else {
			c = Cell{rng.Intn(5) + cols/2 + 3, rng.Intn(5) + rows/2 + 3}
		}
		if !g.InBounds(c) || skip(c) || !g.EmptyAround(c) {
			continue
		}
		g.Set(c, StructureScraps.State())
		out = append(out, Obstacle{StructureScraps, c})
		placed++
	}
	return out
}

func filterCells(cells []Cell, keep func(Cell) bool) []Cell {
	out := cells[:0]
	for _, c := range cells {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}
