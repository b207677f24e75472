package game

import (
	"math/rand"
	"testing"
)

func TestGenerateTerrain_CountsAndStates(t *testing.T) {
	g := newTestGrid(40, 25)
	cfg := DefaultConfig().Terrain
	obs := GenerateTerrain(g, rand.New(rand.NewSource(5)), cfg, nil) // #nosec G404 -- test

	boulders, scraps := 0, 0
	for _, o := range obs {
		switch o.Kind {
		case StructureBoulder:
			boulders++
		case StructureScraps:
			scraps++
		default:
			t.Fatalf("unexpected obstacle kind %v", o.Kind)
		}
		if !g.IsBlocking(o.Cell) {
			t.Fatalf("obstacle at %v should block", o.Cell)
		}
	}
	if boulders < cfg.BlockingMin/4*3 || boulders > cfg.BlockingMax {
		t.Fatalf("boulder count %d outside [%d,%d]", boulders, cfg.BlockingMin/4*3, cfg.BlockingMax)
	}
	if scraps > cfg.Scraps {
		t.Fatalf("placed %d scraps, max %d", scraps, cfg.Scraps)
	}
	if g.Count(CellBlocking) != len(obs) {
		t.Fatalf("grid has %d blocking cells for %d obstacles", g.Count(CellBlocking), len(obs))
	}
}

func TestGenerateTerrain_SkipsBases(t *testing.T) {
	g := newTestGrid(40, 25)
	skip := func(c Cell) bool { return c.X < 10 && c.Y >= 15 }
	for seed := int64(1); seed <= 5; seed++ {
		for _, o := range GenerateTerrain(g.Clone(), rand.New(rand.NewSource(seed)), DefaultConfig().Terrain, skip) { // #nosec G404 -- test
			if skip(o.Cell) {
				t.Fatalf("seed %d placed %v inside the skipped zone", seed, o.Cell)
			}
		}
	}
}

func TestGenerateTerrain_ScrapsHaveClearance(t *testing.T) {
	g := newTestGrid(40, 25)
	cfg := DefaultConfig().Terrain
	cfg.BlockingMin, cfg.BlockingMax = 0, 0
	obs := GenerateTerrain(g, rand.New(rand.NewSource(8)), cfg, nil) // #nosec G404 -- test
	for i, o := range obs {
		g.Set(o.Cell, CellOpen)
		if !g.EmptyAround(o.Cell) {
			t.Fatalf("scrap %d at %v touches another obstacle", i, o.Cell)
		}
		g.Set(o.Cell, CellBlocking)
	}
}

func TestGenerateTerrain_AttemptCap(t *testing.T) {
	g := newTestGrid(40, 25)
	g.Fill(Cell{0, 0}, 40, 25, CellScaffold)
	cfg := DefaultConfig().Terrain
	cfg.BlockingMin, cfg.BlockingMax = 0, 0
	if obs := GenerateTerrain(g, rand.New(rand.NewSource(1)), cfg, nil); len(obs) != 0 { // #nosec G404 -- test
		t.Fatalf("full grid should yield no scraps, got %d", len(obs))
	}
}
