package view

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/bug-me-not/internal/game"
)

func newTestGame(t *testing.T) *Game {
	t.Helper()
	cfg := game.DefaultConfig()
	cfg.Sim.HiveSpawnEvery = 0
	return New(cfg, 7, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestGame_Size(t *testing.T) {
	g := newTestGame(t)
	w, h := g.Size()
	assert.Equal(t, 800+2*borderWidth, w)
	assert.Equal(t, 500+2*borderWidth+logPanelHeight, h)
	lw, lh := g.Layout(1, 1)
	assert.Equal(t, w, lw)
	assert.Equal(t, h, lh)
}

func TestGame_StartsWithWorkers(t *testing.T) {
	g := newTestGame(t)
	assert.Len(t, g.Sim().Workers(), 2)
}

func TestGame_SpeedSteps(t *testing.T) {
	g := newTestGame(t)
	g.faster()
	assert.Equal(t, 2.0, g.simSpeed)
	g.faster()
	g.faster()
	assert.Equal(t, 4.0, g.simSpeed, "speed caps at the top step")
	g.slower()
	assert.Equal(t, 2.0, g.simSpeed)

	g.togglePause()
	assert.Zero(t, g.simSpeed)
	g.slower()
	assert.Zero(t, g.simSpeed, "slower stays paused")
	g.togglePause()
	assert.Equal(t, 1.0, g.simSpeed)
}

func TestGame_CellAt(t *testing.T) {
	g := newTestGame(t)
	c, ok := g.cellAt(borderWidth+45, borderWidth+21)
	require.True(t, ok)
	assert.Equal(t, game.Cell{X: 2, Y: 1}, c)

	_, ok = g.cellAt(borderWidth-1, borderWidth)
	assert.False(t, ok)
}

func TestGame_PlaceAndRemove(t *testing.T) {
	g := newTestGame(t)
	g.kind = game.StructureTrap

	// Find an open cell outside the bases.
	grid := g.Sim().Grid()
	var target game.Cell
	found := false
	for y := 11; y < 15 && !found; y++ {
		for x := 12; x < 28 && !found; x++ {
			if grid.IsOpen(game.Cell{X: x, Y: y}) {
				target, found = game.Cell{X: x, Y: y}, true
			}
		}
	}
	require.True(t, found)

	px, py := grid.CellCenter(target)
	g.placeAt(px+borderWidth, py+borderWidth)
	st := g.Sim().StructureAt(target)
	require.NotNil(t, st, g.status)
	assert.Equal(t, game.StructureTrap, st.Kind())
	assert.Contains(t, g.status, "placed trap")

	g.placeAt(px+borderWidth, py+borderWidth)
	assert.Contains(t, g.status, "can't build")

	g.removeAt(px+borderWidth, py+borderWidth)
	assert.Nil(t, g.Sim().StructureAt(target))
	assert.True(t, grid.IsOpen(target))
}

func TestGame_StepCollectsReports(t *testing.T) {
	g := newTestGame(t)
	for i := 0; i < reportEvery; i++ {
		g.step()
	}
	require.NotNil(t, g.reporter.Latest())
	assert.Equal(t, reportEvery, g.reporter.Latest().Tick)
}

func TestGame_AgentReport(t *testing.T) {
	g := newTestGame(t)
	px, py := g.Sim().Grid().CellCenter(g.Sim().HouseCell())
	report, ok := g.agentReport(px+borderWidth, py+borderWidth)
	require.True(t, ok)
	assert.Contains(t, report, "agent=W")

	_, ok = g.agentReport(0, 0)
	assert.False(t, ok, "border pixel is off the playfield")
}
