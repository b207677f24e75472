package tui

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/bug-me-not/internal/game"
)

func newTestView(t *testing.T) (*View, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("")
	require.NoError(t, screen.Init())
	screen.SetSize(100, 40)
	t.Cleanup(screen.Fini)

	cfg := game.DefaultConfig()
	cfg.Sim.HiveSpawnEvery = 0
	sim := game.NewSim(game.WithConfig(cfg), game.WithInsect(game.Cell{X: 20, Y: 3}))
	return New(screen, sim), screen
}

func runeAt(s tcell.Screen, x, y int) rune {
	r, _, _, _ := s.GetContent(x, y)
	return r
}

func key(k tcell.Key) *tcell.EventKey { return tcell.NewEventKey(k, 0, tcell.ModNone) }

func keyRune(r rune) *tcell.EventKey { return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone) }

func TestView_DrawsGrid(t *testing.T) {
	v, screen := newTestView(t)
	v.Draw()

	assert.Equal(t, 'H', runeAt(screen, 5, 5))
	assert.Equal(t, 'O', runeAt(screen, 36, 21))
	assert.Equal(t, '+', runeAt(screen, 0, 0), "hive zone")
	assert.Equal(t, 'i', runeAt(screen, 20, 3))
	assert.Equal(t, '.', runeAt(screen, 15, 3))
	assert.Equal(t, 'T', runeAt(screen, 0, 25), "status line")
}

func TestView_PlaceAtCursor(t *testing.T) {
	v, screen := newTestView(t)
	start := v.cursor

	require.True(t, v.HandleEvent(keyRune('2')))
	require.True(t, v.HandleEvent(key(tcell.KeyEnter)))
	assert.Contains(t, v.Status(), "placed")
	assert.True(t, v.sim.Grid().IsBlocking(start))

	v.Draw()
	assert.Equal(t, '#', runeAt(screen, start.X, start.Y))

	require.True(t, v.HandleEvent(key(tcell.KeyEnter)))
	assert.Contains(t, v.Status(), "not buildable")

	require.True(t, v.HandleEvent(keyRune('x')))
	assert.True(t, v.sim.Grid().IsOpen(start))
}

func TestView_CursorStaysInBounds(t *testing.T) {
	v, _ := newTestView(t)
	for i := 0; i < 100; i++ {
		v.HandleEvent(key(tcell.KeyLeft))
		v.HandleEvent(key(tcell.KeyUp))
	}
	assert.Equal(t, game.Cell{X: 0, Y: 0}, v.cursor)
}

func TestView_Keys(t *testing.T) {
	v, _ := newTestView(t)
	assert.True(t, v.HandleEvent(keyRune(' ')))
	assert.True(t, v.Paused())

	before := v.sim.TickCount()
	v.HandleEvent(keyRune('n'))
	assert.Equal(t, before+1, v.sim.TickCount(), "n single-steps")

	v.HandleEvent(keyRune('w'))
	assert.Len(t, v.sim.Workers(), 1)

	assert.False(t, v.HandleEvent(keyRune('q')))
	assert.False(t, v.HandleEvent(key(tcell.KeyEscape)))
}

func TestView_RunStopsOnCancel(t *testing.T) {
	v, _ := newTestView(t)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		v.Run(ctx, time.Millisecond)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Greater(t, v.sim.TickCount(), 0)
}

func TestView_PollerExitsWhenDone(t *testing.T) {
	v, screen := newTestView(t)
	events := make(chan tcell.Event)
	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		v.pollEvents(events, done)
		close(exited)
	}()

	screen.InjectKey(tcell.KeyRune, 'n', tcell.ModNone)
	close(done)
	select {
	case <-exited:
	case <-time.After(2 * time.Second):
		t.Fatal("poller blocked on a send nobody reads")
	}
}
