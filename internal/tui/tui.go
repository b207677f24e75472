// Package tui renders a running simulation in the terminal.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/bug-me-not/internal/game"
)

// logRows is how many log lines are shown under the grid.
const logRows = 6

var (
	styleOpen     = tcell.StyleDefault.Foreground(tcell.ColorDarkGreen)
	styleScaffold = tcell.StyleDefault.Foreground(tcell.ColorOlive)
	styleBlocking = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleAvoid    = tcell.StyleDefault.Foreground(tcell.ColorBlue).Bold(true)
	styleInsect   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleWorker   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleBase     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleTrap     = tcell.StyleDefault.Foreground(tcell.ColorPurple)
	styleText     = tcell.StyleDefault
)

var cellGlyphs = map[game.CellState]struct {
	r     rune
	style tcell.Style
}{
	game.CellOpen:     {'.', styleOpen},
	game.CellScaffold: {'+', styleScaffold},
	game.CellBlocking: {'#', styleBlocking},
	game.CellAvoid:    {'T', styleAvoid},
}

// kindKeys binds rune keys to the structure they place.
var kindKeys = map[rune]game.StructureKind{
	'1': game.StructureScaffold,
	'2': game.StructureBoulder,
	'3': game.StructureTrap,
	'4': game.StructureScraps,
	'5': game.StructureTower,
}

// View draws a Sim onto a tcell screen and maps keys to sim actions.
type View struct {
	screen tcell.Screen
	sim    *game.Sim

	cursor game.Cell
	kind   game.StructureKind
	paused bool
	status string
}

// New wraps an initialised screen.
func New(screen tcell.Screen, sim *game.Sim) *View {
	return &View{
		screen: screen,
		sim:    sim,
		cursor: game.Cell{X: sim.Grid().Cols() / 2, Y: sim.Grid().Rows() / 2},
		kind:   game.StructureScaffold,
	}
}

// Status returns the last action message.
func (v *View) Status() string { return v.status }

// Paused reports whether ticking is suspended.
func (v *View) Paused() bool { return v.paused }

// Draw renders the grid, agents, the status line and the log tail.
func (v *View) Draw() {
	v.screen.Clear()
	grid := v.sim.Grid()
	for y := 0; y < grid.Rows(); y++ {
		for x := 0; x < grid.Cols(); x++ {
			gl := cellGlyphs[grid.At(game.Cell{X: x, Y: y})]
			v.screen.SetContent(x, y, gl.r, nil, gl.style)
		}
	}
	for _, st := range v.sim.Structures() {
		if st.Kind() == game.StructureTrap {
			v.put(st.Cell(), '^', styleTrap)
		}
	}
	v.put(v.sim.HiveCell(), 'H', styleBase)
	v.put(v.sim.HouseCell(), 'O', styleBase)
	for _, a := range v.sim.Agents() {
		if a.Kind() == game.AgentWorker {
			v.put(a.Cell(grid), 'w', styleWorker)
		} else {
			v.put(a.Cell(grid), 'i', styleInsect)
		}
	}
	r, _, st, _ := v.screen.GetContent(v.cursor.X, v.cursor.Y)
	v.screen.SetContent(v.cursor.X, v.cursor.Y, r, nil, st.Reverse(true))

	row := grid.Rows()
	stats := v.sim.Stats()
	v.text(0, row, fmt.Sprintf("T=%d hp=%d insects=%d build=%s repairs=%d %s",
		v.sim.TickCount(), v.sim.HouseHP(), len(v.sim.Insects()), v.kind, stats.Repairs, v.status))
	for i, e := range v.sim.Log().Tail(logRows) {
		v.text(0, row+1+i, e.String())
	}
	v.screen.Show()
}

func (v *View) put(c game.Cell, r rune, style tcell.Style) {
	if v.sim.Grid().InBounds(c) {
		v.screen.SetContent(c.X, c.Y, r, nil, style)
	}
}

func (v *View) text(x, y int, s string) {
	for i, r := range s {
		v.screen.SetContent(x+i, y, r, nil, styleText)
	}
}

// HandleEvent applies one input event. It returns false when the viewer should
// quit.
func (v *View) HandleEvent(ev tcell.Event) bool {
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		if _, resized := ev.(*tcell.EventResize); resized {
			v.screen.Sync()
		}
		return true
	}
	switch key.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		v.moveCursor(0, -1)
	case tcell.KeyDown:
		v.moveCursor(0, 1)
	case tcell.KeyLeft:
		v.moveCursor(-1, 0)
	case tcell.KeyRight:
		v.moveCursor(1, 0)
	case tcell.KeyEnter:
		v.place()
	case tcell.KeyRune:
		return v.handleRune(key.Rune())
	}
	return true
}

func (v *View) handleRune(r rune) bool {
	if k, ok := kindKeys[r]; ok {
		v.kind = k
		return true
	}
	switch r {
	case 'q':
		return false
	case ' ':
		v.paused = !v.paused
	case 'i':
		v.sim.SpawnInsect()
	case 'w':
		v.sim.SpawnWorker(v.sim.HouseCell())
	case 'x':
		if st := v.sim.StructureAt(v.cursor); st != nil && v.sim.Remove(st.ID()) {
			v.status = "removed " + st.Label()
		}
	case 'n':
		v.sim.Tick()
	}
	return true
}

func (v *View) moveCursor(dx, dy int) {
	if c := v.cursor.Add(dx, dy); v.sim.Grid().InBounds(c) {
		v.cursor = c
	}
}

func (v *View) place() {
	st, err := v.sim.Place(v.kind, v.cursor)
	if err != nil {
		v.status = err.Error()
		return
	}
	v.status = "placed " + st.Label()
}

// Run ticks the sim every tickEvery and redraws until ctx is done or the user
// quits.
func (v *View) Run(ctx context.Context, tickEvery time.Duration) {
	ticker := time.NewTicker(tickEvery)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go v.pollEvents(events, done)

	v.Draw()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			if !v.HandleEvent(ev) {
				return
			}
			v.Draw()
		case <-ticker.C:
			if !v.paused {
				v.sim.Tick()
			}
			v.Draw()
		}
	}
}

// pollEvents forwards screen events until the screen is finalised or done is
// closed.
func (v *View) pollEvents(events chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := v.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}
