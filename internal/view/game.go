// Package view is the ebiten debug viewer for the simulation.
package view

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/bug-me-not/internal/game"
)

// borderWidth is the pixel gap between the window edge and the playfield.
const borderWidth = 16

// logPanelHeight is the strip under the playfield that shows the log tail.
const logPanelHeight = 120

// logLines is how many SimLog entries the panel shows.
const logLines = 7

// reportEvery is how often, in ticks, the reporter samples the sim.
const reportEvery = 60

// stateColors maps each cell state to its fill colour.
var stateColors = [...]color.RGBA{
	game.CellOpen:     {R: 34, G: 52, B: 34, A: 255},
	game.CellScaffold: {R: 120, G: 96, B: 60, A: 255},
	game.CellBlocking: {R: 90, G: 86, B: 80, A: 255},
	game.CellAvoid:    {R: 60, G: 110, B: 170, A: 255},
}

var (
	insectColor = color.RGBA{R: 220, G: 60, B: 40, A: 255}
	workerColor = color.RGBA{R: 240, G: 220, B: 90, A: 255}
	pathColor   = color.RGBA{R: 255, G: 120, B: 80, A: 110}
	trapColor   = color.RGBA{R: 200, G: 40, B: 200, A: 255}
	hiveColor   = color.RGBA{R: 150, G: 40, B: 30, A: 90}
	houseColor  = color.RGBA{R: 60, G: 140, B: 220, A: 90}
	gridColor   = color.RGBA{R: 0, G: 0, B: 0, A: 40}
)

// placeKeys binds number keys to the structure they place.
var placeKeys = []struct {
	key  ebiten.Key
	kind game.StructureKind
}{
	{ebiten.Key1, game.StructureScaffold},
	{ebiten.Key2, game.StructureBoulder},
	{ebiten.Key3, game.StructureTrap},
	{ebiten.Key4, game.StructureScraps},
	{ebiten.Key5, game.StructureTower},
}

// speeds are the selectable sim speed multipliers; 0 is paused.
var speeds = []float64{0, 0.5, 1, 2, 4}

// Game implements ebiten.Game around a game.Sim.
type Game struct {
	cfg    game.Config
	seed   int64
	sim    *game.Sim
	logger *slog.Logger

	width  int
	height int
	offX   int
	offY   int

	kind      game.StructureKind
	showPaths bool
	showGrid  bool
	showHUD   bool
	status    string

	// Simulation speed control.
	simSpeed  float64 // multiplier: 0=paused, 0.5, 1, 2, 4
	tickAccum float64 // fractional tick accumulator for sub-1x speeds

	reporter *game.SimReporter
}

// New builds a viewer over a fresh Sim with random terrain.
func New(cfg game.Config, seed int64, logger *slog.Logger) *Game {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Game{
		cfg:       cfg,
		seed:      seed,
		logger:    logger,
		width:     borderWidth*2 + cfg.Grid.WorldWidth,
		height:    borderWidth*2 + cfg.Grid.WorldHeight + logPanelHeight,
		offX:      borderWidth,
		offY:      borderWidth,
		kind:      game.StructureScaffold,
		showPaths: true,
		showHUD:   true,
		simSpeed:  1,
	}
	g.reset()
	return g
}

// reset starts a new Sim from the current seed.
func (g *Game) reset() {
	g.sim = game.NewSim(game.WithConfig(g.cfg), game.WithSeed(g.seed), game.WithTerrain())
	g.sim.SpawnWorker(g.sim.HouseCell())
	g.sim.SpawnWorker(g.sim.HouseCell())
	g.reporter = game.NewSimReporter(0)
	g.status = fmt.Sprintf("seed %d", g.seed)
	g.logger.Info("new sim", "seed", g.seed, "structures", len(g.sim.Structures()))
}

// Sim exposes the running simulation.
func (g *Game) Sim() *game.Sim { return g.sim }

// Size returns the window size the viewer wants.
func (g *Game) Size() (int, int) { return g.width, g.height }

func (g *Game) Update() error {
	// Handle input every frame regardless of sim speed.
	g.handleInput()

	if g.simSpeed <= 0 {
		return nil
	}
	g.tickAccum += g.simSpeed
	for g.tickAccum >= 1.0 {
		g.tickAccum -= 1.0
		g.step()
	}
	return nil
}

// step advances the sim one tick and samples the reporter.
func (g *Game) step() {
	wasLost := g.sim.Lost()
	g.sim.Tick()
	if g.sim.TickCount()%reportEvery == 0 {
		g.reporter.Collect(g.sim)
	}
	if g.sim.Lost() && !wasLost {
		g.status = "house destroyed"
		g.logger.Warn("house destroyed", "tick", g.sim.TickCount(), "stats", fmt.Sprintf("%+v", g.sim.Stats()))
	}
}

// handleInput processes key and mouse presses (edge-triggered).
func (g *Game) handleInput() {
	for _, pk := range placeKeys {
		if inpututil.IsKeyJustPressed(pk.key) {
			g.kind = pk.kind
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyV) {
		g.showPaths = !g.showPaths
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		g.showGrid = !g.showGrid
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyW) {
		g.sim.SpawnWorker(g.sim.HouseCell())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyI) {
		g.sim.SpawnInsect()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.seed++
		g.reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyDump()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		mx, my := ebiten.CursorPosition()
		g.copyAgentReport(mx, my)
	}

	// Sim speed controls: P=pause/resume, ,=slower, .=faster.
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.togglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyComma) {
		g.slower()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPeriod) {
		g.faster()
	}

	mx, my := ebiten.CursorPosition()
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.placeAt(mx, my)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		g.removeAt(mx, my)
	}
}

func (g *Game) togglePause() {
	if g.simSpeed > 0 {
		g.simSpeed = 0
	} else {
		g.simSpeed = 1
	}
}

func (g *Game) slower() {
	for i, s := range speeds {
		if s >= g.simSpeed && i > 0 {
			g.simSpeed = speeds[i-1]
			return
		}
	}
}

func (g *Game) faster() {
	for _, s := range speeds {
		if s > g.simSpeed {
			g.simSpeed = s
			return
		}
	}
}

// cellAt maps a window pixel to a grid cell; ok is false off the playfield.
func (g *Game) cellAt(mx, my int) (game.Cell, bool) {
	c := g.sim.Grid().WorldToCell(mx-g.offX, my-g.offY)
	return c, g.sim.Grid().InBounds(c)
}

func (g *Game) placeAt(mx, my int) {
	c, ok := g.cellAt(mx, my)
	if !ok {
		return
	}
	st, err := g.sim.Place(g.kind, c)
	switch {
	case errors.Is(err, game.ErrNotBuildable):
		g.status = fmt.Sprintf("can't build %s at (%d,%d)", g.kind, c.X, c.Y)
	case err != nil:
		g.status = err.Error()
	default:
		g.status = fmt.Sprintf("placed %s %s", st.Kind(), st.Label())
	}
}

func (g *Game) removeAt(mx, my int) {
	c, ok := g.cellAt(mx, my)
	if !ok {
		return
	}
	if st := g.sim.StructureAt(c); st != nil && g.sim.Remove(st.ID()) {
		g.status = fmt.Sprintf("removed %s %s", st.Kind(), st.Label())
	}
}

func (g *Game) copyDump() {
	if err := clipboard.WriteAll(game.ASCIIDump(g.sim)); err != nil {
		g.status = "clipboard unavailable"
		g.logger.Warn("copy dump", "err", err)
		return
	}
	g.status = "grid copied to clipboard"
}

// agentReport builds the debug report for the agent nearest the pixel.
func (g *Game) agentReport(mx, my int) (string, bool) {
	c, ok := g.cellAt(mx, my)
	if !ok {
		return "", false
	}
	a := g.sim.NearestAgent(c)
	if a == nil {
		return "", false
	}
	return g.sim.DebugReport(a.Label(), 0), true
}

func (g *Game) copyAgentReport(mx, my int) {
	report, ok := g.agentReport(mx, my)
	if !ok {
		g.status = "no agent to report"
		return
	}
	if err := clipboard.WriteAll(report); err != nil {
		g.status = "clipboard unavailable"
		g.logger.Warn("copy agent report", "err", err)
		return
	}
	g.status = "agent report copied to clipboard"
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 12, G: 14, B: 12, A: 255})
	g.drawGrid(screen)
	g.drawStructures(screen)
	if g.showPaths {
		g.drawPaths(screen)
	}
	g.drawAgents(screen)

	ox, oy := float32(g.offX), float32(g.offY)
	vector.StrokeRect(screen, ox-1, oy-1, float32(g.cfg.Grid.WorldWidth)+2, float32(g.cfg.Grid.WorldHeight)+2,
		2.0, color.RGBA{R: 70, G: 100, B: 70, A: 200}, false)

	g.drawHUD(screen)
	g.drawLog(screen)
}

func (g *Game) drawGrid(screen *ebiten.Image) {
	grid := g.sim.Grid()
	cs := float32(grid.CellSize())
	for y := 0; y < grid.Rows(); y++ {
		for x := 0; x < grid.Cols(); x++ {
			px, py := grid.CellToWorld(game.Cell{X: x, Y: y})
			fx, fy := float32(g.offX+px), float32(g.offY+py)
			vector.FillRect(screen, fx, fy, cs, cs, stateColors[grid.At(game.Cell{X: x, Y: y})], false)
			if g.showGrid {
				vector.StrokeRect(screen, fx, fy, cs, cs, 1.0, gridColor, false)
			}
		}
	}

	hive, house := g.sim.BaseZones()
	for _, z := range []struct {
		zone game.Zone
		col  color.RGBA
	}{{hive, hiveColor}, {house, houseColor}} {
		px, py := grid.CellToWorld(game.Cell{X: z.zone.X, Y: z.zone.Y})
		vector.FillRect(screen, float32(g.offX+px), float32(g.offY+py),
			float32(z.zone.W)*cs, float32(z.zone.H)*cs, z.col, false)
	}
}

func (g *Game) drawStructures(screen *ebiten.Image) {
	grid := g.sim.Grid()
	cs := float32(grid.CellSize())
	for _, st := range g.sim.Structures() {
		cx, cy := grid.CellCenter(st.Cell())
		fx, fy := float32(g.offX+cx), float32(g.offY+cy)
		switch st.Kind() {
		case game.StructureTower:
			vector.FillCircle(screen, fx, fy, cs*0.4, color.RGBA{R: 150, G: 200, B: 255, A: 255}, true)
		case game.StructureScaffold:
			// Build progress bar across the bottom of the cell.
			frac := float32(st.Built()) / float32(g.cfg.Sim.BuildTicks)
			vector.FillRect(screen, fx-cs/2, fy+cs/2-3, cs*frac, 3, workerColor, false)
		case game.StructureTrap:
			vector.StrokeLine(screen, fx-cs/3, fy-cs/3, fx+cs/3, fy+cs/3, 2, trapColor, true)
			vector.StrokeLine(screen, fx-cs/3, fy+cs/3, fx+cs/3, fy-cs/3, 2, trapColor, true)
		}
	}
}

func (g *Game) drawPaths(screen *ebiten.Image) {
	grid := g.sim.Grid()
	for _, a := range g.sim.Agents() {
		p := a.Path()
		if len(p) == 0 {
			continue
		}
		x0, y0 := a.Pos()
		for _, c := range p {
			x1, y1 := grid.CellCenter(c)
			vector.StrokeLine(screen, float32(g.offX+x0), float32(g.offY+y0),
				float32(g.offX+x1), float32(g.offY+y1), 1.0, pathColor, false)
			x0, y0 = x1, y1
		}
	}
}

func (g *Game) drawAgents(screen *ebiten.Image) {
	r := float32(g.sim.Grid().CellSize()) * 0.3
	for _, a := range g.sim.Agents() {
		col := insectColor
		if a.Kind() == game.AgentWorker {
			col = workerColor
		}
		x, y := a.Pos()
		vector.FillCircle(screen, float32(g.offX+x), float32(g.offY+y), r, col, true)
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	if !g.showHUD {
		return
	}
	st := g.sim.Stats()
	lines := []string{
		fmt.Sprintf("T=%d  speed=%.1fx  hp=%d  insects=%d  workers=%d",
			g.sim.TickCount(), g.simSpeed, g.sim.HouseHP(), len(g.sim.Insects()), len(g.sim.Workers())),
		fmt.Sprintf("build: %s  [1]scaffold [2]boulder [3]trap [4]scraps [5]tower", g.kind),
		fmt.Sprintf("repairs=%d cleared=%d towers=%d killed=%d  %s",
			st.Repairs, st.Cleared, st.TowersBuilt, st.Killed, g.status),
	}
	for i, l := range lines {
		drawText(screen, l, g.offX+6, g.offY+16+i*14, color.White)
	}
}

func (g *Game) drawLog(screen *ebiten.Image) {
	y := g.offY + g.cfg.Grid.WorldHeight + 18
	drawText(screen, "P pause  ,/. speed  I insect  W worker  V paths  G grid  C copy  R reseed",
		g.offX, y, color.RGBA{R: 160, G: 170, B: 160, A: 255})
	for i, e := range g.sim.Log().Tail(logLines) {
		drawText(screen, e.String(), g.offX, y+16+i*14, color.RGBA{R: 200, G: 200, B: 190, A: 255})
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

// drawText is a small wrapper that uses the classic text.Draw signature.
func drawText(img *ebiten.Image, s string, x, y int, col color.Color) {
	text.Draw(img, s, basicfont.Face7x13, x, y, col)
}
