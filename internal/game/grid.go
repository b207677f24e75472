package game

// CellState is the occupancy code stored for each grid cell.
type CellState uint8

const (
	CellOpen     CellState = iota // empty, buildable, walkable
	CellScaffold                  // occupied but passable (scaffolds, traps, base zones)
	CellBlocking                  // impassable
	CellAvoid                     // impassable, and repels nearby paths
	cellStateCount                // sentinel
)

func (cs CellState) String() string {
	switch cs {
	case CellOpen:
		return "open"
	case CellScaffold:
		return "scaffold"
	case CellBlocking:
		return "blocking"
	case CellAvoid:
		return "avoid"
	default:
		return "invalid"
	}
}

// Cell is a grid coordinate (column, row).
type Cell struct {
	X, Y int
}

// Add returns the cell offset by (dx, dy).
func (c Cell) Add(dx, dy int) Cell { return Cell{c.X + dx, c.Y + dy} }

// MapGrid stores occupancy for the playfield. Cells are row-major in a flat slice.
type MapGrid struct {
	cols     int
	rows     int
	cellSize int
	cells    []CellState

	emptyRadius int
	avoidRadius int
}

// NewMapGrid creates an all-open grid of cols×rows cells.
func NewMapGrid(cols, rows int, cfg GridConfig) *MapGrid {
	cols = max(cols, 0)
	rows = max(rows, 0)
	return &MapGrid{
		cols:        cols,
		rows:        rows,
		cellSize:    cfg.CellSize,
		cells:       make([]CellState, cols*rows),
		emptyRadius: cfg.EmptyRadius,
		avoidRadius: cfg.AvoidRadius,
	}
}

// NewMapGridForWorld derives the grid size from the world pixel size.
func NewMapGridForWorld(cfg GridConfig) *MapGrid {
	return NewMapGrid(cfg.WorldWidth/cfg.CellSize, cfg.WorldHeight/cfg.CellSize, cfg)
}

func (g *MapGrid) Cols() int     { return g.cols }
func (g *MapGrid) Rows() int     { return g.rows }
func (g *MapGrid) CellSize() int { return g.cellSize }

// InBounds reports whether c lies inside the grid.
func (g *MapGrid) InBounds(c Cell) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < g.cols && c.Y < g.rows
}

func (g *MapGrid) index(c Cell) int { return c.Y*g.cols + c.X }

func (g *MapGrid) cellAt(idx int) Cell { return Cell{idx % g.cols, idx / g.cols} }

// At returns the state of c. Out-of-bounds cells read as CellOpen; pair with
// InBounds when the distinction matters.
func (g *MapGrid) At(c Cell) CellState {
	if !g.InBounds(c) {
		return CellOpen
	}
	return g.cells[g.index(c)]
}

// Set overwrites the state of c. Out-of-bounds cells and unknown states are ignored.
func (g *MapGrid) Set(c Cell, s CellState) {
	if !g.InBounds(c) || s >= cellStateCount {
		return
	}
	g.cells[g.index(c)] = s
}

// Fill sets every in-bounds cell of the w×h rectangle starting at start.
func (g *MapGrid) Fill(start Cell, w, h int, s CellState) {
	for _, c := range g.Group(start, w, h) {
		g.Set(c, s)
	}
}

// Group returns the in-bounds cells of the w×h rectangle starting at start,
// column by column.
func (g *MapGrid) Group(start Cell, w, h int) []Cell {
	var out []Cell
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			c := start.Add(x, y)
			if g.InBounds(c) {
				out = append(out, c)
			}
		}
	}
	return out
}

// IsOpen is true for in-bounds empty cells only.
func (g *MapGrid) IsOpen(c Cell) bool {
	return g.InBounds(c) && g.cells[g.index(c)] == CellOpen
}

// IsBlocking reports the literal blocking state (2). Avoid cells are not included;
// use IsHardBlocking for movement.
func (g *MapGrid) IsBlocking(c Cell) bool {
	return g.InBounds(c) && g.cells[g.index(c)] == CellBlocking
}

// IsHardBlocking reports whether c cannot be walked through. Out-of-bounds is
// always hard-blocking.
func (g *MapGrid) IsHardBlocking(c Cell) bool {
	if !g.InBounds(c) {
		return true
	}
	return g.cells[g.index(c)] >= CellBlocking
}

// EmptyAround reports whether every in-bounds cell within emptyRadius of c is open.
// Used for building placement: structures may not touch each other.
func (g *MapGrid) EmptyAround(c Cell) bool {
	r := g.emptyRadius
	for x := c.X - r; x <= c.X+r; x++ {
		for y := c.Y - r; y <= c.Y+r; y++ {
			n := Cell{x, y}
			if g.InBounds(n) && g.cells[g.index(n)] != CellOpen {
				return false
			}
		}
	}
	return true
}

// ShouldAvoid reports whether any cell within avoidRadius of c is an avoid cell.
func (g *MapGrid) ShouldAvoid(c Cell) bool {
	r := g.avoidRadius
	for x := c.X - r; x <= c.X+r; x++ {
		for y := c.Y - r; y <= c.Y+r; y++ {
			n := Cell{x, y}
			if g.InBounds(n) && g.cells[g.index(n)] == CellAvoid {
				return true
			}
		}
	}
	return false
}

// WorldToCell converts world pixel coordinates to the containing cell.
// Negative pixels floor toward -1 so they stay out of bounds.
func (g *MapGrid) WorldToCell(px, py int) Cell {
	return Cell{floorDiv(px, g.cellSize), floorDiv(py, g.cellSize)}
}

// CellToWorld returns the top-left pixel of c. WorldToCell(CellToWorld(c)) == c.
func (g *MapGrid) CellToWorld(c Cell) (int, int) {
	return c.X * g.cellSize, c.Y * g.cellSize
}

// CellCenter returns the pixel centre of c, the point agents walk to.
func (g *MapGrid) CellCenter(c Cell) (int, int) {
	x, y := g.CellToWorld(c)
	return x + g.cellSize/2, y + g.cellSize/2
}

// Count returns how many cells hold state s.
func (g *MapGrid) Count(s CellState) int {
	n := 0
	for _, v := range g.cells {
		if v == s {
			n++
		}
	}
	return n
}

// Clone returns an independent copy of the grid.
func (g *MapGrid) Clone() *MapGrid {
	cp := *g
	cp.cells = make([]CellState, len(g.cells))
	copy(cp.cells, g.cells)
	return &cp
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
