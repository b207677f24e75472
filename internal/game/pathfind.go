package game

import (
	"container/heap"
	"math/rand"
)

// Path is an ordered list of cells to walk. It excludes the cell the agent starts
// on and ends at the goal.
type Path []Cell

// Index returns the position of c in the path, or -1.
func (p Path) Index(c Cell) int {
	for i, pc := range p {
		if pc == c {
			return i
		}
	}
	return -1
}

// Contains reports whether c is a waypoint of the path.
func (p Path) Contains(c Cell) bool { return p.Index(c) >= 0 }

// Pop removes the first waypoint.
func (p Path) Pop() Path {
	if len(p) == 0 {
		return p
	}
	return p[1:]
}

// --- search internals ---

type listState uint8

const (
	listNone listState = iota
	listOpen
	listClosed
)

type searchNode struct {
	idx     int
	parent  int // -1 for the start node
	g       int // accumulated move cost
	h       int // heuristic to goal
	penalty int // priority-only surcharge applied when first opened
	f       int // g + h + penalty
	heapIdx int
	list    listState
}

// openList is an indexed min-heap on f. Ties fall back to x then y, matching a
// tuple-ordered heap of (cost, coords).
type openList struct {
	nodes []*searchNode
	cols  int
}

func (ol openList) Len() int { return len(ol.nodes) }
func (ol openList) Less(i, j int) bool {
	a, b := ol.nodes[i], ol.nodes[j]
	if a.f != b.f {
		return a.f < b.f
	}
	ax, bx := a.idx%ol.cols, b.idx%ol.cols
	if ax != bx {
		return ax < bx
	}
	return a.idx/ol.cols < b.idx/ol.cols
}
func (ol openList) Swap(i, j int) {
	ol.nodes[i], ol.nodes[j] = ol.nodes[j], ol.nodes[i]
	ol.nodes[i].heapIdx = i
	ol.nodes[j].heapIdx = j
}
func (ol *openList) Push(x interface{}) {
	n := x.(*searchNode)
	n.heapIdx = len(ol.nodes)
	ol.nodes = append(ol.nodes, n)
}
func (ol *openList) Pop() interface{} {
	old := ol.nodes
	n := old[len(old)-1]
	old[len(old)-1] = nil
	n.heapIdx = -1
	ol.nodes = old[:len(old)-1]
	return n
}

// moveOffset is one neighbour direction with its cost for the current shuffle.
type moveOffset struct {
	dx, dy int
	cost   int
}

var (
	orthogonalDirs = [4][2]int{{0, -1}, {-1, 0}, {1, 0}, {0, 1}}
	diagonalDirs   = [4][2]int{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}}
)

// PathStats counts search work since the finder was created.
type PathStats struct {
	Searches   int
	Found      int
	NotFound   int
	Expansions int
	Grouped    int // searches that drew jitter from a shared group seed
}

// PathFinder searches a MapGrid. It keeps the grouped-seed state between calls,
// so one finder should serve one simulation.
type PathFinder struct {
	grid *MapGrid
	cfg  PathConfig
	rng  *rand.Rand

	groupSeed int64
	groupLeft int

	stats PathStats
}

// NewPathFinder creates a finder over grid. A nil rng gets a fixed seed.
func NewPathFinder(grid *MapGrid, cfg PathConfig, rng *rand.Rand) *PathFinder {
	if rng == nil {
		rng = rand.New(rand.NewSource(1)) // #nosec G404 -- gameplay jitter
	}
	return &PathFinder{grid: grid, cfg: cfg, rng: rng}
}

// Stats returns the cumulative search counters.
func (pf *PathFinder) Stats() PathStats { return pf.stats }

// jitterSource picks the RNG for this call. Occasionally a call starts a group:
// it and the next GroupRun-1 calls all draw from a generator seeded with the same
// group seed, so insects spawned close together wobble the same way.
func (pf *PathFinder) jitterSource() *rand.Rand {
	if pf.groupLeft > 0 {
		pf.groupLeft--
		pf.stats.Grouped++
		return rand.New(rand.NewSource(pf.groupSeed)) // #nosec G404 -- gameplay jitter
	}
	if pf.cfg.GroupChance > 0 && pf.rng.Intn(pf.cfg.GroupChance) == 0 {
		pf.groupSeed++
		pf.groupLeft = pf.cfg.GroupRun - 1
		pf.stats.Grouped++
		return rand.New(rand.NewSource(pf.groupSeed)) // #nosec G404 -- gameplay jitter
	}
	return pf.rng
}

func (pf *PathFinder) offsets(r *rand.Rand, spread int) []moveOffset {
	jitter := func() int {
		if spread <= 0 {
			return 0
		}
		return r.Intn(spread)
	}
	out := make([]moveOffset, 0, 8)
	for _, d := range orthogonalDirs {
		out = append(out, moveOffset{d[0], d[1], pf.cfg.MoveCost + jitter()})
	}
	if pf.cfg.Diagonal {
		for _, d := range diagonalDirs {
			out = append(out, moveOffset{d[0], d[1], pf.cfg.DiagonalCost + jitter()})
		}
	}
	return out
}

func (pf *PathFinder) heuristic(c, end Cell) int {
	return (abs(c.X-end.X) + abs(c.Y-end.Y)) * pf.cfg.HeuristicCost
}

// CalculatePath searches from start to end. The second result is false when no
// path exists; that is an ordinary outcome, not an error. end is always accepted
// as a destination even when it is hard-blocking (hive and house tiles).
//
// avoidTowers adds priority penalties next to structures and avoid markers.
// veryRandom widens the per-direction jitter.
func (pf *PathFinder) CalculatePath(start, end Cell, avoidTowers, veryRandom bool) (Path, bool) {
	g := pf.grid
	pf.stats.Searches++
	if !g.InBounds(start) || !g.InBounds(end) {
		pf.stats.NotFound++
		return nil, false
	}
	if start == end {
		pf.stats.Found++
		return Path{}, true
	}

	spread := pf.cfg.JitterNarrow
	if veryRandom {
		spread = pf.cfg.JitterWide
	}
	r := pf.jitterSource()
	adjacent := pf.offsets(r, spread)

	nodes := make([]searchNode, g.cols*g.rows)
	for i := range nodes {
		nodes[i].idx = i
		nodes[i].parent = -1
		nodes[i].heapIdx = -1
	}
	ol := &openList{cols: g.cols}

	sn := &nodes[g.index(start)]
	sn.h = pf.heuristic(start, end)
	sn.f = -1 // always first out
	sn.list = listOpen
	heap.Push(ol, sn)

	endIdx := g.index(end)
	swap := 0
	for ol.Len() > 0 {
		swap++
		if swap > pf.cfg.ReshuffleEvery {
			swap = 0
			adjacent = pf.offsets(r, spread)
		}

		cur := heap.Pop(ol).(*searchNode)
		if cur.idx == endIdx {
			pf.stats.Found++
			return buildPath(nodes, cur, g), true
		}
		cur.list = listClosed
		pf.stats.Expansions++
		cc := g.cellAt(cur.idx)

		for _, m := range adjacent {
			nc := cc.Add(m.dx, m.dy)
			if !g.InBounds(nc) {
				continue
			}
			ni := g.index(nc)
			if g.cells[ni] >= CellBlocking && ni != endIdx {
				continue
			}
			if m.dx != 0 && m.dy != 0 {
				// No corner-cutting past blocked orthogonals.
				if g.IsHardBlocking(cc.Add(m.dx, 0)) || g.IsHardBlocking(cc.Add(0, m.dy)) {
					continue
				}
			}
			n := &nodes[ni]
			switch n.list {
			case listClosed:
				continue
			case listOpen:
				if ng := cur.g + m.cost; ng < n.g {
					n.g = ng
					n.f = ng + n.h + n.penalty
					n.parent = cur.idx
					heap.Fix(ol, n.heapIdx)
				}
			default:
				n.g = cur.g + m.cost
				n.h = pf.heuristic(nc, end)
				if avoidTowers {
					if !g.EmptyAround(nc) {
						n.penalty += pf.cfg.TowerPenalty
					}
					if g.ShouldAvoid(nc) {
						n.penalty += pf.cfg.AvoidPenalty
					}
				}
				n.f = n.g + n.h + n.penalty
				n.parent = cur.idx
				n.list = listOpen
				heap.Push(ol, n)
			}
		}
	}
	pf.stats.NotFound++
	return nil, false
}

// buildPath walks parent links back to the start and returns the cells after it.
func buildPath(nodes []searchNode, end *searchNode, g *MapGrid) Path {
	var rev Path
	for n := end; n.parent >= 0; n = &nodes[n.parent] {
		rev = append(rev, g.cellAt(n.idx))
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
