package game

import (
	"fmt"
	"math/rand"
)

// SimStats are the per-run counters the report aggregates.
type SimStats struct {
	Spawned      int // insects spawned
	Arrived      int // insects that reached the house
	Killed       int // insects killed by traps
	Repairs      int // paths patched in place
	Cleared      int // paths dropped because the block hit an end waypoint
	TowersBuilt  int
	Paths        int // successful searches that produced a walkable path
	PathCells    int // total waypoints over those paths
	PathFailures int
}

// MeanPathLen is the average waypoint count of found paths.
func (st SimStats) MeanPathLen() float64 {
	if st.Paths == 0 {
		return 0
	}
	return float64(st.PathCells) / float64(st.Paths)
}

// Sim is the tick-driven simulation: one grid, one path finder, the agents and
// structures on it. It is not safe for concurrent use.
type Sim struct {
	cfg     Config
	cols    int
	rows    int
	grid    *MapGrid
	finder  *PathFinder
	targets *TargetRegistry
	log     *SimLog
	rng     *rand.Rand

	agents     []*Agent
	structures []*Structure

	tick       int
	nextAgent  int
	nextStruct int
	spawnTimer int

	hiveZone  Zone
	houseZone Zone
	hiveCell  Cell
	houseCell Cell
	houseHP   int
	lost      bool
	noBases   bool

	stats SimStats

	blocked []blockedRect
	terrain bool
}

type blockedRect struct {
	x, y, w, h int
	state      CellState
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra   simOptionKind = iota // config, map size, seed, verbose
	simOptTerrain                      // obstacles, applied after the grid exists
	simOptAgent                        // agents, applied after terrain
)

// SimOption is a builder function applied to a Sim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*Sim)
}

// WithConfig replaces the tuning set. Apply it before WithMapSize.
func WithConfig(cfg Config) SimOption {
	return SimOption{simOptInfra, func(s *Sim) {
		s.cfg = cfg
		s.cols = cfg.Grid.WorldWidth / cfg.Grid.CellSize
		s.rows = cfg.Grid.WorldHeight / cfg.Grid.CellSize
	}}
}

// WithMapSize sets the grid dimensions in cells.
func WithMapSize(cols, rows int) SimOption {
	return SimOption{simOptInfra, func(s *Sim) {
		s.cols = cols
		s.rows = rows
	}}
}

// WithSeed sets the RNG seed for deterministic runs. Seed 0 is treated as 1.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(s *Sim) {
		s.rng = newRand(seed)
	}}
}

// WithVerbose enables per-tick movement logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(s *Sim) {
		s.log = NewSimLog(v)
	}}
}

// WithoutBaseZones leaves the hive and house zones unmarked, for tests that
// want a bare grid.
func WithoutBaseZones() SimOption {
	return SimOption{simOptInfra, func(s *Sim) {
		s.noBases = true
	}}
}

// WithBlocked fills a rectangle of cells with state.
func WithBlocked(x, y, w, h int, state CellState) SimOption {
	return SimOption{simOptTerrain, func(s *Sim) {
		s.blocked = append(s.blocked, blockedRect{x, y, w, h, state})
	}}
}

// WithTerrain scatters random boulders and scraps.
func WithTerrain() SimOption {
	return SimOption{simOptTerrain, func(s *Sim) {
		s.terrain = true
	}}
}

// WithInsect adds an insect standing at the centre of c.
func WithInsect(c Cell) SimOption {
	return SimOption{simOptAgent, func(s *Sim) {
		s.spawnAt(AgentInsect, c)
	}}
}

// WithWorker adds a worker standing at the centre of c.
func WithWorker(c Cell) SimOption {
	return SimOption{simOptAgent, func(s *Sim) {
		s.spawnAt(AgentWorker, c)
	}}
}

// NewSim constructs a Sim from the given options in ordered passes:
//  1. Infrastructure (config, map size, seed, verbose)
//  2. Grid, base zones, then terrain and blocked rectangles
//  3. Agents
func NewSim(opts ...SimOption) *Sim {
	cfg := DefaultConfig()
	s := &Sim{
		cfg:     cfg,
		cols:    cfg.Grid.WorldWidth / cfg.Grid.CellSize,
		rows:    cfg.Grid.WorldHeight / cfg.Grid.CellSize,
		log:     NewSimLog(false),
		rng:     newRand(1),
		targets: NewTargetRegistry(),
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(s)
		}
	}

	s.grid = NewMapGrid(s.cols, s.rows, s.cfg.Grid)
	s.finder = NewPathFinder(s.grid, s.cfg.Path, rand.New(rand.NewSource(s.rng.Int63()))) // #nosec G404 -- gameplay jitter
	s.houseHP = s.cfg.Sim.HouseHP
	s.layoutBases()

	for _, o := range opts {
		if o.kind == simOptTerrain {
			o.fn(s)
		}
	}
	if s.terrain {
		for _, o := range GenerateTerrain(s.grid, s.rng, s.cfg.Terrain, s.inBase) {
			s.adopt(o.Kind, o.Cell)
		}
	}
	for _, b := range s.blocked {
		s.grid.Fill(Cell{b.x, b.y}, b.w, b.h, b.state)
	}

	for _, o := range opts {
		if o.kind == simOptAgent {
			o.fn(s)
		}
	}
	return s
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = 1
	}
	return rand.New(rand.NewSource(seed)) // #nosec G404 -- deterministic simulation
}

// layoutBases places the hive in the top-left corner and the house in the
// bottom-right. Both zones are passable and never buildable.
func (s *Sim) layoutBases() {
	hz := s.cfg.Sim.HiveZone
	s.hiveZone = hz
	s.hiveCell = Cell{hz.X + hz.W/2, hz.Y + hz.H/2}

	oz := s.cfg.Sim.HouseZone
	s.houseZone = Zone{X: s.cols - oz.X, Y: s.rows - oz.Y, W: oz.W, H: oz.H}
	s.houseCell = Cell{s.houseZone.X + oz.W/2, s.houseZone.Y + oz.H/2}

	if s.noBases {
		s.hiveZone = Zone{}
		s.houseZone = Zone{}
		return
	}
	s.grid.Fill(Cell{s.hiveZone.X, s.hiveZone.Y}, s.hiveZone.W, s.hiveZone.H, CellScaffold)
	s.grid.Fill(Cell{s.houseZone.X, s.houseZone.Y}, s.houseZone.W, s.houseZone.H, CellScaffold)
}

func (s *Sim) inBase(c Cell) bool {
	return inZone(s.hiveZone, c) || inZone(s.houseZone, c)
}

func inZone(z Zone, c Cell) bool {
	return c.X >= z.X && c.X < z.X+z.W && c.Y >= z.Y && c.Y < z.Y+z.H
}

// --- accessors ---

func (s *Sim) Config() Config                { return s.cfg }
func (s *Sim) Grid() *MapGrid                { return s.grid }
func (s *Sim) Finder() *PathFinder           { return s.finder }
func (s *Sim) Targets() *TargetRegistry      { return s.targets }
func (s *Sim) Log() *SimLog                  { return s.log }
func (s *Sim) Agents() []*Agent              { return s.agents }
func (s *Sim) Structures() []*Structure      { return s.structures }
func (s *Sim) TickCount() int                { return s.tick }
func (s *Sim) HiveCell() Cell                { return s.hiveCell }
func (s *Sim) HouseCell() Cell               { return s.houseCell }
func (s *Sim) HouseHP() int                  { return s.houseHP }
func (s *Sim) Lost() bool                    { return s.lost }
func (s *Sim) Stats() SimStats               { return s.stats }
func (s *Sim) BaseZones() (hive, house Zone) { return s.hiveZone, s.houseZone }

// Insects returns the living insects.
func (s *Sim) Insects() []*Agent { return s.byKind(AgentInsect) }

// Workers returns the living workers.
func (s *Sim) Workers() []*Agent { return s.byKind(AgentWorker) }

func (s *Sim) byKind(k AgentKind) []*Agent {
	var out []*Agent
	for _, a := range s.agents {
		if a.kind == k && a.Alive() {
			out = append(out, a)
		}
	}
	return out
}

func (s *Sim) structureByID(id int) *Structure {
	for _, st := range s.structures {
		if st.id == id {
			return st
		}
	}
	return nil
}

// StructureAt returns the live structure on c, if any.
func (s *Sim) StructureAt(c Cell) *Structure {
	for _, st := range s.structures {
		if st.cell == c && st.Alive() {
			return st
		}
	}
	return nil
}

// --- spawning ---

// SpawnInsect adds an insect at the hive.
func (s *Sim) SpawnInsect() *Agent { return s.spawnAt(AgentInsect, s.hiveCell) }

// SpawnWorker adds a worker at c, or at the house when c is out of bounds.
func (s *Sim) SpawnWorker(c Cell) *Agent {
	if !s.grid.InBounds(c) {
		c = s.houseCell
	}
	return s.spawnAt(AgentWorker, c)
}

func (s *Sim) spawnAt(kind AgentKind, c Cell) *Agent {
	x, y := s.grid.CellCenter(c)
	a := newAgent(s.nextAgent, kind, x, y)
	s.nextAgent++
	s.agents = append(s.agents, a)
	if kind == AgentInsect {
		s.stats.Spawned++
	}
	s.log.Add(s.tick, a.label, kind.String(), "spawn", "spawned",
		fmt.Sprintf("at (%d,%d)", c.X, c.Y), 0)
	return a
}

// --- placement ---

// Place builds a structure of kind on c. Scaffolds, towers and boulders need a
// clear neighbourhood; traps and scraps only need c itself to be open. Base zones
// are never buildable.
func (s *Sim) Place(kind StructureKind, c Cell) (*Structure, error) {
	if !s.grid.InBounds(c) {
		return nil, fmt.Errorf("place %s at (%d,%d): %w", kind, c.X, c.Y, ErrOutOfBounds)
	}
	if s.inBase(c) {
		return nil, fmt.Errorf("place %s at (%d,%d) inside a base zone: %w", kind, c.X, c.Y, ErrNotBuildable)
	}
	if kind.needsClearance() {
		if !s.grid.EmptyAround(c) {
			return nil, fmt.Errorf("place %s at (%d,%d) without clearance: %w", kind, c.X, c.Y, ErrNotBuildable)
		}
	} else if !s.grid.IsOpen(c) {
		return nil, fmt.Errorf("place %s at (%d,%d) on occupied cell: %w", kind, c.X, c.Y, ErrNotBuildable)
	}

	st := s.adopt(kind, c)
	s.log.Add(s.tick, st.label, "structure", "place", kind.String(),
		fmt.Sprintf("(%d,%d) state=%d", c.X, c.Y, kind.State()), float64(kind.State()))

	// Workers re-pick so the nearest free job is taken.
	for _, a := range s.agents {
		if a.kind == AgentWorker && a.Alive() && a.hasTarget {
			a.dropTarget(s)
			a.state = AgentIdle
		}
	}
	if s.grid.IsHardBlocking(c) {
		s.repairAround(c)
	}
	return st, nil
}

// adopt records a structure and writes its state into the grid without checks.
func (s *Sim) adopt(kind StructureKind, c Cell) *Structure {
	charges := 0
	if kind == StructureTrap {
		charges = s.cfg.Sim.TrapCharges
	}
	st := newStructure(s.nextStruct, kind, c, charges)
	s.nextStruct++
	if kind == StructureTower {
		st.built = s.cfg.Sim.BuildTicks
	}
	s.structures = append(s.structures, st)
	s.grid.Set(c, kind.State())
	return st
}

// Remove destroys the structure with the given id and reopens its cell. It
// reports false when no live structure has that id.
func (s *Sim) Remove(id int) bool {
	st := s.structureByID(id)
	if st == nil || !st.Alive() {
		return false
	}
	s.destroy(st)
	return true
}

func (s *Sim) destroy(st *Structure) {
	st.dead = true
	s.grid.Set(st.cell, CellOpen)
	s.targets.Release(st.id)
	s.log.Add(s.tick, st.label, "structure", "place", "removed",
		fmt.Sprintf("%s (%d,%d)", st.kind, st.cell.X, st.cell.Y), 0)

	live := s.structures[:0]
	for _, o := range s.structures {
		if o.Alive() {
			live = append(live, o)
		}
	}
	s.structures = live
}

// repairAround patches every live path that runs through c, which has just
// turned hard-blocking. A block on the first or last waypoint cannot be spliced,
// so that path is dropped and re-searched on the next tick.
func (s *Sim) repairAround(c Cell) {
	for _, a := range s.agents {
		if !a.Alive() || !a.hasPath {
			continue
		}
		i := a.path.Index(c)
		if i < 0 {
			continue
		}
		if i == 0 || i == len(a.path)-1 {
			a.clearPath()
			s.stats.Cleared++
			s.log.Add(s.tick, a.label, a.kind.String(), "path", "cleared",
				fmt.Sprintf("(%d,%d) at waypoint %d", c.X, c.Y, i), float64(i))
			continue
		}
		np, ok := a.path.RepairOn(s.grid, c)
		if !ok {
			a.clearPath()
			s.stats.Cleared++
			s.log.Add(s.tick, a.label, a.kind.String(), "path", "cleared",
				fmt.Sprintf("(%d,%d) no walkable detour", c.X, c.Y), float64(i))
			continue
		}
		grew := len(np) - len(a.path)
		a.path = np
		s.stats.Repairs++
		s.log.Add(s.tick, a.label, a.kind.String(), "path", "repaired",
			fmt.Sprintf("(%d,%d) %+d cells", c.X, c.Y, grew), float64(grew))
	}
}

// --- tick ---

// RunTicks advances the simulation n ticks.
func (s *Sim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		s.Tick()
	}
}

// RunUntil advances up to maxTicks, stopping early once predicate holds. It
// returns the tick at which the predicate was satisfied, or -1.
func (s *Sim) RunUntil(predicate func(*Sim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		s.Tick()
		if predicate(s) {
			return s.tick
		}
	}
	return -1
}

// Tick advances the simulation by one step: spawn, think, move, arrive, traps.
func (s *Sim) Tick() {
	s.tick++
	s.spawnTick()
	for _, a := range s.agents {
		if a.Alive() && a.kind.Mobile() {
			s.think(a)
		}
	}
	for _, a := range s.agents {
		if a.Alive() && a.kind.Mobile() {
			s.move(a)
		}
	}
	s.trapTick()

	if s.houseHP <= 0 && !s.lost {
		s.lost = true
		s.log.Add(s.tick, "--", "--", "house", "lost", "house destroyed", 0)
	}
	s.compact()
}

func (s *Sim) spawnTick() {
	every := s.cfg.Sim.HiveSpawnEvery
	if every <= 0 || s.lost || s.noBases {
		return
	}
	s.spawnTimer++
	if s.spawnTimer < every {
		return
	}
	s.spawnTimer = 0
	if len(s.Insects()) >= s.cfg.Sim.MaxInsects {
		return
	}
	s.SpawnInsect()
}

// think validates the target and searches for a path when the agent has none.
// A failed search idles the agent for RepathEvery ticks.
func (s *Sim) think(a *Agent) {
	if a.hasTarget && !a.targeting.Valid(s, a) {
		a.dropTarget(s)
		a.state = AgentIdle
	}
	if a.hasPath {
		return
	}
	if a.retryIn > 0 {
		a.retryIn--
		return
	}
	if !a.hasTarget {
		t, ok := a.targeting.Select(s, a)
		if !ok {
			a.state = AgentIdle
			return
		}
		a.target, a.hasTarget = t, true
	}

	from := a.Cell(s.grid)
	insect := a.kind == AgentInsect
	p, ok := s.finder.CalculatePath(from, a.target.Cell, insect, insect)
	if !ok {
		s.stats.PathFailures++
		if a.kind == AgentWorker {
			a.dropTarget(s)
		}
		a.state = AgentIdle
		a.retryIn = s.cfg.Sim.RepathEvery
		s.log.Add(s.tick, a.label, a.kind.String(), "path", "not_found",
			fmt.Sprintf("(%d,%d)->(%d,%d)", from.X, from.Y, a.target.Cell.X, a.target.Cell.Y), 0)
		return
	}
	a.path, a.hasPath = p, true
	a.state = AgentMoving
	s.stats.Paths++
	s.stats.PathCells += len(p)
	s.log.Add(s.tick, a.label, a.kind.String(), "path", "found",
		fmt.Sprintf("(%d,%d)->(%d,%d) len=%d", from.X, from.Y, a.target.Cell.X, a.target.Cell.Y, len(p)), float64(len(p)))
}

func (s *Sim) move(a *Agent) {
	if !a.hasPath {
		return
	}
	before := len(a.path)
	arrived := a.movement.Step(s, a)
	if len(a.path) != before {
		s.log.AddVerbose(s.tick, a.label, a.kind.String(), "move", "waypoint",
			fmt.Sprintf("(%d,%d) left=%d", a.x, a.y, len(a.path)), float64(len(a.path)))
	}
	if arrived {
		s.arrive(a)
	}
}

func (s *Sim) arrive(a *Agent) {
	switch a.kind {
	case AgentInsect:
		s.houseHP--
		s.stats.Arrived++
		a.state = AgentDead
		s.log.Add(s.tick, a.label, a.kind.String(), "arrive", "house",
			fmt.Sprintf("hp=%d", s.houseHP), float64(s.houseHP))
	case AgentWorker:
		st := s.structureByID(a.target.StructureID)
		if st == nil || !st.Alive() || st.kind != StructureScaffold {
			a.dropTarget(s)
			a.state = AgentIdle
			return
		}
		a.state = AgentWorking
		st.built++
		if st.built >= s.cfg.Sim.BuildTicks {
			s.completeTower(st)
		}
	}
}

// completeTower turns a finished scaffold into a tower. The cell becomes an
// avoid cell, so paths through it are repaired.
func (s *Sim) completeTower(st *Structure) {
	st.kind = StructureTower
	s.grid.Set(st.cell, CellAvoid)
	s.targets.Release(st.id)
	s.stats.TowersBuilt++
	s.log.Add(s.tick, st.label, "structure", "build", "tower",
		fmt.Sprintf("(%d,%d)", st.cell.X, st.cell.Y), 0)
	for _, w := range s.agents {
		if w.kind == AgentWorker && w.hasTarget && w.target.StructureID == st.id {
			w.hasTarget = false
			w.target = Target{}
			w.clearPath()
			w.state = AgentIdle
		}
	}
	s.repairAround(st.cell)
}

func (s *Sim) trapTick() {
	for _, a := range s.agents {
		if a.kind != AgentInsect || !a.Alive() {
			continue
		}
		st := s.StructureAt(a.Cell(s.grid))
		if st == nil || st.kind != StructureTrap || st.charges <= 0 {
			continue
		}
		st.charges--
		a.state = AgentDead
		s.stats.Killed++
		s.log.Add(s.tick, a.label, a.kind.String(), "trap", "killed",
			fmt.Sprintf("by %s charges=%d", st.label, st.charges), float64(st.charges))
		if st.charges == 0 {
			s.destroy(st)
		}
	}
}

// compact drops dead agents.
func (s *Sim) compact() {
	live := s.agents[:0]
	for _, a := range s.agents {
		if a.Alive() {
			live = append(live, a)
		}
	}
	for i := len(live); i < len(s.agents); i++ {
		s.agents[i] = nil
	}
	s.agents = live
}
