package game

import (
	"fmt"
	"math"
)

// AgentKind distinguishes the mobile units.
type AgentKind int

const (
	AgentInsect AgentKind = iota // marches from the hive to the house
	AgentWorker                  // builds scaffolds into towers
)

func (k AgentKind) String() string {
	switch k {
	case AgentInsect:
		return "insect"
	case AgentWorker:
		return "worker"
	default:
		return "unknown"
	}
}

// Mobile reports whether agents of this kind walk paths.
func (k AgentKind) Mobile() bool {
	return k == AgentInsect || k == AgentWorker
}

// AgentState is the high-level behaviour state.
type AgentState int

const (
	AgentIdle    AgentState = iota // no target or no path, waiting to retry
	AgentMoving                    // walking a path
	AgentWorking                   // at a scaffold, building
	AgentDead                      // removed from play
)

func (as AgentState) String() string {
	switch as {
	case AgentIdle:
		return "idle"
	case AgentMoving:
		return "moving"
	case AgentWorking:
		return "working"
	case AgentDead:
		return "dead"
	default:
		return "unknown"
	}
}

// Target is where an agent is heading. StructureID is -1 for the house.
type Target struct {
	Cell        Cell
	StructureID int
}

// TargetingStrategy picks and validates an agent's destination.
type TargetingStrategy interface {
	// Select returns a new target, or false when there is nothing to do.
	Select(s *Sim, a *Agent) (Target, bool)
	// Valid reports whether the current target still makes sense.
	Valid(s *Sim, a *Agent) bool
	// Release gives up whatever Select claimed.
	Release(s *Sim, a *Agent)
}

// MovementStrategy advances an agent along its path for one tick.
type MovementStrategy interface {
	// Step moves the agent and reports whether it stands on its final waypoint.
	Step(s *Sim, a *Agent) bool
}

// Agent is a mobile unit. Position is the pixel centre of the sprite.
type Agent struct {
	id    int
	label string
	kind  AgentKind
	x, y  int
	state AgentState

	target    Target
	hasTarget bool
	path      Path
	hasPath   bool
	moveTimer int
	retryIn   int // ticks until a failed search is retried

	targeting TargetingStrategy
	movement  MovementStrategy
}

func newAgent(id int, kind AgentKind, x, y int) *Agent {
	a := &Agent{
		id:    id,
		label: fmt.Sprintf("%c%d", kindPrefix(kind), id),
		kind:  kind,
		x:     x,
		y:     y,
		state: AgentIdle,
	}
	switch kind {
	case AgentWorker:
		a.targeting = scaffoldTargeting{}
	default:
		a.targeting = houseTargeting{}
	}
	a.movement = gridWalker{}
	return a
}

func kindPrefix(k AgentKind) rune {
	if k == AgentWorker {
		return 'W'
	}
	return 'I'
}

func (a *Agent) ID() int                { return a.id }
func (a *Agent) Label() string          { return a.label }
func (a *Agent) Kind() AgentKind        { return a.kind }
func (a *Agent) State() AgentState      { return a.state }
func (a *Agent) Pos() (int, int)        { return a.x, a.y }
func (a *Agent) Path() Path             { return a.path }
func (a *Agent) Target() (Target, bool) { return a.target, a.hasTarget }
func (a *Agent) Alive() bool            { return a.state != AgentDead }

// Cell returns the grid cell under the agent.
func (a *Agent) Cell(g *MapGrid) Cell { return g.WorldToCell(a.x, a.y) }

// clearPath forces a fresh search on the next think.
func (a *Agent) clearPath() {
	a.path = nil
	a.hasPath = false
	a.retryIn = 0
}

// dropTarget releases the target and its path.
func (a *Agent) dropTarget(s *Sim) {
	if a.hasTarget {
		a.targeting.Release(s, a)
	}
	a.hasTarget = false
	a.target = Target{}
	a.clearPath()
}

// --- targeting ---

// houseTargeting always heads for the house.
type houseTargeting struct{}

func (houseTargeting) Select(s *Sim, _ *Agent) (Target, bool) {
	if s.houseHP <= 0 {
		return Target{}, false
	}
	return Target{Cell: s.houseCell, StructureID: -1}, true
}

func (houseTargeting) Valid(s *Sim, _ *Agent) bool { return s.houseHP > 0 }
func (houseTargeting) Release(*Sim, *Agent)         {}

// scaffoldTargeting picks the nearest scaffold no other worker has claimed, and
// falls back to the nearest claimed one so idle workers help out.
type scaffoldTargeting struct{}

func (scaffoldTargeting) Select(s *Sim, a *Agent) (Target, bool) {
	var free, taken *Structure
	freeD, takenD := math.MaxFloat64, math.MaxFloat64
	for _, st := range s.structures {
		if !st.Alive() || st.kind != StructureScaffold {
			continue
		}
		cx, cy := s.grid.CellCenter(st.cell)
		d := math.Hypot(float64(cx-a.x), float64(cy-a.y))
		if s.targets.IsClaimed(st.id) {
			if d < takenD {
				taken, takenD = st, d
			}
			continue
		}
		if d < freeD {
			free, freeD = st, d
		}
	}
	pick := free
	if pick == nil {
		pick = taken
	}
	if pick == nil {
		return Target{}, false
	}
	s.targets.Claim(pick.id)
	return Target{Cell: pick.cell, StructureID: pick.id}, true
}

func (scaffoldTargeting) Valid(s *Sim, a *Agent) bool {
	st := s.structureByID(a.target.StructureID)
	return st != nil && st.Alive() && st.kind == StructureScaffold
}

func (scaffoldTargeting) Release(s *Sim, a *Agent) {
	s.targets.Release(a.target.StructureID)
}

// --- movement ---

// gridWalker steps toward the next waypoint centre on each axis independently,
// clamping the last step so the centre is hit exactly.
type gridWalker struct{}

func (gridWalker) Step(s *Sim, a *Agent) bool {
	if len(a.path) == 0 {
		return a.hasPath
	}
	a.moveTimer++
	if a.moveTimer < s.cfg.Sim.MoveEvery {
		return false
	}
	a.moveTimer = 0

	tx, ty := s.grid.CellCenter(a.path[0])
	a.x += stepToward(a.x, tx, s.cfg.Sim.StepPixels)
	a.y += stepToward(a.y, ty, s.cfg.Sim.StepPixels)
	if a.x == tx && a.y == ty {
		a.path = a.path.Pop()
	}
	return len(a.path) == 0
}

func stepToward(from, to, step int) int {
	d := to - from
	switch {
	case d > step:
		return step
	case d < -step:
		return -step
	default:
		return d
	}
}
