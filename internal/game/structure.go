package game

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfBounds is returned when a placement cell lies outside the grid.
	ErrOutOfBounds = errors.New("cell out of bounds")
	// ErrNotBuildable is returned when a placement rule rejects the cell.
	ErrNotBuildable = errors.New("cell not buildable")
)

// StructureKind identifies a static object on the grid.
type StructureKind int

const (
	StructureScaffold StructureKind = iota // tower under construction
	StructureTower                         // finished tower, repels insects
	StructureBoulder                       // terrain obstacle
	StructureScraps                        // salvage pile, blocks movement
	StructureTrap                          // passable, kills insects that step on it
)

func (k StructureKind) String() string {
	switch k {
	case StructureScaffold:
		return "scaffold"
	case StructureTower:
		return "tower"
	case StructureBoulder:
		return "boulder"
	case StructureScraps:
		return "scraps"
	case StructureTrap:
		return "trap"
	default:
		return "unknown"
	}
}

// State returns the occupancy code the structure writes into the grid.
func (k StructureKind) State() CellState {
	switch k {
	case StructureTower:
		return CellAvoid
	case StructureBoulder, StructureScraps:
		return CellBlocking
	default:
		return CellScaffold
	}
}

// needsClearance reports whether placement requires EmptyAround rather than IsOpen.
func (k StructureKind) needsClearance() bool {
	switch k {
	case StructureScaffold, StructureTower, StructureBoulder:
		return true
	default:
		return false
	}
}

// Structure is a static object occupying one cell.
type Structure struct {
	id      int
	label   string
	kind    StructureKind
	cell    Cell
	built   int // scaffold build progress in ticks
	charges int // remaining trap uses
	dead    bool
}

func newStructure(id int, kind StructureKind, c Cell, charges int) *Structure {
	return &Structure{
		id:      id,
		label:   fmt.Sprintf("S%d", id),
		kind:    kind,
		cell:    c,
		charges: charges,
	}
}

func (st *Structure) ID() int             { return st.id }
func (st *Structure) Label() string       { return st.label }
func (st *Structure) Kind() StructureKind { return st.kind }
func (st *Structure) Cell() Cell          { return st.cell }
func (st *Structure) Built() int          { return st.built }
func (st *Structure) Alive() bool         { return !st.dead }
