package game

import (
	"fmt"
	"strings"
)

// reportWindowTicks is the default sliding window for recent-behaviour reports.
const reportWindowTicks = 600

// SimReport is a snapshot of the simulation at one tick.
type SimReport struct {
	Tick int

	Insects     int
	Workers     int
	Idle        int // agents with no path, waiting to retry
	HouseHP     int
	Structures  map[StructureKind]int
	PathLeft    float64 // mean remaining waypoints of walking agents
	ClaimedJobs int

	Stats  SimStats
	Finder PathStats
}

// SimReporter collects periodic reports and summarises them over a sliding
// window.
type SimReporter struct {
	history     []SimReport
	windowTicks int
}

// NewSimReporter creates a reporter with the given window size.
func NewSimReporter(windowTicks int) *SimReporter {
	if windowTicks <= 0 {
		windowTicks = reportWindowTicks
	}
	return &SimReporter{windowTicks: windowTicks}
}

// Collect gathers a snapshot from the current simulation state.
func (r *SimReporter) Collect(s *Sim) {
	rpt := SimReport{
		Tick:        s.tick,
		HouseHP:     s.houseHP,
		Structures:  make(map[StructureKind]int),
		ClaimedJobs: s.targets.Len(),
		Stats:       s.stats,
		Finder:      s.finder.Stats(),
	}
	walking, left := 0, 0
	for _, a := range s.agents {
		if !a.Alive() {
			continue
		}
		switch a.kind {
		case AgentInsect:
			rpt.Insects++
		case AgentWorker:
			rpt.Workers++
		}
		if !a.hasPath {
			rpt.Idle++
			continue
		}
		walking++
		left += len(a.path)
	}
	if walking > 0 {
		rpt.PathLeft = float64(left) / float64(walking)
	}
	for _, st := range s.structures {
		if st.Alive() {
			rpt.Structures[st.kind]++
		}
	}

	r.history = append(r.history, rpt)
	if maxKeep := max(r.windowTicks/10, 100); len(r.history) > maxKeep {
		r.history = r.history[len(r.history)-maxKeep:]
	}
}

// Latest returns the most recent report, or nil.
func (r *SimReporter) Latest() *SimReport {
	if len(r.history) == 0 {
		return nil
	}
	return &r.history[len(r.history)-1]
}

// History returns all retained reports.
func (r *SimReporter) History() []SimReport {
	return r.history
}

// WindowReport is an aggregated summary over a time window.
type WindowReport struct {
	FromTick, ToTick int
	SampleCount      int

	AvgInsects  float64
	AvgIdle     float64
	AvgPathLeft float64

	// Deltas across the window.
	Spawned, Arrived, Killed int
	Repairs, Cleared         int
	Searches, NotFound       int
	Expansions               int
	HPLost                   int
}

// WindowSummary averages the reports within the window and takes counter
// deltas between its first and last sample.
func (r *SimReporter) WindowSummary() *WindowReport {
	if len(r.history) == 0 {
		return nil
	}
	latest := r.history[len(r.history)-1]
	cutoff := latest.Tick - r.windowTicks
	first := len(r.history) - 1
	for first > 0 && r.history[first-1].Tick >= cutoff {
		first--
	}
	window := r.history[first:]
	oldest := window[0]

	n := float64(len(window))
	wr := &WindowReport{
		FromTick:    oldest.Tick,
		ToTick:      latest.Tick,
		SampleCount: len(window),
		Spawned:     latest.Stats.Spawned - oldest.Stats.Spawned,
		Arrived:     latest.Stats.Arrived - oldest.Stats.Arrived,
		Killed:      latest.Stats.Killed - oldest.Stats.Killed,
		Repairs:     latest.Stats.Repairs - oldest.Stats.Repairs,
		Cleared:     latest.Stats.Cleared - oldest.Stats.Cleared,
		Searches:    latest.Finder.Searches - oldest.Finder.Searches,
		NotFound:    latest.Finder.NotFound - oldest.Finder.NotFound,
		Expansions:  latest.Finder.Expansions - oldest.Finder.Expansions,
		HPLost:      oldest.HouseHP - latest.HouseHP,
	}
	for _, rpt := range window {
		wr.AvgInsects += float64(rpt.Insects)
		wr.AvgIdle += float64(rpt.Idle)
		wr.AvgPathLeft += rpt.PathLeft
	}
	wr.AvgInsects /= n
	wr.AvgIdle /= n
	wr.AvgPathLeft /= n
	return wr
}

// Format returns a human-readable multi-line string of the window summary.
func (wr *WindowReport) Format() string {
	if wr == nil {
		return "No data collected yet.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Path Report (T=%d..%d, %d samples) ===\n",
		wr.FromTick, wr.ToTick, wr.SampleCount)
	fmt.Fprintf(&sb, "  insects: avg=%.1f idle=%.1f  spawned=%d arrived=%d killed=%d\n",
		wr.AvgInsects, wr.AvgIdle, wr.Spawned, wr.Arrived, wr.Killed)
	fmt.Fprintf(&sb, "  search:  calls=%d not_found=%d expansions=%d\n",
		wr.Searches, wr.NotFound, wr.Expansions)
	fmt.Fprintf(&sb, "  repair:  spliced=%d cleared=%d  avg_left=%.1f\n",
		wr.Repairs, wr.Cleared, wr.AvgPathLeft)
	fmt.Fprintf(&sb, "  house:   hp_lost=%d (%s)\n", wr.HPLost, pressureLabel(wr.HPLost, wr.Spawned))
	return sb.String()
}

func pressureLabel(lost, spawned int) string {
	switch {
	case spawned == 0:
		return "quiet"
	case lost == 0:
		return "holding"
	case lost*2 < spawned:
		return "leaking"
	default:
		return "overrun"
	}
}

// FormatLatest returns a concise snapshot of the most recent report.
func (r *SimReporter) FormatLatest() string {
	rpt := r.Latest()
	if rpt == nil {
		return "No data.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Snapshot T=%d ---\n", rpt.Tick)
	fmt.Fprintf(&sb, "insects=%d workers=%d idle=%d hp=%d claimed=%d\n",
		rpt.Insects, rpt.Workers, rpt.Idle, rpt.HouseHP, rpt.ClaimedJobs)
	sb.WriteString("structures: ")
	for k := StructureScaffold; k <= StructureTrap; k++ {
		if c := rpt.Structures[k]; c > 0 {
			fmt.Fprintf(&sb, "%s=%d ", k, c)
		}
	}
	sb.WriteByte('\n')
	return sb.String()
}

// asciiGlyphs maps cell states to dump characters.
var asciiGlyphs = [cellStateCount]byte{'.', '+', '#', 'T'}

// ASCIIDump renders the grid one character per cell with agents overlaid:
// 'i' insect, 'w' worker, 'H' hive cell, 'O' house cell, '^' trap.
func ASCIIDump(s *Sim) string {
	g := s.grid
	rows := make([][]byte, g.Rows())
	for y := range rows {
		rows[y] = make([]byte, g.Cols())
		for x := range rows[y] {
			rows[y][x] = asciiGlyphs[g.At(Cell{x, y})]
		}
	}
	put := func(c Cell, b byte) {
		if g.InBounds(c) {
			rows[c.Y][c.X] = b
		}
	}
	for _, st := range s.structures {
		if st.Alive() && st.kind == StructureTrap {
			put(st.cell, '^')
		}
	}
	put(s.hiveCell, 'H')
	put(s.houseCell, 'O')
	for _, a := range s.agents {
		if !a.Alive() {
			continue
		}
		b := byte('i')
		if a.kind == AgentWorker {
			b = 'w'
		}
		put(a.Cell(g), b)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "T=%d hp=%d insects=%d\n", s.tick, s.houseHP, len(s.Insects()))
	for _, r := range rows {
		sb.Write(r)
		sb.WriteByte('\n')
	}
	return sb.String()
}
