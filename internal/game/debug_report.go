package game

import (
	"fmt"
	"strings"
)

// debugPathPreview caps how many waypoints the report prints.
const debugPathPreview = 8

// AgentByLabel returns the live agent with label, or nil.
func (s *Sim) AgentByLabel(label string) *Agent {
	for _, a := range s.agents {
		if a.label == label && a.Alive() {
			return a
		}
	}
	return nil
}

// NearestAgent returns the live agent closest to c by Chebyshev distance, or nil.
func (s *Sim) NearestAgent(c Cell) *Agent {
	var best *Agent
	bestD := 0
	for _, a := range s.agents {
		if !a.Alive() {
			continue
		}
		ac := a.Cell(s.grid)
		d := max(abs(ac.X-c.X), abs(ac.Y-c.Y))
		if best == nil || d < bestD {
			best, bestD = a, d
		}
	}
	return best
}

// DebugReport summarises one agent's last lastTicks of log history plus its
// current path, for pasting into a bug report.
func (s *Sim) DebugReport(label string, lastTicks int) string {
	if lastTicks <= 0 {
		lastTicks = 120
	}
	toTick := s.tick
	fromTick := max(toTick-lastTicks+1, 0)

	var b strings.Builder
	fmt.Fprintf(&b, "--- bug-me-not debug report ---\n")
	fmt.Fprintf(&b, "agent=%s tick_range=[%d..%d] ticks=%d\n", label, fromTick, toTick, toTick-fromTick+1)

	if a := s.AgentByLabel(label); a != nil {
		c := a.Cell(s.grid)
		fmt.Fprintf(&b, "now: kind=%s state=%s cell=(%d,%d)", a.kind, a.state, c.X, c.Y)
		if tgt, ok := a.Target(); ok {
			fmt.Fprintf(&b, " target=(%d,%d)", tgt.Cell.X, tgt.Cell.Y)
		}
		b.WriteByte('\n')
		fmt.Fprintf(&b, "path: %d waypoints", len(a.path))
		for i, wp := range a.path {
			if i == debugPathPreview {
				b.WriteString(" ...")
				break
			}
			fmt.Fprintf(&b, " (%d,%d)", wp.X, wp.Y)
		}
		b.WriteByte('\n')
	} else {
		b.WriteString("now: gone\n")
	}

	counts := map[string]int{}
	var events []SimLogEntry
	for _, e := range s.log.FilterAgent(label) {
		if e.Tick < fromTick || e.Tick > toTick {
			continue
		}
		counts[e.Category+"/"+e.Key]++
		if e.Category != "move" {
			events = append(events, e)
		}
	}
	fmt.Fprintf(&b, "summary: found=%d not_found=%d repaired=%d cleared=%d waypoints=%d\n",
		counts["path/found"], counts["path/not_found"], counts["path/repaired"],
		counts["path/cleared"], counts["move/waypoint"])
	if len(events) == 0 {
		b.WriteString("(no events in range)\n")
		return b.String()
	}
	b.WriteString("events:\n")
	for _, e := range events {
		b.WriteString("  ")
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}
