package game

// ringOffsets lists the 8 neighbours of a cell clockwise from north.
var ringOffsets = [8][2]int{
	{0, -1}, {1, -1}, {1, 0}, {1, 1},
	{0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
}

// Repair splices a short detour around blocked into the path. It is a local patch,
// not a search: the detour may be awkward, and the agent's next full search
// straightens it out.
//
// The path is returned unchanged when blocked is not on it, is its first or last
// waypoint, or the waypoint before it is not a ring neighbour. Otherwise the ring
// around blocked is walked clockwise starting after the previous waypoint,
// collecting cells until one that already appears later in the path closes the
// loop. The collected cells replace blocked. The input slice is not modified.
//
// Repair does not look at the grid; the simulation uses RepairOn.
func (p Path) Repair(blocked Cell) Path {
	out, ok := p.repair(blocked, 1, nil)
	if !ok {
		return p
	}
	return out
}

// RepairOn is Repair constrained to g: detour cells must be in bounds and not
// hard-blocking. The clockwise detour is tried first, then the counter-clockwise
// one. ok is false when neither fits or the path cannot be spliced at all; the
// caller should drop the path and search again.
func (p Path) RepairOn(g *MapGrid, blocked Cell) (Path, bool) {
	walkable := func(c Cell) bool { return !g.IsHardBlocking(c) }
	if out, ok := p.repair(blocked, 1, walkable); ok {
		return out, true
	}
	return p.repair(blocked, -1, walkable)
}

// repair walks the ring in dir (1 clockwise, -1 counter-clockwise). A nil
// walkable accepts every cell.
func (p Path) repair(blocked Cell, dir int, walkable func(Cell) bool) (Path, bool) {
	i := p.Index(blocked)
	if i <= 0 || i >= len(p)-1 {
		return nil, false
	}

	prev := p[i-1]
	start := -1
	for k, o := range ringOffsets {
		if blocked.Add(o[0], o[1]) == prev {
			start = k
			break
		}
	}
	if start < 0 {
		return nil, false
	}

	n := len(ringOffsets)
	rest := p[i+1:]
	detour := make(Path, 0, n-1)
	for step := 1; step < n; step++ {
		o := ringOffsets[((start+dir*step)%n+n)%n]
		c := blocked.Add(o[0], o[1])
		if rest.Contains(c) {
			break
		}
		if walkable != nil && !walkable(c) {
			return nil, false
		}
		detour = append(detour, c)
	}

	out := make(Path, 0, len(p)-1+len(detour))
	out = append(out, p[:i]...)
	out = append(out, detour...)
	out = append(out, rest...)
	return out, true
}

// RepairPath is Repair as a plain function.
func RepairPath(p Path, blocked Cell) Path { return p.Repair(blocked) }
