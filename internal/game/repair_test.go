package game

import "testing"

func TestRepair_MidPathObstacle(t *testing.T) {
	p := Path{{3, 3}, {3, 4}, {3, 5}}
	got := p.Repair(Cell{3, 4})
	want := Path{{3, 3}, {4, 3}, {4, 4}, {4, 5}, {3, 5}}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("waypoint %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	if p[1] != (Cell{3, 4}) || len(p) != 3 {
		t.Fatal("input path should not be modified")
	}
}

func TestRepair_KeepsEnds(t *testing.T) {
	p := Path{{1, 1}, {2, 1}, {3, 1}, {4, 1}, {5, 1}}
	for _, blocked := range []Cell{{2, 1}, {3, 1}, {4, 1}} {
		got := p.Repair(blocked)
		if got[0] != p[0] || got[len(got)-1] != p[len(p)-1] {
			t.Fatalf("blocking %v moved an end waypoint: %v", blocked, got)
		}
		if got.Contains(blocked) {
			t.Fatalf("blocked cell %v still on repaired path %v", blocked, got)
		}
		if n := len(got) - len(p) + 1; n > 7 {
			t.Fatalf("detour of %d cells exceeds the ring", n)
		}
	}
}

func TestRepair_ConnectedDetour(t *testing.T) {
	p := Path{{1, 1}, {2, 1}, {3, 1}, {4, 1}, {5, 1}}
	got := p.Repair(Cell{3, 1})
	for i := 1; i < len(got); i++ {
		dx, dy := abs(got[i].X-got[i-1].X), abs(got[i].Y-got[i-1].Y)
		if dx > 1 || dy > 1 {
			t.Fatalf("repaired path jumps from %v to %v", got[i-1], got[i])
		}
	}
}

func TestRepair_NoOps(t *testing.T) {
	p := Path{{3, 3}, {3, 4}, {3, 5}}
	cases := []struct {
		name    string
		path    Path
		blocked Cell
	}{
		{"empty", Path{}, Cell{1, 1}},
		{"absent", p, Cell{9, 9}},
		{"first", p, Cell{3, 3}},
		{"last", p, Cell{3, 5}},
		{"prev not adjacent", Path{{0, 0}, {3, 4}, {3, 5}}, Cell{3, 4}},
	}
	for _, tc := range cases {
		got := tc.path.Repair(tc.blocked)
		if len(got) != len(tc.path) {
			t.Fatalf("%s: expected unchanged path, got %v", tc.name, got)
		}
		for i := range got {
			if got[i] != tc.path[i] {
				t.Fatalf("%s: waypoint %d changed", tc.name, i)
			}
		}
	}
}

func TestRepairPath_MatchesMethod(t *testing.T) {
	p := Path{{3, 3}, {3, 4}, {3, 5}}
	a, b := RepairPath(p, Cell{3, 4}), p.Repair(Cell{3, 4})
	if len(a) != len(b) {
		t.Fatalf("RepairPath %v differs from Repair %v", a, b)
	}
}

func samePath(t *testing.T, got, want Path) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("waypoint %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestRepairOn_OpenGridMatchesRepair(t *testing.T) {
	g := newTestGrid(10, 10)
	p := Path{{3, 3}, {3, 4}, {3, 5}}
	got, ok := p.RepairOn(g, Cell{3, 4})
	if !ok {
		t.Fatal("expected a detour on an open grid")
	}
	samePath(t, got, p.Repair(Cell{3, 4}))
}

func TestRepairOn_BlockedRingCellTurnsAround(t *testing.T) {
	g := newTestGrid(10, 10)
	g.Set(Cell{4, 3}, CellBlocking)
	p := Path{{3, 3}, {3, 4}, {3, 5}}
	got, ok := p.RepairOn(g, Cell{3, 4})
	if !ok {
		t.Fatal("expected the counter-clockwise detour")
	}
	samePath(t, got, Path{{3, 3}, {2, 3}, {2, 4}, {2, 5}, {3, 5}})
}

func TestRepairOn_RightEdgeStaysOnGrid(t *testing.T) {
	g := newTestGrid(40, 10)
	p := Path{{39, 3}, {39, 4}, {39, 5}, {39, 6}}
	got, ok := p.RepairOn(g, Cell{39, 5})
	if !ok {
		t.Fatal("expected a detour inside the grid")
	}
	samePath(t, got, Path{{39, 3}, {39, 4}, {38, 4}, {38, 5}, {38, 6}, {39, 6}})
	for _, c := range got {
		if !g.InBounds(c) {
			t.Fatalf("detour leaves the grid at %v", c)
		}
	}
}

func TestRepairOn_NoWalkableSide(t *testing.T) {
	g := newTestGrid(40, 10)
	g.Fill(Cell{0, 0}, 39, 10, CellBlocking)
	p := Path{{39, 3}, {39, 4}, {39, 5}, {39, 6}}
	if got, ok := p.RepairOn(g, Cell{39, 5}); ok {
		t.Fatalf("expected no detour between the wall and the edge, got %v", got)
	}
}
