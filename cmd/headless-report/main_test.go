package main

import (
	"testing"

	"github.com/Garsondee/bug-me-not/internal/game"
)

func TestVerdict(t *testing.T) {
	cases := []struct {
		name string
		rs   runStats
		want string
	}{
		{"lost", runStats{lostTick: 900, sim: game.SimStats{Arrived: 10}}, "lost"},
		{"untouched", runStats{lostTick: -1}, "untouched"},
		{"held", runStats{lostTick: -1, sim: game.SimStats{Arrived: 2}}, "held"},
	}
	for _, tc := range cases {
		if got := verdict(tc.rs); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestRunOnce_SameSeedSameResult(t *testing.T) {
	cfg := game.DefaultConfig()
	a := runOnce(cfg, 1, 7, 300, 50)
	b := runOnce(cfg, 1, 7, 300, 50)
	if a.sim != b.sim {
		t.Fatalf("expected identical stats for one seed, got %+v vs %+v", a.sim, b.sim)
	}
	if a.finder != b.finder {
		t.Fatalf("expected identical search stats, got %+v vs %+v", a.finder, b.finder)
	}
	if a.sim.Spawned == 0 {
		t.Fatal("expected the hive to spawn insects within 300 ticks")
	}
	if a.firstPathTick < 0 {
		t.Fatal("expected at least one path to be found")
	}
	if a.windowSummary == nil || a.windowSummary.ToTick != 300 {
		t.Fatalf("expected a window ending at T=300, got %+v", a.windowSummary)
	}
}

func TestRunAll_KeepsRunOrder(t *testing.T) {
	cfg := game.DefaultConfig()
	all := runAll(cfg, 4, 60, 10, 3, 0, 3)
	if len(all) != 4 {
		t.Fatalf("expected 4 runs, got %d", len(all))
	}
	for i, rs := range all {
		if rs.runIndex != i+1 || rs.seed != 10+int64(i)*3 {
			t.Fatalf("run %d: got index=%d seed=%d", i, rs.runIndex, rs.seed)
		}
	}
}

func TestJoinCounts(t *testing.T) {
	if got := joinCounts(nil); got != "none" {
		t.Fatalf("expected none, got %q", got)
	}
	if got := joinCounts(map[string]int{"scaffold": 2, "boulder": 1}); got != "boulder=1,scaffold=2" {
		t.Fatalf("unexpected join: %q", got)
	}
}
