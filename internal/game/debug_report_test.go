package game

import (
	"strings"
	"testing"
)

func TestDebugReport_InsectPath(t *testing.T) {
	s := newBareSim(WithInsect(Cell{2, 2}))
	s.Tick()
	a := s.Insects()[0]

	report := s.DebugReport(a.Label(), 0)
	for _, want := range []string{"agent=" + a.Label(), "kind=insect", "found=1", "events:"} {
		if !strings.Contains(report, want) {
			t.Fatalf("report missing %q:\n%s", want, report)
		}
	}
}

func TestDebugReport_GoneAgent(t *testing.T) {
	s := newBareSim()
	report := s.DebugReport("I99", 10)
	if !strings.Contains(report, "now: gone") || !strings.Contains(report, "(no events in range)") {
		t.Fatalf("unexpected report for unknown agent:\n%s", report)
	}
}

func TestNearestAgent(t *testing.T) {
	s := newBareSim(WithInsect(Cell{2, 2}), WithWorker(Cell{15, 15}))
	if a := s.NearestAgent(Cell{14, 13}); a == nil || a.Kind() != AgentWorker {
		t.Fatalf("expected the worker to be nearest, got %v", a)
	}
	if a := s.NearestAgent(Cell{0, 0}); a == nil || a.Kind() != AgentInsect {
		t.Fatalf("expected the insect to be nearest, got %v", a)
	}
	if newBareSim().NearestAgent(Cell{0, 0}) != nil {
		t.Fatal("expected nil with no agents")
	}
}
