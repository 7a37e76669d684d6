package scenario

import (
	"errors"
	"math"
	"testing"
)

func TestLookupKnownScenarios(t *testing.T) {
	cases := []struct {
		name    string
		minutes float64
		perDay  float64
	}{
		{"Peak Demand", 15, 4},
		{"Base Load", 30, 2},
		{"Emergency", 60, 1},
		{"Storage Fill", 120, 2.0 / 7.0},
	}
	for _, c := range cases {
		sc, err := Lookup(c.name)
		if err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		if sc.SpinMinutes != c.minutes {
			t.Fatalf("%s: spin minutes %v", c.name, sc.SpinMinutes)
		}
		if math.Abs(sc.SpinsPerDay-c.perDay) > 1e-9 {
			t.Fatalf("%s: spins per day %v", c.name, sc.SpinsPerDay)
		}
		if sc.TargetFraction <= 0 || sc.TargetFraction > 1 {
			t.Fatalf("%s: target fraction %v out of (0,1]", c.name, sc.TargetFraction)
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, err := Lookup("Overdrive"); !errors.Is(err, ErrUnknownScenario) {
		t.Fatalf("expected ErrUnknownScenario, got %v", err)
	}
}

func TestAllSortedAndComplete(t *testing.T) {
	all := All()
	if len(all) != 4 {
		t.Fatalf("expected 4 scenarios, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Name >= all[i].Name {
			t.Fatalf("catalog not sorted: %s >= %s", all[i-1].Name, all[i].Name)
		}
	}
}
