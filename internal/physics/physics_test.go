package physics

import (
	"sort"
	"testing"
)

func TestRectOverlaps(t *testing.T) {
	base := Rect{X: 10, Y: 10, W: 50, H: 50}
	tests := []struct {
		name string
		o    Rect
		want bool
	}{
		{"identical", base, true},
		{"contained", Rect{X: 20, Y: 20, W: 5, H: 10}, true},
		{"partial corner", Rect{X: 55, Y: 55, W: 10, H: 10}, true},
		{"touching right edge", Rect{X: 60, Y: 10, W: 10, H: 10}, false},
		{"touching bottom edge", Rect{X: 10, Y: 60, W: 10, H: 10}, false},
		{"far left", Rect{X: -100, Y: 10, W: 10, H: 10}, false},
		{"above", Rect{X: 10, Y: -30, W: 50, H: 30}, false},
		{"just above", Rect{X: 10, Y: -29.5, W: 50, H: 40}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Overlaps(tt.o); got != tt.want {
				t.Errorf("Overlaps(%+v) = %v, want %v", tt.o, got, tt.want)
			}
			if got := tt.o.Overlaps(base); got != tt.want {
				t.Errorf("reverse Overlaps(%+v) = %v, want %v", tt.o, got, tt.want)
			}
		})
	}
}

func TestClampInto(t *testing.T) {
	tests := []struct {
		in   Rect
		want Rect
	}{
		{Rect{X: -20, Y: -5, W: 50, H: 50}, Rect{X: 0, Y: 0, W: 50, H: 50}},
		{Rect{X: 790, Y: 590, W: 50, H: 50}, Rect{X: 750, Y: 550, W: 50, H: 50}},
		{Rect{X: 375, Y: 530, W: 50, H: 50}, Rect{X: 375, Y: 530, W: 50, H: 50}},
	}
	for _, tt := range tests {
		r := tt.in
		r.ClampInto(800, 600)
		if r != tt.want {
			t.Errorf("ClampInto(%+v) = %+v, want %+v", tt.in, r, tt.want)
		}
	}
}

func TestSpatialGridFindsOverlaps(t *testing.T) {
	rects := []Rect{
		{X: 0, Y: 0, W: 50, H: 50},
		{X: 400, Y: 100, W: 50, H: 50},
		{X: 420, Y: 120, W: 50, H: 50},
		{X: 300, Y: -120, W: 50, H: 50}, // above the canvas
		{X: 760, Y: 580, W: 50, H: 50},  // hanging off the bottom right
	}

	g := NewSpatialGrid(800, 600, 50)
	for i, r := range rects {
		g.Insert(r, i)
	}

	probes := []Rect{
		{X: 410, Y: 110, W: 5, H: 10},
		{X: 310, Y: -100, W: 5, H: 10},
		{X: 790, Y: 599, W: 5, H: 10},
		{X: 600, Y: 300, W: 5, H: 10},
	}

	for _, p := range probes {
		var brute []int
		for i, r := range rects {
			if p.Overlaps(r) {
				brute = append(brute, i)
			}
		}

		seen := map[int]bool{}
		var found []int
		g.Query(p, func(i int) bool {
			if !seen[i] && p.Overlaps(rects[i]) {
				seen[i] = true
				found = append(found, i)
			}
			return false
		})
		sort.Ints(found)

		if len(found) != len(brute) {
			t.Fatalf("probe %+v: grid found %v, brute force %v", p, found, brute)
		}
		for i := range found {
			if found[i] != brute[i] {
				t.Fatalf("probe %+v: grid found %v, brute force %v", p, found, brute)
			}
		}
	}
}

func TestSpatialGridClear(t *testing.T) {
	g := NewSpatialGrid(100, 100, 10)
	g.Insert(Rect{X: 5, Y: 5, W: 1, H: 1}, 0)
	g.Clear()

	called := false
	g.Query(Rect{X: 0, Y: 0, W: 100, H: 100}, func(int) bool {
		called = true
		return true
	})
	if called {
		t.Fatal("expected empty grid after Clear")
	}
}
