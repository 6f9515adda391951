package sim

import "testing"

func TestDistanceSquared(t *testing.T) {
	cases := []struct {
		name string
		a, b Point
		want int
	}{
		{"same point", Point{X: 3, Y: 3}, Point{X: 3, Y: 3}, 0},
		{"orthogonal", Point{X: 0, Y: 0}, Point{X: 0, Y: 4}, 16},
		{"diagonal", Point{X: 1, Y: 1}, Point{X: 4, Y: 5}, 25},
		{"negative deltas", Point{X: 2, Y: 2}, Point{X: 0, Y: 0}, 8},
	}
	for _, tc := range cases {
		if got := tc.a.DistanceSquared(tc.b); got != tc.want {
			t.Fatalf("%s: expected distance %d, got %d", tc.name, tc.want, got)
		}
	}
}

func TestAdjacent(t *testing.T) {
	center := Point{X: 5, Y: 5}
	cases := []struct {
		name  string
		other Point
		want  bool
	}{
		{"self", Point{X: 5, Y: 5}, false},
		{"left", Point{X: 4, Y: 5}, true},
		{"above", Point{X: 5, Y: 4}, true},
		{"diagonal", Point{X: 6, Y: 6}, true},
		{"two away horizontally", Point{X: 7, Y: 5}, false},
		{"knight move", Point{X: 7, Y: 6}, false},
	}
	for _, tc := range cases {
		if got := center.Adjacent(tc.other); got != tc.want {
			t.Fatalf("%s: expected adjacent=%v, got %v", tc.name, tc.want, got)
		}
		if got := tc.other.Adjacent(center); got != tc.want {
			t.Fatalf("%s reversed: expected adjacent=%v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestSign(t *testing.T) {
	if got := sign(7); got != 1 {
		t.Fatalf("expected sign(7)=1, got %d", got)
	}
	if got := sign(-3); got != -1 {
		t.Fatalf("expected sign(-3)=-1, got %d", got)
	}
	if got := sign(0); got != 0 {
		t.Fatalf("expected sign(0)=0, got %d", got)
	}
}
