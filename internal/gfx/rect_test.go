package gfx

import "testing"

func TestRectUnionContainsOperands(t *testing.T) {
	cases := []struct {
		name string
		a, b Rect
	}{
		{"disjoint", Rect{0, 0, 10, 10}, Rect{50, 50, 5, 5}},
		{"overlapping", Rect{0, 0, 10, 10}, Rect{5, 5, 10, 10}},
		{"one empty", Rect{}, Rect{3, 3, 4, 4}},
		{"both empty", Rect{}, Rect{}},
		{"nested", Rect{0, 0, 100, 100}, Rect{10, 10, 5, 5}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u := tc.a.Union(tc.b)

			if !u.Contains(tc.a) {
				t.Errorf("union %+v does not contain %+v", u, tc.a)
			}

			if !u.Contains(tc.b) {
				t.Errorf("union %+v does not contain %+v", u, tc.b)
			}
		})
	}
}

func TestRectUnionIdentity(t *testing.T) {
	r := Rect{X: 4, Y: 4, W: 8, H: 8}

	if got := (Rect{}).Union(r); got != r {
		t.Errorf("zero rect is not the identity of union: got %+v, want %+v", got, r)
	}
}

func TestClipBounds(t *testing.T) {
	r := clip(Rect{X: -5, Y: -5, W: 20, H: 20}, 10, 10)

	want := Rect{X: 0, Y: 0, W: 10, H: 10}
	if r != want {
		t.Errorf("clip = %+v, want %+v", r, want)
	}

	if got := clip(Rect{X: 100, Y: 100, W: 5, H: 5}, 10, 10); !got.Empty() {
		t.Errorf("clip of out-of-bounds rect should be empty, got %+v", got)
	}
}
