package geometry

import (
	"math"
	"testing"
)

func TestIoU_Identical(t *testing.T) {
	boxes := []Box{
		{X: 0, Y: 0, W: 10, H: 10},
		{X: 5, Y: 7, W: 100, H: 3},
		{X: 200, Y: 150, W: 1, H: 1},
	}
	for _, b := range boxes {
		if got := IoU(b, b); math.Abs(got-1.0) > 1e-9 {
			t.Errorf("IoU(%+v, same) = %v, want 1.0", b, got)
		}
	}
}

func TestIoU_Disjoint(t *testing.T) {
	a := Box{X: 0, Y: 0, W: 10, H: 10}
	tests := []struct {
		name string
		b    Box
	}{
		{"right of a", Box{X: 20, Y: 0, W: 10, H: 10}},
		{"below a", Box{X: 0, Y: 30, W: 10, H: 10}},
		{"touching edge", Box{X: 10, Y: 0, W: 10, H: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IoU(a, tt.b); got != 0 {
				t.Errorf("IoU = %v, want 0", got)
			}
		})
	}
}

func TestIoU_PartialOverlap(t *testing.T) {
	a := Box{X: 0, Y: 0, W: 10, H: 10}
	b := Box{X: 5, Y: 0, W: 10, H: 10}

	// Intersection 50, union 150.
	want := 50.0 / 150.0
	if got := IoU(a, b); math.Abs(got-want) > 1e-9 {
		t.Errorf("IoU = %v, want %v", got, want)
	}
	if IoU(a, b) != IoU(b, a) {
		t.Error("IoU is not symmetric")
	}
}

func TestHorizontalOverlap_Containment(t *testing.T) {
	wide := Box{X: 0, Y: 0, W: 100, H: 10}
	narrow := Box{X: 20, Y: 0, W: 30, H: 10}

	if got := HorizontalOverlap(wide, narrow); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("contained box should score 1.0, got %v", got)
	}
}

func TestHorizontalOverlap_Disjoint(t *testing.T) {
	a := Box{X: 0, Y: 0, W: 10, H: 10}
	b := Box{X: 50, Y: 0, W: 10, H: 10}
	if got := HorizontalOverlap(a, b); got != 0 {
		t.Errorf("got %v, want 0", got)
	}
}

func TestVerticalOverlap(t *testing.T) {
	a := Box{X: 0, Y: 0, W: 10, H: 10}
	b := Box{X: 0, Y: 5, W: 10, H: 20}

	// Intersection height 5, smaller height 10.
	want := 0.5
	if got := VerticalOverlap(a, b); math.Abs(got-want) > 1e-9 {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestUnion_ContainsBoth(t *testing.T) {
	tests := []struct {
		name string
		a, b Box
	}{
		{"disjoint", Box{X: 0, Y: 0, W: 10, H: 10}, Box{X: 50, Y: 60, W: 5, H: 5}},
		{"overlapping", Box{X: 0, Y: 0, W: 10, H: 10}, Box{X: 5, Y: 5, W: 10, H: 10}},
		{"nested", Box{X: 0, Y: 0, W: 100, H: 100}, Box{X: 10, Y: 10, W: 5, H: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := Union(tt.a, tt.b)
			if !Contains(u, tt.a) {
				t.Errorf("union %+v does not contain a %+v", u, tt.a)
			}
			if !Contains(u, tt.b) {
				t.Errorf("union %+v does not contain b %+v", u, tt.b)
			}
		})
	}
}

func TestUnion_Exact(t *testing.T) {
	a := Box{X: 10, Y: 10, W: 20, H: 12}
	b := Box{X: 30, Y: 10, W: 15, H: 12}
	u := Union(a, b)
	want := Box{X: 10, Y: 10, W: 35, H: 12}
	if u != want {
		t.Errorf("Union = %+v, want %+v", u, want)
	}
}
