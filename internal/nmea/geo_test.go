package nmea

import (
	"math"
	"testing"
)

func TestDistanceBetween(t *testing.T) {
	// One degree of longitude along the equator.
	d := DistanceBetween(0, 0, 0, 1)
	want := radians(1) * earthRadiusM
	if math.Abs(d-want) > 1 {
		t.Fatalf("distance=%v want %v", d, want)
	}

	if d := DistanceBetween(48.1173, 11.5167, 48.1173, 11.5167); d != 0 {
		t.Fatalf("distance to self=%v want 0", d)
	}

	// London to Paris is roughly 344 km.
	d = DistanceBetween(51.508131, -0.128002, 48.85340, 2.34880)
	if d < 330000 || d > 350000 {
		t.Fatalf("London-Paris=%v want ~344km", d)
	}
}

func TestCourseTo(t *testing.T) {
	if c := CourseTo(0, 0, 1, 0); math.Abs(c-0) > 1e-9 {
		t.Errorf("north course=%v want 0", c)
	}
	if c := CourseTo(0, 0, 0, 1); math.Abs(c-90) > 1e-9 {
		t.Errorf("east course=%v want 90", c)
	}
	if c := CourseTo(1, 0, 0, 0); math.Abs(c-180) > 1e-9 {
		t.Errorf("south course=%v want 180", c)
	}
	if c := CourseTo(0, 1, 0, 0); math.Abs(c-270) > 1e-9 {
		t.Errorf("west course=%v want 270", c)
	}
}

func TestCardinal(t *testing.T) {
	cases := []struct {
		course float64
		want   string
	}{
		{0, "N"},
		{11.2, "N"},
		{11.3, "NNE"},
		{45, "NE"},
		{90, "E"},
		{185, "S"},
		{270, "W"},
		{350, "N"},
	}
	for _, c := range cases {
		if got := Cardinal(c.course); got != c.want {
			t.Errorf("Cardinal(%v)=%q want %q", c.course, got, c.want)
		}
	}
}
