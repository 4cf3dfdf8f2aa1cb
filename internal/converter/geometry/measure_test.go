package geometry

import (
	"math"
	"testing"

	"gbxml-service/internal/converter/models"
)

func TestFormatCoord(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{-0.0000001, "0"},
		{1.5, "1.5"},
		{1.23456789, "1.234568"},
		{-2.0000004, "-2"},
		{1e-7, "0"},
	}
	for _, tt := range tests {
		if got := FormatCoord(tt.in); got != tt.want {
			t.Errorf("FormatCoord(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCoordinateRoundTrip(t *testing.T) {
	points := []models.Point{
		{X: 1.23456789, Y: -0.0000004, Z: 3},
		{X: 1.0 / 3, Y: 2.0 / 3, Z: -7.1234565},
		{X: 100.1, Y: 0.2, Z: 0.3},
	}
	for _, p := range points {
		first := FormatPoint(p)
		parsed, err := ParsePoint(first)
		if err != nil {
			t.Fatalf("ParsePoint(%v): %v", first, err)
		}
		second := FormatPoint(parsed)
		for i := range first {
			if first[i] != second[i] {
				t.Errorf("axis %d: %q re-emitted as %q", i, first[i], second[i])
			}
		}
	}
}

func TestParsePointInvalid(t *testing.T) {
	if _, err := ParsePoint([]string{"1", "x", "2"}); err == nil {
		t.Fatal("expected error for non-numeric coordinate")
	}
	p, err := ParsePoint([]string{"1", "2"})
	if err != nil {
		t.Fatal(err)
	}
	if p.Z != 0 {
		t.Fatalf("missing axis = %v, want 0", p.Z)
	}
}

func TestOrient(t *testing.T) {
	// south wall facing -Y
	wall := models.Loop{
		{X: 0, Y: 0, Z: 0},
		{X: 4, Y: 0, Z: 0},
		{X: 4, Y: 0, Z: 3},
		{X: 0, Y: 0, Z: 3},
	}
	o := Orient(wall)
	if math.Abs(o.Tilt-90) > 1e-9 {
		t.Errorf("Tilt = %v, want 90", o.Tilt)
	}
	if math.Abs(o.Azimuth-180) > 1e-9 {
		t.Errorf("Azimuth = %v, want 180", o.Azimuth)
	}
	if o.Width != 4 || o.Height != 3 {
		t.Errorf("Width x Height = %v x %v, want 4 x 3", o.Width, o.Height)
	}

	roof := Orient(square)
	if roof.Tilt != 0 || roof.Width != 1 || roof.Height != 1 {
		t.Errorf("roof orientation = %+v", roof)
	}
}

func TestBounds(t *testing.T) {
	b := Bounds(models.Loop{{X: -1, Y: 2, Z: 3}, {X: 4, Y: -5, Z: 6}, {X: 0, Y: 0, Z: 0}})
	if b.Min(0) != -1 || b.Max(0) != 4 || b.Min(1) != -5 || b.Max(2) != 6 {
		t.Fatalf("unexpected bounds %v..%v", b.Min(0), b.Max(0))
	}
}
