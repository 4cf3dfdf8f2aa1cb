package geometry

import (
	"math"
	"strconv"

	"gbxml-service/internal/converter/models"

	"github.com/golang/geo/r3"
	geom "github.com/twpayne/go-geom"
)

// ============================================================
// Loop measures
// ============================================================

// Centre returns the mean of the loop's vertices.
func Centre(loop models.Loop) models.Point {
	if len(loop) == 0 {
		return models.Point{}
	}
	var sum r3.Vector
	for _, p := range loop {
		sum = sum.Add(vec(p))
	}
	sum = sum.Mul(1 / float64(len(loop)))
	return models.Point{X: sum.X, Y: sum.Y, Z: sum.Z}
}

// Area returns the area of a planar loop.
func Area(loop models.Loop) float64 {
	if len(loop) < 3 {
		return 0
	}
	return Normal(loop).Norm() / 2
}

// Bounds returns the axis-aligned XYZ bounds of the loop.
func Bounds(loop models.Loop) *geom.Bounds {
	flat := make([]float64, 0, len(loop)*3)
	for _, p := range loop {
		flat = append(flat, p.X, p.Y, p.Z)
	}
	return geom.NewLinearRingFlat(geom.XYZ, flat).Bounds()
}

// Orientation describes a loop the way a rectangular geometry record does.
type Orientation struct {
	Tilt    float64
	Azimuth float64
	Width   float64
	Height  float64
}

// Orient derives tilt and azimuth (degrees, azimuth clockwise from +Y) from
// the loop normal, and a width/height pair from its bounds. Horizontal loops
// report their X and Y extents; all others their plan length and Z extent.
func Orient(loop models.Loop) Orientation {
	var o Orientation
	if len(loop) < 3 {
		return o
	}

	n := Normal(loop)
	if n.Norm() > 0 {
		n = n.Normalize()
		o.Tilt = math.Acos(clamp(n.Z, -1, 1)) * 180 / math.Pi
		if math.Hypot(n.X, n.Y) > 1e-9 {
			az := math.Atan2(n.X, n.Y) * 180 / math.Pi
			if az < 0 {
				az += 360
			}
			o.Azimuth = az
		}
	}

	b := Bounds(loop)
	dx := b.Max(0) - b.Min(0)
	dy := b.Max(1) - b.Min(1)
	dz := b.Max(2) - b.Min(2)
	if o.Tilt < 1 || o.Tilt > 179 {
		o.Width, o.Height = dx, dy
	} else {
		o.Width, o.Height = math.Hypot(dx, dy), dz
	}
	return o
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ============================================================
// Coordinate formatting
// ============================================================

// Round6 rounds to six decimal places.
func Round6(v float64) float64 {
	r := math.Round(v*1e6) / 1e6
	if r == 0 {
		return 0
	}
	return r
}

// FormatCoord renders a coordinate rounded to six places without exponent
// or trailing zeros.
func FormatCoord(v float64) string {
	return strconv.FormatFloat(Round6(v), 'f', -1, 64)
}

// FormatPoint renders X, Y and Z in that order.
func FormatPoint(p models.Point) []string {
	return []string{FormatCoord(p.X), FormatCoord(p.Y), FormatCoord(p.Z)}
}

// ParsePoint is the inverse of FormatPoint. Missing axes read as zero.
func ParsePoint(coords []string) (models.Point, error) {
	var v [3]float64
	for i := 0; i < len(coords) && i < 3; i++ {
		f, err := strconv.ParseFloat(coords[i], 64)
		if err != nil {
			return models.Point{}, err
		}
		v[i] = f
	}
	return models.Point{X: v[0], Y: v[1], Z: v[2]}, nil
}
