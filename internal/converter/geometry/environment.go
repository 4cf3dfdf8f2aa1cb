package geometry

import (
	"fmt"
	"math"

	"gbxml-service/internal/converter/models"

	"github.com/golang/geo/r3"
)

// ============================================================
// Environment queries
// ============================================================

// EnvironmentQuery supplies the derived properties of a space.
type EnvironmentQuery interface {
	Centre(space *models.Space) models.Point
	FloorArea(space *models.Space) float64
	Volume(space *models.Space) float64
}

// Environment computes space properties directly from panel boundaries.
type Environment struct{}

// Centre returns the mean of the distinct vertices of the space's panels.
func (Environment) Centre(space *models.Space) models.Point {
	seen := make(map[string]struct{})
	var sum r3.Vector
	count := 0
	for _, p := range space.Panels {
		if p == nil {
			continue
		}
		for _, pt := range p.Boundary {
			key := fmt.Sprintf("%.6f|%.6f|%.6f", pt.X, pt.Y, pt.Z)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			sum = sum.Add(vec(pt))
			count++
		}
	}
	if count == 0 {
		return models.Point{}
	}
	sum = sum.Mul(1 / float64(count))
	return models.Point{X: sum.X, Y: sum.Y, Z: sum.Z}
}

// FloorArea sums floor-typed panels. When no panel is typed as a floor, the
// downward-facing horizontal panels are used instead.
func (e Environment) FloorArea(space *models.Space) float64 {
	var typed, facingDown float64
	hasTyped := false
	centre := e.Centre(space)

	for _, p := range space.Panels {
		if p == nil || len(p.Boundary) < 3 {
			continue
		}
		area := Area(p.Boundary)
		if p.Type.IsFloor() {
			typed += area
			hasTyped = true
			continue
		}
		n := Normal(Normalize(p.Boundary, centre))
		if n.Norm() > 0 && n.Normalize().Z < -0.9 {
			facingDown += area
		}
	}
	if hasTyped {
		return typed
	}
	return facingDown
}

// Volume integrates over the shell with every loop oriented outward. The
// result is only meaningful for closed shells.
func (e Environment) Volume(space *models.Space) float64 {
	centre := e.Centre(space)
	origin := vec(centre)

	var total float64
	for _, p := range space.Panels {
		if p == nil || len(p.Boundary) < 3 {
			continue
		}
		loop := Normalize(p.Boundary, centre)
		a := vec(loop[0]).Sub(origin)
		for i := 1; i+1 < len(loop); i++ {
			b := vec(loop[i]).Sub(origin)
			c := vec(loop[i+1]).Sub(origin)
			total += a.Dot(b.Cross(c)) / 6
		}
	}
	return math.Abs(total)
}
