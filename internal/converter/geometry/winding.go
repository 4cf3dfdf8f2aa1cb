package geometry

import (
	"errors"
	"fmt"
	"math"

	"gbxml-service/internal/converter/models"

	"github.com/golang/geo/r3"
)

// ============================================================
// Winding
// ============================================================

// DefaultPlanarTolerance is the largest vertex offset from a loop's mean
// plane, in model units, accepted by a strict Normalizer.
const DefaultPlanarTolerance = 1e-3

var ErrNonPlanar = errors.New("loop is not planar")

func vec(p models.Point) r3.Vector {
	return r3.Vector{X: p.X, Y: p.Y, Z: p.Z}
}

// Normal returns the Newell normal of the loop. Its length is twice the
// loop's area and it points toward the side from which the loop turns
// counterclockwise.
func Normal(loop models.Loop) r3.Vector {
	var n r3.Vector
	for i := range loop {
		cur := vec(loop[i])
		next := vec(loop[(i+1)%len(loop)])
		n = n.Add(cur.Cross(next))
	}
	return n
}

// IsClockwise reports whether the loop turns clockwise when viewed from
// outside, taking ref as a point inside. A reference point lying in the
// loop's plane is reported as counterclockwise.
func IsClockwise(loop models.Loop, ref models.Point) bool {
	if len(loop) < 3 {
		return false
	}
	toRef := vec(ref).Sub(vec(Centre(loop)))
	return Normal(loop).Dot(toRef) > 0
}

// Normalize returns the loop wound counterclockwise as seen from outside,
// reversing it when it is clockwise relative to ref. The input is not
// modified.
func Normalize(loop models.Loop, ref models.Point) models.Loop {
	if IsClockwise(loop, ref) {
		return loop.Reversed()
	}
	return append(models.Loop(nil), loop...)
}

// Normalizer applies Normalize and optionally rejects non-planar loops.
type Normalizer struct {
	Strict    bool
	Tolerance float64
}

func (n Normalizer) Normalize(loop models.Loop, ref models.Point) (models.Loop, error) {
	if n.Strict {
		tol := n.Tolerance
		if tol <= 0 {
			tol = DefaultPlanarTolerance
		}
		if dev := PlanarDeviation(loop); dev > tol {
			return nil, fmt.Errorf("%w: deviation %.6f exceeds %.6f", ErrNonPlanar, dev, tol)
		}
	}
	return Normalize(loop, ref), nil
}

// PlanarDeviation returns the largest distance of a vertex from the plane
// through the loop centre with the loop's Newell normal.
func PlanarDeviation(loop models.Loop) float64 {
	if len(loop) < 4 {
		return 0
	}
	n := Normal(loop)
	if n.Norm() == 0 {
		return 0
	}
	n = n.Normalize()
	c := vec(Centre(loop))

	var worst float64
	for _, p := range loop {
		if d := math.Abs(vec(p).Sub(c).Dot(n)); d > worst {
			worst = d
		}
	}
	return worst
}
