package mapper

import (
	"gbxml-service/internal/converter/gbxml"
	"gbxml-service/internal/converter/geometry"
	"gbxml-service/internal/converter/models"
)

// ============================================================
// Loop <-> PolyLoop
// ============================================================

func toPolyLoop(loop models.Loop) gbxml.PolyLoop {
	pl := gbxml.PolyLoop{CartesianPoint: make([]gbxml.CartesianPoint, 0, len(loop))}
	for _, p := range loop {
		pl.CartesianPoint = append(pl.CartesianPoint, toCartesianPoint(p))
	}
	return pl
}

func toCartesianPoint(p models.Point) gbxml.CartesianPoint {
	return gbxml.CartesianPoint{Coordinate: geometry.FormatPoint(p)}
}

// fromPolyLoop parses the loop's points, skipping any that fail to parse.
func fromPolyLoop(pl gbxml.PolyLoop) models.Loop {
	points := make([]models.Point, 0, len(pl.CartesianPoint))
	for _, cp := range pl.CartesianPoint {
		p, err := geometry.ParsePoint(cp.Coordinate)
		if err != nil {
			continue
		}
		points = append(points, p)
	}
	return models.NewLoop(points...)
}
