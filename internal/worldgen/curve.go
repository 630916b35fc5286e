package worldgen

import (
	"errors"
	"slices"
)

// ControlPoint maps an input noise value to an output value.
type ControlPoint struct {
	In, Out float64
}

// Curve is a piecewise linear response curve through sorted control points.
// Inputs outside the first and last point are clamped to the end values.
type Curve struct {
	points []ControlPoint
}

// TerrainCurve flattens most of the noise range into plains, carves a narrow
// trench near the low end and lifts the upper quarter into hills.
var TerrainCurve = MustCurve(
	ControlPoint{-1.0, 0.0},
	ControlPoint{-0.8, 0.0},
	ControlPoint{-0.75, -0.25},
	ControlPoint{-0.7, 0.0},
	ControlPoint{0.25, 0.0},
	ControlPoint{0.5, 0.75},
	ControlPoint{1.0, 1.0},
)

var ErrCurvePoints = errors.New("curve needs at least two control points with distinct inputs")

// NewCurve builds a curve from control points in any order.
func NewCurve(points ...ControlPoint) (Curve, error) {
	pts := slices.Clone(points)
	slices.SortFunc(pts, func(a, b ControlPoint) int {
		switch {
		case a.In < b.In:
			return -1
		case a.In > b.In:
			return 1
		}
		return 0
	})
	if len(pts) < 2 {
		return Curve{}, ErrCurvePoints
	}
	for i := 1; i < len(pts); i++ {
		if pts[i].In == pts[i-1].In {
			return Curve{}, ErrCurvePoints
		}
	}
	return Curve{points: pts}, nil
}

// MustCurve is NewCurve for static control points.
func MustCurve(points ...ControlPoint) Curve {
	c, err := NewCurve(points...)
	if err != nil {
		panic(err)
	}
	return c
}

// Map evaluates the curve at v.
func (c Curve) Map(v float64) float64 {
	pts := c.points
	if len(pts) == 0 {
		return v
	}
	if v <= pts[0].In {
		return pts[0].Out
	}
	last := pts[len(pts)-1]
	if v >= last.In {
		return last.Out
	}
	i, _ := slices.BinarySearchFunc(pts, v, func(p ControlPoint, v float64) int {
		switch {
		case p.In < v:
			return -1
		case p.In > v:
			return 1
		}
		return 0
	})
	// pts[i-1].In < v <= pts[i].In
	a, b := pts[i-1], pts[i]
	t := (v - a.In) / (b.In - a.In)
	return a.Out + t*(b.Out-a.Out)
}
