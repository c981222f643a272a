package geometry

import (
	"math"

	"github.com/keelcad/keel/pkg/geom"
)

// Curve2 is the sum type over curve kinds expressed in a surface's 2D
// parameter space. It is the local half of an edge's curve; the global half
// is a Curve.
type Curve2 interface {
	isCurve2()
}

// Line2 is a line in surface coordinates, parametrized as Origin +
// t*Direction.
type Line2 struct {
	Origin    geom.Vec2
	Direction geom.Vec2
}

// Circle2 is a circle in surface coordinates, parametrized as Center +
// radius*(cos(t), sin(t)).
type Circle2 struct {
	Center geom.Vec2
	Radius float64
}

func (Line2) isCurve2()   {}
func (Circle2) isCurve2() {}

// Curve2PointAt maps a curve coordinate to the curve's point in surface
// coordinates.
func Curve2PointAt(c Curve2, t float64) geom.Vec2 {
	switch c := c.(type) {
	case Line2:
		return c.Origin.Add(c.Direction.Scale(t))
	case Circle2:
		return c.Center.Add(geom.V2(math.Cos(t), math.Sin(t)).Scale(c.Radius))
	default:
		panic("geometry: unknown 2D curve kind")
	}
}
