// Package geometry defines the curve and surface variants of the kernel and
// the local/global duality wrapper that keeps parametric and global forms of
// an object in sync. Curves and surfaces are sum types: a sealed marker
// interface with one struct per kind, dispatched by type switch. Adding a kind
// means adding a variant and a case in each dispatcher.
package geometry

import (
	"math"

	"github.com/keelcad/keel/pkg/geom"
)

// Curve is the sum type over curve kinds embedded in global 3D space.
type Curve interface {
	isCurve()
}

// Line is an infinite line, parametrized as Origin + t*Direction.
type Line struct {
	Origin    geom.Vec3
	Direction geom.Vec3
}

// Circle is a circle parametrized as Center + cos(t)*A + sin(t)*B, where A
// and B span the circle's plane and their lengths are the radius.
type Circle struct {
	Center geom.Vec3
	A, B   geom.Vec3
}

func (Line) isCurve()   {}
func (Circle) isCurve() {}

// Radius returns the circle's radius.
func (c Circle) Radius() float64 {
	return c.A.Norm()
}

// CurvePointAt maps a curve coordinate to the curve's point in global space.
func CurvePointAt(c Curve, t float64) geom.Vec3 {
	switch c := c.(type) {
	case Line:
		return c.Origin.Add(c.Direction.Scale(t))
	case Circle:
		return c.Center.Add(c.A.Scale(math.Cos(t))).Add(c.B.Scale(math.Sin(t)))
	default:
		panic("geometry: unknown curve kind")
	}
}

// CurveCoordsFromPoint projects a global point onto the curve and returns its
// curve coordinate. Points off the curve are projected first, which is only
// meaningful when the caller knows the point lies on the curve within
// tolerance.
func CurveCoordsFromPoint(c Curve, p geom.Vec3) float64 {
	switch c := c.(type) {
	case Line:
		d := c.Direction
		den := d.Dot(d)
		if den == 0 {
			return 0
		}
		return p.Sub(c.Origin).Dot(d) / den
	case Circle:
		r := p.Sub(c.Center)
		ca := r.Dot(c.A) / c.A.Dot(c.A)
		sb := r.Dot(c.B) / c.B.Dot(c.B)
		return math.Atan2(sb, ca)
	default:
		panic("geometry: unknown curve kind")
	}
}

// ReverseCurve returns the curve with its parametrization direction flipped
// so that ReverseCurve(c) at t equals c at -t (lines negate their direction,
// circles their B axis).
func ReverseCurve(c Curve) Curve {
	switch c := c.(type) {
	case Line:
		return Line{Origin: c.Origin, Direction: c.Direction.Scale(-1)}
	case Circle:
		return Circle{Center: c.Center, A: c.A, B: c.B.Scale(-1)}
	default:
		panic("geometry: unknown curve kind")
	}
}

// TransformCurve maps a curve through an affine transform: origins and
// centers as points, directions and axes as vectors.
func TransformCurve(c Curve, t geom.Transform) Curve {
	switch c := c.(type) {
	case Line:
		return Line{
			Origin:    t.TransformPoint(c.Origin),
			Direction: t.TransformVector(c.Direction),
		}
	case Circle:
		return Circle{
			Center: t.TransformPoint(c.Center),
			A:      t.TransformVector(c.A),
			B:      t.TransformVector(c.B),
		}
	default:
		panic("geometry: unknown curve kind")
	}
}
