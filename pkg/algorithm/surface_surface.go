package algorithm

import (
	"math"

	"github.com/keelcad/keel/pkg/geom"
	"github.com/keelcad/keel/pkg/geometry"
)

// SurfaceSurface computes the intersection curves shared by two surfaces.
// Parallel or coincident surfaces, and configurations outside the supported
// reductions, return no curves; per the kernel's degeneracy policy that is a
// typed outcome, not an error.
//
// Two reductions are implemented for swept-curve surfaces:
//
//   - two planes (swept lines) intersect in a line;
//   - two surfaces swept along the same direction intersect where their
//     generating curves intersect, propagated along the sweep direction.
func SurfaceSurface(a, b geometry.Surface, tol geom.Tolerance) []geometry.Curve {
	sa, ok1 := a.(geometry.SweptCurve)
	sb, ok2 := b.(geometry.SweptCurve)
	if !ok1 || !ok2 {
		return nil
	}

	if na, ok := geometry.PlaneNormal(a); ok {
		if nb, ok := geometry.PlaneNormal(b); ok {
			return planePlane(sa, na, sb, nb, tol)
		}
	}

	// Same sweep direction: reduce to the generating curves.
	cross := sa.Path.Cross(sb.Path)
	if cross.Norm() <= tol.F()*sa.Path.Norm()*sb.Path.Norm() {
		return sweptAlongCommonPath(sa, sb, tol)
	}

	tracer().Debugf("surface-surface intersection: unsupported configuration")
	return nil
}

// planePlane intersects two planes given with their unit normals.
func planePlane(a geometry.SweptCurve, na geom.Vec3, b geometry.SweptCurve, nb geom.Vec3, tol geom.Tolerance) []geometry.Curve {
	d := na.Cross(nb)
	if d.Norm() <= tol.F() {
		// Parallel planes: either disjoint or coincident, no unique curve.
		return nil
	}

	pa := a.Curve.(geometry.Line).Origin
	pb := b.Curve.(geometry.Line).Origin
	da := na.Dot(pa)
	db := nb.Dot(pb)

	// Point on both planes: ((da*nb - db*na) × d) / |d|².
	origin := nb.Scale(da).Sub(na.Scale(db)).Cross(d).Scale(1 / d.Dot(d))

	return []geometry.Curve{geometry.Line{
		Origin:    origin,
		Direction: d.Normalized(),
	}}
}

// sweptAlongCommonPath handles two surfaces extruded along (anti)parallel
// paths: every intersection point of the generating curves yields a line
// along the shared sweep direction. The supported generating pair is a
// circle against a line, which covers cylinder walls against planes.
func sweptAlongCommonPath(a, b geometry.SweptCurve, tol geom.Tolerance) []geometry.Curve {
	circle, okc := a.Curve.(geometry.Circle)
	line, okl := b.Curve.(geometry.Line)
	if !okc || !okl {
		circle, okc = b.Curve.(geometry.Circle)
		line, okl = a.Curve.(geometry.Line)
	}
	if !okc || !okl {
		return nil
	}

	path := a.Path

	// Work in the circle's plane: project the line onto the (A, B) axes.
	// Points on the circle satisfy x² + y² = 1 in normalized axis
	// coordinates.
	ax := circle.A.Scale(1 / circle.A.Dot(circle.A))
	by := circle.B.Scale(1 / circle.B.Dot(circle.B))
	o := line.Origin.Sub(circle.Center)
	ox, oy := o.Dot(ax), o.Dot(by)
	dx, dy := line.Direction.Dot(ax), line.Direction.Dot(by)

	// Solve |o + t*d|² = 1 in normalized coordinates.
	qa := dx*dx + dy*dy
	qb := 2 * (ox*dx + oy*dy)
	qc := ox*ox + oy*oy - 1
	if qa == 0 {
		return nil
	}
	disc := qb*qb - 4*qa*qc
	if disc < -tol.F() {
		return nil
	}
	if disc < 0 {
		disc = 0
	}

	var out []geometry.Curve
	sq := math.Sqrt(disc)
	roots := []float64{(-qb - sq) / (2 * qa), (-qb + sq) / (2 * qa)}
	for i, t := range roots {
		if i == 1 && sq <= tol.F() {
			// Tangent contact: one curve, not two.
			break
		}
		p := geometry.CurvePointAt(geometry.Curve(line), t)
		out = append(out, geometry.Line{Origin: p, Direction: path.Normalized()})
	}
	return out
}
