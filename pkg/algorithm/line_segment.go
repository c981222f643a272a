package algorithm

import (
	"math"

	"github.com/keelcad/keel/pkg/geom"
)

// Segment is a bounded line segment in surface coordinates, parametrized from
// A (t=0) to B (t=1).
type Segment struct {
	A, B geom.Vec2
}

// LineSegmentIntersectionKind classifies the outcome of intersecting two
// segments. Degenerate configurations (parallel, colinear overlap) are
// expected branches of the algorithm, not errors.
type LineSegmentIntersectionKind int

const (
	// IntersectionNone: the segments do not meet, or are parallel without
	// colinear overlap.
	IntersectionNone LineSegmentIntersectionKind = iota

	// IntersectionPoint: the segments meet in a unique point.
	IntersectionPoint

	// IntersectionOverlap: the segments are colinear and share more than a
	// point.
	IntersectionOverlap
)

// LineSegmentIntersection is the result of intersecting two segments. TA and
// TB are the parametric positions of the intersection on each segment, valid
// when Kind is IntersectionPoint.
type LineSegmentIntersection struct {
	Kind   LineSegmentIntersectionKind
	TA, TB float64
	Point  geom.Vec2
}

// LineSegment intersects two bounded segments. Parallelism is detected by
// comparing the normalized determinant of the direction pair against the
// tolerance, never against exact zero.
func LineSegment(a, b Segment, tol geom.Tolerance) LineSegmentIntersection {
	da := a.B.Sub(a.A)
	db := b.B.Sub(b.A)
	la := da.Norm()
	lb := db.Norm()
	if la == 0 || lb == 0 {
		// Zero-length segment, a degenerate input.
		return LineSegmentIntersection{Kind: IntersectionNone}
	}

	det := da.Cross(db)
	if math.Abs(det) <= tol.F()*la*lb {
		return parallelSegments(a, b, da, la, tol)
	}

	w := b.A.Sub(a.A)
	ta := w.Cross(db) / det
	tb := w.Cross(da) / det

	// Parameter-space slack equivalent to the spatial tolerance.
	ea := tol.F() / la
	eb := tol.F() / lb
	if ta < -ea || ta > 1+ea || tb < -eb || tb > 1+eb {
		return LineSegmentIntersection{Kind: IntersectionNone}
	}

	return LineSegmentIntersection{
		Kind:  IntersectionPoint,
		TA:    ta,
		TB:    tb,
		Point: a.A.Add(da.Scale(ta)),
	}
}

// parallelSegments resolves the parallel branch: colinear segments overlap if
// their parameter intervals on the shared line intersect.
func parallelSegments(a, b Segment, da geom.Vec2, la float64, tol geom.Tolerance) LineSegmentIntersection {
	// Distance of b's start from a's line.
	if math.Abs(b.A.Sub(a.A).Cross(da))/la > tol.F() {
		return LineSegmentIntersection{Kind: IntersectionNone}
	}

	// Project b's endpoints onto a's parametrization.
	dd := da.Dot(da)
	t0 := b.A.Sub(a.A).Dot(da) / dd
	t1 := b.B.Sub(a.A).Dot(da) / dd
	lo := math.Min(t0, t1)
	hi := math.Max(t0, t1)

	e := tol.F() / la
	if hi < -e || lo > 1+e {
		return LineSegmentIntersection{Kind: IntersectionNone}
	}
	if math.Min(hi, 1)-math.Max(lo, 0) <= e {
		// Segments touch in at most a point; report the shared endpoint on
		// both parametrizations.
		t := math.Max(math.Min(lo, 1), 0)
		tb := (t - t0) / (t1 - t0)
		tb = math.Max(math.Min(tb, 1), 0)
		return LineSegmentIntersection{
			Kind:  IntersectionPoint,
			TA:    t,
			TB:    tb,
			Point: a.A.Add(da.Scale(t)),
		}
	}
	return LineSegmentIntersection{Kind: IntersectionOverlap}
}
