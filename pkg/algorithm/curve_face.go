package algorithm

import (
	"math"
	"sort"

	"github.com/keelcad/keel/pkg/geom"
	"github.com/keelcad/keel/pkg/geometry"
	"github.com/keelcad/keel/pkg/topology"
)

// CurveFaceIntersection is an interval, in curve coordinates, over which a
// curve runs through the bounded region of a face.
type CurveFaceIntersection struct {
	Start, End float64
}

// CurveFaceIntersectionList is an ordered list of disjoint curve-coordinate
// intervals.
type CurveFaceIntersectionList struct {
	Intervals []CurveFaceIntersection
}

// IsEmpty reports whether the list contains no intervals.
func (l CurveFaceIntersectionList) IsEmpty() bool {
	return len(l.Intervals) == 0
}

// Merge intersects two interval lists: the result contains the curve
// parameter ranges present in both. Both lists must be ordered, which
// CurveFace guarantees.
func (l CurveFaceIntersectionList) Merge(o CurveFaceIntersectionList) CurveFaceIntersectionList {
	var out CurveFaceIntersectionList
	i, j := 0, 0
	for i < len(l.Intervals) && j < len(o.Intervals) {
		a := l.Intervals[i]
		b := o.Intervals[j]
		lo := math.Max(a.Start, b.Start)
		hi := math.Min(a.End, b.End)
		if lo < hi {
			out.Intervals = append(out.Intervals, CurveFaceIntersection{Start: lo, End: hi})
		}
		if a.End < b.End {
			i++
		} else {
			j++
		}
	}
	return out
}

// CurveFace intersects a surface-local curve with the bounded region of a
// face, returning the ordered curve-coordinate intervals where the curve is
// inside. The curve is tested against every boundary cycle's edges in turn;
// interior cycles flip the even-odd parity, so a stretch inside a hole is
// excluded even though it is inside the exterior.
//
// Only line curves are supported; other curve kinds return the empty list.
func CurveFace(curve geometry.Curve2, face topology.FaceBRep, tol geom.Tolerance) CurveFaceIntersectionList {
	line, ok := curve.(geometry.Line2)
	if !ok || line.Direction.Norm() == 0 {
		tracer().Debugf("curve-face intersection: unsupported curve kind %T", curve)
		return CurveFaceIntersectionList{}
	}

	var ts []float64
	for _, cycle := range face.AllCycles() {
		points := ApproxCycle(cycle, tol)
		for i := range points {
			seg := Segment{A: points[i], B: points[(i+1)%len(points)]}
			if t, ok := lineSegmentCrossing(line, seg, tol); ok {
				ts = append(ts, t)
			}
		}
	}

	sort.Float64s(ts)

	// Collapse hits that coincide within parameter tolerance, which happens
	// when the curve passes exactly through a polygon vertex shared by two
	// boundary segments.
	e := tol.F() / line.Direction.Norm()
	var dedup []float64
	for _, t := range ts {
		if len(dedup) > 0 && t-dedup[len(dedup)-1] <= e {
			continue
		}
		dedup = append(dedup, t)
	}

	if len(dedup)%2 != 0 {
		// A grazing tangency survived deduplication; drop it rather than
		// produce an unbounded interval.
		tracer().Debugf("curve-face intersection: odd crossing count %d", len(dedup))
		dedup = dedup[:len(dedup)-1]
	}

	var out CurveFaceIntersectionList
	for i := 0; i+1 < len(dedup); i += 2 {
		out.Intervals = append(out.Intervals, CurveFaceIntersection{
			Start: dedup[i],
			End:   dedup[i+1],
		})
	}
	return out
}

// lineSegmentCrossing intersects an infinite line with a bounded segment,
// returning the line parameter of the crossing. The segment's start endpoint
// is inclusive and its end exclusive, so a crossing through a shared polygon
// vertex is counted once.
func lineSegmentCrossing(line geometry.Line2, seg Segment, tol geom.Tolerance) (float64, bool) {
	d := line.Direction
	s := seg.B.Sub(seg.A)
	det := d.Cross(s)
	if math.Abs(det) <= tol.F()*d.Norm()*s.Norm() {
		return 0, false
	}
	w := seg.A.Sub(line.Origin)
	t := w.Cross(s) / det
	u := w.Cross(d) / det
	if u < 0 || u >= 1 {
		return 0, false
	}
	return t, true
}
