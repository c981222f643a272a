package algorithm

import (
	"math"

	"github.com/keelcad/keel/pkg/geom"
	"github.com/keelcad/keel/pkg/geometry"
	"github.com/keelcad/keel/pkg/topology"
)

// ApproxCycle flattens a cycle into a closed polyline in surface coordinates.
// The returned points do not repeat the first point at the end. The tolerance
// bounds the deviation of the polyline from any curved edge.
func ApproxCycle(c topology.Cycle, tol geom.Tolerance) []geom.Vec2 {
	var points []geom.Vec2
	for _, e := range c.Edges {
		points = append(points, ApproxEdge(e, tol)...)
	}
	return points
}

// ApproxEdge samples an edge into surface-coordinate points, from its start
// (inclusive) to its end (exclusive), honoring the edge's traversal
// direction. The subdivision count is driven by the edge's global curve, so
// a straight local segment that maps onto a curved global edge still gets
// subdivided finely enough.
func ApproxEdge(e topology.Edge, tol geom.Tolerance) []geom.Vec2 {
	t0, t1 := edgeParamRange(e)
	if e.Reverse {
		t0, t1 = t1, t0
	}

	n := 1
	if circle, ok := e.Curve.Global().(geometry.Circle); ok {
		n = circleSegmentCount(circle.Radius(), math.Abs(t1-t0), tol)
	}

	points := make([]geom.Vec2, 0, n)
	for i := 0; i < n; i++ {
		t := t0 + (t1-t0)*float64(i)/float64(n)
		points = append(points, geometry.Curve2PointAt(e.Curve.Local(), t))
	}
	return points
}

// edgeParamRange returns the curve-coordinate interval the edge spans: its
// bounding vertices, or one full turn for a closed edge.
func edgeParamRange(e topology.Edge) (float64, float64) {
	if e.Vertices == nil {
		return 0, 2 * math.Pi
	}
	return e.Vertices[0].Position, e.Vertices[1].Position
}

// circleSegmentCount returns how many chords are needed so that the chord
// height (sagitta) of a circular arc stays within the tolerance.
func circleSegmentCount(radius, sweep float64, tol geom.Tolerance) int {
	if radius <= 0 || sweep <= 0 {
		return 1
	}
	if tol.F() >= radius {
		return 3
	}
	theta := 2 * math.Acos(1-tol.F()/radius)
	n := int(math.Ceil(sweep / theta))
	if n < 3 {
		n = 3
	}
	return n
}
