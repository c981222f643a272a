package algorithm

import (
	"math"
	"testing"

	"github.com/keelcad/keel/pkg/geom"
	"github.com/keelcad/keel/pkg/geometry"
	"github.com/keelcad/keel/pkg/topology"
)

var tol = geom.MustTolerance(1e-9)

// unitSquareSketch builds a single-face sketch covering [0,1]x[0,1] on the XY
// plane.
func unitSquareSketch(t *testing.T) topology.Sketch {
	t.Helper()
	arena := topology.NewArena()
	face := topology.NewFaceBuilder(arena, geometry.XYPlane()).
		WithExteriorPolygon([]geom.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}).
		WithColor(topology.Color{255, 0, 0, 255}).
		Build(tol)
	return topology.Sketch{Arena: arena, Faces: []topology.Face{face}}
}

func arenaBounds(a *topology.Arena) geom.Aabb {
	points := make([]geom.Vec3, 0, a.Len())
	for h := topology.Handle(0); int(h) < a.Len(); h++ {
		points = append(points, a.Resolve(h).Position)
	}
	return geom.AabbFromPoints(points)
}

func TestTransformSketchRoundTrip(t *testing.T) {
	sketch := unitSquareSketch(t)
	tf := geom.Translation(geom.V3(3, -1, 2)).Mul(geom.Rotation(geom.V3(0.2, 0.9, -0.4)))

	back := TransformSketch(TransformSketch(sketch, tf), tf.Inverse())

	for h := topology.Handle(0); int(h) < sketch.Arena.Len(); h++ {
		want := sketch.Arena.Resolve(h).Position
		got := back.Arena.Resolve(h).Position
		if !got.Equals(want, tol) {
			t.Errorf("vertex %d: %v, want %v", h, got, want)
		}
	}
}

func TestTransformComposition(t *testing.T) {
	sketch := unitSquareSketch(t)
	rot := geom.Rotation(geom.V3(0, 0, math.Pi/2))
	tr := geom.Translation(geom.V3(5, 0, 0))

	sequential := TransformSketch(TransformSketch(sketch, rot), tr)
	composed := TransformSketch(sketch, tr.Mul(rot))

	for h := topology.Handle(0); int(h) < sketch.Arena.Len(); h++ {
		a := sequential.Arena.Resolve(h).Position
		b := composed.Arena.Resolve(h).Position
		if !a.Equals(b, tol) {
			t.Errorf("vertex %d: sequential %v, composed %v", h, a, b)
		}
	}
}

func TestTranslateMatchesGeneralOperator(t *testing.T) {
	sketch := unitSquareSketch(t)
	offset := geom.V3(1, 2, 3)

	viaWrapper := TranslateSketch(sketch, offset)
	viaGeneral := TransformSketch(sketch, geom.Translation(offset))

	for h := topology.Handle(0); int(h) < sketch.Arena.Len(); h++ {
		a := viaWrapper.Arena.Resolve(h).Position
		b := viaGeneral.Arena.Resolve(h).Position
		if !a.Equals(b, tol) {
			t.Errorf("vertex %d: wrapper %v, general %v", h, a, b)
		}
	}
}

func TestTransformEdgeKeepsLocalCurve(t *testing.T) {
	arena := topology.NewArena()
	e := topology.LineSegmentEdge(arena, geometry.XYPlane(), geom.V2(0, 0), geom.V2(1, 0), tol)

	moved := TransformEdge(e, geom.Translation(geom.V3(0, 0, 7)))

	if moved.Curve.Local() != e.Curve.Local() {
		t.Error("local curve changed under transform")
	}
	g := moved.Curve.Global().(geometry.Line)
	if !g.Origin.Equals(geom.V3(0, 0, 7), tol) {
		t.Errorf("global origin = %v", g.Origin)
	}
}

func TestLineSegmentCrossing(t *testing.T) {
	a := Segment{A: geom.V2(0, 0), B: geom.V2(2, 2)}
	b := Segment{A: geom.V2(0, 2), B: geom.V2(2, 0)}

	hit := LineSegment(a, b, tol)
	if hit.Kind != IntersectionPoint {
		t.Fatalf("Kind = %v", hit.Kind)
	}
	if !hit.Point.Equals(geom.V2(1, 1), tol) {
		t.Errorf("Point = %v", hit.Point)
	}
	if math.Abs(hit.TA-0.5) > tol.F() || math.Abs(hit.TB-0.5) > tol.F() {
		t.Errorf("TA=%v TB=%v", hit.TA, hit.TB)
	}
}

func TestLineSegmentSymmetry(t *testing.T) {
	a := Segment{A: geom.V2(0, 1), B: geom.V2(4, 1)}
	b := Segment{A: geom.V2(1, 0), B: geom.V2(1, 3)}

	ab := LineSegment(a, b, tol)
	ba := LineSegment(b, a, tol)

	if ab.Kind != ba.Kind {
		t.Fatalf("kinds differ: %v vs %v", ab.Kind, ba.Kind)
	}
	if !ab.Point.Equals(ba.Point, tol) {
		t.Errorf("points differ: %v vs %v", ab.Point, ba.Point)
	}
	if math.Abs(ab.TA-ba.TB) > tol.F() || math.Abs(ab.TB-ba.TA) > tol.F() {
		t.Errorf("parameters not swapped: %v/%v vs %v/%v", ab.TA, ab.TB, ba.TA, ba.TB)
	}
}

func TestLineSegmentDisjoint(t *testing.T) {
	a := Segment{A: geom.V2(0, 0), B: geom.V2(1, 0)}
	b := Segment{A: geom.V2(0, 1), B: geom.V2(1, 1)}
	if got := LineSegment(a, b, tol); got.Kind != IntersectionNone {
		t.Errorf("parallel disjoint: Kind = %v", got.Kind)
	}

	c := Segment{A: geom.V2(5, 5), B: geom.V2(6, 5)}
	if got := LineSegment(a, c, tol); got.Kind != IntersectionNone {
		t.Errorf("colinear disjoint: Kind = %v", got.Kind)
	}
}

func TestLineSegmentColinearOverlap(t *testing.T) {
	a := Segment{A: geom.V2(0, 0), B: geom.V2(2, 0)}
	b := Segment{A: geom.V2(1, 0), B: geom.V2(3, 0)}
	if got := LineSegment(a, b, tol); got.Kind != IntersectionOverlap {
		t.Errorf("Kind = %v, want overlap", got.Kind)
	}
}

func TestLineSegmentEndpointTouch(t *testing.T) {
	a := Segment{A: geom.V2(0, 0), B: geom.V2(1, 0)}
	b := Segment{A: geom.V2(1, 0), B: geom.V2(2, 0)}
	got := LineSegment(a, b, tol)
	if got.Kind != IntersectionPoint {
		t.Fatalf("Kind = %v, want point", got.Kind)
	}
	if !got.Point.Equals(geom.V2(1, 0), tol) {
		t.Errorf("Point = %v", got.Point)
	}
	if got.TA != 1 || got.TB != 0 {
		t.Errorf("TA, TB = %v, %v, want 1, 0", got.TA, got.TB)
	}
}

func TestLineSegmentEndpointTouchAtBEnd(t *testing.T) {
	// b runs toward the touch point, so the contact sits at b's t=1.
	a := Segment{A: geom.V2(0, 0), B: geom.V2(1, 0)}
	b := Segment{A: geom.V2(2, 0), B: geom.V2(1, 0)}
	got := LineSegment(a, b, tol)
	if got.Kind != IntersectionPoint {
		t.Fatalf("Kind = %v, want point", got.Kind)
	}
	if got.TA != 1 || got.TB != 1 {
		t.Errorf("TA, TB = %v, %v, want 1, 1", got.TA, got.TB)
	}
}

func TestLineSegmentZeroLength(t *testing.T) {
	a := Segment{A: geom.V2(0, 0), B: geom.V2(0, 0)}
	b := Segment{A: geom.V2(-1, 0), B: geom.V2(1, 0)}
	if got := LineSegment(a, b, tol); got.Kind != IntersectionNone {
		t.Errorf("Kind = %v, want none for degenerate segment", got.Kind)
	}
}

func TestCurveFaceThroughSquare(t *testing.T) {
	sketch := unitSquareSketch(t)
	face := sketch.Faces[0].(topology.FaceBRep)

	// Horizontal line through the middle of the square.
	line := geometry.Line2{Origin: geom.V2(-1, 0.5), Direction: geom.V2(1, 0)}
	got := CurveFace(line, face, tol)

	if len(got.Intervals) != 1 {
		t.Fatalf("intervals = %+v", got.Intervals)
	}
	iv := got.Intervals[0]
	if math.Abs(iv.Start-1) > 1e-9 || math.Abs(iv.End-2) > 1e-9 {
		t.Errorf("interval = [%v, %v], want [1, 2]", iv.Start, iv.End)
	}
}

func TestCurveFaceMiss(t *testing.T) {
	sketch := unitSquareSketch(t)
	face := sketch.Faces[0].(topology.FaceBRep)

	line := geometry.Line2{Origin: geom.V2(0, 5), Direction: geom.V2(1, 0)}
	if got := CurveFace(line, face, tol); !got.IsEmpty() {
		t.Errorf("intervals = %+v, want empty", got.Intervals)
	}
}

func TestCurveFaceHoleParity(t *testing.T) {
	arena := topology.NewArena()
	face := topology.NewFaceBuilder(arena, geometry.XYPlane()).
		WithExteriorPolygon([]geom.Vec2{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}}).
		WithInteriorPolygon([]geom.Vec2{{X: 1, Y: 1}, {X: 1, Y: 3}, {X: 3, Y: 3}, {X: 3, Y: 1}}).
		Build(tol)

	line := geometry.Line2{Origin: geom.V2(-1, 2), Direction: geom.V2(1, 0)}
	got := CurveFace(line, face, tol)

	if len(got.Intervals) != 2 {
		t.Fatalf("intervals = %+v, want 2", got.Intervals)
	}
	// Inside from x=0 to x=1 and from x=3 to x=4, in line coordinates
	// (origin -1, unit direction).
	if math.Abs(got.Intervals[0].Start-1) > 1e-9 || math.Abs(got.Intervals[0].End-2) > 1e-9 {
		t.Errorf("first interval = %+v", got.Intervals[0])
	}
	if math.Abs(got.Intervals[1].Start-4) > 1e-9 || math.Abs(got.Intervals[1].End-5) > 1e-9 {
		t.Errorf("second interval = %+v", got.Intervals[1])
	}
}

func TestIntervalListMerge(t *testing.T) {
	a := CurveFaceIntersectionList{Intervals: []CurveFaceIntersection{
		{Start: 0, End: 2}, {Start: 3, End: 5},
	}}
	b := CurveFaceIntersectionList{Intervals: []CurveFaceIntersection{
		{Start: 1, End: 4},
	}}

	got := a.Merge(b)
	want := []CurveFaceIntersection{{Start: 1, End: 2}, {Start: 3, End: 4}}
	if len(got.Intervals) != len(want) {
		t.Fatalf("intervals = %+v", got.Intervals)
	}
	for i := range want {
		if got.Intervals[i] != want[i] {
			t.Errorf("interval %d = %+v, want %+v", i, got.Intervals[i], want[i])
		}
	}

	if !a.Merge(CurveFaceIntersectionList{}).IsEmpty() {
		t.Error("merge with empty list not empty")
	}
}

func TestSurfaceSurfacePlanes(t *testing.T) {
	xy := geometry.XYPlane()
	// XZ plane: x axis swept along z.
	xz := geometry.SweptCurve{
		Curve: geometry.Line{Origin: geom.Vec3{}, Direction: geom.V3(1, 0, 0)},
		Path:  geom.V3(0, 0, 1),
	}

	curves := SurfaceSurface(xy, xz, tol)
	if len(curves) != 1 {
		t.Fatalf("curves = %v", curves)
	}
	line, ok := curves[0].(geometry.Line)
	if !ok {
		t.Fatalf("curve is %T", curves[0])
	}
	// Intersection is the x axis.
	if math.Abs(math.Abs(line.Direction.X)-1) > 1e-9 ||
		math.Abs(line.Direction.Y) > 1e-9 || math.Abs(line.Direction.Z) > 1e-9 {
		t.Errorf("direction = %v", line.Direction)
	}
	if math.Abs(line.Origin.Y) > 1e-9 || math.Abs(line.Origin.Z) > 1e-9 {
		t.Errorf("origin = %v not on the x axis", line.Origin)
	}
}

func TestSurfaceSurfaceParallelPlanes(t *testing.T) {
	xy := geometry.XYPlane()
	shifted := geometry.TransformSurface(xy, geom.Translation(geom.V3(0, 0, 1)))

	if curves := SurfaceSurface(xy, shifted, tol); len(curves) != 0 {
		t.Errorf("parallel planes produced %v", curves)
	}
}

func TestSurfaceSurfaceCylinderPlane(t *testing.T) {
	cyl := geometry.SweptCurve{
		Curve: geometry.Circle{Center: geom.Vec3{}, A: geom.V3(1, 0, 0), B: geom.V3(0, 1, 0)},
		Path:  geom.V3(0, 0, 1),
	}
	// Plane x = 0 swept along the same path: y axis extruded along z.
	plane := geometry.SweptCurve{
		Curve: geometry.Line{Origin: geom.Vec3{}, Direction: geom.V3(0, 1, 0)},
		Path:  geom.V3(0, 0, 1),
	}

	curves := SurfaceSurface(cyl, plane, tol)
	if len(curves) != 2 {
		t.Fatalf("got %d curves, want 2", len(curves))
	}
	for _, c := range curves {
		line := c.(geometry.Line)
		// Both intersection lines run along the sweep path on the cylinder.
		if math.Abs(math.Abs(line.Direction.Z)-1) > 1e-9 {
			t.Errorf("direction = %v", line.Direction)
		}
		if math.Abs(line.Origin.X) > 1e-9 || math.Abs(math.Abs(line.Origin.Y)-1) > 1e-9 {
			t.Errorf("origin = %v not on the unit circle at x=0", line.Origin)
		}
	}
}

func TestApproxSquareCycle(t *testing.T) {
	sketch := unitSquareSketch(t)
	face := sketch.Faces[0].(topology.FaceBRep)

	points := ApproxCycle(face.Exteriors[0], tol)
	if len(points) != 4 {
		t.Fatalf("approx = %v", points)
	}
	if !points[0].Equals(geom.V2(0, 0), tol) || !points[2].Equals(geom.V2(1, 1), tol) {
		t.Errorf("corners = %v", points)
	}
}

func TestApproxCircleSegmentCount(t *testing.T) {
	e := topology.CircleEdge(geometry.XYPlane(), geom.V2(0, 0), 1)

	coarse := len(ApproxEdge(e, geom.MustTolerance(0.1)))
	fine := len(ApproxEdge(e, geom.MustTolerance(0.001)))

	if coarse < 3 {
		t.Errorf("coarse count = %d, want >= 3", coarse)
	}
	if fine <= coarse {
		t.Errorf("tighter tolerance did not refine: %d <= %d", fine, coarse)
	}
}

func TestSweepUnitSquare(t *testing.T) {
	sketch := unitSquareSketch(t)
	solid := Sweep(sketch, geom.V3(0, 0, 5), tol)

	if len(solid.Faces) != 6 {
		t.Fatalf("faces = %d, want 6", len(solid.Faces))
	}

	box := arenaBounds(solid.Arena)
	if !box.Min.Equals(geom.V3(0, 0, 0), tol) {
		t.Errorf("Min = %v", box.Min)
	}
	if !box.Max.Equals(geom.V3(1, 1, 5), tol) {
		t.Errorf("Max = %v", box.Max)
	}

	// Corner vertices are shared between caps and walls: a swept unit square
	// has exactly 8 distinct vertices.
	if solid.Arena.Len() != 8 {
		t.Errorf("arena has %d vertices, want 8", solid.Arena.Len())
	}
}

func TestSweepCapOrientation(t *testing.T) {
	sketch := unitSquareSketch(t)
	solid := Sweep(sketch, geom.V3(0, 0, 5), tol)

	bottom := solid.Faces[0].(topology.FaceBRep)
	top := solid.Faces[1].(topology.FaceBRep)

	// The sketch winds counterclockwise around +Z; the bottom cap must be
	// reversed so it faces -Z, the top kept facing +Z.
	if !bottom.Exteriors[0].Edges[0].Reverse {
		t.Error("bottom cap not reversed")
	}
	if top.Exteriors[0].Edges[0].Reverse {
		t.Error("top cap unexpectedly reversed")
	}
}

func TestSweepCircleProducesBand(t *testing.T) {
	arena := topology.NewArena()
	face := topology.NewFaceBuilder(arena, geometry.XYPlane()).
		WithExteriorCircle(geom.V2(0, 0), 2).
		Build(tol)
	sketch := topology.Sketch{Arena: arena, Faces: []topology.Face{face}}

	solid := Sweep(sketch, geom.V3(0, 0, 3), tol)
	if len(solid.Faces) != 3 {
		t.Fatalf("faces = %d, want 3 (two caps, one wall)", len(solid.Faces))
	}

	wall := solid.Faces[2].(topology.FaceBRep)
	if len(wall.Exteriors) != 2 {
		t.Fatalf("wall has %d exterior cycles, want 2", len(wall.Exteriors))
	}
	for _, c := range wall.Exteriors {
		if len(c.Edges) != 1 || !c.Edges[0].IsClosed() {
			t.Errorf("wall boundary not a single closed edge: %+v", c)
		}
	}
	if _, ok := wall.Surface.(geometry.SweptCurve).Curve.(geometry.Circle); !ok {
		t.Errorf("wall surface curve is %T", wall.Surface.(geometry.SweptCurve).Curve)
	}
}
