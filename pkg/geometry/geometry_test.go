package geometry

import (
	"math"
	"testing"

	"github.com/keelcad/keel/pkg/geom"
)

var tol = geom.MustTolerance(1e-9)

func TestLinePointCoordsRoundTrip(t *testing.T) {
	line := Line{Origin: geom.V3(1, 2, 3), Direction: geom.V3(2, 0, 0)}

	for _, want := range []float64{-1, 0, 0.5, 3} {
		p := CurvePointAt(line, want)
		got := CurveCoordsFromPoint(line, p)
		if math.Abs(got-want) > tol.F() {
			t.Errorf("coords(point(%v)) = %v", want, got)
		}
	}
}

func TestCirclePointCoordsRoundTrip(t *testing.T) {
	circle := Circle{
		Center: geom.V3(0, 0, 5),
		A:      geom.V3(2, 0, 0),
		B:      geom.V3(0, 2, 0),
	}

	if r := circle.Radius(); r != 2 {
		t.Fatalf("Radius() = %v, want 2", r)
	}

	for _, want := range []float64{0, math.Pi / 4, math.Pi / 2, -math.Pi / 3} {
		p := CurvePointAt(circle, want)
		got := CurveCoordsFromPoint(circle, p)
		if math.Abs(got-want) > tol.F() {
			t.Errorf("coords(point(%v)) = %v", want, got)
		}
	}
}

func TestReverseCurve(t *testing.T) {
	line := Line{Origin: geom.V3(1, 0, 0), Direction: geom.V3(0, 3, 0)}
	rev := ReverseCurve(line)
	if got, want := CurvePointAt(rev, 2), CurvePointAt(line, -2); !got.Equals(want, tol) {
		t.Errorf("reversed line at 2 = %v, want %v", got, want)
	}

	circle := Circle{Center: geom.Vec3{}, A: geom.V3(1, 0, 0), B: geom.V3(0, 1, 0)}
	rev = ReverseCurve(circle)
	if got, want := CurvePointAt(rev, 1), CurvePointAt(circle, -1); !got.Equals(want, tol) {
		t.Errorf("reversed circle at 1 = %v, want %v", got, want)
	}
}

func TestTransformCurveKeepsShape(t *testing.T) {
	circle := Circle{Center: geom.V3(1, 1, 0), A: geom.V3(2, 0, 0), B: geom.V3(0, 2, 0)}
	tf := geom.Translation(geom.V3(0, 0, 10))

	moved := TransformCurve(circle, tf).(Circle)
	if !moved.Center.Equals(geom.V3(1, 1, 10), tol) {
		t.Errorf("center = %v", moved.Center)
	}
	// Axes are vectors and must not pick up the translation.
	if !moved.A.Equals(circle.A, tol) || !moved.B.Equals(circle.B, tol) {
		t.Errorf("axes moved: A=%v B=%v", moved.A, moved.B)
	}
}

func TestXYPlaneMapping(t *testing.T) {
	plane := XYPlane()
	got := SurfacePointAt(plane, geom.V2(3, 4))
	if !got.Equals(geom.V3(3, 4, 0), tol) {
		t.Errorf("point at (3,4) = %v", got)
	}

	uv := SurfaceCoordsFromPoint(plane, geom.V3(3, 4, 0))
	if math.Abs(uv.X-3) > tol.F() || math.Abs(uv.Y-4) > tol.F() {
		t.Errorf("coords = %v", uv)
	}
}

func TestSurfaceCoordsSkewedPlane(t *testing.T) {
	// Non-orthogonal direction/path pair; the Gram solve must still invert
	// the mapping exactly.
	plane := SweptCurve{
		Curve: Line{Origin: geom.V3(1, 0, 0), Direction: geom.V3(1, 1, 0)},
		Path:  geom.V3(0, 1, 1),
	}
	want := geom.V2(0.5, -2)
	p := SurfacePointAt(plane, want)
	got := SurfaceCoordsFromPoint(plane, p)
	if math.Abs(got.X-want.X) > tol.F() || math.Abs(got.Y-want.Y) > tol.F() {
		t.Errorf("coords = %v, want %v", got, want)
	}
}

func TestCylinderCoordsRoundTrip(t *testing.T) {
	cyl := SweptCurve{
		Curve: Circle{Center: geom.Vec3{}, A: geom.V3(2, 0, 0), B: geom.V3(0, 2, 0)},
		Path:  geom.V3(0, 0, 5),
	}
	want := geom.V2(math.Pi/3, 0.7)
	p := SurfacePointAt(cyl, want)
	got := SurfaceCoordsFromPoint(cyl, p)
	if math.Abs(got.X-want.X) > tol.F() || math.Abs(got.Y-want.Y) > tol.F() {
		t.Errorf("coords = %v, want %v", got, want)
	}
}

func TestPlaneNormal(t *testing.T) {
	n, ok := PlaneNormal(XYPlane())
	if !ok {
		t.Fatal("XY plane should be planar")
	}
	if !n.Equals(geom.V3(0, 0, 1), tol) {
		t.Errorf("normal = %v", n)
	}

	cyl := SweptCurve{
		Curve: Circle{Center: geom.Vec3{}, A: geom.V3(1, 0, 0), B: geom.V3(0, 1, 0)},
		Path:  geom.V3(0, 0, 1),
	}
	if _, ok := PlaneNormal(cyl); ok {
		t.Error("cylinder reported as planar")
	}
}

func TestLocalPairing(t *testing.T) {
	local := Line2{Origin: geom.V2(0, 0), Direction: geom.V2(1, 0)}
	global := Line{Origin: geom.Vec3{}, Direction: geom.V3(1, 0, 0)}

	pair := NewLocal[Curve2, Curve](local, global)
	if _, ok := pair.Local().(Line2); !ok {
		t.Errorf("local half = %T", pair.Local())
	}
	if _, ok := pair.Global().(Line); !ok {
		t.Errorf("global half = %T", pair.Global())
	}
}

func TestCurve2PointAt(t *testing.T) {
	c := Circle2{Center: geom.V2(1, 1), Radius: 2}
	got := Curve2PointAt(c, math.Pi/2)
	if math.Abs(got.X-1) > tol.F() || math.Abs(got.Y-3) > tol.F() {
		t.Errorf("point = %v", got)
	}
}
