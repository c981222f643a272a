// Package tessellate converts validated shapes into flat lists of colored
// triangles, the interchange format of the export boundary. It accepts only
// validated shapes; the triangulation assumes closed, non-overlapping
// boundaries and does not re-check them.
package tessellate

import (
	"math"

	"github.com/keelcad/keel/pkg/algorithm"
	"github.com/keelcad/keel/pkg/geom"
	"github.com/keelcad/keel/pkg/geometry"
	"github.com/keelcad/keel/pkg/topology"
	"github.com/keelcad/keel/pkg/validation"
)

// Sketch tessellates a validated sketch. The tolerance bounds the deviation of
// the triangulation from curved boundaries.
func Sketch(v validation.Validated[topology.Sketch], tol geom.Tolerance) []topology.ColoredTriangle {
	return tessellateFaces(v.Inner().Faces, tol)
}

// Solid tessellates a validated solid.
func Solid(v validation.Validated[topology.Solid], tol geom.Tolerance) []topology.ColoredTriangle {
	return tessellateFaces(v.Inner().Faces, tol)
}

func tessellateFaces(faces []topology.Face, tol geom.Tolerance) []topology.ColoredTriangle {
	var out []topology.ColoredTriangle
	for _, f := range faces {
		switch f := f.(type) {
		case topology.FaceTriangles:
			out = append(out, f.Triangles...)
		case topology.FaceBRep:
			out = append(out, tessellateBRep(f, tol)...)
		default:
			panic("tessellate: unknown face kind")
		}
	}
	return out
}

func tessellateBRep(f topology.FaceBRep, tol geom.Tolerance) []topology.ColoredTriangle {
	if edges, ok := bandCycles(f); ok {
		return tessellateBand(f, edges, tol)
	}

	exteriors := make([][]geom.Vec2, len(f.Exteriors))
	for i, c := range f.Exteriors {
		exteriors[i] = algorithm.ApproxCycle(c, tol)
	}
	interiors := make([][]geom.Vec2, len(f.Interiors))
	for i, c := range f.Interiors {
		interiors[i] = algorithm.ApproxCycle(c, tol)
	}

	tris2 := triangulateRegion(exteriors, interiors)

	out := make([]topology.ColoredTriangle, 0, len(tris2))
	for _, t2 := range tris2 {
		out = append(out, topology.ColoredTriangle{
			Triangle: geom.Triangle{
				A: geometry.SurfacePointAt(f.Surface, t2[0]),
				B: geometry.SurfacePointAt(f.Surface, t2[1]),
				C: geometry.SurfacePointAt(f.Surface, t2[2]),
			},
			Color: f.Color,
		})
	}
	return out
}

// bandCycles detects the swept-closed-edge face kind: exactly two exterior
// cycles, each a single closed edge. These bound a tube section (a cylinder
// wall, typically) that is triangulated as a strip instead of a filled region.
func bandCycles(f topology.FaceBRep) ([2]topology.Edge, bool) {
	if len(f.Exteriors) != 2 || len(f.Interiors) != 0 {
		return [2]topology.Edge{}, false
	}
	var edges [2]topology.Edge
	for i, c := range f.Exteriors {
		if len(c.Edges) != 1 || !c.Edges[0].IsClosed() {
			return [2]topology.Edge{}, false
		}
		edges[i] = c.Edges[0]
	}
	return edges, true
}

// tessellateBand triangulates the tube between two closed boundary cycles by
// sampling matched rings and stitching them with a triangle strip. Both rings
// use the same parameter samples, so the strip's quads are not skewed.
func tessellateBand(f topology.FaceBRep, edges [2]topology.Edge, tol geom.Tolerance) []topology.ColoredTriangle {
	n := len(algorithm.ApproxEdge(edges[0], tol))
	if m := len(algorithm.ApproxEdge(edges[1], tol)); m > n {
		n = m
	}
	if n < 3 {
		n = 3
	}

	// The local curves run along u at constant v; the smaller v is the ring
	// at the start of the sweep path.
	v0 := geometry.Curve2PointAt(edges[0].Curve.Local(), 0).Y
	v1 := geometry.Curve2PointAt(edges[1].Curve.Local(), 0).Y
	if v0 > v1 {
		v0, v1 = v1, v0
	}

	bottom := make([]geom.Vec3, n)
	top := make([]geom.Vec3, n)
	for i := 0; i < n; i++ {
		u := 2 * math.Pi * float64(i) / float64(n)
		bottom[i] = geometry.SurfacePointAt(f.Surface, geom.V2(u, v0))
		top[i] = geometry.SurfacePointAt(f.Surface, geom.V2(u, v1))
	}

	out := make([]topology.ColoredTriangle, 0, 2*n)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		out = append(out,
			topology.ColoredTriangle{
				Triangle: geom.Triangle{A: bottom[i], B: bottom[j], C: top[i]},
				Color:    f.Color,
			},
			topology.ColoredTriangle{
				Triangle: geom.Triangle{A: bottom[j], B: top[j], C: top[i]},
				Color:    f.Color,
			},
		)
	}
	return out
}
