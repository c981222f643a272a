package algorithm

import (
	"github.com/keelcad/keel/pkg/geom"
	"github.com/keelcad/keel/pkg/geometry"
	"github.com/keelcad/keel/pkg/topology"
)

// Sweep extrudes a sketch along a path vector into a solid. Each sketch face
// becomes a bottom cap, a top cap translated by the path, and one wall face
// per boundary edge. The caps are oriented so their normals point away from
// the solid: the bottom against the path, the top along it.
//
// The result owns a fresh vertex arena. Cap and wall corners are deduplicated
// through it, so a wall shares its corner vertices with the caps it connects.
func Sweep(sketch topology.Sketch, path geom.Vec3, tol geom.Tolerance) topology.Solid {
	arena := topology.NewArena()
	var faces []topology.Face

	for _, f := range sketch.Faces {
		switch f := f.(type) {
		case topology.FaceBRep:
			faces = append(faces, sweepFaceBRep(sketch.Arena, arena, f, path, tol)...)
		case topology.FaceTriangles:
			// Tessellated faces carry no boundary cycles, so only the caps
			// can be built for them.
			faces = append(faces, sweepFaceTriangles(f, path)...)
		default:
			panic("algorithm: unknown face kind")
		}
	}

	return topology.Solid{Arena: arena, Faces: faces}
}

func sweepFaceBRep(src, dst *topology.Arena, f topology.FaceBRep, path geom.Vec3, tol geom.Tolerance) []topology.Face {
	up := true
	if n, ok := geometry.PlaneNormal(f.Surface); ok {
		up = n.Dot(path) > 0
	} else {
		tracer().Debugf("sweep: non-planar sketch face, assuming normal along path")
	}

	translation := geom.Translation(path)

	bottom := rebuildFaceBRep(src, dst, f, geom.Identity(), tol)
	top := rebuildFaceBRep(src, dst, f, translation, tol)
	if up {
		bottom = bottom.Reversed()
	} else {
		top = top.Reversed()
	}

	faces := []topology.Face{bottom, top}

	// Wall winding follows the cycle traversal: with the sweep direction as
	// "up" and the boundary counterclockwise around the face normal, the wall
	// normal (curve tangent crossed with the path) points out of the solid.
	for _, cycle := range f.AllCycles() {
		if !up {
			cycle = cycle.Reversed()
		}
		for _, e := range cycle.Edges {
			faces = append(faces, wallFace(dst, e, path, f.Color, tol))
		}
	}
	return faces
}

// rebuildFaceBRep re-creates a face with its global geometry mapped through t
// and its vertex handles re-inserted into the destination arena.
func rebuildFaceBRep(src, dst *topology.Arena, f topology.FaceBRep, t geom.Transform, tol geom.Tolerance) topology.FaceBRep {
	out := topology.FaceBRep{
		Surface:   geometry.TransformSurface(f.Surface, t),
		Exteriors: make([]topology.Cycle, len(f.Exteriors)),
		Interiors: make([]topology.Cycle, len(f.Interiors)),
		Color:     f.Color,
	}
	for i, c := range f.Exteriors {
		out.Exteriors[i] = rebuildCycle(src, dst, c, t, tol)
	}
	for i, c := range f.Interiors {
		out.Interiors[i] = rebuildCycle(src, dst, c, t, tol)
	}
	return out
}

func rebuildCycle(src, dst *topology.Arena, c topology.Cycle, t geom.Transform, tol geom.Tolerance) topology.Cycle {
	out := topology.Cycle{Edges: make([]topology.Edge, len(c.Edges))}
	for i, e := range c.Edges {
		ne := topology.Edge{
			Curve: geometry.NewLocal[geometry.Curve2, geometry.Curve](
				e.Curve.Local(),
				geometry.TransformCurve(e.Curve.Global(), t),
			),
			Reverse: e.Reverse,
		}
		if e.Vertices != nil {
			vs := *e.Vertices
			for j, v := range vs {
				p := t.TransformPoint(src.Resolve(v.Global).Position)
				vs[j] = topology.Vertex{
					Position: v.Position,
					Global:   dst.InsertOrGet(p, tol),
				}
			}
			ne.Vertices = &vs
		}
		out.Edges[i] = ne
	}
	return out
}

// wallFace builds the side face swept from one boundary edge. The wall's
// surface coordinates are (curve parameter, position along the path).
func wallFace(arena *topology.Arena, e topology.Edge, path geom.Vec3, color topology.Color, tol geom.Tolerance) topology.FaceBRep {
	surface := geometry.SweptCurve{Curve: e.Curve.Global(), Path: path}

	if e.IsClosed() {
		// A closed edge sweeps into a full cylinder band bounded by two
		// closed cycles, one at each end of the path.
		bottom := topology.Edge{
			Curve: geometry.NewLocal[geometry.Curve2, geometry.Curve](
				geometry.Line2{Origin: geom.V2(0, 0), Direction: geom.V2(1, 0)},
				e.Curve.Global(),
			),
		}
		top := topology.Edge{
			Curve: geometry.NewLocal[geometry.Curve2, geometry.Curve](
				geometry.Line2{Origin: geom.V2(0, 1), Direction: geom.V2(1, 0)},
				geometry.TransformCurve(e.Curve.Global(), geom.Translation(path)),
			),
			Reverse: true,
		}
		return topology.FaceBRep{
			Surface:   surface,
			Exteriors: []topology.Cycle{{Edges: []topology.Edge{bottom}}, {Edges: []topology.Edge{top}}},
			Color:     color,
		}
	}

	start, _ := e.Start()
	end, _ := e.End()
	a, b := start.Position, end.Position

	// Rectangle in wall surface coordinates, traversed so that u increases
	// along the edge's own traversal direction.
	corners := []geom.Vec2{
		geom.V2(a, 0),
		geom.V2(b, 0),
		geom.V2(b, 1),
		geom.V2(a, 1),
	}
	cycle := topology.Cycle{}
	for i := range corners {
		cycle.Edges = append(cycle.Edges, topology.LineSegmentEdge(
			arena, surface, corners[i], corners[(i+1)%len(corners)], tol,
		))
	}
	return topology.FaceBRep{
		Surface:   surface,
		Exteriors: []topology.Cycle{cycle},
		Color:     color,
	}
}

func sweepFaceTriangles(f topology.FaceTriangles, path geom.Vec3) []topology.Face {
	bottom := topology.FaceTriangles{Triangles: make([]topology.ColoredTriangle, len(f.Triangles))}
	top := topology.FaceTriangles{Triangles: make([]topology.ColoredTriangle, len(f.Triangles))}
	t := geom.Translation(path)
	for i, ct := range f.Triangles {
		bottom.Triangles[i] = topology.ColoredTriangle{
			Triangle: ct.Triangle.Reversed(),
			Color:    ct.Color,
		}
		top.Triangles[i] = topology.ColoredTriangle{
			Triangle: t.TransformTriangle(ct.Triangle),
			Color:    ct.Color,
		}
	}
	return []topology.Face{bottom, top}
}
