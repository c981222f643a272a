package algorithm

import (
	"github.com/keelcad/keel/pkg/geom"
	"github.com/keelcad/keel/pkg/geometry"
	"github.com/keelcad/keel/pkg/topology"
)

// The transform operation is defined for every geometry and topology variant.
// It is pure: each function returns a new value and leaves its argument
// untouched. Local (1D and 2D) coordinates are kept while the global halves
// are mapped through the transform, so the local/global invariant holds
// because both sides of each pair transform consistently.

// TransformSolid maps a solid through an affine transform. The vertex arena
// is rebuilt wholesale, which keeps every handle valid in the result.
func TransformSolid(s topology.Solid, t geom.Transform) topology.Solid {
	return topology.Solid{
		Arena: s.Arena.Map(t.TransformPoint),
		Faces: transformFaces(s.Faces, t),
	}
}

// TransformSketch maps a sketch through an affine transform.
func TransformSketch(s topology.Sketch, t geom.Transform) topology.Sketch {
	return topology.Sketch{
		Arena: s.Arena.Map(t.TransformPoint),
		Faces: transformFaces(s.Faces, t),
	}
}

// TranslateSolid translates a solid by offset. It is a convenience wrapper
// over the general operator and produces exactly the result of
// TransformSolid with geom.Translation(offset).
func TranslateSolid(s topology.Solid, offset geom.Vec3) topology.Solid {
	return TransformSolid(s, geom.Translation(offset))
}

// RotateSolid rotates a solid by an axis-angle vector.
func RotateSolid(s topology.Solid, axisAngle geom.Vec3) topology.Solid {
	return TransformSolid(s, geom.Rotation(axisAngle))
}

// TranslateSketch translates a sketch by offset.
func TranslateSketch(s topology.Sketch, offset geom.Vec3) topology.Sketch {
	return TransformSketch(s, geom.Translation(offset))
}

// RotateSketch rotates a sketch by an axis-angle vector.
func RotateSketch(s topology.Sketch, axisAngle geom.Vec3) topology.Sketch {
	return TransformSketch(s, geom.Rotation(axisAngle))
}

func transformFaces(faces []topology.Face, t geom.Transform) []topology.Face {
	out := make([]topology.Face, len(faces))
	for i, f := range faces {
		out[i] = TransformFace(f, t)
	}
	return out
}

// TransformFace maps a face through an affine transform, preserving the
// exterior/interior partition and the color.
func TransformFace(f topology.Face, t geom.Transform) topology.Face {
	switch f := f.(type) {
	case topology.FaceBRep:
		out := topology.FaceBRep{
			Surface:   geometry.TransformSurface(f.Surface, t),
			Exteriors: make([]topology.Cycle, len(f.Exteriors)),
			Interiors: make([]topology.Cycle, len(f.Interiors)),
			Color:     f.Color,
		}
		for i, c := range f.Exteriors {
			out.Exteriors[i] = TransformCycle(c, t)
		}
		for i, c := range f.Interiors {
			out.Interiors[i] = TransformCycle(c, t)
		}
		return out
	case topology.FaceTriangles:
		out := topology.FaceTriangles{
			Triangles: make([]topology.ColoredTriangle, len(f.Triangles)),
		}
		for i, ct := range f.Triangles {
			out.Triangles[i] = topology.ColoredTriangle{
				Triangle: t.TransformTriangle(ct.Triangle),
				Color:    ct.Color,
			}
		}
		return out
	default:
		panic("algorithm: unknown face kind")
	}
}

// TransformCycle maps every edge of a cycle.
func TransformCycle(c topology.Cycle, t geom.Transform) topology.Cycle {
	out := topology.Cycle{Edges: make([]topology.Edge, len(c.Edges))}
	for i, e := range c.Edges {
		out.Edges[i] = TransformEdge(e, t)
	}
	return out
}

// TransformEdge maps an edge's global curve through the transform. The local
// curve and the vertices' curve coordinates are kept: they stay valid against
// the transformed curve and surface, and the global vertices they refer to
// are rebuilt by the arena pass.
func TransformEdge(e topology.Edge, t geom.Transform) topology.Edge {
	return topology.Edge{
		Curve: geometry.NewLocal[geometry.Curve2, geometry.Curve](
			e.Curve.Local(),
			geometry.TransformCurve(e.Curve.Global(), t),
		),
		Vertices: e.Vertices,
		Reverse:  e.Reverse,
	}
}
