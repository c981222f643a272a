package topology

import (
	"github.com/keelcad/keel/pkg/geom"
	"github.com/keelcad/keel/pkg/geometry"
)

// Vertex is a vertex at a specific coordinate on a curve: its 1D curve
// coordinate plus a handle to the global vertex it is a view of.
type Vertex struct {
	Position float64
	Global   Handle
}

// Edge is a segment of a curve. The curve is carried in both its
// surface-local and its global form; the pair is kept in sync through
// geometry.Local.
type Edge struct {
	Curve geometry.Local[geometry.Curve2, geometry.Curve]

	// Vertices bound the edge on the curve, in curve coordinates. A nil
	// value means the edge closes on itself, like a full circle.
	Vertices *[2]Vertex

	// Reverse indicates the edge is traversed against the curve's natural
	// parametrization direction.
	Reverse bool
}

// IsClosed reports whether the edge closes on itself.
func (e Edge) IsClosed() bool {
	return e.Vertices == nil
}

// Start returns the vertex the edge's traversal starts at, honoring Reverse.
// The second return is false for closed edges.
func (e Edge) Start() (Vertex, bool) {
	if e.Vertices == nil {
		return Vertex{}, false
	}
	if e.Reverse {
		return e.Vertices[1], true
	}
	return e.Vertices[0], true
}

// End returns the vertex the edge's traversal ends at, honoring Reverse.
func (e Edge) End() (Vertex, bool) {
	if e.Vertices == nil {
		return Vertex{}, false
	}
	if e.Reverse {
		return e.Vertices[0], true
	}
	return e.Vertices[1], true
}

// Reversed returns the edge with its traversal direction flipped.
func (e Edge) Reversed() Edge {
	e.Reverse = !e.Reverse
	return e
}

// Cycle is an ordered sequence of edges forming a closed loop: each edge's
// end must coincide with the next edge's start, and the last edge's end with
// the first edge's start. Closure is not enforced at construction; the
// validation engine checks it.
type Cycle struct {
	Edges []Edge
}

// Reversed returns the cycle traversed in the opposite direction: edge order
// reversed and every edge flipped.
func (c Cycle) Reversed() Cycle {
	out := Cycle{Edges: make([]Edge, len(c.Edges))}
	for i, e := range c.Edges {
		out.Edges[len(c.Edges)-1-i] = e.Reversed()
	}
	return out
}

// LineSegmentEdge builds a bounded line edge between two surface-coordinate
// points on the given surface. Endpoint vertices are deduplicated through the
// arena so edges meeting at a corner share one global vertex.
func LineSegmentEdge(arena *Arena, surface geometry.Surface, a, b geom.Vec2, tol geom.Tolerance) Edge {
	ga := geometry.SurfacePointAt(surface, a)
	gb := geometry.SurfacePointAt(surface, b)

	local := geometry.Line2{Origin: a, Direction: b.Sub(a)}
	global := geometry.Line{Origin: ga, Direction: gb.Sub(ga)}

	vertices := [2]Vertex{
		{Position: 0, Global: arena.InsertOrGet(ga, tol)},
		{Position: 1, Global: arena.InsertOrGet(gb, tol)},
	}

	return Edge{
		Curve:    geometry.NewLocal[geometry.Curve2, geometry.Curve](local, global),
		Vertices: &vertices,
	}
}

// CircleEdge builds a closed circle edge centered at a surface-coordinate
// point. The circle's global axes are derived by mapping the surface's local
// unit directions, which keeps the local and global halves consistent for
// planar surfaces.
func CircleEdge(surface geometry.Surface, center geom.Vec2, radius float64) Edge {
	gc := geometry.SurfacePointAt(surface, center)
	ga := geometry.SurfacePointAt(surface, center.Add(geom.V2(radius, 0))).Sub(gc)
	gb := geometry.SurfacePointAt(surface, center.Add(geom.V2(0, radius))).Sub(gc)

	local := geometry.Circle2{Center: center, Radius: radius}
	global := geometry.Circle{Center: gc, A: ga, B: gb}

	return Edge{
		Curve: geometry.NewLocal[geometry.Curve2, geometry.Curve](local, global),
	}
}
