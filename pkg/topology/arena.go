// Package topology defines the kernel's object graph: global vertices held in
// an arena and addressed by handle, and the edges, cycles, faces, sketches
// and solids built on top of them. Shapes are mutable while being assembled
// and treated as immutable once they pass validation; transforms replace them
// wholesale rather than mutating shared state.
package topology

import "github.com/keelcad/keel/pkg/geom"

// Handle addresses a global vertex in an Arena. Handles are stable across
// transforms because a transform rebuilds the arena in place order.
type Handle int

// GlobalVertex is a vertex position in global 3D space. Global vertices are
// the authority on position; curve- and surface-local vertices are views of
// them.
type GlobalVertex struct {
	Position geom.Vec3
}

// Arena owns the global vertices of a shape. Edges and faces store handles
// into it instead of owned copies, so vertices shared between adjacent faces
// have one identity, and coincidence questions are answered by resolving
// through the arena.
type Arena struct {
	vertices []GlobalVertex
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Insert adds a vertex at the given position and returns its handle.
func (a *Arena) Insert(p geom.Vec3) Handle {
	a.vertices = append(a.vertices, GlobalVertex{Position: p})
	return Handle(len(a.vertices) - 1)
}

// InsertOrGet returns the handle of an existing vertex coincident with p
// within tol, inserting a new vertex if there is none. This is how corner
// vertices get shared between the edges and faces that meet there.
func (a *Arena) InsertOrGet(p geom.Vec3, tol geom.Tolerance) Handle {
	for i, v := range a.vertices {
		if v.Position.Equals(p, tol) {
			return Handle(i)
		}
	}
	return a.Insert(p)
}

// Resolve returns the global vertex behind a handle.
func (a *Arena) Resolve(h Handle) GlobalVertex {
	return a.vertices[h]
}

// Len returns the number of vertices in the arena.
func (a *Arena) Len() int {
	return len(a.vertices)
}

// Coincident reports whether two handles resolve to positions within tol of
// each other.
func (a *Arena) Coincident(h1, h2 Handle, tol geom.Tolerance) bool {
	if h1 == h2 {
		return true
	}
	return a.vertices[h1].Position.Equals(a.vertices[h2].Position, tol)
}

// Map returns a new arena with every vertex position replaced by f of it,
// preserving handle order. Transforms use this to rebuild the vertex set
// wholesale while keeping handles valid.
func (a *Arena) Map(f func(geom.Vec3) geom.Vec3) *Arena {
	out := &Arena{vertices: make([]GlobalVertex, len(a.vertices))}
	for i, v := range a.vertices {
		out.vertices[i] = GlobalVertex{Position: f(v.Position)}
	}
	return out
}
