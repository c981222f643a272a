package topology

import (
	"github.com/keelcad/keel/pkg/geom"
	"github.com/keelcad/keel/pkg/geometry"
)

// FaceBuilder assembles a B-rep face from polygons and circles given in
// surface coordinates.
type FaceBuilder struct {
	arena     *Arena
	surface   geometry.Surface
	exterior  []geom.Vec2
	interiors [][]geom.Vec2
	circle    *geom.Vec2
	radius    float64
	color     Color
}

// NewFaceBuilder starts a face on the given surface, registering vertices in
// the given arena.
func NewFaceBuilder(arena *Arena, surface geometry.Surface) *FaceBuilder {
	return &FaceBuilder{arena: arena, surface: surface}
}

// WithExteriorPolygon sets the face's exterior boundary to the closed polygon
// through the given surface-coordinate points.
func (b *FaceBuilder) WithExteriorPolygon(points []geom.Vec2) *FaceBuilder {
	b.exterior = points
	return b
}

// WithExteriorCircle sets the face's exterior boundary to a circle.
func (b *FaceBuilder) WithExteriorCircle(center geom.Vec2, radius float64) *FaceBuilder {
	c := center
	b.circle = &c
	b.radius = radius
	return b
}

// WithInteriorPolygon adds a polygonal hole.
func (b *FaceBuilder) WithInteriorPolygon(points []geom.Vec2) *FaceBuilder {
	b.interiors = append(b.interiors, points)
	return b
}

// WithColor sets the face color.
func (b *FaceBuilder) WithColor(c Color) *FaceBuilder {
	b.color = c
	return b
}

// Build assembles the face. The tolerance controls vertex deduplication in
// the arena.
func (b *FaceBuilder) Build(tol geom.Tolerance) FaceBRep {
	face := FaceBRep{Surface: b.surface, Color: b.color}

	if b.circle != nil {
		face.Exteriors = []Cycle{{Edges: []Edge{CircleEdge(b.surface, *b.circle, b.radius)}}}
	} else if len(b.exterior) > 0 {
		face.Exteriors = []Cycle{b.polygonCycle(b.exterior, tol)}
	}
	for _, hole := range b.interiors {
		face.Interiors = append(face.Interiors, b.polygonCycle(hole, tol))
	}
	return face
}

// polygonCycle builds the closed cycle of line edges through points.
func (b *FaceBuilder) polygonCycle(points []geom.Vec2, tol geom.Tolerance) Cycle {
	var cycle Cycle
	for i, p := range points {
		q := points[(i+1)%len(points)]
		cycle.Edges = append(cycle.Edges, LineSegmentEdge(b.arena, b.surface, p, q, tol))
	}
	return cycle
}
