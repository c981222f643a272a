package model

import (
	"github.com/keelcad/keel/pkg/algorithm"
	"github.com/keelcad/keel/pkg/geom"
	"github.com/keelcad/keel/pkg/geometry"
	"github.com/keelcad/keel/pkg/topology"
	"github.com/keelcad/keel/pkg/validation"
)

// Shape is any model-level shape definition. BoundingVolume is conservative:
// it bounds the shape without computing its boundary representation, which
// viewers use to frame a model before the kernel has run.
type Shape interface {
	BoundingVolume() geom.Aabb
}

// SketchShape is a 2D shape definition that lowers to a validated sketch.
type SketchShape interface {
	Shape
	ComputeBrep(cfg validation.Config) (validation.Validated[topology.Sketch], error)
}

// SolidShape is a 3D shape definition that lowers to a validated solid.
type SolidShape interface {
	Shape
	ComputeBrep(cfg validation.Config) (validation.Validated[topology.Solid], error)
}

// Sketch is a flat polygonal region in the XY plane, described by the corner
// points of its exterior boundary in order.
type Sketch struct {
	Points []geom.Vec2
	Color  topology.Color
}

// BoundingVolume bounds the sketch; flat shapes have zero extent in Z.
func (s Sketch) BoundingVolume() geom.Aabb {
	points := make([]geom.Vec3, len(s.Points))
	for i, p := range s.Points {
		points[i] = geom.V3(p.X, p.Y, 0)
	}
	return geom.AabbFromPoints(points)
}

// ComputeBrep lowers the sketch onto the XY plane and validates it.
func (s Sketch) ComputeBrep(cfg validation.Config) (validation.Validated[topology.Sketch], error) {
	arena := topology.NewArena()
	face := topology.NewFaceBuilder(arena, geometry.XYPlane()).
		WithExteriorPolygon(s.Points).
		WithColor(s.Color).
		Build(cfg.Tolerance)
	return validation.ValidateSketch(topology.Sketch{
		Arena: arena,
		Faces: []topology.Face{face},
	}, cfg)
}

// Circle is a flat disc of the given radius, centered at the origin of the XY
// plane.
type Circle struct {
	Radius float64
	Color  topology.Color
}

func (c Circle) BoundingVolume() geom.Aabb {
	return geom.Aabb{
		Min: geom.V3(-c.Radius, -c.Radius, 0),
		Max: geom.V3(c.Radius, c.Radius, 0),
	}
}

func (c Circle) ComputeBrep(cfg validation.Config) (validation.Validated[topology.Sketch], error) {
	arena := topology.NewArena()
	face := topology.NewFaceBuilder(arena, geometry.XYPlane()).
		WithExteriorCircle(geom.V2(0, 0), c.Radius).
		WithColor(c.Color).
		Build(cfg.Tolerance)
	return validation.ValidateSketch(topology.Sketch{
		Arena: arena,
		Faces: []topology.Face{face},
	}, cfg)
}

// Sweep extrudes a 2D shape along a path vector.
type Sweep struct {
	Shape SketchShape
	Path  geom.Vec3
}

// BoundingVolume merges the base shape's box with the box shifted to the far
// end of the path, bounding the whole extrusion.
func (s Sweep) BoundingVolume() geom.Aabb {
	base := s.Shape.BoundingVolume()
	return base.Merged(base.Translated(s.Path))
}

// ComputeBrep lowers the base sketch, sweeps it and validates the resulting
// solid, including the shell join check.
func (s Sweep) ComputeBrep(cfg validation.Config) (validation.Validated[topology.Solid], error) {
	sketch, err := s.Shape.ComputeBrep(cfg)
	if err != nil {
		return validation.Validated[topology.Solid]{}, err
	}
	solid := algorithm.Sweep(sketch.Inner(), s.Path, cfg.Tolerance)
	return validation.ValidateSolid(solid, cfg)
}

// Triangles is an already-tessellated shape, passed through the pipeline
// untouched.
type Triangles struct {
	Triangles []topology.ColoredTriangle
}

func (t Triangles) BoundingVolume() geom.Aabb {
	points := make([]geom.Vec3, 0, 3*len(t.Triangles))
	for _, ct := range t.Triangles {
		a, b, c := ct.Triangle.Points()
		points = append(points, a, b, c)
	}
	return geom.AabbFromPoints(points)
}

func (t Triangles) ComputeBrep(cfg validation.Config) (validation.Validated[topology.Solid], error) {
	return validation.ValidateSolid(topology.Solid{
		Arena: topology.NewArena(),
		Faces: []topology.Face{topology.FaceTriangles{Triangles: t.Triangles}},
	}, cfg)
}
