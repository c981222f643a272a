package geom

import "math"

// Aabb is an axis-aligned bounding box in 3D.
type Aabb struct {
	Min, Max Vec3
}

// AabbFromPoints computes the bounding box of a set of points. An empty set
// yields the zero box.
func AabbFromPoints(points []Vec3) Aabb {
	if len(points) == 0 {
		return Aabb{}
	}
	box := Aabb{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box.Min.X = math.Min(box.Min.X, p.X)
		box.Min.Y = math.Min(box.Min.Y, p.Y)
		box.Min.Z = math.Min(box.Min.Z, p.Z)
		box.Max.X = math.Max(box.Max.X, p.X)
		box.Max.Y = math.Max(box.Max.Y, p.Y)
		box.Max.Z = math.Max(box.Max.Z, p.Z)
	}
	return box
}

// Merged returns the smallest box containing both a and o.
func (a Aabb) Merged(o Aabb) Aabb {
	return AabbFromPoints([]Vec3{a.Min, a.Max, o.Min, o.Max})
}

// Translated returns the box shifted by offset.
func (a Aabb) Translated(offset Vec3) Aabb {
	return Aabb{Min: a.Min.Add(offset), Max: a.Max.Add(offset)}
}

// Vertices returns the eight corners of the box.
func (a Aabb) Vertices() [8]Vec3 {
	return [8]Vec3{
		{a.Min.X, a.Min.Y, a.Min.Z},
		{a.Max.X, a.Min.Y, a.Min.Z},
		{a.Min.X, a.Max.Y, a.Min.Z},
		{a.Max.X, a.Max.Y, a.Min.Z},
		{a.Min.X, a.Min.Y, a.Max.Z},
		{a.Max.X, a.Min.Y, a.Max.Z},
		{a.Min.X, a.Max.Y, a.Max.Z},
		{a.Max.X, a.Max.Y, a.Max.Z},
	}
}
