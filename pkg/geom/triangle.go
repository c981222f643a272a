package geom

// Triangle is a triangle in global 3D space, wound counterclockwise when seen
// from the side its normal points to.
type Triangle struct {
	A, B, C Vec3
}

// Normal returns the unit normal of the triangle's plane.
func (t Triangle) Normal() Vec3 {
	return t.B.Sub(t.A).Cross(t.C.Sub(t.A)).Normalized()
}

// Reversed returns the triangle with opposite winding.
func (t Triangle) Reversed() Triangle {
	return Triangle{A: t.A, B: t.C, C: t.B}
}

// Points returns the corners in winding order.
func (t Triangle) Points() (Vec3, Vec3, Vec3) {
	return t.A, t.B, t.C
}
