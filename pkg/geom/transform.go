package geom

import "math"

// Transform is an affine transform of 3D space, stored as a row-major 3x4
// matrix (rotation/scale block plus translation column). It is a value type;
// all operations return new transforms.
type Transform struct {
	m [12]float64
}

func (t Transform) get(row, col int) float64 {
	return t.m[row*4+col]
}

func (t *Transform) set(row, col int, value float64) {
	t.m[row*4+col] = value
}

// Identity returns the identity transform.
func Identity() Transform {
	var t Transform
	t.set(0, 0, 1)
	t.set(1, 1, 1)
	t.set(2, 2, 1)
	return t
}

// Translation returns the transform that translates by offset.
func Translation(offset Vec3) Transform {
	t := Identity()
	t.set(0, 3, offset.X)
	t.set(1, 3, offset.Y)
	t.set(2, 3, offset.Z)
	return t
}

// Rotation returns the rotation about the given axis-angle vector: the
// rotation axis is the vector's direction, the rotation angle (radians,
// counterclockwise) its length. The zero vector yields the identity.
func Rotation(axisAngle Vec3) Transform {
	angle := axisAngle.Norm()
	if angle == 0 {
		return Identity()
	}
	u := axisAngle.Scale(1 / angle)
	sin := math.Sin(angle)
	cos := math.Cos(angle)
	c1 := 1 - cos

	var t Transform
	t.set(0, 0, cos+u.X*u.X*c1)
	t.set(0, 1, u.X*u.Y*c1-u.Z*sin)
	t.set(0, 2, u.X*u.Z*c1+u.Y*sin)
	t.set(1, 0, u.Y*u.X*c1+u.Z*sin)
	t.set(1, 1, cos+u.Y*u.Y*c1)
	t.set(1, 2, u.Y*u.Z*c1-u.X*sin)
	t.set(2, 0, u.Z*u.X*c1-u.Y*sin)
	t.set(2, 1, u.Z*u.Y*c1+u.X*sin)
	t.set(2, 2, cos+u.Z*u.Z*c1)
	return t
}

// Mul combines two transforms: the result applies o first, then t, matching
// matrix multiplication t*o.
func (t Transform) Mul(o Transform) Transform {
	var r Transform
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			sum := 0.0
			for k := 0; k < 3; k++ {
				sum += t.get(row, k) * o.get(k, col)
			}
			r.set(row, col, sum)
		}
		// Translation column: t applied to o's translation.
		sum := t.get(row, 3)
		for k := 0; k < 3; k++ {
			sum += t.get(row, k) * o.get(k, 3)
		}
		r.set(row, 3, sum)
	}
	return r
}

// TransformPoint maps a point through the transform, including translation.
func (t Transform) TransformPoint(p Vec3) Vec3 {
	return Vec3{
		X: t.get(0, 0)*p.X + t.get(0, 1)*p.Y + t.get(0, 2)*p.Z + t.get(0, 3),
		Y: t.get(1, 0)*p.X + t.get(1, 1)*p.Y + t.get(1, 2)*p.Z + t.get(1, 3),
		Z: t.get(2, 0)*p.X + t.get(2, 1)*p.Y + t.get(2, 2)*p.Z + t.get(2, 3),
	}
}

// TransformVector maps a direction through the transform, ignoring
// translation.
func (t Transform) TransformVector(v Vec3) Vec3 {
	return Vec3{
		X: t.get(0, 0)*v.X + t.get(0, 1)*v.Y + t.get(0, 2)*v.Z,
		Y: t.get(1, 0)*v.X + t.get(1, 1)*v.Y + t.get(1, 2)*v.Z,
		Z: t.get(2, 0)*v.X + t.get(2, 1)*v.Y + t.get(2, 2)*v.Z,
	}
}

// TransformTriangle maps all three corners of a triangle.
func (t Transform) TransformTriangle(tri Triangle) Triangle {
	return Triangle{
		A: t.TransformPoint(tri.A),
		B: t.TransformPoint(tri.B),
		C: t.TransformPoint(tri.C),
	}
}

// Inverse returns the inverse transform. The linear block is inverted via its
// adjugate; a singular block returns the identity, which callers only hit by
// constructing a degenerate transform by hand.
func (t Transform) Inverse() Transform {
	a, b, c := t.get(0, 0), t.get(0, 1), t.get(0, 2)
	d, e, f := t.get(1, 0), t.get(1, 1), t.get(1, 2)
	g, h, i := t.get(2, 0), t.get(2, 1), t.get(2, 2)

	det := a*(e*i-f*h) - b*(d*i-f*g) + c*(d*h-e*g)
	if det == 0 {
		return Identity()
	}
	inv := 1 / det

	var r Transform
	r.set(0, 0, (e*i-f*h)*inv)
	r.set(0, 1, (c*h-b*i)*inv)
	r.set(0, 2, (b*f-c*e)*inv)
	r.set(1, 0, (f*g-d*i)*inv)
	r.set(1, 1, (a*i-c*g)*inv)
	r.set(1, 2, (c*d-a*f)*inv)
	r.set(2, 0, (d*h-e*g)*inv)
	r.set(2, 1, (b*g-a*h)*inv)
	r.set(2, 2, (a*e-b*d)*inv)

	// Inverse translation: -R⁻¹ * t.
	tx := Vec3{X: t.get(0, 3), Y: t.get(1, 3), Z: t.get(2, 3)}
	it := r.TransformVector(tx).Scale(-1)
	r.set(0, 3, it.X)
	r.set(1, 3, it.Y)
	r.set(2, 3, it.Z)
	return r
}
