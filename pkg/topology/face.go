package topology

import (
	"github.com/keelcad/keel/pkg/geom"
	"github.com/keelcad/keel/pkg/geometry"
)

// Color is an RGBA color with 8 bits per channel.
type Color [4]uint8

// ColoredTriangle is a triangle with a per-triangle color, the unit of the
// export boundary.
type ColoredTriangle struct {
	Triangle geom.Triangle
	Color    Color
}

// Face is the sum type over face kinds: a B-rep face bounded by cycles on a
// surface, or a raw list of already-tessellated triangles.
type Face interface {
	isFace()
}

// FaceBRep is a face defined by a surface and the cycles bounding a region of
// it. The face owns its cycles; vertices shared with adjacent faces are
// referenced through arena handles, not owned.
type FaceBRep struct {
	Surface geometry.Surface

	// Exteriors bound the face's outer region; Interiors bound holes in it.
	// Cycles of the same face must not overlap. This is not enforced here;
	// the validation engine checks it.
	Exteriors []Cycle
	Interiors []Cycle

	Color Color
}

// FaceTriangles is the degenerate face kind: triangles with per-triangle
// colors, already tessellated.
type FaceTriangles struct {
	Triangles []ColoredTriangle
}

func (FaceBRep) isFace()      {}
func (FaceTriangles) isFace() {}

// AllCycles returns the face's exterior cycles followed by its interiors.
func (f FaceBRep) AllCycles() []Cycle {
	out := make([]Cycle, 0, len(f.Exteriors)+len(f.Interiors))
	out = append(out, f.Exteriors...)
	out = append(out, f.Interiors...)
	return out
}

// Reversed returns the face with every cycle traversed in the opposite
// direction, flipping which side its normal points to. The exterior/interior
// partition and color are preserved.
func (f FaceBRep) Reversed() FaceBRep {
	out := FaceBRep{
		Surface:   f.Surface,
		Exteriors: make([]Cycle, len(f.Exteriors)),
		Interiors: make([]Cycle, len(f.Interiors)),
		Color:     f.Color,
	}
	for i, c := range f.Exteriors {
		out.Exteriors[i] = c.Reversed()
	}
	for i, c := range f.Interiors {
		out.Interiors[i] = c.Reversed()
	}
	return out
}
