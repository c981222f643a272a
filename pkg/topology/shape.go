package topology

// Sketch is an unordered collection of faces in a shared 2D context. It does
// not distinguish a solid interior from an exterior.
type Sketch struct {
	Arena *Arena
	Faces []Face
}

// Solid is an unordered collection of faces whose cycles and surfaces bound a
// closed 3D region. Transforms replace a solid wholesale; they never mutate
// one in place.
type Solid struct {
	Arena *Arena
	Faces []Face
}
