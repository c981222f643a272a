package geometry

// Local pairs an object expressed in a local parametric space with its
// representation in global space. The two halves are set together through the
// constructor and there is deliberately no way to replace one alone: any
// transformation must rebuild the pair so that the global half stays the
// image of the local half.
type Local[L, G any] struct {
	local  L
	global G
}

// NewLocal pairs a local form with its global counterpart. The caller is
// responsible for the two actually describing the same object; every
// constructor in this module upholds that.
func NewLocal[L, G any](local L, global G) Local[L, G] {
	return Local[L, G]{local: local, global: global}
}

// Local returns the local form.
func (l Local[L, G]) Local() L {
	return l.local
}

// Global returns the global form.
func (l Local[L, G]) Global() G {
	return l.global
}
