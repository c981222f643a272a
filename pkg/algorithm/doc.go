// Package algorithm implements the operations over the kernel's geometry and
// topology: the uniform transform over every object kind, the sweep that
// turns a sketch into a solid, the intersection algorithms, and the
// tolerance-driven approximation of cycles into polylines that validation and
// tessellation share.
package algorithm

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'keel.algorithm'.
func tracer() tracing.Trace {
	return tracing.Select("keel.algorithm")
}
