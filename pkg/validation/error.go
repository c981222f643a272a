// Package validation checks assembled shapes against the kernel's structural
// invariants and certifies the ones that pass. Downstream consumers
// (tessellation, export) accept only certified shapes, so an invalid shape
// cannot reach them by construction.
package validation

import (
	"fmt"
	"strings"
)

// Kind identifies a validation check and classifies its failures.
type Kind string

const (
	// KindOpenCycle: a cycle's edges do not form a closed loop.
	KindOpenCycle Kind = "OPEN_CYCLE"

	// KindOverlappingCycles: two cycles of the same face overlap, or an
	// interior cycle extends outside the exterior.
	KindOverlappingCycles Kind = "OVERLAPPING_CYCLES"

	// KindSelfIntersection: a cycle's boundary crosses itself.
	KindSelfIntersection Kind = "SELF_INTERSECTION"

	// KindInconsistentJoin: an edge of a solid does not bound exactly two
	// faces with opposite orientation.
	KindInconsistentJoin Kind = "INCONSISTENT_JOIN"
)

// Error is a single validation failure, locating the offending entity by face,
// cycle and edge index. Indices below zero mean the failure is not tied to an
// entity of that granularity.
type Error struct {
	Kind    Kind
	Face    int
	Cycle   int
	Edge    int
	Message string
}

func (e Error) Error() string {
	loc := ""
	if e.Face >= 0 {
		loc = fmt.Sprintf(" (face %d", e.Face)
		if e.Cycle >= 0 {
			loc += fmt.Sprintf(", cycle %d", e.Cycle)
		}
		if e.Edge >= 0 {
			loc += fmt.Sprintf(", edge %d", e.Edge)
		}
		loc += ")"
	}
	return fmt.Sprintf("%s: %s%s", e.Kind, e.Message, loc)
}

// Result aggregates every failure found in one validation run. It is returned
// as the error value, so callers get the full diagnosis in one pass instead of
// stopping at the first finding.
type Result struct {
	Errors []Error
}

func (r Result) Error() string {
	if len(r.Errors) == 1 {
		return r.Errors[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d validation errors:", len(r.Errors))
	for _, e := range r.Errors {
		b.WriteString("\n  ")
		b.WriteString(e.Error())
	}
	return b.String()
}
