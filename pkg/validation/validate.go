package validation

import (
	"fmt"
	"math"
	"sort"
	"strings"

	polyclip "github.com/akavel/polyclip-go"

	"github.com/keelcad/keel/pkg/algorithm"
	"github.com/keelcad/keel/pkg/geom"
	"github.com/keelcad/keel/pkg/geometry"
	"github.com/keelcad/keel/pkg/topology"
)

// ValidateSketch runs the 2D shape checks (cycle closure, cycle overlap, cycle
// self-intersection) and certifies the sketch if all pass. On failure the
// returned error is a Result carrying every finding.
func ValidateSketch(s topology.Sketch, cfg Config) (Validated[topology.Sketch], error) {
	errs := faceErrors(s.Arena, s.Faces, cfg)
	if len(errs) > 0 {
		return Validated[topology.Sketch]{}, Result{Errors: errs}
	}
	return Validated[topology.Sketch]{inner: s}, nil
}

// ValidateSolid runs the sketch checks on every face plus the solid-only join
// check: every bounded edge must stitch exactly two faces together, traversed
// in opposite directions.
func ValidateSolid(s topology.Solid, cfg Config) (Validated[topology.Solid], error) {
	errs := faceErrors(s.Arena, s.Faces, cfg)
	if cfg.enabled(KindInconsistentJoin) {
		errs = append(errs, checkJoins(s.Faces, cfg.Tolerance)...)
	}
	if len(errs) > 0 {
		return Validated[topology.Solid]{}, Result{Errors: errs}
	}
	return Validated[topology.Solid]{inner: s}, nil
}

func faceErrors(arena *topology.Arena, faces []topology.Face, cfg Config) []Error {
	var errs []Error
	for fi, f := range faces {
		brep, ok := f.(topology.FaceBRep)
		if !ok {
			// Triangle faces carry no cycles; nothing to check.
			continue
		}
		if cfg.enabled(KindOpenCycle) {
			errs = append(errs, checkClosure(arena, fi, brep, cfg.Tolerance)...)
		}
		if isBand(brep) {
			// A face bounded by two closed cycles (a swept tube section) has
			// a periodic parameter space; its cycles do not enclose planar
			// regions, so the polygon checks below do not apply.
			continue
		}
		if cfg.enabled(KindSelfIntersection) {
			errs = append(errs, checkSelfIntersection(fi, brep, cfg.Tolerance)...)
		}
		if cfg.enabled(KindOverlappingCycles) {
			errs = append(errs, checkOverlap(fi, brep, cfg.Tolerance)...)
		}
	}
	return errs
}

// isBand reports whether the face is bounded by exactly two closed-edge
// cycles, the shape of a swept closed edge.
func isBand(f topology.FaceBRep) bool {
	if len(f.Exteriors) != 2 || len(f.Interiors) != 0 {
		return false
	}
	for _, c := range f.Exteriors {
		if len(c.Edges) != 1 || !c.Edges[0].IsClosed() {
			return false
		}
	}
	return true
}

// checkClosure verifies each cycle forms a closed loop: every edge's end
// vertex coincides with the next edge's start vertex, wrapping around. A
// closed edge is a loop by itself and must be the cycle's only edge.
func checkClosure(arena *topology.Arena, fi int, f topology.FaceBRep, tol geom.Tolerance) []Error {
	var errs []Error
	for ci, cycle := range f.AllCycles() {
		if len(cycle.Edges) == 0 {
			errs = append(errs, Error{
				Kind: KindOpenCycle, Face: fi, Cycle: ci, Edge: -1,
				Message: "cycle has no edges",
			})
			continue
		}

		for ei, e := range cycle.Edges {
			if e.IsClosed() {
				if len(cycle.Edges) > 1 {
					errs = append(errs, Error{
						Kind: KindOpenCycle, Face: fi, Cycle: ci, Edge: ei,
						Message: "closed edge mixed with other edges in one cycle",
					})
				}
				continue
			}

			next := cycle.Edges[(ei+1)%len(cycle.Edges)]
			if next.IsClosed() {
				continue
			}
			end, _ := e.End()
			start, _ := next.Start()
			if !arena.Coincident(end.Global, start.Global, tol) {
				gap := arena.Resolve(end.Global).Position.
					Sub(arena.Resolve(start.Global).Position).Norm()
				errs = append(errs, Error{
					Kind: KindOpenCycle, Face: fi, Cycle: ci, Edge: ei,
					Message: fmt.Sprintf("gap of %g to next edge", gap),
				})
			}
		}
	}
	return errs
}

// checkSelfIntersection tests each cycle's approximated boundary against
// itself: any two non-adjacent segments that meet make the boundary
// self-intersecting.
func checkSelfIntersection(fi int, f topology.FaceBRep, tol geom.Tolerance) []Error {
	var errs []Error
	for ci, cycle := range f.AllCycles() {
		points := algorithm.ApproxCycle(cycle, tol)
		n := len(points)
		if n < 4 {
			continue
		}
		for i := 0; i < n; i++ {
			a := algorithm.Segment{A: points[i], B: points[(i+1)%n]}
			for j := i + 2; j < n; j++ {
				if i == 0 && j == n-1 {
					// Adjacent through the wrap-around.
					continue
				}
				b := algorithm.Segment{A: points[j], B: points[(j+1)%n]}
				hit := algorithm.LineSegment(a, b, tol)
				if hit.Kind != algorithm.IntersectionNone {
					errs = append(errs, Error{
						Kind: KindSelfIntersection, Face: fi, Cycle: ci, Edge: -1,
						Message: fmt.Sprintf("boundary segments %d and %d intersect", i, j),
					})
				}
			}
		}
	}
	return errs
}

// checkOverlap verifies the face's cycles partition its region cleanly:
// exterior cycles must not overlap each other, interior cycles must not
// overlap each other, and every interior must lie inside the exterior region.
// Overlap is measured as the area of the polygon intersection; slivers smaller
// than a tolerance-sized square are coincidence noise, not overlap.
func checkOverlap(fi int, f topology.FaceBRep, tol geom.Tolerance) []Error {
	var errs []Error
	areaTol := tol.F() * tol.F()

	exteriors := make([]polyclip.Polygon, len(f.Exteriors))
	for i, c := range f.Exteriors {
		exteriors[i] = cyclePolygon(c, tol)
	}
	interiors := make([]polyclip.Polygon, len(f.Interiors))
	for i, c := range f.Interiors {
		interiors[i] = cyclePolygon(c, tol)
	}

	report := func(ci, cj int, msg string) {
		errs = append(errs, Error{
			Kind: KindOverlappingCycles, Face: fi, Cycle: ci, Edge: -1,
			Message: fmt.Sprintf(msg, cj),
		})
	}

	for i := 0; i < len(exteriors); i++ {
		for j := i + 1; j < len(exteriors); j++ {
			if polygonArea(exteriors[i].Construct(polyclip.INTERSECTION, exteriors[j])) > areaTol {
				report(i, j, "exterior cycle overlaps exterior cycle %d")
			}
		}
	}
	for i := 0; i < len(interiors); i++ {
		for j := i + 1; j < len(interiors); j++ {
			if polygonArea(interiors[i].Construct(polyclip.INTERSECTION, interiors[j])) > areaTol {
				report(len(exteriors)+i, len(exteriors)+j, "interior cycle overlaps interior cycle %d")
			}
		}
	}

	if len(exteriors) > 0 {
		union := exteriors[0]
		for _, p := range exteriors[1:] {
			union = union.Construct(polyclip.UNION, p)
		}
		for i, hole := range interiors {
			outside := hole.Construct(polyclip.DIFFERENCE, union)
			if polygonArea(outside) > areaTol {
				errs = append(errs, Error{
					Kind: KindOverlappingCycles, Face: fi, Cycle: len(exteriors) + i, Edge: -1,
					Message: "interior cycle extends outside the exterior region",
				})
			}
		}
	}
	return errs
}

func cyclePolygon(c topology.Cycle, tol geom.Tolerance) polyclip.Polygon {
	points := algorithm.ApproxCycle(c, tol)
	contour := make(polyclip.Contour, len(points))
	for i, p := range points {
		contour[i] = polyclip.Point{X: p.X, Y: p.Y}
	}
	return polyclip.Polygon{contour}
}

func polygonArea(p polyclip.Polygon) float64 {
	total := 0.0
	for _, contour := range p {
		sum := 0.0
		for i, a := range contour {
			b := contour[(i+1)%len(contour)]
			sum += a.X*b.Y - b.X*a.Y
		}
		total += math.Abs(sum) / 2
	}
	return total
}

// checkJoins verifies the solid is a closed shell: every edge, identified by
// tolerance-quantized sample points of its global curve, must occur in exactly
// two faces, and the two traversals must run in opposite directions.
func checkJoins(faces []topology.Face, tol geom.Tolerance) []Error {
	type occurrence struct {
		face     int
		directed string
	}
	edges := map[string][]occurrence{}

	for fi, f := range faces {
		brep, ok := f.(topology.FaceBRep)
		if !ok {
			continue
		}
		for _, cycle := range brep.AllCycles() {
			for _, e := range cycle.Edges {
				undirected, directed := edgeKeys(e, tol)
				edges[undirected] = append(edges[undirected], occurrence{
					face: fi, directed: directed,
				})
			}
		}
	}

	var errs []Error
	keys := make([]string, 0, len(edges))
	for k := range edges {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		occ := edges[k]
		switch {
		case len(occ) != 2:
			errs = append(errs, Error{
				Kind: KindInconsistentJoin, Face: occ[0].face, Cycle: -1, Edge: -1,
				Message: fmt.Sprintf("edge bounds %d faces, want 2", len(occ)),
			})
		case occ[0].directed == occ[1].directed:
			errs = append(errs, Error{
				Kind: KindInconsistentJoin, Face: occ[0].face, Cycle: -1, Edge: -1,
				Message: fmt.Sprintf("edge shared with face %d has same orientation on both", occ[1].face),
			})
		}
	}
	return errs
}

// edgeKeys samples three points along the edge's traversal of its global
// curve and quantizes them by the tolerance. The undirected key (samples
// sorted) identifies the edge regardless of direction; the directed key
// (samples in traversal order, canonicalized cyclically for closed edges)
// distinguishes the two directions.
func edgeKeys(e topology.Edge, tol geom.Tolerance) (string, string) {
	curve := e.Curve.Global()

	var params []float64
	if e.Vertices == nil {
		params = []float64{0, 2 * math.Pi / 3, 4 * math.Pi / 3}
	} else {
		t0, t1 := e.Vertices[0].Position, e.Vertices[1].Position
		params = []float64{t0, (t0 + t1) / 2, t1}
	}
	if e.Reverse {
		if e.Vertices == nil {
			for i := range params {
				params[i] = -params[i]
			}
		} else {
			params[0], params[2] = params[2], params[0]
		}
	}

	samples := make([]string, len(params))
	for i, t := range params {
		p := geometry.CurvePointAt(curve, t)
		samples[i] = fmt.Sprintf("%d|%d|%d",
			quantize(p.X, tol), quantize(p.Y, tol), quantize(p.Z, tol))
	}

	sorted := append([]string(nil), samples...)
	sort.Strings(sorted)
	undirected := strings.Join(sorted, ";")

	directed := samples
	if e.Vertices == nil {
		directed = rotateToSmallest(samples)
	}
	return undirected, strings.Join(directed, ";")
}

func quantize(x float64, tol geom.Tolerance) int64 {
	return int64(math.Round(x / tol.F()))
}

func rotateToSmallest(s []string) []string {
	min := 0
	for i := range s {
		if s[i] < s[min] {
			min = i
		}
	}
	out := make([]string, 0, len(s))
	out = append(out, s[min:]...)
	out = append(out, s[:min]...)
	return out
}
