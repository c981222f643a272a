package tessellate

import (
	"math"
	"sort"

	polyclip "github.com/akavel/polyclip-go"

	"github.com/keelcad/keel/pkg/geom"
)

// triangulateRegion triangulates the area enclosed by the exterior polygons
// minus the interior ones, all given in surface coordinates. Interiors are
// clipped against the exteriors first, then each resulting outer contour is
// merged with its holes through bridge edges and ear-clipped.
//
// The output winding follows the first exterior polygon: counterclockwise
// input yields counterclockwise triangles.
func triangulateRegion(exteriors, interiors [][]geom.Vec2) [][3]geom.Vec2 {
	if len(exteriors) == 0 {
		return nil
	}
	flip := signedArea(exteriors[0]) < 0

	region := toPolygon(exteriors)
	if len(interiors) > 0 {
		region = region.Construct(polyclip.DIFFERENCE, toPolygon(interiors))
	}

	var contours [][]geom.Vec2
	for _, c := range region {
		if len(c) >= 3 {
			contours = append(contours, fromContour(c))
		}
	}

	var out [][3]geom.Vec2
	for _, group := range nestContours(contours) {
		merged := mergeHoles(group.outer, group.holes)
		out = append(out, earClip(merged)...)
	}

	if flip {
		for i := range out {
			out[i][1], out[i][2] = out[i][2], out[i][1]
		}
	}
	return out
}

func toPolygon(contours [][]geom.Vec2) polyclip.Polygon {
	p := make(polyclip.Polygon, len(contours))
	for i, points := range contours {
		c := make(polyclip.Contour, len(points))
		for j, pt := range points {
			c[j] = polyclip.Point{X: pt.X, Y: pt.Y}
		}
		p[i] = c
	}
	return p
}

func fromContour(c polyclip.Contour) []geom.Vec2 {
	out := make([]geom.Vec2, len(c))
	for i, pt := range c {
		out[i] = geom.V2(pt.X, pt.Y)
	}
	return out
}

type contourGroup struct {
	outer []geom.Vec2
	holes [][]geom.Vec2
}

// nestContours sorts clip output into outer contours and the holes inside
// them, by even-odd containment depth. Orientation of the clip output is not
// relied on.
func nestContours(contours [][]geom.Vec2) []contourGroup {
	depth := make([]int, len(contours))
	parent := make([]int, len(contours))
	for i := range contours {
		parent[i] = -1
		best := math.MaxFloat64
		for j := range contours {
			if i == j {
				continue
			}
			if pointInPolygon(contours[i][0], contours[j]) {
				depth[i]++
				if a := math.Abs(signedArea(contours[j])); a < best {
					best = a
					parent[i] = j
				}
			}
		}
	}

	groups := map[int]*contourGroup{}
	var order []int
	for i, c := range contours {
		if depth[i]%2 == 0 {
			groups[i] = &contourGroup{outer: c}
			order = append(order, i)
		}
	}
	for i, c := range contours {
		if depth[i]%2 == 1 && parent[i] >= 0 {
			if g, ok := groups[parent[i]]; ok {
				g.holes = append(g.holes, c)
			}
		}
	}

	sort.Ints(order)
	out := make([]contourGroup, len(order))
	for i, idx := range order {
		out[i] = *groups[idx]
	}
	return out
}

// mergeHoles splices each hole into the outer contour through a bridge edge,
// producing a single simple polygon that ear clipping can consume. The outer
// contour is normalized counterclockwise and holes clockwise; holes are
// processed rightmost first so an earlier bridge cannot cross a later hole.
func mergeHoles(outer []geom.Vec2, holes [][]geom.Vec2) []geom.Vec2 {
	out := append([]geom.Vec2(nil), outer...)
	if signedArea(out) < 0 {
		reverse(out)
	}

	hs := make([][]geom.Vec2, len(holes))
	for i, h := range holes {
		hs[i] = append([]geom.Vec2(nil), h...)
		if signedArea(hs[i]) > 0 {
			reverse(hs[i])
		}
	}
	sort.Slice(hs, func(i, j int) bool {
		return maxX(hs[i]) > maxX(hs[j])
	})

	for _, h := range hs {
		out = spliceHole(out, h)
	}
	return out
}

// spliceHole connects a hole's rightmost vertex to a visible vertex of the
// outer polygon and splices the hole's vertex loop in at that point.
func spliceHole(outer, hole []geom.Vec2) []geom.Vec2 {
	// Rightmost hole vertex.
	hi := 0
	for i, p := range hole {
		if p.X > hole[hi].X {
			hi = i
		}
	}
	m := hole[hi]

	// Closest intersection of the ray from m along +X with the outer edges.
	bestT := math.MaxFloat64
	bestEdge := -1
	for i := range outer {
		a := outer[i]
		b := outer[(i+1)%len(outer)]
		if (a.Y > m.Y) == (b.Y > m.Y) {
			continue
		}
		x := a.X + (m.Y-a.Y)/(b.Y-a.Y)*(b.X-a.X)
		if x >= m.X && x-m.X < bestT {
			bestT = x - m.X
			bestEdge = i
		}
	}
	if bestEdge < 0 {
		// Hole outside the outer contour; the clip step prevents this.
		return outer
	}

	a := outer[bestEdge]
	b := outer[(bestEdge+1)%len(outer)]
	pi := bestEdge
	if b.X > a.X {
		pi = (bestEdge + 1) % len(outer)
	}
	p := outer[pi]
	ip := geom.V2(m.X+bestT, m.Y)

	// If a reflex outer vertex lies inside triangle (m, ip, p), the direct
	// bridge would cross the boundary; bridge to the one closest in angle to
	// the +X axis instead.
	for i, v := range outer {
		if i == pi || !isReflex(outer, i) {
			continue
		}
		if pointInTriangle(v, m, ip, p) {
			if angleFromX(v.Sub(m)) < angleFromX(p.Sub(m)) {
				pi = i
				p = v
			}
		}
	}

	// outer[0..pi], hole[hi..], hole[..hi], back to p, rest of outer.
	out := make([]geom.Vec2, 0, len(outer)+len(hole)+2)
	out = append(out, outer[:pi+1]...)
	out = append(out, hole[hi:]...)
	out = append(out, hole[:hi+1]...)
	out = append(out, outer[pi:]...)
	return out
}

// earClip triangulates a simple counterclockwise polygon by repeatedly cutting
// ears. Quadratic, which is fine at the polygon sizes tolerance-driven
// approximation produces.
func earClip(points []geom.Vec2) [][3]geom.Vec2 {
	verts := append([]geom.Vec2(nil), points...)
	var out [][3]geom.Vec2

	for len(verts) > 3 {
		clipped := false
		for i := range verts {
			if isEar(verts, i) {
				p := verts[(i-1+len(verts))%len(verts)]
				q := verts[i]
				r := verts[(i+1)%len(verts)]
				out = append(out, [3]geom.Vec2{p, q, r})
				verts = append(verts[:i], verts[i+1:]...)
				clipped = true
				break
			}
		}
		if !clipped {
			// Degenerate remainder (colinear chain); drop a vertex and keep
			// going rather than looping forever.
			verts = verts[1:]
		}
	}
	if len(verts) == 3 {
		out = append(out, [3]geom.Vec2{verts[0], verts[1], verts[2]})
	}
	return out
}

func isEar(verts []geom.Vec2, i int) bool {
	n := len(verts)
	p := verts[(i-1+n)%n]
	q := verts[i]
	r := verts[(i+1)%n]

	if q.Sub(p).Cross(r.Sub(q)) <= 0 {
		return false
	}
	for j, v := range verts {
		if j == (i-1+n)%n || j == i || j == (i+1)%n {
			continue
		}
		// Hole bridging duplicates its two endpoint vertices; a copy of one
		// of the ear's own corners does not block the ear.
		if v == p || v == q || v == r {
			continue
		}
		if pointInTriangle(v, p, q, r) {
			return false
		}
	}
	return true
}

func isReflex(verts []geom.Vec2, i int) bool {
	n := len(verts)
	p := verts[(i-1+n)%n]
	q := verts[i]
	r := verts[(i+1)%n]
	return q.Sub(p).Cross(r.Sub(q)) < 0
}

func signedArea(points []geom.Vec2) float64 {
	sum := 0.0
	for i, a := range points {
		b := points[(i+1)%len(points)]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

func pointInPolygon(p geom.Vec2, poly []geom.Vec2) bool {
	inside := false
	for i, a := range poly {
		b := poly[(i+1)%len(poly)]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := a.X + (p.Y-a.Y)/(b.Y-a.Y)*(b.X-a.X)
			if x > p.X {
				inside = !inside
			}
		}
	}
	return inside
}

func pointInTriangle(v, a, b, c geom.Vec2) bool {
	d1 := b.Sub(a).Cross(v.Sub(a))
	d2 := c.Sub(b).Cross(v.Sub(b))
	d3 := a.Sub(c).Cross(v.Sub(c))
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

func angleFromX(v geom.Vec2) float64 {
	return math.Abs(math.Atan2(v.Y, v.X))
}

func maxX(points []geom.Vec2) float64 {
	x := math.Inf(-1)
	for _, p := range points {
		if p.X > x {
			x = p.X
		}
	}
	return x
}

func reverse(points []geom.Vec2) {
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
}
