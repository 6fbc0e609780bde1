package svgimport

import (
	"fmt"
	"math"
	"sort"

	"floorplan/internal/editor/geometry"
)

// ============================================================
// Wall centerlines
// ============================================================

const (
	vertexTolerance   = 2.0  // tolerance для объединения близких точек
	connectTolerance  = 15.0 // допуск для поиска пересечения и снаппинга
	stubLength        = 8.0  // висячие обрезки короче этого отбрасываются
	axisSnapTolerance = 4.0  // насколько можно отойти от оси, чтобы зафиксировать координату
)

type wallSegment struct {
	id        string
	p1, p2    geometry.Point
	thickness float64
}

// centerline превращает прямоугольник (или контур) стены в осевую линию
// по длинной стороне; толщина равна короткой стороне.
func centerline(el Element, tf transform) (wallSegment, error) {
	var box geometry.Rect
	switch geom := el.Geometry.(type) {
	case LineGeometry:
		return wallSegment{
			id:        el.ID,
			p1:        tf.point(geometry.Point{X: geom.X1, Y: geom.Y1}),
			p2:        tf.point(geometry.Point{X: geom.X2, Y: geom.Y2}),
			thickness: tf.length(geom.Thickness),
		}, nil
	case RectGeometry:
		box = geometry.Rect{X: geom.X, Y: geom.Y, W: geom.Width, H: geom.Height}.Normalize()
	case PathGeometry:
		points, err := ParsePath(geom.D)
		if err != nil {
			return wallSegment{}, err
		}
		box = pathBounds(points)
	default:
		return wallSegment{}, fmt.Errorf("unsupported geometry %T", geom)
	}

	var p1, p2 geometry.Point
	if box.W >= box.H {
		// горизонтальная: середина по Y, края по X
		midY := box.Y + box.H/2
		p1 = geometry.Point{X: box.X, Y: midY}
		p2 = geometry.Point{X: box.Right(), Y: midY}
	} else {
		midX := box.X + box.W/2
		p1 = geometry.Point{X: midX, Y: box.Y}
		p2 = geometry.Point{X: midX, Y: box.Bottom()}
	}

	return wallSegment{
		id:        el.ID,
		p1:        tf.point(p1),
		p2:        tf.point(p2),
		thickness: tf.length(math.Min(box.W, box.H)),
	}, nil
}

// ============================================================
// Segment splitting
// ============================================================

type segmentInfo struct {
	segment     wallSegment
	horizontal  bool
	start, end  float64
	constant    float64
	splitPoints []float64
}

// splitSegments режет осевые стены в точках Т-примыканий и пересечений.
// Крест из двух стен превращается в четыре стены, сходящиеся в одной
// точке, что для детектора коллизий законно. Диагональные стены не режутся.
func splitSegments(segments []wallSegment) []wallSegment {
	var infos []*segmentInfo
	var result []wallSegment

	for _, seg := range segments {
		dx := math.Abs(seg.p1.X - seg.p2.X)
		dy := math.Abs(seg.p1.Y - seg.p2.Y)
		if dx > axisSnapTolerance && dy > axisSnapTolerance {
			result = append(result, seg)
			continue
		}

		horizontal := dy <= dx
		start, end, constant := seg.p1.X, seg.p2.X, (seg.p1.Y+seg.p2.Y)/2
		if !horizontal {
			start, end, constant = seg.p1.Y, seg.p2.Y, (seg.p1.X+seg.p2.X)/2
		}
		if start > end {
			start, end = end, start
		}
		infos = append(infos, &segmentInfo{
			segment:     seg,
			horizontal:  horizontal,
			start:       start,
			end:         end,
			constant:    constant,
			splitPoints: []float64{start, end},
		})
	}

	for i := 0; i < len(infos); i++ {
		for j := i + 1; j < len(infos); j++ {
			a, b := infos[i], infos[j]
			if a.horizontal == b.horizontal {
				continue
			}
			if a.horizontal {
				tryAddIntersection(a, b)
			} else {
				tryAddIntersection(b, a)
			}
		}
	}

	for _, info := range infos {
		points := append([]float64{}, info.splitPoints...)
		sort.Float64s(points)
		points = uniquePoints(points)

		parts := len(points) - 1
		for idx := 0; idx < parts; idx++ {
			start, end := points[idx], points[idx+1]

			var p1, p2 geometry.Point
			if info.horizontal {
				p1 = geometry.Point{X: start, Y: info.constant}
				p2 = geometry.Point{X: end, Y: info.constant}
			} else {
				p1 = geometry.Point{X: info.constant, Y: start}
				p2 = geometry.Point{X: info.constant, Y: end}
			}

			id := info.segment.id
			if parts > 1 {
				id = fmt.Sprintf("%s_%d", info.segment.id, idx+1)
			}
			result = append(result, wallSegment{id: id, p1: p1, p2: p2, thickness: info.segment.thickness})
		}
	}
	return result
}

func tryAddIntersection(h, v *segmentInfo) {
	vx, hy := v.constant, h.constant

	if vx < h.start-connectTolerance || vx > h.end+connectTolerance {
		return
	}
	if hy < v.start-connectTolerance || hy > v.end+connectTolerance {
		return
	}

	h.splitPoints = append(h.splitPoints, clamp(vx, h.start, h.end))
	v.splitPoints = append(v.splitPoints, clamp(hy, v.start, v.end))
}

func uniquePoints(points []float64) []float64 {
	if len(points) == 0 {
		return points
	}
	out := points[:1]
	for _, p := range points[1:] {
		if !almostEqual(p, out[len(out)-1]) {
			out = append(out, p)
		}
	}
	return out
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// ============================================================
// Vertex welding
// ============================================================

type edge struct {
	id        string
	v1, v2    int
	thickness float64
}

// wallGraph склеивает концы стен, лежащие ближе vertexTolerance,
// чтобы стены сходились в общих вершинах.
type wallGraph struct {
	vertices []geometry.Point
	edges    []edge
}

func weld(segments []wallSegment) []wallSegment {
	g := &wallGraph{}
	for _, s := range segments {
		g.edges = append(g.edges, edge{
			id:        s.id,
			v1:        g.vertex(s.p1),
			v2:        g.vertex(s.p2),
			thickness: s.thickness,
		})
	}
	g.snapAxisAligned()
	degree := g.degrees()

	out := make([]wallSegment, 0, len(g.edges))
	for _, e := range g.edges {
		if e.v1 == e.v2 {
			continue
		}
		// обрезок за углом, оставшийся от перекрытия прямоугольников стен
		a, b := g.vertices[e.v1], g.vertices[e.v2]
		if geometry.Distance(a.X, a.Y, b.X, b.Y) < stubLength && (degree[e.v1] == 1 || degree[e.v2] == 1) {
			continue
		}
		out = append(out, wallSegment{id: e.id, p1: g.vertices[e.v1], p2: g.vertices[e.v2], thickness: e.thickness})
	}
	return out
}

func (g *wallGraph) vertex(p geometry.Point) int {
	for i, v := range g.vertices {
		if geometry.Distance(p.X, p.Y, v.X, v.Y) <= vertexTolerance {
			return i
		}
	}
	g.vertices = append(g.vertices, p)
	return len(g.vertices) - 1
}

func (g *wallGraph) degrees() []int {
	deg := make([]int, len(g.vertices))
	for _, e := range g.edges {
		deg[e.v1]++
		deg[e.v2]++
	}
	return deg
}

// snapAxisAligned выравнивает вершины почти горизонтальных и почти
// вертикальных стен по средней координате.
func (g *wallGraph) snapAxisAligned() {
	type agg struct {
		sumX, sumY float64
		cntX, cntY int
	}
	aggs := make([]agg, len(g.vertices))

	for _, e := range g.edges {
		v1, v2 := g.vertices[e.v1], g.vertices[e.v2]
		switch {
		case math.Abs(v1.Y-v2.Y) <= axisSnapTolerance:
			y := (v1.Y + v2.Y) / 2
			for _, id := range []int{e.v1, e.v2} {
				aggs[id].sumY += y
				aggs[id].cntY++
			}
		case math.Abs(v1.X-v2.X) <= axisSnapTolerance:
			x := (v1.X + v2.X) / 2
			for _, id := range []int{e.v1, e.v2} {
				aggs[id].sumX += x
				aggs[id].cntX++
			}
		}
	}

	for i, a := range aggs {
		if a.cntX > 0 {
			g.vertices[i].X = a.sumX / float64(a.cntX)
		}
		if a.cntY > 0 {
			g.vertices[i].Y = a.sumY / float64(a.cntY)
		}
	}
}
