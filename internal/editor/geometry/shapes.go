package geometry

import "math"

// ============================================================
// Primitives
// ============================================================

const epsilon = 1e-6

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect: прямоугольник, заданный левым верхним углом и размером.
// Ширина и высота могут быть отрицательными во время перетаскивания,
// перед любыми геометрическими запросами вызывается Normalize.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"width"`
	H float64 `json:"height"`
}

func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// RectFromPoints строит нормализованный прямоугольник по двум углам.
func RectFromPoints(a, b Point) Rect {
	return Rect{
		X: math.Min(a.X, b.X),
		Y: math.Min(a.Y, b.Y),
		W: math.Abs(b.X - a.X),
		H: math.Abs(b.Y - a.Y),
	}
}

// Normalize возвращает прямоугольник с неотрицательными размерами.
func (r Rect) Normalize() Rect {
	if r.W < 0 {
		r.X += r.W
		r.W = -r.W
	}
	if r.H < 0 {
		r.Y += r.H
		r.H = -r.H
	}
	return r
}

func (r Rect) Left() float64   { return r.X }
func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Top() float64    { return r.Y }
func (r Rect) Bottom() float64 { return r.Y + r.H }

func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

func (r Rect) Contains(p Point) bool {
	n := r.Normalize()
	return p.X >= n.X && p.X <= n.Right() && p.Y >= n.Y && p.Y <= n.Bottom()
}

// Expand расширяет прямоугольник на m во все стороны.
func (r Rect) Expand(m float64) Rect {
	n := r.Normalize()
	return Rect{X: n.X - m, Y: n.Y - m, W: n.W + 2*m, H: n.H + 2*m}
}

// Intersect возвращает пересечение; ok=false, если площадь пересечения нулевая.
func (r Rect) Intersect(o Rect) (Rect, bool) {
	a, b := r.Normalize(), o.Normalize()
	x1 := math.Max(a.X, b.X)
	y1 := math.Max(a.Y, b.Y)
	x2 := math.Min(a.Right(), b.Right())
	y2 := math.Min(a.Bottom(), b.Bottom())
	if x2 <= x1 || y2 <= y1 {
		return Rect{}, false
	}
	return Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}, true
}

// Overlaps проверяет строгое перекрытие; касание краями перекрытием не считается.
func (r Rect) Overlaps(o Rect) bool {
	_, ok := r.Intersect(o)
	return ok
}

// OverlapDepth: меньшая сторона пересечения, 0 если пересечения нет.
func (r Rect) OverlapDepth(o Rect) float64 {
	in, ok := r.Intersect(o)
	if !ok {
		return 0
	}
	return math.Min(in.W, in.H)
}

func (r Rect) Union(o Rect) Rect {
	a, b := r.Normalize(), o.Normalize()
	x1 := math.Min(a.X, b.X)
	y1 := math.Min(a.Y, b.Y)
	x2 := math.Max(a.Right(), b.Right())
	y2 := math.Max(a.Bottom(), b.Bottom())
	return Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

// RotatedBounds возвращает описанный прямоугольник для r, повернутого
// на angleDeg вокруг собственного центра.
func (r Rect) RotatedBounds(angleDeg float64) Rect {
	n := r.Normalize()
	a := math.Mod(angleDeg, 360)
	if a == 0 {
		return n
	}
	c := n.Center()
	corners := [4]Point{
		{X: n.X, Y: n.Y},
		{X: n.Right(), Y: n.Y},
		{X: n.Right(), Y: n.Bottom()},
		{X: n.X, Y: n.Bottom()},
	}
	minX, minY := math.MaxFloat64, math.MaxFloat64
	maxX, maxY := -math.MaxFloat64, -math.MaxFloat64
	for _, p := range corners {
		x, y := RotatePoint(p.X, p.Y, c.X, c.Y, a)
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// ============================================================
// Segments
// ============================================================

type Segment struct {
	A Point
	B Point
}

func (s Segment) Length() float64 {
	return Distance(s.A.X, s.A.Y, s.B.X, s.B.Y)
}

func (s Segment) Midpoint() Point {
	return Point{X: (s.A.X + s.B.X) / 2, Y: (s.A.Y + s.B.Y) / 2}
}

// Bounds: осевой прямоугольник вокруг отрезка без отступов (может быть вырожденным).
func (s Segment) Bounds() Rect {
	return RectFromPoints(s.A, s.B)
}

// orientation: >0 против часовой, <0 по часовой, 0 коллинеарно.
func orientation(a, b, c Point) float64 {
	v := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
	if math.Abs(v) < epsilon {
		return 0
	}
	return v
}

// Crosses сообщает о собственном пересечении отрезков. Касание концом
// (угол или Т-примыкание) пересечением не считается.
func (s Segment) Crosses(o Segment) bool {
	o1 := orientation(s.A, s.B, o.A)
	o2 := orientation(s.A, s.B, o.B)
	o3 := orientation(o.A, o.B, s.A)
	o4 := orientation(o.A, o.B, s.B)
	return o1*o2 < 0 && o3*o4 < 0
}

func (s Segment) Parallel(o Segment) bool {
	dx1, dy1 := s.B.X-s.A.X, s.B.Y-s.A.Y
	dx2, dy2 := o.B.X-o.A.X, o.B.Y-o.A.Y
	return math.Abs(dx1*dy2-dy1*dx2) < epsilon
}

// BoxesOverlap сравнивает (возможно вырожденные) рамки двух отрезков.
// Совпадающие вырожденные оси считаются перекрытыми, касание концами нет.
func (s Segment) BoxesOverlap(o Segment) bool {
	a, b := s.Bounds(), o.Bounds()
	return spanOverlap(a.X, a.Right(), b.X, b.Right()) &&
		spanOverlap(a.Y, a.Bottom(), b.Y, b.Bottom())
}

func spanOverlap(a0, a1, b0, b1 float64) bool {
	aPoint := a1-a0 < epsilon
	bPoint := b1-b0 < epsilon
	switch {
	case aPoint && bPoint:
		return math.Abs(a0-b0) < epsilon
	case aPoint:
		return a0 > b0+epsilon && a0 < b1-epsilon
	case bPoint:
		return b0 > a0+epsilon && b0 < a1-epsilon
	}
	return math.Min(a1, b1)-math.Max(a0, b0) > epsilon
}

// DistanceToPoint: расстояние от точки до ближайшей точки отрезка.
func (s Segment) DistanceToPoint(p Point) float64 {
	cx, cy := s.B.X-s.A.X, s.B.Y-s.A.Y
	lenSq := cx*cx + cy*cy
	t := -1.0
	if lenSq != 0 {
		t = ((p.X-s.A.X)*cx + (p.Y-s.A.Y)*cy) / lenSq
	}

	var nx, ny float64
	switch {
	case t < 0:
		nx, ny = s.A.X, s.A.Y
	case t > 1:
		nx, ny = s.B.X, s.B.Y
	default:
		nx, ny = s.A.X+t*cx, s.A.Y+t*cy
	}
	return Distance(p.X, p.Y, nx, ny)
}
