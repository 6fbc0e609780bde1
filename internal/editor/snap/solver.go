package snap

import (
	"math"

	"floorplan/internal/editor/geometry"
	"floorplan/internal/editor/models"
)

// ============================================================
// Smart snap
// ============================================================

const (
	DefaultThreshold   = 10.0
	DefaultGuideMargin = 50.0
)

type Orientation string

const (
	Vertical   Orientation = "vertical"
	Horizontal Orientation = "horizontal"
)

// Guide: вспомогательная линия выравнивания для отрисовки во время перетаскивания.
type Guide struct {
	Orientation Orientation    `json:"orientation"`
	From        geometry.Point `json:"from"`
	To          geometry.Point `json:"to"`
}

type Result struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	SnappedX bool    `json:"snapped_x"`
	SnappedY bool    `json:"snapped_y"`
	Guides   []Guide `json:"guides,omitempty"`
}

// Solver выравнивает перетаскиваемую сущность по краям и центрам соседей.
//
// Порядок обхода соседей определяет результат: на каждой оси побеждает
// первое совпадение, а не ближайшее. После привязки оси остальные соседи
// по ней не проверяются.
type Solver struct {
	Threshold   float64
	GuideMargin float64
}

func NewSolver(threshold float64) *Solver {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Solver{Threshold: threshold, GuideMargin: DefaultGuideMargin}
}

// edgePair: край перетаскиваемой рамки (смещение от ее левого/верхнего края)
// против края соседа.
type edgePair struct {
	self  func(lo, size float64) float64
	other func(lo, hi float64) float64
}

// Порядок проверки совпадает с интерактивным поведением редактора:
// левый-левый, левый-правый, правый-левый, правый-правый, центр-центр.
var edgePairs = []edgePair{
	{self: low, other: first},
	{self: low, other: second},
	{self: high, other: first},
	{self: high, other: second},
	{self: mid, other: middle},
}

func low(lo, _ float64) float64     { return lo }
func high(lo, size float64) float64 { return lo + size }
func mid(lo, size float64) float64  { return lo + size/2 }
func first(lo, _ float64) float64   { return lo }
func second(_, hi float64) float64  { return hi }
func middle(lo, hi float64) float64 { return (lo + hi) / 2 }

// Solve возвращает скорректированную позицию (x, y) для moving.
// Размер берется из рамки самой сущности, соседи сравниваются по Bounds.
// Ось без совпадения возвращается без изменений: вызывающий может
// откатиться к привязке к сетке.
func (s *Solver) Solve(moving models.Entity, siblings []models.Entity, x, y float64) Result {
	w, h := sizeOf(moving)
	res := Result{X: x, Y: y}

	for _, other := range siblings {
		if other == moving || other.ID() == moving.ID() {
			continue
		}
		ob := other.Bounds()

		if !res.SnappedX {
			if target, line, ok := s.match(x, w, ob.Left(), ob.Right()); ok {
				res.X = target
				res.SnappedX = true
				res.Guides = append(res.Guides, Guide{
					Orientation: Vertical,
					From:        geometry.Point{X: line, Y: math.Min(y, ob.Top()) - s.GuideMargin},
					To:          geometry.Point{X: line, Y: math.Max(y+h, ob.Bottom()) + s.GuideMargin},
				})
			}
		}

		if !res.SnappedY {
			if target, line, ok := s.match(y, h, ob.Top(), ob.Bottom()); ok {
				res.Y = target
				res.SnappedY = true
				res.Guides = append(res.Guides, Guide{
					Orientation: Horizontal,
					From:        geometry.Point{X: math.Min(x, ob.Left()) - s.GuideMargin, Y: line},
					To:          geometry.Point{X: math.Max(x+w, ob.Right()) + s.GuideMargin, Y: line},
				})
			}
		}

		if res.SnappedX && res.SnappedY {
			break
		}
	}
	return res
}

// match проверяет одну ось. target: новая левая/верхняя координата,
// line: позиция направляющей.
func (s *Solver) match(pos, size, otherLo, otherHi float64) (float64, float64, bool) {
	for _, p := range edgePairs {
		self := p.self(pos, size)
		line := p.other(otherLo, otherHi)
		if math.Abs(self-line) < s.Threshold {
			return pos + (line - self), line, true
		}
	}
	return pos, 0, false
}

func sizeOf(e models.Entity) (float64, float64) {
	if f, ok := e.(models.Framed); ok {
		r := f.Frame().Normalize()
		return r.W, r.H
	}
	b := e.Bounds()
	return b.W, b.H
}
