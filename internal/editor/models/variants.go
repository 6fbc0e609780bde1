package models

import (
	"fmt"
	"path/filepath"
	"strings"

	"floorplan/internal/editor/geometry"
)

// ============================================================
// Wall
// ============================================================

const (
	DefaultWallThickness = 10.0
	// WallHitMargin расширяет рамку отрезка стены для hit-test и перекрытий с предметами.
	WallHitMargin = 5.0
)

type Wall struct {
	Base
	X1, Y1    float64
	X2, Y2    float64
	Thickness float64
}

func NewWall(x1, y1, x2, y2, thickness float64) (*Wall, error) {
	if thickness <= 0 {
		thickness = DefaultWallThickness
	}
	w := &Wall{Base: newBase(), X1: x1, Y1: y1, X2: x2, Y2: y2, Thickness: thickness}
	if w.Length() == 0 {
		return nil, fmt.Errorf("wall (%v,%v)-(%v,%v): %w", x1, y1, x2, y2, ErrDegenerateGeometry)
	}
	return w, nil
}

func (w *Wall) Kind() Kind { return KindWall }

func (w *Wall) Segment() geometry.Segment {
	return geometry.Segment{
		A: geometry.Point{X: w.X1, Y: w.Y1},
		B: geometry.Point{X: w.X2, Y: w.Y2},
	}
}

func (w *Wall) Length() float64 {
	return w.Segment().Length()
}

// Angle: направление стены в градусах, [0, 360).
func (w *Wall) Angle() float64 {
	return geometry.AngleBetween(w.X1, w.Y1, w.X2, w.Y2)
}

func (w *Wall) Bounds() geometry.Rect {
	return w.Segment().Bounds().Expand(WallHitMargin)
}

// SetEndpoints переносит оба конца стены.
func (w *Wall) SetEndpoints(a, b geometry.Point) {
	w.X1, w.Y1 = a.X, a.Y
	w.X2, w.Y2 = b.X, b.Y
}

func (w *Wall) Clone() Entity {
	cp := *w
	return &cp
}

// ============================================================
// Opening
// ============================================================

type OpeningStyle string

const (
	StyleWindow OpeningStyle = "window"
	StyleDoor   OpeningStyle = "door"
)

const (
	DefaultOpeningWidth  = 100.0
	DefaultOpeningHeight = 15.0
)

// Opening: окно или дверной проем, повернутый прямоугольник.
// WallAttachment=true означает, что проем сидит на стене и не конфликтует с ней.
type Opening struct {
	Base
	Style          OpeningStyle
	X, Y           float64
	Width, Height  float64
	rotation       float64
	WallAttachment bool
}

func NewOpening(style OpeningStyle, x, y, width, height, rotation float64) *Opening {
	if style == "" {
		style = StyleWindow
	}
	return &Opening{
		Base:           newBase(),
		Style:          style,
		X:              x,
		Y:              y,
		Width:          width,
		Height:         height,
		rotation:       geometry.NormalizeAngle(rotation),
		WallAttachment: true,
	}
}

func (o *Opening) Kind() Kind { return KindOpening }

func (o *Opening) Frame() geometry.Rect {
	return geometry.NewRect(o.X, o.Y, o.Width, o.Height)
}

func (o *Opening) SetFrame(r geometry.Rect) {
	o.X, o.Y, o.Width, o.Height = r.X, r.Y, r.W, r.H
}

func (o *Opening) Rotation() float64       { return o.rotation }
func (o *Opening) SetRotation(deg float64) { o.rotation = geometry.NormalizeAngle(deg) }

func (o *Opening) Bounds() geometry.Rect {
	return o.Frame().RotatedBounds(o.rotation)
}

func (o *Opening) Clone() Entity {
	cp := *o
	return &cp
}

// ============================================================
// Floor Zone
// ============================================================

// FloorZone: осевой прямоугольник пола. Рисуется под остальными
// сущностями и не участвует в проверке коллизий.
type FloorZone struct {
	Base
	X, Y          float64
	Width, Height float64
	Label         string
}

func NewFloorZone(x, y, width, height float64) (*FloorZone, error) {
	r := geometry.NewRect(x, y, width, height).Normalize()
	if r.Empty() {
		return nil, fmt.Errorf("zone %vx%v: %w", width, height, ErrDegenerateGeometry)
	}
	return &FloorZone{Base: newBase(), X: r.X, Y: r.Y, Width: r.W, Height: r.H}, nil
}

func (z *FloorZone) Kind() Kind { return KindFloorZone }

func (z *FloorZone) Frame() geometry.Rect {
	return geometry.NewRect(z.X, z.Y, z.Width, z.Height)
}

func (z *FloorZone) SetFrame(r geometry.Rect) {
	z.X, z.Y, z.Width, z.Height = r.X, r.Y, r.W, r.H
}

func (z *FloorZone) Bounds() geometry.Rect {
	return z.Frame().Normalize()
}

// AreaSquareMeters считает площадь по фиксированному масштабу 100px = 1m.
func (z *FloorZone) AreaSquareMeters() float64 {
	b := z.Bounds()
	return (b.W / geometry.PixelsPerMeter) * (b.H / geometry.PixelsPerMeter)
}

func (z *FloorZone) Clone() Entity {
	cp := *z
	return &cp
}

// ============================================================
// Placed Item
// ============================================================

const (
	DefaultItemSize     = 80.0
	DefaultItemCategory = "General"
)

// PlacedItem: мебель или дверное полотно из библиотеки ассетов.
// Structural выставляется только для дверей: они ведут себя как проемы.
type PlacedItem struct {
	Base
	FilePath      string
	Category      string
	X, Y          float64
	Width, Height float64
	rotation      float64
	Structural    bool
}

func NewPlacedItem(filePath, category string, x, y, width, height, rotation float64) *PlacedItem {
	if category == "" {
		category = DefaultItemCategory
	}
	return &PlacedItem{
		Base:       newBase(),
		FilePath:   filePath,
		Category:   category,
		X:          x,
		Y:          y,
		Width:      width,
		Height:     height,
		rotation:   geometry.NormalizeAngle(rotation),
		Structural: isDoorAsset(filePath),
	}
}

func isDoorAsset(filePath string) bool {
	path := strings.ToLower(strings.ReplaceAll(filePath, `\`, "/"))
	if strings.Contains(path, "doors/") {
		return true
	}
	return strings.Contains(strings.ToLower(itemName(filePath)), "door")
}

// itemName: "assets/AdobeStock_dining_table.svg" -> "Dining Table".
func itemName(filePath string) string {
	base := filepath.Base(strings.ReplaceAll(filePath, `\`, "/"))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ReplaceAll(base, "AdobeStock_", "")
	words := strings.Fields(strings.ReplaceAll(base, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

func (p *PlacedItem) Kind() Kind { return KindPlacedItem }

func (p *PlacedItem) Name() string { return itemName(p.FilePath) }

func (p *PlacedItem) Frame() geometry.Rect {
	return geometry.NewRect(p.X, p.Y, p.Width, p.Height)
}

func (p *PlacedItem) SetFrame(r geometry.Rect) {
	p.X, p.Y, p.Width, p.Height = r.X, r.Y, r.W, r.H
}

func (p *PlacedItem) Rotation() float64       { return p.rotation }
func (p *PlacedItem) SetRotation(deg float64) { p.rotation = geometry.NormalizeAngle(deg) }

func (p *PlacedItem) Bounds() geometry.Rect {
	return p.Frame().RotatedBounds(p.rotation)
}

// CenterOn ставит предмет так, чтобы его центр совпал с точкой.
func (p *PlacedItem) CenterOn(pt geometry.Point) {
	p.X = pt.X - p.Width/2
	p.Y = pt.Y - p.Height/2
}

func (p *PlacedItem) Clone() Entity {
	cp := *p
	return &cp
}

// ============================================================
// Collection helpers
// ============================================================

// CloneAll делает глубокую копию коллекции, история не должна ссылаться на живые сущности.
func CloneAll(entities []Entity) []Entity {
	out := make([]Entity, len(entities))
	for i, e := range entities {
		out[i] = e.Clone()
	}
	return out
}

func IndexOf(entities []Entity, id string) int {
	for i, e := range entities {
		if e.ID() == id {
			return i
		}
	}
	return -1
}

func Find(entities []Entity, id string) Entity {
	if i := IndexOf(entities, id); i >= 0 {
		return entities[i]
	}
	return nil
}

// Walls отбирает стены, сохраняя порядок.
func Walls(entities []Entity) []*Wall {
	var out []*Wall
	for _, e := range entities {
		if w, ok := e.(*Wall); ok {
			out = append(out, w)
		}
	}
	return out
}

// BoundsOf возвращает объединение рамок; ok=false для пустой коллекции.
func BoundsOf(entities []Entity) (geometry.Rect, bool) {
	if len(entities) == 0 {
		return geometry.Rect{}, false
	}
	r := entities[0].Bounds()
	for _, e := range entities[1:] {
		r = r.Union(e.Bounds())
	}
	return r, true
}
