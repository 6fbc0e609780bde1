package geometry

import (
	"errors"
	"fmt"
	"math"
)

// ============================================================
// Coordinate System
// ============================================================

// ErrInvalidConfiguration возвращается при попытке задать неположительный шаг сетки или масштаб.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// PixelsPerMeter задает фиксированный масштаб отображения, 100px = 1m.
const PixelsPerMeter = 100.0

const (
	DefaultGridSize = 20.0
	DefaultScale    = 1.0
)

type Unit string

const (
	UnitMeter      Unit = "m"
	UnitCentimeter Unit = "cm"
	UnitMillimeter Unit = "mm"
)

// CoordinateSystem хранит шаг сетки, масштаб и единицу отображения.
// Хранимые значения всегда в пикселях, единица влияет только на форматирование.
type CoordinateSystem struct {
	gridSize    float64
	scale       float64
	displayUnit Unit
}

func NewCoordinateSystem(gridSize, scale float64) (*CoordinateSystem, error) {
	cs := &CoordinateSystem{
		gridSize:    DefaultGridSize,
		scale:       DefaultScale,
		displayUnit: UnitMeter,
	}
	if err := cs.SetGridSize(gridSize); err != nil {
		return nil, err
	}
	if err := cs.SetScale(scale); err != nil {
		return nil, err
	}
	return cs, nil
}

// DefaultCoordinateSystem: сетка 20px, масштаб 1.
func DefaultCoordinateSystem() *CoordinateSystem {
	return &CoordinateSystem{
		gridSize:    DefaultGridSize,
		scale:       DefaultScale,
		displayUnit: UnitMeter,
	}
}

func (cs *CoordinateSystem) GridSize() float64 { return cs.gridSize }
func (cs *CoordinateSystem) Scale() float64    { return cs.scale }
func (cs *CoordinateSystem) DisplayUnit() Unit { return cs.displayUnit }

// SetGridSize меняет шаг сетки; при ошибке прежнее значение сохраняется.
func (cs *CoordinateSystem) SetGridSize(size float64) error {
	if size <= 0 || math.IsNaN(size) {
		return fmt.Errorf("grid size %v: %w", size, ErrInvalidConfiguration)
	}
	cs.gridSize = size
	return nil
}

func (cs *CoordinateSystem) SetScale(scale float64) error {
	if scale <= 0 || math.IsNaN(scale) {
		return fmt.Errorf("scale %v: %w", scale, ErrInvalidConfiguration)
	}
	cs.scale = scale
	return nil
}

// SetDisplayUnit принимает только m, cm, mm; прочие значения игнорируются.
func (cs *CoordinateSystem) SetDisplayUnit(u Unit) bool {
	switch u {
	case UnitMeter, UnitCentimeter, UnitMillimeter:
		cs.displayUnit = u
		return true
	}
	return false
}

func (cs *CoordinateSystem) SnapToGrid(x, y float64) (float64, float64) {
	return snap(x, cs.gridSize), snap(y, cs.gridSize)
}

func (cs *CoordinateSystem) SnapPoint(p Point) Point {
	x, y := cs.SnapToGrid(p.X, p.Y)
	return Point{X: x, Y: y}
}

// SnapValue округляет одно значение (например, дельту перетаскивания) к сетке.
func (cs *CoordinateSystem) SnapValue(v float64) float64 {
	return snap(v, cs.gridSize)
}

func snap(v, grid float64) float64 {
	return math.Round(v/grid) * grid
}

func (cs *CoordinateSystem) PixelsToReal(pixels float64) float64 {
	return pixels / cs.gridSize * cs.scale
}

func (cs *CoordinateSystem) RealToPixels(units float64) float64 {
	return units * cs.gridSize / cs.scale
}

func (cs *CoordinateSystem) PixelsToMeters(pixels float64) float64 {
	return cs.PixelsToReal(pixels) / 100
}

func (cs *CoordinateSystem) MetersToPixels(meters float64) float64 {
	return cs.RealToPixels(meters * 100)
}

// GridLines возвращает координаты вертикальных и горизонтальных линий сетки в окне w×h.
func (cs *CoordinateSystem) GridLines(width, height int, offsetX, offsetY float64) ([]float64, []float64) {
	var vertical, horizontal []float64
	for x := math.Floor(math.Mod(offsetX, cs.gridSize)); x < float64(width); x += cs.gridSize {
		vertical = append(vertical, x)
	}
	for y := math.Floor(math.Mod(offsetY, cs.gridSize)); y < float64(height); y += cs.gridSize {
		horizontal = append(horizontal, y)
	}
	return vertical, horizontal
}

// ============================================================
// Point transforms
// ============================================================

// RotatePoint поворачивает (x, y) вокруг (cx, cy) на angleDeg градусов.
// Для перевода курсора в локальную систему сущности передается -rotation.
func RotatePoint(x, y, cx, cy, angleDeg float64) (float64, float64) {
	sin, cos := sincosDeg(angleDeg)
	dx, dy := x-cx, y-cy
	return dx*cos - dy*sin + cx, dx*sin + dy*cos + cy
}

// sincosDeg точен на четвертях оборота, чтобы повороты на 90 не давали шума.
func sincosDeg(deg float64) (float64, float64) {
	switch NormalizeAngle(deg) {
	case 0:
		return 0, 1
	case 90:
		return 1, 0
	case 180:
		return 0, -1
	case 270:
		return -1, 0
	}
	return math.Sincos(deg * math.Pi / 180)
}

func ScalePoint(x, y, cx, cy, sx, sy float64) (float64, float64) {
	return (x-cx)*sx + cx, (y-cy)*sy + cy
}

func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

// AngleBetween: направление от первой точки ко второй в градусах, [0, 360).
func AngleBetween(x1, y1, x2, y2 float64) float64 {
	return NormalizeAngle(math.Atan2(y2-y1, x2-x1) * 180 / math.Pi)
}

func NormalizeAngle(deg float64) float64 {
	a := math.Mod(deg, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}

// ============================================================
// Formatting
// ============================================================

// PixelsToDisplay переводит пиксели в число в текущей единице отображения.
func (cs *CoordinateSystem) PixelsToDisplay(pixels float64) float64 {
	meters := pixels / PixelsPerMeter
	switch cs.displayUnit {
	case UnitCentimeter:
		return meters * 100
	case UnitMillimeter:
		return meters * 1000
	}
	return meters
}

// FormatLength: подпись длины для стен и линейки, например "2.50 m".
func (cs *CoordinateSystem) FormatLength(pixels float64) string {
	return fmt.Sprintf("%.2f %s", cs.PixelsToDisplay(pixels), cs.displayUnit)
}

// FormatDistance выводит сантиметры, начиная со 100 cm метры.
func FormatDistance(cm float64) string {
	if cm >= 100 {
		return fmt.Sprintf("%.2f m", cm/100)
	}
	return fmt.Sprintf("%.1f cm", cm)
}

// FormatArea: площадь в квадратных метрах.
func FormatArea(squareMeters float64) string {
	return fmt.Sprintf("%.2f m²", squareMeters)
}
