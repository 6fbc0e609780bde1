package models

import (
	"errors"
	"math"

	"floorplan/internal/editor/geometry"

	"github.com/google/uuid"
)

// ============================================================
// Entity
// ============================================================

// ErrDegenerateGeometry: стена нулевой длины или зона нулевой площади.
// Контроллер молча отбрасывает такой жест, это не ошибка исполнения.
var ErrDegenerateGeometry = errors.New("degenerate geometry")

type Kind int

const (
	KindWall Kind = iota
	KindOpening
	KindFloorZone
	KindPlacedItem
)

func (k Kind) String() string {
	switch k {
	case KindWall:
		return "wall"
	case KindOpening:
		return "opening"
	case KindFloorZone:
		return "floor_zone"
	case KindPlacedItem:
		return "placed_item"
	}
	return "unknown"
}

// Entity реализуют только *Wall, *Opening, *FloorZone и *PlacedItem.
// Новый вариант добавляется только в этом пакете, все switch по типу
// (collision, transform, project, scene) нужно пересмотреть.
type Entity interface {
	ID() string
	Kind() Kind
	Selected() bool
	SetSelected(bool)
	Colliding() bool
	SetColliding(bool)

	// Bounds: нормализованный осевой прямоугольник для геометрических запросов.
	Bounds() geometry.Rect
	Clone() Entity

	sealed()
}

// Base хранит общие атрибуты. colliding вычисляется заново после каждой мутации и не сохраняется.
type Base struct {
	id        string
	selected  bool
	colliding bool
}

func newBase() Base {
	return Base{id: uuid.NewString()}
}

func (b *Base) ID() string          { return b.id }
func (b *Base) Selected() bool      { return b.selected }
func (b *Base) SetSelected(v bool)  { b.selected = v }
func (b *Base) Colliding() bool     { return b.colliding }
func (b *Base) SetColliding(v bool) { b.colliding = v }
func (b *Base) sealed()             {}
func (b *Base) assignID(id string)  { b.id = id }

// WithID заменяет сгенерированный идентификатор (восстановление из хранилища, тесты).
func WithID[T Entity](e T, id string) T {
	if id == "" {
		return e
	}
	switch v := any(e).(type) {
	case *Wall:
		v.assignID(id)
	case *Opening:
		v.assignID(id)
	case *FloorZone:
		v.assignID(id)
	case *PlacedItem:
		v.assignID(id)
	}
	return e
}

// Framed: варианты, описываемые прямоугольником x/y/width/height.
type Framed interface {
	Entity
	Frame() geometry.Rect
	SetFrame(geometry.Rect)
}

// Rotatable: варианты с собственным углом поворота.
type Rotatable interface {
	Entity
	Rotation() float64
	SetRotation(deg float64)
}

// IsWallAttachment: проем с флагом привязки или структурный предмет (дверь),
// которые ожидаемо перекрывают стену.
func IsWallAttachment(e Entity) bool {
	switch v := e.(type) {
	case *Opening:
		return v.WallAttachment
	case *PlacedItem:
		return v.Structural
	}
	return false
}

// Thickness возвращает толщину проема/двери: меньшую сторону неповернутой рамки.
func Thickness(e Entity) float64 {
	var b geometry.Rect
	if f, ok := e.(Framed); ok {
		b = f.Frame().Normalize()
	} else {
		b = e.Bounds()
	}
	return math.Min(b.W, b.H)
}
