package scene

import (
	"floorplan/internal/editor/geometry"
	"floorplan/internal/editor/models"
	"floorplan/internal/editor/snap"
	"floorplan/internal/editor/transform"
)

// ============================================================
// Gesture states
// ============================================================

// state: закрытый набор состояний жеста. Каждое состояние хранит только
// свои данные, недопустимые сочетания флагов невыразимы.
type state interface {
	name() string
}

type idle struct{}

type drawingWall struct {
	start, end geometry.Point
}

type drawingZone struct {
	start, end geometry.Point
}

type measuring struct {
	start, end geometry.Point
}

// moving хранит стартовую позу для отмены и вычисления смещения.
type moving struct {
	entity       models.Entity
	pointerStart geometry.Point
	startPose    models.Entity
}

type rotating struct {
	entity          models.Rotatable
	startAngle      float64
	initialRotation float64
}

type resizing struct {
	entity     models.Framed
	handle     transform.Handle
	startRect  geometry.Rect
	startLocal geometry.Point
}

type panning struct {
	lastX, lastY float64
}

func (idle) name() string        { return "idle" }
func (drawingWall) name() string { return "drawing_wall" }
func (drawingZone) name() string { return "drawing_zone" }
func (measuring) name() string   { return "measuring" }
func (moving) name() string      { return "moving" }
func (rotating) name() string    { return "rotating" }
func (resizing) name() string    { return "resizing" }
func (panning) name() string     { return "panning" }

// ============================================================
// Outcome
// ============================================================

// Preview: геометрия незавершенного жеста для отрисовки.
type Preview struct {
	Kind  string         `json:"kind"`
	From  geometry.Point `json:"from"`
	To    geometry.Point `json:"to"`
	Label string         `json:"label,omitempty"`
}

// Outcome описывает результат события: новое состояние, превью, направляющие и
// что произошло с жестом. Rejected означает отказ проверки CanPlace*.
type Outcome struct {
	State     string       `json:"state"`
	Status    string       `json:"status,omitempty"`
	Preview   *Preview     `json:"preview,omitempty"`
	Guides    []snap.Guide `json:"guides,omitempty"`
	Committed string       `json:"committed,omitempty"`
	Discarded bool         `json:"discarded,omitempty"`
	Rejected  bool         `json:"rejected,omitempty"`
	Selected  string       `json:"selected,omitempty"`
	Err       error        `json:"-"`
}
