package scene

import (
	"fmt"

	"floorplan/internal/common/logger"
	"floorplan/internal/editor/collision"
	"floorplan/internal/editor/geometry"
	"floorplan/internal/editor/history"
	"floorplan/internal/editor/models"
	"floorplan/internal/editor/project"
	"floorplan/internal/editor/snap"

	"github.com/sirupsen/logrus"
)

// ============================================================
// Scene Controller
// ============================================================

type ToolMode string

const (
	ToolSelect  ToolMode = "select"
	ToolWall    ToolMode = "wall"
	ToolOpening ToolMode = "opening"
	ToolZone    ToolMode = "zone"
	ToolItem    ToolMode = "item"
	ToolRuler   ToolMode = "ruler"
)

func ParseToolMode(s string) (ToolMode, error) {
	switch m := ToolMode(s); m {
	case ToolSelect, ToolWall, ToolOpening, ToolZone, ToolItem, ToolRuler:
		return m, nil
	}
	return "", fmt.Errorf("unknown tool mode %q", s)
}

type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

type Modifiers struct {
	Ctrl  bool `json:"ctrl"`
	Shift bool `json:"shift"`
}

// Payload хранит параметры инструмента: ассет для item, стиль для opening.
type Payload struct {
	AssetPath string              `json:"asset_path,omitempty"`
	Category  string              `json:"category,omitempty"`
	Style     models.OpeningStyle `json:"style,omitempty"`
}

const (
	// HandleSize: полуразмер зоны захвата углового маркера.
	HandleSize = 10.0
	// WallPickMargin добавляется к половине толщины стены при выборе курсором.
	WallPickMargin = 5.0

	MinZoom = 0.1
	MaxZoom = 5.0

	WheelRotateStep     = 15.0
	WheelRotateFineStep = 5.0
)

type Options struct {
	GridSize        float64
	Scale           float64
	SnapThreshold   float64
	HistoryCapacity int
	SnapToGrid      bool
}

func DefaultOptions() Options {
	return Options{
		GridSize:        geometry.DefaultGridSize,
		Scale:           geometry.DefaultScale,
		SnapThreshold:   snap.DefaultThreshold,
		HistoryCapacity: history.DefaultCapacity,
		SnapToGrid:      true,
	}
}

// Viewport: панорамирование и масштаб. Экранная точка = мир*Zoom + Offset.
type Viewport struct {
	Zoom    float64 `json:"zoom"`
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
}

func (v Viewport) ToWorld(sx, sy float64) geometry.Point {
	return geometry.Point{X: (sx - v.OffsetX) / v.Zoom, Y: (sy - v.OffsetY) / v.Zoom}
}

// Controller владеет коллекцией сущностей. Все мутации идут через его методы
// в одном потоке; внешний код получает только копии.
type Controller struct {
	coords   *geometry.CoordinateSystem
	detector *collision.Detector
	snapper  *snap.Solver
	history  *history.History
	project  *project.Project

	entities []models.Entity
	selected models.Entity

	tool       ToolMode
	payload    Payload
	state      state
	view       Viewport
	snapToGrid bool

	log *logrus.Entry
}

func New(opts Options) (*Controller, error) {
	coords, err := geometry.NewCoordinateSystem(opts.GridSize, opts.Scale)
	if err != nil {
		return nil, err
	}
	c := &Controller{
		coords:     coords,
		detector:   collision.NewDetector(),
		snapper:    snap.NewSolver(opts.SnapThreshold),
		history:    history.New(opts.HistoryCapacity),
		project:    project.New(""),
		tool:       ToolSelect,
		state:      idle{},
		view:       Viewport{Zoom: 1},
		snapToGrid: opts.SnapToGrid,
		log:        logger.Component("scene"),
	}
	c.project.GridSize = int(coords.GridSize())
	c.project.SnapToGrid = opts.SnapToGrid
	return c, nil
}

// ============================================================
// Read-only accessors
// ============================================================

// Entities: копия коллекции в порядке отрисовки (зоны первыми).
func (c *Controller) Entities() []models.Entity {
	return models.CloneAll(c.entities)
}

// Selected: копия выбранной сущности или nil.
func (c *Controller) Selected() models.Entity {
	if c.selected == nil {
		return nil
	}
	return c.selected.Clone()
}

func (c *Controller) Tool() ToolMode     { return c.tool }
func (c *Controller) State() string      { return c.state.name() }
func (c *Controller) Viewport() Viewport { return c.view }
func (c *Controller) CanUndo() bool      { return c.history.CanUndo() }
func (c *Controller) CanRedo() bool      { return c.history.CanRedo() }

func (c *Controller) Coordinates() *geometry.CoordinateSystem {
	return c.coords
}

// Project: метаданные текущего документа (копия).
func (c *Controller) Project() project.Project { return *c.project }

// SetGridSize меняет шаг сетки; при ошибке прежний шаг сохраняется.
func (c *Controller) SetGridSize(size float64) error {
	if err := c.coords.SetGridSize(size); err != nil {
		return err
	}
	c.project.GridSize = int(size)
	return nil
}

func (c *Controller) SetSnapToGrid(on bool) {
	c.snapToGrid = on
	c.project.SnapToGrid = on
}

func (c *Controller) SetProjectName(name string) {
	if name != "" {
		c.project.Name = name
	}
}

// ============================================================
// Tool mode
// ============================================================

// SetToolMode переключает инструмент, снимает выделение и отменяет незавершенный жест.
func (c *Controller) SetToolMode(mode ToolMode, payload Payload) error {
	if _, err := ParseToolMode(string(mode)); err != nil {
		return err
	}
	if mode == ToolItem && payload.AssetPath == "" {
		return fmt.Errorf("tool %s: asset path required", mode)
	}
	c.Cancel()
	c.tool = mode
	c.payload = payload
	c.selectEntity(nil)
	c.log.WithField("tool", mode).Debug("tool changed")
	return nil
}

// ============================================================
// Internal helpers
// ============================================================

func (c *Controller) selectEntity(e models.Entity) {
	for _, o := range c.entities {
		o.SetSelected(false)
	}
	c.selected = e
	if e != nil {
		e.SetSelected(true)
	}
}

func (c *Controller) gridPoint(p geometry.Point) geometry.Point {
	if !c.snapToGrid {
		return p
	}
	return c.coords.SnapPoint(p)
}

func (c *Controller) gridValue(v float64) float64 {
	if !c.snapToGrid {
		return v
	}
	return c.coords.SnapValue(v)
}

func (c *Controller) detect() []collision.Pair {
	return c.detector.Detect(c.entities)
}

// commit фиксирует текущее состояние в истории после завершенного действия.
func (c *Controller) commit(action string, e models.Entity) {
	c.detect()
	c.history.Push(c.entities)
	entry := c.log.WithField("action", action).WithField("entities", len(c.entities))
	if e != nil {
		entry = entry.WithField("id", e.ID()).WithField("kind", e.Kind())
	}
	entry.Debug("committed")
}

// replace подменяет коллекцию (undo/redo, загрузка) и сбрасывает жест и выделение.
func (c *Controller) replace(entities []models.Entity) {
	c.entities = entities
	c.selected = nil
	for _, e := range c.entities {
		e.SetSelected(false)
	}
	c.state = idle{}
	c.detect()
}

func (c *Controller) outcome(status string) Outcome {
	o := Outcome{State: c.state.name(), Status: status}
	if c.selected != nil {
		o.Selected = c.selected.ID()
	}
	return o
}
