package scene

import (
	"fmt"

	"floorplan/internal/editor/collision"
	"floorplan/internal/editor/geometry"
	"floorplan/internal/editor/models"
	"floorplan/internal/editor/project"
)

// ============================================================
// Editing operations
// ============================================================

// DeleteSelected удаляет выбранную сущность; false, если выделения нет.
func (c *Controller) DeleteSelected() bool {
	if c.selected == nil {
		return false
	}
	i := models.IndexOf(c.entities, c.selected.ID())
	if i < 0 {
		c.selected = nil
		return false
	}
	removed := c.entities[i]
	c.entities = append(c.entities[:i:i], c.entities[i+1:]...)
	c.selected = nil
	c.state = idle{}
	c.commit("delete", removed)
	return true
}

// ClearAll очищает сцену. Действие отменяемо.
func (c *Controller) ClearAll() {
	c.entities = nil
	c.selected = nil
	c.state = idle{}
	c.commit("clear", nil)
}

// Undo возвращает предыдущее состояние; false на самой старой точке истории.
func (c *Controller) Undo() bool {
	entities, ok := c.history.Undo()
	if !ok {
		return false
	}
	c.replace(entities)
	c.log.WithField("entities", len(entities)).Debug("undo")
	return true
}

func (c *Controller) Redo() bool {
	entities, ok := c.history.Redo()
	if !ok {
		return false
	}
	c.replace(entities)
	c.log.WithField("entities", len(entities)).Debug("redo")
	return true
}

// Pairs: конфликтующие пары после последней мутации.
func (c *Controller) Pairs() []collision.Pair {
	return c.detect()
}

// ============================================================
// Statistics & bounds
// ============================================================

type Statistics struct {
	Total            int     `json:"total"`
	Walls            int     `json:"walls"`
	Openings         int     `json:"openings"`
	Doors            int     `json:"doors"`
	Zones            int     `json:"zones"`
	Items            int     `json:"items"`
	Colliding        int     `json:"colliding"`
	WallLength       float64 `json:"wall_length_px"`
	WallLengthMeters float64 `json:"wall_length_m"`
	FloorArea        float64 `json:"floor_area_m2"`
}

func (c *Controller) Statistics() Statistics {
	return ComputeStatistics(c.entities)
}

// ComputeStatistics считает сводку по произвольной коллекции (CLI, экспорт).
func ComputeStatistics(entities []models.Entity) Statistics {
	s := Statistics{Total: len(entities)}
	for _, e := range entities {
		if e.Colliding() {
			s.Colliding++
		}
		switch v := e.(type) {
		case *models.Wall:
			s.Walls++
			s.WallLength += v.Length()
		case *models.Opening:
			s.Openings++
			if v.Style == models.StyleDoor {
				s.Doors++
			}
		case *models.FloorZone:
			s.Zones++
			s.FloorArea += v.AreaSquareMeters()
		case *models.PlacedItem:
			s.Items++
			if v.Structural {
				s.Doors++
			}
		}
	}
	s.WallLengthMeters = s.WallLength / geometry.PixelsPerMeter
	return s
}

const (
	ContentPadding = 50.0
	EmptyWidth     = 800.0
	EmptyHeight    = 600.0
)

// ContentBounds: рамка всех сущностей с отступом 50, для пустой сцены 800×600.
func (c *Controller) ContentBounds() geometry.Rect {
	return ContentBounds(c.entities)
}

func ContentBounds(entities []models.Entity) geometry.Rect {
	r, ok := models.BoundsOf(entities)
	if !ok {
		return geometry.Rect{W: EmptyWidth, H: EmptyHeight}
	}
	return r.Expand(ContentPadding)
}

// ============================================================
// Persistence
// ============================================================

// NewProject начинает пустой документ с чистой историей.
func (c *Controller) NewProject(name string) {
	c.project = project.New(name)
	c.project.GridSize = int(c.coords.GridSize())
	c.project.SnapToGrid = c.snapToGrid
	c.replace(nil)
	c.history.Reset(nil)
}

// Document сериализует текущий проект.
func (c *Controller) Document() ([]byte, error) {
	return project.Encode(c.project, c.entities)
}

// LoadDocument заменяет сцену содержимым документа. Документ разбирается
// целиком до изменения сцены: при ошибке текущий проект не трогается.
func (c *Controller) LoadDocument(data []byte) error {
	p, entities, err := project.Decode(data)
	if err != nil {
		return err
	}
	return c.adopt(p, entities)
}

func (c *Controller) Save(path string) error {
	if err := project.Save(path, c.project, c.entities); err != nil {
		return err
	}
	c.log.WithField("path", path).Info("project saved")
	return nil
}

func (c *Controller) Load(path string) error {
	p, entities, err := project.Load(path)
	if err != nil {
		return err
	}
	if err := c.adopt(p, entities); err != nil {
		return err
	}
	c.log.WithField("path", path).WithField("entities", len(entities)).Info("project loaded")
	return nil
}

// Import добавляет готовые сущности (например, из SVG) одним отменяемым действием.
func (c *Controller) Import(entities []models.Entity) int {
	if len(entities) == 0 {
		return 0
	}
	var zones, rest []models.Entity
	for _, e := range entities {
		if _, ok := e.(*models.FloorZone); ok {
			zones = append(zones, e)
		} else {
			rest = append(rest, e)
		}
	}
	c.entities = append(append(zones, c.entities...), rest...)
	c.selectEntity(nil)
	c.state = idle{}
	c.commit("import", nil)
	return len(entities)
}

func (c *Controller) adopt(p *project.Project, entities []models.Entity) error {
	if p.GridSize > 0 {
		if err := c.coords.SetGridSize(float64(p.GridSize)); err != nil {
			return fmt.Errorf("project grid: %w", err)
		}
	}
	c.project = p
	c.snapToGrid = p.SnapToGrid
	c.replace(entities)
	c.history.Reset(c.entities)
	return nil
}
