package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"floorplan/internal/common/logger"
	"floorplan/internal/editor/geometry"
	"floorplan/internal/editor/models"
)

// ============================================================
// Persisted project schema
// ============================================================

// ErrPersistence: ошибка чтения/записи или разбора документа проекта.
// Неудачная загрузка никогда не меняет текущую сцену.
var ErrPersistence = errors.New("persistence failure")

const (
	TypeWall      = "wall"
	TypeWindow    = "window"
	TypeRoomFloor = "room_floor"
	TypeSVGObject = "svg_object"
)

const (
	DefaultName   = "Untitled"
	DefaultWidth  = 2000.0
	DefaultHeight = 2000.0
)

// Project: метаданные документа. Сущности хранятся отдельно у контроллера.
type Project struct {
	Name         string  `json:"name"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	CreatedDate  string  `json:"created_date,omitempty"`
	ModifiedDate string  `json:"modified_date,omitempty"`
	GridSize     int     `json:"grid_size"`
	GridVisible  bool    `json:"grid_visible"`
	SnapToGrid   bool    `json:"snap_to_grid"`
}

func New(name string) *Project {
	if name == "" {
		name = DefaultName
	}
	now := time.Now().Format(time.RFC3339)
	return &Project{
		Name:         name,
		Width:        DefaultWidth,
		Height:       DefaultHeight,
		CreatedDate:  now,
		ModifiedDate: now,
		GridSize:     int(geometry.DefaultGridSize),
		GridVisible:  true,
		SnapToGrid:   true,
	}
}

// Document: JSON-представление файла проекта.
type Document struct {
	Project
	Objects []Object `json:"objects"`
}

// Object: запись о сущности с дискриминатором type. Указатели отличают
// отсутствующее поле от нулевого значения.
type Object struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`

	X1        *float64 `json:"x1,omitempty"`
	Y1        *float64 `json:"y1,omitempty"`
	X2        *float64 `json:"x2,omitempty"`
	Y2        *float64 `json:"y2,omitempty"`
	Thickness *float64 `json:"thickness,omitempty"`

	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	Width    *float64 `json:"width,omitempty"`
	Height   *float64 `json:"height,omitempty"`
	Rotation *float64 `json:"rotation,omitempty"`

	Style      string `json:"style,omitempty"`
	Attachment *bool  `json:"attachment,omitempty"`
	Label      string `json:"label,omitempty"`

	FilePath string `json:"file_path,omitempty"`
	Category string `json:"category,omitempty"`
}

func num(v float64) *float64 { return &v }

func or(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

// ============================================================
// Encode
// ============================================================

// ToObject переводит сущность в запись схемы. Поле colliding не сохраняется.
func ToObject(e models.Entity) Object {
	switch v := e.(type) {
	case *models.Wall:
		return Object{
			Type: TypeWall, ID: v.ID(),
			X1: num(v.X1), Y1: num(v.Y1), X2: num(v.X2), Y2: num(v.Y2),
			Thickness: num(v.Thickness),
		}
	case *models.Opening:
		o := Object{
			Type: TypeWindow, ID: v.ID(),
			X: num(v.X), Y: num(v.Y), Width: num(v.Width), Height: num(v.Height),
			Rotation: num(v.Rotation()),
		}
		if v.Style == models.StyleDoor {
			o.Style = string(models.StyleDoor)
		}
		if !v.WallAttachment {
			o.Attachment = new(bool)
		}
		return o
	case *models.FloorZone:
		return Object{
			Type: TypeRoomFloor, ID: v.ID(),
			X: num(v.X), Y: num(v.Y), Width: num(v.Width), Height: num(v.Height),
			Label: v.Label,
		}
	case *models.PlacedItem:
		return Object{
			Type: TypeSVGObject, ID: v.ID(),
			FilePath: v.FilePath, Category: v.Category,
			X: num(v.X), Y: num(v.Y), Width: num(v.Width), Height: num(v.Height),
			Rotation: num(v.Rotation()),
		}
	}
	return Object{}
}

// Encode сериализует проект и коллекцию сущностей. ModifiedDate обновляется.
func Encode(p *Project, entities []models.Entity) ([]byte, error) {
	if p == nil {
		p = New("")
	}
	doc := Document{Project: *p, Objects: make([]Object, 0, len(entities))}
	doc.ModifiedDate = time.Now().Format(time.RFC3339)
	if doc.CreatedDate == "" {
		doc.CreatedDate = doc.ModifiedDate
	}
	for _, e := range entities {
		doc.Objects = append(doc.Objects, ToObject(e))
	}

	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("encode project: %v: %w", err, ErrPersistence)
	}
	p.ModifiedDate = doc.ModifiedDate
	p.CreatedDate = doc.CreatedDate
	return data, nil
}

// ============================================================
// Decode
// ============================================================

// Decode разбирает документ целиком: при любой ошибке не возвращается ни
// одной сущности.
func Decode(data []byte) (*Project, []models.Entity, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("decode project: %v: %w", err, ErrPersistence)
	}

	p := doc.Project
	if p.Name == "" {
		p.Name = DefaultName
	}
	if p.Width <= 0 {
		p.Width = DefaultWidth
	}
	if p.Height <= 0 {
		p.Height = DefaultHeight
	}
	if p.GridSize <= 0 {
		p.GridSize = int(geometry.DefaultGridSize)
	}

	entities := make([]models.Entity, 0, len(doc.Objects))
	for i, o := range doc.Objects {
		e, err := FromObject(o)
		if errors.Is(err, models.ErrDegenerateGeometry) {
			// вырожденная запись не попадает в сцену, остальной документ читается
			logger.Component("project").WithField("object", i).WithField("type", o.Type).
				Warn("degenerate object skipped")
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("object %d: %w", i, err)
		}
		entities = append(entities, e)
	}
	return &p, entities, nil
}

// FromObject восстанавливает сущность. Неизвестный type читается как svg_object.
func FromObject(o Object) (models.Entity, error) {
	switch o.Type {
	case TypeWall:
		if o.X1 == nil || o.Y1 == nil || o.X2 == nil || o.Y2 == nil {
			return nil, fmt.Errorf("wall: missing endpoint: %w", ErrPersistence)
		}
		w, err := models.NewWall(*o.X1, *o.Y1, *o.X2, *o.Y2, or(o.Thickness, models.DefaultWallThickness))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", err, ErrPersistence)
		}
		return models.WithID(w, o.ID), nil

	case TypeWindow:
		if o.X == nil || o.Y == nil {
			return nil, fmt.Errorf("window: missing position: %w", ErrPersistence)
		}
		style := models.StyleWindow
		if o.Style == string(models.StyleDoor) {
			style = models.StyleDoor
		}
		op := models.NewOpening(style, *o.X, *o.Y,
			or(o.Width, models.DefaultOpeningWidth),
			or(o.Height, models.DefaultOpeningHeight),
			or(o.Rotation, 0))
		if o.Attachment != nil {
			op.WallAttachment = *o.Attachment
		}
		return models.WithID(op, o.ID), nil

	case TypeRoomFloor:
		if o.X == nil || o.Y == nil || o.Width == nil || o.Height == nil {
			return nil, fmt.Errorf("room_floor: missing rect: %w", ErrPersistence)
		}
		z, err := models.NewFloorZone(*o.X, *o.Y, *o.Width, *o.Height)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", err, ErrPersistence)
		}
		z.Label = o.Label
		return models.WithID(z, o.ID), nil
	}

	item := models.NewPlacedItem(o.FilePath, o.Category,
		or(o.X, 0), or(o.Y, 0),
		or(o.Width, models.DefaultItemSize), or(o.Height, models.DefaultItemSize),
		or(o.Rotation, 0))
	return models.WithID(item, o.ID), nil
}
