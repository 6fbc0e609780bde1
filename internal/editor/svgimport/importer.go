package svgimport

import (
	"fmt"
	"io"
	"math"

	"floorplan/internal/common/logger"
	"floorplan/internal/editor/geometry"
	"floorplan/internal/editor/models"
)

// ============================================================
// Importer
// ============================================================

// Options: аффинное преобразование координат SVG в координаты сцены.
type Options struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

func DefaultOptions() Options {
	return Options{Scale: 1}
}

type transform struct {
	scale, dx, dy float64
}

func (t transform) point(p geometry.Point) geometry.Point {
	return geometry.Point{X: p.X*t.scale + t.dx, Y: p.Y*t.scale + t.dy}
}

func (t transform) length(v float64) float64 { return v * t.scale }

func (t transform) rect(r geometry.Rect) geometry.Rect {
	p := t.point(geometry.Point{X: r.X, Y: r.Y})
	return geometry.Rect{X: p.X, Y: p.Y, W: t.length(r.W), H: t.length(r.H)}
}

// Result: сущности в порядке отрисовки (зоны, стены, проемы) и сводка.
type Result struct {
	Entities []models.Entity
	Walls    int
	Openings int
	Zones    int
	Skipped  []string
}

// Import разбирает SVG-план: стены становятся осевыми линиями с толщиной,
// двери и окна становятся проемами, помещения и балконы зонами пола.
func Import(r io.Reader, opts Options) (*Result, error) {
	elements, err := ParseSVG(r)
	if err != nil {
		return nil, err
	}
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	tf := transform{scale: opts.Scale, dx: opts.OffsetX, dy: opts.OffsetY}
	log := logger.Component("svgimport")

	res := &Result{}
	var wallSegs []wallSegment
	var openings, zones []Element

	for _, el := range elements {
		switch el.Type {
		case TypeWall:
			seg, err := centerline(el, tf)
			if err != nil {
				res.Skipped = append(res.Skipped, el.ID)
				log.WithField("id", el.ID).WithError(err).Debug("wall skipped")
				continue
			}
			wallSegs = append(wallSegs, seg)
		case TypeDoor, TypeWindow:
			openings = append(openings, el)
		case TypeRoom, TypeBalcony:
			zones = append(zones, el)
		}
	}

	for _, el := range zones {
		box, err := elementBounds(el)
		if err != nil {
			res.Skipped = append(res.Skipped, el.ID)
			continue
		}
		b := tf.rect(box)
		z, err := models.NewFloorZone(b.X, b.Y, b.W, b.H)
		if err != nil {
			res.Skipped = append(res.Skipped, el.ID)
			continue
		}
		res.Entities = append(res.Entities, z)
		res.Zones++
	}

	var walls []*models.Wall
	for _, seg := range weld(splitSegments(wallSegs)) {
		w, err := models.NewWall(seg.p1.X, seg.p1.Y, seg.p2.X, seg.p2.Y, seg.thickness)
		if err != nil {
			res.Skipped = append(res.Skipped, seg.id)
			continue
		}
		walls = append(walls, w)
		res.Entities = append(res.Entities, w)
		res.Walls++
	}

	for _, el := range openings {
		box, err := elementBounds(el)
		if err != nil || box.Empty() {
			res.Skipped = append(res.Skipped, el.ID)
			continue
		}
		op := openingFromBox(el.Type, tf.rect(box))
		op.WallAttachment = nearWall(op, walls)
		res.Entities = append(res.Entities, op)
		res.Openings++
	}

	log.WithField("walls", res.Walls).
		WithField("openings", res.Openings).
		WithField("zones", res.Zones).
		WithField("skipped", len(res.Skipped)).
		Info("svg imported")
	return res, nil
}

// openingFromBox: длинная сторона рамки задает ширину проема. Вертикальный
// проем хранится повернутым на 90° вокруг центра рамки.
func openingFromBox(t ElementType, box geometry.Rect) *models.Opening {
	style := models.StyleWindow
	if t == TypeDoor {
		style = models.StyleDoor
	}
	if box.W >= box.H {
		return models.NewOpening(style, box.X, box.Y, box.W, box.H, 0)
	}
	c := box.Center()
	return models.NewOpening(style, c.X-box.H/2, c.Y-box.W/2, box.H, box.W, 90)
}

// nearWall ищет ближайшую стену к центру проема.
func nearWall(op *models.Opening, walls []*models.Wall) bool {
	c := op.Frame().Center()
	best := math.MaxFloat64
	var host *models.Wall
	for _, w := range walls {
		if d := w.Segment().DistanceToPoint(c); d < best {
			best, host = d, w
		}
	}
	return host != nil && best <= host.Thickness/2+connectTolerance
}

func elementBounds(el Element) (geometry.Rect, error) {
	switch geom := el.Geometry.(type) {
	case RectGeometry:
		return geometry.Rect{X: geom.X, Y: geom.Y, W: geom.Width, H: geom.Height}.Normalize(), nil
	case PathGeometry:
		points, err := ParsePath(geom.D)
		if err != nil {
			return geometry.Rect{}, err
		}
		return pathBounds(points), nil
	}
	return geometry.Rect{}, fmt.Errorf("%s: unsupported geometry %T", el.ID, el.Geometry)
}
