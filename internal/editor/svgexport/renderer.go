package svgexport

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"

	"floorplan/internal/editor/geometry"
	"floorplan/internal/editor/models"
	"floorplan/internal/editor/scene"
)

// ============================================================
// Renderer
// ============================================================

const (
	wallStroke   = "#000"
	windowStroke = "#1f77b4"
	doorStroke   = "#d62728"
	zoneStroke   = "#888"
	zoneFill     = "#F5F5F5"
	itemStroke   = "#2ca02c"
)

// Render собирает векторный SVG плана. id элементов используют префиксы,
// которые понимает svgimport (Wall_, Window_, Door_, Room_), поэтому
// стены, проемы и зоны переживают экспорт и повторный импорт.
func Render(entities []models.Entity) string {
	view := scene.ContentBounds(entities)

	var elements []string
	// зоны рисуются под остальными сущностями
	for _, e := range entities {
		if z, ok := e.(*models.FloorZone); ok {
			elements = append(elements, renderZone(z))
		}
	}
	for _, e := range entities {
		switch v := e.(type) {
		case *models.Wall:
			elements = append(elements, renderWall(v))
		case *models.Opening:
			elements = append(elements, renderOpening(v))
		case *models.PlacedItem:
			elements = append(elements, renderItem(v))
		}
	}

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="%s %s %s %s">`,
		formatFloat(view.W), formatFloat(view.H),
		formatFloat(view.X), formatFloat(view.Y), formatFloat(view.W), formatFloat(view.H)))
	builder.WriteString("\n")

	for _, elem := range elements {
		builder.WriteString("  ")
		builder.WriteString(elem)
		builder.WriteString("\n")
	}

	builder.WriteString(`</svg>`)
	builder.WriteString("\n")
	return builder.String()
}

// ============================================================
// Element renderers
// ============================================================

// renderWall: осевые стены рисуются прямоугольником толщины, диагональные линией.
func renderWall(w *models.Wall) string {
	id := "Wall_" + w.ID()
	t := w.Thickness

	switch {
	case w.Y1 == w.Y2:
		x := math.Min(w.X1, w.X2)
		return fmt.Sprintf(`<rect id="%s" x="%s" y="%s" width="%s" height="%s" fill="none" stroke="%s" />`,
			id, formatFloat(x), formatFloat(w.Y1-t/2), formatFloat(math.Abs(w.X2-w.X1)), formatFloat(t), wallStroke)
	case w.X1 == w.X2:
		y := math.Min(w.Y1, w.Y2)
		return fmt.Sprintf(`<rect id="%s" x="%s" y="%s" width="%s" height="%s" fill="none" stroke="%s" />`,
			id, formatFloat(w.X1-t/2), formatFloat(y), formatFloat(t), formatFloat(math.Abs(w.Y2-w.Y1)), wallStroke)
	}
	return fmt.Sprintf(`<line id="%s" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s" />`,
		id, formatFloat(w.X1), formatFloat(w.Y1), formatFloat(w.X2), formatFloat(w.Y2), wallStroke, formatFloat(t))
}

func renderOpening(o *models.Opening) string {
	prefix, stroke := "Window_", windowStroke
	if o.Style == models.StyleDoor {
		prefix, stroke = "Door_", doorStroke
	}
	id := prefix + o.ID()

	f := o.Frame()
	if o.Rotation() == 0 {
		return fmt.Sprintf(`<rect id="%s" x="%s" y="%s" width="%s" height="%s" fill="none" stroke="%s" />`,
			id, formatFloat(f.X), formatFloat(f.Y), formatFloat(f.W), formatFloat(f.H), stroke)
	}
	return polygon(id, rectanglePoints(f, o.Rotation()), "none", stroke)
}

func renderZone(z *models.FloorZone) string {
	f := z.Frame().Normalize()
	return fmt.Sprintf(`<rect id="Room_%s" x="%s" y="%s" width="%s" height="%s" fill="%s" stroke="%s" />`,
		z.ID(), formatFloat(f.X), formatFloat(f.Y), formatFloat(f.W), formatFloat(f.H), zoneFill, zoneStroke)
}

// renderItem ссылается на файл ассета; растеризует его потребитель.
func renderItem(p *models.PlacedItem) string {
	f := p.Frame()
	c := f.Center()
	return fmt.Sprintf(`<image id="Item_%s" href="%s" x="%s" y="%s" width="%s" height="%s" transform="rotate(%s %s %s)"><title>%s</title></image>`,
		p.ID(), html.EscapeString(p.FilePath),
		formatFloat(f.X), formatFloat(f.Y), formatFloat(f.W), formatFloat(f.H),
		formatFloat(p.Rotation()), formatFloat(c.X), formatFloat(c.Y),
		html.EscapeString(p.Name()))
}

func polygon(id string, points []geometry.Point, fill, stroke string) string {
	var path strings.Builder
	path.WriteString(`<path id="`)
	path.WriteString(id)
	path.WriteString(`" d="M `)
	path.WriteString(formatPoint(points[0]))
	for _, p := range points[1:] {
		path.WriteString(" L ")
		path.WriteString(formatPoint(p))
	}
	path.WriteString(fmt.Sprintf(` Z" fill="%s" stroke="%s" />`, fill, stroke))
	return path.String()
}

// ============================================================
// Geometry helpers
// ============================================================

func rectanglePoints(r geometry.Rect, rotationDeg float64) []geometry.Point {
	c := r.Center()
	corners := []geometry.Point{
		{X: r.Left(), Y: r.Top()},
		{X: r.Right(), Y: r.Top()},
		{X: r.Right(), Y: r.Bottom()},
		{X: r.Left(), Y: r.Bottom()},
	}
	for i, p := range corners {
		x, y := geometry.RotatePoint(p.X, p.Y, c.X, c.Y, rotationDeg)
		corners[i] = geometry.Point{X: x, Y: y}
	}
	return corners
}

// ============================================================
// Formatting helpers
// ============================================================

func formatFloat(val float64) string {
	return strconv.FormatFloat(val, 'f', -1, 64)
}

func formatPoint(p geometry.Point) string {
	return formatFloat(p.X) + " " + formatFloat(p.Y)
}
