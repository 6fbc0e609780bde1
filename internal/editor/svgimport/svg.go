package svgimport

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// ============================================================
// XML Structures
// ============================================================

type svgDoc struct {
	XMLName xml.Name `xml:"svg"`
	Width   string   `xml:"width,attr"`
	Height  string   `xml:"height,attr"`
	group
}

// group: общий набор дочерних элементов для <svg> и вложенных <g>.
type group struct {
	Rects  []svgRect `xml:"rect"`
	Paths  []svgPath `xml:"path"`
	Lines  []svgLine `xml:"line"`
	Groups []group   `xml:"g"`
}

type svgRect struct {
	ID     string  `xml:"id,attr"`
	X      float64 `xml:"x,attr"`
	Y      float64 `xml:"y,attr"`
	Width  float64 `xml:"width,attr"`
	Height float64 `xml:"height,attr"`
}

type svgPath struct {
	ID string `xml:"id,attr"`
	D  string `xml:"d,attr"`
}

type svgLine struct {
	ID          string  `xml:"id,attr"`
	X1          float64 `xml:"x1,attr"`
	Y1          float64 `xml:"y1,attr"`
	X2          float64 `xml:"x2,attr"`
	Y2          float64 `xml:"y2,attr"`
	StrokeWidth float64 `xml:"stroke-width,attr"`
}

// ============================================================
// Elements
// ============================================================

type ElementType string

const (
	TypeWall    ElementType = "wall"
	TypeDoor    ElementType = "door"
	TypeWindow  ElementType = "window"
	TypeRoom    ElementType = "room"
	TypeBalcony ElementType = "balcony"
)

// Element: распознанный элемент плана. Geometry: RectGeometry, PathGeometry или LineGeometry.
type Element struct {
	ID       string
	Type     ElementType
	Geometry any
}

type RectGeometry struct {
	X, Y, Width, Height float64
}

type PathGeometry struct {
	D string
}

type LineGeometry struct {
	X1, Y1, X2, Y2 float64
	Thickness      float64
}

// ============================================================
// Parser
// ============================================================

// ParseSVG читает документ и отбирает элементы, чьи id распознаются как
// стены, проемы или помещения. Остальное молча пропускается.
func ParseSVG(r io.Reader) ([]Element, error) {
	var doc svgDoc
	decoder := xml.NewDecoder(r)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode svg: %w", err)
	}

	var elements []Element
	collect(doc.group, &elements)
	return elements, nil
}

func collect(g group, out *[]Element) {
	for _, rect := range g.Rects {
		t := classifyElementByID(rect.ID)
		if t == "" {
			continue
		}
		*out = append(*out, Element{
			ID:   rect.ID,
			Type: t,
			Geometry: RectGeometry{
				X:      rect.X,
				Y:      rect.Y,
				Width:  rect.Width,
				Height: rect.Height,
			},
		})
	}

	for _, path := range g.Paths {
		t := classifyElementByID(path.ID)
		if t == "" {
			continue
		}
		*out = append(*out, Element{ID: path.ID, Type: t, Geometry: PathGeometry{D: path.D}})
	}

	for _, line := range g.Lines {
		if classifyElementByID(line.ID) != TypeWall {
			continue
		}
		*out = append(*out, Element{
			ID:   line.ID,
			Type: TypeWall,
			Geometry: LineGeometry{
				X1: line.X1, Y1: line.Y1,
				X2: line.X2, Y2: line.Y2,
				Thickness: line.StrokeWidth,
			},
		})
	}

	for _, child := range g.Groups {
		collect(child, out)
	}
}

func classifyElementByID(id string) ElementType {
	switch {
	case strings.HasPrefix(id, "Wall_"), strings.HasPrefix(id, "Hui_Wall_"):
		return TypeWall
	case strings.HasPrefix(id, "Door_"):
		return TypeDoor
	case strings.HasPrefix(id, "Window_"):
		return TypeWindow
	case strings.HasPrefix(id, "Room_"),
		strings.HasSuffix(id, "_room"), // Hall_room, Toilet_room
		strings.HasSuffix(id, "_Room"):
		return TypeRoom
	case strings.HasPrefix(id, "Balcony"):
		return TypeBalcony
	}
	return ""
}
