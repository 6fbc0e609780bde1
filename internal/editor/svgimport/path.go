package svgimport

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"floorplan/internal/editor/geometry"
)

// ============================================================
// Path Parser
// ============================================================

var pathCommand = regexp.MustCompile(`([MmLlHhVvZz])([^MmLlHhVvZz]*)`)

// ParsePath разбирает SVG path в список точек. Поддерживаются
// команды M, L, H, V (абсолютные и относительные) и Z; кривые не нужны
// для плана из прямых стен.
func ParsePath(d string) ([]geometry.Point, error) {
	d = strings.TrimSpace(d)
	if d == "" {
		return nil, fmt.Errorf("empty path")
	}

	var points []geometry.Point
	var cur geometry.Point

	for _, match := range pathCommand.FindAllStringSubmatch(d, -1) {
		cmd := match[1]
		coords := parseCoords(match[2])

		switch cmd {
		case "M", "L":
			// повторяющиеся пары после M/L: неявные LineTo
			for i := 0; i+1 < len(coords); i += 2 {
				cur = geometry.Point{X: coords[i], Y: coords[i+1]}
				points = append(points, cur)
			}
		case "m", "l":
			for i := 0; i+1 < len(coords); i += 2 {
				cur = geometry.Point{X: cur.X + coords[i], Y: cur.Y + coords[i+1]}
				points = append(points, cur)
			}
		case "H":
			for _, v := range coords {
				cur.X = v
				points = append(points, cur)
			}
		case "h":
			for _, v := range coords {
				cur.X += v
				points = append(points, cur)
			}
		case "V":
			for _, v := range coords {
				cur.Y = v
				points = append(points, cur)
			}
		case "v":
			for _, v := range coords {
				cur.Y += v
				points = append(points, cur)
			}
		case "Z", "z":
			if len(points) > 0 {
				cur = points[0]
				points = append(points, cur)
			}
		}
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("path %q: no points", d)
	}
	return points, nil
}

func parseCoords(s string) []float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	// Разделитель: запятая или пробел
	parts := strings.Fields(strings.ReplaceAll(s, ",", " "))

	var coords []float64
	for _, part := range parts {
		val, err := strconv.ParseFloat(part, 64)
		if err == nil {
			coords = append(coords, val)
		}
	}
	return coords
}

// pathBounds: осевой прямоугольник вокруг точек пути.
func pathBounds(points []geometry.Point) geometry.Rect {
	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	return geometry.Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}
