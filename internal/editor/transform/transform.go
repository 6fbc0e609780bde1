package transform

import (
	"math"

	"floorplan/internal/editor/geometry"
	"floorplan/internal/editor/models"
)

// ============================================================
// Transform operations
// ============================================================

// MinSize: минимальная ширина/высота при интерактивном ресайзе.
// Ограничение накладывает вызывающий (ResizeFromHandle), сам Resize его не проверяет.
const MinSize = 10.0

type Anchor string

const (
	AnchorCenter      Anchor = "center"
	AnchorTopLeft     Anchor = "topleft"
	AnchorTopRight    Anchor = "topright"
	AnchorBottomLeft  Anchor = "bottomleft"
	AnchorBottomRight Anchor = "bottomright"
)

// Handle: угловой маркер выделения в локальной (неповернутой) системе сущности.
type Handle string

const (
	HandleTopLeft     Handle = "tl"
	HandleTopRight    Handle = "tr"
	HandleBottomLeft  Handle = "bl"
	HandleBottomRight Handle = "br"
)

// Rotate прибавляет угол. Стена поворачивается вокруг своей середины, зона не вращается.
func Rotate(e models.Entity, deltaDeg float64) {
	switch v := e.(type) {
	case *models.Wall:
		mid := v.Segment().Midpoint()
		x1, y1 := geometry.RotatePoint(v.X1, v.Y1, mid.X, mid.Y, deltaDeg)
		x2, y2 := geometry.RotatePoint(v.X2, v.Y2, mid.X, mid.Y, deltaDeg)
		v.SetEndpoints(geometry.Point{X: x1, Y: y1}, geometry.Point{X: x2, Y: y2})
	case *models.Opening:
		v.SetRotation(v.Rotation() + deltaDeg)
	case *models.PlacedItem:
		v.SetRotation(v.Rotation() + deltaDeg)
	case *models.FloorZone:
	}
}

// Scale умножает размеры без пересчета позиции. Для стены масштабируется
// вектор от первого конца.
func Scale(e models.Entity, sx, sy float64) {
	switch v := e.(type) {
	case *models.Wall:
		v.X2 = v.X1 + (v.X2-v.X1)*sx
		v.Y2 = v.Y1 + (v.Y2-v.Y1)*sy
	case *models.Opening:
		v.Width *= sx
		v.Height *= sy
	case *models.FloorZone:
		v.Width *= sx
		v.Height *= sy
	case *models.PlacedItem:
		v.Width *= sx
		v.Height *= sy
	}
}

func Translate(e models.Entity, dx, dy float64) {
	switch v := e.(type) {
	case *models.Wall:
		v.X1 += dx
		v.Y1 += dy
		v.X2 += dx
		v.Y2 += dy
	case *models.Opening:
		v.X += dx
		v.Y += dy
	case *models.FloorZone:
		v.X += dx
		v.Y += dy
	case *models.PlacedItem:
		v.X += dx
		v.Y += dy
	}
}

// Resize задает новый размер, оставляя точку anchor неподвижной.
// Для стены width задает новую длину вдоль отрезка, height толщину.
func Resize(e models.Entity, width, height float64, anchor Anchor) {
	switch v := e.(type) {
	case *models.Wall:
		resizeWall(v, width, height, anchor)
	case models.Framed:
		v.SetFrame(ResizeRect(v.Frame(), width, height, anchor))
	}
}

// ResizeRect: чистая часть Resize над прямоугольником.
func ResizeRect(r geometry.Rect, width, height float64, anchor Anchor) geometry.Rect {
	out := geometry.Rect{X: r.X, Y: r.Y, W: width, H: height}
	switch anchor {
	case AnchorCenter:
		c := r.Center()
		out.X = c.X - width/2
		out.Y = c.Y - height/2
	case AnchorTopRight:
		out.X = r.Right() - width
	case AnchorBottomLeft:
		out.Y = r.Bottom() - height
	case AnchorBottomRight:
		out.X = r.Right() - width
		out.Y = r.Bottom() - height
	}
	return out
}

func resizeWall(w *models.Wall, length, thickness float64, anchor Anchor) {
	if thickness > 0 {
		w.Thickness = thickness
	}
	cur := w.Length()
	if cur == 0 || length <= 0 {
		return
	}
	ux, uy := (w.X2-w.X1)/cur, (w.Y2-w.Y1)/cur

	switch anchor {
	case AnchorCenter:
		mid := w.Segment().Midpoint()
		w.X1, w.Y1 = mid.X-ux*length/2, mid.Y-uy*length/2
		w.X2, w.Y2 = mid.X+ux*length/2, mid.Y+uy*length/2
	case AnchorTopLeft:
		w.X2, w.Y2 = w.X1+ux*length, w.Y1+uy*length
	default:
		w.X1, w.Y1 = w.X2-ux*length, w.Y2-uy*length
	}
}

// AnchorForHandle: противоположный маркеру угол, он остается на месте.
func AnchorForHandle(h Handle) Anchor {
	switch h {
	case HandleTopLeft:
		return AnchorBottomRight
	case HandleTopRight:
		return AnchorBottomLeft
	case HandleBottomLeft:
		return AnchorTopRight
	}
	return AnchorTopLeft
}

// ResizeFromHandle применяет смещение маркера (dx, dy в локальной системе)
// к стартовому прямоугольнику и ограничивает размер снизу minSize.
func ResizeFromHandle(e models.Framed, h Handle, start geometry.Rect, dx, dy, minSize float64) {
	w, ht := start.W, start.H
	switch h {
	case HandleBottomRight:
		w, ht = start.W+dx, start.H+dy
	case HandleBottomLeft:
		w, ht = start.W-dx, start.H+dy
	case HandleTopRight:
		w, ht = start.W+dx, start.H-dy
	case HandleTopLeft:
		w, ht = start.W-dx, start.H-dy
	}
	w = math.Max(w, minSize)
	ht = math.Max(ht, minSize)
	e.SetFrame(ResizeRect(start, w, ht, AnchorForHandle(h)))
}

// HandleAt ищет угловой маркер под точкой. Точка переводится в
// неповернутую систему сущности обратным поворотом вокруг центра.
func HandleAt(e models.Framed, p geometry.Point, size float64) (Handle, bool) {
	frame := e.Frame()
	local := ToLocal(e, p)
	lx, ly := local.X, local.Y

	corners := []struct {
		h    Handle
		x, y float64
	}{
		{HandleTopLeft, frame.Left(), frame.Top()},
		{HandleTopRight, frame.Right(), frame.Top()},
		{HandleBottomRight, frame.Right(), frame.Bottom()},
		{HandleBottomLeft, frame.Left(), frame.Bottom()},
	}
	for _, k := range corners {
		if math.Abs(lx-k.x) < size && math.Abs(ly-k.y) < size {
			return k.h, true
		}
	}
	return "", false
}

// ToLocal переводит точку сцены в неповернутую систему сущности.
func ToLocal(e models.Framed, p geometry.Point) geometry.Point {
	r, ok := e.(models.Rotatable)
	if !ok {
		return p
	}
	c := e.Frame().Center()
	x, y := geometry.RotatePoint(p.X, p.Y, c.X, c.Y, -r.Rotation())
	return geometry.Point{X: x, Y: y}
}
