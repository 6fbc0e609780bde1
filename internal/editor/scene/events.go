package scene

import (
	"fmt"
	"math"

	"floorplan/internal/editor/collision"
	"floorplan/internal/editor/geometry"
	"floorplan/internal/editor/models"
	"floorplan/internal/editor/snap"
	"floorplan/internal/editor/transform"
)

// ============================================================
// Pointer events
// ============================================================

// PointerDown начинает жест. Координаты экранные, в мир переводятся через Viewport.
// Пока предыдущий жест не завершен, новые нажатия игнорируются.
func (c *Controller) PointerDown(sx, sy float64, button Button, mods Modifiers) Outcome {
	if _, ok := c.state.(idle); !ok {
		return c.outcome("")
	}
	if button == ButtonMiddle {
		c.state = panning{lastX: sx, lastY: sy}
		return c.outcome("")
	}

	world := c.view.ToWorld(sx, sy)
	pt := c.gridPoint(world)

	if button == ButtonRight {
		if r, ok := c.selected.(models.Rotatable); ok {
			center := r.Bounds().Center()
			c.state = rotating{
				entity:          r,
				startAngle:      angleTo(center, world),
				initialRotation: r.Rotation(),
			}
		}
		return c.outcome("")
	}
	if button != ButtonLeft {
		return c.outcome("")
	}

	switch c.tool {
	case ToolRuler:
		c.state = measuring{start: pt, end: pt}
		return c.outcome("")
	case ToolWall:
		c.state = drawingWall{start: pt, end: pt}
		return c.outcome("")
	case ToolZone:
		c.state = drawingZone{start: pt, end: pt}
		return c.outcome("")
	case ToolOpening:
		return c.placeOpening(pt)
	case ToolItem:
		return c.placeItem(pt)
	}

	if f, ok := c.selected.(models.Framed); ok {
		if h, hit := transform.HandleAt(f, world, HandleSize); hit {
			start := f.Frame()
			c.state = resizing{
				entity:     f,
				handle:     h,
				startRect:  start,
				startLocal: localPoint(f, start, world),
			}
			return c.outcome("")
		}
	}

	hit := c.hitTest(world)
	c.selectEntity(hit)
	if hit != nil {
		c.state = moving{entity: hit, pointerStart: world, startPose: hit.Clone()}
	}
	return c.outcome("")
}

// PointerMove обновляет превью рисования или позу сущности под жестом.
func (c *Controller) PointerMove(sx, sy float64, mods Modifiers) Outcome {
	world := c.view.ToWorld(sx, sy)

	switch st := c.state.(type) {
	case panning:
		c.view.OffsetX += sx - st.lastX
		c.view.OffsetY += sy - st.lastY
		c.state = panning{lastX: sx, lastY: sy}
		return c.outcome("")

	case measuring:
		st.end = c.gridPoint(world)
		c.state = st
		label := c.coords.FormatLength(geometry.Distance(st.start.X, st.start.Y, st.end.X, st.end.Y))
		o := c.outcome("Distance: " + label)
		o.Preview = &Preview{Kind: "ruler", From: st.start, To: st.end, Label: label}
		return o

	case drawingWall:
		st.end = c.gridPoint(world)
		c.state = st
		label := c.coords.FormatLength(geometry.Distance(st.start.X, st.start.Y, st.end.X, st.end.Y))
		o := c.outcome("")
		o.Preview = &Preview{Kind: "wall", From: st.start, To: st.end, Label: label}
		return o

	case drawingZone:
		st.end = c.gridPoint(world)
		c.state = st
		r := geometry.RectFromPoints(st.start, st.end)
		area := (r.W / geometry.PixelsPerMeter) * (r.H / geometry.PixelsPerMeter)
		o := c.outcome("")
		o.Preview = &Preview{
			Kind:  "zone",
			From:  geometry.Point{X: r.X, Y: r.Y},
			To:    geometry.Point{X: r.Right(), Y: r.Bottom()},
			Label: geometry.FormatArea(area),
		}
		return o

	case moving:
		o := c.outcome("")
		o.Guides = c.dragTo(st, world)
		return o

	case resizing:
		local := localPoint(st.entity, st.startRect, world)
		dx := c.gridValue(local.X - st.startLocal.X)
		dy := c.gridValue(local.Y - st.startLocal.Y)
		transform.ResizeFromHandle(st.entity, st.handle, st.startRect, dx, dy, transform.MinSize)
		c.detect()
		return c.outcome("")

	case rotating:
		center := st.entity.Bounds().Center()
		st.entity.SetRotation(st.initialRotation + angleTo(center, world) - st.startAngle)
		c.detect()
		return c.outcome(fmt.Sprintf("Rotation: %.0f°", st.entity.Rotation()))
	}
	return c.outcome("")
}

// dragTo переносит сущность: стена сдвигается на дельту, привязанную к сетке,
// остальные проходят через smart snap с откатом к сетке по каждой оси.
func (c *Controller) dragTo(st moving, world geometry.Point) []snap.Guide {
	dx := world.X - st.pointerStart.X
	dy := world.Y - st.pointerStart.Y

	var guides []snap.Guide
	switch start := st.startPose.(type) {
	case *models.Wall:
		w := st.entity.(*models.Wall)
		dx, dy = c.gridValue(dx), c.gridValue(dy)
		w.X1, w.Y1 = start.X1+dx, start.Y1+dy
		w.X2, w.Y2 = start.X2+dx, start.Y2+dy
	case models.Framed:
		f := st.entity.(models.Framed)
		from := start.Frame()
		px, py := from.X+dx, from.Y+dy

		res := c.snapper.Solve(st.entity, c.entities, px, py)
		x, y := res.X, res.Y
		if !res.SnappedX {
			x = c.gridValue(px)
		}
		if !res.SnappedY {
			y = c.gridValue(py)
		}
		frame := f.Frame()
		frame.X, frame.Y = x, y
		f.SetFrame(frame)
		guides = res.Guides
	}
	c.detect()
	return guides
}

// PointerUp завершает жест: рисование создает сущность, перенос/поворот/ресайз
// фиксируются в истории, если поза изменилась.
func (c *Controller) PointerUp(sx, sy float64, button Button, mods Modifiers) Outcome {
	switch st := c.state.(type) {
	case measuring:
		c.state = idle{}
		return c.outcome("Measurement finished")

	case drawingWall:
		c.state = idle{}
		return c.finishWall(st)

	case drawingZone:
		c.state = idle{}
		return c.finishZone(st)

	case moving:
		c.state = idle{}
		if !poseChanged(st.entity, st.startPose) {
			return c.outcome("")
		}
		c.commit("move", st.entity)
		o := c.outcome("")
		o.Committed = st.entity.ID()
		if _, isZone := st.entity.(*models.FloorZone); !isZone &&
			!collision.CanMoveObject(st.entity, c.obstacles()) {
			o.Status = "Object overlaps another object"
		}
		return o

	case rotating:
		c.state = idle{}
		return c.finishPose("rotate", st.entity, st.initialRotation != st.entity.Rotation())

	case resizing:
		c.state = idle{}
		return c.finishPose("resize", st.entity, st.startRect != st.entity.Frame())

	case panning:
		c.state = idle{}
	}
	return c.outcome("")
}

func (c *Controller) finishPose(action string, e models.Entity, changed bool) Outcome {
	if !changed {
		return c.outcome("")
	}
	c.commit(action, e)
	o := c.outcome("")
	o.Committed = e.ID()
	return o
}

func (c *Controller) finishWall(st drawingWall) Outcome {
	w, err := models.NewWall(st.start.X, st.start.Y, st.end.X, st.end.Y, models.DefaultWallThickness)
	if err != nil {
		o := c.outcome("")
		o.Discarded = true
		return o
	}
	if !collision.CanPlaceWall(w, models.Walls(c.entities)) {
		return c.reject("Wall crosses an existing wall")
	}

	c.entities = append(c.entities, w)
	c.selectEntity(w)
	c.commit("add wall", w)
	o := c.outcome("Wall length: " + c.coords.FormatLength(w.Length()))
	o.Committed = w.ID()
	return o
}

func (c *Controller) finishZone(st drawingZone) Outcome {
	r := geometry.RectFromPoints(st.start, st.end)
	z, err := models.NewFloorZone(r.X, r.Y, r.W, r.H)
	if err != nil {
		o := c.outcome("")
		o.Discarded = true
		return o
	}

	// зоны рисуются под остальными сущностями
	c.entities = append([]models.Entity{z}, c.entities...)
	c.selectEntity(z)
	c.tool = ToolSelect
	c.commit("add zone", z)
	o := c.outcome("Area: " + geometry.FormatArea(z.AreaSquareMeters()))
	o.Committed = z.ID()
	return o
}

// placeOpening ставит окно 100×15 центром в точку, повернув его по стене под курсором.
func (c *Controller) placeOpening(pt geometry.Point) Outcome {
	style := c.payload.Style
	op := models.NewOpening(style,
		pt.X-models.DefaultOpeningWidth/2,
		pt.Y-math.Floor(models.DefaultOpeningHeight/2),
		models.DefaultOpeningWidth, models.DefaultOpeningHeight, 0)
	if host := c.wallAt(pt); host != nil {
		op.SetRotation(host.Angle())
	}

	if !collision.CanPlaceOpening(op, models.Walls(c.entities), c.obstacles()) {
		return c.reject("Opening must sit on exactly one wall")
	}
	c.entities = append(c.entities, op)
	c.selectEntity(op)
	c.commit("add opening", op)
	o := c.outcome("")
	o.Committed = op.ID()
	return o
}

// placeItem ставит предмет 80×80 центром в точку и возвращает инструмент выбора.
// Двери проверяются как проемы, остальная мебель не должна задевать стены и проемы.
func (c *Controller) placeItem(pt geometry.Point) Outcome {
	item := models.NewPlacedItem(c.payload.AssetPath, c.payload.Category,
		0, 0, models.DefaultItemSize, models.DefaultItemSize, 0)
	item.CenterOn(pt)

	walls := models.Walls(c.entities)
	var ok bool
	if item.Structural {
		ok = collision.CanPlaceOpening(item, walls, c.obstacles())
	} else {
		ok = collision.CanPlaceFurniture(item, walls, collision.Openings(c.entities))
	}
	if !ok {
		return c.reject("Item overlaps a wall or an opening")
	}

	c.entities = append(c.entities, item)
	c.selectEntity(item)
	c.tool = ToolSelect
	c.commit("add item", item)
	o := c.outcome("")
	o.Committed = item.ID()
	return o
}

func (c *Controller) reject(status string) Outcome {
	c.log.WithField("tool", c.tool).Debug("placement rejected")
	o := c.outcome(status)
	o.Rejected = true
	o.Err = fmt.Errorf("%s: %w", status, collision.ErrPlacementRejected)
	return o
}

// ============================================================
// Wheel & cancel
// ============================================================

// Wheel: с Ctrl масштаб вокруг курсора, иначе поворот выбранной сущности
// на 15° (5° с Shift). Стены и зоны колесом не вращаются.
func (c *Controller) Wheel(sx, sy, delta float64, mods Modifiers) Outcome {
	if mods.Ctrl {
		old := c.view.ToWorld(sx, sy)
		factor := 0.9
		if delta > 0 {
			factor = 1.1
		}
		c.view.Zoom = math.Max(MinZoom, math.Min(MaxZoom, c.view.Zoom*factor))
		c.view.OffsetX = sx - old.X*c.view.Zoom
		c.view.OffsetY = sy - old.Y*c.view.Zoom
		return c.outcome(fmt.Sprintf("Zoom: %d%%", int(c.view.Zoom*100)))
	}

	if _, ok := c.state.(idle); !ok {
		return c.outcome("")
	}
	r, ok := c.selected.(models.Rotatable)
	if !ok || delta == 0 {
		return c.outcome("")
	}
	step := WheelRotateStep
	if mods.Shift {
		step = WheelRotateFineStep
	}
	if delta < 0 {
		step = -step
	}
	transform.Rotate(r, step)
	c.commit("rotate", r)
	o := c.outcome(fmt.Sprintf("Rotation: %.0f°", r.Rotation()))
	o.Committed = r.ID()
	return o
}

// Cancel (Escape) сбрасывает незавершенный жест без фиксации: превью
// отбрасывается, поза сущности возвращается к стартовой.
func (c *Controller) Cancel() Outcome {
	discarded := true
	switch st := c.state.(type) {
	case idle:
		discarded = false
	case moving:
		restorePose(st.entity, st.startPose)
	case rotating:
		st.entity.SetRotation(st.initialRotation)
	case resizing:
		st.entity.SetFrame(st.startRect)
	}
	c.state = idle{}
	c.detect()
	o := c.outcome("")
	o.Discarded = discarded
	return o
}

// ============================================================
// Hit testing
// ============================================================

// hitTest проверяет сущности от последней к первой: позже добавленные
// рисуются выше и перехватывают клик.
func (c *Controller) hitTest(p geometry.Point) models.Entity {
	for i := len(c.entities) - 1; i >= 0; i-- {
		e := c.entities[i]
		if w, ok := e.(*models.Wall); ok {
			if wallHit(w, p) {
				return e
			}
			continue
		}
		if f, ok := e.(models.Framed); ok {
			if f.Frame().Normalize().Contains(transform.ToLocal(f, p)) {
				return e
			}
			continue
		}
		if e.Bounds().Contains(p) {
			return e
		}
	}
	return nil
}

func (c *Controller) wallAt(p geometry.Point) *models.Wall {
	walls := models.Walls(c.entities)
	for i := len(walls) - 1; i >= 0; i-- {
		if wallHit(walls[i], p) {
			return walls[i]
		}
	}
	return nil
}

func wallHit(w *models.Wall, p geometry.Point) bool {
	return w.Segment().DistanceToPoint(p) < w.Thickness/2+WallPickMargin
}

// obstacles: сущности, участвующие в проверках размещения (все, кроме зон).
func (c *Controller) obstacles() []models.Entity {
	out := make([]models.Entity, 0, len(c.entities))
	for _, e := range c.entities {
		if _, isZone := e.(*models.FloorZone); !isZone {
			out = append(out, e)
		}
	}
	return out
}

// ============================================================
// Pose helpers
// ============================================================

func angleTo(center, p geometry.Point) float64 {
	return math.Atan2(p.Y-center.Y, p.X-center.X) * 180 / math.Pi
}

func rotationOf(e models.Entity) float64 {
	if r, ok := e.(models.Rotatable); ok {
		return r.Rotation()
	}
	return 0
}

// localPoint переводит точку в систему сущности относительно центра стартовой рамки,
// чтобы сдвиг центра во время ресайза не искажал дельту.
func localPoint(e models.Framed, start geometry.Rect, p geometry.Point) geometry.Point {
	c := start.Center()
	x, y := geometry.RotatePoint(p.X, p.Y, c.X, c.Y, -rotationOf(e))
	return geometry.Point{X: x, Y: y}
}

type pose [5]float64

func poseOf(e models.Entity) pose {
	switch v := e.(type) {
	case *models.Wall:
		return pose{v.X1, v.Y1, v.X2, v.Y2, v.Thickness}
	case models.Framed:
		f := v.Frame()
		return pose{f.X, f.Y, f.W, f.H, rotationOf(v)}
	}
	return pose{}
}

func poseChanged(a, b models.Entity) bool {
	return poseOf(a) != poseOf(b)
}

func restorePose(e, from models.Entity) {
	switch v := e.(type) {
	case *models.Wall:
		src := from.(*models.Wall)
		v.X1, v.Y1, v.X2, v.Y2 = src.X1, src.Y1, src.X2, src.Y2
		v.Thickness = src.Thickness
	case models.Framed:
		v.SetFrame(from.(models.Framed).Frame())
		if r, ok := v.(models.Rotatable); ok {
			r.SetRotation(rotationOf(from))
		}
	}
}
