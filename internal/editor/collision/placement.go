package collision

import (
	"errors"

	"floorplan/internal/editor/models"
)

// ============================================================
// Placement validation
// ============================================================

// ErrPlacementRejected: кандидат не прошел проверку CanPlace*. Вызывающий
// не должен добавлять сущность; это штатный результат, а не сбой.
var ErrPlacementRejected = errors.New("placement rejected")

// CanPlaceWall отклоняет стену, пересекающую существующую или наложенную на нее параллельно.
func CanPlaceWall(candidate *models.Wall, walls []*models.Wall) bool {
	for _, w := range walls {
		if w == candidate {
			continue
		}
		if WallsConflict(candidate, w) {
			return false
		}
	}
	return true
}

// CanPlaceOpening: рамка проема перекрывает ровно одну стену и ничего больше.
func CanPlaceOpening(candidate models.Entity, walls []*models.Wall, others []models.Entity) bool {
	box := candidate.Bounds()

	hosts := 0
	for _, w := range walls {
		if box.Overlaps(w.Bounds()) {
			hosts++
		}
	}
	if hosts != 1 {
		return false
	}

	for _, o := range others {
		if o == candidate {
			continue
		}
		if _, isWall := o.(*models.Wall); isWall {
			continue
		}
		if box.Overlaps(o.Bounds()) {
			return false
		}
	}
	return true
}

// CanPlaceFurniture отклоняет предмет, задевающий стену или проем хотя бы на пиксель.
func CanPlaceFurniture(candidate models.Entity, walls []*models.Wall, openings []models.Entity) bool {
	box := candidate.Bounds()
	for _, w := range walls {
		if box.Overlaps(w.Bounds()) {
			return false
		}
	}
	for _, o := range openings {
		if o == candidate {
			continue
		}
		if box.Overlaps(o.Bounds()) {
			return false
		}
	}
	return true
}

// CanMoveObject: простая проверка рамок без исключений.
func CanMoveObject(candidate models.Entity, others []models.Entity) bool {
	box := candidate.Bounds()
	for _, o := range others {
		if o == candidate || o.ID() == candidate.ID() {
			continue
		}
		if box.Overlaps(o.Bounds()) {
			return false
		}
	}
	return true
}

// Openings отбирает проемы и структурные предметы (двери) для CanPlaceFurniture.
func Openings(entities []models.Entity) []models.Entity {
	var out []models.Entity
	for _, e := range entities {
		switch v := e.(type) {
		case *models.Opening:
			out = append(out, v)
		case *models.PlacedItem:
			if v.Structural {
				out = append(out, v)
			}
		}
	}
	return out
}
