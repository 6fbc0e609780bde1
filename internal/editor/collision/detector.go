package collision

import (
	"floorplan/internal/editor/models"
)

// ============================================================
// Collision Detector
// ============================================================

// Tolerances: допуски перекрытий в пикселях. Значения подобраны на практике
// и переопределяются через поля Detector.Tolerances.
type Tolerances struct {
	// WallContact: глубина перекрытия стены с обычным предметом, считающаяся касанием.
	WallContact float64
	// OpeningGraze добавляется к половине толщины проема при касании проема с мебелью.
	OpeningGraze float64
	// MinOverlap: перекрытие глубже этого значения помечает обе сущности.
	MinOverlap float64
}

func DefaultTolerances() Tolerances {
	return Tolerances{
		WallContact:  6,
		OpeningGraze: 1,
		MinOverlap:   1,
	}
}

// Pair: неупорядоченная пара конфликтующих сущностей (A идет раньше в коллекции).
type Pair struct {
	A string `json:"a"`
	B string `json:"b"`
}

// BroadPhase отдает пары-кандидаты по индексам. AllPairs перебирает все O(n²)
// пар, что приемлемо для десятков-сотен сущностей плана; пространственный
// индекс подключается реализацией этого интерфейса без смены Detect.
type BroadPhase interface {
	Candidates(entities []models.Entity, visit func(i, j int))
}

type AllPairs struct{}

func (AllPairs) Candidates(entities []models.Entity, visit func(i, j int)) {
	for i := 0; i < len(entities); i++ {
		for j := i + 1; j < len(entities); j++ {
			visit(i, j)
		}
	}
}

type Detector struct {
	Tolerances Tolerances
	Broad      BroadPhase
}

func NewDetector() *Detector {
	return &Detector{
		Tolerances: DefaultTolerances(),
		Broad:      AllPairs{},
	}
}

// Detect сбрасывает флаги colliding у всех сущностей и выставляет их заново,
// возвращая найденные пары. Флаги симметричны.
func (d *Detector) Detect(entities []models.Entity) []Pair {
	for _, e := range entities {
		e.SetColliding(false)
	}

	broad := d.Broad
	if broad == nil {
		broad = AllPairs{}
	}

	var pairs []Pair
	broad.Candidates(entities, func(i, j int) {
		a, b := entities[i], entities[j]
		if !d.conflict(a, b) {
			return
		}
		a.SetColliding(true)
		b.SetColliding(true)
		pairs = append(pairs, Pair{A: a.ID(), B: b.ID()})
	})
	return pairs
}

// Colliding: идентификаторы всех помеченных сущностей в порядке коллекции.
func Colliding(entities []models.Entity) []string {
	var ids []string
	for _, e := range entities {
		if e.Colliding() {
			ids = append(ids, e.ID())
		}
	}
	return ids
}

func (d *Detector) conflict(a, b models.Entity) bool {
	if isZone(a) || isZone(b) {
		return false
	}

	wa, aIsWall := a.(*models.Wall)
	wb, bIsWall := b.(*models.Wall)
	if aIsWall && bIsWall {
		return WallsConflict(wa, wb)
	}

	attachA := models.IsWallAttachment(a)
	attachB := models.IsWallAttachment(b)
	if (aIsWall && attachB) || (bIsWall && attachA) {
		return false
	}

	depth := a.Bounds().OverlapDepth(b.Bounds())
	if depth <= 0 {
		return false
	}

	// проем (или дверь) против обычного предмета: тонкая сторона может задевать соседа
	if opening, ok := openingAgainstItem(a, b); ok {
		if depth <= models.Thickness(opening)/2+d.Tolerances.OpeningGraze {
			return false
		}
	}

	if aIsWall || bIsWall {
		return depth > d.Tolerances.WallContact
	}

	return depth > d.Tolerances.MinOverlap
}

func isZone(e models.Entity) bool {
	_, ok := e.(*models.FloorZone)
	return ok
}

// openingAgainstItem находит пару "проем/структурный предмет против обычного предмета".
func openingAgainstItem(a, b models.Entity) (models.Entity, bool) {
	if models.IsWallAttachment(a) && isOrdinaryItem(b) {
		return a, true
	}
	if models.IsWallAttachment(b) && isOrdinaryItem(a) {
		return b, true
	}
	return nil, false
}

func isOrdinaryItem(e models.Entity) bool {
	item, ok := e.(*models.PlacedItem)
	return ok && !item.Structural
}

// WallsConflict: стены конфликтуют только при собственном пересечении отрезков
// или при параллельном наложении рамок (коллинеарные участки). Касание в углу
// и Т-примыкание допустимы.
func WallsConflict(a, b *models.Wall) bool {
	sa, sb := a.Segment(), b.Segment()
	if sa.Crosses(sb) {
		return true
	}
	return sa.Parallel(sb) && sa.BoxesOverlap(sb)
}
