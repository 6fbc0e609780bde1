package history

import (
	"floorplan/internal/editor/models"
)

// ============================================================
// Edit history
// ============================================================

const DefaultCapacity = 50

// History: стек снимков всей коллекции сущностей. Каждый снимок является глубокой
// копией, живые сущности сцены в историю не попадают и наружу не отдаются.
//
// states[0] хранит базовое состояние (после Reset), cursor указывает на текущее.
// Копирование стоит O(n) на каждое дискретное действие, не на кадр.
type History struct {
	states   [][]models.Entity
	cursor   int
	capacity int
}

func New(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	h := &History{capacity: capacity}
	h.Reset(nil)
	return h
}

// Reset очищает историю и делает entities базовым состоянием.
func (h *History) Reset(entities []models.Entity) {
	h.states = [][]models.Entity{models.CloneAll(entities)}
	h.cursor = 0
}

// Push фиксирует текущее состояние как новую точку отмены и отбрасывает redo-ветку.
// При переполнении вытесняется самый старый снимок.
func (h *History) Push(entities []models.Entity) {
	h.states = append(h.states[:h.cursor+1], models.CloneAll(entities))
	if len(h.states) > h.capacity+1 {
		h.states = h.states[len(h.states)-h.capacity-1:]
	}
	h.cursor = len(h.states) - 1
}

// Undo возвращает копию предыдущего состояния; ok=false на самой старой точке.
func (h *History) Undo() ([]models.Entity, bool) {
	if !h.CanUndo() {
		return nil, false
	}
	h.cursor--
	return models.CloneAll(h.states[h.cursor]), true
}

// Redo возвращает копию следующего состояния; ok=false на самой новой точке.
func (h *History) Redo() ([]models.Entity, bool) {
	if !h.CanRedo() {
		return nil, false
	}
	h.cursor++
	return models.CloneAll(h.states[h.cursor]), true
}

func (h *History) CanUndo() bool { return h.cursor > 0 }
func (h *History) CanRedo() bool { return h.cursor < len(h.states)-1 }

// Len: число доступных шагов отмены.
func (h *History) Len() int { return h.cursor }
