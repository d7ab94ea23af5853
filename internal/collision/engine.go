package collision

import (
	"sort"

	"github.com/annel0/zonegrid/internal/logging"
	"github.com/annel0/zonegrid/internal/physics"
)

// Engine пространственный индекс коллизий и триггеров одной комнаты.
//
// Engine не потокобезопасен: вызывающая сторона разделяет фазы мутаций
// и запросов внутри тика (обычный однопоточный игровой цикл). При работе
// из нескольких горутин нужна внешняя синхронизация.
type Engine struct {
	opts      Options
	grid      *grid
	colliders map[ID]*Collider
	triggers  map[ID]*Trigger
	nextID    ID
}

// NewEngine создаёт движок. Некорректные параметры заменяются значениями по умолчанию.
func NewEngine(opts Options) *Engine {
	opts = opts.normalized()
	return &Engine{
		opts:      opts,
		grid:      newGrid(opts.CellSize),
		colliders: make(map[ID]*Collider),
		triggers:  make(map[ID]*Trigger),
	}
}

// Options возвращает действующие параметры движка
func (e *Engine) Options() Options {
	return e.opts
}

func (e *Engine) allocID() ID {
	e.nextID++
	return e.nextID
}

// AddCollider добавляет коллайдер в сетку и возвращает его ID
func (e *Engine) AddCollider(x, z float64, shape physics.Shape, typ ColliderType, data any) ID {
	c := &Collider{
		ID:    e.allocID(),
		X:     x,
		Z:     z,
		Shape: shape,
		Type:  typ,
		Data:  data,
	}
	c.Cells = e.grid.cellsForBounds(shape.Bounds(x, z, e.opts.DefaultExtent))
	e.grid.insert(c.ID, c.Cells)
	e.colliders[c.ID] = c

	logging.Trace("Collider %d added: %s %s at (%.2f,%.2f), cells:%d",
		c.ID, typ, shape.Kind, x, z, len(c.Cells))
	return c.ID
}

// RemoveCollider удаляет коллайдер. Неизвестный id: false.
func (e *Engine) RemoveCollider(id ID) bool {
	c, ok := e.colliders[id]
	if !ok {
		return false
	}
	e.grid.remove(id, c.Cells)
	delete(e.colliders, id)
	c.Cells = nil

	logging.Trace("Collider %d removed", id)
	return true
}

// UpdateCollider перемещает коллайдер. Ячейки пересчитываются с нуля:
// сначала удаление из всех старых, затем вставка в новые.
func (e *Engine) UpdateCollider(id ID, newX, newZ float64) bool {
	c, ok := e.colliders[id]
	if !ok {
		return false
	}
	fromX, fromZ := c.X, c.Z

	e.grid.remove(id, c.Cells)
	c.X, c.Z = newX, newZ
	c.Cells = e.grid.cellsForBounds(c.Shape.Bounds(newX, newZ, e.opts.DefaultExtent))
	e.grid.insert(id, c.Cells)

	logging.LogColliderMovement(uint64(id), fromX, fromZ, newX, newZ, len(c.Cells))
	return true
}

// Collider возвращает коллайдер по ID
func (e *Engine) Collider(id ID) (*Collider, bool) {
	c, ok := e.colliders[id]
	return c, ok
}

// Colliders возвращает все коллайдеры в порядке ID
func (e *Engine) Colliders() []*Collider {
	out := make([]*Collider, 0, len(e.colliders))
	for _, c := range e.colliders {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AddTrigger регистрирует зону-триггер. handler может быть nil.
func (e *Engine) AddTrigger(x, z float64, shape physics.Shape, handler TriggerHandler, data any) ID {
	t := &Trigger{
		ID:      e.allocID(),
		X:       x,
		Z:       z,
		Shape:   shape,
		Handler: handler,
		Data:    data,
	}
	e.triggers[t.ID] = t

	logging.Trace("Trigger %d added: %s at (%.2f,%.2f)", t.ID, shape.Kind, x, z)
	return t.ID
}

// RemoveTrigger удаляет триггер. Неизвестный id: false.
func (e *Engine) RemoveTrigger(id ID) bool {
	if _, ok := e.triggers[id]; !ok {
		return false
	}
	delete(e.triggers, id)
	logging.Trace("Trigger %d removed", id)
	return true
}

// Trigger возвращает триггер по ID
func (e *Engine) Trigger(id ID) (*Trigger, bool) {
	t, ok := e.triggers[id]
	return t, ok
}

// Triggers возвращает все триггеры в порядке ID
func (e *Engine) Triggers() []*Trigger {
	out := make([]*Trigger, 0, len(e.triggers))
	for _, t := range e.triggers {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Clear удаляет все коллайдеры, триггеры и состояние сетки (разбор комнаты).
// Счётчик ID не сбрасывается.
func (e *Engine) Clear() {
	colliders, triggers := len(e.colliders), len(e.triggers)
	e.grid.reset()
	e.colliders = make(map[ID]*Collider)
	e.triggers = make(map[ID]*Trigger)
	logging.Debug("Engine cleared: %d colliders, %d triggers dropped", colliders, triggers)
}

// GetStats возвращает статистику движка
func (e *Engine) GetStats() Stats {
	cells := e.grid.cellCount()
	avg := 0.0
	if cells > 0 {
		avg = float64(e.grid.entryCount()) / float64(cells)
	}
	return Stats{
		ColliderCount:       len(e.colliders),
		TriggerCount:        len(e.triggers),
		GridCellCount:       cells,
		AvgCollidersPerCell: avg,
	}
}
