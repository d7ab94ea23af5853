package collision

import (
	"github.com/annel0/zonegrid/internal/logging"
	"github.com/annel0/zonegrid/internal/physics"
)

// CheckTriggers проверяет все триггеры против круга игрока и возвращает
// события входа/выхода. Каждое пересечение границы даёт ровно одно событие;
// пока состояние не меняется, событий нет. Вызывать раз за тик: пропуск
// тиков может склеить переходы.
//
// Перед рассылкой набор триггеров фиксируется, поэтому обработчик может
// добавлять и удалять коллайдеры и триггеры. Триггер, удалённый
// обработчиком во время обхода, пропускается.
func (e *Engine) CheckTriggers(playerX, playerZ, radius float64) []TriggerEvent {
	var events []TriggerEvent
	for _, t := range e.Triggers() {
		if _, alive := e.triggers[t.ID]; !alive {
			continue
		}

		inside := physics.Overlaps(playerX, playerZ, radius, t.X, t.Z, t.Shape)

		var kind EventKind
		switch {
		case inside && !t.WasInside:
			kind = EventEnter
		case !inside && t.WasInside:
			kind = EventExit
		default:
			continue
		}
		t.WasInside = inside

		ev := TriggerEvent{Kind: kind, Trigger: *t, PlayerX: playerX, PlayerZ: playerZ}
		events = append(events, ev)

		logging.Debug("Trigger %d %s at (%.2f,%.2f)", t.ID, kind, playerX, playerZ)
		if t.Handler != nil {
			t.Handler.OnTriggerEvent(ev)
		}
	}
	return events
}

// GetActiveTriggers возвращает триггеры, которые сейчас пересекает игрок.
// WasInside не меняется.
func (e *Engine) GetActiveTriggers(playerX, playerZ, radius float64) []*Trigger {
	var active []*Trigger
	for _, t := range e.Triggers() {
		if physics.Overlaps(playerX, playerZ, radius, t.X, t.Z, t.Shape) {
			active = append(active, t)
		}
	}
	return active
}
