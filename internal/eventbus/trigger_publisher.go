package eventbus

import (
	"context"
	"encoding/json"
	"time"

	"github.com/annel0/zonegrid/internal/collision"
	"github.com/annel0/zonegrid/internal/logging"
)

// TriggerPayload полезная нагрузка событий TriggerEnter/TriggerExit
type TriggerPayload struct {
	TriggerID uint64  `json:"triggerId"`
	Zone      any     `json:"zone,omitempty"` // Data триггера (обычно имя зоны)
	TriggerX  float64 `json:"triggerX"`
	TriggerZ  float64 `json:"triggerZ"`
	PlayerX   float64 `json:"playerX"`
	PlayerZ   float64 `json:"playerZ"`
}

// TriggerPublisher публикует события триггеров комнаты в шину.
// Реализует collision.TriggerHandler.
type TriggerPublisher struct {
	bus     EventBus
	source  string
	roomID  string
	timeout time.Duration
}

// NewTriggerPublisher создаёт обработчик для комнаты roomID
func NewTriggerPublisher(bus EventBus, source, roomID string) *TriggerPublisher {
	return &TriggerPublisher{
		bus:     bus,
		source:  source,
		roomID:  roomID,
		timeout: time.Second,
	}
}

// OnTriggerEvent вызывается движком синхронно внутри CheckTriggers.
// Ошибки публикации только логируются: движок не знает о шине.
func (p *TriggerPublisher) OnTriggerEvent(ev collision.TriggerEvent) {
	payload, err := json.Marshal(TriggerPayload{
		TriggerID: uint64(ev.Trigger.ID),
		Zone:      ev.Trigger.Data,
		TriggerX:  ev.Trigger.X,
		TriggerZ:  ev.Trigger.Z,
		PlayerX:   ev.PlayerX,
		PlayerZ:   ev.PlayerZ,
	})
	if err != nil {
		logging.Warn("TriggerPublisher: trigger %d payload: %v", ev.Trigger.ID, err)
		return
	}

	eventType := EventTriggerEnter
	if ev.Kind == collision.EventExit {
		eventType = EventTriggerExit
	}

	env := NewEnvelope(p.source, eventType, p.roomID, payload)
	// Вход и выход должны приходить парами
	env.Priority = PriorityHigh

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	if err := p.bus.Publish(ctx, env); err != nil {
		logging.Warn("TriggerPublisher: room %s %s: %v", p.roomID, eventType, err)
	}
}

// DecodeTriggerPayload разбирает Payload события триггера
func DecodeTriggerPayload(ev *Envelope) (TriggerPayload, error) {
	var p TriggerPayload
	err := json.Unmarshal(ev.Payload, &p)
	return p, err
}
