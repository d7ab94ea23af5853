package eventbus

import (
	"context"

	"github.com/annel0/zonegrid/internal/logging"
)

// StartLoggingListener подписывается на все события и пишет их в лог.
// Функция неблокирующая.
func StartLoggingListener(ctx context.Context, bus EventBus) (Subscription, error) {
	sub, err := bus.Subscribe(ctx, Filter{}, func(ctx context.Context, ev *Envelope) {
		if ev.EventType == EventTriggerEnter || ev.EventType == EventTriggerExit {
			p, err := DecodeTriggerPayload(ev)
			if err != nil {
				logging.Warn("[EventBus] %s %s: битый payload: %v", ev.ID, ev.EventType, err)
				return
			}
			logging.Debug("[EventBus] %s room=%s trigger=%d zone=%v player=(%.2f, %.2f)",
				ev.EventType, ev.RoomID, p.TriggerID, p.Zone, p.PlayerX, p.PlayerZ)
			return
		}
		logging.Debug("[EventBus] %s %s room=%s src=%s size=%dB", ev.ID, ev.EventType, ev.RoomID, ev.Source, len(ev.Payload))
	})
	if err != nil {
		return nil, err
	}
	logging.Info("🪵 LoggingListener: подписка на все события активирована")
	return sub, nil
}
