package metrics

import (
	"context"
	"time"

	"github.com/annel0/zonegrid/internal/eventbus"
	"github.com/annel0/zonegrid/internal/room"
	"github.com/prometheus/client_golang/prometheus"
)

// RoomLister источник снимков комнат (room.Manager)
type RoomLister interface {
	List() []room.Info
}

// RoomExporter периодически переносит collision.Stats комнат в Prometheus
// и считает события триггеров из шины.
type RoomExporter struct {
	source   RoomLister
	interval time.Duration
	quit     chan struct{}
	done     chan struct{}

	rooms         prometheus.Gauge
	colliders     *prometheus.GaugeVec
	triggers      *prometheus.GaugeVec
	cells         *prometheus.GaugeVec
	avgPerCell    *prometheus.GaugeVec
	triggerEvents *prometheus.CounterVec
}

// NewRoomExporter создаёт экспортер и регистрирует метрики в reg.
func NewRoomExporter(source RoomLister, reg prometheus.Registerer, interval time.Duration) *RoomExporter {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	re := &RoomExporter{
		source:   source,
		interval: interval,
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		rooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "zonegrid",
			Name:      "rooms",
			Help:      "Количество запущенных комнат.",
		}),
		colliders: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "zonegrid",
			Name:      "room_colliders",
			Help:      "Коллайдеров в комнате.",
		}, []string{"room", "layout"}),
		triggers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "zonegrid",
			Name:      "room_triggers",
			Help:      "Триггеров в комнате.",
		}, []string{"room", "layout"}),
		cells: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "zonegrid",
			Name:      "room_grid_cells",
			Help:      "Непустых ячеек сетки.",
		}, []string{"room", "layout"}),
		avgPerCell: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "zonegrid",
			Name:      "room_colliders_per_cell",
			Help:      "Среднее число коллайдеров на непустую ячейку.",
		}, []string{"room", "layout"}),
		triggerEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zonegrid",
			Name:      "trigger_events_total",
			Help:      "События входа/выхода из зон.",
		}, []string{"kind"}),
	}

	reg.MustRegister(re.rooms, re.colliders, re.triggers, re.cells, re.avgPerCell, re.triggerEvents)
	return re
}

// Start запускает опрос комнат в отдельной горутине.
func (re *RoomExporter) Start() {
	go re.loop()
}

// Stop останавливает опрос.
func (re *RoomExporter) Stop() {
	close(re.quit)
	<-re.done
}

// CountTriggerEvents подписывает экспортер на события триггеров шины.
func (re *RoomExporter) CountTriggerEvents(ctx context.Context, bus eventbus.EventBus) (eventbus.Subscription, error) {
	return bus.Subscribe(ctx, eventbus.Filter{
		Types: []string{eventbus.EventTriggerEnter, eventbus.EventTriggerExit},
	}, func(_ context.Context, ev *eventbus.Envelope) {
		re.triggerEvents.WithLabelValues(ev.EventType).Inc()
	})
}

func (re *RoomExporter) loop() {
	ticker := time.NewTicker(re.interval)
	defer ticker.Stop()
	defer close(re.done)

	re.collect()
	for {
		select {
		case <-ticker.C:
			re.collect()
		case <-re.quit:
			return
		}
	}
}

// collect обновляет gauge'и; закрытые комнаты исчезают из серий.
func (re *RoomExporter) collect() {
	infos := re.source.List()

	re.colliders.Reset()
	re.triggers.Reset()
	re.cells.Reset()
	re.avgPerCell.Reset()

	re.rooms.Set(float64(len(infos)))
	for _, info := range infos {
		re.colliders.WithLabelValues(info.ID, info.Layout).Set(float64(info.Stats.ColliderCount))
		re.triggers.WithLabelValues(info.ID, info.Layout).Set(float64(info.Stats.TriggerCount))
		re.cells.WithLabelValues(info.ID, info.Layout).Set(float64(info.Stats.GridCellCount))
		re.avgPerCell.WithLabelValues(info.ID, info.Layout).Set(info.Stats.AvgCollidersPerCell)
	}
}
