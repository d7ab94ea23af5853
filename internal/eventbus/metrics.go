package eventbus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsExporter периодически переносит Stats шины в Prometheus.
// HTTP-эндпоинт /metrics обслуживает API сервер.
type MetricsExporter struct {
	bus      EventBus
	interval time.Duration
	quit     chan struct{}
	done     chan struct{}
	// Prometheus metrics
	published prometheus.Counter
	consumed  prometheus.Counter
	dropped   prometheus.Counter
	inflight  prometheus.Gauge
}

// NewMetricsExporter создаёт экспортер и регистрирует метрики в reg.
func NewMetricsExporter(bus EventBus, reg prometheus.Registerer, interval time.Duration) *MetricsExporter {
	if interval <= 0 {
		interval = time.Second
	}
	me := &MetricsExporter{
		bus:      bus,
		interval: interval,
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		published: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eventbus",
			Name:      "messages_published_total",
			Help:      "Общее число опубликованных сообщений.",
		}),
		consumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eventbus",
			Name:      "messages_consumed_total",
			Help:      "Общее число доставленных сообщений подписчикам.",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eventbus",
			Name:      "messages_dropped_total",
			Help:      "Сообщений, отброшенных из-за ошибок или ограничения back-pressure.",
		}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "eventbus",
			Name:      "messages_inflight",
			Help:      "Количество сообщений, находящихся в очереди (не доставленных).",
		}),
	}

	reg.MustRegister(me.published, me.consumed, me.dropped, me.inflight)
	return me
}

// Start запускает опрос шины в отдельной горутине.
func (m *MetricsExporter) Start() {
	go m.loop()
}

// Stop останавливает обновление метрик.
func (m *MetricsExporter) Stop() {
	close(m.quit)
	<-m.done
}

func (m *MetricsExporter) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	defer close(m.done)

	// Для коррекции Counter нужно хранить прошлое значение и прибавлять дельту.
	var prev Stats

	for {
		select {
		case <-ticker.C:
			prev = m.collect(prev)
		case <-m.quit:
			return
		}
	}
}

func (m *MetricsExporter) collect(prev Stats) Stats {
	stats := m.bus.Metrics()

	if stats.Published > prev.Published {
		m.published.Add(float64(stats.Published - prev.Published))
	}
	if stats.Consumed > prev.Consumed {
		m.consumed.Add(float64(stats.Consumed - prev.Consumed))
	}
	if stats.Dropped > prev.Dropped {
		m.dropped.Add(float64(stats.Dropped - prev.Dropped))
	}

	m.inflight.Set(float64(stats.InFlight))
	return stats
}
