package eventbus

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Типы событий зон
const (
	EventTriggerEnter = "TriggerEnter"
	EventTriggerExit  = "TriggerExit"
	EventRoomSpawned  = "RoomSpawned"
	EventRoomClosed   = "RoomClosed"
)

// Приоритеты: события ниже PriorityHigh отбрасываются при переполнении буфера
const (
	PriorityLow  = 0
	PriorityHigh = 5
)

// ErrBusClosed шина остановлена
var ErrBusClosed = errors.New("eventbus: closed")

// Envelope описывает универсальный контейнер события.
type Envelope struct {
	ID        string    `json:"id"`        // Глобально уникальный идентификатор (UUID).
	Timestamp time.Time `json:"timestamp"` // Время создания события (UTC).
	Source    string    `json:"source"`    // Имя сервиса-источника.
	EventType string    `json:"eventType"` // Тип события (TriggerEnter, RoomSpawned…).
	RoomID    string    `json:"roomId,omitempty"`
	Priority  int       `json:"priority"` // 0=Low … 9=Critical (для backpressure).
	Payload   []byte    `json:"payload"`  // Сериализованный JSON.
}

// NewEnvelope заполняет ID и Timestamp
func NewEnvelope(source, eventType, roomID string, payload []byte) *Envelope {
	return &Envelope{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Source:    source,
		EventType: eventType,
		RoomID:    roomID,
		Payload:   payload,
	}
}

// Filter позволяет подписаться только на нужные события.
type Filter struct {
	Types   []string // Если пусто: все типы.
	Sources []string // Если пусто: все источники.
	RoomIDs []string // Если пусто: все комнаты.
}

// Subscription возвращается при подписке; позволяет отписаться.
type Subscription interface {
	Unsubscribe()
}

// Handler потребляет события.
type Handler func(ctx context.Context, ev *Envelope)

// Stats агрегированные метрики шины.
type Stats struct {
	Published uint64
	Consumed  uint64
	Dropped   uint64
	InFlight  int
}

// EventBus определяет абстракцию шины событий.
type EventBus interface {
	Publish(ctx context.Context, ev *Envelope) error
	Subscribe(ctx context.Context, f Filter, h Handler) (Subscription, error)
	Metrics() Stats
	Close() error
}

//================ In-Memory implementation =================//

type memoryBus struct {
	mu          sync.RWMutex
	subscribers map[int]subscriber
	nextID      int
	stats       Stats
	buffer      chan *Envelope
	done        chan struct{}
	stopped     chan struct{}
	closeOnce   sync.Once
}

type subscriber struct {
	filter  Filter
	handler Handler
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewMemoryBus создаёт in-memory Bus с указанным буфером.
// События доставляются подписчикам по одному в порядке публикации.
func NewMemoryBus(capacity int) EventBus {
	if capacity <= 0 {
		capacity = 1
	}
	mb := &memoryBus{
		subscribers: make(map[int]subscriber),
		buffer:      make(chan *Envelope, capacity),
		done:        make(chan struct{}),
		stopped:     make(chan struct{}),
	}
	go mb.dispatchLoop()
	return mb
}

func (mb *memoryBus) Publish(ctx context.Context, ev *Envelope) error {
	select {
	case <-mb.done:
		return ErrBusClosed
	default:
	}

	select {
	case mb.buffer <- ev:
		mb.countPublished()
		return nil
	default:
		// Буфер заполнен: дропаем низкий приоритет
		if ev.Priority < PriorityHigh {
			mb.mu.Lock()
			mb.stats.Dropped++
			mb.mu.Unlock()
			return nil
		}
		// Для High-priority блокируем до освобождения места или отмены контекста
		select {
		case mb.buffer <- ev:
			mb.countPublished()
			return nil
		case <-mb.done:
			return ErrBusClosed
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (mb *memoryBus) countPublished() {
	mb.mu.Lock()
	mb.stats.Published++
	mb.mu.Unlock()
}

func (mb *memoryBus) Subscribe(ctx context.Context, f Filter, h Handler) (Subscription, error) {
	select {
	case <-mb.done:
		return nil, ErrBusClosed
	default:
	}

	mb.mu.Lock()
	id := mb.nextID
	mb.nextID++
	cctx, cancel := context.WithCancel(ctx)
	mb.subscribers[id] = subscriber{filter: f, handler: h, ctx: cctx, cancel: cancel}
	mb.mu.Unlock()

	return &memSub{bus: mb, id: id}, nil
}

func (mb *memoryBus) Metrics() Stats {
	mb.mu.RLock()
	defer mb.mu.RUnlock()
	s := mb.stats
	s.InFlight = len(mb.buffer)
	return s
}

// Close останавливает рассылку; недоставленные события отбрасываются.
func (mb *memoryBus) Close() error {
	mb.closeOnce.Do(func() {
		close(mb.done)
		<-mb.stopped

		mb.mu.Lock()
		for id, sub := range mb.subscribers {
			sub.cancel()
			delete(mb.subscribers, id)
		}
		mb.mu.Unlock()
	})
	return nil
}

// dispatchLoop рассылает события подписчикам.
func (mb *memoryBus) dispatchLoop() {
	defer close(mb.stopped)
	for {
		select {
		case <-mb.done:
			return
		case ev := <-mb.buffer:
			mb.deliver(ev)
		}
	}
}

func (mb *memoryBus) deliver(ev *Envelope) {
	mb.mu.RLock()
	subs := make([]subscriber, 0, len(mb.subscribers))
	for _, sub := range mb.subscribers {
		subs = append(subs, sub)
	}
	mb.mu.RUnlock()

	for _, sub := range subs {
		if !matchFilter(ev, sub.filter) {
			continue
		}
		if sub.ctx.Err() != nil {
			continue
		}
		sub.handler(sub.ctx, ev)
		mb.mu.Lock()
		mb.stats.Consumed++
		mb.mu.Unlock()
	}
}

func matchFilter(ev *Envelope, f Filter) bool {
	match := func(val string, arr []string) bool {
		if len(arr) == 0 {
			return true
		}
		for _, v := range arr {
			if v == val {
				return true
			}
		}
		return false
	}
	return match(ev.EventType, f.Types) && match(ev.Source, f.Sources) && match(ev.RoomID, f.RoomIDs)
}

type memSub struct {
	bus *memoryBus
	id  int
}

func (s *memSub) Unsubscribe() {
	s.bus.mu.Lock()
	if sub, ok := s.bus.subscribers[s.id]; ok {
		sub.cancel()
		delete(s.bus.subscribers, s.id)
	}
	s.bus.mu.Unlock()
}
