// Package room держит по одному движку коллизий на игровую комнату.
// Движок не потокобезопасен, поэтому каждый доступ к комнате
// проходит под её собственным мьютексом (WithRoom).
package room

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/annel0/zonegrid/internal/collision"
	"github.com/annel0/zonegrid/internal/eventbus"
	"github.com/annel0/zonegrid/internal/logging"
	"github.com/annel0/zonegrid/internal/observability"
	"github.com/annel0/zonegrid/internal/storage"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// ErrRoomNotFound комнаты с таким id нет
var ErrRoomNotFound = errors.New("room not found")

const eventSource = "zonegrid"

// Room одна запущенная комната
type Room struct {
	ID        string
	Layout    string
	CreatedAt time.Time

	mu     sync.Mutex
	engine *collision.Engine
	closed bool
}

// Info снимок состояния комнаты для API и метрик
type Info struct {
	ID        string          `json:"id"`
	Layout    string          `json:"layout"`
	CreatedAt time.Time       `json:"createdAt"`
	Stats     collision.Stats `json:"stats"`
}

// Manager хранит комнаты и создаёт их из раскладок
type Manager struct {
	repo   storage.LayoutRepo
	bus    eventbus.EventBus // nil: события триггеров только возвращаются движком
	opts   collision.Options
	logger *logging.Logger

	mu    sync.RWMutex
	rooms map[string]*Room
}

// NewManager создаёт менеджер комнат. bus может быть nil.
func NewManager(repo storage.LayoutRepo, bus eventbus.EventBus, opts collision.Options) *Manager {
	return &Manager{
		repo:   repo,
		bus:    bus,
		opts:   opts,
		logger: logging.GetRoomLogger(),
		rooms:  make(map[string]*Room),
	}
}

// Spawn загружает раскладку и запускает по ней новую комнату
func (m *Manager) Spawn(ctx context.Context, layoutName string) (Info, error) {
	ctx, span := observability.StartSpan(ctx, "room.spawn")
	defer span.End()
	span.SetAttributes(attribute.String("zonegrid.layout", layoutName))

	layout, err := m.repo.Load(ctx, layoutName)
	if err != nil {
		span.RecordError(err)
		return Info{}, fmt.Errorf("spawn room from %s: %w", layoutName, err)
	}
	return m.SpawnLayout(ctx, layout)
}

// SpawnLayout запускает комнату по уже загруженной раскладке
func (m *Manager) SpawnLayout(ctx context.Context, layout *storage.Layout) (Info, error) {
	if layout == nil {
		return Info{}, errors.New("spawn room: nil layout")
	}

	opts := m.opts
	if layout.CellSize > 0 {
		opts.CellSize = layout.CellSize
	}

	id := uuid.NewString()
	engine := collision.NewEngine(opts)
	colliderIDs := engine.AddPropsColliders(layout.Props)

	var handler collision.TriggerHandler
	if m.bus != nil {
		handler = eventbus.NewTriggerPublisher(m.bus, eventSource, id)
	}
	for _, zone := range layout.Zones {
		engine.AddTrigger(zone.X, zone.Z, zone.Shape.Shape(), handler, zone.Name)
	}

	r := &Room{
		ID:        id,
		Layout:    layout.Name,
		CreatedAt: time.Now().UTC(),
		engine:    engine,
	}

	m.mu.Lock()
	m.rooms[id] = r
	m.mu.Unlock()

	m.logger.Info("Room %s spawned from %s: %d colliders, %d zones", id, layout.Name, len(colliderIDs), len(layout.Zones))
	m.publish(ctx, eventbus.EventRoomSpawned, id, map[string]any{"layout": layout.Name})

	return r.info(), nil
}

// Teardown очищает движок комнаты и забывает её
func (m *Manager) Teardown(ctx context.Context, id string) error {
	m.mu.Lock()
	r, ok := m.rooms[id]
	if ok {
		delete(m.rooms, id)
	}
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%s: %w", id, ErrRoomNotFound)
	}

	r.mu.Lock()
	r.engine.Clear()
	r.closed = true
	r.mu.Unlock()

	m.logger.Info("Room %s closed", id)
	m.publish(ctx, eventbus.EventRoomClosed, id, map[string]any{"layout": r.Layout})
	return nil
}

// WithRoom выполняет fn с эксклюзивным доступом к движку комнаты
func (m *Manager) WithRoom(id string, fn func(e *collision.Engine) error) error {
	m.mu.RLock()
	r, ok := m.rooms[id]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%s: %w", id, ErrRoomNotFound)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Комнату могли закрыть, пока мы ждали мьютекс
	if r.closed {
		return fmt.Errorf("%s: %w", id, ErrRoomNotFound)
	}
	return fn(r.engine)
}

// Get возвращает снимок комнаты
func (m *Manager) Get(id string) (Info, error) {
	m.mu.RLock()
	r, ok := m.rooms[id]
	m.mu.RUnlock()
	if !ok {
		return Info{}, fmt.Errorf("%s: %w", id, ErrRoomNotFound)
	}
	return r.info(), nil
}

// List возвращает комнаты в порядке создания
func (m *Manager) List() []Info {
	m.mu.RLock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	m.mu.RUnlock()

	infos := make([]Info, 0, len(rooms))
	for _, r := range rooms {
		infos = append(infos, r.info())
	}
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].CreatedAt.Equal(infos[j].CreatedAt) {
			return infos[i].ID < infos[j].ID
		}
		return infos[i].CreatedAt.Before(infos[j].CreatedAt)
	})
	return infos
}

// Count количество запущенных комнат
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// Layouts перечисляет раскладки, из которых можно создать комнату
func (m *Manager) Layouts(ctx context.Context) ([]string, error) {
	return m.repo.List(ctx)
}

// SaveLayout сохраняет раскладку для будущих комнат
func (m *Manager) SaveLayout(ctx context.Context, layout *storage.Layout) error {
	if err := m.repo.Save(ctx, layout); err != nil {
		return err
	}
	m.logger.Debug("Layout %s saved: %d props, %d zones", layout.Name, len(layout.Props), len(layout.Zones))
	return nil
}

// Close закрывает все комнаты
func (m *Manager) Close(ctx context.Context) {
	for _, info := range m.List() {
		if err := m.Teardown(ctx, info.ID); err != nil && !errors.Is(err, ErrRoomNotFound) {
			m.logger.Warn("Room %s teardown: %v", info.ID, err)
		}
	}
}

func (r *Room) info() Info {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Info{
		ID:        r.ID,
		Layout:    r.Layout,
		CreatedAt: r.CreatedAt,
		Stats:     r.engine.GetStats(),
	}
}

func (m *Manager) publish(ctx context.Context, eventType, roomID string, payload any) {
	if m.bus == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		m.logger.Warn("Room %s: %s payload: %v", roomID, eventType, err)
		return
	}
	if err := m.bus.Publish(ctx, eventbus.NewEnvelope(eventSource, eventType, roomID, data)); err != nil {
		m.logger.Warn("Room %s: publish %s: %v", roomID, eventType, err)
	}
}
