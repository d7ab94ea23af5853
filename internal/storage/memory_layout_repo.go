package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// MemoryLayoutRepo реализует LayoutRepo в памяти.
// Используется в тестах и для локальной разработки без БД.
// ВНИМАНИЕ: Данные теряются при перезапуске сервера!
type MemoryLayoutRepo struct {
	mu   sync.RWMutex
	data map[string][]byte // имя -> JSON раскладки
}

// NewMemoryLayoutRepo создает новый репозиторий раскладок в памяти.
func NewMemoryLayoutRepo() *MemoryLayoutRepo {
	return &MemoryLayoutRepo{
		data: make(map[string][]byte),
	}
}

// Save сохраняет копию раскладки.
func (r *MemoryLayoutRepo) Save(ctx context.Context, layout *Layout) error {
	if err := layout.Validate(); err != nil {
		return err
	}

	// Проверяем контекст на отмену
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	// Храним сериализованную копию, чтобы вызывающий не менял сохранённое
	data, err := json.Marshal(layout)
	if err != nil {
		return fmt.Errorf("marshal layout %s: %w", layout.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[layout.Name] = data
	return nil
}

// Load загружает раскладку из памяти.
func (r *MemoryLayoutRepo) Load(ctx context.Context, name string) (*Layout, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	r.mu.RLock()
	data, exists := r.data[name]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%s: %w", name, ErrLayoutNotFound)
	}

	var layout Layout
	if err := json.Unmarshal(data, &layout); err != nil {
		return nil, fmt.Errorf("unmarshal layout %s: %w", name, err)
	}
	return &layout, nil
}

// Delete удаляет раскладку из памяти.
func (r *MemoryLayoutRepo) Delete(ctx context.Context, name string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data[name]; !exists {
		return fmt.Errorf("%s: %w", name, ErrLayoutNotFound)
	}
	delete(r.data, name)
	return nil
}

// List возвращает имена сохранённых раскладок.
func (r *MemoryLayoutRepo) List(ctx context.Context) ([]string, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.data))
	for name := range r.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Close для памяти ничего не делает.
func (r *MemoryLayoutRepo) Close() error { return nil }

// Count возвращает количество сохраненных раскладок (для отладки).
func (r *MemoryLayoutRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}
