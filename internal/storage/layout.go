package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/annel0/zonegrid/internal/collision"
)

// ErrLayoutNotFound раскладка с таким именем не сохранена
var ErrLayoutNotFound = errors.New("layout not found")

// Layout раскладка комнаты: объекты уровня и зоны-триггеры.
// Создаётся слоем авторинга уровней, движок только потребляет её.
type Layout struct {
	Name string `json:"name" yaml:"name"`
	// CellSize переопределяет размер ячейки сетки для этой комнаты (0: из конфига)
	CellSize float64          `json:"cellSize,omitempty" yaml:"cell_size,omitempty"`
	Props    []collision.Prop `json:"props" yaml:"props"`
	Zones    []Zone           `json:"zones,omitempty" yaml:"zones,omitempty"`
}

// Zone зона-триггер раскладки
type Zone struct {
	Name  string              `json:"name" yaml:"name"`
	X     float64             `json:"x" yaml:"x"`
	Z     float64             `json:"z" yaml:"z"`
	Shape collision.ShapeSpec `json:"shape" yaml:"shape"`
}

// Validate проверяет раскладку перед сохранением.
// При загрузке проверка не выполняется: движок деградирует на плохих формах.
func (l *Layout) Validate() error {
	if l == nil {
		return errors.New("layout is nil")
	}
	if l.Name == "" {
		return errors.New("layout name is required")
	}
	if l.CellSize < 0 {
		return fmt.Errorf("layout %s: negative cell size %v", l.Name, l.CellSize)
	}
	for i, p := range l.Props {
		typ, ok := collision.ParseColliderType(p.Type)
		if !ok {
			return fmt.Errorf("layout %s: prop %d (%s): unknown collision type %q", l.Name, i, p.Name, p.Type)
		}
		if typ == collision.TypeNone {
			continue
		}
		if err := p.Shape.Shape().Validate(); err != nil {
			return fmt.Errorf("layout %s: prop %d (%s): %w", l.Name, i, p.Name, err)
		}
	}
	for i, z := range l.Zones {
		if err := z.Shape.Shape().Validate(); err != nil {
			return fmt.Errorf("layout %s: zone %d (%s): %w", l.Name, i, z.Name, err)
		}
	}
	return nil
}

// LayoutRepo определяет интерфейс хранилища раскладок комнат.
type LayoutRepo interface {
	// Save сохраняет (или перезаписывает) раскладку. Невалидная раскладка отклоняется.
	Save(ctx context.Context, layout *Layout) error

	// Load загружает раскладку по имени. Если её нет: ErrLayoutNotFound.
	Load(ctx context.Context, name string) (*Layout, error)

	// Delete удаляет раскладку. Если её нет: ErrLayoutNotFound.
	Delete(ctx context.Context, name string) error

	// List возвращает отсортированные имена сохранённых раскладок.
	List(ctx context.Context) ([]string, error)

	// Close освобождает ресурсы хранилища.
	Close() error
}
