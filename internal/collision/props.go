package collision

import (
	"github.com/annel0/zonegrid/internal/logging"
	"github.com/annel0/zonegrid/internal/physics"
)

// ShapeSpec форма в данных уровня (YAML/JSON). Kind: строка: circle, sphere,
// cylinder, box. Неизвестный вид не отклоняется, а деградирует до AABB ±1.
type ShapeSpec struct {
	Kind   string        `json:"kind" yaml:"kind"`
	Radius float64       `json:"radius,omitempty" yaml:"radius,omitempty"`
	Size   physics.Size3 `json:"size,omitempty" yaml:"size,omitempty"`
	Height float64       `json:"height,omitempty" yaml:"height,omitempty"`
}

// Shape переводит описание в форму движка
func (s ShapeSpec) Shape() physics.Shape {
	return physics.Shape{
		Kind:   physics.ParseShapeKind(s.Kind),
		Radius: s.Radius,
		Size:   s.Size,
		Height: s.Height,
	}
}

// SpecFromShape обратное преобразование (для сохранения сгенерированных уровней)
func SpecFromShape(shape physics.Shape) ShapeSpec {
	return ShapeSpec{
		Kind:   shape.Kind.String(),
		Radius: shape.Radius,
		Size:   shape.Size,
		Height: shape.Height,
	}
}

// Prop объект уровня с метаданными коллизии
type Prop struct {
	Name  string         `json:"name" yaml:"name"`
	X     float64        `json:"x" yaml:"x"`
	Z     float64        `json:"z" yaml:"z"`
	Shape ShapeSpec      `json:"shape" yaml:"shape"`
	Type  string         `json:"type" yaml:"type"`
	Meta  map[string]any `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// PropData полезная нагрузка коллайдера, созданного из Prop
type PropData struct {
	Name string
	Meta map[string]any
}

// AddPropsColliders добавляет коллайдеры для пачки объектов уровня.
// Объекты с типом none (или без типа) и trigger пропускаются: триггеры
// регистрируются отдельно через AddTrigger вместе с обработчиком.
func (e *Engine) AddPropsColliders(props []Prop) []ID {
	ids := make([]ID, 0, len(props))
	skipped := 0
	for _, p := range props {
		typ, ok := ParseColliderType(p.Type)
		if !ok {
			logging.Warn("Prop %q: неизвестный тип коллизии %q, используется solid", p.Name, p.Type)
		}
		if typ == TypeNone || typ == TypeTrigger {
			skipped++
			continue
		}
		id := e.AddCollider(p.X, p.Z, p.Shape.Shape(), typ, PropData{Name: p.Name, Meta: p.Meta})
		ids = append(ids, id)
	}
	logging.Debug("Props added: %d colliders, %d skipped", len(ids), skipped)
	return ids
}
