package physics

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ShapeKind вид формы коллайдера
type ShapeKind uint8

const (
	// ShapeUnknown встречается только в данных извне (уровни из файлов/БД)
	ShapeUnknown ShapeKind = iota
	ShapeCircle
	ShapeBox
)

// String возвращает строковое представление вида формы
func (k ShapeKind) String() string {
	switch k {
	case ShapeCircle:
		return "circle"
	case ShapeBox:
		return "box"
	default:
		return "unknown"
	}
}

// ParseShapeKind разбирает вид формы из данных уровня.
// "sphere" и "cylinder": синонимы круга на плоскости земли.
func ParseShapeKind(s string) ShapeKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "circle", "sphere", "cylinder":
		return ShapeCircle
	case "box", "cube", "rect":
		return ShapeBox
	default:
		return ShapeUnknown
	}
}

// Size3 размеры бокса: X, Z: по плоскости земли, Y: высота
type Size3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Shape форма коллайдера или триггера.
// Для круга используется Radius, для бокса: Size. Height (если > 0)
// переопределяет высоту верхней грани.
type Shape struct {
	Kind   ShapeKind
	Radius float64
	Size   Size3
	Height float64
}

var (
	ErrInvalidRadius = errors.New("radius must be positive")
	ErrInvalidSize   = errors.New("box size must be positive on X and Z")
	ErrUnknownKind   = errors.New("unknown shape kind")
)

// NewCircle создаёт круглую форму (цилиндр, если задана высота)
func NewCircle(radius, height float64) Shape {
	return Shape{Kind: ShapeCircle, Radius: radius, Height: height}
}

// NewBox создаёт прямоугольную форму по размерам
func NewBox(size Size3) Shape {
	return Shape{Kind: ShapeBox, Size: size}
}

// Validate проверяет форму на этапе авторинга уровня.
// Движок сам не вызывает Validate: невалидная форма деградирует, а не падает.
func (s Shape) Validate() error {
	switch s.Kind {
	case ShapeCircle:
		if !positive(s.Radius) {
			return fmt.Errorf("circle: %w (got %v)", ErrInvalidRadius, s.Radius)
		}
	case ShapeBox:
		if !positive(s.Size.X) || !positive(s.Size.Z) {
			return fmt.Errorf("box: %w (got %vx%v)", ErrInvalidSize, s.Size.X, s.Size.Z)
		}
	default:
		return ErrUnknownKind
	}
	return nil
}

// TopHeight возвращает высоту верхней грани: Height, иначе Size.Y,
// иначе unbounded (форма без высоты блокирует на любой высоте).
func (s Shape) TopHeight(unbounded float64) float64 {
	if s.Height > 0 {
		return s.Height
	}
	if s.Size.Y > 0 {
		return s.Size.Y
	}
	return unbounded
}

// AABB ограничивающий прямоугольник на плоскости земли
type AABB struct {
	MinX, MinZ float64
	MaxX, MaxZ float64
}

// Bounds вычисляет AABB формы с центром в (x, z).
// Неизвестный вид получает квадрат ±defaultExtent. Отрицательные размеры
// берутся по модулю, NaN и бесконечность схлопываются в точку.
func (s Shape) Bounds(x, z, defaultExtent float64) AABB {
	var hx, hz float64
	switch s.Kind {
	case ShapeCircle:
		hx = extent(s.Radius)
		hz = hx
	case ShapeBox:
		hx, hz = extent(s.Size.X/2), extent(s.Size.Z/2)
	default:
		hx, hz = defaultExtent, defaultExtent
	}
	return AABB{MinX: x - hx, MinZ: z - hz, MaxX: x + hx, MaxZ: z + hz}
}

// extent приводит полуразмер из данных уровня к конечному неотрицательному числу
func extent(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Abs(v)
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
