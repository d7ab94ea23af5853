package collision

import (
	"fmt"
	"strings"

	"github.com/annel0/zonegrid/internal/physics"
)

// ID идентификатор коллайдера или триггера. Выдаётся движком монотонно, 0 не используется.
type ID uint64

// ColliderType класс поведения коллайдера при столкновении
type ColliderType uint8

const (
	TypeNone ColliderType = iota
	TypeSolid
	TypeWater
	TypeTrigger
	TypeDecoration
	TypeWall
)

var colliderTypeNames = [...]string{
	TypeNone:       "none",
	TypeSolid:      "solid",
	TypeWater:      "water",
	TypeTrigger:    "trigger",
	TypeDecoration: "decoration",
	TypeWall:       "wall",
}

// String возвращает строковое представление типа
func (t ColliderType) String() string {
	if int(t) < len(colliderTypeNames) {
		return colliderTypeNames[t]
	}
	return "unknown"
}

// MarshalText нужен для JSON-отладки и API
func (t ColliderType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText принимает только известные имена типов
func (t *ColliderType) UnmarshalText(text []byte) error {
	typ, ok := ParseColliderType(string(text))
	if !ok {
		return fmt.Errorf("unknown collider type %q", text)
	}
	*t = typ
	return nil
}

// ParseColliderType разбирает тип из данных уровня.
// Пустая строка: TypeNone. Нераспознанная строка: TypeSolid и ok=false.
func ParseColliderType(s string) (ColliderType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return TypeNone, true
	}
	for i, name := range colliderTypeNames {
		if name == s {
			return ColliderType(i), true
		}
	}
	return TypeSolid, false
}

// Blocks сообщает, участвует ли тип в проверке столкновений (всё, кроме NONE)
func (t ColliderType) Blocks() bool {
	return t != TypeNone
}

// Standable сообщает, можно ли стоять на коллайдере (не NONE и не WATER)
func (t ColliderType) Standable() bool {
	return t != TypeNone && t != TypeWater
}

// CellKey ключ ячейки сетки: (floor(x/cellSize), floor(z/cellSize))
type CellKey struct {
	X, Z int
}

// Collider статический или полустатический объект мира в сетке.
// Cells всегда совпадает с ячейками, которые покрывает AABB коллайдера.
type Collider struct {
	ID    ID
	X, Z  float64
	Shape physics.Shape
	Type  ColliderType
	Data  any
	Cells []CellKey
}

// Top возвращает высоту верхней грани коллайдера
func (c *Collider) Top(unbounded float64) float64 {
	return c.Shape.TopHeight(unbounded)
}

// EventKind вид события триггера
type EventKind uint8

const (
	EventEnter EventKind = iota + 1
	EventExit
)

// String возвращает "enter" или "exit"
func (k EventKind) String() string {
	switch k {
	case EventEnter:
		return "enter"
	case EventExit:
		return "exit"
	default:
		return "unknown"
	}
}

// MarshalText нужен для JSON-сериализации событий
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText разбирает "enter" / "exit"
func (k *EventKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "enter":
		*k = EventEnter
	case "exit":
		*k = EventExit
	default:
		return fmt.Errorf("unknown event kind %q", text)
	}
	return nil
}

// TriggerEvent событие пересечения границы триггера
type TriggerEvent struct {
	Kind    EventKind
	Trigger Trigger // копия состояния триггера после перехода
	PlayerX float64
	PlayerZ float64
}

// TriggerHandler получает события входа/выхода. Вызывается синхронно
// внутри CheckTriggers ровно один раз на каждое пересечение границы.
type TriggerHandler interface {
	OnTriggerEvent(ev TriggerEvent)
}

// TriggerHandlerFunc адаптер функции к TriggerHandler
type TriggerHandlerFunc func(ev TriggerEvent)

// OnTriggerEvent вызывает f(ev)
func (f TriggerHandlerFunc) OnTriggerEvent(ev TriggerEvent) {
	f(ev)
}

// Trigger зона без блокировки, сообщающая о входе и выходе.
// В сетку не попадает. WasInside: единственное изменяемое состояние.
type Trigger struct {
	ID        ID
	X, Z      float64
	Shape     physics.Shape
	Handler   TriggerHandler
	Data      any
	WasInside bool
}

// MoveResult результат разрешения движения
type MoveResult struct {
	X, Z     float64
	Collided bool
	// Collider: коллайдер, заблокировавший полное перемещение
	Collider *Collider
}

// Landing результат поиска поверхности для приземления
type Landing struct {
	CanLand  bool
	LandingY float64
	Collider *Collider
}

// Stats статистика движка
type Stats struct {
	ColliderCount       int     `json:"colliderCount"`
	TriggerCount        int     `json:"triggerCount"`
	GridCellCount       int     `json:"gridCellCount"`
	AvgCollidersPerCell float64 `json:"avgCollidersPerCell"`
}
