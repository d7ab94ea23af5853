package room

import (
	"github.com/annel0/zonegrid/internal/collision"
)

// Probe перемещение пробного агента за один тик
type Probe struct {
	FromX  float64 `json:"fromX"`
	FromZ  float64 `json:"fromZ"`
	ToX    float64 `json:"toX"`
	ToZ    float64 `json:"toZ"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

// ProbeEvent событие триггера без обработчика и служебных полей
type ProbeEvent struct {
	Kind      collision.EventKind `json:"kind"`
	TriggerID collision.ID        `json:"triggerId"`
	Zone      any                 `json:"zone,omitempty"`
}

// ProbeResult итог тика: куда агент сдвинулся, на что может встать, какие зоны пересёк
type ProbeResult struct {
	X          float64        `json:"x"`
	Z          float64        `json:"z"`
	Collided   bool           `json:"collided"`
	BlockerID  collision.ID   `json:"blockerId,omitempty"`
	CanLand    bool           `json:"canLand"`
	LandingY   float64        `json:"landingY"`
	PlatformID collision.ID   `json:"platformId,omitempty"`
	Events     []ProbeEvent   `json:"events"`
	Active     []collision.ID `json:"activeTriggers"`
}

// RunProbe выполняет типичный серверный тик для одного агента:
// движение со скольжением, проверку приземления и триггеров в новой точке.
func RunProbe(e *collision.Engine, p Probe) ProbeResult {
	move := e.CheckMovement(p.FromX, p.FromZ, p.ToX, p.ToZ, p.Radius, p.Y)
	res := ProbeResult{
		X:        move.X,
		Z:        move.Z,
		Collided: move.Collided,
		Events:   []ProbeEvent{},
		Active:   []collision.ID{},
	}
	if move.Collider != nil {
		res.BlockerID = move.Collider.ID
	}

	landing := e.CheckLanding(move.X, move.Z, p.Y, p.Radius)
	res.CanLand = landing.CanLand
	res.LandingY = landing.LandingY
	if landing.Collider != nil {
		res.PlatformID = landing.Collider.ID
	}

	for _, ev := range e.CheckTriggers(move.X, move.Z, p.Radius) {
		res.Events = append(res.Events, ProbeEvent{
			Kind:      ev.Kind,
			TriggerID: ev.Trigger.ID,
			Zone:      ev.Trigger.Data,
		})
	}
	for _, t := range e.GetActiveTriggers(move.X, move.Z, p.Radius) {
		res.Active = append(res.Active, t.ID)
	}
	return res
}

// Probe выполняет RunProbe в комнате id
func (m *Manager) Probe(id string, p Probe) (ProbeResult, error) {
	var res ProbeResult
	err := m.WithRoom(id, func(e *collision.Engine) error {
		res = RunProbe(e, p)
		return nil
	})
	return res, err
}
